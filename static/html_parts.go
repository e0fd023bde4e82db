// Package static renders the diagram page: the build form, the chart, a
// summary of the subdivision and the log of the build.
package static

import (
	"html/template"
	"io"
)

// Form holds the values the form is filled in with.
type Form struct {
	Width, Height int
	Sites         int
	Random        bool
	Seed          int64
	Tolerance     float64
	Validate      bool
}

// Summary counts what the build produced.
type Summary struct {
	Sites     int
	Skipped   int
	Cells     int
	Vertices  int
	HalfEdges int
	Took      string
}

// Page is everything shown on one response.
type Page struct {
	Form    Form
	Summary Summary
	Chart   template.HTML
	Logs    template.HTML
}

var page = template.Must(template.New("page").Parse(pageHTML))

// Render writes the whole page to w.
func Render(w io.Writer, p Page) error {
	return page.Execute(w, p)
}

const pageHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Диаграмма Вороного (DCEL)</title>
    <style>
        body {
            margin: 0;
            background: #1f1f1f;
            color: #d3d3d3;
            font-family: Consolas, monospace;
        }
        main { display: grid; grid-template-columns: 1fr 1fr; height: 100vh; }
        section { padding: 12px; box-sizing: border-box; overflow: auto; }
        #log-pane { border-left: 4px solid #757575; background: #1e1e1e; }
        #logs { white-space: pre-wrap; word-wrap: break-word; }
        fieldset { border: 1px solid #444; margin-bottom: 10px; }
        legend, label, h2 { color: #d3d3d3; }
        label { display: inline-block; width: 190px; }
        input {
            background: #2b2b2b;
            color: #d3d3d3;
            border: 1px solid #444;
            border-radius: 4px;
            padding: 4px;
            margin: 3px 0;
        }
        input[type="checkbox"] { accent-color: #757575; }
        input[type="submit"]:hover { background: #444; cursor: pointer; }
        table { border-collapse: collapse; margin: 10px 0; }
        td { border: 1px solid #444; padding: 3px 10px; }
    </style>
</head>
<body>
<main>
    <section id="diagram-pane">
        <h2>Инкрементальное построение диаграммы Вороного</h2>
        <form id="diagram-form" method="POST" action="/">
            <fieldset>
                <legend>Рамка</legend>
                <label for="width">Ширина (W):</label>
                <input type="number" id="width" name="width" value="{{.Form.Width}}" min="100" max="5000"><br>
                <label for="height">Высота (H):</label>
                <input type="number" id="height" name="height" value="{{.Form.Height}}" min="100" max="5000">
            </fieldset>
            <fieldset>
                <legend>Сайты</legend>
                <label for="stations">Количество (n):</label>
                <input type="number" id="stations" name="stations" value="{{.Form.Sites}}" min="0" max="300"><br>
                <label for="random">Случайные:</label>
                <input type="checkbox" id="random" name="random" value="true" {{if .Form.Random}}checked{{end}}><br>
                <label for="seed">Seed (0 = время):</label>
                <input type="number" id="seed" name="seed" value="{{.Form.Seed}}">
            </fieldset>
            <fieldset>
                <legend>Построение</legend>
                <label for="tolerance">Точность (eps):</label>
                <input type="text" id="tolerance" name="tolerance" value="{{.Form.Tolerance}}"><br>
                <label for="validate">Проверять DCEL:</label>
                <input type="checkbox" id="validate" name="validate" value="true" {{if .Form.Validate}}checked{{end}}>
            </fieldset>
            <input type="submit" value="Построить">
        </form>

        {{.Chart}}

        <table id="summary">
            <tr><td>Сайтов</td><td id="sites">{{.Summary.Sites}}</td></tr>
            <tr><td>Пропущено</td><td id="skipped">{{.Summary.Skipped}}</td></tr>
            <tr><td>Ячеек</td><td id="cells">{{.Summary.Cells}}</td></tr>
            <tr><td>Вершин</td><td id="vertices">{{.Summary.Vertices}}</td></tr>
            <tr><td>Полуребер</td><td id="half-edges">{{.Summary.HalfEdges}}</td></tr>
            <tr><td>Время</td><td id="took">{{.Summary.Took}}</td></tr>
        </table>
    </section>
    <section id="log-pane">
        <h2>Логи</h2>
        <div id="logs">{{.Logs}}</div>
    </section>
</main>
</body>
</html>
`
