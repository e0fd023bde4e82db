package dcel

import (
	"github.com/peterstace/simplefeatures/rtree"
	"go.uber.org/zap"
)

// Checkpoint is a saved state of a DCEL, see Rollback.
type Checkpoint struct {
	vertices  []vertexRecord
	halfEdges []halfEdgeRecord
	faces     []faceRecord
}

// Checkpoint records the current state so a sequence of mutations can be
// undone as a whole.
func (d *DCEL) Checkpoint() Checkpoint {
	return Checkpoint{
		vertices:  append([]vertexRecord(nil), d.vertices...),
		halfEdges: append([]halfEdgeRecord(nil), d.halfEdges...),
		faces:     append([]faceRecord(nil), d.faces...),
	}
}

// Rollback restores the state saved by cp. Handles created after cp no
// longer resolve. Both indexes are rebuilt from the restored records.
func (d *DCEL) Rollback(cp Checkpoint) {
	dropped := len(d.halfEdges) - len(cp.halfEdges)

	d.vertices = append([]vertexRecord(nil), cp.vertices...)
	d.halfEdges = append([]halfEdgeRecord(nil), cp.halfEdges...)
	d.faces = append([]faceRecord(nil), cp.faces...)

	d.faceIndex = rtree.RTree{}
	for i := range d.faces {
		r := &d.faces[i]
		if r.alive && r.indexed {
			d.faceIndex.Insert(toRTreeBox(r.box), i)
		}
	}
	d.vertexIndex = rtree.RTree{}
	for i, v := range d.vertices {
		if v.alive {
			d.indexVertex(VertexID(i))
		}
	}

	d.log.Debug("[dcel-rollback] Restored checkpoint",
		zap.Int("faces", d.NumFaces()), zap.Int("droppedHalfEdges", dropped))
}
