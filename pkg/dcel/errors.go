package dcel

import "github.com/pkg/errors"

var (
	// ErrMalformedInputGraph reports input or requested mutations that would
	// break the subdivision. The structure is left untouched.
	ErrMalformedInputGraph = errors.New("malformed input graph")

	// ErrPointOutsideDomain is returned by point location when no finite face
	// strictly contains the point, including points on a boundary edge.
	ErrPointOutsideDomain = errors.New("point outside domain")

	// ErrPointNotOnEdge is returned by SplitEdge for a point off the edge.
	ErrPointNotOnEdge = errors.New("point not on edge")

	// ErrRemoved is returned for handles to tombstoned entities.
	ErrRemoved = errors.New("entity removed")

	// ErrUnknownHandle is returned for handles never issued by this DCEL.
	ErrUnknownHandle = errors.New("unknown handle")
)

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedInputGraph, format, args...)
}
