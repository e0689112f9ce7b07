package spatial

import (
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// pointTolerance is the half-size of the rectangle stored for each point
const pointTolerance = 1e-9

// nodeEntry wraps a node position for R-tree storage
type nodeEntry struct {
	id   string
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *nodeEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// Index answers nearest-node queries over node positions
type Index struct {
	tree *rtreego.Rtree
	size int
}

// NewIndex creates a spatial index over coords
func NewIndex(coords Coordinates) *Index {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	ids := make([]string, 0, len(coords))
	for id := range coords {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		p := coords[id]
		tree.Insert(&nodeEntry{
			id:   id,
			bbox: rtreego.Point{p.X(), p.Y()}.ToRect(pointTolerance),
		})
	}

	return &Index{tree: tree, size: len(ids)}
}

// Len returns the number of indexed nodes
func (ix *Index) Len() int {
	return ix.size
}

// Nearest returns the id of the node closest to p
func (ix *Index) Nearest(p orb.Point) (string, bool) {
	if ix.size == 0 {
		return "", false
	}
	found := ix.tree.NearestNeighbor(rtreego.Point{p.X(), p.Y()})
	if found == nil {
		return "", false
	}
	return found.(*nodeEntry).id, true
}
