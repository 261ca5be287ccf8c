package memory

import (
	"citysim/internal/domain/economy"

	"github.com/google/uuid"
)

// gridIndex buckets business positions into square cells so window queries
// only visit nearby cells.
type gridIndex struct {
	cellSize int
	cells    map[gridKey]map[uuid.UUID]struct{}
}

type gridKey struct {
	col int
	row int
}

func newGridIndex(cellSize int) *gridIndex {
	return &gridIndex{
		cellSize: max(cellSize, 1),
		cells:    make(map[gridKey]map[uuid.UUID]struct{}),
	}
}

func (g *gridIndex) key(x, y int) gridKey {
	return gridKey{col: x / g.cellSize, row: y / g.cellSize}
}

func (g *gridIndex) insert(id uuid.UUID, x, y int) {
	k := g.key(x, y)
	bucket, ok := g.cells[k]
	if !ok {
		bucket = make(map[uuid.UUID]struct{})
		g.cells[k] = bucket
	}
	bucket[id] = struct{}{}
}

func (g *gridIndex) remove(id uuid.UUID, x, y int) {
	k := g.key(x, y)
	bucket, ok := g.cells[k]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(g.cells, k)
	}
}

// candidates returns ids stored in cells overlapping the window. Callers
// still filter by exact position.
func (g *gridIndex) candidates(w economy.Window) []uuid.UUID {
	minKey, maxKey := g.key(w.MinX, w.MinY), g.key(w.MaxX, w.MaxY)

	var out []uuid.UUID
	for col := minKey.col; col <= maxKey.col; col++ {
		for row := minKey.row; row <= maxKey.row; row++ {
			for id := range g.cells[gridKey{col: col, row: row}] {
				out = append(out, id)
			}
		}
	}

	return out
}
