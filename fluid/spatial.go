package fluid

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// CellKey identifies one grid cell. The cell x coordinate occupies the high
// 32 bits and y the low 32 bits, so distinct cells never share a key.
type CellKey uint64

// Entry is one (cell, particle) pair in the sorted index.
type Entry struct {
	Key   CellKey
	Index int
}

// SpatialHash bins particle indices into square cells whose side equals the
// interaction radius. It is rebuilt from scratch every step.
type SpatialHash struct {
	cellSize float64
	entries  []Entry
	start    map[CellKey]int
}

// NewSpatialHash creates an empty hash with the given cell size.
func NewSpatialHash(cellSize float64) *SpatialHash {
	return &SpatialHash{
		cellSize: cellSize,
		start:    make(map[CellKey]int),
	}
}

// CellSize returns the cell side length, which is also the query radius.
func (h *SpatialHash) CellSize() float64 {
	return h.cellSize
}

// SetCellSize changes the cell size. The index is stale until the next Rebuild.
func (h *SpatialHash) SetCellSize(size float64) {
	h.cellSize = size
}

// CellCoord returns the integer cell containing p.
func (h *SpatialHash) CellCoord(p r2.Vec) (cx, cy int32) {
	return floorCell(p.X / h.cellSize), floorCell(p.Y / h.cellSize)
}

func floorCell(v float64) int32 {
	f := math.Floor(v)
	switch {
	case math.IsNaN(f):
		return 0
	case f < math.MinInt32:
		return math.MinInt32
	case f > math.MaxInt32:
		return math.MaxInt32
	}
	return int32(f)
}

// Key packs a cell coordinate into a CellKey.
func Key(cx, cy int32) CellKey {
	return CellKey(uint64(uint32(cx))<<32 | uint64(uint32(cy)))
}

// Rebuild indexes every position. After it returns, Entries is sorted by key
// and each index 0..len(pos)-1 appears exactly once.
func (h *SpatialHash) Rebuild(pos []r2.Vec) {
	h.entries = h.entries[:0]
	clear(h.start)
	if h.cellSize <= 0 {
		return
	}

	for i, p := range pos {
		h.entries = append(h.entries, Entry{Key: Key(h.CellCoord(p)), Index: i})
	}
	slices.SortStableFunc(h.entries, func(a, b Entry) int {
		return cmp.Compare(a.Key, b.Key)
	})

	for i, e := range h.entries {
		if i == 0 || h.entries[i-1].Key != e.Key {
			h.start[e.Key] = i
		}
	}
}

// Entries returns the sorted (key, index) sequence from the last Rebuild.
func (h *SpatialHash) Entries() []Entry {
	return h.entries
}

// Start returns the first position of key in Entries.
func (h *SpatialHash) Start(key CellKey) (int, bool) {
	i, ok := h.start[key]
	return i, ok
}

// ForEachNeighbor calls fn for every indexed particle strictly closer than
// the cell size to p. It scans the 3x3 block of cells around p, so any
// particle within the radius is visited even when it lives in an adjacent cell.
func (h *SpatialHash) ForEachNeighbor(p r2.Vec, pos []r2.Vec, fn func(j int, dist float64)) {
	radius := h.cellSize
	if radius <= 0 || len(h.entries) == 0 {
		return
	}
	cx, cy := h.CellCoord(p)

	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			nx, ny := cx+dx, cy+dy
			// Skip wrapped coordinates at the int32 edges
			if (dx < 0 && nx > cx) || (dx > 0 && nx < cx) || (dy < 0 && ny > cy) || (dy > 0 && ny < cy) {
				continue
			}
			key := Key(nx, ny)
			first, ok := h.start[key]
			if !ok {
				continue
			}
			for k := first; k < len(h.entries) && h.entries[k].Key == key; k++ {
				j := h.entries[k].Index
				d := r2.Norm(r2.Sub(pos[j], p))
				if d < radius {
					fn(j, d)
				}
			}
		}
	}
}
