package grasp

import (
	"math"
	"slices"

	"github.com/akmonengine/grasp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// MAX_CELLS_PER_AXIS is the widest body, in cells, the grid will insert cell by cell.
// Wider bodies (planes) are kept aside and returned by every query.
const MAX_CELLS_PER_AXIS = 64

// CellKey is the integer coordinate of a cell
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the bodies overlapping it
type Cell struct {
	bodyIndices []int
}

// SpatialGrid is a uniform hashed grid used as the broad phase of raycasts
type SpatialGrid struct {
	cellSize  float64
	cells     []Cell
	cellMask  int
	oversized []int
	size      int
}

// NewSpatialGrid creates a grid of numCells hashed cells, rounded up to a power of two
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo rounds n up to the next power of two
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert adds a body index to every cell its AABB covers
func (sg *SpatialGrid) Insert(bodyIndex int, aabb actor.AABB) {
	sg.size = max(sg.size, bodyIndex+1)

	minCell, maxCell, ok := sg.cellRange(aabb)
	if !ok {
		sg.oversized = append(sg.oversized, bodyIndex)
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})

				// a body spanning several cells can hash twice into the same one
				if n := len(sg.cells[cellIdx].bodyIndices); n > 0 && sg.cells[cellIdx].bodyIndices[n-1] == bodyIndex {
					continue
				}
				sg.cells[cellIdx].bodyIndices = append(sg.cells[cellIdx].bodyIndices, bodyIndex)
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
	sg.oversized = sg.oversized[:0]
	sg.size = 0
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			slices.Sort(sg.cells[i].bodyIndices)
		}
	}
}

// QueryAABB returns the sorted, unique indices of the bodies that may overlap aabb.
// Oversized bodies are always part of the result.
func (sg *SpatialGrid) QueryAABB(aabb actor.AABB) []int {
	minCell, maxCell, ok := sg.cellRange(aabb)
	if !ok {
		// the query itself is too large for the cells: everything is a candidate
		all := make([]int, sg.size)
		for i := range all {
			all[i] = i
		}
		return all
	}

	candidates := append([]int(nil), sg.oversized...)
	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})
				candidates = append(candidates, sg.cells[cellIdx].bodyIndices...)
			}
		}
	}

	slices.Sort(candidates)
	return slices.Compact(candidates)
}

// cellRange returns the cells covered by aabb, false when it spans too many of them
func (sg *SpatialGrid) cellRange(aabb actor.AABB) (CellKey, CellKey, bool) {
	for i := 0; i < 3; i++ {
		span := (aabb.Max[i] - aabb.Min[i]) / sg.cellSize
		if math.IsNaN(span) || span > MAX_CELLS_PER_AXIS {
			return CellKey{}, CellKey{}, false
		}
	}

	return sg.worldToCell(aabb.Min), sg.worldToCell(aabb.Max), true
}

// worldToCell converts a world position to cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell maps a cell to its slot in the cell array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
