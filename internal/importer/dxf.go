package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/SawPlan/internal/model"
)

type point struct{ X, Y float64 }

// segment is a line between two points, used for chaining disconnected LINE
// entities into closed outlines.
type segment struct {
	start point
	end   point
}

// box is the axis-aligned bounding box of a closed outline.
type box struct {
	minX, minY, maxX, maxY float64
}

func (b box) width() float64  { return b.maxX - b.minX }
func (b box) height() float64 { return b.maxY - b.minY }
func (b box) area() float64   { return b.width() * b.height() }

func (b box) contains(o box, tol float64) bool {
	return o.minX >= b.minX-tol && o.minY >= b.minY-tol && o.maxX <= b.maxX+tol && o.maxY <= b.maxY+tol
}

// ImportDXF reads a nested layout from a DXF file. Every closed LWPOLYLINE or
// closed chain of LINEs becomes a placement at its bounding box. When one
// outline encloses all the others it is taken as the sheet: it sets
// ImportResult.Sheet and placements are made relative to its corner.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var boxes []box
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			pts := make([]point, len(e.Vertices))
			for i, v := range e.Vertices {
				pts[i] = point{X: v[0], Y: v[1]}
			}
			boxes = append(boxes, boundingBox(pts))
		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})
		default:
			// Unsupported entity types are silently skipped
		}
	}

	chains, open := chainSegments(segments, 0.01)
	for _, c := range chains {
		boxes = append(boxes, boundingBox(c))
	}
	if open > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d open line chain(s)", open))
	}

	if len(boxes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	// Largest first, then by position, for a stable panel order.
	sort.SliceStable(boxes, func(i, j int) bool {
		if boxes[i].area() != boxes[j].area() {
			return boxes[i].area() > boxes[j].area()
		}
		if boxes[i].minY != boxes[j].minY {
			return boxes[i].minY < boxes[j].minY
		}
		return boxes[i].minX < boxes[j].minX
	})

	origin := point{}
	if len(boxes) > 1 && enclosesAll(boxes[0], boxes[1:]) {
		sheet := boxes[0]
		result.Sheet = &model.Dimensions{Width: sheet.width(), Height: sheet.height()}
		origin = point{X: sheet.minX, Y: sheet.minY}
		boxes = boxes[1:]
	}

	for i, b := range boxes {
		if b.width() < 0.01 || b.height() < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f mm)", b.width(), b.height()))
			continue
		}
		result.Panels = append(result.Panels, model.PanelPlacement{
			ID:     fmt.Sprintf("dxf-%d", i+1),
			X:      b.minX - origin.X,
			Y:      b.minY - origin.Y,
			Width:  b.width(),
			Height: b.height(),
		})
	}

	return result
}

func enclosesAll(outer box, others []box) bool {
	for _, b := range others {
		if !outer.contains(b, 1e-6) {
			return false
		}
	}
	return true
}

func boundingBox(pts []point) box {
	b := box{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for _, p := range pts {
		b.minX = math.Min(b.minX, p.X)
		b.minY = math.Min(b.minY, p.Y)
		b.maxX = math.Max(b.maxX, p.X)
		b.maxY = math.Max(b.maxY, p.Y)
	}
	return b
}

// chainSegments connects segments into closed outlines. tolerance is the
// maximum distance between endpoints to consider them connected. A chain stops
// growing as soon as it closes, so outlines sharing a corner stay separate.
// It also returns how many chains did not close.
func chainSegments(segs []segment, tolerance float64) ([][]point, int) {
	used := make([]bool, len(segs))
	var outlines [][]point
	open := 0

	for startIdx := range segs {
		if used[startIdx] {
			continue
		}
		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		closed := func() bool {
			return len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance)
		}
		changed := true
		for changed && !closed() {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if closed() {
			outlines = append(outlines, chain[:len(chain)-1])
		} else {
			open++
		}
	}

	return outlines, open
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}
