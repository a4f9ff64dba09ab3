package gcode

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MoveType represents the type of toolpath movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0: rapid positioning (no cutting)
	MoveFeed                    // G1: linear feed (cutting move in XY plane)
	MovePlunge                  // G1 with Z decreasing: plunging into material
	MoveRetract                 // G0/G1 with Z increasing: retracting from material
)

func (t MoveType) String() string {
	switch t {
	case MoveRapid:
		return "rapid"
	case MoveFeed:
		return "feed"
	case MovePlunge:
		return "plunge"
	case MoveRetract:
		return "retract"
	default:
		return "unknown"
	}
}

// Move represents a single parsed movement.
type Move struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

// XYLength returns the distance travelled in the XY plane.
func (m Move) XYLength() float64 {
	return math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)
}

var coordRe = regexp.MustCompile(`([XYZF])(-?\d+\.?\d*)`)

// Parse parses a GCode program into structured moves. It tracks absolute
// position state and classifies each G0/G1 command by its movement
// characteristics. Other commands are ignored.
func Parse(code string) []Move {
	var moves []Move

	curX, curY, curZ := 0.0, 0.0, 0.0
	curFeed := 0.0

	for _, line := range strings.Split(code, "\n") {
		line = stripComments(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		word := strings.Fields(upper)[0]
		isRapid := word == "G0" || word == "G00"
		isFeed := word == "G1" || word == "G01"
		if !isRapid && !isFeed {
			continue
		}

		newX, newY, newZ, newFeed := curX, curY, curZ, curFeed
		for _, m := range coordRe.FindAllStringSubmatch(upper, -1) {
			val, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				newX = val
			case "Y":
				newY = val
			case "Z":
				newZ = val
			case "F":
				newFeed = val
			}
		}

		moves = append(moves, Move{
			Type:     classifyMove(isRapid, curZ, newZ, curX, curY, newX, newY),
			FromX:    curX,
			FromY:    curY,
			FromZ:    curZ,
			ToX:      newX,
			ToY:      newY,
			ToZ:      newZ,
			FeedRate: newFeed,
		})

		curX, curY, curZ, curFeed = newX, newY, newZ, newFeed
	}

	return moves
}

// stripComments removes semicolon and parenthetical comments.
func stripComments(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	for {
		start := strings.Index(line, "(")
		if start < 0 {
			break
		}
		end := strings.Index(line[start:], ")")
		if end < 0 {
			line = line[:start]
			break
		}
		line = line[:start] + line[start+end+1:]
	}
	return strings.TrimSpace(line)
}

// classifyMove determines the MoveType based on movement characteristics.
func classifyMove(isRapid bool, fromZ, toZ, fromX, fromY, toX, toY float64) MoveType {
	zDelta := toZ - fromZ
	hasXY := fromX != toX || fromY != toY

	switch {
	case isRapid:
		if zDelta > 0 {
			return MoveRetract
		}
		return MoveRapid
	case zDelta < -0.001 && !hasXY:
		return MovePlunge
	case zDelta > 0.001 && !hasXY:
		return MoveRetract
	default:
		return MoveFeed
	}
}

// Summary reports what a program does, used to check generated output
// against the cut sequence and to estimate machine time.
type Summary struct {
	Rapids      int           `json:"rapids"`
	Feeds       int           `json:"feeds"`
	Plunges     int           `json:"plunges"`
	Retracts    int           `json:"retracts"`
	FeedLength  float64       `json:"feed_length"`  // XY distance cut, mm
	RapidLength float64       `json:"rapid_length"` // XY distance travelled at rapid, mm
	MaxDepth    float64       `json:"max_depth"`    // Deepest Z below zero, positive mm
	CutTime     time.Duration `json:"cut_time"`     // Feed and plunge time at programmed rates
	MinX        float64       `json:"min_x"`
	MinY        float64       `json:"min_y"`
	MaxX        float64       `json:"max_x"`
	MaxY        float64       `json:"max_y"`
}

// Analyze parses a program and totals its moves. Bounds cover cutting moves
// only. Rapid time is not estimated since it depends on the machine.
func Analyze(code string) Summary {
	var s Summary
	bounded := false
	grow := func(x, y float64) {
		if !bounded {
			s.MinX, s.MaxX, s.MinY, s.MaxY = x, x, y, y
			bounded = true
			return
		}
		s.MinX = math.Min(s.MinX, x)
		s.MaxX = math.Max(s.MaxX, x)
		s.MinY = math.Min(s.MinY, y)
		s.MaxY = math.Max(s.MaxY, y)
	}

	for _, m := range Parse(code) {
		switch m.Type {
		case MoveRapid:
			s.Rapids++
			s.RapidLength += m.XYLength()
		case MoveRetract:
			s.Retracts++
			s.RapidLength += m.XYLength()
		case MovePlunge:
			s.Plunges++
			s.CutTime += feedTime(m.FromZ-m.ToZ, m.FeedRate)
		case MoveFeed:
			s.Feeds++
			s.FeedLength += m.XYLength()
			s.CutTime += feedTime(math.Hypot(m.XYLength(), m.ToZ-m.FromZ), m.FeedRate)
			grow(m.FromX, m.FromY)
			grow(m.ToX, m.ToY)
		}
		if -m.ToZ > s.MaxDepth {
			s.MaxDepth = -m.ToZ
		}
	}
	return s
}

// feedTime converts a distance at a feed rate in mm/min to a duration.
func feedTime(dist, feed float64) time.Duration {
	if feed <= 0 || dist <= 0 {
		return 0
	}
	return time.Duration(dist / feed * float64(time.Minute))
}
