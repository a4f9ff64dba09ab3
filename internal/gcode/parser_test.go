package gcode

import (
	"math"
	"testing"
	"time"
)

func TestParse_Empty(t *testing.T) {
	moves := Parse("")
	if len(moves) != 0 {
		t.Errorf("expected 0 moves for empty input, got %d", len(moves))
	}
}

func TestParse_CommentsOnly(t *testing.T) {
	code := `; This is a comment
; Another comment
(parenthetical comment)
( Cut 1: crosscut [width] at y=250.0 )
`
	moves := Parse(code)
	if len(moves) != 0 {
		t.Errorf("expected 0 moves for comments-only input, got %d", len(moves))
	}
}

func TestParse_RapidMove(t *testing.T) {
	moves := Parse("G0 X10.000 Y20.000\n")
	if len(moves) != 1 {
		t.Fatalf("expected 1 move, got %d", len(moves))
	}
	m := moves[0]
	if m.Type != MoveRapid {
		t.Errorf("expected MoveRapid, got %s", m.Type)
	}
	if m.FromX != 0 || m.FromY != 0 {
		t.Errorf("expected from (0,0), got (%.3f, %.3f)", m.FromX, m.FromY)
	}
	if m.ToX != 10 || m.ToY != 20 {
		t.Errorf("expected to (10,20), got (%.3f, %.3f)", m.ToX, m.ToY)
	}
}

func TestParse_FeedMove(t *testing.T) {
	moves := Parse("G0 X0.000 Y0.000\nG1 X100.000 Y0.000 F1500.0\n")
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	m := moves[1]
	if m.Type != MoveFeed {
		t.Errorf("expected MoveFeed, got %s", m.Type)
	}
	if m.FeedRate != 1500 {
		t.Errorf("expected feed rate 1500, got %.1f", m.FeedRate)
	}
	if m.XYLength() != 100 {
		t.Errorf("expected XY length 100, got %.3f", m.XYLength())
	}
}

func TestParse_PlungeAndRetract(t *testing.T) {
	code := "G0 X10.000 Y10.000\nG0 Z5.000\nG1 Z-6.000 F500.0\nG0 Z5.000\n"
	moves := Parse(code)
	if len(moves) != 4 {
		t.Fatalf("expected 4 moves, got %d", len(moves))
	}
	if moves[2].Type != MovePlunge {
		t.Errorf("expected MovePlunge, got %s", moves[2].Type)
	}
	if moves[2].FromZ != 5 || moves[2].ToZ != -6 {
		t.Errorf("expected Z from 5 to -6, got %.3f to %.3f", moves[2].FromZ, moves[2].ToZ)
	}
	if moves[3].Type != MoveRetract {
		t.Errorf("expected MoveRetract, got %s", moves[3].Type)
	}
}

func TestParse_InlineComments(t *testing.T) {
	code := "G1 X50.000 Y50.000 F1500.0 ; cutting move\nG1 (mid-line) X60.000 Y50.000\n"
	moves := Parse(code)
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	if moves[0].ToX != 50 || moves[0].ToY != 50 {
		t.Errorf("expected to (50,50), got (%.3f, %.3f)", moves[0].ToX, moves[0].ToY)
	}
	if moves[1].ToX != 60 {
		t.Errorf("expected X60 after stripping comment, got %.3f", moves[1].ToX)
	}
}

func TestParse_NonMovementLines(t *testing.T) {
	code := `G90
G21
G17
G10 L2 P1 X0
M3 S18000
G0 X0.000 Y0.000
G0 Z5.000
`
	moves := Parse(code)
	if len(moves) != 2 {
		t.Errorf("expected 2 moves (only G0 lines), got %d", len(moves))
	}
}

func TestParse_FeedRateSticky(t *testing.T) {
	code := "G1 X10.000 Y10.000 F1500.0\nG1 X20.000 Y20.000\n"
	moves := Parse(code)
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	if moves[1].FeedRate != 1500 {
		t.Errorf("expected sticky feed rate 1500, got %.1f", moves[1].FeedRate)
	}
}

func TestParse_NegativeCoordinates(t *testing.T) {
	moves := Parse("G0 X-3.000 Y-3.000\n")
	if len(moves) != 1 {
		t.Fatalf("expected 1 move, got %d", len(moves))
	}
	if moves[0].ToX != -3 || moves[0].ToY != -3 {
		t.Errorf("expected to (-3,-3), got (%.3f, %.3f)", moves[0].ToX, moves[0].ToY)
	}
}

func TestClassifyMove(t *testing.T) {
	tests := []struct {
		name    string
		isRapid bool
		fromZ   float64
		toZ     float64
		fromX   float64
		fromY   float64
		toX     float64
		toY     float64
		want    MoveType
	}{
		{"rapid XY", true, 5, 5, 0, 0, 10, 20, MoveRapid},
		{"rapid retract", true, -6, 5, 10, 20, 10, 20, MoveRetract},
		{"feed XY", false, -6, -6, 0, 0, 100, 0, MoveFeed},
		{"plunge", false, 5, -6, 10, 20, 10, 20, MovePlunge},
		{"retract feed", false, -6, 0, 10, 20, 10, 20, MoveRetract},
		{"feed with slight Z", false, -6, -6.0001, 0, 0, 100, 0, MoveFeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyMove(tt.isRapid, tt.fromZ, tt.toZ, tt.fromX, tt.fromY, tt.toX, tt.toY)
			if got != tt.want {
				t.Errorf("classifyMove() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	code := `G0 Z5.000
G0 X400.000 Y-10.000
G1 Z-9.000 F300.000
G1 X400.000 Y510.000 F1000.000
G0 Z5.000
G0 X0.000 Y0.000
`
	s := Analyze(code)

	if s.Plunges != 1 || s.Feeds != 1 || s.Retracts != 2 || s.Rapids != 2 {
		t.Errorf("unexpected move counts: %+v", s)
	}
	if s.FeedLength != 520 {
		t.Errorf("FeedLength = %.3f, want 520", s.FeedLength)
	}
	if s.MaxDepth != 9 {
		t.Errorf("MaxDepth = %.3f, want 9", s.MaxDepth)
	}
	if s.MinX != 400 || s.MaxX != 400 || s.MinY != -10 || s.MaxY != 510 {
		t.Errorf("unexpected bounds: x %.1f..%.1f y %.1f..%.1f", s.MinX, s.MaxX, s.MinY, s.MaxY)
	}

	// 520 mm at 1000 mm/min plus a 14 mm plunge at 300 mm/min
	want := 31.2 + 2.8
	if got := s.CutTime.Seconds(); math.Abs(got-want) > 0.01 {
		t.Errorf("CutTime = %.3fs, want %.3fs", got, want)
	}
}

func TestFeedTime(t *testing.T) {
	if got := feedTime(1000, 1000); got != time.Minute {
		t.Errorf("feedTime(1000, 1000) = %v, want 1m", got)
	}
	if got := feedTime(100, 0); got != 0 {
		t.Errorf("feedTime with zero feed = %v, want 0", got)
	}
}

func TestMoveTypeString(t *testing.T) {
	names := map[MoveType]string{
		MoveRapid:    "rapid",
		MoveFeed:     "feed",
		MovePlunge:   "plunge",
		MoveRetract:  "retract",
		MoveType(42): "unknown",
	}
	for mt, want := range names {
		if got := mt.String(); got != want {
			t.Errorf("MoveType(%d).String() = %q, want %q", int(mt), got, want)
		}
	}
}
