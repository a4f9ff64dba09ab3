package engine

import (
	"fmt"
	"math"
	"testing"

	"github.com/piwi3910/SawPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawX(pos, start, end float64) model.RawCut {
	return model.RawCut{Axis: model.AxisX, Pos: pos, SpanStart: start, SpanEnd: end}
}

func rawY(pos, start, end float64) model.RawCut {
	return model.RawCut{Axis: model.AxisY, Pos: pos, SpanStart: start, SpanEnd: end}
}

// assertDense checks orders, IDs and label counters run 0..n-1 without gaps.
func assertDense(t *testing.T, steps []model.CutStep) {
	t.Helper()
	for i, s := range steps {
		assert.Equal(t, i, s.Order)
		assert.Equal(t, fmt.Sprintf("cut-%d", i), s.ID)
		assert.Equal(t, Label(s.Axis, s.Pos, i), s.Label)
		assert.LessOrEqual(t, s.SpanStart, s.SpanEnd, "cut %d span not normalised", i)
		assert.Equal(t, model.SourceDerived, s.Source)
	}
}

func TestSequence_NormalisesAndDropsBadCuts(t *testing.T) {
	raw := []model.RawCut{
		rawX(100, 500, 0),
		rawX(100, 0, 500),
		rawY(math.NaN(), 0, 1000),
		rawY(200, 0, 1000),
	}

	steps := Sequence(raw, 3)
	require.Len(t, steps, 2)
	assertDense(t, steps)

	assert.Equal(t, model.AxisX, steps[0].Axis)
	assert.Equal(t, 100.0, steps[0].Pos)
	assert.Equal(t, 0.0, steps[0].SpanStart)
	assert.Equal(t, 500.0, steps[0].SpanEnd)
	assert.Equal(t, "Cut 1: rip (length) at x=100.0", steps[0].Label)

	assert.Equal(t, model.AxisY, steps[1].Axis)
	assert.Equal(t, 200.0, steps[1].Pos)
	assert.Equal(t, "cut-1", steps[1].ID)
	assert.Equal(t, "Cut 2: crosscut (width) at y=200.0", steps[1].Label)

	for _, s := range steps {
		assert.Equal(t, 3.0, s.Kerf)
	}
}

func TestSequence_DropsNonFiniteSpans(t *testing.T) {
	raw := []model.RawCut{
		rawX(100, 0, math.Inf(1)),
		rawY(50, math.Inf(-1), 400),
		rawX(math.Inf(1), 0, 500),
		rawY(250, 0, 1000),
	}

	steps := Sequence(raw, 3)
	require.Len(t, steps, 1)
	assertDense(t, steps)
	assert.Equal(t, 250.0, steps[0].Pos)
	assert.Equal(t, "Cut 1: crosscut (width) at y=250.0", steps[0].Label)
}

func TestSequence_DuplicatesAfterRoundingKeepFirst(t *testing.T) {
	raw := []model.RawCut{
		rawX(100.2, 0, 500),
		rawX(99.9, 0.3, 499.8),
		rawX(300, 0, 500),
	}

	steps := Sequence(raw, 3)
	require.Len(t, steps, 2)
	assertDense(t, steps)
	assert.Equal(t, 100.2, steps[0].Pos)
	assert.Equal(t, 300.0, steps[1].Pos)
	assert.Equal(t, "Cut 2: rip (length) at x=300.0", steps[1].Label)
}

func TestSequence_SamePositionOtherAxisIsKept(t *testing.T) {
	steps := Sequence([]model.RawCut{rawX(100, 0, 500), rawY(100, 0, 500)}, 3)
	require.Len(t, steps, 2)
	assertDense(t, steps)
}

func TestSequence_SameLineDifferentSpansAreKept(t *testing.T) {
	steps := Sequence([]model.RawCut{rawY(100, 0, 100), rawY(100, 200, 300)}, 3)
	require.Len(t, steps, 2)
	assertDense(t, steps)
	assert.Equal(t, 200.0, steps[1].SpanStart)
}

func TestSequence_KeepsInputOrder(t *testing.T) {
	raw := []model.RawCut{
		rawY(300, 0, 1000),
		rawX(50, 0, 500),
		rawY(100, 0, 1000),
	}

	steps := Sequence(raw, 3)
	require.Len(t, steps, 3)
	assertDense(t, steps)
	assert.Equal(t, []float64{300, 50, 100}, []float64{steps[0].Pos, steps[1].Pos, steps[2].Pos})
}

func TestSequence_CarriesWorkpieceContext(t *testing.T) {
	before := model.Dimensions{Width: 1000, Height: 500}
	result := model.Dimensions{Width: 400, Height: 500}
	c := rawX(400, 0, 500)
	c.Before = before
	c.Result = result

	steps := Sequence([]model.RawCut{c}, 3.2)
	require.Len(t, steps, 1)
	assert.Equal(t, before, steps[0].Before)
	assert.Equal(t, result, steps[0].Result)
	assert.Equal(t, 3.2, steps[0].Kerf)
}

func TestSequence_Empty(t *testing.T) {
	steps := Sequence(nil, 3)
	assert.NotNil(t, steps)
	assert.Empty(t, steps)

	steps = Sequence([]model.RawCut{rawX(math.NaN(), 0, 500)}, 3)
	assert.NotNil(t, steps)
	assert.Empty(t, steps)
}
