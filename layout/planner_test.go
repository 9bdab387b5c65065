package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanLayoutDerivedCanvas(t *testing.T) {
	box := PageBox{Width: 288, Height: 200}

	t.Run("two copies with 9pt gap", func(t *testing.T) {
		spec := LayoutSpec{Copies: 2, DieGap: 0.125} // 9pt
		plan, err := PlanLayout(box, spec)
		require.NoError(t, err)

		assert.InDelta(t, 288.0, plan.CanvasWidth, 1e-9)
		assert.InDelta(t, 409.0, plan.CanvasHeight, 1e-9)
		require.Len(t, plan.DieCenters, 2)
		assert.InDelta(t, 100.0, plan.DieCenters[0], 1e-9)
		assert.InDelta(t, 309.0, plan.DieCenters[1], 1e-9)
	})

	t.Run("bleed extends canvas and shifts centers", func(t *testing.T) {
		spec := LayoutSpec{Copies: 3, DieGap: 0.125, Bleed: 0.25} // 9pt gap, 18pt bleed
		plan, err := PlanLayout(box, spec)
		require.NoError(t, err)

		assert.InDelta(t, 3*200+2*9+2*18, plan.CanvasHeight, 1e-9)
		assert.InDelta(t, 18+100, plan.DieCenters[0], 1e-9)
	})

	t.Run("die gap is exact between unscaled boundaries", func(t *testing.T) {
		spec := LayoutSpec{Copies: 5, DieGap: 0.12}
		plan, err := PlanLayout(box, spec)
		require.NoError(t, err)

		for i := 0; i < len(plan.DieCenters)-1; i++ {
			top := plan.DieCenters[i] + box.Height/2
			bottom := plan.DieCenters[i+1] - box.Height/2
			assert.InDelta(t, spec.GapPoints(), bottom-top, 1e-9)
		}
	})

	t.Run("canvas width unchanged by uniform scaling", func(t *testing.T) {
		spec := LayoutSpec{Copies: 2, DieGap: 0.12, ScaleMode: ScaleUniform, ScalePercent: 4}
		plan, err := PlanLayout(box, spec)
		require.NoError(t, err)
		assert.InDelta(t, box.Width, plan.CanvasWidth, 1e-9)
	})
}

// Die centers must not move when scaling is introduced: the cutting die does
// not know the art was stretched.
func TestPlanLayoutCentersInvariantUnderScaling(t *testing.T) {
	box := PageBox{Width: 288, Height: 144}
	base := LayoutSpec{Copies: 4, DieGap: 0.12, Bleed: 0.0625}

	baseline, err := PlanLayout(box, base)
	require.NoError(t, err)

	variants := []LayoutSpec{
		{Copies: 4, DieGap: 0.12, Bleed: 0.0625, ScaleMode: ScaleUniform, ScalePercent: 2},
		{Copies: 4, DieGap: 0.12, Bleed: 0.0625, ScaleMode: ScaleVertical, ScalePercent: 7.5},
		{Copies: 4, DieGap: 0.12, Bleed: 0.0625, ScaleMode: ScaleFillBleed},
	}
	for _, spec := range variants {
		t.Run(string(spec.ScaleMode), func(t *testing.T) {
			plan, err := PlanLayout(box, spec)
			require.NoError(t, err)
			assert.InDelta(t, baseline.CanvasHeight, plan.CanvasHeight, 1e-9)
			require.Len(t, plan.DieCenters, len(baseline.DieCenters))
			for i := range plan.DieCenters {
				assert.InDelta(t, baseline.DieCenters[i], plan.DieCenters[i], 1e-9)
			}
		})
	}
}

// Re-deriving centers from the finished canvas geometry must recover the
// planner's sequence, proving the offset arithmetic is self-consistent.
func TestPlanLayoutRoundTrip(t *testing.T) {
	box := PageBox{OriginX: 12, OriginY: 30, Width: 250, Height: 175.5}
	spec := LayoutSpec{Copies: 6, DieGap: 0.12, Bleed: 0.1}

	plan, err := PlanLayout(box, spec)
	require.NoError(t, err)

	gap := spec.GapPoints()
	bleed := spec.BleedPoints()
	stack := plan.CanvasHeight - 2*bleed
	pitch := (stack - box.Height) / float64(spec.Copies-1) // height + gap, recovered
	assert.InDelta(t, box.Height+gap, pitch, 1e-9)

	for i, want := range plan.DieCenters {
		got := bleed + float64(i)*pitch + box.Height/2
		assert.InDelta(t, want, got, 1e-9)
	}
}

func TestPlanLayoutFixedCanvas(t *testing.T) {
	box := PageBox{Width: 216, Height: 72}

	t.Run("slot centers pass through", func(t *testing.T) {
		spec := LayoutSpec{
			Copies:      3,
			DieGap:      0.12,
			Canvas:      &Canvas{Width: 216, Height: 360},
			SlotCenters: []float64{54, 144, 234},
			Alignment:   AlignSlots,
		}
		plan, err := PlanLayout(box, spec)
		require.NoError(t, err)
		assert.Equal(t, []float64{54, 144, 234}, plan.DieCenters)
		assert.InDelta(t, 360.0, plan.CanvasHeight, 1e-9)
	})

	t.Run("bottom alignment inside a fixed canvas", func(t *testing.T) {
		spec := LayoutSpec{Copies: 2, DieGap: 0.125, Canvas: &Canvas{Width: 216, Height: 400}}
		plan, err := PlanLayout(box, spec)
		require.NoError(t, err)
		assert.InDelta(t, 36.0, plan.DieCenters[0], 1e-9)
		assert.InDelta(t, 400.0, plan.CanvasHeight, 1e-9)
	})

	t.Run("overflow reported when fit check requested", func(t *testing.T) {
		spec := LayoutSpec{
			Copies:      2,
			DieGap:      0.12,
			Canvas:      &Canvas{Width: 216, Height: 120}, // two 72pt copies cannot fit
			SlotCenters: []float64{36, 110},
			Alignment:   AlignSlots,
			CheckFit:    true,
		}
		_, err := PlanLayout(box, spec)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSpec)
	})

	t.Run("overflow ignored without fit check", func(t *testing.T) {
		spec := LayoutSpec{
			Copies:      2,
			DieGap:      0.12,
			Canvas:      &Canvas{Width: 216, Height: 120},
			SlotCenters: []float64{36, 110},
			Alignment:   AlignSlots,
		}
		_, err := PlanLayout(box, spec)
		assert.NoError(t, err)
	})

	t.Run("scaled width overflow", func(t *testing.T) {
		spec := LayoutSpec{
			Copies:       1,
			Canvas:       &Canvas{Width: 217, Height: 100},
			ScaleMode:    ScaleUniform,
			ScalePercent: 10, // 216 -> 237.6pt wide
			CheckFit:     true,
		}
		_, err := PlanLayout(box, spec)
		assert.ErrorIs(t, err, ErrInvalidSpec)
	})
}

func TestPlanLayoutCheckFitDerivedCanvas(t *testing.T) {
	box := PageBox{Width: 288, Height: 144}

	t.Run("vertical overhang past the bleed margin", func(t *testing.T) {
		// sy = 1.1 pushes the bottom copy 7.2pt below the canvas when no
		// bleed margin absorbs it.
		spec := LayoutSpec{Copies: 2, DieGap: 0.12, ScaleMode: ScaleVertical, ScalePercent: 10, CheckFit: true}
		_, err := PlanLayout(box, spec)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSpec)
	})

	t.Run("overhang ignored without fit check", func(t *testing.T) {
		spec := LayoutSpec{Copies: 2, DieGap: 0.12, ScaleMode: ScaleVertical, ScalePercent: 10}
		_, err := PlanLayout(box, spec)
		assert.NoError(t, err)
	})

	t.Run("overhang absorbed by a large enough bleed", func(t *testing.T) {
		// 0.25in = 18pt of margin covers the 7.2pt overhang per edge.
		spec := LayoutSpec{Copies: 2, DieGap: 0.12, Bleed: 0.25, ScaleMode: ScaleVertical, ScalePercent: 10, CheckFit: true}
		_, err := PlanLayout(box, spec)
		assert.NoError(t, err)
	})

	t.Run("fill-bleed exactly fills the margins", func(t *testing.T) {
		spec := LayoutSpec{Copies: 3, DieGap: 0.12, Bleed: 0.0625, ScaleMode: ScaleFillBleed, CheckFit: true}
		_, err := PlanLayout(box, spec)
		assert.NoError(t, err)
	})
}

func TestPlanLayoutRejectsBadInput(t *testing.T) {
	box := PageBox{Width: 288, Height: 200}

	tests := []struct {
		name string
		box  PageBox
		spec LayoutSpec
		kind error
	}{
		{"zero copies", box, LayoutSpec{Copies: 0, DieGap: 0.12}, ErrInvalidSpec},
		{"negative copies", box, LayoutSpec{Copies: -3, DieGap: 0.12}, ErrInvalidSpec},
		{"negative gap", box, LayoutSpec{Copies: 2, DieGap: -1}, ErrInvalidSpec},
		{"negative bleed", box, LayoutSpec{Copies: 2, DieGap: 0.12, Bleed: -0.1}, ErrInvalidSpec},
		{"negative scale percent", box, LayoutSpec{Copies: 2, DieGap: 0.12, ScaleMode: ScaleUniform, ScalePercent: -5}, ErrInvalidSpec},
		{"unknown scale mode", box, LayoutSpec{Copies: 2, DieGap: 0.12, ScaleMode: "sideways"}, ErrInvalidSpec},
		{"slots without canvas", box, LayoutSpec{Copies: 2, DieGap: 0.12, Alignment: AlignSlots, SlotCenters: []float64{10, 20}}, ErrInvalidSpec},
		{"slots with too few centers", box, LayoutSpec{Copies: 3, DieGap: 0.12, Canvas: &Canvas{Width: 100, Height: 400}, Alignment: AlignSlots, SlotCenters: []float64{50, 150}}, ErrInvalidSpec},
		{"unsorted slot centers", box, LayoutSpec{Copies: 2, DieGap: 0.12, Canvas: &Canvas{Width: 100, Height: 400}, Alignment: AlignSlots, SlotCenters: []float64{150, 50}}, ErrInvalidSpec},
		{"slot centers without slots alignment", box, LayoutSpec{Copies: 2, DieGap: 0.12, SlotCenters: []float64{50, 150}}, ErrInvalidSpec},
		{"degenerate canvas", box, LayoutSpec{Copies: 2, DieGap: 0.12, Canvas: &Canvas{Width: 0, Height: 400}}, ErrInvalidSpec},
		{"zero-width box", PageBox{Width: 0, Height: 100}, LayoutSpec{Copies: 2, DieGap: 0.12}, ErrInvalidGeometry},
		{"zero-height box", PageBox{Width: 100, Height: 0}, LayoutSpec{Copies: 2, DieGap: 0.12}, ErrInvalidGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanLayout(tt.box, tt.spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Empty(t, plan.DieCenters)
		})
	}
}
