package layout

import "fmt"

// Plan is the planner's output: the canvas to allocate and the ordered die
// centers, bottom to top, at which copies are placed.
type Plan struct {
	CanvasWidth  float64
	CanvasHeight float64
	DieCenters   []float64
}

// PlanLayout turns a resolved page box and a layout spec into canvas
// dimensions and die centers. It fails before producing anything: a Plan is
// returned complete or not at all.
//
// For a derived canvas, centers stack edge to edge with the die gap between
// unscaled boundaries and the bleed margins below and above:
//
//	center_i = bleed + i*(height + gap) + height/2
//	canvasHeight = copies*height + (copies-1)*gap + 2*bleed
//
// These formulas hold for every scale mode. Under fill-bleed the margins are
// filled by stretched art instead of left blank, but the geometry is the
// same, which keeps die centers identical across modes for a given spec.
func PlanLayout(box PageBox, spec LayoutSpec) (Plan, error) {
	if err := spec.Validate(); err != nil {
		return Plan{}, err
	}
	if box.Width <= 0 || box.Height <= 0 {
		return Plan{}, fmt.Errorf("page box %s is degenerate: %w", box, ErrInvalidGeometry)
	}

	gap := spec.GapPoints()
	bleed := spec.BleedPoints()

	var plan Plan
	if spec.Canvas != nil {
		plan.CanvasWidth = spec.Canvas.Width
		plan.CanvasHeight = spec.Canvas.Height
	} else {
		// Uniform scaling is centered horizontally within the unchanged
		// width, so the canvas never grows sideways.
		plan.CanvasWidth = box.Width
		plan.CanvasHeight = float64(spec.Copies)*box.Height + float64(spec.Copies-1)*gap + 2*bleed
	}

	if spec.Alignment.normalized() == AlignSlots {
		plan.DieCenters = append([]float64(nil), spec.SlotCenters[:spec.Copies]...)
	} else {
		plan.DieCenters = make([]float64, spec.Copies)
		for i := range plan.DieCenters {
			plan.DieCenters[i] = bleed + float64(i)*(box.Height+gap) + box.Height/2
		}
	}

	if spec.CheckFit {
		if err := checkFit(box, spec, plan); err != nil {
			return Plan{}, err
		}
	}
	return plan, nil
}

// checkFit rejects specs whose scaled copies would extend past the canvas.
// A fixed canvas overflows when the caller's constant disagrees with its own
// slot geometry; a derived canvas overflows when vertical scaling pushes art
// past the bleed margin. Either way it is reported rather than clipped.
func checkFit(box PageBox, spec LayoutSpec, plan Plan) error {
	sx, sy, err := scaleFactors(box, spec)
	if err != nil {
		return err
	}
	const eps = 1e-6
	width := sx * box.Width
	if (plan.CanvasWidth-width)/2 < -eps {
		return fmt.Errorf("scaled copy width %.2fpt exceeds canvas width %.2fpt: %w",
			width, plan.CanvasWidth, ErrInvalidSpec)
	}
	half := sy * box.Height / 2
	for i, c := range plan.DieCenters {
		if c-half < -eps || c+half > plan.CanvasHeight+eps {
			return fmt.Errorf("copy %d spans %.2f..%.2fpt, outside canvas height %.2fpt: %w",
				i, c-half, c+half, plan.CanvasHeight, ErrInvalidSpec)
		}
	}
	return nil
}
