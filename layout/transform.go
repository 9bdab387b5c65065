package layout

import "fmt"

// Placement is the affine map for one copy: translate the source box's
// origin to the canvas origin, scale by (ScaleX, ScaleY) about that origin,
// then translate by (OffsetX, OffsetY). Equivalently, it takes the source
// box's lower-left corner to the copy's final lower-left corner at the given
// scale. Placements are plain values with no lifecycle.
type Placement struct {
	OffsetX float64
	OffsetY float64
	ScaleX  float64
	ScaleY  float64
}

// Matrix folds the origin normalization into a PDF-style transformation
// matrix [a b c d e f] for the given source box.
func (p Placement) Matrix(box PageBox) [6]float64 {
	return [6]float64{
		p.ScaleX, 0, 0, p.ScaleY,
		p.OffsetX - p.ScaleX*box.OriginX,
		p.OffsetY - p.ScaleY*box.OriginY,
	}
}

// scaleFactors dispatches on the scale mode. Every mode shares the centering
// rule in Compose; only the factors differ. ScaleVertical's
// translate-scale-translate about the die center reduces algebraically to
// the shared offset form, so no mode needs its own placement path.
func scaleFactors(box PageBox, spec LayoutSpec) (sx, sy float64, err error) {
	switch spec.ScaleMode.normalized() {
	case ScaleNone:
		return 1, 1, nil
	case ScaleUniform:
		s := 1 + spec.ScalePercent/100
		return s, s, nil
	case ScaleVertical:
		return 1, 1 + spec.ScalePercent/100, nil
	case ScaleFillBleed:
		if box.Height <= 0 {
			return 0, 0, fmt.Errorf("fill-bleed scaling needs a positive box height, got %v: %w",
				box.Height, ErrInvalidGeometry)
		}
		return 1, (box.Height + 2*spec.BleedPoints()) / box.Height, nil
	}
	return 0, 0, fmt.Errorf("unknown scale mode %q: %w", spec.ScaleMode, ErrInvalidSpec)
}

// Compose produces the placement for one copy. The scaled bounding box is
// centered horizontally on the canvas and vertically on the die center, so
// declared centerlines survive any scale factor untouched.
func Compose(box PageBox, dieCenter, canvasWidth float64, spec LayoutSpec) (Placement, error) {
	sx, sy, err := scaleFactors(box, spec)
	if err != nil {
		return Placement{}, err
	}
	return Placement{
		OffsetX: canvasWidth/2 - sx*box.Width/2,
		OffsetY: dieCenter - sy*box.Height/2,
		ScaleX:  sx,
		ScaleY:  sy,
	}, nil
}

// Placements composes one placement per die center in the plan. It is
// all-or-nothing: any failure returns no placements.
func Placements(box PageBox, plan Plan, spec LayoutSpec) ([]Placement, error) {
	out := make([]Placement, 0, len(plan.DieCenters))
	for _, c := range plan.DieCenters {
		p, err := Compose(box, c, plan.CanvasWidth, spec)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
