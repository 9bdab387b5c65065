package layout

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ScaleMode selects how rendered art is scaled within its die slot. Die gaps
// and die centers are never affected by any mode.
type ScaleMode string

const (
	// ScaleNone places copies at their natural size.
	ScaleNone ScaleMode = "none"
	// ScaleUniform scales both axes by 1 + ScalePercent/100, keeping the
	// scaled bounding box centered on the die center. Used for micro-bleed
	// that must not disturb the centerline.
	ScaleUniform ScaleMode = "uniform"
	// ScaleVertical scales the vertical axis only, about the die center, so
	// extra height splits evenly above and below it.
	ScaleVertical ScaleMode = "vertical"
	// ScaleFillBleed derives the vertical factor from the bleed request:
	// scaleY = (height + 2*bleed) / height, so the bleed is met by stretching
	// rather than by blank canvas margin.
	ScaleFillBleed ScaleMode = "fill-bleed"
)

// ParseScaleMode maps a user-facing mode name onto a ScaleMode.
func ParseScaleMode(s string) (ScaleMode, error) {
	switch ScaleMode(s) {
	case "", ScaleNone:
		return ScaleNone, nil
	case ScaleUniform, ScaleVertical, ScaleFillBleed:
		return ScaleMode(s), nil
	}
	return "", fmt.Errorf("unknown scale mode %q (want none, uniform, vertical or fill-bleed): %w", s, ErrInvalidSpec)
}

func (m ScaleMode) normalized() ScaleMode {
	if m == "" {
		return ScaleNone
	}
	return m
}

// Alignment selects how die centers are derived.
type Alignment string

const (
	// AlignBottom stacks copies edge to edge from the bottom of the canvas:
	// the first copy's unscaled bottom edge sits at the bottom bleed margin.
	AlignBottom Alignment = "bottom"
	// AlignSlots centers each copy within an explicit, caller-supplied slot.
	// Requires a fixed canvas and SlotCenters. This mode exists because on a
	// pre-cut sheet the physical die, not the artwork, fixes the layout.
	AlignSlots Alignment = "slots"
)

func (a Alignment) normalized() Alignment {
	if a == "" {
		return AlignBottom
	}
	return a
}

// Canvas is a caller-supplied fixed output size in points. When nil on a
// LayoutSpec, the canvas is derived to exactly fit content, gaps and bleed.
type Canvas struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// LayoutSpec configures one layout computation. The zero value is not valid;
// start from DefaultSpec or load one from YAML.
type LayoutSpec struct {
	// Copies is the number of duplicate placements, >= 1.
	Copies int `yaml:"copies" json:"copies"`
	// DieGap is the spacing in inches between adjacent unscaled copy
	// boundaries. Scaling never perturbs it.
	DieGap float64 `yaml:"gap" json:"gap"`
	// Bleed is the extra margin in inches above and below the stack, or the
	// per-copy stretch amount under fill-bleed scaling.
	Bleed float64 `yaml:"bleed,omitempty" json:"bleed,omitempty"`

	ScaleMode ScaleMode `yaml:"scale-mode,omitempty" json:"scale-mode,omitempty"`
	// ScalePercent is added to 1.0 as the scale factor for the uniform and
	// vertical modes. Ignored by none and fill-bleed.
	ScalePercent float64 `yaml:"scale-percent,omitempty" json:"scale-percent,omitempty"`

	// Canvas fixes the output size; nil derives it from the content.
	Canvas *Canvas `yaml:"canvas,omitempty" json:"canvas,omitempty"`
	// SlotCenters are explicit die centers in points, ascending, for
	// AlignSlots. At least Copies entries are required.
	SlotCenters []float64 `yaml:"slot-centers,omitempty" json:"slot-centers,omitempty"`

	Alignment Alignment `yaml:"alignment,omitempty" json:"alignment,omitempty"`

	// CheckFit validates that every scaled copy stays inside the canvas,
	// fixed or derived. Overflow is reported as an error, never silently
	// clipped.
	CheckFit bool `yaml:"check-fit,omitempty" json:"check-fit,omitempty"`
}

// DefaultSpec mirrors the classic two-up layout: two copies, 0.12in gap,
// bottom-aligned, no bleed, no scaling, derived canvas.
func DefaultSpec() LayoutSpec {
	return LayoutSpec{
		Copies: 2,
		DieGap: 0.12,
	}
}

// IsZero reports whether every field is unset. A zero spec is not valid on
// its own; callers use this to decide whether to substitute DefaultSpec.
func (s LayoutSpec) IsZero() bool {
	return s.Copies == 0 && s.DieGap == 0 && s.Bleed == 0 &&
		s.ScaleMode == "" && s.ScalePercent == 0 &&
		s.Canvas == nil && s.SlotCenters == nil &&
		s.Alignment == "" && !s.CheckFit
}

// LoadSpec reads a LayoutSpec from a YAML file, layered over DefaultSpec.
func LoadSpec(path string) (LayoutSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LayoutSpec{}, fmt.Errorf("failed to read spec file: %w", err)
	}
	spec := DefaultSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return LayoutSpec{}, fmt.Errorf("failed to parse spec file %s: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return LayoutSpec{}, fmt.Errorf("spec file %s: %w", path, err)
	}
	return spec, nil
}

// Validate reports the first problem that makes the spec unusable. All
// failures wrap ErrInvalidSpec.
func (s LayoutSpec) Validate() error {
	if s.Copies < 1 {
		return fmt.Errorf("copy count must be >= 1, got %d: %w", s.Copies, ErrInvalidSpec)
	}
	if s.DieGap < 0 {
		return fmt.Errorf("die gap must be >= 0, got %v in: %w", s.DieGap, ErrInvalidSpec)
	}
	if s.Bleed < 0 {
		return fmt.Errorf("bleed must be >= 0, got %v in: %w", s.Bleed, ErrInvalidSpec)
	}
	if s.ScalePercent < 0 {
		return fmt.Errorf("scale percent must be >= 0, got %v: %w", s.ScalePercent, ErrInvalidSpec)
	}
	if _, err := ParseScaleMode(string(s.ScaleMode)); err != nil {
		return err
	}
	switch s.Alignment.normalized() {
	case AlignBottom:
		if len(s.SlotCenters) > 0 {
			return fmt.Errorf("slot centers require alignment=slots: %w", ErrInvalidSpec)
		}
	case AlignSlots:
		if s.Canvas == nil {
			return fmt.Errorf("alignment=slots requires a fixed canvas: %w", ErrInvalidSpec)
		}
		if len(s.SlotCenters) < s.Copies {
			return fmt.Errorf("alignment=slots needs %d slot centers, got %d: %w", s.Copies, len(s.SlotCenters), ErrInvalidSpec)
		}
		if !sort.Float64sAreSorted(s.SlotCenters) {
			return fmt.Errorf("slot centers must be ascending: %w", ErrInvalidSpec)
		}
	default:
		return fmt.Errorf("unknown alignment %q (want bottom or slots): %w", s.Alignment, ErrInvalidSpec)
	}
	if s.Canvas != nil && (s.Canvas.Width <= 0 || s.Canvas.Height <= 0) {
		return fmt.Errorf("fixed canvas must have positive dimensions, got %.2fx%.2fpt: %w",
			s.Canvas.Width, s.Canvas.Height, ErrInvalidSpec)
	}
	return nil
}

// GapPoints and BleedPoints convert the user-facing inch values once.
func (s LayoutSpec) GapPoints() float64   { return s.DieGap * PointsPerInch }
func (s LayoutSpec) BleedPoints() float64 { return s.Bleed * PointsPerInch }
