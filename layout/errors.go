package layout

import "errors"

// Error kinds surfaced by the engine. Callers discriminate with errors.Is;
// the wrapped message carries the specifics.
var (
	// ErrInvalidGeometry indicates a degenerate source rectangle: zero or
	// negative width/height, or a zero-height box under fill-bleed scaling.
	ErrInvalidGeometry = errors.New("invalid page geometry")

	// ErrInvalidSpec indicates an unusable layout spec: copy count below one,
	// negative gap/bleed/scale, or inconsistent fixed-canvas parameters.
	ErrInvalidSpec = errors.New("invalid layout spec")

	// ErrPageOutOfRange indicates a page index outside [0, pageCount).
	ErrPageOutOfRange = errors.New("page index out of range")
)
