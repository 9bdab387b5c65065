// Package layout computes label sheet layouts: given the bounding box of a
// source page and a layout spec, it derives the output canvas dimensions and
// the per-copy placement (translation + scale) that lands every copy at an
// exact die center. All values are in points (72 per inch) unless a field
// says otherwise. The package performs arithmetic only; reading pages and
// compositing output belong to the pdf package.
package layout

import "fmt"

// PointsPerInch converts user-facing inch values to points.
const PointsPerInch = 72.0

// PageBox is an immutable rectangle in points, PDF convention: origin is the
// lower-left corner, y grows upward.
type PageBox struct {
	OriginX float64
	OriginY float64
	Width   float64
	Height  float64
}

func (b PageBox) String() string {
	return fmt.Sprintf("%.2fx%.2fpt @ (%.2f,%.2f)", b.Width, b.Height, b.OriginX, b.OriginY)
}

// WidthInches and HeightInches report dimensions the way users reason about
// label stock.
func (b PageBox) WidthInches() float64  { return b.Width / PointsPerInch }
func (b PageBox) HeightInches() float64 { return b.Height / PointsPerInch }

// PageDescriptor carries the raw rectangles of one source page as reported by
// the document source. Crop is nil when the page defines no crop rectangle.
type PageDescriptor struct {
	Media PageBox
	Crop  *PageBox
}

// BoxPolicy selects which page rectangle sizes and positions the copies.
type BoxPolicy string

const (
	BoxMedia BoxPolicy = "media" // the page's full media rectangle, the default
	BoxCrop  BoxPolicy = "crop"  // the crop rectangle, falling back to media
)

// ParseBoxPolicy maps a user-facing policy name onto a BoxPolicy.
func ParseBoxPolicy(s string) (BoxPolicy, error) {
	switch BoxPolicy(s) {
	case "", BoxMedia:
		return BoxMedia, nil
	case BoxCrop:
		return BoxCrop, nil
	}
	return "", fmt.Errorf("unknown box policy %q (want media or crop): %w", s, ErrInvalidSpec)
}

// ResolveBox extracts the usable rectangle from a page descriptor. A crop
// policy on a page without a crop rectangle silently falls back to the media
// rectangle; that is the documented default, not an error. A resolved
// rectangle with non-positive width or height fails with ErrInvalidGeometry.
func ResolveBox(page PageDescriptor, policy BoxPolicy) (PageBox, error) {
	if policy == "" {
		policy = BoxMedia
	}
	var box PageBox
	switch policy {
	case BoxMedia:
		box = page.Media
	case BoxCrop:
		box = page.Media
		if page.Crop != nil {
			box = *page.Crop
		}
	default:
		return PageBox{}, fmt.Errorf("unknown box policy %q: %w", policy, ErrInvalidSpec)
	}
	if box.Width <= 0 || box.Height <= 0 {
		return PageBox{}, fmt.Errorf("page box %s is degenerate: %w", box, ErrInvalidGeometry)
	}
	return box, nil
}
