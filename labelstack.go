// Package labelstack duplicates a single source PDF page N times down one
// output page, with exact die gaps, optional bleed and optional scaling. It
// prepares label artwork for roll and sheet printing: the layout package
// computes where each copy lands, the pdf package reads the source and
// composites the result.
package labelstack

import (
	"fmt"
	"os"
	"strings"

	"github.com/flanksource/commons/logger"

	"github.com/printops/labelstack/layout"
	"github.com/printops/labelstack/pdf"
)

// Options selects the source page and the layout to apply to it.
type Options struct {
	// PageIndex is the zero-based page to duplicate.
	PageIndex int
	// BoxPolicy picks the media or crop rectangle for sizing and placement.
	BoxPolicy layout.BoxPolicy
	// Spec is the layout to compute. The zero value is replaced by
	// DefaultSpec; a partially filled spec is validated as given.
	Spec layout.LayoutSpec
}

func (o Options) spec() layout.LayoutSpec {
	if o.Spec.IsZero() {
		return layout.DefaultSpec()
	}
	return o.Spec
}

// Stack lays out opts.Spec.Copies copies of one page of the given PDF onto a
// single output page and returns the finished PDF. Errors are deterministic
// functions of the input; nothing is retried and nothing partial is returned.
func Stack(data []byte, opts Options) ([]byte, error) {
	spec := opts.spec()

	doc, err := pdf.NewDocumentFromBytes(data)
	if err != nil {
		return nil, err
	}

	page, err := doc.Page(opts.PageIndex)
	if err != nil {
		return nil, err
	}
	box, err := layout.ResolveBox(page, opts.BoxPolicy)
	if err != nil {
		return nil, err
	}

	plan, err := layout.PlanLayout(box, spec)
	if err != nil {
		return nil, err
	}
	placements, err := layout.Placements(box, plan, spec)
	if err != nil {
		return nil, err
	}
	logger.Debugf("stacking page %d (%s) %d-up onto %.2fx%.2fpt canvas",
		opts.PageIndex, box, spec.Copies, plan.CanvasWidth, plan.CanvasHeight)

	out, err := doc.Impose(opts.PageIndex, box, plan, placements)
	if err != nil {
		return nil, err
	}

	// The canvas must come back as exactly one readable page.
	check, err := pdf.NewDocumentFromBytes(out)
	if err != nil {
		return nil, fmt.Errorf("composited output failed to parse: %w", err)
	}
	if n := check.PageCount(); n != 1 {
		return nil, fmt.Errorf("composited output has %d pages, want 1", n)
	}
	return out, nil
}

// StackFile reads inPath, stacks it per opts and writes the result to
// outPath.
func StackFile(inPath, outPath string, opts Options) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inPath, err)
	}
	out, err := Stack(data, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	logger.Infof("wrote %s", outPath)
	return nil
}

// OutputName derives the conventional output filename for an input,
// e.g. label.pdf -> label_stacked_gap_0.12in.pdf.
func OutputName(inPath string, spec layout.LayoutSpec) string {
	base := strings.TrimSuffix(inPath, ".pdf")
	return fmt.Sprintf("%s_stacked_gap_%.2fin.pdf", base, spec.DieGap)
}
