// Package pdf adapts the layout engine to real PDF files via pdfcpu: it
// reads page geometry out of a source document and composites transformed
// copies of a page onto a fresh canvas page.
package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/samber/lo"

	"github.com/printops/labelstack/layout"
)

// Document is a parsed source PDF. It is not safe for concurrent use, and a
// Document that has been imposed on should not be reused; open a fresh one
// per stacking run.
type Document struct {
	ctx *model.Context
}

// NewDocument parses and validates a PDF.
func NewDocument(rs io.ReadSeeker) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to validate PDF: %w", err)
	}
	if ctx.PageCount == 0 {
		return nil, fmt.Errorf("PDF has no pages: %w", layout.ErrInvalidGeometry)
	}
	return &Document{ctx: ctx}, nil
}

// NewDocumentFromBytes parses an in-memory PDF.
func NewDocumentFromBytes(data []byte) (*Document, error) {
	return NewDocument(bytes.NewReader(data))
}

// PageCount reports the number of pages in the source document.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// Page returns the media and optional crop rectangle of the zero-based page
// index. An index outside [0, PageCount) fails with ErrPageOutOfRange,
// distinguishable from geometry errors.
func (d *Document) Page(index int) (layout.PageDescriptor, error) {
	if index < 0 || index >= d.ctx.PageCount {
		return layout.PageDescriptor{}, fmt.Errorf("page index %d outside 0..%d: %w",
			index, d.ctx.PageCount-1, layout.ErrPageOutOfRange)
	}

	_, _, attrs, err := d.ctx.PageDict(index+1, false)
	if err != nil {
		return layout.PageDescriptor{}, fmt.Errorf("failed to read page %d: %w", index, err)
	}
	if attrs.MediaBox == nil {
		return layout.PageDescriptor{}, fmt.Errorf("page %d has no media box: %w", index, layout.ErrInvalidGeometry)
	}

	desc := layout.PageDescriptor{Media: rectToBox(attrs.MediaBox)}
	if attrs.CropBox != nil {
		desc.Crop = lo.ToPtr(rectToBox(attrs.CropBox))
	}
	return desc, nil
}

func rectToBox(r *types.Rectangle) layout.PageBox {
	return layout.PageBox{
		OriginX: r.LL.X,
		OriginY: r.LL.Y,
		Width:   r.Width(),
		Height:  r.Height(),
	}
}
