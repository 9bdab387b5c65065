package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/printops/labelstack/layout"
)

const formName = "Fm0"

// Impose composites the given source page onto a blank canvas page, once per
// placement, in sequence order. The source page's content is wrapped as a
// single Form XObject clipped to box, so every copy shares one content
// stream and box-relative coordinates stay intact. The result is a one-page
// PDF of exactly plan.CanvasWidth x plan.CanvasHeight points.
//
// Impose appends objects to the underlying context, so it consumes the
// Document.
func (d *Document) Impose(pageIndex int, box layout.PageBox, plan layout.Plan, placements []layout.Placement) ([]byte, error) {
	if pageIndex < 0 || pageIndex >= d.ctx.PageCount {
		return nil, fmt.Errorf("page index %d outside 0..%d: %w",
			pageIndex, d.ctx.PageCount-1, layout.ErrPageOutOfRange)
	}
	if plan.CanvasWidth <= 0 || plan.CanvasHeight <= 0 {
		return nil, fmt.Errorf("canvas %.2fx%.2fpt is degenerate: %w",
			plan.CanvasWidth, plan.CanvasHeight, layout.ErrInvalidGeometry)
	}

	formRef, err := d.pageToFormXObject(pageIndex, box)
	if err != nil {
		return nil, err
	}
	if err := d.appendCanvasPage(plan, box, placements, formRef); err != nil {
		return nil, err
	}

	var assembled bytes.Buffer
	if err := api.WriteContext(d.ctx, &assembled); err != nil {
		return nil, fmt.Errorf("failed to write canvas PDF: %w", err)
	}

	// Keep only the appended canvas page. Trim re-parses the assembled
	// bytes, which doubles as structural validation of the output.
	var out bytes.Buffer
	last := strconv.Itoa(d.ctx.PageCount)
	if err := api.Trim(bytes.NewReader(assembled.Bytes()), &out, []string{last}, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("failed to trim output to canvas page: %w", err)
	}
	return out.Bytes(), nil
}

// pageToFormXObject wraps the page's content stream as a Form XObject whose
// BBox is the resolved page box, sharing the page's resource dictionary.
func (d *Document) pageToFormXObject(pageIndex int, box layout.PageBox) (*types.IndirectRef, error) {
	pageDict, _, attrs, err := d.ctx.PageDict(pageIndex+1, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %d: %w", pageIndex, err)
	}

	content, err := d.ctx.PageContent(pageDict, pageIndex+1)
	if err != nil && !errors.Is(err, model.ErrNoContent) {
		return nil, fmt.Errorf("failed to read page %d content: %w", pageIndex, err)
	}

	sd, err := d.ctx.NewStreamDictForBuf(content)
	if err != nil {
		return nil, fmt.Errorf("failed to build form stream: %w", err)
	}
	sd.InsertName("Type", "XObject")
	sd.InsertName("Subtype", "Form")
	sd.InsertInt("FormType", 1)
	sd.Insert("BBox", types.RectForWidthAndHeight(box.OriginX, box.OriginY, box.Width, box.Height).Array())
	if attrs.Resources != nil {
		sd.Insert("Resources", attrs.Resources)
	}
	if err := sd.Encode(); err != nil {
		return nil, fmt.Errorf("failed to encode form stream: %w", err)
	}
	return d.ctx.IndRefForNewObject(*sd)
}

// appendCanvasPage adds a new page painting the form once per placement and
// hangs it off the root page tree.
func (d *Document) appendCanvasPage(plan layout.Plan, box layout.PageBox, placements []layout.Placement, formRef *types.IndirectRef) error {
	var content bytes.Buffer
	for _, p := range placements {
		m := p.Matrix(box)
		fmt.Fprintf(&content, "q %.5f %.5f %.5f %.5f %.5f %.5f cm /%s Do Q\n",
			m[0], m[1], m[2], m[3], m[4], m[5], formName)
	}

	contentSD, err := d.ctx.NewStreamDictForBuf(content.Bytes())
	if err != nil {
		return fmt.Errorf("failed to build canvas content stream: %w", err)
	}
	if err := contentSD.Encode(); err != nil {
		return fmt.Errorf("failed to encode canvas content stream: %w", err)
	}
	contentRef, err := d.ctx.IndRefForNewObject(*contentSD)
	if err != nil {
		return err
	}

	rootDict, err := d.ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	pagesRef, ok := rootDict["Pages"].(types.IndirectRef)
	if !ok {
		return fmt.Errorf("catalog has no page tree reference")
	}
	pagesDict, err := d.ctx.DereferenceDict(pagesRef)
	if err != nil {
		return fmt.Errorf("failed to read page tree: %w", err)
	}

	pageDict := types.Dict{
		"Type":     types.Name("Page"),
		"Parent":   pagesRef,
		"MediaBox": types.RectForWidthAndHeight(0, 0, plan.CanvasWidth, plan.CanvasHeight).Array(),
		"Resources": types.Dict{
			"XObject": types.Dict{formName: *formRef},
		},
		"Contents": *contentRef,
	}
	pageRef, err := d.ctx.IndRefForNewObject(pageDict)
	if err != nil {
		return err
	}

	kids := pagesDict.ArrayEntry("Kids")
	pagesDict["Kids"] = append(kids, *pageRef)
	count := pagesDict.IntEntry("Count")
	if count == nil {
		return fmt.Errorf("page tree has no Count entry")
	}
	pagesDict["Count"] = types.Integer(*count + 1)
	d.ctx.PageCount++

	return nil
}
