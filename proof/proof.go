// Package proof renders a press-check summary of a computed layout: the
// canvas, the die centers and the per-copy placements, as a PDF sheet an
// operator can sign off against the physical die.
package proof

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/printops/labelstack/layout"
)

// Sheet renders a one-page proof for the given layout computation.
func Sheet(source string, box layout.PageBox, spec layout.LayoutSpec, plan layout.Plan, placements []layout.Placement) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		WithBottomMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("Label Stack Proof", props.Text{Size: 16, Style: fontstyle.Bold}),
			),
		),
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Source: %s (page box %s)", source, box), props.Text{Size: 10}),
			),
		),
	)

	scale := string(spec.ScaleMode)
	if spec.ScaleMode == "" || spec.ScaleMode == layout.ScaleNone {
		scale = "none"
	}
	summary := []string{
		fmt.Sprintf("Copies: %d", spec.Copies),
		fmt.Sprintf("Die gap: %.3f in (%.2f pt)", spec.DieGap, spec.GapPoints()),
		fmt.Sprintf("Bleed: %.3f in (%.2f pt)", spec.Bleed, spec.BleedPoints()),
		fmt.Sprintf("Scale: %s (%.2f%%)", scale, spec.ScalePercent),
		fmt.Sprintf("Canvas: %.2f x %.2f pt (%.3f x %.3f in)",
			plan.CanvasWidth, plan.CanvasHeight,
			plan.CanvasWidth/layout.PointsPerInch, plan.CanvasHeight/layout.PointsPerInch),
	}
	for _, line := range summary {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New(line, props.Text{Size: 10}))))
	}

	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New("Placements", props.Text{Size: 12, Style: fontstyle.Bold, Top: 3}),
	)))
	m.AddRows(placementHeader())
	for i, p := range placements {
		m.AddRows(placementRow(i, plan.DieCenters[i], p))
	}

	document, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate proof sheet: %w", err)
	}
	return document.GetBytes(), nil
}

func placementHeader() core.Row {
	cells := []string{"Copy", "Die center (pt)", "Offset X (pt)", "Offset Y (pt)", "Scale X", "Scale Y"}
	r := row.New(7)
	for _, c := range cells {
		r.Add(col.New(2).Add(text.New(c, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left})))
	}
	return r
}

func placementRow(i int, center float64, p layout.Placement) core.Row {
	cells := []string{
		fmt.Sprintf("%d", i),
		fmt.Sprintf("%.3f", center),
		fmt.Sprintf("%.3f", p.OffsetX),
		fmt.Sprintf("%.3f", p.OffsetY),
		fmt.Sprintf("%.5f", p.ScaleX),
		fmt.Sprintf("%.5f", p.ScaleY),
	}
	r := row.New(6)
	for _, c := range cells {
		r.Add(col.New(2).Add(text.New(c, props.Text{Size: 9, Align: align.Left})))
	}
	return r
}
