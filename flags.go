package labelstack

import (
	"github.com/flanksource/commons/logger"
	"github.com/spf13/pflag"

	"github.com/printops/labelstack/layout"
)

type AllFlags struct {
	StackOptions
	logger.Flags
}

// StackOptions is the flag-facing form of Options plus the surrounding I/O
// knobs.
type StackOptions struct {
	PageIndex     int
	UseCropBox    bool   // size and place by the crop box instead of the media box
	SpecFile      string // YAML LayoutSpec, layered under the individual flags
	OutputDir     string
	MaxConcurrent int

	Copies       int
	Gap          float64 // inches
	Bleed        float64 // inches
	ScaleMode    string
	ScalePercent float64
	CanvasWidth  float64 // points, 0 = derived
	CanvasHeight float64 // points, 0 = derived
	SlotCenters  []float64
	CheckFit     bool
}

var Flags = AllFlags{
	StackOptions: StackOptions{
		Copies: 2,
		Gap:    0.12,
	},
	Flags: logger.Flags{
		Level:        "info",
		LevelCount:   0,
		JsonLogs:     false,
		ReportCaller: false,
		LogToStderr:  true,
	},
}

// BindAllFlags adds all labelstack flags to a pflag set (for Cobra).
func BindAllFlags(flags *pflag.FlagSet) *AllFlags {
	flags.CountVarP(&Flags.Flags.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&Flags.Flags.Level, "log-level", "info", "Set the default log level")
	flags.BoolVar(&Flags.Flags.JsonLogs, "json-logs", false, "Print logs in json format to stderr")
	flags.BoolVar(&Flags.Flags.ReportCaller, "report-caller", false, "Report log caller info")
	flags.BoolVar(&Flags.Flags.LogToStderr, "log-to-stderr", true, "Log to stderr instead of stdout")

	// Layout options
	flags.IntVar(&Flags.Copies, "copies", Flags.Copies, "Number of duplicate placements")
	flags.Float64Var(&Flags.Gap, "gap", Flags.Gap, "Die gap in inches between adjacent copies")
	flags.Float64Var(&Flags.Bleed, "bleed", Flags.Bleed, "Bleed in inches above/below the stack")
	flags.StringVar(&Flags.ScaleMode, "scale-mode", "", "Scale mode: none, uniform, vertical, fill-bleed")
	flags.Float64Var(&Flags.ScalePercent, "scale-percent", 0, "Percent added to 1.0 as the scale factor")
	flags.Float64Var(&Flags.CanvasWidth, "canvas-width", 0, "Fixed canvas width in points (0 = derived)")
	flags.Float64Var(&Flags.CanvasHeight, "canvas-height", 0, "Fixed canvas height in points (0 = derived)")
	flags.Float64SliceVar(&Flags.SlotCenters, "slot-centers", nil, "Explicit die slot centers in points, ascending")
	flags.BoolVar(&Flags.CheckFit, "check-fit", false, "Reject specs whose scaled copies overflow a fixed canvas")
	flags.StringVar(&Flags.SpecFile, "spec", "", "YAML file containing a layout spec")

	// Source options
	flags.IntVar(&Flags.PageIndex, "page", 0, "0-based page index to duplicate")
	flags.BoolVar(&Flags.UseCropBox, "use-cropbox", false, "Use the PDF CropBox instead of MediaBox for sizing/placement")

	// Output options
	flags.StringVarP(&Flags.OutputDir, "output-dir", "o", "", "Directory for stacked output files")
	flags.IntVar(&Flags.MaxConcurrent, "max-concurrent", 0, "Maximum concurrent files in batch mode (0 = unlimited)")

	return &Flags
}

// LayoutSpec assembles a layout.LayoutSpec from the bound flags, layering
// them over a --spec file when one was given. changed reports whether a flag
// was set explicitly on the command line.
func (f StackOptions) LayoutSpec(changed func(string) bool) (layout.LayoutSpec, error) {
	spec := layout.DefaultSpec()
	if f.SpecFile != "" {
		loaded, err := layout.LoadSpec(f.SpecFile)
		if err != nil {
			return layout.LayoutSpec{}, err
		}
		spec = loaded
	}

	if changed("copies") || f.SpecFile == "" {
		spec.Copies = f.Copies
	}
	if changed("gap") || f.SpecFile == "" {
		spec.DieGap = f.Gap
	}
	if changed("bleed") {
		spec.Bleed = f.Bleed
	}
	if changed("scale-mode") {
		mode, err := layout.ParseScaleMode(f.ScaleMode)
		if err != nil {
			return layout.LayoutSpec{}, err
		}
		spec.ScaleMode = mode
	}
	if changed("scale-percent") {
		spec.ScalePercent = f.ScalePercent
	}
	if changed("canvas-width") || changed("canvas-height") {
		spec.Canvas = &layout.Canvas{Width: f.CanvasWidth, Height: f.CanvasHeight}
	}
	if changed("slot-centers") {
		spec.SlotCenters = f.SlotCenters
		spec.Alignment = layout.AlignSlots
	}
	if changed("check-fit") {
		spec.CheckFit = f.CheckFit
	}
	return spec, spec.Validate()
}

// BoxPolicy maps the --use-cropbox flag onto the resolver policy.
func (f StackOptions) BoxPolicy() layout.BoxPolicy {
	if f.UseCropBox {
		return layout.BoxCrop
	}
	return layout.BoxMedia
}

func (a *AllFlags) UseFlags() {
	logger.Configure(a.Flags)
}
