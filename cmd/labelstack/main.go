package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/printops/labelstack"
	"github.com/printops/labelstack/layout"
	"github.com/printops/labelstack/pdf"
	"github.com/printops/labelstack/proof"
)

// Build information (set by goreleaser)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var dryRun bool

	rootCmd := &cobra.Command{
		Use:   "labelstack [flags] <input.pdf> [output.pdf | input2.pdf ...]",
		Short: "Duplicate a PDF page vertically with exact die gaps",
		Long: `Labelstack places N copies of one source PDF page onto a single output
page, stacked along the vertical axis with a controllable die gap, bleed
allowance and optional scaling. The first copy is bottom-aligned; die gaps
and die centers are never perturbed by scaling.`,
		Example: `  labelstack label.pdf
  labelstack --gap 0.12 --copies 2 label.pdf stacked.pdf
  labelstack --use-cropbox --scale-mode fill-bleed --bleed 0.0625 label.pdf
  labelstack --max-concurrent 4 -o out/ run1.pdf run2.pdf run3.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			labelstack.Flags.UseFlags()

			opts, err := optionsFromFlags(cmd)
			if err != nil {
				return err
			}

			if dryRun {
				return printPlan(args[0], opts)
			}

			// Two args is always the "input output" form unless --output-dir
			// marks them as a batch of inputs. Dispatch never depends on
			// whether the output already exists.
			if len(args) == 2 && labelstack.Flags.OutputDir == "" {
				return labelstack.StackFile(args[0], args[1], opts)
			}
			if len(args) == 1 {
				out := labelstack.OutputName(args[0], opts.Spec)
				if dir := labelstack.Flags.OutputDir; dir != "" {
					out = joinOutputDir(dir, out)
				}
				return labelstack.StackFile(args[0], out, opts)
			}

			_, err = labelstack.StackFiles(args, labelstack.Flags.OutputDir, opts, labelstack.Flags.MaxConcurrent)
			return err
		},
	}

	labelstack.BindAllFlags(rootCmd.PersistentFlags())
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the computed plan without writing output")

	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newProofCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// optionsFromFlags assembles engine options from the bound flag values.
func optionsFromFlags(cmd *cobra.Command) (labelstack.Options, error) {
	spec, err := labelstack.Flags.StackOptions.LayoutSpec(cmd.Flags().Changed)
	if err != nil {
		return labelstack.Options{}, err
	}
	return labelstack.Options{
		PageIndex: labelstack.Flags.PageIndex,
		BoxPolicy: labelstack.Flags.StackOptions.BoxPolicy(),
		Spec:      spec,
	}, nil
}

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <input.pdf>",
		Short: "Report page count and page box geometry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			labelstack.Flags.UseFlags()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := pdf.NewDocumentFromBytes(data)
			if err != nil {
				return err
			}

			st := newStyles()
			fmt.Println(st.title.Render(args[0]))
			fmt.Printf("Pages: %d\n", doc.PageCount())
			for i := 0; i < doc.PageCount(); i++ {
				page, err := doc.Page(i)
				if err != nil {
					return err
				}
				fmt.Printf("%s MediaBox %s (%.3f x %.3f in)\n",
					st.label.Render(fmt.Sprintf("Page %d:", i)),
					page.Media, page.Media.WidthInches(), page.Media.HeightInches())
				if page.Crop != nil {
					fmt.Printf("%s CropBox  %s (%.3f x %.3f in)\n",
						st.label.Render(strings.Repeat(" ", len(fmt.Sprintf("Page %d:", i)))),
						*page.Crop, page.Crop.WidthInches(), page.Crop.HeightInches())
				}
			}
			return nil
		},
	}
}

func newProofCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "proof <input.pdf>",
		Short: "Write a proof sheet summarizing the computed layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			labelstack.Flags.UseFlags()

			opts, err := optionsFromFlags(cmd)
			if err != nil {
				return err
			}
			box, plan, placements, err := computePlan(args[0], opts)
			if err != nil {
				return err
			}

			sheet, err := proof.Sheet(args[0], box, opts.Spec, plan, placements)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], ".pdf") + "_proof.pdf"
			}
			return os.WriteFile(output, sheet, 0o644)
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Proof sheet path (default <input>_proof.pdf)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("labelstack %s (commit: %s, built: %s, go: %s)\n",
				version, commit, date, runtime.Version())
		},
	}
}

func computePlan(path string, opts labelstack.Options) (layout.PageBox, layout.Plan, []layout.Placement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return layout.PageBox{}, layout.Plan{}, nil, err
	}
	doc, err := pdf.NewDocumentFromBytes(data)
	if err != nil {
		return layout.PageBox{}, layout.Plan{}, nil, err
	}
	page, err := doc.Page(opts.PageIndex)
	if err != nil {
		return layout.PageBox{}, layout.Plan{}, nil, err
	}
	box, err := layout.ResolveBox(page, opts.BoxPolicy)
	if err != nil {
		return layout.PageBox{}, layout.Plan{}, nil, err
	}
	plan, err := layout.PlanLayout(box, opts.Spec)
	if err != nil {
		return layout.PageBox{}, layout.Plan{}, nil, err
	}
	placements, err := layout.Placements(box, plan, opts.Spec)
	if err != nil {
		return layout.PageBox{}, layout.Plan{}, nil, err
	}
	return box, plan, placements, nil
}

func printPlan(path string, opts labelstack.Options) error {
	box, plan, placements, err := computePlan(path, opts)
	if err != nil {
		return err
	}

	st := newStyles()
	fmt.Println(st.title.Render(fmt.Sprintf("%s, page %d", path, opts.PageIndex)))
	fmt.Printf("%s %s\n", st.label.Render("Box:"), box)
	fmt.Printf("%s %.2f x %.2f pt\n", st.label.Render("Canvas:"), plan.CanvasWidth, plan.CanvasHeight)
	centers := lo.Map(plan.DieCenters, func(c float64, _ int) string {
		return fmt.Sprintf("%.2f", c)
	})
	fmt.Printf("%s %s\n", st.label.Render("Die centers:"), strings.Join(centers, ", "))
	for i, p := range placements {
		fmt.Printf("%s offset (%.2f, %.2f) scale (%.4f, %.4f)\n",
			st.label.Render(fmt.Sprintf("Copy %d:", i)), p.OffsetX, p.OffsetY, p.ScaleX, p.ScaleY)
	}
	return nil
}

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
}

func newStyles() styles {
	plain := !term.IsTerminal(int(os.Stdout.Fd())) || termenv.EnvNoColor()
	if plain {
		return styles{title: lipgloss.NewStyle(), label: lipgloss.NewStyle()}
	}
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8A2BE2")),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

func joinOutputDir(dir, out string) string {
	return filepath.Join(dir, filepath.Base(out))
}
