// Command aspen is a developer tool for inspecting design documents: it
// resolves a document against a context and dumps the tree, or steps a
// transition between two contexts and prints per-frame values.
package main

import (
	"fmt"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/aspen"
	"github.com/phanxgames/aspen/flexlayout"
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:          "aspen",
		Short:        "Aspen inspects design documents and their transitions",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newResolveCmd(&verbose))
	root.AddCommand(newSimulateCmd(&verbose))
	return root.Execute()
}

func newLogger(verbose bool) *charmlog.Logger {
	level := charmlog.InfoLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	return charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func newResolveCmd(verbose *bool) *cobra.Command {
	var (
		docPath    string
		configPath string
		variants   []string
		width      float64
		height     float64
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a document against a context and print the tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine(docPath, configPath, width, height, *verbose)
			if err != nil {
				return err
			}
			engine.Apply(&aspen.Context{Variants: parsePairs(variants)})
			reportDiagnostics(engine, *verbose)
			printTree(engine.Tree())
			return nil
		},
	}
	cmd.Flags().StringVar(&docPath, "doc", "", "document JSON file (required)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringArrayVar(&variants, "variant", nil, "variant selection as prop=value")
	cmd.Flags().Float64Var(&width, "width", 640, "viewport width")
	cmd.Flags().Float64Var(&height, "height", 480, "viewport height")
	cmd.MarkFlagRequired("doc")
	return cmd
}

func newSimulateCmd(verbose *bool) *cobra.Command {
	var (
		docPath    string
		configPath string
		fromPairs  []string
		toPairs    []string
		frames     int
		dtMillis   float64
		width      float64
		height     float64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Step a transition between two contexts and print frame values",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine(docPath, configPath, width, height, *verbose)
			if err != nil {
				return err
			}
			engine.Apply(&aspen.Context{Variants: parsePairs(fromPairs)})
			engine.Apply(&aspen.Context{Variants: parsePairs(toPairs)})
			reportDiagnostics(engine, *verbose)

			for frame := 0; frame < frames && engine.Transitioning(); frame++ {
				engine.Tick(dtMillis)
				fmt.Printf("frame %d\n", frame+1)
				printTree(engine.Tree())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&docPath, "doc", "", "document JSON file (required)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringArrayVar(&fromPairs, "from", nil, "starting variant selection as prop=value")
	cmd.Flags().StringArrayVar(&toPairs, "to", nil, "target variant selection as prop=value")
	cmd.Flags().IntVar(&frames, "frames", 30, "maximum frames to simulate")
	cmd.Flags().Float64Var(&dtMillis, "dt", 1000.0/60, "frame delta in milliseconds")
	cmd.Flags().Float64Var(&width, "width", 640, "viewport width")
	cmd.Flags().Float64Var(&height, "height", 480, "viewport height")
	cmd.MarkFlagRequired("doc")
	return cmd
}

func buildEngine(docPath, configPath string, width, height float64, verbose bool) (*aspen.Engine, error) {
	data, err := os.ReadFile(docPath)
	if err != nil {
		return nil, err
	}
	doc, err := aspen.LoadDocument(data)
	if err != nil {
		return nil, err
	}
	cfg := aspen.DefaultConfig()
	if configPath != "" {
		cfg, err = aspen.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	}
	engine := aspen.NewEngine(doc, doc.RootID(), flexlayout.New(width, height), cfg)
	engine.SetLogger(newLogger(verbose))
	return engine, nil
}

func reportDiagnostics(engine *aspen.Engine, verbose bool) {
	logger := newLogger(verbose)
	for _, d := range engine.DrainDiagnostics() {
		if d.Severity == aspen.SeverityError {
			logger.Error(d.Message, "node", d.Node.String())
		} else {
			logger.Warn(d.Message, "node", d.Node.String())
		}
	}
}

// parsePairs turns repeated prop=value flags into a selector map.
func parsePairs(pairs []string) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if k, v, ok := strings.Cut(p, "="); ok {
			out[k] = v
		}
	}
	return out
}

func printTree(t *aspen.Tree) {
	if t == nil {
		return
	}
	var dump func(i, depth int)
	dump = func(i, depth int) {
		n := t.Node(i)
		fmt.Printf("%s%s %s (%.1f, %.1f) %.1fx%.1f opacity=%.2f\n",
			strings.Repeat("  ", depth), n.Kind, n.Identity,
			n.Layout.X, n.Layout.Y, n.Layout.Width, n.Layout.Height, n.Opacity)
		for _, c := range n.ChildIndices() {
			dump(c, depth+1)
		}
	}
	dump(t.Root(), 0)
}
