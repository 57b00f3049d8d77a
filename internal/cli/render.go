package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartdot/pkg/errors"
	"github.com/matzehuels/chartdot/pkg/io"
	"github.com/matzehuels/chartdot/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output  string
	formats string
	scale   float64
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{formats: pipeline.FormatDOT}

	cmd := &cobra.Command{
		Use:   "render [model]",
		Short: "Render a statechart model to DOT, SVG, PNG or PDF",
		Long: `Render converts a statechart model into Graphviz DOT and optionally lays it out.

Formats:
  dot    Graphviz source (default)
  svg    laid out with the embedded Graphviz engine
  png    rasterized with rsvg-convert
  pdf    converted with rsvg-convert
  json   the normalized model

Output files are named after the input unless -o is given. Use -o - to
write a single format to stdout.`,
		Example: `  chartdot render door.yaml
  chartdot render door.yaml -f svg,png --scale 3
  chartdot render door.json -o - | dot -Tpng > door.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path (- for stdout)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "comma-separated output formats")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	cmd.ValidArgsFunction = completeModelFiles
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := loggerFromContext(ctx)

	if opts.output != "" && opts.output != "-" {
		if err := errors.ValidatePath(opts.output); err != nil {
			return err
		}
	}

	formats := pipeline.ParseFormats(opts.formats)
	if opts.output == "-" && len(formats) != 1 {
		return fmt.Errorf("stdout output requires exactly one format, got %d", len(formats))
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Rendering "+filepath.Base(input)+"...").withOutput(cmd.ErrOrStderr())
	spinner.Start()

	result, err := runner.ExecuteFile(ctx, input, pipeline.Options{
		Formats: formats,
		Scale:   opts.scale,
		Refresh: opts.refresh,
		Logger:  logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(result.Artifacts[formats[0]])
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, basePath(opts.output, input), input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Rendered %s", result.Chart.Name)
	for _, p := range paths {
		printFile(out, p)
	}
	printStats(out, result.Stats.StateCount, result.Stats.TransitionCount, result.CacheInfo.RenderHit)
	prog.done("Rendered " + filepath.Base(input))
	return nil
}

// completeModelFiles offers files with a model extension.
func completeModelFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	exts := make([]string, 0, len(io.Extensions()))
	for _, ext := range io.Extensions() {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	return exts, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats offers the render formats.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	formats := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats, cobra.ShellCompDirectiveNoFileComp
}

// basePath returns the output path without extension. An explicit output
// wins, with any extension stripped; otherwise the input path is used.
func basePath(output, input string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// writeArtifacts writes each artifact to base.<format> and returns the
// written paths in sorted order. Nothing is written if any of the paths
// is the input model itself.
func writeArtifacts(artifacts map[string][]byte, base, input string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if samePath(path, input) {
			return nil, errors.New(errors.ErrCodeInvalidPath,
				"%s output would overwrite the input model %s; choose another name with -o", f, input)
		}
		paths = append(paths, path)
	}

	for _, path := range paths {
		format := strings.TrimPrefix(filepath.Ext(path), ".")
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
	}
	return paths, nil
}

// samePath reports whether a and b name the same file, comparing cleaned
// absolute paths and, when both exist, file identity.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}
