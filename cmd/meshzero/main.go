package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/netisu/meshzero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var _ pflag.Value = (*meshzero.Mode)(nil)

type options struct {
	output      string
	mode        meshzero.Mode
	preview     string
	previewSize int
	dryRun      bool
	quiet       bool
}

func newRootCommand() *cobra.Command {
	opts := &options{mode: meshzero.ModeMin, previewSize: 512}
	cmd := &cobra.Command{
		Use:   "meshzero <input_path>",
		Short: "Move a mesh so that a chosen reference point sits at the origin",
		Long: `meshzero translates every vertex of a triangle mesh so that its minimum
bounding box corner (min), bounding box center (center) or center of mass
(mass) lands at (0, 0, 0), and writes the result to a new file.

Supported formats: ` + strings.Join(meshzero.Extensions(), " "),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "output path (default <input>_zeroed<ext>)")
	flags.VarP(&opts.mode, "mode", "m", "reference point moved to the origin: min, center or mass")
	flags.StringVar(&opts.preview, "preview", "", "also render the zeroed mesh and axes to this PNG file")
	flags.IntVar(&opts.previewSize, "preview-size", opts.previewSize, "preview width and height in pixels")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "compute and print the shift without writing any file")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only print the output path")
	return cmd
}

func run(cmd *cobra.Command, opts *options, input string) error {
	log.SetFlags(0)
	log.SetOutput(cmd.ErrOrStderr())
	if opts.quiet {
		log.SetOutput(io.Discard)
	}
	if opts.preview != "" && (opts.previewSize < 1 || opts.previewSize > meshzero.MaxRenderSize) {
		return fmt.Errorf("--preview-size must be between 1 and %d, got %d", meshzero.MaxRenderSize, opts.previewSize)
	}

	zero := meshzero.Zero
	if opts.dryRun {
		zero = meshzero.DryRun
	}
	r, err := zero(meshzero.Files{}, input, opts.output, opts.mode)
	if err != nil {
		return err
	}

	if opts.preview != "" && !opts.dryRun {
		if err := meshzero.NewPreview(opts.previewSize).Save(r.Mesh, opts.preview); err != nil {
			return &meshzero.WriteError{Path: opts.preview, Err: err}
		}
	}

	report(cmd.OutOrStdout(), r, opts)
	return nil
}

func report(w io.Writer, r *meshzero.Result, opts *options) {
	out := termenv.NewOutput(w)
	label := func(s string) string {
		return out.String(s).Bold().String()
	}

	if opts.dryRun {
		fmt.Fprintf(w, "%s %s\n", label("Dry run, would save zeroed mesh to:"), r.Output)
	} else {
		fmt.Fprintf(w, "%s %s\n", out.String("Zeroed mesh saved to:").Foreground(out.Color("2")).Bold(), r.Output)
	}
	if opts.quiet {
		return
	}
	fmt.Fprintf(w, "  %s %s\n", label("Mode:  "), r.Mode)
	fmt.Fprintf(w, "  %s %s\n", label("Shift: "), r.Shift)
	fmt.Fprintf(w, "  %s %s\n", label("Before:"), r.Before)
	fmt.Fprintf(w, "  %s %s\n", label("After: "), r.After)
	fmt.Fprintf(w, "  %s %d vertices, %d faces\n", label("Mesh:  "), len(r.Mesh.Vertices), len(r.Mesh.Faces))
	if opts.preview != "" && !opts.dryRun {
		fmt.Fprintf(w, "  %s %s\n", label("Preview:"), opts.preview)
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		out := termenv.NewOutput(os.Stderr)
		fmt.Fprintf(os.Stderr, "%s %v\n", out.String("Error:").Foreground(out.Color("1")).Bold(), err)
		os.Exit(1)
	}
}
