// hollow - STL cavity extractor
// Reads a solid's surface mesh, reports its quality and volume, and writes
// the closed surface of the internal cavity (the fluid volume) as STL.
//
// Usage:
//
//	hollow [flags] <input.stl>     run the full pipeline into --out
//	hollow validate <path>         print the quality report only
//	hollow gen <kind> <out.stl>    write a test solid
//	hollow preview <in> [out.png]  draw a wireframe snapshot
package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/hollow/pkg/cavity"
)

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := pipelineOptions{
		outDir: "output",
		cavity: cavity.DefaultConfig(),
	}
	var (
		validatePath string
		verbose      bool
	)

	root := &cobra.Command{
		Use:   "hollow <input.stl>",
		Short: "Extract the internal cavity of an STL solid",
		Long: "hollow indexes a triangulated solid, writes it back as solid_volume.stl, " +
			"and derives the closed surface of its internal cavity as fluid_volume.stl.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogger(cmd.ErrOrStderr(), verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if validatePath != "" {
				return runValidate(cmd.OutOrStdout(), validatePath)
			}
			if len(args) == 0 {
				return errMissingInput
			}
			return runPipeline(cmd.OutOrStdout(), args[0], opts)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&opts.outDir, "out", "o", opts.outDir, "output directory")
	flags.BoolVar(&opts.glb, "glb", false, "also write fluid_volume.glb")
	flags.BoolVar(&opts.preview, "preview", false, "also write fluid_volume.png")
	flags.Float64Var(&opts.cavity.Offset, "offset", opts.cavity.Offset, "probe offset from each face")
	flags.Float64Var(&opts.cavity.MinDistance, "min-distance", opts.cavity.MinDistance, "ignore ray hits closer than this")
	flags.Float64Var(&opts.cavity.MergeEpsilon, "merge-epsilon", opts.cavity.MergeEpsilon, "merge ray hits closer together than this")
	flags.StringVar(&validatePath, "validate", "", "print the quality report of `path` and exit")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")

	root.AddCommand(newValidateCmd(), newGenCmd(), newPreviewCmd())
	return root
}

func setupLogger(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
