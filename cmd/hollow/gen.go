package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/taigrr/hollow/pkg/kernel"
	"github.com/taigrr/hollow/pkg/kernel/sdfx"
	"github.com/taigrr/hollow/pkg/models"
)

type genOptions struct {
	size  float64
	wall  float64
	bore  float64
	cells int
}

var genKinds = []string{"hollow-box", "channel-plate", "hollow-cube", "channel-block"}

func newGenCmd() *cobra.Command {
	opts := genOptions{size: 20, wall: 2, bore: 6, cells: sdfx.DefaultCells}

	cmd := &cobra.Command{
		Use:   "gen <kind> <out.stl>",
		Short: "Write a test solid with an internal cavity",
		Long: "Kinds:\n" +
			"  hollow-box     box with a sealed cavity (marching cubes)\n" +
			"  channel-plate  plate with a round through channel (marching cubes)\n" +
			"  hollow-cube    exact cube with a cubic cavity\n" +
			"  channel-block  exact cube with a square through channel",
		Args:      cobra.ExactArgs(2),
		ValidArgs: genKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}
	cmd.Flags().Float64Var(&opts.size, "size", opts.size, "outer size of the solid")
	cmd.Flags().Float64Var(&opts.wall, "wall", opts.wall, "wall thickness around a sealed cavity")
	cmd.Flags().Float64Var(&opts.bore, "bore", opts.bore, "channel diameter or side")
	cmd.Flags().IntVar(&opts.cells, "cells", opts.cells, "marching cubes cells along the longest side")
	return cmd
}

// runGen builds the named fixture and writes it as ASCII STL.
func runGen(w io.Writer, kind, out string, opts genOptions) error {
	tris, err := genTriangles(kind, opts)
	if err != nil {
		return err
	}

	m := models.FromTriangles(kind, tris)
	m.Index()
	if err := m.WriteSTL(out); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	slog.Debug("generated fixture", "kind", kind, "triangles", m.TriangleCount())
	fmt.Fprintf(w, "Wrote %s: %d triangles, volume "+volumeFmt+"\n", out, m.TriangleCount(), m.Volume())
	return nil
}

// checkGen rejects dimensions that would give an empty or inside-out
// solid before they reach a kernel constructor.
func checkGen(kind string, opts genOptions) error {
	if opts.size <= 0 {
		return fmt.Errorf("%s: size must be positive, got %g", kind, opts.size)
	}
	switch kind {
	case "hollow-box", "hollow-cube":
		if opts.wall <= 0 || opts.wall >= opts.size/2 {
			return fmt.Errorf("%s: wall must be in (0, %g), got %g", kind, opts.size/2, opts.wall)
		}
	case "channel-block":
		if opts.bore <= 0 || opts.bore >= opts.size {
			return fmt.Errorf("%s: bore must be in (0, %g), got %g", kind, opts.size, opts.bore)
		}
	case "channel-plate":
		// The plate is size/2 thick.
		if opts.bore <= 0 || opts.bore >= opts.size/2 {
			return fmt.Errorf("%s: bore must be in (0, %g), got %g", kind, opts.size/2, opts.bore)
		}
	default:
		return fmt.Errorf("unknown fixture %q (want one of %v)", kind, genKinds)
	}
	if (kind == "hollow-box" || kind == "channel-plate") && opts.cells <= 0 {
		return fmt.Errorf("%s: cells must be positive, got %d", kind, opts.cells)
	}
	return nil
}

func genTriangles(kind string, opts genOptions) ([]models.Triangle, error) {
	if err := checkGen(kind, opts); err != nil {
		return nil, err
	}

	switch kind {
	case "hollow-cube":
		return kernel.HollowCube(opts.size, opts.wall), nil
	case "channel-block":
		return kernel.ChannelBlock(opts.size, opts.bore), nil
	}

	k := sdfx.New()
	var s kernel.Solid
	switch kind {
	case "hollow-box":
		s = kernel.HollowBox(k, opts.size, opts.wall)
	case "channel-plate":
		s = kernel.ChannelPlate(k, 2*opts.size, opts.size, opts.size/2, opts.bore/2)
	default:
		return nil, fmt.Errorf("unknown fixture %q (want one of %v)", kind, genKinds)
	}
	tris, err := k.ToTriangles(s, opts.cells)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", kind, err)
	}
	return tris, nil
}
