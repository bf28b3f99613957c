package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/taigrr/hollow/pkg/cavity"
	"github.com/taigrr/hollow/pkg/models"
	"github.com/taigrr/hollow/pkg/render"
)

const (
	solidFile   = "solid_volume.stl"
	fluidFile   = "fluid_volume.stl"
	fluidGLB    = "fluid_volume.glb"
	fluidImage  = "fluid_volume.png"
	volumeFmt   = "%.10f"
	reportTitle = "Geometry quality report"
)

var errMissingInput = errors.New("missing input path (usage: hollow <input.stl> or hollow --validate <path>)")

type pipelineOptions struct {
	outDir  string
	glb     bool
	preview bool
	cavity  cavity.Config
}

// runPipeline indexes the input solid, writes it and its cavity into
// opts.outDir and prints volumes and quality reports to w.
func runPipeline(w io.Writer, input string, opts pipelineOptions) error {
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", opts.outDir, err)
	}

	m := models.NewMesh("")
	if err := m.Load(input); err != nil {
		return err
	}
	slog.Debug("loaded solid", "path", input, "triangles", m.TriangleCount(), "vertices", m.VertexCount())

	if wr := m.CheckWinding(); len(wr.Inverted) > 0 {
		slog.Warn("input has faces wound against their declared normal", "count", len(wr.Inverted))
	}

	solidPath := filepath.Join(opts.outDir, solidFile)
	if err := m.WriteSTL(solidPath); err != nil {
		return fmt.Errorf("write solid: %w", err)
	}
	solidVolume := m.Volume()

	fluid, res := cavity.Extract(m, opts.cavity)
	slog.Debug("extracted cavity", "selected", len(res.Selected), "loops", res.Loops,
		"caps", res.Caps, "triangles", len(fluid))

	fluidPath := filepath.Join(opts.outDir, fluidFile)
	if err := models.WriteSTL(fluidPath, fluid); err != nil {
		return fmt.Errorf("write fluid: %w", err)
	}

	fmt.Fprintf(w, "Solid geometry volume: "+volumeFmt+"\n", solidVolume)
	if v, err := models.VolumeFromFile(fluidPath); err == nil {
		fmt.Fprintf(w, "Fluid geometry volume: "+volumeFmt+"\n", v)
	} else {
		slog.Warn("failed to compute volume of fluid STL", "path", fluidPath, "err", err)
	}
	fmt.Fprintf(w, "Output: %s, %s\n", solidPath, fluidPath)

	if opts.glb {
		p := filepath.Join(opts.outDir, fluidGLB)
		if err := models.WriteGLB(p, models.FluidSolidName, fluid); err != nil {
			return fmt.Errorf("write fluid glb: %w", err)
		}
		fmt.Fprintf(w, "glTF: %s\n", p)
	}
	if opts.preview {
		p := filepath.Join(opts.outDir, fluidImage)
		if err := render.SnapshotTriangles(fluid, render.DefaultSnapshotOptions()).SavePNG(p); err != nil {
			return fmt.Errorf("write fluid preview: %w", err)
		}
		fmt.Fprintf(w, "Preview: %s\n", p)
	}

	fmt.Fprintf(w, "\n%s\n", reportTitle)
	printQualityReport(w, solidPath, "Solid")
	printQualityReport(w, fluidPath, "Fluid")
	return nil
}

// printQualityReport re-reads a written file and prints its diagnostics
// under a labelled heading. A file that cannot be read gets a one-line note.
func printQualityReport(w io.Writer, path, label string) {
	m := models.NewMesh("")
	if err := m.Load(path); err != nil {
		fmt.Fprintf(w, "%s: failed to read %s\n", label, path)
		slog.Debug("quality report skipped", "path", path, "err", err)
		return
	}
	fmt.Fprintf(w, "--- %s (%s) ---\n", label, path)
	m.CheckWatertight().Print(w)
	m.CheckWinding().Print(w)
	fmt.Fprintf(w, "Volume: "+volumeFmt+"\n\n", m.Volume())
}
