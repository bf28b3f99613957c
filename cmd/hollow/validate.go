package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taigrr/hollow/pkg/models"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Print the quality report and volume of an STL or GLB file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args[0])
		},
	}
}

// runValidate prints the diagnostics of the mesh at path. It writes no
// files.
func runValidate(w io.Writer, path string) error {
	m, err := loadMesh(path)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	fmt.Fprintln(w, reportTitle)
	fmt.Fprintf(w, "--- %s ---\n", path)
	m.CheckWatertight().Print(w)
	m.CheckWinding().Print(w)
	fmt.Fprintf(w, "Volume: "+volumeFmt+"\n", m.Volume())
	return nil
}

// loadMesh loads and indexes an STL or glTF file, chosen by extension.
func loadMesh(path string) (*models.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
		m, err := models.LoadGLB(path)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		m.Index()
		return m, nil
	default:
		m := models.NewMesh("")
		if err := m.Load(path); err != nil {
			return nil, err
		}
		return m, nil
	}
}
