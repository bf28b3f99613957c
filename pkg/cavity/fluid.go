package cavity

import (
	"log/slog"
	"slices"

	"github.com/taigrr/hollow/pkg/models"
)

// Config tunes the ray-parity classification.
type Config struct {
	// Offset moves each probe off its face along the face normal.
	Offset float64
	// MinDistance discards hits closer than this to the probe origin.
	MinDistance float64
	// MergeEpsilon merges hits this close together into one crossing, so a
	// ray through a shared edge counts once.
	MergeEpsilon float64
}

// DefaultConfig returns the classification settings used by the CLI.
func DefaultConfig() Config {
	return Config{
		Offset:       1e-4,
		MinDistance:  1e-2,
		MergeEpsilon: 1e-4,
	}
}

// Classify returns, in face order, the faces that look into a cavity: a ray
// cast from just off the face along its normal crosses the surface a
// positive, even number of times. Every face is tested against every other
// face.
func Classify(m *models.Mesh, cfg Config) []int {
	var selected []int
	hits := make([]float64, 0, 16)
	for i := range m.Faces {
		tri := m.Triangle(i)
		dir := tri.Normal
		origin := tri.Centroid().Add(dir.Scale(cfg.Offset))

		hits = hits[:0]
		for k := range m.Faces {
			if k == i {
				continue
			}
			if t, ok := m.RayIntersect(k, origin, dir); ok && t > cfg.MinDistance {
				hits = append(hits, t)
			}
		}

		if n := distinctHits(hits, cfg.MergeEpsilon); n > 0 && n%2 == 0 {
			selected = append(selected, i)
		}
	}
	return selected
}

// distinctHits sorts ts in place and counts them, treating a hit within eps
// of the last counted one as the same crossing.
func distinctHits(ts []float64, eps float64) int {
	slices.Sort(ts)
	n := 0
	last := -1e30
	for _, t := range ts {
		if t-last > eps {
			n++
			last = t
		}
	}
	return n
}

// Result describes one cavity extraction.
type Result struct {
	Selected []int // faces chosen by Classify
	Loops    int   // boundary loops traced over the selection
	Caps     int   // cap triangles generated before cleaning
	Clean    models.CleanReport
}

// Extract builds the closed cavity surface of m: the classified faces plus
// caps over the holes they leave, cleaned. Caps are wound opposite to the
// face that owns their loop.
func Extract(m *models.Mesh, cfg Config) ([]models.Triangle, Result) {
	var res Result
	res.Selected = Classify(m, cfg)
	slog.Debug("classified faces", "faces", len(m.Faces), "selected", len(res.Selected))

	res.Loops = len(BoundaryLoops(m, res.Selected))
	tris, n := addCaps(m, res.Selected)
	res.Caps = len(tris) - n
	for i := n; i < len(tris); i++ {
		tris[i].V[1], tris[i].V[2] = tris[i].V[2], tris[i].V[1]
		tris[i].Normal = tris[i].Normal.Negate()
	}
	slog.Debug("capped boundary", "loops", res.Loops, "caps", res.Caps)

	tris, res.Clean = models.CleanTriangles(tris)
	slog.Debug("cleaned cavity", "before", res.Clean.Before, "after", res.Clean.After)
	return tris, res
}

// EvenHitSubset writes the faces chosen by Classify to path, without caps.
func EvenHitSubset(m *models.Mesh, cfg Config, path string) ([]int, error) {
	sel := Classify(m, cfg)
	if err := m.WriteSubsetSTL(path, sel); err != nil {
		return nil, err
	}
	return sel, nil
}
