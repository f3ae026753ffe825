// Command isomesh extracts an isosurface from a built-in scalar field
// and writes it to an STL file.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/gogpu/isomesh"
	"github.com/gogpu/isomesh/field"
	"github.com/gogpu/isomesh/gpu"
	"github.com/gogpu/isomesh/stl"
)

func main() {
	var (
		size     = flag.Int("size", 64, "grid cells per axis")
		iso      = flag.Float64("iso", 0, "iso level to extract at")
		cellSize = flag.Float64("cell", 0.05, "cell edge length in world units")
		shape    = flag.String("shape", "sphere", "field to mesh: sphere, box, torus, csg")
		output   = flag.String("output", "isomesh.stl", "output STL file")
		ascii    = flag.Bool("ascii", false, "write ASCII STL instead of binary")
		workers  = flag.Int("workers", 0, "worker goroutines, 0 for GOMAXPROCS")
		useGPU   = flag.Bool("gpu", false, "extract on the GPU")
		verbose  = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	isomesh.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	sampler, err := makeField(*shape)
	if err != nil {
		log.Fatalf("bad field: %v", err)
	}

	grid := isomesh.NewGrid(*size, float32(*cellSize))
	start := time.Now()

	var tris []isomesh.Triangle
	if *useGPU {
		tris, err = marchGPU(grid, sampler, float32(*iso))
	} else {
		tris, err = grid.MarchParallel(sampler, float32(*iso), isomesh.WithWorkers(*workers))
	}
	if err != nil {
		log.Fatalf("extraction failed: %v", err)
	}
	elapsed := time.Since(start)

	if *ascii {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("create %s: %v", *output, err)
		}
		if err := stl.WriteASCII(f, *shape, tris); err != nil {
			log.Fatalf("write %s: %v", *output, err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("close %s: %v", *output, err)
		}
	} else {
		if err := stl.Save(*output, *shape, tris); err != nil {
			log.Fatalf("write %s: %v", *output, err)
		}
	}

	log.Printf("%s: %d cells, %d triangles in %v -> %s",
		*shape, grid.CellCount(), len(tris), elapsed.Round(time.Millisecond), *output)
}

// makeField builds the scalar field selected on the command line. The
// analytic shapes are sized to fit the default 64-cell grid at cell
// size 0.05, which spans [-1.6, 1.6] per axis.
func makeField(shape string) (isomesh.Sampler, error) {
	switch shape {
	case "sphere":
		return field.Sphere{Radius: 1}, nil
	case "box":
		return field.Box{Half: isomesh.V3(0.8, 0.6, 1)}, nil
	case "torus":
		return field.Torus{Major: 1, Minor: 0.35}, nil
	case "csg":
		// A box with a spherical bite, built with sdfx constructive
		// geometry and adapted to a scalar field.
		box, err := sdf.Box3D(v3.Vec{X: 1.6, Y: 1.6, Z: 1.6}, 0)
		if err != nil {
			return nil, err
		}
		sphere, err := sdf.Sphere3D(1.05)
		if err != nil {
			return nil, err
		}
		return field.FromSDF3(sdf.Difference3D(box, sphere)), nil
	default:
		return nil, fmt.Errorf("unknown shape %q (want sphere, box, torus or csg)", shape)
	}
}

// marchGPU samples the field into a lattice and dispatches the compute
// kernel, falling back with a clear error when no GPU is available.
func marchGPU(grid isomesh.Grid, sampler isomesh.Sampler, iso float32) ([]isomesh.Triangle, error) {
	mesher, err := gpu.NewMesher()
	if err != nil {
		return nil, err
	}
	defer mesher.Close()
	return mesher.March(grid, grid.SampleField(sampler), iso)
}
