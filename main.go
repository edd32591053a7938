package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kykyelric/go-planck-anim/pkg/render"
	"github.com/kykyelric/go-planck-anim/pkg/sweep"
)

func main() {
	outputDir := flag.String("output", "frames", "Directory to write frame images into")
	startTemp := flag.Float64("tstart", 4500, "First temperature of the sweep (K)")
	stopTemp := flag.Float64("tstop", 7000, "Last temperature of the sweep, inclusive (K)")
	stepTemp := flag.Float64("tstep", 25, "Temperature increment between frames (K)")
	wavelengthMin := flag.Float64("lmin", 100e-9, "Shortest wavelength (m)")
	wavelengthMax := flag.Float64("lmax", 2e-6, "Longest wavelength (m)")
	points := flag.Int("points", 1000, "Number of wavelength grid points")
	workers := flag.Int("workers", 0, "Parallel frame workers (0 = number of CPUs)")
	yMax := flag.Float64("ymax", 7e13, "Fixed y-axis upper bound so all frames share one scale")
	debug := flag.Bool("debug", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Black-body radiance sweep renderer")
		fmt.Println("Usage: planck-anim [options]")
		fmt.Println()
		fmt.Println("Renders one chart per temperature showing the Planck spectral")
		fmt.Println("radiance curve and its peak wavelength. Frames are written as")
		fmt.Println("<output>/frame000.png, frame001.png, ... in sweep order.")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalw("failed to create output directory", "dir", *outputDir, "error", err)
	}

	config := sweep.Config{
		StartTemp:        *startTemp,
		StopTemp:         *stopTemp,
		StepTemp:         *stepTemp,
		WavelengthMin:    *wavelengthMin,
		WavelengthMax:    *wavelengthMax,
		WavelengthPoints: *points,
		OutputDir:        *outputDir,
		Workers:          *workers,
	}
	renderer := render.NewPlotRenderer(render.PlotConfig{YMax: *yMax})

	s, err := sweep.New(config, renderer, log)
	if err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}
	if err := s.Run(); err != nil {
		log.Fatalw("sweep failed", "error", err)
	}
}

// newLogger builds the process logger; -debug switches to the
// human-readable development encoder.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
