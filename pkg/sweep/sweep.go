// Package sweep drives a black-body temperature sweep: it computes the
// radiance curve for each temperature in a sequence and writes one chart
// image per temperature, named by its position in the sequence.
package sweep

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kykyelric/go-planck-anim/pkg/planck"
	"github.com/kykyelric/go-planck-anim/pkg/render"
)

// FrameRenderer draws the chart for one temperature and writes the
// rasterized bytes to w. Implementations must be safe for concurrent use.
type FrameRenderer interface {
	Render(w io.Writer, wavelengths, radiance []float64, temp float64) error
}

// Config holds every parameter of a sweep: temperature range, wavelength
// grid, destination, and worker count all travel explicitly.
type Config struct {
	StartTemp float64 // K, first temperature in the sweep
	StopTemp  float64 // K, last temperature, inclusive
	StepTemp  float64 // K, increment between frames

	WavelengthMin    float64 // m
	WavelengthMax    float64 // m
	WavelengthPoints int

	OutputDir      string
	FilenamePrefix string // defaults to "frame"
	PadWidth       int    // zero-pad width for the frame index; 0 = derive from frame count
	Workers        int    // 0 = NumCPU
}

// DefaultConfig reproduces the reference sweep: 4500-7000 K in 25 K steps
// over 1000 wavelengths from 100 nm to 2 µm.
func DefaultConfig(outputDir string) Config {
	return Config{
		StartTemp:        4500,
		StopTemp:         7000,
		StepTemp:         25,
		WavelengthMin:    100e-9,
		WavelengthMax:    2e-6,
		WavelengthPoints: 1000,
		OutputDir:        outputDir,
	}
}

// Validate rejects physically meaningless parameters before any frame is
// computed. Wavelength bounds are checked again by planck.Grid; temperature
// positivity can only be checked here.
func (c Config) Validate() error {
	if c.StartTemp <= 0 || c.StopTemp <= 0 {
		return fmt.Errorf("temperatures must be positive, got %g..%g K", c.StartTemp, c.StopTemp)
	}
	if c.StepTemp <= 0 {
		return fmt.Errorf("temperature step must be positive, got %g K", c.StepTemp)
	}
	if c.StopTemp < c.StartTemp {
		return fmt.Errorf("stop temperature %g K is below start temperature %g K", c.StopTemp, c.StartTemp)
	}
	if c.WavelengthMin <= 0 || c.WavelengthMax <= 0 {
		return fmt.Errorf("wavelengths must be positive, got [%g, %g] m", c.WavelengthMin, c.WavelengthMax)
	}
	if c.WavelengthMin >= c.WavelengthMax {
		return fmt.Errorf("wavelength range must be increasing, got [%g, %g] m", c.WavelengthMin, c.WavelengthMax)
	}
	if c.WavelengthPoints < 2 {
		return fmt.Errorf("wavelength grid needs at least 2 points, got %d", c.WavelengthPoints)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory must be set")
	}
	return nil
}

// Temperatures expands a start/stop/step triple into the inclusive
// temperature sequence for the sweep.
func Temperatures(start, stop, step float64) []float64 {
	// The epsilon keeps the endpoint when (stop-start)/step lands a hair
	// under an integer.
	count := int(math.Floor((stop-start)/step+1e-9)) + 1
	temps := make([]float64, count)
	for i := range temps {
		temps[i] = start + float64(i)*step
	}
	return temps
}

// padWidth returns the zero-pad width for frame indices, at least 3 digits
// and wide enough for the largest index.
func padWidth(frameCount int) int {
	width := len(fmt.Sprintf("%d", frameCount-1))
	if width < 3 {
		width = 3
	}
	return width
}

// frameTask is one frame of the sweep for the worker pool
type frameTask struct {
	Index int // position in the temperature sequence, fixes the filename
	Temp  float64
}

// frameResult is the outcome of rendering one frame
type frameResult struct {
	Index    int
	Temp     float64
	Filename string
	Peak     float64 // peak wavelength in meters, for logging
	Duration time.Duration
	Err      error
}

// Sweep renders each temperature in the configured sequence to its own
// image file. Frames are independent and render in parallel; filenames are
// fixed by sequence position, so output is deterministic regardless of
// execution order.
type Sweep struct {
	config   Config
	renderer FrameRenderer
	log      *zap.SugaredLogger
}

// New creates a sweep after validating its configuration
func New(config Config, renderer FrameRenderer, logger *zap.SugaredLogger) (*Sweep, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sweep config: %w", err)
	}
	if renderer == nil {
		return nil, fmt.Errorf("sweep needs a frame renderer")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Sweep{config: config, renderer: renderer, log: logger}, nil
}

// Run executes the whole sweep. The first failing frame (lowest index)
// aborts the run; a frame is either fully written or removed.
func (s *Sweep) Run() error {
	temps := Temperatures(s.config.StartTemp, s.config.StopTemp, s.config.StepTemp)
	width := s.config.PadWidth
	if width == 0 {
		width = padWidth(len(temps))
	}
	prefix := s.config.FilenamePrefix
	if prefix == "" {
		prefix = "frame"
	}

	wavelengths, err := planck.Grid(s.config.WavelengthMin, s.config.WavelengthMax, s.config.WavelengthPoints)
	if err != nil {
		return fmt.Errorf("building wavelength grid: %w", err)
	}

	numWorkers := s.config.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(temps) {
		numWorkers = len(temps)
	}

	s.log.Infow("starting sweep",
		"frames", len(temps),
		"start_temp_k", s.config.StartTemp,
		"stop_temp_k", s.config.StopTemp,
		"step_temp_k", s.config.StepTemp,
		"wavelength_points", len(wavelengths),
		"workers", numWorkers,
		"output_dir", s.config.OutputDir,
	)
	start := time.Now()

	taskQueue := make(chan frameTask, len(temps))
	resultQueue := make(chan frameResult, len(temps))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskQueue {
				resultQueue <- s.renderFrame(task, wavelengths, prefix, width)
			}
		}()
	}

	for i, temp := range temps {
		taskQueue <- frameTask{Index: i, Temp: temp}
	}
	close(taskQueue)
	wg.Wait()
	close(resultQueue)

	// Collect all results, then report the lowest-index failure so the
	// error is deterministic under parallel execution.
	var firstErr *frameResult
	for result := range resultQueue {
		if result.Err != nil {
			if firstErr == nil || result.Index < firstErr.Index {
				r := result
				firstErr = &r
			}
			continue
		}
		s.log.Infow("frame rendered",
			"index", result.Index,
			"temperature_k", result.Temp,
			"peak_wavelength_m", result.Peak,
			"file", result.Filename,
			"duration", result.Duration,
		)
	}
	if firstErr != nil {
		return fmt.Errorf("frame %d (T=%g K): %w", firstErr.Index, firstErr.Temp, firstErr.Err)
	}

	s.log.Infow("sweep complete", "frames", len(temps), "duration", time.Since(start))
	return nil
}

// renderFrame computes and writes a single frame. On any failure the
// partially written file is removed so the output directory never holds a
// corrupt frame.
func (s *Sweep) renderFrame(task frameTask, wavelengths []float64, prefix string, width int) frameResult {
	start := time.Now()
	result := frameResult{Index: task.Index, Temp: task.Temp}

	radiance := planck.Curve(wavelengths, task.Temp)

	// The renderer locates the peak again for the marker; finding it here
	// too keeps the log line without widening the renderer contract.
	if peak, err := render.FindPeak(wavelengths, radiance); err == nil {
		result.Peak = peak.Wavelength
	}

	filename := filepath.Join(s.config.OutputDir, fmt.Sprintf("%s%0*d.png", prefix, width, task.Index))
	result.Filename = filename

	file, err := os.Create(filename)
	if err != nil {
		result.Err = fmt.Errorf("creating output file: %w", err)
		return result
	}

	if err := s.renderer.Render(file, wavelengths, radiance, task.Temp); err != nil {
		file.Close()
		os.Remove(filename)
		result.Err = err
		return result
	}
	if err := file.Close(); err != nil {
		os.Remove(filename)
		result.Err = fmt.Errorf("closing output file: %w", err)
		return result
	}

	result.Duration = time.Since(start)
	return result
}
