package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-raytracing-kernels/pkg/core"
	"github.com/df07/go-raytracing-kernels/pkg/nurbs"
	"github.com/df07/go-raytracing-kernels/pkg/renderer"
	"github.com/df07/go-raytracing-kernels/pkg/scene"
)

// Config holds the command line configuration
type Config struct {
	SceneName string
	Width     int
	Height    int
	Offset    float64
	Workers   int
	Frames    int
	Step      float64
	Motion    string
	OutputDir string
	CurveFile string
	Help      bool
}

func main() {
	config := parseFlags()

	if config.Help {
		showHelp()
		return
	}

	if config.CurveFile != "" {
		if err := runCurve(config.CurveFile, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Starting Whitted Raytracer...")
	files, err := runRender(ctx, config, renderer.NewDefaultLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		fmt.Printf("Render saved as %s\n", f)
	}
}

// parseFlags parses command line flags and returns configuration
func parseFlags() Config {
	config := Config{}
	defaults := renderer.DefaultConfig()
	seq := renderer.DefaultSequence()

	flag.StringVar(&config.SceneName, "scene", "default", "Scene: "+strings.Join(scene.Names(), ", ")+" or a .json scene file")
	flag.IntVar(&config.Width, "width", defaults.Width, "Image width in pixels")
	flag.IntVar(&config.Height, "height", defaults.Height, "Image height in pixels")
	flag.Float64Var(&config.Offset, "offset", defaults.ScreenOffsetY, "Vertical offset of the screen window")
	flag.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.IntVar(&config.Frames, "frames", seq.Frames, "Number of frames to render")
	flag.Float64Var(&config.Step, "step", seq.Step, "Motion per frame (x shift or radians)")
	flag.StringVar(&config.Motion, "motion", seq.Motion, "Frame motion: 'shift' or 'rotate'")
	flag.StringVar(&config.OutputDir, "out", "", "Output directory (default output/<scene>)")
	flag.StringVar(&config.CurveFile, "curve", "", "Evaluate a JSON curve file and print its points instead of rendering")
	flag.BoolVar(&config.Help, "help", false, "Show help information")
	flag.Parse()

	return config
}

// showHelp displays help information
func showHelp() {
	fmt.Println("Whitted Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	infos, _ := scene.ListScenes("scenes")
	for _, info := range infos {
		fmt.Printf("  %-12s - %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
}

// createScene resolves a built-in scene name or a JSON scene file path
func createScene(name string) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty scene name", scene.ErrUnknownScene)
	}
	return scene.Load(name)
}

// sceneDirName returns the output directory name for a scene argument
func sceneDirName(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}

// runRender renders the configured frames and writes one PNG per frame.
// It returns the written file paths.
func runRender(ctx context.Context, config Config, logger core.Logger) ([]string, error) {
	sc, err := createScene(config.SceneName)
	if err != nil {
		return nil, err
	}

	rc := renderer.DefaultConfig()
	rc.Width = config.Width
	rc.Height = config.Height
	rc.ScreenOffsetY = config.Offset
	rc.NumWorkers = config.Workers

	seq := renderer.DefaultSequence()
	seq.Frames = config.Frames
	seq.Step = config.Step
	seq.Motion = config.Motion

	outputDir := config.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join("output", sceneDirName(config.SceneName))
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	raytracer := renderer.NewRaytracer(rc, logger)
	frameChan, _, errChan := raytracer.RenderSequence(ctx, sc, seq, renderer.RenderOptions{})

	timestamp := time.Now().Format("20060102_150405")
	var files []string
	for frame := range frameChan {
		filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
		if seq.Frames > 1 {
			filename = filepath.Join(outputDir, fmt.Sprintf("render_%s_f%03d.png", timestamp, frame.FrameNumber))
		}
		if err := savePNG(filename, frame); err != nil {
			return files, err
		}
		logger.Printf("Average luminance of frame %d: %.4f\n", frame.FrameNumber, renderer.CalculateAverageLuminance(frame.Image))
		files = append(files, filename)
	}

	if err := <-errChan; err != nil {
		return files, err
	}
	if len(files) == 0 {
		return nil, errors.New("no frames rendered")
	}
	return files, nil
}

func savePNG(filename string, frame renderer.FrameResult) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, frame.Image); err != nil {
		return fmt.Errorf("error saving PNG: %w", err)
	}
	return nil
}

// curveOutput is the JSON document printed for -curve
type curveOutput struct {
	Knots  []int        `json:"knots"`
	Points [][2]float64 `json:"points"`
}

// runCurve evaluates a curve file and writes its knots and samples as JSON
func runCurve(path string, w io.Writer) error {
	spec, err := nurbs.LoadSpec(path)
	if err != nil {
		return err
	}
	c := spec.Curve()
	points, err := c.Evaluate()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(curveOutput{Knots: c.Knots(), Points: nurbs.MarshalPoints(points)})
}
