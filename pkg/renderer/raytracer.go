package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/df07/go-raytracing-kernels/pkg/core"
	"github.com/df07/go-raytracing-kernels/pkg/integrator"
	"github.com/df07/go-raytracing-kernels/pkg/scene"
)

// ErrInvalidDimensions is returned for a non-positive image width, height or tile size
var ErrInvalidDimensions = errors.New("invalid image dimensions")

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// NopLogger discards all messages
var NopLogger core.Logger = nopLogger{}

// Config contains rendering configuration
type Config struct {
	Width         int               // Image width in pixels
	Height        int               // Image height in pixels
	TileSize      int               // Size of each square tile
	NumWorkers    int               // Number of parallel workers (0 = use CPU count)
	ScreenOffsetY float64           // Vertical shift of the screen window
	Shading       integrator.Config // Whitted shading constants
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:         640,
		Height:        480,
		TileSize:      64,
		NumWorkers:    0, // Auto-detect CPU count
		ScreenOffsetY: DefaultScreenOffsetY,
		Shading:       integrator.DefaultConfig(),
	}
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Width, c.Height)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %d", ErrInvalidDimensions, c.TileSize)
	}
	return nil
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX       int // Tile coordinates (not pixel coordinates)
	TileY       int
	TileImage   *image.RGBA // Image data for just this tile
	FrameNumber int         // Which frame of a sequence this tile belongs to (1-based)

	// Progress information
	TileNumber  int // Completed tiles so far in this frame (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalFrames int // Total number of frames planned
}

// Raytracer renders scene snapshots into images
type Raytracer struct {
	config     Config
	integrator integrator.Integrator
	workerPool *WorkerPool
	logger     core.Logger
}

// NewRaytracer creates a new raytracer with a Whitted integrator
func NewRaytracer(config Config, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NopLogger
	}
	return &Raytracer{
		config:     config,
		integrator: integrator.NewWhitted(config.Shading),
		workerPool: NewWorkerPool(config.NumWorkers),
		logger:     logger,
	}
}

// Render traces one frame of the scene. An invalid scene yields an all-black image
// together with the validation error.
func (rt *Raytracer) Render(ctx context.Context, sc *scene.Scene) (*image.RGBA, RenderStats, error) {
	return rt.renderFrame(ctx, sc, 1, 1, nil)
}

// RenderWithTiles is Render with a per-tile completion callback. The callback is
// never invoked concurrently.
func (rt *Raytracer) RenderWithTiles(ctx context.Context, sc *scene.Scene, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	return rt.renderFrame(ctx, sc, 1, 1, tileCallback)
}

func (rt *Raytracer) renderFrame(ctx context.Context, sc *scene.Scene, frame, totalFrames int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	if err := rt.config.validate(); err != nil {
		return nil, RenderStats{}, err
	}

	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, rt.config.Width, rt.config.Height))
	fillBlack(img)

	tiles := NewTileGrid(rt.config.Width, rt.config.Height, rt.config.TileSize)
	stats := RenderStats{
		TotalPixels: rt.config.Width * rt.config.Height,
		TotalTiles:  len(tiles),
		NumWorkers:  rt.workerPool.GetNumWorkers(),
	}

	if err := sc.Validate(); err != nil {
		rt.logger.Printf("Scene not renderable: %v\n", err)
		stats.Duration = time.Since(start)
		return img, stats, err
	}

	camera := NewCamera(sc.Eye, rt.config.Width, rt.config.Height, rt.config.ScreenOffsetY)

	tasks := make([]TileTask, len(tiles))
	for i, tile := range tiles {
		tasks[i] = TileTask{Tile: tile, TaskID: i}
	}

	render := func(ctx context.Context, task TileTask) (TileResult, error) {
		tileStats := rt.renderTile(camera, sc, task.Tile.Bounds, img)
		return TileResult{TaskID: task.TaskID, Tile: task.Tile, Stats: tileStats}, nil
	}

	hits := 0
	completed := 0
	onResult := func(result TileResult) {
		hits += result.Stats.HitPixels
		completed++
		if tileCallback == nil {
			return
		}
		bounds := result.Tile.Bounds
		tileCallback(TileCompletionResult{
			TileX:       bounds.Min.X / rt.config.TileSize,
			TileY:       bounds.Min.Y / rt.config.TileSize,
			TileImage:   extractTileImage(img, bounds),
			FrameNumber: frame,
			TileNumber:  completed,
			TotalTiles:  len(tiles),
			TotalFrames: totalFrames,
		})
	}

	if err := rt.workerPool.Process(ctx, tasks, render, onResult); err != nil {
		return nil, RenderStats{}, err
	}

	stats.HitPixels = hits
	stats.Duration = time.Since(start)
	return img, stats, nil
}

// renderTile traces all pixels in bounds as one batch and writes them into img.
// Tiles never overlap, so concurrent calls write disjoint pixels.
func (rt *Raytracer) renderTile(camera *Camera, sc *scene.Scene, bounds image.Rectangle, img *image.RGBA) RenderStats {
	origins, directions := camera.Rays(bounds)
	colors := rt.integrator.Trace(origins, directions, sc, 0)

	stats := RenderStats{TotalPixels: colors.Len()}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := colors.At(i)
			if c != (core.Vec3{}) {
				stats.HitPixels++
			}
			img.SetRGBA(x, y, vec3ToColor(c))
			i++
		}
	}
	return stats
}

// vec3ToColor clips each channel to [0,1], scales by 255 and truncates
func vec3ToColor(c core.Vec3) color.RGBA {
	c = c.Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}

func fillBlack(img *image.RGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
}

// extractTileImage copies the pixels of one tile into its own image
func extractTileImage(img *image.RGBA, bounds image.Rectangle) *image.RGBA {
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, img.RGBAAt(x, y))
		}
	}
	return tileImage
}

// RGBBytes packs an image into width*height*3 bytes, row-major, top row first
func RGBBytes(img *image.RGBA) []byte {
	bounds := img.Bounds()
	out := make([]byte, 0, bounds.Dx()*bounds.Dy()*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			out = append(out, c.R, c.G, c.B)
		}
	}
	return out
}
