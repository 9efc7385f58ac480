package renderer

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/df07/go-raytracing-kernels/pkg/core"
	"github.com/df07/go-raytracing-kernels/pkg/scene"
)

// Sequence motion modes
const (
	MotionShift  = "shift"  // translate every primitive along x by Step per frame
	MotionRotate = "rotate" // rotate every primitive by Step radians per frame around Axis through Pivot
)

// Sequence describes a turntable: each frame is the base scene moved by frame*Step
type Sequence struct {
	Frames int
	Step   float64
	Motion string
	Axis   core.Vec3
	Pivot  core.Vec3
}

// DefaultSequence shifts the scene by pi/10 per frame
func DefaultSequence() Sequence {
	return Sequence{
		Frames: 1,
		Step:   math.Pi / 10,
		Motion: MotionShift,
		Axis:   core.NewVec3(0, 1, 0),
		Pivot:  core.NewVec3(0, 0, 2),
	}
}

// Validate checks the frame count and motion mode
func (s Sequence) Validate() error {
	if s.Frames <= 0 {
		return fmt.Errorf("sequence needs at least one frame, got %d", s.Frames)
	}
	if s.Motion != MotionShift && s.Motion != MotionRotate {
		return fmt.Errorf("unknown motion %q", s.Motion)
	}
	return nil
}

// FrameScene returns the snapshot for frame index i (0-based). The base is never modified.
func (s Sequence) FrameScene(base *scene.Scene, i int) *scene.Scene {
	amount := float64(i) * s.Step
	if s.Motion == MotionRotate {
		return base.Rotated(s.Axis, amount, s.Pivot)
	}
	return base.Shifted(amount)
}

// FrameResult contains the result of a single frame
type FrameResult struct {
	FrameNumber int // 1-based
	Scene       *scene.Scene
	Image       *image.RGBA
	Stats       RenderStats
	IsLast      bool
}

// RenderOptions configures sequence rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderSequence renders the frames of a sequence with channel-based communication.
// The caller should read from these channels in separate goroutines.
// If options.TileUpdates is false, the tile channel is closed immediately.
func (rt *Raytracer) RenderSequence(ctx context.Context, base *scene.Scene, seq Sequence, options RenderOptions) (<-chan FrameResult, <-chan TileCompletionResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(frameChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		if err := seq.Validate(); err != nil {
			errChan <- err
			return
		}

		rt.logger.Printf("Rendering %d frame(s) at %dx%d with %d workers...\n",
			seq.Frames, rt.config.Width, rt.config.Height, rt.workerPool.GetNumWorkers())

		for frame := 1; frame <= seq.Frames; frame++ {
			select {
			case <-ctx.Done():
				rt.logger.Printf("Rendering cancelled before frame %d\n", frame)
				errChan <- ctx.Err()
				return
			default:
			}

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Channel full, drop the update
					}
				}
			}

			snapshot := seq.FrameScene(base, frame-1)
			img, stats, err := rt.renderFrame(ctx, snapshot, frame, seq.Frames, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			rt.logger.Printf("Frame %d completed in %v (%d/%d pixels hit)\n",
				frame, stats.Duration.Round(time.Millisecond), stats.HitPixels, stats.TotalPixels)

			select {
			case frameChan <- FrameResult{
				FrameNumber: frame,
				Scene:       snapshot,
				Image:       img,
				Stats:       stats,
				IsLast:      frame == seq.Frames,
			}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return frameChan, tileChan, errChan
}
