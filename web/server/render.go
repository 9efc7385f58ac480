package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/df07/go-raytracing-kernels/pkg/core"
	"github.com/df07/go-raytracing-kernels/pkg/renderer"
	"github.com/df07/go-raytracing-kernels/pkg/scene"
	"github.com/google/uuid"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	FrameNumber int    `json:"frameNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this frame (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalFrames int    `json:"totalFrames"` // Total number of frames planned
}

// FrameUpdate is sent via SSE when a whole frame is finished
type FrameUpdate struct {
	RenderID       string `json:"renderId"`
	FrameNumber    int    `json:"frameNumber"`
	TotalFrames    int    `json:"totalFrames"`
	ImageData      string `json:"imageData"` // Base64 encoded PNG of the frame
	ElapsedMs      int64  `json:"elapsedMs"`
	TotalPixels    int    `json:"totalPixels"`
	HitPixels      int    `json:"hitPixels"`
	PrimitiveCount int    `json:"primitiveCount"`
	IsLast         bool   `json:"isLast"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene, raytracer and frame sequence
type RenderingPipeline struct {
	RenderID  string
	Scene     *scene.Scene
	Raytracer *renderer.Raytracer
	Sequence  renderer.Sequence
}

// handleRender streams a frame sequence with per-tile updates via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// All writes go through one goroutine; the handler waits for it before returning
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	renderID, consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	pipeline, err := s.setupRenderingPipeline(renderID, req, webLogger)
	if err != nil {
		close(consoleChan)
		<-consoleDone
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	frameChan, tileChan, errChan := pipeline.Raytracer.RenderSequence(ctx, pipeline.Scene, pipeline.Sequence,
		renderer.RenderOptions{TileUpdates: true})

	renderErr, finished := s.handleRenderingEvents(ctx, sseEventChan, frameChan, tileChan, errChan, pipeline, startTime)
	if !finished {
		// Client disconnected; the console goroutine stops on ctx
		<-consoleDone
		return
	}

	// The render goroutine has exited, so nothing logs to consoleChan any more
	close(consoleChan)
	<-consoleDone

	if renderErr != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", renderErr))
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates a render ID, console channel and web logger for a render
func (s *Server) setupConsoleLogging() (string, chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := uuid.NewString()
	webLogger := NewWebLogger(renderID, consoleChan)
	return renderID, consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
			if err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed or the client leaves
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for {
		select {
		case consoleMsg, ok := <-consoleChan:
			if !ok {
				return
			}

			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}

			select {
			case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
			case <-ctx.Done():
				return
			default:
				// Channel full, skip message to avoid blocking
			}

		case <-ctx.Done():
			return
		}
	}
}

// setupRenderingPipeline creates and configures the scene, raytracer and sequence
func (s *Server) setupRenderingPipeline(renderID string, req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, err
	}
	logger.Printf("Loaded scene %q with %d primitives\n", req.Scene, sceneObj.GetPrimitiveCount())

	seq := renderer.DefaultSequence()
	seq.Frames = req.Frames
	seq.Step = req.Step
	seq.Motion = req.Motion
	if err := seq.Validate(); err != nil {
		return nil, err
	}

	return &RenderingPipeline{
		RenderID:  renderID,
		Scene:     sceneObj,
		Raytracer: renderer.NewRaytracer(s.rendererConfig(req), logger),
		Sequence:  seq,
	}, nil
}

// handleRenderingEvents forwards frames and tiles until all render channels are closed.
// finished is false when the client went away first.
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan SSEEvent,
	frameChan <-chan renderer.FrameResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	pipeline *RenderingPipeline, startTime time.Time) (renderErr error, finished bool) {

	for frameChan != nil || tileChan != nil || errChan != nil {
		select {
		case frameResult, ok := <-frameChan:
			if !ok {
				frameChan = nil
				continue
			}
			s.handleFrameComplete(ctx, sseEventChan, frameResult, pipeline, startTime)

		case tileResult, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			s.handleTileUpdate(ctx, sseEventChan, tileResult)

		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			if err != nil {
				renderErr = err
			}

		case <-ctx.Done():
			return nil, false
		}
	}
	return renderErr, true
}

// handleFrameComplete processes and sends frame completion events
func (s *Server) handleFrameComplete(ctx context.Context, sseEventChan chan SSEEvent, frameResult renderer.FrameResult, pipeline *RenderingPipeline, startTime time.Time) {
	imageData, err := s.imageToBase64PNG(frameResult.Image)
	if err != nil {
		log.Printf("Error encoding frame %d: %v", frameResult.FrameNumber, err)
		return
	}

	update := FrameUpdate{
		RenderID:       pipeline.RenderID,
		FrameNumber:    frameResult.FrameNumber,
		TotalFrames:    pipeline.Sequence.Frames,
		ImageData:      imageData,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		TotalPixels:    frameResult.Stats.TotalPixels,
		HitPixels:      frameResult.Stats.HitPixels,
		PrimitiveCount: frameResult.Scene.GetPrimitiveCount(),
		IsLast:         frameResult.IsLast,
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling frame update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "frame", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleTileUpdate processes and sends tile update events
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan SSEEvent, tileResult renderer.TileCompletionResult) {
	tileData, err := s.imageToBase64PNG(tileResult.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", tileResult.TileX, tileResult.TileY, err)
		return
	}

	update := TileUpdate{
		TileX:       tileResult.TileX,
		TileY:       tileResult.TileY,
		ImageData:   tileData,
		FrameNumber: tileResult.FrameNumber,
		TileNumber:  tileResult.TileNumber,
		TotalTiles:  tileResult.TotalTiles,
		TotalFrames: tileResult.TotalFrames,
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling tile update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "tile", Data: string(data)}:
	case <-ctx.Done():
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	var err error
	if req.Frames, err = parseIntParam(query, "frames", 20, 1, 360); err != nil {
		return nil, err
	}
	if req.Step, err = parseFloatParam(query, "step", math.Pi/10, -2*math.Pi, 2*math.Pi); err != nil {
		return nil, err
	}

	req.Motion = query.Get("motion")
	if req.Motion == "" {
		req.Motion = renderer.MotionShift
	}

	if req.Width*req.Height*req.Frames > 800*600*20 {
		log.Printf("Render warning: %d frames at %dx%d may render slowly", req.Frames, req.Width, req.Height)
	}

	return req, nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
	}
}
