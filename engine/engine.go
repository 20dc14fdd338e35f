package engine

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"cogentcore.org/core/base/errors"
	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-spine/engine/profiler"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
	"github.com/Carmen-Shannon/oxy-spine/engine/spine_model"
	"github.com/Carmen-Shannon/oxy-spine/engine/window"
)

// engine implements the Engine interface.
// Coordinates the tick goroutine with the window's main thread loop.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)

	renderer  renderer.Renderer
	predicate renderer.Predicate

	mu     sync.Mutex
	worlds []spine_model.World

	workers int
	pool    worker.DynamicWorkerPool
}

// Engine drives spine model worlds at a fixed tick rate. Each tick runs the tick
// callback, clears the render context, updates every world concurrently (each world
// on one worker), then draws the queued render objects.
type Engine interface {
	// Window returns the window, or nil for a headless engine.
	Window() window.Window

	// Renderer returns the render context shared by all worlds.
	Renderer() renderer.Renderer

	// EnableProfiler enables frame statistics output to the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// Safe to call while the engine runs.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called at the start of each tick, before
	// the worlds update. Use this for game logic that reads or mutates worlds.
	//
	// Parameters:
	//   - callback: receives the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// AddWorld registers a world to be updated each tick.
	//
	// Parameters:
	//   - w: the world
	AddWorld(w spine_model.World)

	// RemoveWorld unregisters the world with the given name.
	//
	// Parameters:
	//   - name: the world name
	//
	// Returns:
	//   - spine_model.World: the removed world, or nil
	RemoveWorld(name string) spine_model.World

	// Worlds returns a copy of the registered worlds in registration order.
	Worlds() []spine_model.World

	// Frame runs one frame without the tick callback: clear, parallel world updates, draw.
	//
	// Parameters:
	//   - deltaTime: the frame time in seconds
	//
	// Returns:
	//   - profiler.FrameStats: the summed statistics of the frame
	//   - error: the joined errors of failed world updates and the draw
	Frame(deltaTime float32) (profiler.FrameStats, error)

	// Run starts the tick loop and blocks until the window closes, or until Quit for a
	// headless engine. With a window it must be called from the main thread.
	Run()

	// Quit signals the tick loop to stop. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Without WithRenderer the engine renders into an in-memory backend.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, worlds, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(time.Second),
		engineTickRate:  time.Second / 60,
		workers:         4,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.renderer == nil {
		e.renderer = renderer.NewRenderer()
	}
	// workers are reused across ticks and idle out after a second without work
	e.pool = worker.NewDynamicWorkerPool(e.workers, 256, 1*time.Second)
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() {
	e.running.Store(true)
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleQuit()

	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
	e.running.Store(false)
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Listens for dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleEngine() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] tick goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
			if _, err := e.Frame(dt); err != nil {
				errors.Log(err)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

func (e *engine) Frame(deltaTime float32) (profiler.FrameStats, error) {
	e.renderer.ClearRenderObjects()
	worlds := e.Worlds()

	// One task per world; a world is never updated by two workers at once. A WaitGroup
	// is the per-frame barrier since the pool itself only drains on idle exit.
	stats := make([]spine_model.UpdateStats, len(worlds))
	errs := make([]error, len(worlds)+1)
	var wg sync.WaitGroup
	for i, w := range worlds {
		wg.Add(1)
		e.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				w.DispatchMessages()
				stats[i], errs[i] = w.Update(deltaTime)
				return stats[i], errs[i]
			},
		})
	}
	wg.Wait()

	var frame profiler.FrameStats
	for _, s := range stats {
		frame = frame.Add(profiler.FrameStats{Instances: s.Instances, Batches: s.Batches, Vertices: s.Vertices})
	}
	frame.Draws, errs[len(worlds)] = e.renderer.Draw(e.predicate)

	if e.profilingEnabled.Load() {
		e.profiler.Record(frame)
	}
	return frame, errors.Join(errs...)
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect on the next tick.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if !e.running.Load() {
		e.engineTickRate = newRate
		return
	}
	// Non-blocking send - if a change is pending, replace it
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) AddWorld(w spine_model.World) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.worlds = append(e.worlds, w)
}

func (e *engine) RemoveWorld(name string) spine_model.World {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, w := range e.worlds {
		if w.Name() == name {
			e.worlds = append(e.worlds[:i], e.worlds[i+1:]...)
			return w
		}
	}
	return nil
}

func (e *engine) Worlds() []spine_model.World {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]spine_model.World(nil), e.worlds...)
}
