package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
	"github.com/Carmen-Shannon/oxy-spine/engine/spine_model"
	"github.com/Carmen-Shannon/oxy-spine/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables frame statistics output.
//
// Parameters:
//   - enabled: if true, enables profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets the window whose event loop Run drives.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the render context shared by every world.
//
// Parameters:
//   - r: the render context
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithPredicate sets the material tags a render object must carry to be drawn.
//
// Parameters:
//   - p: the predicate (empty draws everything)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPredicate(p renderer.Predicate) EngineBuilderOption {
	return func(e *engine) {
		e.predicate = p
	}
}

// WithWorld registers a world during engine construction.
//
// Parameters:
//   - w: the world
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWorld(w spine_model.World) EngineBuilderOption {
	return func(e *engine) {
		e.worlds = append(e.worlds, w)
	}
}

// WithWorkers sets the number of workers updating worlds in parallel.
//
// Parameters:
//   - n: the worker count (values < 1 are treated as 1)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWorkers(n int) EngineBuilderOption {
	return func(e *engine) {
		e.workers = max(n, 1)
	}
}
