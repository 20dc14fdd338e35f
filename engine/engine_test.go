package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/message"
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-spine/engine/scene"
	"github.com/Carmen-Shannon/oxy-spine/engine/spine_model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	scene   scene.Scene
	bus     message.Bus
	backend *renderer.MemoryBackend
	render  renderer.Renderer
	model   model.Model
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		scene:   scene.NewScene("test"),
		bus:     message.NewBus(),
		backend: renderer.NewMemoryBackend(),
	}
	f.render = renderer.NewRenderer(renderer.WithBackend(f.backend))
	m, err := model.NewDemoModel(material.NewMaterial(material.WithName("spine"), material.WithTags("spine")))
	require.NoError(t, err)
	f.model = m
	return f
}

func (f *fixture) world(t *testing.T, name string, instances int) spine_model.World {
	t.Helper()
	w, err := spine_model.NewWorld(name, f.scene, f.render, f.bus)
	require.NoError(t, err)
	for i := range instances {
		node, err := f.scene.NewNode(common.NewTransform(math32.Vec3(float32(i), 0, float32(i)), common.QuatIdentity(), 1))
		require.NoError(t, err)
		_, err = w.Create(spine_model.CreateParams{Node: node, Model: f.model})
		require.NoError(t, err)
	}
	return w
}

func TestFrameUpdatesEveryWorld(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(
		WithRenderer(f.render),
		WithPredicate(renderer.NewPredicate("spine")),
		WithWorld(f.world(t, "a", 2)),
		WithWorld(f.world(t, "b", 3)),
	)

	stats, err := e.Frame(1.0 / 60)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Instances)
	assert.Equal(t, 5, stats.Batches)
	assert.Equal(t, 5, stats.Draws)
	// three quads per demo instance
	assert.Equal(t, 5*3*6, stats.Vertices)
	assert.Len(t, f.backend.Draws(), 5)

	// the render context is cleared each frame
	_, err = e.Frame(1.0 / 60)
	require.NoError(t, err)
	assert.Len(t, f.render.RenderObjects(), 5)
}

func TestFramePredicateFilters(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(
		WithRenderer(f.render),
		WithPredicate(renderer.NewPredicate("ui")),
		WithWorld(f.world(t, "a", 2)),
	)
	stats, err := e.Frame(0)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Batches)
	assert.Zero(t, stats.Draws)
}

func TestRemoveWorld(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(WithRenderer(f.render))
	e.AddWorld(f.world(t, "a", 1))
	e.AddWorld(f.world(t, "b", 1))

	assert.Nil(t, e.RemoveWorld("c"))
	removed := e.RemoveWorld("a")
	require.NotNil(t, removed)
	assert.Equal(t, "a", removed.Name())
	require.Len(t, e.Worlds(), 1)
	assert.Equal(t, "b", e.Worlds()[0].Name())
}

func TestRunTicksUntilQuit(t *testing.T) {
	e := NewEngine(WithTickRate(200))
	var ticks atomic.Int32
	e.SetTickCallback(func(dt float32) {
		if ticks.Add(1) == 3 {
			e.Quit()
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
	assert.GreaterOrEqual(t, ticks.Load(), int32(3))
	e.Quit()
}
