package config

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

const (
	defaultMaxCount         = 128
	defaultMaxRenderObjects = 256
	defaultTickRate         = 60

	maxSpineCount = 0xFFFF
)

// Config is the process level configuration of a spine viewer.
type Config struct {
	Spine  SpineConfig  `toml:"spine"`
	Engine EngineConfig `toml:"engine"`
}

// SpineConfig sizes spine model worlds and the render context.
type SpineConfig struct {
	// MaxCount is the instance capacity of each world.
	MaxCount int `toml:"max_count"`

	// MaxRenderObjects is the render context capacity.
	MaxRenderObjects int `toml:"max_render_objects"`
}

// EngineConfig configures the tick loop.
type EngineConfig struct {
	TickRate float64 `toml:"tick_rate"`
	Profiler bool    `toml:"profiler"`
}

// Default returns the configuration used for missing keys.
func Default() Config {
	return Config{
		Spine: SpineConfig{
			MaxCount:         defaultMaxCount,
			MaxRenderObjects: defaultMaxRenderObjects,
		},
		Engine: EngineConfig{
			TickRate: defaultTickRate,
			Profiler: true,
		},
	}
}

// Parse decodes a TOML document on top of the defaults.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the decoded configuration
//   - error: a decode error, or an error for unknown keys
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Default(), fmt.Errorf("config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// Load reads and decodes the TOML file at path.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the configuration (the defaults when the file cannot be read)
//   - error: a read or decode error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// normalize replaces out of range values with their defaults or limits.
func (c *Config) normalize() {
	c.Spine.MaxCount = common.Coalesce(max(c.Spine.MaxCount, 0), defaultMaxCount)
	if c.Spine.MaxCount > maxSpineCount {
		log.Printf("[Config] spine.max_count %d exceeds %d, clamping", c.Spine.MaxCount, maxSpineCount)
		c.Spine.MaxCount = maxSpineCount
	}
	c.Spine.MaxRenderObjects = common.Coalesce(max(c.Spine.MaxRenderObjects, 0), defaultMaxRenderObjects)
	c.Engine.TickRate = common.Coalesce(max(c.Engine.TickRate, 0), defaultTickRate)
}

// Watch calls fn with the reloaded configuration each time the file at path is written
// or replaced, until ctx is done. Decode failures are logged and skipped.
//
// The parent directory is watched so that editors that save by rename are followed.
//
// Parameters:
//   - ctx: stops the watcher when done
//   - path: the file path
//   - fn: receives each successfully reloaded configuration
//
// Returns:
//   - error: an error if the watcher cannot be started
func Watch(ctx context.Context, path string, fn func(Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return fmt.Errorf("config: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Load(abs)
				if err != nil {
					log.Printf("[Config] Reload of %s failed: %v", path, err)
					continue
				}
				log.Printf("[Config] Reloaded %s", path)
				fn(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("[Config] Watcher error: %v", err)
			}
		}
	}()
	return nil
}
