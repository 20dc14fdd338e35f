package loader

import (
	"fmt"
	"io"
	"log"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-spine/engine/model"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/material"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// DefaultSampleRate is the rate imported animations are resampled at unless WithSampleRate is given.
const DefaultSampleRate float32 = 30

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	backend    loaderBackend
	sampleRate float32

	material         material.Material
	blendMode        model.BlendMode
	defaultAnimation string
}

// Loader imports spine models from files and caches them by path or name.
// It abstracts the file format (glTF, GLB) behind a generic backend.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.gltf/.glb).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading fails
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]model.Model),
		sampleRate: DefaultSampleRate,
	}

	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend(l.sampleRate)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l.store(path, imported)
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}
	if l.backend == nil {
		return nil, fmt.Errorf("loader: no backend configured")
	}

	imported, err := l.backend.LoadReader(r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return l.store(name, imported)
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.modelCache)
}

// resolveBackend selects an appropriate loader backend based on the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		if l.backend != nil {
			return l.backend, nil
		}
	}
	return nil, fmt.Errorf("unsupported model format: %s", ext)
}

// store converts imported data into a model and caches it under key. A concurrent
// load of the same key keeps the first model stored.
func (l *loader) store(key string, imported *importedModel) (model.Model, error) {
	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.modelCache[key]; ok {
		return cached, nil
	}
	l.modelCache[key] = m
	log.Printf("[Loader] loaded %q: %d bones, %d skins, %d animations", key, len(imported.Bones), len(imported.Meshes), len(imported.Animations))
	return m, nil
}

// importedToModel validates the skeleton and assembles the engine-ready Model.
// The first mesh becomes the default skin.
func (l *loader) importedToModel(imported *importedModel) (model.Model, error) {
	skeleton, err := model.NewSkeleton(imported.Bones)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", imported.Name, err)
	}

	mat := l.material
	if mat == nil {
		mat = material.NewMaterial(material.WithName(imported.Name))
	}

	opts := []model.ModelBuilderOption{
		model.WithName(imported.Name),
		model.WithSkeleton(skeleton),
		model.WithMeshes(imported.Meshes...),
		model.WithAnimations(imported.Animations...),
		model.WithMaterial(mat),
		model.WithBlendMode(l.blendMode),
	}
	if len(imported.Meshes) > 0 {
		opts = append(opts, model.WithDefaultSkin(imported.Meshes[0].Name))
	}
	if l.defaultAnimation != "" {
		for _, clip := range imported.Animations {
			if clip.Name == l.defaultAnimation {
				opts = append(opts, model.WithDefaultAnimation(l.defaultAnimation))
				break
			}
		}
	}

	m, err := model.NewModel(opts...)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", imported.Name, err)
	}
	return m, nil
}
