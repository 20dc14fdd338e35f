package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-spine/engine/model"
)

// importedModel is the format independent result of a backend import.
type importedModel struct {
	// Name is the model name found in the file, or derived from its path.
	Name string

	// Bones is the skeleton in depth-first pre-order.
	Bones []model.Bone

	// Meshes holds one mesh per skin.
	Meshes []*model.Mesh

	// Animations holds the resampled clips.
	Animations []*model.AnimationClip
}

// loaderBackend defines the generic interface for loading models from files or streams.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load performs a full model import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *importedModel: the imported model data
	//   - error: error if loading fails
	Load(path string) (*importedModel, error)

	// LoadReader imports a model from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data, false for text-based formats
	//
	// Returns:
	//   - *importedModel: the imported model data
	//   - error: error if loading fails
	LoadReader(r io.Reader, isGLB bool) (*importedModel, error)
}
