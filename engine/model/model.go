package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	id               uint64
	name             string
	skeleton         *Skeleton
	animations       []*AnimationClip
	meshes           []*Mesh
	material         material.Material
	texture          uint64
	blendMode        BlendMode
	defaultSkin      uint64
	defaultAnimation uint64
}

// Model defines the interface for a loaded spine model resource.
// A Model bundles the skeleton with its bind pose, the animation clips, the
// mesh set (one mesh per skin) and the render state shared by every instance.
// Models are immutable once built and may be shared by any number of instances.
type Model interface {
	// ID returns the hashed model name.
	//
	// Returns:
	//   - uint64: the model identifier
	ID() uint64

	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Skeleton retrieves the bone hierarchy for this model.
	//
	// Returns:
	//   - *Skeleton: the skeleton
	Skeleton() *Skeleton

	// BindPose returns the precomputed bind pose of the skeleton.
	//
	// Returns:
	//   - []BindBone: one entry per bone
	BindPose() []BindBone

	// Animations retrieves all animation clips bundled with this model.
	//
	// Returns:
	//   - []*AnimationClip: the animation clips
	Animations() []*AnimationClip

	// FindAnimation looks up an animation clip by hashed name.
	//
	// Parameters:
	//   - id: the hashed animation name
	//
	// Returns:
	//   - *AnimationClip: the clip, or nil if not found
	FindAnimation(id uint64) *AnimationClip

	// Meshes retrieves the mesh set, one mesh per skin.
	//
	// Returns:
	//   - []*Mesh: the meshes
	Meshes() []*Mesh

	// FindMesh looks up a mesh by hashed skin name.
	//
	// Parameters:
	//   - id: the hashed skin name
	//
	// Returns:
	//   - *Mesh: the mesh, or nil if not found
	FindMesh(id uint64) *Mesh

	// Material retrieves the material used to draw every instance of this model.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// Texture returns the texture handle bound when drawing this model.
	//
	// Returns:
	//   - uint64: the texture handle (0 for none)
	Texture() uint64

	// BlendMode returns the framebuffer blend mode of this model.
	//
	// Returns:
	//   - BlendMode: the blend mode
	BlendMode() BlendMode

	// DefaultSkin returns the hashed name of the skin new instances start with.
	//
	// Returns:
	//   - uint64: the hashed skin name
	DefaultSkin() uint64

	// DefaultAnimation returns the hashed name of the animation new instances start
	// playing, or 0 when instances start idle.
	//
	// Returns:
	//   - uint64: the hashed animation name
	DefaultAnimation() uint64
}

var _ Model = &model{}

// NewModel creates a new Model configured with the provided options and validates
// that its animations and meshes are consistent with the skeleton.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions to configure the model
//
// Returns:
//   - Model: the configured model
//   - error: ErrInvalidSkeleton, ErrInvalidClip or ErrInvalidMesh on inconsistent data
func NewModel(options ...ModelBuilderOption) (Model, error) {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}

	if m.skeleton == nil {
		return nil, fmt.Errorf("%w: model %q has no skeleton", ErrInvalidSkeleton, m.name)
	}
	if m.blendMode < BlendModeAlpha || m.blendMode > BlendModeMult {
		return nil, fmt.Errorf("model: %q has unknown blend mode %d", m.name, m.blendMode)
	}
	boneCount := m.skeleton.BoneCount()
	for _, clip := range m.animations {
		if err := validateClip(clip, boneCount); err != nil {
			return nil, err
		}
	}
	for _, mesh := range m.meshes {
		if err := validateMesh(mesh, boneCount); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *model) ID() uint64 {
	return m.id
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *model) BindPose() []BindBone {
	return m.skeleton.BindPose()
}

func (m *model) Animations() []*AnimationClip {
	return m.animations
}

func (m *model) FindAnimation(id uint64) *AnimationClip {
	for _, a := range m.animations {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (m *model) Meshes() []*Mesh {
	return m.meshes
}

func (m *model) FindMesh(id uint64) *Mesh {
	for _, mesh := range m.meshes {
		if mesh.ID == id {
			return mesh
		}
	}
	return nil
}

func (m *model) Material() material.Material {
	return m.material
}

func (m *model) Texture() uint64 {
	return m.texture
}

func (m *model) BlendMode() BlendMode {
	return m.blendMode
}

func (m *model) DefaultSkin() uint64 {
	return m.defaultSkin
}

func (m *model) DefaultAnimation() uint64 {
	return m.defaultAnimation
}

// validateClip checks that every track addresses a real bone and that every
// component array holds the same number of samples.
func validateClip(clip *AnimationClip, boneCount int) error {
	if clip.Duration < 0 || clip.SampleRate <= 0 {
		return fmt.Errorf("%w: %q has duration %v and sample rate %v", ErrInvalidClip, clip.Name, clip.Duration, clip.SampleRate)
	}
	for i, tr := range clip.Tracks {
		if int(tr.BoneIndex) >= boneCount {
			return fmt.Errorf("%w: %q track %d targets bone %d of %d", ErrInvalidClip, clip.Name, i, tr.BoneIndex, boneCount)
		}
		if len(tr.Positions)%3 != 0 || len(tr.Rotations)%4 != 0 || len(tr.Scale)%3 != 0 {
			return fmt.Errorf("%w: %q track %d has a partial sample", ErrInvalidClip, clip.Name, i)
		}
	}
	return nil
}

// validateMesh checks array lengths and bone references of a skin.
func validateMesh(mesh *Mesh, boneCount int) error {
	n := len(mesh.Positions) / 3
	if len(mesh.Positions)%3 != 0 || len(mesh.Texcoord0) != n*2 || len(mesh.BoneIndices) != n*4 || len(mesh.Weights) != n*4 {
		return fmt.Errorf("%w: %q has mismatched vertex arrays", ErrInvalidMesh, mesh.Name)
	}
	for _, idx := range mesh.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: %q index %d out of range", ErrInvalidMesh, mesh.Name, idx)
		}
	}
	for _, b := range mesh.BoneIndices {
		if int(b) >= boneCount {
			return fmt.Errorf("%w: %q references bone %d of %d", ErrInvalidMesh, mesh.Name, b, boneCount)
		}
	}
	return nil
}
