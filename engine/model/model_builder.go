package model

import (
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/material"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model. The model ID is the hash of the name.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
		m.id = common.HashString64(name)
	}
}

// WithSkeleton is an option builder that sets the bone hierarchy of the Model.
//
// Parameters:
//   - skeleton: the skeleton to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the skeleton option to a model
func WithSkeleton(skeleton *Skeleton) ModelBuilderOption {
	return func(m *model) {
		m.skeleton = skeleton
	}
}

// WithAnimations is an option builder that sets the animation clips of the Model.
// Clips without an ID get the hash of their name.
//
// Parameters:
//   - animations: the animation clips to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the animations option to a model
func WithAnimations(animations ...*AnimationClip) ModelBuilderOption {
	return func(m *model) {
		for _, a := range animations {
			if a.ID == 0 {
				a.ID = common.HashString64(a.Name)
			}
		}
		m.animations = append(m.animations, animations...)
	}
}

// WithMeshes is an option builder that sets the mesh set of the Model.
// Meshes without an ID get the hash of their name.
//
// Parameters:
//   - meshes: one mesh per skin
//
// Returns:
//   - ModelBuilderOption: a function that applies the meshes option to a model
func WithMeshes(meshes ...*Mesh) ModelBuilderOption {
	return func(m *model) {
		for _, mesh := range meshes {
			if mesh.ID == 0 {
				mesh.ID = common.HashString64(mesh.Name)
			}
		}
		m.meshes = append(m.meshes, meshes...)
	}
}

// WithMaterial is an option builder that sets the render material of the Model.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - ModelBuilderOption: a function that applies the material option to a model
func WithMaterial(mat material.Material) ModelBuilderOption {
	return func(m *model) {
		m.material = mat
	}
}

// WithTexture is an option builder that sets the texture handle of the Model.
//
// Parameters:
//   - texture: the texture handle
//
// Returns:
//   - ModelBuilderOption: a function that applies the texture option to a model
func WithTexture(texture uint64) ModelBuilderOption {
	return func(m *model) {
		m.texture = texture
	}
}

// WithBlendMode is an option builder that sets the framebuffer blend mode of the Model.
//
// Parameters:
//   - mode: the blend mode
//
// Returns:
//   - ModelBuilderOption: a function that applies the blend mode option to a model
func WithBlendMode(mode BlendMode) ModelBuilderOption {
	return func(m *model) {
		m.blendMode = mode
	}
}

// WithDefaultSkin is an option builder that sets the skin new instances start with.
//
// Parameters:
//   - skin: the skin name
//
// Returns:
//   - ModelBuilderOption: a function that applies the default skin option to a model
func WithDefaultSkin(skin string) ModelBuilderOption {
	return func(m *model) {
		m.defaultSkin = common.HashString64(skin)
	}
}

// WithDefaultAnimation is an option builder that sets the animation new instances start playing.
//
// Parameters:
//   - animation: the animation name
//
// Returns:
//   - ModelBuilderOption: a function that applies the default animation option to a model
func WithDefaultAnimation(animation string) ModelBuilderOption {
	return func(m *model) {
		m.defaultAnimation = common.HashString64(animation)
	}
}
