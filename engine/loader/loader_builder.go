package loader

import (
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/material"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}

// WithSampleRate is an option builder that sets the rate imported animations are resampled at.
// Non-positive rates are ignored.
//
// Parameters:
//   - rate: samples per second
//
// Returns:
//   - LoaderBuilderOption: a function that applies the sample rate option to a loader
func WithSampleRate(rate float32) LoaderBuilderOption {
	return func(l *loader) {
		if rate > 0 {
			l.sampleRate = rate
		}
	}
}

// WithMaterial is an option builder that sets the material given to every loaded model.
// Without it each model gets an untagged material named after the model.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - LoaderBuilderOption: a function that applies the material option to a loader
func WithMaterial(mat material.Material) LoaderBuilderOption {
	return func(l *loader) {
		l.material = mat
	}
}

// WithBlendMode is an option builder that sets the blend mode of every loaded model.
//
// Parameters:
//   - mode: the blend mode
//
// Returns:
//   - LoaderBuilderOption: a function that applies the blend mode option to a loader
func WithBlendMode(mode model.BlendMode) LoaderBuilderOption {
	return func(l *loader) {
		l.blendMode = mode
	}
}

// WithDefaultAnimation is an option builder that sets the animation new instances of
// loaded models start playing. Models without a clip of that name start in bind pose.
//
// Parameters:
//   - name: the animation name
//
// Returns:
//   - LoaderBuilderOption: a function that applies the default animation option to a loader
func WithDefaultAnimation(name string) LoaderBuilderOption {
	return func(l *loader) {
		l.defaultAnimation = name
	}
}
