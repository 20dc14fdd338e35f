package material

import (
	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithTags is an option builder that sets the tags render predicates match against.
//
// Parameters:
//   - tags: the tag names
//
// Returns:
//   - MaterialBuilderOption: a function that applies the tags option to a material
func WithTags(tags ...string) MaterialBuilderOption {
	return func(m *material) {
		m.tags = tagHashes(tags)
	}
}

// WithConstant is an option builder that declares a program constant and its default value.
// Declaring the same name twice replaces the earlier default.
//
// Parameters:
//   - name: the constant name (e.g. "tint")
//   - value: the default value
//
// Returns:
//   - MaterialBuilderOption: a function that applies the constant option to a material
func WithConstant(name string, value math32.Vector4) MaterialBuilderOption {
	return func(m *material) {
		h := common.HashString64(name)
		for i := range m.constants {
			if m.constants[i].NameHash == h {
				m.constants[i].Value = value
				return
			}
		}
		m.constants = append(m.constants, Constant{NameHash: h, Value: value})
	}
}
