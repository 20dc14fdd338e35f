package material

import (
	"sync/atomic"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
)

var nextMaterialID atomic.Uint64

// Constant is a named vector4 shader constant. Names are stored as 64-bit hashes.
type Constant struct {
	// NameHash is the hashed constant name (see common.HashString64).
	NameHash uint64

	// Value is the constant value.
	Value math32.Vector4
}

// material is the implementation of the Material interface.
type material struct {
	id        uint64
	name      string
	tags      []uint64
	constants []Constant
}

// Material defines the interface for a render material: an identity used for
// batching, a set of tags used by render predicates and the program constants
// with their default values.
//
// Materials are immutable once built and may be shared by any number of models.
type Material interface {
	// ID returns a process-unique identifier for this material.
	//
	// Returns:
	//   - uint64: the material identifier
	ID() uint64

	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Tags returns the hashed tags of the material.
	//
	// Returns:
	//   - []uint64: the tag hashes
	Tags() []uint64

	// HasTags reports whether every tag in tags is present on this material.
	//
	// Parameters:
	//   - tags: the tag hashes to look for
	//
	// Returns:
	//   - bool: true if all tags are present
	HasTags(tags []uint64) bool

	// Constants returns the program constants declared by the material.
	//
	// Returns:
	//   - []Constant: the constants with their default values
	Constants() []Constant

	// ProgramConstant looks up a declared program constant by name hash.
	// Undeclared names yield a constant carrying the requested name and a zero value.
	//
	// Parameters:
	//   - nameHash: the hashed constant name
	//
	// Returns:
	//   - Constant: the constant (default value if declared)
	//   - bool: true if the material declares the constant
	ProgramConstant(nameHash uint64) (Constant, bool)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: the configured material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		id: nextMaterialID.Add(1),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) ID() uint64 {
	return m.id
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Tags() []uint64 {
	return m.tags
}

func (m *material) HasTags(tags []uint64) bool {
	for _, want := range tags {
		found := false
		for _, have := range m.tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *material) Constants() []Constant {
	return m.constants
}

func (m *material) ProgramConstant(nameHash uint64) (Constant, bool) {
	for _, c := range m.constants {
		if c.NameHash == nameHash {
			return c, true
		}
	}
	return Constant{NameHash: nameHash}, false
}

// tagHashes hashes each tag name.
func tagHashes(tags []string) []uint64 {
	out := make([]uint64, len(tags))
	for i, t := range tags {
		out[i] = common.HashString64(t)
	}
	return out
}
