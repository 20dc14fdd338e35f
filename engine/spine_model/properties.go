package spine_model

import (
	"fmt"
	"strings"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
)

// PropertyType is the type of a PropertyValue.
type PropertyType int

const (
	PropertyTypeHash PropertyType = iota
	PropertyTypeVector4
	PropertyTypeNumber
)

// PropertyValue is a typed value read from or written to an instance property.
type PropertyValue struct {
	Type    PropertyType
	Hash    uint64
	Vector4 math32.Vector4
	Number  float32
}

// HashValue wraps a hash in a PropertyValue.
func HashValue(h uint64) PropertyValue {
	return PropertyValue{Type: PropertyTypeHash, Hash: h}
}

// Vector4Value wraps a vector in a PropertyValue.
func Vector4Value(v math32.Vector4) PropertyValue {
	return PropertyValue{Type: PropertyTypeVector4, Vector4: v}
}

// NumberValue wraps a number in a PropertyValue.
func NumberValue(n float32) PropertyValue {
	return PropertyValue{Type: PropertyTypeNumber, Number: n}
}

const (
	propertySkin      = "skin"
	propertyAnimation = "animation"
)

// splitElement separates a trailing .x/.y/.z/.w from a constant name. element is -1 without one.
func splitElement(name string) (string, int) {
	if i := strings.LastIndexByte(name, '.'); i > 0 && i == len(name)-2 {
		if e := strings.IndexByte("xyzw", name[i+1]); e >= 0 {
			return name[:i], e
		}
	}
	return name, -1
}

func element(v math32.Vector4, e int) float32 {
	switch e {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	return v.W
}

func (w *world) GetProperty(h Handle, name string) (PropertyValue, error) {
	c := w.component(h)
	if c == nil {
		return PropertyValue{}, ErrInvalidHandle
	}
	switch name {
	case propertySkin:
		return HashValue(c.skin), nil
	case propertyAnimation:
		return HashValue(c.animator.Current().AnimationID), nil
	}

	base, e := splitElement(name)
	nameHash := common.HashString64(base)
	value, ok := w.Constant(h, nameHash)
	if !ok {
		mat := c.model.Material()
		if mat == nil {
			return PropertyValue{}, fmt.Errorf("%w: property %q", ErrNotFound, name)
		}
		k, declared := mat.ProgramConstant(nameHash)
		if !declared {
			return PropertyValue{}, fmt.Errorf("%w: property %q", ErrNotFound, name)
		}
		value = k.Value
	}
	if e >= 0 {
		return NumberValue(element(value, e)), nil
	}
	return Vector4Value(value), nil
}

func (w *world) SetProperty(h Handle, name string, value PropertyValue) error {
	c := w.component(h)
	if c == nil {
		return ErrInvalidHandle
	}
	switch name {
	case propertySkin:
		if value.Type != PropertyTypeHash {
			return fmt.Errorf("%w: %s expects a hash", ErrTypeMismatch, name)
		}
		return w.SetSkin(h, value.Hash)
	case propertyAnimation:
		return fmt.Errorf("%w: %s is read-only", ErrNotFound, name)
	}

	base, e := splitElement(name)
	nameHash := common.HashString64(base)
	if e >= 0 {
		if value.Type != PropertyTypeNumber {
			return fmt.Errorf("%w: %s expects a number", ErrTypeMismatch, name)
		}
		return w.SetConstantElement(h, nameHash, e, value.Number)
	}
	if value.Type != PropertyTypeVector4 {
		return fmt.Errorf("%w: %s expects a vector4", ErrTypeMismatch, name)
	}
	return w.SetConstant(h, nameHash, value.Vector4)
}
