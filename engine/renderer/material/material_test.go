package material

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/stretchr/testify/assert"
)

func TestProgramConstant(t *testing.T) {
	m := NewMaterial(
		WithName("spine"),
		WithConstant("tint", math32.Vec4(1, 1, 1, 1)),
		WithConstant("tint", math32.Vec4(0.5, 1, 1, 1)),
	)

	c, ok := m.ProgramConstant(common.HashString64("tint"))
	assert.True(t, ok)
	assert.Equal(t, math32.Vec4(0.5, 1, 1, 1), c.Value)
	assert.Len(t, m.Constants(), 1)

	c, ok = m.ProgramConstant(common.HashString64("missing"))
	assert.False(t, ok)
	assert.Equal(t, common.HashString64("missing"), c.NameHash)
	assert.Equal(t, math32.Vector4{}, c.Value)
}

func TestHasTags(t *testing.T) {
	m := NewMaterial(WithTags("tile", "spine"))
	assert.True(t, m.HasTags(nil))
	assert.True(t, m.HasTags([]uint64{common.HashString64("spine")}))
	assert.False(t, m.HasTags([]uint64{common.HashString64("gui")}))
}

func TestMaterialIDsAreUnique(t *testing.T) {
	assert.NotEqual(t, NewMaterial().ID(), NewMaterial().ID())
}
