package ecs

import (
	"testing"

	"github.com/milk9111/forge2d/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformPropertiesRoundTripThroughStrings(t *testing.T) {
	tr := NewTransform()
	props := map[string]Property{}
	for _, p := range tr.Properties() {
		props[p.Name] = p
	}

	require.NoError(t, props["position"].SetString("1.5, -2"))
	require.NoError(t, props["rotation"].SetString("90"))
	require.NoError(t, props["zIndex"].SetString("3"))

	assert.Equal(t, common.V2(1.5, -2), tr.Position)
	assert.Equal(t, 90.0, tr.Rotation)
	assert.Equal(t, 3, tr.ZIndex)
	assert.Equal(t, "1.5, -2", props["position"].Format())
}

func TestPropertyRejectsBadInput(t *testing.T) {
	tr := NewTransform()
	p := tr.Properties()[0]

	assert.Error(t, p.SetString("1"))
	assert.Error(t, p.Set("nope"))
	assert.Equal(t, common.Vec2{}, tr.Position)
}

func TestEnumProperty(t *testing.T) {
	v := 0
	p := EnumProp("mode", []string{"Static", "Dynamic"}, func() int { return v }, func(i int) { v = i })

	require.NoError(t, p.SetString("dynamic"))
	assert.Equal(t, 1, v)
	assert.Equal(t, "Dynamic", p.Format())
	assert.Error(t, p.SetString("Kinematic"))

	require.NoError(t, p.Set(7))
	assert.Equal(t, 1, v)
}
