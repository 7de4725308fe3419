package input

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/common"
	"github.com/stretchr/testify/assert"
)

func TestSnapshotBuilders(t *testing.T) {
	s := NewSnapshot().
		PressKey(ebiten.KeyE, true).
		PressKey(ebiten.KeyShift, false).
		PressButton(ebiten.MouseButtonLeft, true).
		MoveCursor(10, 20).
		Scroll(0, -1)

	assert.True(t, s.KeyPressed(ebiten.KeyE))
	assert.True(t, s.KeyJustPressed(ebiten.KeyE))
	assert.True(t, s.KeyPressed(ebiten.KeyShift))
	assert.False(t, s.KeyJustPressed(ebiten.KeyShift))
	assert.True(t, s.AnyPressed(ebiten.KeyR, ebiten.KeyShift))
	assert.True(t, s.ButtonJustPressed(ebiten.MouseButtonLeft))
	assert.Equal(t, common.V2(10, 20), s.Cursor)
	assert.Equal(t, common.V2(0, -1), s.Wheel)

	s.ReleaseButton(ebiten.MouseButtonLeft)
	assert.False(t, s.ButtonPressed(ebiten.MouseButtonLeft))
	assert.True(t, s.ButtonJustReleased(ebiten.MouseButtonLeft))
}

func TestNilSnapshotIsIdle(t *testing.T) {
	var s *Snapshot
	assert.False(t, s.KeyPressed(ebiten.KeyA))
	assert.False(t, s.ButtonPressed(ebiten.MouseButtonMiddle))
	assert.False(t, s.AnyPressed(ebiten.KeyA, ebiten.KeyB))
}

func TestBlockMouseKeepsHeldButtons(t *testing.T) {
	s := NewSnapshot().
		PressButton(ebiten.MouseButtonLeft, true).
		PressKey(ebiten.KeyE, true).
		Scroll(0, 2).
		BlockMouse()

	assert.False(t, s.ButtonJustPressed(ebiten.MouseButtonLeft))
	assert.True(t, s.ButtonPressed(ebiten.MouseButtonLeft))
	assert.True(t, s.KeyJustPressed(ebiten.KeyE))
	assert.Equal(t, common.Vec2{}, s.Wheel)
}
