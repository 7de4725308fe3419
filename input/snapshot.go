package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/forge2d/common"
)

const stickDeadzone = 0.2

// Snapshot is the input state of one frame. Components read it instead of
// querying ebiten so they can be driven from tests.
type Snapshot struct {
	Cursor common.Vec2
	Wheel  common.Vec2
	MoveX  float64

	keys        map[ebiten.Key]bool
	justKeys    map[ebiten.Key]bool
	buttons     map[ebiten.MouseButton]bool
	justButtons map[ebiten.MouseButton]bool
	released    map[ebiten.MouseButton]bool
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		keys:        make(map[ebiten.Key]bool),
		justKeys:    make(map[ebiten.Key]bool),
		buttons:     make(map[ebiten.MouseButton]bool),
		justButtons: make(map[ebiten.MouseButton]bool),
		released:    make(map[ebiten.MouseButton]bool),
	}
}

// Poll reads keyboard, mouse and the first gamepad from ebiten. It must be
// called from the game's Update.
func Poll() *Snapshot {
	s := NewSnapshot()
	for _, k := range inpututil.AppendPressedKeys(nil) {
		s.keys[k] = true
	}
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		s.justKeys[k] = true
	}
	for b := ebiten.MouseButton0; b <= ebiten.MouseButtonMax; b++ {
		s.buttons[b] = ebiten.IsMouseButtonPressed(b)
		s.justButtons[b] = inpututil.IsMouseButtonJustPressed(b)
		s.released[b] = inpututil.IsMouseButtonJustReleased(b)
	}
	x, y := ebiten.CursorPosition()
	s.Cursor = common.V2(float64(x), float64(y))
	s.Wheel = common.V2(ebiten.Wheel())

	if s.AnyPressed(ebiten.KeyA, ebiten.KeyArrowLeft) {
		s.MoveX--
	}
	if s.AnyPressed(ebiten.KeyD, ebiten.KeyArrowRight) {
		s.MoveX++
	}
	if ids := ebiten.AppendGamepadIDs(nil); len(ids) > 0 {
		lx := ebiten.StandardGamepadAxisValue(ids[0], ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(lx) > stickDeadzone {
			s.MoveX = lx
		}
	}
	return s
}

func (s *Snapshot) KeyPressed(k ebiten.Key) bool {
	return s != nil && s.keys[k]
}

func (s *Snapshot) KeyJustPressed(k ebiten.Key) bool {
	return s != nil && s.justKeys[k]
}

func (s *Snapshot) AnyPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if s.KeyPressed(k) {
			return true
		}
	}
	return false
}

func (s *Snapshot) ButtonPressed(b ebiten.MouseButton) bool {
	return s != nil && s.buttons[b]
}

func (s *Snapshot) ButtonJustPressed(b ebiten.MouseButton) bool {
	return s != nil && s.justButtons[b]
}

func (s *Snapshot) ButtonJustReleased(b ebiten.MouseButton) bool {
	return s != nil && s.released[b]
}

// PressKey marks k held, and just pressed when just is set.
func (s *Snapshot) PressKey(k ebiten.Key, just bool) *Snapshot {
	s.keys[k] = true
	if just {
		s.justKeys[k] = true
	}
	return s
}

func (s *Snapshot) PressButton(b ebiten.MouseButton, just bool) *Snapshot {
	s.buttons[b] = true
	if just {
		s.justButtons[b] = true
	}
	return s
}

func (s *Snapshot) ReleaseButton(b ebiten.MouseButton) *Snapshot {
	s.buttons[b] = false
	s.released[b] = true
	return s
}

func (s *Snapshot) MoveCursor(x, y float64) *Snapshot {
	s.Cursor = common.V2(x, y)
	return s
}

func (s *Snapshot) Scroll(dx, dy float64) *Snapshot {
	s.Wheel = common.V2(dx, dy)
	return s
}

// BlockMouse drops fresh presses and the wheel, for frames where the cursor
// is over UI that consumed them. Held buttons and releases stay so drags
// started in the scene still finish.
func (s *Snapshot) BlockMouse() *Snapshot {
	clear(s.justButtons)
	s.Wheel = common.Vec2{}
	return s
}
