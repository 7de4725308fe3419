package component

import (
	"github.com/milk9111/forge2d/assets"
)

type Frame struct {
	Sprite    assets.Sprite `json:"sprite"`
	FrameTime float64       `json:"frameTime"`
}

// AnimationState is a named sequence of frames with its own playhead.
type AnimationState struct {
	Title    string  `json:"title"`
	Frames   []Frame `json:"frames"`
	DoesLoop bool    `json:"doesLoop"`

	timeTracker   float64
	currentSprite int
}

func NewAnimationState(title string, loop bool) *AnimationState {
	return &AnimationState{Title: title, DoesLoop: loop}
}

func (a *AnimationState) AddFrame(sprite assets.Sprite, frameTime float64) {
	a.Frames = append(a.Frames, Frame{Sprite: sprite, FrameTime: frameTime})
}

// AddFrames appends every sprite with the same frame time.
func (a *AnimationState) AddFrames(sprites []assets.Sprite, frameTime float64) {
	for _, s := range sprites {
		a.AddFrame(s, frameTime)
	}
}

func (a *AnimationState) SetLoop(loop bool) {
	a.DoesLoop = loop
}

// Update counts the current frame down by dt. When it runs out the playhead
// advances, wrapping if the state loops and holding on the last frame
// otherwise, and the countdown restarts from the new frame's time.
func (a *AnimationState) Update(dt float64) {
	if a.currentSprite >= len(a.Frames) {
		return
	}
	a.timeTracker -= dt
	if a.timeTracker > 0 {
		return
	}
	if !(a.currentSprite == len(a.Frames)-1 && !a.DoesLoop) {
		a.currentSprite = (a.currentSprite + 1) % len(a.Frames)
	}
	a.timeTracker = a.Frames[a.currentSprite].FrameTime
}

// Reset rewinds the playhead to the first frame.
func (a *AnimationState) Reset() {
	a.currentSprite = 0
	a.timeTracker = 0
	if len(a.Frames) > 0 {
		a.timeTracker = a.Frames[0].FrameTime
	}
}

func (a *AnimationState) FrameIndex() int {
	return a.currentSprite
}

// CurrentSprite returns the sprite under the playhead, or an untextured
// default sprite for a state without frames.
func (a *AnimationState) CurrentSprite() assets.Sprite {
	if a.currentSprite < len(a.Frames) {
		return a.Frames[a.currentSprite].Sprite
	}
	return assets.NewSprite(nil)
}

func (a *AnimationState) resolveAssets(p *assets.Pool) error {
	for i := range a.Frames {
		if err := p.ResolveSprite(&a.Frames[i].Sprite); err != nil {
			return err
		}
	}
	return nil
}
