package component

import (
	"github.com/milk9111/forge2d/assets"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/logging"
	"go.uber.org/zap"
)

const StateMachineType = "StateMachine"

// Transition moves the machine from From to To when Trigger fires.
type Transition struct {
	From    string `json:"from"`
	Trigger string `json:"trigger"`
	To      string `json:"to"`
}

type stateTrigger struct {
	state   string
	trigger string
}

// StateMachine switches between AnimationStates on named triggers and feeds
// the current frame to the object's SpriteRenderer.
type StateMachine struct {
	ecs.Base
	States       []*AnimationState `json:"states"`
	Transitions  []Transition      `json:"transitions"`
	DefaultState string            `json:"defaultState"`

	transfers map[stateTrigger]string
	current   *AnimationState
	log       *zap.Logger
}

func NewStateMachine(log *zap.Logger) *StateMachine {
	return &StateMachine{log: logging.OrNop(log).Named("statemachine")}
}

func (m *StateMachine) TypeName() string {
	return StateMachineType
}

func (m *StateMachine) Requires() []ecs.Component {
	return []ecs.Component{NewSpriteRenderer()}
}

func (m *StateMachine) AddState(s *AnimationState) {
	if m == nil || s == nil {
		return
	}
	m.States = append(m.States, s)
}

func (m *StateMachine) AddTransition(from, to, trigger string) {
	if m == nil {
		return
	}
	m.Transitions = append(m.Transitions, Transition{From: from, Trigger: trigger, To: to})
	m.transfers = nil
}

// SetDefaultState names the state entered on Start. If the machine has no
// current state yet it switches immediately.
func (m *StateMachine) SetDefaultState(title string) {
	if m == nil {
		return
	}
	s := m.state(title)
	if s == nil {
		m.logger().Warn("unable to find default state", zap.String("state", title))
		return
	}
	m.DefaultState = title
	if m.current == nil {
		m.current = s
	}
}

func (m *StateMachine) state(title string) *AnimationState {
	for _, s := range m.States {
		if s.Title == title {
			return s
		}
	}
	return nil
}

func (m *StateMachine) table() map[stateTrigger]string {
	if m.transfers == nil {
		m.transfers = make(map[stateTrigger]string, len(m.Transitions))
		for _, t := range m.Transitions {
			m.transfers[stateTrigger{state: t.From, trigger: t.Trigger}] = t.To
		}
	}
	return m.transfers
}

// Trigger fires name against the current state. Unknown pairs and missing
// destination states are logged and leave the current state alone.
func (m *StateMachine) Trigger(name string) bool {
	if m == nil || m.current == nil {
		return false
	}
	to, ok := m.table()[stateTrigger{state: m.current.Title, trigger: name}]
	if !ok {
		m.logger().Debug("unable to find trigger",
			zap.String("state", m.current.Title), zap.String("trigger", name))
		return false
	}
	next := m.state(to)
	if next == nil {
		m.logger().Debug("trigger destination missing",
			zap.String("trigger", name), zap.String("to", to))
		return false
	}
	m.current = next
	return true
}

// Current returns the title of the current state, or "" before Start.
func (m *StateMachine) Current() string {
	if m == nil || m.current == nil {
		return ""
	}
	return m.current.Title
}

func (m *StateMachine) Start() {
	if s := m.state(m.DefaultState); s != nil {
		m.current = s
	}
}

func (m *StateMachine) Update(dt float64) {
	m.advance(dt)
}

func (m *StateMachine) EditorUpdate(dt float64) {
	m.advance(dt)
}

func (m *StateMachine) advance(dt float64) {
	if m.current == nil {
		return
	}
	m.current.Update(dt)
	sr, ok := ecs.Get[*SpriteRenderer](m.GameObject())
	if !ok {
		return
	}
	if sprite := m.current.CurrentSprite(); sr.Sprite != sprite {
		sr.SetSprite(sprite)
	}
}

func (m *StateMachine) ResolveAssets(p *assets.Pool) error {
	for _, s := range m.States {
		if err := s.resolveAssets(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *StateMachine) Properties() []ecs.Property {
	return []ecs.Property{
		ecs.StringProp("defaultState", func() string { return m.DefaultState }, m.SetDefaultState),
	}
}

func (m *StateMachine) logger() *zap.Logger {
	if m.log == nil {
		m.log = zap.NewNop()
	}
	return m.log
}
