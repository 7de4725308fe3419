package ecs

import (
	"testing"

	"github.com/milk9111/forge2d/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	Base
	Label  string `json:"label"`
	Hidden int    `json:"-"`
	calls  *[]string
}

func (r *recorder) TypeName() string { return "recorder" }

func (r *recorder) Start() { r.log("start") }

func (r *recorder) Update(float64) { r.log("update") }

func (r *recorder) EditorUpdate(float64) { r.log("editor") }

func (r *recorder) Destroy() { r.log("destroy") }

func (r *recorder) BeginCollision(_ *GameObject, c *Contact) {
	r.log("begin")
	c.Disable()
}

func (r *recorder) log(s string) {
	if r.calls != nil {
		*r.calls = append(*r.calls, r.Label+":"+s)
	}
}

type shape interface {
	Component
	Area() float64
}

type square struct {
	Base
	Side float64 `json:"side"`
}

func (s *square) TypeName() string { return "square" }
func (s *square) Area() float64 { return s.Side * s.Side }

type needsSquare struct {
	Base
}

func (n *needsSquare) TypeName() string { return "needsSquare" }
func (n *needsSquare) Requires() []Component { return []Component{&square{Side: 2}} }

func TestGameObjectAlwaysHasTransform(t *testing.T) {
	cases := []struct {
		name  string
		build func() *GameObject
	}{
		{"constructed", func() *GameObject { return NewGameObject("a") }},
		{"second_transform_added", func() *GameObject {
			g := NewGameObject("b")
			g.AddComponent(NewTransformAt(common.V2(3, 4), common.V2(1, 1)))
			return g
		}},
		{"transform_removed", func() *GameObject {
			g := NewGameObject("c")
			Remove[*Transform](g)
			g.RemoveComponent(g.Transform())
			return g
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := c.build()
			tr, ok := Get[*Transform](g)
			require.True(t, ok)
			assert.Same(t, g.Transform(), tr)
			assert.Len(t, All[*Transform](g), 1)
		})
	}
}

func TestSecondTransformOverwritesValues(t *testing.T) {
	g := NewGameObject("b")
	g.AddComponent(NewTransformAt(common.V2(3, 4), common.V2(2, 2)))
	assert.Equal(t, common.V2(3, 4), g.Transform().Position)
	assert.Equal(t, common.V2(2, 2), g.Transform().Scale)
}

func TestComponentUIDsAreUniqueAndStable(t *testing.T) {
	g := NewGameObject("ids")
	seen := map[int]bool{g.Transform().UID(): true}
	for i := 0; i < 50; i++ {
		c := &recorder{}
		g.AddComponent(c)
		require.NotZero(t, c.UID())
		require.False(t, seen[c.UID()], "uid %d reused", c.UID())
		seen[c.UID()] = true
	}

	c := &recorder{}
	g.AddComponent(c)
	first := c.UID()
	other := NewGameObject("other")
	other.AddComponent(c)
	assert.Equal(t, first, c.UID())
	assert.Same(t, other, c.GameObject())
}

func TestIDSourceReserveNeverDecreases(t *testing.T) {
	ids := &IDSource{}
	ids.Reserve(10, 20)
	assert.Equal(t, 11, ids.NextObject())
	assert.Equal(t, 21, ids.NextComponent())

	ids.Reserve(3, 4)
	assert.Equal(t, 12, ids.NextObject())
	assert.Equal(t, 22, ids.NextComponent())
}

func TestGetSupportsInterfaceLookup(t *testing.T) {
	g := NewGameObject("shapes")
	g.AddComponent(&recorder{})
	sq := &square{Side: 3}
	g.AddComponent(sq)

	got, ok := Get[shape](g)
	require.True(t, ok)
	assert.Same(t, sq, got)
	assert.Equal(t, 9.0, got.Area())

	_, ok = Get[*needsSquare](g)
	assert.False(t, ok)
}

func TestRemoveFirstMatch(t *testing.T) {
	var calls []string
	g := NewGameObject("rm")
	a := &recorder{Label: "a", calls: &calls}
	b := &recorder{Label: "b", calls: &calls}
	g.AddComponent(a)
	g.AddComponent(b)

	require.True(t, Remove[*recorder](g))
	got, ok := Get[*recorder](g)
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Nil(t, a.GameObject())
	assert.Equal(t, []string{"a:destroy"}, calls)
	assert.False(t, g.IsDead())
}

type ownerCheck struct {
	Base
	owner   *GameObject
	present bool
}

func (o *ownerCheck) TypeName() string { return "ownerCheck" }

func (o *ownerCheck) Destroy() {
	o.owner = o.GameObject()
	o.present = Has[*ownerCheck](o.owner)
}

func TestRemoveDestroysWhileLinked(t *testing.T) {
	g := NewGameObject("linked")
	c := &ownerCheck{}
	g.AddComponent(c)

	require.True(t, g.RemoveComponent(c))
	assert.Same(t, g, c.owner)
	assert.False(t, c.present)
	assert.False(t, g.RemoveComponent(c))
}

func TestDispatchInInsertionOrder(t *testing.T) {
	var calls []string
	g := NewGameObject("order")
	g.AddComponent(&recorder{Label: "a", calls: &calls})
	g.AddComponent(&recorder{Label: "b", calls: &calls})

	g.Start()
	g.Update(0.1)
	g.EditorUpdate(0.1)
	g.Destroy()
	g.Destroy()

	assert.Equal(t, []string{
		"a:start", "b:start",
		"a:update", "b:update",
		"a:editor", "b:editor",
		"a:destroy", "b:destroy",
	}, calls)
	assert.True(t, g.IsDead())
}

func TestCollisionDispatchCanDisableContact(t *testing.T) {
	var calls []string
	g := NewGameObject("hit")
	g.AddComponent(&recorder{Label: "a", calls: &calls})
	contact := &Contact{Normal: common.V2(0, 1)}

	g.BeginCollision(NewGameObject("other"), contact)
	assert.True(t, contact.Disabled())
	assert.Equal(t, []string{"a:begin"}, calls)
}

func TestRequiredComponentsAttachFirst(t *testing.T) {
	g := NewGameObject("req")
	n := &needsSquare{}
	g.AddComponent(n)

	comps := g.Components()
	require.Len(t, comps, 3)
	assert.IsType(t, &square{}, comps[1])
	assert.Same(t, n, comps[2])

	g2 := NewGameObject("req2")
	own := &square{Side: 5}
	g2.AddComponent(own)
	g2.AddComponent(&needsSquare{})
	assert.Len(t, All[*square](g2), 1)
}

func TestRegistryRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reg.Register("recorder", func() Component { return &recorder{} })

	g := NewGameObject("thing")
	g.Transform().Position = common.V2(1, 2)
	g.Transform().ZIndex = 4
	g.AddComponent(&recorder{Label: "kept", Hidden: 9})

	rec, err := reg.EncodeObject(g)
	require.NoError(t, err)
	require.Len(t, rec.Components, 2)
	assert.Equal(t, TransformType, rec.Components[0].Type)

	out, err := reg.DecodeObject(rec)
	require.NoError(t, err)
	assert.Equal(t, "thing", out.Name)
	assert.NotEqual(t, g.UID(), out.UID())
	assert.True(t, g.Transform().Equal(out.Transform()))
	assert.True(t, out.Serializable())

	r, ok := Get[*recorder](out)
	require.True(t, ok)
	assert.Equal(t, "kept", r.Label)
	assert.Zero(t, r.Hidden)
	assert.Same(t, out, r.GameObject())
}

func TestRegistryUnknownTypeFails(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.DecodeObject(ObjectRecord{
		Name:       "bad",
		Components: []Record{{Type: "Nope", Properties: []byte(`{}`)}},
	})
	require.Error(t, err)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "Nope", de.Type)
	assert.ErrorIs(t, err, ErrUnknownComponent)
}

func TestRegistryMalformedPropertiesFail(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Decode(Record{Type: TransformType, Properties: []byte(`{"position": "up"}`)})
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}

func TestRegistryDuplicatePanics(t *testing.T) {
	reg := NewRegistry()
	assert.Panics(t, func() {
		reg.Register(TransformType, func() Component { return NewTransform() })
	})
}

func TestCopyGetsFreshIDs(t *testing.T) {
	reg := NewRegistry()
	reg.Register("square", func() Component { return &square{} })
	g := NewGameObject("orig")
	sq := &square{Side: 4}
	g.AddComponent(sq)

	cp, err := g.Copy(reg)
	require.NoError(t, err)
	got, ok := Get[*square](cp)
	require.True(t, ok)
	assert.Equal(t, 4.0, got.Side)
	assert.NotEqual(t, sq.UID(), got.UID())
	assert.NotSame(t, sq, got)
}

func TestMaxUIDs(t *testing.T) {
	o, c := MaxUIDs([]ObjectRecord{
		{UID: 4, Components: []Record{{UID: 10}, {UID: 2}}},
		{UID: 7, Components: []Record{{UID: 3}}},
	})
	assert.Equal(t, 7, o)
	assert.Equal(t, 10, c)
}
