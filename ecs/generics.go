package ecs

// Get returns the first component assignable to T. Interface types match any
// implementing component.
func Get[T any](g *GameObject) (T, bool) {
	var zero T
	if g == nil {
		return zero, false
	}
	for _, c := range g.components {
		if cast, ok := c.(T); ok {
			return cast, true
		}
	}
	return zero, false
}

func Has[T any](g *GameObject) bool {
	_, ok := Get[T](g)
	return ok
}

// Remove detaches the first component assignable to T.
func Remove[T any](g *GameObject) bool {
	if g == nil {
		return false
	}
	for _, c := range g.components {
		if _, ok := c.(T); !ok {
			continue
		}
		if _, isTransform := c.(*Transform); isTransform {
			continue
		}
		return g.RemoveComponent(c)
	}
	return false
}

// All returns every component assignable to T, in insertion order.
func All[T any](g *GameObject) []T {
	if g == nil {
		return nil
	}
	var out []T
	for _, c := range g.components {
		if cast, ok := c.(T); ok {
			out = append(out, cast)
		}
	}
	return out
}
