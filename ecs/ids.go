package ecs

import "sync/atomic"

// IDSource hands out GameObject and Component uids. Ids start at 1 and are
// never reused; 0 means "not assigned".
type IDSource struct {
	objects    atomic.Int64
	components atomic.Int64
}

// IDs is the process-wide id source.
var IDs = &IDSource{}

func (s *IDSource) NextObject() int {
	return int(s.objects.Add(1))
}

func (s *IDSource) NextComponent() int {
	return int(s.components.Add(1))
}

// Reserve raises both counters so the next ids are above maxObject and
// maxComponent. Counters never move backwards.
func (s *IDSource) Reserve(maxObject, maxComponent int) {
	raise(&s.objects, int64(maxObject))
	raise(&s.components, int64(maxComponent))
}

func raise(counter *atomic.Int64, floor int64) {
	for {
		cur := counter.Load()
		if cur >= floor {
			return
		}
		if counter.CompareAndSwap(cur, floor) {
			return
		}
	}
}
