package panel

import (
	"testing"

	"pgregory.net/rapid"
)

func TestRingDefaults(t *testing.T) {
	r := NewRing()
	if r.Current() != Records {
		t.Errorf("got %v, want Records", r.Current())
	}
	if r.Len() != 4 {
		t.Errorf("got %d panels, want 4", r.Len())
	}
}

func TestRingWalk(t *testing.T) {
	r := NewRing()
	want := []Type{RecordDetail, Schemas, TopicDetail, Records}
	for i, w := range want {
		if got := r.Next(); got != w {
			t.Errorf("step %d: got %v, want %v", i, got, w)
		}
	}
	if got := r.Prev(); got != TopicDetail {
		t.Errorf("got %v, want TopicDetail", got)
	}
}

func TestRingSet(t *testing.T) {
	r := NewRing()
	r.Set(Schemas)
	if r.Current() != Schemas {
		t.Errorf("got %v, want Schemas", r.Current())
	}
	r.Set(Type(99))
	if r.Current() != Schemas {
		t.Errorf("unknown type should not move focus, got %v", r.Current())
	}
}

// Walking the ring any number of steps in any mix of directions and then
// undoing them lands back on the starting panel, and a full lap in one
// direction is the identity.
func TestRingClosure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRing()
		steps := rapid.IntRange(0, 50).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(t, "forward") {
				r.Next()
			} else {
				r.Prev()
			}
		}
		start := r.Current()

		for i := 0; i < r.Len(); i++ {
			r.Next()
		}
		if r.Current() != start {
			t.Fatalf("full forward lap moved focus from %v to %v", start, r.Current())
		}

		for i := 0; i < r.Len(); i++ {
			r.Prev()
		}
		if r.Current() != start {
			t.Fatalf("full backward lap moved focus from %v to %v", start, r.Current())
		}

		r.Next()
		r.Prev()
		if r.Current() != start {
			t.Fatalf("next then prev moved focus from %v to %v", start, r.Current())
		}
	})
}
