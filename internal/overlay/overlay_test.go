package overlay

import "testing"

func TestEmptyStack(t *testing.T) {
	var s Stack
	if !s.Empty() {
		t.Error("zero stack should be empty")
	}
	if s.Top() != None {
		t.Errorf("got %v, want None", s.Top())
	}
	if s.Pop() != None {
		t.Error("popping an empty stack should return None")
	}
}

func TestOverlaysCloseInReverseOrder(t *testing.T) {
	var s Stack
	s.Push(Help)
	s.Push(Topics)

	if s.Top() != Topics {
		t.Fatalf("got %v on top, want Topics", s.Top())
	}
	if got := s.Pop(); got != Topics {
		t.Errorf("first pop: got %v, want Topics", got)
	}
	if got := s.Pop(); got != Help {
		t.Errorf("second pop: got %v, want Help", got)
	}
	if !s.Empty() {
		t.Error("stack should be empty after popping both")
	}
}

func TestToggle(t *testing.T) {
	var s Stack
	if !s.Toggle(Help) {
		t.Error("first toggle should open")
	}
	if s.Top() != Help {
		t.Errorf("got %v, want Help", s.Top())
	}
	if s.Toggle(Help) {
		t.Error("second toggle should close")
	}
	if !s.Empty() {
		t.Error("stack should be empty after toggling twice")
	}
}

func TestToggleClosesBuriedOverlay(t *testing.T) {
	var s Stack
	s.Push(Help)
	s.Push(Topics)

	// ctrl+h closes help even though topics sits on top of it
	if s.Toggle(Help) {
		t.Error("toggle should close the buried help overlay")
	}
	if s.Top() != Topics {
		t.Errorf("got %v, want Topics", s.Top())
	}
	if s.Contains(Help) {
		t.Error("help should be gone")
	}
}

func TestPushMovesExistingToTop(t *testing.T) {
	var s Stack
	s.Push(Help)
	s.Push(Topics)
	s.Push(Help)

	if got := s.Pop(); got != Help {
		t.Errorf("got %v, want Help", got)
	}
	if got := s.Pop(); got != Topics {
		t.Errorf("got %v, want Topics", got)
	}
	if !s.Empty() {
		t.Error("no duplicates should remain")
	}
}
