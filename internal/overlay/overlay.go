// Package overlay tracks which windows are stacked on top of the main
// layout. Overlays close in reverse order of opening.
package overlay

// Kind identifies an overlay window.
type Kind int

const (
	None Kind = iota
	Help
	Topics
)

func (k Kind) String() string {
	switch k {
	case Help:
		return "help"
	case Topics:
		return "topics"
	default:
		return "none"
	}
}

// Stack is a LIFO of open overlays. The zero value is an empty stack.
type Stack struct {
	open []Kind
}

// Top returns the overlay that receives input, or None when the stack is
// empty.
func (s Stack) Top() Kind {
	if len(s.open) == 0 {
		return None
	}
	return s.open[len(s.open)-1]
}

func (s Stack) Contains(k Kind) bool {
	for _, o := range s.open {
		if o == k {
			return true
		}
	}
	return false
}

func (s Stack) Empty() bool {
	return len(s.open) == 0
}

// Push opens an overlay. Pushing an overlay that is already open moves it
// to the top instead of duplicating it.
func (s *Stack) Push(k Kind) {
	s.remove(k)
	s.open = append(s.open, k)
}

// Pop closes the most recently opened overlay and returns it, or None
// when nothing is open.
func (s *Stack) Pop() Kind {
	if len(s.open) == 0 {
		return None
	}
	top := s.open[len(s.open)-1]
	s.open = s.open[:len(s.open)-1]
	return top
}

// Toggle opens k if it is not on the stack and closes it if it is. It
// returns true when k ends up open.
func (s *Stack) Toggle(k Kind) bool {
	if s.Contains(k) {
		s.remove(k)
		return false
	}
	s.Push(k)
	return true
}

func (s *Stack) remove(k Kind) {
	for i, o := range s.open {
		if o == k {
			s.open = append(s.open[:i], s.open[i+1:]...)
			return
		}
	}
}
