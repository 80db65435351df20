package navigator

// Direction of a slide transition. It only affects the exit flag on the
// slide being left and has no effect on the final indices.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Phase of the navigator state machine.
type Phase int

const (
	Idle Phase = iota
	Transitioning
)

func (p Phase) String() string {
	if p == Transitioning {
		return "transitioning"
	}
	return "idle"
}

// Status is the text written to the three display surfaces.
type Status struct {
	Percent              float64
	Counter              string
	StepIndicator        string
	StepIndicatorVisible bool
}

// Scene describes the visual layer as the navigator last left it. Active and
// Exiting are slide indexes, -1 when no slide carries the flag.
type Scene struct {
	Active   int
	Exiting  int
	Revealed [][]bool
	Status   Status
	Phase    Phase
}

// RevealedCount returns how many steps of slide i carry the revealed flag.
func (s Scene) RevealedCount(i int) int {
	if i < 0 || i >= len(s.Revealed) {
		return 0
	}
	n := 0
	for _, r := range s.Revealed[i] {
		if r {
			n++
		}
	}
	return n
}

func (s Scene) clone() Scene {
	out := s
	out.Revealed = make([][]bool, len(s.Revealed))
	for i, r := range s.Revealed {
		out.Revealed[i] = append([]bool(nil), r...)
	}
	return out
}
