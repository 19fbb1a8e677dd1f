package drawer

const (
	closeThreshold = 0.25
	dragCap        = 0.5
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseClosing
	PhaseSettling
)

func (p Phase) String() string {
	switch p {
	case PhaseDragging:
		return "dragging"
	case PhaseClosing:
		return "closing"
	case PhaseSettling:
		return "settling"
	default:
		return "idle"
	}
}

// Gesture tracks a vertical drag-to-dismiss on the drawer. Offsets are in the
// same unit as the viewport height.
type Gesture struct {
	phase    Phase
	startY   int
	offset   int
	viewport int
}

func (g *Gesture) Phase() Phase {
	return g.phase
}

func (g *Gesture) Offset() int {
	return g.offset
}

// Begin starts a drag. It is ignored unless the gesture is idle and the
// drawer content is scrolled to the top.
func (g *Gesture) Begin(y, scrollTop, viewport int) bool {
	if g.phase != PhaseIdle || scrollTop > 0 || viewport <= 0 {
		return false
	}
	g.phase = PhaseDragging
	g.startY = y
	g.offset = 0
	g.viewport = viewport
	return true
}

func (g *Gesture) Move(y int) int {
	if g.phase != PhaseDragging {
		return g.offset
	}
	offset := y - g.startY
	if offset < 0 {
		offset = 0
	}
	if limit := max(1, int(float64(g.viewport)*dragCap)); offset > limit {
		offset = limit
	}
	g.offset = offset
	return g.offset
}

// End releases the drag and reports whether the drawer is closing.
func (g *Gesture) End() bool {
	if g.phase != PhaseDragging {
		return false
	}
	if float64(g.offset) >= float64(g.viewport)*closeThreshold {
		g.phase = PhaseClosing
		return true
	}
	g.phase = PhaseSettling
	g.offset = 0
	return false
}

// Finish completes the close or settle animation and returns to idle. It
// reports whether the drawer must now close.
func (g *Gesture) Finish() bool {
	closing := g.phase == PhaseClosing
	if g.phase == PhaseClosing || g.phase == PhaseSettling {
		g.phase = PhaseIdle
		g.offset = 0
	}
	return closing
}

func (g *Gesture) Cancel() {
	if g.phase == PhaseDragging {
		g.phase = PhaseSettling
		g.offset = 0
	}
}
