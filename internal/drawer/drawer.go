package drawer

// State is the history drawer and lightbox view state.
type State struct {
	Open     bool
	Lightbox string
	Selected int
}

type Event interface {
	drawerEvent()
}

type Opened struct{}
type Closed struct{}
type Toggled struct{}
type Selected struct{ Index int }
type LightboxOpened struct{ ID string }
type LightboxClosed struct{}

// ItemRemoved reports the item count after a removal.
type ItemRemoved struct{ Count int }
type Emptied struct{}

func (Opened) drawerEvent()         {}
func (Closed) drawerEvent()         {}
func (Toggled) drawerEvent()        {}
func (Selected) drawerEvent()       {}
func (LightboxOpened) drawerEvent() {}
func (LightboxClosed) drawerEvent() {}
func (ItemRemoved) drawerEvent()    {}
func (Emptied) drawerEvent()        {}

func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case Opened:
		s.Open = true
	case Closed:
		s.Open = false
	case Toggled:
		s.Open = !s.Open
	case Selected:
		if e.Index < 0 {
			e.Index = 0
		}
		s.Selected = e.Index
	case LightboxOpened:
		s.Lightbox = e.ID
	case LightboxClosed:
		s.Lightbox = ""
	case ItemRemoved:
		if s.Selected >= e.Count {
			s.Selected = e.Count - 1
		}
		if s.Selected < 0 {
			s.Selected = 0
		}
	case Emptied:
		s.Selected = 0
		s.Lightbox = ""
	}
	return s
}
