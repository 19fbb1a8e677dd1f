package capture

// State is the whole capture lifecycle. It is only changed through Reduce.
type State struct {
	Phase      Phase
	Current    *Record
	Generation uint64
	Status     Status
	seq        uint64
}

type Event interface {
	captureEvent()
}

type CaptureBegan struct{}

type FrameCaptured struct {
	Record Record
	// Superseded is stored as the error of a prior record archived while pending.
	Superseded string
}

type CaptureFailed struct {
	Message string
}

type InferenceSucceeded struct {
	Generation uint64
	Result     Result
}

type InferenceFailed struct {
	Generation uint64
	Message    string
}

type StatusPosted struct {
	Message string
	Kind    StatusKind
}

type StatusExpired struct {
	Seq uint64
}

type Discarded struct {
	ID string
}

type Cleared struct{}

func (CaptureBegan) captureEvent()       {}
func (FrameCaptured) captureEvent()      {}
func (CaptureFailed) captureEvent()      {}
func (InferenceSucceeded) captureEvent() {}
func (InferenceFailed) captureEvent()    {}
func (StatusPosted) captureEvent()       {}
func (StatusExpired) captureEvent()      {}
func (Discarded) captureEvent()          {}
func (Cleared) captureEvent()            {}

type Transition struct {
	State    State
	Archived *Record
	Applied  bool
}

func Reduce(s State, ev Event) Transition {
	switch e := ev.(type) {
	case CaptureBegan:
		s.Phase = PhaseCapturing
		return Transition{State: s, Applied: true}

	case FrameCaptured:
		var archived *Record
		if s.Current != nil {
			prev := *s.Current
			if prev.Pending() {
				prev.Error = e.Superseded
			}
			archived = &prev
		}
		s.Generation++
		rec := e.Record
		rec.Generation = s.Generation
		rec.Result = nil
		rec.Error = ""
		s.Current = &rec
		s.Phase = PhaseAwaiting
		return Transition{State: s, Archived: archived, Applied: true}

	case CaptureFailed:
		s.Phase = phaseOf(s.Current)
		s = post(s, e.Message, StatusError)
		return Transition{State: s, Applied: true}

	case InferenceSucceeded:
		if !accepts(s, e.Generation) {
			return Transition{State: s}
		}
		rec := *s.Current
		res := e.Result
		rec.Result = &res
		s.Current = &rec
		s.Phase = PhaseResolved
		return Transition{State: s, Applied: true}

	case InferenceFailed:
		if !accepts(s, e.Generation) {
			return Transition{State: s}
		}
		rec := *s.Current
		rec.Error = e.Message
		s.Current = &rec
		s.Phase = PhaseFailed
		return Transition{State: s, Applied: true}

	case StatusPosted:
		return Transition{State: post(s, e.Message, e.Kind), Applied: true}

	case StatusExpired:
		if s.Status.Empty() || s.Status.Seq != e.Seq {
			return Transition{State: s}
		}
		s.Status = Status{Seq: s.Status.Seq}
		return Transition{State: s, Applied: true}

	case Discarded:
		if s.Current == nil || s.Current.ID != e.ID {
			return Transition{State: s}
		}
		s.Current = nil
		s.Phase = PhaseIdle
		return Transition{State: s, Applied: true}

	case Cleared:
		s.Current = nil
		s.Phase = PhaseIdle
		return Transition{State: s, Applied: true}
	}
	return Transition{State: s}
}

func accepts(s State, gen uint64) bool {
	return s.Current != nil && s.Current.Generation == gen && gen == s.Generation && s.Current.Pending()
}

func post(s State, msg string, kind StatusKind) State {
	s.seq++
	s.Status = Status{Message: msg, Kind: kind, Seq: s.seq}
	return s
}

func phaseOf(r *Record) Phase {
	switch {
	case r == nil:
		return PhaseIdle
	case r.Pending():
		return PhaseAwaiting
	case r.Failed():
		return PhaseFailed
	default:
		return PhaseResolved
	}
}
