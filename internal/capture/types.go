package capture

import (
	"fmt"
	"strings"
	"time"

	"github.com/eleven-am/lingualens/internal/device"
)

type Mode string

const (
	ModeDescribe  Mode = "describe"
	ModeTranslate Mode = "translate"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDescribe:
		return ModeDescribe, nil
	case ModeTranslate:
		return ModeTranslate, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

func (m Mode) Next() Mode {
	if m == ModeTranslate {
		return ModeDescribe
	}
	return ModeTranslate
}

type Result struct {
	Translation string
	Description string
}

// Record is one capture attempt. Records are values; transitions copy them.
type Record struct {
	ID         string
	Image      string
	Language   string
	Mode       Mode
	Facing     device.Facing
	Result     *Result
	Error      string
	Timestamp  string
	CreatedAt  time.Time
	Generation uint64
}

func (r Record) Pending() bool {
	return r.Result == nil && r.Error == ""
}

func (r Record) Failed() bool {
	return r.Error != ""
}

type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "info"
	}
}

type Status struct {
	Message string
	Kind    StatusKind
	Seq     uint64
}

func (s Status) Empty() bool {
	return s.Message == ""
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCapturing
	PhaseAwaiting
	PhaseResolved
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseCapturing:
		return "capturing"
	case PhaseAwaiting:
		return "awaiting"
	case PhaseResolved:
		return "resolved"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}
