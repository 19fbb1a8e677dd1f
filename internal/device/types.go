package device

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"
)

type Facing string

const (
	FacingUser        Facing = "user"
	FacingEnvironment Facing = "environment"
)

func (f Facing) Opposite() Facing {
	if f == FacingUser {
		return FacingEnvironment
	}
	return FacingUser
}

func (f Facing) Mirrored() bool {
	return f == FacingUser
}

func ParseFacing(s string) (Facing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "front", "":
		return FacingUser, nil
	case "environment", "back", "rear":
		return FacingEnvironment, nil
	default:
		return "", fmt.Errorf("unknown facing mode %q", s)
	}
}

type State int

const (
	StateStopped State = iota
	StateRequesting
	StateActive
)

func (s State) String() string {
	switch s {
	case StateRequesting:
		return "requesting"
	case StateActive:
		return "active"
	default:
		return "stopped"
	}
}

type Constraints struct {
	Facing Facing
	Width  int
	Height int
}

// Source is the platform media-capture primitive. Open blocks until the
// stream is live or the request fails.
type Source interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}

type Stream interface {
	Frame() (image.Image, error)
	Close() error
}

type Frame struct {
	DataURL    string
	Width      int
	Height     int
	Facing     Facing
	CapturedAt time.Time
}
