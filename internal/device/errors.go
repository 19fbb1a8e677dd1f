package device

import (
	"errors"
	"io/fs"
	"os/exec"
)

var (
	ErrPermissionDenied = errors.New("camera access denied")
	ErrNoDevice         = errors.New("no camera found")
	ErrUnsupported      = errors.New("camera access not supported")
	ErrNotActive        = errors.New("camera not active")
	ErrBusy             = errors.New("camera request already in progress")
	ErrSuperseded       = errors.New("camera request superseded")
)

type FailureKind int

const (
	FailureNone FailureKind = iota
	FailurePermissionDenied
	FailureNoDevice
	FailureUnsupported
	FailureOther
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailurePermissionDenied:
		return "permission-denied"
	case FailureNoDevice:
		return "no-device"
	case FailureUnsupported:
		return "unsupported"
	default:
		return "other"
	}
}

func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, fs.ErrPermission):
		return FailurePermissionDenied
	case errors.Is(err, ErrNoDevice), errors.Is(err, fs.ErrNotExist):
		return FailureNoDevice
	case errors.Is(err, ErrUnsupported), errors.Is(err, exec.ErrNotFound), errors.Is(err, errors.ErrUnsupported):
		return FailureUnsupported
	default:
		return FailureOther
	}
}
