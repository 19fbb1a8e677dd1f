package app

import "github.com/eleven-am/lingualens/internal/capture"

// cameraMsg reports the outcome of a camera start or switch.
type cameraMsg struct {
	err error
}

// capturedMsg carries a frozen frame as a pending record.
type capturedMsg struct {
	record capture.Record
	err    error
}

// processedMsg carries the session state after an inference call.
type processedMsg struct {
	id    string
	state capture.State
}

// speechMsg reports the end of a text-to-speech playback.
type speechMsg struct {
	err error
}

// statusExpiredMsg clears the status posted with seq, if it is still shown.
type statusExpiredMsg struct {
	seq uint64
}

// gestureSettledMsg ends the drawer close/settle animation.
type gestureSettledMsg struct{}
