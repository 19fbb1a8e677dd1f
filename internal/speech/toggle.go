package speech

import (
	"strings"

	"github.com/eleven-am/lingualens/internal/capture"
)

// Toggle gates automatic playback of new results.
type Toggle struct {
	Enabled bool
	Muted   bool
}

type ToggleEvent int

const (
	EnableToggled ToggleEvent = iota
	MuteToggled
	Enabled
	Disabled
)

func (t Toggle) Apply(ev ToggleEvent) Toggle {
	switch ev {
	case EnableToggled:
		t.Enabled = !t.Enabled
	case MuteToggled:
		t.Muted = !t.Muted
	case Enabled:
		t.Enabled = true
	case Disabled:
		t.Enabled = false
	}
	return t
}

func (t Toggle) AutoPlay() bool {
	return t.Enabled && !t.Muted
}

// Speakable picks the text to read aloud: the description when present,
// otherwise the translation.
func Speakable(r capture.Result) string {
	if d := strings.TrimSpace(r.Description); d != "" {
		return d
	}
	return strings.TrimSpace(r.Translation)
}
