package speech

import (
	"context"
	"fmt"

	"github.com/eleven-am/lingualens/internal/locale"
)

type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Audio, error)
}

// Speaker resolves the voice for a language, synthesizes and plays.
type Speaker struct {
	synth   Synthesizer
	player  Player
	catalog *locale.Catalog
}

func NewSpeaker(synth Synthesizer, player Player, catalog *locale.Catalog) *Speaker {
	if catalog == nil {
		catalog = locale.Default()
	}
	return &Speaker{synth: synth, player: player, catalog: catalog}
}

// Speak plays text sentence group by sentence group so long descriptions
// start sounding before the whole text is synthesized.
func (s *Speaker) Speak(ctx context.Context, language, text string) error {
	chunks := Chunk(text, MaxChunk)
	if len(chunks) == 0 {
		return ErrEmptyText
	}

	voice := s.catalog.Voice(language)
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		audio, err := s.synth.Synthesize(ctx, Request{Text: chunk, Voice: voice})
		if err != nil {
			return err
		}
		if err := s.player.Play(ctx, audio); err != nil {
			return fmt.Errorf("playback: %w", err)
		}
	}
	return nil
}
