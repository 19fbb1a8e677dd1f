package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const DefaultPlayer = "ffplay -nodisp -autoexit -loglevel quiet"

type Player interface {
	Play(ctx context.Context, audio *Audio) error
}

// CommandPlayer writes audio to a temp file and hands the path to an
// external program as its last argument.
type CommandPlayer struct {
	name string
	args []string
}

func NewCommandPlayer(cmdline string) *CommandPlayer {
	if strings.TrimSpace(cmdline) == "" {
		cmdline = DefaultPlayer
	}
	fields := strings.Fields(cmdline)
	return &CommandPlayer{name: fields[0], args: fields[1:]}
}

func (p *CommandPlayer) Command() []string {
	return append([]string{p.name}, p.args...)
}

func (p *CommandPlayer) Play(ctx context.Context, audio *Audio) error {
	if audio == nil || len(audio.Data) == 0 {
		return errors.New("no audio to play")
	}

	bin, err := exec.LookPath(p.name)
	if err != nil {
		return fmt.Errorf("audio player %s: %w", p.name, err)
	}

	f, err := os.CreateTemp("", "lingualens-*"+extension(audio.ContentType))
	if err != nil {
		return fmt.Errorf("create temp audio file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(audio.Data); err != nil {
		f.Close()
		return fmt.Errorf("write temp audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp audio file: %w", err)
	}

	cmd := exec.CommandContext(ctx, bin, append(append([]string{}, p.args...), path)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("play audio: %w: %s", err, msg)
		}
		return fmt.Errorf("play audio: %w", err)
	}
	return nil
}

func extension(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch ct {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/ogg", "audio/opus":
		return ".ogg"
	case "audio/flac":
		return ".flac"
	case "audio/aac":
		return ".aac"
	default:
		return ".mp3"
	}
}
