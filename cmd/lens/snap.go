package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/eleven-am/lingualens/internal/capture"
	"github.com/eleven-am/lingualens/internal/locale"
	"github.com/eleven-am/lingualens/internal/speech"
)

func newSnapCmd(f *flags) *cobra.Command {
	var speak bool

	cmd := &cobra.Command{
		Use:   "snap",
		Short: "Capture one frame, process it and print the result",
		Example: `  # Describe what the back camera sees, in Spanish
  lens snap --facing environment --language Spanish`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *f)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			s, err := newSession(cfg, logger)
			if err != nil {
				return err
			}
			defer s.closeFn()

			ctx := cmd.Context()
			if err := s.capture.StartCamera(ctx, s.facing); err != nil {
				return fmt.Errorf("%s", s.capture.Status().Message)
			}

			st, err := s.capture.CaptureAndProcess(ctx)
			if err != nil {
				return fmt.Errorf("%s", s.capture.Status().Message)
			}
			if st.Current == nil {
				return fmt.Errorf("capture was discarded")
			}
			if st.Current.Failed() {
				return fmt.Errorf("%s", st.Current.Error)
			}

			printResult(cmd, s.capture.Catalog(), *st.Current)

			if speak {
				text := speech.Speakable(*st.Current.Result)
				if text == "" {
					return nil
				}
				if err := s.speaker.Speak(ctx, st.Current.Language, text); err != nil {
					return fmt.Errorf("%s: %w", s.capture.Catalog().Text(st.Current.Language, locale.KeySpeechFailed), err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&speak, "speak", false, "Read the result aloud")
	return cmd
}

func printResult(cmd *cobra.Command, catalog *locale.Catalog, rec capture.Record) {
	out := cmd.OutOrStdout()
	lang := rec.Language

	translation := rec.Result.Translation
	if translation == "" {
		translation = catalog.Text(lang, locale.KeyNoText)
	}
	fmt.Fprintf(out, "%s: %s\n", catalog.Text(lang, locale.KeyTranslation), translation)
	if rec.Result.Description != "" {
		fmt.Fprintf(out, "%s: %s\n", catalog.Text(lang, locale.KeyDescription), rec.Result.Description)
	}
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported result languages",
		Run: func(cmd *cobra.Command, args []string) {
			catalog := locale.Default()
			for _, name := range catalog.Languages() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s  voice=%s\n", name, catalog.Code(name), catalog.Voice(name))
			}
		},
	}
}
