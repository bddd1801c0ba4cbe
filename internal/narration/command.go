package narration

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// DefaultCommand is the TTS binary used when none is configured.
func DefaultCommand() string {
	if runtime.GOOS == "darwin" {
		return "say"
	}
	return "espeak-ng"
}

// DefaultArgs is the argument template for DefaultCommand.
var DefaultArgs = []string{"-v", "{voice}", "{text}"}

// CommandSpeaker speaks by running an external program once per
// utterance. Args may contain the {voice} and {text} placeholders.
type CommandSpeaker struct {
	Command string
	Args    []string
	Log     *slog.Logger
}

// NewCommandSpeaker fills in the platform defaults for empty fields.
func NewCommandSpeaker(command string, args []string, log *slog.Logger) *CommandSpeaker {
	if command == "" {
		command = DefaultCommand()
	}
	if len(args) == 0 {
		args = DefaultArgs
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &CommandSpeaker{Command: command, Args: args, Log: log}
}

// Ready reports whether the program is on PATH.
func (s *CommandSpeaker) Ready() bool {
	_, err := exec.LookPath(s.Command)
	return err == nil
}

func (s *CommandSpeaker) Speak(ctx context.Context, u Utterance) error {
	args := expandArgs(s.Args, u)
	s.Log.Debug("speaking", "command", s.Command, "voice", u.Voice, "chars", len(u.Text))
	cmd := exec.CommandContext(ctx, s.Command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w: %s", s.Command, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// expandArgs substitutes the placeholders. With no voice, a "{voice}"
// argument is dropped together with the flag right before it.
func expandArgs(tmpl []string, u Utterance) []string {
	out := make([]string, 0, len(tmpl))
	for _, a := range tmpl {
		if a == "{voice}" && u.Voice == "" {
			if n := len(out); n > 0 && strings.HasPrefix(out[n-1], "-") {
				out = out[:n-1]
			}
			continue
		}
		a = strings.ReplaceAll(a, "{voice}", u.Voice)
		a = strings.ReplaceAll(a, "{text}", u.Text)
		out = append(out, a)
	}
	return out
}
