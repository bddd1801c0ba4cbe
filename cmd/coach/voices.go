package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "Show the resolved voices and speak a test pair",
	RunE:  runVoices,
}

var voicesTest bool

func init() {
	voicesCmd.Flags().BoolVar(&voicesTest, "test", true, "Speak a short sentence with each voice")
	rootCmd.AddCommand(voicesCmd)
}

func runVoices(cmd *cobra.Command, _ []string) error {
	d, err := setup(voicesTest)
	if err != nil {
		return err
	}
	defer d.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "primary (%s):   %s\n", d.cfg.Voices.PrimaryLang, orDefault(d.voices.Primary))
	fmt.Fprintf(out, "secondary (%s): %s\n", d.cfg.Voices.SecondaryLang, orDefault(d.voices.Secondary))
	for _, v := range d.cfg.Voices.Available {
		fmt.Fprintf(out, "  available: %s (%s)\n", v.Name, v.Lang)
	}

	if !voicesTest {
		return nil
	}
	if d.queue == nil || !d.queue.Ready() {
		return errors.New("narration unavailable: check narration.command")
	}
	d.queue.SpeakPair("你好，这是中文语音。", "Bonjour, ceci est la voix française.", d.voices)
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	return d.queue.Drain(ctx)
}

func orDefault(v string) string {
	if v == "" {
		return "(system default)"
	}
	return v
}
