package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Thibisault/Intimacy-Coach/internal/i18n"
	"github.com/Thibisault/Intimacy-Coach/internal/plan"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build and print a plan from the configured sequence",
	RunE:  runPlan,
}

var (
	planSeed uint64
	planJSON bool
)

func init() {
	planCmd.Flags().Uint64Var(&planSeed, "seed", 0, "Seed for a reproducible plan (0 draws a random one)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Print the plan as JSON")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	d, err := setup(false)
	if err != nil {
		return err
	}
	defer d.Close()

	var p *plan.Plan
	if planSeed != 0 {
		p, err = d.ctrl.BuildSeeded(planSeed)
	} else {
		p, err = d.ctrl.Rebuild()
	}
	if err != nil {
		return err
	}

	if planJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	lang, _ := i18n.ParseLang(d.cfg.Lang)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, sp := range p.Segments {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", sp.Segment, i18n.SegmentName(sp.Segment, lang), len(sp.Actions), clock(sp.Duration()))
		for _, a := range sp.Actions {
			fmt.Fprintf(w, "\t%ds\t%s\t%s\n", a.Duration, a.Actor, a.Text)
		}
	}
	fmt.Fprintf(w, "\t\t%d\t%s\n", p.ActionCount(), clock(p.Duration()))
	if err := w.Flush(); err != nil {
		return err
	}
	if p.Empty() {
		fmt.Fprintln(os.Stderr, "no eligible action: check the content file and filters")
	}
	return nil
}

func clock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
