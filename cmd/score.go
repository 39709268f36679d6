package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lpdesign/prospector/internal/output"
	"github.com/lpdesign/prospector/internal/probe"
	"github.com/lpdesign/prospector/internal/scorer"
)

var (
	scoreSessionID string
	scoreReprobe   bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Re-score the leads of a stored session",
	Long:  "Recomputes every lead's opportunity score with the current weights. With --reprobe the websites are probed again first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		session, err := resolveSession(ctx, st, scoreSessionID)
		if err != nil {
			return err
		}

		if scoreReprobe {
			prober := probe.New(cfg.Probe)
			for i := range session.Leads {
				if session.Leads[i].HasWebsite() {
					session.Leads[i].Probe = prober.Probe(ctx, session.Leads[i].Website)
				}
			}
		}

		session.Leads = scorer.New(cfg.Scorer).ScoreAll(session.Leads)
		if err := st.SaveSession(ctx, session); err != nil {
			return err
		}

		fmt.Println(output.Leads(session.Leads, session.Selected))
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreSessionID, "session", "", "session ID (default: most recent)")
	scoreCmd.Flags().BoolVar(&scoreReprobe, "reprobe", false, "probe the websites again before scoring")
	rootCmd.AddCommand(scoreCmd)
}
