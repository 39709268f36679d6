package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lpdesign/prospector/internal/output"
	"github.com/lpdesign/prospector/internal/probe"
)

var probeCmd = &cobra.Command{
	Use:   "probe <url>",
	Short: "Check one website's technical health",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := probe.New(cfg.Probe).Probe(cmd.Context(), args[0])
		fmt.Println(output.Probe(args[0], result))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
