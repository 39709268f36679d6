package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lpdesign/prospector/internal/export"
	"github.com/lpdesign/prospector/internal/prospect"
	"github.com/lpdesign/prospector/internal/whatsapp"
)

var (
	exportSessionID string
	exportOut       string
	exportAll       bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export selected leads to CSV or XLSX",
	Long:  "Writes the selected leads (or all leads with --all) of a session to a file. The format follows the file extension: .csv or .xlsx.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		session, err := resolveSession(ctx, st, exportSessionID)
		if err != nil {
			return err
		}

		leads := session.SelectedLeads()
		if exportAll {
			leads = session.Leads
		}
		if len(leads) == 0 {
			return prospect.ErrNoSelection
		}

		exp := export.New(whatsapp.NewBuilder(cfg.WhatsApp))
		sheet := fmt.Sprintf("%s %s", session.Niche, session.City)
		switch {
		case strings.HasSuffix(exportOut, ".xlsx"):
			err = exp.XLSXFile(exportOut, sheet, leads)
		case strings.HasSuffix(exportOut, ".csv"):
			err = exp.CSVFile(exportOut, leads)
		default:
			return fmt.Errorf("unsupported export format %q (want .csv or .xlsx)", exportOut)
		}
		if err != nil {
			return err
		}

		fmt.Printf("%d leads exportados para %s\n", len(leads), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportSessionID, "session", "", "session ID (default: most recent)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "leads.csv", "output file (.csv or .xlsx)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "export every lead, not just the selected ones")
	rootCmd.AddCommand(exportCmd)
}
