package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lpdesign/prospector/pkg/places"
)

var placesCmd = &cobra.Command{
	Use:   "places <query>...",
	Short: "Cross-check a business on Google Places",
	Long:  "Runs a Places text search, useful for filling in websites and ratings OpenStreetMap doesn't carry. Needs places.key configured.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("places"); err != nil {
			return err
		}

		client := places.NewClient(cfg.Places.Key, places.WithBaseURL(cfg.Places.BaseURL))
		resp, err := client.TextSearch(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Empresa", "Endereço", "Site", "Avaliação"})
		for _, p := range resp.Places {
			rating := "-"
			if p.UserRatingCount > 0 {
				rating = fmt.Sprintf("%.1f (%d)", p.Rating, p.UserRatingCount)
			}
			t.AppendRow(table.Row{p.DisplayName.Text, p.FormattedAddress, p.WebsiteURI, rating})
		}
		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(placesCmd)
}
