package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lpdesign/prospector/internal/output"
	"github.com/lpdesign/prospector/internal/prospect"
)

var (
	searchState    string
	searchCity     string
	searchNiche    string
	searchCategory string
	searchRadius   int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for business leads in a city",
	Long:  "Geocodes the city, finds matching establishments on OpenStreetMap, probes their websites, scores every lead and stores the result as a new session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		session, err := newEngine().Search(ctx, prospect.Request{
			State:    searchState,
			City:     searchCity,
			Niche:    searchNiche,
			Category: searchCategory,
			RadiusKm: searchRadius,
		})
		if err != nil {
			return err
		}

		if err := st.SaveSession(ctx, session); err != nil {
			return err
		}

		if session.CenterDefault {
			zap.L().Warn("city could not be geocoded; results centered on the default coordinate",
				zap.String("city", searchCity),
			)
		}

		fmt.Println(output.Leads(session.Leads, session.Selected))
		fmt.Printf("sessão %s salva (%d leads)\n", session.ID, len(session.Leads))
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchState, "uf", "", "state abbreviation, e.g. ES (required)")
	searchCmd.Flags().StringVar(&searchCity, "cidade", "", "city name (required)")
	searchCmd.Flags().StringVar(&searchNiche, "nicho", "", "business niche, see 'prospector niches' (required)")
	searchCmd.Flags().StringVar(&searchCategory, "categoria", "", "narrow the niche to one category")
	searchCmd.Flags().IntVar(&searchRadius, "raio", 0, "search radius in km (default from config)")
	_ = searchCmd.MarkFlagRequired("uf")
	_ = searchCmd.MarkFlagRequired("cidade")
	_ = searchCmd.MarkFlagRequired("nicho")
	rootCmd.AddCommand(searchCmd)
}
