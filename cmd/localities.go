package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lpdesign/prospector/pkg/ibge"
)

var localitiesCmd = &cobra.Command{
	Use:   "localities",
	Short: "List Brazilian states and cities (IBGE)",
}

var localitiesStatesCmd = &cobra.Command{
	Use:   "states",
	Short: "List the states",
	RunE: func(cmd *cobra.Command, args []string) error {
		states, err := newIBGE().States(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range states {
			fmt.Printf("%s\t%s\n", s.Code, s.Name)
		}
		return nil
	},
}

var localitiesUF string

var localitiesCitiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List the cities of a state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cities, err := newIBGE().Cities(cmd.Context(), localitiesUF)
		if err != nil {
			return err
		}
		for _, c := range cities {
			fmt.Println(c)
		}
		return nil
	},
}

func newIBGE() ibge.Client {
	return ibge.New(
		ibge.WithBaseURL(cfg.IBGE.BaseURL),
		ibge.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.IBGE.TimeoutSecs) * time.Second}),
	)
}

func init() {
	localitiesCitiesCmd.Flags().StringVar(&localitiesUF, "uf", "", "state abbreviation (required)")
	_ = localitiesCitiesCmd.MarkFlagRequired("uf")
	localitiesCmd.AddCommand(localitiesStatesCmd, localitiesCitiesCmd)
	rootCmd.AddCommand(localitiesCmd)
}
