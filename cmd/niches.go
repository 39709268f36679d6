package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lpdesign/prospector/internal/niche"
	"github.com/lpdesign/prospector/internal/output"
)

var nichesTags string

var nichesCmd = &cobra.Command{
	Use:   "niches",
	Short: "List the supported business niches",
	RunE: func(cmd *cobra.Command, args []string) error {
		if nichesTags != "" {
			tags := niche.Tags(nichesTags)
			if len(tags) == 0 {
				return fmt.Errorf("unknown niche %q", nichesTags)
			}
			for _, tag := range tags {
				fmt.Println(tag)
			}
			return nil
		}

		fmt.Println(output.Niches(niche.All(), niche.Categories))
		return nil
	},
}

func init() {
	nichesCmd.Flags().StringVar(&nichesTags, "tags", "", "print the OSM tag filters of one niche")
	rootCmd.AddCommand(nichesCmd)
}
