package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lpdesign/prospector/internal/prospect"
	"github.com/lpdesign/prospector/internal/whatsapp"
)

var (
	messageSessionID string
	messageTemplate  string
	messageAll       bool
)

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Generate WhatsApp outreach links for selected leads",
	Long:  "Prints one wa.me link per selected lead. The message template may use {empresa} for the business name.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		session, err := resolveSession(ctx, st, messageSessionID)
		if err != nil {
			return err
		}

		leads := session.SelectedLeads()
		if messageAll {
			leads = session.Leads
		}
		if len(leads) == 0 {
			return prospect.ErrNoSelection
		}

		template := messageTemplate
		if template == "" {
			template = cfg.WhatsApp.DefaultMessage
		}

		builder := whatsapp.NewBuilder(cfg.WhatsApp)
		for i := range leads {
			link, err := builder.LinkWithMessage(&leads[i], template)
			if err != nil {
				if errors.Is(err, whatsapp.ErrNoPhone) {
					zap.L().Warn("lead has no phone, skipping",
						zap.Int("lead_id", leads[i].ID),
						zap.String("name", leads[i].Name),
					)
					continue
				}
				return err
			}
			fmt.Printf("%s\t%s\n", leads[i].Name, link)
		}
		return nil
	},
}

func init() {
	messageCmd.Flags().StringVar(&messageSessionID, "session", "", "session ID (default: most recent)")
	messageCmd.Flags().StringVarP(&messageTemplate, "mensagem", "m", "", "message template (default from config)")
	messageCmd.Flags().BoolVar(&messageAll, "all", false, "message every lead, not just the selected ones")
	rootCmd.AddCommand(messageCmd)
}
