package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lpdesign/prospector/internal/output"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored search sessions",
}

var sessionsLimit int

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		sums, err := st.ListSessions(ctx, sessionsLimit)
		if err != nil {
			return err
		}
		fmt.Println(output.Sessions(sums))
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show the leads of a session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		session, err := resolveSession(ctx, st, id)
		if err != nil {
			return err
		}
		fmt.Println(output.Leads(session.Leads, session.Selected))
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteSession(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("sessão %s removida\n", args[0])
		return nil
	},
}

var (
	selectSessionID string
	selectRemove    bool
)

var selectCmd = &cobra.Command{
	Use:   "select <lead-id>...",
	Short: "Mark leads for export and messaging",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		session, err := resolveSession(ctx, st, selectSessionID)
		if err != nil {
			return err
		}

		ids := make([]int, 0, len(args))
		for _, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid lead ID %q", arg)
			}
			if session.Lead(id) == nil {
				return fmt.Errorf("lead %d not in session %s", id, session.ID)
			}
			ids = append(ids, id)
		}
		for _, id := range ids {
			session.Select(id, !selectRemove)
		}

		if err := st.SaveSession(ctx, session); err != nil {
			return err
		}
		fmt.Printf("%d leads selecionados na sessão %s\n", len(session.Selected), session.ID)
		return nil
	},
}

func init() {
	sessionsListCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "maximum sessions to list")
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)

	selectCmd.Flags().StringVar(&selectSessionID, "session", "", "session ID (default: most recent)")
	selectCmd.Flags().BoolVar(&selectRemove, "remove", false, "unmark instead of mark")
	rootCmd.AddCommand(selectCmd)
}
