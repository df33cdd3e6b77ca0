package main

import (
	"fmt"

	"github.com/dsavel/passvault/internal/repositories/audit"

	"github.com/spf13/cobra"
)

var (
	historyTable  string
	historyAction string
	historyLimit  int
	historyYes    bool
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyListCmd.Flags().StringVar(&historyTable, "table", "", "Filter by entity table (passwords, file_vault, ...)")
	historyListCmd.Flags().StringVar(&historyAction, "action", "", "Filter by action (INSERT, UPDATE, DELETE)")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum number of entries (default 100)")
	historyClearCmd.Flags().BoolVar(&historyYes, "yes", false, "Confirm clearing the ledger")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the change ledger",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit entries, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		entries, err := app.vault.ListAuditLog(cmd.Context(), userID, audit.Filter{
			TableName: historyTable,
			Action:    historyAction,
			Limit:     historyLimit,
		})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No audit entries.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%s  %-8s %-18s record %-6d %s\n",
				e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.TableName, e.RecordID, e.ChangeDetails)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole audit ledger",
	Long: `Delete every audit entry for the account. The clearing itself is
recorded, so the ledger is never silently empty.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		deleted, err := app.vault.ClearAuditLog(cmd.Context(), userID, historyYes)
		if err != nil {
			return friendly(err)
		}

		fmt.Printf("Cleared %d audit entries.\n", deleted)
		return nil
	},
}
