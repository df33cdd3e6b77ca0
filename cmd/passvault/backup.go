package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	backupTable  string
	backupRecord int64
	backupLimit  int
	restoreYes   bool
)

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRecentCmd)
	backupCmd.AddCommand(backupAccountCmd)

	rootCmd.AddCommand(restoreCmd)

	backupListCmd.Flags().StringVar(&backupTable, "table", "", "Entity table (passwords, file_vault, ...)")
	backupListCmd.Flags().Int64Var(&backupRecord, "record", 0, "Record id within the table")
	backupRecentCmd.Flags().IntVar(&backupLimit, "limit", 0, "Maximum number of entries (default 50)")
	restoreCmd.Flags().BoolVar(&restoreYes, "yes", false, "Confirm the restore")
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Inspect pre-mutation snapshots",
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots of one record, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}
		if backupTable == "" || backupRecord == 0 {
			return fmt.Errorf("--table and --record are required")
		}

		entries, err := app.vault.ListBackups(cmd.Context(), userID, backupTable, backupRecord)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No snapshots for that record.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%-6d %s  %s record %d\n",
				e.ID, e.BackupTime.Format("2006-01-02 15:04:05"), e.TableName, e.RecordID)
		}
		return nil
	},
}

var backupRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent snapshots across all records",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		entries, err := app.vault.ListRecentBackups(cmd.Context(), userID, backupLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No snapshots yet.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%-6d %s  %-18s record %d\n",
				e.ID, e.BackupTime.Format("2006-01-02 15:04:05"), e.TableName, e.RecordID)
		}
		return nil
	},
}

var backupAccountCmd = &cobra.Command{
	Use:   "account",
	Short: "Snapshot the profile, settings and preferences now",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		written, err := app.vault.BackupAccountData(cmd.Context(), userID)
		if err != nil {
			return friendly(err)
		}

		fmt.Printf("%d snapshot(s) written.\n", written)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup-id>",
	Short: "Roll an entity back to a snapshot",
	Long: `Restore one entity to the state captured in a snapshot. Find the
snapshot id with "passvault backup list" or "passvault backup recent".
Only snapshots of your own records can be restored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := app.vault.Restore(cmd.Context(), userID, id, restoreYes); err != nil {
			return friendly(err)
		}

		fmt.Printf("Snapshot %d restored.\n", id)
		return nil
	},
}
