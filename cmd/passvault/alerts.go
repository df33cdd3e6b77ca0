package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	notificationsAll bool
	alertsYes        bool
)

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsRefreshCmd)
	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsDeleteCmd)

	alertsDeleteCmd.Flags().BoolVar(&alertsYes, "yes", false, "Confirm the dismissal")

	rootCmd.AddCommand(notificationsCmd)
	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)

	notificationsListCmd.Flags().BoolVar(&notificationsAll, "all", false, "Include already-read notifications")
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Password expiration alerts",
}

var alertsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute expiration alerts from stored expiry dates",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		alerts, err := app.vault.RefreshAlerts(cmd.Context(), userID)
		if err != nil {
			return err
		}

		fmt.Printf("%d alert(s) raised.\n", len(alerts))
		for _, a := range alerts {
			fmt.Printf("  %-24s %-14s expires %s\n", a.Service, a.Status, a.ExpirationDate.Format(expiryLayout))
		}
		return nil
	},
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List current expiration alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		alerts, err := app.vault.ListAlerts(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if len(alerts) == 0 {
			fmt.Println("No alerts. Run 'passvault alerts refresh' to recompute.")
			return nil
		}

		for _, a := range alerts {
			fmt.Printf("%-6d %-24s %-14s expires %s\n",
				a.ID, a.Service, a.Status, a.ExpirationDate.Format(expiryLayout))
		}
		return nil
	},
}

var alertsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Dismiss an alert until the next refresh",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := app.vault.DeleteAlert(cmd.Context(), userID, id, alertsYes); err != nil {
			return friendly(err)
		}

		fmt.Printf("Alert %d dismissed.\n", id)
		return nil
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Vault notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications (unread by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		notifications, err := app.vault.ListNotifications(cmd.Context(), userID, !notificationsAll)
		if err != nil {
			return err
		}
		if len(notifications) == 0 {
			fmt.Println("No notifications.")
			return nil
		}

		for _, n := range notifications {
			marker := " "
			if !n.IsRead {
				marker = "*"
			}
			fmt.Printf("%s %-6d %-24s %s\n", marker, n.ID, n.Title, n.Message)
		}
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := app.vault.MarkNotificationRead(cmd.Context(), userID, id); err != nil {
			return friendly(err)
		}

		fmt.Printf("Notification %d marked as read.\n", id)
		return nil
	},
}
