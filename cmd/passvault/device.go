package main

import (
	"fmt"

	"github.com/dsavel/passvault/internal/services"

	"github.com/spf13/cobra"
)

var (
	deviceType      string
	deviceYes       bool
	accessLogsLimit int
)

func init() {
	rootCmd.AddCommand(deviceCmd)
	deviceCmd.AddCommand(deviceAddCmd)
	deviceCmd.AddCommand(deviceListCmd)
	deviceCmd.AddCommand(deviceRevokeCmd)
	deviceCmd.AddCommand(deviceActivateCmd)
	deviceCmd.AddCommand(deviceRemoveCmd)
	deviceCmd.AddCommand(deviceLogsCmd)

	deviceAddCmd.Flags().StringVar(&deviceType, "type", "desktop", "Device type (desktop, mobile, ...)")
	deviceRemoveCmd.Flags().BoolVar(&deviceYes, "yes", false, "Confirm the removal")
	deviceLogsCmd.Flags().IntVar(&accessLogsLimit, "limit", 0, "Maximum number of entries (default 50)")
}

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage devices connected to the account",
}

var deviceAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		device, err := app.vault.RegisterDevice(cmd.Context(), userID, args[0], deviceType)
		if err != nil {
			return friendly(err)
		}

		fmt.Printf("Device %d (%s) registered.\n", device.ID, device.DeviceName)
		return nil
	},
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		devices, err := app.vault.ListDevices(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println("No devices registered.")
			return nil
		}

		for _, d := range devices {
			fmt.Printf("%-6d %-24s %-10s %-8s last seen %s\n",
				d.ID, d.DeviceName, d.DeviceType, d.Status, d.LastSeen.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var deviceRevokeCmd = &cobra.Command{
	Use:   "revoke <id>",
	Short: "Revoke a device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDeviceStatus(cmd, args[0], services.DeviceStatusRevoked)
	},
}

var deviceActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Re-activate a revoked device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDeviceStatus(cmd, args[0], services.DeviceStatusActive)
	},
}

func setDeviceStatus(cmd *cobra.Command, arg, status string) error {
	userID, err := currentUser()
	if err != nil {
		return err
	}
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	if err := app.vault.SetDeviceStatus(cmd.Context(), userID, id, status); err != nil {
		return friendly(err)
	}

	fmt.Printf("Device %d is now %s.\n", id, status)
	return nil
}

var deviceRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a device registration",
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

		if err := app.vault.RemoveDevice(cmd.Context(), userID, id, deviceYes); err != nil {
			return friendly(err)
		}

		fmt.Printf("Device %d removed.\n", id)
		return nil
	},
}

var deviceLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent authentication events",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		logs, err := app.vault.ListAccessLogs(cmd.Context(), userID, accessLogsLimit)
		if err != nil {
			return err
		}
		if len(logs) == 0 {
			fmt.Println("No access logs.")
			return nil
		}

		for _, l := range logs {
			device := l.DeviceName
			if device == "" {
				device = "-"
			}
			fmt.Printf("%s  %s\n", l.AccessTime.Format("2006-01-02 15:04:05"), device)
		}
		return nil
	},
}
