package main

import (
	"fmt"

	"github.com/dsavel/passvault/internal/common"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

var (
	shareQROut     string
	shareRecipient string
	shareYes       bool
)

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.AddCommand(shareQRCmd)
	shareCmd.AddCommand(shareLinkCmd)
	shareCmd.AddCommand(shareListCmd)
	shareCmd.AddCommand(shareCodesCmd)
	shareCmd.AddCommand(shareRevokeCmd)
	shareCmd.AddCommand(shareDeleteCmd)
	shareCmd.AddCommand(shareDeleteQRCmd)

	shareQRCmd.Flags().StringVarP(&shareQROut, "out", "o", "", "Write the QR image to this PNG file")
	shareLinkCmd.Flags().StringVar(&shareRecipient, "to", "", "Recipient of the share")
	shareDeleteCmd.Flags().BoolVar(&shareYes, "yes", false, "Confirm the deletion")
	shareDeleteQRCmd.Flags().BoolVar(&shareYes, "yes", false, "Confirm the deletion")
}

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Share credentials via QR codes or secure links",
}

var shareQRCmd = &cobra.Command{
	Use:   "qr <secret-id>",
	Short: "Share a password as a QR code",
	Long: `Create a QR share of a stored password and render it as a PNG image.
The QR payload contains the plaintext credential; the image is written
locally and never stored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}
		secretID, err := parseID(args[0])
		if err != nil {
			return err
		}
		key, err := unlockDataKey(cmd.Context(), userID)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(key)

		qr, err := app.vault.ShareViaQRCode(cmd.Context(), userID, key, secretID)
		if err != nil {
			return friendly(err)
		}

		out := shareQROut
		if out == "" {
			out = fmt.Sprintf("passvault-share-%d.png", qr.ID)
		}
		if err := qrcode.WriteFile(qr.Data, qrcode.Medium, 256, out); err != nil {
			return fmt.Errorf("rendering QR image: %w", err)
		}

		fmt.Printf("QR share %d written to %s\n", qr.ID, out)
		return nil
	},
}

var shareLinkCmd = &cobra.Command{
	Use:   "link <secret-id>",
	Short: "Record a secure-link share with a recipient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}
		secretID, err := parseID(args[0])
		if err != nil {
			return err
		}

		share, err := app.vault.ShareViaLink(cmd.Context(), userID, secretID, shareRecipient)
		if err != nil {
			return friendly(err)
		}

		fmt.Printf("Share %d: %s shared with %s\n", share.ID, share.Service, share.Recipient)
		return nil
	},
}

var shareListCmd = &cobra.Command{
	Use:   "list",
	Short: "List secure-link shares",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		shares, err := app.vault.ListShares(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if len(shares) == 0 {
			fmt.Println("No shares recorded.")
			return nil
		}

		for _, sh := range shares {
			fmt.Printf("%-6d %-24s -> %-32s %-8s %s\n",
				sh.ID, sh.Service, sh.Recipient, sh.ShareStatus, sh.SharedDate.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var shareCodesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List QR shares",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		codes, err := app.vault.ListQRCodes(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if len(codes) == 0 {
			fmt.Println("No QR shares recorded.")
			return nil
		}

		for _, qr := range codes {
			fmt.Printf("%-6d %-24s %-24s created %s\n",
				qr.ID, qr.Service, qr.Username, qr.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var shareRevokeCmd = &cobra.Command{
	Use:   "revoke <share-id>",
	Short: "Revoke a secure-link share",
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

		if err := app.vault.RevokeShare(cmd.Context(), userID, id); err != nil {
			return friendly(err)
		}

		fmt.Printf("Share %d revoked.\n", id)
		return nil
	},
}

var shareDeleteCmd = &cobra.Command{
	Use:   "delete <share-id>",
	Short: "Delete a secure-link share record",
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

		if err := app.vault.DeleteShare(cmd.Context(), userID, id, shareYes); err != nil {
			return friendly(err)
		}

		fmt.Printf("Share %d deleted.\n", id)
		return nil
	},
}

var shareDeleteQRCmd = &cobra.Command{
	Use:   "delete-qr <id>",
	Short: "Delete a QR share record",
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

		if err := app.vault.DeleteQRCode(cmd.Context(), userID, id, shareYes); err != nil {
			return friendly(err)
		}

		fmt.Printf("QR share %d deleted.\n", id)
		return nil
	},
}
