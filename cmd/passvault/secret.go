package main

import (
	"fmt"
	"time"

	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/models"
	"github.com/dsavel/passvault/internal/services"

	"github.com/spf13/cobra"
)

const expiryLayout = "2006-01-02"

var (
	secretService  string
	secretUsername string
	secretExpires  string
	secretClearExp bool
	secretYes      bool
)

func init() {
	rootCmd.AddCommand(secretCmd)
	secretCmd.AddCommand(secretAddCmd)
	secretCmd.AddCommand(secretGetCmd)
	secretCmd.AddCommand(secretListCmd)
	secretCmd.AddCommand(secretUpdateCmd)
	secretCmd.AddCommand(secretDeleteCmd)

	secretAddCmd.Flags().StringVar(&secretService, "service", "", "Service the password belongs to")
	secretAddCmd.Flags().StringVar(&secretUsername, "username", "", "Username at the service")
	secretAddCmd.Flags().StringVar(&secretExpires, "expires", "", "Expiration date (YYYY-MM-DD)")

	secretUpdateCmd.Flags().StringVar(&secretService, "service", "", "New service name")
	secretUpdateCmd.Flags().StringVar(&secretUsername, "username", "", "New username")
	secretUpdateCmd.Flags().StringVar(&secretExpires, "expires", "", "New expiration date (YYYY-MM-DD)")
	secretUpdateCmd.Flags().BoolVar(&secretClearExp, "clear-expiry", false, "Remove the expiration date")

	secretDeleteCmd.Flags().BoolVar(&secretYes, "yes", false, "Confirm the deletion")
}

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage stored passwords",
}

var secretAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a password",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}
		key, err := unlockDataKey(cmd.Context(), userID)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(key)

		value, err := promptPassword("Password to store: ")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(value)

		secret := &models.Secret{
			Service:  secretService,
			Username: secretUsername,
			Value:    string(value),
		}
		if secretExpires != "" {
			exp, err := time.Parse(expiryLayout, secretExpires)
			if err != nil {
				return fmt.Errorf("parsing --expires: %w", err)
			}
			secret.ExpirationDate = &exp
		}

		stored, err := app.vault.AddSecret(cmd.Context(), userID, key, secret)
		if err != nil {
			return friendly(err)
		}

		fmt.Printf("Stored secret %d for %s (strength: %s)\n", stored.ID, stored.Service, stored.Strength)
		return nil
	},
}

var secretGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Decrypt and print a password",
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
		key, err := unlockDataKey(cmd.Context(), userID)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(key)

		secret, err := app.vault.GetSecret(cmd.Context(), userID, key, id)
		if err != nil {
			return friendly(err)
		}

		fmt.Printf("service:  %s\n", secret.Service)
		fmt.Printf("username: %s\n", secret.Username)
		fmt.Printf("password: %s\n", secret.Value)
		if secret.ExpirationDate != nil {
			fmt.Printf("expires:  %s\n", secret.ExpirationDate.Format(expiryLayout))
		}
		return nil
	},
}

var secretListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored passwords (metadata only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		secrets, err := app.vault.ListSecrets(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if len(secrets) == 0 {
			fmt.Println("No secrets stored.")
			return nil
		}

		for _, s := range secrets {
			expiry := "-"
			if s.ExpirationDate != nil {
				expiry = s.ExpirationDate.Format(expiryLayout)
			}
			fmt.Printf("%-6d %-24s %-24s %-12s expires %s\n", s.ID, s.Service, s.Username, s.Strength, expiry)
		}
		return nil
	},
}

var secretUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a stored password",
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
		key, err := unlockDataKey(cmd.Context(), userID)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(key)

		input := services.UpdateSecretInput{
			Service:         secretService,
			Username:        secretUsername,
			ClearExpiration: secretClearExp,
		}

		if cmd.Flags().Changed("expires") {
			exp, err := time.Parse(expiryLayout, secretExpires)
			if err != nil {
				return fmt.Errorf("parsing --expires: %w", err)
			}
			input.ExpirationDate = &exp
		}

		// An empty prompt keeps the current value.
		value, err := promptPassword("New password (empty to keep): ")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(value)
		if len(value) > 0 {
			v := string(value)
			input.Value = &v
		}

		updated, err := app.vault.UpdateSecret(cmd.Context(), userID, key, id, input)
		if err != nil {
			return friendly(err)
		}

		fmt.Printf("Updated secret %d (strength: %s)\n", updated.ID, updated.Strength)
		return nil
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored password",
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

		if err := app.vault.DeleteSecret(cmd.Context(), userID, id, secretYes); err != nil {
			return friendly(err)
		}

		fmt.Printf("Deleted secret %d. A snapshot was kept, 'passvault restore' can bring it back.\n", id)
		return nil
	},
}
