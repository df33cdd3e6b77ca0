package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a password matching your policy preferences",
	Long: `Generate a random password honoring the account's stored policy:
length and required character classes come from the preferences, see
"passvault prefs".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		password, err := app.vault.GeneratePassword(cmd.Context(), userID)
		if err != nil {
			return friendly(err)
		}

		fmt.Println(password)
		return nil
	},
}
