package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dsavel/passvault/internal/common"

	"github.com/spf13/cobra"
)

var loginDevice string

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(passwdCmd)

	loginCmd.Flags().StringVar(&loginDevice, "device", "", "Device name to record in the access log")
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a vault account",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := promptLine("Username: ")
		if err != nil {
			return err
		}
		email, err := promptLine("Email: ")
		if err != nil {
			return err
		}

		password, err := promptPassword("Master password: ")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)

		confirm, err := promptPassword("Confirm master password: ")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(confirm)

		if string(password) != string(confirm) {
			return errors.New("passwords do not match")
		}

		account, err := app.vault.Register(cmd.Context(), username, email, string(password))
		if err != nil {
			if errors.Is(err, common.ErrDuplicateIdentity) {
				return errors.New("that username or email is already registered")
			}
			return friendly(err)
		}

		fmt.Printf("Account %q created. Run 'passvault login' to open the vault.\n", account.Username)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Open a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := promptLine("Username: ")
		if err != nil {
			return err
		}
		password, err := promptPassword("Master password: ")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)

		session, err := app.vault.Authenticate(cmd.Context(), username, string(password), loginDevice)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return errors.New("unknown username, run 'passvault register' first")
			}
			if errors.Is(err, common.ErrCorruptCredential) {
				return errors.New("the stored credential for this account is corrupt, it must be re-registered")
			}
			return err
		}
		defer common.WipeByteArray(session.DataKey)

		if err := saveSession(session.Token); err != nil {
			return err
		}

		fmt.Println("Logged in.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the cached session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clearSession(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the master password",
	Long: `Change the master password. The account's data key is re-wrapped under
the new password; stored secrets and files are untouched and remain
accessible after the change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		oldPassword, err := promptPassword("Current master password: ")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(oldPassword)

		newPassword, err := promptPassword("New master password: ")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(newPassword)

		confirm, err := promptPassword("Confirm new master password: ")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(confirm)

		if string(newPassword) != string(confirm) {
			return errors.New("new passwords do not match")
		}

		if err := app.vault.ChangePassword(cmd.Context(), userID, string(oldPassword), string(newPassword)); err != nil {
			return friendly(err)
		}

		fmt.Println("Master password changed.")
		return nil
	},
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
