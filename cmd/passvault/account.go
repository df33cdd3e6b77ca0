package main

import (
	"fmt"

	"github.com/dsavel/passvault/internal/models"

	"github.com/spf13/cobra"
)

var (
	profileFullName string
	profilePhone    string

	settingsDarkMode      bool
	settingsNotifications bool

	prefsLength        int
	prefsAutoLock      int
	prefsUppercase     bool
	prefsNumbers       bool
	prefsSpecials      bool
	prefsSharing       string
	prefsCheckInterval int
)

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileUpdateCmd)

	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsUpdateCmd)

	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsUpdateCmd)

	profileUpdateCmd.Flags().StringVar(&profileFullName, "full-name", "", "Full name")
	profileUpdateCmd.Flags().StringVar(&profilePhone, "phone", "", "Phone number")

	settingsUpdateCmd.Flags().BoolVar(&settingsDarkMode, "dark-mode", false, "Enable dark mode")
	settingsUpdateCmd.Flags().BoolVar(&settingsNotifications, "notifications", true, "Enable notifications")

	prefsUpdateCmd.Flags().IntVar(&prefsLength, "length", 0, "Generated password length")
	prefsUpdateCmd.Flags().IntVar(&prefsAutoLock, "auto-lock", 0, "Auto-lock timeout in minutes (also the session lifetime)")
	prefsUpdateCmd.Flags().BoolVar(&prefsUppercase, "uppercase", true, "Require uppercase letters")
	prefsUpdateCmd.Flags().BoolVar(&prefsNumbers, "numbers", true, "Require digits")
	prefsUpdateCmd.Flags().BoolVar(&prefsSpecials, "specials", true, "Require special characters")
	prefsUpdateCmd.Flags().StringVar(&prefsSharing, "sharing", "", "Default sharing method (qr_code or secure_link)")
	prefsUpdateCmd.Flags().IntVar(&prefsCheckInterval, "check-interval", 0, "Password check interval in days")
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the account profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		profile, err := app.vault.GetProfile(cmd.Context(), userID)
		if err != nil {
			return friendly(err)
		}

		fmt.Printf("username:  %s\n", profile.Username)
		fmt.Printf("email:     %s\n", profile.Email)
		fmt.Printf("full name: %s\n", profile.FullName)
		fmt.Printf("phone:     %s\n", profile.Phone)
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile contact details",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		current, err := app.vault.GetProfile(cmd.Context(), userID)
		if err != nil {
			return friendly(err)
		}

		if cmd.Flags().Changed("full-name") {
			current.FullName = profileFullName
		}
		if cmd.Flags().Changed("phone") {
			current.Phone = profilePhone
		}

		if err := app.vault.UpdateProfile(cmd.Context(), userID, current); err != nil {
			return friendly(err)
		}

		fmt.Println("Profile updated.")
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show account settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		settings, err := app.vault.GetSettings(cmd.Context(), userID)
		if err != nil {
			return friendly(err)
		}

		fmt.Printf("dark mode:     %t\n", settings.DarkMode)
		fmt.Printf("notifications: %t\n", settings.NotificationsEnabled)
		return nil
	},
}

var settingsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update account settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		current, err := app.vault.GetSettings(cmd.Context(), userID)
		if err != nil {
			return friendly(err)
		}

		if cmd.Flags().Changed("dark-mode") {
			current.DarkMode = settingsDarkMode
		}
		if cmd.Flags().Changed("notifications") {
			current.NotificationsEnabled = settingsNotifications
		}

		if err := app.vault.UpdateSettings(cmd.Context(), userID, current); err != nil {
			return friendly(err)
		}

		fmt.Println("Settings updated.")
		return nil
	},
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show password-policy preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		prefs, err := app.vault.GetPreferences(cmd.Context(), userID)
		if err != nil {
			return friendly(err)
		}

		printPrefs(prefs)
		return nil
	},
}

var prefsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update password-policy preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		current, err := app.vault.GetPreferences(cmd.Context(), userID)
		if err != nil {
			return friendly(err)
		}

		if cmd.Flags().Changed("length") {
			current.PasswordLength = prefsLength
		}
		if cmd.Flags().Changed("auto-lock") {
			current.AutoLockTimeout = prefsAutoLock
		}
		if cmd.Flags().Changed("uppercase") {
			current.RequireUppercase = prefsUppercase
		}
		if cmd.Flags().Changed("numbers") {
			current.RequireNumbers = prefsNumbers
		}
		if cmd.Flags().Changed("specials") {
			current.RequireSpecialChars = prefsSpecials
		}
		if cmd.Flags().Changed("sharing") {
			current.DefaultSharingMethod = prefsSharing
		}
		if cmd.Flags().Changed("check-interval") {
			current.PasswordCheckInterval = prefsCheckInterval
		}

		if err := app.vault.UpdatePreferences(cmd.Context(), userID, current); err != nil {
			return friendly(err)
		}

		fmt.Println("Preferences updated.")
		printPrefs(current)
		return nil
	},
}

func printPrefs(prefs *models.Preferences) {
	fmt.Printf("password length:  %d\n", prefs.PasswordLength)
	fmt.Printf("auto-lock:        %d minutes\n", prefs.AutoLockTimeout)
	fmt.Printf("uppercase:        %t\n", prefs.RequireUppercase)
	fmt.Printf("numbers:          %t\n", prefs.RequireNumbers)
	fmt.Printf("special chars:    %t\n", prefs.RequireSpecialChars)
	fmt.Printf("sharing method:   %s\n", prefs.DefaultSharingMethod)
	fmt.Printf("check interval:   %d days\n", prefs.PasswordCheckInterval)
}
