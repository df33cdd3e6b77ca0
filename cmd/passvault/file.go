package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dsavel/passvault/internal/common"

	"github.com/spf13/cobra"
)

var (
	fileAddName string
	fileOutPath string
	fileYes     bool
)

func init() {
	rootCmd.AddCommand(fileCmd)
	fileCmd.AddCommand(fileAddCmd)
	fileCmd.AddCommand(fileGetCmd)
	fileCmd.AddCommand(fileListCmd)
	fileCmd.AddCommand(fileDeleteCmd)

	fileAddCmd.Flags().StringVar(&fileAddName, "name", "", "Name to store the file under (default: base name)")
	fileGetCmd.Flags().StringVarP(&fileOutPath, "output", "o", "", "Write the file here instead of its stored name")
	fileDeleteCmd.Flags().BoolVar(&fileYes, "yes", false, "Confirm the deletion")
}

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage encrypted files",
}

var fileAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Encrypt and store a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		name := fileAddName
		if name == "" {
			name = filepath.Base(args[0])
		}

		key, err := unlockDataKey(cmd.Context(), userID)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(key)

		file, err := app.vault.AddFile(cmd.Context(), userID, key, name, content)
		if err != nil {
			return friendly(err)
		}

		fmt.Printf("Stored file %d (%s, %d bytes)\n", file.ID, file.FileName, file.PlaintextSize)
		return nil
	},
}

var fileGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Decrypt a file to disk",
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

		file, content, err := app.vault.GetFile(cmd.Context(), userID, key, id)
		if err != nil {
			return friendly(err)
		}

		out := fileOutPath
		if out == "" {
			out = file.FileName
		}
		if err := os.WriteFile(out, content, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}

		fmt.Printf("Wrote %s (%d bytes)\n", out, len(content))
		return nil
	},
}

var fileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored files",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := currentUser()
		if err != nil {
			return err
		}

		files, err := app.vault.ListFiles(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No files stored.")
			return nil
		}

		for _, f := range files {
			location := "inline"
			if f.StorageKey != "" {
				location = "blob store"
			}
			fmt.Printf("%-6d %-32s %10d bytes  %s\n", f.ID, f.FileName, f.PlaintextSize, location)
		}
		return nil
	},
}

var fileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored file",
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

		if err := app.vault.DeleteFile(cmd.Context(), userID, id, fileYes); err != nil {
			return friendly(err)
		}

		fmt.Printf("Deleted file %d.\n", id)
		return nil
	},
}
