// Package main provides the passvault CLI.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/dsavel/passvault/internal/blob"
	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/config"
	"github.com/dsavel/passvault/internal/logging"
	"github.com/dsavel/passvault/internal/repositories/repomanager"
	"github.com/dsavel/passvault/internal/services"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var app *appState

type appState struct {
	cfg   *config.Config
	db    *sql.DB
	vault *services.Vault
}

var rootCmd = &cobra.Command{
	Use:   "passvault",
	Short: "passvault is a personal encrypted credential vault",
	Long: `An encrypted vault for passwords and files. Every change is snapshotted
and audited in the same transaction, so any entity can be rolled back to a
previous state with "passvault restore".

Configuration comes from a JSON file (-c path) or short flags (-d DSN,
-s secret, -e S3 endpoint, ...), with development defaults otherwise.`,
	SilenceUsage: true,
	// Config flags (-c, -d, ...) are parsed by the config package, not cobra.
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}

		repos, err := repomanager.NewPostgresRepositoryManager(db)
		if err != nil {
			return err
		}
		if err := repos.RunMigrations(cmd.Context(), db); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		var blobs blob.Store
		if cfg.S3BaseEndpoint != "" {
			s3store, err := blob.NewS3Store(cmd.Context(), cfg.S3Region,
				cfg.S3RootUser, cfg.S3RootPassword, cfg.S3BaseEndpoint, cfg.S3Bucket)
			if err != nil {
				return fmt.Errorf("connecting to blob store: %w", err)
			}
			blobs = s3store
		}

		log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelWarn})))

		app = &appState{cfg: cfg, db: db, vault: services.NewVault(db, repos, cfg, log, blobs)}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil && app.db != nil {
			app.db.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// sessionFilePath is where the login token is cached between invocations.
func sessionFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".passvault", "session"), nil
}

func saveSession(token string) error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func clearSession() error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// currentUser validates the cached session token and returns the account ID.
func currentUser() (int64, error) {
	path, err := sessionFilePath()
	if err != nil {
		return 0, err
	}
	token, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.New("not logged in, run 'passvault login' first")
	}

	userID, err := app.vault.VerifySession(strings.TrimSpace(string(token)))
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return 0, errors.New("session expired, run 'passvault login' again")
		}
		return 0, err
	}
	return userID, nil
}

// unlockDataKey prompts for the master password and unwraps the data key.
// The key lives only for the duration of the command.
func unlockDataKey(ctx context.Context, userID int64) ([]byte, error) {
	password, err := promptPassword("Master password: ")
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(password)

	key, err := app.vault.Unlock(ctx, userID, string(password))
	if err != nil {
		return nil, err
	}
	return key, nil
}

func promptPassword(label string) ([]byte, error) {
	fmt.Print(label)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return password, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid id", arg)
	}
	return id, nil
}

// friendly rewrites sentinel errors into actionable CLI messages.
func friendly(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrConfirmationRequired):
		return errors.New("this operation is destructive, re-run with --yes to confirm")
	case errors.Is(err, common.ErrWeakPassword):
		return errors.New("password is too weak, use at least 8 characters with an uppercase letter and a digit")
	case errors.Is(err, common.ErrNotFoundOrUnauthorized):
		return errors.New("no such record in your vault")
	case errors.Is(err, common.ErrAuthenticationFailed):
		return errors.New("decryption failed, the data may be corrupt or the key is wrong")
	default:
		return err
	}
}
