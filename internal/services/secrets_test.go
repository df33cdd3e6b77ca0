package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/cryptox"
	"github.com/dsavel/passvault/internal/models"
	"github.com/dsavel/passvault/internal/strength"
)

// seedAccount registers an account and returns its ID plus the unlocked
// data key. Consumes one transaction expectation.
func seedAccount(t *testing.T, v *Vault, mock sqlmock.Sqlmock, username string) (int64, []byte) {
	t.Helper()
	expectTx(mock)

	account, err := v.Register(context.Background(), username, username+"@example.com", testPassword)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	session, err := v.Authenticate(context.Background(), username, testPassword, "")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	return account.ID, session.DataKey
}

func TestAddSecret_EncryptsAndScores(t *testing.T) {
	v, store, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	expectTx(mock)
	secret, err := v.AddSecret(context.Background(), userID, key, &models.Secret{
		Service:  "github",
		Username: "alice",
		Value:    "Correct Horse B1!",
	})
	if err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	stored := store.secrets[secret.ID]
	if stored == nil {
		t.Fatal("secret row missing")
	}
	if bytes.Contains(stored.EncryptedValue, []byte("Correct Horse")) {
		t.Fatal("stored value is not encrypted")
	}
	if stored.Strength != strength.Strong {
		t.Fatalf("strength = %s, want Strong", stored.Strength)
	}

	got, err := v.GetSecret(context.Background(), userID, key, secret.ID)
	if err != nil {
		t.Fatalf("GetSecret error: %v", err)
	}
	if got.Value != "Correct Horse B1!" {
		t.Fatalf("round trip mismatch: %q", got.Value)
	}
}

func TestAddSecret_RequiresServiceAndValue(t *testing.T) {
	v, _, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	_, err := v.AddSecret(context.Background(), userID, key, &models.Secret{Service: "", Value: "x"})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestGetSecret_CrossOwnerIndistinguishable(t *testing.T) {
	v, _, mock := newTestVault(t)
	aliceID, aliceKey := seedAccount(t, v, mock, "alice")
	bobID, bobKey := seedAccount(t, v, mock, "bob")

	expectTx(mock)
	secret, err := v.AddSecret(context.Background(), aliceID, aliceKey, &models.Secret{
		Service: "github", Value: "pw",
	})
	if err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	_, err = v.GetSecret(context.Background(), bobID, bobKey, secret.ID)
	if !errors.Is(err, common.ErrNotFoundOrUnauthorized) {
		t.Fatalf("want ErrNotFoundOrUnauthorized, got %v", err)
	}

	_, err = v.GetSecret(context.Background(), bobID, bobKey, 99999)
	if !errors.Is(err, common.ErrNotFoundOrUnauthorized) {
		t.Fatalf("missing row must look identical, got %v", err)
	}
}

func TestGetSecret_WrongKeyFailsClosed(t *testing.T) {
	v, _, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	expectTx(mock)
	secret, err := v.AddSecret(context.Background(), userID, key, &models.Secret{
		Service: "github", Value: "pw",
	})
	if err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	wrongKey := cryptox.NewDataKey()
	_, err = v.GetSecret(context.Background(), userID, wrongKey, secret.ID)
	if !errors.Is(err, common.ErrAuthenticationFailed) {
		t.Fatalf("want ErrAuthenticationFailed, got %v", err)
	}
}

func TestUpdateSecret_BackupAndAuditDeltas(t *testing.T) {
	v, store, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	expectTx(mock)
	secret, err := v.AddSecret(context.Background(), userID, key, &models.Secret{
		Service: "github", Username: "alice", Value: "old-password1!",
	})
	if err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	audits := len(store.auditEntries)
	backups := len(store.backupEntries)

	newValue := "New-password9?"
	expectTx(mock)
	updated, err := v.UpdateSecret(context.Background(), userID, key, secret.ID, UpdateSecretInput{
		Value: &newValue,
	})
	if err != nil {
		t.Fatalf("UpdateSecret error: %v", err)
	}

	if len(store.auditEntries) != audits+1 {
		t.Fatalf("audit entries = %d, want %d", len(store.auditEntries), audits+1)
	}
	if len(store.backupEntries) != backups+1 {
		t.Fatalf("backup entries = %d, want %d", len(store.backupEntries), backups+1)
	}

	got, err := v.GetSecret(context.Background(), userID, key, updated.ID)
	if err != nil {
		t.Fatalf("GetSecret error: %v", err)
	}
	if got.Value != newValue {
		t.Fatalf("value = %q, want %q", got.Value, newValue)
	}

	// Backup must hold the pre-update ciphertext, recoverable with the key.
	var snap *models.BackupEntry
	for _, b := range store.backupEntries {
		if b.TableName == models.TablePasswords && b.RecordID == secret.ID {
			snap = b
		}
	}
	if snap == nil {
		t.Fatal("backup snapshot missing")
	}
}

func TestUpdateSecret_ValueChangeMarkedInAudit(t *testing.T) {
	v, store, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	expectTx(mock)
	secret, err := v.AddSecret(context.Background(), userID, key, &models.Secret{
		Service: "github", Username: "alice", Value: "Old-password1!",
	})
	if err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	// Same length and character classes, so the strength label is unchanged
	// and nothing else about the row differs.
	newValue := "New-password9?"
	expectTx(mock)
	if _, err := v.UpdateSecret(context.Background(), userID, key, secret.ID, UpdateSecretInput{
		Value: &newValue,
	}); err != nil {
		t.Fatalf("UpdateSecret error: %v", err)
	}

	last := store.auditEntries[len(store.auditEntries)-1]
	if last.Action != models.ActionUpdate || last.TableName != models.TablePasswords {
		t.Fatalf("unexpected audit entry: %+v", last)
	}
	if !bytes.Contains(last.ChangeDetails, []byte(`"changed":"password_value"`)) {
		t.Fatalf("value change not described: %s", last.ChangeDetails)
	}
	if bytes.Contains(last.ChangeDetails, []byte("Old-password1!")) ||
		bytes.Contains(last.ChangeDetails, []byte(newValue)) {
		t.Fatal("plaintext leaked into audit details")
	}
}

func TestUpdateSecret_ExpirationHandling(t *testing.T) {
	v, _, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	exp := time.Now().Add(24 * time.Hour).UTC()
	expectTx(mock)
	secret, err := v.AddSecret(context.Background(), userID, key, &models.Secret{
		Service: "github", Value: "pw", ExpirationDate: &exp,
	})
	if err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	expectTx(mock)
	updated, err := v.UpdateSecret(context.Background(), userID, key, secret.ID, UpdateSecretInput{
		ClearExpiration: true,
	})
	if err != nil {
		t.Fatalf("UpdateSecret error: %v", err)
	}
	if updated.ExpirationDate != nil {
		t.Fatal("expiration date must be cleared")
	}
}

func TestDeleteSecret_RequiresConfirmation(t *testing.T) {
	v, _, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	expectTx(mock)
	secret, err := v.AddSecret(context.Background(), userID, key, &models.Secret{
		Service: "github", Value: "pw",
	})
	if err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	err = v.DeleteSecret(context.Background(), userID, secret.ID, false)
	if !errors.Is(err, common.ErrConfirmationRequired) {
		t.Fatalf("want ErrConfirmationRequired, got %v", err)
	}
}

func TestDeleteSecret_SnapshotsBeforeDelete(t *testing.T) {
	v, store, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	expectTx(mock)
	secret, err := v.AddSecret(context.Background(), userID, key, &models.Secret{
		Service: "github", Value: "pw",
	})
	if err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	backups := len(store.backupEntries)

	expectTx(mock)
	if err := v.DeleteSecret(context.Background(), userID, secret.ID, true); err != nil {
		t.Fatalf("DeleteSecret error: %v", err)
	}

	if _, ok := store.secrets[secret.ID]; ok {
		t.Fatal("secret row still present")
	}
	if len(store.backupEntries) != backups+1 {
		t.Fatal("delete must snapshot the row first")
	}

	last := store.auditEntries[len(store.auditEntries)-1]
	if last.Action != models.ActionDelete || last.TableName != models.TablePasswords {
		t.Fatalf("unexpected audit entry: %+v", last)
	}
}
