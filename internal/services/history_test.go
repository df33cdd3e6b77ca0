package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/models"
	"github.com/dsavel/passvault/internal/repositories/audit"
)

func TestListAuditLog_EnforcesOwner(t *testing.T) {
	v, _, mock := newTestVault(t)
	aliceID, aliceKey := seedAccount(t, v, mock, "alice")
	bobID, _ := seedAccount(t, v, mock, "bob")

	expectTx(mock)
	if _, err := v.AddSecret(context.Background(), aliceID, aliceKey, &models.Secret{
		Service: "github", Value: "pw",
	}); err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	// A filter naming another owner must still only see the caller's rows.
	entries, err := v.ListAuditLog(context.Background(), bobID, audit.Filter{UserID: aliceID})
	if err != nil {
		t.Fatalf("ListAuditLog error: %v", err)
	}
	for _, e := range entries {
		if e.UserID != bobID {
			t.Fatalf("leaked entry for user %d", e.UserID)
		}
	}
}

func TestListAuditLog_FiltersByTableAndAction(t *testing.T) {
	v, _, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	expectTx(mock)
	secret, err := v.AddSecret(context.Background(), userID, key, &models.Secret{
		Service: "github", Value: "pw",
	})
	if err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}
	expectTx(mock)
	if err := v.DeleteSecret(context.Background(), userID, secret.ID, true); err != nil {
		t.Fatalf("DeleteSecret error: %v", err)
	}

	entries, err := v.ListAuditLog(context.Background(), userID, audit.Filter{
		TableName: models.TablePasswords,
		Action:    models.ActionDelete,
	})
	if err != nil {
		t.Fatalf("ListAuditLog error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].RecordID != secret.ID {
		t.Fatalf("record id = %d, want %d", entries[0].RecordID, secret.ID)
	}
}

func TestClearAuditLog(t *testing.T) {
	v, store, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	expectTx(mock)
	if _, err := v.AddSecret(context.Background(), userID, key, &models.Secret{
		Service: "github", Value: "pw",
	}); err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	before := len(store.auditEntries)
	if before == 0 {
		t.Fatal("expected seeded audit entries")
	}

	expectTx(mock)
	deleted, err := v.ClearAuditLog(context.Background(), userID, true)
	if err != nil {
		t.Fatalf("ClearAuditLog error: %v", err)
	}
	if deleted != int64(before) {
		t.Fatalf("deleted = %d, want %d", deleted, before)
	}

	// The clearing itself leaves exactly one trailing record.
	if len(store.auditEntries) != 1 {
		t.Fatalf("entries after clear = %d, want 1", len(store.auditEntries))
	}
	last := store.auditEntries[0]
	if last.Action != models.ActionDelete || last.TableName != "audit_logs" {
		t.Fatalf("unexpected trailing entry: %+v", last)
	}
	if !strings.Contains(string(last.ChangeDetails), "cleared_entries") {
		t.Fatalf("details = %s", last.ChangeDetails)
	}
}

func TestClearAuditLog_RequiresConfirmation(t *testing.T) {
	v, _, _ := newTestVault(t)

	_, err := v.ClearAuditLog(context.Background(), 1, false)
	if !errors.Is(err, common.ErrConfirmationRequired) {
		t.Fatalf("want ErrConfirmationRequired, got %v", err)
	}
}
