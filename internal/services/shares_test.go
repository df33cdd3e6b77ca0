package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/models"
)

func TestShareViaQRCode_PayloadHoldsCredential(t *testing.T) {
	v, _, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	expectTx(mock)
	secret, err := v.AddSecret(context.Background(), userID, key, &models.Secret{
		Service: "github", Username: "alice", Value: "shared-pw1!",
	})
	if err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	expectTx(mock)
	qr, err := v.ShareViaQRCode(context.Background(), userID, key, secret.ID)
	if err != nil {
		t.Fatalf("ShareViaQRCode error: %v", err)
	}
	if !strings.Contains(qr.Data, "password:shared-pw1!") {
		t.Fatalf("payload = %q", qr.Data)
	}

	payload, err := v.QRPayload(context.Background(), userID, qr.ID)
	if err != nil {
		t.Fatalf("QRPayload error: %v", err)
	}
	if payload != qr.Data {
		t.Fatalf("payload mismatch: %q vs %q", payload, qr.Data)
	}
}

func TestShareViaQRCode_ForeignSecret(t *testing.T) {
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

	_, err = v.ShareViaQRCode(context.Background(), bobID, bobKey, secret.ID)
	if !errors.Is(err, common.ErrNotFoundOrUnauthorized) {
		t.Fatalf("want ErrNotFoundOrUnauthorized, got %v", err)
	}
}

func TestShareViaLink_NoCredentialMaterial(t *testing.T) {
	v, store, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	expectTx(mock)
	secret, err := v.AddSecret(context.Background(), userID, key, &models.Secret{
		Service: "github", Value: "link-pw2?",
	})
	if err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	expectTx(mock)
	share, err := v.ShareViaLink(context.Background(), userID, secret.ID, "bob@example.com")
	if err != nil {
		t.Fatalf("ShareViaLink error: %v", err)
	}
	if share.ShareStatus != ShareStatusActive {
		t.Fatalf("status = %q", share.ShareStatus)
	}
	if share.Service != "github" || share.Recipient != "bob@example.com" {
		t.Fatalf("share = %+v", share)
	}

	// The share row and its audit entry carry no plaintext or ciphertext.
	for _, e := range store.auditEntries {
		if strings.Contains(string(e.ChangeDetails), "link-pw2?") {
			t.Fatal("credential leaked into audit details")
		}
	}
}

func TestShareViaLink_RequiresRecipient(t *testing.T) {
	v, _, mock := newTestVault(t)
	userID, _ := seedAccount(t, v, mock, "alice")

	_, err := v.ShareViaLink(context.Background(), userID, 1, "")
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestRevokeShare(t *testing.T) {
	v, store, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	expectTx(mock)
	secret, err := v.AddSecret(context.Background(), userID, key, &models.Secret{
		Service: "github", Value: "pw",
	})
	if err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	expectTx(mock)
	share, err := v.ShareViaLink(context.Background(), userID, secret.ID, "bob@example.com")
	if err != nil {
		t.Fatalf("ShareViaLink error: %v", err)
	}

	audits := len(store.auditEntries)
	backups := len(store.backupEntries)

	expectTx(mock)
	if err := v.RevokeShare(context.Background(), userID, share.ID); err != nil {
		t.Fatalf("RevokeShare error: %v", err)
	}

	if store.sharedPwds[share.ID].ShareStatus != ShareStatusRevoked {
		t.Fatal("share not revoked")
	}
	if len(store.auditEntries) != audits+1 || len(store.backupEntries) != backups+1 {
		t.Fatal("revocation must snapshot and audit")
	}
}

func TestDeleteShare(t *testing.T) {
	v, store, mock := newTestVault(t)
	userID, key := seedAccount(t, v, mock, "alice")

	expectTx(mock)
	secret, err := v.AddSecret(context.Background(), userID, key, &models.Secret{
		Service: "github", Value: "pw",
	})
	if err != nil {
		t.Fatalf("AddSecret error: %v", err)
	}

	expectTx(mock)
	share, err := v.ShareViaLink(context.Background(), userID, secret.ID, "bob@example.com")
	if err != nil {
		t.Fatalf("ShareViaLink error: %v", err)
	}

	if err := v.DeleteShare(context.Background(), userID, share.ID, false); !errors.Is(err, common.ErrConfirmationRequired) {
		t.Fatalf("want ErrConfirmationRequired, got %v", err)
	}

	backups := len(store.backupEntries)
	expectTx(mock)
	if err := v.DeleteShare(context.Background(), userID, share.ID, true); err != nil {
		t.Fatalf("DeleteShare error: %v", err)
	}

	if _, ok := store.sharedPwds[share.ID]; ok {
		t.Fatal("share row still present")
	}
	if len(store.backupEntries) != backups+1 {
		t.Fatal("delete must snapshot the share first")
	}
}

func TestDeleteQRCode_RequiresConfirmation(t *testing.T) {
	v, _, _ := newTestVault(t)

	err := v.DeleteQRCode(context.Background(), 1, 1, false)
	if !errors.Is(err, common.ErrConfirmationRequired) {
		t.Fatalf("want ErrConfirmationRequired, got %v", err)
	}
}
