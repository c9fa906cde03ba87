package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/campus-explorer-api/internal/domain"
	"github.com/campus-explorer-api/internal/metrics"
	"github.com/campus-explorer-api/internal/pkg/id"
	"github.com/campus-explorer-api/internal/pkg/token"
	"github.com/campus-explorer-api/internal/pkg/validate"
)

const (
	secretKeyDigits = 6

	msgInvalidKey         = "Invalid secret key."
	msgExpiredKey         = "Secret key has expired. Please request a new one."
	msgSuperAdminNotFound = "Super admin not found."
	msgNoPendingKey       = "No pending secret key. Please request a new one."
	msgTooManyAttempts    = "Too many secret key attempts. Please wait and try again."
)

// RequestKey generates a one-time key, stores it and mails it to the operator address.
// If delivery fails the stored key stays valid and RetryKeyDispatch can resend it.
func (a *Authority) RequestKey(ctx context.Context) domain.Result {
	code, err := token.NewNumericCode(secretKeyDigits)
	if err != nil {
		slog.Error("generate secret key failed", "err", err)
		a.metrics.RecordKeyRequest(metrics.OutcomeFailure)
		return domain.Fail(domain.KindUnavailable, "Failed to generate secret key. Please try again.")
	}

	now := a.now().UTC()
	key := &domain.OneTimeKey{
		ID:        id.New(),
		SecretKey: code,
		ExpiresAt: now.Add(a.cfg.KeyTTL),
		CreatedAt: now,
	}
	if err := a.keys.Insert(ctx, key); err != nil {
		slog.Error("store secret key failed", "err", err)
		a.metrics.RecordKeyRequest(metrics.OutcomeFailure)
		return domain.Fail(domain.KindUnavailable, "Failed to generate secret key. Please try again.")
	}

	a.mu.Lock()
	a.pendingKey = key
	a.mu.Unlock()

	if res := a.dispatch(ctx, key); !res.Success {
		a.metrics.RecordKeyRequest(metrics.OutcomeFailure)
		return res
	}
	a.metrics.RecordKeyRequest(metrics.OutcomeSuccess)
	return domain.OK(sentMessage(a.cfg.KeyTTL))
}

// RetryKeyDispatch resends the key most recently generated by this console. The stored row is
// re-read first: a key another console already redeemed, or one past its expiry, is dropped.
func (a *Authority) RetryKeyDispatch(ctx context.Context) domain.Result {
	a.mu.Lock()
	pending := a.pendingKey
	a.mu.Unlock()

	if pending == nil {
		return domain.Fail(domain.KindKey, msgNoPendingKey)
	}
	key, err := a.keys.Get(ctx, pending.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		slog.Error("secret key lookup failed", "key_id", pending.ID, "err", err)
		return domain.Fail(domain.KindUnavailable, "Could not resend secret key. Please try again.")
	}
	now := a.now().UTC()
	if key == nil || key.Used || key.Expired(now) {
		a.clearPendingKey(pending.ID)
		return domain.Fail(domain.KindKey, msgNoPendingKey)
	}
	if res := a.dispatch(ctx, key); !res.Success {
		return res
	}
	return domain.OK(sentMessage(key.ExpiresAt.Sub(now)))
}

func (a *Authority) clearPendingKey(keyID string) {
	a.mu.Lock()
	if a.pendingKey != nil && a.pendingKey.ID == keyID {
		a.pendingKey = nil
	}
	a.mu.Unlock()
}

func (a *Authority) dispatch(ctx context.Context, key *domain.OneTimeKey) domain.Result {
	if err := a.dispatcher.SendSecretKey(ctx, a.cfg.OperatorEmail, key.SecretKey); err != nil {
		slog.Error("secret key dispatch failed", "key_id", key.ID, "err", err)
		return domain.Fail(domain.KindUnavailable, "Secret key was generated but could not be sent. Please retry.")
	}
	return domain.Result{Success: true}
}

// sentMessage reports the remaining key lifetime, rounded up to whole minutes.
func sentMessage(remaining time.Duration) string {
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	if minutes == 1 {
		return "Secret key sent to the super admin email. It expires in 1 minute."
	}
	return fmt.Sprintf("Secret key sent to the super admin email. It expires in %d minutes.", minutes)
}

// VerifyKey exchanges a one-time key for a keyless, time-boxed super-admin session.
func (a *Authority) VerifyKey(ctx context.Context, input string) domain.Result {
	in := secretKeyInput{Key: strings.TrimSpace(input)}
	if err := validate.Struct(in); err != nil {
		return domain.Fail(domain.KindValidation, "Please enter the 6-digit secret key.")
	}
	if !a.verifyLimit.Allow() {
		slog.Warn("secret key verification throttled")
		a.metrics.RecordKeyVerify(metrics.OutcomeFailure)
		return domain.Fail(domain.KindKey, msgTooManyAttempts)
	}

	res := a.verifyKey(ctx, in.Key)
	if res.Success {
		a.metrics.RecordKeyVerify(metrics.OutcomeSuccess)
	} else {
		a.metrics.RecordKeyVerify(metrics.OutcomeFailure)
	}
	return res
}

func (a *Authority) verifyKey(ctx context.Context, secret string) domain.Result {
	key, err := a.keys.FindValid(ctx, secret)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Fail(domain.KindKey, msgInvalidKey)
		}
		slog.Error("secret key lookup failed", "err", err)
		return domain.Fail(domain.KindUnavailable, "Could not verify secret key. Please try again.")
	}

	now := a.now().UTC()
	if key.Expired(now) {
		return domain.Fail(domain.KindKey, msgExpiredKey)
	}

	if err := a.keys.MarkUsed(ctx, key.ID, now); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Fail(domain.KindKey, msgInvalidKey)
		}
		slog.Warn("mark secret key used failed", "key_id", key.ID, "err", err)
	}

	super, err := a.directory.GetSuperAdminRecord(ctx)
	if err != nil {
		slog.Error("super admin lookup failed", "err", err)
		return domain.Fail(domain.KindConsistency, msgSuperAdminNotFound)
	}

	a.clearPendingKey(key.ID)

	if !a.write(domain.StateSuperAdmin, domain.SuperAdminSession{
		AdminID:   super.ID,
		Email:     super.Email,
		LoginTime: now,
		ExpiresAt: now.Add(a.cfg.SessionTTL),
		Keyless:   true,
	}) {
		return domain.Fail(domain.KindUnavailable, "Console closed.")
	}
	return domain.OK("Super admin access granted")
}

// ExtendSession pushes the deadline of the active super-admin session to now + session TTL.
// There is no cap on the number of extensions.
func (a *Authority) ExtendSession(ctx context.Context) domain.Result {
	now := a.now().UTC()

	a.mu.Lock()
	if a.expireLocked(now) {
		snap, subs := a.snapshotLocked(), a.subscribersLocked()
		a.mu.Unlock()
		a.onExpired(snap, subs)
		return domain.Fail(domain.KindConsistency, "No active super admin session.")
	}
	s, ok := a.session.(domain.SuperAdminSession)
	if a.closed || !ok {
		a.mu.Unlock()
		return domain.Fail(domain.KindConsistency, "No active super admin session.")
	}
	s.ExpiresAt = now.Add(a.cfg.SessionTTL)
	a.gen++
	a.setLocked(domain.StateSuperAdmin, s)
	snap, subs := a.snapshotLocked(), a.subscribersLocked()
	a.mu.Unlock()

	publish(subs, snap)
	return domain.OK(fmt.Sprintf("Session extended by %d minutes", int(a.cfg.SessionTTL.Minutes())))
}
