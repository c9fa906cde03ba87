package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/campus-explorer-api/internal/domain"
	"github.com/campus-explorer-api/internal/metrics"
	"github.com/campus-explorer-api/internal/pkg/id"
	"github.com/campus-explorer-api/internal/pkg/validate"
)

const (
	msgInvalidCredentials = "Invalid login credentials"
	msgEmailNotConfirmed  = "Email not confirmed"
	msgConfirmEmail       = "Registration successful. Please check your email to confirm your account."
)

// Login signs in through the identity provider. The session itself is installed by the
// derivation the provider's sign-in event triggers, which has finished when Login returns.
func (a *Authority) Login(ctx context.Context, email, password string) domain.Result {
	in := credentials{Email: strings.TrimSpace(email), Password: password}
	if err := validate.Struct(in); err != nil {
		return domain.Fail(domain.KindValidation, "Please enter a valid email and password.")
	}

	_, err := a.identity.SignInWithPassword(ctx, in.Email, in.Password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmailNotConfirmed):
		a.metrics.RecordLogin(metrics.OutcomeFailure)
		res := domain.Fail(domain.KindProvider, msgEmailNotConfirmed)
		res.RequiresEmailConfirmation = true
		return res
	case errors.Is(err, domain.ErrInvalidCredentials):
		a.metrics.RecordLogin(metrics.OutcomeFailure)
		return domain.Fail(domain.KindProvider, msgInvalidCredentials)
	default:
		slog.Error("provider sign-in failed", "err", err)
		a.metrics.RecordLogin(metrics.OutcomeFailure)
		return domain.Fail(domain.KindUnavailable, "Login failed. Please try again.")
	}

	if snap := a.Snapshot(); snap.Session == nil {
		a.metrics.RecordLogin(metrics.OutcomeFailure)
		return domain.Fail(domain.KindConsistency, "This account is not registered as an admin.")
	}
	a.metrics.RecordLogin(metrics.OutcomeSuccess)
	return domain.OK("Logged in")
}

// Register creates the university, the identity and the admin record, in that order,
// undoing the university when a later step fails. An identity created before a failed
// admin-record write is left behind.
func (a *Authority) Register(ctx context.Context, email, password, universityName, city string) domain.Result {
	in := registration{
		Email:          strings.TrimSpace(email),
		Password:       password,
		UniversityName: strings.TrimSpace(universityName),
		City:           strings.TrimSpace(city),
	}
	if err := validate.Struct(in); err != nil {
		return domain.Fail(domain.KindValidation, registrationMessage(err))
	}

	now := a.now().UTC()
	university := &domain.University{
		ID:         id.New(),
		Name:       in.UniversityName,
		City:       in.City,
		AdminEmail: in.Email,
		CreatedAt:  now,
	}
	if err := a.universities.Put(ctx, university); err != nil {
		slog.Error("create university failed", "err", err)
		a.metrics.RecordRegister(metrics.OutcomeFailure)
		return domain.Fail(domain.KindUnavailable, "Registration failed. Please try again.")
	}

	ident, err := a.identity.SignUp(ctx, in.Email, in.Password, map[string]string{
		"university_id":   university.ID,
		"university_name": university.Name,
	})
	if err != nil {
		a.removeUniversity(ctx, university.ID)
		a.metrics.RecordRegister(metrics.OutcomeFailure)
		if errors.Is(err, domain.ErrConflict) {
			return domain.Fail(domain.KindProvider, "User already registered")
		}
		slog.Error("provider sign-up failed", "err", err)
		return domain.Fail(domain.KindProvider, "Registration failed. Please try again.")
	}

	row := domain.NewUniversityAdminRow(ident.ID, in.Email, university.ID, now)
	if err := a.directory.CreateAdmin(ctx, row); err != nil {
		slog.Error("create admin record failed, identity left without admin record",
			"identity_id", ident.ID, "err", err)
		a.removeUniversity(ctx, university.ID)
		a.metrics.RecordRegister(metrics.OutcomeFailure)
		return domain.Fail(domain.KindConsistency, "Registration failed. Please try again.")
	}
	a.metrics.RecordRegister(metrics.OutcomeSuccess)

	if !ident.EmailConfirmed {
		return domain.Result{Success: true, Message: msgConfirmEmail, RequiresEmailConfirmation: true}
	}
	if _, err := a.identity.SignInWithPassword(ctx, in.Email, in.Password); err != nil {
		slog.Info("sign-in after registration failed", "identity_id", ident.ID, "err", err)
		return domain.Result{Success: true, Message: msgConfirmEmail, RequiresEmailConfirmation: true}
	}
	return domain.OK("Registration successful")
}

func (a *Authority) removeUniversity(ctx context.Context, universityID string) {
	if err := a.universities.Delete(context.WithoutCancel(ctx), universityID); err != nil {
		slog.Error("compensating university delete failed", "university_id", universityID, "err", err)
	}
}

func registrationMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "'password' failed 'min'"):
		return "Password must be at least 6 characters."
	case strings.Contains(msg, "'email'"):
		return "Please enter a valid email address."
	default:
		return "Please fill in all fields."
	}
}

// Logout ends the session. A keyless super-admin session with no provider session behind it
// is cleared locally; otherwise the provider is signed out as well.
func (a *Authority) Logout(ctx context.Context) domain.Result {
	a.mu.Lock()
	s, keyless := a.session.(domain.SuperAdminSession)
	keyless = keyless && s.Keyless
	a.mu.Unlock()

	signOut := true
	if keyless {
		prov, err := a.identity.GetSession(ctx)
		signOut = err == nil && prov != nil
	}
	if signOut {
		if err := a.identity.SignOut(ctx); err != nil {
			slog.Warn("provider sign-out failed", "err", err)
		}
	}
	a.write(domain.StateUnauthenticated, nil)
	return domain.OK("Logged out")
}

func (a *Authority) SendPasswordResetEmail(ctx context.Context, email string) domain.Result {
	in := emailOnly{Email: strings.TrimSpace(email)}
	if err := validate.Struct(in); err != nil {
		return domain.Fail(domain.KindValidation, "Please enter a valid email address.")
	}
	if err := a.identity.ResetPasswordForEmail(ctx, in.Email); err != nil {
		slog.Error("password reset email failed", "err", err)
		return domain.Fail(domain.KindUnavailable, "Could not send password reset email. Please try again.")
	}
	return domain.OK("Password reset email sent. Please check your inbox.")
}

// RecoverPassword signs in through a recovery link so the admin can set a new password.
func (a *Authority) RecoverPassword(ctx context.Context, identityID, token string) domain.Result {
	in := linkToken{IdentityID: identityID, Token: token}
	if err := validate.Struct(in); err != nil {
		return domain.Fail(domain.KindValidation, "Recovery link is incomplete.")
	}
	if _, err := a.identity.VerifyRecovery(ctx, in.IdentityID, in.Token); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return domain.Fail(domain.KindProvider, "Recovery link is invalid or has expired.")
		}
		slog.Error("password recovery failed", "err", err)
		return domain.Fail(domain.KindUnavailable, "Could not verify recovery link. Please try again.")
	}
	return domain.OK("Recovery link verified. Please choose a new password.")
}

func (a *Authority) UpdatePassword(ctx context.Context, password, confirm string) domain.Result {
	in := newPassword{Password: password, Confirm: confirm}
	if err := validate.Struct(in); err != nil {
		if strings.Contains(err.Error(), "'eqfield'") {
			return domain.Fail(domain.KindValidation, "Passwords do not match.")
		}
		return domain.Fail(domain.KindValidation, "Password must be at least 6 characters.")
	}
	if err := a.identity.UpdateUser(ctx, in.Password); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return domain.Fail(domain.KindProvider, "Auth session missing")
		}
		slog.Error("password update failed", "err", err)
		return domain.Fail(domain.KindUnavailable, "Could not update password. Please try again.")
	}
	return domain.OK("Password updated")
}

func (a *Authority) ConfirmEmail(ctx context.Context, identityID, token string) domain.Result {
	in := linkToken{IdentityID: identityID, Token: token}
	if err := validate.Struct(in); err != nil {
		return domain.Fail(domain.KindValidation, "Confirmation link is incomplete.")
	}
	if err := a.identity.ConfirmEmail(ctx, in.IdentityID, in.Token); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return domain.Fail(domain.KindProvider, "Confirmation link is invalid or has expired.")
		}
		slog.Error("email confirmation failed", "err", err)
		return domain.Fail(domain.KindUnavailable, "Could not confirm email. Please try again.")
	}
	return domain.OK("Email confirmed. You can now log in.")
}

func (a *Authority) ResendConfirmation(ctx context.Context, email string) domain.Result {
	in := emailOnly{Email: strings.TrimSpace(email)}
	if err := validate.Struct(in); err != nil {
		return domain.Fail(domain.KindValidation, "Please enter a valid email address.")
	}
	if err := a.identity.ResendConfirmation(ctx, in.Email); err != nil {
		slog.Error("resend confirmation failed", "err", err)
		return domain.Fail(domain.KindUnavailable, "Could not resend confirmation email. Please try again.")
	}
	return domain.OK("Confirmation email sent. Please check your inbox.")
}
