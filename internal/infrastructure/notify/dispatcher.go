package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-explorer-api/internal/infrastructure/smtp"
	"github.com/campus-explorer-api/internal/infrastructure/sns"
)

// KeyDispatcher delivers super-admin one-time keys out of band. Email is the delivery channel;
// an SMS copy is sent when a phone number is configured and its failure is only logged.
type KeyDispatcher struct {
	mailer smtp.Mailer
	sms    sns.SMSSender
	phone  string
	ttl    time.Duration
}

// NewKeyDispatcher builds a dispatcher. sms may be nil.
func NewKeyDispatcher(mailer smtp.Mailer, sms sns.SMSSender, phone string, ttl time.Duration) *KeyDispatcher {
	return &KeyDispatcher{mailer: mailer, sms: sms, phone: phone, ttl: ttl}
}

func (d *KeyDispatcher) SendSecretKey(ctx context.Context, to, key string) error {
	minutes := int(d.ttl / time.Minute)
	body := fmt.Sprintf(
		"Your Campus Explorer super admin key is: %s\n\nIt expires in %d minutes and can be used once.\nIf you did not request it, ignore this email.",
		key, minutes,
	)
	if err := d.mailer.SendEmail(to, "Campus Explorer super admin key", body); err != nil {
		return fmt.Errorf("send secret key email: %w", err)
	}

	if d.sms != nil && d.phone != "" {
		msg := fmt.Sprintf("Campus Explorer super admin key: %s (valid %d min)", key, minutes)
		if err := d.sms.SendSMS(ctx, d.phone, msg); err != nil {
			slog.Warn("secret key sms copy failed", "err", err)
		}
	}
	return nil
}
