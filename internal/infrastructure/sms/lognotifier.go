// Package sms holds the SMS transport. No gateway is integrated yet, so
// messages are written to the log for the operator console to pick up.
package sms

import (
	"context"
	"strings"

	"github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

const maxSMSLength = 160

type LogNotifier struct {
	logger logger.Interface
}

func NewLogNotifier(logger logger.Interface) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, msg notification.Message) error {
	if msg.Recipient.Phone == "" {
		return nil
	}
	n.logger.Infow("sms notification",
		"kind", msg.Kind,
		"recipient_id", msg.Recipient.ID,
		"phone", maskPhone(msg.Recipient.Phone),
		"text", shorten(msg.Subject, maxSMSLength),
	)
	return nil
}

func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// maskPhone keeps the last four digits.
func maskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
