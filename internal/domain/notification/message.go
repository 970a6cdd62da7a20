package notification

import (
	"context"
	"fmt"
)

type Kind string

const (
	KindPermitSubmitted  Kind = "PERMIT_SUBMITTED"
	KindApprovalRequired Kind = "APPROVAL_REQUIRED"
	KindPermitApproved   Kind = "PERMIT_APPROVED"
	KindPermitRejected   Kind = "PERMIT_REJECTED"
	KindPermitCancelled  Kind = "PERMIT_CANCELLED"
	KindCodeRegenerated  Kind = "CODE_REGENERATED"
	KindCheckInSuccess   Kind = "CHECK_IN_SUCCESS"
	KindCheckOutSuccess  Kind = "CHECK_OUT_SUCCESS"
	KindBadgeReissued    Kind = "BADGE_REISSUED"
)

type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
	ChannelInApp Channel = "IN_APP"
	ChannelAll   Channel = "ALL"
)

// Includes reports whether a message sent on c should reach channel target.
func (c Channel) Includes(target Channel) bool {
	return c == ChannelAll || c == target
}

type Recipient struct {
	ID    uint
	Name  string
	Email string
	Phone string
}

// InlineImage is a PNG the body references as cid:<Name>. Only email carries it.
type InlineImage struct {
	Name string
	PNG  []byte
}

// Message is one notification to one recipient. Body is markdown.
type Message struct {
	Kind      Kind
	Channel   Channel
	Recipient Recipient
	Subject   string
	Body      string
	PermitID  uint
	Images    []InlineImage
}

func (m Message) Validate() error {
	if m.Recipient.ID == 0 {
		return fmt.Errorf("recipient is required")
	}
	if m.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	return nil
}

// Notifier delivers a message on one transport.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
