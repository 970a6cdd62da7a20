package notification

import (
	"fmt"
	"time"
)

const maxSubjectLength = 200

// InboxItem is an in-app notification kept for the recipient to read later.
type InboxItem struct {
	id          uint
	recipientID uint
	kind        Kind
	subject     string
	body        string
	permitID    uint
	readAt      *time.Time
	createdAt   time.Time
}

func NewInboxItem(msg Message, now time.Time) (*InboxItem, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	subject := msg.Subject
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength]
	}
	return &InboxItem{
		recipientID: msg.Recipient.ID,
		kind:        msg.Kind,
		subject:     subject,
		body:        msg.Body,
		permitID:    msg.PermitID,
		createdAt:   now,
	}, nil
}

func ReconstructInboxItem(id, recipientID uint, kind Kind, subject, body string, permitID uint, readAt *time.Time, createdAt time.Time) (*InboxItem, error) {
	if id == 0 {
		return nil, fmt.Errorf("inbox item ID cannot be zero")
	}
	return &InboxItem{
		id:          id,
		recipientID: recipientID,
		kind:        kind,
		subject:     subject,
		body:        body,
		permitID:    permitID,
		readAt:      readAt,
		createdAt:   createdAt,
	}, nil
}

func (i *InboxItem) ID() uint             { return i.id }
func (i *InboxItem) RecipientID() uint    { return i.recipientID }
func (i *InboxItem) Kind() Kind           { return i.kind }
func (i *InboxItem) Subject() string      { return i.subject }
func (i *InboxItem) Body() string         { return i.body }
func (i *InboxItem) PermitID() uint       { return i.permitID }
func (i *InboxItem) ReadAt() *time.Time   { return i.readAt }
func (i *InboxItem) CreatedAt() time.Time { return i.createdAt }
func (i *InboxItem) IsRead() bool         { return i.readAt != nil }

func (i *InboxItem) SetID(id uint) { i.id = id }
