package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/qrcode"
)

const (
	timeLayout = "2006-01-02 15:04"

	// QRImageName is the content id of the token QR code in approval emails.
	QRImageName = "permit-qr.png"
)

func RecipientOf(p *directory.Person) notification.Recipient {
	if p == nil {
		return notification.Recipient{}
	}
	return notification.Recipient{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone}
}

func newMessage(kind notification.Kind, to *directory.Person, p *permit.Permit, subject string, lines ...string) notification.Message {
	return notification.Message{
		Kind:      kind,
		Channel:   notification.ChannelAll,
		Recipient: RecipientOf(to),
		Subject:   subject,
		Body:      strings.Join(lines, "\n"),
		PermitID:  p.ID(),
	}
}

func permitSummary(p *permit.Permit) []string {
	return []string{
		"",
		"| | |",
		"|---|---|",
		fmt.Sprintf("| Permit | %s |", p.Number()),
		fmt.Sprintf("| Location | %s |", p.Location()),
		fmt.Sprintf("| Visit type | %s |", p.VisitType().DisplayName()),
		fmt.Sprintf("| Window | %s to %s |", formatTime(p.ScheduledStart()), formatTime(p.ScheduledEnd())),
	}
}

func formatTime(t time.Time) string {
	return biztime.FormatInBizTimezone(t, timeLayout)
}

func greeting(to *directory.Person) string {
	if to == nil || to.Name == "" {
		return "Hello,"
	}
	return fmt.Sprintf("Hello %s,", to.Name)
}

// PermitSubmitted confirms a new request to the visitor.
func PermitSubmitted(p *permit.Permit, visitor *directory.Person) notification.Message {
	lines := []string{
		greeting(visitor),
		"",
		fmt.Sprintf("Your work permit **%s** was submitted and is waiting for PIC review.", p.Number()),
	}
	return newMessage(notification.KindPermitSubmitted, visitor, p,
		fmt.Sprintf("Permit %s submitted", p.Number()),
		append(lines, permitSummary(p)...)...)
}

// ApprovalRequired asks a PIC or manager to review a permit.
func ApprovalRequired(p *permit.Permit, approver *directory.Person, stage string) notification.Message {
	lines := []string{
		greeting(approver),
		"",
		fmt.Sprintf("Permit **%s** needs your %s.", p.Number(), stage),
		"",
		fmt.Sprintf("Purpose: %s", p.Purpose()),
	}
	return newMessage(notification.KindApprovalRequired, approver, p,
		fmt.Sprintf("Approval required: %s", p.Number()),
		append(lines, permitSummary(p)...)...)
}

// PermitApproved delivers the check-in credentials to the visitor. The token is
// also embedded as a QR code for the gate scanner.
func PermitApproved(p *permit.Permit, visitor *directory.Person, code, token string, codeExpiresAt time.Time) notification.Message {
	lines := []string{
		greeting(visitor),
		"",
		fmt.Sprintf("Your work permit **%s** was approved.", p.Number()),
		"",
		fmt.Sprintf("Access code: `%s` (valid until %s)", code, formatTime(codeExpiresAt)),
		"",
		fmt.Sprintf("Access token: `%s`", token),
	}
	png, err := qrcode.PNG(token)
	if err == nil {
		lines = append(lines, "", fmt.Sprintf("![Permit QR code](cid:%s)", QRImageName))
	}
	lines = append(lines, "",
		"Present the code and the token or QR code at the security desk. You can request a new code if this one expires.")

	msg := newMessage(notification.KindPermitApproved, visitor, p,
		fmt.Sprintf("Permit %s approved", p.Number()),
		append(lines, permitSummary(p)...)...)
	if err == nil {
		msg.Images = []notification.InlineImage{{Name: QRImageName, PNG: png}}
	}
	return msg
}

func PermitRejected(p *permit.Permit, visitor *directory.Person, stage string) notification.Message {
	lines := []string{
		greeting(visitor),
		"",
		fmt.Sprintf("Your work permit **%s** was rejected at %s.", p.Number(), stage),
	}
	if p.RejectionReason() != "" {
		lines = append(lines, "", fmt.Sprintf("Reason: %s", p.RejectionReason()))
	}
	return newMessage(notification.KindPermitRejected, visitor, p,
		fmt.Sprintf("Permit %s rejected", p.Number()), lines...)
}

func PermitCancelled(p *permit.Permit, to *directory.Person) notification.Message {
	lines := []string{
		greeting(to),
		"",
		fmt.Sprintf("Work permit **%s** was cancelled.", p.Number()),
	}
	if p.RejectionReason() != "" {
		lines = append(lines, "", fmt.Sprintf("Reason: %s", p.RejectionReason()))
	}
	return newMessage(notification.KindPermitCancelled, to, p,
		fmt.Sprintf("Permit %s cancelled", p.Number()), lines...)
}

func CodeRegenerated(p *permit.Permit, visitor *directory.Person, code string, codeExpiresAt time.Time) notification.Message {
	return newMessage(notification.KindCodeRegenerated, visitor, p,
		fmt.Sprintf("New access code for %s", p.Number()),
		greeting(visitor),
		"",
		fmt.Sprintf("Your new access code for permit **%s** is `%s`, valid until %s.", p.Number(), code, formatTime(codeExpiresAt)),
		"",
		"Previous codes no longer work.",
	)
}

// CheckedIn tells the PIC their visitor arrived.
func CheckedIn(p *permit.Permit, pic *directory.Person, badgeCard string) notification.Message {
	lines := []string{
		greeting(pic),
		"",
		fmt.Sprintf("The visitor of permit **%s** checked in at %s.", p.Number(), formatTime(derefTime(p.ActualCheckIn()))),
	}
	if badgeCard != "" {
		lines = append(lines, "", fmt.Sprintf("Temporary badge: `%s`", badgeCard))
	}
	return newMessage(notification.KindCheckInSuccess, pic, p,
		fmt.Sprintf("Visitor checked in: %s", p.Number()), lines...)
}

func CheckedOut(p *permit.Permit, to *directory.Person) notification.Message {
	return newMessage(notification.KindCheckOutSuccess, to, p,
		fmt.Sprintf("Visitor checked out: %s", p.Number()),
		greeting(to),
		"",
		fmt.Sprintf("Permit **%s** was completed at %s.", p.Number(), formatTime(derefTime(p.ActualCheckOut()))),
	)
}

func BadgeReissued(p *permit.Permit, to *directory.Person, badgeCard string) notification.Message {
	return newMessage(notification.KindBadgeReissued, to, p,
		fmt.Sprintf("Badge reissued: %s", p.Number()),
		greeting(to),
		"",
		fmt.Sprintf("A replacement temporary badge `%s` was issued for permit **%s**. The previous badge no longer opens doors.", badgeCard, p.Number()),
	)
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
