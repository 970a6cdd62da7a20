package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/shared/qrcode"
	"github.com/orris-inc/permitgate/internal/shared/qrcode/qrcodetest"
)

type capture struct {
	sent []*gomail.Message
	err  error
}

func (c *capture) send(m ...*gomail.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, m...)
	return nil
}

func approvedMessage(email string) notification.Message {
	return notification.Message{
		Kind:      notification.KindPermitApproved,
		Recipient: notification.Recipient{ID: 1, Name: "Vera", Email: email},
		Subject:   "Permit WP-20260302-000001 approved",
		Body:      "Your access code is `482913`.",
		PermitID:  7,
	}
}

func TestSMTPNotifier_Notify(t *testing.T) {
	c := &capture{}
	n := newSMTPNotifier(SMTPConfig{FromAddress: "noreply@dc.example", FromName: "Data Center Access"}, nil, c.send)

	require.NoError(t, n.Notify(context.Background(), approvedMessage("vera@example.com")))
	require.Len(t, c.sent, 1)

	var buf bytes.Buffer
	_, err := c.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "vera@example.com")
	assert.Contains(t, raw, "Subject: Permit WP-20260302-000001 approved")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "<code>482913</code>")
}

// embeddedParts walks a MIME tree and returns the parts carrying a Content-ID.
func embeddedParts(t *testing.T, contentType string, body io.Reader, out map[string][]byte) {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	if !strings.HasPrefix(mediaType, "multipart/") {
		return
	}
	mr := multipart.NewReader(body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return
		}
		require.NoError(t, err)
		if cid := part.Header.Get("Content-Id"); cid != "" {
			raw, err := io.ReadAll(part)
			require.NoError(t, err)
			data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(raw), "\r\n", ""))
			require.NoError(t, err)
			out[cid] = data
			continue
		}
		embeddedParts(t, part.Header.Get("Content-Type"), part, out)
	}
}

func TestSMTPNotifier_EmbedsQRCode(t *testing.T) {
	c := &capture{}
	n := newSMTPNotifier(SMTPConfig{FromAddress: "noreply@dc.example"}, nil, c.send)

	png, err := qrcode.PNG("PERMIT-tok")
	require.NoError(t, err)
	msg := approvedMessage("vera@example.com")
	msg.Body += "\n\n![Permit QR code](cid:permit-qr.png)"
	msg.Images = []notification.InlineImage{{Name: "permit-qr.png", PNG: png}}

	require.NoError(t, n.Notify(context.Background(), msg))
	require.Len(t, c.sent, 1)

	var buf bytes.Buffer
	_, err = c.sent[0].WriteTo(&buf)
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(&buf)
	require.NoError(t, err)
	parts := map[string][]byte{}
	embeddedParts(t, parsed.Header.Get("Content-Type"), parsed.Body, parts)
	require.Contains(t, parts, "<permit-qr.png>")
	assert.Equal(t, "PERMIT-tok", qrcodetest.Decode(t, parts["<permit-qr.png>"]))
}

func TestSMTPNotifier_SkipsRecipientWithoutEmail(t *testing.T) {
	c := &capture{}
	n := newSMTPNotifier(SMTPConfig{FromAddress: "noreply@dc.example"}, nil, c.send)

	require.NoError(t, n.Notify(context.Background(), approvedMessage("")))
	assert.Empty(t, c.sent)
}

func TestSMTPNotifier_SendFailure(t *testing.T) {
	c := &capture{err: errors.New("connection refused")}
	n := newSMTPNotifier(SMTPConfig{FromAddress: "noreply@dc.example"}, nil, c.send)

	err := n.Notify(context.Background(), approvedMessage("vera@example.com"))
	assert.ErrorContains(t, err, "connection refused")
	assert.ErrorContains(t, err, "v***@example.com")
}
