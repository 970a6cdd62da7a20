package email

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/shared/markdown"
	"github.com/orris-inc/permitgate/internal/shared/utils"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPNotifier is the email transport. Bodies are sent as plain markdown with a
// rendered HTML alternative; message images are embedded for cid: references.
type SMTPNotifier struct {
	config   SMTPConfig
	renderer *markdown.Renderer
	send     func(m *gomail.Message) error
}

func NewSMTPNotifier(config SMTPConfig, renderer *markdown.Renderer) *SMTPNotifier {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	return newSMTPNotifier(config, renderer, dialer.DialAndSend)
}

func newSMTPNotifier(config SMTPConfig, renderer *markdown.Renderer, send func(m ...*gomail.Message) error) *SMTPNotifier {
	if renderer == nil {
		renderer = markdown.NewRenderer()
	}
	return &SMTPNotifier{
		config:   config,
		renderer: renderer,
		send:     func(m *gomail.Message) error { return send(m) },
	}
}

// Notify sends msg to the recipient's email address. Recipients without one
// are skipped.
func (s *SMTPNotifier) Notify(ctx context.Context, msg notification.Message) error {
	if msg.Recipient.Email == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}
	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", utils.MaskEmail(msg.Recipient.Email), err)
	}
	return nil
}

func (s *SMTPNotifier) buildMessage(msg notification.Message) (*gomail.Message, error) {
	htmlBody, err := s.renderer.Render(msg.Body)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	if msg.Recipient.Name != "" {
		m.SetAddressHeader("To", msg.Recipient.Email, msg.Recipient.Name)
	} else {
		m.SetHeader("To", msg.Recipient.Email)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	m.AddAlternative("text/html", "<html><body>"+htmlBody+"</body></html>")
	for _, img := range msg.Images {
		data := img.PNG
		m.Embed(img.Name,
			gomail.SetHeader(map[string][]string{"Content-Type": {"image/png"}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}
	return m, nil
}
