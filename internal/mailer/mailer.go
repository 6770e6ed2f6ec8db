package mailer

import (
	"context"
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/requestflow/requestflow/internal/config"
	"github.com/requestflow/requestflow/internal/models"
)

// Message is one outbound notification. ID, when set, becomes the Message-ID
// so a retried delivery is recognizable as the same message by the relay.
type Message struct {
	To      []string
	Subject string
	HTML    string
	ID      string
}

// Sender delivers a message through the mail relay.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SMTPSender sends through a plain SMTP relay (SSL implied by port 465, like
// the Gmail defaults the portal historically used).
type SMTPSender struct {
	host string
	port int
	user string
	pass string
}

func NewSMTPSender(cfg config.Config) *SMTPSender {
	return &SMTPSender{host: cfg.EmailHost, port: cfg.EmailPort, user: cfg.EmailUser, pass: cfg.EmailPass}
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(m.To) == 0 {
		return fmt.Errorf("no recipients")
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(s.user, "RequestFlow"))
	msg.SetHeader("To", m.To...)
	if m.ID != "" {
		msg.SetHeader("Message-ID", "<"+m.ID+"@requestflow>")
	}
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)
	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	d.SSL = s.port == 465
	return d.DialAndSend(msg)
}

// Recipients computes the notification recipient list: the submitter plus the
// fixed manager address, skipping empty values.
func Recipients(req models.Request, managerEmail string) []string {
	var out []string
	for _, addr := range []string{req.Email, managerEmail} {
		if strings.TrimSpace(addr) != "" {
			out = append(out, addr)
		}
	}
	return out
}

// BuildRequestEmail renders the submission notification. Field values are
// inserted verbatim, matching what the portal has always sent.
func BuildRequestEmail(req models.Request) (subject, html string) {
	subject = "Nouvelle Demande: " + req.Demandeur
	html = fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px; margin: auto; border: 1px solid #eee; padding: 20px;">
			<h2 style="color: #000; border-bottom: 2px solid #000; padding-bottom: 10px;">Détails de la demande</h2>
			<p><strong>Demandeur:</strong> %s</p>
			<p><strong>Service:</strong> %s</p>
			<p><strong>Type:</strong> %s</p>
			<p><strong>Description:</strong></p>
			<div style="background: #f9f9f9; padding: 15px; border-radius: 5px;">%s</div>
			<p style="font-size: 10px; color: #666; margin-top: 30px;">Envoyé via RequestFlow Platform</p>
		</div>`,
		req.Demandeur, req.Service, req.Type, req.Description)
	return subject, html
}
