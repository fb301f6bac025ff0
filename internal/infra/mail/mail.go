package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

type MailServer struct {
	cfg  *MailConfig
	auth smtp.Auth
}

func NewMailServer(cfg *MailConfig) *MailServer {
	return &MailServer{
		cfg:  cfg,
		auth: smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPHost),
	}
}

// SendMail delivers one rendered HTML mail. The envelope sender is the
// authenticated account, the From header is the configured alias.
func (m *MailServer) SendMail(to []string, subject, body string) error {
	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort

	var msg strings.Builder
	msg.WriteString("From: " + m.cfg.From + "\r\n")
	msg.WriteString("To: " + strings.Join(to, ",") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n" + body)

	if err := smtp.SendMail(addr, m.auth, m.cfg.Username, to, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
