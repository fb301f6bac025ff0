package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/webcraft-studio/webcraft-backend/internal/application/errs"
	"github.com/webcraft-studio/webcraft-backend/internal/application/events"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/db"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/mail"
	dbs "github.com/webcraft-studio/webcraft-backend/pkg/db"
	shared "github.com/webcraft-studio/webcraft-backend/pkg/interfaces"
)

type SendMail struct {
	server     *mail.MailServer
	uowFactory *dbs.UOWFactory
}

func NewSendMail(server *mail.MailServer, uowFactory *dbs.UOWFactory) *SendMail {
	return &SendMail{server: server, uowFactory: uowFactory}
}

// Handle renders and sends one mail for an outbox event. The returned UoW is
// finalized by the poller, so the mails insert commits or rolls back together
// with the outbox status flip.
func (c *SendMail) Handle(event events.SendMail) (shared.UoW, error) {
	mailData, err := mapToMailData(event)
	if err != nil {
		return nil, err
	}
	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	var email, firstName string
	err = tx.QueryRow(context.Background(), "SELECT email, first_name FROM agency.users WHERE id = $1", event.UserID).Scan(&email, &firstName)
	if err != nil {
		return uow, err
	}
	mailData = withFirstName(mailData, firstName)
	recipients := []string{email}

	var mailTemplate string
	err = tx.QueryRow(context.Background(), "SELECT content FROM agency.mail_templates WHERE type = $1", mailData.GetMailType()).Scan(&mailTemplate)
	if err != nil {
		return uow, err
	}

	htmlBody, err := renderHTML(mailTemplate, mailData)
	if err != nil {
		return uow, fmt.Errorf("error rendering html, %v", err)
	}

	record := db.Mail{
		MailType:   string(mailData.GetMailType()),
		Recipients: strings.Join(recipients, ","),
		Subject:    event.Subject,
		Content:    htmlBody,
		SentAt:     time.Now(),
	}
	_, err = tx.Exec(context.Background(), "INSERT INTO agency.mails(type, recipients, subject, content, sent_at) VALUES ($1,$2,$3,$4,$5)",
		record.MailType, record.Recipients, record.Subject, record.Content, record.SentAt,
	)
	if err != nil {
		return uow, err
	}
	if err = c.server.SendMail(recipients, record.Subject, record.Content); err != nil {
		// drop the mails row too, the retry will write its own
		_ = uow.Rollback()
		return nil, errs.RetryableError{Err: err}
	}

	return uow, nil
}

func renderHTML(tmpl string, data mail.MailData) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func withFirstName(data mail.MailData, firstName string) mail.MailData {
	switch d := data.(type) {
	case mail.RequestReceivedData:
		d.CustomerFirstName = firstName
		return d
	case mail.PaymentConfirmedData:
		d.CustomerFirstName = firstName
		return d
	}
	return data
}

func mapToMailData(event events.SendMail) (mail.MailData, error) {
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return nil, fmt.Errorf("error mapping to mailData, %v", err)
	}

	switch event.Subject {
	case mail.RequestReceivedData{}.GetSubject():
		var received mail.RequestReceivedData
		if err := json.Unmarshal(raw, &received); err != nil {
			return nil, fmt.Errorf("error mapping to mailData, %v", err)
		}
		return received, nil
	case mail.PaymentConfirmedData{}.GetSubject():
		var confirmed mail.PaymentConfirmedData
		if err := json.Unmarshal(raw, &confirmed); err != nil {
			return nil, fmt.Errorf("error mapping to mailData, %v", err)
		}
		return confirmed, nil
	}

	return nil, fmt.Errorf("no such mailData type exists")
}
