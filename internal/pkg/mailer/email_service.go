package mailer

import (
	"fmt"
	"html"
	"time"

	"grid-portal-be/pkg/events"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendEventMail(subject string, ev events.PortalEvent) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	recipients  []string
}

func NewEmailService(host string, port int, username, password, senderEmail string, recipients []string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		recipients:  recipients,
	}
}

func detail(m map[string]string, key string) string {
	if m == nil || m[key] == "" {
		return "-"
	}
	return html.EscapeString(m[key])
}

func (s *emailService) SendEventMail(subject string, ev events.PortalEvent) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", s.renderBody(ev))

	return s.dialer.DialAndSend(m)
}

func (s *emailService) renderBody(ev events.PortalEvent) string {
	when := ev.OccurredAt.Format(time.RFC1123)
	by := fmt.Sprintf("<p><b>By:</b> %s &lt;%s&gt;</p>",
		html.EscapeString(ev.Actor.Name), html.EscapeString(ev.Actor.Email))
	client := fmt.Sprintf("<p><b>Client:</b> %s</p>", html.EscapeString(ev.Client))

	switch ev.Kind {
	case events.KindStatus:
		return fmt.Sprintf(`%s
			<p><b>Position:</b> %s</p>
			<p><b>File:</b> %s</p>
			<p><b>New status:</b> %s</p>
			%s<p>%s</p>`,
			client, html.EscapeString(ev.Position), html.EscapeString(ev.Filename),
			html.EscapeString(ev.Content), by, when)
	case events.KindNote:
		return fmt.Sprintf(`%s
			<p><b>Position:</b> %s</p>
			<p><b>File:</b> %s</p>
			<p><b>Note:</b> %s</p>
			%s<p>%s</p>`,
			client, html.EscapeString(ev.Position), html.EscapeString(ev.Filename),
			html.EscapeString(ev.Content), by, when)
	case events.KindNewPosition:
		return fmt.Sprintf(`%s
			<p><b>Position:</b> %s</p>
			%s
			<p><b>Details</b></p>
			<ul>
				<li>Salary: %s</li>
				<li>Location: %s</li>
				<li>Experience: %s</li>
				<li>Benefits: %s</li>
				<li>Notes: %s</li>
			</ul>
			<p>%s</p>`,
			client, html.EscapeString(ev.Position), by,
			detail(ev.Details, "salary"), detail(ev.Details, "location"),
			detail(ev.Details, "experience"), detail(ev.Details, "benefits"),
			detail(ev.Details, "notes"), when)
	case events.KindNewUser:
		return fmt.Sprintf(`%s
			<p><b>User:</b> %s</p>
			%s<p>%s</p>`,
			client, html.EscapeString(ev.Content), by, when)
	default: // new_client and anything future
		return fmt.Sprintf(`%s%s<p>%s</p>`, client, by, when)
	}
}
