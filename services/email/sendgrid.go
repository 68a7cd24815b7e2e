package emailsvc

import (
	"fmt"
	"net/http"
	"net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/trezcool/darasa/core"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// sendgridNotifier delivers notifications by email through Sendgrid.
// Delivery is best-effort: failures are logged and swallowed.
type sendgridNotifier struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	logger     core.Logger
}

var _ core.Notifier = (*sendgridNotifier)(nil)

func NewSendgridNotifier(logger core.Logger) *sendgridNotifier {
	from := core.Conf.FromEmail()
	return &sendgridNotifier{
		key:        core.Conf.SendgridAPIKey,
		from:       sgmail.NewEmail(from.Name, from.Address),
		subjPrefix: "[" + core.Conf.AppName + "] ",
		logger:     logger,
	}
}

func (svc sendgridNotifier) Notify(to []mail.Address, subject, body string) {
	if len(to) == 0 {
		return
	}
	go svc.send(to, subject, body)
}

func (svc sendgridNotifier) prepare(to []mail.Address, subject, body string) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.subjPrefix + subject
	for _, addr := range to {
		p.AddTos(sgmail.NewEmail(addr.Name, addr.Address))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", body))
	return m
}

func (svc sendgridNotifier) send(to []mail.Address, subject, body string) {
	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(to, subject, body))

	res, err := sendgrid.API(req)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("sending notification: %v", err), err)
	} else if res.StatusCode >= http.StatusBadRequest {
		svc.logger.Error(fmt.Sprintf("sending notification - status: %d - Body: %s", res.StatusCode, res.Body))
	}
}
