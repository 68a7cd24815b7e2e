package emailsvc

import (
	"fmt"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
)

// SentMessage captures one dispatched notification; exposed for tests.
type SentMessage struct {
	ID      uuid.UUID
	To      []mail.Address
	Subject string
	Body    string
}

var (
	SentMessages = make([]SentMessage, 0)
	mu           sync.Mutex
)

// ClearSentMessages resets the captured messages between tests.
func ClearSentMessages() {
	mu.Lock()
	SentMessages = SentMessages[:0]
	mu.Unlock()
}

// consoleNotifier writes notifications to the log. Used in Debug mode and
// as the delivery fallback when no Sendgrid key is configured.
type consoleNotifier struct {
	defaultFromEmail mail.Address
	subjPrefix       string
	disableOutput    bool
}

var _ core.Notifier = (*consoleNotifier)(nil)

func NewConsoleNotifier() core.Notifier {
	return &consoleNotifier{
		defaultFromEmail: core.Conf.FromEmail(),
		subjPrefix:       "[" + core.Conf.AppName + "] ",
	}
}

func (svc consoleNotifier) Notify(to []mail.Address, subject, body string) {
	if len(to) == 0 {
		return
	}
	go svc.send(SentMessage{ID: uuid.New(), To: to, Subject: subject, Body: body})
}

func (svc consoleNotifier) send(msg SentMessage) {
	body := new(strings.Builder)
	_, _ = fmt.Fprintf(body, "Message-ID: %s\r\n", msg.ID)
	_, _ = fmt.Fprintf(body, "From: %s\r\n", svc.defaultFromEmail.String())
	_, _ = fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n", svc.subjPrefix+msg.Subject)
	_, _ = fmt.Fprintf(body, "To: %s\r\n", joinAddresses(msg.To))
	_, _ = fmt.Fprintf(body, "\r\n%s\r\n", msg.Body)

	if !svc.disableOutput {
		log.Println(body.String())
	}
	mu.Lock()
	SentMessages = append(SentMessages, msg)
	mu.Unlock()
}

func joinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		toJoin = append(toJoin, a.String())
	}
	return strings.Join(toJoin, ", ")
}

type consoleNotifierMock struct {
	consoleNotifier
}

// NewConsoleNotifierMock dispatches synchronously with output disabled;
// tests inspect SentMessages.
func NewConsoleNotifierMock() core.Notifier {
	return &consoleNotifierMock{
		consoleNotifier: consoleNotifier{
			defaultFromEmail: core.Conf.FromEmail(),
			subjPrefix:       "[" + core.Conf.AppName + "] ",
			disableOutput:    true,
		},
	}
}

func (svc *consoleNotifierMock) Notify(to []mail.Address, subject, body string) {
	if len(to) == 0 {
		return
	}
	// run synchronously
	svc.send(SentMessage{ID: uuid.New(), To: to, Subject: subject, Body: body})
}
