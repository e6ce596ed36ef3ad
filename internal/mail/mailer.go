package mail

import (
	"strconv"

	"livemart-be/internal/config"
	"livemart-be/internal/logger"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Dispatcher enqueues mail for background delivery. Sends never block the
// caller and delivery failures never surface to it.
type Dispatcher interface {
	Send(recipient, subject, htmlBody string)
}

type message struct {
	recipient string
	subject   string
	htmlBody  string
}

type smtpDispatcher struct {
	from  string
	queue chan message
	send  func(m message) error
}

const queueSize = 256

// NewSMTPDispatcher builds a dispatcher backed by a single worker goroutine
// draining a bounded queue into the configured SMTP server.
func NewSMTPDispatcher(cfg *config.Config) Dispatcher {
	port, err := strconv.Atoi(cfg.MailPort)
	if err != nil || port == 0 {
		port = 587
	}

	from := cfg.MailFrom
	if from == "" {
		from = cfg.MailUsername
	}

	dialer := gomail.NewDialer(cfg.MailHost, port, cfg.MailUsername, cfg.MailPassword)

	d := &smtpDispatcher{
		from:  from,
		queue: make(chan message, queueSize),
	}
	d.send = func(m message) error {
		msg := gomail.NewMessage()
		msg.SetHeader("From", d.from)
		msg.SetHeader("To", m.recipient)
		msg.SetHeader("Subject", m.subject)
		msg.SetBody("text/html", m.htmlBody)
		return dialer.DialAndSend(msg)
	}

	go d.worker()
	return d
}

func (d *smtpDispatcher) Send(recipient, subject, htmlBody string) {
	m := message{recipient: recipient, subject: subject, htmlBody: htmlBody}

	select {
	case d.queue <- m:
	default:
		// Queue full. Mail is best-effort, so drop rather than block.
		logger.L().Warn("mail queue full, dropping message",
			zap.String("recipient", recipient),
			zap.String("subject", subject),
		)
	}
}

func (d *smtpDispatcher) worker() {
	for m := range d.queue {
		if err := d.send(m); err != nil {
			logger.L().Error("mail delivery failed",
				zap.String("recipient", m.recipient),
				zap.String("subject", m.subject),
				zap.Error(err),
			)
			continue
		}
		logger.L().Debug("mail delivered",
			zap.String("recipient", m.recipient),
			zap.String("subject", m.subject),
		)
	}
}
