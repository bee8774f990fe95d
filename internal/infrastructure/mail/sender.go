// Package mail delivers feedback notifications through an SMTP relay.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/sngm3741/workshop-feedback/api/internal/feedback/notification"
	"github.com/sngm3741/workshop-feedback/api/internal/metrics"
)

// dialer is the part of *gomail.Dialer the sender needs.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Config describes the relay account and the fixed mailbox.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	ReplyTo  string
	To       string
	Logger   logrus.FieldLogger
	Metrics  *metrics.Metrics
}

// Sender sends one message per call. There is no retry.
type Sender struct {
	dialer   dialer
	from     string
	fromName string
	replyTo  string
	to       string
	logger   logrus.FieldLogger
	metrics  *metrics.Metrics
}

// NewSender builds a gomail backed sender. The relay account doubles as the
// from address, and as reply-to and destination when those are unset.
func NewSender(cfg Config) *Sender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return newSender(d, cfg)
}

func newSender(d dialer, cfg Config) *Sender {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	from := strings.TrimSpace(cfg.Username)
	replyTo := strings.TrimSpace(cfg.ReplyTo)
	if replyTo == "" {
		replyTo = from
	}
	to := strings.TrimSpace(cfg.To)
	if to == "" {
		to = from
	}
	fromName := strings.TrimSpace(cfg.FromName)
	if fromName == "" {
		fromName = "Workshop Feedback"
	}

	logger.WithFields(logrus.Fields{
		"host": cfg.Host,
		"port": cfg.Port,
		"user": from,
		"to":   to,
	}).Info("mail sender initialised")

	return &Sender{
		dialer:   d,
		from:     from,
		fromName: fromName,
		replyTo:  replyTo,
		to:       to,
		logger:   logger,
		metrics:  cfg.Metrics,
	}
}

// Send delivers msg to the configured mailbox.
func (s *Sender) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.from == "" || s.to == "" {
		s.metrics.ObserveMailSend(metrics.MailFailed)
		return errors.New("mail sender is not configured")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", s.to)
	if s.replyTo != "" {
		m.SetHeader("Reply-To", s.replyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternative("text/html", msg.HTMLBody)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		s.metrics.ObserveMailSend(metrics.MailFailed)
		return fmt.Errorf("send feedback mail to %s: %w", s.to, err)
	}

	s.metrics.ObserveMailSend(metrics.MailSent)
	s.logger.WithField("subject", msg.Subject).Debug("feedback mail sent")
	return nil
}
