package mail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/sngm3741/workshop-feedback/api/internal/feedback/notification"
)

type recordingDialer struct {
	messages []*gomail.Message
	err      error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.messages = append(d.messages, m...)
	return d.err
}

func testMessage() notification.Message {
	return notification.Message{
		Subject:  "New Feedback from A. Singh - KA01AB1234",
		TextBody: "Name: A. Singh",
		HTMLBody: "<p>A. Singh</p>",
	}
}

func TestSenderHeaders(t *testing.T) {
	logger, _ := test.NewNullLogger()
	d := &recordingDialer{}
	s := newSender(d, Config{
		Username: "workshop@example.com",
		FromName: "Service Desk",
		To:       "feedback@example.com",
		Logger:   logger,
	})

	require.NoError(t, s.Send(context.Background(), testMessage()))
	require.Len(t, d.messages, 1)

	m := d.messages[0]
	assert.Equal(t, []string{"feedback@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"workshop@example.com"}, m.GetHeader("Reply-To"))
	assert.Equal(t, []string{"New Feedback from A. Singh - KA01AB1234"}, m.GetHeader("Subject"))
	require.Len(t, m.GetHeader("From"), 1)
	assert.Contains(t, m.GetHeader("From")[0], "workshop@example.com")
	assert.Contains(t, m.GetHeader("From")[0], "Service Desk")
}

func TestSenderDefaultsDestinationToAccount(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := newSender(&recordingDialer{}, Config{Username: "workshop@example.com", Logger: logger})

	assert.Equal(t, "workshop@example.com", s.to)
	assert.Equal(t, "workshop@example.com", s.replyTo)
	assert.Equal(t, "Workshop Feedback", s.fromName)
}

func TestSenderPropagatesRelayError(t *testing.T) {
	logger, _ := test.NewNullLogger()
	d := &recordingDialer{err: errors.New("535 5.7.8 authentication failed")}
	s := newSender(d, Config{Username: "workshop@example.com", Logger: logger})

	err := s.Send(context.Background(), testMessage())

	require.Error(t, err)
	assert.ErrorIs(t, err, d.err)
}

func TestSenderNotConfigured(t *testing.T) {
	logger, _ := test.NewNullLogger()
	d := &recordingDialer{}
	s := newSender(d, Config{Logger: logger})

	assert.Error(t, s.Send(context.Background(), testMessage()))
	assert.Empty(t, d.messages)
}

func TestSenderCancelledContext(t *testing.T) {
	logger, _ := test.NewNullLogger()
	d := &recordingDialer{}
	s := newSender(d, Config{Username: "workshop@example.com", Logger: logger})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Send(ctx, testMessage()), context.Canceled)
	assert.Empty(t, d.messages)
}

func TestSenderUnreachableRelay(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewSender(Config{Host: "127.0.0.1", Port: 1, Username: "workshop@example.com", Logger: logger})

	assert.Error(t, s.Send(context.Background(), testMessage()))
}

type smtpCapture struct {
	mu         sync.Mutex
	recipients []string
	data       string
}

// startTestSMTPServer accepts a single unauthenticated session and records
// the envelope recipients and the DATA section.
func startTestSMTPServer(t *testing.T) (host string, port int, capture *smtpCapture, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	capture = &smtpCapture{}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		r := bufio.NewReader(conn)
		fmt.Fprintf(conn, "220 localhost Test SMTP Service Ready\r\n")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				fmt.Fprintf(conn, "250-localhost Hello\r\n250 OK\r\n")
			case strings.HasPrefix(line, "RCPT TO:"):
				capture.mu.Lock()
				capture.recipients = append(capture.recipients, strings.TrimPrefix(line, "RCPT TO:"))
				capture.mu.Unlock()
				fmt.Fprintf(conn, "250 OK\r\n")
			case strings.HasPrefix(line, "DATA"):
				fmt.Fprintf(conn, "354 End data with <CR><LF>.<CR><LF>\r\n")
				var data strings.Builder
				for {
					dline, derr := r.ReadString('\n')
					if derr != nil || strings.TrimSpace(dline) == "." {
						break
					}
					data.WriteString(dline)
				}
				capture.mu.Lock()
				capture.data = data.String()
				capture.mu.Unlock()
				fmt.Fprintf(conn, "250 OK: queued as 12345\r\n")
			case strings.HasPrefix(line, "QUIT"):
				fmt.Fprintf(conn, "221 Bye\r\n")
				return
			default:
				fmt.Fprintf(conn, "250 OK\r\n")
			}
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	stop = func() {
		ln.Close()
		wg.Wait()
	}
	return "127.0.0.1", addr.Port, capture, stop
}

func TestSenderDeliversThroughRelay(t *testing.T) {
	host, port, capture, stop := startTestSMTPServer(t)

	logger, _ := test.NewNullLogger()
	s := NewSender(Config{
		Host:     host,
		Port:     port,
		Username: "workshop@example.com",
		To:       "feedback@example.com",
		Logger:   logger,
	})
	s.dialer.(*gomail.Dialer).Username = ""

	require.NoError(t, s.Send(context.Background(), testMessage()))
	stop()

	capture.mu.Lock()
	defer capture.mu.Unlock()
	require.Len(t, capture.recipients, 1)
	assert.Contains(t, capture.recipients[0], "feedback@example.com")
	assert.Contains(t, capture.data, "Subject: New Feedback from A. Singh - KA01AB1234")
}
