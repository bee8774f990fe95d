// Package notification turns a stored submission into the mail sent to the
// workshop mailbox.
package notification

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/sngm3741/workshop-feedback/api/internal/feedback/domain"
)

// TimestampLayout is the human-readable submission time shown in mails.
const TimestampLayout = "02 Jan 2006, 03:04 PM MST"

//go:embed templates/feedback.html
var feedbackTemplate string

// Message is a rendered notification ready for delivery.
type Message struct {
	Subject  string
	HTMLBody string
	TextBody string
}

type templateData struct {
	Name        string
	Vehicle     string
	Phone       string
	Reference   string
	SubmittedAt string
	Rows        []domain.QuestionAnswer
}

// Renderer builds notification messages. It holds no mutable state.
type Renderer struct {
	location *time.Location
	tmpl     *template.Template
}

// NewRenderer parses the embedded template. A nil location means UTC.
func NewRenderer(location *time.Location) *Renderer {
	if location == nil {
		location = time.UTC
	}
	return &Renderer{
		location: location,
		tmpl:     template.Must(template.New("feedback").Parse(feedbackTemplate)),
	}
}

// Subject returns the mail subject for a submission.
func Subject(submission domain.Submission) string {
	return fmt.Sprintf("New Feedback from %s - %s", submission.Name, submission.Vehicle)
}

// Render pairs every question with its answer and formats both bodies.
func (r *Renderer) Render(submission domain.Submission) (Message, error) {
	data := templateData{
		Name:        submission.Name,
		Vehicle:     submission.Vehicle,
		Phone:       submission.Phone,
		Reference:   submission.Reference,
		SubmittedAt: r.formatTimestamp(submission.SubmittedAt),
		Rows:        domain.PairAnswers(submission.Answers),
	}

	var html bytes.Buffer
	if err := r.tmpl.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render feedback mail: %w", err)
	}

	return Message{
		Subject:  Subject(submission),
		HTMLBody: html.String(),
		TextBody: buildTextBody(data),
	}, nil
}

func (r *Renderer) formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(r.location).Format(TimestampLayout)
}

func buildTextBody(data templateData) string {
	var builder strings.Builder
	builder.WriteString("New Customer Feedback\n")
	builder.WriteString(fmt.Sprintf("Submitted on %s\n\n", data.SubmittedAt))
	builder.WriteString(fmt.Sprintf("Name: %s\n", data.Name))
	builder.WriteString(fmt.Sprintf("Vehicle: %s\n", data.Vehicle))
	builder.WriteString(fmt.Sprintf("Phone: %s\n", data.Phone))
	if data.Reference != "" {
		builder.WriteString(fmt.Sprintf("Reference: %s\n", data.Reference))
	}
	builder.WriteString("\n")
	for _, row := range data.Rows {
		builder.WriteString(fmt.Sprintf("%d. %s\n   %s\n", row.Number, row.Question, row.Answer))
	}
	return builder.String()
}
