package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sngm3741/workshop-feedback/api/internal/apperr"
	"github.com/sngm3741/workshop-feedback/api/internal/feedback/domain"
	"github.com/sngm3741/workshop-feedback/api/internal/feedback/notification"
)

const (
	// SuccessMessage is returned when the record is saved and the mail is sent.
	SuccessMessage = "Feedback saved and email sent successfully"
	// SaveFailedMessage is returned when the store rejects the write.
	SaveFailedMessage = "Failed to save feedback"
	// MailFailedMessage is returned when the record is saved but delivery failed.
	MailFailedMessage = "Feedback saved but email sending failed"
)

// Outcome labels used for submission metrics.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeStoreError  = "store_error"
	OutcomeNotifyError = "notify_error"
)

// FeedbackRepository persists submissions. Records are create-only.
type FeedbackRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
}

// MessageRenderer formats a submission for the workshop mailbox.
type MessageRenderer interface {
	Render(submission domain.Submission) (notification.Message, error)
}

// Notifier delivers a rendered message to the workshop mailbox.
type Notifier interface {
	Send(ctx context.Context, msg notification.Message) error
}

// OutcomeRecorder counts pipeline outcomes.
type OutcomeRecorder interface {
	ObserveSubmission(outcome string)
}

// FeedbackCommandService handles feedback submissions.
type FeedbackCommandService interface {
	Submit(ctx context.Context, input domain.SubmissionInput) (*domain.Submission, error)
}

// Deps lists the collaborators of the command service.
type Deps struct {
	Repository FeedbackRepository
	Renderer   MessageRenderer
	Notifier   Notifier
	Outcomes   OutcomeRecorder
	Logger     logrus.FieldLogger
	Now        func() time.Time
}

// NewFeedbackCommandService wires the submission pipeline.
func NewFeedbackCommandService(deps Deps) FeedbackCommandService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &feedbackCommandService{deps: deps}
}

type feedbackCommandService struct {
	deps Deps
}

// Submit validates, persists, renders and notifies in that order. A failed
// store write stops the pipeline; a failed notification leaves the record in
// place and is reported as a notification error.
func (s *feedbackCommandService) Submit(ctx context.Context, input domain.SubmissionInput) (*domain.Submission, error) {
	if err := input.Validate(); err != nil {
		s.observe(OutcomeInvalid)
		return nil, err
	}

	submission := &domain.Submission{
		Reference:   uuid.NewString(),
		Name:        input.Name,
		Vehicle:     input.Vehicle,
		Phone:       input.Phone,
		Answers:     append([]string{}, input.Answers...),
		SubmittedAt: s.deps.Now().UTC(),
	}

	if err := s.deps.Repository.Create(ctx, submission); err != nil {
		s.observe(OutcomeStoreError)
		return nil, apperr.Internal(SaveFailedMessage, err)
	}

	logger := s.deps.Logger.WithFields(logrus.Fields{
		"feedbackId": submission.ID,
		"reference":  submission.Reference,
	})
	logger.Info("feedback saved")

	msg, err := s.deps.Renderer.Render(*submission)
	if err != nil {
		s.observe(OutcomeNotifyError)
		return submission, apperr.Notification(MailFailedMessage, err)
	}

	if err := s.deps.Notifier.Send(ctx, msg); err != nil {
		logger.WithError(err).Warn("feedback mail not delivered")
		s.observe(OutcomeNotifyError)
		return submission, apperr.Notification(MailFailedMessage, err)
	}

	s.observe(OutcomeOK)
	return submission, nil
}

func (s *feedbackCommandService) observe(outcome string) {
	if s.deps.Outcomes != nil {
		s.deps.Outcomes.ObserveSubmission(outcome)
	}
}
