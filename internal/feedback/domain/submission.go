package domain

import (
	"time"

	"github.com/sngm3741/workshop-feedback/api/internal/apperr"
)

// IncompleteDataMessage is returned when a required field is missing.
const IncompleteDataMessage = "Incomplete feedback data: name, vehicle, phone and answers are required"

// Submission is a persisted customer feedback record. It is never updated
// after creation.
type Submission struct {
	ID          string
	Reference   string
	Name        string
	Vehicle     string
	Phone       string
	Answers     []string
	SubmittedAt time.Time
}

// SubmissionInput is the candidate payload before validation.
type SubmissionInput struct {
	Name    string
	Vehicle string
	Phone   string
	Answers []string
}

// Validate checks presence only. Values are kept exactly as submitted and
// answers are not inspected individually.
func (in SubmissionInput) Validate() error {
	if in.Name == "" || in.Vehicle == "" || in.Phone == "" || len(in.Answers) == 0 {
		return apperr.Validation(IncompleteDataMessage)
	}
	return nil
}
