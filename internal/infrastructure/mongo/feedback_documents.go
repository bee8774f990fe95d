package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sngm3741/workshop-feedback/api/internal/feedback/domain"
)

// FeedbackDocument represents one feedback record in the feedbacks collection.
type FeedbackDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Reference   string             `bson:"reference"`
	Name        string             `bson:"name"`
	Vehicle     string             `bson:"vehicle"`
	Phone       string             `bson:"phone"`
	Answers     []string           `bson:"answers"`
	SubmittedAt time.Time          `bson:"submittedAt"`
}

func newFeedbackDocument(submission domain.Submission) FeedbackDocument {
	answers := submission.Answers
	if answers == nil {
		answers = []string{}
	}
	return FeedbackDocument{
		Reference:   submission.Reference,
		Name:        submission.Name,
		Vehicle:     submission.Vehicle,
		Phone:       submission.Phone,
		Answers:     answers,
		SubmittedAt: submission.SubmittedAt,
	}
}

func mapFeedbackDocument(doc FeedbackDocument) domain.Submission {
	return domain.Submission{
		ID:          doc.ID.Hex(),
		Reference:   doc.Reference,
		Name:        doc.Name,
		Vehicle:     doc.Vehicle,
		Phone:       doc.Phone,
		Answers:     append([]string{}, doc.Answers...),
		SubmittedAt: doc.SubmittedAt,
	}
}
