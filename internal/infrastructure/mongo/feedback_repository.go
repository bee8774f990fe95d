package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/workshop-feedback/api/internal/feedback/domain"
)

const defaultWriteTimeout = 5 * time.Second

// ErrFeedbackNotFound is returned by FindByID when no document matches.
var ErrFeedbackNotFound = errors.New("feedback not found")

// FeedbackRepository stores feedback in MongoDB. It creates records only and
// never updates or deletes them.
type FeedbackRepository struct {
	feedbacks *mongo.Collection
	timeout   time.Duration
}

// NewFeedbackRepository binds the repository to a collection. A non-positive
// timeout falls back to five seconds per operation.
func NewFeedbackRepository(db *mongo.Database, collection string, timeout time.Duration) *FeedbackRepository {
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	return &FeedbackRepository{
		feedbacks: db.Collection(collection),
		timeout:   timeout,
	}
}

// Create inserts the submission and stores the generated ID on it.
func (r *FeedbackRepository) Create(ctx context.Context, submission *domain.Submission) error {
	if submission == nil {
		return errors.New("submission is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.feedbacks.InsertOne(ctx, newFeedbackDocument(*submission))
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert feedback: unexpected id type %T", res.InsertedID)
	}
	submission.ID = id.Hex()
	return nil
}

// FindByID loads one submission by its hex ObjectID.
func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (*domain.Submission, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("invalid feedback id %q: %w", id, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc FeedbackDocument
	err = r.feedbacks.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find feedback: %w", err)
	}

	submission := mapFeedbackDocument(doc)
	return &submission, nil
}

// Count returns the number of stored submissions.
func (r *FeedbackRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.feedbacks.CountDocuments(ctx, bson.D{})
}

// EnsureIndexes creates the unique reference index and the descending
// submittedAt index.
func (r *FeedbackRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.feedbacks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("reference_unique"),
		},
		{
			Keys:    bson.D{{Key: "submittedAt", Value: -1}},
			Options: options.Index().SetName("submitted_at_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("create feedback indexes: %w", err)
	}
	return nil
}
