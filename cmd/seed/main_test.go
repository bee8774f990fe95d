package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/workshop-feedback/api/internal/feedback/domain"
)

func TestGenerateSubmissions(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	submissions := generateSubmissions(rand.New(rand.NewSource(42)), 50, 7, now)

	require.Len(t, submissions, 50)
	references := map[string]bool{}
	for _, s := range submissions {
		input := domain.SubmissionInput{Name: s.Name, Vehicle: s.Vehicle, Phone: s.Phone, Answers: s.Answers}
		assert.NoError(t, input.Validate())
		assert.LessOrEqual(t, len(s.Answers), len(domain.Questions))
		assert.GreaterOrEqual(t, len(s.Answers), 5)
		assert.False(t, s.SubmittedAt.After(now))
		assert.True(t, s.SubmittedAt.After(now.Add(-7*24*time.Hour)))
		assert.Len(t, s.Phone, 10)
		references[s.Reference] = true
	}
	assert.Len(t, references, 50)
}

func TestLoadSeedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.env")
	require.NoError(t, os.WriteFile(path, []byte("# local stack\nMONGO_DB=garage\nFEEDBACK_COLLECTION=\"feedback_seed\"\n"), 0o600))
	t.Setenv("MONGO_URI", "mongodb://mongo.internal:27017")
	t.Setenv("MONGO_DB", "")

	cfg, err := loadSeedConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mongodb://mongo.internal:27017", cfg.mongoURI)
	assert.Equal(t, "garage", cfg.database)
	assert.Equal(t, "feedback_seed", cfg.collection)
}

func TestLoadSeedConfigDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGO_DB", "")
	t.Setenv("FEEDBACK_COLLECTION", "")

	cfg, err := loadSeedConfig("")
	require.NoError(t, err)
	assert.Equal(t, seedConfig{mongoURI: "mongodb://localhost:27017", database: "workshop", collection: "feedbacks"}, cfg)
}

func TestLoadSeedConfigMissingFile(t *testing.T) {
	_, err := loadSeedConfig(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}
