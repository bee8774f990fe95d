package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/workshop-feedback/api/internal/feedback/domain"
	mongodoc "github.com/sngm3741/workshop-feedback/api/internal/infrastructure/mongo"
)

type seedConfig struct {
	mongoURI   string
	database   string
	collection string
}

type seedOptions struct {
	envFile         string
	count           int
	days            int
	dropCollections bool
	randomSeed      int64
}

var (
	firstNames = []string{"Arjun", "Priya", "Rahul", "Sneha", "Vikram", "Anita", "Karan", "Meera", "Suresh", "Divya"}
	lastNames  = []string{"Singh", "Sharma", "Patel", "Reddy", "Iyer", "Nair", "Gupta", "Rao", "Das", "Khan"}
	stateCodes = []string{"KA", "MH", "TN", "DL", "KL", "TS", "GJ", "UP"}
	ratings    = []string{"Excellent", "Good", "Average", "Poor"}
	yesNo      = []string{"Yes", "No"}
	devices    = []string{"Tablet", "Laptop", "Paper"}
)

// yesNoQuestions are the zero-based positions answered with Yes/No.
var yesNoQuestions = map[int]bool{6: true, 7: true, 9: true, 12: true, 13: true, 16: true, 17: true}

const deviceQuestion = 10

func main() {
	opts := parseFlags()
	logger := logrus.New()

	cfg, err := loadSeedConfig(opts.envFile)
	if err != nil {
		logger.WithError(err).Fatal("seed configuration not loaded")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.mongoURI))
	if err != nil {
		logger.WithError(err).Fatal("MongoDB connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.database)
	if opts.dropCollections {
		if err := db.Collection(cfg.collection).Drop(ctx); err != nil {
			logger.WithError(err).Fatal("drop collection failed")
		}
		logger.Infof("dropped collection %s", cfg.collection)
	}

	repo := mongodoc.NewFeedbackRepository(db, cfg.collection, 10*time.Second)
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.WithError(err).Fatal("index creation failed")
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))
	now := time.Now().UTC()
	for _, submission := range generateSubmissions(rng, opts.count, opts.days, now) {
		submission := submission
		if err := repo.Create(ctx, &submission); err != nil {
			logger.WithError(err).Fatal("insert feedback failed")
		}
	}

	total, err := repo.Count(ctx)
	if err != nil {
		logger.WithError(err).Warn("count feedback failed")
	}
	logger.WithFields(logrus.Fields{
		"inserted": opts.count,
		"total":    total,
		"database": cfg.database,
		"seed":     opts.randomSeed,
	}).Info("seed complete")
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envFile, "env-file", "", "optional KEY=VALUE file; environment variables take precedence")
	flag.IntVar(&opts.count, "count", 25, "number of feedback submissions to generate")
	flag.IntVar(&opts.days, "days", 30, "spread submissions over this many past days")
	flag.BoolVar(&opts.dropCollections, "drop", false, "drop the feedback collection first")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "random seed for reproducible data")
	flag.Parse()

	if opts.count <= 0 {
		opts.count = 1
	}
	if opts.days <= 0 {
		opts.days = 1
	}
	return opts
}

func generateSubmissions(rng *rand.Rand, count, days int, now time.Time) []domain.Submission {
	submissions := make([]domain.Submission, 0, count)
	for i := 0; i < count; i++ {
		offset := time.Duration(rng.Int63n(int64(days) * int64(24*time.Hour)))
		submissions = append(submissions, domain.Submission{
			Reference:   uuid.NewString(),
			Name:        fmt.Sprintf("%s %s", pick(rng, firstNames), pick(rng, lastNames)),
			Vehicle:     randomPlate(rng),
			Phone:       fmt.Sprintf("9%09d", rng.Intn(1_000_000_000)),
			Answers:     randomAnswers(rng),
			SubmittedAt: now.Add(-offset),
		})
	}
	return submissions
}

// randomAnswers sometimes leaves trailing questions unanswered, the way
// partially filled forms arrive.
func randomAnswers(rng *rand.Rand) []string {
	answered := len(domain.Questions)
	if rng.Intn(4) == 0 {
		answered = 5 + rng.Intn(len(domain.Questions)-5)
	}
	answers := make([]string, 0, answered)
	for i := 0; i < answered; i++ {
		switch {
		case yesNoQuestions[i]:
			answers = append(answers, pick(rng, yesNo))
		case i == deviceQuestion:
			answers = append(answers, pick(rng, devices))
		default:
			answers = append(answers, pick(rng, ratings))
		}
	}
	return answers
}

func randomPlate(rng *rand.Rand) string {
	letters := string(rune('A'+rng.Intn(26))) + string(rune('A'+rng.Intn(26)))
	return fmt.Sprintf("%s%02d%s%04d", pick(rng, stateCodes), 1+rng.Intn(99), letters, rng.Intn(10000))
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

// loadSeedConfig reads the store settings from the environment and, when
// given, a dotenv-style file. Environment variables win over the file.
func loadSeedConfig(envFile string) (seedConfig, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "workshop")
	v.SetDefault("FEEDBACK_COLLECTION", "feedbacks")

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return seedConfig{}, fmt.Errorf("read env file %s: %w", envFile, err)
		}
	}

	return seedConfig{
		mongoURI:   strings.TrimSpace(v.GetString("MONGO_URI")),
		database:   strings.TrimSpace(v.GetString("MONGO_DB")),
		collection: strings.TrimSpace(v.GetString("FEEDBACK_COLLECTION")),
	}, nil
}
