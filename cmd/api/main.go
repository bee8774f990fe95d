package main

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sngm3741/workshop-feedback/api/internal/config"
	"github.com/sngm3741/workshop-feedback/api/internal/logging"
	"github.com/sngm3741/workshop-feedback/api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.WithError(err).Fatal("MongoDB connection failed")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.WithError(err).Fatal("MongoDB ping failed")
	}
	logger.WithField("database", cfg.MongoDatabase).Info("MongoDB connected")

	app := server.New(cfg, client, logger)
	if err := app.Run(); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
