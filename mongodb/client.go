package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"rapid-steno/crm-sync/config"
	"rapid-steno/crm-sync/logger"
)

// Source is a handle on the registration system's users collection. It is
// read-only from the sync's point of view and owns the underlying client:
// open it once per run and release it with Close on the way out.
type Source struct {
	client     *mongo.Client
	database   string
	collection string
}

func Connect(cfg *config.Config) (*Source, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		logger.Get().Error("failed to connect to MongoDB", zap.Error(err))
		return nil, fmt.Errorf("error connecting to MongoDB: %v", err)
	}

	logger.Get().Info("connected to MongoDB",
		zap.String("database", cfg.MongoDatabase),
		zap.String("collection", cfg.MongoCollection))

	return &Source{
		client:     client,
		database:   cfg.MongoDatabase,
		collection: cfg.MongoCollection,
	}, nil
}

// Close disconnects the client. Safe to defer alongside a change stream:
// the stream must be closed first, which Watch does before returning.
func (s *Source) Close(ctx context.Context) {
	if err := s.client.Disconnect(ctx); err != nil {
		logger.Get().Error("failed to disconnect from MongoDB", zap.Error(err))
		return
	}
	logger.Get().Info("disconnected from MongoDB")
}

func (s *Source) users() *mongo.Collection {
	return s.client.Database(s.database).Collection(s.collection)
}
