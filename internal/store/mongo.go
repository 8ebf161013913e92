package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"milkchess/internal/db"
	"milkchess/internal/models"
)

// MongoStore keeps analyses in the analyses collection. Expiry is handled by
// the TTL index on createdAt.
type MongoStore struct {
	db *db.MongoDB
}

func NewMongoStore(database *db.MongoDB) *MongoStore {
	return &MongoStore{db: database}
}

func (s *MongoStore) Get(ctx context.Context, position string) (*models.Analysis, error) {
	var analysis models.Analysis
	err := s.db.Analyses().FindOne(ctx, bson.M{"position": position}).Decode(&analysis)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find analysis: %w", err)
	}
	return &analysis, nil
}

func (s *MongoStore) Put(ctx context.Context, analysis *models.Analysis) error {
	update := bson.M{
		"$setOnInsert": bson.M{"_id": analysis.ID},
		"$set": bson.M{
			"fen":        analysis.FEN,
			"sideToMove": analysis.SideToMove,
			"state":      analysis.State,
			"inCheck":    analysis.InCheck,
			"isTerminal": analysis.IsTerminal,
			"drawReason": analysis.DrawReason,
			"moves":      analysis.Moves,
			"moveCount":  analysis.MoveCount,
			"createdAt":  analysis.CreatedAt,
		},
	}
	_, err := s.db.Analyses().UpdateOne(ctx, bson.M{"position": analysis.Position}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo upsert analysis: %w", err)
	}
	return nil
}

// Close is a no-op; the connection belongs to db.MongoDB.
func (s *MongoStore) Close() error {
	return nil
}
