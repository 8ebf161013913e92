package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	analysesCollection = "analyses"
	auditLogCollection = "audit_log"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database

	analysisTTL time.Duration
}

// NewMongoDB connects to MongoDB and ensures indexes in the background.
// Cached analyses expire analysisTTL after they were stored.
func NewMongoDB(uri, database string, analysisTTL time.Duration) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(100).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(5 * time.Minute)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := &MongoDB{
		Client:      client,
		Database:    client.Database(database),
		analysisTTL: analysisTTL,
	}

	// Create indexes in the background (non-blocking)
	go db.ensureIndexes()

	return db, nil
}

// ensureIndexes creates all required indexes. Called once on startup.
func (m *MongoDB) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	ttl := int32(m.analysisTTL / time.Second)
	if ttl <= 0 {
		ttl = 3600
	}

	indexes := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{
			analysesCollection,
			[]mongo.IndexModel{
				{Keys: bson.D{{Key: "position", Value: 1}}, Options: options.Index().SetUnique(true)},
				{Keys: bson.D{{Key: "createdAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(ttl)},
			},
		},
		{
			auditLogCollection,
			[]mongo.IndexModel{
				{Keys: bson.D{{Key: "createdAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(90 * 24 * 3600)}, // 90-day retention
				{Keys: bson.D{{Key: "client", Value: 1}, {Key: "createdAt", Value: -1}}},
			},
		},
	}

	for _, idx := range indexes {
		coll := m.Database.Collection(idx.collection)
		_, err := coll.Indexes().CreateMany(ctx, idx.models)
		if err != nil {
			log.Printf("Warning: failed to create indexes on %s: %v", idx.collection, err)
		}
	}

	log.Println("Database indexes ensured")
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

func (m *MongoDB) Analyses() *mongo.Collection {
	return m.Database.Collection(analysesCollection)
}

func (m *MongoDB) AuditLog() *mongo.Collection {
	return m.Database.Collection(auditLogCollection)
}
