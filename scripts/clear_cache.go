package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"milkchess/internal/config"
	"milkchess/internal/db"

	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	// Load config
	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.MongoDB.URI == "" {
		log.Fatalf("No MongoDB configured for %s", cfg.Environment)
	}

	// Connect to MongoDB
	mongodb, err := db.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.CacheTTL())
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongodb.Close(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Delete all cached analyses; indexes stay in place
	result, err := mongodb.Analyses().DeleteMany(ctx, bson.D{})
	if err != nil {
		log.Fatalf("Failed to delete analyses: %v", err)
	}
	fmt.Printf("Deleted %d cached analyses\n", result.DeletedCount)
}
