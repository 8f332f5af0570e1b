// Package database manages the MongoDB connection and collection handles.
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"hearth/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	UsersCollection      = "users"
	PropertiesCollection = "properties"
)

// Connect establishes the MongoDB connection, verifies it with a ping and
// bootstraps the indexes the data model relies on.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	if err := EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}

	log.Println("MongoDB connected successfully")
	return db, nil
}

// EnsureIndexes creates the indexes required by the data model. Email
// uniqueness is enforced here rather than by application-level checks alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}

	_, err = db.Collection(PropertiesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdBy", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create properties createdBy index: %w", err)
	}

	return nil
}

// Users returns the users collection handle.
func Users(db *mongo.Database) *mongo.Collection {
	return db.Collection(UsersCollection)
}

// Properties returns the properties collection handle.
func Properties(db *mongo.Database) *mongo.Collection {
	return db.Collection(PropertiesCollection)
}
