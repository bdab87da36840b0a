package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureBackupIndexes indexes the backup collection for newest-first listing
// and per-device lookups during sync and retention.
func EnsureBackupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("app_backups").Indexes()

	createdAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	}
	deviceIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "deviceId", Value: 1}},
		Options: options.Index().SetName("deviceId_index"),
	}

	log.Println("EnsureBackupIndexes: creating backup indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{createdAtIndex, deviceIndex})
	if err != nil {
		log.Println("EnsureBackupIndexes: index error:", err)
		return err
	}
	return nil
}

// EnsureOrderIndexes indexes the cloud order collection for newest-first
// listing and the per-customer grouping the projection depends on.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	createdAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	}
	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "customerEmail", Value: 1}},
		Options: options.Index().SetName("customerEmail_index"),
	}

	log.Println("EnsureOrderIndexes: creating order indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{createdAtIndex, emailIndex})
	if err != nil {
		log.Println("EnsureOrderIndexes: index error:", err)
		return err
	}
	return nil
}

// EnsureProductIndexes indexes the cloud product collection for newest-first
// listing.
func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	createdAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	}

	log.Println("EnsureProductIndexes: creating product indexes")
	_, err := indexes.CreateOne(ctx, createdAtIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: index error:", err)
		return err
	}
	return nil
}
