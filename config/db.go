package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

// ConnectDB dials Mongo and verifies the connection with a ping. The
// properties collection needs a 2dsphere index on location for $near
// queries, which is ensured here at startup.
func ConnectDB(cfg *Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	db := &DB{
		client:   client,
		database: client.Database(cfg.MongoDB),
	}

	if err := db.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

func (db *DB) ensureIndexes(ctx context.Context) error {
	properties := db.database.Collection("properties")
	_, err := properties.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	})
	if err != nil {
		return err
	}

	likes := db.database.Collection("likes")
	_, err = likes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "property", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (db *DB) GetCollection(name string) *mongo.Collection {
	return db.database.Collection(name)
}

func (db *DB) Disconnect(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}
