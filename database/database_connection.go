package database

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

var (
	once         sync.Once
	dbClient     *mongo.Client
	databaseName string
	connectErr   error
)

// Connect establishes the shared client. Safe to call more than once;
// only the first call dials.
func Connect(uri, dbName string) (*mongo.Client, error) {
	once.Do(func() {
		serverAPI := options.ServerAPI(options.ServerAPIVersion1)
		opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
		client, err := mongo.Connect(opts)
		if err != nil {
			connectErr = err
			return
		}
		if err := client.Ping(context.Background(), readpref.Primary()); err != nil {
			connectErr = err
			return
		}
		dbClient = client
		databaseName = dbName
		logrus.WithField("database", dbName).Info("connected to MongoDB")
	})
	return dbClient, connectErr
}

func OpenCollection(collectionName string) *mongo.Collection {
	return dbClient.Database(databaseName).Collection(collectionName)
}

// EnsureIndexes creates the unique indexes the auth core relies on.
func EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	for _, spec := range []struct {
		collection string
		key        string
	}{
		{"users", "email"},
		{"roles", "name"},
		{"permissions", "name"},
		{"classes", "slug"},
	} {
		_, err := OpenCollection(spec.collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: spec.key, Value: 1}},
			Options: unique,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
