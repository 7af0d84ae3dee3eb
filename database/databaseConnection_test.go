package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongo.Connect does not dial until the first operation, so no server is
// needed to inspect collection wiring.
func lazyDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("exercisetracker_test")
}

func TestRepositoriesUseNamedCollections(t *testing.T) {
	db := lazyDatabase(t)

	coll := OpenCollection(db, UserCollection)
	assert.Equal(t, "users", coll.Name())
	assert.Equal(t, "exercisetracker_test", coll.Database().Name())

	assert.Equal(t, UserCollection, NewUserRepository(db).collection.Name())
	assert.Equal(t, ExerciseCollection, NewExerciseRepository(db).collection.Name())
}
