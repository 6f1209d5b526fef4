//go:build integration

package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Kevindaniel6700/movie-time/config"
	"github.com/Kevindaniel6700/movie-time/internal/common"
)

type integrationGenre struct {
	Name string `bson:"name" index:"unique"`
	Year int    `bson:"year" index:"single;order:-1"`
}

// startMongo chạy một container mongo và trả về client đã kết nối
func startMongo(t *testing.T) *mongo.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	client, err := GetInstance(&config.Configuration{
		MongoDB_ConnectionURI: fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseInstance(client) })
	return client
}

func TestMongoCollectionAgainstRealServer(t *testing.T) {
	client := startMongo(t)
	ctx := context.Background()
	raw := client.Database("movie_explorer_it").Collection("genres")

	require.NoError(t, CreateIndexes(ctx, raw, integrationGenre{}))
	// Lần hai không tạo lại index đã đúng cấu hình
	require.NoError(t, CreateIndexes(ctx, raw, integrationGenre{}))

	col := NewMongoCollection(raw)
	assert.Equal(t, "genres", col.Name())

	_, err := col.InsertOne(ctx, integrationGenre{Name: "Drama", Year: 2000})
	require.NoError(t, err)
	_, err = col.InsertOne(ctx, integrationGenre{Name: "Drama", Year: 2001})
	assert.ErrorIs(t, common.ConvertMongoError(err), common.ErrDuplicate)

	matched, err := col.UpdateOne(ctx, bson.M{"name": "Drama"}, bson.M{"$set": bson.M{"year": 1999}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, matched)

	var doc integrationGenre
	require.NoError(t, col.FindOne(ctx, bson.M{"name": "Drama"}).Decode(&doc))
	assert.Equal(t, 1999, doc.Year)

	cursor, err := col.Find(ctx, bson.M{})
	require.NoError(t, err)
	var all []integrationGenre
	require.NoError(t, cursor.All(ctx, &all))
	assert.Len(t, all, 1)

	count, err := col.CountDocuments(ctx, bson.M{"year": bson.M{"$lt": 2000}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	deleted, err := col.DeleteOne(ctx, bson.M{"name": "Drama"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	err = col.FindOne(ctx, bson.M{"name": "Drama"}).Err()
	assert.ErrorIs(t, common.ConvertMongoError(err), common.ErrNotFound)
}
