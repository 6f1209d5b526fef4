package basesvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Kevindaniel6700/movie-time/internal/common"
	"github.com/Kevindaniel6700/movie-time/internal/database/memstore"
)

type label struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name" index:"unique"`
	Tags      []string           `bson:"tags"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty"`
}

func newLabelService() (*BaseServiceMongoImpl[label], *memstore.Store) {
	store := memstore.NewForModel("labels", label{})
	return NewBaseServiceMongo[label](store), store
}

func TestInsertAndFind(t *testing.T) {
	svc, _ := newLabelService()
	ctx := context.Background()

	created, err := svc.InsertOne(ctx, label{Name: "drama"})
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())

	got, err := svc.FindOneById(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "drama", got.Name)

	_, err = svc.FindOneById(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.InsertOne(ctx, label{Name: "drama"})
	assert.ErrorIs(t, err, common.ErrDuplicate)
	assert.Equal(t, common.StatusConflict, common.StatusCodeOf(err))
}

func TestFindReturnsEmptySlice(t *testing.T) {
	svc, store := newLabelService()
	out, err := svc.Find(context.Background(), bson.M{"name": "none"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	out, err = svc.FindManyByIds(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.EqualValues(t, 1, store.FindCalls(), "danh sách id rỗng không truy vấn store")
}

func TestFindManyByIdsSkipsMissing(t *testing.T) {
	svc, _ := newLabelService()
	ctx := context.Background()
	a, err := svc.InsertOne(ctx, label{Name: "a"})
	require.NoError(t, err)

	out, err := svc.FindManyByIds(ctx, []primitive.ObjectID{a.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].Name)
}

func TestUpdateAndDeleteById(t *testing.T) {
	svc, _ := newLabelService()
	ctx := context.Background()
	created, err := svc.InsertOne(ctx, label{Name: "a"})
	require.NoError(t, err)

	updated, err := svc.UpdateById(ctx, created.ID, UpdateData{
		Set:      map[string]interface{}{"name": "b"},
		AddToSet: map[string]interface{}{"tags": "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "b", updated.Name)
	assert.Equal(t, []string{"x"}, updated.Tags)
	assert.False(t, updated.UpdatedAt.IsZero())

	_, err = svc.UpdateById(ctx, primitive.NewObjectID(), UpdateData{Set: map[string]interface{}{"name": "c"}})
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, svc.DeleteById(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteById(ctx, created.ID), common.ErrNotFound)
}

func TestStoreFailureIsGeneric(t *testing.T) {
	svc, store := newLabelService()
	store.FailFind(errors.New("socket closed on 10.0.0.7"))

	_, err := svc.Find(context.Background(), bson.M{}, options.Find())
	assert.ErrorIs(t, err, common.ErrStore)
	assert.Equal(t, common.MsgInternalError, err.Error())

	_, err = svc.FindOneById(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, common.ErrStore)
}
