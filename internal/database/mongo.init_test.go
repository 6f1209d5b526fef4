package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

type indexedModel struct {
	ID     string  `bson:"_id,omitempty"`
	Name   string  `bson:"name" index:"unique"`
	Rating float64 `bson:"rating,omitempty" index:"single;order:-1"`
	Year   int     `bson:"year" index:"single"`
	Notes  string  `bson:"notes"`
	Hidden string  `bson:"-" index:"single"`
}

func TestIndexSpecs(t *testing.T) {
	specs := IndexSpecs(&indexedModel{})
	assert.Equal(t, []IndexSpec{
		{Name: "name_unique", Field: "name", Order: 1, Unique: true},
		{Name: "rating_single", Field: "rating", Order: -1},
		{Name: "year_single", Field: "year", Order: 1},
	}, specs)
	assert.Equal(t, []string{"name"}, UniqueFields(indexedModel{}))
}

func TestSameIndex(t *testing.T) {
	spec := IndexSpec{Name: "rating_single", Field: "rating", Order: -1}

	assert.True(t, sameIndex(bson.M{"key": bson.M{"rating": int32(-1)}}, spec))
	assert.False(t, sameIndex(bson.M{"key": bson.M{"rating": int32(1)}}, spec))
	assert.False(t, sameIndex(bson.M{"key": bson.M{"rating": int32(-1)}, "unique": true}, spec))
	assert.False(t, sameIndex(bson.M{"key": bson.M{"rating": int32(-1), "year": int32(1)}}, spec))
	assert.False(t, sameIndex(bson.M{}, spec))
}
