package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SingleResult là kết quả của FindOne (*mongo.SingleResult thỏa mãn interface này)
type SingleResult interface {
	Decode(v interface{}) error
	Err() error
}

// Cursor là con trỏ duyệt kết quả Find (*mongo.Cursor thỏa mãn interface này)
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(v interface{}) error
	All(ctx context.Context, results interface{}) error
	Err() error
	Close(ctx context.Context) error
}

// Collection là interface tối thiểu của một collection document.
// Service chỉ làm việc qua interface này, nên có thể chạy trên MongoDB thật hoặc memstore trong test.
type Collection interface {
	Name() string
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	InsertOne(ctx context.Context, document interface{}) (interface{}, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

// MongoCollection bọc *mongo.Collection để thỏa mãn Collection
type MongoCollection struct {
	collection *mongo.Collection
}

// NewMongoCollection tạo adapter cho một collection MongoDB
func NewMongoCollection(collection *mongo.Collection) *MongoCollection {
	return &MongoCollection{collection: collection}
}

// Raw trả về collection gốc (dùng khi tạo index)
func (c *MongoCollection) Raw() *mongo.Collection {
	return c.collection
}

func (c *MongoCollection) Name() string {
	return c.collection.Name()
}

func (c *MongoCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) SingleResult {
	return c.collection.FindOne(ctx, filter, opts...)
}

func (c *MongoCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	cursor, err := c.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return cursor, nil
}

func (c *MongoCollection) InsertOne(ctx context.Context, document interface{}) (interface{}, error) {
	result, err := c.collection.InsertOne(ctx, document)
	if err != nil {
		return nil, err
	}
	return result.InsertedID, nil
}

func (c *MongoCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	result, err := c.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}

func (c *MongoCollection) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	result, err := c.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}

func (c *MongoCollection) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	result, err := c.collection.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (c *MongoCollection) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	result, err := c.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (c *MongoCollection) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.collection.CountDocuments(ctx, filter)
}
