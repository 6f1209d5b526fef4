// package basesvc cung cấp các service cơ bản cho việc tương tác với một collection document
package basesvc

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Kevindaniel6700/movie-time/internal/common"
	"github.com/Kevindaniel6700/movie-time/internal/database"
)

// UpdateData định nghĩa kiểu dữ liệu cho partial update
type UpdateData struct {
	Set      map[string]interface{} `bson:"$set,omitempty"`      // Các trường cần update
	Unset    map[string]interface{} `bson:"$unset,omitempty"`    // Các trường cần xóa
	AddToSet map[string]interface{} `bson:"$addToSet,omitempty"` // Các trường cần thêm vào set
	Pull     map[string]interface{} `bson:"$pull,omitempty"`     // Các phần tử cần gỡ khỏi mảng
}

// IsEmpty cho biết update không có thao tác nào
func (u *UpdateData) IsEmpty() bool {
	return len(u.Set) == 0 && len(u.Unset) == 0 && len(u.AddToSet) == 0 && len(u.Pull) == 0
}

// BaseServiceMongoImpl triển khai các thao tác cơ bản trên một collection, decode ra kiểu T.
// Mọi lỗi từ store đều được chuyển qua common.ConvertMongoError.
type BaseServiceMongoImpl[T any] struct {
	collection database.Collection
}

// NewBaseServiceMongo tạo mới một BaseServiceMongoImpl
func NewBaseServiceMongo[T any](collection database.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{
		collection: collection,
	}
}

// Collection trả về collection gốc (dùng khi cần query thô, ví dụ projection)
func (s *BaseServiceMongoImpl[T]) Collection() database.Collection {
	return s.collection
}

// InsertOne tạo mới một bản ghi rồi đọc lại document vừa tạo
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T

	insertedID, err := s.collection.InsertOne(ctx, data)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	var created T
	if err := s.collection.FindOne(ctx, bson.M{"_id": insertedID}).Decode(&created); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return created, nil
}

// FindOne tìm một document theo điều kiện lọc
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var zero T
	var result T

	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.FindOne()
	}

	findResult := s.collection.FindOne(ctx, filter, opts)
	if err := findResult.Err(); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	if err := findResult.Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.ErrNotFound
		}
		return zero, common.NewStoreError(err)
	}
	return result, nil
}

// Find tìm tất cả bản ghi theo điều kiện lọc, luôn trả về slice khác nil
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var results []T
	if err = cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

// FindOneById tìm document theo ObjectId, trả ErrNotFound nếu không có
func (s *BaseServiceMongoImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

// FindManyByIds tìm nhiều document theo danh sách ID bằng một truy vấn $in.
// id không tồn tại bị bỏ qua, danh sách rỗng không chạm tới store.
func (s *BaseServiceMongoImpl[T]) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// UpdateById cập nhật một document theo ObjectId (tự thêm updated_at) và trả về bản đã cập nhật
func (s *BaseServiceMongoImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, update UpdateData) (T, error) {
	var zero T
	filter := bson.M{"_id": id}

	if update.Set == nil {
		update.Set = make(map[string]interface{})
	}
	update.Set["updated_at"] = time.Now().UTC()

	matched, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	if matched == 0 {
		return zero, common.ErrNotFound
	}
	return s.FindOneById(ctx, id)
}

// UpdateMany cập nhật nhiều document, trả về số document khớp filter
func (s *BaseServiceMongoImpl[T]) UpdateMany(ctx context.Context, filter interface{}, update UpdateData) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	if update.IsEmpty() {
		return 0, nil
	}
	matched, err := s.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return matched, nil
}

// DeleteById xóa một document theo ObjectId
func (s *BaseServiceMongoImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if deleted == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CountDocuments đếm số document khớp filter
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}
