// Package memstore là một database.Collection chạy trong bộ nhớ.
// Hỗ trợ một tập con ngôn ngữ query/update của MongoDB đủ cho các service catalog,
// dùng trong unit test thay cho MongoDB thật.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Kevindaniel6700/movie-time/internal/database"
)

// Store lưu document dưới dạng bson.M đã chuẩn hóa, theo thứ tự insert
type Store struct {
	mu     sync.RWMutex
	name   string
	docs   []bson.M
	unique []string

	findCalls atomic.Int64
	opCalls   atomic.Int64

	errMu     sync.RWMutex
	findErr   error
	updateErr error
}

var _ database.Collection = (*Store)(nil)

// New tạo collection rỗng, uniqueFields là các field có unique index
func New(name string, uniqueFields ...string) *Store {
	return &Store{name: name, unique: uniqueFields}
}

// NewForModel tạo collection với unique index đọc từ struct tag `index` của model
func NewForModel(name string, model interface{}) *Store {
	return New(name, database.UniqueFields(model)...)
}

// FailFind làm mọi lời gọi Find/FindOne/CountDocuments trả lỗi err (nil để tắt)
func (s *Store) FailFind(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	s.findErr = err
}

// FailUpdate làm mọi lời gọi UpdateOne/UpdateMany trả lỗi err (nil để tắt)
func (s *Store) FailUpdate(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	s.updateErr = err
}

// FindCalls là số lần Find được gọi
func (s *Store) FindCalls() int64 {
	return s.findCalls.Load()
}

// OpCalls là tổng số lần gọi mọi thao tác
func (s *Store) OpCalls() int64 {
	return s.opCalls.Load()
}

// Len là số document hiện có
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *Store) Name() string {
	return s.name
}

func (s *Store) begin(ctx context.Context) error {
	s.opCalls.Add(1)
	return ctx.Err()
}

func (s *Store) failure(find bool) error {
	s.errMu.RLock()
	defer s.errMu.RUnlock()
	if find {
		return s.findErr
	}
	return s.updateErr
}

// matching trả về các document khớp filter, giữ thứ tự insert. Cần giữ lock khi gọi.
func (s *Store) matching(filter interface{}) ([]int, error) {
	f, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	indexes := []int{}
	for i, doc := range s.docs {
		ok, err := matchDocument(doc, f)
		if err != nil {
			return nil, err
		}
		if ok {
			indexes = append(indexes, i)
		}
	}
	return indexes, nil
}

func (s *Store) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) database.SingleResult {
	if err := s.begin(ctx); err != nil {
		return &singleResult{err: err}
	}
	if err := s.failure(true); err != nil {
		return &singleResult{err: err}
	}

	findOpts := options.Find().SetLimit(1)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.Sort != nil {
			findOpts.SetSort(opt.Sort)
		}
		if opt.Skip != nil {
			findOpts.SetSkip(*opt.Skip)
		}
	}

	docs, err := s.query(filter, findOpts)
	if err != nil {
		return &singleResult{err: err}
	}
	if len(docs) == 0 {
		return &singleResult{err: mongo.ErrNoDocuments}
	}
	return &singleResult{doc: docs[0]}
}

func (s *Store) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (database.Cursor, error) {
	s.findCalls.Add(1)
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	if err := s.failure(true); err != nil {
		return nil, err
	}

	merged := options.Find()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.Sort != nil {
			merged.SetSort(opt.Sort)
		}
		if opt.Limit != nil {
			merged.SetLimit(*opt.Limit)
		}
		if opt.Skip != nil {
			merged.SetSkip(*opt.Skip)
		}
	}

	docs, err := s.query(filter, merged)
	if err != nil {
		return nil, err
	}
	return &cursor{docs: docs, pos: -1}, nil
}

// query lọc, sắp xếp rồi cắt theo skip/limit
func (s *Store) query(filter interface{}, opts *options.FindOptions) ([]bson.M, error) {
	s.mu.RLock()
	indexes, err := s.matching(filter)
	docs := make([]bson.M, 0, len(indexes))
	for _, i := range indexes {
		docs = append(docs, s.docs[i])
	}
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if opts.Sort != nil {
		if err := sortDocuments(docs, opts.Sort); err != nil {
			return nil, err
		}
	}
	if opts.Skip != nil && *opts.Skip > 0 {
		skip := int(*opts.Skip)
		if skip > len(docs) {
			skip = len(docs)
		}
		docs = docs[skip:]
	}
	if opts.Limit != nil && *opts.Limit != 0 {
		limit := int(*opts.Limit)
		if limit < 0 {
			limit = -limit
		}
		if limit < len(docs) {
			docs = docs[:limit]
		}
	}
	return docs, nil
}

func (s *Store) InsertOne(ctx context.Context, document interface{}) (interface{}, error) {
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	doc, err := normalize(document)
	if err != nil {
		return nil, err
	}
	switch id := doc["_id"].(type) {
	case nil:
		doc["_id"] = primitive.NewObjectID()
	case primitive.ObjectID:
		if id.IsZero() {
			doc["_id"] = primitive.NewObjectID()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.docs {
		if equalValues(existing["_id"], doc["_id"]) {
			return nil, duplicateKeyError(s.name, "_id")
		}
	}
	if field, dup := s.violatesUnique(doc, -1); dup {
		return nil, duplicateKeyError(s.name, field)
	}

	s.docs = append(s.docs, doc)
	return doc["_id"], nil
}

// violatesUnique kiểm tra doc với các document khác (bỏ qua vị trí skip)
func (s *Store) violatesUnique(doc bson.M, skip int) (string, bool) {
	for _, field := range s.unique {
		value, ok := lookup(doc, field)
		if !ok {
			continue
		}
		for i, existing := range s.docs {
			if i == skip {
				continue
			}
			if other, ok := lookup(existing, field); ok && equalValues(value, other) {
				return field, true
			}
		}
	}
	return "", false
}

func (s *Store) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	return s.update(ctx, filter, update, false)
}

func (s *Store) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	return s.update(ctx, filter, update, true)
}

func (s *Store) update(ctx context.Context, filter interface{}, update interface{}, many bool) (int64, error) {
	if err := s.begin(ctx); err != nil {
		return 0, err
	}
	if err := s.failure(false); err != nil {
		return 0, err
	}
	u, err := normalize(update)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	indexes, err := s.matching(filter)
	if err != nil {
		return 0, err
	}
	if !many && len(indexes) > 1 {
		indexes = indexes[:1]
	}

	for _, i := range indexes {
		// Cập nhật trên bản sao rồi thay thế, cursor đang mở vẫn thấy bản cũ
		updated := cloneDocument(s.docs[i])
		if err := applyUpdate(updated, u); err != nil {
			return 0, err
		}
		if field, dup := s.violatesUnique(updated, i); dup {
			return 0, duplicateKeyError(s.name, field)
		}
		s.docs[i] = updated
	}
	return int64(len(indexes)), nil
}

func (s *Store) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	return s.delete(ctx, filter, false)
}

func (s *Store) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	return s.delete(ctx, filter, true)
}

func (s *Store) delete(ctx context.Context, filter interface{}, many bool) (int64, error) {
	if err := s.begin(ctx); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	indexes, err := s.matching(filter)
	if err != nil {
		return 0, err
	}
	if !many && len(indexes) > 1 {
		indexes = indexes[:1]
	}

	remove := make(map[int]struct{}, len(indexes))
	for _, i := range indexes {
		remove[i] = struct{}{}
	}
	kept := make([]bson.M, 0, len(s.docs)-len(indexes))
	for i, doc := range s.docs {
		if _, ok := remove[i]; !ok {
			kept = append(kept, doc)
		}
	}
	s.docs = kept
	return int64(len(indexes)), nil
}

func (s *Store) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	if err := s.begin(ctx); err != nil {
		return 0, err
	}
	if err := s.failure(true); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	indexes, err := s.matching(filter)
	if err != nil {
		return 0, err
	}
	return int64(len(indexes)), nil
}

// duplicateKeyError tạo lỗi giống driver trả về khi vi phạm unique index (code 11000)
func duplicateKeyError(collection, field string) error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{
			Index:   0,
			Code:    11000,
			Message: fmt.Sprintf("E11000 duplicate key error collection: %s index: %s_unique", collection, field),
		}},
	}
}

// ErrUnsupported được trả về khi filter/update dùng toán tử memstore chưa hỗ trợ
var ErrUnsupported = errors.New("memstore: unsupported operator")
