package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Kevindaniel6700/movie-time/internal/logger"
)

// IndexSpec mô tả một index đọc được từ struct tag `index`
type IndexSpec struct {
	Name   string
	Field  string
	Order  int
	Unique bool
}

// parseOrder trích xuất thứ tự sắp xếp từ tag (1 hoặc -1)
func parseOrder(tag string) int {
	if strings.Contains(tag, "order:-1") {
		return -1
	}
	return 1
}

// parseIndexTag tách tag index dạng "single;order:-1" hoặc "unique"
func parseIndexTag(tag string) map[string]string {
	entry := map[string]string{}
	for _, part := range strings.Split(tag, ";") {
		for _, subPart := range strings.Split(part, ",") {
			kv := strings.SplitN(subPart, ":", 2)
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else if kv[0] != "" {
				entry[kv[0]] = ""
			}
		}
	}
	return entry
}

// bsonFieldName lấy tên field trong bson tag (bỏ omitempty, ...)
func bsonFieldName(field reflect.StructField) string {
	name := strings.Split(field.Tag.Get("bson"), ",")[0]
	if name == "-" {
		return ""
	}
	return name
}

// IndexSpecs đọc các index khai báo trong model qua tag `index:"single"`, `index:"single;order:-1"`, `index:"unique"`
func IndexSpecs(model interface{}) []IndexSpec {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	specs := []IndexSpec{}
	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		name := bsonFieldName(field)
		if name == "" {
			continue
		}

		config := parseIndexTag(tag)
		if _, ok := config["unique"]; ok {
			specs = append(specs, IndexSpec{Name: name + "_unique", Field: name, Order: 1, Unique: true})
		}
		if _, ok := config["single"]; ok {
			specs = append(specs, IndexSpec{Name: name + "_single", Field: name, Order: parseOrder(tag)})
		}
	}
	return specs
}

// UniqueFields trả về các field có unique index trong model
func UniqueFields(model interface{}) []string {
	fields := []string{}
	for _, spec := range IndexSpecs(model) {
		if spec.Unique {
			fields = append(fields, spec.Field)
		}
	}
	return fields
}

// CreateIndexes tạo các index khai báo trong model cho collection.
// Index đã tồn tại với cùng tên và cấu hình thì bỏ qua, khác cấu hình thì xóa và tạo lại.
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	log := logger.WithCollection(collection.Name())

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("không thể lấy danh sách index: %w", err)
	}
	defer cursor.Close(ctx)

	existingIndexes := map[string]bson.M{}
	for cursor.Next(ctx) {
		var indexInfo bson.M
		if err := cursor.Decode(&indexInfo); err != nil {
			return fmt.Errorf("không thể giải mã thông tin index: %w", err)
		}
		if name, ok := indexInfo["name"].(string); ok {
			existingIndexes[name] = indexInfo
		}
	}

	for _, spec := range IndexSpecs(model) {
		if existing, ok := existingIndexes[spec.Name]; ok {
			if sameIndex(existing, spec) {
				log.WithField("index", spec.Name).Debug("Index đã tồn tại và đúng cấu hình, bỏ qua")
				continue
			}
			if _, err := collection.Indexes().DropOne(ctx, spec.Name); err != nil {
				return fmt.Errorf("không thể xóa index %s: %w", spec.Name, err)
			}
		}

		opts := options.Index().SetName(spec.Name)
		if spec.Unique {
			opts = opts.SetUnique(true)
		}
		if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: spec.Field, Value: spec.Order}},
			Options: opts,
		}); err != nil {
			return fmt.Errorf("không thể tạo index %s: %w", spec.Name, err)
		}
		log.WithField("index", spec.Name).Info("Đã tạo index")
	}
	return nil
}

// sameIndex so sánh index hiện có với spec (key, thứ tự, unique)
func sameIndex(existing bson.M, spec IndexSpec) bool {
	keys, ok := existing["key"].(bson.M)
	if !ok {
		return false
	}
	value, ok := keys[spec.Field]
	if !ok || len(keys) != 1 {
		return false
	}

	var order int
	switch v := value.(type) {
	case int32:
		order = int(v)
	case int64:
		order = int(v)
	case float64:
		order = int(v)
	default:
		return false
	}
	if order != spec.Order {
		return false
	}

	unique, _ := existing["unique"].(bool)
	return unique == spec.Unique
}
