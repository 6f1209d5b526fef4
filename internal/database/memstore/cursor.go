package memstore

import (
	"context"
	"errors"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

// decodeDocument giải mã document vào v giống driver (Marshal rồi Unmarshal)
func decodeDocument(doc bson.M, v interface{}) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, v)
}

type singleResult struct {
	doc bson.M
	err error
}

func (r *singleResult) Decode(v interface{}) error {
	if r.err != nil {
		return r.err
	}
	return decodeDocument(r.doc, v)
}

func (r *singleResult) Err() error {
	return r.err
}

// cursor duyệt một snapshot các document, không thấy thay đổi sau khi Find trả về
type cursor struct {
	docs   []bson.M
	pos    int
	closed bool
}

func (c *cursor) Next(ctx context.Context) bool {
	if c.closed || ctx.Err() != nil {
		return false
	}
	if c.pos+1 >= len(c.docs) {
		return false
	}
	c.pos++
	return true
}

func (c *cursor) Decode(v interface{}) error {
	if c.pos < 0 || c.pos >= len(c.docs) {
		return errors.New("memstore: cursor chưa trỏ vào document nào")
	}
	return decodeDocument(c.docs[c.pos], v)
}

// All giải mã các document còn lại vào results (con trỏ tới slice) rồi đóng cursor
func (c *cursor) All(ctx context.Context, results interface{}) error {
	defer c.Close(ctx)

	rv := reflect.ValueOf(results)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return errors.New("memstore: results phải là con trỏ tới slice")
	}
	slice := rv.Elem()
	out := reflect.MakeSlice(slice.Type(), 0, len(c.docs))
	for c.Next(ctx) {
		elem := reflect.New(slice.Type().Elem())
		if err := c.Decode(elem.Interface()); err != nil {
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}
	slice.Set(out)
	return ctx.Err()
}

func (c *cursor) Err() error {
	return nil
}

func (c *cursor) Close(ctx context.Context) error {
	c.closed = true
	return nil
}
