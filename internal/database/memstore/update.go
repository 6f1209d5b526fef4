package memstore

import (
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// applyUpdate áp dụng $set, $unset, $addToSet, $pull lên doc (doc đã là bản sao)
func applyUpdate(doc bson.M, update bson.M) error {
	if len(update) == 0 {
		return fmt.Errorf("memstore: update rỗng")
	}
	for op, arg := range update {
		fields, ok := arg.(bson.M)
		if !ok {
			return fmt.Errorf("memstore: %s cần một document (replacement không được hỗ trợ)", op)
		}
		for path, value := range fields {
			var err error
			switch op {
			case "$set":
				err = setPath(doc, path, value)
			case "$unset":
				unsetPath(doc, path)
			case "$addToSet":
				err = addToSet(doc, path, value)
			case "$pull":
				err = pull(doc, path, value)
			default:
				return fmt.Errorf("%w: %s", ErrUnsupported, op)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func setPath(doc bson.M, path string, value interface{}) error {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok || next == nil {
			child := bson.M{}
			current[part] = child
			current = child
			continue
		}
		child, ok := next.(bson.M)
		if !ok {
			return fmt.Errorf("memstore: không thể set %s qua field không phải document", path)
		}
		current = child
	}
	current[parts[len(parts)-1]] = value
	return nil
}

func unsetPath(doc bson.M, path string) {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		child, ok := current[part].(bson.M)
		if !ok {
			return
		}
		current = child
	}
	delete(current, parts[len(parts)-1])
}

func arrayAt(doc bson.M, path, op string) ([]interface{}, error) {
	value, ok := lookup(doc, path)
	if !ok || value == nil {
		return []interface{}{}, nil
	}
	arr, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("memstore: không thể áp dụng %s cho field không phải mảng %s", op, path)
	}
	return arr, nil
}

func addToSet(doc bson.M, path string, value interface{}) error {
	arr, err := arrayAt(doc, path, "$addToSet")
	if err != nil {
		return err
	}

	items := []interface{}{value}
	if ops, ok := value.(bson.M); ok {
		if each, ok := ops["$each"]; ok {
			list, ok := each.([]interface{})
			if !ok {
				return fmt.Errorf("memstore: $each cần một mảng")
			}
			items = list
		}
	}

	for _, item := range items {
		exists := false
		for _, current := range arr {
			if equalValues(current, item) {
				exists = true
				break
			}
		}
		if !exists {
			arr = append(arr, item)
		}
	}
	return setPath(doc, path, arr)
}

func pull(doc bson.M, path string, value interface{}) error {
	existing, ok := lookup(doc, path)
	if !ok || existing == nil {
		return nil
	}
	arr, err := arrayAt(doc, path, "$pull")
	if err != nil {
		return err
	}

	targets := []interface{}{value}
	if ops, ok := value.(bson.M); ok {
		if in, ok := ops["$in"]; ok {
			list, ok := in.([]interface{})
			if !ok {
				return fmt.Errorf("memstore: $in cần một mảng")
			}
			targets = list
		}
	}

	kept := make([]interface{}, 0, len(arr))
	for _, current := range arr {
		remove := false
		for _, target := range targets {
			if equalValues(current, target) {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, current)
		}
	}
	return setPath(doc, path, kept)
}

// sortDocuments sắp xếp ổn định theo spec dạng bson.D/bson.M ({field: 1|-1})
func sortDocuments(docs []bson.M, spec interface{}) error {
	data, err := bson.Marshal(spec)
	if err != nil {
		return fmt.Errorf("memstore: sort không hợp lệ: %w", err)
	}
	var keys bson.D
	if err := bson.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("memstore: sort không hợp lệ: %w", err)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		for _, key := range keys {
			direction, _ := toFloat(key.Value)
			a, aok := lookup(docs[i], key.Key)
			b, bok := lookup(docs[j], key.Key)

			c := 0
			switch {
			case !aok && !bok:
			case !aok:
				c = -1
			case !bok:
				c = 1
			default:
				c, _ = compareValues(a, b)
			}
			if c == 0 {
				continue
			}
			if direction < 0 {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return nil
}
