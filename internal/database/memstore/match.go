package memstore

import (
	"bytes"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// normalize đưa filter/update/document về bson.M qua một vòng Marshal/Unmarshal,
// để struct, bson.D và bson.M đều được so khớp như nhau
func normalize(v interface{}) (bson.M, error) {
	if v == nil {
		return bson.M{}, nil
	}
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("memstore: marshal: %w", err)
	}
	var raw bson.D
	if err := bson.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("memstore: unmarshal: %w", err)
	}
	return convert(raw).(bson.M), nil
}

// convert chuyển bson.D thành bson.M và bson.A thành []interface{}, luôn tạo container mới
func convert(v interface{}) interface{} {
	switch x := v.(type) {
	case bson.D:
		m := make(bson.M, len(x))
		for _, e := range x {
			m[e.Key] = convert(e.Value)
		}
		return m
	case bson.M:
		m := make(bson.M, len(x))
		for k, val := range x {
			m[k] = convert(val)
		}
		return m
	case bson.A:
		out := make([]interface{}, len(x))
		for i, val := range x {
			out[i] = convert(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, val := range x {
			out[i] = convert(val)
		}
		return out
	default:
		return v
	}
}

func cloneDocument(doc bson.M) bson.M {
	return convert(doc).(bson.M)
}

// lookup đọc field theo đường dẫn có dấu chấm ("a.b")
func lookup(doc bson.M, path string) (interface{}, bool) {
	var current interface{} = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(bson.M)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// compareValues so sánh hai giá trị cùng loại, ok=false nếu không so sánh được
func compareValues(a, b interface{}) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case primitive.ObjectID:
		if y, ok := b.(primitive.ObjectID); ok {
			return bytes.Compare(x[:], y[:]), true
		}
	case primitive.DateTime:
		if y, ok := b.(primitive.DateTime); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			}
			return 0, true
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, true
			case !x:
				return -1, true
			}
			return 1, true
		}
	}
	return 0, false
}

func equalValues(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if c, ok := compareValues(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// matchEquality là so khớp bằng ngầm định: field mảng khớp khi chứa giá trị
func matchEquality(value interface{}, exists bool, want interface{}) bool {
	if want == nil {
		return !exists || value == nil
	}
	if !exists {
		return false
	}
	if arr, ok := value.([]interface{}); ok {
		for _, item := range arr {
			if equalValues(item, want) {
				return true
			}
		}
	}
	return equalValues(value, want)
}

func isOperatorDocument(v interface{}) (bson.M, bool) {
	m, ok := v.(bson.M)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

// matchDocument đánh giá filter (đã normalize) trên một document
func matchDocument(doc bson.M, filter bson.M) (bool, error) {
	for key, cond := range filter {
		switch key {
		case "$or", "$and":
			clauses, ok := cond.([]interface{})
			if !ok {
				return false, fmt.Errorf("memstore: %s cần một mảng", key)
			}
			matched := key == "$and"
			for _, clause := range clauses {
				sub, ok := clause.(bson.M)
				if !ok {
					return false, fmt.Errorf("memstore: phần tử %s phải là document", key)
				}
				ok, err := matchDocument(doc, sub)
				if err != nil {
					return false, err
				}
				if key == "$or" && ok {
					matched = true
					break
				}
				if key == "$and" && !ok {
					matched = false
					break
				}
			}
			if !matched {
				return false, nil
			}
			continue
		}
		if strings.HasPrefix(key, "$") {
			return false, fmt.Errorf("%w: %s", ErrUnsupported, key)
		}

		value, exists := lookup(doc, key)
		ok, err := matchField(value, exists, cond)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matchField(value interface{}, exists bool, cond interface{}) (bool, error) {
	if re, ok := cond.(primitive.Regex); ok {
		return matchRegex(value, re.Pattern, re.Options)
	}
	ops, ok := isOperatorDocument(cond)
	if !ok {
		return matchEquality(value, exists, cond), nil
	}

	if pattern, ok := ops["$regex"]; ok {
		options, _ := ops["$options"].(string)
		switch p := pattern.(type) {
		case string:
			matched, err := matchRegex(value, p, options)
			if err != nil || !matched {
				return false, err
			}
		case primitive.Regex:
			if options == "" {
				options = p.Options
			}
			matched, err := matchRegex(value, p.Pattern, options)
			if err != nil || !matched {
				return false, err
			}
		default:
			return false, fmt.Errorf("memstore: $regex không hợp lệ")
		}
	}

	for op, arg := range ops {
		var ok bool
		switch op {
		case "$regex", "$options":
			continue
		case "$eq":
			ok = matchEquality(value, exists, arg)
		case "$ne":
			ok = !matchEquality(value, exists, arg)
		case "$in", "$nin":
			list, isList := arg.([]interface{})
			if !isList {
				return false, fmt.Errorf("memstore: %s cần một mảng", op)
			}
			for _, want := range list {
				if matchEquality(value, exists, want) {
					ok = true
					break
				}
			}
			if op == "$nin" {
				ok = !ok
			}
		case "$exists":
			want, _ := arg.(bool)
			if n, isNum := toFloat(arg); isNum {
				want = n != 0
			}
			ok = exists == want
		case "$gt", "$gte", "$lt", "$lte":
			ok = exists && matchCompare(value, op, arg)
		default:
			return false, fmt.Errorf("%w: %s", ErrUnsupported, op)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matchCompare(value interface{}, op string, arg interface{}) bool {
	if arr, ok := value.([]interface{}); ok {
		for _, item := range arr {
			if matchCompare(item, op, arg) {
				return true
			}
		}
		return false
	}
	c, ok := compareValues(value, arg)
	if !ok {
		return false
	}
	switch op {
	case "$gt":
		return c > 0
	case "$gte":
		return c >= 0
	case "$lt":
		return c < 0
	}
	return c <= 0
}

func matchRegex(value interface{}, pattern, options string) (bool, error) {
	flags := ""
	for _, o := range options {
		switch o {
		case 'i', 'm', 's':
			flags += string(o)
		}
	}
	if flags != "" {
		pattern = "(?" + flags + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("memstore: regex không hợp lệ: %w", err)
	}

	switch v := value.(type) {
	case string:
		return re.MatchString(v), nil
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && re.MatchString(s) {
				return true, nil
			}
		}
	}
	return false, nil
}
