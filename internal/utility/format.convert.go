package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Kevindaniel6700/movie-time/internal/common"
)

// DecodeObjectID chuyển chuỗi id từ client thành ObjectID.
// Chỉ chấp nhận chuỗi hex 24 ký tự, mọi input khác trả về lỗi InvalidIdentifier (400).
// @params - chuỗi id
// @returns - ObjectID, lỗi nếu sai định dạng
func DecodeObjectID(raw string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("%s: %s", common.MsgInvalidID, raw),
			common.StatusBadRequest,
			err,
		)
	}
	return oid, nil
}

// IsValidObjectID kiểm tra định dạng mà không trả lỗi.
// Dùng khi thiếu tham số là hợp lệ ("không lọc"), khác với tham số sai định dạng.
func IsValidObjectID(raw string) bool {
	return primitive.IsValidObjectID(raw)
}

// DecodeObjectIDs chuyển mảng chuỗi thành mảng ObjectID, dừng ở phần tử sai đầu tiên
func DecodeObjectIDs(raws []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raws))
	for _, raw := range raws {
		oid, err := DecodeObjectID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, oid)
	}
	return ids, nil
}

// ObjectID2String chuyển ObjectID thành chuỗi, NilObjectID thành chuỗi rỗng
func ObjectID2String(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

// UniqueObjectIDs loại bỏ id trùng, giữ thứ tự xuất hiện đầu tiên
func UniqueObjectIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	result := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
