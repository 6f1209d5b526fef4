package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	StatusOK      = 200 // Thành công
	StatusCreated = 201 // Tạo mới thành công

	StatusBadRequest = 400 // Yêu cầu không hợp lệ
	StatusNotFound   = 404 // Không tìm thấy tài nguyên
	StatusConflict   = 409 // Xung đột dữ liệu (trùng unique index)

	StatusInternalServerError = 500 // Lỗi server
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
)

// Response Messages
const (
	MsgSuccess       = "Operation completed successfully"
	MsgInternalError = "Internal server error"
	MsgInvalidID     = "Invalid ObjectId format"
	MsgNotFound      = "Resource not found"
	MsgDuplicate     = "Resource already exists"
	MsgValidation    = "Validation error"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: VAL_002)
	Category    string // Phân loại lỗi (ví dụ: Validation)
	SubCategory string // Phân loại con
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Lỗi hệ thống nội bộ",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Lỗi dữ liệu đầu vào",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Lỗi định dạng dữ liệu (ObjectID sai định dạng)",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Lỗi cơ sở dữ liệu chung",
	}

	ErrCodeNotFound = ErrorCode{
		Code:        "DB_003",
		Category:    "Database",
		SubCategory: "NotFound",
		Description: "Không tìm thấy document",
	}

	ErrCodeDuplicate = ErrorCode{
		Code:        "DB_004",
		Category:    "Database",
		SubCategory: "Duplicate",
		Description: "Vi phạm unique index",
	}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi (trả về cho client)
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm, chỉ ghi log
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Unwrap trả về lỗi gốc nếu Details là error
func (e *Error) Unwrap() error {
	if err, ok := e.Details.(error); ok {
		return err
	}
	return nil
}

// Is so sánh theo mã lỗi, để errors.Is(err, ErrNotFound) đúng kể cả khi message đã được tùy biến
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code.Code == t.Code.Code
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Custom errors
var (
	ErrInvalidID     = NewError(ErrCodeValidationFormat, MsgInvalidID, StatusBadRequest, nil)
	ErrInvalidInput  = NewError(ErrCodeValidationInput, MsgValidation, StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Missing required field", StatusBadRequest, nil)
	ErrNotFound      = NewError(ErrCodeNotFound, MsgNotFound, StatusNotFound, nil)
	ErrDuplicate     = NewError(ErrCodeDuplicate, MsgDuplicate, StatusConflict, nil)
	ErrStore         = NewError(ErrCodeDatabase, MsgInternalError, StatusInternalServerError, nil)
)

// NewNotFoundError tạo lỗi NotFound với message cụ thể cho entity
func NewNotFoundError(message string) error {
	return NewError(ErrCodeNotFound, message, StatusNotFound, nil)
}

// NewStoreError bọc lỗi driver thành StoreFailure, message trả về client luôn là message chung
func NewStoreError(err error) error {
	return NewError(ErrCodeDatabase, MsgInternalError, StatusInternalServerError, err)
}

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// Lỗi đã được chuẩn hóa thì giữ nguyên
	var customErr *Error
	if errors.As(err, &customErr) {
		return err
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return NewError(ErrCodeDuplicate, MsgDuplicate, StatusConflict, err)
	}
	return NewStoreError(err)
}

// StatusCodeOf trả về HTTP status tương ứng với lỗi (500 nếu không phải lỗi đã chuẩn hóa)
func StatusCodeOf(err error) int {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.StatusCode
	}
	return StatusInternalServerError
}
