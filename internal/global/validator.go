package global

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Kevindaniel6700/movie-time/internal/common"
)

var validatorOnce sync.Once

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()

	// Dùng tên json trong message lỗi để khớp với body client gửi lên
	Validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	_ = Validate.RegisterValidation("objectid", validateObjectID)
	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
}

// validateObjectID kiểm tra chuỗi (hoặc phần tử của dive) là ObjectID hex 24 ký tự
func validateObjectID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}

// validateNoXSS kiểm tra XSS
func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"<iframe",
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// ValidateStruct chạy validator trên DTO và chuyển lỗi sang ErrInvalidInput (400).
// Message liệt kê field và rule bị vi phạm, ví dụ "Validation error: title (required)".
func ValidateStruct(input interface{}) error {
	validatorOnce.Do(func() {
		if Validate == nil {
			InitValidator()
		}
	})
	err := Validate.Struct(input)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidation, common.StatusBadRequest, err)
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return common.NewError(
		common.ErrCodeValidationInput,
		fmt.Sprintf("%s: %s", common.MsgValidation, strings.Join(fields, ", ")),
		common.StatusBadRequest,
		err,
	)
}
