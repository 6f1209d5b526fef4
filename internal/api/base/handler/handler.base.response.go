// Package basehdl chứa phần dùng chung của các handler: envelope response, recover panic, parse body.
package basehdl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"

	"github.com/Kevindaniel6700/movie-time/internal/common"
	"github.com/Kevindaniel6700/movie-time/internal/logger"
)

// Response là envelope chung cho mọi API: {success, message, data}
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// BaseHandler được embed vào các handler domain
type BaseHandler struct{}

// JSONResponse trả về JSON với Content-Type: application/json; charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// SafeHandler bọc handler với recover, panic được ghi log kèm stack trace và trả về 500.
func (h *BaseHandler) SafeHandler(c fiber.Ctx, handler func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithField("stack", string(debug.Stack())).
				Errorf("Panic trong handler: %v", r)
			err = h.HandleResponse(c, common.StatusOK, "", nil, common.NewError(
				common.ErrCodeInternalServer,
				common.MsgInternalError,
				common.StatusInternalServerError,
				fmt.Sprintf("%v", r),
			))
		}
	}()
	return handler()
}

// HandleResponse chuẩn hóa response trả về client.
// Lỗi đã chuẩn hóa (*common.Error) trả status và message của nó.
// Lỗi khác và mọi lỗi 5xx chỉ trả message chung, chi tiết được ghi log.
func (h *BaseHandler) HandleResponse(c fiber.Ctx, statusCode int, message string, data interface{}, err error) error {
	if err != nil {
		status := common.StatusCodeOf(err)
		msg := common.MsgInternalError

		var customErr *common.Error
		if errors.As(err, &customErr) && status < common.StatusInternalServerError {
			msg = customErr.Message
		}
		if status >= common.StatusInternalServerError {
			entry := logger.WithRequest(c).WithField("status", status)
			if customErr != nil {
				entry = entry.WithField("code", customErr.Code.Code).WithField("details", fmt.Sprintf("%v", customErr.Details))
			}
			entry.WithError(err).Error("Request thất bại")
		}

		return JSONResponse(c, status, Response{Success: false, Message: msg, Data: nil})
	}

	if message == "" {
		message = common.MsgSuccess
	}
	return JSONResponse(c, statusCode, Response{Success: true, Message: message, Data: data})
}

// ParseRequestBody parse JSON body vào input. Body sai định dạng trả về lỗi 400.
// Validate chi tiết được làm ở tầng service.
func (h *BaseHandler) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	if err := decoder.Decode(input); err != nil {
		return common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Request body is not valid JSON: %v", err),
			common.StatusBadRequest,
			err,
		)
	}
	return nil
}
