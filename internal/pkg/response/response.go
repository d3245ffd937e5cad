package response

import (
	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	UnprocessableEntity = 422
	InternalServerError = 500
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装，业务码落在 HTTP 状态码区间时同时作为响应状态
func Fail(c *gin.Context, businessCode int, message string) {
	status := http.StatusOK
	if businessCode >= 400 && businessCode < 600 {
		status = businessCode
	}
	c.JSON(status, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// FailValidation 422 返回，携带字段级错误信息
func FailValidation(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, dto.Response{
		Code:    UnprocessableEntity,
		Message: "参数校验失败",
		Data:    gin.H{"errors": fields},
	})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = "校验失败，规则 [" + fe.Tag() + "]"
		}
		FailValidation(c, fields)
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, BadRequest, "Json错误")
		return
	}

	code, ok := service.ErrorMap[err]
	if !ok {
		code = InternalServerError
		log.Error("Error", "err", err)
	}
	Fail(c, code, err.Error())
}
