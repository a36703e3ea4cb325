package response

import (
	"Folio/internal/service"
	stdjson "encoding/json"
	"errors"
	"io"
	log "log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// ErrorBody 错误响应体
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody 仅包含提示信息的响应体
type MessageBody struct {
	Message string `json:"message"`
}

var statusByKind = map[service.Kind]int{
	service.KindValidation:     http.StatusBadRequest,
	service.KindAuthentication: http.StatusUnauthorized,
	service.KindAuthorization:  http.StatusForbidden,
	service.KindNotFound:       http.StatusNotFound,
	service.KindConflict:       http.StatusConflict,
	service.KindUnexpected:     http.StatusInternalServerError,
}

// Success 200 返回资源本身
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 返回新建的资源
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 200 返回提示信息
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageBody{Message: msg})
}

// Fail 以指定状态码返回错误并中止后续处理
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, http.StatusBadRequest, validationMessage(ve))
		return
	}

	if isMalformedBody(err) {
		Fail(c, http.StatusBadRequest, "Malformed request body")
		return
	}

	kind := service.KindOf(err)
	if kind == service.KindUnexpected {
		log.ErrorContext(c.Request.Context(), "Unexpected error", "err", err, "path", c.FullPath())
		Fail(c, http.StatusInternalServerError, service.UnExpectedError.Message)
		return
	}
	Fail(c, statusByKind[kind], err.Error())
}

func validationMessage(ve validator.ValidationErrors) string {
	if len(ve) == 0 {
		return service.ErrParamInvalid.Message
	}
	first := ve[0]
	return "Field '" + first.Field() + "' failed on the '" + first.Tag() + "' rule"
}

// gin 默认使用标准库解码请求体，两种 json 实现的错误都要识别
func isMalformedBody(err error) bool {
	var (
		typeErr    *json.UnmarshalTypeError
		syntaxErr  *json.SyntaxError
		stdTypeErr *stdjson.UnmarshalTypeError
		stdSyntax  *stdjson.SyntaxError
		numErr     *strconv.NumError
	)
	return errors.As(err, &typeErr) || errors.As(err, &syntaxErr) ||
		errors.As(err, &stdTypeErr) || errors.As(err, &stdSyntax) ||
		errors.As(err, &numErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// BindError 请求参数绑定失败时统一返回 400
func BindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, http.StatusBadRequest, validationMessage(ve))
		return
	}
	var se *service.Error
	if errors.As(err, &se) {
		Fail(c, http.StatusBadRequest, se.Message)
		return
	}
	Fail(c, http.StatusBadRequest, "Malformed request body")
}
