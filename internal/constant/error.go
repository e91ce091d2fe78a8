package constant

import (
	"errors"
	"net/http"

	"github.com/yockii/md2docx/pkg/docgen"
)

// 自定义错误
var (
	// 通用错误
	ErrInternalError    = errors.New("内部错误")
	ErrInvalidParams    = errors.New("参数错误")
	ErrUnauthorized     = errors.New("未授权")
	ErrDatabaseError    = errors.New("数据库错误")
	ErrRecordNotFound   = errors.New("记录不存在")
	ErrRecordIDEmpty    = errors.New("ID不能为空")
	ErrSerializeError   = errors.New("序列化错误")
	ErrDeserializeError = errors.New("反序列化错误")
	ErrCacheError       = errors.New("缓存错误")
	ErrTooManyRequests  = errors.New("请求过于频繁")

	// 文档转换错误
	ErrEmptyMarkdown    = errors.New("markdown内容不能为空")
	ErrMarkdownTooLarge = errors.New("markdown内容过大")
	ErrInvalidColor     = errors.New("颜色必须为6位十六进制")
)

var errorCodes = []struct {
	err  error
	code int
}{
	{ErrInvalidParams, http.StatusBadRequest},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrRecordNotFound, http.StatusNotFound},
	{ErrRecordIDEmpty, http.StatusBadRequest},
	{ErrTooManyRequests, http.StatusTooManyRequests},
	{ErrEmptyMarkdown, http.StatusBadRequest},
	{ErrMarkdownTooLarge, http.StatusRequestEntityTooLarge},
	{ErrInvalidColor, http.StatusBadRequest},
	{ErrDeserializeError, http.StatusBadRequest},
	{ErrInternalError, http.StatusInternalServerError},
	{ErrDatabaseError, http.StatusInternalServerError},
	{ErrSerializeError, http.StatusInternalServerError},
	{ErrCacheError, http.StatusInternalServerError},
	{docgen.ErrSerialize, http.StatusInternalServerError},
	{docgen.ErrUnknownBlock, http.StatusInternalServerError},
}

// 获取错误对应的HTTP状态码，包装过的错误按errors.Is匹配
func GetErrorCode(err error) int {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return http.StatusInternalServerError
}
