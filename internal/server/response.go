package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody はエラー応答の形なのだ。
// リクエストIDは X-Request-ID ヘッダーで返すのだ。
type ErrorBody struct {
	Error string `json:"error"`
}

// StorySummary は GET /api/stories の1件分なのだ。
type StorySummary struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Pages int    `json:"pages"`
}

// ImportSummary は取り込み成功時の応答なのだ。
type ImportSummary struct {
	Title string `json:"title"`
	Pages int    `json:"pages"`
}

func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

func badRequest(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func notFound(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, message)
}

func conflict(c *gin.Context, message string) {
	errorResponse(c, http.StatusConflict, message)
}

func tooManyRequests(c *gin.Context) {
	errorResponse(c, http.StatusTooManyRequests, "too many export requests")
}

func internalError(c *gin.Context, message string) {
	errorResponse(c, http.StatusInternalServerError, message)
}

// attachment はファイルとしてダウンロードさせるのだ。
func attachment(c *gin.Context, contentType, fileName string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, contentType, data)
}
