package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/shouni/go-picturebook-kit/pkg/asset"
	"github.com/shouni/go-picturebook-kit/pkg/intake"
	"github.com/shouni/go-picturebook-kit/pkg/parser"
	"github.com/shouni/go-picturebook-kit/pkg/publisher"
	"github.com/shouni/go-picturebook-kit/pkg/runner"

	"github.com/gin-gonic/gin"
)

const (
	requestField   = "request"
	pdfContentType = "application/pdf"
	txtContentType = "text/plain; charset=utf-8"
)

func (s *Server) handleStories(c *gin.Context) {
	archs := s.catalog.Archetypes()
	out := make([]StorySummary, 0, len(archs))
	for _, a := range archs {
		out = append(out, StorySummary{ID: a.ID, Label: a.Label, Pages: a.PageCount()})
	}
	c.JSON(http.StatusOK, gin.H{"default": s.catalog.DefaultID(), "stories": out})
}

func (s *Server) handlePages(c *gin.Context) {
	var req runner.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "リクエストの形式が不正です: "+err.Error())
		return
	}
	story, err := s.export.Prepare(req)
	if err != nil {
		_ = c.Error(err)
		internalError(c, "ページの生成に失敗しました")
		return
	}
	s.metrics.pagesGenerated.WithLabelValues(story.StoryID).Add(float64(story.PageCount()))
	c.JSON(http.StatusOK, story)
}

func (s *Server) handleScript(c *gin.Context) {
	var req runner.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "リクエストの形式が不正です: "+err.Error())
		return
	}
	story, err := s.export.Prepare(req)
	s.metrics.exports.WithLabelValues(string(publisher.FormatScript), statusLabel(err)).Inc()
	if err != nil {
		_ = c.Error(err)
		internalError(c, "台本の生成に失敗しました")
		return
	}
	attachment(c, txtContentType, publisher.StoryBaseName(story)+asset.ScriptSuffix, []byte(publisher.BuildScript(story)))
}

func (s *Server) handleExportPDF(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "multipart フォームを読み込めません: "+err.Error())
		return
	}

	var req runner.ExportRequest
	raw := form.Value[requestField]
	if len(raw) == 0 {
		badRequest(c, "request フィールドがありません")
		return
	}
	if err := json.Unmarshal([]byte(raw[0]), &req); err != nil {
		badRequest(c, "request フィールドの JSON が不正です: "+err.Error())
		return
	}

	images, err := readImageSet(form)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	story, data, err := s.export.RenderPDF(c.Request.Context(), req, images)
	s.metrics.exports.WithLabelValues(string(publisher.FormatPDF), statusLabel(err)).Inc()
	if err != nil {
		_ = c.Error(err)
		internalError(c, "PDFの生成に失敗しました")
		return
	}
	s.metrics.pagesGenerated.WithLabelValues(story.StoryID).Add(float64(story.PageCount()))
	attachment(c, pdfContentType, publisher.StoryBaseName(story)+asset.PictureBookSuffix, data)
}

func (s *Server) handleImport(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes))
	if err != nil {
		badRequest(c, "リクエストボディを読み込めません")
		return
	}

	pack, err := s.packs.Load(body)
	s.metrics.imports.WithLabelValues(statusLabel(err)).Inc()
	if err != nil {
		if errors.Is(err, parser.ErrInvalidJSON) {
			slog.WarnContext(c.Request.Context(), "Rejected story pack", "error", err)
			badRequest(c, parser.ErrInvalidJSON.Error())
			return
		}
		_ = c.Error(err)
		internalError(c, "ストーリーパックの取り込みに失敗しました")
		return
	}

	story := pack.ToStory()
	c.JSON(http.StatusOK, ImportSummary{Title: story.Title, Pages: story.PageCount()})
}

func (s *Server) handleCurrentImport(c *gin.Context) {
	pack, ok := s.packs.Current()
	if !ok {
		notFound(c, "ストーリーパックがまだ取り込まれていません")
		return
	}
	c.JSON(http.StatusOK, pack)
}

func (s *Server) handleImportPDF(c *gin.Context) {
	pack, ok := s.packs.Current()
	if !ok {
		conflict(c, "ストーリーパックがまだ取り込まれていません")
		return
	}

	images := intake.NewImageSet()
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)
		form, err := c.MultipartForm()
		if err != nil {
			badRequest(c, "multipart フォームを読み込めません: "+err.Error())
			return
		}
		if images, err = readImageSet(form); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	story, data, err := s.imports.RenderPDF(c.Request.Context(), pack, images)
	s.metrics.exports.WithLabelValues(string(publisher.FormatPDF), statusLabel(err)).Inc()
	if err != nil {
		_ = c.Error(err)
		internalError(c, "PDFの生成に失敗しました")
		return
	}
	attachment(c, pdfContentType, publisher.StoryBaseName(story)+asset.PictureBookSuffix, data)
}

// readImageSet は page_<n> という名前のファイルフィールドを ImageSet に詰めるのだ。
// 知らないフィールドは無視するのだ。
func readImageSet(form *multipart.Form) (*intake.ImageSet, error) {
	set := intake.NewImageSet()
	for field, headers := range form.File {
		page, ok := asset.ParsePageField(field)
		if !ok || len(headers) == 0 {
			continue
		}
		data, err := readFileHeader(headers[0])
		if err != nil {
			return nil, fmt.Errorf("%s を読み込めません: %w", field, err)
		}
		set.Put(page, data)
	}
	return set, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
