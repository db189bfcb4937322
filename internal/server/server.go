package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/go-picturebook-kit/internal/builder"
	"github.com/shouni/go-picturebook-kit/internal/config"
	"github.com/shouni/go-picturebook-kit/pkg/catalog"
	"github.com/shouni/go-picturebook-kit/pkg/parser"
	"github.com/shouni/go-picturebook-kit/pkg/runner"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

// Server は絵本生成の HTTP API なのだ。ブラウザのフォームの代わりになるのだ。
type Server struct {
	addr           string
	maxUploadBytes int64
	corsOrigins    []string

	catalog *catalog.Catalog
	export  *runner.ExportRunner
	imports *runner.ImportRunner
	packs   *parser.PackLoader
	limiter *rate.Limiter
	metrics *Metrics
}

// New は AppContext から各 Runner を組み立ててサーバーを作るのだ。
func New(appCtx *builder.AppContext) *Server {
	cfg := appCtx.Config

	interval := cfg.ExportRateInterval
	if interval <= 0 {
		interval = config.DefaultExportRateInterval
	}
	burst := cfg.ExportBurst
	if burst <= 0 {
		burst = config.DefaultExportBurst
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = config.DefaultMaxUploadBytes
	}

	return &Server{
		addr:           cfg.Addr,
		maxUploadBytes: maxUpload,
		corsOrigins:    cfg.AllowCORS,
		catalog:        appCtx.Catalog,
		export:         builder.BuildExportRunner(appCtx),
		imports:        builder.BuildImportRunner(appCtx),
		packs:          parser.NewPackLoader(),
		limiter:        rate.NewLimiter(rate.Every(interval), burst),
		metrics:        NewMetrics(),
	}
}

// Router はルーティングを組み立てるのだ。
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.metrics), cors.New(corsConfig(s.corsOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/stories", s.handleStories)
	api.POST("/pages", s.handlePages)
	api.POST("/script", s.handleScript)
	api.POST("/import", s.handleImport)
	api.GET("/import", s.handleCurrentImport)

	limited := api.Group("", rateLimit(s.limiter))
	limited.POST("/export/pdf", s.handleExportPDF)
	limited.POST("/import/pdf", s.handleImportPDF)

	return r
}

// Run は ctx がキャンセルされるまでサーバーを動かし、その後に穏やかに止めるのだ。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTPサーバーの起動に失敗しました: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗しました: %w", err)
	}
	return nil
}
