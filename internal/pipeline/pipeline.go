package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-picturebook-kit/internal/builder"
	"github.com/shouni/go-picturebook-kit/internal/config"
	"github.com/shouni/go-picturebook-kit/internal/server"
	"github.com/shouni/go-picturebook-kit/pkg/catalog"
	"github.com/shouni/go-picturebook-kit/pkg/intake"
	"github.com/shouni/go-picturebook-kit/pkg/parser"
	"github.com/shouni/go-picturebook-kit/pkg/publisher"
)

// 各コマンドで --format を省略したときの出力形式なのだ
var (
	DefaultGenerateFormats = []publisher.Format{publisher.FormatScript, publisher.FormatPromptPack, publisher.FormatSheet}
	DefaultExportFormats   = []publisher.Format{publisher.FormatPDF}
)

// ExecuteGenerate は画像なしでページを生成し、台本やプロンプトを書き出すのだ。
func ExecuteGenerate(ctx context.Context, cfg *config.Config) (publisher.PublishResult, error) {
	return executeStory(ctx, cfg, intake.NewImageSet(), DefaultGenerateFormats)
}

// ExecuteExport は画像ディレクトリを読み込んで、絵本を書き出すのだ。
func ExecuteExport(ctx context.Context, cfg *config.Config) (publisher.PublishResult, error) {
	images, err := LoadImageDir(cfg.Options.ImageDir)
	if err != nil {
		return publisher.PublishResult{}, err
	}
	return executeStory(ctx, cfg, images, DefaultExportFormats)
}

func executeStory(ctx context.Context, cfg *config.Config, images *intake.ImageSet, defaults []publisher.Format) (publisher.PublishResult, error) {
	appCtx := setupAppContext(cfg)

	req, err := BuildExportRequest(cfg.Options)
	if err != nil {
		return publisher.PublishResult{}, err
	}
	opts, err := publishOptions(cfg, defaults)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	slog.InfoContext(ctx, "絵本の生成を開始するのだ！",
		"story", req.StoryID,
		"images", images.Len(),
		"output", opts.OutputDir)

	story, res, err := builder.BuildExportRunner(appCtx).Run(ctx, req, images, opts)
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("絵本の生成に失敗したのだ: %w", err)
	}
	if story.Fallback {
		slog.WarnContext(ctx, "知らないストーリーだったので既定のストーリーで作ったのだ",
			"requested", req.StoryID, "used", story.StoryID)
	}
	logResult(ctx, res)
	return res, nil
}

// ExecuteImport は JSON のストーリーパックを取り込んで書き出すのだ。
func ExecuteImport(ctx context.Context, cfg *config.Config) (publisher.PublishResult, error) {
	appCtx := setupAppContext(cfg)

	pack, err := parser.ParseFromPath(ctx, cfg.Options.PackFile)
	if err != nil {
		return publisher.PublishResult{}, err
	}
	images, err := LoadImageDir(cfg.Options.ImageDir)
	if err != nil {
		return publisher.PublishResult{}, err
	}
	opts, err := publishOptions(cfg, DefaultExportFormats)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	res, err := builder.BuildImportRunner(appCtx).Run(ctx, pack, images, opts)
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("ストーリーパックの書き出しに失敗したのだ: %w", err)
	}
	logResult(ctx, res)
	return res, nil
}

// Serve は HTTP API を ctx が終わるまで動かすのだ。
func Serve(ctx context.Context, cfg *config.Config) error {
	appCtx := setupAppContext(cfg)
	return server.New(appCtx).Run(ctx)
}

// setupAppContext は、設定と共有コンポーネントからアプリケーションコンテキストを作るのだ。
func setupAppContext(cfg *config.Config) *builder.AppContext {
	appCtx := builder.NewAppContext(cfg, publisher.NewLocalWriter(), catalog.Default())
	return &appCtx
}

func publishOptions(cfg *config.Config, defaults []publisher.Format) (publisher.Options, error) {
	formats, err := ParseFormats(cfg.Options.Formats)
	if err != nil {
		return publisher.Options{}, err
	}
	if len(formats) == 0 {
		formats = defaults
	}
	return publisher.Options{OutputDir: cfg.OutputDir, Formats: formats}, nil
}

// ParseFormats は --format の値を検証するのだ。"all" は全形式なのだ。
func ParseFormats(values []string) ([]publisher.Format, error) {
	var out []publisher.Format
	for _, v := range values {
		if v == "all" {
			return publisher.AllFormats, nil
		}
		f, err := publisher.ParseFormat(v)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func logResult(ctx context.Context, res publisher.PublishResult) {
	slog.InfoContext(ctx, "書き出しが完了したのだ！",
		"pdf", res.PDFPath,
		"script", res.ScriptPath,
		"prompt_pack", res.PromptPackPath,
		"sheet", res.SheetPath,
		"proof_pages", len(res.ProofPaths))
}
