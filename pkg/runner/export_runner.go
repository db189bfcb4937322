package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/generator"
	"github.com/shouni/go-picturebook-kit/pkg/intake"
	"github.com/shouni/go-picturebook-kit/pkg/publisher"
)

// ExportRequest はストーリー生成の入力です。Edits は同じストーリーにだけ再適用されます。
type ExportRequest struct {
	StoryID string                 `json:"story"`
	Child   domain.ChildAttributes `json:"child"`
	Edits   *domain.Edits          `json:"edits,omitempty"`
}

// ExportRunner はページ生成・画像デコード・出力を一続きで実行します。
type ExportRunner struct {
	generator   *generator.PageGenerator
	decoder     *intake.Decoder
	publisher   *publisher.BookPublisher
	concurrency int
}

// NewExportRunner は ExportRunner を初期化します。
func NewExportRunner(gen *generator.PageGenerator, dec *intake.Decoder, pub *publisher.BookPublisher, concurrency int) *ExportRunner {
	return &ExportRunner{
		generator:   gen,
		decoder:     dec,
		publisher:   pub,
		concurrency: concurrency,
	}
}

// Prepare はページを生成し、編集スナップショットがあれば書き戻します。
func (r *ExportRunner) Prepare(req ExportRequest) (*domain.Story, error) {
	story, err := r.generator.Generate(req.StoryID, req.Child)
	if err != nil {
		return nil, err
	}
	if req.Edits != nil {
		applied := domain.ApplyEdits(story, *req.Edits)
		if applied < len(req.Edits.Pages) {
			slog.Info("Some page edits were discarded",
				"story", story.StoryID, "edits_story", req.Edits.StoryID,
				"applied", applied, "requested", len(req.Edits.Pages))
		}
	}
	return story, nil
}

// RenderPDF はストーリーを生成して PDF のバイト列を返します。
func (r *ExportRunner) RenderPDF(ctx context.Context, req ExportRequest, images *intake.ImageSet) (*domain.Story, []byte, error) {
	story, err := r.Prepare(req)
	if err != nil {
		return nil, nil, err
	}
	bitmaps, err := intake.DecodeAll(ctx, r.decoder, images, r.concurrency)
	if err != nil {
		return nil, nil, fmt.Errorf("画像のデコードが中断されました: %w", err)
	}
	data, err := r.publisher.RenderPDF(ctx, story, bitmaps)
	if err != nil {
		return nil, nil, err
	}
	return story, data, nil
}

// Run はストーリーを生成し、指定形式の成果物を書き出します。
func (r *ExportRunner) Run(ctx context.Context, req ExportRequest, images *intake.ImageSet, opts publisher.Options) (*domain.Story, publisher.PublishResult, error) {
	story, err := r.Prepare(req)
	if err != nil {
		return nil, publisher.PublishResult{}, err
	}
	bitmaps, err := intake.DecodeAll(ctx, r.decoder, images, r.concurrency)
	if err != nil {
		return nil, publisher.PublishResult{}, fmt.Errorf("画像のデコードが中断されました: %w", err)
	}

	slog.InfoContext(ctx, "Exporting picture book",
		"story", story.StoryID,
		"pages", story.PageCount(),
		"images", len(bitmaps),
		"formats", opts.Formats)

	res, err := r.publisher.Publish(ctx, story, bitmaps, opts)
	if err != nil {
		return nil, publisher.PublishResult{}, err
	}
	return story, res, nil
}
