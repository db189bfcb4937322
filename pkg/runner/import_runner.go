package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/intake"
	"github.com/shouni/go-picturebook-kit/pkg/publisher"
)

// ImportRunner は取り込んだストーリーパックを生成ストーリーと同じ組版で出力します。
type ImportRunner struct {
	decoder     *intake.Decoder
	publisher   *publisher.BookPublisher
	concurrency int
}

// NewImportRunner は ImportRunner を初期化します。
func NewImportRunner(dec *intake.Decoder, pub *publisher.BookPublisher, concurrency int) *ImportRunner {
	return &ImportRunner{
		decoder:     dec,
		publisher:   pub,
		concurrency: concurrency,
	}
}

// RenderPDF はパックを PDF のバイト列に変換します。
func (r *ImportRunner) RenderPDF(ctx context.Context, pack *domain.StoryPack, images *intake.ImageSet) (*domain.Story, []byte, error) {
	story := pack.ToStory()
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

// Run はパックを指定形式で書き出します。
func (r *ImportRunner) Run(ctx context.Context, pack *domain.StoryPack, images *intake.ImageSet, opts publisher.Options) (publisher.PublishResult, error) {
	story := pack.ToStory()
	bitmaps, err := intake.DecodeAll(ctx, r.decoder, images, r.concurrency)
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("画像のデコードが中断されました: %w", err)
	}

	slog.InfoContext(ctx, "Exporting imported story pack", "title", story.Title, "pages", story.PageCount())
	return r.publisher.Publish(ctx, story, bitmaps, opts)
}
