package layout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/intake"
)

// Assembler はストーリーを固定テンプレートでページ単位に描画します。
type Assembler struct {
	tpl  Template
	opts Options
}

// NewAssembler は Assembler を初期化します。
func NewAssembler(tpl Template, opts Options) *Assembler {
	return &Assembler{tpl: tpl, opts: opts}
}

// Template は使用中のテンプレートを返します。
func (a *Assembler) Template() Template {
	return a.tpl
}

// Assemble は全ページを canvas に描画します。ページ順は story.Pages の順序と一致します。
// 描画先がエラーを報告した時点で中断し、ErrCanvas をラップしたエラーを返します。
func (a *Assembler) Assemble(ctx context.Context, canvas Canvas, story *domain.Story, images map[int]*intake.Bitmap) error {
	plans := Plan(a.tpl, a.opts, story, images, canvas)

	placeholders := 0
	for _, plan := range plans {
		if err := ctx.Err(); err != nil {
			return err
		}

		canvas.AddPage()
		Render(canvas, plan)

		if err := canvas.Err(); err != nil {
			return fmt.Errorf("%w: page %d: %w", ErrCanvas, plan.Page, err)
		}
		if plan.Placeholder {
			placeholders++
		}
		if plan.Truncated {
			slog.Warn("Caption did not fit on the page and was truncated", "page", plan.Page)
		}
	}

	slog.Info("Document assembled",
		"story", story.StoryID,
		"pages", len(plans),
		"placeholders", placeholders)
	return nil
}

// Render は1ページ分の描画指示を canvas に流します。
func Render(canvas Canvas, plan PagePlan) {
	if plan.Image != nil {
		canvas.DrawImage(plan.Image, plan.ImageRect)
	}
	if plan.Placeholder {
		canvas.DrawDashedRect(plan.BoxRect)
	}
	for _, t := range plan.Texts {
		canvas.DrawText(t.X, t.Y, t.Size, t.Text)
	}
	if plan.Footer != nil {
		canvas.DrawText(plan.Footer.X, plan.Footer.Y, plan.Footer.Size, plan.Footer.Text)
	}
}
