package layout

import (
	"fmt"
	"strings"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/intake"
)

// minCaptionSize はキャプションを縮小して収める際の下限サイズです。
const minCaptionSize = 9.0

// Options はページ構成の任意要素を切り替えます。
type Options struct {
	Cover        bool // 先頭に表紙ページを付ける
	ShowMeta     bool // フッターにポーズとシードを表示する
	TitleHeading bool // 表紙の代わりに1ページ目の上部へタイトルを描く
}

// TextLine は描画する1行のテキストです。
type TextLine struct {
	X, Y, Size float64
	Text       string
}

// PagePlan は1ページ分の描画指示です。
type PagePlan struct {
	Page        int // 表紙は0
	Cover       bool
	Image       *intake.Bitmap
	ImageRect   Rect
	Placeholder bool
	BoxRect     Rect
	Texts       []TextLine
	Footer      *TextLine
	Truncated   bool // キャプションが下限サイズでも収まらず行を落とした場合 true
}

// Plan はストーリーと画像からページ順の描画指示を組み立てます。
// 画像のないページ、または幅や高さが0の画像のページはプレースホルダになります。
func Plan(tpl Template, opts Options, story *domain.Story, images map[int]*intake.Bitmap, m TextMeasurer) []PagePlan {
	plans := make([]PagePlan, 0, story.PageCount()+1)
	if opts.Cover {
		plans = append(plans, planCover(tpl, story, m))
	}
	for i, p := range story.Pages {
		var heading []string
		if i == 0 && opts.TitleHeading && !opts.Cover {
			heading = WrapText(m, story.Title, tpl.TitleSize, tpl.TextWidth())
		}
		plans = append(plans, planPage(tpl, opts, p, images[p.Page], heading, m))
	}
	return plans
}

func planCover(tpl Template, story *domain.Story, m TextMeasurer) PagePlan {
	plan := PagePlan{Cover: true}
	width := tpl.TextWidth()

	y := tpl.PageHeight * 0.3
	for _, line := range WrapText(m, story.Title, tpl.TitleSize, width) {
		plan.Texts = append(plan.Texts, centered(tpl, m, line, y, tpl.TitleSize))
		y += tpl.LineHeight(tpl.TitleSize)
	}
	y += tpl.LineHeight(tpl.CaptionSize)

	var subtitle []string
	if story.Label != "" && story.Label != story.Title {
		subtitle = append(subtitle, story.Label)
	}
	if story.StoryID != "" {
		subtitle = append(subtitle, "Starring "+story.Attributes.Summary())
	}
	subtitle = append(subtitle, fmt.Sprintf("Pages: %d", story.PageCount()))
	for _, s := range subtitle {
		for _, line := range WrapText(m, s, tpl.CaptionSize, width) {
			plan.Texts = append(plan.Texts, centered(tpl, m, line, y, tpl.CaptionSize))
			y += tpl.LineHeight(tpl.CaptionSize)
		}
	}
	return plan
}

func planPage(tpl Template, opts Options, p domain.GeneratedPage, bmp *intake.Bitmap, heading []string, m TextMeasurer) PagePlan {
	box := tpl.ImageBox()
	plan := PagePlan{Page: p.Page}

	// 見出しの分だけ画像ボックスを下に詰めます
	y := box.Y
	for _, line := range heading {
		y += tpl.TitleSize
		plan.Texts = append(plan.Texts, centered(tpl, m, line, y, tpl.TitleSize))
		y += tpl.LineHeight(tpl.TitleSize) - tpl.TitleSize
	}
	if len(heading) > 0 {
		y += tpl.TextGap
		box.H -= y - box.Y
		box.Y = y
	}
	plan.BoxRect = box

	if bmp != nil && bmp.Width > 0 && bmp.Height > 0 {
		plan.Image = bmp
		plan.ImageRect = AspectFit(bmp.Width, bmp.Height, box)
	} else {
		plan.Placeholder = true
		if label := tpl.PlaceholderText; label != "" {
			plan.Texts = append(plan.Texts, TextLine{
				X:    box.X + (box.W-m.MeasureText(label, tpl.CaptionSize))/2,
				Y:    box.Y + box.H/2,
				Size: tpl.CaptionSize,
				Text: label,
			})
		}
	}

	footer := TextLine{
		X:    tpl.Margin,
		Y:    tpl.FooterY(),
		Size: tpl.FooterSize,
		Text: footerText(opts, p),
	}
	plan.Footer = &footer

	lines, size, truncated := fitCaption(tpl, m, p.Caption)
	plan.Truncated = truncated
	y = tpl.TextTop()
	for _, line := range lines {
		plan.Texts = append(plan.Texts, TextLine{X: tpl.Margin, Y: y, Size: size, Text: line})
		y += tpl.LineHeight(size)
	}
	return plan
}

// fitCaption は本文領域に収まるまでフォントを縮小して折り返します。
// 下限サイズでも収まらない行は落とします。
func fitCaption(tpl Template, m TextMeasurer, caption string) ([]string, float64, bool) {
	limit := tpl.FooterY() - tpl.LineHeight(tpl.FooterSize)
	for size := tpl.CaptionSize; size >= minCaptionSize; size-- {
		lines := WrapText(m, caption, size, tpl.TextWidth())
		if captionBottom(tpl, size, len(lines)) <= limit {
			return lines, size, false
		}
	}
	size := minCaptionSize
	if tpl.CaptionSize < size {
		size = tpl.CaptionSize
	}
	lines := WrapText(m, caption, size, tpl.TextWidth())
	n := len(lines)
	for n > 0 && captionBottom(tpl, size, n) > limit {
		n--
	}
	return lines[:n], size, n < len(lines)
}

func captionBottom(tpl Template, size float64, n int) float64 {
	if n == 0 {
		return tpl.TextTop()
	}
	return tpl.TextTop() + float64(n-1)*tpl.LineHeight(size)
}

func footerText(opts Options, p domain.GeneratedPage) string {
	parts := []string{fmt.Sprintf("Page %d", p.Page)}
	if opts.ShowMeta {
		if p.Pose != "" {
			parts = append(parts, "pose: "+p.Pose)
		}
		if p.Seed != 0 {
			parts = append(parts, fmt.Sprintf("seed: %d", p.Seed))
		}
	}
	return strings.Join(parts, " | ")
}

func centered(tpl Template, m TextMeasurer, text string, y, size float64) TextLine {
	return TextLine{
		X:    (tpl.PageWidth - m.MeasureText(text, size)) / 2,
		Y:    y,
		Size: size,
		Text: text,
	}
}
