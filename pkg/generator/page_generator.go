package generator

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-picturebook-kit/pkg/catalog"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/prompts"
)

// PageGenerator はアーキタイプと子どもの属性から全ページの文言とプロンプトを生成します。
// 同じ入力に対して常に同じ結果を返します。
type PageGenerator struct {
	catalog     *catalog.Catalog
	globalStyle string
	seeds       prompts.SeedTable
}

// NewPageGenerator は PageGenerator を初期化します。globalStyle が空の場合は既定の画風を使います。
func NewPageGenerator(cat *catalog.Catalog, globalStyle string) *PageGenerator {
	if globalStyle == "" {
		globalStyle = prompts.DefaultGlobalStyle
	}
	return &PageGenerator{
		catalog:     cat,
		globalStyle: globalStyle,
		seeds:       prompts.SeedTable(cat.Seeds()),
	}
}

// Generate は指定ストーリーの全ページを生成します。
// 未知のストーリーIDは既定アーキタイプに置き換え、Story.Fallback で呼び出し元に知らせます。
func (g *PageGenerator) Generate(storyID string, attrs domain.ChildAttributes) (*domain.Story, error) {
	arch, fellBack := g.catalog.Resolve(storyID)
	if fellBack {
		slog.Warn("Unknown story archetype, falling back to default",
			"requested", storyID, "fallback", arch.ID)
	}

	display := domain.Normalize(attrs, arch.Fallbacks)
	rendered, err := arch.Render(display)
	if err != nil {
		return nil, fmt.Errorf("ストーリー %s の展開に失敗しました: %w", arch.ID, err)
	}

	// 一貫性ブロックはページ間で同一でなければならないため、1回だけ組み立てます。
	consistency := prompts.BuildConsistencyBlock(display, rendered.Outfit, rendered.Setting)

	pages := make([]domain.GeneratedPage, 0, len(rendered.Pages))
	for i, rp := range rendered.Pages {
		pages = append(pages, domain.GeneratedPage{
			Page:    rp.Index,
			Caption: rp.Caption,
			Prompt:  prompts.ComposePrompt(g.globalStyle, consistency, rp.Scene),
			Pose:    rp.Pose,
			Seed:    g.seeds.Assign(i),
		})
	}

	slog.Debug("Pages generated", "story", arch.ID, "pages", len(pages), "name", display.Name)

	return &domain.Story{
		StoryID:     arch.ID,
		Label:       arch.Label,
		Title:       rendered.Title,
		Fallback:    fellBack,
		Attributes:  display,
		GlobalStyle: g.globalStyle,
		Consistency: consistency,
		Pages:       pages,
	}, nil
}

// GeneratePages は埋め込みカタログと既定の画風でページを生成します。
func GeneratePages(storyID string, attrs domain.ChildAttributes) (*domain.Story, error) {
	return NewPageGenerator(catalog.Default(), "").Generate(storyID, attrs)
}
