package domain

import "strings"

// GeneratedPage は1ページ分の生成結果です。Page は1始まりで連続します。
type GeneratedPage struct {
	Page    int    `json:"page"`
	Caption string `json:"caption"`
	Prompt  string `json:"prompt"`
	Pose    string `json:"pose,omitempty"`
	Seed    int64  `json:"seed,omitempty"`
}

// Story はアーキタイプと属性から生成された絵本一冊分のデータです。
type Story struct {
	StoryID     string            `json:"story"`
	Label       string            `json:"label"`
	Title       string            `json:"title"`
	Fallback    bool              `json:"fallback"` // 未知のストーリーIDで既定アーキタイプに置き換えた場合 true
	Attributes  DisplayAttributes `json:"attributes"`
	GlobalStyle string            `json:"globalStyle,omitempty"`
	Consistency string            `json:"consistency,omitempty"`
	Pages       []GeneratedPage   `json:"pages"`
}

// PageCount はページ数を返します。
func (s *Story) PageCount() int {
	if s == nil {
		return 0
	}
	return len(s.Pages)
}

// FindPage は指定ページ番号のページを返します。
func (s *Story) FindPage(page int) (*GeneratedPage, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Pages {
		if s.Pages[i].Page == page {
			return &s.Pages[i], true
		}
	}
	return nil, false
}

// StoryPack は外部から取り込む JSON ストーリーパックの形です。
type StoryPack struct {
	Title string     `json:"title"`
	Pages []PackPage `json:"pages"`
}

// PackPage はストーリーパックの1ページです。
type PackPage struct {
	Page   int    `json:"page"`
	Script string `json:"script"`
	Prompt string `json:"prompt"`
}

// DefaultPackTitle はタイトル未指定のパックに使う表示名です。
const DefaultPackTitle = "Storybook"

// ToStory はパックをアセンブラが扱える Story に変換します。
// ページ番号が欠けている場合は並び順から補います。
func (p *StoryPack) ToStory() *Story {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = DefaultPackTitle
	}
	pages := make([]GeneratedPage, 0, len(p.Pages))
	for i, pp := range p.Pages {
		n := pp.Page
		if n <= 0 {
			n = i + 1
		}
		pages = append(pages, GeneratedPage{
			Page:    n,
			Caption: pp.Script,
			Prompt:  pp.Prompt,
		})
	}
	return &Story{
		Title: title,
		Label: title,
		Pages: pages,
	}
}
