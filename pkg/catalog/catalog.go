package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/shouni/go-picturebook-kit/pkg/domain"

	"gopkg.in/yaml.v3"
)

//go:embed stories.yaml
var storiesYAML []byte

// PageTemplate は1ページ分のテンプレートです。Index は1始まりで並び順から決まります。
type PageTemplate struct {
	Index   int    `yaml:"-"`
	Caption string `yaml:"caption"`
	Scene   string `yaml:"scene"`
	Pose    string `yaml:"pose"`

	caption *template.Template
	scene   *template.Template
}

// Archetype は物語の型です。ページ構成とアーキタイプ固有のフォールバック値を持ちます。
type Archetype struct {
	ID        string           `yaml:"id"`
	Label     string           `yaml:"label"`
	Title     string           `yaml:"title"`
	Fallbacks domain.Fallbacks `yaml:"fallbacks"`
	Outfit    string           `yaml:"outfit"`
	Setting   string           `yaml:"setting"`
	Pages     []PageTemplate   `yaml:"pages"`

	title   *template.Template
	outfit  *template.Template
	setting *template.Template
}

// PageCount はページ数を返します。
func (a *Archetype) PageCount() int {
	return len(a.Pages)
}

type document struct {
	Default    string       `yaml:"default"`
	Seeds      []int64      `yaml:"seeds"`
	Archetypes []*Archetype `yaml:"archetypes"`
}

// Catalog はアーキタイプの読み取り専用レジストリです。
type Catalog struct {
	defaultID  string
	seeds      []int64
	order      []string
	archetypes map[string]*Archetype
}

var (
	defaultCatalog *Catalog
	once           sync.Once
	loadErr        error
)

// Default は埋め込まれた stories.yaml から構築したカタログを返します。
// 埋め込みデータはビルド時に固定されるため、読み込みに失敗した場合は panic します。
func Default() *Catalog {
	once.Do(func() {
		defaultCatalog, loadErr = Load(storiesYAML)
	})
	if loadErr != nil {
		panic(fmt.Sprintf("catalog: 埋め込みカタログの読み込みに失敗しました: %v", loadErr))
	}
	return defaultCatalog
}

// Load は YAML バイト列からカタログを構築し、全テンプレートの解析と検証を行います。
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("カタログのデコードに失敗しました: %w", err)
	}

	c := &Catalog{
		defaultID:  strings.TrimSpace(doc.Default),
		seeds:      append([]int64(nil), doc.Seeds...),
		archetypes: make(map[string]*Archetype, len(doc.Archetypes)),
	}
	for _, a := range doc.Archetypes {
		if a == nil {
			continue
		}
		if _, dup := c.archetypes[a.ID]; dup {
			return nil, fmt.Errorf("アーキタイプ %q が重複しています", a.ID)
		}
		for i := range a.Pages {
			a.Pages[i].Index = i + 1
		}
		if err := a.compile(); err != nil {
			return nil, fmt.Errorf("アーキタイプ %q のテンプレート解析に失敗しました: %w", a.ID, err)
		}
		c.archetypes[a.ID] = a
		c.order = append(c.order, a.ID)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Lookup は ID に一致するアーキタイプを返します。
func (c *Catalog) Lookup(id string) (*Archetype, bool) {
	a, ok := c.archetypes[strings.ToLower(strings.TrimSpace(id))]
	return a, ok
}

// Resolve は ID に一致するアーキタイプを返し、見つからなければ既定のアーキタイプを返します。
// 2番目の戻り値は既定へフォールバックしたかどうかです。
func (c *Catalog) Resolve(id string) (*Archetype, bool) {
	if a, ok := c.Lookup(id); ok {
		return a, false
	}
	return c.archetypes[c.defaultID], true
}

// DefaultID は既定アーキタイプの ID を返します。
func (c *Catalog) DefaultID() string {
	return c.defaultID
}

// IDs は定義順のアーキタイプ ID を返します。
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Archetypes は定義順のアーキタイプを返します。
func (c *Catalog) Archetypes() []*Archetype {
	out := make([]*Archetype, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.archetypes[id])
	}
	return out
}

// Seeds はシード表のコピーを返します。
func (c *Catalog) Seeds() []int64 {
	return append([]int64(nil), c.seeds...)
}
