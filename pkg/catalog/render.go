package catalog

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
)

// templateData はテンプレートに渡す値です。Kid は外見の説明文です。
type templateData struct {
	domain.DisplayAttributes
	Kid string
}

// RenderedPage はテンプレートを展開した1ページ分の文言です。
type RenderedPage struct {
	Index   int
	Caption string
	Scene   string
	Pose    string
}

// Rendered はアーキタイプを表示属性で展開した結果です。
type Rendered struct {
	Title   string
	Outfit  string
	Setting string
	Pages   []RenderedPage
}

func (a *Archetype) compile() error {
	var err error
	parse := func(name, text string) *template.Template {
		if err != nil {
			return nil
		}
		var t *template.Template
		t, err = template.New(name).Option("missingkey=error").Parse(text)
		return t
	}

	a.title = parse("title", a.Title)
	a.outfit = parse("outfit", a.Outfit)
	a.setting = parse("setting", a.Setting)
	for i := range a.Pages {
		p := &a.Pages[i]
		p.caption = parse(fmt.Sprintf("page%d.caption", p.Index), p.Caption)
		p.scene = parse(fmt.Sprintf("page%d.scene", p.Index), p.Scene)
	}
	return err
}

// Render は表示属性でタイトル・衣装・舞台・各ページを展開します。
func (a *Archetype) Render(d domain.DisplayAttributes) (*Rendered, error) {
	data := templateData{DisplayAttributes: d, Kid: d.Descriptor()}

	r := &Rendered{Pages: make([]RenderedPage, 0, len(a.Pages))}
	var err error
	if r.Title, err = execute(a.title, data); err != nil {
		return nil, err
	}
	if r.Outfit, err = execute(a.outfit, data); err != nil {
		return nil, err
	}
	if r.Setting, err = execute(a.setting, data); err != nil {
		return nil, err
	}
	for _, p := range a.Pages {
		rp := RenderedPage{Index: p.Index, Pose: p.Pose}
		if rp.Caption, err = execute(p.caption, data); err != nil {
			return nil, err
		}
		if rp.Scene, err = execute(p.scene, data); err != nil {
			return nil, err
		}
		r.Pages = append(r.Pages, rp)
	}
	return r, nil
}

func execute(t *template.Template, data templateData) (string, error) {
	if t == nil {
		return "", nil
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("テンプレート %s の展開に失敗しました: %w", t.Name(), err)
	}
	return sb.String(), nil
}
