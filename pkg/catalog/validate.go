package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shouni/go-picturebook-kit/pkg/domain"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// 1アーキタイプあたりのページ数の範囲です。
const (
	MinPages = 8
	MaxPages = 10
)

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Validate はアーキタイプ定義の必須項目とページ数を検証します。
func (a *Archetype) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.ID, validation.Required, validation.Match(idPattern)),
		validation.Field(&a.Label, validation.Required),
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.Outfit, validation.Required),
		validation.Field(&a.Setting, validation.Required),
		validation.Field(&a.Pages, validation.Required, validation.Length(MinPages, MaxPages)),
	)
}

// Validate はページテンプレートの必須項目を検証します。
func (p PageTemplate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Caption, validation.Required),
		validation.Field(&p.Scene, validation.Required),
		validation.Field(&p.Pose, validation.Required),
	)
}

func (c *Catalog) validate() error {
	if len(c.archetypes) == 0 {
		return errors.New("アーキタイプが1件も定義されていません")
	}
	if len(c.seeds) == 0 {
		return errors.New("シード表が空です")
	}
	if _, ok := c.archetypes[c.defaultID]; !ok {
		return fmt.Errorf("既定アーキタイプ %q が定義されていません", c.defaultID)
	}

	// 全フィールドが空の入力でも未展開のプレースホルダが残らないことを確認します。
	for _, id := range c.order {
		a := c.archetypes[id]
		if err := a.Validate(); err != nil {
			return fmt.Errorf("アーキタイプ %q が不正です: %w", id, err)
		}
		r, err := a.Render(domain.Normalize(domain.ChildAttributes{}, a.Fallbacks))
		if err != nil {
			return fmt.Errorf("アーキタイプ %q の試験展開に失敗しました: %w", id, err)
		}
		for _, p := range r.Pages {
			if hasUnresolved(p.Caption) || hasUnresolved(p.Scene) {
				return fmt.Errorf("アーキタイプ %q のページ %d に未展開のプレースホルダがあります", id, p.Index)
			}
		}
	}
	return nil
}

func hasUnresolved(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "<no value>")
}
