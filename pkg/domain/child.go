package domain

import (
	"fmt"
	"strings"
)

// 最終手段のデフォルト値です。アーキタイプ側のフォールバックも空だった場合に使用します。
const (
	DefaultName   = "Buddy"
	DefaultGender = "child"
	DefaultSkin   = "friendly skin tone"
	DefaultHair   = "neat hair"
	DefaultColor  = "blue"
	DefaultAnimal = "bunny"
	DefaultTown   = "the park"
)

// ChildAttributes はオペレーターが入力した子どもの属性です。どのフィールドも空で構いません。
type ChildAttributes struct {
	Name           string `json:"name" yaml:"name"`
	Gender         string `json:"gender" yaml:"gender"`
	Skin           string `json:"skin" yaml:"skin"`                     // 例: "tan"
	Hair           string `json:"hair" yaml:"hair"`                     // 例: "brown"
	FavoriteColor  string `json:"favoriteColor" yaml:"favoriteColor"`   // 服装のアクセントカラー
	FavoriteAnimal string `json:"favoriteAnimal" yaml:"favoriteAnimal"` // 毎ページ登場する相棒
	HomeTown       string `json:"homeTown" yaml:"homeTown"`
}

// Fallbacks はアーキタイプごとに定義される、空入力時の代替値です。
type Fallbacks = ChildAttributes

// DisplayAttributes は正規化済みの属性です。全フィールドが空でないことが保証されます。
type DisplayAttributes struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Skin   string `json:"skin"` // "tan skin" のように接尾辞付き
	Hair   string `json:"hair"` // "brown hair" のように接尾辞付き
	Color  string `json:"color"`
	Animal string `json:"animal"`
	Town   string `json:"town"`
}

// Normalize は入力属性をアーキタイプのフォールバックで補完し、表示用の属性を返します。
// 空白のみのフィールドは未入力として扱い、入力値はエスケープせずそのまま差し込みます。
func Normalize(attrs ChildAttributes, fb Fallbacks) DisplayAttributes {
	d := DisplayAttributes{
		Name:   firstNonEmpty(attrs.Name, fb.Name, DefaultName),
		Gender: strings.ToLower(firstNonEmpty(attrs.Gender, fb.Gender, DefaultGender)),
		Color:  firstNonEmpty(attrs.FavoriteColor, fb.FavoriteColor, DefaultColor),
		Animal: firstNonEmpty(attrs.FavoriteAnimal, fb.FavoriteAnimal, DefaultAnimal),
		Town:   firstNonEmpty(attrs.HomeTown, fb.HomeTown, DefaultTown),
	}

	// 肌と髪は入力があるときだけ接尾辞を付け、フォールバックは文として完結した表現を使います。
	if v := strings.TrimSpace(attrs.Skin); v != "" {
		d.Skin = v + " skin"
	} else {
		d.Skin = firstNonEmpty(fb.Skin, DefaultSkin)
	}
	if v := strings.TrimSpace(attrs.Hair); v != "" {
		d.Hair = v + " hair"
	} else {
		d.Hair = firstNonEmpty(fb.Hair, DefaultHair)
	}
	return d
}

// Descriptor は "girl with tan skin and brown hair" のような外見の説明を返します。
func (d DisplayAttributes) Descriptor() string {
	return fmt.Sprintf("%s with %s and %s", d.Gender, d.Skin, d.Hair)
}

// Summary はエクスポートや表紙に載せる一行の要約を返します。
func (d DisplayAttributes) Summary() string {
	return fmt.Sprintf("%s (%s, %s, %s)", d.Name, d.Gender, d.Skin, d.Hair)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
