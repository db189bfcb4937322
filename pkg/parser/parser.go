package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/shouni/go-picturebook-kit/pkg/domain"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrInvalidJSON は取り込んだ JSON がストーリーパックの形をしていないことを表します。
var ErrInvalidJSON = errors.New("invalid JSON")

// packDocument は pages の有無を区別するためのデコード用の形です。
type packDocument struct {
	Title string             `json:"title"`
	Pages *[]domain.PackPage `json:"pages"`
}

// Validate は pages が配列として存在することを検証します。空配列は許容します。
func (d packDocument) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Pages, validation.NotNil.Error("pages must be an array")),
	)
}

// ParseStoryPack は JSON バイト列をストーリーパックとして解析します。
// 形が不正な場合は ErrInvalidJSON をラップしたエラーを返します。
func ParseStoryPack(data []byte) (*domain.StoryPack, error) {
	var doc packDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return &domain.StoryPack{Title: doc.Title, Pages: *doc.Pages}, nil
}

// ParseFromPath はローカルファイルを読み込み、ストーリーパックとして解析します。
func ParseFromPath(ctx context.Context, path string) (*domain.StoryPack, error) {
	slog.InfoContext(ctx, "ストーリーパックを読み込んでいます", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ストーリーパックの読み込みに失敗しました (%s): %w", path, err)
	}
	return ParseStoryPack(data)
}

// PackLoader は現在読み込まれているストーリーパックを保持します。
// 解析に失敗した場合、直前のパックはそのまま残ります。
type PackLoader struct {
	mu      sync.RWMutex
	current *domain.StoryPack
}

// NewPackLoader は空の PackLoader を返します。
func NewPackLoader() *PackLoader {
	return &PackLoader{}
}

// Load は JSON を解析し、成功した場合だけ現在のパックを置き換えます。
func (l *PackLoader) Load(data []byte) (*domain.StoryPack, error) {
	pack, err := ParseStoryPack(data)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.current = pack
	l.mu.Unlock()
	return pack, nil
}

// Current は現在のパックを返します。まだ何も読み込まれていなければ false を返します。
func (l *PackLoader) Current() (*domain.StoryPack, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current, l.current != nil
}
