package config

import (
	"time"

	"github.com/shouni/go-picturebook-kit/pkg/intake"
	"github.com/shouni/go-picturebook-kit/pkg/layout"
	"github.com/shouni/go-picturebook-kit/pkg/prompts"
	"github.com/shouni/go-picturebook-kit/pkg/publisher"
)

// デフォルト値の定義
const (
	DefaultDecodeTimeout     = intake.DefaultDecodeTimeout
	DefaultDecodeConcurrency = intake.DefaultDecodeConcurrency
	DefaultCacheTTL          = intake.DefaultCacheTTL
	DefaultMaxImageBytes     = intake.DefaultMaxImageBytes
	DefaultProofScale        = publisher.DefaultProofScale
	DefaultCover             = true
	DefaultShowMeta          = false
)

// Config は Go Picturebook Kit の各 Runner を動作させるための基本設定です。
type Config struct {
	// --- Generation Settings ---
	GlobalStyle string

	// --- Image Intake ---
	DecodeTimeout     time.Duration
	DecodeConcurrency int
	CacheTTL          time.Duration
	MaxImageBytes     int

	// --- Layout Settings ---
	Cover      bool
	ShowMeta   bool
	ProofScale float64
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		GlobalStyle:       prompts.DefaultGlobalStyle,
		DecodeTimeout:     DefaultDecodeTimeout,
		DecodeConcurrency: DefaultDecodeConcurrency,
		CacheTTL:          DefaultCacheTTL,
		MaxImageBytes:     DefaultMaxImageBytes,
		Cover:             DefaultCover,
		ShowMeta:          DefaultShowMeta,
		ProofScale:        DefaultProofScale,
	}
}

// LayoutOptions は生成ストーリー用のページ構成を返します。
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{Cover: c.Cover, ShowMeta: c.ShowMeta}
}

// ImportLayoutOptions は取り込んだパック用のページ構成を返します。
// パックには表紙ページを付けず、タイトルは1ページ目の見出しとして描きます。
func (c Config) ImportLayoutOptions() layout.Options {
	return layout.Options{TitleHeading: true}
}

// DecoderOptions は intake.Decoder の設定を返します。
func (c Config) DecoderOptions() []intake.DecoderOption {
	opts := []intake.DecoderOption{intake.WithTimeout(c.DecodeTimeout), intake.WithMaxBytes(c.MaxImageBytes)}
	if c.CacheTTL > 0 {
		opts = append(opts, intake.WithCacheTTL(c.CacheTTL))
	}
	return opts
}
