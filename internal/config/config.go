package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	kitconfig "github.com/shouni/go-picturebook-kit/pkg/config"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shouni/go-utils/envutil"
)

// EnvPrefix は環境変数の接頭辞なのだ。PICTUREBOOK_ADDR のように読むのだ。
const EnvPrefix = "PICTUREBOOK"

// デフォルト値の定義なのだ
const (
	DefaultAddr               = ":8080"
	DefaultOutputDir          = "output"
	DefaultLogLevel           = "info"
	DefaultExportRateInterval = 500 * time.Millisecond
	DefaultExportBurst        = 4
	DefaultMaxUploadBytes     = 64 << 20
	DefaultStory              = "cowboy"
)

// Config はアプリケーション全体の環境設定を保持する構造体なのだ。
type Config struct {
	Addr      string   `envconfig:"ADDR" default:":8080"`
	OutputDir string   `envconfig:"OUTPUT_DIR" default:"output"`
	LogLevel  string   `envconfig:"LOG_LEVEL" default:"info"`
	AllowCORS []string `envconfig:"CORS_ORIGINS" default:"*"`

	GlobalStyle       string        `envconfig:"GLOBAL_STYLE"`
	DecodeTimeout     time.Duration `envconfig:"DECODE_TIMEOUT" default:"10s"`
	DecodeConcurrency int           `envconfig:"DECODE_CONCURRENCY" default:"4"`
	CacheTTL          time.Duration `envconfig:"CACHE_TTL" default:"30m"`
	MaxImageBytes     int           `envconfig:"MAX_IMAGE_BYTES" default:"33554432"`

	Cover      bool    `envconfig:"COVER" default:"true"`
	ShowMeta   bool    `envconfig:"SHOW_META" default:"false"`
	ProofScale float64 `envconfig:"PROOF_SCALE" default:"1"`

	// HTTP の書き出し系エンドポイントに掛けるレート制限なのだ
	ExportRateInterval time.Duration `envconfig:"EXPORT_RATE_INTERVAL" default:"500ms"`
	ExportBurst        int           `envconfig:"EXPORT_BURST" default:"4"`
	MaxUploadBytes     int64         `envconfig:"MAX_UPLOAD_BYTES" default:"67108864"`

	Options GenerateOptions `ignored:"true"`
}

// LoadConfig は .env と環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() (*Config, error) {
	// .env は無くても構わないのだ
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("環境変数の読み込みに失敗しました: %w", err)
	}
	// Cloud Run などが渡す PORT を優先するのだ
	if port := envutil.GetEnv("PORT", ""); port != "" {
		cfg.Addr = ":" + port
	}
	return &cfg, nil
}

// Kit は pkg 側の Runner が使う設定に変換するのだ。
func (c *Config) Kit() kitconfig.Config {
	kc := kitconfig.DefaultConfig()
	if c.GlobalStyle != "" {
		kc.GlobalStyle = c.GlobalStyle
	}
	if c.DecodeTimeout > 0 {
		kc.DecodeTimeout = c.DecodeTimeout
	}
	if c.DecodeConcurrency > 0 {
		kc.DecodeConcurrency = c.DecodeConcurrency
	}
	kc.CacheTTL = c.CacheTTL
	if c.MaxImageBytes > 0 {
		kc.MaxImageBytes = c.MaxImageBytes
	}
	kc.Cover = c.Cover
	kc.ShowMeta = c.ShowMeta
	if c.ProofScale > 0 {
		kc.ProofScale = c.ProofScale
	}
	return kc
}

// SlogLevel は LOG_LEVEL を slog.Level に変換するのだ。知らない値は Info なのだ。
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ストーリー入力関連
	Story     string // --story
	ChildFile string // --child-file (JSON/YAML)
	EditsFile string // --edits-file
	PackFile  string // --pack-file

	// 子どもの属性
	Name, Gender, Skin, Hair, Color, Animal, Town string

	// 画像入力関連
	ImageDir string // --image-dir

	// 出力関連
	OutputDir string   // --output-dir
	Formats   []string // --format
	Cover     bool     // --cover
	ShowMeta  bool     // --show-meta
}
