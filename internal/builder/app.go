package builder

import (
	"github.com/shouni/go-picturebook-kit/internal/config"
	kitconfig "github.com/shouni/go-picturebook-kit/pkg/config"

	"github.com/shouni/go-picturebook-kit/pkg/catalog"
	"github.com/shouni/go-picturebook-kit/pkg/intake"
	"github.com/shouni/go-picturebook-kit/pkg/publisher"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config         // Configは、環境変数から読み込まれたグローバルな設定です。
	Options config.GenerateOptions // Optionsは、コマンドラインから渡された実行時の設定です（ストーリー、出力先など）。
	Kit     kitconfig.Config       // Kitは、pkg 側の Runner に渡す設定です。
	Writer  publisher.OutputWriter // Writerは、生成された成果物を保存するための出力先です。
	Catalog *catalog.Catalog       // Catalogは、ストーリーアーキタイプの一覧です。
	Decoder *intake.Decoder        // Decoderは、画像デコードのキャッシュを Runner 間で共有します。
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	writer publisher.OutputWriter,
	cat *catalog.Catalog,
) AppContext {
	kit := cfg.Kit()
	return AppContext{
		Config:  cfg,
		Options: cfg.Options,
		Kit:     kit,
		Writer:  writer,
		Catalog: cat,
		Decoder: intake.NewDecoder(kit.DecoderOptions()...),
	}
}
