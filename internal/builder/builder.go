package builder

import (
	"github.com/shouni/go-picturebook-kit/pkg/generator"
	"github.com/shouni/go-picturebook-kit/pkg/layout"
	"github.com/shouni/go-picturebook-kit/pkg/publisher"
	"github.com/shouni/go-picturebook-kit/pkg/runner"
)

// BuildPageGenerator はカタログと画風からページ生成器を構築します。
func BuildPageGenerator(appCtx *AppContext) *generator.PageGenerator {
	return generator.NewPageGenerator(appCtx.Catalog, appCtx.Kit.GlobalStyle)
}

// BuildPublisher は指定したページ構成で BookPublisher を構築します。
func BuildPublisher(appCtx *AppContext, opts layout.Options) *publisher.BookPublisher {
	asm := layout.NewAssembler(layout.LetterPortrait(), opts)
	return publisher.NewBookPublisher(appCtx.Writer, asm, publisher.WithProofScale(appCtx.Kit.ProofScale))
}

// BuildExportRunner は生成ストーリーの書き出しを担当する Runner を構築します。
func BuildExportRunner(appCtx *AppContext) *runner.ExportRunner {
	return BuildExportRunnerWith(appCtx, appCtx.Kit.LayoutOptions())
}

// BuildExportRunnerWith はページ構成を上書きして ExportRunner を構築します。CLI フラグ用です。
func BuildExportRunnerWith(appCtx *AppContext, opts layout.Options) *runner.ExportRunner {
	return runner.NewExportRunner(
		BuildPageGenerator(appCtx),
		appCtx.Decoder,
		BuildPublisher(appCtx, opts),
		appCtx.Kit.DecodeConcurrency,
	)
}

// BuildImportRunner は取り込んだパックの書き出しを担当する Runner を構築します。
func BuildImportRunner(appCtx *AppContext) *runner.ImportRunner {
	return runner.NewImportRunner(
		appCtx.Decoder,
		BuildPublisher(appCtx, appCtx.Kit.ImportLayoutOptions()),
		appCtx.Kit.DecodeConcurrency,
	)
}
