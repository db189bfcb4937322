package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-picturebook-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、画像なしでページの文章とプロンプトを生成するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "ページごとの文章とイラスト用プロンプトを生成するのだ。",
	Long: `子どもの属性とストーリーの種類から、全ページのキャプション・プロンプト・ポーズ・シード値を
生成するのだ。既定では台本テキスト、プロンプトパック zip、Excel シートを書き出すのだよ。`,
	Example: "  picturebook generate --story space --name Mia --gender girl --skin tan --hair brown",
	Args:    cobra.NoArgs,
	RunE:    generateCommand,
}

func init() {
	addChildFlags(generateCmd)
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	slog.Info("ページ生成を起動するのだ！", "story", opts.Story, "output", cfg.OutputDir)
	if _, err := pipeline.ExecuteGenerate(ctx, cfg); err != nil {
		return fmt.Errorf("ページ生成中にエラーが発生したのだ: %w", err)
	}
	return nil
}
