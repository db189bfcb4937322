package cmd

import (
	"fmt"

	"github.com/shouni/go-picturebook-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// importCmd は、外部で作ったストーリーパック JSON を絵本にするのだ。
var importCmd = &cobra.Command{
	Use:   "import <pack.json>",
	Short: "ストーリーパック JSON を取り込んで PDF にするのだ。",
	Long: `{"title": "...", "pages": [{"page": 1, "script": "...", "prompt": "..."}]} の形の JSON を
読み込み、生成したストーリーと同じレイアウトで書き出すのだ。pages が配列でなければエラーなのだ。`,
	Example: "  picturebook import pack.json -i ./art",
	Args:    cobra.ExactArgs(1),
	RunE:    importCommand,
}

func importCommand(cmd *cobra.Command, args []string) error {
	opts.PackFile = args[0]
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := pipeline.ExecuteImport(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("ストーリーパックの取り込みに失敗したのだ: %w", err)
	}
	return nil
}
