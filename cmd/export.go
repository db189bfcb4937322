package cmd

import (
	"fmt"

	"github.com/shouni/go-picturebook-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// exportCmd は、ページ画像を読み込んで絵本の PDF を組むのだ。
// 画像の無いページや読めない画像のページは点線の枠になるのだ。
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "ページ画像と生成した文章から絵本の PDF を作るのだ。",
	Long: `--image-dir にある page_1.png, page_2.jpg ... を各ページに割り当てて PDF にするのだ。
--format proof を付けると、同じレイアウトの確認用 PNG も書き出すのだよ。`,
	Example: "  picturebook export --story cowboy --name Mia -i ./art -o ./output --format pdf,proof",
	Args:    cobra.NoArgs,
	RunE:    exportCommand,
}

func init() {
	addChildFlags(exportCmd)
}

func exportCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := pipeline.ExecuteExport(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("絵本の書き出しに失敗したのだ: %w", err)
	}
	return nil
}
