package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-picturebook-kit/internal/config"

	"github.com/spf13/cobra"
)

const appName = "picturebook"

// opts は全サブコマンドで共有する CLI フラグの値なのだ。
var opts config.GenerateOptions

// logLevel は --log-level の値なのだ。空なら環境変数に従うのだ。
var logLevel string

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "子どもの属性から絵本の台本・プロンプト・PDFを作るのだ。",
	Long: `子どもの名前や好きなものとストーリーの種類から、ページごとの文章と
イラスト用プロンプトを決定的に生成するのだ。画像を渡せば印刷用の PDF にまとめるのだよ。`,
	SilenceUsage: true,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "成果物の保存先ディレクトリなのだ。")
	rootCmd.PersistentFlags().StringSliceVar(&opts.Formats, "format", nil, "出力形式 (pdf, script, prompt-pack, sheet, proof, all) なのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.Cover, "cover", true, "PDF の先頭に表紙ページを付けるのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.ShowMeta, "show-meta", false, "フッターにポーズとシード値を載せるのだ。")

	// --- 画像入力 ---
	rootCmd.PersistentFlags().StringVarP(&opts.ImageDir, "image-dir", "i", "", "page_1.png のような名前のページ画像があるディレクトリなのだ。")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "ログレベル (debug, info, warn, error) なのだ。")
}

// addChildFlags はストーリー生成に使う子どもの属性フラグを定義するのだ。
func addChildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&opts.Story, "story", "s", config.DefaultStory, "ストーリーの種類 (cowboy, space, underwater, forest) なのだ。")
	f.StringVarP(&opts.ChildFile, "child-file", "c", "", "子どもの属性を書いた YAML/JSON ファイルなのだ。")
	f.StringVar(&opts.EditsFile, "edits-file", "", "手で直したキャプションやプロンプトの JSON なのだ。")
	f.StringVarP(&opts.Name, "name", "n", "", "子どもの名前なのだ。")
	f.StringVar(&opts.Gender, "gender", "", "性別 (girl, boy など) なのだ。")
	f.StringVar(&opts.Skin, "skin", "", "肌の色 (tan など) なのだ。")
	f.StringVar(&opts.Hair, "hair", "", "髪の色 (brown など) なのだ。")
	f.StringVar(&opts.Color, "color", "", "好きな色なのだ。")
	f.StringVar(&opts.Animal, "animal", "", "好きな動物なのだ。")
	f.StringVar(&opts.Town, "town", "", "住んでいる町なのだ。")
}

// loadConfig は環境変数を読み込み、明示されたフラグで上書きしてからロガーを設定するのだ。
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.OutputDir = opts.OutputDir
	}
	if flags.Changed("cover") {
		cfg.Cover = opts.Cover
	}
	if flags.Changed("show-meta") {
		cfg.ShowMeta = opts.ShowMeta
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	cfg.Options = opts

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return cfg, nil
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(storiesCmd, generateCmd, exportCmd, importCmd, serveCmd)
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
// Ctrl+C で ctx がキャンセルされ、デコードや組版が途中で止まるのだ。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
