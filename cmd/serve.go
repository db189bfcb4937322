package cmd

import (
	"github.com/shouni/go-picturebook-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

var addr string

// serveCmd は、フォームの代わりになる HTTP API を起動するのだ。
var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "絵本生成の HTTP API を起動するのだ。",
	Example: "  picturebook serve --addr :8080",
	Args:    cobra.NoArgs,
	RunE:    serveCommand,
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "待ち受けアドレスなのだ。省略時は PICTUREBOOK_ADDR を使うのだ。")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	return pipeline.Serve(cmd.Context(), cfg)
}
