package publisher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// OutputWriter はデータを外部ストレージに保存するためのインターフェースです。
type OutputWriter interface {
	Write(ctx context.Context, path string, data []byte) error
}

// OutputRemover は書き込み済みのファイルを削除できる OutputWriter が実装します。
// BookPublisher は書き込みが途中で失敗した場合、これを使って書き出し済みの成果物を取り消します。
type OutputRemover interface {
	Remove(ctx context.Context, path string) error
}

// LocalWriter はローカルファイルシステムに書き出す OutputWriter です。
type LocalWriter struct{}

// NewLocalWriter は LocalWriter を返します。
func NewLocalWriter() *LocalWriter {
	return &LocalWriter{}
}

// Write は親ディレクトリを作成したうえでファイルを書き出します。
func (w *LocalWriter) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.Contains(path, "://") {
		return fmt.Errorf("local_writer: リモートパスには書き込めません: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("local_writer: ディレクトリの作成に失敗しました: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("local_writer: ファイルの書き込みに失敗しました: %w", err)
	}
	return nil
}

// Remove はファイルを削除します。既に存在しない場合は何もしません。
func (w *LocalWriter) Remove(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local_writer: ファイルの削除に失敗しました: %w", err)
	}
	return nil
}
