package builder

import (
	"context"
	"regexp"
	"testing"

	"github.com/shouni/go-picturebook-kit/internal/config"
	"github.com/shouni/go-picturebook-kit/pkg/catalog"
	"github.com/shouni/go-picturebook-kit/pkg/intake"
	"github.com/shouni/go-picturebook-kit/pkg/parser"
	"github.com/shouni/go-picturebook-kit/pkg/publisher"
)

var pdfPageRe = regexp.MustCompile(`/Type /Page\b`)

func testAppContext(t *testing.T, cover bool) *AppContext {
	t.Helper()
	cfg := &config.Config{Cover: cover}
	appCtx := NewAppContext(cfg, publisher.NewLocalWriter(), catalog.Default())
	return &appCtx
}

func TestBuildImportRunner(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		cover bool
	}{
		{"表紙設定がオフでも1ページのパックは1ページになること", `{"pages":[{"page":1,"script":"Hi","prompt":"p"}]}`, false},
		{"表紙設定がオンでも1ページのパックは1ページになること", `{"pages":[{"page":1,"script":"Hi","prompt":"p"}]}`, true},
		{"タイトル付きでも追加ページは作らないこと", `{"title":"Moon Picnic","pages":[{"page":1,"script":"Hi","prompt":"p"},{"page":2,"script":"Bye","prompt":"q"}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pack, err := parser.ParseStoryPack([]byte(tt.json))
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			r := BuildImportRunner(testAppContext(t, tt.cover))
			story, data, err := r.RenderPDF(context.Background(), pack, intake.NewImageSet())
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			if got := len(pdfPageRe.FindAll(data, -1)); got != story.PageCount() {
				t.Errorf("PDFのページ数: 期待値 %d, 実際の値 %d", story.PageCount(), got)
			}
		})
	}
}

func TestBuildExportRunner_Cover(t *testing.T) {
	t.Run("生成ストーリーは表紙設定に従うこと", func(t *testing.T) {
		if opts := testAppContext(t, true).Kit.LayoutOptions(); !opts.Cover {
			t.Error("表紙が有効になっていません")
		}
		if opts := testAppContext(t, false).Kit.LayoutOptions(); opts.Cover {
			t.Error("表紙が無効になっていません")
		}
	})
}
