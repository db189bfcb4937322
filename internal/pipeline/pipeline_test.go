package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shouni/go-picturebook-kit/internal/config"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/publisher"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("テストファイルの作成に失敗しました: %v", err)
	}
	return path
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("PNG のエンコードに失敗しました: %v", err)
	}
	return buf.Bytes()
}

func testConfig(t *testing.T, opts config.GenerateOptions) *config.Config {
	t.Helper()
	return &config.Config{
		OutputDir:         t.TempDir(),
		DecodeTimeout:     5 * time.Second,
		DecodeConcurrency: 2,
		Options:           opts,
	}
}

func TestBuildExportRequest(t *testing.T) {
	dir := t.TempDir()

	t.Run("YAML の属性にフラグが上書きされること", func(t *testing.T) {
		child := writeFile(t, dir, "child.yaml", []byte("name: Mia\ngender: girl\nfavoriteColor: red\n"))
		req, err := BuildExportRequest(config.GenerateOptions{Story: "space", ChildFile: child, Color: "green"})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		want := domain.ChildAttributes{Name: "Mia", Gender: "girl", FavoriteColor: "green"}
		if diff := cmp.Diff(want, req.Child); diff != "" {
			t.Errorf("Child mismatch (-want +got):\n%s", diff)
		}
		if req.StoryID != "space" || req.Edits != nil {
			t.Errorf("リクエストが不正です: %+v", req)
		}
	})

	t.Run("JSON の属性ファイルも読めること", func(t *testing.T) {
		child := writeFile(t, dir, "child.json", []byte(`{"name":"Leo","homeTown":"Austin"}`))
		req, err := BuildExportRequest(config.GenerateOptions{ChildFile: child})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if req.Child.Name != "Leo" || req.Child.HomeTown != "Austin" {
			t.Errorf("属性が読み込まれていません: %+v", req.Child)
		}
	})

	t.Run("編集ファイルが読み込まれること", func(t *testing.T) {
		edits := writeFile(t, dir, "edits.json", []byte(`{"story":"cowboy","pages":{"2":{"caption":"Mine"}}}`))
		req, err := BuildExportRequest(config.GenerateOptions{EditsFile: edits})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if req.Edits == nil || req.Edits.StoryID != "cowboy" || *req.Edits.Pages[2].Caption != "Mine" {
			t.Errorf("編集が読み込まれていません: %+v", req.Edits)
		}
	})

	t.Run("存在しない属性ファイルはエラーになること", func(t *testing.T) {
		if _, err := BuildExportRequest(config.GenerateOptions{ChildFile: filepath.Join(dir, "missing.yaml")}); err == nil {
			t.Error("エラーが返りませんでした")
		}
	})
}

func TestLoadImageDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "page_1.png", pngBytes(t))
	writeFile(t, dir, "page-03.JPG", []byte("jpeg-ish"))
	writeFile(t, dir, "notes.txt", []byte("ignore me"))
	if err := os.Mkdir(filepath.Join(dir, "page_2.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	set, err := LoadImageDir(dir)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if diff := cmp.Diff([]int{1, 3}, set.Pages()); diff != "" {
		t.Errorf("Pages mismatch (-want +got):\n%s", diff)
	}

	t.Run("空のディレクトリ指定は空集合になること", func(t *testing.T) {
		set, err := LoadImageDir("")
		if err != nil || set.Len() != 0 {
			t.Errorf("LoadImageDir(\"\") = %d, %v", set.Len(), err)
		}
	})

	t.Run("同じページの画像が2つあるとエラーになること", func(t *testing.T) {
		dup := t.TempDir()
		writeFile(t, dup, "page_1.png", pngBytes(t))
		writeFile(t, dup, "01.jpg", []byte("jpeg-ish"))
		_, err := LoadImageDir(dup)
		if err == nil {
			t.Fatal("エラーが返りませんでした")
		}
		if !strings.Contains(err.Error(), "01.jpg") || !strings.Contains(err.Error(), "page_1.png") {
			t.Errorf("重複したファイル名がエラーに含まれていません: %v", err)
		}
	})
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats([]string{"pdf", "sheet"})
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if diff := cmp.Diff([]publisher.Format{publisher.FormatPDF, publisher.FormatSheet}, got); diff != "" {
		t.Errorf("ParseFormats mismatch (-want +got):\n%s", diff)
	}
	if all, _ := ParseFormats([]string{"all"}); len(all) != len(publisher.AllFormats) {
		t.Errorf("all が全形式になっていません: %v", all)
	}
	if _, err := ParseFormats([]string{"docx"}); err == nil {
		t.Error("未対応の形式でエラーが返りませんでした")
	}
}

func TestExecuteGenerate(t *testing.T) {
	cfg := testConfig(t, config.GenerateOptions{Story: "underwater", Name: "Mia"})
	res, err := ExecuteGenerate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	for _, path := range []string{res.ScriptPath, res.PromptPackPath, res.SheetPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("成果物がありません: %s: %v", path, err)
		}
	}
	if res.PDFPath != "" {
		t.Errorf("既定では PDF を出力しないはずです: %s", res.PDFPath)
	}
	if filepath.Base(res.ScriptPath) != "Mia_underwater_script_prompts.txt" {
		t.Errorf("台本のファイル名が不正です: %s", res.ScriptPath)
	}
}

func TestExecuteExport(t *testing.T) {
	images := t.TempDir()
	writeFile(t, images, "page_2.png", pngBytes(t))

	cfg := testConfig(t, config.GenerateOptions{Story: "forest", Name: "Leo", ImageDir: images, Formats: []string{"pdf", "proof"}})
	res, err := ExecuteExport(context.Background(), cfg)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	data, err := os.ReadFile(res.PDFPath)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("PDFが書き出されていません: %v", err)
	}
	if len(res.ProofPaths) != 9 {
		t.Errorf("確認用 PNG の数: 期待値 9, 実際の値 %d", len(res.ProofPaths))
	}
}

func TestExecuteImport(t *testing.T) {
	dir := t.TempDir()
	pack := writeFile(t, dir, "pack.json", []byte(`{"title":"Moon Trip","pages":[{"page":1,"script":"Hi","prompt":"P"}]}`))

	cfg := testConfig(t, config.GenerateOptions{PackFile: pack})
	res, err := ExecuteImport(context.Background(), cfg)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if filepath.Base(res.PDFPath) != "Moon_Trip_picturebook.pdf" {
		t.Errorf("PDFのファイル名が不正です: %s", res.PDFPath)
	}

	t.Run("不正なパックはエラーになること", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.json", []byte(`{"title":"x"}`))
		cfg := testConfig(t, config.GenerateOptions{PackFile: bad})
		if _, err := ExecuteImport(context.Background(), cfg); err == nil {
			t.Error("エラーが返りませんでした")
		}
	})
}
