package publisher

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/shouni/go-picturebook-kit/pkg/asset"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/prompts"
)

// PromptFile はプロンプトパックに含める1ファイルです。
type PromptFile struct {
	Name string
	Text string
}

// BuildPromptFiles はページごとのプロンプトファイルとまとめの Markdown を生成します。
func BuildPromptFiles(s *domain.Story) []PromptFile {
	files := make([]PromptFile, 0, len(s.Pages)+1)
	var combined strings.Builder

	heading := s.Label
	if heading == "" {
		heading = s.Title
	}
	fmt.Fprintf(&combined, "# %s — Prompts\n", heading)
	if s.StoryID != "" {
		a := s.Attributes
		fmt.Fprintf(&combined, "Child: %s • Color: %s • Animal: %s • Town: %s\n", a.Name, a.Color, a.Animal, a.Town)
	}
	combined.WriteString("\n")

	for i, p := range s.Pages {
		text := prompts.BuildPackPrompt(i, p.Prompt)
		files = append(files, PromptFile{Name: asset.PromptFileName(s.StoryID, p.Page), Text: text})
		fmt.Fprintf(&combined, "## Page %d\n\n%s\n\n---\n\n", p.Page, text)
	}
	return append(files, PromptFile{Name: asset.CombinedPromptsName, Text: combined.String()})
}

// BuildPromptPack はプロンプトファイル群を zip にまとめます。
func BuildPromptPack(s *domain.Story) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range BuildPromptFiles(s) {
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("zipエントリ %s の作成に失敗しました: %w", f.Name, err)
		}
		if _, err := w.Write([]byte(f.Text)); err != nil {
			return nil, fmt.Errorf("zipエントリ %s の書き込みに失敗しました: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zipの確定に失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}
