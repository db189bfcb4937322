package publisher

import (
	"fmt"
	"strings"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
)

// BuildScript は台本とプロンプトをまとめたプレーンテキストを生成します。
func BuildScript(s *domain.Story) string {
	var sb strings.Builder
	a := s.Attributes

	if s.StoryID != "" {
		fmt.Fprintf(&sb, "Story: %s\n", s.StoryID)
		fmt.Fprintf(&sb, "Child: %s\n", a.Summary())
		fmt.Fprintf(&sb, "Color: %s • Animal: %s • Home: %s\n\n", a.Color, a.Animal, a.Town)
	} else {
		fmt.Fprintf(&sb, "Title: %s\n\n", s.Title)
	}
	if s.GlobalStyle != "" {
		fmt.Fprintf(&sb, "GLOBAL STYLE:\n%s\n\n", s.GlobalStyle)
	}
	if s.Consistency != "" {
		fmt.Fprintf(&sb, "CONSISTENCY:\n%s\n\n", s.Consistency)
	}

	blocks := make([]string, 0, len(s.Pages))
	for _, p := range s.Pages {
		blocks = append(blocks, fmt.Sprintf("Page %d\nText: %s\nPrompt: %s\n", p.Page, p.Caption, p.Prompt))
	}
	sb.WriteString(strings.Join(blocks, "\n"))
	return sb.String()
}
