package asset

import (
	"path/filepath"
	"testing"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		name, child, story, want string
	}{
		{"名前とストーリー", "Mia", "cowboy", "Mia_cowboy"},
		{"名前が空", "", "space", "storybook_space"},
		{"空白を含む名前", "Mary Jane", "forest", "Mary_Jane_forest"},
		{"記号のみの名前", "../??", "underwater", "storybook_underwater"},
		{"ストーリーなし", "My Book", "", "My_Book"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BaseName(tt.child, tt.story); got != tt.want {
				t.Errorf("BaseName(%q, %q) = %q, want %q", tt.child, tt.story, got, tt.want)
			}
		})
	}
}

func TestPromptFileName(t *testing.T) {
	if got := PromptFileName("space", 3); got != "space_p03.txt" {
		t.Errorf("PromptFileName() = %q", got)
	}
}

func TestParsePageImageName(t *testing.T) {
	tests := []struct {
		file string
		want int
		ok   bool
	}{
		{"page_1.png", 1, true},
		{"page-01.JPG", 1, true},
		{"Page10.jpeg", 10, true},
		{"3.webp", 3, true},
		{"cover.png", 0, false},
		{"page_0.png", 0, false},
		{"page_2.txt", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := ParsePageImageName(tt.file)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParsePageImageName(%q) = %d, %v", tt.file, got, ok)
			}
		})
	}
}

func TestParsePageField(t *testing.T) {
	tests := []struct {
		field string
		want  int
		ok    bool
	}{
		{"page_3", 3, true},
		{"PAGE-07", 7, true},
		{"request", 0, false},
		{"page_3.png", 0, false},
		{"page_", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := ParsePageField(tt.field)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParsePageField(%q) = %d, %v", tt.field, got, ok)
			}
		})
	}
}

func TestResolveOutputPath(t *testing.T) {
	got, err := ResolveOutputPath("output", "Mia_cowboy_picturebook.pdf")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if got != filepath.Join("output", "Mia_cowboy_picturebook.pdf") {
		t.Errorf("ResolveOutputPath() = %q", got)
	}
}
