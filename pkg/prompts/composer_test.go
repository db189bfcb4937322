package prompts

import (
	"strings"
	"testing"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
)

func TestComposePrompt(t *testing.T) {
	got := ComposePrompt("STYLE", "CONSISTENCY", "a kid on a horse")
	want := "STYLE\n\nCONSISTENCY\n\nScene: a kid on a horse"
	if got != want {
		t.Errorf("ComposePrompt() = %q, want %q", got, want)
	}

	t.Run("長いシーンでも切り詰められないこと", func(t *testing.T) {
		scene := strings.Repeat("x", 10000)
		if got := ComposePrompt("S", "C", scene); !strings.HasSuffix(got, scene) {
			t.Error("シーンが切り詰められています")
		}
	})
}

func TestBuildConsistencyBlock(t *testing.T) {
	d := domain.DisplayAttributes{
		Name: "Mia", Gender: "girl", Skin: "tan skin", Hair: "brown hair",
		Color: "purple", Animal: "bunny", Town: "Columbia",
	}
	block := BuildConsistencyBlock(d, "purple cowboy hat", "a ranch")

	for _, want := range []string{
		"Consistency: Mia is a girl with tan skin and brown hair.",
		"purple cowboy hat (accent color purple)",
		"Favorite animal (bunny)",
		"Setting references Columbia: a ranch.",
		FramingGuidance,
	} {
		if !strings.Contains(block, want) {
			t.Errorf("一貫性ブロックに %q が含まれていません: %s", want, block)
		}
	}

	t.Run("衣装と舞台が空でも文が成立すること", func(t *testing.T) {
		b := BuildConsistencyBlock(d, "", "")
		if !strings.Contains(b, "outfit/accent color (purple)") || !strings.Contains(b, "Setting references Columbia.") {
			t.Errorf("簡易形式になっていません: %s", b)
		}
	})
}

func TestSeedTable_Assign(t *testing.T) {
	table := SeedTable{18733, 22119, 33007, 44011, 55001, 66013, 77021, 88031}

	tests := []struct {
		name     string
		position int
		want     int64
	}{
		{"先頭", 0, 18733},
		{"末尾", 7, 88031},
		{"表を超えると循環すること", 8, 18733},
		{"10ページ目", 9, 22119},
		{"負の位置は先頭", -3, 18733},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Assign(tt.position); got != tt.want {
				t.Errorf("Assign(%d) = %d, want %d", tt.position, got, tt.want)
			}
		})
	}

	t.Run("空の表は0を返すこと", func(t *testing.T) {
		if got := SeedTable(nil).Assign(3); got != 0 {
			t.Errorf("期待値 0, 実際の値 %d", got)
		}
	})
}

func TestBuildPackPrompt(t *testing.T) {
	got := BuildPackPrompt(3, "PROMPT")
	if !strings.Contains(got, "LARGE CLEAR SKY AT TOP") {
		t.Errorf("文字領域の指定が不正です: %s", got)
	}
	if !strings.Contains(got, "\n\nPROMPT\n\n") || !strings.HasSuffix(got, AvoidList) {
		t.Errorf("プロンプトの構成が不正です: %s", got)
	}
	if !strings.Contains(BuildPackPrompt(9, "P"), ClearAreas[1]) {
		t.Error("位置が循環していません")
	}
}
