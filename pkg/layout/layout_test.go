package layout

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/intake"
)

// fakeCanvas は描画呼び出しを記録するテスト用の Canvas です。
type fakeCanvas struct {
	pages     int
	ops       []string
	failAfter int // このページ数を超えたらエラーを報告する（0は無効）
}

func (c *fakeCanvas) MeasureText(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * 0.5
}

func (c *fakeCanvas) AddPage() {
	c.pages++
	c.ops = append(c.ops, "page")
}

func (c *fakeCanvas) DrawImage(bmp *intake.Bitmap, r Rect) {
	c.ops = append(c.ops, fmt.Sprintf("image %dx%d", bmp.Width, bmp.Height))
}

func (c *fakeCanvas) DrawDashedRect(r Rect) {
	c.ops = append(c.ops, "dashed")
}

func (c *fakeCanvas) DrawText(x, y, size float64, text string) {
	c.ops = append(c.ops, "text "+text)
}

func (c *fakeCanvas) Err() error {
	if c.failAfter > 0 && c.pages > c.failAfter {
		return errors.New("disk full")
	}
	return nil
}

func (c *fakeCanvas) count(prefix string) int {
	n := 0
	for _, op := range c.ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}

func testStory(n int) *domain.Story {
	s := &domain.Story{StoryID: "cowboy", Title: "Mia and the Gentle Horse", Label: "Cowboy Adventure"}
	for i := 1; i <= n; i++ {
		s.Pages = append(s.Pages, domain.GeneratedPage{
			Page:    i,
			Caption: fmt.Sprintf("Caption for page %d with a few words to wrap around.", i),
			Pose:    "pose",
			Seed:    int64(1000 + i),
		})
	}
	return s
}

func bitmap(w, h int) *intake.Bitmap {
	return &intake.Bitmap{Image: image.NewRGBA(image.Rect(0, 0, w, h)), Width: w, Height: h}
}

func TestAspectFit(t *testing.T) {
	box := Rect{X: 28, Y: 28, W: 556, H: 459.36}
	dims := [][2]int{{1, 1}, {1920, 1080}, {1080, 1920}, {3000, 10}, {10, 3000}, {556, 459}, {7, 13}, {4096, 4095}}

	for _, d := range dims {
		t.Run(fmt.Sprintf("%dx%d", d[0], d[1]), func(t *testing.T) {
			r := AspectFit(d[0], d[1], box)
			if r.W > box.W+1e-9 || r.H > box.H+1e-9 {
				t.Errorf("box をはみ出しています: %+v", r)
			}
			if got, want := r.W/r.H, float64(d[0])/float64(d[1]); math.Abs(got-want)/want > 1e-9 {
				t.Errorf("縦横比が保たれていません: got %f want %f", got, want)
			}
			if math.Abs((r.X-box.X)-(box.X+box.W-(r.X+r.W))) > 1e-9 {
				t.Errorf("水平中央に配置されていません: %+v", r)
			}
			if !(math.Abs(r.W-box.W) < 1e-9 || math.Abs(r.H-box.H) < 1e-9) {
				t.Errorf("最大サイズまで拡大されていません: %+v", r)
			}
		})
	}

	t.Run("サイズ0の画像は空の矩形になること", func(t *testing.T) {
		if r := AspectFit(0, 10, box); r.W != 0 || r.H != 0 {
			t.Errorf("AspectFit(0, 10) = %+v", r)
		}
	})
}

func TestWrapText(t *testing.T) {
	m := &fakeCanvas{}

	t.Run("幅に収まるように折り返すこと", func(t *testing.T) {
		lines := WrapText(m, "one two three four five six", 10, 60) // 12文字まで
		for _, l := range lines {
			if m.MeasureText(l, 10) > 60 {
				t.Errorf("幅を超える行があります: %q", l)
			}
		}
		if strings.Join(lines, " ") != "one two three four five six" {
			t.Errorf("単語が失われています: %v", lines)
		}
	})

	t.Run("長い単語は文字単位で分割すること", func(t *testing.T) {
		lines := WrapText(m, "abcdefghijklmnopqrstuvwxyz", 10, 50)
		if len(lines) != 3 || lines[0] != "abcdefghij" {
			t.Errorf("WrapText() = %v", lines)
		}
	})

	t.Run("改行は段落として維持されること", func(t *testing.T) {
		lines := WrapText(m, "Hi\n\nBye", 10, 100)
		if len(lines) != 3 || lines[1] != "" {
			t.Errorf("WrapText() = %q", lines)
		}
	})

	t.Run("空文字は行を作らないこと", func(t *testing.T) {
		if lines := WrapText(m, "  ", 10, 100); lines != nil {
			t.Errorf("WrapText() = %q", lines)
		}
	})
}

func TestAssembler_Assemble(t *testing.T) {
	ctx := context.Background()
	tpl := LetterPortrait()

	t.Run("画像がなくても全ページがプレースホルダ付きで出力されること", func(t *testing.T) {
		c := &fakeCanvas{}
		err := NewAssembler(tpl, Options{}).Assemble(ctx, c, testStory(8), map[int]*intake.Bitmap{})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if c.pages != 8 {
			t.Errorf("期待値 8ページ, 実際の値 %d", c.pages)
		}
		if got := c.count("dashed"); got != 8 {
			t.Errorf("期待値 8個のプレースホルダ, 実際の値 %d", got)
		}
		if got := c.count("text " + DefaultPlaceholderText); got != 8 {
			t.Errorf("プレースホルダの文言が %d 回しか描画されていません", got)
		}
	})

	t.Run("ページ順と画像の割り当てが保たれること", func(t *testing.T) {
		c := &fakeCanvas{}
		images := map[int]*intake.Bitmap{2: bitmap(300, 200), 3: bitmap(0, 0)}
		if err := NewAssembler(tpl, Options{}).Assemble(ctx, c, testStory(3), images); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		var footers []string
		for _, op := range c.ops {
			if strings.HasPrefix(op, "text Page ") {
				footers = append(footers, strings.TrimPrefix(op, "text "))
			}
		}
		if strings.Join(footers, ",") != "Page 1,Page 2,Page 3" {
			t.Errorf("フッターの順序が不正です: %v", footers)
		}
		if c.count("image 300x200") != 1 || c.count("dashed") != 2 {
			t.Errorf("画像とプレースホルダの割り当てが不正です: %v", c.ops)
		}
	})

	t.Run("表紙とメタ情報が描画されること", func(t *testing.T) {
		c := &fakeCanvas{}
		err := NewAssembler(tpl, Options{Cover: true, ShowMeta: true}).Assemble(ctx, c, testStory(2), nil)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if c.pages != 3 {
			t.Errorf("期待値 3ページ, 実際の値 %d", c.pages)
		}
		if c.count("text Mia and the Gentle Horse") != 1 || c.count("text Pages: 2") != 1 {
			t.Errorf("表紙の内容が不正です: %v", c.ops)
		}
		if c.count("text Page 1 | pose: pose | seed: 1001") != 1 {
			t.Errorf("フッターにメタ情報がありません: %v", c.ops)
		}
	})

	t.Run("タイトル見出しは1ページ目に描かれページを増やさないこと", func(t *testing.T) {
		c := &fakeCanvas{}
		s := testStory(2)
		if err := NewAssembler(tpl, Options{TitleHeading: true}).Assemble(ctx, c, s, nil); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if c.pages != 2 {
			t.Errorf("期待値 2ページ, 実際の値 %d", c.pages)
		}
		if got := c.count("text " + s.Title); got != 1 {
			t.Errorf("タイトルの描画回数: 期待値 1, 実際の値 %d", got)
		}
		first := strings.Index(strings.Join(c.ops, "\n"), "text "+s.Title)
		second := strings.Index(strings.Join(c.ops, "\n"), "text Page 2")
		if first < 0 || second < first {
			t.Errorf("タイトルが1ページ目にありません: %v", c.ops)
		}

		plans := Plan(tpl, Options{TitleHeading: true}, s, nil, c)
		box := tpl.ImageBox()
		if plans[0].BoxRect.Y <= box.Y || math.Abs(plans[0].BoxRect.Y+plans[0].BoxRect.H-(box.Y+box.H)) > 1e-9 {
			t.Errorf("見出しの分だけ画像ボックスが詰められていません: %+v", plans[0].BoxRect)
		}
		if plans[1].BoxRect != box {
			t.Errorf("2ページ目の画像ボックスが変わっています: %+v", plans[1].BoxRect)
		}
	})

	t.Run("タイトルが空なら見出しを描かないこと", func(t *testing.T) {
		s := testStory(1)
		s.Title = ""
		plans := Plan(tpl, Options{TitleHeading: true}, s, nil, &fakeCanvas{})
		if len(plans) != 1 || plans[0].BoxRect != tpl.ImageBox() {
			t.Errorf("見出しなしのページ構成が不正です: %+v", plans)
		}
	})

	t.Run("描画先のエラーで中断されること", func(t *testing.T) {
		c := &fakeCanvas{failAfter: 2}
		err := NewAssembler(tpl, Options{}).Assemble(ctx, c, testStory(5), nil)
		if !errors.Is(err, ErrCanvas) {
			t.Fatalf("期待値 ErrCanvas, 実際の値 %v", err)
		}
		if c.pages != 3 {
			t.Errorf("エラー後もページが追加されています: %d", c.pages)
		}
	})

	t.Run("キャンセル済みのコンテキストでは描画しないこと", func(t *testing.T) {
		c := &fakeCanvas{}
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := NewAssembler(tpl, Options{}).Assemble(cctx, c, testStory(2), nil)
		if !errors.Is(err, context.Canceled) || c.pages != 0 {
			t.Errorf("Assemble() = %v, pages = %d", err, c.pages)
		}
	})
}

func TestPlan_CaptionFits(t *testing.T) {
	tpl := LetterPortrait()
	m := &fakeCanvas{}
	s := testStory(1)
	s.Pages[0].Caption = strings.Repeat("word ", 2000)

	plans := Plan(tpl, Options{}, s, nil, m)
	p := plans[0]
	if !p.Truncated {
		t.Error("収まらないキャプションが truncated になっていません")
	}
	for _, line := range p.Texts {
		if line.Y > tpl.FooterY() {
			t.Errorf("キャプションがフッターより下にあります: y=%f", line.Y)
		}
		if line.X+m.MeasureText(line.Text, line.Size) > tpl.PageWidth-tpl.Margin+1e-9 && line.Text != DefaultPlaceholderText {
			t.Errorf("キャプションが右余白にはみ出しています: %q", line.Text)
		}
	}
}
