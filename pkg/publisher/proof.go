package publisher

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/shouni/go-picturebook-kit/pkg/intake"
	"github.com/shouni/go-picturebook-kit/pkg/layout"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultProofScale は確認用 PNG の解像度です（1ptあたりのピクセル数）。
const DefaultProofScale = 1.0

var (
	proofFont     *truetype.Font
	proofFontOnce sync.Once
	proofFontErr  error
)

func loadProofFont() (*truetype.Font, error) {
	proofFontOnce.Do(func() {
		proofFont, proofFontErr = truetype.Parse(goregular.TTF)
	})
	return proofFont, proofFontErr
}

// ProofCanvas はページごとに PNG を描画する layout.Canvas の実装です。
// PDF と同じ描画指示を使うため、レイアウトの確認に使えます。
type ProofCanvas struct {
	tpl     layout.Template
	scale   float64
	font    *truetype.Font
	faces   map[float64]font.Face
	measure *gg.Context
	pages   []*gg.Context
	err     error
}

// NewProofCanvas は ProofCanvas を初期化します。scale が0以下の場合は既定値を使います。
func NewProofCanvas(tpl layout.Template, scale float64) (*ProofCanvas, error) {
	f, err := loadProofFont()
	if err != nil {
		return nil, fmt.Errorf("フォントの読み込みに失敗しました: %w", err)
	}
	if scale <= 0 {
		scale = DefaultProofScale
	}
	return &ProofCanvas{
		tpl:     tpl,
		scale:   scale,
		font:    f,
		faces:   make(map[float64]font.Face),
		measure: gg.NewContext(1, 1),
	}, nil
}

func (c *ProofCanvas) face(size float64) font.Face {
	px := size * c.scale
	if f, ok := c.faces[px]; ok {
		return f
	}
	f := truetype.NewFace(c.font, &truetype.Options{Size: px, DPI: 72, Hinting: font.HintingNone})
	c.faces[px] = f
	return f
}

func (c *ProofCanvas) current() *gg.Context {
	if len(c.pages) == 0 {
		if c.err == nil {
			c.err = errors.New("proof: AddPage の前に描画されました")
		}
		return nil
	}
	return c.pages[len(c.pages)-1]
}

// MeasureText は Go フォントでの文字列幅を pt で返します。
func (c *ProofCanvas) MeasureText(text string, size float64) float64 {
	c.measure.SetFontFace(c.face(size))
	w, _ := c.measure.MeasureString(text)
	return w / c.scale
}

// AddPage は白紙のページを追加します。
func (c *ProofCanvas) AddPage() {
	dc := gg.NewContext(int(c.tpl.PageWidth*c.scale), int(c.tpl.PageHeight*c.scale))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	c.pages = append(c.pages, dc)
}

// DrawImage は画像を描画矩形のサイズにリサンプリングして配置します。
func (c *ProofCanvas) DrawImage(bmp *intake.Bitmap, r layout.Rect) {
	dc := c.current()
	w, h := int(r.W*c.scale), int(r.H*c.scale)
	if dc == nil || w <= 0 || h <= 0 {
		return
	}
	resized := imaging.Resize(bmp.Image, w, h, imaging.Lanczos)
	dc.DrawImage(resized, int(r.X*c.scale), int(r.Y*c.scale))
}

// DrawDashedRect は灰色の破線で矩形を描きます。
func (c *ProofCanvas) DrawDashedRect(r layout.Rect) {
	dc := c.current()
	if dc == nil {
		return
	}
	dc.SetRGB255(180, 180, 180)
	dc.SetLineWidth(c.scale)
	dc.SetDash(5*c.scale, 5*c.scale)
	dc.DrawRectangle(r.X*c.scale, r.Y*c.scale, r.W*c.scale, r.H*c.scale)
	dc.Stroke()
	dc.SetDash()
}

// DrawText は y をベースラインとしてテキストを描画します。
func (c *ProofCanvas) DrawText(x, y, size float64, text string) {
	dc := c.current()
	if dc == nil {
		return
	}
	dc.SetFontFace(c.face(size))
	dc.SetRGB(0, 0, 0)
	dc.DrawString(text, x*c.scale, y*c.scale)
}

// Err は描画中に発生した最初のエラーを返します。
func (c *ProofCanvas) Err() error {
	return c.err
}

// PNGs は各ページを PNG にエンコードして返します。
func (c *ProofCanvas) PNGs() ([][]byte, error) {
	out := make([][]byte, 0, len(c.pages))
	for i, dc := range c.pages {
		var buf bytes.Buffer
		if err := dc.EncodePNG(&buf); err != nil {
			return nil, fmt.Errorf("確認用PNG %d ページ目のエンコードに失敗しました: %w", i+1, err)
		}
		out = append(out, buf.Bytes())
	}
	return out, nil
}
