package publisher

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/shouni/go-picturebook-kit/pkg/intake"
	"github.com/shouni/go-picturebook-kit/pkg/layout"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	pdfFontFamily = "GoRegular"
	pdfCreator    = "go-picturebook-kit"
	// pdfImageScale は埋め込み画像の解像度です（描画サイズ1ptあたりのピクセル数）。
	pdfImageScale = 2.0
	jpegQuality   = 90
)

// PDFCanvas は gofpdf に描画する layout.Canvas の実装です。
type PDFCanvas struct {
	pdf    *gofpdf.Fpdf
	images int
}

// NewPDFCanvas はテンプレートのページサイズで PDF を初期化します。
func NewPDFCanvas(tpl layout.Template, title string) *PDFCanvas {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: tpl.PageWidth, Ht: tpl.PageHeight},
	})
	pdf.SetMargins(tpl.Margin, tpl.Margin, tpl.Margin)
	pdf.SetAutoPageBreak(false, tpl.Margin)
	pdf.SetTitle(pdfText(title), true)
	pdf.SetCreator(pdfCreator, true)
	// 名前などの属性はそのまま埋め込むため、プルーフと同じ Go フォントを UTF-8 で登録します。
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", goregular.TTF)
	pdf.SetFont(pdfFontFamily, "", tpl.CaptionSize)

	return &PDFCanvas{pdf: pdf}
}

// pdfText は gofpdf の UTF-16 変換が扱えない BMP 外の文字を置換文字にします。
func pdfText(text string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return unicode.ReplacementChar
		}
		return r
	}, text)
}

// MeasureText は登録したフォントでの文字列幅を pt で返します。
func (c *PDFCanvas) MeasureText(text string, size float64) float64 {
	c.pdf.SetFontSize(size)
	return c.pdf.GetStringWidth(pdfText(text))
}

// AddPage は新しいページを追加します。
func (c *PDFCanvas) AddPage() {
	c.pdf.AddPage()
}

// DrawImage は画像を描画サイズに合わせて縮小し、r に配置します。
func (c *PDFCanvas) DrawImage(bmp *intake.Bitmap, r layout.Rect) {
	if c.pdf.Err() || r.W <= 0 || r.H <= 0 {
		return
	}

	img := bmp.Image
	maxW, maxH := int(r.W*pdfImageScale), int(r.H*pdfImageScale)
	if bmp.Width > maxW || bmp.Height > maxH {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	format, imageType := imaging.PNG, "PNG"
	if bmp.Format == "jpeg" {
		format, imageType = imaging.JPEG, "JPG"
	}
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		c.pdf.SetError(fmt.Errorf("画像のエンコードに失敗しました: %w", err))
		return
	}

	c.images++
	name := fmt.Sprintf("img%d", c.images)
	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: false}
	c.pdf.RegisterImageOptionsReader(name, opts, &buf)
	c.pdf.ImageOptions(name, r.X, r.Y, r.W, r.H, false, opts, 0, "")
}

// DrawDashedRect は灰色の破線で矩形を描きます。
func (c *PDFCanvas) DrawDashedRect(r layout.Rect) {
	c.pdf.SetDrawColor(180, 180, 180)
	c.pdf.SetLineWidth(1)
	c.pdf.SetDashPattern([]float64{5, 5}, 0)
	c.pdf.Rect(r.X, r.Y, r.W, r.H, "D")
	c.pdf.SetDashPattern([]float64{}, 0)
	c.pdf.SetDrawColor(0, 0, 0)
}

// DrawText は y をベースラインとしてテキストを描画します。
func (c *PDFCanvas) DrawText(x, y, size float64, text string) {
	c.pdf.SetFontSize(size)
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.Text(x, y, pdfText(text))
}

// Err は描画中に発生した最初のエラーを返します。
func (c *PDFCanvas) Err() error {
	return c.pdf.Error()
}

// PageCount は追加済みのページ数を返します。
func (c *PDFCanvas) PageCount() int {
	return c.pdf.PageCount()
}

// Output は PDF を書き出します。書き出し後の Canvas は再利用できません。
func (c *PDFCanvas) Output(w io.Writer) error {
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("PDFの出力に失敗しました: %w", err)
	}
	return nil
}
