package layout

// US Letter 縦置きのテンプレート既定値です（単位は pt）。
const (
	LetterWidth            = 612.0
	LetterHeight           = 792.0
	DefaultMargin          = 28.0
	DefaultImageFraction   = 0.58
	DefaultTextGap         = 14.0
	DefaultCaptionSize     = 14.0
	DefaultFooterSize      = 9.0
	DefaultTitleSize       = 28.0
	DefaultLineSpacing     = 1.35
	DefaultPlaceholderText = "no illustration yet"
)

// Template はページの固定レイアウトです。
type Template struct {
	PageWidth       float64
	PageHeight      float64
	Margin          float64
	ImageFraction   float64 // 画像ボックスの高さのページ高さに対する比率
	TextGap         float64 // 画像ボックス下端からキャプションまでの間隔
	CaptionSize     float64
	FooterSize      float64
	TitleSize       float64
	LineSpacing     float64 // フォントサイズに対する行送りの倍率
	PlaceholderText string
}

// LetterPortrait は既定のテンプレートを返します。
func LetterPortrait() Template {
	return Template{
		PageWidth:       LetterWidth,
		PageHeight:      LetterHeight,
		Margin:          DefaultMargin,
		ImageFraction:   DefaultImageFraction,
		TextGap:         DefaultTextGap,
		CaptionSize:     DefaultCaptionSize,
		FooterSize:      DefaultFooterSize,
		TitleSize:       DefaultTitleSize,
		LineSpacing:     DefaultLineSpacing,
		PlaceholderText: DefaultPlaceholderText,
	}
}

// ImageBox は画像を描画する領域です。
func (t Template) ImageBox() Rect {
	return Rect{
		X: t.Margin,
		Y: t.Margin,
		W: t.PageWidth - 2*t.Margin,
		H: t.PageHeight * t.ImageFraction,
	}
}

// TextTop はキャプション1行目のベースライン位置です。
func (t Template) TextTop() float64 {
	box := t.ImageBox()
	return box.Y + box.H + t.TextGap
}

// TextWidth はキャプションの折り返し幅です。
func (t Template) TextWidth() float64 {
	return t.PageWidth - 2*t.Margin
}

// FooterY はフッターのベースライン位置です。
func (t Template) FooterY() float64 {
	return t.PageHeight - t.Margin
}

// LineHeight は指定サイズの行送りです。
func (t Template) LineHeight(size float64) float64 {
	return size * t.LineSpacing
}
