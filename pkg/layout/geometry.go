package layout

// Rect はページ座標系（pt、左上原点）での矩形です。
type Rect struct {
	X, Y, W, H float64
}

// AspectFit は w×h の画像を box に収まる最大サイズへ縦横比を保って縮尺し、
// box 内で水平中央・上揃えに配置した描画矩形を返します。
// 幅か高さが0以下の画像は描画できないため、box の原点にサイズ0の矩形を返します。
func AspectFit(w, h int, box Rect) Rect {
	if w <= 0 || h <= 0 || box.W <= 0 || box.H <= 0 {
		return Rect{X: box.X, Y: box.Y}
	}
	scale := box.W / float64(w)
	if s := box.H / float64(h); s < scale {
		scale = s
	}
	dw := float64(w) * scale
	dh := float64(h) * scale
	// 浮動小数点の誤差で box をはみ出さないように丸めます。
	if dw > box.W {
		dw = box.W
	}
	if dh > box.H {
		dh = box.H
	}
	return Rect{
		X: box.X + (box.W-dw)/2,
		Y: box.Y,
		W: dw,
		H: dh,
	}
}
