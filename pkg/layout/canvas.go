package layout

import (
	"errors"

	"github.com/shouni/go-picturebook-kit/pkg/intake"
)

// ErrCanvas は描画先でエラーが発生したことを表します。エクスポートは中断されます。
var ErrCanvas = errors.New("canvas failure")

// Canvas はページ描画の能力です。PDF や PNG などの出力形式ごとに実装されます。
// 座標は pt 単位、左上原点で、テキストの y はベースライン位置です。
type Canvas interface {
	TextMeasurer
	AddPage()
	DrawImage(bmp *intake.Bitmap, r Rect)
	DrawDashedRect(r Rect)
	DrawText(x, y, size float64, text string)
	Err() error
}
