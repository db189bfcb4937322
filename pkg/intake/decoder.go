package intake

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"github.com/patrickmn/go-cache"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// ErrDecode は画像のデコードに失敗したことを表します。該当ページはプレースホルダで描画されます。
var ErrDecode = errors.New("image decode failed")

const (
	DefaultDecodeTimeout  = 10 * time.Second
	DefaultCacheTTL       = 30 * time.Minute
	DefaultCacheCleanup   = 10 * time.Minute
	DefaultMaxImageBytes  = 32 << 20
	DefaultMaxImagePixels = 64_000_000
)

// Bitmap はデコード済みの画像です。
type Bitmap struct {
	Image  image.Image
	Width  int
	Height int
	Format string // "png", "jpeg", "webp" など
	Source []byte
}

// Decoder は画像バイト列をデコードし、同一内容の再デコードをキャッシュで省略します。
type Decoder struct {
	cache     *cache.Cache
	group     singleflight.Group
	timeout   time.Duration
	maxBytes  int
	maxPixels int
}

// DecoderOption は Decoder の設定を変更します。
type DecoderOption func(*Decoder)

// WithTimeout は1枚あたりのデコード時間の上限を設定します。
func WithTimeout(d time.Duration) DecoderOption {
	return func(dec *Decoder) {
		if d > 0 {
			dec.timeout = d
		}
	}
}

// WithCacheTTL はデコード結果の保持期間を設定します。
func WithCacheTTL(ttl time.Duration) DecoderOption {
	return func(dec *Decoder) {
		dec.cache = cache.New(ttl, DefaultCacheCleanup)
	}
}

// WithMaxBytes は受け付ける画像データの最大サイズを設定します。
func WithMaxBytes(n int) DecoderOption {
	return func(dec *Decoder) {
		if n > 0 {
			dec.maxBytes = n
		}
	}
}

// NewDecoder は Decoder を初期化します。
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		cache:     cache.New(DefaultCacheTTL, DefaultCacheCleanup),
		timeout:   DefaultDecodeTimeout,
		maxBytes:  DefaultMaxImageBytes,
		maxPixels: DefaultMaxImagePixels,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type decodeResult struct {
	bmp *Bitmap
	err error
}

// Decode は画像をデコードします。EXIF の向き情報は反映されます。
// 失敗した場合は ErrDecode をラップしたエラーを返します。
func (d *Decoder) Decode(ctx context.Context, data []byte) (*Bitmap, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrDecode)
	}
	if len(data) > d.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit %d", ErrDecode, len(data), d.maxBytes)
	}

	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if cached, found := d.cache.Get(key); found {
		return cached.(*Bitmap), nil
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan decodeResult, 1)
	go func() {
		// 同じ内容の画像が並行して渡された場合は1回だけデコードします
		v, err, _ := d.group.Do(key, func() (interface{}, error) {
			if cached, found := d.cache.Get(key); found {
				return cached, nil
			}
			bmp, err := d.decode(data)
			if err != nil {
				return nil, err
			}
			d.cache.Set(key, bmp, cache.DefaultExpiration)
			return bmp, nil
		})
		if err != nil {
			done <- decodeResult{err: err}
			return
		}
		bmp, ok := v.(*Bitmap)
		if !ok {
			done <- decodeResult{err: fmt.Errorf("%w: unexpected result type %T", ErrDecode, v)}
			return
		}
		done <- decodeResult{bmp: bmp}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrDecode, ctx.Err())
	case res := <-done:
		return res.bmp, res.err
	}
}

func (d *Decoder) decode(data []byte) (*Bitmap, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrDecode, cfg.Width, cfg.Height)
	}
	if cfg.Width*cfg.Height > d.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds pixel limit", ErrDecode, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	b := img.Bounds()
	slog.Debug("Image decoded", "format", format, "width", b.Dx(), "height", b.Dy())

	return &Bitmap{
		Image:  img,
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: format,
		Source: data,
	}, nil
}

// CachedCount はキャッシュされているデコード結果の件数を返します。
func (d *Decoder) CachedCount() int {
	return d.cache.ItemCount()
}
