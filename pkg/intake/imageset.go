package intake

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultDecodeConcurrency は並列デコードの既定の同時実行数です。
const DefaultDecodeConcurrency = 4

// ImageSet はページ番号ごとの画像データです。全ページが揃っている必要はありません。
// 呼び出し元が所有し、エクスポート時にだけ読み取られます。
type ImageSet struct {
	mu     sync.RWMutex
	images map[int][]byte
}

// NewImageSet は空の ImageSet を返します。
func NewImageSet() *ImageSet {
	return &ImageSet{images: make(map[int][]byte)}
}

// Put はページの画像を設定します。既存の画像は置き換えられます。
func (s *ImageSet) Put(page int, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[page] = data
}

// Clear はページの画像を取り除きます。画像がなくても何もしません。
func (s *ImageSet) Clear(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.images, page)
}

// Get はページの画像を返します。
func (s *ImageSet) Get(page int) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.images[page]
	return data, ok
}

// Pages は画像が設定されているページ番号を昇順で返します。
func (s *ImageSet) Pages() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pages := make([]int, 0, len(s.images))
	for p := range s.images {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// Len は画像が設定されているページ数を返します。
func (s *ImageSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}

// DecodeAll は ImageSet の全画像を並列でデコードします。
// デコードに失敗したページは警告を記録して結果から除外します（描画時はプレースホルダになります）。
// エラーを返すのはコンテキストがキャンセルされた場合だけです。
func DecodeAll(ctx context.Context, dec *Decoder, set *ImageSet, limit int) (map[int]*Bitmap, error) {
	result := make(map[int]*Bitmap)
	if set == nil || set.Len() == 0 {
		return result, nil
	}
	if limit <= 0 {
		limit = DefaultDecodeConcurrency
	}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for _, page := range set.Pages() {
		data, ok := set.Get(page)
		if !ok {
			continue
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			bmp, err := dec.Decode(egCtx, data)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				slog.Warn("Image could not be decoded, page will use a placeholder",
					"page", page, "bytes", len(data), "error", err)
				return nil
			}
			mu.Lock()
			result[page] = bmp
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
