package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-picturebook-kit/internal/config"
	"github.com/shouni/go-picturebook-kit/pkg/asset"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/intake"
	"github.com/shouni/go-picturebook-kit/pkg/runner"

	"gopkg.in/yaml.v3"
)

// BuildExportRequest は CLI オプションから生成リクエストを組み立てるのだ。
// --child-file の値を土台にして、個別フラグが指定されていればそちらを優先するのだ。
func BuildExportRequest(opts config.GenerateOptions) (runner.ExportRequest, error) {
	req := runner.ExportRequest{StoryID: opts.Story}

	if opts.ChildFile != "" {
		child, err := LoadChild(opts.ChildFile)
		if err != nil {
			return runner.ExportRequest{}, err
		}
		req.Child = child
	}
	overlay(&req.Child.Name, opts.Name)
	overlay(&req.Child.Gender, opts.Gender)
	overlay(&req.Child.Skin, opts.Skin)
	overlay(&req.Child.Hair, opts.Hair)
	overlay(&req.Child.FavoriteColor, opts.Color)
	overlay(&req.Child.FavoriteAnimal, opts.Animal)
	overlay(&req.Child.HomeTown, opts.Town)

	if opts.EditsFile != "" {
		edits, err := LoadEdits(opts.EditsFile)
		if err != nil {
			return runner.ExportRequest{}, err
		}
		req.Edits = edits
	}
	return req, nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// LoadChild は子どもの属性を YAML か JSON のファイルから読むのだ。
func LoadChild(path string) (domain.ChildAttributes, error) {
	var child domain.ChildAttributes
	data, err := os.ReadFile(path)
	if err != nil {
		return child, fmt.Errorf("子どもの属性ファイルの読み込みに失敗したのだ (%s): %w", path, err)
	}
	// JSON は YAML としても読めるのだ
	if err := yaml.Unmarshal(data, &child); err != nil {
		return child, fmt.Errorf("子どもの属性ファイルの解析に失敗したのだ (%s): %w", path, err)
	}
	return child, nil
}

// LoadEdits は編集スナップショットの JSON を読むのだ。
func LoadEdits(path string) (*domain.Edits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("編集ファイルの読み込みに失敗したのだ (%s): %w", path, err)
	}
	var edits domain.Edits
	if err := json.Unmarshal(data, &edits); err != nil {
		return nil, fmt.Errorf("編集ファイルの解析に失敗したのだ (%s): %w", path, err)
	}
	return &edits, nil
}

// LoadImageDir は page_1.png のような名前の画像をページ番号ごとに読み込むのだ。
// dir が空なら空の ImageSet を返すのだ。同じページの画像が2つあればエラーなのだ。
func LoadImageDir(dir string) (*intake.ImageSet, error) {
	set := intake.NewImageSet()
	if dir == "" {
		return set, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("画像ディレクトリの読み込みに失敗したのだ (%s): %w", dir, err)
	}
	seen := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		page, ok := asset.ParsePageImageName(e.Name())
		if !ok {
			slog.Debug("ページ画像ではないので無視するのだ", "file", e.Name())
			continue
		}
		if prev, dup := seen[page]; dup {
			return nil, fmt.Errorf("%d ページの画像が重複しているのだ (%s と %s)", page, prev, e.Name())
		}
		seen[page] = e.Name()
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("画像の読み込みに失敗したのだ (%s): %w", e.Name(), err)
		}
		set.Put(page, data)
	}
	return set, nil
}
