package publisher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-picturebook-kit/pkg/asset"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/intake"
	"github.com/shouni/go-picturebook-kit/pkg/layout"
)

// Format は出力形式です。
type Format string

const (
	FormatPDF        Format = "pdf"
	FormatScript     Format = "script"
	FormatPromptPack Format = "prompt-pack"
	FormatSheet      Format = "sheet"
	FormatProof      Format = "proof"
)

// AllFormats は対応している全出力形式です。
var AllFormats = []Format{FormatPDF, FormatScript, FormatPromptPack, FormatSheet, FormatProof}

// ParseFormat は文字列を Format に変換します。
func ParseFormat(s string) (Format, error) {
	for _, f := range AllFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("未対応の出力形式です: %q", s)
}

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
	BaseName  string // 空の場合はストーリーから決定します
	Formats   []Format
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	PDFPath        string   `json:"pdf,omitempty"`
	ScriptPath     string   `json:"script,omitempty"`
	PromptPackPath string   `json:"promptPack,omitempty"`
	SheetPath      string   `json:"sheet,omitempty"`
	ProofPaths     []string `json:"proof,omitempty"`
}

// BookPublisher は成果物の生成と永続化を担います。
type BookPublisher struct {
	writer     OutputWriter
	assembler  *layout.Assembler
	proofScale float64
}

// PublisherOption は BookPublisher の任意設定です。
type PublisherOption func(*BookPublisher)

// WithProofScale は確認用 PNG の解像度を設定します。0 以下は無視されます。
func WithProofScale(scale float64) PublisherOption {
	return func(p *BookPublisher) {
		if scale > 0 {
			p.proofScale = scale
		}
	}
}

// NewBookPublisher は BookPublisher を初期化します。
func NewBookPublisher(writer OutputWriter, assembler *layout.Assembler, opts ...PublisherOption) *BookPublisher {
	p := &BookPublisher{
		writer:     writer,
		assembler:  assembler,
		proofScale: DefaultProofScale,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StoryBaseName はストーリーから出力ファイル名の接頭辞を決めます。
// 生成ストーリーは子どもの名前とストーリーID、取り込んだパックはタイトルを使います。
func StoryBaseName(s *domain.Story) string {
	if s.StoryID != "" {
		return asset.BaseName(s.Attributes.Name, s.StoryID)
	}
	return asset.BaseName(s.Title, "")
}

// RenderPDF はストーリーを PDF に描画して返します。途中で失敗した場合は何も返しません。
func (p *BookPublisher) RenderPDF(ctx context.Context, s *domain.Story, images map[int]*intake.Bitmap) ([]byte, error) {
	canvas := NewPDFCanvas(p.assembler.Template(), s.Title)
	if err := p.assembler.Assemble(ctx, canvas, s, images); err != nil {
		return nil, fmt.Errorf("PDFの組版に失敗しました: %w", err)
	}
	var buf bytes.Buffer
	if err := canvas.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderProof はストーリーをページごとの PNG に描画して返します。
func (p *BookPublisher) RenderProof(ctx context.Context, s *domain.Story, images map[int]*intake.Bitmap) ([][]byte, error) {
	canvas, err := NewProofCanvas(p.assembler.Template(), p.proofScale)
	if err != nil {
		return nil, err
	}
	if err := p.assembler.Assemble(ctx, canvas, s, images); err != nil {
		return nil, fmt.Errorf("確認用PNGの組版に失敗しました: %w", err)
	}
	return canvas.PNGs()
}

// Publish は指定された形式の成果物をすべて生成してから書き出します。
// いずれかの生成に失敗した場合は何も書き出しません。書き込みが途中で失敗した場合は
// 書き込み先が OutputRemover を実装していれば書き出し済みのファイルを削除します。
func (p *BookPublisher) Publish(ctx context.Context, s *domain.Story, images map[int]*intake.Bitmap, opts Options) (PublishResult, error) {
	result := PublishResult{}
	base := opts.BaseName
	if base == "" {
		base = StoryBaseName(s)
	}
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []Format{FormatPDF}
	}

	var staged []artifact
	stage := func(name string, data []byte) (string, error) {
		path, err := asset.ResolveOutputPath(opts.OutputDir, name)
		if err != nil {
			return "", fmt.Errorf("出力パスの解決に失敗しました: %w", err)
		}
		staged = append(staged, artifact{path: path, data: data})
		return path, nil
	}

	for _, f := range formats {
		var err error
		switch f {
		case FormatPDF:
			var data []byte
			if data, err = p.RenderPDF(ctx, s, images); err == nil {
				result.PDFPath, err = stage(base+asset.PictureBookSuffix, data)
			}
		case FormatScript:
			result.ScriptPath, err = stage(base+asset.ScriptSuffix, []byte(BuildScript(s)))
		case FormatPromptPack:
			var data []byte
			if data, err = BuildPromptPack(s); err == nil {
				result.PromptPackPath, err = stage(base+asset.PromptPackSuffix, data)
			}
		case FormatSheet:
			var data []byte
			if data, err = BuildSheet(s); err == nil {
				result.SheetPath, err = stage(base+asset.SheetSuffix, data)
			}
		case FormatProof:
			var proof []artifact
			if proof, err = p.stageProof(ctx, s, images, opts.OutputDir, base); err == nil {
				staged = append(staged, proof...)
				for _, a := range proof {
					result.ProofPaths = append(result.ProofPaths, a.path)
				}
			}
		default:
			err = fmt.Errorf("未対応の出力形式です: %q", f)
		}
		if err != nil {
			return PublishResult{}, fmt.Errorf("%s の生成に失敗しました: %w", f, err)
		}
	}

	written := make([]string, 0, len(staged))
	for _, a := range staged {
		if err := p.writer.Write(ctx, a.path, a.data); err != nil {
			p.rollback(ctx, written)
			return PublishResult{}, fmt.Errorf("ファイルの書き込みに失敗しました %s: %w", a.path, err)
		}
		written = append(written, a.path)
		slog.Info("Artifact written", "path", a.path, "bytes", len(a.data))
	}
	return result, nil
}

// rollback は書き出し済みの成果物を削除します。削除できない書き込み先では残ったファイルを警告します。
func (p *BookPublisher) rollback(ctx context.Context, written []string) {
	if len(written) == 0 {
		return
	}
	remover, ok := p.writer.(OutputRemover)
	if !ok {
		slog.Warn("Output writer cannot remove files, partial export left behind", "paths", written)
		return
	}
	// 書き込み失敗の原因がキャンセルでも削除はやり切ります
	ctx = context.WithoutCancel(ctx)
	for _, path := range written {
		if err := remover.Remove(ctx, path); err != nil {
			slog.Warn("Failed to remove partial artifact", "path", path, "error", err)
			continue
		}
		slog.Info("Partial artifact removed", "path", path)
	}
}

type artifact struct {
	path string
	data []byte
}

// stageProof は確認用 PNG を <base>_proof/page_N.png として積みます。
func (p *BookPublisher) stageProof(ctx context.Context, s *domain.Story, images map[int]*intake.Bitmap, outDir, base string) ([]artifact, error) {
	pngs, err := p.RenderProof(ctx, s, images)
	if err != nil {
		return nil, err
	}
	dir, err := asset.ResolveOutputPath(outDir, base+asset.ProofDirSuffix)
	if err != nil {
		return nil, err
	}
	proofBase, err := asset.ResolveOutputPath(dir, asset.DefaultProofFileName)
	if err != nil {
		return nil, err
	}
	out := make([]artifact, 0, len(pngs))
	for i, data := range pngs {
		path, err := asset.GenerateIndexedPath(proofBase, i+1)
		if err != nil {
			return nil, err
		}
		out = append(out, artifact{path: path, data: data})
	}
	return out, nil
}
