package asset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultBaseName は子どもの名前やタイトルが空のときに使うファイル名の接頭辞です。
	DefaultBaseName = "storybook"
	// PictureBookSuffix は絵本PDFのファイル名の接尾辞です。
	PictureBookSuffix = "_picturebook.pdf"
	// ScriptSuffix は台本とプロンプトのテキストのファイル名の接尾辞です。
	ScriptSuffix = "_script_prompts.txt"
	// PromptPackSuffix はプロンプトパック zip のファイル名の接尾辞です。
	PromptPackSuffix = "_prompt_pack.zip"
	// SheetSuffix はプロンプトシートのファイル名の接尾辞です。
	SheetSuffix = "_prompts.xlsx"
	// ProofDirSuffix はレイアウト確認用 PNG を置くディレクトリの接尾辞です。
	ProofDirSuffix = "_proof"
	// DefaultProofFileName は確認用 PNG の共通のベースファイル名です。
	DefaultProofFileName = "page.png"
	// CombinedPromptsName はプロンプトパック内の全ページまとめファイル名です。
	CombinedPromptsName = "ALL_PROMPTS.md"
)

// PageImageRegex は入力ディレクトリ内のページ画像 (page_1.png, page-01.jpg, 3.webp 等) に一致します。
var PageImageRegex = regexp.MustCompile(`(?i)^(?:page[_-]?)?0*(\d+)\.(?:png|jpe?g|gif|webp|bmp|tiff?)$`)

// PageFieldRegex はアップロードフォームのページ画像フィールド名 (page_1, page-02) に一致します。
var PageFieldRegex = regexp.MustCompile(`(?i)^page[_-]?0*(\d+)$`)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolveOutputPath(baseDir, fileName)
}

// GenerateIndexedPath は、指定されたベースパスの拡張子の前に連番を挿入し、
// 新しいパス文字列を生成します。index は1以上の整数である必要があります。
// 例: "out/mia_cowboy_proof/page.png", 1 -> "out/mia_cowboy_proof/page_1.png"
func GenerateIndexedPath(basePath string, index int) (string, error) {
	return urlpath.GenerateIndexedPath(basePath, index)
}

// BaseName は子どもの名前とストーリーIDから "Mia_cowboy" のようなファイル名の接頭辞を作ります。
func BaseName(childName, storyID string) string {
	name := Sanitize(childName)
	if name == "" {
		name = DefaultBaseName
	}
	if id := Sanitize(storyID); id != "" {
		return name + "_" + id
	}
	return name
}

// PromptFileName はプロンプトパック内のページファイル名 (cowboy_p01.txt) を返します。
func PromptFileName(storyID string, page int) string {
	id := Sanitize(storyID)
	if id == "" {
		id = DefaultBaseName
	}
	return fmt.Sprintf("%s_p%02d.txt", id, page)
}

// Sanitize はファイル名に使えない文字を取り除き、空白をアンダースコアに置き換えます。
func Sanitize(s string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune('_')
		}
	}
	return strings.Trim(sb.String(), "_")
}

// ParsePageImageName はファイル名からページ番号を取り出します。
func ParsePageImageName(fileName string) (int, bool) {
	return parsePageNumber(PageImageRegex, fileName)
}

// ParsePageField はフォームのフィールド名からページ番号を取り出します。
func ParsePageField(field string) (int, bool) {
	return parsePageNumber(PageFieldRegex, field)
}

func parsePageNumber(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
