package publisher

import (
	"fmt"

	"github.com/shouni/go-picturebook-kit/pkg/domain"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Pages"

var sheetHeaders = []string{"Page", "Caption", "Prompt", "Pose", "Seed"}

// BuildSheet はページごとのキャプション・プロンプト・ポーズ・シードを xlsx にまとめます。
func BuildSheet(s *domain.Story) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("シート名の設定に失敗しました: %w", err)
	}

	for i, h := range sheetHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("ヘッダーの書き込みに失敗しました: %w", err)
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("スタイルの作成に失敗しました: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "E1", headerStyle); err != nil {
		return nil, err
	}

	for row, p := range s.Pages {
		values := []any{p.Page, p.Caption, p.Prompt, p.Pose, p.Seed}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("%d 行目の書き込みに失敗しました: %w", row+2, err)
			}
		}
	}
	if err := f.SetColWidth(sheetName, "B", "C", 60); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsxの書き出しに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}
