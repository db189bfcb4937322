package domain

// PageEdit はオペレーターが手で書き換えたキャプションやプロンプトです。nil は未編集を表します。
type PageEdit struct {
	Caption *string `json:"caption,omitempty"`
	Prompt  *string `json:"prompt,omitempty"`
}

// Edits は特定のストーリーに対する編集のスナップショットです。
type Edits struct {
	StoryID string           `json:"story"`
	Pages   map[int]PageEdit `json:"pages"`
}

// SnapshotEdits は生成直後の Story と編集後の Story を比較し、差分を Edits として取り出します。
func SnapshotEdits(generated, edited *Story) Edits {
	e := Edits{StoryID: edited.StoryID, Pages: map[int]PageEdit{}}
	for _, p := range edited.Pages {
		orig, ok := generated.FindPage(p.Page)
		var pe PageEdit
		if !ok || orig.Caption != p.Caption {
			c := p.Caption
			pe.Caption = &c
		}
		if !ok || orig.Prompt != p.Prompt {
			pr := p.Prompt
			pe.Prompt = &pr
		}
		if pe.Caption != nil || pe.Prompt != nil {
			e.Pages[p.Page] = pe
		}
	}
	return e
}

// ApplyEdits は編集スナップショットを Story に書き戻し、適用したページ数を返します。
// ストーリーIDが異なる場合や存在しないページへの編集は捨てられます。
func ApplyEdits(s *Story, e Edits) int {
	if s == nil || len(e.Pages) == 0 || e.StoryID != s.StoryID {
		return 0
	}
	applied := 0
	for page, pe := range e.Pages {
		p, ok := s.FindPage(page)
		if !ok {
			continue
		}
		if pe.Caption != nil {
			p.Caption = *pe.Caption
		}
		if pe.Prompt != nil {
			p.Prompt = *pe.Prompt
		}
		applied++
	}
	return applied
}
