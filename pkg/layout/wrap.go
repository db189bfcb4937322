package layout

import "strings"

// TextMeasurer は描画先のフォントで文字列の幅を測る能力です。
type TextMeasurer interface {
	MeasureText(text string, size float64) float64
}

// WrapText は text を width に収まるよう単語単位で折り返します。
// 改行は段落区切りとして維持し、1単語で幅を超える場合は文字単位で分割します。
func WrapText(m TextMeasurer, text string, size, width float64) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, w := range words {
			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if m.MeasureText(candidate, size) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			if m.MeasureText(w, size) <= width {
				line = w
				continue
			}
			chunks := breakWord(m, w, size, width)
			lines = append(lines, chunks[:len(chunks)-1]...)
			line = chunks[len(chunks)-1]
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func breakWord(m TextMeasurer, w string, size, width float64) []string {
	var chunks []string
	current := ""
	for _, r := range w {
		next := current + string(r)
		if current != "" && m.MeasureText(next, size) > width {
			chunks = append(chunks, current)
			next = string(r)
		}
		current = next
	}
	return append(chunks, current)
}
