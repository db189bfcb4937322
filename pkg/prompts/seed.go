package prompts

// SeedTable はページ位置からシード値を引く固定の表です。
type SeedTable []int64

// Assign は0始まりのページ位置に対するシードを返します。
// 位置が表の長さを超える場合は先頭から循環し、負の位置は0として扱います。
// 表が空の場合は0を返します。
func (t SeedTable) Assign(position int) int64 {
	if len(t) == 0 {
		return 0
	}
	if position < 0 {
		position = 0
	}
	return t[position%len(t)]
}
