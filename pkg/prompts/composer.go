package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
)

// ComposePrompt は画風・一貫性ブロック・シーンを空行区切りで連結します。
// 長さの制限や切り詰めは行いません。
func ComposePrompt(globalStyle, consistency, scene string) string {
	var sb strings.Builder
	sb.WriteString(globalStyle)
	sb.WriteString("\n\n")
	sb.WriteString(consistency)
	sb.WriteString("\n\n")
	sb.WriteString(SceneLabel)
	sb.WriteString(scene)
	return sb.String()
}

// BuildConsistencyBlock はキャラクターデザインを全ページで固定するための指示文を生成します。
// outfit と setting はアーキタイプ側で展開済みの文言を受け取ります。
func BuildConsistencyBlock(d domain.DisplayAttributes, outfit, setting string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Consistency: %s is a %s.", d.Name, d.Descriptor())
	if outfit != "" {
		fmt.Fprintf(&sb, " Keep the same outfit every page: %s (accent color %s).", outfit, d.Color)
	} else {
		fmt.Fprintf(&sb, " Keep the same outfit/accent color (%s) every page.", d.Color)
	}
	fmt.Fprintf(&sb, " Favorite animal (%s) appears with the same design each page.", d.Animal)
	if setting != "" {
		fmt.Fprintf(&sb, " Setting references %s: %s.", d.Town, setting)
	} else {
		fmt.Fprintf(&sb, " Setting references %s.", d.Town)
	}
	sb.WriteString(" ")
	sb.WriteString(FramingGuidance)
	return sb.String()
}

// BuildPackPrompt はプロンプトパック用に、文字領域の指定とネガティブ指定でページのプロンプトを挟みます。
func BuildPackPrompt(position int, prompt string) string {
	area := ClearAreas[0]
	if position > 0 {
		area = ClearAreas[position%len(ClearAreas)]
	}
	header := fmt.Sprintf("Picture-book still; portrait 1080×1920; medium-wide framing with a %s for text later. No on-image words.", area)
	return strings.Join([]string{header, prompt, AvoidList}, "\n\n")
}
