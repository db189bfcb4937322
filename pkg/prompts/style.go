package prompts

// DefaultGlobalStyle は全ページ共通の画風指定です。
const DefaultGlobalStyle = "Children’s picture-book Pixar-style CGI illustration — stylized 3D, rounded shapes, soft painted textures, warm cozy colors, gentle cinematic lighting (key + soft rim), subtle depth of field, expressive eyes, friendly smiles, consistent character design across all pages."

const (
	// SceneLabel はプロンプト末尾のシーン記述の見出しです。
	SceneLabel = "Scene: "
	// FramingGuidance は一貫性ブロックの末尾に付ける構図の指示です。
	FramingGuidance = "Framing: medium-wide composition with room for text; friendly, cozy tone."
	// AvoidList はプロンプトパックに付与するネガティブ指定です。
	AvoidList = "Avoid: photorealism, harsh/contrasty light, scary/angry faces, extra fingers, deformed hands, odd eyes, logos, watermarks, on-image text, posterization, blown highlights, gore."
)

// ClearAreas はプロンプトパックで文字用に空けておく領域の指定です。ページ位置で循環します。
var ClearAreas = []string{
	"CLEAR LOWER AREA",
	"CLEAR UPPER-LEFT",
	"CLEAR UPPER-RIGHT",
	"LARGE CLEAR SKY AT TOP",
	"CLEAR UPPER-LEFT",
	"CLEAR RIGHT SIDE",
	"CLEAR UPPER-RIGHT",
	"CLEAR UPPER-LEFT",
}
