package components

import "strings"

// BodyFormat is the kind of payload shown in a response panel.
type BodyFormat string

const (
	FormatJSON   BodyFormat = "JSON"
	FormatMarkup BodyFormat = "XML"
	FormatText   BodyFormat = "TEXT"
)

// DetectBodyFormat guesses the format of a displayed body. Escaped markup
// counts as XML since that is how XML responses are displayed.
func DetectBodyFormat(body string) BodyFormat {
	trimmed := strings.TrimSpace(body)
	switch {
	case trimmed == "":
		return FormatText
	case trimmed[0] == '{' || trimmed[0] == '[':
		return FormatJSON
	case trimmed[0] == '<', strings.HasPrefix(trimmed, "&lt;"):
		return FormatMarkup
	}
	return FormatText
}
