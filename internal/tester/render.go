package tester

import (
	"strings"

	"github.com/artpar/doctester/internal/dom"
)

// DismissLabel is the text of the control that hides a response panel.
const DismissLabel = "Hide X"

// ResultTitle heads the rendered response.
const ResultTitle = "Result:"

// FormatXML escapes angle brackets so markup is displayed literally.
func FormatXML(s string) string {
	return strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(s)
}

// DisplayBody escapes body when contentType indicates XML.
func DisplayBody(contentType, body string) string {
	if strings.Contains(contentType, "xml") {
		return FormatXML(body)
	}
	return body
}

// Render makes the response panel of res visible, replaces its content with
// a dismiss control followed by the displayed body, and binds the control to
// toggle the panel.
func Render(page Page, res Result) {
	panel := ResponseID(res.Handler, res.Method)
	control := ControlID(res.Handler, res.Method)

	page.Show(panel)
	page.SetContent(panel, dom.Content{
		ControlID:    control,
		ControlLabel: DismissLabel,
		Title:        ResultTitle,
		Body:         res.Display(),
	})
	page.Bind(control, func() {
		page.Toggle(panel)
	})
}
