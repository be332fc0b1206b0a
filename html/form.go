package html

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/domlife/domlife/dom"
)

// BuildForm constructs a detached <form> element with one hidden <input> per
// key/value pair. Keys are emitted in sorted order for deterministic output;
// repeated values for one key keep their order. method defaults to "post".
func BuildForm(doc *dom.Document, action, method string, fields url.Values) *dom.Element {
	form := doc.CreateElement("form")
	form.SetAttribute("action", action)
	if method == "" {
		method = "post"
	}
	form.SetAttribute("method", strings.ToLower(method))

	for _, key := range sortedKeys(fields) {
		for _, value := range fields[key] {
			input := doc.CreateElement("input")
			input.SetAttribute("type", "hidden")
			input.SetAttribute("name", key)
			input.SetAttribute("value", value)
			form.AsNode().AppendChild(input.AsNode())
		}
	}
	return form
}

// FormMarkup renders the same form as BuildForm directly as markup, without
// needing a document.
func FormMarkup(action, method string, fields url.Values) string {
	if method == "" {
		method = "post"
	}
	var sb strings.Builder
	sb.WriteString(`<form action="`)
	sb.WriteString(html.EscapeString(action))
	sb.WriteString(`" method="`)
	sb.WriteString(html.EscapeString(strings.ToLower(method)))
	sb.WriteString(`">`)

	for _, key := range sortedKeys(fields) {
		for _, value := range fields[key] {
			sb.WriteString(`<input type="hidden" name="`)
			sb.WriteString(html.EscapeString(key))
			sb.WriteString(`" value="`)
			sb.WriteString(html.EscapeString(value))
			sb.WriteString(`">`)
		}
	}

	sb.WriteString("</form>")
	return sb.String()
}

func sortedKeys(fields url.Values) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
