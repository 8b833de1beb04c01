package dom

import (
	"net/url"
	"strings"
)

// Serialize URL-encodes fields as name=value pairs joined by '&', keeping
// their order. Unnamed fields are skipped; spaces encode as '+'.
func Serialize(fields []Field) string {
	var b strings.Builder
	for _, f := range fields {
		if f.Name == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(f.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.Value))
	}
	return b.String()
}

// SerializeMap URL-encodes params with keys in sorted order.
func SerializeMap(params map[string]string) string {
	values := make(url.Values, len(params))
	for k, v := range params {
		values.Set(k, v)
	}
	return values.Encode()
}
