package webhook

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ParsePayload flattens an inbound notification body into a string field
// bag. The provider sends form-encoded bodies in production and JSON from
// some tooling; neither shape is required to match a fixed schema.
func ParsePayload(contentType string, body []byte) map[string]string {
	fields := map[string]string{}

	if strings.Contains(contentType, "application/json") || looksLikeJSON(body) {
		var raw map[string]any
		if err := json.Unmarshal(body, &raw); err != nil {
			// Broken JSON must not be query-parsed into junk keys.
			return fields
		}
		for k, v := range raw {
			fields[k] = stringify(v)
		}
		return fields
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return fields
	}
	for k := range values {
		fields[k] = values.Get(k)
	}
	return fields
}

func looksLikeJSON(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "{")
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers arrive as float64; order references are integral.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case bool:
		return fmt.Sprintf("%v", t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
