package tools

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	successTrue  = `{"success":true}`
	successFalse = `{"success":false}`
)

// encodeSuccess renders payload with "success": true as its first key.
// Object payloads are merged; any other value is placed under "result".
func encodeSuccess(payload any) (string, error) {
	out := successTrue
	if payload == nil {
		return out, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", err)
	}
	body := gjson.ParseBytes(b)
	if !body.IsObject() {
		return sjson.SetRaw(out, "result", string(b))
	}

	var setErr error
	body.ForEach(func(key, value gjson.Result) bool {
		if key.Str == "success" {
			return true
		}
		out, setErr = sjson.SetRaw(out, gjson.Escape(key.Str), value.Raw)
		return setErr == nil
	})
	if setErr != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", setErr)
	}
	return out, nil
}

// encodeFailure renders {"success":false,"error":msg} plus any extra fields in key order
func encodeFailure(msg string, fields map[string]any) string {
	out, err := sjson.Set(successFalse, "error", msg)
	if err != nil {
		return `{"success":false,"error":"internal error"}`
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "success" && k != "error" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if next, err := sjson.Set(out, gjson.Escape(k), fields[k]); err == nil {
			out = next
		}
	}
	return out
}
