package boulevardapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// errorPayload covers the error shapes the backend is known to send:
// {message}, {mensaje}, {error: "..."}, {error: {message}}, {errors: [...]}, {data: {...}}.
type errorPayload struct {
	Message string          `json:"message"`
	Mensaje string          `json:"mensaje"`
	Code    string          `json:"code"`
	Error   json.RawMessage `json:"error"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

// normalizeError converts a non-2xx response into the canonical APIError
func normalizeError(status int, raw []byte) *apperrors.APIError {
	apiErr := &apperrors.APIError{
		Type:   apperrors.FromStatus(status),
		Status: status,
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var payload errorPayload
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			fillFromPayload(apiErr, &payload, 0)
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func fillFromPayload(apiErr *apperrors.APIError, p *errorPayload, depth int) {
	if apiErr.Message == "" {
		apiErr.Message = firstNonEmpty(p.Message, p.Mensaje)
	}
	if apiErr.Code == "" {
		apiErr.Code = p.Code
	}

	if len(p.Error) > 0 {
		var s string
		if err := json.Unmarshal(p.Error, &s); err == nil {
			if apiErr.Message == "" {
				apiErr.Message = s
			}
		} else if depth < 2 {
			var nested errorPayload
			if err := json.Unmarshal(p.Error, &nested); err == nil {
				fillFromPayload(apiErr, &nested, depth+1)
			}
		}
	}

	if len(p.Errors) > 0 {
		apiErr.Details = append(apiErr.Details, detailMessages(p.Errors)...)
		if apiErr.Message == "" && len(apiErr.Details) > 0 {
			apiErr.Message = apiErr.Details[0]
		}
	}

	if len(p.Data) > 0 && depth < 2 {
		var nested errorPayload
		if err := json.Unmarshal(p.Data, &nested); err == nil {
			fillFromPayload(apiErr, &nested, depth+1)
		}
	}
}

// detailMessages flattens an errors array of strings or {msg|message} objects
func detailMessages(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		var single string
		if json.Unmarshal(raw, &single) == nil && single != "" {
			return []string{single}
		}
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var obj struct {
			Msg     string `json:"msg"`
			Message string `json:"message"`
		}
		if json.Unmarshal(item, &obj) == nil {
			if m := firstNonEmpty(obj.Msg, obj.Message); m != "" {
				out = append(out, m)
			}
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
