package backend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx answer from the backend
type APIError struct {
	StatusCode int
	// Detail is the server-provided message, empty when the body had none
	Detail string
	Body   string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Detail:     parseDetail(body),
		Body:       string(body),
	}
}

// parseDetail reads "detail" as either a plain message or a list of
// validation errors ({"detail":[{"msg":"..."}]}).
func parseDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case !detail.Exists():
		return ""
	case detail.Type == gjson.String:
		return detail.String()
	case detail.IsArray():
		var msgs []string
		detail.ForEach(func(_, item gjson.Result) bool {
			if msg := item.Get("msg"); msg.Exists() {
				msgs = append(msgs, msg.String())
			} else if item.Type == gjson.String {
				msgs = append(msgs, item.String())
			}
			return true
		})
		return strings.Join(msgs, "; ")
	case detail.IsObject():
		if msg := detail.Get("msg"); msg.Exists() {
			return msg.String()
		}
		return detail.Raw
	default:
		return detail.String()
	}
}

// ErrorDetail returns the server-provided detail carried by err, if any
func ErrorDetail(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail, true
	}
	return "", false
}
