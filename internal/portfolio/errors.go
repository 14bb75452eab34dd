package portfolio

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RequestFailed is returned for every failed call to the portfolio API
type RequestFailed struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestFailed) Error() string {
	return e.Message
}

func (e *RequestFailed) Unwrap() error {
	return e.Err
}

// failure builds a RequestFailed from a non-2xx response. The server's message is used
// verbatim when it sends one; otherwise the status is named.
func failure(resp *http.Response, fallback string) *RequestFailed {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return &RequestFailed{StatusCode: resp.StatusCode, Message: msg}
		}
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			return &RequestFailed{StatusCode: resp.StatusCode, Message: msg}
		}
	}

	text := http.StatusText(resp.StatusCode)
	if text == "" {
		text = fallback
	}
	return &RequestFailed{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("%d: %s", resp.StatusCode, text),
	}
}

func transportFailure(action string, err error) *RequestFailed {
	return &RequestFailed{
		Message: fmt.Sprintf("failed to %s: %v", action, err),
		Err:     err,
	}
}
