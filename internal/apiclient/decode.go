package apiclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StatusError is returned by DecodeJSON for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// OK reports whether res carries a 2xx status.
func OK(res *http.Response) bool {
	return res.StatusCode >= 200 && res.StatusCode < 300
}

// DecodeJSON closes the body and decodes it into out. Non-2xx responses
// yield a *StatusError with the raw body kept for message extraction.
func DecodeJSON(res *http.Response, out any) error {
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if !OK(res) {
		return &StatusError{StatusCode: res.StatusCode, Body: body}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// Drain discards and closes a response body the caller has no use for.
func Drain(res *http.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	res.Body.Close()
}
