package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrTimeout matches any *TimeoutError via errors.Is.
var ErrTimeout = errors.New("request timed out")

// TimeoutError is returned when a call exceeds the client timeout.
type TimeoutError struct {
	Endpoint string
	After    time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %s", e.Endpoint, e.After)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// RequestError is returned for any non-2xx response.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string { return e.Detail }

// IsStatus reports whether err is a RequestError carrying the given HTTP status.
func IsStatus(err error, status int) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Status == status
}

// IsNotFound is shorthand for IsStatus(err, 404).
func IsNotFound(err error) bool { return IsStatus(err, http.StatusNotFound) }

// newRequestError extracts the backend's detail message from an error body.
// FastAPI sends {"detail": "..."} for HTTPException and {"detail": [{"msg": ...}]}
// for validation failures; anything else gets a generic message.
func newRequestError(status int, body []byte) *RequestError {
	detail := extractDetail(body)
	if detail == "" {
		detail = fmt.Sprintf("Request failed with status %d", status)
	}
	return &RequestError{Status: status, Detail: detail}
}

func extractDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var items []struct {
		Msg string        `json:"msg"`
		Loc []interface{} `json:"loc"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg == "" {
				continue
			}
			if field := locField(it.Loc); field != "" {
				msgs = append(msgs, field+": "+it.Msg)
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func locField(loc []interface{}) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok {
		return s
	}
	return ""
}
