package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
)

// FormField is a single text field of a multipart request. Order is preserved.
type FormField struct {
	Name  string
	Value string
}

// FilePart is the file section of a multipart request.
type FilePart struct {
	FieldName string
	FileName  string
	Content   io.Reader
}

// Request performs a JSON call against endpoint, relative to the base URL, and
// decodes the response into result.
func (c *Client) Request(ctx context.Context, method, endpoint string, payload, result interface{}) error {
	return c.doJSONRequest(ctx, method, endpoint, payload, result)
}

// RequestMultipart posts a multipart/form-data body to endpoint.
func (c *Client) RequestMultipart(ctx context.Context, endpoint string, fields []FormField, file *FilePart, result interface{}) error {
	return c.doMultipartRequest(ctx, endpoint, fields, file, result)
}

// doJSONRequest performs a JSON request with the given method, path, payload, and result.
// If payload is nil no body is sent; if result is nil the response body is discarded.
func (c *Client) doJSONRequest(ctx context.Context, method, path string, payload, result interface{}) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, result)
}

// doMultipartRequest POSTs a multipart/form-data body. The content type comes from
// the multipart writer so the boundary is always correct.
func (c *Client) doMultipartRequest(ctx context.Context, path string, fields []FormField, file *FilePart, result interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if file != nil {
		part, err := w.CreateFormFile(file.FieldName, file.FileName)
		if err != nil {
			return fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("failed to write file part: %w", err)
		}
	}
	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalise multipart body: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, &buf, w.FormDataContentType(), result)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, result interface{}) error {
	url := c.baseURL + path

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &TimeoutError{Endpoint: path, After: c.timeout}
		}
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &TimeoutError{Endpoint: path, After: c.timeout}
		}
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newRequestError(resp.StatusCode, data)
	}

	if result == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// getList fetches a list endpoint. A malformed or empty body means "no data".
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &raw); err != nil {
		var decodeErr *json.SyntaxError
		if errors.As(err, &decodeErr) {
			log.Printf("⚠️  %s returned a malformed body, treating as empty", path)
			return nil, nil
		}
		return nil, err
	}
	return decodeList[T](path, raw), nil
}

func decodeList[T any](path string, raw json.RawMessage) []T {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		log.Printf("⚠️  %s returned an unexpected body, treating as empty: %v", path, err)
		return nil
	}
	return items
}
