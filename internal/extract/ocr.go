package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// OCRSpan is one recognized text fragment with the backend's confidence
type OCRSpan struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// OCRBackend abstracts the OCR engine. Recognition is CPU-heavy and
// potentially slow; callers pass a context carrying a deadline and treat a
// timeout as degraded quality, not as a fatal error. An unavailable backend
// disables the extraction paths that need it rather than crashing them.
type OCRBackend interface {
	// Available reports whether the backend can serve requests
	Available() bool

	// RecognizeImage runs OCR over a whole image file
	RecognizeImage(ctx context.Context, path string) ([]OCRSpan, error)

	// RecognizePDFPages rasterizes the document and runs OCR on the listed
	// pages only, returning recognized text keyed by page number
	RecognizePDFPages(ctx context.Context, path string, pageNumbers []int) (map[int]string, error)
}

const defaultOCRTimeout = 60 * time.Second

// OCRClient talks to an external OCR service over HTTP
type OCRClient struct {
	httpClient *http.Client
	baseURL    string
}

// OCRClientOption configures the OCRClient
type OCRClientOption func(*OCRClient)

// WithHTTPTimeout sets the HTTP client timeout
func WithHTTPTimeout(d time.Duration) OCRClientOption {
	return func(c *OCRClient) {
		c.httpClient.Timeout = d
	}
}

// NewOCRClient creates an OCR service client. An empty base URL yields a
// client that reports itself unavailable.
func NewOCRClient(baseURL string, opts ...OCRClientOption) *OCRClient {
	c := &OCRClient{
		httpClient: &http.Client{Timeout: defaultOCRTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether an OCR endpoint is configured
func (c *OCRClient) Available() bool {
	return c.baseURL != ""
}

type recognizeResponse struct {
	Spans []OCRSpan `json:"spans"`
}

// RecognizeImage posts the image to the service and returns confidence-tagged
// text spans.
func (c *OCRClient) RecognizeImage(ctx context.Context, path string) ([]OCRSpan, error) {
	body, err := c.post(ctx, "/v1/recognize", path, nil)
	if err != nil {
		return nil, err
	}

	var resp recognizeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return resp.Spans, nil
}

type recognizePagesResponse struct {
	Pages map[string]string `json:"pages"`
}

// RecognizePDFPages posts the document and the page list to the service
func (c *OCRClient) RecognizePDFPages(ctx context.Context, path string, pageNumbers []int) (map[int]string, error) {
	nums := make([]string, len(pageNumbers))
	for i, n := range pageNumbers {
		nums[i] = strconv.Itoa(n)
	}

	body, err := c.post(ctx, "/v1/recognize/pages", path, map[string]string{
		"pages": strings.Join(nums, ","),
	})
	if err != nil {
		return nil, err
	}

	var resp recognizePagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	pages := make(map[int]string, len(resp.Pages))
	for key, text := range resp.Pages {
		n, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		pages[n] = text
	}
	return pages, nil
}

// post uploads the file as a multipart form with optional extra fields
func (c *OCRClient) post(ctx context.Context, endpoint, path string, fields map[string]string) ([]byte, error) {
	if !c.Available() {
		return nil, fmt.Errorf("OCR backend not configured")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OCR service error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
