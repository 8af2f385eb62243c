package uploader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ImageKit upload client. Binary uploads go to the CDN; only the returned
// public URL is stored in the database.

const (
	defaultUploadURL = "https://upload.imagekit.io/api/v1/files/upload"
	uploadTimeout    = 30 * time.Second
)

var ErrNotConfigured = errors.New("imagekit private key not configured")

type Client struct {
	privateKey string
	uploadURL  string
	http       *http.Client
}

func NewClient(privateKey string) *Client {
	return &Client{
		privateKey: privateKey,
		uploadURL:  defaultUploadURL,
		http:       &http.Client{Timeout: uploadTimeout},
	}
}

// NewClientWithUploadURL exists for tests against a stub server.
func NewClientWithUploadURL(privateKey, uploadURL string) *Client {
	c := NewClient(privateKey)
	c.uploadURL = uploadURL
	return c
}

type uploadResponse struct {
	URL     string `json:"url"`
	FileID  string `json:"fileId"`
	Message string `json:"message"`
}

// Upload sends the file and returns its public URL.
func (c *Client) Upload(ctx context.Context, fileName string, r io.Reader, folder string) (string, error) {
	if c.privateKey == "" {
		return "", ErrNotConfigured
	}

	var body strings.Builder
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	_ = w.WriteField("fileName", fileName)
	if folder != "" {
		_ = w.WriteField("folder", folder)
	}
	_ = w.WriteField("useUniqueFileName", "true")
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, strings.NewReader(body.String()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	// ImageKit authenticates with the private key as basic auth user.
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("imagekit: %w", err)
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("imagekit: decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || out.URL == "" {
		return "", fmt.Errorf("imagekit: upload failed (status %d): %s", resp.StatusCode, out.Message)
	}
	return out.URL, nil
}
