package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"sitescrape-go/pkg/cli/logger"
	"sitescrape-go/pkg/models"
	"sitescrape-go/pkg/utils"

	"github.com/go-resty/resty/v2"
)

// Download fetches the artifact at fileURL into destDir and returns the local path.
func (c *Client) Download(ctx context.Context, fileURL, destDir string) (string, error) {
	const op = "download"

	name, err := fileName(fileURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}
	dest := filepath.Join(destDir, name)

	resp, err := c.http.R().
		SetContext(ctx).
		SetOutput(dest).
		Get(strings.TrimSpace(fileURL))
	if err != nil {
		os.Remove(dest)
		logger.LogError(err, "%s: transport failure for %s", op, fileURL)
		return "", newNetworkError(op, err)
	}
	if resp.IsError() {
		os.Remove(dest)
		return "", &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
	}

	logger.Log("%s: saved %s (%d bytes)", op, dest, resp.Size())
	return dest, nil
}

// Preview reads the first rows of a generated file through the backend's
// data endpoint. file may be a bare name or a backend-relative path.
func (c *Client) Preview(ctx context.Context, baseURL, file string) (models.TablePreview, error) {
	const op = "preview"

	name := path.Base(file)
	if name == "" || name == "." || name == "/" {
		return models.TablePreview{}, fmt.Errorf("invalid file name: %q", file)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		Get(endpoint(baseURL, "/data/"+url.PathEscape(name)))
	if err != nil {
		return models.TablePreview{}, newNetworkError(op, err)
	}
	if resp.IsError() {
		return models.TablePreview{}, apiError(resp)
	}

	var preview models.TablePreview
	if err := json.Unmarshal(resp.Body(), &preview); err != nil {
		return models.TablePreview{}, newInvalidResponseError(op, err)
	}
	return preview, nil
}

// DebugLogs returns the backend's buffered log text, decoded from base64.
// The backend clears its buffer on read, so an empty string is normal.
func (c *Client) DebugLogs(ctx context.Context, baseURL string) (string, error) {
	const op = "debug logs"

	resp, err := c.http.R().
		SetContext(ctx).
		Get(endpoint(baseURL, "/debug-logs"))
	if err != nil {
		return "", newNetworkError(op, err)
	}
	if resp.IsError() {
		return "", apiError(resp)
	}

	var body struct {
		LogsB64 string `json:"logs_b64"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", newInvalidResponseError(op, err)
	}
	if body.LogsB64 == "" {
		return "", nil
	}

	decoded, err := base64.StdEncoding.DecodeString(body.LogsB64)
	if err != nil {
		return "", newInvalidResponseError(op, err)
	}
	return string(decoded), nil
}

func apiError(resp *resty.Response) *APIError {
	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &errorResp); err == nil && errorResp.Error != "" {
		return &APIError{StatusCode: resp.StatusCode(), Message: errorResp.Error}
	}
	msg := string(resp.Body())
	if msg == "" {
		msg = resp.Status()
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: msg}
}

func fileName(fileURL string) (string, error) {
	u, err := utils.ValidateFileURL(fileURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", fmt.Errorf("file URL has no file name: %q", fileURL)
	}
	return name, nil
}
