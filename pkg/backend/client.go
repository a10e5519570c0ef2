package backend

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sitescrape-go/pkg/cli/logger"
	"sitescrape-go/pkg/models"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	userAgent       = "sitescrape-go/1.0"
	requestIDHeader = "X-Request-ID"

	unknownError = "Unknown error"
)

// Client talks to a self-hosted scrape backend. The base URL is passed per call
// because it is re-read from the config store for every operation.
type Client struct {
	http *resty.Client
}

// Options configures the transport.
type Options struct {
	// Timeout bounds each request. Zero means no timeout, which is the default:
	// a hung backend then shows up as an operation that never finishes.
	Timeout time.Duration
}

// NewClient creates a new backend client
func NewClient(opts Options) *Client {
	client := resty.New()
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return &Client{http: client}
}

type pluginsResponse struct {
	Plugins []string `json:"plugins"`
}

type scrapeResponse struct {
	Success bool    `json:"success"`
	Count   float64 `json:"count"`
	File    string  `json:"file"`
	FileURL string  `json:"file_url"`
	Error   string  `json:"error"`
}

// ListPlugins fetches the names of the site plugins the backend offers.
// A response without a plugins field yields an empty list, not an error.
func (c *Client) ListPlugins(ctx context.Context, baseURL string) (models.PluginList, error) {
	const op = "list plugins"

	resp, err := c.http.R().
		SetContext(ctx).
		Get(endpoint(baseURL, "/api/plugins"))
	if err != nil {
		logger.LogError(err, "%s: transport failure", op)
		return models.PluginList{}, newNetworkError(op, err)
	}

	var body *pluginsResponse
	if err := decodeObject(resp.Body(), &body); err != nil {
		logger.LogError(err, "%s: unparsable response (status %d)", op, resp.StatusCode())
		return models.PluginList{}, newInvalidResponseError(op, err)
	}

	names := body.Plugins
	if names == nil {
		names = []string{}
	}
	logger.Debug("%s: %d plugin(s)", op, len(names))
	return models.PluginList{Names: names}, nil
}

// SubmitScrape posts a scrape request and maps the answer onto a ScrapeResult.
// The body is read whatever the HTTP status is, because the backend reports
// business failures as JSON with 4xx/5xx codes.
func (c *Client) SubmitScrape(ctx context.Context, baseURL string, req models.ScrapeRequest) (models.ScrapeResult, error) {
	const op = "submit scrape"
	requestID := uuid.NewString()

	logger.Log("%s: request_id=%s site=%q query=%q limit_set=%v", op, requestID, req.Site, req.Query, req.Limit != nil)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(requestIDHeader, requestID).
		SetBody(req).
		Post(endpoint(baseURL, "/api/scrape"))
	if err != nil {
		logger.LogError(err, "%s: request_id=%s transport failure", op, requestID)
		return models.ScrapeResult{}, newNetworkError(op, err)
	}

	var body *scrapeResponse
	if err := decodeObject(resp.Body(), &body); err != nil {
		logger.LogError(err, "%s: request_id=%s unparsable response (status %d)", op, requestID, resp.StatusCode())
		return models.ScrapeResult{}, newInvalidResponseError(op, err)
	}

	if !body.Success {
		msg := body.Error
		if msg == "" {
			msg = unknownError
		}
		logger.Log("%s: request_id=%s backend failure: %s", op, requestID, msg)
		return models.ScrapeResult{Success: false, Message: msg}, nil
	}

	result := models.ScrapeResult{
		Success: true,
		Count:   int(body.Count),
		FileURL: body.FileURL,
		File:    body.File,
	}
	if result.Count < 0 {
		result.Count = 0
	}
	logger.Log("%s: request_id=%s done, count=%d file_url=%q", op, requestID, result.Count, result.FileURL)
	return result, nil
}

// decodeObject unmarshals data into *dst and rejects a top-level null, which
// would otherwise leave *dst nil.
func decodeObject[T any](data []byte, dst **T) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return err
	}
	if *dst == nil {
		return errors.New("response body is not a JSON object")
	}
	return nil
}
