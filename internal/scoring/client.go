// Package scoring talks to the remote scoring service that ranks candidates.
// The dashboard only owns the request/response contract; the ranking itself happens remotely.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/wonny/quantumedge/internal/contracts"
	"github.com/wonny/quantumedge/pkg/httputil"
	"github.com/wonny/quantumedge/pkg/logger"
)

// maxBodyBytes bounds how much of a response is read
const maxBodyBytes = 8 << 20

// Analyzer is what the dashboard needs from the scoring service
type Analyzer interface {
	Analyze(ctx context.Context, req contracts.AnalysisRequest) (*contracts.AnalysisResult, error)
}

// Client handles communication with the scoring service
// ⭐ SSOT: calls to the scoring service happen only here
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	url        string
	validate   *validator.Validate
}

// NewClient creates a new scoring client posting to url
func NewClient(httpClient *httputil.Client, url string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		url:        url,
		validate:   validator.New(),
	}
}

// URL returns the endpoint the client posts to
func (c *Client) URL() string {
	return c.url
}

type wireResponse struct {
	Data []contracts.Candidate `json:"data"`
}

// Analyze performs exactly one POST with the request and returns the decoded result.
// Errors wrap ErrTransport, ErrStatus or ErrMalformed. There is no retry.
func (c *Client) Analyze(ctx context.Context, req contracts.AnalysisRequest) (*contracts.AnalysisResult, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	resp, err := c.httpClient.PostJSON(ctx, c.url, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	if !httputil.IsSuccess(resp.StatusCode) {
		return nil, &StatusError{Code: resp.StatusCode, Body: snippet(body)}
	}

	if err := checkShape(body); err != nil {
		c.logger.WithError(err).Warn("Scoring response rejected")
		return nil, err
	}

	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	result := &contracts.AnalysisResult{
		Meta:       readMeta(body),
		Candidates: wire.Data,
	}
	if result.Candidates == nil {
		result.Candidates = []contracts.Candidate{}
	}

	c.logger.WithFields(map[string]interface{}{
		"candidates":  len(result.Candidates),
		"recommended": len(result.Recommended()),
		"timestamp":   result.Meta.Timestamp,
	}).Debug("Scoring response decoded")

	return result, nil
}

const snippetLimit = 200

// snippet trims a body for logging without splitting a UTF-8 sequence
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= snippetLimit {
		return s
	}
	cut := snippetLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
