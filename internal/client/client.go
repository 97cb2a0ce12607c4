// Package client speaks the DetectaBB HTTP/JSON API: analysis
// submission, result fetch, history and auth. It maps HTTP failures to
// the application error taxonomy at this boundary so callers never see
// raw status codes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/detectabb/detectago/constants"
	"github.com/detectabb/detectago/internal/analysis"
	"github.com/detectabb/detectago/internal/common"
	"github.com/detectabb/detectago/internal/session"
)

// Config for the API client.
type Config struct {
	BaseURL string        // default http://localhost:8000
	Timeout time.Duration // http client timeout
}

// Client issues requests against the analysis backend, attaching the
// session's bearer token when one is present.
type Client struct {
	cfg          Config
	http         *http.Client
	sess         *session.Session
	recordSchema map[string]any
	logger       *slog.Logger
}

func New(cfg Config, sess *session.Session, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:          cfg,
		http:         &http.Client{Timeout: cfg.Timeout},
		sess:         sess,
		recordSchema: analysis.BuildRecordJSONSchema(),
		logger:       logger,
	}
}

// Submit uploads one candidate document as multipart form data and
// returns the analysis id. Exactly one attempt per call; retrying a
// submission is a user decision, not the client's.
func (c *Client) Submit(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	raw, status, err := c.do(ctx, http.MethodPost, "/api/analisar", &body, mw.FormDataContentType())
	if err != nil {
		if status == 0 {
			return "", common.NewAppError("NETWORK_ERROR", constants.MsgNetworkError, err)
		}
		return "", submitError(status, raw)
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil || resp.ID == "" {
		return "", common.NewAppError("SUBMIT_ERROR", constants.MsgProcessingError, err)
	}
	return resp.ID, nil
}

// submitError maps the submission status codes the backend documents:
// 403 quota exceeded, 500 server failure, anything else generic. The
// server's detail message wins when present.
func submitError(status int, raw []byte) error {
	detail := parseDetail(raw)
	switch {
	case status == http.StatusForbidden:
		if detail == "" {
			detail = constants.MsgDailyLimit
		}
		return common.NewAppError("QUOTA_EXCEEDED", detail, common.ErrQuotaExceeded)
	case status == http.StatusInternalServerError:
		if detail == "" {
			detail = constants.MsgServerError
		}
		return common.NewAppError("SERVER_ERROR", detail, common.ErrServer)
	default:
		if detail == "" {
			detail = constants.MsgProcessingError
		}
		return common.NewAppError("SUBMIT_ERROR", detail, common.ErrInternal)
	}
}

// GetAnalysis fetches one analysis record. The body may still be
// partial while the backend worker runs; callers decide whether it is
// usable via Record.HasContent.
func (c *Client) GetAnalysis(ctx context.Context, id string) (*analysis.Record, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/api/analise/"+id, nil, "")
	if err != nil {
		if status == http.StatusNotFound {
			return nil, common.NewAppError("NOT_FOUND", constants.MsgResultNotFound, common.ErrNotFound)
		}
		return nil, common.WrapError(err, "fetch analysis")
	}

	// Advisory only: the record contract makes every field optional, so
	// a shape mismatch is logged and decoding proceeds leniently.
	if err := analysis.ValidateJSONAgainstSchema(c.recordSchema, raw); err != nil {
		c.logger.Warn("client.analysis.schema_mismatch", "analysis_id", id, "error", err)
	}
	return analysis.DecodeRecord(raw)
}

// History lists the authenticated user's past analyses.
func (c *Client) History(ctx context.Context) ([]*analysis.Record, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/api/historico", nil, "")
	if err != nil {
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return nil, common.NewAppError("UNAUTHORIZED", constants.MsgUnauthorized, common.ErrUnauthorized)
		}
		return nil, common.WrapError(err, "fetch history")
	}
	return analysis.DecodeHistory(raw)
}

// do issues one request and returns the raw body and status. A zero
// status means the request never reached the server.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, int, error) {
	reqID := common.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.sess != nil && c.sess.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+c.sess.Token())
	}

	c.logger.Info("client.http.request",
		"req_id", reqID,
		"method", method,
		"path", path,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("client.http.send_error",
			"req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, 0, err
	}
	defer func(Body io.ReadCloser) {
		if cerr := Body.Close(); cerr != nil {
			c.logger.Warn("client.http.response_body_close_error", "req_id", reqID, "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("client.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return raw, resp.StatusCode, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	return raw, resp.StatusCode, nil
}

// parseDetail extracts the backend's error detail field, if any.
func parseDetail(raw []byte) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return ""
	}
	return strings.TrimSpace(e.Detail)
}
