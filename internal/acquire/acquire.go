// Package acquire turns a user-selected file into a submitted analysis.
// Validation happens entirely before any network call; a rejected
// candidate never leaves the machine.
package acquire

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/detectabb/detectago/constants"
	"github.com/detectabb/detectago/internal/client"
)

// Candidate is one document picked for analysis: an opaque blob plus
// its declared type. Consumed once by submission, then discarded.
type Candidate struct {
	Name string
	MIME string
	Size int64
	Data []byte
}

// CandidateFromFile reads path into a candidate, sniffing the content
// type from the leading bytes and falling back to the extension.
func CandidateFromFile(path string) (Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Candidate{}, err
	}

	mime := http.DetectContentType(data)
	if _, ok := constants.AllowedMIMETypes[mime]; !ok {
		ext := constants.NormalizeExt(filepath.Ext(path))
		if byExt, ok := constants.MIMEByExtension[ext]; ok {
			mime = byExt
		}
	}

	return Candidate{
		Name: filepath.Base(path),
		MIME: mime,
		Size: int64(len(data)),
		Data: data,
	}, nil
}

// Validate applies the pre-submission constraints and returns every
// violated rule as a user-facing message. Empty result means the
// candidate may be submitted.
func Validate(c Candidate) []string {
	var errs []string
	if _, ok := constants.AllowedMIMETypes[c.MIME]; !ok {
		errs = append(errs, constants.MsgInvalidFileType)
	}
	if c.Size > constants.MaxFileSize {
		errs = append(errs, constants.MsgFileTooLarge)
	}
	if c.Size == 0 {
		errs = append(errs, constants.MsgEmptyFile)
	}
	return errs
}

// Controller validates and submits candidates, remembering the id of
// the last successful submission for the result fallback path.
type Controller struct {
	api    *client.Client
	lastID string
	logger *slog.Logger
}

func NewController(api *client.Client, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{api: api, logger: logger}
}

// Submit runs validation and, when clean, uploads the candidate once.
// A non-empty violations slice means no submission was attempted.
func (c *Controller) Submit(ctx context.Context, cand Candidate) (id string, violations []string, err error) {
	if violations = Validate(cand); len(violations) > 0 {
		c.logger.Info("acquire.rejected",
			"name", cand.Name,
			"mime", cand.MIME,
			"size", cand.Size,
			"violations", len(violations),
		)
		return "", violations, nil
	}

	start := time.Now()
	id, err = c.api.Submit(ctx, cand.Name, cand.MIME, cand.Data)
	if err != nil {
		c.logger.Error("acquire.submit_failed", "name", cand.Name, "error", err)
		return "", nil, err
	}

	c.lastID = id
	c.logger.Info("acquire.submit_ok",
		"name", cand.Name,
		"analysis_id", id,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return id, nil, nil
}

// LastID returns the id of the most recent successful submission this
// run, empty when none happened.
func (c *Controller) LastID() string { return c.lastID }
