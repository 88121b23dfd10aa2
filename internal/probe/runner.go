package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/contacts-prober/internal/domain"
	"github.com/samvad-hq/contacts-prober/internal/logger"
	"github.com/samvad-hq/contacts-prober/pkg/httpclient"
)

const (
	ContactsPath = "/contacts"

	NameRead    = "read"
	NameWrite   = "write"
	NameCleanup = "cleanup"
)

// Runner performs the read and write probes against a contacts service.
type Runner struct {
	client  httpclient.Client
	baseURL string
	contact domain.Contact
	page    int
	limit   int
	cleanup bool
	log     logger.Logger
}

// Option customizes a Runner.
type Option func(*Runner)

// WithPagination adds page/limit query parameters to the read probe. Zero values are omitted.
func WithPagination(page, limit int) Option {
	return func(r *Runner) {
		r.page = page
		r.limit = limit
	}
}

// WithCleanup deletes the contact created by the write probe when enabled.
func WithCleanup(enabled bool) Option {
	return func(r *Runner) { r.cleanup = enabled }
}

// WithContact overrides the record sent by the write probe.
func WithContact(c domain.Contact) Option {
	return func(r *Runner) { r.contact = c }
}

// WithLogger sets the logger used for probe diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRunner builds a Runner targeting baseURL (scheme://host[:port]).
func NewRunner(client httpclient.Client, baseURL string, opts ...Option) (*Runner, error) {
	if client == nil {
		return nil, fmt.Errorf("http client must not be nil")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url must not be empty")
	}

	r := &Runner{
		client:  client,
		baseURL: baseURL,
		contact: domain.SampleContact(),
		log:     logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// BaseURL returns the target endpoint.
func (r *Runner) BaseURL() string { return r.baseURL }

// Run executes the read probe, then the write probe, then the optional cleanup probe.
// Each probe runs regardless of how the previous one ended.
func (r *Runner) Run(ctx context.Context) Report {
	rep := Report{
		RunID:     uuid.NewString(),
		BaseURL:   r.baseURL,
		StartedAt: time.Now().UTC(),
	}

	rep.Results = append(rep.Results, r.Read(ctx))

	write := r.Write(ctx)
	rep.Results = append(rep.Results, write)

	if r.cleanup {
		if id, ok := createdID(write); ok {
			rep.Results = append(rep.Results, r.Delete(ctx, id))
		} else {
			r.log.WarnObj("cleanup skipped", "probe_cleanup", map[string]any{
				"run_id": rep.RunID,
				"reason": "write probe returned no id",
			})
		}
	}

	rep.FinishedAt = time.Now().UTC()
	return rep
}

// Read issues GET /contacts.
func (r *Runner) Read(ctx context.Context) Result {
	target := r.baseURL + ContactsPath
	if q := r.readQuery(); q != "" {
		target += "?" + q
	}
	return r.exchange(NameRead, http.MethodGet, ContactsPath, target, func() (httpclient.Response, error) {
		return r.client.Get(ctx, target, acceptJSON())
	})
}

// Write issues POST /contacts with the contact record as the JSON body.
func (r *Runner) Write(ctx context.Context) Result {
	target := r.baseURL + ContactsPath
	return r.exchange(NameWrite, http.MethodPost, ContactsPath, target, func() (httpclient.Response, error) {
		return r.client.Post(ctx, target, r.contact, acceptJSON())
	})
}

// Delete issues DELETE /contacts/{id}.
func (r *Runner) Delete(ctx context.Context, id string) Result {
	path := ContactsPath + "/" + url.PathEscape(id)
	target := r.baseURL + path
	return r.exchange(NameCleanup, http.MethodDelete, path, target, func() (httpclient.Response, error) {
		return r.client.Delete(ctx, target, acceptJSON())
	})
}

func (r *Runner) readQuery() string {
	q := url.Values{}
	if r.page > 0 {
		q.Set("page", strconv.Itoa(r.page))
	}
	if r.limit > 0 {
		q.Set("limit", strconv.Itoa(r.limit))
	}
	return q.Encode()
}

func (r *Runner) exchange(name, method, path, target string, call func() (httpclient.Response, error)) Result {
	res := Result{Name: name, Method: method, Path: path, URL: target}
	start := time.Now()

	r.log.DebugObj("probe started", "probe", map[string]any{"name": name, "method": method, "url": target})

	resp, err := call()
	if err != nil {
		res.Failure = &Failure{Reason: ReasonTransport, Err: err}
		r.logFailure(res)
		res.ElapsedMs = time.Since(start).Milliseconds()
		return res
	}
	res.StatusCode = resp.StatusCode()

	decoded, compact, err := decodeJSON(resp.Body())
	if err != nil {
		res.Failure = &Failure{Reason: ReasonDecode, Err: err}
		r.logFailure(res)
		res.ElapsedMs = time.Since(start).Milliseconds()
		return res
	}
	res.Decoded = decoded
	res.Payload = compact
	res.ElapsedMs = time.Since(start).Milliseconds()

	r.log.InfoObj("probe completed", "probe_result", map[string]any{
		"name":        name,
		"status_code": res.StatusCode,
		"elapsed_ms":  res.ElapsedMs,
	})
	return res
}

func (r *Runner) logFailure(res Result) {
	r.log.WarnObj("probe failed", "probe_error", map[string]any{
		"name":        res.Name,
		"url":         res.URL,
		"status_code": res.StatusCode,
		"reason":      string(res.Failure.Reason),
		"error":       res.Failure.Err.Error(),
	})
}

// decodeJSON decodes a single JSON value, keeping numbers exact, and returns
// it together with its compacted encoding.
func decodeJSON(body []byte) (any, json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("decode response body: empty body")
		}
		return nil, nil, fmt.Errorf("decode response body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("decode response body: trailing data after JSON value")
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return nil, nil, fmt.Errorf("compact response body: %w", err)
	}
	return v, json.RawMessage(buf.Bytes()), nil
}

// createdID extracts the "id" field of a successful write response.
func createdID(res Result) (string, bool) {
	if !res.OK() {
		return "", false
	}
	obj, ok := res.Decoded.(map[string]any)
	if !ok {
		return "", false
	}
	switch id := obj["id"].(type) {
	case string:
		id = strings.TrimSpace(id)
		return id, id != ""
	case json.Number:
		return id.String(), true
	default:
		return "", false
	}
}

func acceptJSON() map[string]string {
	return map[string]string{"Accept": "application/json"}
}
