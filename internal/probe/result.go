package probe

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrProbeFailed matches every probe failure regardless of reason.
var ErrProbeFailed = errors.New("probe failed")

// Reason classifies why a probe failed.
type Reason string

const (
	// ReasonTransport covers connection refused, DNS, timeouts and cancellation.
	ReasonTransport Reason = "transport"
	// ReasonDecode means a response arrived but its body was not valid JSON.
	ReasonDecode Reason = "decode"
)

// Failure is the typed failure of a single probe.
type Failure struct {
	Reason Reason
	Err    error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Reason)
	}
	return fmt.Sprintf("%s: %v", f.Reason, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Is reports ErrProbeFailed as matching any Failure.
func (f *Failure) Is(target error) bool { return target == ErrProbeFailed }

func (f *Failure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		Reason  Reason `json:"reason"`
		Message string `json:"message"`
	}{f.Reason, msg})
}

// Result is the outcome of one request/response exchange.
// StatusCode is zero when no response was received.
type Result struct {
	Name       string          `json:"name"`
	Method     string          `json:"method"`
	Path       string          `json:"path"`
	URL        string          `json:"url"`
	StatusCode int             `json:"status_code,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Decoded    any             `json:"-"`
	Failure    *Failure        `json:"failure,omitempty"`
	ElapsedMs  int64           `json:"elapsed_ms"`
}

// OK reports whether the probe received and decoded a response.
func (r Result) OK() bool { return r.Failure == nil }

// Err returns the failure as an error, or nil.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// Report is the outcome of a full run, results in execution order.
type Report struct {
	RunID      string    `json:"run_id"`
	BaseURL    string    `json:"base_url"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Results    []Result  `json:"results"`
}

// Failed returns the number of failed probes.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n
}

// Result returns the named probe result, if it ran.
func (r Report) Result(name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return Result{}, false
}
