package publishers

import (
	"time"

	"github.com/samvad-hq/contacts-prober/internal/probe"
)

// Event represents the payload published downstream.
type Event struct {
	RunID       string         `json:"run_id"`
	BaseURL     string         `json:"base_url"`
	Failed      int            `json:"failed"`
	Results     []probe.Result `json:"results"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	PublishedAt time.Time      `json:"published_at"`
}

// NewEvent constructs an Event for the given run report.
func NewEvent(rep probe.Report) Event {
	return Event{
		RunID:       rep.RunID,
		BaseURL:     rep.BaseURL,
		Failed:      rep.Failed(),
		Results:     rep.Results,
		StartedAt:   rep.StartedAt,
		FinishedAt:  rep.FinishedAt,
		PublishedAt: time.Now().UTC(),
	}
}
