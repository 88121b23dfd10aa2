package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/samvad-hq/contacts-prober/internal/config"
	"github.com/samvad-hq/contacts-prober/internal/logger"
	"github.com/samvad-hq/contacts-prober/internal/probe"
	"github.com/samvad-hq/contacts-prober/internal/report"
	"github.com/samvad-hq/contacts-prober/pkg/httpclient"
	"github.com/samvad-hq/contacts-prober/pkg/publishers"
)

// Prober wires together the probe runner, the console printer and the
// optional report publishers, and executes a single probe pass.
type Prober struct {
	cfg     *config.Config
	runner  *probe.Runner
	printer *report.Printer
	fanout  *publishers.Fanout
	log     logger.Logger
}

// NewProber builds a prober runtime from config. Probe output is written to out (stdout when nil).
func NewProber(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*Prober, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = os.Stdout
	}

	runner, err := probe.NewRunner(
		httpclient.NewRestyClient(cfg.RequestTimeout),
		cfg.BaseURL,
		probe.WithPagination(cfg.ReadPage, cfg.ReadLimit),
		probe.WithCleanup(cfg.CleanupCreated),
		probe.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("init probe runner: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	log.InfoObj("prober initialized", "prober_config", map[string]any{
		"base_url":         cfg.BaseURL,
		"request_timeout":  cfg.RequestTimeout.String(),
		"cleanup_created":  cfg.CleanupCreated,
		"publishers_count": fanout.Size(),
		"read_page":        cfg.ReadPage,
		"read_limit":       cfg.ReadLimit,
	})

	return &Prober{
		cfg:     cfg,
		runner:  runner,
		printer: report.NewPrinter(out),
		fanout:  fanout,
		log:     log,
	}, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	return publishers.NewFanout(pubClients), nil
}

// Run performs one probe pass, prints it, and publishes the report.
// Probe and publish failures are reported, never returned; only a failed
// console write is an error.
func (p *Prober) Run(ctx context.Context) (probe.Report, error) {
	if p == nil || p.runner == nil {
		return probe.Report{}, fmt.Errorf("prober is not initialized")
	}
	defer p.closePublishers()

	rep := p.runner.Run(ctx)

	if err := p.printer.Print(rep); err != nil {
		return rep, fmt.Errorf("print report: %w", err)
	}

	p.log.InfoObj("probe run completed", "run_meta", map[string]any{
		"run_id":     rep.RunID,
		"probes":     len(rep.Results),
		"failed":     rep.Failed(),
		"elapsed_ms": rep.FinishedAt.Sub(rep.StartedAt).Milliseconds(),
	})

	p.publish(ctx, rep)
	return rep, nil
}

func (p *Prober) publish(ctx context.Context, rep probe.Report) {
	if p.fanout.Size() == 0 {
		return
	}
	delivered, err := p.fanout.Publish(ctx, publishers.NewEvent(rep))
	if err != nil {
		p.log.ErrorObj("report publish failed", "publish_error", map[string]any{
			"run_id":    rep.RunID,
			"delivered": delivered,
			"error":     err.Error(),
		})
		return
	}
	p.log.InfoObj("report published", "publish_meta", map[string]any{
		"run_id":    rep.RunID,
		"delivered": delivered,
	})
}

// closePublishers releases publisher connections, logging any errors encountered.
func (p *Prober) closePublishers() {
	if err := p.fanout.Close(); err != nil {
		p.log.ErrorObj("publishers close failed", "error", err)
	}
}
