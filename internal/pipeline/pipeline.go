// Package pipeline runs a campaign over a lead table: score, enrich, draft,
// deliver, classify, then persist the table, report and run history.
package pipeline

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/config"
	"github.com/sells-group/campaign-cli/internal/crm"
	"github.com/sells-group/campaign-cli/internal/fetcher"
	"github.com/sells-group/campaign-cli/internal/generate"
	"github.com/sells-group/campaign-cli/internal/leadtable"
	"github.com/sells-group/campaign-cli/internal/metrics"
	"github.com/sells-group/campaign-cli/internal/model"
	"github.com/sells-group/campaign-cli/internal/store"
)

// Pipeline orchestrates one campaign run at a time.
type Pipeline struct {
	cfg     *config.Config
	gen     generate.Generator
	sender  Sender
	opener  *fetcher.Opener
	store   store.Store
	syncers []crm.Syncer
	metrics *metrics.Manager

	mu sync.Mutex
}

// Option configures optional Pipeline collaborators.
type Option func(*Pipeline)

// WithStore records run history in st.
func WithStore(st store.Store) Option {
	return func(p *Pipeline) { p.store = st }
}

// WithSyncers pushes each run's leads to the given CRM targets.
func WithSyncers(s ...crm.Syncer) Option {
	return func(p *Pipeline) { p.syncers = append(p.syncers, s...) }
}

// WithMetrics records run, lead and delivery metrics on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithOpener overrides how the lead source is opened.
func WithOpener(o *fetcher.Opener) Option {
	return func(p *Pipeline) { p.opener = o }
}

// New creates a Pipeline. Store, syncers and metrics are optional.
func New(cfg *config.Config, gen generate.Generator, sender Sender, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		gen:    gen,
		sender: sender,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.opener == nil {
		p.opener = fetcher.NewOpener(fetcher.Options{
			UserAgent: cfg.Fetch.UserAgent,
			Timeout:   time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		})
	}
	return p
}

// Run processes every lead in order and returns the run summary. A second
// caller blocks until the current run finishes. Only failures to read the
// input or write the output table and report are returned.
func (p *Pipeline) Run(ctx context.Context) (*model.RunSummary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	source := p.cfg.Leads.Path
	log := zap.L().With(zap.String("source", source))
	log.Info("pipeline: starting run")

	start := time.Now()
	p.metrics.RunStarted()

	runID := p.createRun(ctx, source, log)
	if runID != "" {
		log = log.With(zap.String("run_id", runID))
	}

	summary, leads, err := p.execute(ctx, source, log)
	if err != nil {
		p.failRun(ctx, runID, err, log)
		p.metrics.RunFinished(string(model.RunStatusFailed), time.Since(start))
		log.Error("pipeline: run failed", zap.Error(err))
		return nil, err
	}

	p.completeRun(ctx, runID, summary, leads, log)
	p.syncCRM(ctx, leads, log)

	p.metrics.RunFinished(string(model.RunStatusComplete), time.Since(start))
	log.Info("pipeline: run complete",
		zap.Int("total", summary.Total),
		zap.Int("sent", summary.Sent),
		zap.Int("high", summary.High),
		zap.Int("medium", summary.Medium),
		zap.Int("low", summary.Low),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &summary, nil
}

func (p *Pipeline) execute(ctx context.Context, source string, log *zap.Logger) (model.RunSummary, []model.EnrichedLead, error) {
	table, err := leadtable.Load(ctx, p.opener, source, leadtable.LoadOptions{
		Sheet:    p.cfg.Leads.Sheet,
		Encoding: p.cfg.Leads.Encoding,
	})
	if err != nil {
		return model.RunSummary{}, nil, eris.Wrap(err, "pipeline: load leads")
	}
	table.EnsureColumns()
	log.Info("pipeline: leads loaded", zap.Int("rows", table.Len()))

	leads := make([]model.EnrichedLead, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		enriched := p.ProcessLead(ctx, table.Lead(i))
		table.Apply(enriched)
		leads = append(leads, enriched)
	}

	if err := table.Save(p.cfg.Leads.OutputPath); err != nil {
		return model.RunSummary{}, nil, eris.Wrap(err, "pipeline: save output")
	}

	summary := model.Summarize(leads)
	report := FormatSummary(summary, p.smtpAddr(), p.cfg.Leads.OutputPath)
	path, err := WriteReport(p.cfg.Leads.ReportsDir, report)
	if err != nil {
		return model.RunSummary{}, nil, err
	}
	log.Debug("pipeline: report written", zap.String("path", path))

	return summary, leads, nil
}

// ProcessLead takes one lead from Scored through Delivered.
func (p *Pipeline) ProcessLead(ctx context.Context, lead model.Lead) model.EnrichedLead {
	enr := Enrich(ctx, p.gen, lead)
	body := DraftEmail(lead, enr.Intro, p.cfg.Campaign.SenderName)
	priority := model.PriorityForScore(enr.Score)
	subject := Subject(lead, p.cfg.Campaign.Quarter)
	delivery := Deliver(ctx, p.sender, lead, subject, body)

	out := model.EnrichedLead{
		Lead:          lead,
		Score:         enr.Score,
		Persona:       enr.Persona,
		Intro:         enr.Intro,
		Priority:      priority,
		EmailDraft:    body,
		Delivery:      delivery,
		ResponseClass: ClassifyResponse(body),
	}

	p.metrics.LeadProcessed(string(priority))
	p.metrics.EmailDelivery(deliveryResult(delivery))
	zap.L().Debug("pipeline: lead processed",
		zap.Int("row", lead.Row),
		zap.Int("score", out.Score),
		zap.String("source", string(enr.Source)),
		zap.String("status", out.Status()),
	)
	return out
}

func deliveryResult(d model.Delivery) string {
	switch d.Kind {
	case model.DeliverySent:
		return "sent"
	case model.DeliverySkipped:
		return "skipped"
	default:
		return "failed"
	}
}

func (p *Pipeline) smtpAddr() string {
	return net.JoinHostPort(p.cfg.SMTP.Host, strconv.Itoa(p.cfg.SMTP.Port))
}

// Run history and CRM sync are best effort: failures are logged, not returned.

func (p *Pipeline) createRun(ctx context.Context, source string, log *zap.Logger) string {
	if p.store == nil {
		return ""
	}
	run, err := p.store.CreateRun(ctx, source)
	if err != nil {
		log.Warn("pipeline: create run record failed", zap.Error(err))
		return ""
	}
	return run.ID
}

func (p *Pipeline) failRun(ctx context.Context, runID string, cause error, log *zap.Logger) {
	if p.store == nil || runID == "" {
		return
	}
	if err := p.store.FailRun(ctx, runID, cause.Error()); err != nil {
		log.Warn("pipeline: mark run failed", zap.Error(err))
	}
}

func (p *Pipeline) completeRun(ctx context.Context, runID string, summary model.RunSummary, leads []model.EnrichedLead, log *zap.Logger) {
	if p.store == nil || runID == "" {
		return
	}
	results := make([]model.LeadResult, len(leads))
	for i, l := range leads {
		results[i] = model.NewLeadResult(runID, l)
	}
	if err := p.store.CompleteRun(ctx, runID, summary, results); err != nil {
		log.Warn("pipeline: store run results failed", zap.Error(err))
	}
}

func (p *Pipeline) syncCRM(ctx context.Context, leads []model.EnrichedLead, log *zap.Logger) {
	for _, s := range p.syncers {
		res, err := s.Sync(ctx, leads)
		p.metrics.CRMSync(s.Name(), err == nil)
		if err != nil {
			log.Warn("pipeline: crm sync failed", zap.String("target", s.Name()), zap.Error(err))
			continue
		}
		log.Info("pipeline: crm sync complete",
			zap.String("target", s.Name()),
			zap.Int("created", res.Created),
			zap.Int("updated", res.Updated),
			zap.Int("failed", res.Failed),
		)
	}
}
