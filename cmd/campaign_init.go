package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/crm"
	"github.com/sells-group/campaign-cli/internal/generate"
	"github.com/sells-group/campaign-cli/internal/mailer"
	"github.com/sells-group/campaign-cli/internal/metrics"
	"github.com/sells-group/campaign-cli/internal/pipeline"
	"github.com/sells-group/campaign-cli/internal/store"
)

// campaignEnv holds the store, metrics and pipeline shared by the run and
// serve commands.
type campaignEnv struct {
	Store    store.Store
	Metrics  *metrics.Manager
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the environment.
func (ce *campaignEnv) Close() {
	if ce.Store != nil {
		_ = ce.Store.Close()
	}
}

// initCampaign validates cfg for mode, opens the run store, and builds the
// generator, mailer, CRM syncers and pipeline. Callers should defer env.Close().
func initCampaign(ctx context.Context, mode string) (*campaignEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	syncers, err := crm.FromConfig(cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	for _, s := range syncers {
		zap.L().Info("crm sync enabled", zap.String("target", s.Name()))
	}

	m := metrics.NewManager()
	gen := generate.New(ctx, cfg.LLM, m)
	sender := mailer.New(cfg.SMTP)

	p := pipeline.New(cfg, gen, sender,
		pipeline.WithStore(st),
		pipeline.WithSyncers(syncers...),
		pipeline.WithMetrics(m),
	)

	return &campaignEnv{
		Store:    st,
		Metrics:  m,
		Pipeline: p,
	}, nil
}
