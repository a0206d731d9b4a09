package returns

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
	"github.com/petergfitz2/athena-ai-sub000/internal/infra/database/postgres"
	analyticsrepo "github.com/petergfitz2/athena-ai-sub000/internal/infra/database/postgres/analytics"
	"github.com/petergfitz2/athena-ai-sub000/internal/infra/synthetic"
	"github.com/petergfitz2/athena-ai-sub000/internal/pkg/config"
)

// Source bundles the collaborators chosen by ANALYTICS_SOURCE.
type Source struct {
	Provider  *SharedProvider
	Holdings  analytics.HoldingsRepository // nil for the synthetic source
	Versioner analytics.SeriesVersioner
	Pool      *postgres.Pool // nil for the synthetic source
}

// Open connects the configured return series source.
func Open(ctx context.Context, cfg *config.Config) (*Source, error) {
	switch cfg.Analytics.Source {
	case config.SourceSynthetic:
		provider := NewSharedProvider(synthetic.NewProvider(cfg.Analytics.SyntheticSeed))
		log.Info().Int64("seed", cfg.Analytics.SyntheticSeed).Msg("Using synthetic return series")
		return &Source{Provider: provider, Versioner: provider}, nil

	case config.SourcePostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		repo := analyticsrepo.NewRepository(pool.Pool, cfg.Analytics.Benchmark)
		provider := NewSharedProvider(repo)
		return &Source{Provider: provider, Holdings: repo, Versioner: provider, Pool: pool}, nil

	default:
		return nil, fmt.Errorf("unknown return series source %q", cfg.Analytics.Source)
	}
}

// Close releases the database pool, if any.
func (s *Source) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}
