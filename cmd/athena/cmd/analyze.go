package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
	"github.com/petergfitz2/athena-ai-sub000/internal/infra/returns"
	analyticsService "github.com/petergfitz2/athena-ai-sub000/internal/service/analytics"
)

// HoldingsFile YAML 보유 종목 파일
//
//	holdings:
//	  - symbol: AAPL
//	    weight: 0.6
//	  - symbol: BND
//	    weight: 0.4
type HoldingsFile struct {
	Holdings []analytics.Holding `yaml:"holdings"`
}

// LoadHoldings reads and validates a holdings file.
func LoadHoldings(r io.Reader) ([]analytics.Holding, error) {
	var file HoldingsFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse holdings: %w", err)
	}

	for i, h := range file.Holdings {
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("holdings[%d]: %w", i, err)
		}
	}
	return file.Holdings, nil
}

type analysis struct {
	use   string
	short string
	run   func(ctx context.Context, svc *analyticsService.Service, holdings []analytics.Holding) (any, error)
}

func analysisCommands() []*cobra.Command {
	analyses := []analysis{
		{
			use:   analyticsService.OpPerformance,
			short: "Compute performance metrics",
			run: func(ctx context.Context, svc *analyticsService.Service, h []analytics.Holding) (any, error) {
				return svc.ComputePerformanceMetrics(ctx, h)
			},
		},
		{
			use:   analyticsService.OpCorrelation,
			short: "Compute the holdings correlation matrix",
			run: func(ctx context.Context, svc *analyticsService.Service, h []analytics.Holding) (any, error) {
				return svc.ComputeCorrelationMatrix(ctx, h)
			},
		},
		{
			use:   analyticsService.OpRisk,
			short: "Compute risk metrics",
			run: func(ctx context.Context, svc *analyticsService.Service, h []analytics.Holding) (any, error) {
				return svc.ComputeRiskMetrics(ctx, h)
			},
		},
	}

	cmds := make([]*cobra.Command, len(analyses))
	for i, a := range analyses {
		cmds[i] = &cobra.Command{
			Use:   a.use,
			Short: a.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAnalysis(cmd, a)
			},
		}
	}
	return cmds
}

func runAnalysis(cmd *cobra.Command, a analysis) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := returns.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	holdings, err := resolveHoldings(ctx, src)
	if err != nil {
		return err
	}

	svc := analyticsService.NewService(src.Provider, cfg.Analytics.Params())
	result, err := a.run(ctx, svc, holdings)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func resolveHoldings(ctx context.Context, src *returns.Source) ([]analytics.Holding, error) {
	switch {
	case accountID != "" && holdingsFile != "":
		return nil, errors.New("use either --account or --holdings, not both")
	case accountID != "":
		if src.Holdings == nil {
			return nil, errors.New("--account needs the postgres source")
		}
		return src.Holdings.GetHoldings(ctx, accountID)
	case holdingsFile != "":
		f, err := os.Open(holdingsFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return LoadHoldings(f)
	default:
		return nil, errors.New("one of --holdings or --account is required")
	}
}
