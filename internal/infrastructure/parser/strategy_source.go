package parser

import (
	"context"
	"fmt"
	"log/slog"

	"ContentWriter/internal/config"
	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
	"ContentWriter/internal/scanner"
)

// StrategySource implements ContentSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sources  []config.SourceConfig
	logger   *slog.Logger
}

var _ ports.ContentSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sources.
func NewStrategySource(reg *scanner.Registry, sources []config.SourceConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sources:  sources,
		logger:   log,
	}
}

// FetchAll iterates over configured sources and executes their scanners.
func (s *StrategySource) FetchAll(ctx context.Context) ([]domain.Document, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch all", "sources", len(s.sources))

	var aggregated []domain.Document
	seen := map[string]struct{}{}
	for _, source := range s.sources {
		s.debug("process source", "source", source.Name, "scanner", source.Scanner, "urls", len(source.URLs))
		strategy, err := s.registry.Resolve(source.Scanner)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", source.Name, err)
		}

		results, err := strategy.Scan(ctx, scanner.Request{
			SiteName: source.Name,
			URLs:     source.URLs,
			Options:  source.Options,
		})
		if err != nil {
			return nil, fmt.Errorf("scan source %s: %w", source.Name, err)
		}

		for _, doc := range results {
			if doc.ExternalID != "" {
				if _, dup := seen[doc.ExternalID]; dup {
					continue
				}
				seen[doc.ExternalID] = struct{}{}
			}
			aggregated = append(aggregated, doc)
		}
		s.debug("source produced documents", "source", source.Name, "count", len(results))
	}

	s.debug("strategy source done", "total_documents", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
