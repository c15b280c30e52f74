package dashboard

import (
	"context"
	"fmt"

	"nemostore-eda/internal/application/filter"
	"nemostore-eda/internal/application/preprocess"
	"nemostore-eda/internal/domain"

	"github.com/rs/zerolog/log"
)

// RawLoader is the part of loader.Loader the dashboard reads through. Each
// call must hand back a snapshot the caller owns.
type RawLoader interface {
	LoadStore(ctx context.Context) (*domain.RawDataset, error)
	Lookup(ctx context.Context, key string) (*domain.RawDataset, error)
}

// Service composes load, enrich, filter and aggregate for one request.
// A source failure still yields a report, computed over an empty dataset,
// together with the error so the caller can surface a warning.
type Service struct {
	Loader RawLoader
}

// Dataset loads src and enriches it. The loader returns a fresh raw copy per
// call, so enrichment runs exactly once on every snapshot it sees.
func (s *Service) Dataset(ctx context.Context, src Source) (*domain.Dataset, error) {
	var (
		raw *domain.RawDataset
		err error
	)
	switch src.Kind {
	case SourceStore, "":
		raw, err = s.Loader.LoadStore(ctx)
	case SourceCSV:
		raw, err = s.Loader.Lookup(ctx, src.Key)
	default:
		return preprocess.Enrich(nil), fmt.Errorf("%w: %q", ErrInvalidSource, src.Kind)
	}
	ds := preprocess.Enrich(raw)
	if err == nil {
		log.Debug().Str("source", src.String()).Int("rows", ds.Len()).Msg("dashboard: dataset ready")
	}
	return ds, err
}

// Facets returns the selector options for src, with middle categories scoped
// to large.
func (s *Service) Facets(ctx context.Context, src Source, large string) (filter.Facets, error) {
	ds, err := s.Dataset(ctx, src)
	return filter.BuildFacets(ds, large), err
}

// Overview summarizes the whole dataset; sidebar filters do not apply.
func (s *Service) Overview(ctx context.Context, src Source) (Overview, error) {
	ds, err := s.Dataset(ctx, src)
	return BuildOverview(ds), err
}

// Industry summarizes the listings left by the sidebar filters in c.
func (s *Service) Industry(ctx context.Context, src Source, c filter.Criteria) (Industry, error) {
	ds, err := s.Dataset(ctx, src)
	return BuildIndustry(filter.Filter(ds, c.WithoutSearch())), err
}

// Search applies the sidebar filters, then the keyword and interest ones.
func (s *Service) Search(ctx context.Context, src Source, c filter.Criteria) (Search, error) {
	ds, err := s.Dataset(ctx, src)
	return BuildSearch(filter.Filter(ds, c.WithoutSearch()), c), err
}

// Summary describes metric m over the sidebar-filtered listings, grouped by
// groupBy when it is set.
func (s *Service) Summary(ctx context.Context, src Source, c filter.Criteria, m domain.Metric, groupBy domain.Category) (MetricSummary, error) {
	ds, err := s.Dataset(ctx, src)
	return BuildSummary(filter.Filter(ds, c.WithoutSearch()), m, groupBy), err
}
