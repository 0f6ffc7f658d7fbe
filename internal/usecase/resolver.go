package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ruokahinta/backend/internal/domain"
)

const (
	defaultConcurrency  = 4
	defaultQueryTimeout = 5 * time.Second
)

// ResolverConfig holds configuration for the ingredient resolver.
// Zero values fall back to defaults.
type ResolverConfig struct {
	Tables          MatchingTables
	Similarity      Similarity
	Languages       []string
	ResultLimit     int
	MaxAlternatives int
	MaxTerms        int
	MinScore        float64
	LexicalFloor    float64
	Concurrency     int
	QueryTimeout    time.Duration
}

// IngredientResolver finds the best catalog products for ingredients.
// It holds no mutable state after construction and is safe for concurrent use.
type IngredientResolver struct {
	adapter      *CatalogAdapter
	extractor    *TermExtractor
	categories   *CategoryTable
	filter       *RelevanceFilter
	scorer       *Scorer
	ranker       *Ranker
	resultLimit  int
	concurrency  int
	queryTimeout time.Duration
	recorder     Recorder
	logger       *zap.Logger
}

// NewIngredientResolver creates a resolver over a catalog collaborator.
// logger and recorder may be nil.
func NewIngredientResolver(
	catalog domain.CatalogClient,
	config ResolverConfig,
	logger *zap.Logger,
	recorder Recorder,
) *IngredientResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	tables := config.Tables
	if tables.Categories == nil && tables.Synonyms == nil && tables.StopModifiers == nil {
		tables = DefaultTables()
	}

	resultLimit := config.ResultLimit
	if resultLimit <= 0 {
		resultLimit = defaultResultLimit
	}
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	queryTimeout := config.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}

	categories := NewCategoryTable(tables.Categories)

	return &IngredientResolver{
		adapter: NewCatalogAdapter(catalog, resultLimit),
		extractor: NewTermExtractor(TermExtractorConfig{
			Languages:     config.Languages,
			StopModifiers: tables.StopModifiers,
			Synonyms:      tables.Synonyms,
			MaxTerms:      config.MaxTerms,
		}, logger.Named("terms")),
		categories: categories,
		filter:     NewRelevanceFilter(categories, logger.Named("filter")),
		scorer: NewScorer(config.Similarity, categories, ScorerConfig{
			LexicalFloor: config.LexicalFloor,
		}),
		ranker: NewRanker(RankerConfig{
			MaxAlternatives: config.MaxAlternatives,
			MinScore:        config.MinScore,
		}),
		resultLimit:  resultLimit,
		concurrency:  concurrency,
		queryTimeout: queryTimeout,
		recorder:     recorder,
		logger:       logger,
	}
}

// ResolveIngredients resolves every request with bounded concurrency and
// returns the results in input order. A failure on one ingredient never
// affects its siblings.
func (r *IngredientResolver) ResolveIngredients(ctx context.Context, requests []domain.IngredientRequest) []domain.MatchResult {
	results := make([]domain.MatchResult, len(requests))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, request := range requests {
		g.Go(func() error {
			results[i] = r.Resolve(ctx, request)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Categories lists the category hints the resolver knows, sorted
func (r *IngredientResolver) Categories() []domain.Category {
	return r.categories.Categories()
}

// Resolve finds the best match for one ingredient.
// Flow: extract terms -> query catalog per term -> filter -> score -> rank.
// The first term that yields a usable candidate wins.
func (r *IngredientResolver) Resolve(ctx context.Context, request domain.IngredientRequest) domain.MatchResult {
	if strings.TrimSpace(request.RawName) == "" {
		return r.finish(unmatched(request, "", domain.ReasonMalformedRequest), 0)
	}

	hint := domain.NormalizeCategory(string(request.CategoryHint))
	if hint == "" {
		hint = r.categories.Infer(request.RawName)
	}

	terms := r.extractor.Extract(request.RawName, request.Quantity, request.Unit)
	if len(terms) == 0 || (len(terms) == 1 && terms[0].Text == "") {
		return r.finish(unmatched(request, hint, domain.ReasonMalformedRequest), 0)
	}

	logger := r.logger.With(zap.String("ingredient", request.RawName), zap.String("category", hint.String()))

	// memoized per call so identical variants cost one round-trip
	seen := make(map[string]bool, len(terms))
	succeeded, failed, attempted := 0, 0, 0

	for _, term := range terms {
		if ctx.Err() != nil {
			logger.Warn("resolution cancelled", zap.Error(ctx.Err()))
			failed++
			break
		}
		key := strings.ToLower(term.Text)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		attempted++

		records, err := r.search(ctx, term)
		if err != nil {
			failed++
			logger.Warn("catalog query failed, trying next term",
				zap.String("term", term.Text),
				zap.Error(err),
			)
			continue
		}
		succeeded++

		scored := r.scoreRecords(logger, term, records, hint)
		if len(scored) == 0 {
			logger.Debug("no usable candidates for term", zap.String("term", term.Text), zap.Int("records", len(records)))
			continue
		}

		result := r.ranker.Rank(request, scored)
		result.Category = hint
		if result.Best != nil {
			logger.Debug("best match",
				zap.String("term", term.Text),
				zap.String("product", result.Best.Record.Name),
				zap.Float64("score", result.Best.Score),
			)
		}
		return r.finish(result, attempted)
	}

	reason := domain.ReasonNoCandidates
	if succeeded == 0 && failed > 0 {
		reason = domain.ReasonCatalogUnavailable
	}
	logger.Info("ingredient not matched", zap.String("reason", string(reason)), zap.Int("terms", attempted))
	return r.finish(unmatched(request, hint, reason), attempted)
}

// search runs one catalog query under its own timeout so a slow query only
// costs this term.
func (r *IngredientResolver) search(ctx context.Context, term domain.SearchTerm) ([]domain.CatalogRecord, error) {
	queryCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	records, err := r.adapter.Search(queryCtx, term, r.resultLimit)
	elapsed := time.Since(start)

	switch {
	case err != nil && errors.Is(queryCtx.Err(), context.DeadlineExceeded):
		r.recorder.ObserveCatalogQuery(QueryOutcomeTimeout, elapsed)
	case err != nil:
		r.recorder.ObserveCatalogQuery(QueryOutcomeError, elapsed)
	case len(records) == 0:
		r.recorder.ObserveCatalogQuery(QueryOutcomeEmpty, elapsed)
	default:
		r.recorder.ObserveCatalogQuery(QueryOutcomeOK, elapsed)
	}
	return records, err
}

func (r *IngredientResolver) scoreRecords(
	logger *zap.Logger,
	term domain.SearchTerm,
	records []domain.CatalogRecord,
	hint domain.Category,
) []ScoredRecord {
	var scored []ScoredRecord
	for _, record := range records {
		if !r.filter.IsRelevant(record, hint) {
			continue
		}
		score, breakdown := r.scorer.Score(term, record, hint)
		if !r.scorer.HasLexicalOverlap(breakdown) {
			continue
		}
		if score < r.ranker.minScore {
			continue
		}
		logger.Debug("candidate",
			zap.String("term", term.Text),
			zap.String("product", record.Name),
			zap.Float64("score", score),
		)
		scored = append(scored, ScoredRecord{
			Record:    record,
			Term:      term,
			Score:     score,
			Breakdown: breakdown,
		})
	}
	return scored
}

func (r *IngredientResolver) finish(result domain.MatchResult, terms int) domain.MatchResult {
	r.recorder.ObserveResolution(result.Reason, terms)
	return result
}

func unmatched(request domain.IngredientRequest, category domain.Category, reason domain.Reason) domain.MatchResult {
	return domain.MatchResult{
		Ingredient:   request,
		Alternatives: []domain.MatchCandidate{},
		Matched:      false,
		Reason:       reason,
		Category:     category,
	}
}
