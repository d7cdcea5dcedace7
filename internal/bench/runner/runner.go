package runner

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/DjordjeVuckovic/entity-search/internal/bench/metrics"
	"github.com/DjordjeVuckovic/entity-search/internal/bench/suite"
	"github.com/DjordjeVuckovic/entity-search/internal/storage"
)

const DefaultRelevanceThreshold = 1

type Config struct {
	KValues            []int
	RelevanceThreshold int
	WarmupRuns         int
	Runs               int
}

func DefaultConfig() Config {
	return Config{
		KValues:            []int{1, 5, 10},
		RelevanceThreshold: DefaultRelevanceThreshold,
		Runs:               1,
	}
}

// maxK is the page size requested per query.
func (c Config) maxK() int {
	if len(c.KValues) == 0 {
		return 10
	}
	return slices.Max(c.KValues)
}

type QueryResult struct {
	QueryID   string          `json:"queryId"`
	Ranked    []string        `json:"ranked"`
	NDCG      map[int]float64 `json:"ndcg"`
	Precision map[int]float64 `json:"precision"`
	Recall    map[int]float64 `json:"recall"`
	AP        float64         `json:"ap"`
	RR        float64         `json:"rr"`
	Latency   LatencyStats    `json:"latency"`
	Error     string          `json:"error,omitempty"`
}

// Aggregate holds the mean metrics over successful queries.
type Aggregate struct {
	QueryCount int             `json:"queryCount"`
	ErrorCount int             `json:"errorCount"`
	NDCG       map[int]float64 `json:"ndcg"`
	Precision  map[int]float64 `json:"precision"`
	Recall     map[int]float64 `json:"recall"`
	MAP        float64         `json:"map"`
	MRR        float64         `json:"mrr"`
	Latency    LatencyStats    `json:"latency"`
}

type Result struct {
	SuiteName string        `json:"suiteName"`
	Config    Config        `json:"config"`
	StartedAt time.Time     `json:"startedAt"`
	Queries   []QueryResult `json:"queries"`
	Aggregate Aggregate     `json:"aggregate"`
}

type Runner struct {
	searcher storage.EntitySearcher
	cfg      Config
}

func New(searcher storage.EntitySearcher, cfg Config) *Runner {
	if cfg.Runs < 1 {
		cfg.Runs = 1
	}
	if cfg.RelevanceThreshold <= 0 {
		cfg.RelevanceThreshold = DefaultRelevanceThreshold
	}
	if len(cfg.KValues) == 0 {
		cfg.KValues = DefaultConfig().KValues
	}
	return &Runner{searcher: searcher, cfg: cfg}
}

// Run executes every query of s. A failing query is recorded and does not
// stop the run.
func (r *Runner) Run(ctx context.Context, s *suite.Suite) (*Result, error) {
	result := &Result{
		SuiteName: s.Name,
		Config:    r.cfg,
		StartedAt: time.Now(),
	}

	for _, q := range s.Queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		qr := r.runQuery(ctx, s, q)
		if qr.Error != "" {
			slog.Warn("Benchmark query failed", "query", q.ID, "error", qr.Error)
		}
		result.Queries = append(result.Queries, qr)
	}

	result.Aggregate = r.aggregate(result.Queries)
	return result, nil
}

func (r *Runner) runQuery(ctx context.Context, s *suite.Suite, q suite.Query) QueryResult {
	sq := storage.SearchQuery{
		Entities: s.EntityList(q),
		Input:    q.Input,
		Filter:   q.Filter,
		Flags:    q.Flags,
	}

	for i := 0; i < r.cfg.WarmupRuns; i++ {
		if _, err := r.searcher.Search(ctx, sq, 0, r.cfg.maxK()); err != nil {
			return QueryResult{QueryID: q.ID, Error: fmt.Sprintf("warmup: %v", err)}
		}
	}

	var ranked []string
	durations := make([]time.Duration, 0, r.cfg.Runs)
	for i := 0; i < r.cfg.Runs; i++ {
		start := time.Now()
		res, err := r.searcher.Search(ctx, sq, 0, r.cfg.maxK())
		if err != nil {
			return QueryResult{QueryID: q.ID, Error: err.Error()}
		}
		durations = append(durations, time.Since(start))

		if i == 0 {
			ranked = make([]string, 0, len(res.Entities))
			for _, e := range res.Entities {
				ranked = append(ranked, e.Entity.String())
			}
		}
	}

	judgments := q.JudgmentMap()
	threshold := r.cfg.RelevanceThreshold
	qr := QueryResult{
		QueryID:   q.ID,
		Ranked:    ranked,
		NDCG:      make(map[int]float64, len(r.cfg.KValues)),
		Precision: make(map[int]float64, len(r.cfg.KValues)),
		Recall:    make(map[int]float64, len(r.cfg.KValues)),
		AP:        metrics.AveragePrecision(ranked, judgments, threshold),
		RR:        metrics.ReciprocalRank(ranked, judgments, threshold),
		Latency:   ComputeLatencyStats(durations),
	}
	for _, k := range r.cfg.KValues {
		qr.NDCG[k] = metrics.NDCGAtK(ranked, judgments, k)
		qr.Precision[k] = metrics.PrecisionAtK(ranked, judgments, k, threshold)
		qr.Recall[k] = metrics.RecallAtK(ranked, judgments, k, threshold)
	}
	return qr
}

func (r *Runner) aggregate(results []QueryResult) Aggregate {
	agg := Aggregate{
		QueryCount: len(results),
		NDCG:       make(map[int]float64, len(r.cfg.KValues)),
		Precision:  make(map[int]float64, len(r.cfg.KValues)),
		Recall:     make(map[int]float64, len(r.cfg.KValues)),
	}

	var latencies []LatencyStats
	var ok int
	for _, qr := range results {
		if qr.Error != "" {
			agg.ErrorCount++
			continue
		}
		ok++
		for _, k := range r.cfg.KValues {
			agg.NDCG[k] += qr.NDCG[k]
			agg.Precision[k] += qr.Precision[k]
			agg.Recall[k] += qr.Recall[k]
		}
		agg.MAP += qr.AP
		agg.MRR += qr.RR
		latencies = append(latencies, qr.Latency)
	}

	if ok > 0 {
		n := float64(ok)
		for _, k := range r.cfg.KValues {
			agg.NDCG[k] /= n
			agg.Precision[k] /= n
			agg.Recall[k] /= n
		}
		agg.MAP /= n
		agg.MRR /= n
	}
	agg.Latency = MergeLatencyStats(latencies)
	return agg
}
