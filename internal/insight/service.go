// Package insight orchestrates the insight pipeline: it fans out the
// independent snapshot reads, runs the scoring rule families, and merges
// the results into one ranked response. All scoring lives in
// internal/scoring; this package owns fetching, assembly, and caching.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/upliftlabs/insights/internal/cache"
	"github.com/upliftlabs/insights/internal/scoring"
	"github.com/upliftlabs/insights/internal/store"
	"github.com/upliftlabs/insights/pkg/metrics"
	"github.com/upliftlabs/insights/pkg/models"
	"golang.org/x/sync/errgroup"
)

// Insight type selectors accepted by the API.
const (
	TypeEmployeeAttrition = "employee_attrition"
	TypeStudentSuccess    = "student_success"
	TypeJobPlacement      = "job_placement"
	TypeSkillGap          = "skill_gap"
	TypeAll               = "all"
)

var ErrUnknownType = errors.New("unknown insight type")
var ErrInvalidTimeframe = errors.New("invalid timeframe")

var validTypes = map[string]bool{
	TypeEmployeeAttrition: true,
	TypeStudentSuccess:    true,
	TypeJobPlacement:      true,
	TypeSkillGap:          true,
	TypeAll:               true,
}

// Timeframe is a hint carried through the request; scoring currently
// ignores it but it participates in cache keys.
var validTimeframes = map[string]bool{
	"":        true,
	"week":    true,
	"month":   true,
	"quarter": true,
}

// Run is one full pipeline invocation: the merged, ranked insight list
// plus its generation timestamp. Runs are never persisted; each response
// supersedes the previous one entirely.
type Run struct {
	Insights    []models.Insight `json:"insights"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// RandSource supplies the growth placeholder in skill-demand trends.
// Implementations must be safe for concurrent use; tests inject a fixed
// source.
type RandSource interface {
	Float64() float64
}

// lockedRand serializes access to a rand.Rand. A bare *rand.Rand is not
// safe for the concurrent handler goroutines that call Metrics.
type lockedRand struct {
	mu  sync.Mutex
	src *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// Service generates insights over a tenant's snapshot data.
type Service struct {
	store    store.Store
	cache    cache.Cache
	cfg      scoring.Config
	cacheTTL time.Duration
	now      func() time.Time
	rng      RandSource
	metrics  *metrics.Manager
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Tests pin it for reproducible
// created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRandSource overrides the growth-figure random source.
func WithRandSource(rng RandSource) Option {
	return func(s *Service) { s.rng = rng }
}

// WithCacheTTL sets how long a generated run is served from cache.
// Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) { s.cacheTTL = ttl }
}

// WithMetrics attaches a metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates an insight Service.
func NewService(st store.Store, c cache.Cache, cfg scoring.Config, opts ...Option) *Service {
	s := &Service{
		store:    st,
		cache:    c,
		cfg:      cfg,
		cacheTTL: 60 * time.Second,
		now:      func() time.Time { return time.Now().UTC() },
		rng:      &lockedRand{src: rand.New(rand.NewSource(time.Now().UnixNano()))},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// snapshot holds the fetched source rows for one run. The four reads are
// mutually independent, so they are fetched concurrently.
type snapshot struct {
	employees   []models.Employee
	students    []models.Student
	jobs        []models.JobPosting
	assessments []models.SkillAssessment
}

// Generate runs the requested insight families against a fresh snapshot.
// An unknown type or timeframe is a client error; any snapshot fetch
// failure fails the whole run, there is no partial-result mode.
func (s *Service) Generate(ctx context.Context, tenantID uuid.UUID, insightType, timeframe string) (*Run, error) {
	if !validTypes[insightType] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, insightType)
	}
	if !validTimeframes[timeframe] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeframe, timeframe)
	}

	key := cache.InsightRunKey(tenantID, insightType, timeframe)
	if run, ok := s.cachedRun(ctx, key); ok {
		s.metrics.IncCacheHit()
		return run, nil
	}
	s.metrics.IncCacheMiss()

	started := time.Now()
	snap, err := s.fetchSnapshot(ctx, tenantID, insightType)
	if err != nil {
		return nil, err
	}

	run := s.assemble(snap, insightType)
	s.metrics.ObserveGeneration(insightType, time.Since(started), len(run.Insights))

	s.storeRun(ctx, key, run)
	return run, nil
}

// fetchSnapshot reads only the tables the requested families need, all
// reads in parallel.
func (s *Service) fetchSnapshot(ctx context.Context, tenantID uuid.UUID, insightType string) (*snapshot, error) {
	all := insightType == TypeAll
	snap := &snapshot{}

	g, gctx := errgroup.WithContext(ctx)

	if all || insightType == TypeEmployeeAttrition {
		g.Go(func() error {
			employees, err := s.store.ListEmployees(gctx, tenantID)
			if err != nil {
				return fmt.Errorf("fetch employees: %w", err)
			}
			snap.employees = employees
			return nil
		})
	}
	if all || insightType == TypeStudentSuccess || insightType == TypeJobPlacement {
		g.Go(func() error {
			students, err := s.store.ListStudents(gctx, tenantID)
			if err != nil {
				return fmt.Errorf("fetch students: %w", err)
			}
			snap.students = students
			return nil
		})
	}
	if all || insightType == TypeJobPlacement || insightType == TypeSkillGap {
		g.Go(func() error {
			jobs, err := s.store.ListJobPostings(gctx, tenantID)
			if err != nil {
				return fmt.Errorf("fetch job postings: %w", err)
			}
			snap.jobs = jobs
			return nil
		})
	}
	if all || insightType == TypeSkillGap {
		g.Go(func() error {
			assessments, err := s.store.ListSkillAssessments(gctx, tenantID)
			if err != nil {
				return fmt.Errorf("fetch skill assessments: %w", err)
			}
			snap.assessments = assessments
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// assemble runs the selected families and merges their output into one
// list sorted descending by confidence, ties broken by id so unchanged
// snapshots produce identical output. Families are never de-duplicated
// against each other; an entity may appear in several categories.
func (s *Service) assemble(snap *snapshot, insightType string) *Run {
	now := s.now()
	all := insightType == TypeAll

	var insights []models.Insight
	if all || insightType == TypeEmployeeAttrition {
		insights = append(insights, s.attritionInsights(snap.employees, now)...)
	}
	if all || insightType == TypeStudentSuccess {
		insights = append(insights, s.successInsights(snap.students, now)...)
	}
	if all || insightType == TypeJobPlacement {
		insights = append(insights, s.placementInsights(snap.students, snap.jobs, now)...)
	}
	if all || insightType == TypeSkillGap {
		insights = append(insights, s.skillGapInsights(snap.jobs, snap.assessments, now)...)
	}

	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].Confidence != insights[j].Confidence {
			return insights[i].Confidence > insights[j].Confidence
		}
		return insights[i].ID < insights[j].ID
	})

	if insights == nil {
		insights = []models.Insight{}
	}
	return &Run{Insights: insights, GeneratedAt: now}
}

func (s *Service) cachedRun(ctx context.Context, key string) (*Run, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var run Run
	if err := json.Unmarshal(raw, &run); err != nil {
		slog.Warn("discarding malformed cached run", "key", key, "error", err)
		return nil, false
	}
	return &run, true
}

func (s *Service) storeRun(ctx context.Context, key string, run *Run) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(run)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		slog.Warn("failed to cache insight run", "key", key, "error", err)
	}
}
