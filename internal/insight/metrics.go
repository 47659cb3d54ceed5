package insight

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/upliftlabs/insights/internal/scoring"
	"github.com/upliftlabs/insights/pkg/models"
	"golang.org/x/sync/errgroup"
)

// Bounds of the placeholder growth figure: rng in [0,1) maps to [0.1, 0.4).
const (
	growthBase = 0.1
	growthSpan = 0.3

	placementCeiling = 0.9
	placementFactor  = 1.2

	// Revenue growth is a fixed forecast placeholder carried over from the
	// original dashboard; no model backs it.
	revenueGrowthForecast = 0.15

	trendLimit = 10
)

// Metrics computes the aggregate predictive summary over a fresh snapshot.
// The skill-trend growth figures come from the injected random source and
// are the only non-reproducible values in the payload.
func (s *Service) Metrics(ctx context.Context, tenantID uuid.UUID) (*models.PredictiveMetrics, error) {
	var (
		employees []models.Employee
		students  []models.Student
		jobs      []models.JobPosting
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if employees, err = s.store.ListEmployees(gctx, tenantID); err != nil {
			return fmt.Errorf("fetch employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if students, err = s.store.ListStudents(gctx, tenantID); err != nil {
			return fmt.Errorf("fetch students: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if jobs, err = s.store.ListJobPostings(gctx, tenantID); err != nil {
			return fmt.Errorf("fetch job postings: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()

	m := &models.PredictiveMetrics{
		RevenueGrowth:     revenueGrowthForecast,
		SkillDemandTrends: []models.SkillTrend{},
	}

	if len(employees) > 0 {
		sum := 0.0
		for _, emp := range employees {
			f := scoring.ExtractEmployeeFeatures(emp, now, s.cfg)
			sum += scoring.AttritionRisk(f, s.cfg).Score
		}
		m.AttritionRisk = sum / float64(len(employees))
	}

	if len(students) > 0 {
		sum := 0.0
		for _, st := range students {
			f := scoring.ExtractStudentFeatures(st)
			sum += scoring.StudentSuccess(f, s.cfg).Score
		}
		m.StudentSuccessRate = sum / float64(len(students))
	}

	m.PlacementProbability = math.Min(placementCeiling, m.StudentSuccessRate*placementFactor)

	demand := scoring.DemandHistogram(jobs, s.cfg)
	for _, skill := range scoring.TopDemand(demand, trendLimit) {
		m.SkillDemandTrends = append(m.SkillDemandTrends, models.SkillTrend{
			Skill:  skill,
			Demand: demand[skill],
			Growth: s.rng.Float64()*growthSpan + growthBase,
		})
	}

	return m, nil
}
