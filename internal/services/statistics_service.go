package services

import (
	"context"
	"fmt"
	"time"

	"bridge-platform/internal/models"
	"bridge-platform/internal/repository"
	"bridge-platform/pkg/logging"
	"bridge-platform/pkg/metrics"
)

// ConditionReport summarizes bridge condition for one inspection year
type ConditionReport struct {
	Year      *int64  `json:"year"`
	Good      int     `json:"good"`
	Fair      int     `json:"fair"`
	Poor      int     `json:"poor"`
	Unrated   int     `json:"unrated"`
	Total     int     `json:"total"`
	PoorShare float64 `json:"poor_share"`
}

// StatisticsService handles condition statistics over loaded inspections
type StatisticsService struct {
	repo    repository.BridgeRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(repo repository.BridgeRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *StatisticsService {
	return &StatisticsService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ConditionReports folds per-condition counts into one report per year,
// newest year first. year restricts the report to a single year.
func (s *StatisticsService) ConditionReports(ctx context.Context, year *int) ([]*ConditionReport, error) {
	startTime := time.Now()

	summary, err := s.repo.ConditionSummary(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load condition summary: %w", err)
	}

	reports := BuildConditionReports(summary)

	s.logger.Debug(ctx, "[STATS_CONDITION_REPORT] Condition reports calculated", logging.Fields{
		"years":       len(reports),
		"duration_ms": time.Since(startTime).Milliseconds(),
	})

	return reports, nil
}

// BuildConditionReports groups summary rows by year, keeping the order in
// which years first appear.
func BuildConditionReports(summary []*models.ConditionSummary) []*ConditionReport {
	var reports []*ConditionReport
	byYear := make(map[int64]*ConditionReport)
	var nullYear *ConditionReport

	for _, row := range summary {
		var report *ConditionReport
		if row.Year == nil {
			if nullYear == nil {
				nullYear = &ConditionReport{}
				reports = append(reports, nullYear)
			}
			report = nullYear
		} else {
			report = byYear[*row.Year]
			if report == nil {
				y := *row.Year
				report = &ConditionReport{Year: &y}
				byYear[y] = report
				reports = append(reports, report)
			}
		}

		condition := ""
		if row.Condition != nil {
			condition = *row.Condition
		}
		switch condition {
		case "Good":
			report.Good += row.Count
		case "Fair":
			report.Fair += row.Count
		case "Poor":
			report.Poor += row.Count
		default:
			report.Unrated += row.Count
		}
		report.Total += row.Count
	}

	for _, r := range reports {
		if rated := r.Good + r.Fair + r.Poor; rated > 0 {
			r.PoorShare = float64(r.Poor) / float64(rated)
		}
	}

	return reports
}
