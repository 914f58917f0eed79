package services

import (
	"context"
	"testing"

	"bridge-platform/internal/models"
)

func TestBuildConditionReports(t *testing.T) {
	year := func(y int64) *int64 { return &y }
	cond := func(c string) *string { return &c }

	summary := []*models.ConditionSummary{
		{Year: year(2020), Condition: cond("Fair"), Count: 6},
		{Year: year(2020), Condition: cond("Good"), Count: 3},
		{Year: year(2020), Condition: cond("Poor"), Count: 1},
		{Year: year(2019), Condition: nil, Count: 2},
		{Year: year(2019), Condition: cond("Poor"), Count: 2},
		{Year: nil, Condition: cond("Good"), Count: 1},
	}

	reports := BuildConditionReports(summary)
	if len(reports) != 3 {
		t.Fatalf("got %d reports, want 3", len(reports))
	}

	r2020 := reports[0]
	if *r2020.Year != 2020 || r2020.Good != 3 || r2020.Fair != 6 || r2020.Poor != 1 || r2020.Total != 10 {
		t.Errorf("2020 report = %+v", r2020)
	}
	if r2020.PoorShare != 0.1 {
		t.Errorf("2020 PoorShare = %v, want 0.1", r2020.PoorShare)
	}

	r2019 := reports[1]
	if r2019.Unrated != 2 || r2019.Total != 4 || r2019.PoorShare != 1 {
		t.Errorf("2019 report = %+v", r2019)
	}

	if reports[2].Year != nil || reports[2].Good != 1 {
		t.Errorf("null-year report = %+v", reports[2])
	}
}

func TestStatisticsService_ConditionReports(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.pipeline.Run(ctx, PipelineOptions{SourcePath: fixture}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	svc := NewStatisticsService(env.repo, env.logger, env.metrics)

	y := 2020
	reports, err := svc.ConditionReports(ctx, &y)
	if err != nil {
		t.Fatalf("ConditionReports() error = %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	if reports[0].Good != 1 || reports[0].Poor != 1 || reports[0].Total != 2 {
		t.Errorf("2020 report = %+v, want one Good and one Poor", reports[0])
	}

	all, err := svc.ConditionReports(ctx, nil)
	if err != nil {
		t.Fatalf("ConditionReports(nil) error = %v", err)
	}
	if len(all) != 2 || *all[0].Year != 2020 || *all[1].Year != 2010 {
		t.Errorf("years = %v, want 2020 then 2010", all)
	}
}
