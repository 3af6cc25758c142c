package domain

import (
	"testing"
	"time"
)

func TestDaysUrgency(t *testing.T) {
	now := time.Date(2026, 6, 10, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		name         string
		deadline     string
		wantLabel    string
		wantSeverity Severity
	}{
		{"overdue", "2026-06-08", "2d Overdue", SeverityCritical},
		{"due today", "2026-06-10", "Due Today", SeverityWarning},
		{"tomorrow", "2026-06-11", "Tomorrow", SeverityWarning},
		{"two days", "2026-06-12", "2 days left", SeverityWarning},
		{"three days", "2026-06-13", "3 days left", SeverityWarning},
		{"four days", "2026-06-14", "4 days left", SeveritySafe},
		{"far out", "2026-07-10", "30 days left", SeveritySafe},
		{"missing deadline", "", "No deadline", SeveritySafe},
		{"garbage deadline", "soon", "No deadline", SeveritySafe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysUrgency(tt.deadline, now)
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
			if got.Severity != tt.wantSeverity {
				t.Errorf("Severity = %q, want %q", got.Severity, tt.wantSeverity)
			}
		})
	}
}

func TestDaysUrgencyIgnoresHourOfDay(t *testing.T) {
	deadline := "2026-06-10"
	for _, hour := range []int{0, 9, 12, 23} {
		now := time.Date(2026, 6, 10, hour, 59, 0, 0, time.UTC)
		got := DaysUrgency(deadline, now)
		if got.Label != "Due Today" || got.Severity != SeverityWarning {
			t.Errorf("at hour %d: got %q/%q, want Due Today/warning", hour, got.Label, got.Severity)
		}
	}
}

func TestPlanProgress(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
		want float64
	}{
		{"no actions", Plan{}, 0},
		{
			"half done",
			Plan{Actions: []Action{
				{Status: StatusFinished},
				{Status: StatusNotStarted},
			}},
			50,
		},
		{
			"all finished",
			Plan{Actions: []Action{
				{Status: StatusFinished},
				{Status: StatusFinished},
			}},
			100,
		},
		{
			"canceled excluded from both sides",
			Plan{Actions: []Action{
				{Status: StatusFinished},
				{Status: StatusCanceled},
			}},
			100,
		},
		{"only canceled", Plan{Actions: []Action{{Status: StatusCanceled}}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanProgress(tt.plan)
			if got != tt.want {
				t.Errorf("PlanProgress = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("PlanProgress = %v, out of [0,100]", got)
			}
		})
	}
}

func TestStatusCountsPartition(t *testing.T) {
	plan := Plan{Actions: []Action{
		{Status: StatusFinished},
		{Status: StatusFinished},
		{Status: StatusPending},
		{Status: StatusNotStarted},
		{Status: StatusCanceled},
		{Status: Status("not_yet")}, // legacy value counts as todo
	}}
	c := StatusCounts(plan)
	if c.Done != 2 || c.Active != 1 || c.Todo != 2 || c.Canceled != 1 {
		t.Errorf("StatusCounts = %+v", c)
	}
	if sum := c.Done + c.Active + c.Todo + c.Canceled; sum != len(plan.Actions) {
		t.Errorf("counts sum to %d, want %d", sum, len(plan.Actions))
	}
}

func TestActionDuration(t *testing.T) {
	tests := []struct {
		start, end string
		want       string
	}{
		{"09:00", "10:30", "1 hr 30 min"},
		{"09:00", "10:00", "1 hr"},
		{"09:00", "09:45", "45 min"},
		{"09:00", "09:00", "0 min"},
		{"23:00", "01:00", "2 hr"}, // midnight wrap
		{"", "10:00", ""},
		{"09:00", "", ""},
		{"late", "10:00", ""},
	}
	for _, tt := range tests {
		if got := ActionDuration(tt.start, tt.end); got != tt.want {
			t.Errorf("ActionDuration(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestScheduleVariance(t *testing.T) {
	tests := []struct {
		name                     string
		plannedStart, plannedEnd string
		actualEnd                string
		wantPlanned, wantActual  int
		wantDelta                int
		wantStatus               VarianceStatus
	}{
		{
			name:         "on time",
			plannedStart: "2026-01-01", plannedEnd: "2026-01-03", actualEnd: "2026-01-03",
			wantPlanned: 3, wantActual: 3, wantDelta: 0, wantStatus: VarianceOnTime,
		},
		{
			name:         "behind",
			plannedStart: "2026-01-01", plannedEnd: "2026-01-03", actualEnd: "2026-01-05",
			wantPlanned: 3, wantActual: 5, wantDelta: -2, wantStatus: VarianceBehind,
		},
		{
			name:         "ahead",
			plannedStart: "2026-01-01", plannedEnd: "2026-01-05", actualEnd: "2026-01-02",
			wantPlanned: 5, wantActual: 2, wantDelta: 3, wantStatus: VarianceAhead,
		},
		{
			name:         "same day span is one day",
			plannedStart: "2026-01-01", plannedEnd: "", actualEnd: "2026-01-01",
			wantPlanned: 1, wantActual: 1, wantDelta: 0, wantStatus: VarianceOnTime,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ScheduleVariance(tt.plannedStart, tt.plannedEnd, tt.actualEnd)
			if !ok {
				t.Fatalf("ScheduleVariance returned not-ok")
			}
			if got.PlannedDays != tt.wantPlanned {
				t.Errorf("PlannedDays = %d, want %d", got.PlannedDays, tt.wantPlanned)
			}
			if got.ActualDays != tt.wantActual {
				t.Errorf("ActualDays = %d, want %d", got.ActualDays, tt.wantActual)
			}
			if got.DeltaDays != tt.wantDelta {
				t.Errorf("DeltaDays = %d, want %d", got.DeltaDays, tt.wantDelta)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
		})
	}
}

func TestScheduleVarianceMissingDates(t *testing.T) {
	if _, ok := ScheduleVariance("", "2026-01-03", "2026-01-03"); ok {
		t.Error("expected not-ok for missing planned start")
	}
	if _, ok := ScheduleVariance("2026-01-01", "2026-01-03", ""); ok {
		t.Error("expected not-ok for missing actual end")
	}
}
