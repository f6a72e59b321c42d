package students

import (
	"testing"

	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
)

func TestSummarizeEmptyCohort(t *testing.T) {
	summary := summarize(nil)

	if summary.TotalStudents != 0 {
		t.Errorf("expected 0 students, got %d", summary.TotalStudents)
	}
	if summary.AtRiskStudents != 0 {
		t.Errorf("expected 0 at-risk students, got %d", summary.AtRiskStudents)
	}
	if summary.CGPA.Mean != 0 || summary.RiskScore.Max != 0 {
		t.Error("expected zero statistics for empty cohort")
	}
}

func TestSummarizeCohort(t *testing.T) {
	cohort := []shared.Student{
		{
			CGPA: 8.0, TotalClasses: 100, AttendancePercentage: 90,
			RiskLevel: shared.RiskLow,
		},
		{
			CGPA: 6.0, TotalClasses: 100, AttendancePercentage: 70,
			RiskLevel: shared.RiskLow,
		},
		{
			CGPA: 4.0, TotalClasses: 100, AttendancePercentage: 50,
			IsAtRisk: true, RiskScore: 50, RiskLevel: shared.RiskHigh,
		},
		{
			CGPA: 3.0, TotalClasses: 100, AttendancePercentage: 40,
			IsAtRisk: true, RiskScore: 75, RiskLevel: shared.RiskCritical,
		},
	}

	summary := summarize(cohort)

	if summary.TotalStudents != 4 {
		t.Errorf("expected 4 students, got %d", summary.TotalStudents)
	}
	if summary.AtRiskStudents != 2 {
		t.Errorf("expected 2 at-risk students, got %d", summary.AtRiskStudents)
	}
	if summary.ByRiskLevel[shared.RiskLow] != 2 {
		t.Errorf("expected 2 Low, got %d", summary.ByRiskLevel[shared.RiskLow])
	}
	if summary.ByRiskLevel[shared.RiskHigh] != 1 {
		t.Errorf("expected 1 High, got %d", summary.ByRiskLevel[shared.RiskHigh])
	}
	if summary.ByRiskLevel[shared.RiskCritical] != 1 {
		t.Errorf("expected 1 Critical, got %d", summary.ByRiskLevel[shared.RiskCritical])
	}

	// (8 + 6 + 4 + 3) / 4 = 5.25
	if summary.CGPA.Mean != 5.25 {
		t.Errorf("expected cgpa mean 5.25, got %v", summary.CGPA.Mean)
	}
	// (90 + 70 + 50 + 40) / 4 = 62.5
	if summary.Attendance.Mean != 62.5 {
		t.Errorf("expected attendance mean 62.5, got %v", summary.Attendance.Mean)
	}
	if summary.CGPA.Min != 3 || summary.CGPA.Max != 8 {
		t.Errorf("expected cgpa min 3 max 8, got %v/%v", summary.CGPA.Min, summary.CGPA.Max)
	}
	if summary.RiskScore.Max != 75 {
		t.Errorf("expected max risk score 75, got %v", summary.RiskScore.Max)
	}
}

func TestSummarizeSkipsUnstartedStudents(t *testing.T) {
	cohort := []shared.Student{
		{CGPA: 7.0, TotalClasses: 50, AttendancePercentage: 80, RiskLevel: shared.RiskLow},
		// Freshly registered: no grades, no classes yet
		{CGPA: 0, TotalClasses: 0, RiskLevel: shared.RiskLow},
	}

	summary := summarize(cohort)

	if summary.TotalStudents != 2 {
		t.Errorf("expected 2 students, got %d", summary.TotalStudents)
	}
	if summary.CGPA.Mean != 7.0 {
		t.Errorf("expected cgpa mean 7.0 (unstarted excluded), got %v", summary.CGPA.Mean)
	}
	if summary.Attendance.Mean != 80.0 {
		t.Errorf("expected attendance mean 80.0, got %v", summary.Attendance.Mean)
	}
}
