package academics

import (
	"testing"

	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
)

func TestClassifyRisk(t *testing.T) {
	t.Run("No Trigger Leaves Fields Unchanged", func(t *testing.T) {
		st := &shared.Student{RiskLevel: shared.RiskLow, RiskScore: 0}
		ClassifyRisk(st, shared.SemesterRecord{SGPA: 7.5, BacklogsThisSem: 0})

		if st.IsAtRisk || st.RiskLevel != shared.RiskLow || st.RiskScore != 0 {
			t.Errorf("clean semester escalated risk: %+v", st)
		}
	})

	t.Run("Backlog Triggers High", func(t *testing.T) {
		st := &shared.Student{RiskLevel: shared.RiskLow}
		ClassifyRisk(st, shared.SemesterRecord{SGPA: 6.1, BacklogsThisSem: 1})

		if !st.IsAtRisk {
			t.Error("IsAtRisk should be set")
		}
		if st.RiskLevel != shared.RiskHigh {
			t.Errorf("RiskLevel = %s, want High", st.RiskLevel)
		}
		if st.RiskScore != 25 {
			t.Errorf("RiskScore = %d, want 25", st.RiskScore)
		}
	})

	t.Run("Low SGPA Triggers High", func(t *testing.T) {
		st := &shared.Student{RiskLevel: shared.RiskLow}
		ClassifyRisk(st, shared.SemesterRecord{SGPA: 4.8, BacklogsThisSem: 0})

		if !st.IsAtRisk || st.RiskLevel != shared.RiskHigh {
			t.Errorf("sgpa 4.8 should set High, got %+v", st)
		}
	})

	t.Run("Very Low SGPA Triggers Critical", func(t *testing.T) {
		// 4F + 3A over 7 credits -> sgpa 3.43 < 4.0
		st := &shared.Student{RiskLevel: shared.RiskLow}
		ClassifyRisk(st, shared.SemesterRecord{SGPA: 3.43, BacklogsThisSem: 1})

		if st.RiskLevel != shared.RiskCritical {
			t.Errorf("RiskLevel = %s, want Critical", st.RiskLevel)
		}
		if st.RiskScore != 25 {
			t.Errorf("RiskScore = %d, want 25", st.RiskScore)
		}
	})

	t.Run("Three Backlogs Trigger Critical", func(t *testing.T) {
		st := &shared.Student{RiskLevel: shared.RiskLow}
		ClassifyRisk(st, shared.SemesterRecord{SGPA: 6.0, BacklogsThisSem: 3})

		if st.RiskLevel != shared.RiskCritical {
			t.Errorf("RiskLevel = %s, want Critical", st.RiskLevel)
		}
	})

	t.Run("Score Clamped At 100", func(t *testing.T) {
		st := &shared.Student{RiskLevel: shared.RiskLow}
		rec := shared.SemesterRecord{SGPA: 3.0, BacklogsThisSem: 2}

		for i := 0; i < 6; i++ {
			ClassifyRisk(st, rec)
		}
		if st.RiskScore != 100 {
			t.Errorf("RiskScore = %d, want 100", st.RiskScore)
		}
	})

	t.Run("Score Never Decreases", func(t *testing.T) {
		st := &shared.Student{IsAtRisk: true, RiskLevel: shared.RiskCritical, RiskScore: 75}
		ClassifyRisk(st, shared.SemesterRecord{SGPA: 9.2, BacklogsThisSem: 0})

		if st.RiskScore != 75 {
			t.Errorf("RiskScore = %d, want 75", st.RiskScore)
		}
		if !st.IsAtRisk || st.RiskLevel != shared.RiskCritical {
			t.Errorf("good semester auto-healed risk state: %+v", st)
		}
	})
}
