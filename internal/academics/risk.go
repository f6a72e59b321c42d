// ============================================================================
// internal/academics/risk.go
// Dropout risk classifier
// ============================================================================

package academics

import (
	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
)

// Risk policy thresholds. A semester triggers escalation when it produced
// any backlog or its SGPA fell below the at-risk line; it is critical when
// backlogs reach CriticalBacklogs or SGPA falls below the critical line.
const (
	AtRiskSGPA       = 5.0
	CriticalSGPA     = 4.0
	CriticalBacklogs = 3
	RiskScoreStep    = 25
	MaxRiskScore     = 100
)

// ClassifyRisk applies the automatic escalation rule to a student after a
// new semester record has been processed. Escalation is one-way: a good
// semester never clears the flag or lowers the score. Recovery requires
// the manual override path so that a human reviews it first.
func ClassifyRisk(st *shared.Student, rec shared.SemesterRecord) {
	if rec.BacklogsThisSem == 0 && rec.SGPA >= AtRiskSGPA {
		return
	}

	st.IsAtRisk = true
	if rec.BacklogsThisSem >= CriticalBacklogs || rec.SGPA < CriticalSGPA {
		st.RiskLevel = shared.RiskCritical
	} else {
		st.RiskLevel = shared.RiskHigh
	}
	st.RiskScore = min(MaxRiskScore, st.RiskScore+RiskScoreStep)
}
