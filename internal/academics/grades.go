// ============================================================================
// internal/academics/grades.go
// Letter grade to grade point mapping
// ============================================================================

package academics

import (
	"fmt"

	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
)

// gradePointTable is the fixed 8-entry mapping from letter grade to grade
// points on the 10-point scale.
var gradePointTable = map[string]int{
	shared.GradeO:      10,
	shared.GradeAPlus:  9,
	shared.GradeA:      8,
	shared.GradeBPlus:  7,
	shared.GradeB:      6,
	shared.GradeC:      5,
	shared.GradeF:      0,
	shared.GradeAbsent: 0,
}

// GradePoints returns the grade point value for a letter grade. Unknown
// grades fail closed: a silent zero here would corrupt every downstream
// SGPA and CGPA sum.
func GradePoints(grade string) (int, error) {
	points, ok := gradePointTable[grade]
	if !ok {
		return 0, fmt.Errorf("unknown grade %q", grade)
	}
	return points, nil
}

// IsValidGrade checks if grade is one of the 8 known letter grades.
func IsValidGrade(grade string) bool {
	_, ok := gradePointTable[grade]
	return ok
}

// IsBacklogGrade reports whether a grade counts as a backlog (failed or
// absent).
func IsBacklogGrade(grade string) bool {
	return grade == shared.GradeF || grade == shared.GradeAbsent
}
