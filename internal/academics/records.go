// ============================================================================
// internal/academics/records.go
// Pure computation: semester record processing and history aggregation
// ============================================================================

package academics

import (
	"fmt"
	"math"

	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
)

// SubjectInput is one subject entry of a marks upload. GradePoints is
// never accepted from the caller; it is derived from Grade.
type SubjectInput struct {
	SubjectName string   `json:"subjectName" validate:"required"`
	SubjectCode string   `json:"subjectCode" validate:"required"`
	Credits     int      `json:"credits" validate:"required,gt=0"`
	Grade       string   `json:"grade" validate:"required,grade"`
	Marks       *float64 `json:"marks" validate:"omitempty,gte=0,lte=100"`
}

// UploadMarksInput is the payload of a semester marks upload.
type UploadMarksInput struct {
	StudentID string         `json:"studentId" validate:"required"`
	Semester  int            `json:"semester" validate:"required,gte=1,lte=10"`
	Subjects  []SubjectInput `json:"subjects" validate:"required,min=1,dive"`
}

// AttendanceInput is one attendance update batch, e.g. attended 3 of 5
// classes held since the last update.
type AttendanceInput struct {
	StudentID string `json:"studentId" validate:"required"`
	Attended  int    `json:"attended" validate:"gte=0"`
	Total     int    `json:"total" validate:"gte=0"`
}

// WarningInput is the manual risk override payload. IsAtRisk is a pointer
// so that "not provided" is distinguishable from "set to false".
type WarningInput struct {
	StudentID string `json:"studentId" validate:"required"`
	Reason    string `json:"reason"`
	IsAtRisk  *bool  `json:"isAtRisk"`
}

// MarksResult is what a successful marks upload reports back.
type MarksResult struct {
	Student         string  `json:"student"`
	Semester        int     `json:"semester"`
	SGPA            float64 `json:"sgpa"`
	CGPA            float64 `json:"cgpa"`
	BacklogsThisSem int     `json:"backlogsThisSem"`
	CurrentBacklogs int     `json:"currentBacklogs"`
}

// ============================================================================
// Semester Record Processor
// ============================================================================

// BuildSemesterRecord computes a fully populated semester record from raw
// subject entries: grade points per subject, credit totals, backlog count
// and the credit-weighted SGPA. It is pure; the caller splices the result
// into the student's history.
//
// Struct-level constraints (required fields, credit positivity, semester
// range) are expected to have been checked already; this function still
// rejects unknown grades because the grade table is the only authority on
// grade membership.
func BuildSemesterRecord(semester int, subjects []SubjectInput) (shared.SemesterRecord, error) {
	if semester < shared.MinSemester || semester > shared.MaxSemester {
		return shared.SemesterRecord{}, newInvalidInput("semester",
			fmt.Sprintf("must be between %d and %d", shared.MinSemester, shared.MaxSemester))
	}
	if len(subjects) == 0 {
		return shared.SemesterRecord{}, newInvalidInput("subjects", "at least one subject is required")
	}

	rec := shared.SemesterRecord{
		Semester: semester,
		Subjects: make([]shared.Subject, 0, len(subjects)),
	}

	var totalWeightedPoints int
	for i, sub := range subjects {
		if sub.Credits <= 0 {
			return shared.SemesterRecord{}, newInvalidInput(
				fmt.Sprintf("subjects[%d].credits", i), "must be a positive integer")
		}

		points, err := GradePoints(sub.Grade)
		if err != nil {
			return shared.SemesterRecord{}, newInvalidInput(
				fmt.Sprintf("subjects[%d].grade", i), err.Error())
		}

		totalWeightedPoints += points * sub.Credits
		rec.TotalCredits += sub.Credits
		if points > 0 {
			rec.EarnedCredits += sub.Credits
		}
		if IsBacklogGrade(sub.Grade) {
			rec.BacklogsThisSem++
		}

		rec.Subjects = append(rec.Subjects, shared.Subject{
			SubjectName: sub.SubjectName,
			SubjectCode: sub.SubjectCode,
			Credits:     sub.Credits,
			Grade:       sub.Grade,
			GradePoints: points,
			Marks:       sub.Marks,
		})
	}

	if rec.TotalCredits > 0 {
		rec.SGPA = Round2(float64(totalWeightedPoints) / float64(rec.TotalCredits))
	}

	return rec, nil
}

// ============================================================================
// Academic History Aggregator
// ============================================================================

// SpliceSemester replaces any existing record for the same semester number
// and appends the new one. The history never holds two records for one
// semester; re-uploads replace wholesale, they do not merge.
func SpliceSemester(academics []shared.SemesterRecord, rec shared.SemesterRecord) []shared.SemesterRecord {
	result := make([]shared.SemesterRecord, 0, len(academics)+1)
	for _, sem := range academics {
		if sem.Semester != rec.Semester {
			result = append(result, sem)
		}
	}
	return append(result, rec)
}

// RecomputeCGPA computes the cumulative GPA from scratch over the completed
// semesters (sgpa > 0). Recomputing from the full history on every upload
// keeps the value self-correcting when semester data is re-uploaded.
func RecomputeCGPA(academics []shared.SemesterRecord) float64 {
	var totalGradePoints float64
	var totalCompletedCredits int

	for _, sem := range academics {
		if sem.SGPA <= 0 {
			continue
		}
		totalGradePoints += sem.SGPA * float64(sem.TotalCredits)
		totalCompletedCredits += sem.TotalCredits
	}

	if totalCompletedCredits == 0 {
		return 0
	}
	return Round2(totalGradePoints / float64(totalCompletedCredits))
}

// TotalBacklogs sums backlog counts across the whole history. This feeds
// totalBacklogsEver, the lifetime count of failed-subject instances.
func TotalBacklogs(academics []shared.SemesterRecord) int {
	total := 0
	for _, sem := range academics {
		total += sem.BacklogsThisSem
	}
	return total
}

// CurrentBacklogs derives the student's current backlog count under the
// configured policy. "latest" mirrors the original system: the count
// reflects only the most recently uploaded semester, so older unresolved
// backlogs disappear from it. "cumulative" counts across the whole history
// instead.
func CurrentBacklogs(policy string, academics []shared.SemesterRecord, latest shared.SemesterRecord) int {
	if policy == shared.BacklogPolicyCumulative {
		return TotalBacklogs(academics)
	}
	return latest.BacklogsThisSem
}

// ============================================================================
// Attendance Aggregator
// ============================================================================

// ApplyAttendance adds one update batch to the student's running counters
// and recomputes the percentage. Deltas must be non-negative and the
// attended count can never exceed the total.
func ApplyAttendance(st *shared.Student, attended, total int) error {
	if attended < 0 {
		return newInvalidInput("attended", "must be non-negative")
	}
	if total < 0 {
		return newInvalidInput("total", "must be non-negative")
	}
	if attended > total {
		return newInvalidInput("attended", "cannot exceed total classes in the update")
	}

	newAttended := st.AttendedClasses + attended
	newTotal := st.TotalClasses + total
	if newAttended > newTotal {
		return newInvalidInput("attended", "attended classes cannot exceed total classes")
	}

	st.AttendedClasses = newAttended
	st.TotalClasses = newTotal

	if st.TotalClasses > 0 {
		st.AttendancePercentage = Round2(float64(st.AttendedClasses) / float64(st.TotalClasses) * 100)
	} else {
		st.AttendancePercentage = 0
	}
	return nil
}

// Round2 rounds to 2 decimal places, matching the display precision the
// rest of the system stores.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
