package academics

import (
	"errors"
	"testing"

	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
)

func subj(code string, credits int, grade string) SubjectInput {
	return SubjectInput{
		SubjectName: "Subject " + code,
		SubjectCode: code,
		Credits:     credits,
		Grade:       grade,
	}
}

func TestBuildSemesterRecord(t *testing.T) {
	t.Run("SGPA Weighted By Credits", func(t *testing.T) {
		// 4 credits of O (10) + 3 credits of B (6): 58/7 -> 8.29
		rec, err := BuildSemesterRecord(3, []SubjectInput{
			subj("CS101", 4, "O"),
			subj("CS102", 3, "B"),
		})
		if err != nil {
			t.Fatalf("BuildSemesterRecord failed: %v", err)
		}

		if rec.SGPA != 8.29 {
			t.Errorf("SGPA = %.2f, want 8.29", rec.SGPA)
		}
		if rec.TotalCredits != 7 {
			t.Errorf("TotalCredits = %d, want 7", rec.TotalCredits)
		}
		if rec.EarnedCredits != 7 {
			t.Errorf("EarnedCredits = %d, want 7", rec.EarnedCredits)
		}
		if rec.BacklogsThisSem != 0 {
			t.Errorf("BacklogsThisSem = %d, want 0", rec.BacklogsThisSem)
		}
	})

	t.Run("Failed Subject Counts As Backlog", func(t *testing.T) {
		// 4 credits of F (0) + 3 credits of A (8) over 7 credits -> 3.43
		rec, err := BuildSemesterRecord(3, []SubjectInput{
			subj("CS101", 4, "F"),
			subj("CS102", 3, "A"),
		})
		if err != nil {
			t.Fatalf("BuildSemesterRecord failed: %v", err)
		}

		if rec.SGPA != 3.43 {
			t.Errorf("SGPA = %.2f, want 3.43", rec.SGPA)
		}
		if rec.BacklogsThisSem != 1 {
			t.Errorf("BacklogsThisSem = %d, want 1", rec.BacklogsThisSem)
		}
		// Failed subject's credits are attempted but not earned
		if rec.EarnedCredits != 3 {
			t.Errorf("EarnedCredits = %d, want 3", rec.EarnedCredits)
		}
	})

	t.Run("Absent Counts As Backlog", func(t *testing.T) {
		rec, err := BuildSemesterRecord(1, []SubjectInput{
			subj("MA101", 4, "Ab"),
			subj("PH101", 4, "F"),
			subj("CH101", 4, "C"),
		})
		if err != nil {
			t.Fatalf("BuildSemesterRecord failed: %v", err)
		}
		if rec.BacklogsThisSem != 2 {
			t.Errorf("BacklogsThisSem = %d, want 2", rec.BacklogsThisSem)
		}
	})

	t.Run("Grade Points Attached Per Subject", func(t *testing.T) {
		rec, err := BuildSemesterRecord(2, []SubjectInput{
			subj("CS201", 4, "A+"),
			subj("CS202", 3, "F"),
		})
		if err != nil {
			t.Fatalf("BuildSemesterRecord failed: %v", err)
		}
		if rec.Subjects[0].GradePoints != 9 {
			t.Errorf("Subjects[0].GradePoints = %d, want 9", rec.Subjects[0].GradePoints)
		}
		if rec.Subjects[1].GradePoints != 0 {
			t.Errorf("Subjects[1].GradePoints = %d, want 0", rec.Subjects[1].GradePoints)
		}
	})

	t.Run("Unknown Grade Rejects Whole Upload", func(t *testing.T) {
		_, err := BuildSemesterRecord(3, []SubjectInput{
			subj("CS101", 4, "O"),
			subj("CS102", 3, "Z"),
		})
		var inv *InvalidInputError
		if !errors.As(err, &inv) {
			t.Fatalf("expected InvalidInputError, got %v", err)
		}
		if inv.Fields[0].Field != "subjects[1].grade" {
			t.Errorf("Field = %q, want subjects[1].grade", inv.Fields[0].Field)
		}
	})

	t.Run("Non Positive Credits Rejected", func(t *testing.T) {
		_, err := BuildSemesterRecord(3, []SubjectInput{subj("CS101", 0, "O")})
		var inv *InvalidInputError
		if !errors.As(err, &inv) {
			t.Fatalf("expected InvalidInputError, got %v", err)
		}
	})

	t.Run("Semester Out Of Range Rejected", func(t *testing.T) {
		for _, sem := range []int{0, -1, 11} {
			if _, err := BuildSemesterRecord(sem, []SubjectInput{subj("CS101", 4, "O")}); err == nil {
				t.Errorf("semester %d should be rejected", sem)
			}
		}
	})
}

func TestSpliceSemester(t *testing.T) {
	academics := []shared.SemesterRecord{
		{Semester: 1, SGPA: 8.0, TotalCredits: 20},
		{Semester: 2, SGPA: 7.0, TotalCredits: 22},
	}

	t.Run("Replaces Existing Semester Wholesale", func(t *testing.T) {
		replacement := shared.SemesterRecord{Semester: 2, SGPA: 9.0, TotalCredits: 18}
		result := SpliceSemester(academics, replacement)

		if len(result) != 2 {
			t.Fatalf("len = %d, want 2", len(result))
		}
		count := 0
		for _, sem := range result {
			if sem.Semester == 2 {
				count++
				if sem.SGPA != 9.0 || sem.TotalCredits != 18 {
					t.Errorf("semester 2 not replaced: %+v", sem)
				}
			}
		}
		if count != 1 {
			t.Errorf("found %d records for semester 2, want exactly 1", count)
		}
	})

	t.Run("Appends New Semester", func(t *testing.T) {
		result := SpliceSemester(academics, shared.SemesterRecord{Semester: 3, SGPA: 6.5})
		if len(result) != 3 {
			t.Fatalf("len = %d, want 3", len(result))
		}
	})

	t.Run("Does Not Mutate Input", func(t *testing.T) {
		_ = SpliceSemester(academics, shared.SemesterRecord{Semester: 1, SGPA: 1.0})
		if academics[0].SGPA != 8.0 {
			t.Errorf("input slice was mutated")
		}
	})
}

func TestRecomputeCGPA(t *testing.T) {
	t.Run("Credit Weighted Across Completed Semesters", func(t *testing.T) {
		// (8*20 + 7*22) / 42 = 314/42 -> 7.48
		academics := []shared.SemesterRecord{
			{Semester: 1, SGPA: 8.0, TotalCredits: 20},
			{Semester: 2, SGPA: 7.0, TotalCredits: 22},
		}
		if cgpa := RecomputeCGPA(academics); cgpa != 7.48 {
			t.Errorf("CGPA = %.2f, want 7.48", cgpa)
		}
	})

	t.Run("Zero SGPA Semesters Excluded", func(t *testing.T) {
		academics := []shared.SemesterRecord{
			{Semester: 1, SGPA: 8.0, TotalCredits: 20},
			{Semester: 2, SGPA: 0, TotalCredits: 22},
		}
		if cgpa := RecomputeCGPA(academics); cgpa != 8.0 {
			t.Errorf("CGPA = %.2f, want 8.00", cgpa)
		}
	})

	t.Run("Empty History Yields Zero", func(t *testing.T) {
		if cgpa := RecomputeCGPA(nil); cgpa != 0 {
			t.Errorf("CGPA = %.2f, want 0", cgpa)
		}
	})

	t.Run("Idempotent Over Same History", func(t *testing.T) {
		academics := []shared.SemesterRecord{
			{Semester: 1, SGPA: 6.37, TotalCredits: 21},
			{Semester: 2, SGPA: 7.91, TotalCredits: 19},
			{Semester: 3, SGPA: 5.02, TotalCredits: 24},
		}
		first := RecomputeCGPA(academics)
		second := RecomputeCGPA(academics)
		if first != second {
			t.Errorf("CGPA not idempotent: %.2f vs %.2f", first, second)
		}
	})
}

func TestCurrentBacklogs(t *testing.T) {
	academics := []shared.SemesterRecord{
		{Semester: 1, BacklogsThisSem: 2},
		{Semester: 2, BacklogsThisSem: 0},
	}
	latest := academics[1]

	t.Run("Latest Policy Takes Last Semester Only", func(t *testing.T) {
		if got := CurrentBacklogs(shared.BacklogPolicyLatest, academics, latest); got != 0 {
			t.Errorf("CurrentBacklogs = %d, want 0", got)
		}
	})

	t.Run("Cumulative Policy Sums History", func(t *testing.T) {
		if got := CurrentBacklogs(shared.BacklogPolicyCumulative, academics, latest); got != 2 {
			t.Errorf("CurrentBacklogs = %d, want 2", got)
		}
	})
}

func TestTotalBacklogs(t *testing.T) {
	academics := []shared.SemesterRecord{
		{Semester: 1, BacklogsThisSem: 2},
		{Semester: 2, BacklogsThisSem: 1},
		{Semester: 3, BacklogsThisSem: 0},
	}
	if got := TotalBacklogs(academics); got != 3 {
		t.Errorf("TotalBacklogs = %d, want 3", got)
	}
}

func TestApplyAttendance(t *testing.T) {
	t.Run("Running Sums And Percentage", func(t *testing.T) {
		st := &shared.Student{}

		if err := ApplyAttendance(st, 3, 5); err != nil {
			t.Fatalf("ApplyAttendance failed: %v", err)
		}
		if err := ApplyAttendance(st, 2, 5); err != nil {
			t.Fatalf("ApplyAttendance failed: %v", err)
		}

		if st.AttendedClasses != 5 || st.TotalClasses != 10 {
			t.Errorf("counters = %d/%d, want 5/10", st.AttendedClasses, st.TotalClasses)
		}
		if st.AttendancePercentage != 50.00 {
			t.Errorf("AttendancePercentage = %.2f, want 50.00", st.AttendancePercentage)
		}
	})

	t.Run("Negative Deltas Rejected", func(t *testing.T) {
		st := &shared.Student{}
		if err := ApplyAttendance(st, -1, 5); err == nil {
			t.Error("negative attended should be rejected")
		}
		if err := ApplyAttendance(st, 1, -5); err == nil {
			t.Error("negative total should be rejected")
		}
	})

	t.Run("Attended Exceeding Total Rejected", func(t *testing.T) {
		st := &shared.Student{}
		err := ApplyAttendance(st, 6, 5)
		if err == nil {
			t.Fatal("attended > total should be rejected")
		}
		// No partial state written
		if st.AttendedClasses != 0 || st.TotalClasses != 0 || st.AttendancePercentage != 0 {
			t.Errorf("rejected update mutated state: %+v", st)
		}
	})

	t.Run("Invariant Holds After Valid Sequences", func(t *testing.T) {
		st := &shared.Student{}
		batches := [][2]int{{3, 5}, {0, 2}, {4, 4}, {1, 3}}
		for _, b := range batches {
			if err := ApplyAttendance(st, b[0], b[1]); err != nil {
				t.Fatalf("ApplyAttendance(%d, %d) failed: %v", b[0], b[1], err)
			}
			if st.AttendedClasses > st.TotalClasses {
				t.Fatalf("invariant violated: %d > %d", st.AttendedClasses, st.TotalClasses)
			}
		}
		// 8 of 14 -> 57.14
		if st.AttendancePercentage != 57.14 {
			t.Errorf("AttendancePercentage = %.2f, want 57.14", st.AttendancePercentage)
		}
	})

	t.Run("Zero Total Keeps Percentage Zero", func(t *testing.T) {
		st := &shared.Student{}
		if err := ApplyAttendance(st, 0, 0); err != nil {
			t.Fatalf("ApplyAttendance failed: %v", err)
		}
		if st.AttendancePercentage != 0 {
			t.Errorf("AttendancePercentage = %.2f, want 0", st.AttendancePercentage)
		}
	})
}
