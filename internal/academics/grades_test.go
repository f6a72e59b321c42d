package academics

import (
	"testing"
)

func TestGradePoints(t *testing.T) {
	expected := map[string]int{
		"O": 10, "A+": 9, "A": 8, "B+": 7, "B": 6, "C": 5, "F": 0, "Ab": 0,
	}

	for grade, want := range expected {
		points, err := GradePoints(grade)
		if err != nil {
			t.Fatalf("GradePoints(%q) returned error: %v", grade, err)
		}
		if points != want {
			t.Errorf("GradePoints(%q) = %d, want %d", grade, points, want)
		}
	}
}

func TestGradePoints_UnknownGradeFailsClosed(t *testing.T) {
	for _, grade := range []string{"", "X", "a", "A-", "AB", "o"} {
		if _, err := GradePoints(grade); err == nil {
			t.Errorf("GradePoints(%q) should fail for unknown grade", grade)
		}
	}
}

func TestIsBacklogGrade(t *testing.T) {
	backlogs := map[string]bool{
		"F": true, "Ab": true,
		"O": false, "A+": false, "A": false, "B+": false, "B": false, "C": false,
	}
	for grade, want := range backlogs {
		if got := IsBacklogGrade(grade); got != want {
			t.Errorf("IsBacklogGrade(%q) = %t, want %t", grade, got, want)
		}
	}
}
