package academics

import (
	"errors"
	"testing"
)

func testValidationService() *Service {
	return &Service{validate: newValidator()}
}

func TestValidateInputUploadMarks(t *testing.T) {
	valid := UploadMarksInput{
		StudentID: "STU-1",
		Semester:  3,
		Subjects:  []SubjectInput{subj("CS101", 4, "A")},
	}

	t.Run("Valid Payload Passes", func(t *testing.T) {
		if err := testValidationService().validateInput(valid); err != nil {
			t.Errorf("unexpected validation error: %v", err)
		}
	})

	t.Run("Unknown Grade Rejected With Field Path", func(t *testing.T) {
		in := valid
		in.Subjects = []SubjectInput{
			subj("CS101", 4, "A"),
			subj("CS102", 3, "Z"),
		}

		err := testValidationService().validateInput(in)
		var inv *InvalidInputError
		if !errors.As(err, &inv) {
			t.Fatalf("expected InvalidInputError, got %v", err)
		}
		if inv.Fields[0].Field != "subjects[1].grade" {
			t.Errorf("Field = %q, want subjects[1].grade", inv.Fields[0].Field)
		}
		if inv.Fields[0].Message != "must be a known letter grade" {
			t.Errorf("Message = %q", inv.Fields[0].Message)
		}
	})

	t.Run("Semester Out Of Range Rejected", func(t *testing.T) {
		in := valid
		in.Semester = 11
		if err := testValidationService().validateInput(in); err == nil {
			t.Error("semester 11 should be rejected")
		}
	})

	t.Run("Missing Student ID Rejected", func(t *testing.T) {
		in := valid
		in.StudentID = ""
		if err := testValidationService().validateInput(in); err == nil {
			t.Error("missing studentId should be rejected")
		}
	})

	t.Run("Empty Subject List Rejected", func(t *testing.T) {
		in := valid
		in.Subjects = nil
		if err := testValidationService().validateInput(in); err == nil {
			t.Error("empty subjects should be rejected")
		}
	})
}
