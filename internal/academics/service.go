// ============================================================================
// internal/academics/service.go
// Academic record engine: marks upload, attendance, manual risk override
// ============================================================================

package academics

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
)

// maxWriteAttempts bounds the optimistic retry loop around each
// read-modify-write sequence.
const maxWriteAttempts = 3

// Service owns every mutation of student academic state. Each operation is
// one atomic read-modify-write against a single student document, guarded
// by an optimistic version check.
type Service struct {
	studentsCol *mongo.Collection
	riskCfg     shared.RiskConfig
	validate    *validator.Validate
}

// NewService creates a new academics Service instance
func NewService(db *mongo.Database, riskCfg shared.RiskConfig) *Service {
	return &Service{
		studentsCol: db.Collection(shared.ColStudents),
		riskCfg:     riskCfg,
		validate:    newValidator(),
	}
}

// ============================================================================
// Operations
// ============================================================================

// UploadSemesterMarks replaces the student's record for the given semester,
// recomputes CGPA/backlogs/risk and persists everything in one write.
// Nothing is written when any subject fails validation.
func (s *Service) UploadSemesterMarks(ctx context.Context, in UploadMarksInput) (*MarksResult, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	// Build the new semester record up front; it is pure and the same for
	// every retry.
	rec, err := BuildSemesterRecord(in.Semester, in.Subjects)
	if err != nil {
		return nil, err
	}

	var result *MarksResult
	err = s.withStudent(ctx, in.StudentID, func(st *shared.Student) error {
		st.Academics = SpliceSemester(st.Academics, rec)
		st.CGPA = RecomputeCGPA(st.Academics)
		st.CurrentBacklogs = CurrentBacklogs(s.riskCfg.BacklogPolicy, st.Academics, rec)
		st.TotalBacklogsEver = TotalBacklogs(st.Academics)
		ClassifyRisk(st, rec)

		result = &MarksResult{
			Student:         st.Name,
			Semester:        rec.Semester,
			SGPA:            rec.SGPA,
			CGPA:            st.CGPA,
			BacklogsThisSem: rec.BacklogsThisSem,
			CurrentBacklogs: st.CurrentBacklogs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Marks uploaded for student %s semester %d (sgpa=%.2f, cgpa=%.2f, backlogs=%d)",
		in.StudentID, rec.Semester, rec.SGPA, result.CGPA, rec.BacklogsThisSem)
	return result, nil
}

// UpdateAttendance adds one attendance batch to the student's running
// counters and persists the derived percentage.
func (s *Service) UpdateAttendance(ctx context.Context, in AttendanceInput) (float64, error) {
	if err := s.validateInput(in); err != nil {
		return 0, err
	}

	var pct float64
	err := s.withStudent(ctx, in.StudentID, func(st *shared.Student) error {
		if err := ApplyAttendance(st, in.Attended, in.Total); err != nil {
			return err
		}
		pct = st.AttendancePercentage
		return nil
	})
	if err != nil {
		return 0, err
	}
	return pct, nil
}

// SetWarning is the manual override path of the risk state machine: it
// appends a warning note and, when IsAtRisk is explicitly provided,
// overwrites the flag and level directly, bypassing the one-way automatic
// escalation.
func (s *Service) SetWarning(ctx context.Context, givenBy string, in WarningInput) (*shared.Student, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	if in.Reason == "" && in.IsAtRisk == nil {
		return nil, newInvalidInput("reason", "provide a reason or an isAtRisk value")
	}

	var updated *shared.Student
	err := s.withStudent(ctx, in.StudentID, func(st *shared.Student) error {
		if in.Reason != "" {
			st.Warnings = append(st.Warnings, shared.Warning{
				Date:    time.Now(),
				Reason:  in.Reason,
				GivenBy: givenBy,
			})
		}
		if in.IsAtRisk != nil {
			st.IsAtRisk = *in.IsAtRisk
			if *in.IsAtRisk {
				st.RiskLevel = shared.RiskHigh
			} else {
				st.RiskLevel = shared.RiskLow
			}
		}
		updated = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ============================================================================
// Read-Modify-Write Core
// ============================================================================

// withStudent runs one read-modify-write sequence: fetch the student by id,
// apply the mutation in memory, then write the document back only if its
// version is unchanged. A lost race re-reads and re-applies, up to
// maxWriteAttempts; after that ErrConflict surfaces and the caller may
// retry the whole operation.
func (s *Service) withStudent(ctx context.Context, studentID string, mutate func(*shared.Student) error) error {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)

		var st shared.Student
		err := s.studentsCol.FindOne(queryCtx, bson.M{"_id": studentID}).Decode(&st)
		if err != nil {
			cancel()
			if err == mongo.ErrNoDocuments {
				return ErrStudentNotFound
			}
			return fmt.Errorf("failed to load student %s: %w", studentID, err)
		}

		if err := mutate(&st); err != nil {
			cancel()
			return err
		}

		prevVersion := st.Version
		st.Version++
		st.UpdatedAt = time.Now()

		res, err := s.studentsCol.ReplaceOne(queryCtx,
			bson.M{"_id": studentID, "version": prevVersion}, &st)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to save student %s: %w", studentID, err)
		}

		if res.MatchedCount == 1 {
			return nil
		}

		log.Printf("Version conflict on student %s (attempt %d/%d), retrying",
			studentID, attempt+1, maxWriteAttempts)
	}

	return ErrConflict
}

// ============================================================================
// Input Validation
// ============================================================================

// newValidator builds the request validator with json tag field names so
// that reported field paths match the wire format, and a "grade" tag backed
// by the grade table.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("grade", func(fl validator.FieldLevel) bool {
		return IsValidGrade(fl.Field().String())
	})
	return v
}

// validateInput runs struct validation and converts failures into the
// field-level error shape callers can act on.
func (s *Service) validateInput(in interface{}) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := &InvalidInputError{}
	for _, fe := range verrs {
		// Namespace is e.g. "UploadMarksInput.subjects[2].credits";
		// strip the root struct name.
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		out.Fields = append(out.Fields, FieldError{
			Field:   field,
			Message: validationMessage(fe),
		})
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "grade":
		return "must be a known letter grade"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
