// ============================================================================
// internal/shared/models.go
// Shared data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"time"
)

// ============================================================================
// Student Models
// ============================================================================

// Subject represents one graded subject inside a semester record.
// GradePoints is always derived from Grade on upload; a caller-supplied
// value is never trusted.
type Subject struct {
	SubjectName string   `bson:"subject_name" json:"subjectName"`
	SubjectCode string   `bson:"subject_code" json:"subjectCode"`
	Credits     int      `bson:"credits" json:"credits"`
	Grade       string   `bson:"grade" json:"grade"` // O, A+, A, B+, B, C, F, Ab
	GradePoints int      `bson:"grade_points" json:"gradePoints"`
	Marks       *float64 `bson:"marks,omitempty" json:"marks,omitempty"` // 0-100, descriptive only
}

// SemesterRecord holds the subject results and derived aggregates for one
// semester of one student. At most one record exists per semester value;
// re-uploads replace the whole record.
type SemesterRecord struct {
	Semester        int       `bson:"semester" json:"semester"` // 1-10
	Subjects        []Subject `bson:"subjects" json:"subjects"`
	SGPA            float64   `bson:"sgpa" json:"sgpa"`
	TotalCredits    int       `bson:"total_credits" json:"totalCredits"`
	EarnedCredits   int       `bson:"earned_credits" json:"earnedCredits"`
	BacklogsThisSem int       `bson:"backlogs_this_sem" json:"backlogsThisSem"`
}

// Warning is a manual at-risk note given by a teacher.
type Warning struct {
	Date    time.Time `bson:"date" json:"date"`
	Reason  string    `bson:"reason" json:"reason"`
	GivenBy string    `bson:"given_by" json:"givenBy"`
}

// Student is the long-lived entity the academics engine mutates.
// Identity fields are set at registration and never touched afterwards;
// everything derived (sgpa, cgpa, backlogs, risk, attendance percentage)
// is recomputed synchronously on every relevant mutation and persisted
// together with the record.
type Student struct {
	ID             string `bson:"_id" json:"id"`
	Name           string `bson:"name" json:"name"`
	Email          string `bson:"email" json:"email"`
	RollNo         string `bson:"roll_no" json:"rollNo"`
	RegistrationNo string `bson:"registration_no,omitempty" json:"registrationNo,omitempty"`
	Phone          string `bson:"phone,omitempty" json:"phone,omitempty"`
	Department     string `bson:"department" json:"department"`
	Program        string `bson:"program" json:"program"`
	Batch          string `bson:"batch" json:"batch"`
	Semester       int    `bson:"semester" json:"semester"` // semester at registration
	Section        string `bson:"section" json:"section"`

	// Attendance (running sums; percentage is derived)
	TotalClasses         int     `bson:"total_classes" json:"totalClasses"`
	AttendedClasses      int     `bson:"attended_classes" json:"attendedClasses"`
	AttendancePercentage float64 `bson:"attendance_percentage" json:"attendancePercentage"`

	// Academic records, one entry per semester number
	Academics []SemesterRecord `bson:"academics" json:"academics"`

	// Quick access fields, derived from Academics
	CGPA              float64 `bson:"cgpa" json:"cgpa"`
	CurrentBacklogs   int     `bson:"current_backlogs" json:"currentBacklogs"`
	TotalBacklogsEver int     `bson:"total_backlogs_ever" json:"totalBacklogsEver"`

	// Dropout risk
	IsAtRisk  bool      `bson:"is_at_risk" json:"isAtRisk"`
	RiskScore int       `bson:"risk_score" json:"riskScore"` // 0-100, monotonic
	RiskLevel string    `bson:"risk_level" json:"riskLevel"` // Low, Medium, High, Critical
	Warnings  []Warning `bson:"warnings,omitempty" json:"warnings,omitempty"`

	FeePending          bool    `bson:"fee_pending" json:"feePending"`
	Scholarship         bool    `bson:"scholarship" json:"scholarship"`
	FamilyIncome        string  `bson:"family_income,omitempty" json:"familyIncome,omitempty"`
	DistanceFromCollege float64 `bson:"distance_from_college,omitempty" json:"distanceFromCollege,omitempty"`

	RegisteredBy string    `bson:"registered_by" json:"registeredBy"`
	Role         string    `bson:"role" json:"role"`
	Version      int64     `bson:"version" json:"-"` // optimistic concurrency counter
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// ============================================================================
// Staff Models
// ============================================================================

// Admin represents an administrator account.
type Admin struct {
	ID           string    `bson:"_id" json:"id"`
	EmployeeID   string    `bson:"employee_id" json:"employeeId"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"` // Never expose in JSON
	Department   string    `bson:"department" json:"department"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}

// Teacher represents a teacher or HOD account, registered by an admin.
type Teacher struct {
	ID           string    `bson:"_id" json:"id"`
	EmployeeID   string    `bson:"employee_id" json:"employeeId"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Department   string    `bson:"department" json:"department"`
	Role         string    `bson:"role" json:"role"` // Teacher or HOD
	RegisteredBy string    `bson:"registered_by" json:"registeredBy"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}

// ============================================================================
// Auth Models
// ============================================================================

// Session represents an active login session (for JWT revocation).
type Session struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Role      string    `bson:"role" json:"role"`
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// OTP is a one-time student login code. The code itself is stored bcrypt
// hashed; a TTL index on expires_at removes stale documents.
type OTP struct {
	ID        string    `bson:"_id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	CodeHash  string    `bson:"code_hash" json:"-"`
	ExpiresAt time.Time `bson:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// IsExpired reports whether the OTP is past its expiry time.
func (o *OTP) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

// ============================================================================
// Domain Constants
// ============================================================================

const (
	// User roles (casing follows the original registration data)
	RoleAdmin   = "Admin"
	RoleTeacher = "Teacher"
	RoleHOD     = "HOD"
	RoleStudent = "student"

	// Risk levels
	RiskLow      = "Low"
	RiskMedium   = "Medium"
	RiskHigh     = "High"
	RiskCritical = "Critical"

	// Letter grades
	GradeO      = "O"
	GradeAPlus  = "A+"
	GradeA      = "A"
	GradeBPlus  = "B+"
	GradeB      = "B"
	GradeC      = "C"
	GradeF      = "F"
	GradeAbsent = "Ab"

	// Semester bounds
	MinSemester = 1
	MaxSemester = 10
)

// IsValidRiskLevel checks if a risk level is one of the known labels.
func IsValidRiskLevel(level string) bool {
	validLevels := map[string]bool{
		RiskLow: true, RiskMedium: true, RiskHigh: true, RiskCritical: true,
	}
	return validLevels[level]
}

// IsStaffRole checks if a role belongs to a staff account.
func IsStaffRole(role string) bool {
	return role == RoleAdmin || role == RoleTeacher || role == RoleHOD
}
