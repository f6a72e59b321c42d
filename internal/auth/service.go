// ============================================================================
// internal/auth/service.go
// Authentication: staff password logins, student OTP login, registration
// ============================================================================

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/akashverma712/shiksha-setu-backend/internal/email"
	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
)

var (
	// ErrInvalidCredentials covers wrong employee id/password pairs and
	// unknown accounts; callers get the same answer for both.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned for missing, malformed, expired or
	// revoked tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrInvalidOTP is returned for wrong, expired or already used codes.
	ErrInvalidOTP = errors.New("invalid or expired OTP")

	// ErrNotFound is returned when the referenced account does not exist.
	ErrNotFound = errors.New("account not found")

	// ErrDuplicate is returned when a unique field (email, roll number,
	// employee id) is already taken.
	ErrDuplicate = errors.New("account already exists")

	// ErrInvalidInput is returned for malformed registration/login payloads.
	ErrInvalidInput = errors.New("invalid input")
)

// Service implements all three authentication flows against MongoDB.
type Service struct {
	cfg         *shared.Config
	mailer      email.Mailer
	adminsCol   *mongo.Collection
	teachersCol *mongo.Collection
	studentsCol *mongo.Collection
	sessionsCol *mongo.Collection
	otpsCol     *mongo.Collection
}

// CustomClaims for JWT
type CustomClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthUser is the authenticated identity injected into request context.
type AuthUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	EmployeeID string `json:"employeeId,omitempty"`
	RollNo     string `json:"rollNo,omitempty"`
}

// LoginResult is returned by every successful login flow.
type LoginResult struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

// NewService creates a new auth Service instance
func NewService(db *mongo.Database, cfg *shared.Config, mailer email.Mailer) *Service {
	return &Service{
		cfg:         cfg,
		mailer:      mailer,
		adminsCol:   db.Collection(shared.ColAdmins),
		teachersCol: db.Collection(shared.ColTeachers),
		studentsCol: db.Collection(shared.ColStudents),
		sessionsCol: db.Collection(shared.ColSessions),
		otpsCol:     db.Collection(shared.ColOTPs),
	}
}

// ============================================================================
// Registration
// ============================================================================

// RegisterAdminInput is the first-admin bootstrap payload.
type RegisterAdminInput struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

// RegisterAdmin creates the first (and only) admin account. Once an admin
// exists the route is closed.
func (s *Service) RegisterAdmin(ctx context.Context, in RegisterAdminInput) (*shared.Admin, error) {
	if in.EmployeeID == "" || in.Name == "" || in.Email == "" || in.Password == "" || in.Department == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := shared.CountDocumentsWithTimeout(ctx, s.adminsCol, bson.M{}, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing admins: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: admin already registered, only one admin allowed", ErrDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.Security.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := shared.Admin{
		ID:           shared.GenerateAdminID(),
		EmployeeID:   in.EmployeeID,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Department:   in.Department,
		Role:         shared.RoleAdmin,
		CreatedAt:    time.Now(),
	}

	if _, err := s.adminsCol.InsertOne(queryCtx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return &admin, nil
}

// RegisterTeacherInput is the admin-supplied teacher registration payload.
type RegisterTeacherInput struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Role       string `json:"role"` // Teacher or HOD, defaults to Teacher
}

// RegisterTeacher creates a teacher or HOD account (admin only).
func (s *Service) RegisterTeacher(ctx context.Context, registeredBy string, in RegisterTeacherInput) (*shared.Teacher, error) {
	if in.EmployeeID == "" || in.Name == "" || in.Email == "" || in.Password == "" || in.Department == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}

	role := in.Role
	if role == "" {
		role = shared.RoleTeacher
	}
	if role != shared.RoleTeacher && role != shared.RoleHOD {
		return nil, fmt.Errorf("%w: role must be Teacher or HOD", ErrInvalidInput)
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := shared.CountDocumentsWithTimeout(ctx, s.teachersCol, bson.M{
		"$or": []bson.M{{"email": in.Email}, {"employee_id": in.EmployeeID}},
	}, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing teachers: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: teacher with this email or employee id exists", ErrDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.Security.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	teacher := shared.Teacher{
		ID:           shared.GenerateTeacherID(),
		EmployeeID:   in.EmployeeID,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Department:   in.Department,
		Role:         role,
		RegisteredBy: registeredBy,
		CreatedAt:    time.Now(),
	}

	if _, err := s.teachersCol.InsertOne(queryCtx, teacher); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create teacher: %w", err)
	}

	return &teacher, nil
}

// RegisterStudentInput is the admin-supplied student registration payload.
// Identity fields are immutable after registration.
type RegisterStudentInput struct {
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	RollNo              string  `json:"rollNo"`
	RegistrationNo      string  `json:"registrationNo"`
	Phone               string  `json:"phone"`
	Department          string  `json:"department"`
	Program             string  `json:"program"`
	Batch               string  `json:"batch"`
	Semester            int     `json:"semester"`
	Section             string  `json:"section"`
	FamilyIncome        string  `json:"familyIncome"`
	DistanceFromCollege float64 `json:"distanceFromCollege"`
	Scholarship         bool    `json:"scholarship"`
}

// RegisterStudent creates a student record (admin only). Derived academic
// and risk fields start at their zero values.
func (s *Service) RegisterStudent(ctx context.Context, registeredBy string, in RegisterStudentInput) (*shared.Student, error) {
	if in.Name == "" || in.Email == "" || in.RollNo == "" || in.Department == "" ||
		in.Program == "" || in.Batch == "" || in.Section == "" {
		return nil, fmt.Errorf("%w: name, email, rollNo, department, program, batch and section are required", ErrInvalidInput)
	}
	if in.Semester < shared.MinSemester || in.Semester > shared.MaxSemester {
		return nil, fmt.Errorf("%w: semester must be between %d and %d", ErrInvalidInput, shared.MinSemester, shared.MaxSemester)
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := shared.CountDocumentsWithTimeout(ctx, s.studentsCol, bson.M{
		"$or": []bson.M{{"email": in.Email}, {"roll_no": in.RollNo}},
	}, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing students: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: student with this email or roll number exists", ErrDuplicate)
	}

	student := shared.Student{
		ID:                  shared.GenerateStudentID(),
		Name:                in.Name,
		Email:               in.Email,
		RollNo:              in.RollNo,
		RegistrationNo:      in.RegistrationNo,
		Phone:               in.Phone,
		Department:          in.Department,
		Program:             in.Program,
		Batch:               in.Batch,
		Semester:            in.Semester,
		Section:             in.Section,
		FamilyIncome:        in.FamilyIncome,
		DistanceFromCollege: in.DistanceFromCollege,
		Scholarship:         in.Scholarship,
		RiskLevel:           shared.RiskLow,
		RegisteredBy:        registeredBy,
		Role:                shared.RoleStudent,
		CreatedAt:           time.Now(),
	}

	if _, err := s.studentsCol.InsertOne(queryCtx, student); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	return &student, nil
}

// ============================================================================
// Password Logins (Admin, Teacher/HOD)
// ============================================================================

// AdminLogin authenticates an admin by employee id and password.
func (s *Service) AdminLogin(ctx context.Context, employeeID, password string) (*LoginResult, error) {
	if employeeID == "" || password == "" {
		return nil, fmt.Errorf("%w: employee id and password are required", ErrInvalidInput)
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var admin shared.Admin
	err := s.adminsCol.FindOne(queryCtx, bson.M{"employee_id": employeeID}).Decode(&admin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user := AuthUser{
		ID: admin.ID, Name: admin.Name, Email: admin.Email,
		Role: shared.RoleAdmin, EmployeeID: admin.EmployeeID,
	}
	return s.createSession(queryCtx, user)
}

// TeacherLogin authenticates a teacher or HOD by employee id and password.
func (s *Service) TeacherLogin(ctx context.Context, employeeID, password string) (*LoginResult, error) {
	if employeeID == "" || password == "" {
		return nil, fmt.Errorf("%w: employee id and password are required", ErrInvalidInput)
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var teacher shared.Teacher
	err := s.teachersCol.FindOne(queryCtx, bson.M{"employee_id": employeeID}).Decode(&teacher)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load teacher: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user := AuthUser{
		ID: teacher.ID, Name: teacher.Name, Email: teacher.Email,
		Role: teacher.Role, EmployeeID: teacher.EmployeeID,
	}
	return s.createSession(queryCtx, user)
}

// ============================================================================
// Student OTP Login
// ============================================================================

// SendStudentOTP issues a fresh login code for the student's email and
// delivers it through the configured mailer. Any previous code for the
// same email is invalidated first.
func (s *Service) SendStudentOTP(ctx context.Context, studentEmail string) error {
	if studentEmail == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var student shared.Student
	err := s.studentsCol.FindOne(queryCtx, bson.M{"email": studentEmail}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load student: %w", err)
	}

	code, err := generateOTPCode()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), s.cfg.Security.BCryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash OTP: %w", err)
	}

	// One active code per email
	if _, err := s.otpsCol.DeleteMany(queryCtx, bson.M{"email": studentEmail}); err != nil {
		return fmt.Errorf("failed to clear previous OTP: %w", err)
	}

	otp := shared.OTP{
		ID:        shared.GenerateID("OTP"),
		Email:     studentEmail,
		CodeHash:  string(codeHash),
		ExpiresAt: time.Now().Add(s.cfg.Security.OTPTTL),
		CreatedAt: time.Now(),
	}
	if _, err := s.otpsCol.InsertOne(queryCtx, otp); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	msg := email.Message{
		To:      studentEmail,
		Subject: "Your Login OTP",
		Plain:   fmt.Sprintf("Your login code is %s. Valid for %d minutes.", code, int(s.cfg.Security.OTPTTL.Minutes())),
		HTML: fmt.Sprintf(`<div style="font-family: sans-serif; text-align: center; padding: 30px;">
  <h1>%s</h1>
  <h2 style="font-size: 42px; letter-spacing: 10px;">%s</h2>
  <p>Valid for %d minutes</p>
</div>`, s.cfg.AppName, code, int(s.cfg.Security.OTPTTL.Minutes())),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	return nil
}

// VerifyStudentOTP checks the submitted code and, on success, consumes it
// and issues a student session token. Codes are single use.
func (s *Service) VerifyStudentOTP(ctx context.Context, studentEmail, code string) (*LoginResult, error) {
	if studentEmail == "" || code == "" {
		return nil, fmt.Errorf("%w: email and code are required", ErrInvalidInput)
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var otp shared.OTP
	err := s.otpsCol.FindOne(queryCtx, bson.M{"email": studentEmail}).Decode(&otp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("failed to load OTP: %w", err)
	}

	// The TTL monitor removes expired documents eventually, not instantly
	if otp.IsExpired() {
		return nil, ErrInvalidOTP
	}

	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)); err != nil {
		return nil, ErrInvalidOTP
	}

	var student shared.Student
	err = s.studentsCol.FindOne(queryCtx, bson.M{"email": studentEmail}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	if _, err := s.otpsCol.DeleteOne(queryCtx, bson.M{"_id": otp.ID}); err != nil {
		return nil, fmt.Errorf("failed to consume OTP: %w", err)
	}

	user := AuthUser{
		ID: student.ID, Name: student.Name, Email: student.Email,
		Role: shared.RoleStudent, RollNo: student.RollNo,
	}
	return s.createSession(queryCtx, user)
}

// ============================================================================
// Sessions and Tokens
// ============================================================================

// Logout removes the session for a token. Idempotent: logging out an
// already-expired session still succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.sessionsCol.DeleteMany(queryCtx, bson.M{"token": token}); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// ValidateToken verifies the JWT signature, checks the session is still
// active (revocation check) and resolves the account behind it.
func (s *Service) ValidateToken(ctx context.Context, token string) (*AuthUser, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims, err := s.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := shared.CountDocumentsWithTimeout(ctx, s.sessionsCol, bson.M{"token": token}, 5*time.Second)
	if err != nil || count == 0 {
		return nil, ErrInvalidToken
	}

	// Resolve the account: try admin, then teacher, then student,
	// the same lookup order the token's role implies.
	switch claims.Role {
	case shared.RoleAdmin:
		var admin shared.Admin
		if err := s.adminsCol.FindOne(queryCtx, bson.M{"_id": claims.UserID}).Decode(&admin); err != nil {
			return nil, ErrInvalidToken
		}
		return &AuthUser{ID: admin.ID, Name: admin.Name, Email: admin.Email, Role: shared.RoleAdmin, EmployeeID: admin.EmployeeID}, nil
	case shared.RoleTeacher, shared.RoleHOD:
		var teacher shared.Teacher
		if err := s.teachersCol.FindOne(queryCtx, bson.M{"_id": claims.UserID}).Decode(&teacher); err != nil {
			return nil, ErrInvalidToken
		}
		return &AuthUser{ID: teacher.ID, Name: teacher.Name, Email: teacher.Email, Role: teacher.Role, EmployeeID: teacher.EmployeeID}, nil
	case shared.RoleStudent:
		var student shared.Student
		if err := s.studentsCol.FindOne(queryCtx, bson.M{"_id": claims.UserID}).Decode(&student); err != nil {
			return nil, ErrInvalidToken
		}
		return &AuthUser{ID: student.ID, Name: student.Name, Email: student.Email, Role: shared.RoleStudent, RollNo: student.RollNo}, nil
	default:
		return nil, ErrInvalidToken
	}
}

// createSession issues a JWT and records it server side for revocation.
func (s *Service) createSession(ctx context.Context, user AuthUser) (*LoginResult, error) {
	token, expiresAt, err := s.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	session := shared.Session{
		ID:        shared.GenerateID("SESS"),
		UserID:    user.ID,
		Role:      user.Role,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	if _, err := s.sessionsCol.InsertOne(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

// GenerateToken creates a signed JWT for a user id and role.
func (s *Service) GenerateToken(userID, role string) (string, time.Time, error) {
	expirationTime := time.Now().Add(time.Duration(s.cfg.Security.JWTExpirationHours) * time.Hour)

	claims := CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique ID (jti) keeps tokens distinct even when issued at
			// the same timestamp
			ID:        shared.GenerateID("jti"),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "shiksha-setu",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.Security.JWTSecret))

	return tokenString, expirationTime, err
}

// ParseToken validates the JWT signature and extracts claims.
func (s *Service) ParseToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Security.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// generateOTPCode returns a 6-digit numeric code from crypto/rand.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
