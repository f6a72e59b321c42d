package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/akashverma712/shiksha-setu-backend/internal/academics"
	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
)

// Test accounts for local development
const (
	AdminEmployeeID    = "ADM-0001"
	TeacherEmployeeID1 = "TCH-0001"
	TeacherEmployeeID2 = "TCH-0002"

	CommonPassword = "password"

	CurrentBatch = "2023-2027"
)

// StudentSeed describes one student plus the marks history to load.
type StudentSeed struct {
	Name       string
	Email      string
	RollNo     string
	Department string
	Program    string
	Semester   int
	Section    string
	Marks      []MarksSeed
	Attendance [2]int // attended, total
}

// MarksSeed is one semester's subjects.
type MarksSeed struct {
	Semester int
	Subjects []academics.SubjectInput
}

func main() {
	log.Println("Starting Database Seeder...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := shared.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The seeder drops the whole database; never run it against production
	if cfg.IsProduction() {
		log.Fatalf("Refusing to seed: ENVIRONMENT is %q", cfg.Environment)
	}

	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	// Drop all collections to ensure a clean start
	if err := db.Drop(context.Background()); err != nil {
		log.Fatalf("Failed to drop database: %v", err)
	}
	log.Println("Database cleared successfully.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := shared.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	adminID := seedStaff(ctx, db, cfg)
	seedStudents(ctx, db, cfg, adminID)

	log.Println("All data seeding completed successfully.")
}

// ============================================================================
// SEEDING FUNCTIONS
// ============================================================================

func seedStaff(ctx context.Context, db *mongo.Database, cfg *shared.Config) string {
	log.Println("--- Seeding Staff ---")

	hashedBytes, _ := bcrypt.GenerateFromPassword([]byte(CommonPassword), cfg.Security.BCryptCost)
	hashedPassword := string(hashedBytes)
	now := time.Now()

	admin := shared.Admin{
		ID:           shared.GenerateAdminID(),
		EmployeeID:   AdminEmployeeID,
		Name:         "Super Admin",
		Email:        "admin@example.com",
		PasswordHash: hashedPassword,
		Department:   "Administration",
		Role:         shared.RoleAdmin,
		CreatedAt:    now,
	}
	if _, err := db.Collection(shared.ColAdmins).InsertOne(ctx, admin); err != nil {
		log.Fatalf("Error seeding admin: %v", err)
	}
	log.Printf("Seeded Admin: %s", admin.Email)

	teachers := []shared.Teacher{
		{
			ID: shared.GenerateTeacherID(), EmployeeID: TeacherEmployeeID1,
			Name: "Dr. Asha Iyer", Email: "teacher@example.com",
			PasswordHash: hashedPassword, Department: "Computer Science",
			Role: shared.RoleTeacher, RegisteredBy: admin.ID, CreatedAt: now,
		},
		{
			ID: shared.GenerateTeacherID(), EmployeeID: TeacherEmployeeID2,
			Name: "Prof. Rohan Gupta", Email: "hod@example.com",
			PasswordHash: hashedPassword, Department: "Computer Science",
			Role: shared.RoleHOD, RegisteredBy: admin.ID, CreatedAt: now,
		},
	}
	for _, t := range teachers {
		if _, err := db.Collection(shared.ColTeachers).InsertOne(ctx, t); err != nil {
			log.Fatalf("Error seeding teacher %s: %v", t.Email, err)
		}
		log.Printf("Seeded %s: %s", t.Role, t.Email)
	}

	return admin.ID
}

func seedStudents(ctx context.Context, db *mongo.Database, cfg *shared.Config, adminID string) {
	log.Println("--- Seeding Students ---")

	seeds := []StudentSeed{
		{
			Name: "Priya Sharma", Email: "priya@example.com", RollNo: "CS23001",
			Department: "Computer Science", Program: "B.Tech", Semester: 3, Section: "A",
			Attendance: [2]int{80, 90},
			Marks: []MarksSeed{
				{Semester: 1, Subjects: []academics.SubjectInput{
					{SubjectName: "Mathematics I", SubjectCode: "MA101", Credits: 4, Grade: shared.GradeAPlus},
					{SubjectName: "Programming Fundamentals", SubjectCode: "CS101", Credits: 4, Grade: shared.GradeO},
					{SubjectName: "Physics", SubjectCode: "PH101", Credits: 3, Grade: shared.GradeA},
				}},
				{Semester: 2, Subjects: []academics.SubjectInput{
					{SubjectName: "Mathematics II", SubjectCode: "MA102", Credits: 4, Grade: shared.GradeA},
					{SubjectName: "Data Structures", SubjectCode: "CS102", Credits: 4, Grade: shared.GradeAPlus},
				}},
			},
		},
		{
			Name: "Arjun Verma", Email: "arjun@example.com", RollNo: "CS23002",
			Department: "Computer Science", Program: "B.Tech", Semester: 3, Section: "A",
			Attendance: [2]int{45, 90},
			Marks: []MarksSeed{
				{Semester: 1, Subjects: []academics.SubjectInput{
					{SubjectName: "Mathematics I", SubjectCode: "MA101", Credits: 4, Grade: shared.GradeF},
					{SubjectName: "Programming Fundamentals", SubjectCode: "CS101", Credits: 4, Grade: shared.GradeC},
					{SubjectName: "Physics", SubjectCode: "PH101", Credits: 3, Grade: shared.GradeC},
				}},
				{Semester: 2, Subjects: []academics.SubjectInput{
					{SubjectName: "Mathematics II", SubjectCode: "MA102", Credits: 4, Grade: shared.GradeF},
					{SubjectName: "Data Structures", SubjectCode: "CS102", Credits: 4, Grade: shared.GradeAbsent},
				}},
			},
		},
		{
			Name: "Neha Singh", Email: "neha@example.com", RollNo: "CS23003",
			Department: "Computer Science", Program: "B.Tech", Semester: 1, Section: "B",
			Attendance: [2]int{0, 0},
		},
	}

	studentsCol := db.Collection(shared.ColStudents)
	now := time.Now()

	for _, seed := range seeds {
		student := shared.Student{
			ID:           shared.GenerateStudentID(),
			Name:         seed.Name,
			Email:        seed.Email,
			RollNo:       seed.RollNo,
			Department:   seed.Department,
			Program:      seed.Program,
			Batch:        CurrentBatch,
			Semester:     seed.Semester,
			Section:      seed.Section,
			RiskLevel:    shared.RiskLow,
			RegisteredBy: adminID,
			Role:         shared.RoleStudent,
			CreatedAt:    now,
		}

		// Run the marks history through the real record pipeline so the
		// seeded derived fields match what uploads would produce
		for _, m := range seed.Marks {
			rec, err := academics.BuildSemesterRecord(m.Semester, m.Subjects)
			if err != nil {
				log.Fatalf("Error building semester %d for %s: %v", m.Semester, seed.RollNo, err)
			}
			student.Academics = academics.SpliceSemester(student.Academics, rec)
			student.CGPA = academics.RecomputeCGPA(student.Academics)
			student.CurrentBacklogs = academics.CurrentBacklogs(cfg.Risk.BacklogPolicy, student.Academics, rec)
			student.TotalBacklogsEver = academics.TotalBacklogs(student.Academics)
			academics.ClassifyRisk(&student, rec)
		}

		if seed.Attendance[1] > 0 {
			if err := academics.ApplyAttendance(&student, seed.Attendance[0], seed.Attendance[1]); err != nil {
				log.Fatalf("Error applying attendance for %s: %v", seed.RollNo, err)
			}
		}

		if _, err := studentsCol.InsertOne(ctx, student); err != nil {
			log.Fatalf("Error seeding student %s: %v", seed.Email, err)
		}
		log.Printf("Seeded Student: %s (CGPA %.2f, backlogs %d, risk %s)",
			seed.RollNo, student.CGPA, student.CurrentBacklogs, student.RiskLevel)
	}
}
