// ============================================================================
// internal/students/service.go
// Student directory: lookups, at-risk listing, cohort risk statistics
// ============================================================================

package students

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
)

// ErrStudentNotFound is returned when the requested student does not exist.
var ErrStudentNotFound = errors.New("student not found")

// defaultListLimit caps unbounded listings.
const defaultListLimit = 500

// Service reads student documents and derives cohort statistics.
type Service struct {
	studentsCol *mongo.Collection
}

// NewService creates a new students Service instance
func NewService(db *mongo.Database) *Service {
	return &Service{
		studentsCol: db.Collection(shared.ColStudents),
	}
}

// GetByID returns the full student document.
func (s *Service) GetByID(ctx context.Context, id string) (*shared.Student, error) {
	var student shared.Student
	err := shared.FindOneWithTimeout(ctx, s.studentsCol, bson.M{"_id": id}, &student, 10*time.Second)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	return &student, nil
}

// ListFilter narrows List results. Zero values mean no constraint.
type ListFilter struct {
	Department string
	Batch      string
	Semester   int
}

// List returns students matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]shared.Student, error) {
	query := bson.M{}
	if filter.Department != "" {
		query["department"] = filter.Department
	}
	if filter.Batch != "" {
		query["batch"] = filter.Batch
	}
	if filter.Semester > 0 {
		query["semester"] = filter.Semester
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := shared.BuildFindOptions(defaultListLimit, "created_at", -1)
	cursor, err := s.studentsCol.Find(queryCtx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer cursor.Close(queryCtx)

	students := []shared.Student{}
	if err := cursor.All(queryCtx, &students); err != nil {
		return nil, fmt.Errorf("failed to decode students: %w", err)
	}
	return students, nil
}

// ListAtRisk returns flagged students ordered by risk score, highest first.
func (s *Service) ListAtRisk(ctx context.Context) ([]shared.Student, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := shared.BuildFindOptions(defaultListLimit, "risk_score", -1)
	cursor, err := s.studentsCol.Find(queryCtx, bson.M{"is_at_risk": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list at-risk students: %w", err)
	}
	defer cursor.Close(queryCtx)

	students := []shared.Student{}
	if err := cursor.All(queryCtx, &students); err != nil {
		return nil, fmt.Errorf("failed to decode students: %w", err)
	}
	return students, nil
}

// ============================================================================
// Cohort Risk Statistics
// ============================================================================

// MetricSummary holds descriptive statistics for one cohort metric.
type MetricSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// RiskSummary is the aggregate picture of the cohort's dropout risk.
type RiskSummary struct {
	TotalStudents  int            `json:"totalStudents"`
	AtRiskStudents int            `json:"atRiskStudents"`
	ByRiskLevel    map[string]int `json:"byRiskLevel"`

	CGPA       MetricSummary `json:"cgpa"`
	Attendance MetricSummary `json:"attendance"`
	RiskScore  MetricSummary `json:"riskScore"`
}

// GetRiskSummary computes cohort statistics over all students.
func (s *Service) GetRiskSummary(ctx context.Context) (*RiskSummary, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	cursor, err := s.studentsCol.Find(queryCtx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}
	defer cursor.Close(queryCtx)

	students := []shared.Student{}
	if err := cursor.All(queryCtx, &students); err != nil {
		return nil, fmt.Errorf("failed to decode students: %w", err)
	}

	return summarize(students), nil
}

// summarize derives the cohort statistics from an in-memory slice.
func summarize(students []shared.Student) *RiskSummary {
	summary := &RiskSummary{
		TotalStudents: len(students),
		ByRiskLevel: map[string]int{
			shared.RiskLow:      0,
			shared.RiskMedium:   0,
			shared.RiskHigh:     0,
			shared.RiskCritical: 0,
		},
	}

	cgpas := make([]float64, 0, len(students))
	attendance := make([]float64, 0, len(students))
	riskScores := make([]float64, 0, len(students))

	for _, st := range students {
		if st.IsAtRisk {
			summary.AtRiskStudents++
		}
		if shared.IsValidRiskLevel(st.RiskLevel) {
			summary.ByRiskLevel[st.RiskLevel]++
		}
		// Students with no completed semester yet carry cgpa 0 and would
		// drag the cohort statistics down
		if st.CGPA > 0 {
			cgpas = append(cgpas, st.CGPA)
		}
		if st.TotalClasses > 0 {
			attendance = append(attendance, st.AttendancePercentage)
		}
		riskScores = append(riskScores, float64(st.RiskScore))
	}

	summary.CGPA = summarizeMetric(cgpas)
	summary.Attendance = summarizeMetric(attendance)
	summary.RiskScore = summarizeMetric(riskScores)

	return summary
}

// summarizeMetric computes descriptive statistics for one series. An empty
// series yields all zeroes.
func summarizeMetric(series []float64) MetricSummary {
	if len(series) == 0 {
		return MetricSummary{}
	}

	data := stats.Float64Data(series)

	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	stdDev, _ := stats.StandardDeviation(data)
	p25, _ := stats.Percentile(data, 25)
	p75, _ := stats.Percentile(data, 75)
	minVal, _ := stats.Min(data)
	maxVal, _ := stats.Max(data)

	return MetricSummary{
		Mean:   round2(mean),
		Median: round2(median),
		StdDev: round2(stdDev),
		P25:    round2(p25),
		P75:    round2(p75),
		Min:    round2(minVal),
		Max:    round2(maxVal),
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
