package course

import "time"

// Course is one course the instructor teaches.
type Course struct {
	ID      int
	Name    string
	StartAt *time.Time // nil means the platform did not report a window
	EndAt   *time.Time

	// Start/End are the resolved window bounds (now substituted for missing
	// dates the way the listing commands display them).
	Start time.Time
	End   time.Time
}

// User is a course participant (student or teacher).
type User struct {
	ID        int
	Name      string
	Email     string
	SISUserID string
}

// Quiz is the lookup-level view of a quiz.
type Quiz struct {
	ID    int
	Title string
}

// AssignmentInfo is the course-level listing row for an assignment.
type AssignmentInfo struct {
	AssignmentID int
	Title        string
}

// Assignment is a full assignment record.
type Assignment struct {
	ID    int
	Name  string
	DueAt *time.Time
}

// Grades is the enrollment grade summary.
type Grades struct {
	CurrentScore *float64
	FinalScore   *float64
}

// Enrollment ties a user to a course with their grade summary.
type Enrollment struct {
	UserID   int
	UserName string
	Grades   *Grades
}
