package course

import (
	"context"
	"strings"
	"time"

	"github.com/trezcool/canvastool/core"
)

type (
	// Repository is the remote course store; the canvas service implements it.
	Repository interface {
		Courses(ctx context.Context) ([]Course, error)
		CourseUsers(ctx context.Context, courseID int, search string) ([]User, error)
		Quizzes(ctx context.Context, courseID int) ([]Quiz, error)
		AssignmentData(ctx context.Context, courseID int) ([]AssignmentInfo, error)
		Assignment(ctx context.Context, courseID, assignmentID int) (Assignment, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var nowFunc = time.Now // mockable

// FindCourses lists the instructor's courses whose name contains name.
// When activeOnly is set, courses outside their start/end window are skipped;
// when finishedOnly is set, only past courses are kept. Courses with no
// reported window count as currently running.
func (svc *Service) FindCourses(ctx context.Context, name string, activeOnly, finishedOnly bool) ([]Course, error) {
	courses, err := svc.repo.Courses(ctx)
	if err != nil {
		return nil, err
	}
	now := nowFunc().UTC()
	list := make([]Course, 0, len(courses))
	for _, c := range courses {
		start, end := now, now
		if c.StartAt != nil {
			start = *c.StartAt
		}
		if c.EndAt != nil {
			end = *c.EndAt
		}
		if activeOnly && (start.After(now) || end.Before(now)) {
			continue
		}
		if finishedOnly && !end.Before(now) {
			continue
		}
		if strings.Contains(c.Name, name) {
			c.Start, c.End = start, end
			list = append(list, c)
		}
	}
	return list, nil
}

// FindCourse resolves name to exactly one course or returns a core.MatchError
// listing the candidates (all courses when nothing matched).
func (svc *Service) FindCourse(ctx context.Context, name string, activeOnly bool) (Course, error) {
	list, err := svc.FindCourses(ctx, name, activeOnly, false)
	if err != nil {
		return Course{}, err
	}
	switch len(list) {
	case 1:
		return list[0], nil
	case 0:
		all, err := svc.FindCourses(ctx, "", activeOnly, false)
		if err != nil {
			return Course{}, err
		}
		return Course{}, core.NewMatchError("course", name, courseNames(all))
	default:
		return Course{}, core.NewMatchError("course", name, courseNames(list))
	}
}

// FindAssignment resolves title to exactly one assignment by partial match.
// Prefix-matched names are common ("Assignment 1", "Assignment 1 Extended"),
// so a single exact match among several partial matches wins.
func (svc *Service) FindAssignment(ctx context.Context, c Course, title string) (Assignment, error) {
	all, err := svc.repo.AssignmentData(ctx, c.ID)
	if err != nil {
		return Assignment{}, err
	}
	if title == "" {
		// an unspecified title never resolves, even with a single candidate
		return Assignment{}, core.NewMatchError("assignment", title, assignmentTitles(all))
	}
	var filtered []AssignmentInfo
	for _, a := range all {
		if strings.Contains(a.Title, title) {
			filtered = append(filtered, a)
		}
	}
	if len(filtered) == 0 {
		return Assignment{}, core.NewMatchError("assignment", title, assignmentTitles(all))
	}
	if len(filtered) > 1 {
		var exact []AssignmentInfo
		for _, a := range filtered {
			if a.Title == title {
				exact = append(exact, a)
			}
		}
		if len(exact) != 1 {
			return Assignment{}, core.NewMatchError("assignment", title, assignmentTitles(filtered))
		}
		filtered = exact
	}
	return svc.repo.Assignment(ctx, c.ID, filtered[0].AssignmentID)
}

// FindQuiz resolves title to exactly one quiz by partial match.
func (svc *Service) FindQuiz(ctx context.Context, c Course, title string) (Quiz, error) {
	quizzes, err := svc.repo.Quizzes(ctx, c.ID)
	if err != nil {
		return Quiz{}, err
	}
	var filtered []Quiz
	for _, q := range quizzes {
		if strings.Contains(q.Title, title) {
			filtered = append(filtered, q)
		}
	}
	switch len(filtered) {
	case 1:
		return filtered[0], nil
	case 0:
		return Quiz{}, core.NewMatchError("quiz", title, quizTitles(quizzes))
	default:
		return Quiz{}, core.NewMatchError("quiz", title, quizTitles(filtered))
	}
}

// FindStudents lists course users whose name contains name, case-insensitively.
func (svc *Service) FindStudents(ctx context.Context, c Course, name string) ([]User, error) {
	users, err := svc.repo.CourseUsers(ctx, c.ID, "")
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	var matched []User
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), needle) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// FindStudent resolves name to exactly one student.
func (svc *Service) FindStudent(ctx context.Context, c Course, name string) (User, error) {
	matched, err := svc.FindStudents(ctx, c, name)
	if err != nil {
		return User{}, err
	}
	if len(matched) != 1 {
		return User{}, core.NewMatchError("student", name, userNames(matched))
	}
	return matched[0], nil
}

func courseNames(list []Course) []string {
	names := make([]string, len(list))
	for i, c := range list {
		names[i] = c.Name
	}
	return names
}

func assignmentTitles(list []AssignmentInfo) []string {
	titles := make([]string, len(list))
	for i, a := range list {
		titles[i] = a.Title
	}
	return titles
}

func quizTitles(list []Quiz) []string {
	titles := make([]string, len(list))
	for i, q := range list {
		titles[i] = q.Title
	}
	return titles
}

func userNames(list []User) []string {
	names := make([]string, len(list))
	for i, u := range list {
		names[i] = u.Name
	}
	return names
}
