package canvas

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/trezcool/canvastool/core/course"
)

type wireCourse struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	StartAt *time.Time `json:"start_at"`
	EndAt   *time.Time `json:"end_at"`
}

// Courses lists the courses the token's owner teaches.
func (c *Client) Courses(ctx context.Context) ([]course.Course, error) {
	params := url.Values{}
	params.Set("enrollment_type", "teacher")
	wires, err := getList[wireCourse](ctx, c, "/courses", params)
	if err != nil {
		return nil, err
	}
	courses := make([]course.Course, len(wires))
	for i, w := range wires {
		courses[i] = course.Course{ID: w.ID, Name: w.Name, StartAt: w.StartAt, EndAt: w.EndAt}
	}
	return courses, nil
}

type wireUser struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	SISUserID string `json:"sis_user_id"`
}

func (u wireUser) toUser() course.User {
	return course.User{ID: u.ID, Name: u.Name, Email: u.Email, SISUserID: u.SISUserID}
}

// CurrentUser identifies the token's owner; used to confirm access on startup.
func (c *Client) CurrentUser(ctx context.Context) (course.User, error) {
	var w wireUser
	if err := c.get(ctx, "/users/self", nil, &w); err != nil {
		return course.User{}, err
	}
	return w.toUser(), nil
}

// CourseUsers lists the users in a course, optionally filtered server-side.
func (c *Client) CourseUsers(ctx context.Context, courseID int, search string) ([]course.User, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search_term", search)
	}
	wires, err := getList[wireUser](ctx, c, fmt.Sprintf("/courses/%d/users", courseID), params)
	if err != nil {
		return nil, err
	}
	users := make([]course.User, len(wires))
	for i, w := range wires {
		users[i] = w.toUser()
	}
	return users, nil
}

// CourseUser fetches one course member by id.
func (c *Client) CourseUser(ctx context.Context, courseID, userID int) (course.User, error) {
	var w wireUser
	if err := c.get(ctx, fmt.Sprintf("/courses/%d/users/%d", courseID, userID), nil, &w); err != nil {
		return course.User{}, err
	}
	return w.toUser(), nil
}

type wireEnrollment struct {
	UserID int `json:"user_id"`
	User   struct {
		Name string `json:"name"`
	} `json:"user"`
	Grades *struct {
		CurrentScore *float64 `json:"current_score"`
		FinalScore   *float64 `json:"final_score"`
	} `json:"grades"`
}

// Enrollments lists student enrollments with their grade summaries.
func (c *Client) Enrollments(ctx context.Context, courseID int) ([]course.Enrollment, error) {
	params := url.Values{}
	params.Set("type[]", "StudentEnrollment")
	wires, err := getList[wireEnrollment](ctx, c, fmt.Sprintf("/courses/%d/enrollments", courseID), params)
	if err != nil {
		return nil, err
	}
	enrollments := make([]course.Enrollment, len(wires))
	for i, w := range wires {
		e := course.Enrollment{UserID: w.UserID, UserName: w.User.Name}
		if w.Grades != nil {
			e.Grades = &course.Grades{CurrentScore: w.Grades.CurrentScore, FinalScore: w.Grades.FinalScore}
		}
		enrollments[i] = e
	}
	return enrollments, nil
}
