package canvas

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/trezcool/canvastool/core/course"
)

type wireAssignmentData struct {
	AssignmentID int    `json:"assignment_id"`
	Title        string `json:"title"`
}

// AssignmentData lists course-level assignment analytics rows; it is the
// cheapest way to enumerate assignments by title.
func (c *Client) AssignmentData(ctx context.Context, courseID int) ([]course.AssignmentInfo, error) {
	path := fmt.Sprintf("/courses/%d/analytics/assignments", courseID)
	wires, err := getList[wireAssignmentData](ctx, c, path, nil)
	if err != nil {
		return nil, err
	}
	infos := make([]course.AssignmentInfo, len(wires))
	for i, w := range wires {
		infos[i] = course.AssignmentInfo{AssignmentID: w.AssignmentID, Title: w.Title}
	}
	return infos, nil
}

type wireAssignment struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	DueAt *time.Time `json:"due_at"`
}

func (c *Client) Assignment(ctx context.Context, courseID, assignmentID int) (course.Assignment, error) {
	var w wireAssignment
	if err := c.get(ctx, fmt.Sprintf("/courses/%d/assignments/%d", courseID, assignmentID), nil, &w); err != nil {
		return course.Assignment{}, err
	}
	return course.Assignment{ID: w.ID, Name: w.Name, DueAt: w.DueAt}, nil
}

// Attachment is a file attached to a submission.
type Attachment struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	DisplayName string `json:"display_name"`
}

// DiscussionEntry is one post in a discussion assignment's thread.
type DiscussionEntry struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Submission is one student's assignment submission.
type Submission struct {
	ID                int               `json:"id"`
	UserID            int               `json:"user_id"`
	Grade             *string           `json:"grade"`
	Attachments       []Attachment      `json:"attachments"`
	DiscussionEntries []DiscussionEntry `json:"discussion_entries"`
}

// Submissions lists an assignment's submissions with discussion entries and
// attachments included.
func (c *Client) Submissions(ctx context.Context, courseID, assignmentID int) ([]Submission, error) {
	params := url.Values{}
	params.Add("include[]", "discussion_entries")
	path := fmt.Sprintf("/courses/%d/assignments/%d/submissions", courseID, assignmentID)
	return getList[Submission](ctx, c, path, params)
}

// GradeSubmission posts a grade (points or letter) on one submission.
func (c *Client) GradeSubmission(ctx context.Context, courseID, assignmentID, userID int, grade string) error {
	form := url.Values{}
	form.Set("submission[posted_grade]", grade)
	path := fmt.Sprintf("/courses/%d/assignments/%d/submissions/%d", courseID, assignmentID, userID)
	return c.send(ctx, "PUT", path, form, nil)
}
