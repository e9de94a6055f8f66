package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/canvastool/core/course"
	"github.com/trezcool/canvastool/core/quiz"
)

type wireQuiz struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func (c *Client) Quizzes(ctx context.Context, courseID int) ([]course.Quiz, error) {
	wires, err := getList[wireQuiz](ctx, c, fmt.Sprintf("/courses/%d/quizzes", courseID), nil)
	if err != nil {
		return nil, err
	}
	quizzes := make([]course.Quiz, len(wires))
	for i, w := range wires {
		quizzes[i] = course.Quiz{ID: w.ID, Title: w.Title}
	}
	return quizzes, nil
}

// QuizSubmission is one student's attempt record.
type QuizSubmission struct {
	ID          int     `json:"id"`
	UserID      int     `json:"user_id"`
	Attempt     int     `json:"attempt"`
	TimeSpent   int     `json:"time_spent"` // seconds
	FudgePoints float64 `json:"fudge_points"`
}

type quizSubmissionsPage struct {
	QuizSubmissions []QuizSubmission `json:"quiz_submissions"`
}

func (c *Client) QuizSubmissions(ctx context.Context, courseID, quizID int) ([]QuizSubmission, error) {
	path := fmt.Sprintf("/courses/%d/quizzes/%d/submissions", courseID, quizID)
	return getWrappedList(ctx, c, path, nil, func(p quizSubmissionsPage) []QuizSubmission {
		return p.QuizSubmissions
	})
}

// SetFudgePoints updates the score adjustment on one submission attempt.
func (c *Client) SetFudgePoints(ctx context.Context, courseID, quizID int, sub QuizSubmission, points float64) error {
	form := url.Values{}
	form.Set("quiz_submissions[][attempt]", strconv.Itoa(sub.Attempt))
	form.Set("quiz_submissions[][fudge_points]", strconv.FormatFloat(points, 'f', -1, 64))
	path := fmt.Sprintf("/courses/%d/quizzes/%d/submissions/%d", courseID, quizID, sub.ID)
	return c.send(ctx, "PUT", path, form, nil)
}

type wireEvent struct {
	EventType string          `json:"event_type"`
	EventData json.RawMessage `json:"event_data"`
	CreatedAt time.Time       `json:"created_at"`
}

type eventsPage struct {
	QuizSubmissionEvents []wireEvent `json:"quiz_submission_events"`
}

// questionAnswer is one entry of a question_answered event's payload. The
// platform sends event_data as either a single object or a list of them;
// splitEventData normalizes both shapes before the core sees them.
type questionAnswer struct {
	QuizQuestionID interface{} `json:"quiz_question_id"` // string or number, platform's pick
	Answer         interface{} `json:"answer"`
}

// SubmissionEvents replays one submission's edit log as answer events,
// keeping only question_answered entries.
func (c *Client) SubmissionEvents(ctx context.Context, courseID, quizID int, sub QuizSubmission, studentName string) ([]quiz.AnswerEvent, error) {
	path := fmt.Sprintf("/courses/%d/quizzes/%d/submissions/%d/events", courseID, quizID, sub.ID)
	wires, err := getWrappedList(ctx, c, path, nil, func(p eventsPage) []wireEvent {
		return p.QuizSubmissionEvents
	})
	if err != nil {
		return nil, err
	}

	var events []quiz.AnswerEvent
	for _, w := range wires {
		if w.EventType != "question_answered" {
			continue
		}
		answers, err := splitEventData(w.EventData)
		if err != nil {
			return nil, errors.Wrapf(err, "canvas: submission %d event data", sub.ID)
		}
		for _, qa := range answers {
			qid, err := questionID(qa.QuizQuestionID)
			if err != nil {
				return nil, errors.Wrapf(err, "canvas: submission %d", sub.ID)
			}
			events = append(events, quiz.AnswerEvent{
				StudentID:      sub.UserID,
				StudentName:    studentName,
				QuestionID:     qid,
				Timestamp:      w.CreatedAt,
				ElapsedSeconds: sub.TimeSpent,
				RawAnswer:      qa.Answer,
			})
		}
	}
	return events, nil
}

func splitEventData(raw json.RawMessage) ([]questionAnswer, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []questionAnswer
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var one questionAnswer
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, errors.WithStack(err)
	}
	return []questionAnswer{one}, nil
}

func questionID(v interface{}) (int, error) {
	switch id := v.(type) {
	case string:
		n, err := strconv.Atoi(id)
		return n, errors.Wrapf(err, "bad question id %q", id)
	case float64:
		return int(id), nil
	case json.Number:
		n, err := id.Int64()
		return int(n), errors.Wrapf(err, "bad question id %q", id)
	default:
		return 0, errors.Errorf("bad question id %v (%T)", v, v)
	}
}

type wireQuestion struct {
	ID           int    `json:"id"`
	Position     int    `json:"position"`
	QuizGroupID  *int   `json:"quiz_group_id"`
	QuestionText string `json:"question_text"`
}

func (c *Client) QuizQuestions(ctx context.Context, courseID, quizID int) ([]quiz.QuestionInfo, error) {
	path := fmt.Sprintf("/courses/%d/quizzes/%d/questions", courseID, quizID)
	wires, err := getList[wireQuestion](ctx, c, path, nil)
	if err != nil {
		return nil, err
	}
	questions := make([]quiz.QuestionInfo, len(wires))
	for i, w := range wires {
		q := quiz.QuestionInfo{ID: w.ID, Position: w.Position, Text: w.QuestionText}
		if w.QuizGroupID != nil {
			q.GroupID = *w.QuizGroupID
		}
		questions[i] = q
	}
	return questions, nil
}

type wireGroup struct {
	ID       int `json:"id"`
	Position int `json:"position"`
}

func (c *Client) QuizGroup(ctx context.Context, courseID, quizID, groupID int) (quiz.GroupInfo, error) {
	var w wireGroup
	path := fmt.Sprintf("/courses/%d/quizzes/%d/groups/%d", courseID, quizID, groupID)
	if err := c.get(ctx, path, nil, &w); err != nil {
		return quiz.GroupInfo{}, err
	}
	return quiz.GroupInfo{ID: w.ID, Position: w.Position}, nil
}

// Catalog adapts the live API to quiz.Catalog for one quiz. Questions are
// fetched once on first use; group fetches go to the API every time (the
// transcript builder memoizes those per build).
func (c *Client) Catalog(ctx context.Context, courseID, quizID int) quiz.Catalog {
	return &apiCatalog{c: c, ctx: ctx, courseID: courseID, quizID: quizID}
}

type apiCatalog struct {
	c        *Client
	ctx      context.Context
	courseID int
	quizID   int

	questions map[int]quiz.QuestionInfo
}

func (cat *apiCatalog) Question(id int) (quiz.QuestionInfo, error) {
	if cat.questions == nil {
		list, err := cat.c.QuizQuestions(cat.ctx, cat.courseID, cat.quizID)
		if err != nil {
			return quiz.QuestionInfo{}, err
		}
		cat.questions = make(map[int]quiz.QuestionInfo, len(list))
		for _, q := range list {
			cat.questions[q.ID] = q
		}
	}
	q, ok := cat.questions[id]
	if !ok {
		return quiz.QuestionInfo{}, errors.Errorf("canvas: quiz %d has no question %d", cat.quizID, id)
	}
	return q, nil
}

func (cat *apiCatalog) Group(id int) (quiz.GroupInfo, error) {
	return cat.c.QuizGroup(cat.ctx, cat.courseID, cat.quizID, id)
}
