package canvas

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/trezcool/canvastool/core"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		baseURL: srv.URL,
		token:   "sekret-token",
		http:    srv.Client(),
		perPage: 2,
		logger:  core.NewConsoleLogger(false),
	}
}

func TestGetListPagination(t *testing.T) {
	var authSeen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authSeen = append(authSeen, r.Header.Get("Authorization"))
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses/1/quizzes?page=2>; rel="next", <%s/api/v1/courses/1/quizzes?page=1>; rel="first"`, "http://"+r.Host, "http://"+r.Host))
			fmt.Fprint(w, `[{"id": 10, "title": "week 1"}, {"id": 11, "title": "week 2"}]`)
		case "2":
			fmt.Fprint(w, `[{"id": 12, "title": "final"}]`)
		}
	}))
	defer srv.Close()

	quizzes, err := testClient(srv).Quizzes(context.Background(), 1)
	if err != nil {
		t.Fatalf("Quizzes() failed: %v", err)
	}
	if len(quizzes) != 3 {
		t.Fatalf("expected 3 quizzes across pages, got %d", len(quizzes))
	}
	if quizzes[2].Title != "final" {
		t.Errorf("expected last quiz %q, got %q", "final", quizzes[2].Title)
	}
	for _, auth := range authSeen {
		if auth != "Bearer sekret-token" {
			t.Errorf("expected bearer auth on every request, got %q", auth)
		}
	}
}

func TestGetWrappedList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quiz_submissions": [{"id": 5, "user_id": 42, "attempt": 1, "time_spent": 90, "fudge_points": 0}]}`)
	}))
	defer srv.Close()

	subs, err := testClient(srv).QuizSubmissions(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("QuizSubmissions() failed: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(subs))
	}
	if subs[0].UserID != 42 || subs[0].TimeSpent != 90 {
		t.Errorf("unexpected submission: %+v", subs[0])
	}
}

func TestErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors": [{"message": "Invalid access token."}]}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv).Quizzes(context.Background(), 1)
	if err == nil {
		t.Fatal("expected an error for a 401 response")
	}
}

func TestSubmissionEvents(t *testing.T) {
	when := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	sub := QuizSubmission{ID: 7, UserID: 42, TimeSpent: 125}

	tests := []struct {
		name      string
		body      string
		questions []int
		answers   []interface{}
	}{
		{
			name: "event data as a single object",
			body: `{"quiz_submission_events": [
				{"event_type": "question_answered", "created_at": "2024-03-01T10:00:00Z",
				 "event_data": {"quiz_question_id": "31", "answer": "ph"}}]}`,
			questions: []int{31},
			answers:   []interface{}{"ph"},
		},
		{
			name: "event data as a list",
			body: `{"quiz_submission_events": [
				{"event_type": "question_answered", "created_at": "2024-03-01T10:00:00Z",
				 "event_data": [{"quiz_question_id": 31, "answer": "ph"},
				                {"quiz_question_id": "32", "answer": [1, 3]}]}]}`,
			questions: []int{31, 32},
			answers:   []interface{}{"ph", nil},
		},
		{
			name: "non answer events skipped",
			body: `{"quiz_submission_events": [
				{"event_type": "page_focused", "created_at": "2024-03-01T10:00:00Z"},
				{"event_type": "question_answered", "created_at": "2024-03-01T10:00:00Z",
				 "event_data": {"quiz_question_id": 31, "answer": "done"}}]}`,
			questions: []int{31},
			answers:   []interface{}{"done"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			events, err := testClient(srv).SubmissionEvents(context.Background(), 1, 10, sub, "Deke Slayton")
			if err != nil {
				t.Fatalf("SubmissionEvents() failed: %v", err)
			}
			if len(events) != len(tc.questions) {
				t.Fatalf("expected %d events, got %d", len(tc.questions), len(events))
			}
			for i, ev := range events {
				if ev.QuestionID != tc.questions[i] {
					t.Errorf("event %d: expected question %d, got %d", i, tc.questions[i], ev.QuestionID)
				}
				if ev.StudentID != 42 || ev.StudentName != "Deke Slayton" || ev.ElapsedSeconds != 125 {
					t.Errorf("event %d: submission fields not carried over: %+v", i, ev)
				}
				if !ev.Timestamp.Equal(when) {
					t.Errorf("event %d: expected timestamp %v, got %v", i, when, ev.Timestamp)
				}
				if tc.answers[i] != nil && ev.RawAnswer != tc.answers[i] {
					t.Errorf("event %d: expected answer %v, got %v", i, tc.answers[i], ev.RawAnswer)
				}
			}
		})
	}
}

func TestSetFudgePoints(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		_ = r.ParseForm()
		form = map[string]string{
			"attempt":      r.PostForm.Get("quiz_submissions[][attempt]"),
			"fudge_points": r.PostForm.Get("quiz_submissions[][fudge_points]"),
		}
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	sub := QuizSubmission{ID: 7, Attempt: 2}
	if err := testClient(srv).SetFudgePoints(context.Background(), 1, 10, sub, 1.5); err != nil {
		t.Fatalf("SetFudgePoints() failed: %v", err)
	}
	if form["attempt"] != "2" || form["fudge_points"] != "1.5" {
		t.Errorf("unexpected form fields: %v", form)
	}
}

func TestCatalogMemoizesQuestions(t *testing.T) {
	var questionFetches int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/courses/1/quizzes/10/questions":
			questionFetches++
			fmt.Fprint(w, `[{"id": 31, "position": 3, "quiz_group_id": 9, "question_text": "<p>Why?</p>"}]`)
		case "/api/v1/courses/1/quizzes/10/groups/9":
			fmt.Fprint(w, `{"id": 9, "position": 2}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cat := testClient(srv).Catalog(context.Background(), 1, 10)
	for i := 0; i < 3; i++ {
		q, err := cat.Question(31)
		if err != nil {
			t.Fatalf("Question() failed: %v", err)
		}
		if q.Position != 3 || q.GroupID != 9 {
			t.Errorf("unexpected question: %+v", q)
		}
	}
	if questionFetches != 1 {
		t.Errorf("expected one questions fetch, got %d", questionFetches)
	}
	g, err := cat.Group(9)
	if err != nil {
		t.Fatalf("Group() failed: %v", err)
	}
	if g.Position != 2 {
		t.Errorf("expected group position 2, got %d", g.Position)
	}
	if _, err = cat.Question(99); err == nil {
		t.Error("expected an error for an unknown question")
	}
}

func TestNextLink(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{
			name:     "next present",
			header:   `<https://x.edu/api/v1/c?page=2>; rel="next", <https://x.edu/api/v1/c?page=1>; rel="first"`,
			expected: "https://x.edu/api/v1/c?page=2",
		},
		{name: "last page", header: `<https://x.edu/api/v1/c?page=1>; rel="first"`, expected: ""},
		{name: "empty header", header: "", expected: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextLink(tc.header); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
