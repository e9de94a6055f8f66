package quiz

import (
	"fmt"
	"time"
)

// AnswerEvent is one observed edit to a question's answer, as logged by the
// platform during a quiz attempt. Events with no answer payload are dropped
// before they reach the transcript.
type AnswerEvent struct {
	StudentID      int
	StudentName    string
	QuestionID     int
	Timestamp      time.Time // event creation time
	ElapsedSeconds int       // cumulative time-on-task at event time
	RawAnswer      interface{}
}

// QuestionInfo is static per-question metadata.
type QuestionInfo struct {
	ID       int
	Position int // display order within the quiz, or within its group
	GroupID  int // 0 when the question is not in a group
	Text     string
}

// GroupInfo is static per-group metadata. Grouped questions sort by
// (group position, question position).
type GroupInfo struct {
	ID       int
	Position int
}

// Catalog resolves question and group metadata. Group lookups require a
// secondary fetch, so the builder memoizes them per Build call.
type Catalog interface {
	Question(id int) (QuestionInfo, error)
	Group(id int) (GroupInfo, error)
}

type Options struct {
	// Summarize collapses intermediate saves that do not represent real
	// progress over the answer that followed them.
	Summarize bool
	// FinalAnswerOnly pulls each (student, question) final answer out of the
	// main listing into Transcript.Finals.
	FinalAnswerOnly bool
	ShowQuestion    bool
}

// Row is one emitted answer instance.
type Row struct {
	StudentName   string
	PositionLabel string // fixed width; "%2d.%2d" grouped, "%5d" bare
	ElapsedLabel  string // MM:SS
	Timestamp     time.Time
	Answer        interface{}
	QuestionText  string
}

// AnswerText renders the answer for display and ordering. Answers are
// strings unless the platform sent something else.
func (r Row) AnswerText() string {
	if s, ok := r.Answer.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", r.Answer)
}

// Transcript is the ordered result of one build: Rows chronological, and,
// when requested, the per-(student, question) final answers.
type Transcript struct {
	Rows   []Row
	Finals []Row
}
