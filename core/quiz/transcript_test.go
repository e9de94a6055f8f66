package quiz

import (
	"testing"
	"time"

	"github.com/pkg/errors"
)

type fakeCatalog struct {
	questions   map[int]QuestionInfo
	groups      map[int]GroupInfo
	groupCalls  int
	failOnGroup bool
}

func (c *fakeCatalog) Question(id int) (QuestionInfo, error) {
	q, ok := c.questions[id]
	if !ok {
		return QuestionInfo{}, errors.New("question not found")
	}
	return q, nil
}

func (c *fakeCatalog) Group(id int) (GroupInfo, error) {
	c.groupCalls++
	if c.failOnGroup {
		return GroupInfo{}, errors.New("group fetch failed")
	}
	g, ok := c.groups[id]
	if !ok {
		return GroupInfo{}, errors.New("group not found")
	}
	return g, nil
}

func event(student int, name string, question, elapsed int, answer interface{}) AnswerEvent {
	return AnswerEvent{
		StudentID:      student,
		StudentName:    name,
		QuestionID:     question,
		Timestamp:      time.Date(2024, 3, 1, 10, 0, elapsed, 0, time.UTC),
		ElapsedSeconds: elapsed,
		RawAnswer:      answer,
	}
}

func TestBuildPositionLabels(t *testing.T) {
	catalog := &fakeCatalog{
		questions: map[int]QuestionInfo{
			1: {ID: 1, Position: 7, Text: "bare"},
			2: {ID: 2, Position: 12, GroupID: 40, Text: "grouped"},
		},
		groups: map[int]GroupInfo{40: {ID: 40, Position: 3}},
	}
	events := []AnswerEvent{
		event(1, "Ada", 1, 10, "seven"),
		event(1, "Ada", 2, 20, "twelve"),
	}

	tr, err := NewBuilder(catalog).Build(events, nil, Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(tr.Rows) != 2 {
		t.Fatalf("Build() returned %d rows, want 2", len(tr.Rows))
	}
	if got := tr.Rows[0].PositionLabel; got != "    7" {
		t.Errorf("bare position label = %q, want %q", got, "    7")
	}
	if got := tr.Rows[1].PositionLabel; got != " 3.12" {
		t.Errorf("grouped position label = %q, want %q", got, " 3.12")
	}
}

func TestBuildGroupLookupsAreCached(t *testing.T) {
	catalog := &fakeCatalog{
		questions: map[int]QuestionInfo{
			1: {ID: 1, Position: 1, GroupID: 40},
			2: {ID: 2, Position: 2, GroupID: 40},
		},
		groups: map[int]GroupInfo{40: {ID: 40, Position: 1}},
	}
	events := []AnswerEvent{
		event(1, "Ada", 1, 10, "a"),
		event(1, "Ada", 2, 20, "b"),
		event(1, "Ada", 1, 30, "c"),
	}

	if _, err := NewBuilder(catalog).Build(events, nil, Options{}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if catalog.groupCalls != 1 {
		t.Errorf("group fetched %d times, want 1", catalog.groupCalls)
	}
}

func TestBuildSummarizeAndFinalAnswer(t *testing.T) {
	// three autosaves of one evolving answer: the two earlier ones are
	// prefix-collapsed and the last is the final answer
	catalog := &fakeCatalog{
		questions: map[int]QuestionInfo{1: {ID: 1, Position: 1, Text: "explain photosynthesis"}},
	}
	events := []AnswerEvent{
		event(1, "Ada", 1, 10, "ph"),
		event(1, "Ada", 1, 40, "phi"),
		event(1, "Ada", 1, 90, "photosynthesis is great"),
	}

	tr, err := NewBuilder(catalog).Build(events, nil, Options{Summarize: true, FinalAnswerOnly: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(tr.Rows) != 0 {
		t.Fatalf("Build() retained %d intermediate rows, want 0: %+v", len(tr.Rows), tr.Rows)
	}
	if len(tr.Finals) != 1 {
		t.Fatalf("Build() captured %d final rows, want 1", len(tr.Finals))
	}
	final := tr.Finals[0]
	if final.AnswerText() != "photosynthesis is great" {
		t.Errorf("final answer = %q, want %q", final.AnswerText(), "photosynthesis is great")
	}
	if final.ElapsedLabel != "01:30" {
		t.Errorf("final elapsed label = %q, want %q", final.ElapsedLabel, "01:30")
	}
}

func TestBuildTimestampOrdersSavesWithinOneMinute(t *testing.T) {
	// both saves land in the same MM:SS bucket; the event timestamps are the
	// only thing telling which one is final
	catalog := &fakeCatalog{
		questions: map[int]QuestionInfo{1: {ID: 1, Position: 1}},
	}
	older := event(1, "Ada", 1, 30, "zebra idea")
	newer := event(1, "Ada", 1, 30, "apple thought final")
	newer.Timestamp = older.Timestamp.Add(20 * time.Second)
	events := []AnswerEvent{newer, older}

	tr, err := NewBuilder(catalog).Build(events, nil, Options{Summarize: true, FinalAnswerOnly: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(tr.Finals) != 1 || tr.Finals[0].AnswerText() != "apple thought final" {
		t.Fatalf("Build() finals = %+v, want the later save", tr.Finals)
	}
	if len(tr.Rows) != 1 || tr.Rows[0].AnswerText() != "zebra idea" {
		t.Fatalf("Build() rows = %+v, want the earlier save retained", tr.Rows)
	}
}

func TestBuildSummarizeKeepsRealProgress(t *testing.T) {
	catalog := &fakeCatalog{
		questions: map[int]QuestionInfo{1: {ID: 1, Position: 1}},
	}
	events := []AnswerEvent{
		event(1, "Ada", 1, 10, "I agree because X"),
		event(1, "Ada", 1, 50, "I disagree because X"),
	}

	tr, err := NewBuilder(catalog).Build(events, nil, Options{Summarize: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(tr.Rows) != 2 {
		t.Fatalf("Build() retained %d rows, want 2", len(tr.Rows))
	}
	// chronological on display
	if tr.Rows[0].AnswerText() != "I agree because X" || tr.Rows[1].AnswerText() != "I disagree because X" {
		t.Errorf("rows out of order: %q then %q", tr.Rows[0].AnswerText(), tr.Rows[1].AnswerText())
	}
}

func TestBuildSummarizeDropsResaves(t *testing.T) {
	catalog := &fakeCatalog{
		questions: map[int]QuestionInfo{1: {ID: 1, Position: 1}},
	}
	events := []AnswerEvent{
		event(1, "Ada", 1, 10, "<p>the answer</p>"),
		event(1, "Ada", 1, 50, "the answer"),
	}

	tr, err := NewBuilder(catalog).Build(events, nil, Options{Summarize: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(tr.Rows) != 1 {
		t.Fatalf("Build() retained %d rows, want 1", len(tr.Rows))
	}
}

func TestBuildStudentFilter(t *testing.T) {
	catalog := &fakeCatalog{
		questions: map[int]QuestionInfo{1: {ID: 1, Position: 1}},
	}
	events := []AnswerEvent{
		event(1, "Ada", 1, 10, "a"),
		event(2, "Grace", 1, 20, "b"),
	}

	tr, err := NewBuilder(catalog).Build(events, map[int]bool{2: true}, Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(tr.Rows) != 1 || tr.Rows[0].StudentName != "Grace" {
		t.Fatalf("Build() rows = %+v, want Grace only", tr.Rows)
	}
}

func TestBuildDropsEmptyAnswers(t *testing.T) {
	catalog := &fakeCatalog{
		questions: map[int]QuestionInfo{1: {ID: 1, Position: 1}},
	}
	events := []AnswerEvent{
		event(1, "Ada", 1, 10, nil),
		event(1, "Ada", 1, 20, ""),
		event(1, "Ada", 1, 30, "kept"),
	}

	tr, err := NewBuilder(catalog).Build(events, nil, Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(tr.Rows) != 1 || tr.Rows[0].AnswerText() != "kept" {
		t.Fatalf("Build() rows = %+v, want the single non-empty answer", tr.Rows)
	}
}

func TestBuildPropagatesCatalogFailure(t *testing.T) {
	catalog := &fakeCatalog{
		questions:   map[int]QuestionInfo{1: {ID: 1, Position: 1, GroupID: 40}},
		failOnGroup: true,
	}
	events := []AnswerEvent{event(1, "Ada", 1, 10, "a")}

	if _, err := NewBuilder(catalog).Build(events, nil, Options{}); err == nil {
		t.Fatal("Build() expected group fetch error, got nil")
	}
}

func TestBuildNonStringAnswersNeverCollapse(t *testing.T) {
	catalog := &fakeCatalog{
		questions: map[int]QuestionInfo{1: {ID: 1, Position: 1}},
	}
	events := []AnswerEvent{
		event(1, "Ada", 1, 10, map[string]interface{}{"left": "right"}),
		event(1, "Ada", 1, 50, map[string]interface{}{"left": "right"}),
	}

	tr, err := NewBuilder(catalog).Build(events, nil, Options{Summarize: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(tr.Rows) != 2 {
		t.Fatalf("Build() retained %d rows, want 2", len(tr.Rows))
	}
}
