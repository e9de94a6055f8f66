package quiz

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Builder reconstructs per-student answer transcripts from a raw event
// stream. One Builder serves one build; its group cache memoizes the
// secondary group fetches within that invocation only.
type Builder struct {
	catalog Catalog
	groups  map[int]GroupInfo
}

func NewBuilder(catalog Catalog) *Builder {
	return &Builder{
		catalog: catalog,
		groups:  make(map[int]GroupInfo),
	}
}

// Build consumes the answer events of all submissions for one quiz and emits
// the ordered transcript. When students is non-empty, events for anyone else
// are excluded up front. A catalog fetch failure aborts the whole build: no
// partial transcript is better than a silently incomplete one.
func (b *Builder) Build(events []AnswerEvent, students map[int]bool, opts Options) (*Transcript, error) {
	var rows []Row
	for _, ev := range events {
		if len(students) > 0 && !students[ev.StudentID] {
			continue
		}
		if emptyAnswer(ev.RawAnswer) {
			continue
		}
		q, err := b.catalog.Question(ev.QuestionID)
		if err != nil {
			return nil, errors.Wrapf(err, "question %d", ev.QuestionID)
		}
		label, err := b.positionLabel(q)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{
			StudentName:   ev.StudentName,
			PositionLabel: label,
			ElapsedLabel:  elapsedLabel(ev.ElapsedSeconds),
			Timestamp:     ev.Timestamp,
			Answer:        NormalizeAnswer(ev.RawAnswer),
			QuestionText:  q.Text,
		})
	}

	tr := &Transcript{}
	if opts.Summarize || opts.FinalAnswerOnly {
		tr.Rows, tr.Finals = collapse(rows, opts)
	} else {
		tr.Rows = rows
	}

	// final chronological presentation
	sort.SliceStable(tr.Rows, func(i, j int) bool {
		if tr.Rows[i].ElapsedLabel != tr.Rows[j].ElapsedLabel {
			return tr.Rows[i].ElapsedLabel < tr.Rows[j].ElapsedLabel
		}
		return tr.Rows[i].Timestamp.Before(tr.Rows[j].Timestamp)
	})
	sort.SliceStable(tr.Finals, func(i, j int) bool {
		if tr.Finals[i].StudentName != tr.Finals[j].StudentName {
			return tr.Finals[i].StudentName < tr.Finals[j].StudentName
		}
		return tr.Finals[i].PositionLabel < tr.Finals[j].PositionLabel
	})
	return tr, nil
}

// collapse walks the rows newest-per-student-per-question first, dropping
// saves that do not evolve the answer that followed them and pulling out the
// final answer per (student, question) when asked to.
func collapse(rows []Row, opts Options) (retained, finals []Row) {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rowLess(sorted[j], sorted[i]) // descending
	})

	seenFinal := make(map[string]bool)
	var prev *Row
	for i := range sorted {
		r := sorted[i]
		key := r.StudentName + "\x00" + r.PositionLabel

		dropped := opts.Summarize && prev != nil &&
			prev.StudentName == r.StudentName && prev.PositionLabel == r.PositionLabel &&
			!Evolves(prev.Answer, r.Answer)

		if opts.FinalAnswerOnly && !seenFinal[key] {
			// the newest row for this key is the final answer; capture it
			// apart from the main listing
			seenFinal[key] = true
			finals = append(finals, r)
		} else if !dropped {
			retained = append(retained, r)
		}
		prev = &sorted[i]
	}
	return retained, finals
}

// rowLess orders rows by (student, question, time). Events within one
// submission all carry the same elapsed figure, so the event timestamp is
// what actually separates successive saves.
func rowLess(a, b Row) bool {
	if a.StudentName != b.StudentName {
		return a.StudentName < b.StudentName
	}
	if a.PositionLabel != b.PositionLabel {
		return a.PositionLabel < b.PositionLabel
	}
	if a.ElapsedLabel != b.ElapsedLabel {
		return a.ElapsedLabel < b.ElapsedLabel
	}
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	if a.AnswerText() != b.AnswerText() {
		return a.AnswerText() < b.AnswerText()
	}
	return a.QuestionText < b.QuestionText
}

func (b *Builder) positionLabel(q QuestionInfo) (string, error) {
	if q.GroupID == 0 {
		return fmt.Sprintf("%5d", q.Position), nil
	}
	g, ok := b.groups[q.GroupID]
	if !ok {
		var err error
		if g, err = b.catalog.Group(q.GroupID); err != nil {
			return "", errors.Wrapf(err, "group %d", q.GroupID)
		}
		b.groups[q.GroupID] = g
	}
	return fmt.Sprintf("%2d.%2d", g.Position, q.Position), nil
}

func elapsedLabel(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func emptyAnswer(raw interface{}) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && s == ""
}
