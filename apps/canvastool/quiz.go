package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trezcool/canvastool/core"
	"github.com/trezcool/canvastool/core/quiz"
)

func newQuizCmd() *cobra.Command {
	var (
		showQuestion bool
		forStudents  []string
		summarize    bool
		finalAnswer  bool
	)
	cmd := &cobra.Command{
		Use:   "quiz course quiz",
		Short: "reconstruct the answer logs of a quiz",
		Long: `Reconstruct per-student answer transcripts from a quiz's submission event
logs. Intermediate saves that merely extend the answer that followed them are
collapsed, and the final answer per question is pulled out after the listing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, svc, err := newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			c, err := svc.FindCourse(ctx, args[0], true)
			if err != nil {
				return err
			}
			q, err := svc.FindQuiz(ctx, c, args[1])
			if err != nil {
				return err
			}

			users, err := client.CourseUsers(ctx, c.ID, "")
			if err != nil {
				return err
			}
			names := make(map[int]string, len(users))
			for _, u := range users {
				names[u.ID] = u.Name
			}
			students := make(map[int]bool)
			for _, needle := range forStudents {
				needle = strings.ToLower(needle)
				matched := false
				for _, u := range users {
					if strings.Contains(strings.ToLower(u.Name), needle) {
						students[u.ID] = true
						matched = true
					}
				}
				if !matched {
					return core.NewMatchError("student", needle, nil)
				}
			}

			subs, err := client.QuizSubmissions(ctx, c.ID, q.ID)
			if err != nil {
				return err
			}
			var events []quiz.AnswerEvent
			for _, sub := range subs {
				name, ok := names[sub.UserID]
				if !ok {
					continue // dropped enrollment
				}
				if len(students) > 0 && !students[sub.UserID] {
					continue
				}
				evs, err := client.SubmissionEvents(ctx, c.ID, q.ID, sub, name)
				if err != nil {
					return err
				}
				events = append(events, evs...)
			}

			opts := quiz.Options{
				Summarize:       summarize,
				FinalAnswerOnly: finalAnswer,
				ShowQuestion:    showQuestion,
			}
			builder := quiz.NewBuilder(client.Catalog(ctx, c.ID, q.ID))
			tr, err := builder.Build(events, students, opts)
			if err != nil {
				return err
			}

			for _, r := range tr.Rows {
				core.Outputf("%s", formatRow(r, opts.ShowQuestion))
			}
			if opts.FinalAnswerOnly && len(tr.Finals) > 0 {
				core.Infof("final answers:")
				for _, r := range tr.Finals {
					core.Outputf("%s", formatRow(r, opts.ShowQuestion))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showQuestion, "show-question", false, "include the question text on each line")
	cmd.Flags().StringArrayVar(&forStudents, "for-student", nil, "only include students whose name contains this (repeatable)")
	cmd.Flags().BoolVar(&summarize, "summarize", true, "collapse saves that do not evolve the following answer")
	cmd.Flags().BoolVar(&finalAnswer, "final-answer", true, "pull the final answer per question out of the listing")
	return cmd
}

func formatRow(r quiz.Row, showQuestion bool) string {
	if showQuestion {
		return fmt.Sprintf("%s %s %s %s [%s]", r.PositionLabel, r.ElapsedLabel, r.StudentName, r.AnswerText(), core.CleanString(r.QuestionText))
	}
	return fmt.Sprintf("%s %s %s %s", r.PositionLabel, r.ElapsedLabel, r.StudentName, r.AnswerText())
}
