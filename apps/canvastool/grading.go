package main

import (
	"os"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/canvastool/core"
	"github.com/trezcool/canvastool/core/grading"
)

// reportedLetterGrade is the gradebook column the letter-grade commands
// read and write.
const reportedLetterGrade = "Reported Letter Grade"

func newGradeDiscussionCmd() *cobra.Command {
	var (
		dryrun        bool
		minWords      int
		pointsComment int
		maxPoints     int
	)
	cmd := &cobra.Command{
		Use:   "grade-discussion course assignment",
		Short: "grade a discussion assignment based on participation",
		Long: `Grade a discussion assignment on participation: one point for a post and
another for a reply. Posts below the word minimum, and posts after the due
date, earn nothing. The word count ignores markup and implausible words.`,
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
			a, err := svc.FindAssignment(ctx, c, args[1])
			if err != nil {
				return err
			}
			if a.DueAt != nil && a.DueAt.After(time.Now()) {
				core.Warnf("%s not due: skipping", a.Name)
				return nil
			}

			subs, err := client.Submissions(ctx, c.ID, a.ID)
			if err != nil {
				return err
			}
			grades := make(map[int]int) // user id -> grade
			skipped := 0
			for _, s := range subs {
				if s.DiscussionEntries == nil {
					skipped++
					continue
				}
				grade := 0
				for _, entry := range s.DiscussionEntries {
					if a.DueAt != nil && entry.CreatedAt.After(*a.DueAt) {
						core.Infof("skipping discussion from %d submitted at %s but due %s",
							s.UserID, entry.CreatedAt.Format(time.RFC3339), a.DueAt.Format(time.RFC3339))
						continue
					}
					if grading.CountWords(entry.Message) >= minWords {
						grade += pointsComment
						if grade > maxPoints {
							grade = maxPoints
						}
					}
				}
				grades[s.UserID] = grade
			}
			if skipped == len(subs) {
				return core.NewStatusError(2, errors.Errorf("%q doesn't appear to be a discussion assignment", a.Name))
			}
			core.Infof("processed %d, skipped %d.", len(subs), skipped)

			if dryrun {
				core.Infof("would have posted:")
				for userID, grade := range grades {
					core.Infof("    %d %d", userID, grade)
				}
				return nil
			}
			for userID, grade := range grades {
				if err := client.GradeSubmission(ctx, c.ID, a.ID, userID, strconv.Itoa(grade)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryrun, "dryrun", true, "only show the grades, don't actually set them")
	cmd.Flags().IntVar(&minWords, "min-words", 5, "the minimum number of valid words to get credit")
	cmd.Flags().IntVar(&pointsComment, "points-comment", 1, "number of points for posting a comment")
	cmd.Flags().IntVar(&maxPoints, "max-points", 2, "maximum number of points to give")
	return cmd
}

func newSetFudgePointsCmd() *cobra.Command {
	var (
		dryrun   bool
		decrease bool
	)
	cmd := &cobra.Command{
		Use:   "set-fudge-points course quiz [points]",
		Short: "list or set the fudge points for a quiz",
		Long: `Without points, list each submission's fudge points. With points, set them
on every submission; points are not decreased unless --decrease is given.`,
		Args: cobra.RangeArgs(2, 3),
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
			subs, err := client.QuizSubmissions(ctx, c.ID, q.ID)
			if err != nil {
				return err
			}
			if len(args) < 3 {
				for _, s := range subs {
					core.Infof("%d %g", s.UserID, s.FudgePoints)
				}
				return nil
			}
			points, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return errors.Wrapf(err, "bad points %q", args[2])
			}
			for _, s := range subs {
				if !decrease && s.FudgePoints > points {
					core.Infof("skipping %d with %g points", s.UserID, s.FudgePoints)
					continue
				}
				if dryrun {
					core.Infof("would update fudge points for %d from %g to %g", s.UserID, s.FudgePoints, points)
					continue
				}
				core.Infof("updating fudge points for %d from %g to %g", s.UserID, s.FudgePoints, points)
				if err := client.SetFudgePoints(ctx, c.ID, q.ID, s, points); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryrun, "dryrun", true, "only show the points, don't actually set them")
	cmd.Flags().BoolVar(&decrease, "decrease", false, "allow lowering existing fudge points")
	return cmd
}

func newSetLetterGradeCmd() *cobra.Command {
	var (
		round        float64
		dryrun       bool
		skipMismatch bool
	)
	cmd := &cobra.Command{
		Use:   "set-letter-grade course",
		Short: "set letter grades from final scores",
		Long: `Compute each student's letter grade from their final class score and post it
to the "` + reportedLetterGrade + `" assignment, which must already exist as a
letter-grade assignment in the gradebook.`,
		Args: cobra.ExactArgs(1),
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
			a, err := svc.FindAssignment(ctx, c, reportedLetterGrade)
			if err != nil {
				return err
			}
			enrollments, err := client.Enrollments(ctx, c.ID)
			if err != nil {
				return err
			}

			type target struct {
				name   string
				letter string
				score  *float64
			}
			grades := make(map[int]target)
			for _, e := range enrollments {
				if e.Grades == nil {
					continue
				}
				if !scoresEqual(e.Grades.CurrentScore, e.Grades.FinalScore) {
					if skipMismatch {
						core.Warnf("current_score of %s != %s for %s SKIPPED",
							scoreLabel(e.Grades.CurrentScore), scoreLabel(e.Grades.FinalScore), e.UserName)
						continue
					}
					core.Warnf("current_score of %s != %s for %s NOT SKIPPED",
						scoreLabel(e.Grades.CurrentScore), scoreLabel(e.Grades.FinalScore), e.UserName)
				}
				grades[e.UserID] = target{
					name:   e.UserName,
					letter: grading.PointsToLetter(e.Grades.FinalScore, round),
					score:  e.Grades.FinalScore,
				}
			}

			if dryrun {
				for _, t := range grades {
					core.Infof("%s %s %s", t.letter, scoreLabel(t.score), t.name)
				}
				core.Warnf("This was a dryrun. Nothing has been updated")
				return nil
			}
			for userID, t := range grades {
				if err := client.GradeSubmission(ctx, c.ID, a.ID, userID, t.letter); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&round, "round", 0, "points to add to the final score before computing the letter grade")
	cmd.Flags().BoolVar(&dryrun, "dryrun", true, "only show the grades, don't actually set them")
	cmd.Flags().BoolVar(&skipMismatch, "skip-mismatch", true, "skip students whose current grade doesn't match their total")
	return cmd
}

// letterGradeRecord is one line of the exported gradebook CSV.
type letterGradeRecord struct {
	StudentID string `csv:"Student ID"`
	Grade     string `csv:"Grade"`
}

func newExportLetterGradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-letter-grade course output.csv",
		Short: "export course letter grades to CSV",
		Long: `Pull the letter grades from the "` + reportedLetterGrade + `" assignment and
write (Student ID, Grade) CSV records. An output file of - goes to stdout.`,
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
			a, err := svc.FindAssignment(ctx, c, reportedLetterGrade)
			if err != nil {
				return err
			}
			subs, err := client.Submissions(ctx, c.ID, a.ID)
			if err != nil {
				return err
			}

			var records []letterGradeRecord
			for _, s := range subs {
				if s.Grade == nil {
					continue
				}
				u, err := client.CourseUser(ctx, c.ID, s.UserID)
				if err != nil {
					return err
				}
				if u.SISUserID == "" {
					continue
				}
				records = append(records, letterGradeRecord{StudentID: u.SISUserID, Grade: *s.Grade})
			}

			out := cmd.OutOrStdout()
			if args[1] != "-" {
				f, err := os.Create(args[1])
				if err != nil {
					return errors.Wrapf(err, "creating %s", args[1])
				}
				defer f.Close()
				out = f
			}
			if err := gocsv.Marshal(records, out); err != nil {
				return errors.Wrap(err, "writing csv")
			}
			core.Infof("%d records written to %s", len(records), args[1])
			return nil
		},
	}
	return cmd
}

func scoresEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func scoreLabel(s *float64) string {
	if s == nil {
		return "none"
	}
	return strconv.FormatFloat(*s, 'g', -1, 64)
}
