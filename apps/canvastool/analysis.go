package main

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trezcool/canvastool/core"
	"github.com/trezcool/canvastool/core/grading"
)

func newMinGradeAnalyzerCmd() *cobra.Command {
	var minGrade float64
	cmd := &cobra.Command{
		Use:   "min-grade-analyzer course",
		Short: "see what class grades would look like with a minimum assignment score",
		Long: `Recompute every student's weighted class score with each assignment score
floored at the minimum, and list the students whose letter grade would change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, svc, err := newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			minFrac := minGrade / 100

			courses, err := svc.FindCourses(ctx, args[0], false, true)
			if err != nil {
				return err
			}
			for _, c := range courses {
				snap, err := client.CourseGradeSnapshot(ctx, c.ID)
				if err != nil {
					return err
				}
				weights := make(map[string]float64, len(snap.Groups))
				byStudent := make(map[string]map[string][]grading.CategoryScore)
				for _, group := range snap.Groups {
					weights[group.Name] = group.Weight
					assignmentIDs, err := client.GroupAssignments(ctx, group.ID)
					if err != nil {
						return err
					}
					for _, assignmentID := range assignmentIDs {
						scores, err := client.ScoresForAssignment(ctx, assignmentID)
						if err != nil {
							return err
						}
						for name, score := range scores.Scores {
							if score == nil {
								continue
							}
							if byStudent[name] == nil {
								byStudent[name] = make(map[string][]grading.CategoryScore)
							}
							byStudent[name][group.Name] = append(byStudent[name][group.Name],
								grading.CategoryScore{Score: *score, Possible: scores.PointsPossible})
						}
					}
				}

				names := make([]string, 0, len(byStudent))
				for name := range byStudent {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					outcome := grading.AnalyzeMinGrade(byStudent[name], weights, minFrac)
					if outcome.Letter == outcome.MinLetter {
						continue
					}
					core.Outputf("%s@%s@%g(%s) %g(%s)", name, scoreLabel(snap.ClassScores[name]),
						outcome.Total, outcome.Letter, outcome.MinTotal, outcome.MinLetter)
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64VarP(&minGrade, "min-grade", "m", 50, "scores below this percent of possible are raised to it")
	return cmd
}

func newCollectReferenceInfoCmd() *cobra.Command {
	var (
		thresholds []float64
		skip       []string
	)
	cmd := &cobra.Command{
		Use:   "collect-reference-info course",
		Short: "summarize past students' standing for reference letters",
		Long: `Collect high level information about students of previous classes. Assignment
groups scoring at or above the lowest threshold get a +, the next lowest ++,
and so on; groups below every threshold are not printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, svc, err := newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			courses, err := svc.FindCourses(ctx, args[0], false, true)
			if err != nil {
				return err
			}
			for _, c := range courses {
				groups, err := client.AssignmentGroupScores(ctx, c.ID)
				if err != nil {
					return err
				}
				summaries := make(map[string][]string)
				var names []string
				for _, group := range groups {
					if skipCategory(group.Name, skip) {
						continue
					}
					for _, g := range group.Grades {
						if g.CurrentScore == nil {
							continue
						}
						pluses := grading.ToPluses(*g.CurrentScore, thresholds)
						if pluses == "" {
							continue
						}
						if _, seen := summaries[g.StudentName]; !seen {
							names = append(names, g.StudentName)
						}
						summaries[g.StudentName] = append(summaries[g.StudentName], group.Name+":"+pluses)
					}
				}
				label := core.FormatCourseName(c.Name, core.CourseNameMatcher, core.CourseNameFormatter)
				for _, name := range names {
					core.Outputf("%s@%s %s", name, label, strings.Join(summaries[name], " "))
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64SliceVarP(&thresholds, "threshold", "t", []float64{84, 90, 95},
		"plus thresholds, lowest first (repeatable)")
	cmd.Flags().StringSliceVarP(&skip, "skip", "s", []string{"iclickr", "ungraded", "imported"},
		"skip assignment groups containing these keywords (repeatable)")
	return cmd
}

func skipCategory(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
