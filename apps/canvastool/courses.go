package main

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/canvastool/core"
)

func newListCoursesCmd() *cobra.Command {
	var (
		active    bool
		matcher   string
		formatter string
	)
	cmd := &cobra.Command{
		Use:   "list-courses",
		Short: "list the courses i am teaching",
		Long:  "List courses. --active=false includes past and future courses.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := newService()
			if err != nil {
				return err
			}
			courses, err := svc.FindCourses(cmd.Context(), "", active, false)
			if err != nil {
				return err
			}
			for _, c := range courses {
				name := c.Name
				if name == "" {
					name = "none"
				}
				core.Outputf("%d %s %s %s", c.ID, core.FormatCourseName(name, matcher, formatter),
					c.Start.Format("2006-01-02"), c.End.Format("2006-01-02"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&active, "active", true, "show only active courses")
	cmd.Flags().StringVar(&matcher, "matcher", core.CourseNameMatcher, "course name matcher expression")
	cmd.Flags().StringVar(&formatter, "formatter", core.CourseNameFormatter, "course name formatter expression (- turns formatting off)")
	return cmd
}

func newListStudentsCmd() *cobra.Command {
	var (
		active bool
		emails bool
	)
	cmd := &cobra.Command{
		Use:   "list-students course",
		Short: "list the students in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, svc, err := newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := svc.FindCourse(ctx, args[0], active)
			if err != nil {
				return err
			}
			core.Outputf("found %s", c.Name)
			entries, err := client.StudentDirectory(ctx, c.ID)
			if err != nil {
				return err
			}
			for _, e := range entries {
				if emails {
					core.Outputf("    %s %s", e.Email, e.Name)
				} else {
					core.Outputf("    %s", e.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&active, "active", true, "only match active courses")
	cmd.Flags().BoolVar(&emails, "emails", false, "list student emails")
	return cmd
}

func newMessageStudentsCmd() *cobra.Command {
	var (
		courseInSubject bool
		message         string
		fromFile        string
	)
	cmd := &cobra.Command{
		Use:   "message-students course subject student...",
		Short: "message students in a course",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := composeMessage(message, fromFile, cmd.InOrStdin())
			if err != nil {
				return err
			}

			client, svc, err := newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := svc.FindCourse(ctx, args[0], true)
			if err != nil {
				return err
			}
			subject := args[1]
			if courseInSubject {
				subject = "[" + core.FormatCourseName(c.Name, core.CourseNameMatcher, core.CourseNameFormatter) + "] " + subject
			}

			// resolve everyone before messaging anyone
			var to []int
			for _, name := range args[2:] {
				u, err := svc.FindStudent(ctx, c, name)
				if err != nil {
					return err
				}
				to = append(to, u.ID)
			}
			for _, userID := range to {
				if err := client.CreateConversation(ctx, userID, subject, body); err != nil {
					return err
				}
			}
			core.Infof("messaged %d students", len(to))
			return nil
		},
	}
	cmd.Flags().BoolVar(&courseInSubject, "course-in-subject", true, "include the course name in []s in the subject line")
	cmd.Flags().StringVar(&message, "message", "", "message to send")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "file containing the message to send (- for stdin)")
	return cmd
}

// composeMessage joins the --message and --from-file sources; at least one
// must be given.
func composeMessage(message, fromFile string, stdin io.Reader) (string, error) {
	var b strings.Builder
	if message != "" {
		b.WriteString(message)
		if !strings.HasSuffix(message, "\n") {
			b.WriteString("\n")
		}
	}
	switch fromFile {
	case "":
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(err, "reading stdin")
		}
		b.Write(data)
	default:
		data, err := os.ReadFile(fromFile)
		if err != nil {
			return "", errors.Wrapf(err, "reading %s", fromFile)
		}
		b.Write(data)
	}
	if b.Len() == 0 {
		return "", errors.New("either --message or --from-file must be given")
	}
	return b.String(), nil
}
