package main

import (
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/canvastool/core"
	"github.com/trezcool/canvastool/core/course"
	"github.com/trezcool/canvastool/services/canvas"
)

var (
	validate   *validator.Validate
	translator ut.Translator
	verbose    bool
)

func init() {
	validate = validator.New()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ = uni.GetTranslator("en")
	core.InitValidators(validate, translator)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "canvastool",
		Short:         "course management helpers for instructors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every api request")
	cmd.AddCommand(
		newQuizCmd(),
		newListCoursesCmd(),
		newListStudentsCmd(),
		newMessageStudentsCmd(),
		newGradeDiscussionCmd(),
		newSetFudgePointsCmd(),
		newSetLetterGradeCmd(),
		newExportLetterGradeCmd(),
		newMinGradeAnalyzerCmd(),
		newCollectReferenceInfoCmd(),
		newDownloadSubmissionsCmd(),
		newCodeSimilarityCmd(),
		newDownloadCourseCmd(),
		newUploadCourseCmd(),
		newSetupCmd(),
	)
	return cmd
}

// execute runs the CLI and maps errors to exit codes: 2 for ambiguous or
// empty lookups (with candidates listed) and for errors that carry their own
// status, 1 for everything else.
func execute(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		reportError(err)
		return exitCode(err)
	}
	return 0
}

func reportError(err error) {
	if match, ok := core.IsMatchError(err); ok {
		core.Errorf("%s", match.Error())
		for _, c := range match.Candidates {
			core.Errorf("    %s", c)
		}
		return
	}
	core.Errorf("%v", err)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if _, ok := core.IsMatchError(err); ok {
		return 2
	}
	if se, ok := core.IsStatusError(err); ok {
		return se.Code
	}
	return 1
}

// newClient validates the stored server config and opens a client with it.
func newClient() (*canvas.Client, error) {
	conf := core.ServerConf()
	if err := validate.Struct(conf); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, errors.WithStack(err)
		}
		flds := make([]core.FieldError, len(verrs))
		for i, fe := range verrs {
			flds[i] = core.FieldError{Field: fe.Field(), Error: fe.Translate(translator)}
		}
		return nil, core.NewValidationError(
			errors.Errorf("bad config in %s; run `canvastool setup`", core.ConfigPath), flds...)
	}
	return canvas.NewClient(conf, canvas.WithLogger(core.NewConsoleLogger(verbose))), nil
}

func newService() (*canvas.Client, *course.Service, error) {
	client, err := newClient()
	if err != nil {
		return nil, nil, err
	}
	return client, course.NewService(client), nil
}
