package main

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/canvastool/core"
	"github.com/trezcool/canvastool/services/canvas"
	"github.com/trezcool/canvastool/services/moss"
)

func newDownloadSubmissionsCmd() *cobra.Command {
	var dryrun bool
	cmd := &cobra.Command{
		Use:   "download-submissions course assignment",
		Short: "download the submissions for an assignment",
		Long: `Download every submission's attachments and comments into a directory named
after the assignment, one subdirectory per student.`,
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
			subs, err := client.SubmissionAttachments(ctx, a.ID)
			if err != nil {
				return err
			}
			if dryrun {
				core.Infof("%d submissions to download", len(subs))
				return nil
			}
			for _, s := range subs {
				dir := filepath.Join(args[1], strings.ReplaceAll(s.UserName, " ", "-"))
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return errors.Wrapf(err, "creating %s", dir)
				}
				for i, att := range s.Attachments {
					name := fmt.Sprintf("submission%d%s", i+1, filepath.Ext(att.DisplayName))
					if err := downloadFile(ctx, client, att, filepath.Join(dir, name)); err != nil {
						return err
					}
				}
				for i, comment := range s.Comments {
					name := filepath.Join(dir, fmt.Sprintf("comment%d.txt", i+1))
					if err := os.WriteFile(name, []byte(comment.Comment), 0o644); err != nil {
						return errors.Wrapf(err, "writing %s", name)
					}
					for j, att := range comment.Attachments {
						name := fmt.Sprintf("comment%dattachment%d%s", i+1, j+1, filepath.Ext(att.DisplayName))
						if err := downloadFile(ctx, client, att, filepath.Join(dir, name)); err != nil {
							return err
						}
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryrun, "dryrun", true, "only show the submission count, don't download")
	return cmd
}

func downloadFile(ctx context.Context, client *canvas.Client, att canvas.RemoteFile, target string) error {
	core.Infof("downloading %s", att.DisplayName)
	f, err := os.Create(target)
	if err != nil {
		return errors.Wrapf(err, "creating %s", target)
	}
	defer f.Close()
	return client.Download(ctx, att.URL, f)
}

func newCodeSimilarityCmd() *cobra.Command {
	var (
		localOnly bool
		threshold float64
	)
	cmd := &cobra.Command{
		Use:   "code-similarity course assignment language",
		Short: "check submissions for code similarity using stanford MOSS",
		Long: `Download every student's submission attachments (extracting zips), send the
files in the given language to MOSS, and print the report URL. A line-based
local similarity table is printed as well; --local skips the MOSS upload.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, svc, err := newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			language := args[2]

			userID := core.MossUserID()
			if userID == "" && !localOnly {
				return errors.Errorf("no [moss] userid in %s", core.ConfigPath)
			}

			c, err := svc.FindCourse(ctx, args[0], true)
			if err != nil {
				return err
			}
			a, err := svc.FindAssignment(ctx, c, args[1])
			if err != nil {
				return err
			}
			subs, err := client.SubmissionAttachments(ctx, a.ID)
			if err != nil {
				return err
			}

			tmpDir, err := os.MkdirTemp("", "canvastool.attach")
			if err != nil {
				return errors.WithStack(err)
			}
			defer os.RemoveAll(tmpDir)

			for _, s := range subs {
				dir := filepath.Join(tmpDir, strings.ReplaceAll(s.UserName, " ", "-"))
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return errors.Wrapf(err, "creating %s", dir)
				}
				for _, att := range s.Attachments {
					target := filepath.Join(dir, filepath.Base(att.DisplayName))
					if err := downloadFile(ctx, client, att, target); err != nil {
						return err
					}
					if strings.HasSuffix(target, ".zip") {
						if err := extractZip(target, dir); err != nil {
							return err
						}
					}
				}
			}

			sources, err := filepath.Glob(filepath.Join(tmpDir, "*", "*."+language))
			if err != nil {
				return errors.WithStack(err)
			}
			if len(sources) == 0 {
				core.Warnf("no .%s files found in the submissions", language)
				return nil
			}

			byStudent := make(map[string]string, len(sources))
			for _, src := range sources {
				rel, _ := filepath.Rel(tmpDir, src)
				byStudent[rel] = src
			}
			matches, err := moss.LocalReport(byStudent, threshold)
			if err != nil {
				return err
			}
			for _, m := range matches {
				core.Outputf("%3.0f%% %s <-> %s", m.Ratio*100, m.A, m.B)
			}
			if localOnly {
				return nil
			}

			mc := moss.NewClient(userID, language)
			for name, path := range byStudent {
				mc.AddFile(path, name)
			}
			core.Infof("uploading %d files", mc.FileCount())
			url, err := mc.Send(ctx, func(name string) { core.Infof("    sent %s", name) })
			if err != nil {
				return err
			}
			core.Outputf("%s", url)
			return nil
		},
	}
	cmd.Flags().BoolVar(&localOnly, "local", false, "skip the MOSS upload and only print the local table")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.5, "minimum local similarity ratio to report")
	return cmd
}

// extractZip unpacks archive into dir, refusing entries that escape it.
func extractZip(archive, dir string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return errors.Wrapf(err, "opening %s", archive)
	}
	defer zr.Close()
	for _, zf := range zr.File {
		target := filepath.Join(dir, zf.Name)
		if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) {
			return errors.Errorf("%s: illegal path %s", archive, zf.Name)
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.WithStack(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errors.WithStack(err)
		}
		rc, err := zf.Open()
		if err != nil {
			return errors.Wrapf(err, "%s: %s", archive, zf.Name)
		}
		out, err := os.Create(target)
		if err != nil {
			rc.Close()
			return errors.Wrapf(err, "creating %s", target)
		}
		_, err = io.Copy(out, rc)
		rc.Close()
		out.Close()
		if err != nil {
			return errors.Wrapf(err, "extracting %s", zf.Name)
		}
	}
	return nil
}
