package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/canvastool/core"
	"github.com/trezcool/canvastool/core/markup"
	"github.com/trezcool/canvastool/services/canvas"
)

func newDownloadCourseCmd() *cobra.Command {
	var dryrun bool
	cmd := &cobra.Command{
		Use:   "download-course course dir",
		Short: "snapshot course pages and modules into a local directory",
		Long: `Download the course's wiki pages as Markdown into dir/pages, the module
outline into dir/modules.md, and a manifest of the course files into
dir/files.md.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, svc, err := newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := svc.FindCourse(ctx, args[0], false)
			if err != nil {
				return err
			}
			core.Outputf("found %s", c.Name)

			resources, err := client.MapCourseResources(ctx, c.ID)
			if err != nil {
				return err
			}

			target := args[1]
			if err := downloadPages(cmd, client, c.ID, filepath.Join(target, "pages"), dryrun); err != nil {
				return err
			}
			if err := downloadModules(cmd, client, resources, c.ID, filepath.Join(target, "modules.md"), dryrun); err != nil {
				return err
			}
			return writeFileManifest(resources, filepath.Join(target, "files.md"), dryrun)
		},
	}
	cmd.Flags().BoolVar(&dryrun, "dryrun", true, "show what would happen, but don't do it")
	return cmd
}

func downloadPages(cmd *cobra.Command, client *canvas.Client, courseID int, dir string, dryrun bool) error {
	pages, err := client.Pages(cmd.Context(), courseID)
	if err != nil {
		return err
	}
	if !dryrun {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}
	for _, p := range pages {
		slug := canvas.PageSlug(p.Title)
		if p.URL != slug {
			core.Warnf("calculated page url for %s (%s) does not equal %s", p.Title, slug, p.URL)
		}
		if dryrun {
			core.Infof("would download %s to %s", p.Title, slug)
			continue
		}
		md, err := markup.HTMLToMarkdown(p.Body)
		if err != nil {
			return errors.Wrapf(err, "converting %s", p.Title)
		}
		content := fmt.Sprintf("title: %s\n%s", p.Title, md)
		name := filepath.Join(dir, slug+".md")
		if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", name)
		}
	}
	return nil
}

func downloadModules(cmd *cobra.Command, client *canvas.Client, resources *canvas.ResourceMap, courseID int, target string, dryrun bool) error {
	modules, err := client.Modules(cmd.Context(), courseID)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, m := range modules {
		fmt.Fprintf(&b, "# %s\n", m.Name)
		items, err := client.ModuleItems(cmd.Context(), courseID, m.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Fprintf(&b, "%s* %s; %s", strings.Repeat("  ", item.Indent+1), core.Sanitize(item.Title), item.Type)
			// record the linked resource name when it differs from the item title
			var rr canvas.ResourceRecord
			var ok bool
			if item.PageURL != "" {
				rr, ok = resources.ByName["Page"+item.Title]
			} else if item.ContentID != 0 {
				rr, ok = resources.ByID[fmt.Sprintf("%s%d", item.Type, item.ContentID)]
			}
			if ok && rr.Name != item.Title {
				fmt.Fprintf(&b, "; target=%s", rr.Name)
			}
			b.WriteString("\n")
		}
	}
	if dryrun {
		core.Infof("would have written:\n%sto %s", b.String(), target)
		return nil
	}
	return errors.Wrapf(os.WriteFile(target, []byte(b.String()), 0o644), "writing %s", target)
}

func writeFileManifest(resources *canvas.ResourceMap, target string, dryrun bool) error {
	var b strings.Builder
	b.WriteString("# course files\n")
	for _, rr := range resources.ByName {
		if rr.Type != "File" {
			continue
		}
		fmt.Fprintf(&b, "* %s; id=%d%s\n", rr.Name, rr.ID, stubSuffix(rr))
	}
	if dryrun {
		core.Infof("would have written %s", target)
		return nil
	}
	return errors.Wrapf(os.WriteFile(target, []byte(b.String()), 0o644), "writing %s", target)
}

func stubSuffix(rr canvas.ResourceRecord) string {
	if rr.Stub {
		return "; stub"
	}
	return ""
}

func newUploadCourseCmd() *cobra.Command {
	var dryrun bool
	cmd := &cobra.Command{
		Use:   "upload-course course dir",
		Short: "push local Markdown pages back to the course",
		Long: `Upload the Markdown files in dir/pages as course wiki pages, converting
Markdown to HTML and creating or updating each page by its title.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, svc, err := newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := svc.FindCourse(ctx, args[0], false)
			if err != nil {
				return err
			}

			resources, err := client.MapCourseResources(ctx, c.ID)
			if err != nil {
				return err
			}

			dir := filepath.Join(args[1], "pages")
			files, err := filepath.Glob(filepath.Join(dir, "*.md"))
			if err != nil {
				return errors.WithStack(err)
			}
			if len(files) == 0 {
				return errors.Errorf("no pages found under %s", dir)
			}
			for _, file := range files {
				title, body, err := readPageFile(file)
				if err != nil {
					return err
				}
				if _, exists := resources.ByName["Page"+title]; exists {
					core.Infof("page %s already exists", title)
				}
				if dryrun {
					core.Infof("would upload %s from %s", title, file)
					continue
				}
				core.Infof("uploading %s from %s", title, file)
				if _, err := client.UpsertPage(ctx, c.ID, title, markup.MarkdownToHTML(body)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryrun, "dryrun", true, "show what would happen, but don't do it")
	return cmd
}

// readPageFile splits a downloaded page into its "title:" header and the
// Markdown body.
func readPageFile(file string) (title, body string, err error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", "", errors.Wrapf(err, "reading %s", file)
	}
	content := string(data)
	for content != "" {
		line, rest, _ := strings.Cut(content, "\n")
		key, value, found := strings.Cut(line, ":")
		if !found {
			break
		}
		content = rest
		key = strings.TrimSpace(key)
		if key == "title" {
			title = strings.TrimSpace(value)
			break
		}
	}
	if title == "" {
		return "", "", errors.Errorf("%s has no title: header", file)
	}
	return title, content, nil
}
