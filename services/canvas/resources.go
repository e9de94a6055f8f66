package canvas

import (
	"context"
	"fmt"
	"path"

	"github.com/trezcool/canvastool/core"
)

// ResourceRecord identifies one piece of course content for cross-reference
// during course download/upload. Stub marks content with no body yet.
type ResourceRecord struct {
	ID   int
	URL  string
	Type string // "File", "Assignment", "Discussion", "Page", "Quiz"
	Name string
	Stub bool
}

// ResourceMap indexes a course's content three ways. It is built once per
// command invocation and never shared across runs.
type ResourceMap struct {
	ByName  map[string]ResourceRecord // keyed Type+Name
	ByID    map[string]ResourceRecord // keyed Type+ID
	ByURL   map[string]ResourceRecord
	Modules map[string]Module
}

func newResourceMap() *ResourceMap {
	return &ResourceMap{
		ByName:  make(map[string]ResourceRecord),
		ByID:    make(map[string]ResourceRecord),
		ByURL:   make(map[string]ResourceRecord),
		Modules: make(map[string]Module),
	}
}

func (m *ResourceMap) add(rr ResourceRecord) {
	m.ByName[rr.Type+rr.Name] = rr
	m.ByID[fmt.Sprintf("%s%d", rr.Type, rr.ID)] = rr
	m.ByURL[rr.URL] = rr
}

type wireDiscussion struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	Message string `json:"message"`
}

type wireContentAssignment struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
}

type wireContentQuiz struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
}

// MapCourseResources walks a course's files, assignments, discussions,
// pages, quizzes, and modules into one ResourceMap.
func (c *Client) MapCourseResources(ctx context.Context, courseID int) (*ResourceMap, error) {
	m := newResourceMap()

	folders, err := c.Folders(ctx, courseID)
	if err != nil {
		return nil, err
	}
	for _, folder := range folders {
		files, err := c.FolderFiles(ctx, folder.ID)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			m.add(ResourceRecord{
				ID:   f.ID,
				URL:  core.BaseURL(f.URL),
				Type: "File",
				Name: path.Join(folder.FullName, f.DisplayName),
				Stub: f.Size == 0,
			})
		}
	}

	assignments, err := getList[wireContentAssignment](ctx, c, fmt.Sprintf("/courses/%d/assignments", courseID), nil)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		m.add(ResourceRecord{ID: a.ID, URL: core.BaseURL(a.HTMLURL), Type: "Assignment", Name: a.Name, Stub: a.Description == ""})
	}

	discussions, err := getList[wireDiscussion](ctx, c, fmt.Sprintf("/courses/%d/discussion_topics", courseID), nil)
	if err != nil {
		return nil, err
	}
	for _, d := range discussions {
		m.add(ResourceRecord{ID: d.ID, URL: core.BaseURL(d.HTMLURL), Type: "Discussion", Name: d.Title, Stub: d.Message == ""})
	}

	pages, err := c.Pages(ctx, courseID)
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		m.add(ResourceRecord{ID: p.PageID, URL: core.BaseURL(p.HTMLURL), Type: "Page", Name: p.Title, Stub: p.Body == ""})
	}

	quizzes, err := getList[wireContentQuiz](ctx, c, fmt.Sprintf("/courses/%d/quizzes", courseID), nil)
	if err != nil {
		return nil, err
	}
	for _, q := range quizzes {
		m.add(ResourceRecord{ID: q.ID, URL: core.BaseURL(q.HTMLURL), Type: "Quiz", Name: q.Title, Stub: q.Description == ""})
	}

	modules, err := c.Modules(ctx, courseID)
	if err != nil {
		return nil, err
	}
	for _, mod := range modules {
		m.Modules[mod.Name] = mod
	}
	return m, nil
}
