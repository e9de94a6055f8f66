package canvas

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Page is a wiki page with its body included.
type Page struct {
	PageID  int    `json:"page_id"`
	URL     string `json:"url"`
	HTMLURL string `json:"html_url"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

func (c *Client) Pages(ctx context.Context, courseID int) ([]Page, error) {
	params := url.Values{}
	params.Add("include[]", "body")
	return getList[Page](ctx, c, fmt.Sprintf("/courses/%d/pages", courseID), params)
}

// UpsertPage creates or updates a wiki page by its title-derived slug.
func (c *Client) UpsertPage(ctx context.Context, courseID int, title, body string) (Page, error) {
	form := url.Values{}
	form.Set("wiki_page[title]", title)
	form.Set("wiki_page[body]", body)
	var p Page
	path := fmt.Sprintf("/courses/%d/pages/%s", courseID, PageSlug(title))
	if err := c.send(ctx, "PUT", path, form, &p); err != nil {
		return Page{}, err
	}
	return p, nil
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// PageSlug mirrors the platform's title-to-url rule closely enough for
// create-or-update by title.
func PageSlug(title string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// Module is a course content module.
type Module struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

func (c *Client) Modules(ctx context.Context, courseID int) ([]Module, error) {
	return getList[Module](ctx, c, fmt.Sprintf("/courses/%d/modules", courseID), nil)
}

// ModuleItem is one entry of a module (page, file, assignment, ...).
type ModuleItem struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	PageURL   string `json:"page_url"`
	ContentID int    `json:"content_id"`
	Indent    int    `json:"indent"`
}

func (c *Client) ModuleItems(ctx context.Context, courseID, moduleID int) ([]ModuleItem, error) {
	path := fmt.Sprintf("/courses/%d/modules/%d/items", courseID, moduleID)
	return getList[ModuleItem](ctx, c, path, nil)
}

// Folder is a course file folder.
type Folder struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
}

func (c *Client) Folders(ctx context.Context, courseID int) ([]Folder, error) {
	return getList[Folder](ctx, c, fmt.Sprintf("/courses/%d/folders", courseID), nil)
}

// File is a stored course file.
type File struct {
	ID          int    `json:"id"`
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	DisplayName string `json:"display_name"`
	Size        int64  `json:"size"`
}

func (c *Client) FolderFiles(ctx context.Context, folderID int) ([]File, error) {
	return getList[File](ctx, c, fmt.Sprintf("/folders/%d/files", folderID), nil)
}
