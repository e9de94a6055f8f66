// Package moss submits source files to the Stanford MOSS code-similarity
// service over its plain TCP protocol.
package moss

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const defaultServer = "moss.stanford.edu:7690"

type file struct {
	path        string
	displayName string
}

// Client accumulates files and sends them in one MOSS session.
type Client struct {
	UserID     string
	Language   string
	Server     string // host:port, defaults to the Stanford server
	MaxMatches int
	ShowLimit  int

	files []file
}

func NewClient(userID, language string) *Client {
	return &Client{
		UserID:     userID,
		Language:   language,
		Server:     defaultServer,
		MaxMatches: 10,
		ShowLimit:  250,
	}
}

// AddFile queues one file for submission. displayName is what the MOSS
// report shows; slashes are normalized and spaces replaced since the
// protocol is whitespace-delimited.
func (c *Client) AddFile(path, displayName string) {
	if displayName == "" {
		displayName = path
	}
	displayName = strings.ReplaceAll(filepath.ToSlash(displayName), " ", "_")
	c.files = append(c.files, file{path: path, displayName: displayName})
}

// AddGlob queues every file matching pattern (filepath.Glob syntax).
func (c *Client) AddGlob(pattern string) error {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return errors.Wrapf(err, "bad pattern %q", pattern)
	}
	for _, m := range matches {
		c.AddFile(m, m)
	}
	return nil
}

func (c *Client) FileCount() int { return len(c.files) }

// Send uploads the queued files and returns the MOSS report URL. onSend, if
// non-nil, is called with each display name as its upload completes.
func (c *Client) Send(ctx context.Context, onSend func(displayName string)) (string, error) {
	if len(c.files) == 0 {
		return "", errors.New("no files to send")
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.Server)
	if err != nil {
		return "", errors.Wrap(err, "connecting to moss")
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	rd := bufio.NewReader(conn)

	if err = c.writef(conn, "moss %s\n", c.UserID); err != nil {
		return "", err
	}
	if err = c.writef(conn, "directory 0\n"); err != nil {
		return "", err
	}
	if err = c.writef(conn, "X 0\n"); err != nil {
		return "", err
	}
	if err = c.writef(conn, "maxmatches %d\n", c.MaxMatches); err != nil {
		return "", err
	}
	if err = c.writef(conn, "show %d\n", c.ShowLimit); err != nil {
		return "", err
	}
	if err = c.writef(conn, "language %s\n", c.Language); err != nil {
		return "", err
	}
	line, err := rd.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "reading language ack")
	}
	if strings.TrimSpace(line) != "yes" {
		_ = c.writef(conn, "end\n")
		return "", errors.Errorf("language %q not accepted by moss", c.Language)
	}

	for i, f := range c.files {
		if err = c.sendFile(conn, i+1, f); err != nil {
			return "", err
		}
		if onSend != nil {
			onSend(f.displayName)
		}
	}

	if err = c.writef(conn, "query 0 \n"); err != nil {
		return "", err
	}
	url, err := rd.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "reading report url")
	}
	_ = c.writef(conn, "end\n")
	return strings.TrimSpace(url), nil
}

func (c *Client) sendFile(conn net.Conn, index int, f file) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", f.path)
	}
	if err = c.writef(conn, "file %d %s %d %s\n", index, c.Language, len(data), f.displayName); err != nil {
		return err
	}
	if _, err = conn.Write(data); err != nil {
		return errors.Wrapf(err, "uploading %s", f.displayName)
	}
	return nil
}

func (c *Client) writef(conn net.Conn, format string, args ...interface{}) error {
	_, err := fmt.Fprintf(conn, format, args...)
	return errors.Wrap(err, "writing to moss")
}
