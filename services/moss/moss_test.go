package moss

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// fakeMossServer speaks just enough of the protocol to accept one session.
func fakeMossServer(t *testing.T, acceptLanguage bool, reportURL string) (addr string, received *[]string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	files := new([]string)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		rd := bufio.NewReader(conn)
		for {
			line, err := rd.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "language "):
				if acceptLanguage {
					fmt.Fprint(conn, "yes\n")
				} else {
					fmt.Fprint(conn, "no\n")
				}
			case strings.HasPrefix(line, "file "):
				parts := strings.Fields(line)
				size, _ := strconv.Atoi(parts[3])
				if _, err := io.CopyN(io.Discard, rd, int64(size)); err != nil {
					return
				}
				*files = append(*files, parts[4])
			case strings.HasPrefix(line, "query "):
				fmt.Fprint(conn, reportURL+"\n")
			case line == "end":
				return
			}
		}
	}()
	return ln.Addr().String(), files
}

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSend(t *testing.T) {
	dir := t.TempDir()
	f1 := writeTempFile(t, dir, "a.py", "print('a')\n")
	f2 := writeTempFile(t, dir, "b.py", "print('b')\n")

	t.Run("uploads files and returns the report url", func(t *testing.T) {
		addr, received := fakeMossServer(t, true, "http://moss.stanford.edu/results/123")
		c := NewClient("987654321", "python")
		c.Server = addr
		c.AddFile(f1, "alice bob/a.py")
		c.AddFile(f2, "carol/b.py")

		var sent []string
		url, err := c.Send(context.Background(), func(name string) { sent = append(sent, name) })
		if err != nil {
			t.Fatalf("Send() failed: %v", err)
		}
		if expected := "http://moss.stanford.edu/results/123"; url != expected {
			t.Errorf("expected url %q, got %q", expected, url)
		}
		if expected := []string{"alice_bob/a.py", "carol/b.py"}; !stringsEqual(sent, expected) {
			t.Errorf("expected progress for %v, got %v", expected, sent)
		}
		if !stringsEqual(*received, sent) {
			t.Errorf("server saw %v, client sent %v", *received, sent)
		}
	})

	t.Run("rejected language", func(t *testing.T) {
		addr, _ := fakeMossServer(t, false, "")
		c := NewClient("987654321", "klingon")
		c.Server = addr
		c.AddFile(f1, "")
		if _, err := c.Send(context.Background(), nil); err == nil {
			t.Error("expected an error for a rejected language")
		}
	})

	t.Run("no files", func(t *testing.T) {
		c := NewClient("987654321", "python")
		if _, err := c.Send(context.Background(), nil); err == nil {
			t.Error("expected an error with no files queued")
		}
	})
}

func TestAddGlob(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.py", "x")
	writeTempFile(t, dir, "b.py", "y")
	writeTempFile(t, dir, "c.txt", "z")

	c := NewClient("987654321", "python")
	if err := c.AddGlob(filepath.Join(dir, "*.py")); err != nil {
		t.Fatalf("AddGlob() failed: %v", err)
	}
	if c.FileCount() != 2 {
		t.Errorf("expected 2 files, got %d", c.FileCount())
	}
}

func TestLocalReport(t *testing.T) {
	dir := t.TempDir()
	names := map[string]string{
		"alice": writeTempFile(t, dir, "alice.py", "def f(x):\n    return x + 1\n"),
		"bob":   writeTempFile(t, dir, "bob.py", "def f(x):\n    return x + 1\n"),
		"carol": writeTempFile(t, dir, "carol.py", "import sys\nsys.exit(3)\n"),
	}

	matches, err := LocalReport(names, 0.9)
	if err != nil {
		t.Fatalf("LocalReport() failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %v", len(matches), matches)
	}
	if matches[0].A != "alice" || matches[0].B != "bob" {
		t.Errorf("expected alice/bob, got %s/%s", matches[0].A, matches[0].B)
	}
	if matches[0].Ratio != 1.0 {
		t.Errorf("expected ratio 1.0, got %v", matches[0].Ratio)
	}
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
