// Package filestore persists posts as one frontmatter file per slug
// under a content directory. It is the fallback store when no database
// is configured.
package filestore

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mdobak/go-xerrors"
	"gopkg.in/yaml.v3"

	"github.com/bokjinews/blog/models"
)

var ErrNotFound = xerrors.Message("post file not found")

const frontmatterDelimiter = "---"

// extensions accepted when reading. Writes always produce the first one.
var extensions = []string{".md", ".mdx"}

type Store struct {
	dir string
	log *slog.Logger
}

func New(dir string, log *slog.Logger) *Store {
	return &Store{
		dir: dir,
		log: log,
	}
}

// List enumerates every post file and parses its header into a Post.
// A missing content directory yields an empty list.
func (s *Store) List() ([]models.Post, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Post{}, nil
		}
		return nil, xerrors.New(err)
	}

	var posts []models.Post
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !isPostExtension(ext) {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), ext)

		raw, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, xerrors.New(err)
		}

		frontmatter, _, err := parse(raw)
		if err != nil {
			s.log.Warn("skipping unparsable post file", "file", entry.Name(), "error", err)
			continue
		}

		posts = append(posts, postFromFrontmatter(slug, frontmatter))
	}

	return posts, nil
}

// Get reads one post by slug, returning its header fields and body.
func (s *Store) Get(slug string) (models.Frontmatter, string, error) {
	for _, ext := range extensions {
		raw, err := os.ReadFile(filepath.Join(s.dir, slug+ext))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return models.Frontmatter{}, "", xerrors.New(err)
		}

		frontmatter, content, err := parse(raw)
		if err != nil {
			return models.Frontmatter{}, "", err
		}
		return frontmatter, content, nil
	}

	return models.Frontmatter{}, "", xerrors.New(ErrNotFound)
}

// Upsert writes the post file for slug, creating the content directory
// when absent and overwriting any existing file.
func (s *Store) Upsert(slug string, frontmatter models.Frontmatter, content string) error {
	safeSlug := strings.TrimSpace(slug)
	if safeSlug == "" {
		return xerrors.New("slug is required")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return xerrors.New(err)
	}

	frontmatter.Date = NormalizeDate(frontmatter.Date)

	raw, err := serialize(frontmatter, content)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, safeSlug+extensions[0])
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return xerrors.New(err)
	}

	return nil
}

// Delete removes the post file for slug. Absence is not an error.
func (s *Store) Delete(slug string) error {
	for _, ext := range extensions {
		err := os.Remove(filepath.Join(s.dir, slug+ext))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return xerrors.New(err)
		}
	}
	return nil
}

func isPostExtension(ext string) bool {
	for _, known := range extensions {
		if ext == known {
			return true
		}
	}
	return false
}

func postFromFrontmatter(slug string, frontmatter models.Frontmatter) models.Post {
	title := frontmatter.Title
	if title == "" {
		title = slug
	}

	return models.Post{
		Slug:        slug,
		Title:       title,
		Date:        NormalizeDate(frontmatter.Date),
		Summary:     frontmatter.Summary,
		Image:       frontmatter.Image,
		Label:       frontmatter.Label,
		Author:      frontmatter.Author,
		Category:    frontmatter.Category,
		SubCategory: frontmatter.SubCategory,
		Status:      frontmatter.Status,
		Featured:    frontmatter.Featured,
		Tags:        frontmatter.Tags,
	}
}

// parse splits a file into its YAML header block and body. A file
// without a header block is all body.
func parse(raw []byte) (models.Frontmatter, string, error) {
	text := string(raw)

	if !strings.HasPrefix(text, frontmatterDelimiter+"\n") && !strings.HasPrefix(text, frontmatterDelimiter+"\r\n") {
		return models.Frontmatter{}, text, nil
	}

	rest := text[strings.Index(text, "\n")+1:]
	end := strings.Index(rest, "\n"+frontmatterDelimiter)
	if end < 0 {
		return models.Frontmatter{}, text, nil
	}

	header := rest[:end]
	body := rest[end+len("\n"+frontmatterDelimiter):]
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	} else {
		body = ""
	}

	var frontmatter models.Frontmatter
	if err := yaml.Unmarshal([]byte(header), &frontmatter); err != nil {
		return models.Frontmatter{}, "", xerrors.New(err)
	}

	return frontmatter, strings.TrimPrefix(body, "\n"), nil
}

func serialize(frontmatter models.Frontmatter, content string) ([]byte, error) {
	header, err := yaml.Marshal(frontmatter)
	if err != nil {
		return nil, xerrors.New(err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatterDelimiter + "\n")
	buf.Write(header)
	buf.WriteString(frontmatterDelimiter + "\n\n")
	buf.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// NormalizeDate reduces any recognized date representation to
// YYYY-MM-DD. Unrecognized input is passed through trimmed.
func NormalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return value
}
