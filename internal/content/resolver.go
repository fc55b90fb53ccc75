// Package content is the post resolution layer. Every read and write
// goes through the Resolver, which picks the active store: the hosted
// database when configured, the local file store otherwise. The two
// stores are never merged within one call; on reads the database wins,
// and a failing or empty database read falls back to the files.
package content

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/mdobak/go-xerrors"

	"github.com/bokjinews/blog/internal/auth"
	"github.com/bokjinews/blog/internal/core"
	"github.com/bokjinews/blog/internal/filestore"
	"github.com/bokjinews/blog/models"
)

var ErrPostNotFound = xerrors.Message("post not found")
var ErrSlugRequired = xerrors.Message("slug is required")

// HostedStore is the slice of the database layer the resolver needs.
type HostedStore interface {
	ListPublishedPosts(ctx context.Context) ([]models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*core.StoredPost, error)
	InsertPost(ctx context.Context, post core.PostInsert) error
	UpdatePostBySlug(ctx context.Context, slug string, update core.PostUpdate) error
	DeletePostBySlug(ctx context.Context, slug string) error
}

// PostContent is the single-post read shape: header fields plus body.
type PostContent struct {
	Frontmatter models.Frontmatter `json:"frontmatter"`
	Content     string             `json:"content"`
}

type Resolver struct {
	log    *slog.Logger
	files  *filestore.Store
	hosted HostedStore
}

// NewResolver wires the resolution layer. Pass a nil hosted store when
// no database is configured.
func NewResolver(log *slog.Logger, files *filestore.Store, hosted HostedStore) *Resolver {
	return &Resolver{
		log:    log,
		files:  files,
		hosted: hosted,
	}
}

// HasHostedStore reports whether writes go to the database.
func (r *Resolver) HasHostedStore() bool {
	return r.hosted != nil
}

// ListPosts returns all published posts. The database result wins when
// it is reachable and non-empty; otherwise the content files are
// enumerated and sorted newest first (undated posts keep their order).
func (r *Resolver) ListPosts(ctx context.Context) ([]models.Post, error) {
	if r.hosted != nil {
		posts, err := r.hosted.ListPublishedPosts(ctx)
		if err != nil {
			r.log.Warn("hosted post listing failed, falling back to file store", "error", err)
		} else if len(posts) > 0 {
			return posts, nil
		}
	}

	posts, err := r.files.List()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date == "" || posts[j].Date == "" {
			return false
		}
		return posts[i].Date > posts[j].Date
	})

	return posts, nil
}

// GetPost fetches one post by slug, database first. When both stores
// hold the slug the database version wins.
func (r *Resolver) GetPost(ctx context.Context, slug string) (*PostContent, error) {
	if r.hosted != nil {
		post, err := r.hosted.GetPostBySlug(ctx, slug)
		if err == nil {
			return storedPostContent(post), nil
		}
		if !errors.Is(err, core.NoRecordFound) {
			r.log.Warn("hosted post fetch failed, falling back to file store", "slug", slug, "error", err)
		}
	}

	frontmatter, body, err := r.files.Get(slug)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			return nil, xerrors.New(ErrPostNotFound)
		}
		return nil, err
	}

	return &PostContent{Frontmatter: frontmatter, Content: body}, nil
}

// SavePost writes a post to the active store. In database mode an
// update by slug is attempted first and a missing row falls back to an
// insert; write failures surface directly, with no file fallback.
// Tags are normalized (trimmed, empties dropped, duplicates kept).
func (r *Resolver) SavePost(ctx context.Context, slug string, frontmatter models.Frontmatter, body string, author *auth.User) (string, error) {
	safeSlug := strings.TrimSpace(slug)
	if safeSlug == "" {
		return "", xerrors.New(ErrSlugRequired)
	}

	frontmatter.Tags = models.TrimTags(frontmatter.Tags)

	if r.hosted == nil {
		if err := r.files.Upsert(safeSlug, frontmatter, body); err != nil {
			return "", err
		}
		return safeSlug, nil
	}

	update := core.PostUpdate{
		Title:       &frontmatter.Title,
		Content:     &body,
		Summary:     &frontmatter.Summary,
		Image:       &frontmatter.Image,
		Category:    &frontmatter.Category,
		SubCategory: &frontmatter.SubCategory,
		Featured:    &frontmatter.Featured,
	}
	if frontmatter.Status != "" {
		update.Status = &frontmatter.Status
	}
	tags := []string(frontmatter.Tags)
	update.Tags = &tags

	insert := core.PostInsert{
		Slug:        safeSlug,
		Title:       frontmatter.Title,
		Content:     body,
		Summary:     frontmatter.Summary,
		Image:       frontmatter.Image,
		Category:    frontmatter.Category,
		SubCategory: frontmatter.SubCategory,
		Status:      frontmatter.Status,
		Featured:    frontmatter.Featured,
		Tags:        tags,
	}
	if insert.Title == "" {
		insert.Title = safeSlug
	}

	if author != nil {
		authorID := author.Email
		authorName := author.Name
		if authorName == "" {
			authorName = author.Email
		}
		update.AuthorID = &authorID
		update.AuthorName = &authorName
		insert.AuthorID = authorID
		insert.AuthorName = authorName
	}

	err := r.hosted.UpdatePostBySlug(ctx, safeSlug, update)
	if err == nil {
		return safeSlug, nil
	}
	if !errors.Is(err, core.NoRecordFound) {
		return "", err
	}

	if err := r.hosted.InsertPost(ctx, insert); err != nil {
		return "", err
	}
	return safeSlug, nil
}

// DeletePost removes a post from the active store only.
func (r *Resolver) DeletePost(ctx context.Context, slug string) error {
	if r.hosted != nil {
		return r.hosted.DeletePostBySlug(ctx, slug)
	}
	return r.files.Delete(slug)
}

func storedPostContent(post *core.StoredPost) *PostContent {
	return &PostContent{
		Frontmatter: models.Frontmatter{
			Title:       post.Title,
			Date:        post.Date,
			Summary:     post.Summary,
			Image:       post.Image,
			Author:      post.Author,
			Category:    post.Category,
			SubCategory: post.SubCategory,
			Status:      post.Status,
			Featured:    post.Featured,
			Tags:        post.Tags,
		},
		Content: post.Content,
	}
}
