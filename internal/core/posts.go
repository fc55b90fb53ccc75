package core

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"

	"github.com/bokjinews/blog/internal/utils/databaseutils"
	"github.com/bokjinews/blog/models"
)

// StoredPost is a post row including its body, as fetched by slug.
type StoredPost struct {
	models.Post
	Content string
}

// PostInsert carries the full column set for a new post row.
type PostInsert struct {
	Slug        string
	Title       string
	Content     string
	Summary     string
	Image       string
	AuthorID    string
	AuthorName  string
	Category    string
	SubCategory string
	Status      string
	Featured    bool
	Tags        []string
}

// PostUpdate is a partial update: only non-nil fields are written.
type PostUpdate struct {
	Title       *string
	Content     *string
	Summary     *string
	Image       *string
	AuthorID    *string
	AuthorName  *string
	Category    *string
	SubCategory *string
	Status      *string
	Featured    *bool
	Tags        *[]string
}

// ListPublishedPosts returns published posts newest first, mapped to the
// normalized post shape.
func (c *Core) ListPublishedPosts(ctx context.Context) ([]models.Post, error) {
	const selectSQL = `
		SELECT slug, title, summary, image, author_id, author_name, category, sub_category, status, featured, tags, published_at
		FROM posts
		WHERE status = 'published'
		ORDER BY published_at DESC
	`

	posts, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, selectSQL, scanPost)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if posts == nil {
		posts = []models.Post{}
	}

	return posts, nil
}

// GetPostBySlug fetches one row by slug regardless of status.
func (c *Core) GetPostBySlug(ctx context.Context, slug string) (*StoredPost, error) {
	const selectSQL = `
		SELECT slug, title, content, summary, image, author_id, author_name, category, sub_category, status, featured, tags, published_at
		FROM posts
		WHERE slug = $1
	`

	post, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, selectSQL, scanStoredPost, slug)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return post, nil
}

// InsertPost creates a new row. Status defaults to published, and the
// publication timestamp is stamped when the row is published.
func (c *Core) InsertPost(ctx context.Context, post PostInsert) error {
	if post.Slug == "" || post.Title == "" {
		return xerrors.New("slug and title are required")
	}

	status := post.Status
	if status == "" {
		status = models.StatusPublished
	}

	var publishedAt *time.Time
	if status == models.StatusPublished {
		now := time.Now()
		publishedAt = &now
	}

	const insertSQL = `
		INSERT INTO posts (slug, title, content, summary, image, author_id, author_name, category, sub_category, status, featured, tags, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	now := time.Now()
	_, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, insertSQL,
		post.Slug, post.Title, post.Content, post.Summary, post.Image,
		post.AuthorID, post.AuthorName, post.Category, post.SubCategory,
		status, post.Featured, pq.Array(post.Tags), publishedAt, now, now,
	)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), `duplicate key value violates unique constraint`):
			return xerrors.New(ErrDuplicateSlug)
		default:
			return xerrors.New(err)
		}
	}

	return nil
}

// UpdatePostBySlug applies a partial update to an existing row. A status
// transition to published re-stamps the publication timestamp. Returns
// NoRecordFound when no row matches the slug.
func (c *Core) UpdatePostBySlug(ctx context.Context, slug string, update PostUpdate) error {
	query, args, err := buildUpdatePost(slug, update, time.Now())
	if err != nil {
		return xerrors.New(err)
	}

	affected, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, query, args...)
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(NoRecordFound)
	}

	return nil
}

func (c *Core) DeletePostBySlug(ctx context.Context, slug string) error {
	const deleteSQL = `
		DELETE FROM posts WHERE slug = $1
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, deleteSQL, slug); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func buildUpdatePost(slug string, update PostUpdate, now time.Time) (string, []any, error) {
	builder := sq.Update("posts").PlaceholderFormat(sq.Dollar)

	if update.Title != nil {
		builder = builder.Set("title", *update.Title)
	}
	if update.Content != nil {
		builder = builder.Set("content", *update.Content)
	}
	if update.Summary != nil {
		builder = builder.Set("summary", *update.Summary)
	}
	if update.Image != nil {
		builder = builder.Set("image", *update.Image)
	}
	if update.AuthorID != nil {
		builder = builder.Set("author_id", *update.AuthorID)
	}
	if update.AuthorName != nil {
		builder = builder.Set("author_name", *update.AuthorName)
	}
	if update.Category != nil {
		builder = builder.Set("category", *update.Category)
	}
	if update.SubCategory != nil {
		builder = builder.Set("sub_category", *update.SubCategory)
	}
	if update.Status != nil {
		builder = builder.Set("status", *update.Status)
		if *update.Status == models.StatusPublished {
			builder = builder.Set("published_at", now)
		}
	}
	if update.Featured != nil {
		builder = builder.Set("featured", *update.Featured)
	}
	if update.Tags != nil {
		builder = builder.Set("tags", pq.Array(*update.Tags))
	}

	builder = builder.Set("updated_at", now).Where(sq.Eq{"slug": slug})

	return builder.ToSql()
}

func scanPost(rows *sql.Rows) (models.Post, error) {
	var post models.Post
	var summary, image, authorID, authorName, category, subCategory, status sql.NullString
	var featured sql.NullBool
	var tags pq.StringArray
	var publishedAt sql.NullTime

	if err := rows.Scan(
		&post.Slug,
		&post.Title,
		&summary,
		&image,
		&authorID,
		&authorName,
		&category,
		&subCategory,
		&status,
		&featured,
		&tags,
		&publishedAt,
	); err != nil {
		return models.Post{}, xerrors.New(err)
	}

	fillPost(&post, summary, image, authorID, authorName, category, subCategory, status, featured, tags, publishedAt)
	return post, nil
}

func scanStoredPost(rows *sql.Rows) (*StoredPost, error) {
	var post StoredPost
	var summary, image, authorID, authorName, category, subCategory, status sql.NullString
	var featured sql.NullBool
	var tags pq.StringArray
	var publishedAt sql.NullTime

	if err := rows.Scan(
		&post.Slug,
		&post.Title,
		&post.Content,
		&summary,
		&image,
		&authorID,
		&authorName,
		&category,
		&subCategory,
		&status,
		&featured,
		&tags,
		&publishedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}

	fillPost(&post.Post, summary, image, authorID, authorName, category, subCategory, status, featured, tags, publishedAt)
	return &post, nil
}

// fillPost maps nullable row columns onto the normalized shape. The
// author falls back from display name to account id.
func fillPost(post *models.Post, summary, image, authorID, authorName, category, subCategory, status sql.NullString, featured sql.NullBool, tags pq.StringArray, publishedAt sql.NullTime) {
	post.Summary = summary.String
	post.Image = image.String
	post.Author = authorName.String
	if post.Author == "" {
		post.Author = authorID.String
	}
	post.Category = category.String
	post.SubCategory = subCategory.String
	post.Status = status.String
	post.Featured = featured.Bool
	if len(tags) > 0 {
		post.Tags = models.TagList(tags)
	}
	if publishedAt.Valid {
		post.Date = publishedAt.Time.Format("2006-01-02")
	}
}
