package content

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/mdobak/go-xerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bokjinews/blog/internal/auth"
	"github.com/bokjinews/blog/internal/core"
	"github.com/bokjinews/blog/internal/filestore"
	"github.com/bokjinews/blog/models"
)

// fakeHostedStore stands in for the database layer.
type fakeHostedStore struct {
	posts     map[string]*core.StoredPost
	listErr   error
	getErr    error
	updateErr error

	inserted []core.PostInsert
	updated  map[string]core.PostUpdate
	deleted  []string
}

func newFakeHostedStore() *fakeHostedStore {
	return &fakeHostedStore{
		posts:   map[string]*core.StoredPost{},
		updated: map[string]core.PostUpdate{},
	}
}

func (f *fakeHostedStore) ListPublishedPosts(ctx context.Context) ([]models.Post, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var posts []models.Post
	for _, post := range f.posts {
		if post.Status == models.StatusPublished {
			posts = append(posts, post.Post)
		}
	}
	return posts, nil
}

func (f *fakeHostedStore) GetPostBySlug(ctx context.Context, slug string) (*core.StoredPost, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	post, ok := f.posts[slug]
	if !ok {
		return nil, xerrors.New(core.NoRecordFound)
	}
	return post, nil
}

func (f *fakeHostedStore) InsertPost(ctx context.Context, post core.PostInsert) error {
	f.inserted = append(f.inserted, post)
	return nil
}

func (f *fakeHostedStore) UpdatePostBySlug(ctx context.Context, slug string, update core.PostUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.posts[slug]; !ok {
		return xerrors.New(core.NoRecordFound)
	}
	f.updated[slug] = update
	return nil
}

func (f *fakeHostedStore) DeletePostBySlug(ctx context.Context, slug string) error {
	f.deleted = append(f.deleted, slug)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func newTestResolver(t *testing.T, hosted HostedStore) (*Resolver, *filestore.Store) {
	t.Helper()
	files := filestore.New(t.TempDir(), testLogger())
	return NewResolver(testLogger(), files, hosted), files
}

func TestListPosts(t *testing.T) {
	t.Run("prefers a non-empty hosted result", func(t *testing.T) {
		hosted := newFakeHostedStore()
		hosted.posts["db-post"] = &core.StoredPost{Post: models.Post{Slug: "db-post", Title: "DB", Status: models.StatusPublished}}

		resolver, files := newTestResolver(t, hosted)
		require.NoError(t, files.Upsert("file-post", models.Frontmatter{Title: "File"}, "body"))

		posts, err := resolver.ListPosts(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "db-post", posts[0].Slug)
	})

	t.Run("falls back to files when hosted is empty", func(t *testing.T) {
		resolver, files := newTestResolver(t, newFakeHostedStore())
		require.NoError(t, files.Upsert("file-post", models.Frontmatter{Title: "File"}, "body"))

		posts, err := resolver.ListPosts(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "file-post", posts[0].Slug)
	})

	t.Run("falls back to files when hosted fails", func(t *testing.T) {
		hosted := newFakeHostedStore()
		hosted.listErr = xerrors.New("connection refused")

		resolver, files := newTestResolver(t, hosted)
		require.NoError(t, files.Upsert("file-post", models.Frontmatter{Title: "File"}, "body"))

		posts, err := resolver.ListPosts(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "file-post", posts[0].Slug)
	})

	t.Run("sorts file posts newest first, undated posts keep order", func(t *testing.T) {
		resolver, files := newTestResolver(t, nil)
		require.NoError(t, files.Upsert("old", models.Frontmatter{Title: "Old", Date: "2024-01-01"}, "a"))
		require.NoError(t, files.Upsert("new", models.Frontmatter{Title: "New", Date: "2026-06-01"}, "b"))
		require.NoError(t, files.Upsert("undated", models.Frontmatter{Title: "Undated"}, "c"))

		posts, err := resolver.ListPosts(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, "new", posts[0].Slug)
		assert.Equal(t, "old", posts[1].Slug)
	})

	t.Run("no hosted store and no files yields an empty list", func(t *testing.T) {
		resolver, _ := newTestResolver(t, nil)

		posts, err := resolver.ListPosts(context.Background())
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}

func TestGetPost(t *testing.T) {
	t.Run("hosted wins when both stores hold the slug", func(t *testing.T) {
		hosted := newFakeHostedStore()
		hosted.posts["shared"] = &core.StoredPost{
			Post:    models.Post{Slug: "shared", Title: "DB version"},
			Content: "db body",
		}

		resolver, files := newTestResolver(t, hosted)
		require.NoError(t, files.Upsert("shared", models.Frontmatter{Title: "File version"}, "file body"))

		post, err := resolver.GetPost(context.Background(), "shared")
		require.NoError(t, err)
		assert.Equal(t, "DB version", post.Frontmatter.Title)
		assert.Equal(t, "db body", post.Content)
	})

	t.Run("hosted miss falls back to the file store", func(t *testing.T) {
		resolver, files := newTestResolver(t, newFakeHostedStore())
		require.NoError(t, files.Upsert("only-file", models.Frontmatter{Title: "File"}, "file body"))

		post, err := resolver.GetPost(context.Background(), "only-file")
		require.NoError(t, err)
		assert.Equal(t, "File", post.Frontmatter.Title)
	})

	t.Run("hosted failure falls back to the file store", func(t *testing.T) {
		hosted := newFakeHostedStore()
		hosted.getErr = xerrors.New("connection refused")

		resolver, files := newTestResolver(t, hosted)
		require.NoError(t, files.Upsert("resilient", models.Frontmatter{Title: "File"}, "file body"))

		post, err := resolver.GetPost(context.Background(), "resilient")
		require.NoError(t, err)
		assert.Equal(t, "File", post.Frontmatter.Title)
	})

	t.Run("missing everywhere is ErrPostNotFound", func(t *testing.T) {
		resolver, _ := newTestResolver(t, newFakeHostedStore())

		_, err := resolver.GetPost(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestSavePost(t *testing.T) {
	t.Run("requires a slug", func(t *testing.T) {
		resolver, _ := newTestResolver(t, nil)

		_, err := resolver.SavePost(context.Background(), "  ", models.Frontmatter{}, "body", nil)
		assert.ErrorIs(t, err, ErrSlugRequired)
	})

	t.Run("file mode writes the content file", func(t *testing.T) {
		resolver, _ := newTestResolver(t, nil)

		slug, err := resolver.SavePost(context.Background(), "hello", models.Frontmatter{Title: "Hello"}, "body", nil)
		require.NoError(t, err)
		assert.Equal(t, "hello", slug)

		post, err := resolver.GetPost(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, "Hello", post.Frontmatter.Title)
	})

	t.Run("normalizes tags, preserving duplicates", func(t *testing.T) {
		resolver, _ := newTestResolver(t, nil)

		_, err := resolver.SavePost(context.Background(), "tagged", models.Frontmatter{
			Title: "T",
			Tags:  models.TagList{" a ", "b", "", "b"},
		}, "body", nil)
		require.NoError(t, err)

		post, err := resolver.GetPost(context.Background(), "tagged")
		require.NoError(t, err)
		assert.Equal(t, models.TagList{"a", "b", "b"}, post.Frontmatter.Tags)
	})

	t.Run("hosted mode updates an existing row", func(t *testing.T) {
		hosted := newFakeHostedStore()
		hosted.posts["existing"] = &core.StoredPost{Post: models.Post{Slug: "existing"}}

		resolver, _ := newTestResolver(t, hosted)

		author := &auth.User{Email: "writer@example.com", Name: "작성자"}
		_, err := resolver.SavePost(context.Background(), "existing", models.Frontmatter{Title: "Updated"}, "new body", author)
		require.NoError(t, err)

		update, ok := hosted.updated["existing"]
		require.True(t, ok)
		assert.Equal(t, "Updated", *update.Title)
		assert.Equal(t, "new body", *update.Content)
		assert.Equal(t, "작성자", *update.AuthorName)
		assert.Empty(t, hosted.inserted)
	})

	t.Run("hosted mode inserts when the update finds no row", func(t *testing.T) {
		hosted := newFakeHostedStore()
		resolver, _ := newTestResolver(t, hosted)

		_, err := resolver.SavePost(context.Background(), "brand-new", models.Frontmatter{}, "body", nil)
		require.NoError(t, err)

		require.Len(t, hosted.inserted, 1)
		// The title defaults to the slug when none is supplied.
		assert.Equal(t, "brand-new", hosted.inserted[0].Title)
	})

	t.Run("hosted write failure surfaces without file fallback", func(t *testing.T) {
		hosted := newFakeHostedStore()
		hosted.updateErr = xerrors.New("connection refused")
		resolver, files := newTestResolver(t, hosted)

		_, err := resolver.SavePost(context.Background(), "broken", models.Frontmatter{Title: "T"}, "body", nil)
		require.Error(t, err)
		assert.Empty(t, hosted.inserted)

		_, _, err = files.Get("broken")
		assert.ErrorIs(t, err, filestore.ErrNotFound)
	})
}

func TestDeletePost(t *testing.T) {
	t.Run("hosted mode deletes from the database only", func(t *testing.T) {
		hosted := newFakeHostedStore()
		resolver, files := newTestResolver(t, hosted)
		require.NoError(t, files.Upsert("both", models.Frontmatter{Title: "T"}, "body"))

		require.NoError(t, resolver.DeletePost(context.Background(), "both"))
		assert.Equal(t, []string{"both"}, hosted.deleted)

		// The file copy is untouched: stores are never merged in a call.
		_, _, err := files.Get("both")
		assert.NoError(t, err)
	})

	t.Run("file mode deletes the content file", func(t *testing.T) {
		resolver, files := newTestResolver(t, nil)
		require.NoError(t, files.Upsert("gone", models.Frontmatter{Title: "T"}, "body"))

		require.NoError(t, resolver.DeletePost(context.Background(), "gone"))

		_, _, err := files.Get("gone")
		assert.ErrorIs(t, err, filestore.ErrNotFound)
	})
}
