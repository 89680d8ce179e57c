package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"agency-backend/internal/cache"
	"agency-backend/internal/logging"
	"agency-backend/internal/markdown"
	"agency-backend/internal/seo"
	"agency-backend/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type memoryRepo struct {
	mu    sync.Mutex
	posts map[string]Post
}

func newMemoryRepo() *memoryRepo { return &memoryRepo{posts: map[string]Post{}} }

func (m *memoryRepo) Create(ctx context.Context, post Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == post.Slug {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		}
	}
	m.posts[post.ID] = post
	return nil
}

func (m *memoryRepo) Update(ctx context.Context, id string, set bson.M) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return Post{}, mongo.ErrNoDocuments
	}
	raw, _ := bson.Marshal(post)
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return Post{}, err
	}
	for k, v := range set {
		doc[k] = v
	}
	raw, _ = bson.Marshal(doc)
	var updated Post
	if err := bson.Unmarshal(raw, &updated); err != nil {
		return Post{}, err
	}
	m.posts[id] = updated
	return updated, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.posts[id]
	delete(m.posts, id)
	return ok, nil
}

func (m *memoryRepo) filtered(filter ListFilter) []Post {
	out := make([]Post, 0)
	for _, p := range m.posts {
		if !filter.IncludeDrafts && !p.IsPublished {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Tag != "" && !contains(p.Tags, filter.Tag) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func (m *memoryRepo) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.filtered(filter)
	if offset >= int64(len(out)) {
		return []Post{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.filtered(filter))), nil
}

func (m *memoryRepo) Find(ctx context.Context, idOrSlug string, publishedOnly bool) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if (p.ID == idOrSlug || p.Slug == idOrSlug) && (p.IsPublished || !publishedOnly) {
			return p, nil
		}
	}
	return Post{}, mongo.ErrNoDocuments
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

var testSite = seo.Site{Name: "Agency", URL: "https://agency.example"}

func newTestRouter(t *testing.T) (*chi.Mux, *Service, *cache.MemoryCache) {
	t.Helper()
	svc := NewService(newMemoryRepo(), testSite, time.UTC)
	c := cache.NewMemory()
	h := NewHandler(svc, validation.New(), c, time.Minute, logging.Discard())
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.Routes(r, func(next http.Handler) http.Handler { return next })
	})
	return r, svc, c
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func boolPtr(b bool) *bool { return &b }

func TestCreateDefaultsExcerptAndReadTime(t *testing.T) {
	svc := NewService(newMemoryRepo(), testSite, time.UTC)
	content := "# Title\n## Intro\n" + strings.Repeat("Local marketing works when it is measured. ", 20) + "\n\n- one"

	post, err := svc.Create(context.Background(), UpsertRequest{
		Title:    "Measured Local Marketing",
		Content:  content,
		Author:   "Dana",
		Category: "strategy",
		Tags:     []string{" seo ", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "measured-local-marketing", post.Slug)
	assert.Equal(t, []string{"seo"}, post.Tags)
	assert.Equal(t, markdown.ReadTime(content), post.ReadTime)
	assert.True(t, strings.HasPrefix(post.Excerpt, "Local marketing works"))
	assert.LessOrEqual(t, len([]rune(post.Excerpt)), excerptLength)
	assert.False(t, post.IsPublished)
	assert.NotEmpty(t, post.Date)
}

func TestViewRendersBlocksAndJSONLD(t *testing.T) {
	svc := NewService(newMemoryRepo(), testSite, time.UTC)
	post, err := svc.Create(context.Background(), UpsertRequest{
		Title:       "Why It Works",
		Content:     "## Why it works\nThis **really** helps.\n\n- Point one\n- Point two\n",
		Author:      "Dana",
		Category:    "strategy",
		Date:        "2026-02-01",
		IsPublished: boolPtr(true),
	})
	require.NoError(t, err)

	view, err := svc.View(context.Background(), post.Slug)
	require.NoError(t, err)
	require.Len(t, view.Blocks, 3)
	assert.Equal(t, "This <strong>really</strong> helps.", view.Blocks[1].Text)
	assert.Contains(t, view.HTML, "<h2>Why it works</h2>")
	require.Len(t, view.JSONLD.Graph, 2)
	posting := view.JSONLD.Graph[0].(seo.Article)
	assert.Equal(t, "https://agency.example/blog/why-it-works", posting.URL)
	assert.Equal(t, "2026-02-01T00:00:00Z", posting.DatePublished)

	_, err = svc.View(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDraftsAreHiddenFromPublicRoutes(t *testing.T) {
	r, svc, _ := newTestRouter(t)
	draft, err := svc.Create(context.Background(), UpsertRequest{Title: "Draft", Content: "x", Author: "a", Category: "c"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/blog/"+draft.ID, nil).Code)
	rec := do(t, r, http.MethodGet, "/api/blog", nil)
	assert.Contains(t, rec.Body.String(), `"total":0`)

	rec = do(t, r, http.MethodGet, "/api/admin/blog", nil)
	assert.Contains(t, rec.Body.String(), `"total":1`)
}

func TestPostCacheInvalidatedByUpdate(t *testing.T) {
	r, _, c := newTestRouter(t)
	body := map[string]interface{}{
		"title": "Cached", "content": "first version", "author": "a", "category": "c", "isPublished": true,
	}
	rec := do(t, r, http.MethodPost, "/api/blog", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	assert.Equal(t, "MISS", do(t, r, http.MethodGet, "/api/blog/cached", nil).Header().Get("X-Cache"))
	assert.Equal(t, "MISS", do(t, r, http.MethodGet, "/api/blog?tag=x", nil).Header().Get("X-Cache"))
	hit := do(t, r, http.MethodGet, "/api/blog/cached", nil)
	assert.Equal(t, "HIT", hit.Header().Get("X-Cache"))
	assert.Equal(t, 2, c.Len())

	body["content"] = "second version"
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPut, "/api/blog/"+created.ID, body).Code)
	assert.Equal(t, 0, c.Len())

	rec = do(t, r, http.MethodGet, "/api/blog/cached", nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "second version")
}

func TestCreateValidation(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := do(t, r, http.MethodPost, "/api/blog", map[string]interface{}{"title": "No body"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/blog", map[string]interface{}{
		"title": "T", "content": "c", "author": "a", "category": "c", "slug": "Bad Slug",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/blog", map[string]interface{}{"title": "T", "unknown": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid json")
}

func TestListFiltersByTagAndPaginates(t *testing.T) {
	svc := NewService(newMemoryRepo(), testSite, time.UTC)
	ctx := context.Background()
	for i, tag := range []string{"seo", "seo", "events"} {
		_, err := svc.Create(ctx, UpsertRequest{
			Title: "Post " + string(rune('A'+i)), Content: "c", Author: "a", Category: "c",
			Tags: []string{tag}, Date: "2026-01-0" + string(rune('1'+i)), IsPublished: boolPtr(true),
		})
		require.NoError(t, err)
	}

	posts, total, err := svc.List(ctx, ListFilter{Tag: "seo"}, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "post-b", posts[0].Slug)

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "post-c", latest.Slug)
}
