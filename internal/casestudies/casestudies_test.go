package casestudies

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"agency-backend/internal/cache"
	"agency-backend/internal/logging"
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
	items map[string]CaseStudy
	calls int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]CaseStudy{}}
}

func (m *memoryRepo) Create(ctx context.Context, item CaseStudy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.Slug == item.Slug {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		}
	}
	m.items[item.ID] = item
	return nil
}

func (m *memoryRepo) Update(ctx context.Context, id string, set bson.M) (CaseStudy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return CaseStudy{}, mongo.ErrNoDocuments
	}
	raw, err := bson.Marshal(item)
	if err != nil {
		return CaseStudy{}, err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return CaseStudy{}, err
	}
	for k, v := range set {
		doc[k] = v
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return CaseStudy{}, err
	}
	var updated CaseStudy
	if err := bson.Unmarshal(raw, &updated); err != nil {
		return CaseStudy{}, err
	}
	m.items[id] = updated
	return updated, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *memoryRepo) ListPublic(ctx context.Context, filter PublicListFilter) ([]CaseStudy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := make([]CaseStudy, 0)
	for _, it := range m.items {
		if !it.IsPublished {
			continue
		}
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		if filter.Industry != "" && it.Industry != filter.Industry {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.ByDate {
			return out[i].Date > out[j].Date
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out, nil
}

func (m *memoryRepo) GetPublishedBySlug(ctx context.Context, slug string) (CaseStudy, error) {
	return m.GetPublishedByID(ctx, slug)
}

func (m *memoryRepo) GetPublishedByID(ctx context.Context, id string) (CaseStudy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.IsPublished && (it.ID == id || it.Slug == id) {
			return it, nil
		}
	}
	return CaseStudy{}, mongo.ErrNoDocuments
}

func (m *memoryRepo) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]CaseStudy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CaseStudy, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	return out, nil
}

func (m *memoryRepo) CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

func (m *memoryRepo) DistinctPublished(ctx context.Context, field string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	for _, it := range m.items {
		if !it.IsPublished {
			continue
		}
		switch field {
		case "industry":
			seen[it.Industry] = true
		case "services":
			for _, s := range it.Services {
				seen[s] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

func passThrough(next http.Handler) http.Handler { return next }

func newTestRouter(t *testing.T) (*chi.Mux, *memoryRepo, *cache.MemoryCache) {
	t.Helper()
	repo := newMemoryRepo()
	svc := NewService(repo, seo.Site{Name: "Agency", URL: "https://agency.example"}, time.UTC)
	c := cache.NewMemory()
	h := NewHandler(svc, validation.New(), c, time.Minute, logging.Discard())
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) { h.Routes(r, passThrough) })
	return r, repo, c
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func published(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"client":      "Acme",
		"industry":    "Retail",
		"category":    "experiential",
		"services":    []string{"Event Staffing", "Sampling"},
		"date":        "2025-06-01",
		"stats":       map[string]string{"impressions": "1.2M"},
		"isPublished": true,
	}
}

func TestCreateAndFetchBySlug(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/case-studies", published("Summer Launch"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created CaseStudy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "summer-launch", created.Slug)
	assert.Equal(t, "Summer Launch", created.Name)

	rec = do(t, r, http.MethodGet, "/api/case-studies-real/slug/summer-launch", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"@type":"CreativeWork"`)
	assert.Contains(t, rec.Body.String(), `"BreadcrumbList"`)

	rec = do(t, r, http.MethodGet, "/api/case-studies-real/slug/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicateSlugConflicts(t *testing.T) {
	r, _, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/case-studies", published("Same")).Code)
	assert.Equal(t, http.StatusConflict, do(t, r, http.MethodPost, "/api/case-studies", published("Same")).Code)
}

func TestValidationRejectsBadSlug(t *testing.T) {
	r, _, _ := newTestRouter(t)
	body := published("Bad")
	body["slug"] = "Not A Slug"
	rec := do(t, r, http.MethodPost, "/api/case-studies", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "slug")
}

func TestListIsCachedAndInvalidatedOnWrite(t *testing.T) {
	r, repo, c := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/case-studies", published("One")).Code)

	first := do(t, r, http.MethodGet, "/api/case-studies", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := do(t, r, http.MethodGet, "/api/case-studies", nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, c.Len())

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/case-studies", published("Two")).Code)
	assert.Equal(t, 0, c.Len())

	third := do(t, r, http.MethodGet, "/api/case-studies", nil)
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, strings.Count(third.Body.String(), `"slug"`))
}

func TestUnreadParamsShareCacheEntry(t *testing.T) {
	r, _, c := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/case-studies", published("One")).Code)

	var list, enhanced *httptest.ResponseRecorder
	for i := 0; i < 500; i++ {
		list = do(t, r, http.MethodGet, fmt.Sprintf("/api/case-studies?utm=%d", i), nil)
		require.Equal(t, http.StatusOK, list.Code)
		enhanced = do(t, r, http.MethodGet, fmt.Sprintf("/api/case-studies-enhanced?category=experiential&ref=%d", i), nil)
		require.Equal(t, http.StatusOK, enhanced.Code)
	}
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "HIT", list.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", enhanced.Header().Get("X-Cache"))
}

func TestEnhancedListFacets(t *testing.T) {
	r, _, _ := newTestRouter(t)
	a := published("Alpha")
	b := published("Beta")
	b["industry"] = "Automotive"
	b["services"] = []string{"Street Teams"}
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/case-studies", a).Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/case-studies", b).Code)

	rec := do(t, r, http.MethodGet, "/api/case-studies-enhanced", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list EnhancedList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Items, 2)
	assert.Equal(t, []string{"Automotive", "Retail"}, list.Facets.Industries)
	assert.Equal(t, []string{"Event Staffing", "Sampling", "Street Teams"}, list.Facets.Services)
	assert.Equal(t, "", list.Items[0].JSONLD.Context)
}

func TestRealListSortedByDate(t *testing.T) {
	r, _, _ := newTestRouter(t)
	older := published("Older")
	older["date"] = "2023-01-01"
	newer := published("Newer")
	newer["date"] = "2025-01-01"
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/case-studies", older).Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/case-studies", newer).Code)

	rec := do(t, r, http.MethodGet, "/api/case-studies-real", nil)
	var body struct {
		Items []CaseStudy `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
	assert.Equal(t, "newer", body.Items[0].Slug)
}

func TestUpdateAndDelete(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := do(t, r, http.MethodPost, "/api/case-studies", published("Draft"))
	var created CaseStudy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	update := published("Draft")
	update["summary"] = "Now with a summary"
	rec = do(t, r, http.MethodPut, "/api/case-studies/"+created.ID, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated CaseStudy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Now with a summary", updated.Summary)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPut, "/api/case-studies/nope", update).Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodDelete, "/api/case-studies/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/api/case-studies/"+created.ID, nil).Code)
}
