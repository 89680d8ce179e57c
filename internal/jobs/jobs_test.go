package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
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
	mu   sync.Mutex
	jobs map[string]Job
}

func (m *memoryRepo) Create(ctx context.Context, job Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
	return nil
}

func (m *memoryRepo) Update(ctx context.Context, id string, set bson.M) (Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, mongo.ErrNoDocuments
	}
	raw, _ := bson.Marshal(job)
	doc := bson.M{}
	_ = bson.Unmarshal(raw, &doc)
	for k, v := range set {
		doc[k] = v
	}
	raw, _ = bson.Marshal(doc)
	var updated Job
	if err := bson.Unmarshal(raw, &updated); err != nil {
		return Job{}, err
	}
	m.jobs[id] = updated
	return updated, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jobs[id]
	delete(m.jobs, id)
	return ok, nil
}

func (m *memoryRepo) List(ctx context.Context, activeOnly bool) ([]Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Job, 0)
	for _, j := range m.jobs {
		if activeOnly && !j.IsActive {
			continue
		}
		out = append(out, j)
	}
	sort.SliceStable(out, func(i, k int) bool {
		if out[i].Featured != out[k].Featured {
			return out[i].Featured
		}
		return out[i].Title < out[k].Title
	})
	return out, nil
}

func (m *memoryRepo) Get(ctx context.Context, id string) (Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j, ok := m.jobs[id]; ok {
		return j, nil
	}
	return Job{}, mongo.ErrNoDocuments
}

func setup(t *testing.T) (*chi.Mux, *Service) {
	t.Helper()
	svc := NewService(&memoryRepo{jobs: map[string]Job{}}, seo.Site{Name: "Agency", URL: "https://agency.example"}, time.UTC)
	h := NewHandler(svc, validation.New(), cache.NewMemory(), time.Minute, logging.Discard())
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.Routes(r, func(next http.Handler) http.Handler { return next })
	})
	return r, svc
}

func request(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func newJob(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":        title,
		"city":         "Austin",
		"state":        "tx",
		"type":         "Part Time",
		"category":     "Brand Ambassador",
		"description":  "Represent brands at events.",
		"requirements": []string{"Reliable transport", " "},
		"payRange":     "$20-$25/hr",
	}
}

func TestCreateDefaults(t *testing.T) {
	_, svc := setup(t)
	job, err := svc.Create(context.Background(), UpsertRequest{
		Title: "Promo Model", City: "Dallas", State: "tx", Type: "Event", Category: "Promo", Description: "d",
		Requirements: []string{"a", ""},
	})
	require.NoError(t, err)
	assert.True(t, job.IsActive)
	assert.False(t, job.Featured)
	assert.Equal(t, "TX", job.State)
	assert.Equal(t, "Dallas, TX", job.Location)
	assert.Equal(t, []string{"a"}, job.Requirements)
}

func TestActiveListFeaturedFirstAndCacheInvalidation(t *testing.T) {
	r, _ := setup(t)
	require.Equal(t, http.StatusCreated, request(t, r, http.MethodPost, "/api/jobs", newJob("A Regular")).Code)
	featured := newJob("B Featured")
	featured["featured"] = true
	require.Equal(t, http.StatusCreated, request(t, r, http.MethodPost, "/api/jobs", featured).Code)
	inactive := newJob("C Closed")
	inactive["isActive"] = false
	require.Equal(t, http.StatusCreated, request(t, r, http.MethodPost, "/api/jobs", inactive).Code)

	rec := request(t, r, http.MethodGet, "/api/jobs", nil)
	var body struct {
		Items []Job `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
	assert.Equal(t, "B Featured", body.Items[0].Title)
	assert.Equal(t, "HIT", request(t, r, http.MethodGet, "/api/jobs", nil).Header().Get("X-Cache"))

	require.Equal(t, http.StatusOK, request(t, r, http.MethodDelete, "/api/jobs/"+body.Items[1].ID, nil).Code)
	rec = request(t, r, http.MethodGet, "/api/jobs", nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec = request(t, r, http.MethodGet, "/api/jobs/all", nil)
	assert.Contains(t, rec.Body.String(), `"total":2`)
}

func TestGetIncludesJobPosting(t *testing.T) {
	r, svc := setup(t)
	job, err := svc.Create(context.Background(), UpsertRequest{
		Title: "Street Team", City: "Austin", State: "TX", Type: "Part Time", Category: "Street", Description: "d",
	})
	require.NoError(t, err)

	rec := request(t, r, http.MethodGet, "/api/jobs/"+job.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "JobPosting", view.JSONLD.Type)
	assert.Equal(t, "PART_TIME", view.JSONLD.EmploymentType)

	assert.Equal(t, http.StatusNotFound, request(t, r, http.MethodGet, "/api/jobs/missing", nil).Code)
}

func TestInactiveJobIsNotPublic(t *testing.T) {
	_, svc := setup(t)
	inactive := false
	job, err := svc.Create(context.Background(), UpsertRequest{
		Title: "Old", City: "Austin", State: "TX", Type: "Event", Category: "c", Description: "d", IsActive: &inactive,
	})
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidation(t *testing.T) {
	r, _ := setup(t)
	bad := newJob("Bad State")
	bad["state"] = "Texas"
	rec := request(t, r, http.MethodPost, "/api/jobs", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
