package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-importer/internal/db"
	"github.com/jonathan/resume-importer/internal/ingestion"
	"github.com/jonathan/resume-importer/internal/metrics"
	"github.com/jonathan/resume-importer/internal/parsing"
	"github.com/jonathan/resume-importer/internal/pipeline"
	"github.com/jonathan/resume-importer/internal/server/ratelimit"
	"github.com/jonathan/resume-importer/internal/types"
)

const sampleResume = `Jane Doe
jane@example.com

EXPERIENCE
Acme Corp - Software Intern Jun 2024 - Aug 2024 New York,NY
• Built a billing reconciliation service in Go
• Shipped the onboarding flow redesign

EDUCATION
State University
B.S. Computer Science, May 2025
`

// fakeStore implements Store in memory
type fakeStore struct {
	mu          sync.Mutex
	sources     map[uuid.UUID]*db.Source
	experiences []db.Experience
	education   []db.Education
	skills      []db.SkillGroup
	listErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{sources: map[uuid.UUID]*db.Source{}}
}

func (f *fakeStore) CreateSource(_ context.Context, input *db.SourceCreateInput) (*db.Source, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	src := &db.Source{
		ID:          uuid.New(),
		UserID:      input.UserID,
		MimeType:    input.MimeType,
		RawText:     input.RawText,
		ContentHash: input.ContentHash,
		ParseStatus: db.StatusPending,
		CreatedAt:   time.Now(),
	}
	if input.Filename != "" {
		name := input.Filename
		src.Filename = &name
	}
	f.sources[src.ID] = src
	return src, nil
}

func (f *fakeStore) GetSource(_ context.Context, id uuid.UUID) (*db.Source, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	src, ok := f.sources[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *src
	return &copied, nil
}

func (f *fakeStore) ListSources(_ context.Context, userID uuid.UUID) ([]db.Source, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db.Source{}
	for _, src := range f.sources {
		if src.UserID == userID {
			out = append(out, *src)
		}
	}
	return out, nil
}

func (f *fakeStore) SetSourceStatus(_ context.Context, id uuid.UUID, status, parseError string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	src, ok := f.sources[id]
	if !ok {
		return db.ErrNotFound
	}
	src.ParseStatus = status
	if parseError != "" {
		src.ParseError = &parseError
	}
	return nil
}

func (f *fakeStore) ImportBatch(_ context.Context, userID, sourceID uuid.UUID, batch types.ParsedResumeBatch) (*db.ImportResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range batch.Experiences {
		f.experiences = append(f.experiences, db.Experience{
			ID: uuid.New(), UserID: userID, SourceID: sourceID,
			Organization: e.Organization, RoleTitle: e.RoleTitle,
			Achievements: db.StringArray(e.Achievements),
		})
	}
	for _, e := range batch.Education {
		f.education = append(f.education, db.Education{
			ID: uuid.New(), UserID: userID, SourceID: sourceID, Institution: e.Institution,
		})
	}
	for _, g := range batch.Skills {
		f.skills = append(f.skills, db.SkillGroup{
			ID: uuid.New(), UserID: userID, SourceID: sourceID, Skills: db.StringArray(g.Skills),
		})
	}
	return &db.ImportResult{Inserted: db.Counts{
		Experiences: len(batch.Experiences),
		Education:   len(batch.Education),
		Skills:      len(batch.Skills),
	}}, nil
}

func (f *fakeStore) ListExperiences(_ context.Context, userID uuid.UUID) ([]db.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []db.Experience{}
	for _, e := range f.experiences {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListEducation(_ context.Context, userID uuid.UUID) ([]db.Education, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db.Education{}
	for _, e := range f.education {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListSkillGroups(_ context.Context, userID uuid.UUID) ([]db.SkillGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db.SkillGroup{}
	for _, g := range f.skills {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

type testServer struct {
	*Server
	store *fakeStore
	reg   *prometheus.Registry
}

func newTestServer(t *testing.T, mutate func(*Config)) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	store := newFakeStore()
	parser := parsing.New(nil, parsing.WithMetrics(m))
	importer := pipeline.NewImporter(store, parser, pipeline.WithMetrics(m))

	cfg := Config{
		Port:      0,
		Gatherer:  reg,
		RateLimit: &ratelimit.Config{Enabled: false},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	s := New(cfg, store, parser, importer)
	t.Cleanup(s.Close)
	return &testServer{Server: s, store: store, reg: reg}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(v))
	return buf.String()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do("GET", "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, ts.do("POST", "/parse", jsonBody(t, ParseRequest{Text: sampleResume})).Code)

	rec := ts.do("GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "resume_parse_duration_seconds")
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do("OPTIONS", "/parse", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandleParse(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do("POST", "/parse", jsonBody(t, ParseRequest{Text: sampleResume}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res parsing.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Batch.Experiences, 1)
	assert.Equal(t, "Acme Corp", res.Batch.Experiences[0].Organization)
	require.Len(t, res.Batch.Education, 1)
	assert.Equal(t, parsing.SourceFallback, res.Sources[parsing.CategoryExperiences])
	assert.Empty(t, ts.store.sources, "parse must not store anything")
}

func TestHandleParse_BadRequests(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed JSON", body: `{"text":`},
		{name: "missing text", body: `{}`},
		{name: "blank text", body: `{"text":"   \n  "}`},
		{name: "unknown field", body: `{"text":"x","extra":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do("POST", "/parse", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestHandleParse_BodyTooLarge(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.MaxBodyBytes = 64 })
	rec := ts.do("POST", "/parse", jsonBody(t, ParseRequest{Text: sampleResume}))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleCreateSource(t *testing.T) {
	ts := newTestServer(t, nil)
	userID := uuid.New()

	rec := ts.do("POST", "/users/"+userID.String()+"/sources", jsonBody(t, CreateSourceRequest{
		Text:     sampleResume,
		Filename: "jane.txt",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, db.StatusPending, body["parse_status"])
	assert.Equal(t, ingestion.TypeText, body["mime_type"])
	assert.Equal(t, ingestion.ContentHash(ingestion.CleanText(sampleResume)), body["content_hash"])
	assert.NotContains(t, body, "raw_text")

	rec = ts.do("GET", "/users/"+userID.String()+"/sources", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["count"])
}

func TestHandleCreateSource_HTML(t *testing.T) {
	ts := newTestServer(t, nil)
	userID := uuid.New()

	rec := ts.do("POST", "/users/"+userID.String()+"/sources", jsonBody(t, CreateSourceRequest{
		Text:     "<html><body><h1>Jane Doe</h1><ul><li>Go</li></ul></body></html>",
		MimeType: "text/html",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, src := range ts.store.sources {
		assert.NotContains(t, src.RawText, "<h1>")
		assert.Contains(t, src.RawText, "Jane Doe")
	}
}

func TestHandleCreateSource_ParseImmediately(t *testing.T) {
	ts := newTestServer(t, nil)
	userID := uuid.New()

	rec := ts.do("POST", "/users/"+userID.String()+"/sources", jsonBody(t, CreateSourceRequest{
		Text:  sampleResume,
		Parse: true,
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var outcome pipeline.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, db.StatusParsed, outcome.Source.ParseStatus)
	assert.Equal(t, 1, outcome.Import.Inserted.Experiences)
	assert.Equal(t, 1, outcome.Import.Inserted.Education)

	rec = ts.do("GET", "/users/"+userID.String()+"/experiences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 1, body["count"])
	exps := body["experiences"].([]any)
	assert.Equal(t, "Acme Corp", exps[0].(map[string]any)["organization"])

	rec = ts.do("GET", "/users/"+userID.String()+"/education", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["count"])

	rec = ts.do("GET", "/users/"+userID.String()+"/skills", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode(t, rec)["count"])
}

func TestHandleCreateSource_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	userID := uuid.New().String()

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "invalid user id",
			path:       "/users/not-a-uuid/sources",
			body:       `{"text":"hello"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "pdf not supported",
			path:       "/users/" + userID + "/sources",
			body:       `{"text":"%PDF-1.7","filename":"cv.pdf"}`,
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:       "unknown type",
			path:       "/users/" + userID + "/sources",
			body:       `{"text":"x","mime_type":"image/png"}`,
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:       "blank after cleaning",
			path:       "/users/" + userID + "/sources",
			body:       `{"text":"<html><body><script>x()</script></body></html>","mime_type":"text/html"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do("POST", tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
	assert.Empty(t, ts.store.sources)
}

func TestHandleParseSource(t *testing.T) {
	ts := newTestServer(t, nil)
	userID := uuid.New()
	src, err := ts.store.CreateSource(context.Background(), &db.SourceCreateInput{
		UserID: userID, MimeType: ingestion.TypeText, RawText: sampleResume,
	})
	require.NoError(t, err)

	rec := ts.do("POST", "/sources/"+src.ID.String()+"/parse", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var outcome pipeline.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, 1, outcome.Import.Inserted.Experiences)

	rec = ts.do("GET", "/sources/"+src.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, db.StatusParsed, decode(t, rec)["parse_status"])
}

func TestHandleParseSource_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	busy, err := ts.store.CreateSource(context.Background(), &db.SourceCreateInput{UserID: uuid.New(), RawText: "x"})
	require.NoError(t, err)
	require.NoError(t, ts.store.SetSourceStatus(context.Background(), busy.ID, db.StatusProcessing, ""))

	assert.Equal(t, http.StatusNotFound, ts.do("POST", "/sources/"+uuid.New().String()+"/parse", "").Code)
	assert.Equal(t, http.StatusConflict, ts.do("POST", "/sources/"+busy.ID.String()+"/parse", "").Code)
	assert.Equal(t, http.StatusBadRequest, ts.do("POST", "/sources/nope/parse", "").Code)
	assert.Equal(t, http.StatusNotFound, ts.do("GET", "/sources/"+uuid.New().String(), "").Code)
}

func TestInternalErrorsAreNotEchoed(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.store.listErr = fmt.Errorf("connection refused to 10.0.0.5")

	rec := ts.do("GET", "/users/"+uuid.New().String()+"/experiences", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode(t, rec)["error"])
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, func(c *Config) {
		c.RateLimit = &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  2,
			DefaultWindow: time.Minute,
		}
	})
	path := "/users/" + uuid.New().String() + "/skills"

	for i := 0; i < 2; i++ {
		rec := ts.do("GET", path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := ts.do("GET", path, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode(t, rec)["error"])

	// health stays reachable
	assert.Equal(t, http.StatusOK, ts.do("GET", "/health", "").Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: http.StatusOK},
		{name: "validation", err: &ErrValidation{Field: "text", Message: "must not be blank"}, expected: http.StatusBadRequest},
		{name: "unsupported type", err: &ingestion.UnsupportedTypeError{Filename: "a.pdf"}, expected: http.StatusUnsupportedMediaType},
		{name: "not found", err: db.ErrNotFound, expected: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("get source: %w", db.ErrNotFound), expected: http.StatusNotFound},
		{name: "busy", err: pipeline.ErrSourceBusy, expected: http.StatusConflict},
		{name: "too large", err: &http.MaxBytesError{Limit: 10}, expected: http.StatusRequestEntityTooLarge},
		{name: "other", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "text", Message: "must not be blank"}
	assert.Equal(t, "validation error: text - must not be blank", err.Error())
}
