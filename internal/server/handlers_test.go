package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/brief/internal/app"
	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
	"github.com/bobmcallan/brief/internal/models"
)

// fakeStorage is an in-memory StorageManager for handler tests.
type fakeStorage struct {
	briefings   map[string]models.Briefing
	subscribers map[string]*models.Subscriber
	failures    bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		briefings:   map[string]models.Briefing{},
		subscribers: map[string]*models.Subscriber{},
	}
}

func (f *fakeStorage) BriefingStore() interfaces.BriefingStore     { return f }
func (f *fakeStorage) SubscriberStore() interfaces.SubscriberStore { return f }
func (f *fakeStorage) Close() error                                { return nil }

func (f *fakeStorage) GetBriefing(ctx context.Context, date string) (*models.Briefing, error) {
	if f.failures {
		return nil, fmt.Errorf("storage down")
	}
	b, ok := f.briefings[date]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeStorage) SaveBriefing(ctx context.Context, briefing *models.Briefing) error {
	f.briefings[briefing.Date] = *briefing
	return nil
}

func (f *fakeStorage) ListBriefings(ctx context.Context, offset, limit int) ([]models.Briefing, error) {
	if f.failures {
		return nil, fmt.Errorf("storage down")
	}
	var dates []string
	for date := range f.briefings {
		dates = append(dates, date)
	}
	// newest first
	for i := 0; i < len(dates); i++ {
		for j := i + 1; j < len(dates); j++ {
			if dates[j] > dates[i] {
				dates[i], dates[j] = dates[j], dates[i]
			}
		}
	}
	var out []models.Briefing
	for i := offset; i < len(dates) && len(out) < limit; i++ {
		out = append(out, f.briefings[dates[i]])
	}
	return out, nil
}

func (f *fakeStorage) CountBriefings(ctx context.Context) (int, error) {
	if f.failures {
		return 0, fmt.Errorf("storage down")
	}
	return len(f.briefings), nil
}

func (f *fakeStorage) AddSubscriber(ctx context.Context, sub *models.Subscriber) error {
	copied := *sub
	f.subscribers[sub.Email] = &copied
	return nil
}

func (f *fakeStorage) GetSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	sub, ok := f.subscribers[email]
	if !ok {
		return nil, nil
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeStorage) SetSubscriberActive(ctx context.Context, email string, active bool) error {
	if sub, ok := f.subscribers[email]; ok {
		sub.Active = active
	}
	return nil
}

func (f *fakeStorage) ListActiveEmails(ctx context.Context) ([]string, error) {
	var emails []string
	for _, sub := range f.subscribers {
		if sub.Active {
			emails = append(emails, sub.Email)
		}
	}
	return emails, nil
}

type fakePipeline struct {
	html string
	err  error
	runs int
}

func (f *fakePipeline) Run(ctx context.Context) (string, error) {
	f.runs++
	return f.html, f.err
}

func newTestServer(t *testing.T) (*Server, *fakeStorage, *fakePipeline) {
	t.Helper()
	storage := newFakeStorage()
	pipeline := &fakePipeline{html: "<h2>시장</h2>"}
	logger := common.NewSilentLogger()
	srv := &Server{
		app: &app.App{
			Config:          common.NewDefaultConfig(),
			Logger:          logger,
			Storage:         storage,
			BriefingService: pipeline,
		},
		logger: logger,
	}
	return srv, storage, pipeline
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestHandleSubscribe(t *testing.T) {
	srv, storage, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", jsonBody(t, map[string]string{"email": "Reader@Example.com"}))
	rec := httptest.NewRecorder()
	srv.handleSubscribe(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	sub := storage.subscribers["reader@example.com"]
	require.NotNil(t, sub, "subscriber should be stored lowercased")
	assert.True(t, sub.Active)
}

func TestHandleSubscribeDuplicate(t *testing.T) {
	srv, storage, _ := newTestServer(t)
	storage.subscribers["reader@example.com"] = &models.Subscriber{Email: "reader@example.com", Active: true}

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", jsonBody(t, map[string]string{"email": "reader@example.com"}))
	rec := httptest.NewRecorder()
	srv.handleSubscribe(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleSubscribeReactivates(t *testing.T) {
	srv, storage, _ := newTestServer(t)
	storage.subscribers["reader@example.com"] = &models.Subscriber{Email: "reader@example.com", Active: false}

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", jsonBody(t, map[string]string{"email": "reader@example.com"}))
	rec := httptest.NewRecorder()
	srv.handleSubscribe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, storage.subscribers["reader@example.com"].Active)
}

func TestHandleSubscribeInvalidEmail(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for _, email := range []string{"", "not-an-email", "a b@example.com"} {
		req := httptest.NewRequest(http.MethodPost, "/api/subscribe", jsonBody(t, map[string]string{"email": email}))
		rec := httptest.NewRecorder()
		srv.handleSubscribe(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "email %q", email)
	}
}

func TestHandleUnsubscribe(t *testing.T) {
	srv, storage, _ := newTestServer(t)
	storage.subscribers["reader@example.com"] = &models.Subscriber{Email: "reader@example.com", Active: true}

	req := httptest.NewRequest(http.MethodPost, "/api/unsubscribe", jsonBody(t, map[string]string{"email": "reader@example.com"}))
	rec := httptest.NewRecorder()
	srv.handleUnsubscribe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, storage.subscribers["reader@example.com"].Active)
}

func TestHandleUnsubscribeUnknown(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/unsubscribe", jsonBody(t, map[string]string{"email": "ghost@example.com"}))
	rec := httptest.NewRecorder()
	srv.handleUnsubscribe(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleArchiveList(t *testing.T) {
	srv, storage, _ := newTestServer(t)
	for i := 1; i <= 12; i++ {
		date := fmt.Sprintf("2026-08-%02d", i)
		storage.briefings[date] = models.Briefing{Date: date, Title: date + " 브리핑", CreatedAt: time.Now()}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/archive", nil)
	rec := httptest.NewRecorder()
	srv.handleArchiveList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Briefings  []models.Briefing `json:"briefings"`
		Page       int               `json:"page"`
		TotalPages int               `json:"total_pages"`
		Total      int               `json:"total"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 12, resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Briefings, 10)
	assert.Equal(t, "2026-08-12", resp.Briefings[0].Date, "newest first")
}

func TestHandleArchiveListSecondPage(t *testing.T) {
	srv, storage, _ := newTestServer(t)
	for i := 1; i <= 12; i++ {
		date := fmt.Sprintf("2026-08-%02d", i)
		storage.briefings[date] = models.Briefing{Date: date}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/archive?page=2", nil)
	rec := httptest.NewRecorder()
	srv.handleArchiveList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Briefings []models.Briefing `json:"briefings"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Briefings, 2)
	assert.Equal(t, "2026-08-02", resp.Briefings[0].Date)
}

func TestHandleArchiveListBadPage(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/archive?page=0", nil)
	rec := httptest.NewRecorder()
	srv.handleArchiveList(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleArchiveGet(t *testing.T) {
	srv, storage, _ := newTestServer(t)
	storage.briefings["2026-08-28"] = models.Briefing{Date: "2026-08-28", Title: "브리핑", ContentHTML: "<h2>시장</h2>"}

	req := httptest.NewRequest(http.MethodGet, "/api/archive/2026-08-28", nil)
	rec := httptest.NewRecorder()
	srv.handleArchiveGet(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var briefing models.Briefing
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&briefing))
	assert.Equal(t, "<h2>시장</h2>", briefing.ContentHTML)
}

func TestHandleArchiveGetMissing(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/archive/2026-01-01", nil)
	rec := httptest.NewRecorder()
	srv.handleArchiveGet(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleBriefingRun(t *testing.T) {
	srv, _, pipeline := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/briefing/run", nil)
	rec := httptest.NewRecorder()
	srv.handleBriefingRun(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, pipeline.runs)
}

func TestHandleBriefingRunFailure(t *testing.T) {
	srv, _, pipeline := newTestServer(t)
	pipeline.err = fmt.Errorf("backend overloaded")

	req := httptest.NewRequest(http.MethodPost, "/api/briefing/run", nil)
	rec := httptest.NewRecorder()
	srv.handleBriefingRun(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/subscribe", nil)
	rec := httptest.NewRecorder()
	srv.handleSubscribe(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}
