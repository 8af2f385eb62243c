package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/edunaija/teachershub/internal/scheduler"
	"github.com/edunaija/teachershub/internal/storage"
)

type fakeSessions struct {
	mu   sync.Mutex
	next int
	m    map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{m: map[string]string{}}
}

func (f *fakeSessions) CreateSession(_ context.Context, kind string, id uint) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	token := fmt.Sprintf("tok-%d", f.next)
	f.m[token] = fmt.Sprintf("%s:%d", kind, id)
	return token, nil
}

func (f *fakeSessions) GetSession(_ context.Context, token string) (string, uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, okTok := f.m[token]
	if !okTok {
		return "", 0, storage.ErrSessionNotFound
	}
	kind, idStr, _ := strings.Cut(v, ":")
	var id uint
	_, _ = fmt.Sscanf(idStr, "%d", &id)
	return kind, id, nil
}

func (f *fakeSessions) DeleteSession(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, token)
	return nil
}

type fakeTrigger struct {
	report *scheduler.Report
	err    error
}

func (f *fakeTrigger) TriggerNow() (*scheduler.Report, error) {
	return f.report, f.err
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	s := &storage.Store{DB: db}
	require.NoError(t, s.AutoMigrate())
	return s
}

func newTestServer(t *testing.T, trigger CycleTrigger) (*gin.Engine, *storage.Store, *fakeSessions) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := newTestStore(t)
	sessions := newFakeSessions()
	srv := NewServer(store, sessions, trigger, nil, nil, "http://localhost:9000")
	r := gin.New()
	srv.RegisterRoutes(r)
	return r, store, sessions
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Data
}

func TestRegisterLoginProfile(t *testing.T) {
	r, _, _ := newTestServer(t, nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "amina",
		"email":    "amina@example.ng",
		"password": "correct-horse",
		"fullName": "Amina Bello",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	token, _ := dataField(t, w)["token"].(string)
	require.NotEmpty(t, token)

	w = doJSON(t, r, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"login":    "amina@example.ng",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"login":    "amina",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	r, _, _ := newTestServer(t, nil)

	body := gin.H{"username": "tunde", "email": "tunde@example.ng", "password": "longenough"}
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", body).Code)
	require.Equal(t, http.StatusConflict, doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", body).Code)
}

func TestAdminSessionCannotUseUserRoutes(t *testing.T) {
	r, store, sessions := newTestServer(t, nil)

	_, err := store.EnsureAdmin("admin", "admin@example.ng", "adminpass")
	require.NoError(t, err)
	adminToken, err := sessions.CreateSession(nil, storage.SessionAdmin, 1)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/v1/profile", adminToken, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestManualFetchReturnsReport(t *testing.T) {
	trigger := &fakeTrigger{report: &scheduler.Report{
		Source:   "apnews",
		Fetched:  12,
		Kept:     3,
		Inserted: 2,
	}}
	trigger.report.Duplicates = 1

	r, _, sessions := newTestServer(t, trigger)
	adminToken, _ := sessions.CreateSession(nil, storage.SessionAdmin, 1)

	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/news/fetch", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	require.EqualValues(t, 12, data["fetched"])
	require.EqualValues(t, 2, data["inserted"])
	require.EqualValues(t, 1, data["duplicates"])
}

func TestManualFetchWhileCycleRunning(t *testing.T) {
	trigger := &fakeTrigger{err: scheduler.ErrCycleInProgress}
	r, _, sessions := newTestServer(t, trigger)
	adminToken, _ := sessions.CreateSession(nil, storage.SessionAdmin, 1)

	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/news/fetch", adminToken, nil)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestManualFetchSurfacesFailure(t *testing.T) {
	trigger := &fakeTrigger{
		report: &scheduler.Report{Source: "apnews", Error: "news source unreachable"},
		err:    errors.New("news source unreachable"),
	}
	r, _, sessions := newTestServer(t, trigger)
	adminToken, _ := sessions.CreateSession(nil, storage.SessionAdmin, 1)

	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/news/fetch", adminToken, nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Contains(t, w.Body.String(), "news source unreachable")
}

func TestManualFetchRequiresAdmin(t *testing.T) {
	r, _, sessions := newTestServer(t, &fakeTrigger{})
	userToken, _ := sessions.CreateSession(nil, storage.SessionUser, 1)

	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/news/fetch", userToken, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBlogOwnership(t *testing.T) {
	r, store, sessions := newTestServer(t, nil)

	author, err := store.CreateUser("author", "author@example.ng", "longenough", "")
	require.NoError(t, err)
	other, err := store.CreateUser("other", "other@example.ng", "longenough", "")
	require.NoError(t, err)
	authorToken, _ := sessions.CreateSession(nil, storage.SessionUser, author.ID)
	otherToken, _ := sessions.CreateSession(nil, storage.SessionUser, other.ID)

	w := doJSON(t, r, http.MethodPost, "/api/v1/blog", authorToken, gin.H{
		"title":   "Classroom management tips",
		"content": "Start the term with clear routines.",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := dataField(t, w)["id"].(float64)
	path := fmt.Sprintf("/api/v1/blog/%d", int(postID))

	w = doJSON(t, r, http.MethodPut, path, otherToken, gin.H{
		"title":   "Hijacked",
		"content": "x",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, path+"/comments", otherToken, gin.H{"content": "Very helpful"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, path+"/like", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, dataField(t, w)["liked"])

	w = doJSON(t, r, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := dataField(t, w)
	require.EqualValues(t, 1, detail["likes"])
}

func TestAdvertModerationFlow(t *testing.T) {
	r, store, sessions := newTestServer(t, nil)

	u, err := store.CreateUser("advertiser", "ads@example.ng", "longenough", "")
	require.NoError(t, err)
	userToken, _ := sessions.CreateSession(nil, storage.SessionUser, u.ID)
	adminToken, _ := sessions.CreateSession(nil, storage.SessionAdmin, 1)

	w := doJSON(t, r, http.MethodPost, "/api/v1/adverts", userToken, gin.H{
		"title": "Lesson plan templates",
		"weeks": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	require.EqualValues(t, 1000, data["amount"]) // 2 weeks at the default rate
	advertID := int(data["id"].(float64))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/admin/adverts/%d/approve", advertID), adminToken, gin.H{"notes": "looks fine"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, storage.AdvertStatusApproved, dataField(t, w)["status"])

	// Approved but unpaid adverts are not shown to visitors.
	w = doJSON(t, r, http.MethodGet, "/api/v1/adverts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "Lesson plan templates")

	_, err = store.MarkAdvertPaid(uint(advertID))
	require.NoError(t, err)

	w = doJSON(t, r, http.MethodGet, "/api/v1/adverts", "", nil)
	require.Contains(t, w.Body.String(), "Lesson plan templates")

	w = doJSON(t, r, http.MethodGet, "/api/v1/my/adverts", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPricingUpdateRequiresAdmin(t *testing.T) {
	r, store, sessions := newTestServer(t, nil)
	require.NoError(t, store.EnsureAdvertPricing())

	adminToken, _ := sessions.CreateSession(nil, storage.SessionAdmin, 1)

	w := doJSON(t, r, http.MethodPut, "/api/v1/admin/advert-pricing", adminToken, gin.H{"weeklyAmount": 750.0})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/admin/advert-pricing", adminToken, nil)
	require.EqualValues(t, 750, dataField(t, w)["weeklyAmount"])

	w = doJSON(t, r, http.MethodPut, "/api/v1/admin/advert-pricing", "", gin.H{"weeklyAmount": 1.0})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTeacherOfMonthLifecycle(t *testing.T) {
	r, _, sessions := newTestServer(t, nil)
	adminToken, _ := sessions.CreateSession(nil, storage.SessionAdmin, 1)

	// Nothing featured yet.
	w := doJSON(t, r, http.MethodGet, "/api/v1/teacher-of-the-month", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/admin/teacher-of-the-month", adminToken, gin.H{
		"teacherName": "Mrs. Adeyemi",
		"schoolName":  "Government College Lagos",
		"monthYear":   "2026-08",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := int(dataField(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/admin/teacher-of-the-month/%d/activate", id), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/teacher-of-the-month", "", nil)
	require.Contains(t, w.Body.String(), "Mrs. Adeyemi")
}
