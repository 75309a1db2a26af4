package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/handler"
	"github.com/TanuSree02/prodex/internal/httpserver"
	"github.com/TanuSree02/prodex/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSyncService struct {
	user       model.User
	userErr    error
	snapshot   model.Snapshot
	taskErr    error
	fullErr    error
	warnings   []string
	lastTasks  []model.TaskPayload
	lastFull   *model.SyncRequest
	taskResult []model.TaskPayload
}

func (f *fakeSyncService) EnsureUser(ctx context.Context) (*model.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	u := f.user
	if u.ID == "" {
		u.ID = "u1"
	}
	return &u, nil
}

func (f *fakeSyncService) Snapshot(ctx context.Context, userID string) (*model.Snapshot, error) {
	snap := f.snapshot
	return &snap, nil
}

func (f *fakeSyncService) SyncTasks(ctx context.Context, userID string, tasks []model.TaskPayload) ([]model.TaskPayload, error) {
	if f.taskErr != nil {
		return nil, f.taskErr
	}
	f.lastTasks = tasks
	if f.taskResult != nil {
		return f.taskResult, nil
	}
	return tasks, nil
}

func (f *fakeSyncService) FullSync(ctx context.Context, userID string, payload model.SyncRequest) (*model.Snapshot, []string, error) {
	if f.fullErr != nil {
		return nil, nil, f.fullErr
	}
	f.lastFull = &payload
	warnings := f.warnings
	if warnings == nil {
		warnings = []string{}
	}
	snap := f.snapshot
	return &snap, warnings, nil
}

type fakeResources struct {
	cards   []model.ResourceCategoryCard
	bySlug  map[string]*model.CategoryResources
	listErr error
}

func (f *fakeResources) ListCategories(ctx context.Context) ([]model.ResourceCategoryCard, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.cards, nil
}

func (f *fakeResources) GetBySlug(ctx context.Context, slug string) (*model.CategoryResources, error) {
	if r, ok := f.bySlug[slug]; ok {
		return r, nil
	}
	return nil, pgx.ErrNoRows
}

func newTestRouter(svc *fakeSyncService, res *fakeResources) *gin.Engine {
	log := zap.NewNop()
	return httpserver.NewRouter(httpserver.Handlers{
		Data:     handler.NewDataHandler(svc, log),
		Sync:     handler.NewSyncHandler(svc, log),
		Resource: handler.NewResourceHandler(res, log),
		Auth:     handler.NewAuthHandler(svc, "test-secret", log),
	}, log, nil)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(&fakeSyncService{}, &fakeResources{})

	w := doJSON(t, r, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"message":"Prodex backend running"}`, w.Body.String())
}

func TestReadyzWithoutDB(t *testing.T) {
	r := newTestRouter(&fakeSyncService{}, &fakeResources{})

	w := doJSON(t, r, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
}

func TestGetData(t *testing.T) {
	svc := &fakeSyncService{snapshot: model.Snapshot{
		Tasks:    []model.TaskPayload{{ID: "t1", Title: "one"}},
		Settings: model.DefaultSettings(),
	}}
	r := newTestRouter(svc, &fakeResources{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/data", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Tasks, 1)
	assert.Equal(t, "t1", resp.Data.Tasks[0].ID)
}

func TestGetDataUserFailure(t *testing.T) {
	svc := &fakeSyncService{userErr: errors.New("db down")}
	r := newTestRouter(svc, &fakeResources{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/data", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch data"}`, w.Body.String())
}

func TestTasksSyncRejectsNonArray(t *testing.T) {
	r := newTestRouter(&fakeSyncService{}, &fakeResources{})

	for _, body := range []string{
		`{"tasks":"not-an-array"}`,
		`{"tasks":null}`,
		`{}`,
		`not json`,
	} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/tasks/sync", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.JSONEq(t, `{"error":"Invalid task payload"}`, w.Body.String())
	}
}

func TestTasksSyncAcceptsEmptyArray(t *testing.T) {
	svc := &fakeSyncService{}
	r := newTestRouter(svc, &fakeResources{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks/sync", `{"tasks":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, svc.lastTasks)
}

func TestTasksSyncReturnsRefreshedTasks(t *testing.T) {
	svc := &fakeSyncService{taskResult: []model.TaskPayload{
		{ID: "t1", Title: "stored", Status: "todo"},
	}}
	r := newTestRouter(svc, &fakeResources{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks/sync",
		`{"tasks":[{"id":"t1","title":"pushed","status":"todo"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.TasksSyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Tasks, 1)
	assert.Equal(t, "stored", resp.Data.Tasks[0].Title)
}

func TestTasksSyncFailureIncludesDetails(t *testing.T) {
	svc := &fakeSyncService{taskErr: errors.New("deadlock detected")}
	r := newTestRouter(svc, &fakeResources{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks/sync", `{"tasks":[]}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to sync tasks","details":"deadlock detected"}`, w.Body.String())
}

func TestFullSyncRejectsMissingSettings(t *testing.T) {
	r := newTestRouter(&fakeSyncService{}, &fakeResources{})

	for _, body := range []string{
		`{"goals":[]}`,
		`{"settings":null}`,
		`not json`,
	} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/sync", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.JSONEq(t, `{"error":"Invalid payload"}`, w.Body.String())
	}
}

func TestFullSyncReturnsDataAndWarnings(t *testing.T) {
	svc := &fakeSyncService{
		snapshot: model.Snapshot{Settings: model.DefaultSettings()},
		warnings: []string{"goals"},
	}
	r := newTestRouter(svc, &fakeResources{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/sync",
		`{"goals":[{"id":"g1"}],"settings":{"timezone":"UTC","weeklyCapacity":40}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data     model.Snapshot `json:"data"`
		Warnings []string       `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"goals"}, resp.Warnings)

	require.NotNil(t, svc.lastFull)
	assert.Nil(t, svc.lastFull.Tasks, "missing tasks key must stay nil")
	require.NotNil(t, svc.lastFull.Settings)
	assert.Equal(t, float64(40), svc.lastFull.Settings.WeeklyCapacity)
}

func TestFullSyncEmptyWarningsMarshalsAsArray(t *testing.T) {
	svc := &fakeSyncService{snapshot: model.Snapshot{Settings: model.DefaultSettings()}}
	r := newTestRouter(svc, &fakeResources{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/sync",
		`{"settings":{"timezone":"UTC","weeklyCapacity":40}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"warnings":[]`)
}

func TestListResourceCategories(t *testing.T) {
	res := &fakeResources{cards: []model.ResourceCategoryCard{
		{ID: "c1", Name: "Interview Prep", Slug: "interview-prep", ResourceCount: 3},
	}}
	r := newTestRouter(&fakeSyncService{}, res)

	w := doJSON(t, r, http.MethodGet, "/api/v1/resources/categories", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.ResourceCategoryCard `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "interview-prep", resp.Data[0].Slug)
}

func TestGetResourcesBySlug(t *testing.T) {
	res := &fakeResources{bySlug: map[string]*model.CategoryResources{
		"interview-prep": {
			Category:  model.ResourceCategory{ID: "c1", Slug: "interview-prep"},
			Resources: []model.ResourcePayload{{ID: "r1", Title: "Mock interviews"}},
		},
	}}
	r := newTestRouter(&fakeSyncService{}, res)

	// slugs are normalized before lookup
	w := doJSON(t, r, http.MethodGet, "/api/v1/resources/categories/Interview-Prep", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.CategoryResources `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Resources, 1)
}

func TestGetResourcesUnknownSlug(t *testing.T) {
	r := newTestRouter(&fakeSyncService{}, &fakeResources{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/resources/categories/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Category not found"}`, w.Body.String())
}

func TestLoginIssuesToken(t *testing.T) {
	svc := &fakeSyncService{user: model.User{
		ID:       "u1",
		Email:    "demo@prodex.io",
		FullName: "Demo User",
	}}
	r := newTestRouter(svc, &fakeResources{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login",
		`{"email":"demo@prodex.io","password":"anything"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, "demo@prodex.io", resp.Data.User.Email)
}
