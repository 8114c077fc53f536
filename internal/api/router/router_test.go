package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"course-planner/internal/api/handlers"
	domain "course-planner/internal/domain/projection"
	"course-planner/internal/infrastructure/database"
	"course-planner/internal/infrastructure/repository"
	"course-planner/internal/infrastructure/upstream"
	interfaces "course-planner/internal/interfaces/infrastructure"
	"course-planner/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const adminKey = "admin-secret"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func newTestRouter(t *testing.T, gateway interfaces.UpstreamGateway) *gin.Engine {
	t.Helper()

	db, err := database.NewConnection(database.Config{Driver: "sqlite", DBName: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.SavedProjection{},
		&domain.SavedProjectionItem{},
		&domain.OfferedSectionRecord{},
		&domain.CurriculumBackup{},
		&domain.HistoryBackup{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	demandRepo, err := repository.NewDemandRepository(db)
	if err != nil {
		t.Fatalf("Failed to create demand repository: %v", err)
	}
	offerRepo := repository.NewOfferRepository(db)
	backupRepo := repository.NewBackupRepository(db)
	idempotency := service.NewIdempotencyService(repository.NewRedisIdempotencyRepository(client, 0), 0)

	return NewRouter(Dependencies{
		ProjectionService: service.NewProjectionService(gateway, repository.NewProjectionRepository(db), demandRepo, offerRepo, idempotency, 22, 5),
		OfferService:      service.NewOfferService(offerRepo),
		BackupService:     service.NewBackupService(backupRepo, gateway, nil),
		Gateway:           gateway,
		AdminKey:          adminKey,
		Version:           "test",
		HealthChecks: map[string]handlers.Pinger{
			"database": func(ctx context.Context) error { return database.HealthCheck(db) },
		},
	})
}

func stubGateway() interfaces.UpstreamGateway {
	return upstream.NewGateway(upstream.Config{UseStubs: true}, nil, nil)
}

func do(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

var generateBody = map[string]any{
	"student_id":  "11188222333",
	"career_code": "8606",
	"catalog":     "201610",
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, stubGateway())

	w, _ := do(t, r, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w, _ = do(t, r, http.MethodGet, "/live", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestHealth_Degraded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewHealthHandler("test", map[string]handlers.Pinger{
		"cache": func(ctx context.Context) error { return errors.New("connection refused") },
	})
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)

	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: expected status 503, got %d", path, w.Code)
		}
	}
}

func TestGenerate(t *testing.T) {
	r := newTestRouter(t, stubGateway())

	w, env := do(t, r, http.MethodPost, "/api/v1/projections/generate", generateBody, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var result struct {
		Selection    []struct{ Code string } `json:"selection"`
		TotalCredits int                     `json:"total_credits"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	if len(result.Selection) != 2 || result.TotalCredits != 12 {
		t.Errorf("Expected 2 courses and 12 credits, got %+v", result)
	}
}

func TestGenerate_ValidationError(t *testing.T) {
	r := newTestRouter(t, stubGateway())

	w, env := do(t, r, http.MethodPost, "/api/v1/projections/generate", map[string]any{"career_code": "8606"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	if env.Success || env.Message != "Validation failed" {
		t.Errorf("Expected validation failure envelope, got %+v", env)
	}
}

type failingGateway struct{}

func (failingGateway) Login(ctx context.Context, email, password string) (any, error) {
	return nil, &upstream.Error{Status: http.StatusUnauthorized, Payload: map[string]any{"error": "credenciales"}}
}

func (failingGateway) Curriculum(ctx context.Context, careerCode, catalog string) (any, error) {
	return nil, &upstream.Error{Status: http.StatusServiceUnavailable, Payload: map[string]any{"error": "down"}}
}

func (failingGateway) History(ctx context.Context, studentID, careerCode string) (any, error) {
	return []any{}, nil
}

func TestUpstreamErrorsKeepStatus(t *testing.T) {
	r := newTestRouter(t, failingGateway{})

	w, env := do(t, r, http.MethodPost, "/api/v1/projections/generate", generateBody, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
	if string(env.Errors) != `{"error":"down"}` {
		t.Errorf("Expected upstream payload as errors, got %s", env.Errors)
	}

	w, _ = do(t, r, http.MethodPost, "/api/v1/upstream/login", map[string]any{"email": "a@b.cl", "password": "x"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestProjectionLifecycle(t *testing.T) {
	r := newTestRouter(t, stubGateway())

	save := map[string]any{
		"student_id":  "11188222333",
		"career_code": "8606",
		"catalog":     "201610",
		"name":        "Plan A",
		"favorite":    true,
	}
	w, env := do(t, r, http.MethodPost, "/api/v1/projections", save, map[string]string{"Idempotency-Key": "k1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var first domain.SavedProjection
	json.Unmarshal(env.Data, &first)

	_, env = do(t, r, http.MethodPost, "/api/v1/projections", save, map[string]string{"Idempotency-Key": "k1"})
	var replay domain.SavedProjection
	json.Unmarshal(env.Data, &replay)
	if replay.ID != first.ID {
		t.Errorf("Expected replay to return %s, got %s", first.ID, replay.ID)
	}

	save["name"] = "Plan B"
	w, _ = do(t, r, http.MethodPost, "/api/v1/projections", save, map[string]string{"Idempotency-Key": "k1"})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for reused key, got %d", w.Code)
	}

	w, env = do(t, r, http.MethodGet, "/api/v1/projections?student_id=11188222333", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var list []domain.SavedProjection
	json.Unmarshal(env.Data, &list)
	if len(list) != 1 || !list[0].IsFavorite {
		t.Errorf("Expected one favorite projection, got %+v", list)
	}

	w, _ = do(t, r, http.MethodPatch, "/api/v1/projections/"+first.ID+"/name", map[string]any{"student_id": "11188222333", "name": "Renamed"}, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	w, _ = do(t, r, http.MethodPatch, "/api/v1/projections/not-a-uuid/favorite", map[string]any{"student_id": "11188222333"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid id, got %d", w.Code)
	}
	w, _ = do(t, r, http.MethodPatch, "/api/v1/projections/"+uuid.NewString()+"/favorite", map[string]any{"student_id": "11188222333"}, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown id, got %d", w.Code)
	}

	w, env = do(t, r, http.MethodGet, "/api/v1/projections/demand?career_code=8606", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var demand []domain.DemandEntry
	json.Unmarshal(env.Data, &demand)
	if len(demand) != 2 || demand[0].Count != 1 {
		t.Errorf("Expected two courses with one favorite each, got %+v", demand)
	}

	w, _ = do(t, r, http.MethodGet, "/api/v1/projections/demand/export?career_code=8606", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Expected xlsx content type, got %s", ct)
	}

	w, _ = do(t, r, http.MethodDelete, "/api/v1/projections/"+first.ID, nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without student_id, got %d", w.Code)
	}
	w, _ = do(t, r, http.MethodDelete, "/api/v1/projections/"+first.ID+"?student_id=11188222333", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestOffers(t *testing.T) {
	r := newTestRouter(t, stubGateway())
	csv := "period,nrc,course,codigoparalelo,dia,inicio,fin,sala,cupos\n202510,1001,DCCB-00107,C1,LU,08:00,09:20,A,30\n"

	w, _ := do(t, r, http.MethodPost, "/api/v1/offers", map[string]any{"csv": csv}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without admin key, got %d", w.Code)
	}

	admin := map[string]string{"X-Admin-Key": adminKey}
	w, env := do(t, r, http.MethodPost, "/api/v1/offers", map[string]any{"csv": csv}, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var loaded struct{ Rows int }
	json.Unmarshal(env.Data, &loaded)
	if loaded.Rows != 1 {
		t.Errorf("Expected 1 row, got %d", loaded.Rows)
	}

	w, _ = do(t, r, http.MethodPost, "/api/v1/offers", map[string]any{"csv": "period,nrc\n1,2"}, admin)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing columns, got %d", w.Code)
	}

	w, _ = do(t, r, http.MethodGet, "/api/v1/offers?course=DCCB-00107", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without term, got %d", w.Code)
	}

	w, env = do(t, r, http.MethodGet, "/api/v1/offers?course=DCCB-00107&term=202510", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var sections []map[string]any
	json.Unmarshal(env.Data, &sections)
	if len(sections) != 1 || sections[0]["section_id"] != "1001" {
		t.Errorf("Expected section 1001, got %v", sections)
	}
}

func TestBackups(t *testing.T) {
	r := newTestRouter(t, stubGateway())
	admin := map[string]string{"X-Admin-Key": adminKey}

	w, _ := do(t, r, http.MethodGet, "/api/v1/backups/curriculum/8606/201610", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without admin key, got %d", w.Code)
	}

	w, env := do(t, r, http.MethodGet, "/api/v1/backups/curriculum/8606/201610", nil, admin)
	if w.Code != http.StatusOK || string(env.Data) != "[]" {
		t.Errorf("Expected empty list for missing backup, got %d %s", w.Code, env.Data)
	}

	body := map[string]any{
		"career_code": "8606",
		"catalog":     "201610",
		"items":       []map[string]any{{"codigo": "A", "asignatura": "Calculo", "creditos": 6, "nivel": 1, "prereq": ""}},
	}
	w, _ = do(t, r, http.MethodPost, "/api/v1/backups/curriculum", body, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	_, env = do(t, r, http.MethodGet, "/api/v1/backups/curriculum/8606/201610", nil, admin)
	var items []map[string]any
	json.Unmarshal(env.Data, &items)
	if len(items) != 1 || items[0]["codigo"] != "A" {
		t.Errorf("Expected stored item A, got %s", env.Data)
	}

	w, _ = do(t, r, http.MethodGet, "/api/v1/backups/history?student_id=1", nil, admin)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without career_code, got %d", w.Code)
	}
}

func TestUpstreamProxy(t *testing.T) {
	r := newTestRouter(t, stubGateway())

	w, env := do(t, r, http.MethodGet, "/api/v1/upstream/curriculum/8606/201610", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var items []any
	json.Unmarshal(env.Data, &items)
	if len(items) != 2 {
		t.Errorf("Expected 2 stub courses, got %d", len(items))
	}

	w, _ = do(t, r, http.MethodGet, "/api/v1/upstream/history?student_id=1&career_code=8606", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}
