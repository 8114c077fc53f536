package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	domain "course-planner/internal/domain/projection"
	"course-planner/internal/infrastructure/cache"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/datatypes"
)

type fakeBackups struct {
	curriculum *domain.CurriculumBackup
	history    *domain.HistoryBackup
}

func (f *fakeBackups) SaveCurriculum(ctx context.Context, b *domain.CurriculumBackup) error {
	f.curriculum = b
	return nil
}

func (f *fakeBackups) GetCurriculum(ctx context.Context, careerCode, catalog string) (*domain.CurriculumBackup, error) {
	return f.curriculum, nil
}

func (f *fakeBackups) SaveHistory(ctx context.Context, b *domain.HistoryBackup) error {
	f.history = b
	return nil
}

func (f *fakeBackups) GetHistory(ctx context.Context, studentID, careerCode string) (*domain.HistoryBackup, error) {
	return f.history, nil
}

func testConfig(base string) Config {
	return Config{
		RecordsBaseURL:    base,
		CurriculumBaseURL: base,
		CurriculumAuth:    "secret",
		Timeout:           2 * time.Second,
		RetryWait:         time.Millisecond,
	}
}

func TestGateway_Curriculum(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mallas" {
			t.Errorf("Expected path /mallas, got %s", r.URL.Path)
		}
		if r.URL.RawQuery != "8606-201610" {
			t.Errorf("Expected query 8606-201610, got %s", r.URL.RawQuery)
		}
		if got := r.Header.Get(CurriculumAuthHeader); got != "secret" {
			t.Errorf("Expected auth header secret, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"codigo":"DCCB-00107","creditos":6}]`))
	}))
	defer server.Close()

	g := NewGateway(testConfig(server.URL), nil, nil)
	data, err := g.Curriculum(context.Background(), "8606", "201610")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	items, ok := data.([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("Expected one course, got %#v", data)
	}
}

func TestGateway_History(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/avance.php" {
			t.Errorf("Expected path /avance.php, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("rut") != "11111111-1" || q.Get("codcarrera") != "8606" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[{"course":"A","status":"APROBADO"}]`))
	}))
	defer server.Close()

	g := NewGateway(testConfig(server.URL), nil, nil)
	data, err := g.History(context.Background(), "11111111-1", "8606")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if items, ok := data.([]any); !ok || len(items) != 1 {
		t.Errorf("Expected one record, got %#v", data)
	}
}

func TestGateway_ErrorStatusPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"credenciales invalidas"}`))
	}))
	defer server.Close()

	g := NewGateway(testConfig(server.URL), nil, nil)
	_, err := g.Login(context.Background(), "a@b.cl", "bad")

	var upErr *Error
	if !errors.As(err, &upErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if upErr.Status != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", upErr.Status)
	}
	payload, ok := upErr.Payload.(map[string]any)
	if !ok || payload["error"] != "credenciales invalidas" {
		t.Errorf("Expected upstream payload to be kept, got %#v", upErr.Payload)
	}
}

func TestGateway_UnreachableIsBadGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	g := NewGateway(testConfig(base), nil, nil)
	_, err := g.History(context.Background(), "1", "8606")

	var upErr *Error
	if !errors.As(err, &upErr) || upErr.Status != http.StatusBadGateway {
		t.Errorf("Expected 502 upstream error, got %v", err)
	}
}

func TestGateway_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RetryCount = 2
	g := NewGateway(cfg, nil, nil)

	if _, err := g.History(context.Background(), "1", "8606"); err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("Expected 2 calls, got %d", got)
	}
}

func TestGateway_BackupFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	backups := &fakeBackups{
		curriculum: &domain.CurriculumBackup{Payload: datatypes.JSON(`[{"codigo":"FROM-BACKUP"}]`)},
		history:    &domain.HistoryBackup{Payload: datatypes.JSON(`[]`)},
	}

	cfg := testConfig(server.URL)
	cfg.UseBackupFallback = true
	g := NewGateway(cfg, backups, nil)

	data, err := g.Curriculum(context.Background(), "8606", "201610")
	if err != nil {
		t.Fatalf("Expected backup to be served, got %v", err)
	}
	items := data.([]any)
	if items[0].(map[string]any)["codigo"] != "FROM-BACKUP" {
		t.Errorf("Expected backup payload, got %#v", data)
	}

	if _, err := g.History(context.Background(), "1", "8606"); err != nil {
		t.Errorf("Expected empty history backup to be served, got %v", err)
	}

	cfg.UseBackupFallback = false
	g = NewGateway(cfg, backups, nil)
	var upErr *Error
	if _, err := g.Curriculum(context.Background(), "8606", "201610"); !errors.As(err, &upErr) || upErr.Status != http.StatusInternalServerError {
		t.Errorf("Expected 500 without fallback, got %v", err)
	}
}

func TestGateway_Stubs(t *testing.T) {
	g := NewGateway(Config{UseStubs: true, RecordsBaseURL: "http://127.0.0.1:1", CurriculumBaseURL: "http://127.0.0.1:1"}, nil, nil)
	ctx := context.Background()

	login, err := g.Login(ctx, "x", "y")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if login.(map[string]any)["rut"] != "11188222333" {
		t.Errorf("Unexpected login stub %#v", login)
	}

	curriculum, _ := g.Curriculum(ctx, "8606", "201610")
	if len(curriculum.([]any)) != 2 {
		t.Errorf("Expected 2 stub courses, got %#v", curriculum)
	}

	history, _ := g.History(ctx, "1", "8606")
	if len(history.([]any)) != 1 {
		t.Errorf("Expected 1 stub record, got %#v", history)
	}
}

func TestGateway_CachesCurriculum(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`[{"codigo":"A"}]`))
	}))
	defer server.Close()

	mr := miniredis.RunT(t)
	c := cache.NewRedisCache(mr.Addr(), "", 0)
	defer c.Close()

	cfg := testConfig(server.URL)
	cfg.CacheTTL = time.Minute
	g := NewGateway(cfg, nil, c)

	for i := 0; i < 3; i++ {
		if _, err := g.Curriculum(context.Background(), "8606", "201610"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected a single upstream call, got %d", got)
	}
}
