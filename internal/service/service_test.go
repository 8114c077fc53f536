package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	domain "course-planner/internal/domain/projection"
	"course-planner/internal/infrastructure/database"

	"gorm.io/gorm"
)

type fakeGateway struct {
	mu         sync.Mutex
	curriculum any
	history    any
	err        error
	failFor    map[string]error
	calls      int
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (any, error) {
	return map[string]any{"rut": "11111111-1"}, nil
}

func (f *fakeGateway) Curriculum(ctx context.Context, careerCode, catalog string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.failFor[careerCode]; ok {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.curriculum, nil
}

func (f *fakeGateway) History(ctx context.Context, studentID, careerCode string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.history, nil
}

func decodeJSON(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("Invalid fixture: %v", err)
	}
	return v
}

// newPlannerGateway serves a four-course curriculum where B was failed:
// A and B are open, C needs A, D needs a course outside the curriculum.
func newPlannerGateway(t *testing.T) *fakeGateway {
	return &fakeGateway{
		curriculum: decodeJSON(t, `[
			{"codigo":"A","asignatura":"Calculo I","creditos":6,"nivel":1,"prereq":""},
			{"codigo":"B","asignatura":"Algebra","creditos":6,"nivel":1,"prereq":""},
			{"codigo":"C","asignatura":"Calculo II","creditos":6,"nivel":2,"prereq":"A"},
			{"codigo":"D","asignatura":"Fisica","creditos":5,"nivel":2,"prereq":"X"}
		]`),
		history: decodeJSON(t, `[{"course":"B","status":"REPROBADO","period":"202420"}]`),
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewConnection(database.Config{Driver: "sqlite", DBName: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&domain.SavedProjection{},
		&domain.SavedProjectionItem{},
		&domain.OfferedSectionRecord{},
		&domain.CurriculumBackup{},
		&domain.HistoryBackup{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}
