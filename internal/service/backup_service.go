package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	domain "course-planner/internal/domain/projection"
	interfaces "course-planner/internal/interfaces/infrastructure"
	serviceInterfaces "course-planner/internal/interfaces/service"
	"course-planner/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

var _ serviceInterfaces.BackupService = (*BackupService)(nil)

type CurriculumBackupRequest = serviceInterfaces.CurriculumBackupRequest
type HistoryBackupRequest = serviceInterfaces.HistoryBackupRequest
type RefreshReport = serviceInterfaces.RefreshReport

const refreshConcurrency = 4

var curriculumColumns = [][]string{
	{"codigo", "code"},
	{"asignatura", "title"},
	{"creditos", "credits"},
	{"nivel", "level"},
	{"prereq", "prerequisites"},
}

var historyColumns = [][]string{
	{"nrc", "section_id"},
	{"period", "term"},
	{"student", "student_id"},
	{"course", "course_code"},
	{"excluded"},
	{"inscriptiontype", "enrollment_type"},
	{"status"},
}

// CareerCatalog identifies a curriculum version refreshed on schedule
type CareerCatalog struct {
	CareerCode string
	Catalog    string
}

type BackupService struct {
	backupRepo domain.BackupRepository
	gateway    interfaces.UpstreamGateway
	careers    []CareerCatalog
}

// NewBackupService creates the snapshot service. gateway is only needed by Refresh.
func NewBackupService(backupRepo domain.BackupRepository, gateway interfaces.UpstreamGateway, careers []CareerCatalog) *BackupService {
	return &BackupService{
		backupRepo: backupRepo,
		gateway:    gateway,
		careers:    careers,
	}
}

// ParseCurriculumCSV reads a curriculum upload with the codigo,asignatura,creditos,nivel,prereq header
func ParseCurriculumCSV(raw string) ([]serviceInterfaces.CurriculumItem, error) {
	table, err := readCSVTable(raw, curriculumColumns)
	if err != nil {
		return nil, err
	}
	items := make([]serviceInterfaces.CurriculumItem, len(table))
	for i, row := range table {
		items[i] = serviceInterfaces.CurriculumItem{
			Code:          row["codigo"],
			Title:         row["asignatura"],
			Credits:       cast.ToFloat64(row["creditos"]),
			Level:         cast.ToInt(row["nivel"]),
			Prerequisites: row["prereq"],
		}
	}
	return items, nil
}

// ParseHistoryCSV reads a history upload with the nrc,period,student,course,excluded,inscriptiontype,status header
func ParseHistoryCSV(raw string) ([]serviceInterfaces.HistoryItem, error) {
	table, err := readCSVTable(raw, historyColumns)
	if err != nil {
		return nil, err
	}
	items := make([]serviceInterfaces.HistoryItem, len(table))
	for i, row := range table {
		items[i] = serviceInterfaces.HistoryItem{
			SectionID:      row["nrc"],
			Term:           row["period"],
			StudentID:      row["student"],
			CourseCode:     row["course"],
			Excluded:       truthy(row["excluded"]),
			EnrollmentType: row["inscriptiontype"],
			Status:         row["status"],
		}
	}
	return items, nil
}

// LoadCurriculum stores a curriculum snapshot. Items win over CSV; with neither an empty list is stored.
func (s *BackupService) LoadCurriculum(ctx context.Context, req *CurriculumBackupRequest) (int, error) {
	items := req.Items
	if len(items) == 0 && req.CSV != "" {
		parsed, err := ParseCurriculumCSV(req.CSV)
		if err != nil {
			return 0, err
		}
		items = parsed
	}
	if items == nil {
		items = []serviceInterfaces.CurriculumItem{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("failed to encode curriculum backup: %w", err)
	}
	backup := &domain.CurriculumBackup{
		CareerCode: req.CareerCode,
		Catalog:    req.Catalog,
		Payload:    datatypes.JSON(payload),
	}
	if err := s.backupRepo.SaveCurriculum(ctx, backup); err != nil {
		return 0, fmt.Errorf("failed to save curriculum backup: %w", err)
	}
	return len(items), nil
}

func (s *BackupService) GetCurriculum(ctx context.Context, careerCode, catalog string) (any, error) {
	backup, err := s.backupRepo.GetCurriculum(ctx, careerCode, catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to get curriculum backup: %w", err)
	}
	if backup == nil {
		return []any{}, nil
	}
	return decodePayload(backup.Payload)
}

// LoadHistory stores a history snapshot. Items win over CSV; with neither an empty list is stored.
func (s *BackupService) LoadHistory(ctx context.Context, req *HistoryBackupRequest) (int, error) {
	items := req.Items
	if len(items) == 0 && req.CSV != "" {
		parsed, err := ParseHistoryCSV(req.CSV)
		if err != nil {
			return 0, err
		}
		items = parsed
	}
	if items == nil {
		items = []serviceInterfaces.HistoryItem{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("failed to encode history backup: %w", err)
	}
	backup := &domain.HistoryBackup{
		StudentID:  req.StudentID,
		CareerCode: req.CareerCode,
		Payload:    datatypes.JSON(payload),
	}
	if err := s.backupRepo.SaveHistory(ctx, backup); err != nil {
		return 0, fmt.Errorf("failed to save history backup: %w", err)
	}
	return len(items), nil
}

func (s *BackupService) GetHistory(ctx context.Context, studentID, careerCode string) (any, error) {
	backup, err := s.backupRepo.GetHistory(ctx, studentID, careerCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get history backup: %w", err)
	}
	if backup == nil {
		return []any{}, nil
	}
	return decodePayload(backup.Payload)
}

// Refresh snapshots the curricula of the configured careers from upstream.
// A failing career is reported and does not stop the others.
func (s *BackupService) Refresh(ctx context.Context) (*RefreshReport, error) {
	if s.gateway == nil {
		return nil, fmt.Errorf("backup refresh requires an upstream gateway")
	}

	report := &RefreshReport{Refreshed: []string{}, Failed: map[string]string{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for _, career := range s.careers {
		career := career
		g.Go(func() error {
			key := career.CareerCode + "-" + career.Catalog
			err := s.refreshCurriculum(gctx, career)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[key] = err.Error()
				logger.WithFields(logrus.Fields{"career": key, "error": err}).Warn("Curriculum snapshot failed")
				return nil
			}
			report.Refreshed = append(report.Refreshed, key)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.Sort(report.Refreshed)

	logger.Info("Backup refresh finished: %d refreshed, %d failed", len(report.Refreshed), len(report.Failed))
	return report, nil
}

func (s *BackupService) refreshCurriculum(ctx context.Context, career CareerCatalog) error {
	data, err := s.gateway.Curriculum(ctx, career.CareerCode, career.Catalog)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode curriculum: %w", err)
	}
	return s.backupRepo.SaveCurriculum(ctx, &domain.CurriculumBackup{
		CareerCode: career.CareerCode,
		Catalog:    career.Catalog,
		Payload:    datatypes.JSON(payload),
	})
}

func decodePayload(raw []byte) (any, error) {
	if len(raw) == 0 {
		return []any{}, nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode backup payload: %w", err)
	}
	if data == nil {
		return []any{}, nil
	}
	return data, nil
}
