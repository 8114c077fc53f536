package service

import (
	"context"
	"fmt"
	"time"

	"course-planner/internal/domain/planning"
	domain "course-planner/internal/domain/projection"
	interfaces "course-planner/internal/interfaces/infrastructure"
	serviceInterfaces "course-planner/internal/interfaces/service"
	"course-planner/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var _ serviceInterfaces.ProjectionService = (*ProjectionService)(nil)

type GenerateRequest = serviceInterfaces.GenerateRequest
type OptionsRequest = serviceInterfaces.OptionsRequest
type OptionsResponse = serviceInterfaces.OptionsResponse
type WithOfferRequest = serviceInterfaces.WithOfferRequest
type SaveRequest = serviceInterfaces.SaveRequest
type SaveDirectRequest = serviceInterfaces.SaveDirectRequest

type ProjectionService struct {
	gateway        interfaces.UpstreamGateway
	projectionRepo domain.ProjectionRepository
	demandRepo     domain.DemandRepository
	offerRepo      domain.OfferRepository
	idempotency    *IdempotencyService
	defaultCap     float64
	maxOptions     int
}

// NewProjectionService wires the projection use cases. idempotency may be nil.
func NewProjectionService(
	gateway interfaces.UpstreamGateway,
	projectionRepo domain.ProjectionRepository,
	demandRepo domain.DemandRepository,
	offerRepo domain.OfferRepository,
	idempotency *IdempotencyService,
	defaultCap float64,
	maxOptions int,
) *ProjectionService {
	if defaultCap <= 0 {
		defaultCap = planning.DefaultCreditCap
	}
	if maxOptions <= 0 {
		maxOptions = planning.DefaultMaxOptions
	}
	return &ProjectionService{
		gateway:        gateway,
		projectionRepo: projectionRepo,
		demandRepo:     demandRepo,
		offerRepo:      offerRepo,
		idempotency:    idempotency,
		defaultCap:     defaultCap,
		maxOptions:     maxOptions,
	}
}

// fetchInputs loads the curriculum and the history in parallel
func (s *ProjectionService) fetchInputs(ctx context.Context, req *GenerateRequest) ([]planning.CourseDefinition, []planning.HistoryRecord, error) {
	var curriculumRaw, historyRaw any

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := s.gateway.Curriculum(gctx, req.CareerCode, req.Catalog)
		if err != nil {
			return fmt.Errorf("failed to fetch curriculum: %w", err)
		}
		curriculumRaw = data
		return nil
	})
	g.Go(func() error {
		data, err := s.gateway.History(gctx, req.StudentID, req.CareerCode)
		if err != nil {
			return fmt.Errorf("failed to fetch history: %w", err)
		}
		historyRaw = data
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return planning.ParseCurriculum(curriculumRaw), planning.ParseHistory(historyRaw), nil
}

func (s *ProjectionService) Generate(ctx context.Context, req *GenerateRequest) (*planning.ProjectionResult, error) {
	curriculum, history, err := s.fetchInputs(ctx, req)
	if err != nil {
		return nil, err
	}

	result := planning.Build(curriculum, history, req.Constraints(s.defaultCap))
	logger.WithFields(logrus.Fields{
		"student": req.StudentID,
		"career":  req.CareerCode,
		"courses": len(result.Selection),
		"credits": result.TotalCredits,
	}).Debug("Projection generated")
	return &result, nil
}

func (s *ProjectionService) GenerateOptions(ctx context.Context, req *OptionsRequest) (*OptionsResponse, error) {
	curriculum, history, err := s.fetchInputs(ctx, &req.GenerateRequest)
	if err != nil {
		return nil, err
	}

	maxOptions := req.MaxOptions
	if maxOptions <= 0 {
		maxOptions = s.maxOptions
	}
	options := planning.BuildOptions(curriculum, history, req.Constraints(s.defaultCap), maxOptions)
	return &OptionsResponse{Options: options}, nil
}

func (s *ProjectionService) GenerateWithOffer(ctx context.Context, req *WithOfferRequest) (*planning.ProjectionResult, error) {
	result, err := s.Generate(ctx, &req.GenerateRequest)
	if err != nil {
		return nil, err
	}
	return s.assignSections(ctx, result, req.Term)
}

func (s *ProjectionService) assignSections(ctx context.Context, result *planning.ProjectionResult, term string) (*planning.ProjectionResult, error) {
	records, err := s.offerRepo.ListByTerm(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to load offered sections: %w", err)
	}
	catalog := make([]planning.OfferedSection, len(records))
	for i, r := range records {
		catalog[i] = r.ToPlanning()
	}

	assigned := planning.AssignSections(*result, term, catalog)
	return &assigned, nil
}

// Save generates a projection and stores it. A repeated idempotency key returns the stored projection.
func (s *ProjectionService) Save(ctx context.Context, req *SaveRequest, idempotencyKey string) (*domain.SavedProjection, error) {
	if s.idempotency != nil && idempotencyKey != "" {
		existing, duplicate, err := s.idempotency.CheckDuplicateRequest(ctx, idempotencyKey, req.StudentID, req)
		if err != nil {
			return nil, err
		}
		if duplicate {
			saved, err := s.projectionRepo.GetByID(ctx, existing.ProjectionID)
			if err != nil {
				return nil, fmt.Errorf("failed to load projection: %w", err)
			}
			if saved != nil {
				return saved, nil
			}
		}
	}

	result, err := s.Generate(ctx, &req.GenerateRequest)
	if err != nil {
		return nil, err
	}
	if req.Term != "" {
		if result, err = s.assignSections(ctx, result, req.Term); err != nil {
			return nil, err
		}
	}

	projection := &domain.SavedProjection{
		StudentID:    req.StudentID,
		CareerCode:   req.CareerCode,
		Catalog:      req.Catalog,
		Name:         defaultName(req.Name),
		IsFavorite:   req.Favorite,
		TotalCredits: result.TotalCredits,
		CreditCap:    result.Rules.CreditCap,
		Term:         req.Term,
		Items:        domain.ItemsFromSelection(result.Selection),
	}
	if err := s.projectionRepo.Create(ctx, projection); err != nil {
		return nil, fmt.Errorf("failed to save projection: %w", err)
	}

	if s.idempotency != nil && idempotencyKey != "" {
		if err := s.idempotency.StoreProcessedRequest(ctx, idempotencyKey, req.StudentID, req, projection.ID); err != nil {
			logger.Warn("Projection %s saved but idempotency key was not stored: %v", projection.ID, err)
		}
	}

	logger.WithFields(logrus.Fields{
		"student":    req.StudentID,
		"projection": projection.ID,
		"favorite":   projection.IsFavorite,
	}).Info("Projection saved")
	return projection, nil
}

// SaveDirect stores caller-computed items. The total is recomputed from the items.
func (s *ProjectionService) SaveDirect(ctx context.Context, req *SaveDirectRequest) (*domain.SavedProjection, error) {
	total := 0
	for _, item := range req.Items {
		total += item.Credits
	}

	creditCap := req.CreditCap
	if creditCap <= 0 {
		creditCap = s.defaultCap
	}

	projection := &domain.SavedProjection{
		StudentID:    req.StudentID,
		CareerCode:   req.CareerCode,
		Catalog:      req.Catalog,
		Name:         defaultName(req.Name),
		IsFavorite:   req.Favorite,
		TotalCredits: total,
		CreditCap:    creditCap,
		Term:         req.Term,
		Items:        domain.ItemsFromSelection(req.Items),
	}
	if err := s.projectionRepo.Create(ctx, projection); err != nil {
		return nil, fmt.Errorf("failed to save projection: %w", err)
	}
	return projection, nil
}

func (s *ProjectionService) List(ctx context.Context, studentID string) ([]*domain.SavedProjection, error) {
	projections, err := s.projectionRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projections: %w", err)
	}
	if projections == nil {
		projections = []*domain.SavedProjection{}
	}
	return projections, nil
}

func (s *ProjectionService) SetFavorite(ctx context.Context, studentID, id string) error {
	if err := validateProjectionID(id); err != nil {
		return err
	}
	ok, err := s.projectionRepo.SetFavorite(ctx, studentID, id)
	if err != nil {
		return fmt.Errorf("failed to set favorite: %w", err)
	}
	if !ok {
		return ErrProjectionNotFound
	}
	return nil
}

func (s *ProjectionService) Rename(ctx context.Context, studentID, id, name string) error {
	if err := validateProjectionID(id); err != nil {
		return err
	}
	ok, err := s.projectionRepo.Rename(ctx, studentID, id, name)
	if err != nil {
		return fmt.Errorf("failed to rename projection: %w", err)
	}
	if !ok {
		return ErrProjectionNotFound
	}
	return nil
}

func (s *ProjectionService) Delete(ctx context.Context, studentID, id string) error {
	if err := validateProjectionID(id); err != nil {
		return err
	}
	ok, err := s.projectionRepo.Delete(ctx, studentID, id)
	if err != nil {
		return fmt.Errorf("failed to delete projection: %w", err)
	}
	if !ok {
		return ErrProjectionNotFound
	}
	return nil
}

// Demand counts favorite projections per course code, or per section id when bySection is set
func (s *ProjectionService) Demand(ctx context.Context, careerCode string, bySection bool) ([]domain.DemandEntry, error) {
	var (
		entries []domain.DemandEntry
		err     error
	)
	if bySection {
		entries, err = s.demandRepo.DemandBySection(ctx, careerCode)
	} else {
		entries, err = s.demandRepo.DemandByCourse(ctx, careerCode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate demand: %w", err)
	}
	if entries == nil {
		entries = []domain.DemandEntry{}
	}
	return entries, nil
}

func (s *ProjectionService) DemandWorkbook(ctx context.Context, careerCode string, bySection bool) ([]byte, error) {
	entries, err := s.Demand(ctx, careerCode, bySection)
	if err != nil {
		return nil, err
	}
	return RenderDemandWorkbook(entries, careerCode, bySection)
}

func validateProjectionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidProjectionID
	}
	return nil
}

func defaultName(name string) string {
	if name != "" {
		return name
	}
	return "Plan " + time.Now().Format("2006-01-02 15:04")
}
