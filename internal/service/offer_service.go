package service

import (
	"context"
	"fmt"

	"course-planner/internal/domain/planning"
	domain "course-planner/internal/domain/projection"
	serviceInterfaces "course-planner/internal/interfaces/service"
	"course-planner/pkg/logger"

	"github.com/spf13/cast"
)

var _ serviceInterfaces.OfferService = (*OfferService)(nil)

type LoadOfferResponse = serviceInterfaces.LoadOfferResponse

var offerColumns = [][]string{
	{"term", "period"},
	{"section_id", "nrc"},
	{"course", "course_code"},
	{"section_label", "codigoparalelo"},
	{"day", "dia"},
	{"start", "inicio"},
	{"end", "fin"},
	{"room", "sala"},
	{"seats", "cupos"},
}

type OfferService struct {
	offerRepo domain.OfferRepository
}

func NewOfferService(offerRepo domain.OfferRepository) *OfferService {
	return &OfferService{
		offerRepo: offerRepo,
	}
}

// ParseOfferCSV reads a timetable upload. Rows sharing a section id are one section whose
// term, course and seats come from its first row; each row contributes one time block.
func ParseOfferCSV(raw string) ([]planning.OfferedSection, error) {
	table, err := readCSVTable(raw, offerColumns)
	if err != nil {
		return nil, err
	}

	sections := []planning.OfferedSection{}
	byKey := make(map[string]int)
	for _, row := range table {
		day := planning.ParseDay(row["day"])
		if !day.Valid() {
			return nil, fmt.Errorf("%w: %q in section %s", ErrInvalidOfferDay, row["day"], row["section_id"])
		}
		block := planning.TimeBlock{
			Day:   day,
			Start: row["start"],
			End:   row["end"],
			Room:  row["room"],
		}

		key := row["section_id"]
		if i, ok := byKey[key]; ok {
			sections[i].Blocks = append(sections[i].Blocks, block)
			continue
		}
		byKey[key] = len(sections)
		sections = append(sections, planning.OfferedSection{
			Term:         row["term"],
			SectionID:    row["section_id"],
			CourseCode:   row["course"],
			SectionLabel: row["section_label"],
			Seats:        cast.ToInt(row["seats"]),
			Blocks:       []planning.TimeBlock{block},
		})
	}
	return sections, nil
}

func (s *OfferService) LoadCSV(ctx context.Context, raw string) (*LoadOfferResponse, error) {
	sections, err := ParseOfferCSV(raw)
	if err != nil {
		return nil, err
	}

	records := make([]domain.OfferedSectionRecord, len(sections))
	for i, sec := range sections {
		records[i] = domain.OfferedSectionFromPlanning(sec)
	}

	upserts, err := s.offerRepo.Upsert(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to store offered sections: %w", err)
	}

	logger.Info("Loaded %d offered sections (%d rows affected)", len(sections), upserts)
	return &LoadOfferResponse{Rows: len(sections), Upserts: upserts}, nil
}

func (s *OfferService) List(ctx context.Context, courseCode, term string) ([]planning.OfferedSection, error) {
	records, err := s.offerRepo.List(ctx, courseCode, term)
	if err != nil {
		return nil, fmt.Errorf("failed to list offered sections: %w", err)
	}
	out := make([]planning.OfferedSection, len(records))
	for i, r := range records {
		out[i] = r.ToPlanning()
	}
	return out, nil
}
