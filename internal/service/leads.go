package service

import (
	"context"

	"github.com/octobees/lead-capture/api/internal/dto"
	"github.com/octobees/lead-capture/api/internal/entity"
	"github.com/octobees/lead-capture/api/internal/repository"
)

const maxListPage = 100000

// LeadsService exposes read operations over stored leads for operators.
type LeadsService struct {
	repo repository.LeadsRepository
}

// NewLeadsService creates a new instance of LeadsService.
func NewLeadsService(repo repository.LeadsRepository) *LeadsService {
	return &LeadsService{repo: repo}
}

// ListLeads returns leads respecting pagination defaults.
func (s *LeadsService) ListLeads(ctx context.Context, filter dto.LeadListFilter) ([]entity.Lead, dto.LeadListFilter, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Page > maxListPage {
		filter.Page = maxListPage
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	filter.Industry = NormalizeIndustry(filter.Industry)
	if filter.Industry != "" && !IsKnownIndustry(filter.Industry) {
		return nil, filter, ErrUnknownIndustry
	}

	leads, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, filter, err
	}
	return leads, filter, nil
}
