package service

import (
	"context"

	"commissionhub/internal/domain"
	"commissionhub/internal/repository"
)

type StatsService struct {
	repo *repository.StatsRepository
}

func NewStatsService(repo *repository.StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) Dashboard(ctx context.Context, actor domain.Actor) (*repository.DashboardStats, error) {
	if !actor.IsAdmin() {
		return nil, domain.Forbidden("Admin access required")
	}
	return s.repo.GetDashboardStats(ctx)
}
