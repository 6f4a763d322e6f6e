package repository

import (
	"context"

	"commissionhub/internal/domain"
	"commissionhub/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalProducts      int64            `json:"total_products"`
	ByStatus           map[string]int64 `json:"by_status"`
	TotalUsers         int64            `json:"total_users"`
	TotalSellers       int64            `json:"total_sellers"`
	TotalNotifications int64            `json:"total_notifications"`
	TotalBudget        decimal.Decimal  `json:"total_budget"`
	AverageBudget      decimal.Decimal  `json:"average_budget"`
}

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetDashboardStats aggregates product counts per status and budget totals
// over the effective budget (admin budget when set, original otherwise).
func (r *StatsRepository) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := r.db.WithContext(ctx)
	s := DashboardStats{ByStatus: make(map[string]int64, len(domain.Statuses))}
	for _, st := range domain.Statuses {
		s.ByStatus[st] = 0
	}

	var rows []struct {
		Status string
		Count  int64
	}
	err := db.Model(&models.Product{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error
	for _, row := range rows {
		s.ByStatus[row.Status] = row.Count
		s.TotalProducts += row.Count
	}

	err = multierr.Combine(
		err,
		db.Model(&models.User{}).Where("role = ?", domain.RoleUser).Count(&s.TotalUsers).Error,
		db.Model(&models.User{}).Where("role = ?", domain.RoleSeller).Count(&s.TotalSellers).Error,
		db.Model(&models.Notification{}).Count(&s.TotalNotifications).Error,
	)

	var budget struct{ Total decimal.NullDecimal }
	err = multierr.Append(err, db.Model(&models.Product{}).
		Select("SUM(COALESCE(admin_modified_budget, original_budget)) AS total").
		Scan(&budget).Error)
	if err != nil {
		return nil, err
	}
	if budget.Total.Valid {
		s.TotalBudget = budget.Total.Decimal
	}
	if s.TotalProducts > 0 {
		s.AverageBudget = s.TotalBudget.Div(decimal.NewFromInt(s.TotalProducts)).Round(2)
	}
	return &s, nil
}
