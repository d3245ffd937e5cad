package service

import (
	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/repository"
	"context"

	"github.com/jinzhu/copier"
)

type DailyStatMetricService interface {
	List(ctx context.Context, q *dto.MetricListQuery) (*dto.PageResult, error)
	GetByID(ctx context.Context, id uint64) (*dto.MetricDTO, error)
	GroupedByType(ctx context.Context, q *dto.MetricListQuery) ([]*repository.MetricTypeSummary, error)
}

type dailyStatMetricServiceImpl struct {
	metricRepo repository.DailyStatMetricRepo
}

func NewDailyStatMetricService(metricRepo repository.DailyStatMetricRepo) DailyStatMetricService {
	return &dailyStatMetricServiceImpl{metricRepo: metricRepo}
}

func (s *dailyStatMetricServiceImpl) List(ctx context.Context, q *dto.MetricListQuery) (*dto.PageResult, error) {
	repoQuery := &repository.MetricQuery{
		DailyStatID: q.DailyStatID,
		Type:        q.Type,
		Unit:        q.Unit,
		MinValue:    q.MinValue,
		MaxValue:    q.MaxValue,
		Page:        q.Page,
		PerPage:     q.PerPage,
	}

	metrics, total, err := s.metricRepo.List(ctx, repoQuery)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.MetricDTO, 0, len(metrics))
	if err = copier.Copy(&list, metrics); err != nil {
		return nil, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return &dto.PageResult{List: list, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *dailyStatMetricServiceImpl) GetByID(ctx context.Context, id uint64) (*dto.MetricDTO, error) {
	metric, err := s.metricRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if metric == nil {
		return nil, ErrMetricNotFound
	}
	item := &dto.MetricDTO{}
	if err = copier.Copy(item, metric); err != nil {
		return nil, err
	}
	return item, nil
}

// GroupedByType 指标按类型分组的 count/total/average/min/max 视图
func (s *dailyStatMetricServiceImpl) GroupedByType(ctx context.Context, q *dto.MetricListQuery) ([]*repository.MetricTypeSummary, error) {
	repoQuery := &repository.MetricQuery{
		DailyStatID: q.DailyStatID,
		Type:        q.Type,
		Unit:        q.Unit,
		MinValue:    q.MinValue,
		MaxValue:    q.MaxValue,
	}
	return s.metricRepo.GroupedByType(ctx, repoQuery)
}
