package services

import (
	"time"

	"github.com/repustack/repustack/backend/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStatsRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type DashboardStats struct {
	Customers       int64   `json:"customers"`
	Templates       int64   `json:"templates"`
	RequestsPending int64   `json:"requests_pending"`
	RequestsSent    int64   `json:"requests_sent"`
	RequestsOpened  int64   `json:"requests_opened"`
	Answers         int64   `json:"answers"`
	ResponseRate    float64 `json:"response_rate"`
}

type ChannelStats struct {
	Channel string `json:"channel"`
	Count   int64  `json:"count"`
}

type DashboardResponse struct {
	Stats        DashboardStats `json:"stats"`
	Sentiment    SentimentStats `json:"sentiment"`
	ChannelStats []ChannelStats `json:"channel_stats"`
}

// GetStats aggregates the business's dashboard numbers for a date range.
// The range defaults to the last 30 days and only scopes requests and
// answers; customer and template counts are totals.
func (s *DashboardService) GetStats(businessID uint, req *DashboardStatsRequest) (*DashboardResponse, error) {
	var startDate, endDate time.Time
	var err error

	if req.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			startDate = time.Now().AddDate(0, 0, -30)
		}
	} else {
		startDate = time.Now().AddDate(0, 0, -30)
	}

	if req.EndDate != "" {
		endDate, err = time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			endDate = time.Now()
		}
		endDate = endDate.Add(24*time.Hour - time.Second)
	} else {
		endDate = time.Now()
	}

	var stats DashboardStats

	s.db.Model(&models.Customer{}).
		Where("business_id = ?", businessID).
		Count(&stats.Customers)

	s.db.Model(&models.FeedbackTemplate{}).
		Where("business_id = ?", businessID).
		Count(&stats.Templates)

	requests := s.db.Model(&models.FeedbackRequest{}).
		Where("business_id = ? AND created_at BETWEEN ? AND ?", businessID, startDate, endDate)

	requests.Session(&gorm.Session{}).Where("status = ?", models.StatusPending).Count(&stats.RequestsPending)
	requests.Session(&gorm.Session{}).Where("status = ?", models.StatusSent).Count(&stats.RequestsSent)
	requests.Session(&gorm.Session{}).Where("status = ?", models.StatusOpened).Count(&stats.RequestsOpened)

	s.db.Model(&models.Answer{}).
		Joins("JOIN feedback_requests ON feedback_requests.id = answers.request_id").
		Where("feedback_requests.business_id = ? AND answers.created_at BETWEEN ? AND ?", businessID, startDate, endDate).
		Count(&stats.Answers)

	delivered := stats.RequestsSent + stats.RequestsOpened
	if delivered > 0 {
		stats.ResponseRate = float64(stats.RequestsOpened) / float64(delivered)
	}

	sentiment, err := NewResponseService(s.db, nil).Stats(businessID)
	if err != nil {
		return nil, err
	}

	var channelStats []ChannelStats
	s.db.Model(&models.FeedbackRequest{}).
		Select("channel, COUNT(*) as count").
		Where("business_id = ? AND created_at BETWEEN ? AND ?", businessID, startDate, endDate).
		Group("channel").
		Order("count DESC").
		Scan(&channelStats)

	return &DashboardResponse{
		Stats:        stats,
		Sentiment:    *sentiment,
		ChannelStats: channelStats,
	}, nil
}
