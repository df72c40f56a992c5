package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/repustack/repustack/backend/internal/models"
	"gorm.io/gorm"
)

type FeedbackRequestService struct {
	db *gorm.DB
}

func NewFeedbackRequestService(db *gorm.DB) *FeedbackRequestService {
	return &FeedbackRequestService{db: db}
}

type CreateRequestRequest struct {
	TemplateID   uint   `json:"template_id" binding:"required"`
	Channel      string `json:"channel" binding:"required,oneof=email sms whatsapp"`
	CustomerIDs  []uint `json:"customer_ids" binding:"required"`
	LocationID   *uint  `json:"location_id"`
	DepartmentID *uint  `json:"department_id"`
}

type RequestListRequest struct {
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=pending sent opened"`
	Channel  string `form:"channel" binding:"omitempty,oneof=email sms whatsapp"`
}

type RequestListResponse struct {
	Total    int64                    `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
	Items    []models.FeedbackRequest `json:"items"`
}

// Create validates and persists a feedback request in status pending.
// The recipient set must be non-empty, the bound template must belong
// to the business, and the request channel must equal the template's
// channel affinity.
func (s *FeedbackRequestService) Create(businessID, userID uint, req *CreateRequestRequest) (*models.FeedbackRequest, error) {
	var business models.Business
	if err := s.db.First(&business, businessID).Error; err != nil {
		return nil, newValidationError("business %d not found", businessID)
	}

	if len(req.CustomerIDs) == 0 {
		return nil, newValidationError("recipient set must not be empty")
	}

	var template models.FeedbackTemplate
	if err := s.db.Where("business_id = ?", businessID).First(&template, req.TemplateID).Error; err != nil {
		return nil, newValidationError("template %d not found", req.TemplateID)
	}

	channel := models.Channel(req.Channel)
	if !channel.Valid() {
		return nil, newValidationError("unknown channel %q", req.Channel)
	}
	if template.Channel != channel {
		return nil, newValidationError("template %q is an %s template, request channel is %s",
			template.Name, template.Channel, channel)
	}

	// Set semantics on recipients: collapse duplicates before insert.
	customerIDs := ResolveRecipients(req.CustomerIDs, nil)

	var known int64
	s.db.Model(&models.Customer{}).
		Where("business_id = ? AND id IN ?", businessID, customerIDs).
		Count(&known)
	if known != int64(len(customerIDs)) {
		return nil, newValidationError("recipient list contains unknown customers")
	}

	request := models.FeedbackRequest{
		BusinessID:   businessID,
		LocationID:   req.LocationID,
		DepartmentID: req.DepartmentID,
		TemplateID:   template.ID,
		Channel:      channel,
		RequestedBy:  userID,
		Token:        uuid.NewString(),
		Status:       models.StatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		for _, customerID := range customerIDs {
			recipient := models.RequestRecipient{
				RequestID:  request.ID,
				CustomerID: customerID,
			}
			if err := tx.Create(&recipient).Error; err != nil {
				return err
			}
			request.Recipients = append(request.Recipients, recipient)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// GetByID returns a request with its template and recipients preloaded.
func (s *FeedbackRequestService) GetByID(businessID, id uint) (*models.FeedbackRequest, error) {
	var request models.FeedbackRequest
	err := s.db.Preload("Template").
		Preload("Recipients.Customer").
		Where("business_id = ?", businessID).
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// GetByToken resolves the public form token.
func (s *FeedbackRequestService) GetByToken(token string) (*models.FeedbackRequest, error) {
	var request models.FeedbackRequest
	err := s.db.Preload("Template.Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("token = ?", token).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns paginated requests with status/channel filters.
func (s *FeedbackRequestService) List(businessID uint, req *RequestListRequest) (*RequestListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var requests []models.FeedbackRequest
	var total int64

	query := s.db.Model(&models.FeedbackRequest{}).Where("business_id = ?", businessID)

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Channel != "" {
		query = query.Where("channel = ?", req.Channel)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Template").Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}

	return &RequestListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    requests,
	}, nil
}

// MarkSent performs the one-way pending → sent transition as a single
// conditional update. A request that is no longer pending yields an
// InvalidStateError; the transition can succeed at most once no matter
// how many callers race on it.
func (s *FeedbackRequestService) MarkSent(businessID, id uint) error {
	now := time.Now()
	result := s.db.Model(&models.FeedbackRequest{}).
		Where("id = ? AND business_id = ? AND status = ?", id, businessID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":  models.StatusSent,
			"sent_at": &now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return s.invalidState(businessID, id, models.StatusPending)
	}
	return nil
}

// MarkOpened records that a recipient opened the public form. Only a
// sent request transitions; calling it again, or on an already-opened
// request, is a no-op.
func (s *FeedbackRequestService) MarkOpened(id uint) error {
	return s.db.Model(&models.FeedbackRequest{}).
		Where("id = ? AND status = ?", id, models.StatusSent).
		Update("status", models.StatusOpened).Error
}

// Delete removes a request while it is still pending. Requests that
// have been sent are part of the audit trail and stay.
func (s *FeedbackRequestService) Delete(businessID, id uint) error {
	var request models.FeedbackRequest
	if err := s.db.Where("business_id = ?", businessID).First(&request, id).Error; err != nil {
		return err
	}
	if request.Status != models.StatusPending {
		return &InvalidStateError{Current: string(request.Status), Required: string(models.StatusPending)}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", id).Delete(&models.RequestRecipient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&request).Error
	})
}

// invalidState builds an InvalidStateError reflecting the request's
// actual status at the time the conditional update missed.
func (s *FeedbackRequestService) invalidState(businessID, id uint, required models.RequestStatus) error {
	var request models.FeedbackRequest
	if err := s.db.Where("business_id = ?", businessID).First(&request, id).Error; err != nil {
		return err
	}
	return &InvalidStateError{Current: string(request.Status), Required: string(required)}
}
