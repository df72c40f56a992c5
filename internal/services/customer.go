package services

import (
	"strings"

	"github.com/repustack/repustack/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

type AddCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

type UpdateCustomerRequest struct {
	Name   string `json:"name"`
	Phone  *string `json:"phone"`
	Status string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type CustomerListRequest struct {
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

type CustomerListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []models.Customer `json:"items"`
}

// BatchCreateResult separates customers persisted by a batch call from
// candidates that already existed in storage at insert time.
type BatchCreateResult struct {
	Created    []models.Customer  `json:"created"`
	Duplicates []CustomerCandidate `json:"duplicates"`
}

// Add stores a single customer. The (business, email) uniqueness is
// enforced by the database index, so two concurrent adds with the same
// email produce exactly one row; the loser gets a DuplicateError.
func (s *CustomerService) Add(businessID uint, req *AddCustomerRequest) (*models.Customer, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, newValidationError("customer email must not be blank")
	}

	customer := models.Customer{
		BusinessID: businessID,
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Phone:      strings.TrimSpace(req.Phone),
		Status:     models.CustomerActive,
	}

	// Insert through ON CONFLICT DO NOTHING and inspect RowsAffected:
	// this closes the race an application-level pre-check leaves open.
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "business_id"}, {Name: "email"}},
		DoNothing: true,
	}).Create(&customer)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, &DuplicateError{Email: email}
	}

	return &customer, nil
}

// BatchCreate persists parsed CSV candidates. Candidates whose email is
// already stored are reported back as duplicates instead of failing the
// whole batch.
func (s *CustomerService) BatchCreate(businessID uint, candidates []CustomerCandidate) (*BatchCreateResult, error) {
	result := &BatchCreateResult{}

	for _, cand := range candidates {
		customer := models.Customer{
			BusinessID: businessID,
			Name:       cand.Name,
			Email:      cand.Email,
			Phone:      cand.Phone,
			Status:     models.CustomerActive,
		}
		res := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "business_id"}, {Name: "email"}},
			DoNothing: true,
		}).Create(&customer)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			result.Duplicates = append(result.Duplicates, cand)
			continue
		}
		result.Created = append(result.Created, customer)
	}

	return result, nil
}

// GetByID returns a customer scoped to the business.
func (s *CustomerService) GetByID(businessID, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.Where("business_id = ?", businessID).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// List returns paginated customers with optional name/email search.
func (s *CustomerService) List(businessID uint, req *CustomerListRequest) (*CustomerListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var customers []models.Customer
	var total int64

	query := s.db.Model(&models.Customer{}).Where("business_id = ?", businessID)

	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, err
	}

	return &CustomerListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    customers,
	}, nil
}

// Update edits mutable customer fields. Email is the deduplication key
// and cannot be changed here.
func (s *CustomerService) Update(businessID, id uint, req *UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.GetByID(businessID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		customer.Name = strings.TrimSpace(req.Name)
	}
	if req.Phone != nil {
		customer.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Status != "" {
		customer.Status = req.Status
	}

	if err := s.db.Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete soft-deletes a customer unless a pending or sent request
// still references it.
func (s *CustomerService) Delete(businessID, id uint) error {
	customer, err := s.GetByID(businessID, id)
	if err != nil {
		return err
	}

	var referenced int64
	s.db.Model(&models.RequestRecipient{}).
		Joins("JOIN feedback_requests ON feedback_requests.id = feedback_request_recipients.request_id").
		Where("feedback_request_recipients.customer_id = ? AND feedback_requests.status IN ?",
			id, []models.RequestStatus{models.StatusPending, models.StatusSent}).
		Count(&referenced)
	if referenced > 0 {
		return newValidationError("customer is referenced by %d open feedback requests", referenced)
	}

	return s.db.Delete(customer).Error
}

// ResolveRecipients merges already-selected customer ids with ids of
// newly created customers into one set: no id appears twice, order is
// not significant.
func ResolveRecipients(existingIDs []uint, created []models.Customer) []uint {
	seen := make(map[uint]struct{}, len(existingIDs)+len(created))
	merged := make([]uint, 0, len(existingIDs)+len(created))

	for _, id := range existingIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	for _, c := range created {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		merged = append(merged, c.ID)
	}

	return merged
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
