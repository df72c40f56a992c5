package services

import (
	"strings"

	"github.com/repustack/repustack/backend/internal/models"
	"gorm.io/gorm"
)

type BusinessService struct {
	db *gorm.DB
}

func NewBusinessService(db *gorm.DB) *BusinessService {
	return &BusinessService{db: db}
}

type UpdateBusinessRequest struct {
	Name         string  `json:"name"`
	SupportEmail *string `json:"support_email"`
	SupportPhone *string `json:"support_phone"`
	Website      *string `json:"website"`
	LogoURL      *string `json:"logo_url"`
}

type CreateLocationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

// Get returns the business profile.
func (s *BusinessService) Get(businessID uint) (*models.Business, error) {
	var business models.Business
	if err := s.db.First(&business, businessID).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// Update edits the business profile.
func (s *BusinessService) Update(businessID uint, req *UpdateBusinessRequest) (*models.Business, error) {
	business, err := s.Get(businessID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		if strings.TrimSpace(req.Name) == "" {
			return nil, newValidationError("business name must not be blank")
		}
		business.Name = req.Name
	}
	if req.SupportEmail != nil {
		business.SupportEmail = normalizeEmail(*req.SupportEmail)
	}
	if req.SupportPhone != nil {
		business.SupportPhone = strings.TrimSpace(*req.SupportPhone)
	}
	if req.Website != nil {
		business.Website = strings.TrimSpace(*req.Website)
	}
	if req.LogoURL != nil {
		business.LogoURL = strings.TrimSpace(*req.LogoURL)
	}

	if err := s.db.Save(business).Error; err != nil {
		return nil, err
	}
	return business, nil
}

// ListLocations returns all locations of a business.
func (s *BusinessService) ListLocations(businessID uint) ([]models.Location, error) {
	var locations []models.Location
	err := s.db.Where("business_id = ?", businessID).Order("name ASC").Find(&locations).Error
	return locations, err
}

// CreateLocation adds a location.
func (s *BusinessService) CreateLocation(businessID uint, req *CreateLocationRequest) (*models.Location, error) {
	location := models.Location{
		BusinessID: businessID,
		Name:       strings.TrimSpace(req.Name),
		Address:    strings.TrimSpace(req.Address),
	}
	if location.Name == "" {
		return nil, newValidationError("location name must not be blank")
	}
	if err := s.db.Create(&location).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// DeleteLocation removes a location. Requests keep their location_id;
// reads tolerate the dangling reference.
func (s *BusinessService) DeleteLocation(businessID, id uint) error {
	result := s.db.Where("business_id = ?", businessID).Delete(&models.Location{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListDepartments returns all departments of a business.
func (s *BusinessService) ListDepartments(businessID uint) ([]models.Department, error) {
	var departments []models.Department
	err := s.db.Where("business_id = ?", businessID).Order("name ASC").Find(&departments).Error
	return departments, err
}

// CreateDepartment adds a department.
func (s *BusinessService) CreateDepartment(businessID uint, req *CreateDepartmentRequest) (*models.Department, error) {
	department := models.Department{
		BusinessID: businessID,
		Name:       strings.TrimSpace(req.Name),
	}
	if department.Name == "" {
		return nil, newValidationError("department name must not be blank")
	}
	if err := s.db.Create(&department).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

// DeleteDepartment removes a department.
func (s *BusinessService) DeleteDepartment(businessID, id uint) error {
	result := s.db.Where("business_id = ?", businessID).Delete(&models.Department{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
