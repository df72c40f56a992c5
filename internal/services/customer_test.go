package services

import (
	"errors"
	"testing"

	"github.com/repustack/repustack/backend/internal/models"
)

func TestCustomerAdd_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	service := NewCustomerService(db)

	first, err := service.Add(business.ID, &AddCustomerRequest{Name: "Alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("first add should assign an id")
	}

	_, err = service.Add(business.ID, &AddCustomerRequest{Name: "Alice Again", Email: "ALICE@example.com"})
	var dupErr *DuplicateError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if dupErr.Email != "alice@example.com" {
		t.Errorf("DuplicateError.Email = %q", dupErr.Email)
	}

	var count int64
	db.Model(&models.Customer{}).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 stored customer, got %d", count)
	}
}

func TestCustomerAdd_SameEmailDifferentBusiness(t *testing.T) {
	db := newTestDB(t)
	b1 := seedBusiness(t, db)
	b2 := models.Business{Name: "Other Shop"}
	if err := db.Create(&b2).Error; err != nil {
		t.Fatalf("seed second business: %v", err)
	}

	service := NewCustomerService(db)

	if _, err := service.Add(b1.ID, &AddCustomerRequest{Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("add to first business: %v", err)
	}
	if _, err := service.Add(b2.ID, &AddCustomerRequest{Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("same email under another business should be allowed: %v", err)
	}
}

func TestCustomerBatchCreate_ReportsDuplicates(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	seedCustomer(t, db, business.ID, "Existing", "existing@example.com")

	service := NewCustomerService(db)
	result, err := service.BatchCreate(business.ID, []CustomerCandidate{
		{Name: "New One", Email: "new1@example.com"},
		{Name: "Existing Again", Email: "existing@example.com"},
		{Name: "New Two", Email: "new2@example.com"},
	})
	if err != nil {
		t.Fatalf("batch create: %v", err)
	}

	if len(result.Created) != 2 {
		t.Errorf("expected 2 created, got %d", len(result.Created))
	}
	if len(result.Duplicates) != 1 {
		t.Fatalf("expected 1 duplicate, got %d", len(result.Duplicates))
	}
	if result.Duplicates[0].Email != "existing@example.com" {
		t.Errorf("unexpected duplicate %+v", result.Duplicates[0])
	}
}

func TestCustomerUpdate_EmailImmutable(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	customer := seedCustomer(t, db, business.ID, "Alice", "alice@example.com")

	service := NewCustomerService(db)
	phone := "555-0101"
	updated, err := service.Update(business.ID, customer.ID, &UpdateCustomerRequest{
		Name:  "Alice B",
		Phone: &phone,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Name != "Alice B" || updated.Phone != "555-0101" {
		t.Errorf("unexpected update result %+v", updated)
	}
	if updated.Email != "alice@example.com" {
		t.Errorf("email must not change, got %q", updated.Email)
	}
}

func TestCustomerDelete_GuardedByOpenRequests(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	template := seedTemplate(t, db, business.ID)
	customer := seedCustomer(t, db, business.ID, "Alice", "alice@example.com")

	requests := NewFeedbackRequestService(db)
	request, err := requests.Create(business.ID, 1, &CreateRequestRequest{
		TemplateID:  template.ID,
		Channel:     "email",
		CustomerIDs: []uint{customer.ID},
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	service := NewCustomerService(db)
	err = service.Delete(business.ID, customer.ID)
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("delete while referenced by a pending request should fail, got %v", err)
	}

	// Once the request is deleted, the customer can go.
	if err := requests.Delete(business.ID, request.ID); err != nil {
		t.Fatalf("delete request: %v", err)
	}
	if err := service.Delete(business.ID, customer.ID); err != nil {
		t.Fatalf("delete after request removal: %v", err)
	}
}

func TestResolveRecipients(t *testing.T) {
	created := []models.Customer{{ID: 3}, {ID: 4}, {ID: 2}}

	tests := []struct {
		name     string
		existing []uint
		created  []models.Customer
		want     []uint
	}{
		{"merge without overlap", []uint{1, 2}, []models.Customer{{ID: 3}}, []uint{1, 2, 3}},
		{"overlap collapsed", []uint{1, 2}, created, []uint{1, 2, 3, 4}},
		{"duplicate existing ids", []uint{5, 5, 6}, nil, []uint{5, 6}},
		{"empty inputs", nil, nil, []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRecipients(tt.existing, tt.created)
			if len(got) != len(tt.want) {
				t.Fatalf("ResolveRecipients = %v, expected %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ResolveRecipients[%d] = %d, expected %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@example.com ", "bob@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeEmail(tt.in); got != tt.want {
			t.Errorf("normalizeEmail(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
