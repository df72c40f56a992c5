package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/utils"
	"github.com/repustack/repustack/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("middleware-test-secret")
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthRequired())
	r.GET("/api/templates", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     GetUserID(c),
			"business_id": GetBusinessID(c),
			"role":        GetRole(c),
		})
	})
	return r
}

func TestAuthRequired_Rejections(t *testing.T) {
	router := protectedRouter()

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"bearer without token", "Bearer"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/api/templates", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, expected 401", w.Code)
			}

			var resp response.Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("rejection body is not the envelope: %v", err)
			}
			if resp.Success {
				t.Error("rejection must report success=false")
			}
		})
	}
}

func TestAuthRequired_ClaimsIntoContext(t *testing.T) {
	token, err := utils.GenerateBusinessToken(42, 9, "owner", "admin", 24)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/templates", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", w.Code)
	}

	var got struct {
		UserID     uint   `json:"user_id"`
		BusinessID uint   `json:"business_id"`
		Role       string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if got.UserID != 42 || got.BusinessID != 9 || got.Role != "admin" {
		t.Errorf("context claims = %+v", got)
	}
}

func TestAdminRequired(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"no role", "", http.StatusForbidden},
		{"regular user", "user", http.StatusForbidden},
		{"admin", "admin", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.role != "" {
					c.Set(ContextRole, tt.role)
				}
			})
			r.Use(AdminRequired())
			r.GET("/api/activity-logs", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/api/activity-logs", nil)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("role %q: status = %d, expected %d", tt.role, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestContextAccessors_MissingValues(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if GetUserID(c) != 0 || GetBusinessID(c) != 0 {
		t.Error("missing id values should read as 0")
	}
	if GetUsername(c) != "" || GetRole(c) != "" {
		t.Error("missing string values should read as empty")
	}

	c.Set(ContextUserID, uint(3))
	c.Set(ContextBusinessID, uint(8))
	c.Set(ContextUsername, "owner")

	if GetUserID(c) != 3 || GetBusinessID(c) != 8 || GetUsername(c) != "owner" {
		t.Error("set values did not round-trip through the accessors")
	}
}
