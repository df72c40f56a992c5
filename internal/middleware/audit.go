package middleware

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/services"
)

// maxAuditBodyBytes caps the request body snippet stored with an audit row.
const maxAuditBodyBytes = 2000

// routeModules maps the first API path segment to the activity log
// module name. Segments not listed here fall back to the raw segment.
var routeModules = map[string]string{
	"templates":     "template",
	"questions":     "template",
	"customers":     "customer",
	"requests":      "request",
	"answers":       "sentiment",
	"sentiment":     "sentiment",
	"business":      "business",
	"auth":          "auth",
	"activity-logs": "activity-log",
}

var sensitiveJSONKeys = regexp.MustCompile(`(?i)"(password|old_password|new_password|secret|token|api_key)"\s*:\s*"[^"]*"`)

// AuditLog records every write operation (POST/PUT/DELETE) under the
// authenticated API to the activity log, with the request body masked
// for credential-like fields.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != "POST" && method != "PUT" && method != "DELETE" {
			c.Next()
			return
		}

		var bodySnippet string
		if c.Request.Body != nil {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			bodySnippet = maskSensitiveFields(string(bodyBytes))
			if len(bodySnippet) > maxAuditBodyBytes {
				bodySnippet = bodySnippet[:maxAuditBodyBytes] + "...[truncated]"
			}
		}

		c.Next()

		status := c.Writer.Status()
		userID := GetUserID(c)

		var uid *uint
		if userID > 0 {
			uid = &userID
		}

		outcome := "failed"
		if status >= 200 && status < 300 {
			outcome = "ok"
		}
		message := fmt.Sprintf("%s %s %s (%s)", GetUsername(c), method, c.Request.URL.Path, outcome)

		services.LogInfo(
			auditModule(c.FullPath()),
			auditAction(method),
			message,
			uid,
			c.ClientIP(),
			c.Request.UserAgent(),
			map[string]interface{}{
				"method": method,
				"path":   c.Request.URL.Path,
				"status": status,
				"body":   bodySnippet,
			},
		)
	}
}

// auditModule derives the activity log module from a route pattern like
// "/api/requests/:id/distribute".
func auditModule(fullPath string) string {
	segment := strings.TrimPrefix(fullPath, "/api/")
	if i := strings.Index(segment, "/"); i >= 0 {
		segment = segment[:i]
	}
	if segment == "" {
		return "unknown"
	}
	if module, ok := routeModules[segment]; ok {
		return module
	}
	return segment
}

func auditAction(method string) string {
	switch method {
	case "POST":
		return "create"
	case "PUT":
		return "update"
	case "DELETE":
		return "delete"
	}
	return strings.ToLower(method)
}

// maskSensitiveFields blanks string values for credential-like JSON keys.
func maskSensitiveFields(body string) string {
	return sensitiveJSONKeys.ReplaceAllStringFunc(body, func(match string) string {
		colon := strings.Index(match, ":")
		return match[:colon+1] + ` "***"`
	})
}
