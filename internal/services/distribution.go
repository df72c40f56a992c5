package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/repustack/repustack/backend/internal/models"
	"github.com/repustack/repustack/backend/pkg/logger"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	// maxConcurrentSends bounds the fan-out so a large recipient set
	// does not overwhelm the channel provider.
	maxConcurrentSends = 8
	// perSendTimeout caps a single delivery attempt; a timeout counts
	// as a failure in the distribution result.
	perSendTimeout = 15 * time.Second
)

// DistributionResult folds per-recipient outcomes into counts.
// SuccessCount + FailureCount always equals the recipient count.
// Partial failure is a result, not an error.
type DistributionResult struct {
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
}

type DistributionService struct {
	db       *gorm.DB
	registry *SenderRegistry
	baseURL  string
}

func NewDistributionService(db *gorm.DB, registry *SenderRegistry, publicBaseURL string) *DistributionService {
	return &DistributionService{
		db:       db,
		registry: registry,
		baseURL:  strings.TrimRight(publicBaseURL, "/"),
	}
}

// Distribute fans a request out to one message per recipient. Every
// send is attempted regardless of earlier failures; each outcome is
// captured individually and folded into the result. Distribution does
// not touch the request's status; the caller decides whether to mark
// it sent.
func (s *DistributionService) Distribute(ctx context.Context, request *models.FeedbackRequest) (*DistributionResult, error) {
	var template models.FeedbackTemplate
	if err := s.db.First(&template, request.TemplateID).Error; err != nil {
		return nil, fmt.Errorf("template for request %d not found: %w", request.ID, err)
	}

	var business models.Business
	if err := s.db.First(&business, request.BusinessID).Error; err != nil {
		return nil, fmt.Errorf("business for request %d not found: %w", request.ID, err)
	}

	var recipients []models.RequestRecipient
	if err := s.db.Preload("Customer").Where("request_id = ?", request.ID).Find(&recipients).Error; err != nil {
		return nil, err
	}

	sender, err := s.registry.For(request.Channel)
	if err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/f/%s", s.baseURL, request.Token)

	var (
		mu     sync.Mutex
		result DistributionResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSends)

	for _, recipient := range recipients {
		customer := recipient.Customer
		if customer == nil {
			mu.Lock()
			result.FailureCount++
			mu.Unlock()
			continue
		}

		g.Go(func() error {
			msg := s.buildMessage(&business, &template, customer, request.Channel, link)

			sendCtx, cancel := context.WithTimeout(gctx, perSendTimeout)
			defer cancel()

			err := sender.Send(sendCtx, msg)

			mu.Lock()
			if err != nil {
				result.FailureCount++
			} else {
				result.SuccessCount++
			}
			mu.Unlock()

			if err != nil {
				logger.Warnf("[Distribution] request=%d customer=%d channel=%s: %v",
					request.ID, customer.ID, request.Channel, err)
			}
			// Individual failures are folded into the result, never
			// propagated: distribution is fire-and-await-all.
			return nil
		})
	}

	g.Wait()

	logger.Infof("[Distribution] request=%d delivered=%d failed=%d",
		request.ID, result.SuccessCount, result.FailureCount)
	return &result, nil
}

// buildMessage renders the channel message for one recipient.
func (s *DistributionService) buildMessage(business *models.Business, template *models.FeedbackTemplate, customer *models.Customer, channel models.Channel, link string) *OutboundMessage {
	supportContact := business.SupportEmail
	if supportContact == "" {
		supportContact = business.SupportPhone
	}

	statement := applyPlaceholders(template.Statement, map[string]string{
		"customer_name":   customer.Name,
		"business_name":   business.Name,
		"support_contact": supportContact,
		"link":            link,
	})

	msg := &OutboundMessage{
		Channel:  channel,
		ToName:   customer.Name,
		FormLink: link,
	}

	switch channel {
	case models.ChannelEmail:
		msg.To = customer.Email
		msg.Subject = fmt.Sprintf("%s would like your feedback", business.Name)
		msg.Body = s.buildEmailBody(business, template, customer, statement, link)
	default:
		// SMS and WhatsApp share a short text rendering.
		msg.To = customer.Phone
		msg.Body = s.buildTextBody(business, customer, statement, link)
	}

	return msg
}

// buildEmailBody renders the HTML email honoring the template's
// branding flags.
func (s *DistributionService) buildEmailBody(business *models.Business, template *models.FeedbackTemplate, customer *models.Customer, statement, link string) string {
	var sb strings.Builder

	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")

	if template.ShowLogo && template.LogoURL != "" {
		sb.WriteString(fmt.Sprintf("<p><img src=\"%s\" alt=\"%s\" style=\"max-height: 64px;\"></p>", template.LogoURL, business.Name))
	}

	sb.WriteString(fmt.Sprintf("<h2>Hi %s,</h2>", customer.Name))

	if template.ShowStatement && statement != "" {
		sb.WriteString(fmt.Sprintf("<p>%s</p>", statement))
	} else {
		sb.WriteString(fmt.Sprintf("<p>%s would love to hear about your experience.</p>", business.Name))
	}

	sb.WriteString(fmt.Sprintf("<p><a href=\"%s\" style=\"background: #2563eb; color: #fff; padding: 10px 20px; border-radius: 4px; text-decoration: none;\">Share your feedback</a></p>", link))

	if business.SupportEmail != "" {
		sb.WriteString(fmt.Sprintf("<p style=\"color: #888; font-size: 12px;\">Questions? Reach us at %s</p>", business.SupportEmail))
	}

	sb.WriteString(fmt.Sprintf("<hr><p style=\"color: #888; font-size: 12px;\">Sent by %s via RepuStack</p>", business.Name))
	sb.WriteString("</body></html>")

	return sb.String()
}

// buildTextBody renders the short-message variant used by SMS and WhatsApp.
func (s *DistributionService) buildTextBody(business *models.Business, customer *models.Customer, statement, link string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Hi %s! ", customer.Name))
	if statement != "" {
		sb.WriteString(statement)
	} else {
		sb.WriteString(fmt.Sprintf("%s would love to hear about your experience.", business.Name))
	}
	sb.WriteString(" ")
	sb.WriteString(link)

	return sb.String()
}

// applyPlaceholders substitutes {{name}} markers in template text.
func applyPlaceholders(text string, values map[string]string) string {
	for key, value := range values {
		text = strings.ReplaceAll(text, "{{"+key+"}}", value)
	}
	return text
}
