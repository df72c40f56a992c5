package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/repustack/repustack/backend/internal/config"
	"github.com/repustack/repustack/backend/internal/models"
	"github.com/repustack/repustack/backend/pkg/logger"
)

// OutboundMessage is one rendered message addressed to a single recipient.
type OutboundMessage struct {
	Channel  models.Channel
	To       string // email address or phone number, per channel
	ToName   string
	Subject  string // email only
	Body     string
	FormLink string
}

// ChannelSender delivers one message over a specific channel. The send
// outcome is opaque beyond success or failure.
type ChannelSender interface {
	Send(ctx context.Context, msg *OutboundMessage) error
}

// SenderRegistry resolves the sender for a channel.
type SenderRegistry struct {
	senders map[models.Channel]ChannelSender
}

// NewSenderRegistry wires the configured sender for each channel.
func NewSenderRegistry(cfg *config.Config) *SenderRegistry {
	return &SenderRegistry{
		senders: map[models.Channel]ChannelSender{
			models.ChannelEmail:    NewEmailSender(&cfg.SMTP),
			models.ChannelSMS:      NewSMSSender(&cfg.SMS),
			models.ChannelWhatsApp: NewWhatsAppSender(&cfg.WhatsApp),
		},
	}
}

// For returns the sender for a channel.
func (r *SenderRegistry) For(channel models.Channel) (ChannelSender, error) {
	sender, ok := r.senders[channel]
	if !ok {
		return nil, fmt.Errorf("no sender configured for channel %q", channel)
	}
	return sender, nil
}

// Register replaces the sender for a channel. Used by tests and by
// deployments with custom providers.
func (r *SenderRegistry) Register(channel models.Channel, sender ChannelSender) {
	r.senders[channel] = sender
}

// --- Email (SMTP) ---

type EmailSender struct {
	cfg *config.SMTPConfig
}

func NewEmailSender(cfg *config.SMTPConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) Send(ctx context.Context, msg *OutboundMessage) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("SMTP host not configured")
	}
	if msg.To == "" {
		return fmt.Errorf("recipient has no email address")
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	headers := map[string]string{
		"From":         from,
		"To":           msg.To,
		"Subject":      msg.Subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(msg.Body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	done := make(chan error, 1)
	go func() {
		if s.cfg.UseTLS {
			done <- s.sendTLS(addr, auth, from, msg.To, message.String())
		} else {
			done <- smtp.SendMail(addr, auth, from, []string{msg.To}, []byte(message.String()))
		}
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Warnf("[Email] send to %s failed: %v", msg.To, err)
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *EmailSender) sendTLS(addr string, auth smtp.Auth, from, to, message string) error {
	tlsConfig := &tls.Config{
		ServerName: s.cfg.Host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return err
	}
	return w.Close()
}

// --- SMS (HTTP gateway) ---

type SMSSender struct {
	cfg *config.SMSConfig
}

func NewSMSSender(cfg *config.SMSConfig) *SMSSender {
	return &SMSSender{cfg: cfg}
}

func (s *SMSSender) Send(ctx context.Context, msg *OutboundMessage) error {
	if s.cfg.APIURL == "" {
		return fmt.Errorf("SMS gateway not configured")
	}
	if msg.To == "" {
		return fmt.Errorf("recipient has no phone number")
	}

	payload := map[string]interface{}{
		"to":   msg.To,
		"from": s.cfg.Sender,
		"body": msg.Body,
	}
	return postJSON(ctx, s.cfg.APIURL, s.cfg.APIKey, payload)
}

// --- WhatsApp (Business API) ---

type WhatsAppSender struct {
	cfg *config.WhatsAppConfig
}

func NewWhatsAppSender(cfg *config.WhatsAppConfig) *WhatsAppSender {
	return &WhatsAppSender{cfg: cfg}
}

func (s *WhatsAppSender) Send(ctx context.Context, msg *OutboundMessage) error {
	if s.cfg.APIURL == "" {
		return fmt.Errorf("WhatsApp API not configured")
	}
	if msg.To == "" {
		return fmt.Errorf("recipient has no phone number")
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                msg.To,
		"type":              "text",
		"text": map[string]string{
			"body": msg.Body,
		},
	}

	url := strings.TrimRight(s.cfg.APIURL, "/")
	if s.cfg.PhoneID != "" {
		url = fmt.Sprintf("%s/%s/messages", url, s.cfg.PhoneID)
	}
	return postJSON(ctx, url, s.cfg.AccessToken, payload)
}

func postJSON(ctx context.Context, url, bearer string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
