// Package mail sends transactional mail through a Postmark-compatible
// JSON API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hexa-center/book-a-room/internal/config"
	"github.com/hexa-center/book-a-room/internal/models"
	"go.uber.org/zap"
)

// Sender delivers invoice mail to customers.
type Sender struct {
	cfg    config.MailConfig
	client *http.Client
	logger *zap.Logger
}

// NewSender creates a new mail sender
func NewSender(cfg config.MailConfig, logger *zap.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

type message struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Bcc      string `json:"Bcc,omitempty"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
}

// SendInvoice mails the invoice notification to the customer. Failures
// are logged and returned; there is no retry.
func (s *Sender) SendInvoice(ctx context.Context, to string, inv *models.Invoice) error {
	s.logger.Info("Sending invoice mail",
		zap.String("invoice_number", inv.Number),
		zap.String("to", to))

	msg := message{
		From:     s.cfg.From,
		To:       to,
		Bcc:      s.cfg.BCC,
		Subject:  "Factuur " + inv.Number,
		HTMLBody: s.buildBody(inv),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal mail message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.APIBaseURL+"/email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", s.cfg.ServerToken)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("Failed to send invoice mail",
			zap.String("invoice_number", inv.Number), zap.Error(err))
		return fmt.Errorf("failed to send invoice mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("Invoice mail rejected",
			zap.String("invoice_number", inv.Number),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return fmt.Errorf("invoice mail rejected with status %d", resp.StatusCode)
	}

	s.logger.Info("Invoice mail sent", zap.String("invoice_number", inv.Number))
	return nil
}

func (s *Sender) buildBody(inv *models.Invoice) string {
	return fmt.Sprintf(
		"Dear customer,<br /><br />Attached you will find your invoice %s.<br /><br />Kind regards,<br /><br />Team %s",
		inv.Number, inv.Company.Name)
}
