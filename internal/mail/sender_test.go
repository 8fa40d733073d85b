package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hexa-center/book-a-room/internal/config"
	"github.com/hexa-center/book-a-room/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendInvoice(t *testing.T) {
	var got message
	var gotToken string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/email", r.URL.Path)
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ErrorCode":0,"Message":"OK"}`))
	}))
	defer srv.Close()

	s := NewSender(config.MailConfig{
		ServerToken: "token-1",
		From:        "Hexa Center <noreply@hexa.center>",
		BCC:         "administration@hexa.center",
		APIBaseURL:  srv.URL,
	}, zap.NewNop())

	inv := &models.Invoice{
		Number:  "20240042",
		Company: models.CompanySnapshot{Name: "Hexa Center"},
	}

	err := s.SendInvoice(context.Background(), "guest@example.com", inv)
	require.NoError(t, err)

	assert.Equal(t, "token-1", gotToken)
	assert.Equal(t, "Hexa Center <noreply@hexa.center>", got.From)
	assert.Equal(t, "guest@example.com", got.To)
	assert.Equal(t, "administration@hexa.center", got.Bcc)
	assert.Equal(t, "Factuur 20240042", got.Subject)
	assert.Contains(t, got.HTMLBody, "Dear customer")
	assert.Contains(t, got.HTMLBody, "20240042")
	assert.Contains(t, got.HTMLBody, "Team Hexa Center")
}

func TestSendInvoiceRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"ErrorCode":300,"Message":"Invalid email"}`))
	}))
	defer srv.Close()

	s := NewSender(config.MailConfig{APIBaseURL: srv.URL}, zap.NewNop())

	err := s.SendInvoice(context.Background(), "bad", &models.Invoice{Number: "20240042"})
	assert.Error(t, err)
}
