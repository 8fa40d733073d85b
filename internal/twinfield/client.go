package twinfield

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hexa-center/book-a-room/internal/config"
	"go.uber.org/zap"
)

// TokenSource provides the access token for API calls.
type TokenSource interface {
	CurrentToken() (string, error)
}

// Client posts ProcessXmlString requests to the office's cluster. Every
// call first validates the token, which also yields the cluster URL.
type Client struct {
	cfg    config.TwinfieldConfig
	tokens TokenSource
	client *http.Client
	logger *zap.Logger
}

// NewClient creates a new accounting API client
func NewClient(cfg config.TwinfieldConfig, tokens TokenSource, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		tokens: tokens,
		client: &http.Client{Timeout: cfg.APITimeout},
		logger: logger,
	}
}

const soapEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:twin="http://www.twinfield.com/">
    <soapenv:Header>
        <twin:Header>
            <twin:AccessToken>%s</twin:AccessToken>
            <twin:CompanyCode>%s</twin:CompanyCode>
        </twin:Header>
    </soapenv:Header>
    <soapenv:Body>
        <twin:ProcessXmlString>
            <twin:xmlRequest><![CDATA[%s]]></twin:xmlRequest>
        </twin:ProcessXmlString>
    </soapenv:Body>
</soapenv:Envelope>`

type soapResponse struct {
	XMLName xml.Name `xml:"Envelope"`
	Result  string   `xml:"Body>ProcessXmlStringResponse>ProcessXmlStringResult"`
}

// clusterURL validates the access token and returns the cluster base URL
// for the office.
func (c *Client) clusterURL(ctx context.Context, accessToken string) (string, error) {
	endpoint := c.cfg.AuthBaseURL +
		"/auth/authentication/connect/accesstokenvalidation?token=" +
		url.QueryEscape(accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build validation request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token validation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token validation rejected with status %d", resp.StatusCode)
	}

	var validation map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&validation); err != nil {
		return "", fmt.Errorf("failed to decode validation response: %w", err)
	}
	cluster, _ := validation["twf.clusterUrl"].(string)
	if cluster == "" {
		return "", fmt.Errorf("validation response carries no cluster url")
	}
	return cluster, nil
}

// ProcessXML sends one request document through ProcessXmlString and
// returns the inner result XML.
func (c *Client) ProcessXML(ctx context.Context, request string) (string, error) {
	accessToken, err := c.tokens.CurrentToken()
	if err != nil {
		return "", err
	}

	cluster, err := c.clusterURL(ctx, accessToken)
	if err != nil {
		return "", err
	}

	envelope := fmt.Sprintf(soapEnvelope, accessToken, c.cfg.Office, request)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		cluster+"/webservices/processxml.asmx", bytes.NewBufferString(envelope))
	if err != nil {
		return "", fmt.Errorf("failed to build soap request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("SOAPAction", "http://www.twinfield.com/ProcessXmlString")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("soap request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read soap response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Soap request rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", fmt.Errorf("soap request rejected with status %d", resp.StatusCode)
	}

	var parsed soapResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse soap envelope: %w", err)
	}
	return parsed.Result, nil
}

// escape makes a value safe for embedding in a request document.
func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
