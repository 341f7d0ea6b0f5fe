// Package mail implements the email transport adapter. A Mailer routes the
// single logical Send operation to the configured provider: mock (log only),
// web3forms, or a custom JSON endpoint.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/subash43e/taskapp/internal/core/ports"
)

type Provider string

const (
	ProviderMock      Provider = "mock"
	ProviderWeb3Forms Provider = "web3forms"
	ProviderCustom    Provider = "custom"

	web3FormsEndpoint = "https://api.web3forms.com/submit"
)

var (
	ErrMissingAccessKey = errors.New("web3forms access key not configured")
	ErrMissingEndpoint  = errors.New("custom API endpoint not configured")
)

type Config struct {
	Provider    Provider
	AccessKey   string // web3forms
	APIEndpoint string // custom
}

type Mailer struct {
	mu      sync.RWMutex
	config  Config
	enabled bool

	client *http.Client
	logger *zap.Logger
}

var _ ports.Mailer = (*Mailer)(nil)

func New(cfg Config, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.L()
	}
	return &Mailer{
		config:  cfg,
		enabled: true,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// Configure swaps the provider configuration; in-flight sends keep the
// configuration they started with.
func (m *Mailer) Configure(cfg Config) {
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
}

func (m *Mailer) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Configured reports whether a real (non-mock) provider is selected.
func (m *Mailer) Configured() bool {
	return m.Config().Provider != ProviderMock && m.Config().Provider != ""
}

// SetEnabled toggles email delivery as a whole. While disabled, Send drops
// messages without contacting any provider.
func (m *Mailer) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()
}

func (m *Mailer) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// Send delivers one email. The bool reports whether the provider accepted
// the message; the mock provider logs and always accepts.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) (bool, error) {
	if !m.Enabled() {
		m.logger.Info("email notifications disabled, dropping message",
			zap.String("to", to), zap.String("subject", subject))
		return false, nil
	}

	cfg := m.Config()
	switch cfg.Provider {
	case ProviderWeb3Forms:
		return m.sendViaWeb3Forms(ctx, cfg, to, subject, body)
	case ProviderCustom:
		return m.sendViaCustomAPI(ctx, cfg, to, subject, body)
	default:
		m.logger.Info("email mock send",
			zap.String("to", to), zap.String("subject", subject))
		return true, nil
	}
}

func (m *Mailer) sendViaWeb3Forms(ctx context.Context, cfg Config, to, subject, body string) (bool, error) {
	if cfg.AccessKey == "" {
		return false, ErrMissingAccessKey
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for field, value := range map[string]string{
		"access_key": cfg.AccessKey,
		"email":      to,
		"subject":    subject,
		"message":    body,
	} {
		if err := form.WriteField(field, value); err != nil {
			return false, err
		}
	}
	if err := form.Close(); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, web3FormsEndpoint, &buf)
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := m.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return false, fmt.Errorf("decode web3forms response: %w", err)
	}
	if !result.Success {
		m.logger.Warn("web3forms rejected email", zap.String("message", result.Message))
	}
	return result.Success, nil
}

func (m *Mailer) sendViaCustomAPI(ctx context.Context, cfg Config, to, subject, body string) (bool, error) {
	if cfg.APIEndpoint == "" {
		return false, ErrMissingEndpoint
	}

	payload, err := json.Marshal(map[string]string{
		"to":      to,
		"subject": subject,
		"message": body,
		"html":    strings.ReplaceAll(body, "\n", "<br>"),
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.APIEndpoint, bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}
