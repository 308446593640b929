package adapter

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/workix/fieldsync/internal/config"
	"github.com/workix/fieldsync/models"
)

// HTTPClientConfig collects the settings the HTTP transport needs from the
// agent configuration.
type HTTPClientConfig struct {
	BaseURL string
	HashKey string
	Token   string
	Timeout time.Duration
}

type httpRemoteTransport struct {
	client  *resty.Client
	hashKey string

	mu    sync.RWMutex
	token string
}

// NewHTTPRemoteTransport constructs the resty-backed [RemoteTransport]
// against the Workix backend API.
func NewHTTPRemoteTransport(cfg HTTPClientConfig) RemoteTransport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	t := &httpRemoteTransport{client: cli, hashKey: cfg.HashKey}
	t.SetToken(cfg.Token)
	return t
}

// NewHTTPRemoteTransportFromConfig wires the transport from the structured
// agent configuration.
func NewHTTPRemoteTransportFromConfig(adapterCfg config.Adapter, appCfg config.App) RemoteTransport {
	return NewHTTPRemoteTransport(HTTPClientConfig{
		BaseURL: adapterCfg.BaseURL,
		HashKey: appCfg.HashKey,
		Token:   appCfg.AuthToken,
		Timeout: adapterCfg.RequestTimeout,
	})
}

// SetToken replaces the bearer token used on subsequent requests.
func (h *httpRemoteTransport) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token returns the current bearer token.
func (h *httpRemoteTransport) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// DeviceID returns the subject claim of the configured token, without
// verifying the signature (verification is the server's job). Empty when no
// token is set or the token does not parse.
func (h *httpRemoteTransport) DeviceID() string {
	token := h.Token()
	if token == "" {
		return ""
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

func (h *httpRemoteTransport) Execute(ctx context.Context, m models.Mutation) error {
	req := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Idempotency-Key", m.RequestID)

	if m.Method != models.MethodDelete {
		req.SetBody(json.RawMessage(m.Body))
		if hash := computeTransportHash(m.Body, h.hashKey); hash != "" {
			req.SetHeader("HashSHA256", hash)
		}
	}

	url := "/api/" + strings.TrimLeft(m.Target, "/")

	var resp *resty.Response
	var err error
	switch m.Method {
	case models.MethodCreate:
		resp, err = req.Post(url)
	case models.MethodUpdate:
		resp, err = req.Put(url)
	case models.MethodDelete:
		resp, err = req.Delete(url)
	default:
		return fmt.Errorf("%w: unknown mutation method %q", ErrClientRejection, m.Method)
	}
	if err != nil {
		return fmt.Errorf("%w: execute %s %s: %w", ErrConnectivity, m.Method, m.Target, err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteTransport) FetchSnapshots(ctx context.Context, entityType string, updatedSince time.Time, limit int) ([]models.EntitySnapshot, error) {
	req := h.authedRequest(ctx)
	if !updatedSince.IsZero() {
		req.SetQueryParam("updated_since", strconv.FormatInt(updatedSince.UnixMilli(), 10))
	}
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	resp, err := req.Get("/api/sync/" + entityType)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s snapshots: %w", ErrConnectivity, entityType, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var snapshots []models.EntitySnapshot
	if err = json.Unmarshal(resp.Body(), &snapshots); err != nil {
		return nil, fmt.Errorf("decode %s snapshots: %w", entityType, err)
	}

	return snapshots, nil
}

func (h *httpRemoteTransport) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// mapHTTPError folds the response status into the transport error taxonomy:
// 2xx is success, 4xx a permanent client rejection, everything else
// transient.
func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}

	switch {
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: http %d: %s", ErrUnauthorized, code, body)
	case code >= http.StatusBadRequest && code < http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrClientRejection, code, body)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrTransient, code, body)
	}
}

func computeTransportHash(payload []byte, key string) string {
	if key == "" {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
