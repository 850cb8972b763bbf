// Package apiclient - HTTP-клиенты edge-шлюза к backend API.
// Клиент привязан к сессии: bearer-токен берется из нее на каждый запрос,
// а протокол 401+refresh обновляет пару токенов прямо в сессии.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"artnuggets/internal/edge/session"
	"artnuggets/internal/logger"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrSessionExpired - refresh не удался или refresh-токена нет;
	// сессия уже сброшена, вызывающий код перенаправляет на логин.
	ErrSessionExpired = errors.New("session expired")
)

// APIError - не-2xx ответ backend'а, который не удалось погасить refresh'ем.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Body)
}

const (
	backendTimeout = 10 * time.Second
	adminTimeout   = 30 * time.Second

	maxReadAttempts  = 3
	readBackoffBase  = 1 * time.Second
	readBackoffCap   = 30 * time.Second
	maxResponseBytes = 8 << 20
)

// Refresher коалесцирует конкурентные refresh'ы одной сессии: из двух
// одновременных 401 backend увидит ровно один POST /auth/refresh.
type Refresher struct {
	baseURL string
	client  *http.Client
	group   singleflight.Group
}

func NewRefresher(baseURL string) *Refresher {
	return &Refresher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: backendTimeout},
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Refresh обновляет пару токенов сессии. Любой исход, кроме успешного
// обмена, сбрасывает сессию и возвращает ErrSessionExpired.
func (r *Refresher) Refresh(ctx context.Context, sess *session.Session) error {
	_, err, _ := r.group.Do(sess.ID(), func() (interface{}, error) {
		return nil, r.doRefresh(ctx, sess)
	})
	return err
}

func (r *Refresher) doRefresh(ctx context.Context, sess *session.Session) error {
	refreshToken := sess.Tokens().RefreshToken
	if refreshToken == "" {
		sess.Logout()
		return ErrSessionExpired
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/auth/refresh", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		sess.Logout()
		return ErrSessionExpired
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Token refresh rejected by backend", "status", resp.StatusCode)
		sess.Logout()
		return ErrSessionExpired
	}

	var tokens refreshResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&tokens); err != nil {
		sess.Logout()
		return ErrSessionExpired
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		sess.Logout()
		return ErrSessionExpired
	}

	sess.UpdateTokens(session.Tokens{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
	})
	return nil
}

// Client - клиент backend API от имени одной сессии.
type Client struct {
	baseURL   string
	http      *http.Client
	sess      *session.Session
	refresher *Refresher
}

// NewBackendClient - клиент обычных вызовов backend'а (таймаут 10s).
func NewBackendClient(baseURL string, sess *session.Session, refresher *Refresher) *Client {
	return &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: backendTimeout},
		sess:      sess,
		refresher: refresher,
	}
}

// NewAdminClient - клиент админских вызовов; дашборд агрегирует
// статистику и может отвечать дольше, поэтому таймаут 30s.
func NewAdminClient(baseURL string, sess *session.Session, refresher *Refresher) *Client {
	return &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: adminTimeout},
		sess:      sess,
		refresher: refresher,
	}
}

func (c *Client) Session() *session.Session {
	return c.sess
}

// request описывает один вызов backend'а; body может переигрываться,
// поэтому хранится байтами, а не Reader'ом.
type request struct {
	method      string
	path        string
	body        []byte
	contentType string
}

// Do выполняет запрос с бюджетом ровно одного повтора после refresh'а:
// первый 401 запускает (коалесцированный) refresh и единственный replay,
// второй 401 означает истекшую сессию.
func (c *Client) Do(ctx context.Context, req request, out interface{}) error {
	return c.do(ctx, req, out, 1)
}

func (c *Client) do(ctx context.Context, req request, out interface{}, retryBudget int) error {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if retryBudget <= 0 {
			c.sess.Logout()
			return ErrSessionExpired
		}
		if err := c.refresher.Refresh(ctx, c.sess); err != nil {
			return err
		}
		return c.do(ctx, req, out, retryBudget-1)
	}

	return decodeResponse(resp, out)
}

// Get - читающий вызов с повтором сетевых и 5xx ошибок: до 3 попыток
// с экспоненциальной паузой от 1s, потолок 30s.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	req := request{method: http.MethodGet, path: path}

	var lastErr error
	delay := readBackoffBase
	for attempt := 0; attempt < maxReadAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > readBackoffCap {
				delay = readBackoffCap
			}
		}

		lastErr = c.Do(ctx, req, out)
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) {
			return lastErr
		}
		logger.Warn("Transient backend error, retrying", "path", path, "attempt", attempt+1, "error", lastErr)
	}
	return lastErr
}

// PostJSON выполняет POST с JSON-телом.
func (c *Client) PostJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.Do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        payload,
		contentType: "application/json",
	}, out)
}

// PatchJSON выполняет PATCH с JSON-телом.
func (c *Client) PatchJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.Do(ctx, request{
		method:      http.MethodPatch,
		path:        path,
		body:        payload,
		contentType: "application/json",
	}, out)
}

// Delete выполняет DELETE без тела.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, request{method: http.MethodDelete, path: path}, nil)
}

// PostMultipart выполняет POST с уже собранным multipart-телом.
func (c *Client) PostMultipart(ctx context.Context, path string, body []byte, contentType string, out interface{}) error {
	return c.Do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: contentType,
	}, out)
}

func (c *Client) buildRequest(ctx context.Context, req request) (*http.Request, error) {
	var bodyReader io.Reader
	if req.body != nil {
		bodyReader = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, bodyReader)
	if err != nil {
		return nil, err
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if token := c.sess.Tokens().AccessToken; token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}

func decodeResponse(resp *http.Response, out interface{}) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func isTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	if errors.Is(err, ErrSessionExpired) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Оставшиеся ошибки - сетевые
	return true
}
