package cli

import (
	"bytes"
	"catalog/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// APIError is a non-2xx answer from the catalog API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client is the HTTP client for the catalog admin API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client; token may be empty for read-only use.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// newRequest builds an authorized request. A non-nil body is sent as JSON
// unless it is already an io.Reader.
func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var bodyReader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case io.Reader:
		bodyReader = b
	default:
		jsonData, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends req and decodes a 2xx JSON answer into result.
func (c *Client) do(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		var payload struct {
			Error string `json:"error"`
		}
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(bodyBytes, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = string(bytes.TrimSpace(bodyBytes))
		}
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, body, result interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.do(req, result)
}

// Health is the health endpoint payload.
type Health struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck pings the health endpoint
func (c *Client) HealthCheck(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.call(ctx, http.MethodGet, "/api/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Products API

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.call(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct posts a multipart form; imagePath is optional.
func (c *Client) CreateProduct(ctx context.Context, fields map[string]string, imagePath string) (*models.Product, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		part, err := w.CreateFormFile("image", filepath.Base(imagePath))
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/products", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var p models.Product
	if err := c.do(req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct sends a JSON patch; absent fields keep their stored values.
func (c *Client) UpdateProduct(ctx context.Context, id uint, patch map[string]interface{}) (*models.Product, error) {
	var p models.Product
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/api/products/%d", id), patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil, nil)
}

// Config API

func (c *Client) GetConfig(ctx context.Context) (map[string]json.RawMessage, error) {
	cfg := map[string]json.RawMessage{}
	if err := c.call(ctx, http.MethodGet, "/api/config", nil, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Client) GetConfigKey(ctx context.Context, key string) (json.RawMessage, error) {
	var v json.RawMessage
	if err := c.call(ctx, http.MethodGet, "/api/config/"+url.PathEscape(key), nil, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Client) PutConfig(ctx context.Context, key string, value json.RawMessage) error {
	body := map[string]json.RawMessage{"value": value}
	return c.call(ctx, http.MethodPut, "/api/config/"+url.PathEscape(key), body, nil)
}

func (c *Client) BulkUpdateConfig(ctx context.Context, updates map[string]json.RawMessage) error {
	body := map[string]interface{}{"updates": updates}
	return c.call(ctx, http.MethodPost, "/api/config/bulk", body, nil)
}

func (c *Client) DeleteConfig(ctx context.Context, key string) error {
	return c.call(ctx, http.MethodDelete, "/api/config/"+url.PathEscape(key), nil, nil)
}

// Operations API

// AuditPage is one page of the audit trail.
type AuditPage struct {
	Data     []models.AuditLog `json:"data"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// AuditLog fetches a page of audit entries; filter may carry entity_type, entity_id and action.
func (c *Client) AuditLog(ctx context.Context, filter url.Values, page, pageSize int) (*AuditPage, error) {
	q := url.Values{}
	for k, v := range filter {
		q[k] = v
	}
	q.Set("page", fmt.Sprint(page))
	q.Set("page_size", fmt.Sprint(pageSize))

	var result AuditPage
	if err := c.call(ctx, http.MethodGet, "/api/audit-log?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ErrorLogs(ctx context.Context) ([]models.ErrorLog, error) {
	var logs []models.ErrorLog
	if err := c.call(ctx, http.MethodGet, "/api/error-logs", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) ClearErrorLogs(ctx context.Context) error {
	return c.call(ctx, http.MethodDelete, "/api/error-logs", nil, nil)
}

func (c *Client) ListAdmins(ctx context.Context) ([]models.AdminUser, error) {
	var admins []models.AdminUser
	if err := c.call(ctx, http.MethodGet, "/api/admins", nil, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (c *Client) UpsertAdmin(ctx context.Context, email string, active bool) (*models.AdminUser, error) {
	var admin models.AdminUser
	body := map[string]interface{}{"email": email, "is_active": active}
	if err := c.call(ctx, http.MethodPost, "/api/admins", body, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// productSource lets the storefront catalog browse through the API.
type productSource struct{ c *Client }

func (s productSource) List(ctx context.Context) ([]models.Product, error) {
	return s.c.ListProducts(ctx)
}
