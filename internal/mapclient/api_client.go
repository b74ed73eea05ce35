package mapclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hellomap/internal/domain"
)

var ErrNetwork = errors.New("network error")

// APIError es una respuesta no exitosa de la API de mensajes.
type APIError struct {
	Status  int
	Message string
	Fields  []domain.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d: %s", e.Status, e.Message)
}

// Validation indica si la API rechazó el payload por validación.
func (e *APIError) Validation() bool {
	return e.Status == http.StatusBadRequest && len(e.Fields) > 0
}

// APIClient habla con /api/v1 por HTTP.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// Info devuelve el mensaje de liveness de la API.
func (c *APIClient) Info(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *APIClient) ListMessages(ctx context.Context) ([]domain.Message, error) {
	var out []domain.Message
	if err := c.do(ctx, http.MethodGet, "/messages", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Message{}
	}
	return out, nil
}

func (c *APIClient) CreateMessage(ctx context.Context, draft domain.MessageDraft) (domain.Message, error) {
	var out domain.Message
	if err := c.do(ctx, http.MethodPost, "/messages", draft, &out); err != nil {
		return domain.Message{}, err
	}
	return out, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var eb struct {
			Error  string              `json:"error"`
			Fields []domain.FieldError `json:"fields"`
		}
		if json.Unmarshal(respBody, &eb) == nil {
			if eb.Error != "" {
				apiErr.Message = eb.Error
			}
			apiErr.Fields = eb.Fields
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
