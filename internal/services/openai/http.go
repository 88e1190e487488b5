package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/socialchef/sous/internal/errors"
	"github.com/socialchef/sous/internal/httpclient"
	"github.com/socialchef/sous/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Client talks to any OpenAI-compatible chat-completions endpoint.
type Client struct {
	name       string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL (for example https://api.openai.com/v1).
// name is used for tracing, metrics and error messages.
func NewClient(name, apiKey, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = httpclient.New(0)
	}
	return &Client{
		name:       name,
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) Name() string {
	return c.name
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string         `json:"message"`
		Type    string         `json:"type"`
		Code    StringOrNumber `json:"code"`
	} `json:"error"`
}

// StringOrNumber can unmarshal from JSON string or number
type StringOrNumber string

func (s *StringOrNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = StringOrNumber(str)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = StringOrNumber(strconv.FormatFloat(num, 'f', -1, 64))
	return nil
}

// APIError is a non-2xx answer from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Code       string
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s API error (status %d, code %s): %s", e.Provider, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// ChatCompletion sends one request and returns the first choice's content.
// Missing or empty content is a GENERATION_ERROR "empty response".
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	startTime := time.Now()
	status := "error"
	defer func() {
		attrs := metric.WithAttributes(
			attribute.String("provider", c.name),
			attribute.String("status", status),
		)
		metrics.ProviderCallDuration.Record(ctx, time.Since(startTime).Seconds(), attrs)
		metrics.ProviderCallsTotal.Add(ctx, 1, attrs)
	}()

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, c.name), http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.NewProviderError(fmt.Sprintf("%s request failed", c.name), "PROVIDER_UNREACHABLE", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewProviderError(fmt.Sprintf("%s response unreadable", c.name), "PROVIDER_UNREACHABLE", err)
	}
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode >= 400 {
		return "", errors.NewProviderError(fmt.Sprintf("%s request rejected", c.name), "PROVIDER_HTTP", parseAPIError(c.name, resp.StatusCode, respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", errors.NewProviderError(fmt.Sprintf("%s returned a malformed body", c.name), "PROVIDER_BAD_BODY", err)
	}

	if len(chatResp.Choices) == 0 || strings.TrimSpace(chatResp.Choices[0].Message.Content) == "" {
		return "", errors.NewGenerationError("empty response", "EMPTY_RESPONSE", nil)
	}

	return chatResp.Choices[0].Message.Content, nil
}

func parseAPIError(provider string, statusCode int, body []byte) *APIError {
	apiErr := &APIError{Provider: provider, StatusCode: statusCode}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		apiErr.Message = errResp.Error.Message
		apiErr.Code = string(errResp.Error.Code)
		apiErr.Type = errResp.Error.Type
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}
	return apiErr
}
