// Package generate produces the three-section lesson payload, either by
// asking a remote generation service (Client) or by prompting a language
// model directly (LessonGenerator).
package generate

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

	"github.com/gaurav-prasanna/lessonpipe/core"
)

const (
	// Generation of three sections routinely takes tens of seconds.
	defaultTimeout   = 3 * time.Minute
	defaultUserAgent = "LessonPipe/1.0 (https://github.com/gaurav-prasanna/lessonpipe)"

	fallbackMessage = "Error fetching content from server"
)

// ErrEmptyTopic is returned before any request when the topic is blank.
var ErrEmptyTopic = errors.New("topic must not be empty")

// RequestError is an upstream failure. Its message is the first available
// of the response's detail field, its message field, the transport error,
// or a fixed fallback.
type RequestError struct {
	Status  int
	Detail  string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return fallbackMessage
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Client requests generated content from a remote service.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a Client posting to url.
func NewClient(url string) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

type generateRequest struct {
	Topic      string          `json:"topic"`
	Difficulty core.Difficulty `json:"difficulty"`
}

// errorBody holds the structured error fields a failed response may carry.
// Detail may be a string or a list of validation errors.
type errorBody struct {
	Detail  any `json:"detail"`
	Message any `json:"message"`
}

// Generate posts {topic, difficulty} and decodes the returned payload.
func (c *Client) Generate(ctx context.Context, topic string, difficulty core.Difficulty) (core.Payload, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if difficulty == "" {
		difficulty = core.DefaultDifficulty
	}

	body, err := json.Marshal(generateRequest{Topic: topic, Difficulty: difficulty})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Status: resp.StatusCode, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, data)
	}

	var payload core.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &RequestError{Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return payload, nil
}

func statusError(status int, data []byte) *RequestError {
	e := &RequestError{
		Status: status,
		Err:    fmt.Errorf("request failed with status code %d", status),
	}
	var body errorBody
	if json.Unmarshal(data, &body) == nil {
		e.Detail = fieldText(body.Detail)
		e.Message = fieldText(body.Message)
	}
	return e
}

func fieldText(v any) string {
	if v == nil {
		return ""
	}
	return core.Stringify(v)
}
