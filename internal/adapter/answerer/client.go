// Package answerer provides the client for the upstream answer service,
// which streams answer chunks over SSE.
package answerer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/keji-green/lit-engine/internal/domain"
)

// Generator produces an answer for a question, chunk by chunk. Stream
// calls onChunk once per chunk in production order and returns nil only
// after the upstream signalled completion. An onChunk error stops
// production and is returned as-is.
type Generator interface {
	Stream(ctx context.Context, question string, priorQuestions []string, onChunk func(text string) error) error
}

// answerRequest is the request body sent to the answer service.
type answerRequest struct {
	Question       string   `json:"question"`
	PriorQuestions []string `json:"prior_questions,omitempty"`
}

type chunkEventData struct {
	Text string `json:"text"`
}

type errorEventData struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Client is an HTTP client for the answer service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Generator = (*Client)(nil)

// NewClient creates a new answer service client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // Long timeout for streaming
		},
	}
}

// Stream calls the answer service's /answer endpoint and relays chunks.
func (c *Client) Stream(ctx context.Context, question string, priorQuestions []string, onChunk func(text string) error) error {
	body, err := json.Marshal(answerRequest{Question: question, PriorQuestions: priorQuestions})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/answer"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: answer service returned status %d: %s", domain.ErrGeneration, resp.StatusCode, string(bodyBytes))
	}

	return c.relaySSE(resp.Body, onChunk)
}

// errStreamDone signals normal termination of the SSE read loop.
var errStreamDone = errors.New("stream done")

// relaySSE parses the SSE stream and forwards message chunks. The
// upstream terminates with a complete or error event; a stream that
// ends without either is a truncated connection and is a failure.
func (c *Client) relaySSE(reader io.Reader, onChunk func(text string) error) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var event sseEvent

	dispatch := func(event sseEvent) error {
		switch domain.StreamEventType(event.Event) {
		case domain.StreamEventMessage:
			var data chunkEventData
			if err := json.Unmarshal([]byte(event.Data), &data); err != nil {
				return fmt.Errorf("%w: malformed chunk event: %v", domain.ErrGeneration, err)
			}
			return onChunk(data.Text)
		case domain.StreamEventComplete:
			return errStreamDone
		case domain.StreamEventError:
			var data errorEventData
			if err := json.Unmarshal([]byte(event.Data), &data); err != nil {
				return fmt.Errorf("%w: malformed error event: %v", domain.ErrGeneration, err)
			}
			return fmt.Errorf("%w: %s", domain.ErrGeneration, data.Message)
		}
		// Ignore unknown event types
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()

		// Empty line marks end of event
		if line == "" {
			if event.Event != "" || event.Data != "" {
				if err := dispatch(event); err != nil {
					if errors.Is(err, errStreamDone) {
						return nil
					}
					return err
				}
				event = sseEvent{}
			}
			continue
		}

		if strings.HasPrefix(line, "event:") {
			event.Event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		} else if strings.HasPrefix(line, "data:") {
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if event.Data != "" {
				event.Data += "\n" + data
			} else {
				event.Data = data
			}
		}
		// Ignore comments (lines starting with :) and other fields
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	return fmt.Errorf("%w: stream ended without a terminal event", domain.ErrGeneration)
}

// sseEvent is a parsed SSE frame.
type sseEvent struct {
	Event string
	Data  string
}
