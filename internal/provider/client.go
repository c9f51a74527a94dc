package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultPollInterval separates consecutive status checks.
	DefaultPollInterval = 10 * time.Second
	// DefaultMaxWait bounds the total wall-clock time spent polling one job.
	DefaultMaxWait = 1800 * time.Second
)

// Options configures the provider client.
type Options struct {
	// BaseURL is the root of the provider API, e.g. https://host/api/v2.
	BaseURL string
	// APIKey is sent on submissions when set.
	APIKey string
	// Model selects the generation model on the provider side.
	Model string
	// PollInterval and MaxWait override the polling defaults when positive.
	PollInterval time.Duration
	MaxWait      time.Duration
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	// Clock overrides the system clock; used by tests.
	Clock Clock
}

// Client talks to the asynchronous image-generation provider.
type Client struct {
	baseURL      string
	apiKey       string
	model        string
	pollInterval time.Duration
	maxWait      time.Duration
	httpClient   *http.Client
	clock        Clock
}

// NewClient creates a provider client, filling unset options with defaults.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:      strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:       opts.APIKey,
		model:        opts.Model,
		pollInterval: opts.PollInterval,
		maxWait:      opts.MaxWait,
		httpClient:   opts.HTTPClient,
		clock:        opts.Clock,
	}
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	if c.maxWait <= 0 {
		c.maxWait = DefaultMaxWait
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.clock == nil {
		c.clock = SystemClock{}
	}
	return c
}

// Job tracks one outstanding generation request. The last-known queue fields
// are updated by the polling loop for logging only and never affect timing.
type Job struct {
	ID                     string
	SubmittedAt            time.Time
	LastKnownQueuePosition int
	LastKnownWaitSeconds   int
}

type generationParams struct {
	SamplerName string  `json:"sampler_name"`
	CFGScale    float64 `json:"cfg_scale"`
	Steps       int     `json:"steps"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

type submitPayload struct {
	Prompt           string           `json:"prompt"`
	NegativePrompt   string           `json:"negative_prompt,omitempty"`
	Models           []string         `json:"models,omitempty"`
	SourceImage      string           `json:"source_image,omitempty"`
	SourceProcessing string           `json:"source_processing,omitempty"`
	Params           generationParams `json:"params"`
}

type submitResponse struct {
	ID string `json:"id"`
}

type generation struct {
	Img string `json:"img"`
}

type statusResponse struct {
	State         string       `json:"state"`
	Done          bool         `json:"done"`
	Faulted       bool         `json:"faulted"`
	QueuePosition int          `json:"queue_position"`
	WaitTime      int          `json:"wait_time"`
	Generations   []generation `json:"generations"`
}

func (s *statusResponse) terminal() bool {
	if s.Done || s.Faulted {
		return true
	}
	switch strings.ToLower(s.State) {
	case "done", "completed":
		return true
	}
	return false
}

// Submit sends an image-to-image transformation job to the provider and
// returns the assigned job id.
func (c *Client) Submit(ctx context.Context, prompt, negativePrompt, sourceImageBase64 string) (string, error) {
	payload := submitPayload{
		Prompt:           prompt,
		NegativePrompt:   negativePrompt,
		SourceImage:      sourceImageBase64,
		SourceProcessing: "img2img",
		Params: generationParams{
			SamplerName: "DPM++ 2M",
			CFGScale:    7.0,
			Steps:       35,
			Width:       512,
			Height:      512,
		},
	}
	if c.model != "" {
		payload.Models = []string{c.model}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/generate/async", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &RejectedError{Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &RejectedError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var submitted submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		return "", &RejectedError{StatusCode: resp.StatusCode, Message: "malformed submission response: " + err.Error()}
	}
	if submitted.ID == "" {
		return "", &RejectedError{StatusCode: resp.StatusCode, Message: "submission response contains no job id"}
	}

	return submitted.ID, nil
}

// PollUntilDone drives a submitted job to completion and returns the raw
// image bytes. The first check happens immediately; subsequent checks are
// separated by the poll interval until the max-wait budget elapses. A 404 on
// the job is fatal; single-poll transport failures are logged and retried at
// the next tick.
func (c *Client) PollUntilDone(ctx context.Context, jobID string) ([]byte, error) {
	job := &Job{ID: jobID, SubmittedAt: c.clock.Now()}
	deadline := job.SubmittedAt.Add(c.maxWait)

	for {
		status, err := c.pollStatus(ctx, jobID)
		switch {
		case err != nil:
			var notFound *JobNotFoundError
			if errors.As(err, &notFound) {
				return nil, err
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[provider] poll for job %s failed, retrying: %v", jobID, err)
		case status.terminal():
			return c.collectResult(ctx, jobID, status)
		default:
			job.LastKnownQueuePosition = status.QueuePosition
			job.LastKnownWaitSeconds = status.WaitTime
			log.Printf("[provider] job %s pending: queue position %d, estimated wait %ds",
				jobID, job.LastKnownQueuePosition, job.LastKnownWaitSeconds)
		}

		if c.clock.Now().Add(c.pollInterval).After(deadline) {
			return nil, &TimeoutError{JobID: jobID, Waited: c.clock.Now().Sub(job.SubmittedAt)}
		}
		if err := c.clock.Sleep(ctx, c.pollInterval); err != nil {
			return nil, err
		}
	}
}

func (c *Client) pollStatus(ctx context.Context, jobID string) (*statusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/generate/status/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &JobNotFoundError{JobID: jobID}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status request returned HTTP %d", resp.StatusCode)
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("malformed status response: %w", err)
	}
	return &status, nil
}

// collectResult extracts the image from a terminal status: a URL reference is
// downloaded, an inline reference is base64-decoded.
func (c *Client) collectResult(ctx context.Context, jobID string, status *statusResponse) ([]byte, error) {
	if len(status.Generations) == 0 || status.Generations[0].Img == "" {
		return nil, &GenerationFailedError{JobID: jobID}
	}

	ref := status.Generations[0].Img
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return c.downloadResult(ctx, jobID, ref)
	}

	data, err := base64.StdEncoding.DecodeString(ref)
	if err != nil {
		return nil, &DecodeError{JobID: jobID, Cause: err}
	}
	return data, nil
}

func (c *Client) downloadResult(ctx context.Context, jobID, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, &DownloadError{JobID: jobID, URL: url, Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &DownloadError{JobID: jobID, URL: url, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &DownloadError{JobID: jobID, URL: url, Cause: fmt.Errorf("HTTP status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DownloadError{JobID: jobID, URL: url, Cause: err}
	}
	return data, nil
}
