package trigger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/justsurfingit/jobtrack/internal/logger"
	"github.com/justsurfingit/jobtrack/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Summary is the body the trigger endpoint answers with.
type Summary struct {
	Processed services.ProcessedCounts `json:"processed"`
}

// Client calls the reminder trigger endpoint. It keeps nothing between calls.
// The only deadline is the caller's context: the server stops sending when the
// request is cancelled, so a shorter client timeout would cut runs short.
type Client struct {
	URL    string
	Secret string
	HTTP   *http.Client
}

func NewClient(url, secret string) *Client {
	return &Client{URL: url, Secret: secret, HTTP: &http.Client{}}
}

// Trigger performs one invocation and returns the endpoint's summary.
func (c *Client) Trigger(ctx context.Context) (Summary, error) {
	var summary Summary

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return summary, fmt.Errorf("build trigger request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Secret)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return summary, fmt.Errorf("call trigger endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return summary, fmt.Errorf("read trigger response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return summary, fmt.Errorf("trigger endpoint returned %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		return summary, fmt.Errorf("decode trigger response: %w", err)
	}
	return summary, nil
}

// Scheduler fires the client on a cron spec, in UTC so the run lines up with
// the UTC days the reminder windows are computed in.
type Scheduler struct {
	engine  *cron.Cron
	client  *Client
	timeout time.Duration
}

func NewScheduler(client *Client, timeout time.Duration) *Scheduler {
	return &Scheduler{
		engine:  cron.New(cron.WithLocation(time.UTC)),
		client:  client,
		timeout: timeout,
	}
}

// Timeout is the per-invocation deadline.
func (s *Scheduler) Timeout() time.Duration { return s.timeout }

// Start registers the job and starts the engine.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.engine.AddFunc(spec, s.runOnce); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	s.engine.Start()
	logger.Log.WithField("spec", spec).Info("Reminder trigger scheduled")
	return nil
}

// Stop waits for a running invocation to finish.
func (s *Scheduler) Stop() {
	<-s.engine.Stop().Done()
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	summary, err := s.client.Trigger(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("Reminder trigger failed")
		return
	}
	logger.Log.WithFields(logrus.Fields{
		"d3": summary.Processed.D3,
		"d1": summary.Processed.D1,
	}).Info("Reminder trigger completed")
}
