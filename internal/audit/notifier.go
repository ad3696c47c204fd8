package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"marketplace-api/internal/model"
)

// DefaultQueueSize bounds the escalation queue. Payloads arriving while the
// queue is full are dropped; the request path never blocks on delivery.
const DefaultQueueSize = 64

// NotifierConfig holds the external sink connection settings.
type NotifierConfig struct {
	// URL is the full table API endpoint, e.g.
	// https://instance.service-now.com/api/now/table/incident
	URL  string
	User string
	Pass string

	Retries int
	Backoff time.Duration
	Timeout time.Duration

	// ActivityLogPath is where exhausted deliveries are durably recorded.
	ActivityLogPath string

	QueueSize int
}

// Notifier delivers escalation payloads to the external ticketing sink from a
// dedicated background worker. Delivery is detached from the request path:
// Enqueue never blocks and never reports the outcome. Each delivery gets
// bounded retries with exponential backoff; exhaustion is recorded as a
// servicenow_notify_failed entry on the activity stream.
type Notifier struct {
	url     string
	user    string
	pass    string
	retries int
	backoff time.Duration

	activityPath string

	client *http.Client

	queue    chan model.EscalationPayload
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewNotifier creates a notifier. Call Start to launch the worker.
func NewNotifier(cfg NotifierConfig) *Notifier {
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}

	return &Notifier{
		url:          cfg.URL,
		user:         cfg.User,
		pass:         cfg.Pass,
		retries:      cfg.Retries,
		backoff:      cfg.Backoff,
		activityPath: cfg.ActivityLogPath,
		client:       &http.Client{Timeout: cfg.Timeout},
		queue:  make(chan model.EscalationPayload, cfg.QueueSize),
	}
}

// Start launches the background delivery worker.
func (n *Notifier) Start() {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for payload := range n.queue {
			n.deliver(payload)
		}
	}()
}

// Stop closes the queue and waits for pending deliveries to finish. An
// in-flight retry sequence runs to completion or exhaustion.
func (n *Notifier) Stop() {
	n.stopOnce.Do(func() {
		close(n.queue)
	})
	n.wg.Wait()
}

// Enqueue hands a payload to the worker without waiting for its result.
func (n *Notifier) Enqueue(payload model.EscalationPayload) {
	select {
	case n.queue <- payload:
	default:
		log.Printf("[Notifier] queue full, dropping escalation: %s", payload.ShortDescription)
	}
}

// deliver posts the payload with retry/backoff and records a durable fallback
// entry when every attempt fails.
func (n *Notifier) deliver(payload model.EscalationPayload) {
	if n.client == nil {
		n.recordFailure(payload, errors.New("http client unavailable"))
		return
	}

	var lastErr error
	for attempt := 1; attempt <= n.retries; attempt++ {
		err := n.post(payload)
		if err == nil {
			return
		}
		lastErr = err
		time.Sleep(n.backoff * (1 << (attempt - 1)))
	}

	n.recordFailure(payload, lastErr)
}

// post performs one delivery attempt.
func (n *Notifier) post(payload model.EscalationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(n.user, n.pass)

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// recordFailure appends the terminal fallback entry to the activity stream.
// No further escalation is attempted for this payload.
func (n *Notifier) recordFailure(payload model.EscalationPayload, lastErr error) {
	entry := map[string]any{
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"action":  "servicenow_notify_failed",
		"error":   lastErr.Error(),
		"payload": payload,
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := appendLine(n.activityPath, raw); err != nil {
		log.Printf("[Notifier] failed to record delivery failure: %v", err)
	}
}
