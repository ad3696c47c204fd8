package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"marketplace-api/internal/audit"
	"marketplace-api/internal/cache"
	"marketplace-api/pkg/apierror"
)

// PincodeService proxies postal pincode lookups to an external API, caching
// upstream responses. A nil HTTP client means the lookup capability is
// unavailable and every lookup returns 503.
type PincodeService struct {
	client  *http.Client
	cache   cache.Cache
	ttl     time.Duration
	baseURL string
	audit   *audit.Logger
}

// NewPincodeService creates a new pincode service. c may be nil to disable
// response caching.
func NewPincodeService(client *http.Client, c cache.Cache, ttl time.Duration, baseURL string, logger *audit.Logger) *PincodeService {
	return &PincodeService{
		client:  client,
		cache:   c,
		ttl:     ttl,
		baseURL: baseURL,
		audit:   logger,
	}
}

// Lookup fetches postal data for a pincode and returns the upstream JSON
// verbatim. Failures are audited and surfaced as 502/503.
func (s *PincodeService) Lookup(ctx context.Context, pincode, remoteAddr string) (json.RawMessage, error) {
	if s.client == nil {
		s.audit.LogEvent("pincode_lookup_failed", map[string]any{
			"pincode": pincode,
			"error":   "http_client_unavailable",
		}, remoteAddr, "")
		return nil, apierror.ServiceUnavailable("Lookup service unavailable")
	}

	statusCode := http.StatusOK
	fetch := func() ([]byte, error) {
		url := fmt.Sprintf("%s/pincode/%s", s.baseURL, pincode)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		statusCode = resp.StatusCode
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if !json.Valid(body) {
			return nil, fmt.Errorf("upstream returned invalid JSON")
		}
		return body, nil
	}

	var data []byte
	var err error
	if s.cache != nil {
		data, err = s.cache.GetOrSet(ctx, "pincode:"+pincode, s.ttl, fetch)
	} else {
		data, err = fetch()
	}
	if err != nil {
		s.audit.LogEvent("pincode_lookup_failed", map[string]any{
			"pincode": pincode,
			"error":   err.Error(),
		}, remoteAddr, "")
		return nil, apierror.BadGateway("Postal lookup failed")
	}

	resultCount := 0
	var asList []json.RawMessage
	if json.Unmarshal(data, &asList) == nil {
		resultCount = len(asList)
	}

	s.audit.LogEvent("pincode_lookup", map[string]any{
		"pincode":      pincode,
		"status_code":  statusCode,
		"result_count": resultCount,
	}, remoteAddr, "")

	return data, nil
}

// LogClientLookup records a client-submitted note about a postal lookup on
// the activity stream.
func (s *PincodeService) LogClientLookup(payload map[string]any, remoteAddr string) {
	s.audit.LogEvent("pincode_lookup", map[string]any{
		"pincode": payload["pincode"],
		"status":  payload["status"],
		"meta":    payload["meta"],
	}, remoteAddr, "")
}
