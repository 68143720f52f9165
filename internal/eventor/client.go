package eventor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/iof"
)

const (
	DefaultTimeout = 6 * time.Second

	// entry lists of the largest multi-day events stay well below this
	maxResponseSize = 64 << 20
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status from eventor")
	ErrUnavailable      = errors.New("eventor unavailable")
	ErrInvalidResponse  = errors.New("invalid response from eventor")
)

type Client struct {
	http    *http.Client
	maxBody int64
}

// NewClient uses timeout both for connecting and for the whole request.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: timeout}).DialContext

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		maxBody: maxResponseSize,
	}
}

// GetEventEntryList fetches the entry list of one event. A nil list with a nil
// error means the federation had nothing to return.
func (c *Client) GetEventEntryList(ctx context.Context, eventor domain.Eventor, eventRef string) (*iof.EntryList, error) {
	query := url.Values{}
	query.Set("includePersonElement", "true")
	query.Set("includeEntryFees", "true")
	query.Set("eventIds", eventRef)
	endpoint := strings.TrimRight(eventor.BaseURL, "/") + "/api/entries?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("ApiKey", eventor.APIKey)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: c.http.Do -> %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: io.ReadAll -> %w", ErrUnavailable, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrInvalidResponse, c.maxBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zap.L().Warn("eventor returned an error",
			zap.String("eventor", eventor.ID),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	list, err := iof.ParseEntryList(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: iof.ParseEntryList -> %w", ErrInvalidResponse, err)
	}

	return list, nil
}
