package bilibili

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/devbush/vid2brief/internal/domain"
)

const (
	defaultBaseURL = "https://api.bilibili.com"
	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	referer        = "https://www.bilibili.com/"

	// wbiKeyTTL bounds how long cached signing keys are reused; the
	// server rotates them roughly daily.
	wbiKeyTTL = 12 * time.Hour
)

// apiEnvelope is the uniform response wrapper of every endpoint.
type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client is a minimal API client for the endpoints the feed needs. It
// lazily fetches and caches WBI signing keys.
type Client struct {
	baseURL string
	cookie  string
	http    *http.Client

	mu         sync.Mutex
	imgKey     string
	subKey     string
	keyFetched time.Time
}

// NewClient creates an API client. cookie may be empty for anonymous
// access; some endpoints then return reduced data.
func NewClient(cookie string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		cookie:  cookie,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// get performs an API request, unwraps the envelope and maps non-zero
// codes to domain errors. When sign is true the query is WBI-signed.
func (c *Client) get(ctx context.Context, path string, params url.Values, sign bool, out interface{}) error {
	if sign {
		imgKey, subKey, err := c.signingKeys(ctx)
		if err != nil {
			return fmt.Errorf("fetch wbi keys: %w", err)
		}
		params = signParams(params, imgKey, subKey, time.Now())
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", path, err, domain.ErrNetworkFailure)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusPreconditionFailed, http.StatusTooManyRequests:
		return fmt.Errorf("%s: HTTP %d: %w", path, resp.StatusCode, domain.ErrRateLimited)
	default:
		return fmt.Errorf("%s: HTTP %d: %w", path, resp.StatusCode, domain.ErrNetworkFailure)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", path, domain.ErrNetworkFailure)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%s: malformed response: %w", path, err)
	}
	if envelope.Code != 0 {
		return apiError(path, envelope.Code, envelope.Message)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%s: malformed data: %w", path, err)
		}
	}
	return nil
}

// apiError maps the well-known API codes to domain sentinels.
func apiError(path string, code int, message string) error {
	var sentinel error
	switch code {
	case -404, 62002, 62012:
		sentinel = domain.ErrVideoNotFound
	case -101, -403:
		sentinel = domain.ErrAuthRequired
	case -412, -799, -509:
		sentinel = domain.ErrRateLimited
	default:
		sentinel = domain.ErrNetworkFailure
	}
	return fmt.Errorf("%s: api code %d (%s): %w", path, code, message, sentinel)
}

// signingKeys returns the cached WBI key pair, refreshing from the nav
// endpoint when stale.
func (c *Client) signingKeys(ctx context.Context) (string, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.imgKey != "" && time.Since(c.keyFetched) < wbiKeyTTL {
		return c.imgKey, c.subKey, nil
	}

	var nav struct {
		WbiImg struct {
			ImgURL string `json:"img_url"`
			SubURL string `json:"sub_url"`
		} `json:"wbi_img"`
	}
	// The nav endpoint reports a login-state error code for anonymous
	// sessions but still carries the wbi_img block, so decode directly.
	reqURL := c.baseURL + "/x/web-interface/nav"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("nav: %v: %w", err, domain.ErrNetworkFailure)
	}
	defer resp.Body.Close()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", "", fmt.Errorf("nav: malformed response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, &nav); err != nil {
		return "", "", fmt.Errorf("nav: malformed data: %w", err)
	}

	imgKey, err := keyFromURL(nav.WbiImg.ImgURL)
	if err != nil {
		return "", "", err
	}
	subKey, err := keyFromURL(nav.WbiImg.SubURL)
	if err != nil {
		return "", "", err
	}

	c.imgKey = imgKey
	c.subKey = subKey
	c.keyFetched = time.Now()
	return imgKey, subKey, nil
}
