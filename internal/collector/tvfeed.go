package collector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"StochScan/internal/model"
)

// TvFeedFetcher implements Fetcher against a tvfeed-compatible REST
// gateway. The gateway requires a session obtained via username/password
// login; the session token is reused across requests.
type TvFeedFetcher struct {
	BaseURL  string
	Username string
	Password string
	Client   *http.Client

	mu    sync.Mutex
	token string
}

// NewTvFeedFetcher creates a fetcher with optional proxy support.
func NewTvFeedFetcher(baseURL, username, password, proxyURL string) *TvFeedFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TvFeedFetcher{
		BaseURL:  baseURL,
		Username: username,
		Password: password,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *TvFeedFetcher) Name() string { return "tvfeed" }

// Login authenticates against the gateway and stores the session token.
// Anonymous access (empty credentials) is allowed; some symbols may then be
// unavailable.
func (f *TvFeedFetcher) Login() error {
	if f.Username == "" && f.Password == "" {
		return nil
	}
	payload, err := json.Marshal(map[string]string{
		"username": f.Username,
		"password": f.Password,
	})
	if err != nil {
		return fmt.Errorf("marshal login payload: %w", err)
	}
	resp, err := f.Client.Post(f.BaseURL+"/api/v1/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login: status %d, body: %s", resp.StatusCode, string(body))
	}
	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	f.mu.Lock()
	f.token = result.Token
	f.mu.Unlock()
	return nil
}

// tvBar is the expected JSON shape from the tvfeed history endpoint.
type tvBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}

func (f *TvFeedFetcher) FetchDailyBars(symbol, exchange string, n int) ([]model.Bar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/history?symbol=%s&exchange=%s&interval=1D&bars=%d",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(exchange), n)

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	f.mu.Unlock()

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil // unknown symbol: no data, not an error
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}
	var tvBars []tvBar
	if err := json.NewDecoder(resp.Body).Decode(&tvBars); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make([]model.Bar, len(tvBars))
	for i, tb := range tvBars {
		bars[i] = model.Bar{
			Date:  time.Unix(tb.Timestamp, 0),
			Open:  tb.Open,
			High:  tb.High,
			Low:   tb.Low,
			Close: tb.Close,
		}
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
