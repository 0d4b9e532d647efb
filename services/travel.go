package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// requestTimeout is the client-side bound applied to every upstream call.
const requestTimeout = 30 * time.Second

// TravelClient talks to the flight/hotel provider (Amadeus-compatible API)
// using OAuth2 client credentials.
type TravelClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	accessToken  string
	tokenExpiry  time.Time
	mu           sync.Mutex
	httpClient   *http.Client
}

var travelClient *TravelClient

func InitTravel() {
	env := os.Getenv("TRAVEL_API_ENV")
	baseURL := "https://api.amadeus.com"
	if env == "" || env == "test" {
		baseURL = "https://test.api.amadeus.com"
	}

	travelClient = &TravelClient{
		clientID:     os.Getenv("TRAVEL_API_CLIENT_ID"),
		clientSecret: os.Getenv("TRAVEL_API_CLIENT_SECRET"),
		baseURL:      baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}

	if travelClient.clientID == "" || travelClient.clientSecret == "" {
		log.Println("⚠️  TRAVEL_API_CLIENT_ID or TRAVEL_API_CLIENT_SECRET not set, flight/hotel search will use fallback data")
		return
	}

	if err := travelClient.refreshToken(context.Background()); err != nil {
		log.Printf("⚠️  Travel API token pre-warm failed: %v", err)
	} else {
		log.Println("✅ Travel API authenticated")
	}
}

func GetTravelClient() *TravelClient {
	return travelClient
}

// Configured reports whether credentials are present.
func (c *TravelClient) Configured() bool {
	return c != nil && c.clientID != "" && c.clientSecret != ""
}

// ─── OAuth2 token ─────────────────────────────────────────────────────────────

func (c *TravelClient) refreshToken(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: token request failed (%d): %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("%w: token response: %v", ErrBadResponse, err)
	}

	c.mu.Lock()
	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn-30) * time.Second)
	c.mu.Unlock()

	return nil
}

func (c *TravelClient) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	expired := time.Now().After(c.tokenExpiry)
	token := c.accessToken
	c.mu.Unlock()

	if expired || token == "" {
		if err := c.refreshToken(ctx); err != nil {
			return "", err
		}
		c.mu.Lock()
		token = c.accessToken
		c.mu.Unlock()
	}
	return token, nil
}

func (c *TravelClient) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth failed: %w", err)
	}

	var req *http.Request
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewBuffer(body))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: travel API error (%d): %s", ErrUnavailable, resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
