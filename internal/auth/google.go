package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// googleTimeout bounds the userinfo fetch so a slow provider cannot hold a
// request open indefinitely.
const googleTimeout = 10 * time.Second

// GoogleUserInfo is the subset of the Google userinfo payload we consume.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleClient fetches user identity from Google given an OAuth access token.
type GoogleClient struct {
	httpClient *http.Client
}

// NewGoogleClient creates a Google userinfo client.
func NewGoogleClient() *GoogleClient {
	return &GoogleClient{httpClient: &http.Client{Timeout: googleTimeout}}
}

// FetchUserInfo validates the access token against Google and returns the
// associated identity.
func (g *GoogleClient) FetchUserInfo(ctx context.Context, accessToken string) (*GoogleUserInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, googleTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo status: %d", resp.StatusCode)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("google userinfo incomplete")
	}
	return &info, nil
}
