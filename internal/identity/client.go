package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lostfound/internal/core/users"
)

// DefaultAPIURL is the provider's Backend API base URL
const DefaultAPIURL = "https://api.clerk.com"

// BackendClient reads user profiles from the provider's Backend API
type BackendClient struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// NewBackendClient creates a Backend API client authenticated with secretKey
func NewBackendClient(baseURL, secretKey string) *BackendClient {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &BackendClient{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type apiUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	PhoneNumbers []struct {
		PhoneNumber string `json:"phone_number"`
	} `json:"phone_numbers"`
	HasImage bool `json:"has_image"`
}

// GetUser fetches the profile for userID.
// Returns nil, nil when the provider does not know the user.
func (c *BackendClient) GetUser(ctx context.Context, userID string) (*users.ExternalIdentity, error) {
	endpoint := c.baseURL + "/v1/users/" + url.PathEscape(userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var u apiUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	identity := &users.ExternalIdentity{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ImageURL:  u.ImageURL,
		HasImage:  u.HasImage,
	}
	for _, e := range u.EmailAddresses {
		identity.EmailAddresses = append(identity.EmailAddresses, e.EmailAddress)
	}
	for _, p := range u.PhoneNumbers {
		identity.PhoneNumbers = append(identity.PhoneNumbers, p.PhoneNumber)
	}

	return identity, nil
}
