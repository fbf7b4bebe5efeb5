// Package schools loads the static school directory (name, coordinates,
// allowed email domain) from its JSON endpoint. One client serves both
// the login domain check and the add form's school picker.
package schools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"eaglepark/models"
)

// FetchError is a directory fetch or parse failure. Callers surface it
// as a non-blocking notice instead of silently showing an empty list.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("school directory %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, httpClient: httpClient}
}

// Load performs a single GET of the directory. No caching, no retry;
// each view activation loads fresh.
func (c *Client) Load(ctx context.Context) ([]models.School, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{URL: c.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: c.url, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var directory models.SchoolDirectory
	if err := json.NewDecoder(resp.Body).Decode(&directory); err != nil {
		return nil, &FetchError{URL: c.url, Err: err}
	}

	return directory.Schools, nil
}

// AllowedDomains lists the email domains of the loaded schools.
func AllowedDomains(dir []models.School) []string {
	domains := make([]string, 0, len(dir))
	for _, s := range dir {
		domains = append(domains, s.EmailDomain)
	}
	return domains
}

// ValidEmailDomain reports whether the part after the last "@" is one of
// the allowed domains. Client-side gate only; the auth backend remains
// the security boundary.
func ValidEmailDomain(email string, domains []string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	for _, d := range domains {
		if d == domain {
			return true
		}
	}
	return false
}

// CredentialsPlausible mirrors the sign-in form's enable rule: an email
// of at least 6 characters containing "@" and a password of at least 6.
func CredentialsPlausible(email, password string) bool {
	return len(email) >= 6 && strings.Contains(email, "@") && len(password) >= 6
}
