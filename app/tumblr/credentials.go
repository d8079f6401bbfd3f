package tumblr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dghubble/oauth1"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

// Credentials mirrors the key names of Tumblr's API console export. Either
// the four OAuth 1.0a values or an OAuth2 access token must be present.
type Credentials struct {
	ConsumerKey    string `json:"consumer_key" yaml:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret" yaml:"consumer_secret"`
	OAuthToken     string `json:"oauth_token" yaml:"oauth_token"`
	OAuthSecret    string `json:"oauth_secret" yaml:"oauth_secret"`
	AccessToken    string `json:"access_token" yaml:"access_token"`
}

// LoadCredentials reads a JSON or YAML credentials document.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds Credentials
	if json.Valid(data) {
		err = json.Unmarshal(data, &creds)
	} else {
		err = yaml.Unmarshal(data, &creds)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials %s: %w", path, err)
	}

	if err := creds.validate(); err != nil {
		return nil, fmt.Errorf("invalid credentials %s: %w", path, err)
	}

	return &creds, nil
}

func (c *Credentials) validate() error {
	if c.AccessToken != "" {
		return nil
	}

	requiredFields := []struct {
		name  string
		value string
	}{
		{"consumer_key", c.ConsumerKey},
		{"consumer_secret", c.ConsumerSecret},
		{"oauth_token", c.OAuthToken},
		{"oauth_secret", c.OAuthSecret},
	}

	for _, field := range requiredFields {
		if field.value == "" {
			return fmt.Errorf("%s is required (or provide access_token)", field.name)
		}
	}

	return nil
}

// HTTPClient returns a client that authorizes every request. The base
// transport can be replaced through ctx the way oauth1 and oauth2 allow.
func (c *Credentials) HTTPClient(ctx context.Context, timeout time.Duration) *http.Client {
	var client *http.Client

	if c.AccessToken != "" {
		source := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: c.AccessToken,
			TokenType:   "Bearer",
		})
		client = oauth2.NewClient(ctx, source)
	} else {
		config := oauth1.NewConfig(c.ConsumerKey, c.ConsumerSecret)
		client = config.Client(ctx, oauth1.NewToken(c.OAuthToken, c.OAuthSecret))
	}

	client.Timeout = timeout
	return client
}
