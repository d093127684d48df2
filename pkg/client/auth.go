package client

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/lumapix/lumapix-client/internal/logging"
)

// TokenFile holds a saved authentication token.
type TokenFile struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Server    string    `json:"server"`
	Email     string    `json:"email"`
}

// IsExpired returns true if the token has expired (with optional margin).
func (t *TokenFile) IsExpired(margin time.Duration) bool {
	return time.Now().Add(margin).After(t.ExpiresAt)
}

// LoginResponse is the response from POST /api/auth/token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
}

// RefreshResponse is the response from POST /api/auth/refresh.
type RefreshResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login authenticates with email/password and installs the returned
// bearer token on the client.
func (c *Client) Login(ctx context.Context, email, password, deviceName string) (*LoginResponse, error) {
	body := map[string]string{
		"email":      email,
		"password":   password,
		"deviceName": deviceName,
	}

	var resp LoginResponse
	if err := c.Post(ctx, "/api/auth/token", body, &resp); err != nil {
		return nil, err
	}
	c.SetAuthToken(resp.Token)
	return &resp, nil
}

// RefreshToken exchanges the current bearer token for a fresh one.
func (c *Client) RefreshToken(ctx context.Context) (*RefreshResponse, error) {
	var resp RefreshResponse
	if err := c.Post(ctx, "/api/auth/refresh", nil, &resp); err != nil {
		return nil, err
	}
	c.SetAuthToken(resp.Token)
	return &resp, nil
}

// Logout revokes the current token on the server and clears it locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.Delete(ctx, "/api/auth/token", nil)
	c.SetAuthToken("")
	return err
}

// StartTokenRefreshLoop refreshes the token in the background before it
// expires, persisting each refresh to the token file at path. An empty
// path uses the default location.
func (c *Client) StartTokenRefreshLoop(ctx context.Context, tf *TokenFile, path string) {
	if path == "" {
		path = TokenFilePath()
	}
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !tf.IsExpired(1 * time.Hour) {
					continue
				}
				resp, err := c.RefreshToken(ctx)
				if err != nil {
					logging.L().Error("token refresh failed", zap.Error(err))
					continue
				}
				tf.Token = resp.Token
				tf.ExpiresAt = resp.ExpiresAt
				if err := SaveTokenFile(path, tf); err != nil {
					logging.L().Error("save refreshed token failed", zap.Error(err))
				}
			}
		}
	}()
}

// TokenFilePath returns the default path for the token file.
func TokenFilePath() string {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, _ := os.UserHomeDir()
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, "Lumapix", "token.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lumapix", "token.json")
}

// SaveToken saves a token file to the default location.
func SaveToken(tf *TokenFile) error {
	return SaveTokenFile(TokenFilePath(), tf)
}

// SaveTokenFile saves a token file to an explicit path.
func SaveTokenFile(path string, tf *TokenFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// LoadToken loads a token file from the default location.
func LoadToken() (*TokenFile, error) {
	return LoadTokenFile(TokenFilePath())
}

// LoadTokenFile loads a token file from an explicit path.
func LoadTokenFile(path string) (*TokenFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tf TokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, err
	}
	return &tf, nil
}

// DeleteToken removes the saved token file.
func DeleteToken() error {
	return os.Remove(TokenFilePath())
}

// DeleteTokenFile removes a token file at an explicit path.
func DeleteTokenFile(path string) error {
	return os.Remove(path)
}
