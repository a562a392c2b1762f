package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ObjectMetadata mirrors what the storage gateway knows about an object
type ObjectMetadata struct {
	ContentType    string            `json:"content_type"`
	Size           int64             `json:"size"`
	DownloadToken  string            `json:"download_token"`
	CustomMetadata map[string]string `json:"custom_metadata"`
}

// Client talks to the object-storage gateway: delete/exists/metadata plus
// short-lived signed download URLs for collaborators that cannot present the
// service token themselves.
type Client struct {
	baseURL      string
	bucket       string
	serviceToken string
	jwtSecret    string
	signedTTL    time.Duration
	http         *http.Client
}

func NewClient(baseURL, bucket, serviceToken, jwtSecret string, signedTTL time.Duration) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		bucket:       bucket,
		serviceToken: serviceToken,
		jwtSecret:    jwtSecret,
		signedTTL:    signedTTL,
		http:         &http.Client{Timeout: 30 * time.Second},
	}
}

// Bucket returns the configured bucket name
func (c *Client) Bucket() string {
	return c.bucket
}

func (c *Client) objectURL(path string) string {
	return fmt.Sprintf("%s/v1/buckets/%s/objects/%s", c.baseURL, url.PathEscape(c.bucket), url.PathEscape(path))
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	return c.http.Do(req)
}

// Delete removes an object. Deleting a missing object is not an error.
func (c *Client) Delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.objectURL(path), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("storage delete failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("storage delete failed: HTTP %d", resp.StatusCode)
	}
	return nil
}

// Exists reports whether an object is present
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, "HEAD", c.objectURL(path), nil)
	if err != nil {
		return false, err
	}
	resp, err := c.do(req)
	if err != nil {
		return false, fmt.Errorf("storage head failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("storage head failed: HTTP %d", resp.StatusCode)
	}
}

// Metadata fetches the gateway's metadata document for an object
func (c *Client) Metadata(ctx context.Context, path string) (*ObjectMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.objectURL(path)+"/metadata", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("storage metadata failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storage metadata failed: HTTP %d", resp.StatusCode)
	}

	var meta ObjectMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode object metadata: %w", err)
	}
	return &meta, nil
}

// TokenURL builds a download URL from an existing public download token
func (c *Client) TokenURL(path, token string) string {
	return c.objectURL(path) + "?token=" + url.QueryEscape(token)
}

// SignedURL mints a short-lived signed download URL for the object. Used as
// the last resort when no public download token exists.
func (c *Client) SignedURL(path string) (string, error) {
	claims := jwt.MapClaims{
		"bucket": c.bucket,
		"path":   path,
		"exp":    jwt.NewNumericDate(time.Now().Add(c.signedTTL)),
		"iat":    jwt.NewNumericDate(time.Now()),
		"iss":    "snapflow",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign download URL: %w", err)
	}

	return c.objectURL(path) + "?signature=" + url.QueryEscape(signed), nil
}
