package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Tanmayraut16/Neon-Chat/internal/config"
)

// Client uploads images to Cloudinary over its signed HTTP upload API.
type Client struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func NewClient(cfg config.CloudinaryConfig) *Client {
	return &Client{
		CloudName: cfg.CloudName,
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		Folder:    cfg.Folder,
	}
}

// Upload sends a base64 data URI and returns the hosted image URL.
func (c *Client) Upload(ctx context.Context, dataURI string) (string, error) {
	apiURL := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", c.CloudName)
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	data := url.Values{}
	data.Set("file", dataURI)
	data.Set("api_key", c.APIKey)
	data.Set("timestamp", timestamp)
	data.Set("folder", c.Folder)
	data.Set("signature", c.sign(timestamp))

	req, _ := http.NewRequestWithContext(ctx, "POST", apiURL, strings.NewReader(data.Encode()))
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("cloudinary error: status %d", resp.StatusCode)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("cloudinary error: %w", err)
	}
	return result.SecureURL, nil
}

// sign hashes the alphabetically ordered upload params plus the API secret,
// per Cloudinary's signature scheme.
func (c *Client) sign(timestamp string) string {
	toSign := "folder=" + c.Folder + "&timestamp=" + timestamp + c.APISecret
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}
