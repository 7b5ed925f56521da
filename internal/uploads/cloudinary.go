// Package uploads streams images to Cloudinary and hands back the hosted
// URL; nothing is persisted locally.
package uploads

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.cloudinary.com/v1_1"

type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	APIURL    string // overridable in tests
}

type Client struct {
	client *http.Client
	config Config
}

func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	return &Client{
		client: &http.Client{Timeout: 30 * time.Second},
		config: cfg,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload performs a signed image upload and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader, folder string) (string, error) {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{"timestamp": ts}
	if folder != "" {
		params["folder"] = folder
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	for k, v := range params {
		if err := w.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := w.WriteField("api_key", c.config.APIKey); err != nil {
		return "", err
	}
	if err := w.WriteField("signature", c.sign(params)); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.config.APIURL, c.config.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image upload failed: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

// sign builds the SHA-1 parameter signature Cloudinary expects: the sorted
// params serialized as a query string with the API secret appended.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.config.APISecret))
	return hex.EncodeToString(sum[:])
}
