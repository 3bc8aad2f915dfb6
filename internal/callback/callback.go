// internal/callback/callback.go
// Package callback notifies the requesting system that its document is
// ready.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	commonhttp "certificate-service/internal/common/http"
	"certificate-service/internal/common/logger"
)

// Notification is the payload posted to the caller's callbackUrl.
type Notification struct {
	CertificateID string   `json:"certificateId"`
	Status        string   `json:"status"`
	Metadata      Metadata `json:"metadata"`
}

type Metadata struct {
	MessageID   string `json:"messageId,omitempty"`
	GeneratedAt string `json:"generatedAt"`
	Email       string `json:"email,omitempty"`
	FileURL     string `json:"fileUrl,omitempty"`
}

// Client posts completion notifications. Failures never affect the
// generated artifact; the caller of Notify decides how to record them.
type Client struct {
	http *commonhttp.Client
	log  logger.Logger
}

func NewClient(timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		http: commonhttp.NewClient(timeout),
		log:  log,
	}
}

// Notify posts the notification as JSON. Any transport error or non-2xx
// response is returned as a plain error for the pipeline to wrap.
func (c *Client) Notify(ctx context.Context, url string, note Notification) error {
	if note.Status == "" {
		note.Status = "sent"
	}
	if note.Metadata.GeneratedAt == "" {
		note.Metadata.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("encode callback payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post callback: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}

	c.log.Info("Callback delivered", map[string]interface{}{
		"url":           url,
		"certificateId": note.CertificateID,
	})
	return nil
}
