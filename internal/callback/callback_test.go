package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certificate-service/internal/common/logger"
)

func TestNotify(t *testing.T) {
	var received Notification
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, logger.NewNoOpLogger())
	err := c.Notify(context.Background(), srv.URL, Notification{
		CertificateID: "cert-1001",
		Metadata: Metadata{
			MessageID: "<msg-1@svc>",
			Email:     "jane@example.com",
			FileURL:   "http://svc/files/cert-1001.pdf",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "cert-1001", received.CertificateID)
	assert.Equal(t, "sent", received.Status)
	assert.Equal(t, "jane@example.com", received.Metadata.Email)
	assert.Equal(t, "http://svc/files/cert-1001.pdf", received.Metadata.FileURL)
	assert.NotEmpty(t, received.Metadata.GeneratedAt)
}

func TestNotify_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, logger.NewNoOpLogger())
	err := c.Notify(context.Background(), srv.URL, Notification{CertificateID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNotify_UnreachableEndpoint(t *testing.T) {
	c := NewClient(200*time.Millisecond, logger.NewNoOpLogger())
	err := c.Notify(context.Background(), "http://127.0.0.1:1/callback", Notification{CertificateID: "x"})
	assert.Error(t, err)
}
