// internal/parsing/ner/ner_test.go
package ner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"talentflow-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestClient(baseURL string) *Client {
	return NewClient(&Config{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, logger.NewNoOpLogger())
}

func entityResponse(entities ...map[string]string) []byte {
	body, _ := json.Marshal(map[string]interface{}{"entities": entities})
	return body
}

// ==========================
// Core Functionality Tests
// ==========================

func TestRecognize_MapsFirstEntityPerLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/entities", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Contains(t, payload["text"], "John Doe")

		w.Write(entityResponse(
			map[string]string{"text": "John Doe", "label": "PERSON"},
			map[string]string{"text": "Jane Roe", "label": "PERSON"},
			map[string]string{"text": "Tech Corp", "label": "ORG"},
			map[string]string{"text": "Austin", "label": "GPE"},
		))
	}))
	defer server.Close()

	ents, err := newTestClient(server.URL).Recognize(context.Background(), "John Doe worked at Tech Corp in Austin")

	assert.NoError(t, err)
	assert.Equal(t, "John Doe", ents.Name)
	assert.Equal(t, "Tech Corp", ents.Organization)
	assert.Equal(t, "Austin", ents.Location)
}

func TestRecognize_LowercaseLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(entityResponse(
			map[string]string{"text": "John Doe", "label": "person"},
			map[string]string{"text": "Tech Corp", "label": "organization"},
		))
	}))
	defer server.Close()

	ents, err := newTestClient(server.URL).Recognize(context.Background(), "text")

	assert.NoError(t, err)
	assert.Equal(t, "John Doe", ents.Name)
	assert.Equal(t, "Tech Corp", ents.Organization)
}

func TestRecognize_NoEntities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"entities": []}`))
	}))
	defer server.Close()

	ents, err := newTestClient(server.URL).Recognize(context.Background(), "text")

	assert.NoError(t, err)
	assert.Empty(t, ents.Name)
	assert.Empty(t, ents.Organization)
}

// ==========================
// Error Handling Tests
// ==========================

func TestRecognize_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Recognize(context.Background(), "text")

	assert.ErrorIs(t, err, ErrRecognitionFailed)
}

func TestRecognize_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Recognize(context.Background(), "text")

	assert.ErrorIs(t, err, ErrRecognitionFailed)
}

func TestRecognize_ServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(server.URL).Recognize(context.Background(), "text")

	assert.ErrorIs(t, err, ErrRecognitionFailed)
}

func TestRecognize_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).Recognize(ctx, "text")

	assert.ErrorIs(t, err, ErrRecognitionFailed)
}

func TestRecognize_NoAuthHeaderWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"entities": []}`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL}, logger.NewNoOpLogger())
	_, err := client.Recognize(context.Background(), "text")

	assert.NoError(t, err)
}
