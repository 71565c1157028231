package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// staticTokens is a TokenSource returning a fixed token
type staticTokens struct {
	token string
}

func (s *staticTokens) Token() string { return s.token }

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := New(server.URL, &staticTokens{token: "t1"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := client.Get(context.Background(), "/auth/me", nil, &struct{}{}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if gotAuth != "Bearer t1" {
		t.Errorf("Expected Authorization 'Bearer t1', got %q", gotAuth)
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := New(server.URL, &staticTokens{})
	if err := client.Get(context.Background(), "/posts", nil, nil); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if gotAuth != "" {
		t.Errorf("Expected no Authorization header, got %q", gotAuth)
	}
}

func TestClient_ErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "nested validation message",
			body: `{"errors":{"message":"username taken"},"message":"flat"}`,
			want: "username taken",
		},
		{
			name: "flat message",
			body: `{"message":"not found"}`,
			want: "not found",
		},
		{
			name: "no message",
			body: `{"something":"else"}`,
			want: DefaultErrorMessage,
		},
		{
			name: "invalid json body",
			body: `<html>bad gateway</html>`,
			want: DefaultErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, _ := New(server.URL, &staticTokens{})
			err := client.Post(context.Background(), "/auth/register", map[string]string{}, nil)

			apiErr, ok := err.(*Error)
			if !ok {
				t.Fatalf("Expected *Error, got %T: %v", err, err)
			}
			if apiErr.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", apiErr.StatusCode)
			}
			if apiErr.Message != tt.want {
				t.Errorf("Expected message %q, got %q", tt.want, apiErr.Message)
			}
		})
	}
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client, _ := New(server.URL, &staticTokens{})
	var out struct{}
	err := client.Get(context.Background(), "/posts", nil, &out)

	if _, ok := err.(*DecodeError); !ok {
		t.Fatalf("Expected *DecodeError, got %T: %v", err, err)
	}
}

func TestClient_PostEncodesBody(t *testing.T) {
	var gotBody map[string]string
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := New(server.URL, &staticTokens{})
	if err := client.Post(context.Background(), "/likes", map[string]string{"postId": "p1"}, nil); err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("Expected JSON content type, got %q", gotContentType)
	}
	if gotBody["postId"] != "p1" {
		t.Errorf("Expected postId p1, got %v", gotBody)
	}
}

func TestClient_Upload(t *testing.T) {
	var gotType, gotResize, gotFile string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm failed: %v", err)
		}
		gotType = r.FormValue("type")
		gotResize = r.FormValue("resize")

		f, _, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("FormFile failed: %v", err)
		}
		data, _ := io.ReadAll(f)
		gotFile = string(data)

		w.Write([]byte(`{"media":{"id":"m1"}}`))
	}))
	defer server.Close()

	client, _ := New(server.URL, &staticTokens{token: "t1"})

	var lastPercent int
	fields := map[string]string{"type": "post", "resize": `{"width":800}`}
	file := FormFile{Field: "image", Name: "cat.jpg", Data: strings.NewReader("image-bytes")}

	var resp struct {
		Media struct {
			ID string `json:"id"`
		} `json:"media"`
	}
	err := client.Upload(context.Background(), "/media/upload", fields, file, &resp, func(percent int) {
		if percent < lastPercent {
			t.Errorf("Progress went backwards: %d after %d", percent, lastPercent)
		}
		lastPercent = percent
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if gotType != "post" {
		t.Errorf("Expected type field 'post', got %q", gotType)
	}
	if gotResize != `{"width":800}` {
		t.Errorf("Expected resize directive, got %q", gotResize)
	}
	if gotFile != "image-bytes" {
		t.Errorf("Expected file contents, got %q", gotFile)
	}
	if resp.Media.ID != "m1" {
		t.Errorf("Expected media id m1, got %q", resp.Media.ID)
	}
	if lastPercent != 100 {
		t.Errorf("Expected final progress 100, got %d", lastPercent)
	}
}

func TestMeta_HasMore(t *testing.T) {
	meta := Meta{Total: 25, TotalPages: 3, Page: 1, Limit: 10}

	if !meta.HasMore(1) {
		t.Error("Expected more pages after page 1")
	}
	if !meta.HasMore(2) {
		t.Error("Expected more pages after page 2")
	}
	// A full last page is still the last page
	if meta.HasMore(3) {
		t.Error("Expected no more pages after the last page")
	}
}

func TestMessage(t *testing.T) {
	apiErr := &Error{StatusCode: 400, Message: "username taken"}
	if got := Message(apiErr, "fallback"); got != "username taken" {
		t.Errorf("Expected server message, got %q", got)
	}

	plain := io.ErrUnexpectedEOF
	if got := Message(plain, "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for transport error, got %q", got)
	}

	generic := &Error{StatusCode: 500, Message: DefaultErrorMessage}
	if got := Message(generic, "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for default server message, got %q", got)
	}
}
