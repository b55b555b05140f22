package client

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

func brotliBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("Failed to create zstd writer: %v", err)
	}
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

func TestCompressionTransport_Decodes(t *testing.T) {
	testData := []byte(`[{"score": 1, "show": {"id": 1, "name": "Girls"}}]`)

	tests := []struct {
		name     string
		encoding string
		encode   func(*testing.T, []byte) []byte
	}{
		{name: "gzip", encoding: "gzip", encode: gzipBytes},
		{name: "brotli", encoding: "br", encode: brotliBytes},
		{name: "zstd", encoding: "zstd", encode: zstdBytes},
		{name: "comma list uses outermost", encoding: "identity, gzip", encode: gzipBytes},
		{name: "whitespace", encoding: " gzip ", encode: gzipBytes},
		{name: "upper case", encoding: "GZIP", encode: gzipBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := tt.encode(t, testData)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Accept-Encoding"); got != acceptEncoding {
					t.Errorf("Expected Accept-Encoding %q, got %q", acceptEncoding, got)
				}
				w.Header().Set("Content-Encoding", tt.encoding)
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(payload)
			}))
			defer server.Close()

			client := &http.Client{Transport: newCompressionTransport(nil)}
			resp, err := client.Get(server.URL)
			if err != nil {
				t.Fatalf("Failed to make request: %v", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("Failed to read response body: %v", err)
			}
			if !bytes.Equal(body, testData) {
				t.Errorf("Expected body %q, got %q", testData, body)
			}
			if resp.Header.Get("Content-Encoding") != "" {
				t.Errorf("Expected Content-Encoding header to be removed, got %q", resp.Header.Get("Content-Encoding"))
			}
		})
	}
}

func TestCompressionTransport_NoCompression(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := &http.Client{Transport: newCompressionTransport(nil)}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "[]" {
		t.Errorf("Expected plain body, got %q", body)
	}
}

func TestCompressionTransport_PreserveExistingAcceptEncoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept-Encoding"); got != "gzip" {
			t.Errorf("Expected caller's Accept-Encoding to be kept, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	req.Header.Set("Accept-Encoding", "gzip")

	client := &http.Client{Transport: newCompressionTransport(nil)}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	resp.Body.Close()
}

func TestCompressionTransport_UnknownEncoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "unknown-encoding")
		_, _ = w.Write([]byte("raw"))
	}))
	defer server.Close()

	client := &http.Client{Transport: newCompressionTransport(nil)}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Encoding") != "unknown-encoding" {
		t.Errorf("Expected Content-Encoding to be left alone, got %q", resp.Header.Get("Content-Encoding"))
	}
}

func TestCompressionTransport_NoBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := &http.Client{Transport: newCompressionTransport(nil)}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", resp.StatusCode)
	}
}

func TestCompressionTransport_CorruptGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write([]byte("definitely not gzip"))
	}))
	defer server.Close()

	client := &http.Client{Transport: newCompressionTransport(nil)}
	resp, err := client.Get(server.URL)
	if err == nil {
		resp.Body.Close()
		t.Fatal("Expected error for corrupt gzip body")
	}
}

func TestParseContentEncoding(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"simple gzip", "gzip", "gzip"},
		{"simple brotli", "br", "br"},
		{"simple zstd", "zstd", "zstd"},
		{"with both whitespace", " gzip ", "gzip"},
		{"comma list - identity, gzip", "identity, gzip", "gzip"},
		{"comma list - gzip, br", "gzip, br", "br"},
		{"comma list with whitespace", "identity , gzip", "gzip"},
		{"mixed case", "GzIp", "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseContentEncoding(tt.header)
			if result != tt.expected {
				t.Errorf("parseContentEncoding(%q) = %q, expected %q", tt.header, result, tt.expected)
			}
		})
	}
}
