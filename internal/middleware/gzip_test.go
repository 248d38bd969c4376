package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoJSON отвечает телом запроса, обёрнутым в JSON-объект.
func echoJSON(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"echo":` + string(body) + `}`))
}

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestGzipMiddleware(t *testing.T) {
	const quote = `{"items":[{"foodId":"f1","quantity":2}]}`

	tests := []struct {
		name           string
		body           []byte
		contentEnc     string
		acceptEnc      string
		wantStatus     int
		wantCompressed bool
		wantBody       string
	}{
		{
			name:       "plain request and response",
			body:       []byte(quote),
			wantStatus: http.StatusOK,
			wantBody:   `{"echo":` + quote + `}`,
		},
		{
			name:           "compressed response",
			body:           []byte(quote),
			acceptEnc:      "gzip, deflate",
			wantStatus:     http.StatusOK,
			wantCompressed: true,
			wantBody:       `{"echo":` + quote + `}`,
		},
		{
			name:       "compressed request",
			body:       gzipBytes(t, quote),
			contentEnc: "gzip",
			wantStatus: http.StatusOK,
			wantBody:   `{"echo":` + quote + `}`,
		},
		{
			name:           "compressed both ways",
			body:           gzipBytes(t, `"x"`),
			contentEnc:     "gzip",
			acceptEnc:      "gzip",
			wantStatus:     http.StatusOK,
			wantCompressed: true,
			wantBody:       `{"echo":"x"}`,
		},
		{
			name:       "broken gzip body",
			body:       []byte("not gzip"),
			contentEnc: "gzip",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/cart/quote", bytes.NewReader(tt.body))
			if tt.contentEnc != "" {
				req.Header.Set("Content-Encoding", tt.contentEnc)
			}
			if tt.acceptEnc != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEnc)
			}

			rec := httptest.NewRecorder()
			GzipMiddleware(http.HandlerFunc(echoJSON)).ServeHTTP(rec, req)

			res := rec.Result()
			defer res.Body.Close()

			require.Equal(t, tt.wantStatus, res.StatusCode)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var reader io.Reader = res.Body
			if tt.wantCompressed {
				assert.Equal(t, "gzip", res.Header.Get("Content-Encoding"))
				zr, err := gzip.NewReader(res.Body)
				require.NoError(t, err)
				defer zr.Close()
				reader = zr
			} else {
				assert.Empty(t, res.Header.Get("Content-Encoding"))
			}

			body, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(string(body)))
			assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
		})
	}
}

func TestGzipMiddleware_PassesThrough(t *testing.T) {
	encoded := gzipBytes(t, "already compressed")

	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
		wantEnc string
		body    []byte
	}{
		{
			name:    "no content",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) },
			status:  http.StatusNoContent,
		},
		{
			name:    "not modified",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotModified) },
			status:  http.StatusNotModified,
		},
		{
			name: "already encoded",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", "gzip")
				_, _ = w.Write(encoded)
			},
			status:  http.StatusOK,
			wantEnc: "gzip",
			body:    encoded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			req.Header.Set("Accept-Encoding", "gzip")

			rec := httptest.NewRecorder()
			GzipMiddleware(tt.handler).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.wantEnc, rec.Header().Get("Content-Encoding"))
			if tt.body == nil {
				assert.Zero(t, rec.Body.Len())
				return
			}
			assert.Equal(t, tt.body, rec.Body.Bytes())
		})
	}
}

func TestGzipMiddleware_EmptyBodyWithoutStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	rec := httptest.NewRecorder()
	GzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Zero(t, rec.Body.Len())
}
