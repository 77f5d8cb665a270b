package serializer

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusCreated, map[string]string{"package": "boutpp"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"package":"boutpp"}`, w.Body.String())
}

func TestRespondJSONEncodingFailure(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusOK, math.Inf(1))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHttpReaderRead(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.UserAgent()
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("payload")) //nolint:errcheck
	}))
	defer srv.Close()

	r := NewHttpReader(WithUserAgent("test-agent"), WithTotalTimeout(2*time.Second))
	data, err := r.Read(srv.URL + "/ok")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, "test-agent", agent)

	_, err = r.Read(srv.URL + "/fail")
	assert.ErrorContains(t, err, "502")

	_, err = r.Read("")
	assert.Error(t, err)
}

func TestHttpReaderCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHttpReader().ReadWithContext(ctx, srv.URL)
	assert.Error(t, err)
}

func TestHttpReaderTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(strings.Repeat("x", maxDocumentSize+1))) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := NewHttpReader().Read(srv.URL)
	assert.ErrorContains(t, err, "exceeds")
}

func TestHttpReaderOptions(t *testing.T) {
	client := &http.Client{Timeout: time.Second}
	r := NewHttpReader(WithClient(client))
	assert.Same(t, client, r.Client)

	r = NewHttpReader(WithInsecureSkipVerify(true))
	tr, ok := r.Client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
}

func TestHttpReaderDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("kind: BuildRequest\n")) //nolint:errcheck
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "req.yaml")
	require.NoError(t, NewHttpReader().Download(context.Background(), srv.URL, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "kind: BuildRequest\n", string(data))
}
