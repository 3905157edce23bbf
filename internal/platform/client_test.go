package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otm-exchange/otmctl/internal/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.Config{APIURL: url, APIToken: "test-token", Timeout: 5 * time.Second})
}

func TestCreateProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/projects/otm", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("X-Api-Token"))
		assert.Equal(t, otmContentType, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "acme-app", "name": "Acme App", "uuid": "7f65b2c4-08a1-4f9e-9d8a-2b9a6a3c1d42"}`))
	}))
	defer server.Close()

	info, err := newTestClient(server.URL).CreateProject(context.Background(), []byte("otmVersion: \"0.2.0\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "acme-app", info.ID)
	assert.Equal(t, "7f65b2c4-08a1-4f9e-9d8a-2b9a6a3c1d42", info.UUID)
}

func TestCreateProjectConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "project 'Acme App' already exists"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CreateProject(context.Background(), []byte("doc"))

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "project 'Acme App' already exists", conflict.Message)
}

func TestCreateProjectServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CreateProject(context.Background(), []byte("doc"))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Status)
	assert.Contains(t, statusErr.Error(), "upstream down")
}

func TestUpdateProjectByRef(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/projects/otm/acme-app", r.URL.Path)
		w.Write([]byte(`{"id": "acme-app", "uuid": "7f65b2c4-08a1-4f9e-9d8a-2b9a6a3c1d42"}`))
	}))
	defer server.Close()

	info, err := newTestClient(server.URL).UpdateProject(context.Background(), "acme-app", []byte("doc"))
	require.NoError(t, err)
	assert.Equal(t, "acme-app", info.ID)
}

func TestFetchOTMReturnsBodyVerbatim(t *testing.T) {
	body := "otmVersion: \"0.2.0\"\nproject:\n  id: acme-app\n  name: Acme App\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects/acme-app/otm", r.URL.Path)
		w.Write([]byte(body))
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).FetchOTM(context.Background(), "acme-app")
	require.NoError(t, err)
	assert.Equal(t, body, string(out))
}

func TestExistsByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/projects/by-id/acme-app":
			w.Write([]byte(`{"uuid": "7f65b2c4-08a1-4f9e-9d8a-2b9a6a3c1d42"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	exists, uuid, err := client.ExistsByID(context.Background(), "acme-app")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "7f65b2c4-08a1-4f9e-9d8a-2b9a6a3c1d42", uuid)

	exists, uuid, err = client.ExistsByID(context.Background(), "other-app")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, uuid)
}

func TestTransportFailure(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	_, err := client.FetchOTM(context.Background(), "acme-app")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "platform request failed")
}
