package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	path string
	body map[string]interface{}
}

func newUsersServer(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, recordedRequest{path: r.URL.Path, body: body})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestClient_endpoints(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) error
		wantPath string
		wantBody map[string]interface{}
	}{
		{
			name:     "set in queue",
			call:     func(c *Client) error { return c.SetInQueue(context.Background(), "7", true) },
			wantPath: "/setInQueue",
			wantBody: map[string]interface{}{"id": "7", "inQueue": true},
		},
		{
			name:     "set in game",
			call:     func(c *Client) error { return c.SetInGame(context.Background(), "7", false) },
			wantPath: "/setInGame",
			wantBody: map[string]interface{}{"id": "7", "inGame": false},
		},
		{
			name:     "set rank",
			call:     func(c *Client) error { return c.SetRank(context.Background(), "7", 125) },
			wantPath: "/setRank",
			wantBody: map[string]interface{}{"id": "7", "rank": float64(125)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, requests := newUsersServer(t, http.StatusOK, `{}`)
			c := NewClient(NewClientOptions{BaseURL: srv.URL + "/"})

			require.NoError(t, tt.call(c))
			require.Len(t, *requests, 1)
			assert.Equal(t, tt.wantPath, (*requests)[0].path)
			assert.Equal(t, tt.wantBody, (*requests)[0].body)
		})
	}
}

func TestClient_GetQueue(t *testing.T) {
	srv, requests := newUsersServer(t, http.StatusOK, `[{"id":"1","name":"ana","rank":50,"inQueue":true}]`)
	c := NewClient(NewClientOptions{BaseURL: srv.URL})

	queue, err := c.GetQueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []User{{ID: "1", Name: "ana", Rank: 50, InQueue: true}}, queue)
	assert.Equal(t, "/getQueue", (*requests)[0].path)
}

func TestClient_GetUser(t *testing.T) {
	srv, requests := newUsersServer(t, http.StatusOK, `{"name":"bo","rank":80}`)
	c := NewClient(NewClientOptions{BaseURL: srv.URL})

	user, err := c.GetUser(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, &User{ID: "2", Name: "bo", Rank: 80}, user)
	assert.Equal(t, map[string]interface{}{"id": "2"}, (*requests)[0].body)
}

func TestClient_statusError(t *testing.T) {
	srv, _ := newUsersServer(t, http.StatusInternalServerError, `boom`)
	c := NewClient(NewClientOptions{BaseURL: srv.URL})

	err := c.SetRank(context.Background(), "1", 10)
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "setRank", reqErr.Endpoint)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
}

func TestClient_unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(NewClientOptions{BaseURL: url, Timeout: time.Second})
	_, err := c.GetQueue(context.Background())
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, 0, reqErr.StatusCode)
	assert.Error(t, reqErr.Unwrap())
}

func TestNextRank(t *testing.T) {
	assert.Equal(t, 125, NextRank(100, true, 25))
	assert.Equal(t, 75, NextRank(100, false, 25))
	assert.Equal(t, 0, NextRank(10, false, 25))
	assert.Equal(t, 25, NextRank(0, true, 25))
}
