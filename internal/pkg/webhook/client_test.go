package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendConfirmedOnDoneToken(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte("Done"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	res, err := c.Send(context.Background(), EndpointClockIn, map[string]string{"action": "clockIn"})
	require.NoError(t, err)

	assert.Equal(t, "/webhook/clockIn", gotPath)
	assert.Equal(t, "clockIn", gotPayload["action"])
	assert.True(t, res.Confirmed)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestSendNotConfirmedWithoutToken(t *testing.T) {
	// HTTP 200 with a "processing" body means the write is still queued;
	// callers must not treat it as success.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("processing"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	res, err := c.Send(context.Background(), EndpointClockOut, map[string]string{"action": "clockOut"})
	require.NoError(t, err)
	assert.False(t, res.Confirmed)
}

func TestSendNotConfirmedOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A failing workflow may still echo the token; status wins.
		http.Error(w, "done (with errors)", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	res, err := c.Send(context.Background(), EndpointSchedule, nil)
	require.NoError(t, err)
	assert.False(t, res.Confirmed)
}

func TestSendCaseInsensitiveToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"DONE"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	res, err := c.Send(context.Background(), EndpointTemplate, nil)
	require.NoError(t, err)
	assert.True(t, res.Confirmed)
}

func TestSendTransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	_, err := c.Send(context.Background(), EndpointRegistration, nil)
	assert.Error(t, err)
}
