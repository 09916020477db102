package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWeb(state *BotState) *WebServer {
	return newWebServer(state, "Render.com", func() float64 { return 42.5 })
}

func TestStatusBeforeReady(t *testing.T) {
	state := newBotState("!")
	srv := httptest.NewServer(newTestWeb(state).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "offline", body["status"])

	// the failed probe must show up as an open api incident
	list := state.incidents.List(incidentListMax)
	require.Len(t, list, 1)
	assert.Equal(t, "api", list[0].Service)
	assert.Equal(t, incidentInvestigating, list[0].Status)
	assert.False(t, state.health.api.Load())
}

func TestStatusWhenOnline(t *testing.T) {
	state := newBotState("!")
	state.ready.Store(true)
	state.health.gateway.Store(true)
	state.guilds.Upsert(GuildSnapshot{ID: "1", Name: "alpha", MemberCount: 10})
	state.guilds.Upsert(GuildSnapshot{ID: "2", Name: "beta", MemberCount: 32})

	srv := httptest.NewServer(newTestWeb(state).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body statusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, "online", body.Status)
	assert.Equal(t, 42.5, body.Ping)
	assert.Equal(t, "Render.com", body.Host)
	assert.Equal(t, "operational", body.HostService)
	assert.Equal(t, 2, body.Guilds)
	assert.Equal(t, 42, body.Users)
	assert.Equal(t, "online", body.Services.API)
	assert.Equal(t, "online", body.Services.Gateway)
	assert.Equal(t, "online", body.Services.Commands)
	assert.NotEmpty(t, body.Uptime)
	assert.NotEmpty(t, body.LastBoot)
	assert.NotEmpty(t, body.Updated)
}

func TestStatusRecoversApiIncident(t *testing.T) {
	state := newBotState("!")
	srv := httptest.NewServer(newTestWeb(state).routes())
	defer srv.Close()

	// first probe fails, second succeeds after the gateway comes up
	_, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)

	state.ready.Store(true)
	state.health.gateway.Store(true)

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := state.incidents.List(incidentListMax)
	require.Len(t, list, 1)
	assert.Equal(t, incidentResolved, list[0].Status)
	assert.True(t, state.health.api.Load())
}

func TestStatusDegradedGateway(t *testing.T) {
	state := newBotState("!")
	state.ready.Store(true)
	state.health.gateway.Store(false)

	srv := httptest.NewServer(newTestWeb(state).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body statusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "down", body.HostService)
	assert.Equal(t, "offline", body.Services.Gateway)
	assert.Equal(t, "online", body.Services.API)
}

func TestIncidentsEndpoint(t *testing.T) {
	state := newBotState("!")
	state.incidents.Open("gateway", "Discord gateway disconnected")
	state.incidents.Resolve("gateway")
	state.incidents.Open("commands", "Command execution failed")

	srv := httptest.NewServer(newTestWeb(state).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/incidents")
	require.NoError(t, err)
	defer resp.Body.Close()

	var list []Incident
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, "commands", list[0].Service)
	assert.Nil(t, list[0].ResolvedAt)
	assert.Equal(t, "gateway", list[1].Service)
	assert.NotNil(t, list[1].ResolvedAt)
}

func TestIncidentsEndpointEmpty(t *testing.T) {
	srv := httptest.NewServer(newTestWeb(newBotState("!")).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/incidents")
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := make([]byte, 16)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, "[]", string(buf[:n]))
}

func TestCORSHeaders(t *testing.T) {
	srv := httptest.NewServer(newTestWeb(newBotState("!")).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/status", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/status", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRootEndpoint(t *testing.T) {
	srv := httptest.NewServer(newTestWeb(newBotState("!")).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
