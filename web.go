package main

import (
	"net/http"

	"github.com/goccy/go-json"
)

// WebServer serves the public status pages. It owns no state of its own:
// everything it reports is read from BotState at request time.
type WebServer struct {
	state *BotState
	host  string
	ping  func() float64
}

func newWebServer(state *BotState, hostProvider string, ping func() float64) *WebServer {
	return &WebServer{
		state: state,
		host:  hostProvider,
		ping:  ping,
	}
}

func (ws *WebServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", withCORS(ws.handleRoot))
	mux.HandleFunc("/status", withCORS(ws.handleStatus))
	mux.HandleFunc("/incidents", withCORS(ws.handleIncidents))
	return mux
}

// The endpoints are consumed by a status page on another origin, so every
// response is CORS-open.
func withCORS(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		h(w, r)
	}
}

type serviceStatus struct {
	API      string `json:"api"`
	Gateway  string `json:"gateway"`
	Commands string `json:"commands"`
}

type statusResponse struct {
	Status      string        `json:"status"`
	Ping        float64       `json:"ping"`
	Uptime      string        `json:"uptime"`
	LastBoot    string        `json:"lastBoot"`
	Updated     string        `json:"updated"`
	Host        string        `json:"host"`
	HostService string        `json:"hostService"`
	Guilds      int           `json:"guilds"`
	Users       int           `json:"users"`
	Services    serviceStatus `json:"services"`
}

func onlineOffline(up bool) string {
	if up {
		return "online"
	}
	return "offline"
}

func (ws *WebServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("🤖 Bot is running!"))
}

func (ws *WebServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// A status request before the gateway is up counts as an api failure.
	if !ws.state.ready.Load() {
		ws.state.health.api.Store(false)
		ws.state.incidents.Open("api", "API unreachable")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"offline"}`))
		return
	}

	ws.state.health.api.Store(true)
	ws.state.incidents.Resolve("api")

	guilds, users := ws.state.guilds.Totals()

	hostService := "down"
	if ws.state.health.api.Load() && ws.state.health.gateway.Load() {
		hostService = "operational"
	}

	resp := statusResponse{
		Status:      "online",
		Ping:        ws.ping(),
		Uptime:      ws.state.uptime(),
		LastBoot:    ws.state.lastBoot,
		Updated:     isoNow(),
		Host:        ws.host,
		HostService: hostService,
		Guilds:      guilds,
		Users:       users,
		Services: serviceStatus{
			API:      onlineOffline(ws.state.health.api.Load()),
			Gateway:  onlineOffline(ws.state.health.gateway.Load()),
			Commands: onlineOffline(ws.state.health.commands.Load()),
		},
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(gson)
}

func (ws *WebServer) handleIncidents(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	gson, err := json.Marshal(ws.state.incidents.List(incidentListMax))
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(gson)
}
