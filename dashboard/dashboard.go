// Package dashboard serves a single live page showing the rotation
// search's current best-known result over a websocket, for long searches
// run with --serve. It deliberately serves one page to one client at a
// time: this is an optimizer's progress window, not a multi-tenant app.
package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"

	"github.com/niceyeti/dlgrind/atomic_float"
	"github.com/niceyeti/dlgrind/dp"
)

var upgrader = websocket.Upgrader{}

const (
	writeWait        = 1 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	closeGracePeriod = 10 * time.Second
)

// Update is the JSON shape pushed to the client on every milestone.
type Update struct {
	Frame    int     `json:"frame"`
	Damage   float64 `json:"damage"`
	Sequence string  `json:"sequence"`
}

// Dashboard tracks the single most recent milestone and publishes it to
// a single connected client at a time, plus a lock-free current-best
// value other goroutines (or future endpoints) can poll without going
// through the websocket at all.
type Dashboard struct {
	addr      string
	updates   chan Update
	bestSoFar *atomic_float.AtomicFloat64
}

// New builds a Dashboard listening on addr. Feed milestones to it via
// Publish as the search discovers them; call Serve to start the HTTP
// server (blocking).
func New(addr string) *Dashboard {
	return &Dashboard{
		addr:      addr,
		updates:   make(chan Update, 1),
		bestSoFar: atomic_float.NewAtomicFloat64(0),
	}
}

// Publish forwards a search milestone to the dashboard. It is safe to
// call from the search's own goroutines; a full channel drops the older
// pending update in favor of this one rather than blocking the search
// (only the latest value matters to a progress display).
func (d *Dashboard) Publish(m dp.Milestone) {
	d.bestSoFar.AtomicSetMax(m.Damage)
	u := Update{Frame: m.Frame, Damage: m.Damage, Sequence: m.Sequence.String()}
	select {
	case d.updates <- u:
	default:
		// Replace the stale pending update with this one.
		select {
		case <-d.updates:
		default:
		}
		select {
		case d.updates <- u:
		default:
		}
	}
}

// BestSoFar returns the highest damage total published so far.
func (d *Dashboard) BestSoFar() float64 {
	return d.bestSoFar.AtomicRead()
}

// Serve runs the HTTP server until ctx is cancelled.
func (d *Dashboard) Serve(ctx context.Context) error {
	r := mux.NewRouter()
	r.HandleFunc("/", d.serveIndex).Methods(http.MethodGet)
	r.HandleFunc("/ws", d.serveWebsocket)

	srv := &http.Server{Addr: d.addr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("dashboard: serve: %w", err)
		}
		return nil
	}
}

func (d *Dashboard) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if err := indexTemplate.Execute(w, nil); err != nil {
		_, _ = w.Write([]byte(err.Error()))
	}
}

// serveWebsocket streams milestones to a single connected client,
// pinging it periodically to detect a dead connection. This mirrors the
// original's single-client publish loop: the search is the only producer,
// there is no fan-out to multiple viewers.
func (d *Dashboard) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		log.Println("dashboard: upgrade:", err)
		return
	}
	defer closeWebsocket(ws)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	pong := make(chan struct{})
	ws.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		case <-ctx.Done():
		}
		return nil
	})

	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	pinger := channerics.NewTicker(ctx.Done(), pingPeriod)
	lastPong := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pinger:
			if time.Since(lastPong) > pingPeriod*2 {
				return
			}
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-pong:
			lastPong = time.Now()
		case u := <-d.updates:
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := ws.WriteJSON(u); err != nil {
				return
			}
		}
	}
}

func closeWebsocket(ws *websocket.Conn) {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGracePeriod)
	ws.Close()
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><title>dlgrind rotation search</title></head>
<body>
<h1>Current best rotation</h1>
<div id="frame">frame: -</div>
<div id="damage">damage: -</div>
<div id="sequence">sequence: -</div>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (ev) => {
  const u = JSON.parse(ev.data);
  document.getElementById("frame").textContent = "frame: " + u.frame;
  document.getElementById("damage").textContent = "damage: " + u.damage;
  document.getElementById("sequence").textContent = "sequence: " + u.sequence;
};
</script>
</body>
</html>
`))
