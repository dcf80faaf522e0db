// Package preview serves a live preview of the animation over HTTP.
// Each browser session streams frame events over a WebSocket and
// fetches the rendered frames as PNG images.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"image/png"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gorilla/mux"
	"github.com/sicmundu/cli-trace/internal/logging"
	"github.com/sicmundu/cli-trace/svgpath"
	"github.com/sicmundu/cli-trace/svgraster"
	"github.com/sicmundu/cli-trace/trace"
	"go.jetify.com/typeid/v2"
)

// PrefixSession is the type prefix of session ids.
const PrefixSession = "sess"

func newSessionID() string {
	return typeid.MustGenerate(PrefixSession).String()
}

// Server serves one scene.
type Server struct {
	Scene trace.Scene
	Style svgraster.Style
	// View defaults to the bounds of the scene.
	View  svgpath.Bounds
	Title string
	FPS   int
	// Clock drives the sessions; it defaults to trace.TickerClock.
	Clock trace.Clock
}

// Message is sent to the WebSocket clients for each frame.
type Message struct {
	Session    string    `json:"session"`
	Frame      int       `json:"frame"`
	ElapsedMS  int64     `json:"elapsedMs"`
	Progresses []float64 `json:"progresses"`
	Done       bool      `json:"done"`
}

// Info describes the scene, for the /info route.
type Info struct {
	Paths        []PathInfo     `json:"paths"`
	Bounds       svgpath.Bounds `json:"bounds"`
	DurationMS   int64          `json:"durationMs"`
	TotalMS      int64          `json:"totalMs"`
	Loop         bool           `json:"loop"`
	Easing       string         `json:"easing"`
	Direction    string         `json:"direction"`
	GlobalTiming bool           `json:"globalTiming"`
}

// PathInfo describes one path.
type PathInfo struct {
	Segments     int     `json:"segments"`
	ApproxLength float64 `json:"approxLength"`
	Length       float64 `json:"length"`
}

func (s *Server) info() Info {
	opts := s.Scene.Options
	out := Info{
		Bounds:       s.Scene.Bounds(),
		DurationMS:   opts.Duration.Milliseconds(),
		TotalMS:      opts.TotalDuration(len(s.Scene.Paths)).Milliseconds(),
		Loop:         opts.Loop,
		Easing:       opts.Easing.String(),
		Direction:    opts.Direction.String(),
		GlobalTiming: opts.GlobalTiming,
	}
	for _, m := range s.Scene.Paths {
		out.Paths = append(out.Paths, PathInfo{
			Segments:     m.Len(),
			ApproxLength: m.Data.TotalLength,
			Length:       m.Total,
		})
	}
	return out
}

// Handler returns the router of the server.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(recovery)
	r.Use(logRequests)
	r.HandleFunc("/", s.index).Methods("GET")
	r.HandleFunc("/info", s.serveInfo).Methods("GET")
	r.HandleFunc("/frame.png", s.frame).Methods("GET")
	r.HandleFunc("/ws", s.stream)
	return r
}

var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<img id="frame" src="/frame.png?p=0" width="{{.Width}}" height="{{.Height}}" alt="{{.Title}}">
<p><button id="replay">Replay</button> <span id="status"></span></p>
<script>
const frame = document.getElementById("frame");
const status = document.getElementById("status");
function play() {
	const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
	let loading = false;
	ws.onmessage = (ev) => {
		const msg = JSON.parse(ev.data);
		status.textContent = msg.done ? "done" : "frame " + msg.frame;
		if (loading && !msg.done) {
			return; // skip frames while the previous one loads
		}
		loading = true;
		frame.onload = () => { loading = false; };
		frame.src = "/frame.png?t=" + msg.elapsedMs;
	};
}
document.getElementById("replay").onclick = play;
play();
</script>
</body>
</html>
`))

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexPage.Execute(w, struct {
		Title         string
		Width, Height int
	}{s.Title, s.Style.Width, s.Style.Height})
	if err != nil {
		logging.Logger().Error("index page", "error", err)
	}
}

func (s *Server) serveInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.info()); err != nil {
		logging.Logger().Error("info", "error", err)
	}
}

// progresses reads the instant of the frame: p is a progress shared
// by every path, t an elapsed time in milliseconds.
func (s *Server) progresses(r *http.Request) ([]float64, error) {
	q := r.URL.Query()
	if v := q.Get("p"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid progress %q", v)
		}
		out := make([]float64, len(s.Scene.Paths))
		for i := range out {
			out[i] = p
		}
		return out, nil
	}
	ms := int64(0)
	if v := q.Get("t"); v != "" {
		var err error
		if ms, err = strconv.ParseInt(v, 10, 64); err != nil || ms < 0 {
			return nil, fmt.Errorf("invalid time %q", v)
		}
	}
	return s.Scene.ProgressesAt(time.Duration(ms) * time.Millisecond), nil
}

func (s *Server) frame(w http.ResponseWriter, r *http.Request) {
	progresses, err := s.progresses(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	img := svgraster.RenderFrame(s.Scene, progresses, s.Style, s.View)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, img); err != nil {
		logging.Logger().Debug("write frame", "error", err)
	}
}

// stream plays the animation for one client, sending a Message per
// frame, and closes the connection once the scene completes.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	log := logging.Logger()
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error("websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	session := newSessionID()
	log.Info("preview session started", "session", session)
	// the context is cancelled when the client goes away
	ctx := conn.CloseRead(r.Context())

	clock := s.Clock
	if clock == nil {
		clock = trace.TickerClock{}
	}
	var start time.Time
	_, err = trace.NewPlayer(s.FPS).Run(ctx, clock, s.Scene, func(f trace.Frame) error {
		if f.Index == 0 {
			start = f.Time
		}
		return wsjson.Write(ctx, conn, Message{
			Session:    session,
			Frame:      f.Index,
			ElapsedMS:  f.Time.Sub(start).Milliseconds(),
			Progresses: f.Progresses,
			Done:       f.Scene.Done(),
		})
	})
	if err != nil {
		log.Debug("preview session interrupted", "session", session, "error", err)
		return
	}
	log.Info("preview session completed", "session", session)
	conn.Close(websocket.StatusNormalClosure, "")
}

// ListenAndServe serves on addr until ctx is done, then shuts the
// server down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like ListenAndServe, on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// sessions end with the server
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	logging.Logger().Info("preview server listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logging.Logger().Info("shutting down preview server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
