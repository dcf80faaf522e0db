package preview

import (
	"context"
	"encoding/json"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sicmundu/cli-trace/svgpath"
	"github.com/sicmundu/cli-trace/svgraster"
	"github.com/sicmundu/cli-trace/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.jetify.com/typeid/v2"
)

func newServer() *Server {
	opts := trace.DefaultOptions()
	opts.Duration = 60 * time.Millisecond
	paths := svgpath.FromStrings([]string{"M 0 0 L 10 0 L 10 10", "M 0 0 C 0 10 10 10 10 0"}, svgpath.Options{})
	style := svgraster.DefaultStyle()
	style.Width, style.Height = 64, 48
	return &Server{
		Scene: trace.NewScene(paths, opts),
		Style: style,
		Title: "<logo>",
		FPS:   100,
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndex(t *testing.T) {
	h := newServer().Handler()
	rec := get(t, h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>&lt;logo&gt;</title>")
	assert.Contains(t, rec.Body.String(), `width="64"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestInfo(t *testing.T) {
	rec := get(t, newServer().Handler(), "/info")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var info Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	require.Len(t, info.Paths, 2)
	assert.Equal(t, 3, info.Paths[0].Segments)
	assert.Equal(t, 20., info.Paths[0].ApproxLength)
	assert.InDelta(t, 20, info.Paths[0].Length, 1e-9)
	assert.Equal(t, int64(60), info.DurationMS)
	assert.Equal(t, "linear", info.Easing)
	assert.Equal(t, "forward", info.Direction)
	assert.Equal(t, svgpath.Bounds{MaxX: 10, MaxY: 10}, info.Bounds)
}

func TestFrame(t *testing.T) {
	h := newServer().Handler()
	for _, target := range []string{"/frame.png?p=0.5", "/frame.png?t=30", "/frame.png"} {
		rec := get(t, h, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		img, err := png.Decode(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, 64, img.Bounds().Dx())
		assert.Equal(t, 48, img.Bounds().Dy())
	}
	for _, target := range []string{"/frame.png?p=half", "/frame.png?t=-5"} {
		assert.Equal(t, http.StatusBadRequest, get(t, h, target).Code, target)
	}
}

func TestStream(t *testing.T) {
	srv := httptest.NewServer(newServer().Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var msgs []Message
	for {
		var msg Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err), err)
			break
		}
		msgs = append(msgs, msg)
	}
	require.NotEmpty(t, msgs)

	id, err := typeid.Parse(msgs[0].Session)
	require.NoError(t, err)
	assert.Equal(t, PrefixSession, id.Prefix())

	for i, msg := range msgs {
		assert.Equal(t, i, msg.Frame)
		assert.Equal(t, msgs[0].Session, msg.Session)
		assert.Len(t, msg.Progresses, 2)
		assert.Equal(t, i == len(msgs)-1, msg.Done)
	}
	assert.Equal(t, []float64{0, 0}, msgs[0].Progresses)
	assert.Equal(t, []float64{1, 1}, msgs[len(msgs)-1].Progresses)
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- newServer().Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/info")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	assert.NoError(t, <-errc)
}
