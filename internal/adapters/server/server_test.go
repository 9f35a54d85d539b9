package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindmap/internal/adapters/cas"
	"go.trai.ch/mindmap/internal/adapters/export"
	"go.trai.ch/mindmap/internal/adapters/server"
	"go.trai.ch/mindmap/internal/adapters/telemetry"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const feed = `
nodes:
  - id: "1"
    label: Root
  - id: "2"
    label: Child
  - id: "3"
    label: Page
    kind: source
    nav: {document: guide.pdf, page: 4, section: Intro}
links:
  - {source: "1", target: "2"}
  - {source: "1", target: "3"}
`

func newServer(t *testing.T) (*server.Server, *httptest.Server) {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	exporters, err := export.New()
	require.NoError(t, err)

	cfg := domain.DefaultConfig()
	cfg.StorePath = t.TempDir()
	cfg.Layout.TransitionDuration = 20 * time.Millisecond
	cfg.Server.FrameInterval = 5 * time.Millisecond

	srv := server.New(cfg, log, telemetry.NewNoOpTracer(), exporters, server.WithStore(cas.NewStore()))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	_, ts := newServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","sessions":0}`, body)
}

func TestGraphAPI(t *testing.T) {
	t.Parallel()
	_, ts := newServer(t)

	resp, _ := do(t, http.MethodGet, ts.URL+"/api/graph", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := do(t, http.MethodPut, ts.URL+"/api/graph", "nodes: [{id: a}, {id: a}]")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, domain.ErrGraphParseFailed.Error())

	resp, body = do(t, http.MethodPut, ts.URL+"/api/graph", feed)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	var put struct {
		Digest string `json:"digest"`
		Nodes  int    `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &put))
	assert.Len(t, put.Digest, 16)
	assert.Equal(t, 3, put.Nodes)

	resp, body = do(t, http.MethodGet, ts.URL+"/api/graph", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, `"label": "Child"`)

	resp, revision := do(t, http.MethodGet, ts.URL+"/api/graph/"+put.Digest, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, body, revision)

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/graph/0000000000000000", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportAPI(t *testing.T) {
	t.Parallel()
	srv, ts := newServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/api/export.svg", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, domain.ErrNothingToExport.Error())

	g := domain.NewGraph()
	require.NoError(t, g.AddNode(domain.Node{ID: "1", Label: "Only"}))
	srv.Publish(g)

	resp, body = do(t, http.MethodGet, ts.URL+"/api/export.svg?width=400&height=300", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300"`), body)
	assert.Contains(t, body, ">Only</text>")

	resp, body = do(t, http.MethodGet, ts.URL+"/api/export.png", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "\x89PNG"))

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/export.gif", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/export.svg?session=missing", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.DialContext(t.Context(), url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil skips messages until one of the given type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var env envelope
		require.NoError(t, conn.ReadJSON(&env))
		if env.Type == typ {
			return env
		}
	}
}

func TestWebSocketSession(t *testing.T) {
	t.Parallel()
	srv, ts := newServer(t)
	conn := dial(t, ts)

	var hello server.HelloPayload
	require.NoError(t, json.Unmarshal(readUntil(t, conn, server.MsgHello).Payload, &hello))
	require.NotEmpty(t, hello.Session)

	resp, body := do(t, http.MethodPut, ts.URL+"/api/graph", feed)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var scene server.ScenePayload
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "scene").Payload, &scene))
	require.NotEmpty(t, scene.Commands)
	assert.Equal(t, "enter", scene.Commands[0].Op)

	var mm server.MinimapPayload
	require.NoError(t, json.Unmarshal(readUntil(t, conn, server.MsgMinimap).Payload, &mm))
	assert.True(t, mm.Ready)
	assert.Len(t, mm.Markers, 3)

	// Navigation.
	require.NoError(t, conn.WriteJSON(server.Inbound{Type: server.MsgClick, ID: "3"}))
	var nav server.NavigatePayload
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "navigate").Payload, &nav))
	assert.Equal(t, server.NavigatePayload{FileName: "guide.pdf", Page: 4, SearchText: "Intro"}, nav)

	// Rename through the edit prompt.
	require.NoError(t, conn.WriteJSON(server.Inbound{Type: server.MsgDoubleClick, ID: "2"}))
	var prompt server.PromptPayload
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "editRequested").Payload, &prompt))
	assert.Equal(t, "Child", prompt.Label)

	require.NoError(t, conn.WriteJSON(server.Inbound{Type: server.MsgResolveEdit, RequestID: prompt.RequestID, Value: " Renamed ", OK: true}))
	var edited server.EditedPayload
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "graphEdited").Payload, &edited))
	assert.Equal(t, server.EditedPayload{NodeID: "2", Label: "Renamed"}, edited)

	// The edit becomes the current graph.
	require.Eventually(t, func() bool {
		g := srv.Hub().Current()
		n, ok := g.Node("2")
		return ok && n.Label == "Renamed"
	}, 5*time.Second, 10*time.Millisecond)

	// Export of the live view.
	require.NoError(t, conn.WriteJSON(server.Inbound{Type: server.MsgExport}))
	var exp server.ExportPayload
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "exportReady").Payload, &exp))
	assert.Equal(t, "/api/export.svg?session="+hello.Session, exp.SVG)

	resp, body = do(t, http.MethodGet, ts.URL+exp.SVG, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, ">Renamed</text>")

	// Protocol errors keep the connection open.
	require.NoError(t, conn.WriteJSON(server.Inbound{Type: "teleport"}))
	var perr server.ErrorPayload
	require.NoError(t, json.Unmarshal(readUntil(t, conn, server.MsgError).Payload, &perr))
	assert.Contains(t, perr.Message, domain.ErrUnknownMessage.Error())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	require.NoError(t, json.Unmarshal(readUntil(t, conn, server.MsgError).Payload, &perr))
	assert.Contains(t, perr.Message, domain.ErrInvalidMessage.Error())

	require.NoError(t, conn.WriteJSON(server.Inbound{Type: server.MsgZoomIn}))
	readUntil(t, conn, "viewport")
}

func TestWebSocketBroadcast(t *testing.T) {
	t.Parallel()
	srv, ts := newServer(t)

	a, b := dial(t, ts), dial(t, ts)
	readUntil(t, a, server.MsgHello)
	readUntil(t, b, server.MsgHello)

	g := domain.NewGraph()
	require.NoError(t, g.AddNode(domain.Node{ID: "1", Label: "Shared"}))
	srv.Publish(g)

	for _, conn := range []*websocket.Conn{a, b} {
		var scene server.ScenePayload
		require.NoError(t, json.Unmarshal(readUntil(t, conn, "scene").Payload, &scene))
		require.Len(t, scene.Commands, 1)
		assert.Equal(t, "Shared", scene.Commands[0].Node.Label)
	}

	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","sessions":2}`, body)
}
