package views

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GrainArc/TrackArt/models"
	"github.com/GrainArc/TrackArt/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const lineSvg = `<svg><path d="M 0 0 L 100 0 L 100 40"/></svg>`

func TestIdleLiveEditKeepsSessionAlive(t *testing.T) {
	saved := pingInterval
	pingInterval = 20 * time.Millisecond
	defer func() { pingInterval = saved }()

	gin.SetMode(gin.TestMode)
	cache := services.NewSessionCache(4, 150*time.Millisecond)
	defer cache.Close()
	art := services.NewArtService(cache, nil, services.Placement{
		SizeMeters: 200, CenterLat: 54.9, CenterLon: 23.9, Interpolation: 3,
	})
	sess, err := art.CreateFromSvg("line", []byte(lineSvg), art.DefaultPlacement())
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.GET("/ws/:id", NewLiveEditHandler(art).LiveEdit)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/"+sess.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var resp models.LiveEditResponse
	if err := conn.ReadJSON(&resp); err != nil || resp.Type != "init" {
		t.Fatalf("init: %+v, %v", resp, err)
	}

	// several TTLs pass with no edits
	time.Sleep(600 * time.Millisecond)

	if err := conn.WriteJSON(map[string]interface{}{"action": "rotation", "value": 30}); err != nil {
		t.Fatal(err)
	}
	resp = models.LiveEditResponse{}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != "track" {
		t.Errorf("edit after idle period: %+v", resp)
	}
	if _, err := art.Session(sess.ID); err != nil {
		t.Errorf("session expired while connected: %v", err)
	}
}
