package routers

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GrainArc/TrackArt/config"
	"github.com/GrainArc/TrackArt/models"
	"github.com/GrainArc/TrackArt/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/paulmach/orb/geojson"
)

const starSvg = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <path d="M50 0 L61 35 L98 35 L68 57 C75 75 80 85 79 91 Q60 80 50 70 L21 91 L32 57 L2 35 L39 35 Z"/>
</svg>`

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.DefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "art.db")
	db, err := config.OpenDatabase(cfg)
	if err != nil {
		t.Fatal(err)
	}
	cache := services.NewSessionCache(16, time.Hour)
	t.Cleanup(cache.Close)
	art := services.NewArtService(cache, db, services.PlacementFromConfig(cfg))
	return NewEngine(art, services.NewExportService(t.TempDir()))
}

func do(t *testing.T, r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return do(t, r, req)
}

func decodeSummary(t *testing.T, w *httptest.ResponseRecorder) models.SessionSummary {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	var sum models.SessionSummary
	if err := json.Unmarshal(env.Data, &sum); err != nil {
		t.Fatal(err)
	}
	return sum
}

func uploadSvg(t *testing.T, r http.Handler, fields map[string]string) models.SessionSummary {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "star.svg")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(starSvg))
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/art/session/svg", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return decodeSummary(t, do(t, r, req))
}

func TestCreateAndEditSession(t *testing.T) {
	r := newTestEngine(t)
	sum := uploadSvg(t, r, map[string]string{"size_m": "400", "lat": "51.5", "lon": "-0.12"})
	if sum.Name != "star" || sum.Points == 0 || len(sum.Final) != sum.Points {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if math.Abs(sum.Centroid.Lat-51.5) > 1e-9 || math.Abs(sum.Centroid.Lon+0.12) > 1e-9 {
		t.Errorf("centroid = %+v", sum.Centroid)
	}
	base := "/art/session/" + sum.ID

	got := decodeSummary(t, postJSON(t, r, base+"/rotation", `{"degrees": 30}`))
	if got.State.RotationDeg != 30 {
		t.Errorf("rotation = %v", got.State.RotationDeg)
	}
	got = decodeSummary(t, postJSON(t, r, base+"/stretch", `{"percent": 500}`))
	if got.State.HorizontalScale != 4 {
		t.Errorf("stretch not clamped: %v", got.State.HorizontalScale)
	}
	decodeSummary(t, postJSON(t, r, base+"/stretch", `{"percent": 100}`))
	got = decodeSummary(t, postJSON(t, r, base+"/length", `{"slider": 1000}`))
	if math.Abs(got.LengthKm-1) > 0.001 {
		t.Errorf("length = %v km, want 1", got.LengthKm)
	}
	got = decodeSummary(t, postJSON(t, r, base+"/recenter", `{"lat": 51.6, "lon": -0.1}`))
	if math.Abs(got.Centroid.Lat-51.6) > 1e-9 || math.Abs(got.Centroid.Lon+0.1) > 1e-9 {
		t.Errorf("recenter centroid = %+v", got.Centroid)
	}
	got = decodeSummary(t, postJSON(t, r, base+"/translate", `{"d_lat": 0.01, "d_lon": 0}`))
	if math.Abs(got.Centroid.Lat-51.61) > 1e-9 {
		t.Errorf("translate centroid = %+v", got.Centroid)
	}
	got = decodeSummary(t, postJSON(t, r, base+"/drag", `{"points":[{"lat":51.5,"lng":-0.2}]}`))
	if math.Abs(got.Centroid.Lat-51.5) > 1e-9 || math.Abs(got.Centroid.Lon+0.2) > 1e-9 {
		t.Errorf("drag centroid = %+v", got.Centroid)
	}
	got = decodeSummary(t, postJSON(t, r, base+"/reset", ``))
	if got.State.RotationDeg != 0 || got.State.HorizontalScale != 1 {
		t.Errorf("reset state = %+v", got.State)
	}
	got = decodeSummary(t, postJSON(t, r, base+"/state", `{"rotation_deg": 20, "horizontal_scale": 1.5}`))
	if got.State.RotationDeg != 20 || got.State.HorizontalScale != 1.5 {
		t.Errorf("state = %+v", got.State)
	}
	layer := `{"geojson":{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},
		"geometry":{"type":"LineString","coordinates":[[-0.3,51.4],[-0.3,51.6]]}}]}}`
	got = decodeSummary(t, postJSON(t, r, base+"/drag", layer))
	if math.Abs(got.Centroid.Lat-51.5) > 1e-9 || math.Abs(got.Centroid.Lon+0.3) > 1e-9 {
		t.Errorf("layer drag centroid = %+v", got.Centroid)
	}

	for _, tc := range []struct {
		path, body string
		status     int
	}{
		{base + "/drag", `{"points":[]}`, http.StatusBadRequest},
		{base + "/rotation", `{}`, http.StatusBadRequest},
		{base + "/length", `{}`, http.StatusBadRequest},
		{base + "/stretch", `not json`, http.StatusBadRequest},
		{"/art/session/nope/rotation", `{"degrees": 1}`, http.StatusNotFound},
	} {
		if w := postJSON(t, r, tc.path, tc.body); w.Code != tc.status {
			t.Errorf("POST %s %s: status %d, want %d", tc.path, tc.body, w.Code, tc.status)
		}
	}
}

func TestUploadErrors(t *testing.T) {
	r := newTestEngine(t)
	req := httptest.NewRequest(http.MethodPost, "/art/session/svg", strings.NewReader(""))
	if w := do(t, r, req); w.Code != http.StatusBadRequest {
		t.Errorf("missing file: status %d", w.Code)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "empty.svg")
	fw.Write([]byte(`<svg/>`))
	mw.Close()
	req = httptest.NewRequest(http.MethodPost, "/art/session/svg", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if w := do(t, r, req); w.Code != http.StatusBadRequest {
		t.Errorf("empty svg: status %d", w.Code)
	}
}

func TestOutOfRangeLengthKeepsSessionUsable(t *testing.T) {
	r := newTestEngine(t)
	sum := uploadSvg(t, r, nil)
	base := "/art/session/" + sum.ID

	got := decodeSummary(t, postJSON(t, r, base+"/length", `{"slider": 400000}`))
	if math.Abs(got.LengthKm-100)/100 > 0.001 {
		t.Errorf("slider 400000: length %v km, want 100", got.LengthKm)
	}
	got = decodeSummary(t, postJSON(t, r, base+"/length", `{"length_km": 1e308}`))
	if math.Abs(got.LengthKm-100)/100 > 0.001 {
		t.Errorf("length_km 1e308 changed the track: %v km", got.LengthKm)
	}

	w := do(t, r, httptest.NewRequest(http.MethodGet, base+"/gpx", nil))
	if w.Code != http.StatusOK || strings.Contains(w.Body.String(), "NaN") {
		t.Errorf("gpx after out-of-range length: status %d, body contains NaN: %v",
			w.Code, strings.Contains(w.Body.String(), "NaN"))
	}

	got = decodeSummary(t, postJSON(t, r, base+"/length", `{"length_km": 2}`))
	if math.Abs(got.LengthKm-2)/2 > 0.001 {
		t.Errorf("follow-up resize: length %v km, want 2", got.LengthKm)
	}
}

func TestExports(t *testing.T) {
	r := newTestEngine(t)
	sum := uploadSvg(t, r, nil)
	base := "/art/session/" + sum.ID

	w := do(t, r, httptest.NewRequest(http.MethodGet, base+"/geojson", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("geojson status %d", w.Code)
	}
	fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 1 || fc.Features[0].Geometry.GeoJSONType() != "LineString" {
		t.Errorf("unexpected geojson %s", w.Body.String())
	}

	w = do(t, r, httptest.NewRequest(http.MethodGet, base+"/gpx", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<trkpt") {
		t.Errorf("gpx download: status %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "star.gpx") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	w = do(t, r, httptest.NewRequest(http.MethodGet, base+"/bundle", nil))
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/zip" {
		t.Errorf("bundle: status %d type %q", w.Code, w.Header().Get("Content-Type"))
	}

	w = do(t, r, httptest.NewRequest(http.MethodGet, "/art/session/nope/gpx", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("missing session gpx: status %d", w.Code)
	}
}

func TestProjectLifecycle(t *testing.T) {
	r := newTestEngine(t)
	sum := uploadSvg(t, r, nil)
	decodeSummary(t, postJSON(t, r, "/art/session/"+sum.ID+"/rotation", `{"degrees": -45}`))

	w := postJSON(t, r, "/art/session/"+sum.ID+"/save", ``)
	if w.Code != http.StatusOK {
		t.Fatalf("save status %d: %s", w.Code, w.Body.String())
	}
	var saved struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatal(err)
	}

	w = do(t, r, httptest.NewRequest(http.MethodGet, "/art/projects?page=1&page_size=5", nil))
	var list struct {
		Data struct {
			List  []models.ProjectListItem `json:"list"`
			Total int64                    `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if list.Data.Total != 1 || list.Data.List[0].ID != saved.Data.ID {
		t.Fatalf("unexpected list %s", w.Body.String())
	}

	projectPath := "/art/projects/" + jsonNumber(saved.Data.ID)
	opened := decodeSummary(t, postJSON(t, r, projectPath+"/open", ``))
	if opened.ID == sum.ID || opened.State.RotationDeg != -45 || opened.ProjectID != saved.Data.ID {
		t.Errorf("unexpected opened session %+v", opened)
	}

	w = do(t, r, httptest.NewRequest(http.MethodDelete, projectPath, nil))
	if w.Code != http.StatusOK {
		t.Errorf("delete status %d", w.Code)
	}
	w = postJSON(t, r, projectPath+"/open", ``)
	if w.Code != http.StatusNotFound {
		t.Errorf("open deleted project: status %d", w.Code)
	}
	w = postJSON(t, r, "/art/projects/abc/open", ``)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id: status %d", w.Code)
	}

	w = do(t, r, httptest.NewRequest(http.MethodDelete, "/art/session/"+sum.ID, nil))
	if w.Code != http.StatusOK {
		t.Errorf("close status %d", w.Code)
	}
	w = do(t, r, httptest.NewRequest(http.MethodGet, "/art/session/"+sum.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("closed session still readable: status %d", w.Code)
	}
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestLiveEditWebSocket(t *testing.T) {
	r := newTestEngine(t)
	sum := uploadSvg(t, r, nil)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/art/session/" + sum.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	read := func() models.LiveEditResponse {
		t.Helper()
		var resp models.LiveEditResponse
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatal(err)
		}
		return resp
	}

	if resp := read(); resp.Type != "init" || resp.Track == nil {
		t.Fatalf("first message %+v", resp)
	}

	conn.WriteJSON(map[string]interface{}{"action": "rotation", "value": 90})
	resp := read()
	if resp.Type != "track" || resp.Summary == nil || resp.Summary.State.RotationDeg != 90 {
		t.Fatalf("rotation reply %+v", resp)
	}

	conn.WriteJSON(map[string]interface{}{"action": "drag"})
	if resp := read(); resp.Type != "error" {
		t.Errorf("malformed drag reply %+v", resp)
	}

	conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"drag","points":"garbage"}`))
	if resp := read(); resp.Type != "error" {
		t.Errorf("undecodable message reply %+v", resp)
	}
	conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
	if resp := read(); resp.Type != "error" {
		t.Errorf("non-json message reply %+v", resp)
	}
	conn.WriteJSON(map[string]interface{}{"action": "rotation", "value": 45})
	resp = read()
	if resp.Type != "track" || resp.Summary.State.RotationDeg != 45 {
		t.Fatalf("connection unusable after malformed messages: %+v", resp)
	}

	conn.WriteJSON(map[string]interface{}{"action": "length", "value": 1.5})
	resp = read()
	if resp.Type != "track" || math.Abs(resp.Summary.LengthKm-1.5) > 0.0015 {
		t.Errorf("length reply %+v", resp.Summary)
	}

	conn.WriteJSON(map[string]interface{}{"action": "complete"})
	if resp := read(); resp.Type != "complete" {
		t.Errorf("complete reply %+v", resp)
	}

	w := do(t, r, httptest.NewRequest(http.MethodGet, "/art/session/nope/ws", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("ws on missing session: status %d", w.Code)
	}
}
