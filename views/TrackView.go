package views

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/GrainArc/TrackArt/config"
	"github.com/GrainArc/TrackArt/models"
	"github.com/GrainArc/TrackArt/response"
	"github.com/GrainArc/TrackArt/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// 轨迹实时编辑

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

var pingInterval = 30 * time.Second

type LiveEditHandler struct {
	art          *services.ArtService
	pingInterval time.Duration
}

func NewLiveEditHandler(art *services.ArtService) *LiveEditHandler {
	return &LiveEditHandler{art: art, pingInterval: pingInterval}
}

// LiveEditSession 一条 WebSocket 连接
type LiveEditSession struct {
	conn    *websocket.Conn
	session *services.ArtSession
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
}

// send 串行写入，连接写失败时结束会话
func (s *LiveEditSession) send(resp models.LiveEditResponse) bool {
	s.mu.Lock()
	err := s.conn.WriteJSON(resp)
	s.mu.Unlock()
	if err != nil {
		config.Log.Warnf("websocket write failed: %v", err)
		s.cancel()
		return false
	}
	return true
}

// LiveEdit 升级到 WebSocket 并处理拖拽、旋转、拉伸、长度等编辑消息
func (h *LiveEditHandler) LiveEdit(c *gin.Context) {
	sess, err := h.art.Session(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		config.Log.Warnf("failed to upgrade to websocket: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	live := &LiveEditSession{
		conn:    conn,
		session: sess,
		ctx:     ctx,
		cancel:  cancel,
	}

	if !live.send(services.TrackResponse("init", sess, "live edit ready")) {
		conn.Close()
		return
	}

	h.handleSession(live)
}

func (h *LiveEditHandler) handleSession(live *LiveEditSession) {
	defer func() {
		live.cancel()
		live.conn.Close()
		config.Log.Debugf("live edit for session %s closed", live.session.ID)
	}()

	pingTicker := time.NewTicker(h.pingInterval)
	defer pingTicker.Stop()

	// 心跳，同时续期会话
	go func() {
		for {
			select {
			case <-live.ctx.Done():
				return
			case <-pingTicker.C:
				h.keepAlive(live)
				live.mu.Lock()
				err := live.conn.WriteMessage(websocket.PingMessage, nil)
				live.mu.Unlock()
				if err != nil {
					config.Log.Warnf("ping failed: %v", err)
					live.cancel()
					return
				}
			}
		}
	}()

	for {
		select {
		case <-live.ctx.Done():
			return
		default:
		}

		_, data, err := live.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				config.Log.Warnf("websocket error: %v", err)
			}
			return
		}

		var msg models.LiveEditMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			config.Log.Debugf("malformed live edit message discarded: %v", err)
			if !live.send(models.LiveEditResponse{Type: "error", Message: "消息格式错误: " + err.Error()}) {
				return
			}
			continue
		}

		if msg.Action == services.ActionComplete {
			live.send(services.TrackResponse("complete", live.session, "live edit completed"))
			return
		}

		if !h.handleEdit(live, msg) {
			return
		}
	}
}

// keepAlive 续期会话
func (h *LiveEditHandler) keepAlive(live *LiveEditSession) {
	if _, err := h.art.Session(live.session.ID); err != nil {
		config.Log.Warnf("live edit session %s expired: %v", live.session.ID, err)
	}
}

// handleEdit 解析并执行一条编辑消息；无效消息丢弃并回复 error
func (h *LiveEditHandler) handleEdit(live *LiveEditSession, msg models.LiveEditMessage) bool {
	edit, err := services.ParseLiveEdit(msg)
	if err == nil {
		_, err = h.art.ApplyEdit(live.session.ID, edit)
	}
	if err != nil {
		config.Log.Debugf("live edit message discarded: %v", err)
		return live.send(models.LiveEditResponse{Type: "error", Message: err.Error()})
	}
	return live.send(services.TrackResponse("track", live.session, ""))
}
