package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/easayliu/emby-tv-organizer/internal/application/services/jobs"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// 控制面跑在内网，前端页面域名不固定
	CheckOrigin: func(r *http.Request) bool { return true },
}

const snapshotInterval = time.Second

// WSHandler 任务进度WebSocket推送
// 每秒推送一次任务快照，任务进入终态后推送最后一帧并关闭连接
type WSHandler struct {
	service *jobs.Service
}

// NewWSHandler 创建WebSocket处理器
func NewWSHandler(service *jobs.Service) *WSHandler {
	return &WSHandler{service: service}
}

// WatchJob 订阅单个任务的进度
func (h *WSHandler) WatchJob(c *gin.Context) {
	jobID := c.Param("id")
	if _, err := h.service.Get(jobID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", "jobID", jobID, "error", err)
		return
	}
	defer conn.Close()

	// 丢弃客户端消息，同时感知断连
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

	for range ticker.C {
		j, err := h.service.Get(jobID)
		if err != nil {
			conn.WriteJSON(gin.H{"error": err.Error()})
			return
		}
		if err := conn.WriteJSON(j); err != nil {
			logger.Debug("WebSocket write failed, closing", "jobID", jobID, "error", err)
			return
		}
		if j.Status.Terminal() {
			return
		}
	}
}
