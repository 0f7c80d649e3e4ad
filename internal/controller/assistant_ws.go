package controller

import (
	"ai_learn_backend/internal/util"
	"ai_learn_backend/pkg/logger"
	"ai_learn_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsMaxMessageSize = 4096
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// AskAIStream godoc
// @Summary AI 助手 WebSocket
// @Description 每条上行消息 {"message": "..."} 对应一条下行 {"reply": "...", "error": "..."}，格式与 /api/ask_ai/ 相同
// @Tags AI助手
// @Param token query string false "JWT Token"
// @Success 101 {string} string "Switching Protocols"
// @Router /api/ask_ai/ws [get]
func (c *AssistantController) AskAIStream(ctx *gin.Context) {
	var userID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	conn, err := wsUpgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade 已经写回错误响应
		logger.Log.Warn("assistant websocket upgrade failed", zap.Error(err))
		return
	}

	monitoring.AssistantStreamConnections.Inc()
	defer monitoring.AssistantStreamConnections.Dec()

	c.serveStream(ctx.Request.Context(), conn, userID)
}

// serveStream 读循环逐条调用模型，写操作全部交给 writer 协程
func (c *AssistantController) serveStream(ctx context.Context, conn *websocket.Conn, userID uint) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	send := make(chan AskAIResponse, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		writeStream(conn, send)
	}()

	defer func() {
		close(send)
		<-done
		conn.Close()
	}()

	conn.SetReadLimit(wsMaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(wsPongWait)) })

	// 每秒最多 1 条，允许突发 3 条
	limiter := rate.NewLimiter(rate.Every(time.Second), 3)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Warn("assistant websocket closed", zap.Error(err), zap.Uint("userId", userID))
			}
			return
		}

		var req AskAIRequest
		if err := json.Unmarshal(data, &req); err != nil {
			send <- AskAIResponse{Error: "Invalid JSON body: " + err.Error()}
			continue
		}
		if !limiter.Allow() {
			send <- AskAIResponse{Error: "too many requests"}
			continue
		}

		reply := c.AssistantService.Ask(ctx, userID, req.Message)
		send <- newAskAIResponse(reply)
	}
}

func writeStream(conn *websocket.Conn, send <-chan AskAIResponse) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case resp, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(resp); err != nil {
				// 读端会因连接失效退出
				conn.Close()
				drain(send)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				drain(send)
				return
			}
		}
	}
}

func drain(send <-chan AskAIResponse) {
	for range send {
	}
}
