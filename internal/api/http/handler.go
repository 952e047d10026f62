// Copyright 2026 Kavish05-Turabit
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"crm-assistant/internal/agent"
	"crm-assistant/internal/api/http/middleware"
	"crm-assistant/internal/runtime/session"
	"crm-assistant/pkg/auth"
	"crm-assistant/pkg/log"
	"crm-assistant/pkg/metrics"
)

// Handler HTTP 处理器：对话、会话历史、模型切换、健康与指标
type Handler struct {
	assistant *agent.Assistant
	sessions  *session.Manager
	logger    *log.Logger
}

// NewHandler 创建 Handler
func NewHandler(assistant *agent.Assistant, sessions *session.Manager, logger *log.Logger) *Handler {
	return &Handler{assistant: assistant, sessions: sessions, logger: logger}
}

// chatRequest POST /api/chat 请求体
type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Chat 处理一轮对话。session_id 为空时开启新会话。
func (h *Handler) Chat(ctx context.Context, c *app.RequestContext) {
	var req chatRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, utils.H{"error": "message is required"})
		return
	}

	rctx := middleware.OperatorContext(ctx, c)
	sess, err := h.sessions.GetOrCreate(rctx, req.SessionID)
	if err != nil {
		h.logger.Error("获取会话失败", "session", req.SessionID, "error", err)
		c.JSON(http.StatusInternalServerError, utils.H{"error": "failed to open session"})
		return
	}

	reply, err := h.assistant.HandleTurn(rctx, sess, req.Message)
	if err != nil {
		// HandleTurn 已兜底为固定致歉文本，照常返回 200 给前端展示
		h.logger.Warn("对话轮次失败", "session", sess.ID, "error", err)
	}
	c.JSON(http.StatusOK, utils.H{
		"session_id": sess.ID,
		"chat_id":    sess.ChatID,
		"reply":      reply,
	})
}

// History GET /api/sessions/:id/history 返回会话转录
func (h *Handler) History(ctx context.Context, c *app.RequestContext) {
	id := c.Param("id")
	sess, err := h.sessions.Get(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}
	if sess == nil {
		c.JSON(http.StatusNotFound, utils.H{"error": "session not found"})
		return
	}
	type turnView struct {
		Role      string    `json:"role"`
		Content   string    `json:"content"`
		Timestamp time.Time `json:"timestamp"`
	}
	turns := sess.Turns()
	out := make([]turnView, 0, len(turns))
	for _, t := range turns {
		// 工具轮次与工具调用细节不暴露给前端
		if t.Role != session.RoleUser && t.Role != session.RoleAssistant {
			continue
		}
		if t.Role == session.RoleAssistant && t.Content == "" {
			continue
		}
		out = append(out, turnView{Role: t.Role, Content: t.Content, Timestamp: t.Timestamp})
	}
	c.JSON(http.StatusOK, utils.H{"session_id": sess.ID, "chat_id": sess.ChatID, "turns": out})
}

// resumeRequest POST /api/sessions/resume 请求体
type resumeRequest struct {
	ChatID int `json:"chat_id"`
}

// Resume 从 CRM 聊天历史恢复历史会话
func (h *Handler) Resume(ctx context.Context, c *app.RequestContext) {
	var req resumeRequest
	if err := c.BindJSON(&req); err != nil || req.ChatID <= 0 {
		c.JSON(http.StatusBadRequest, utils.H{"error": "chat_id is required"})
		return
	}
	rctx := middleware.OperatorContext(ctx, c)
	sess, err := h.sessions.Resume(rctx, req.ChatID)
	if err != nil {
		h.logger.Error("恢复会话失败", "chat_id", req.ChatID, "error", err)
		c.JSON(http.StatusInternalServerError, utils.H{"error": "failed to resume session"})
		return
	}
	c.JSON(http.StatusOK, utils.H{"session_id": sess.ID, "chat_id": sess.ChatID, "turns": sess.Len()})
}

// modelConfigRequest POST /api/model/config 请求体
type modelConfigRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"api_key"`
	BaseURL  string `json:"base_url"`
}

// ConfigureModel 运行期切换模型后端（仅 admin）
func (h *Handler) ConfigureModel(ctx context.Context, c *app.RequestContext) {
	rctx := middleware.OperatorContext(ctx, c)
	if !auth.OperatorCan(rctx, auth.PermissionModelConfigure) {
		c.JSON(http.StatusForbidden, utils.H{"error": "admin access required"})
		return
	}
	var req modelConfigRequest
	if err := c.BindJSON(&req); err != nil || req.Provider == "" {
		c.JSON(http.StatusBadRequest, utils.H{"error": "provider is required"})
		return
	}
	if err := h.assistant.ConfigureModel(req.Provider, req.Model, req.APIKey, req.BaseURL); err != nil {
		c.JSON(http.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}
	client := h.assistant.Client()
	c.JSON(http.StatusOK, utils.H{"provider": client.Provider(), "model": client.Model()})
}

// Health GET /health
func (h *Handler) Health(ctx context.Context, c *app.RequestContext) {
	c.JSON(http.StatusOK, utils.H{"status": "ok"})
}

// Metrics GET /metrics（Prometheus 文本格式）
func (h *Handler) Metrics(ctx context.Context, c *app.RequestContext) {
	var buf bytes.Buffer
	if err := metrics.WritePrometheus(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", buf.Bytes())
}
