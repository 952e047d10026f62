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
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/hertz-contrib/jwt"

	"crm-assistant/internal/api/http/middleware"
)

// Router 路由装配
type Router struct {
	handler *Handler
	mw      *middleware.Middleware
	jwtAuth *jwt.HertzJWTMiddleware
	rps     int
}

// NewRouter 创建 Router
func NewRouter(handler *Handler, mw *middleware.Middleware) *Router {
	return &Router{handler: handler, mw: mw}
}

// SetJWT 启用 JWT 认证
func (r *Router) SetJWT(auth *jwt.HertzJWTMiddleware) {
	r.jwtAuth = auth
}

// SetRateLimit 启用请求速率限制
func (r *Router) SetRateLimit(rps int) {
	r.rps = rps
}

// Build 创建 Hertz server 并注册全部路由
func (r *Router) Build(addr string, opts ...config.Option) *server.Hertz {
	allOpts := append([]config.Option{server.WithHostPorts(addr)}, opts...)
	h := server.Default(allOpts...)

	h.Use(r.mw.Recovery())
	h.Use(r.mw.CORS())
	if r.rps > 0 {
		h.Use(r.mw.RateLimit(r.rps))
	}

	h.GET("/health", r.handler.Health)
	h.GET("/metrics", r.handler.Metrics)

	api := h.Group("/api")
	if r.jwtAuth != nil {
		api.POST("/login", r.jwtAuth.LoginHandler)
		api.GET("/refresh_token", r.jwtAuth.RefreshHandler)

		protected := api.Group("", r.jwtAuth.MiddlewareFunc())
		protected.POST("/chat", r.handler.Chat)
		protected.GET("/sessions/:id/history", r.handler.History)
		protected.POST("/sessions/resume", r.handler.Resume)
		protected.POST("/model/config", r.handler.ConfigureModel)
	} else {
		// 认证未启用时（本地调试）直接暴露
		api.POST("/chat", r.handler.Chat)
		api.GET("/sessions/:id/history", r.handler.History)
		api.POST("/sessions/resume", r.handler.Resume)
		api.POST("/model/config", r.handler.ConfigureModel)
	}

	return h
}
