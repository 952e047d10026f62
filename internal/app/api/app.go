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

package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzslog "github.com/hertz-contrib/logger/slog"
	"github.com/hertz-contrib/obs-opentelemetry/provider"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"

	"crm-assistant/internal/agent"
	apihttp "crm-assistant/internal/api/http"
	"crm-assistant/internal/api/http/middleware"
	"crm-assistant/internal/app"
	"crm-assistant/internal/runtime/session"
	"crm-assistant/internal/tool/crmtools"
	"crm-assistant/internal/tool/registry"
)

// defaultSystemPrompt 内置系统提示词，可被 agent.system_prompt 覆盖
const defaultSystemPrompt = "You are an AI assistant for a CRM system. You help employees manage customers, " +
	"tickets and employees through the available tools. Answer in clear, friendly natural language. " +
	"Present collection data in tabular format without omitting columns."

// otelProviderShutdown 用于优雅关闭时关闭 OpenTelemetry provider
type otelProviderShutdown interface {
	Shutdown(ctx context.Context) error
}

// App API 应用（装配 HTTP Router、Handler、Middleware）
type App struct {
	bootstrap    *app.Bootstrap
	assistant    *agent.Assistant
	router       *apihttp.Router
	hertz        *server.Hertz
	otelProvider otelProviderShutdown
}

// NewApp 创建 API 应用（由 cmd/api 调用）
func NewApp(bootstrap *app.Bootstrap) (*App, error) {
	cfg := bootstrap.Config

	llmClient, err := app.NewLLMClientFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("初始化 LLM 客户端失败: %w", err)
	}
	wrapClient := app.NewLLMClientWrapper(cfg)
	if wrapClient != nil {
		llmClient = wrapClient(llmClient)
	}

	toolReg := registry.New()
	crmtools.RegisterAll(toolReg, bootstrap.CRMClient)

	sessionManager := session.NewManager(session.NewMemoryStore(), bootstrap.CRMClient)

	agentCfg := agent.Config{SystemPrompt: defaultSystemPrompt, WrapClient: wrapClient}
	if cfg != nil {
		if cfg.Agent.SystemPrompt != "" {
			agentCfg.SystemPrompt = cfg.Agent.SystemPrompt
		}
		agentCfg.MaxRounds = cfg.Agent.MaxRounds
	}
	assistant := agent.New(llmClient, toolReg, sessionManager, bootstrap.Logger, agentCfg)

	handler := apihttp.NewHandler(assistant, sessionManager, bootstrap.Logger)
	mw := middleware.NewMiddleware()
	router := apihttp.NewRouter(handler, mw)

	if cfg != nil && cfg.API.Middleware.Auth && cfg.API.Middleware.JWTKey != "" {
		timeout := parseDuration(cfg.API.Middleware.JWTTimeout, time.Hour)
		maxRefresh := parseDuration(cfg.API.Middleware.JWTMaxRefresh, time.Hour)
		jwtAuth, err := middleware.NewJWTAuth(bootstrap.CRMClient, []byte(cfg.API.Middleware.JWTKey), timeout, maxRefresh)
		if err != nil {
			bootstrap.Logger.Warn("JWT 初始化失败，将跳过认证", "error", err)
		} else {
			router.SetJWT(jwtAuth)
			bootstrap.Logger.Info("JWT 认证已启用")
		}
	}
	if cfg != nil && cfg.API.Middleware.RateLimit && cfg.API.Middleware.RateLimitRPS > 0 {
		router.SetRateLimit(cfg.API.Middleware.RateLimitRPS)
	}

	return &App{
		bootstrap: bootstrap,
		assistant: assistant,
		router:    router,
	}, nil
}

// Run 启动 HTTP 服务，addr 如 ":8080"
func (a *App) Run(addr string) error {
	a.bootstrap.Logger.Info("API 服务启动", "addr", addr)

	// 使用 Hertz slog 扩展，与 bootstrap 配置对齐
	output := os.Stdout
	if a.bootstrap.Config != nil && a.bootstrap.Config.Log.File != "" {
		f, err := os.OpenFile(a.bootstrap.Config.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("打开日志文件失败: %w", err)
		}
		output = f
	}
	levelVar := &slog.LevelVar{}
	if a.bootstrap.Config != nil {
		switch a.bootstrap.Config.Log.Level {
		case "debug":
			levelVar.Set(slog.LevelDebug)
		case "warn":
			levelVar.Set(slog.LevelWarn)
		case "error":
			levelVar.Set(slog.LevelError)
		default:
			levelVar.Set(slog.LevelInfo)
		}
	} else {
		levelVar.Set(slog.LevelInfo)
	}
	hertzLogger := hertzslog.NewLogger(
		hertzslog.WithOutput(output),
		hertzslog.WithLevel(levelVar),
	)
	hlog.SetLogger(hertzLogger)

	// 可选：启用链路追踪（OpenTelemetry）
	if a.bootstrap.Config != nil && a.bootstrap.Config.Monitoring.Tracing.Enable {
		serviceName := a.bootstrap.Config.Monitoring.Tracing.ServiceName
		if serviceName == "" {
			serviceName = "crm-assistant-api"
		}
		exportEndpoint := a.bootstrap.Config.Monitoring.Tracing.ExportEndpoint
		if exportEndpoint == "" {
			exportEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
		}
		if exportEndpoint != "" {
			opts := []provider.Option{
				provider.WithServiceName(serviceName),
				provider.WithExportEndpoint(exportEndpoint),
			}
			if a.bootstrap.Config.Monitoring.Tracing.Insecure {
				opts = append(opts, provider.WithInsecure())
			}
			p := provider.NewOpenTelemetryProvider(opts...)
			a.otelProvider = p
			tracerOpt, cfg := hertztracing.NewServerTracer()
			a.hertz = a.router.Build(addr, tracerOpt)
			a.hertz.Use(hertztracing.ServerMiddleware(cfg))
			a.bootstrap.Logger.Info("链路追踪已启用", "service_name", serviceName, "endpoint", exportEndpoint)
		} else {
			a.hertz = a.router.Build(addr)
		}
	} else {
		a.hertz = a.router.Build(addr)
	}
	return a.hertz.Run()
}

// Shutdown 优雅关闭（传入 ctx 以支持超时，如 cmd 层 WithTimeout）
func (a *App) Shutdown(ctx context.Context) error {
	if a.otelProvider != nil {
		_ = a.otelProvider.Shutdown(ctx)
	}
	if a.hertz != nil {
		return a.hertz.Shutdown(ctx)
	}
	return nil
}

// parseDuration 解析时长字符串，无效或空时返回 defaultVal
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}
