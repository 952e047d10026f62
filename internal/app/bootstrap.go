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

package app

import (
	"fmt"
	"time"

	"crm-assistant/internal/crm"
	"crm-assistant/internal/model/llm"
	"crm-assistant/pkg/config"
	"crm-assistant/pkg/log"
	"crm-assistant/pkg/utils"
)

// Bootstrap 统一初始化：供 api 与 cli 复用，避免在 cmd 内写装配逻辑
type Bootstrap struct {
	Config    *config.Config
	Logger    *log.Logger
	CRMClient *crm.Client
}

// NewBootstrap 根据配置创建 Bootstrap（日志 + CRM 客户端）
func NewBootstrap(cfg *config.Config) (*Bootstrap, error) {
	logCfg := &log.Config{}
	if cfg != nil {
		logCfg.Level = cfg.Log.Level
		logCfg.Format = cfg.Log.Format
		logCfg.File = cfg.Log.File
	}
	logger, err := log.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	baseURL := "http://127.0.0.1:8000"
	var timeout time.Duration
	if cfg != nil {
		baseURL = utils.CoalesceString(cfg.CRM.BaseURL, baseURL)
		if cfg.CRM.Timeout != "" {
			if d, err := time.ParseDuration(cfg.CRM.Timeout); err == nil {
				timeout = d
			}
		}
	}
	crmClient := crm.NewClient(baseURL, timeout)

	return &Bootstrap{
		Config:    cfg,
		Logger:    logger,
		CRMClient: crmClient,
	}, nil
}

// NewLLMClientFromConfig 按默认 provider/model 创建 LLM 客户端。
// 限流装饰由调用方通过 NewLLMClientWrapper 统一套上。
func NewLLMClientFromConfig(cfg *config.Config) (llm.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("缺少配置")
	}
	provider := utils.CoalesceString(cfg.Model.Defaults.Provider, "gemini")
	providerCfg, ok := cfg.Model.LLM.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("未配置模型提供商: %s", provider)
	}
	modelName := ""
	if info, ok := providerCfg.Models[cfg.Model.Defaults.LLM]; ok {
		modelName = info.Name
	}
	client, err := llm.NewClient(provider, modelName, providerCfg.APIKey, providerCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("创建 LLM 客户端失败: %w", err)
	}
	return client, nil
}

// NewLLMClientWrapper 根据限流配置构建模型后端装饰函数。启动装配与
// 运行期切换共用同一个限流器，切换后端不会重置限流状态。
// 未配置限流时返回 nil。
func NewLLMClientWrapper(cfg *config.Config) func(llm.Client) llm.Client {
	if cfg == nil || len(cfg.RateLimits.LLM) == 0 {
		return nil
	}
	limits := make(map[string]llm.LLMLimitConfig, len(cfg.RateLimits.LLM))
	for name, rl := range cfg.RateLimits.LLM {
		limits[name] = llm.LLMLimitConfig{
			TokensPerMinute:   rl.TokensPerMinute,
			RequestsPerMinute: rl.RequestsPerMinute,
			MaxConcurrent:     rl.MaxConcurrent,
		}
	}
	limiter := llm.NewLLMRateLimiter(limits, nil)
	return func(c llm.Client) llm.Client {
		return llm.NewRateLimitedClient(c, limiter)
	}
}
