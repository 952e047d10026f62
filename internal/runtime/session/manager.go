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

package session

import (
	"context"
	"fmt"

	"crm-assistant/internal/crm"
)

// SessionManager 管理会话生命周期
type SessionManager interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	GetOrCreate(ctx context.Context, id string) (*Session, error)
	Resume(ctx context.Context, chatID int) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

// Manager 基于 SessionStore 的实现。crmClient 非空时会话开启、
// 轮次落盘与历史恢复都经由 CRM 聊天历史接口；为空时纯内存运行。
type Manager struct {
	store     SessionStore
	crmClient *crm.Client
}

// NewManager 创建 SessionManager
func NewManager(store SessionStore, crmClient *crm.Client) *Manager {
	return &Manager{store: store, crmClient: crmClient}
}

// Create 创建新会话，并在 CRM 侧开启对应聊天历史
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	s := New("")
	if m.crmClient != nil {
		chatID, err := m.crmClient.OpenChatSession(ctx)
		if err != nil {
			return nil, fmt.Errorf("开启 CRM 聊天会话失败: %w", err)
		}
		s.ChatID = chatID
	}
	if err := m.store.Put(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get 按 ID 获取会话
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// GetOrCreate 若 id 为空则 Create，否则 Get；未命中时以该 id 新建
func (m *Manager) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return m.Create(ctx)
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}
	s = New(id)
	if err := m.store.Put(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Resume 从 CRM 聊天历史恢复历史会话：回放 user/ai 消息为转录轮次。
// 恢复出的轮次不含工具调用细节，那些只存在于在途会话的内存转录里。
func (m *Manager) Resume(ctx context.Context, chatID int) (*Session, error) {
	if m.crmClient == nil {
		return nil, fmt.Errorf("未配置 CRM 客户端，无法恢复历史会话")
	}
	messages, err := m.crmClient.ListChatMessages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("恢复会话 %d 失败: %w", chatID, err)
	}
	s := New("")
	s.ChatID = chatID
	for _, msg := range messages {
		role := RoleUser
		if msg.SenderType == "ai" {
			role = RoleAssistant
		}
		s.AppendTurn(&Turn{Role: role, Content: msg.ChatText})
	}
	if err := m.store.Put(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Save 持久化会话索引
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if s == nil {
		return nil
	}
	return m.store.Put(ctx, s)
}

// Persist 把一条对话消息写入 CRM 聊天历史（尽力而为，失败不阻断轮次）
func (m *Manager) Persist(ctx context.Context, s *Session, senderType, text string) error {
	if m.crmClient == nil || s.ChatID == 0 {
		return nil
	}
	return m.crmClient.AppendChatMessage(ctx, s.ChatID, senderType, text)
}
