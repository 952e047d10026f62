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
	"sync"
	"time"

	"github.com/google/uuid"

	"crm-assistant/internal/model/llm"
)

// Session 一次对话会话：唯一状态载体。转录只追加不回滚，
// turnMu 保证同一会话同时只有一个在途轮次。
type Session struct {
	ID        string
	ChatID    int // CRM 侧聊天历史 id，0 表示未持久化
	CreatedAt time.Time
	UpdatedAt time.Time

	turns []*Turn

	Metadata map[string]any

	mu     sync.RWMutex
	turnMu sync.Mutex
}

// New 创建新 Session（id 为空时自动分配）
func New(id string) *Session {
	now := time.Now()
	if id == "" {
		id = "session-" + uuid.New().String()
	}
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  make(map[string]any),
	}
}

// BeginTurn 占住会话的在途轮次槽位
func (s *Session) BeginTurn() {
	s.turnMu.Lock()
}

// EndTurn 释放在途轮次槽位
func (s *Session) EndTurn() {
	s.turnMu.Unlock()
}

// AppendTurn 向转录追加一个轮次
func (s *Session) AppendTurn(t *Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatedAt = time.Now()
	if t.Timestamp.IsZero() {
		t.Timestamp = s.UpdatedAt
	}
	s.turns = append(s.turns, t)
}

// AppendUser 追加 user 轮次
func (s *Session) AppendUser(content string) {
	s.AppendTurn(&Turn{Role: RoleUser, Content: content})
}

// AppendAssistant 追加 assistant 轮次（可带工具调用）
func (s *Session) AppendAssistant(content string, calls []llm.ToolCall) {
	s.AppendTurn(&Turn{Role: RoleAssistant, Content: content, ToolCalls: calls})
}

// AppendToolResult 追加 tool 轮次，ToolCallID 指回触发它的调用
func (s *Session) AppendToolResult(callID, content string) {
	s.AppendTurn(&Turn{Role: RoleTool, Content: content, ToolCallID: callID})
}

// Turns 返回转录副本（只读用途）
func (s *Session) Turns() []*Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.turns) == 0 {
		return nil
	}
	out := make([]*Turn, len(s.turns))
	for i, t := range s.turns {
		c := *t
		out[i] = &c
	}
	return out
}

// Len 返回转录长度
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}
