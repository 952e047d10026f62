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

package registry

import (
	"encoding/json"
	"sync"

	"crm-assistant/internal/model/llm"
	"crm-assistant/internal/tool"
)

// Registry 工具注册表：注册、发现、供 LLM 使用的目录
type Registry struct {
	mu    sync.RWMutex
	tools map[string]tool.Tool
	order []string // 注册顺序，目录输出保持稳定
}

// New 创建新的 ToolRegistry
func New() *Registry {
	return &Registry{
		tools: make(map[string]tool.Tool),
	}
}

// Register 注册工具
func (r *Registry) Register(t tool.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[t.Name()]; !ok {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Get 按名称获取工具
func (r *Registry) Get(name string) (tool.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List 返回所有已注册工具（注册顺序）
func (r *Registry) List() []tool.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]tool.Tool, 0, len(r.tools))
	for _, name := range r.order {
		list = append(list, r.tools[name])
	}
	return list
}

// SpecsForLLM 返回供模型 function-calling 绑定的工具目录
func (r *Registry) SpecsForLLM() ([]llm.ToolSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	specs := make([]llm.ToolSpec, 0, len(r.tools))
	for _, name := range r.order {
		t := r.tools[name]
		params, err := json.Marshal(t.Schema())
		if err != nil {
			return nil, err
		}
		specs = append(specs, llm.ToolSpec{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  params,
		})
	}
	return specs, nil
}
