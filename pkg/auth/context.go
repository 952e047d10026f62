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

package auth

import (
	"context"
)

type contextKey string

const (
	operatorKey contextKey = "auth.operator"
	tokenKey    contextKey = "auth.crm_token"
)

// Operator 当前发起请求的员工身份（登录时由 CRM 返回）。
// 以显式请求级 context 传递，工具与适配器不读取任何进程级全局状态。
type Operator struct {
	EmployeeID  int    `json:"employee_id"`
	Name        string `json:"name"`
	AccessLevel string `json:"access_level"` // admin | agent
}

// WithOperator 将 Operator 注入 context
func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, operatorKey, op)
}

// GetOperator 从 context 获取 Operator
func GetOperator(ctx context.Context) (Operator, bool) {
	v, ok := ctx.Value(operatorKey).(Operator)
	return v, ok
}

// WithToken 将 CRM Bearer Token 注入 context
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// GetToken 从 context 获取 CRM Bearer Token
func GetToken(ctx context.Context) string {
	if v, ok := ctx.Value(tokenKey).(string); ok {
		return v
	}
	return ""
}
