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

// Permission 权限
type Permission string

const (
	PermissionChat           Permission = "chat"            // 发起对话轮次
	PermissionSessionView    Permission = "session:view"    // 查看会话历史
	PermissionSessionResume  Permission = "session:resume"  // 恢复历史会话
	PermissionModelConfigure Permission = "model:configure" // 运行期切换模型后端
	PermissionEmployeeManage Permission = "employee:manage" // 创建/更新员工
)

// 权限级别与 CRM 的 access_level 字段对齐：admin 全量，agent 日常操作
var levelPermissions = map[string][]Permission{
	"admin": {
		PermissionChat,
		PermissionSessionView,
		PermissionSessionResume,
		PermissionModelConfigure,
		PermissionEmployeeManage,
	},
	"agent": {
		PermissionChat,
		PermissionSessionView,
		PermissionSessionResume,
	},
}

// Can 判断权限级别是否具备某权限
func Can(accessLevel string, perm Permission) bool {
	for _, p := range levelPermissions[accessLevel] {
		if p == perm {
			return true
		}
	}
	return false
}

// OperatorCan 判断 context 中的操作者是否具备某权限；无操作者一律拒绝
func OperatorCan(ctx context.Context, perm Permission) bool {
	op, ok := GetOperator(ctx)
	if !ok {
		return false
	}
	return Can(op.AccessLevel, perm)
}
