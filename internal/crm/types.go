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

package crm

// TicketType 工单类型枚举
type TicketType string

const (
	TicketTypeBug     TicketType = "Bug"
	TicketTypeFeature TicketType = "Feature Request"
	TicketTypeInquiry TicketType = "Inquiry"
	TicketTypeBilling TicketType = "Billing"
	TicketTypeAccess  TicketType = "Access"
)

// Valid 判断工单类型是否合法
func (t TicketType) Valid() bool {
	switch t {
	case TicketTypeBug, TicketTypeFeature, TicketTypeInquiry, TicketTypeBilling, TicketTypeAccess:
		return true
	}
	return false
}

// TicketStatus 工单状态枚举
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusClosed     TicketStatus = "Closed"
)

// Valid 判断工单状态是否合法
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority 工单优先级枚举
type TicketPriority string

const (
	TicketPriorityCritical TicketPriority = "Critical"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityLow      TicketPriority = "Low"
)

// Valid 判断工单优先级是否合法
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityCritical, TicketPriorityHigh, TicketPriorityMedium, TicketPriorityLow:
		return true
	}
	return false
}

// AccessLevel 员工权限级别枚举
type AccessLevel string

const (
	AccessLevelAdmin AccessLevel = "admin"
	AccessLevelAgent AccessLevel = "agent"
)

// Valid 判断权限级别是否合法
func (a AccessLevel) Valid() bool {
	return a == AccessLevelAdmin || a == AccessLevelAgent
}

// Customer 客户创建请求体（POST /customers/，全量必填字段）
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// Ticket 工单创建请求体（POST /tickets/）
type Ticket struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	CustomerID  int            `json:"customer_id"`
	AssigneeID  int            `json:"assignee_id,omitempty"`
	TicketType  TicketType     `json:"ticket_type,omitempty"`
	Priority    TicketPriority `json:"priority,omitempty"`
	Status      TicketStatus   `json:"status,omitempty"`
}

// Employee 员工创建请求体（POST /employees/）
type Employee struct {
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone,omitempty"`
	AccessLevel  AccessLevel `json:"access_level,omitempty"`
	PasswordHash string      `json:"password_hash"`
}

// LoginResult 登录响应（POST /login/）
type LoginResult struct {
	AccessToken string `json:"access_token"`
	EmpID       int    `json:"emp_id"`
	EmpName     string `json:"emp_name"`
	Access      string `json:"access"`
}

// ChatMessage 聊天历史记录条目（/chat/ 持久化，会话恢复时回放）
type ChatMessage struct {
	ChatID     int    `json:"chat_id"`
	SenderType string `json:"sender_type"` // user | ai
	ChatText   string `json:"chat_text"`
}
