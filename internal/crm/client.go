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

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"crm-assistant/pkg/auth"
)

// Client CRM REST API 客户端。Bearer Token 不驻留在 Client 上，
// 每次调用从请求级 context 取出（见 pkg/auth），同一 Client 可被多会话共享。
type Client struct {
	baseURL string
	client  *resty.Client
}

// NewClient 创建 CRM 客户端；timeout<=0 时默认 15s
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(1 * time.Second)
	client.SetRetryMaxWaitTime(5 * time.Second)

	return &Client{
		baseURL: baseURL,
		client:  client,
	}
}

// request 构建带 Authorization 头的请求
func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.client.R().SetContext(ctx)
	if token := auth.GetToken(ctx); token != "" {
		r.SetHeader("Authorization", "Bearer "+token)
	}
	return r
}

// checkStatus 非 2xx 时返回带响应体的错误
func checkStatus(resp *resty.Response, op string) error {
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("CRM API %s 返回错误（HTTP %d）: %s", op, resp.StatusCode(), resp.String())
	}
	return nil
}

// Login 用户登录（表单参数，CRM 以 username 字段接收邮箱）
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": email,
			"password": password,
		}).
		Post(c.baseURL + "/login/")
	if err != nil {
		return nil, fmt.Errorf("调用 CRM 登录接口失败: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(resp.Body(), &detail); err == nil && detail.Detail != "" {
			return nil, fmt.Errorf("登录失败: %s", detail.Detail)
		}
		return nil, fmt.Errorf("登录失败（HTTP %d）", resp.StatusCode())
	}
	var result LoginResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("解析登录响应失败: %w", err)
	}
	return &result, nil
}

// ListCustomers 拉取全部客户（原始 JSON，供模型侧过滤与展示）
func (c *Client) ListCustomers(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/customers/", "customers")
}

// GetCustomer 按 id 拉取单个客户
func (c *Client) GetCustomer(ctx context.Context, id int) (json.RawMessage, error) {
	return c.getRaw(ctx, "/customers/"+strconv.Itoa(id), "customers")
}

// CreateCustomer 创建客户，返回新 customer_id
func (c *Client) CreateCustomer(ctx context.Context, customer Customer) (int, error) {
	return c.postEntity(ctx, "/customers/", customer, "customer_id")
}

// UpdateCustomer 部分更新客户，返回 customer_id
func (c *Client) UpdateCustomer(ctx context.Context, id int, fields map[string]any) (int, error) {
	return c.putEntity(ctx, "/customers/"+strconv.Itoa(id), fields, "customer_id")
}

// ListEmployees 拉取全部员工
func (c *Client) ListEmployees(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/employees/", "employees")
}

// GetEmployee 按 id 拉取单个员工
func (c *Client) GetEmployee(ctx context.Context, id int) (json.RawMessage, error) {
	return c.getRaw(ctx, "/employees/"+strconv.Itoa(id), "employees")
}

// CreateEmployee 创建员工，返回新 employee_id
func (c *Client) CreateEmployee(ctx context.Context, employee Employee) (int, error) {
	return c.postEntity(ctx, "/employees/", employee, "employee_id")
}

// UpdateEmployee 部分更新员工，返回 employee_id
func (c *Client) UpdateEmployee(ctx context.Context, id int, fields map[string]any) (int, error) {
	return c.putEntity(ctx, "/employees/"+strconv.Itoa(id), fields, "employee_id")
}

// ListTickets 拉取全部工单
func (c *Client) ListTickets(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/tickets/", "tickets")
}

// GetTicket 按 id 拉取单个工单
func (c *Client) GetTicket(ctx context.Context, id int) (json.RawMessage, error) {
	return c.getRaw(ctx, "/tickets/"+strconv.Itoa(id), "tickets")
}

// CreateTicket 创建工单，返回新 ticket_id
func (c *Client) CreateTicket(ctx context.Context, ticket Ticket) (int, error) {
	return c.postEntity(ctx, "/tickets/", ticket, "ticket_id")
}

// UpdateTicket 部分更新工单，返回 ticket_id
func (c *Client) UpdateTicket(ctx context.Context, id int, fields map[string]any) (int, error) {
	return c.putEntity(ctx, "/tickets/"+strconv.Itoa(id), fields, "ticket_id")
}

// SearchTickets 服务端过滤的工单查询（customer_id / employee_id 二选一或都传；0 表示不传）
func (c *Client) SearchTickets(ctx context.Context, customerID, employeeID int) (json.RawMessage, error) {
	req := c.request(ctx)
	if customerID > 0 {
		req.SetQueryParam("customer_id", strconv.Itoa(customerID))
	}
	if employeeID > 0 {
		req.SetQueryParam("employee_id", strconv.Itoa(employeeID))
	}
	resp, err := req.Get(c.baseURL + "/tickets/search")
	if err != nil {
		return nil, fmt.Errorf("调用 CRM tickets/search 失败: %w", err)
	}
	if err := checkStatus(resp, "tickets/search"); err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body()), nil
}

// Dashboard 拉取全局统计面板数据
func (c *Client) Dashboard(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/dashboard/", "dashboard")
}

// OpenChatSession 在 CRM 侧开启新的聊天会话，返回 chat_id
func (c *Client) OpenChatSession(ctx context.Context) (int, error) {
	resp, err := c.request(ctx).Get(c.baseURL + "/chat/")
	if err != nil {
		return 0, fmt.Errorf("调用 CRM chat 接口失败: %w", err)
	}
	if err := checkStatus(resp, "chat"); err != nil {
		return 0, err
	}
	var result struct {
		NewID int `json:"new_id"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return 0, fmt.Errorf("解析 chat 响应失败: %w", err)
	}
	return result.NewID, nil
}

// AppendChatMessage 将一条消息写入 CRM 聊天历史
func (c *Client) AppendChatMessage(ctx context.Context, chatID int, senderType, text string) error {
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ChatMessage{ChatID: chatID, SenderType: senderType, ChatText: text}).
		Post(c.baseURL + "/chat/")
	if err != nil {
		return fmt.Errorf("写入聊天历史失败: %w", err)
	}
	return checkStatus(resp, "chat")
}

// ListChatMessages 读取某个会话的持久化历史（会话恢复用，只读）
func (c *Client) ListChatMessages(ctx context.Context, chatID int) ([]ChatMessage, error) {
	resp, err := c.request(ctx).Get(c.baseURL + "/chat/" + strconv.Itoa(chatID))
	if err != nil {
		return nil, fmt.Errorf("读取聊天历史失败: %w", err)
	}
	if err := checkStatus(resp, "chat"); err != nil {
		return nil, err
	}
	var messages []ChatMessage
	if err := json.Unmarshal(resp.Body(), &messages); err != nil {
		return nil, fmt.Errorf("解析聊天历史失败: %w", err)
	}
	return messages, nil
}

// getRaw GET 并原样返回 JSON 响应体
func (c *Client) getRaw(ctx context.Context, path, op string) (json.RawMessage, error) {
	resp, err := c.request(ctx).Get(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("调用 CRM %s 接口失败: %w", op, err)
	}
	if err := checkStatus(resp, op); err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body()), nil
}

// postEntity POST 创建实体并解析返回的 id 字段
func (c *Client) postEntity(ctx context.Context, path string, body any, idField string) (int, error) {
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.baseURL + path)
	if err != nil {
		return 0, fmt.Errorf("调用 CRM %s 接口失败: %w", path, err)
	}
	if err := checkStatus(resp, path); err != nil {
		return 0, err
	}
	return parseID(resp.Body(), idField)
}

// putEntity PUT 部分更新实体并解析返回的 id 字段
func (c *Client) putEntity(ctx context.Context, path string, fields map[string]any, idField string) (int, error) {
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(fields).
		Put(c.baseURL + path)
	if err != nil {
		return 0, fmt.Errorf("调用 CRM %s 接口失败: %w", path, err)
	}
	if err := checkStatus(resp, path); err != nil {
		return 0, err
	}
	return parseID(resp.Body(), idField)
}

// parseID 从创建/更新响应中取出实体 id
func parseID(body []byte, idField string) (int, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("解析 CRM 响应失败: %w", err)
	}
	v, ok := payload[idField]
	if !ok {
		return 0, fmt.Errorf("CRM 响应缺少 %s 字段", idField)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("CRM 响应 %s 字段类型异常: %T", idField, v)
	}
	return int(f), nil
}
