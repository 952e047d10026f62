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

package crmtools

import (
	"context"
	"fmt"
	"strings"

	"crm-assistant/internal/crm"
	"crm-assistant/internal/tool"
)

var (
	ticketTypeEnum     = []string{"Bug", "Feature Request", "Inquiry", "Billing", "Access"}
	ticketStatusEnum   = []string{"Open", "In Progress", "Closed"}
	ticketPriorityEnum = []string{"Critical", "High", "Medium", "Low"}
)

// GetAllTicketsTool 拉取全部工单数据
type GetAllTicketsTool struct {
	client *crm.Client
}

// NewGetAllTicketsTool 创建 get_all_tickets 工具
func NewGetAllTicketsTool(client *crm.Client) *GetAllTicketsTool {
	return &GetAllTicketsTool{client: client}
}

// Name 实现 tool.Tool
func (t *GetAllTicketsTool) Name() string { return "get_all_tickets" }

// Description 实现 tool.Tool
func (t *GetAllTicketsTool) Description() string {
	return "Fetch / Show all tickets. If user asks to see ticket data or list every ticket, call this."
}

// Schema 实现 tool.Tool
func (t *GetAllTicketsTool) Schema() tool.Schema {
	return tool.Schema{Type: "object", Description: "No arguments."}
}

// Execute 实现 tool.Tool
func (t *GetAllTicketsTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	data, err := t.client.ListTickets(ctx)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("Fetching tickets failed with this error - %v. Explain the user what went wrong in a short summary.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("This is the data for all tickets - %s. Display this in a tabular format and do not miss any columns.", data)}, nil
}

// SearchTicketsTool 按条件查询工单。customer_id / employee_id 走服务端
// /tickets/search 窄查询，ticket_id 取单条，其余条件回退到全量+模型过滤。
type SearchTicketsTool struct {
	client *crm.Client
}

// NewSearchTicketsTool 创建 search_tickets 工具
func NewSearchTicketsTool(client *crm.Client) *SearchTicketsTool {
	return &SearchTicketsTool{client: client}
}

// Name 实现 tool.Tool
func (t *SearchTicketsTool) Name() string { return "search_tickets" }

// Description 实现 tool.Tool
func (t *SearchTicketsTool) Description() string {
	return "Search tickets by ticket_id, customer_id, employee_id or other fields. Call this only when the user asks for a specific filter on tickets."
}

// Schema 实现 tool.Tool
func (t *SearchTicketsTool) Schema() tool.Schema {
	return tool.Schema{
		Type:        "object",
		Description: "Ticket search filters. All fields optional.",
		Properties: map[string]tool.SchemaProperty{
			"ticket_id":   {Type: "integer", Description: "Direct lookup by ticket id."},
			"customer_id": {Type: "integer", Description: "Tickets raised by this customer."},
			"employee_id": {Type: "integer", Description: "Tickets assigned to this employee."},
			"ticket_type": {Type: "string", Enum: ticketTypeEnum},
			"priority":    {Type: "string", Enum: ticketPriorityEnum},
			"status":      {Type: "string", Enum: ticketStatusEnum},
		},
	}
}

// Execute 实现 tool.Tool
func (t *SearchTicketsTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	if id := intArg(input, "ticket_id"); id > 0 {
		data, err := t.client.GetTicket(ctx, id)
		if err != nil {
			return tool.ToolResult{Err: fmt.Sprintf("During searching of ticket, this following error has occurred - %v. Explain the user what went wrong and give them correction in really short summary.", err)}, nil
		}
		return tool.ToolResult{Content: fmt.Sprintf("This is the data for ticket %d - %s. Present it in a readable format without missing any fields.", id, data)}, nil
	}

	customerID := intArg(input, "customer_id")
	employeeID := intArg(input, "employee_id")
	if customerID > 0 || employeeID > 0 {
		data, err := t.client.SearchTickets(ctx, customerID, employeeID)
		if err != nil {
			return tool.ToolResult{Err: fmt.Sprintf("During searching of ticket, this following error has occurred - %v. Explain the user what went wrong and give them correction in really short summary.", err)}, nil
		}
		return tool.ToolResult{Content: fmt.Sprintf("This is the data for the requested query - %s. Display the matching tickets in tabular format without missing any columns.", data)}, nil
	}

	filters := map[string]any{}
	for _, key := range []string{"ticket_type", "priority", "status"} {
		if v := strArg(input, key); v != "" {
			filters[key] = v
		}
	}
	data, err := t.client.ListTickets(ctx)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("During searching of ticket, this following error has occurred - %v. Explain the user what went wrong and give them correction in really short summary.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("The data for all tickets is %s. Fetch entries that match the requirements given by user - %s and display it in tabular format without missing any columns.", data, encodeFilters(filters))}, nil
}

// CreateTicketTool 创建新工单。title 与 customer_id 本地必填校验，
// 枚举字段非法值直接拦截。
type CreateTicketTool struct {
	client *crm.Client
}

// NewCreateTicketTool 创建 create_new_ticket 工具
func NewCreateTicketTool(client *crm.Client) *CreateTicketTool {
	return &CreateTicketTool{client: client}
}

// Name 实现 tool.Tool
func (t *CreateTicketTool) Name() string { return "create_new_ticket" }

// Description 实现 tool.Tool
func (t *CreateTicketTool) Description() string {
	return "When the user asks to create or add a new ticket, call this. If no description is provided, write one yourself in string format."
}

// Schema 实现 tool.Tool
func (t *CreateTicketTool) Schema() tool.Schema {
	return tool.Schema{
		Type:        "object",
		Description: "New ticket fields.",
		Properties: map[string]tool.SchemaProperty{
			"title":       {Type: "string"},
			"description": {Type: "string", Description: "Optional."},
			"customer_id": {Type: "integer", Description: "Customer raising the ticket."},
			"assignee_id": {Type: "integer", Description: "Optional. Employee assigned to the ticket."},
			"ticket_type": {Type: "string", Enum: ticketTypeEnum},
			"priority":    {Type: "string", Enum: ticketPriorityEnum},
			"status":      {Type: "string", Enum: ticketStatusEnum},
		},
		Required: []string{"title", "customer_id"},
	}
}

// Execute 实现 tool.Tool
func (t *CreateTicketTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	ticket := crm.Ticket{
		Title:       strArg(input, "title"),
		Description: strArg(input, "description"),
		CustomerID:  intArg(input, "customer_id"),
		AssigneeID:  intArg(input, "assignee_id"),
	}

	var missing []string
	if ticket.Title == "" {
		missing = append(missing, "title")
	}
	if ticket.CustomerID <= 0 {
		missing = append(missing, "customer_id")
	}
	if len(missing) > 0 {
		return tool.ToolResult{Err: fmt.Sprintf("Error! Missing required fields: %s. Ask the user to fill them.", strings.Join(missing, ", "))}, nil
	}

	if v := strArg(input, "ticket_type"); v != "" {
		tt := crm.TicketType(v)
		if !tt.Valid() {
			return tool.ToolResult{Err: fmt.Sprintf("Invalid ticket_type %q. Allowed values are: %s.", v, strings.Join(ticketTypeEnum, ", "))}, nil
		}
		ticket.TicketType = tt
	}
	if v := strArg(input, "priority"); v != "" {
		p := crm.TicketPriority(v)
		if !p.Valid() {
			return tool.ToolResult{Err: fmt.Sprintf("Invalid priority %q. Allowed values are: %s.", v, strings.Join(ticketPriorityEnum, ", "))}, nil
		}
		ticket.Priority = p
	}
	if v := strArg(input, "status"); v != "" {
		s := crm.TicketStatus(v)
		if !s.Valid() {
			return tool.ToolResult{Err: fmt.Sprintf("Invalid status %q. Allowed values are: %s.", v, strings.Join(ticketStatusEnum, ", "))}, nil
		}
		ticket.Status = s
	}

	id, err := t.client.CreateTicket(ctx, ticket)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("During creation of ticket, this following error has occurred - %v. Explain the user what went wrong and give them correction in really short summary.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("Successfully created a ticket with id %d", id)}, nil
}

// UpdateTicketTool 部分更新既有工单，必须带 ticket_id 且至少一个字段
type UpdateTicketTool struct {
	client *crm.Client
}

// NewUpdateTicketTool 创建 update_ticket 工具
func NewUpdateTicketTool(client *crm.Client) *UpdateTicketTool {
	return &UpdateTicketTool{client: client}
}

// Name 实现 tool.Tool
func (t *UpdateTicketTool) Name() string { return "update_ticket" }

// Description 实现 tool.Tool
func (t *UpdateTicketTool) Description() string {
	return "Invoke this if the user wants to update an existing ticket, e.g. close it, reassign it or change its priority. The user must provide a ticket_id to do so."
}

// Schema 实现 tool.Tool
func (t *UpdateTicketTool) Schema() tool.Schema {
	return tool.Schema{
		Type:        "object",
		Description: "Ticket fields to change. Only supplied fields are sent.",
		Properties: map[string]tool.SchemaProperty{
			"ticket_id":   {Type: "integer", Description: "Id of the ticket to update."},
			"title":       {Type: "string"},
			"description": {Type: "string"},
			"assignee_id": {Type: "integer"},
			"ticket_type": {Type: "string", Enum: ticketTypeEnum},
			"priority":    {Type: "string", Enum: ticketPriorityEnum},
			"status":      {Type: "string", Enum: ticketStatusEnum},
		},
		Required: []string{"ticket_id"},
	}
}

// Execute 实现 tool.Tool
func (t *UpdateTicketTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	id := intArg(input, "ticket_id")
	if id <= 0 {
		return tool.ToolResult{Err: "Cannot edit a ticket without a ticket id. Please ask the user for ticket_id."}, nil
	}

	fields := map[string]any{}
	if v := strArg(input, "title"); v != "" {
		fields["title"] = v
	}
	if v := strArg(input, "description"); v != "" {
		fields["description"] = v
	}
	if v := intArg(input, "assignee_id"); v > 0 {
		fields["assignee_id"] = v
	}
	if v := strArg(input, "ticket_type"); v != "" {
		if !crm.TicketType(v).Valid() {
			return tool.ToolResult{Err: fmt.Sprintf("Invalid ticket_type %q. Allowed values are: %s.", v, strings.Join(ticketTypeEnum, ", "))}, nil
		}
		fields["ticket_type"] = v
	}
	if v := strArg(input, "priority"); v != "" {
		if !crm.TicketPriority(v).Valid() {
			return tool.ToolResult{Err: fmt.Sprintf("Invalid priority %q. Allowed values are: %s.", v, strings.Join(ticketPriorityEnum, ", "))}, nil
		}
		fields["priority"] = v
	}
	if v := strArg(input, "status"); v != "" {
		if !crm.TicketStatus(v).Valid() {
			return tool.ToolResult{Err: fmt.Sprintf("Invalid status %q. Allowed values are: %s.", v, strings.Join(ticketStatusEnum, ", "))}, nil
		}
		fields["status"] = v
	}

	if len(fields) == 0 {
		return tool.ToolResult{Err: "You did not mention any fields to be updated. Need at least 1 field."}, nil
	}

	updatedID, err := t.client.UpdateTicket(ctx, id, fields)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("The update process has failed and gave this error - %v. Explain the user what went wrong and how to correct it.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("Successfully updated ticket with id %d", updatedID)}, nil
}
