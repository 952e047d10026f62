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

// GetAllCustomersTool 拉取全部客户数据
type GetAllCustomersTool struct {
	client *crm.Client
}

// NewGetAllCustomersTool 创建 get_all_customers 工具
func NewGetAllCustomersTool(client *crm.Client) *GetAllCustomersTool {
	return &GetAllCustomersTool{client: client}
}

// Name 实现 tool.Tool
func (t *GetAllCustomersTool) Name() string { return "get_all_customers" }

// Description 实现 tool.Tool
func (t *GetAllCustomersTool) Description() string {
	return "Fetch / Show all customers. If user asks to see customer data or all names of customers, call this."
}

// Schema 实现 tool.Tool
func (t *GetAllCustomersTool) Schema() tool.Schema {
	return tool.Schema{Type: "object", Description: "No arguments."}
}

// Execute 实现 tool.Tool
func (t *GetAllCustomersTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	data, err := t.client.ListCustomers(ctx)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("Fetching customers failed with this error - %v. Explain the user what went wrong in a short summary.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("This is the data for all customers - %s. Display this in a tabular format and do not miss any columns.", data)}, nil
}

// SearchCustomersTool 按条件查询客户。带 customer_id 直接取单条，
// 否则返回全量数据与原始过滤条件，由模型侧完成过滤。
type SearchCustomersTool struct {
	client *crm.Client
}

// NewSearchCustomersTool 创建 search_customers 工具
func NewSearchCustomersTool(client *crm.Client) *SearchCustomersTool {
	return &SearchCustomersTool{client: client}
}

// Name 实现 tool.Tool
func (t *SearchCustomersTool) Name() string { return "search_customers" }

// Description 实现 tool.Tool
func (t *SearchCustomersTool) Description() string {
	return "Search customers by any of the given fields. Call this only when the user asks for a specific filter on customers."
}

// Schema 实现 tool.Tool
func (t *SearchCustomersTool) Schema() tool.Schema {
	return tool.Schema{
		Type:        "object",
		Description: "Customer search filters. All fields optional.",
		Properties: map[string]tool.SchemaProperty{
			"customer_id": {Type: "integer", Description: "Direct lookup by customer id."},
			"first_name":  {Type: "string"},
			"last_name":   {Type: "string"},
			"company":     {Type: "string"},
			"email":       {Type: "string"},
			"phone":       {Type: "string"},
		},
	}
}

// Execute 实现 tool.Tool
func (t *SearchCustomersTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	if id := intArg(input, "customer_id"); id > 0 {
		data, err := t.client.GetCustomer(ctx, id)
		if err != nil {
			return tool.ToolResult{Err: fmt.Sprintf("During searching of customer, this following error has occurred - %v. Explain the user what went wrong and give them correction in really short summary.", err)}, nil
		}
		return tool.ToolResult{Content: fmt.Sprintf("This is the data for customer %d - %s. Present it in a readable format without missing any fields.", id, data)}, nil
	}

	filters := map[string]any{}
	for _, key := range []string{"first_name", "last_name", "company", "email", "phone"} {
		if v := strArg(input, key); v != "" {
			filters[key] = v
		}
	}
	data, err := t.client.ListCustomers(ctx)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("During searching of customer, this following error has occurred - %v. Explain the user what went wrong and give them correction in really short summary.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("The data for all customers is %s. Fetch entries that match the requirements given by user - %s and display it in tabular format without missing any columns.", data, encodeFilters(filters))}, nil
}

// CreateCustomerTool 创建新客户。必填字段在本地校验，缺字段不发起 HTTP。
type CreateCustomerTool struct {
	client *crm.Client
}

// NewCreateCustomerTool 创建 create_new_customer 工具
func NewCreateCustomerTool(client *crm.Client) *CreateCustomerTool {
	return &CreateCustomerTool{client: client}
}

// Name 实现 tool.Tool
func (t *CreateCustomerTool) Name() string { return "create_new_customer" }

// Description 实现 tool.Tool
func (t *CreateCustomerTool) Description() string {
	return "When the user asks to create or add a new customer, call this and check all the values are given to it."
}

// Schema 实现 tool.Tool
func (t *CreateCustomerTool) Schema() tool.Schema {
	return tool.Schema{
		Type:        "object",
		Description: "New customer fields.",
		Properties: map[string]tool.SchemaProperty{
			"first_name": {Type: "string"},
			"last_name":  {Type: "string"},
			"company":    {Type: "string"},
			"email":      {Type: "string"},
			"phone":      {Type: "string", Description: "Optional."},
		},
		Required: []string{"first_name", "last_name", "company", "email"},
	}
}

// Execute 实现 tool.Tool
func (t *CreateCustomerTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	customer := crm.Customer{
		FirstName: strArg(input, "first_name"),
		LastName:  strArg(input, "last_name"),
		Company:   strArg(input, "company"),
		Email:     strArg(input, "email"),
		Phone:     strArg(input, "phone"),
	}

	var missing []string
	if customer.FirstName == "" {
		missing = append(missing, "first_name")
	}
	if customer.LastName == "" {
		missing = append(missing, "last_name")
	}
	if customer.Company == "" {
		missing = append(missing, "company")
	}
	if customer.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return tool.ToolResult{Err: fmt.Sprintf("Error! Missing required fields: %s. Ask the user to fill them.", strings.Join(missing, ", "))}, nil
	}

	id, err := t.client.CreateCustomer(ctx, customer)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("During creation of customer, this following error has occurred - %v. Explain the user what went wrong and give them correction in really short summary.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("Successfully created a customer with id %d", id)}, nil
}

// UpdateCustomerTool 部分更新既有客户，必须带 customer_id 且至少一个字段
type UpdateCustomerTool struct {
	client *crm.Client
}

// NewUpdateCustomerTool 创建 update_customer_data 工具
func NewUpdateCustomerTool(client *crm.Client) *UpdateCustomerTool {
	return &UpdateCustomerTool{client: client}
}

// Name 实现 tool.Tool
func (t *UpdateCustomerTool) Name() string { return "update_customer_data" }

// Description 实现 tool.Tool
func (t *UpdateCustomerTool) Description() string {
	return "Invoke this if the user wants to update or set a value on an existing customer. The user must provide a customer_id to do so."
}

// Schema 实现 tool.Tool
func (t *UpdateCustomerTool) Schema() tool.Schema {
	return tool.Schema{
		Type:        "object",
		Description: "Customer fields to change. Only supplied fields are sent.",
		Properties: map[string]tool.SchemaProperty{
			"customer_id": {Type: "integer", Description: "Id of the customer to update."},
			"first_name":  {Type: "string"},
			"last_name":   {Type: "string"},
			"company":     {Type: "string"},
			"email":       {Type: "string"},
			"phone":       {Type: "string"},
		},
		Required: []string{"customer_id"},
	}
}

// Execute 实现 tool.Tool
func (t *UpdateCustomerTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	id := intArg(input, "customer_id")
	if id <= 0 {
		return tool.ToolResult{Err: "Cannot edit a customer without a customer id. Please ask the user for customer_id."}, nil
	}

	fields := map[string]any{}
	for _, key := range []string{"first_name", "last_name", "company", "email", "phone"} {
		if v := strArg(input, key); v != "" {
			fields[key] = v
		}
	}
	if len(fields) == 0 {
		return tool.ToolResult{Err: "You did not mention any fields to be updated. Need at least 1 field."}, nil
	}

	updatedID, err := t.client.UpdateCustomer(ctx, id, fields)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("The update process has failed and gave this error - %v. Explain the user what went wrong and how to correct it.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("Successfully updated customer with id %d", updatedID)}, nil
}
