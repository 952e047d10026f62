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

var accessLevelEnum = []string{"admin", "agent"}

// GetAllEmployeesTool 拉取全部员工数据
type GetAllEmployeesTool struct {
	client *crm.Client
}

// NewGetAllEmployeesTool 创建 get_all_employees 工具
func NewGetAllEmployeesTool(client *crm.Client) *GetAllEmployeesTool {
	return &GetAllEmployeesTool{client: client}
}

// Name 实现 tool.Tool
func (t *GetAllEmployeesTool) Name() string { return "get_all_employees" }

// Description 实现 tool.Tool
func (t *GetAllEmployeesTool) Description() string {
	return "Fetch / Show all employees. If user asks to see employee data or all names of employees, call this."
}

// Schema 实现 tool.Tool
func (t *GetAllEmployeesTool) Schema() tool.Schema {
	return tool.Schema{Type: "object", Description: "No arguments."}
}

// Execute 实现 tool.Tool
func (t *GetAllEmployeesTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	data, err := t.client.ListEmployees(ctx)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("Fetching employees failed with this error - %v. Explain the user what went wrong in a short summary.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("This is the data for all employees - %s. Display this in a tabular format and do not miss any columns.", data)}, nil
}

// SearchEmployeeTool 按条件查询员工，带 employee_id 直接取单条
type SearchEmployeeTool struct {
	client *crm.Client
}

// NewSearchEmployeeTool 创建 search_employee 工具
func NewSearchEmployeeTool(client *crm.Client) *SearchEmployeeTool {
	return &SearchEmployeeTool{client: client}
}

// Name 实现 tool.Tool
func (t *SearchEmployeeTool) Name() string { return "search_employee" }

// Description 实现 tool.Tool
func (t *SearchEmployeeTool) Description() string {
	return "Search employees by any of the given fields. Call this only when the user asks for a specific filter on employees."
}

// Schema 实现 tool.Tool
func (t *SearchEmployeeTool) Schema() tool.Schema {
	return tool.Schema{
		Type:        "object",
		Description: "Employee search filters. All fields optional.",
		Properties: map[string]tool.SchemaProperty{
			"employee_id":  {Type: "integer", Description: "Direct lookup by employee id."},
			"first_name":   {Type: "string"},
			"last_name":    {Type: "string"},
			"email":        {Type: "string"},
			"phone":        {Type: "string"},
			"access_level": {Type: "string", Enum: accessLevelEnum},
		},
	}
}

// Execute 实现 tool.Tool
func (t *SearchEmployeeTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	if id := intArg(input, "employee_id"); id > 0 {
		data, err := t.client.GetEmployee(ctx, id)
		if err != nil {
			return tool.ToolResult{Err: fmt.Sprintf("During searching of employee, this following error has occurred - %v. Explain the user what went wrong and give them correction in really short summary.", err)}, nil
		}
		return tool.ToolResult{Content: fmt.Sprintf("This is the data for employee %d - %s. Present it in a readable format without missing any fields.", id, data)}, nil
	}

	filters := map[string]any{}
	for _, key := range []string{"first_name", "last_name", "email", "phone", "access_level"} {
		if v := strArg(input, key); v != "" {
			filters[key] = v
		}
	}
	data, err := t.client.ListEmployees(ctx)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("During searching of employee, this following error has occurred - %v. Explain the user what went wrong and give them correction in really short summary.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("The data for all employees is %s. Fetch entries that match the requirements given by user - %s and display it in tabular format without missing any columns. Remember, STRICTLY TABULAR FORMAT.", data, encodeFilters(filters))}, nil
}

// CreateEmployeeTool 创建新员工。access_level 缺省为 agent。
type CreateEmployeeTool struct {
	client *crm.Client
}

// NewCreateEmployeeTool 创建 create_new_employee 工具
func NewCreateEmployeeTool(client *crm.Client) *CreateEmployeeTool {
	return &CreateEmployeeTool{client: client}
}

// Name 实现 tool.Tool
func (t *CreateEmployeeTool) Name() string { return "create_new_employee" }

// Description 实现 tool.Tool
func (t *CreateEmployeeTool) Description() string {
	return "When the user asks to create or add a new employee, call this. If no access_level is provided, default it to agent."
}

// Schema 实现 tool.Tool
func (t *CreateEmployeeTool) Schema() tool.Schema {
	return tool.Schema{
		Type:        "object",
		Description: "New employee fields.",
		Properties: map[string]tool.SchemaProperty{
			"first_name":    {Type: "string"},
			"last_name":     {Type: "string"},
			"email":         {Type: "string"},
			"phone":         {Type: "string", Description: "Optional."},
			"access_level":  {Type: "string", Enum: accessLevelEnum},
			"password_hash": {Type: "string", Description: "Initial password for the employee account."},
		},
		Required: []string{"first_name", "last_name", "email", "password_hash"},
	}
}

// Execute 实现 tool.Tool
func (t *CreateEmployeeTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	employee := crm.Employee{
		FirstName:    strArg(input, "first_name"),
		LastName:     strArg(input, "last_name"),
		Email:        strArg(input, "email"),
		Phone:        strArg(input, "phone"),
		PasswordHash: strArg(input, "password_hash"),
	}

	var missing []string
	if employee.FirstName == "" {
		missing = append(missing, "first_name")
	}
	if employee.LastName == "" {
		missing = append(missing, "last_name")
	}
	if employee.Email == "" {
		missing = append(missing, "email")
	}
	if employee.PasswordHash == "" {
		missing = append(missing, "password_hash")
	}
	if len(missing) > 0 {
		return tool.ToolResult{Err: fmt.Sprintf("Error! Missing required fields: %s. Ask the user to fill them.", strings.Join(missing, ", "))}, nil
	}

	if v := strArg(input, "access_level"); v != "" {
		level := crm.AccessLevel(v)
		if !level.Valid() {
			return tool.ToolResult{Err: fmt.Sprintf("Invalid access_level %q. Allowed values are: %s.", v, strings.Join(accessLevelEnum, ", "))}, nil
		}
		employee.AccessLevel = level
	} else {
		employee.AccessLevel = crm.AccessLevelAgent
	}

	id, err := t.client.CreateEmployee(ctx, employee)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("During creation of employee, this following error has occurred - %v. Explain the user what went wrong and give them correction in really short summary.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("Successfully created an employee with id %d", id)}, nil
}

// UpdateEmployeeTool 部分更新既有员工（晋升走 access_level 变更）
type UpdateEmployeeTool struct {
	client *crm.Client
}

// NewUpdateEmployeeTool 创建 update_employee 工具
func NewUpdateEmployeeTool(client *crm.Client) *UpdateEmployeeTool {
	return &UpdateEmployeeTool{client: client}
}

// Name 实现 tool.Tool
func (t *UpdateEmployeeTool) Name() string { return "update_employee" }

// Description 实现 tool.Tool
func (t *UpdateEmployeeTool) Description() string {
	return "Invoke this if the user wants to update or set a value on an existing employee. The user must provide an employee_id. Also call this when the user asks to promote an employee."
}

// Schema 实现 tool.Tool
func (t *UpdateEmployeeTool) Schema() tool.Schema {
	return tool.Schema{
		Type:        "object",
		Description: "Employee fields to change. Only supplied fields are sent.",
		Properties: map[string]tool.SchemaProperty{
			"employee_id":  {Type: "integer", Description: "Id of the employee to update."},
			"first_name":   {Type: "string"},
			"last_name":    {Type: "string"},
			"email":        {Type: "string"},
			"phone":        {Type: "string"},
			"access_level": {Type: "string", Enum: accessLevelEnum},
		},
		Required: []string{"employee_id"},
	}
}

// Execute 实现 tool.Tool
func (t *UpdateEmployeeTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	id := intArg(input, "employee_id")
	if id <= 0 {
		return tool.ToolResult{Err: "Cannot edit an employee without an employee id. Please ask the user for employee_id."}, nil
	}

	fields := map[string]any{}
	for _, key := range []string{"first_name", "last_name", "email", "phone"} {
		if v := strArg(input, key); v != "" {
			fields[key] = v
		}
	}
	if v := strArg(input, "access_level"); v != "" {
		if !crm.AccessLevel(v).Valid() {
			return tool.ToolResult{Err: fmt.Sprintf("Invalid access_level %q. Allowed values are: %s.", v, strings.Join(accessLevelEnum, ", "))}, nil
		}
		fields["access_level"] = v
	}
	if len(fields) == 0 {
		return tool.ToolResult{Err: "You did not mention any fields to be updated. Need at least 1 field."}, nil
	}

	updatedID, err := t.client.UpdateEmployee(ctx, id, fields)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("The update process has failed and gave this error - %v. Explain the user what went wrong and how to correct it.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("Successfully updated employee with id %d", updatedID)}, nil
}
