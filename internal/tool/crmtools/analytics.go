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

	"crm-assistant/internal/crm"
	"crm-assistant/internal/tool"
)

// IndividualAnalysisTool 拉取某个员工或客户的原始工单数据，
// 统计口径由模型在回复中计算呈现。
type IndividualAnalysisTool struct {
	client *crm.Client
}

// NewIndividualAnalysisTool 创建 show_individual_analysis 工具
func NewIndividualAnalysisTool(client *crm.Client) *IndividualAnalysisTool {
	return &IndividualAnalysisTool{client: client}
}

// Name 实现 tool.Tool
func (t *IndividualAnalysisTool) Name() string { return "show_individual_analysis" }

// Description 实现 tool.Tool
func (t *IndividualAnalysisTool) Description() string {
	return "Fetches raw ticket data to generate a performance or activity analysis for a specific employee OR customer. " +
		"Use when the user asks to analyze, review performance, check stats or show history for a person. " +
		"Requires either an employee_id or a customer_id. Do not output the raw JSON: compute and present a statistical " +
		"dashboard (executive summary, priority breakdown, status distribution, ticket type analysis, recent activity log). " +
		"If the API says no employee/customer exists with that id, tell the user so."
}

// Schema 实现 tool.Tool
func (t *IndividualAnalysisTool) Schema() tool.Schema {
	return tool.Schema{
		Type:        "object",
		Description: "Exactly one of employee_id or customer_id should be given.",
		Properties: map[string]tool.SchemaProperty{
			"employee_id": {Type: "integer", Description: "Analyze tickets assigned to this employee."},
			"customer_id": {Type: "integer", Description: "Analyze tickets raised by this customer."},
		},
	}
}

// Execute 实现 tool.Tool
func (t *IndividualAnalysisTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	customerID := intArg(input, "customer_id")
	employeeID := intArg(input, "employee_id")
	if customerID <= 0 && employeeID <= 0 {
		return tool.ToolResult{Err: "An employee_id or a customer_id is required for an individual analysis. Ask the user which person to analyze."}, nil
	}

	data, err := t.client.SearchTickets(ctx, customerID, employeeID)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("During analysis, this following error has occurred - %v. Explain the user what went wrong and give them correction in really short summary.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("This is the data for the requested query - %s", data)}, nil
}

// OverallAnalysisTool 拉取全局面板数据，由模型汇总呈现
type OverallAnalysisTool struct {
	client *crm.Client
}

// NewOverallAnalysisTool 创建 show_overall_analysis 工具
func NewOverallAnalysisTool(client *crm.Client) *OverallAnalysisTool {
	return &OverallAnalysisTool{client: client}
}

// Name 实现 tool.Tool
func (t *OverallAnalysisTool) Name() string { return "show_overall_analysis" }

// Description 实现 tool.Tool
func (t *OverallAnalysisTool) Description() string {
	return "When the user asks for an overall, complete or current analysis without mentioning an employee id or customer id, call this. Evaluate the data sent by the API and display it in a visually compelling manner."
}

// Schema 实现 tool.Tool
func (t *OverallAnalysisTool) Schema() tool.Schema {
	return tool.Schema{Type: "object", Description: "No arguments."}
}

// Execute 实现 tool.Tool
func (t *OverallAnalysisTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	data, err := t.client.Dashboard(ctx)
	if err != nil {
		return tool.ToolResult{Err: fmt.Sprintf("During analysis, this following error has occurred - %v. Explain the user what went wrong and give them correction in really short summary.", err)}, nil
	}
	return tool.ToolResult{Content: fmt.Sprintf("This is the data for the requested query - %s", data)}, nil
}
