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
	"crm-assistant/internal/crm"
	"crm-assistant/internal/tool/registry"
)

// RegisterAll 把完整领域工具目录注册进注册表
func RegisterAll(reg *registry.Registry, client *crm.Client) {
	reg.Register(NewGetAllCustomersTool(client))
	reg.Register(NewSearchCustomersTool(client))
	reg.Register(NewCreateCustomerTool(client))
	reg.Register(NewUpdateCustomerTool(client))

	reg.Register(NewGetAllTicketsTool(client))
	reg.Register(NewSearchTicketsTool(client))
	reg.Register(NewCreateTicketTool(client))
	reg.Register(NewUpdateTicketTool(client))

	reg.Register(NewGetAllEmployeesTool(client))
	reg.Register(NewSearchEmployeeTool(client))
	reg.Register(NewCreateEmployeeTool(client))
	reg.Register(NewUpdateEmployeeTool(client))

	reg.Register(NewIndividualAnalysisTool(client))
	reg.Register(NewOverallAnalysisTool(client))
}
