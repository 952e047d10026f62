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

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/hertz-contrib/jwt"

	"crm-assistant/internal/crm"
	"crm-assistant/pkg/auth"
)

// JWT claims 键名
const (
	claimEmpID    = "emp_id"
	claimEmpName  = "emp_name"
	claimAccess   = "access"
	claimCRMToken = "crm_token"
)

// identity 登录成功后进入 JWT payload 的身份信息。
// CRM 侧 token 一并封入 claims，后续每个请求都能重建带凭证的 context。
type identity struct {
	Operator auth.Operator
	CRMToken string
}

// loginRequest 登录请求体
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewJWTAuth 创建 JWT 认证中间件：登录凭证转发给 CRM 校验，
// 成功后把员工身份与 CRM token 封装进本服务签发的 JWT
func NewJWTAuth(crmClient *crm.Client, key []byte, timeout, maxRefresh time.Duration) (*jwt.HertzJWTMiddleware, error) {
	return jwt.New(&jwt.HertzJWTMiddleware{
		Realm:      "crm-assistant",
		Key:        key,
		Timeout:    timeout,
		MaxRefresh: maxRefresh,
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			id, ok := data.(*identity)
			if !ok {
				return jwt.MapClaims{}
			}
			return jwt.MapClaims{
				claimEmpID:    id.Operator.EmployeeID,
				claimEmpName:  id.Operator.Name,
				claimAccess:   id.Operator.AccessLevel,
				claimCRMToken: id.CRMToken,
			}
		},
		Authenticator: func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
			var req loginRequest
			if err := c.BindJSON(&req); err != nil {
				return nil, jwt.ErrMissingLoginValues
			}
			if req.Email == "" || req.Password == "" {
				return nil, jwt.ErrMissingLoginValues
			}
			result, err := crmClient.Login(ctx, req.Email, req.Password)
			if err != nil {
				return nil, jwt.ErrFailedAuthentication
			}
			return &identity{
				Operator: auth.Operator{
					EmployeeID:  result.EmpID,
					Name:        result.EmpName,
					AccessLevel: result.Access,
				},
				CRMToken: result.AccessToken,
			}, nil
		},
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwt.ExtractClaims(ctx, c)
			empID, _ := claims[claimEmpID].(float64)
			name, _ := claims[claimEmpName].(string)
			access, _ := claims[claimAccess].(string)
			token, _ := claims[claimCRMToken].(string)
			return &identity{
				Operator: auth.Operator{
					EmployeeID:  int(empID),
					Name:        name,
					AccessLevel: access,
				},
				CRMToken: token,
			}
		},
		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			c.JSON(code, utils.H{"error": message})
		},
		LoginResponse: func(ctx context.Context, c *app.RequestContext, code int, token string, expire time.Time) {
			c.JSON(http.StatusOK, utils.H{
				"token":  token,
				"expire": expire.Format(time.RFC3339),
			})
		},
		TokenLookup:   "header: Authorization",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
	})
}

// OperatorContext 从 JWT 身份重建请求级 context：注入操作者与 CRM token
func OperatorContext(ctx context.Context, c *app.RequestContext) context.Context {
	v, ok := c.Get("identity")
	if !ok {
		return ctx
	}
	id, ok := v.(*identity)
	if !ok {
		return ctx
	}
	ctx = auth.WithOperator(ctx, id.Operator)
	ctx = auth.WithToken(ctx, id.CRMToken)
	return ctx
}
