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
	"encoding/json"
	"strconv"
	"strings"
)

// intArg 从模型参数中取整型。JSON 解码后数字是 float64，
// 个别模型会把 id 发成字符串，这里一并兼容。
func intArg(input map[string]any, key string) int {
	switch v := input[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	return 0
}

// strArg 从模型参数中取字符串，空白视为未提供
func strArg(input map[string]any, key string) string {
	if v, ok := input[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// encodeFilters 把用户给出的过滤条件序列化后嵌入返回文本
func encodeFilters(filters map[string]any) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return "{}"
	}
	return string(data)
}
