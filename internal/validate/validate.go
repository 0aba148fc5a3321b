// Package validate 请求负载校验
//
// 对应三类失败：必填字段缺失、枚举值非法、邮箱格式错误。
// 校验在任何写操作之前完成，缺失字段一次性全部报告。
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// emailRe 宽松的 RFC 风格邮箱匹配
var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Fields 校验请求负载
//
// required 中缺失的键一次性全部列出；enums 将字段名映射到可接受的成员名集合，
// 仅在字段存在时检查；键名为 email 的字段额外做格式校验。
// 返回 nil 表示负载合法。
func Fields(data map[string]any, required []string, enums map[string][]string) error {
	var missing []string
	for _, field := range required {
		if _, ok := data[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	for field, members := range enums {
		raw, ok := data[field]
		if !ok {
			continue
		}
		value, _ := raw.(string)
		if !contains(members, value) {
			return fmt.Errorf("invalid value for %s, must be one of: %s",
				field, strings.Join(members, ", "))
		}
	}

	if raw, ok := data["email"]; ok {
		if email, _ := raw.(string); !emailRe.MatchString(email) {
			return fmt.Errorf("invalid email format: %q", email)
		}
	}
	return nil
}

// Email 单独校验邮箱格式
func Email(email string) bool {
	return emailRe.MatchString(email)
}

// String 从 JSON 负载中取字符串字段（缺失或类型不符返回空串）
func String(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// Int 从 JSON 负载中取整数字段
// encoding/json 将数值解码为 float64，这里统一转换。
func Int(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// Int64 从 JSON 负载中取 int64 字段
func Int64(data map[string]any, key string) int64 {
	switch v := data[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

func contains(members []string, value string) bool {
	for _, m := range members {
		if m == value {
			return true
		}
	}
	return false
}
