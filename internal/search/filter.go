// Package search 提供列表页面使用的子串过滤、分页和输入防抖。
package search

import (
	"strings"
)

// Match 忽略大小写做子串匹配，查询中的空白原样参与匹配，空查询匹配所有记录
func Match(name, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}

func Filter[T any](items []T, query string, name func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Match(name(item), query) {
			out = append(out, item)
		}
	}
	return out
}
