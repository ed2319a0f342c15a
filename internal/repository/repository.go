// Package repository 提供了本地后端基于 Redis 的数据访问层实现。
package repository

import "errors"

// ErrNotFound 表示记录不存在。
var ErrNotFound = errors.New("record not found")

const keyPrefix = "opuluxe:"
