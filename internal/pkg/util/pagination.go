package util

import (
	"IQNet/internal/pkg/consts"
	"strconv"
)

// Paginate 页码从 1 开始，返回 limit, offset
func Paginate(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = consts.DefaultPageSize
	}
	if pageSize > consts.MaxPageSize {
		pageSize = consts.MaxPageSize
	}
	return pageSize, (page - 1) * pageSize
}

// ParsePage 解析查询参数，非法值回落到默认
func ParsePage(pageStr, sizeStr string) (int, int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		size = consts.DefaultPageSize
	}
	return page, size
}

func PtrUint64(v uint64) *uint64 {
	return &v
}

func PtrString(v string) *string {
	return &v
}
