package dto

// Response 统一返回结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageDTO 分页结果
type PageDTO[T any] struct {
	List  []T   `json:"list"`
	Page  int   `json:"page"`
	Total int64 `json:"total,omitempty"`
}

// PageReq 分页查询参数
type PageReq struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}
