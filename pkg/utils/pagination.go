package utils

const (
	// DefaultPageLimit 后台列表默认每页条数
	DefaultPageLimit = 20
	// MaxPageLimit 交易与使用记录单页上限
	MaxPageLimit = 100
)

// Pagination 分页请求参数，绑定 ?page=&limit=
type Pagination struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

// PageResult 分页响应结果
type PageResult struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// GetPageOffset 补齐默认值并返回 (offset, limit)
func (p *Pagination) GetPageOffset() (int, int) {
	if p.Page <= 0 {
		p.Page = 1
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	return (p.Page - 1) * p.Limit, p.Limit
}

// NewPageResult 用已补齐的分页参数组装结果
func NewPageResult(list interface{}, total int64, p Pagination) *PageResult {
	return &PageResult{List: list, Total: total, Page: p.Page, Limit: p.Limit}
}
