package public

import "github.com/parlevel-next/internal/provider"

// Handler 下单与邮箱接口处理器
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
