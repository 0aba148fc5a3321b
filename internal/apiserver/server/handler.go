package server

import (
	"net/http"

	"library-admin/internal/apiserver/auth"
	"library-admin/internal/apiserver/book"
	"library-admin/internal/apiserver/customer"
	"library-admin/internal/apiserver/loan"
)

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 认证 (Auth):
//   - POST   /register        - 用户注册（公开）
//   - POST   /login           - 用户登录（公开）
//   - POST   /logout          - 注销，吊销当前令牌
//
// 图书 (Book):
//   - POST   /book            - 创建图书
//   - POST   /book/search     - 按书名搜索（公开）
//   - POST   /author/search   - 按作者搜索（公开）
//   - GET    /books           - 列出图书（公开，?status=）
//   - PUT    /book/status     - 翻转上架/下架状态（POST 同义）
//   - DELETE /book/{name}     - 删除图书
//
// 客户 (Customer):
//   - POST   /customer        - 创建客户（公开）
//   - POST   /customer/search - 按邮箱/姓名搜索（公开）
//   - GET    /customers       - 列出客户（公开，?status=）
//   - PUT    /customer/status - 翻转启用/停用状态（POST 同义）
//   - DELETE /customer/{email} - 删除客户（公开）
//
// 借阅 (Loan):
//   - POST   /loan            - 创建借阅
//   - POST   /return/{id}     - 归还
//   - DELETE /loan/{id}       - 删除借阅
//   - GET    /loans           - 列出借阅（公开，?status=active|inactive|all|late）
//
// 运维:
//   - GET    /health          - 服务健康检查（公开）
//   - GET    /metrics         - Prometheus 指标（公开）
//   - GET    /audit           - 审计日志查询
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 健康检查
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", h.metrics.Handler())

	// 审计日志查询
	mux.HandleFunc("GET /audit", h.Audit)

	// Auth 路由
	authHandler := auth.NewHandler(h.store, h.authCfg)
	authHandler.RegisterRoutes(mux)

	// Book 路由
	bookHandler := book.NewHandler(h.store)
	bookHandler.RegisterRoutes(mux)

	// Customer 路由
	custHandler := customer.NewHandler(h.store)
	custHandler.RegisterRoutes(mux)

	// Loan 路由
	loanHandler := loan.NewHandler(h.store)
	loanHandler.RegisterRoutes(mux)

	// 应用指标中间件
	apiHandler := h.metrics.Middleware(mux)

	// 应用认证中间件（吊销检查走存储层）
	return auth.Middleware(h.authCfg, h.store)(apiHandler)
}
