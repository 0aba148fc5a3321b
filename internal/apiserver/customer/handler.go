// Package customer 客户领域 - HTTP 处理
package customer

import (
	"encoding/json"
	"log"
	"net/http"

	"library-admin/internal/model"
	"library-admin/internal/storage"
	"library-admin/internal/validate"
)

// Handler 客户领域 HTTP 处理器
type Handler struct {
	store storage.CustomerStore // 使用接口类型
}

// NewHandler 创建客户处理器
func NewHandler(store storage.CustomerStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册客户相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /customer", h.Create)
	mux.HandleFunc("POST /customer/search", h.Search)
	mux.HandleFunc("GET /customers", h.List)
	mux.HandleFunc("PUT /customer/status", h.ToggleStatus)
	mux.HandleFunc("POST /customer/status", h.ToggleStatus)
	mux.HandleFunc("DELETE /customer/{email}", h.Delete)
}

// ============================================================================
// HTTP 处理函数
// ============================================================================

// Create 创建客户
// POST /customer
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Fields(req,
		[]string{"full_name", "email", "city", "age"},
		map[string][]string{
			"city": model.CityNames(),
			"role": model.RoleNames(),
		}); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer := &model.Customer{
		FullName: validate.String(req, "full_name"),
		Email:    validate.String(req, "email"),
		City:     model.City(validate.String(req, "city")),
		Age:      validate.Int(req, "age"),
		Role:     model.Role(validate.String(req, "role")),
		IsActive: true,
	}
	if err := h.store.CreateCustomer(r.Context(), customer); err != nil {
		if err == storage.ErrDuplicate {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		log.Printf("[customer.create] CreateCustomer error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create customer")
		return
	}

	log.Printf("[customer] Created customer: %s (ID: %d)", customer.Email, customer.ID)
	writeJSON(w, http.StatusCreated, customer)
}

// Search 按邮箱或姓名搜索（大小写不敏感的子串匹配）
// POST /customer/search
// 请求体需包含 email 或 full_name 之一，email 优先。
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		customers []*model.Customer
		err       error
	)
	switch {
	case validate.String(req, "email") != "":
		customers, err = h.store.SearchCustomersByEmail(r.Context(), validate.String(req, "email"))
	case validate.String(req, "full_name") != "":
		customers, err = h.store.SearchCustomersByName(r.Context(), validate.String(req, "full_name"))
	default:
		writeError(w, http.StatusBadRequest, "email or full_name is required")
		return
	}
	if err != nil {
		log.Printf("[customer.search] search error: %v", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if len(customers) == 0 {
		writeError(w, http.StatusNotFound, "no customers found")
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// List 列出客户，?status=active|inactive|all，默认 active
// GET /customers
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := model.StatusFilter(r.URL.Query().Get("status"))
	if status == "" {
		status = model.StatusActive
	}

	customers, err := h.store.ListCustomers(r.Context(), status)
	if err != nil {
		if err == storage.ErrInvalidStatus {
			writeError(w, http.StatusBadRequest, "invalid status filter: "+string(status))
			return
		}
		log.Printf("[customer.list] ListCustomers error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}
	if customers == nil {
		customers = []*model.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

// ToggleStatus 按精确邮箱翻转启用/停用状态
// PUT /customer/status, POST /customer/status
func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Fields(req, []string{"email"}, nil); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := h.store.ToggleCustomerActive(r.Context(), validate.String(req, "email"))
	if err != nil {
		if err == storage.ErrNotFound {
			writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		log.Printf("[customer.toggle] ToggleCustomerActive error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle customer status")
		return
	}

	log.Printf("[customer] Toggled status for customer: %s (Active: %t)", customer.Email, customer.IsActive)
	writeJSON(w, http.StatusOK, customer)
}

// Delete 按精确邮箱删除客户（硬删除）
// DELETE /customer/{email}
// 存在未归还借阅时拒绝删除。
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	if err := h.store.DeleteCustomer(r.Context(), email); err != nil {
		switch err {
		case storage.ErrNotFound:
			writeError(w, http.StatusNotFound, "customer not found")
		case storage.ErrHasActiveLoans:
			writeError(w, http.StatusBadRequest, "customer has active loans")
		default:
			log.Printf("[customer.delete] DeleteCustomer error: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to delete customer")
		}
		return
	}

	log.Printf("[customer] Deleted customer: %s", email)
	writeJSON(w, http.StatusOK, map[string]string{"message": "customer deleted"})
}

// ============================================================================
// 工具函数
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
