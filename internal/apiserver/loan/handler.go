// Package loan 借阅领域 - HTTP 处理
package loan

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"library-admin/internal/model"
	"library-admin/internal/storage"
	"library-admin/internal/validate"
)

// Handler 借阅领域 HTTP 处理器
type Handler struct {
	store storage.LoanStore // 使用接口类型
}

// NewHandler 创建借阅处理器
func NewHandler(store storage.LoanStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册借阅相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /loan", h.Create)
	mux.HandleFunc("DELETE /loan/{id}", h.Delete)
	mux.HandleFunc("POST /return/{id}", h.Return)
	mux.HandleFunc("GET /loans", h.List)
}

// ============================================================================
// HTTP 处理函数
// ============================================================================

// Create 创建借阅
// POST /loan
// 图书必须存在、上架且未被借出；客户必须存在。应还时间由借阅类型推导。
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Fields(req,
		[]string{"customer_id", "book_id", "loan_time_type"},
		map[string][]string{
			"loan_time_type": model.LoanTypeNames(),
		}); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	loan, err := h.store.CreateLoan(r.Context(),
		validate.Int64(req, "customer_id"),
		validate.Int64(req, "book_id"),
		model.LoanType(validate.String(req, "loan_time_type")))
	if err != nil {
		switch err {
		case storage.ErrBookUnavailable:
			writeError(w, http.StatusBadRequest, "book is unavailable or already loaned")
		case storage.ErrCustomerNotFound:
			writeError(w, http.StatusNotFound, "customer not found")
		default:
			log.Printf("[loan.create] CreateLoan error: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to create loan")
		}
		return
	}

	log.Printf("[loan] Created loan: %d (book ID: %d, customer ID: %d)", loan.ID, loan.BookID, loan.CustomerID)
	writeJSON(w, http.StatusCreated, loan)
}

// Return 归还借阅
// POST /return/{id}
// 借阅行保留：is_active 置 false，return_date 覆盖为实际归还时间。
// 重复归还返回错误，状态不变。
func (h *Handler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	loan, err := h.store.ReturnLoan(r.Context(), id)
	if err != nil {
		switch err {
		case storage.ErrNotFound:
			writeError(w, http.StatusNotFound, "loan not found")
		case storage.ErrAlreadyReturned:
			writeError(w, http.StatusBadRequest, "loan already returned")
		default:
			log.Printf("[loan.return] ReturnLoan error: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to return loan")
		}
		return
	}

	log.Printf("[loan] Returned book ID: %d for loan ID: %d", loan.BookID, loan.ID)
	writeJSON(w, http.StatusOK, loan)
}

// Delete 删除借阅（硬删除，与归还不同：借阅历史丢失）
// DELETE /loan/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	if err := h.store.DeleteLoan(r.Context(), id); err != nil {
		if err == storage.ErrNotFound {
			writeError(w, http.StatusNotFound, "loan not found")
			return
		}
		log.Printf("[loan.delete] DeleteLoan error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete loan")
		return
	}

	log.Printf("[loan] Deleted loan: %d", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "loan deleted"})
}

// List 列出借阅，?status=active|inactive|all|late，默认 active
// GET /loans
// 返回值内嵌关联的图书和客户记录；孤儿借阅的内嵌字段为 null。
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := model.StatusFilter(r.URL.Query().Get("status"))
	if status == "" {
		status = model.StatusActive
	}

	loans, err := h.store.ListLoans(r.Context(), status)
	if err != nil {
		if err == storage.ErrInvalidStatus {
			writeError(w, http.StatusBadRequest, "invalid status filter: "+string(status))
			return
		}
		log.Printf("[loan.list] ListLoans error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list loans")
		return
	}
	if loans == nil {
		loans = []*model.LoanDetail{}
	}
	writeJSON(w, http.StatusOK, loans)
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
