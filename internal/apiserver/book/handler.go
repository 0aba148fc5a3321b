// Package book 图书领域 - HTTP 处理
package book

import (
	"encoding/json"
	"log"
	"net/http"

	"library-admin/internal/model"
	"library-admin/internal/storage"
	"library-admin/internal/validate"
)

// Handler 图书领域 HTTP 处理器
type Handler struct {
	store storage.BookStore // 使用接口类型
}

// NewHandler 创建图书处理器
func NewHandler(store storage.BookStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册图书相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /book", h.Create)
	mux.HandleFunc("POST /book/search", h.SearchByName)
	mux.HandleFunc("POST /author/search", h.SearchByAuthor)
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("PUT /book/status", h.ToggleStatus)
	mux.HandleFunc("POST /book/status", h.ToggleStatus)
	mux.HandleFunc("DELETE /book/{name}", h.Delete)
}

// ============================================================================
// HTTP 处理函数
// ============================================================================

// Create 创建图书
// POST /book
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Fields(req,
		[]string{"name", "author", "year_published", "loan_time_type"},
		map[string][]string{
			"loan_time_type": model.LoanTypeNames(),
			"category":       model.CategoryNames(),
		}); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	book := &model.Book{
		Name:          validate.String(req, "name"),
		Author:        validate.String(req, "author"),
		YearPublished: validate.Int(req, "year_published"),
		LoanTimeType:  model.LoanType(validate.String(req, "loan_time_type")),
		Category:      model.Category(validate.String(req, "category")),
		IsActive:      true,
		IsLoaned:      false,
	}
	if err := h.store.CreateBook(r.Context(), book); err != nil {
		if err == storage.ErrDuplicate {
			writeError(w, http.StatusConflict, "book already exists")
			return
		}
		log.Printf("[book.create] CreateBook error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create book")
		return
	}

	log.Printf("[book] Created book: %s (ID: %d)", book.Name, book.ID)
	writeJSON(w, http.StatusCreated, book)
}

// SearchByName 按书名搜索（大小写不敏感的子串匹配）
// POST /book/search
func (h *Handler) SearchByName(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Fields(req, []string{"name"}, nil); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	books, err := h.store.SearchBooksByName(r.Context(), validate.String(req, "name"))
	if err != nil {
		log.Printf("[book.search] SearchBooksByName error: %v", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if len(books) == 0 {
		writeError(w, http.StatusNotFound, "no books found")
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// SearchByAuthor 按作者搜索（大小写不敏感的子串匹配）
// POST /author/search
func (h *Handler) SearchByAuthor(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Fields(req, []string{"author"}, nil); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	books, err := h.store.SearchBooksByAuthor(r.Context(), validate.String(req, "author"))
	if err != nil {
		log.Printf("[book.search] SearchBooksByAuthor error: %v", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if len(books) == 0 {
		writeError(w, http.StatusNotFound, "no books found")
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// List 列出图书，?status=active|inactive|all，默认 active
// GET /books
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := model.StatusFilter(r.URL.Query().Get("status"))
	if status == "" {
		status = model.StatusActive
	}

	books, err := h.store.ListBooks(r.Context(), status)
	if err != nil {
		if err == storage.ErrInvalidStatus {
			writeError(w, http.StatusBadRequest, "invalid status filter: "+string(status))
			return
		}
		log.Printf("[book.list] ListBooks error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list books")
		return
	}
	if books == nil {
		books = []*model.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

// ToggleStatus 按精确书名翻转上架/下架状态
// PUT /book/status, POST /book/status
func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Fields(req, []string{"name"}, nil); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := h.store.ToggleBookActive(r.Context(), validate.String(req, "name"))
	if err != nil {
		if err == storage.ErrNotFound {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		log.Printf("[book.toggle] ToggleBookActive error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle book status")
		return
	}

	log.Printf("[book] Toggled status for book: %s (Active: %t)", book.Name, book.IsActive)
	writeJSON(w, http.StatusOK, book)
}

// Delete 按精确书名删除图书（硬删除，已有借阅行保留成为孤儿）
// DELETE /book/{name}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := h.store.DeleteBook(r.Context(), name); err != nil {
		if err == storage.ErrNotFound {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		log.Printf("[book.delete] DeleteBook error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete book")
		return
	}

	log.Printf("[book] Deleted book: %s", name)
	writeJSON(w, http.StatusOK, map[string]string{"message": "book deleted"})
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
