package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"library-admin/internal/model"
	"library-admin/internal/storage"
	"library-admin/internal/validate"
)

// Store 认证依赖的存储接口
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	RevokeToken(ctx context.Context, jti string) error
}

// Handler 认证 HTTP 处理器
type Handler struct {
	store Store
	cfg   Config
}

// NewHandler 创建认证处理器
func NewHandler(store Store, cfg Config) *Handler {
	return &Handler{store: store, cfg: cfg}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)
}

// ============================================================================
// Handlers
// ============================================================================

// Register 用户注册
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Fields(req, []string{"username", "password"}, map[string][]string{
		"role": model.RoleNames(),
	}); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	role := validate.String(req, "role")
	if role == "" {
		role = h.cfg.DefaultRole
	}

	hash, err := HashPassword(validate.String(req, "password"))
	if err != nil {
		log.Printf("[auth.register] HashPassword error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := &model.User{
		Username:     validate.String(req, "username"),
		PasswordHash: hash,
		Role:         model.Role(role),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if err == storage.ErrDuplicate {
			writeError(w, http.StatusConflict, "username already registered")
			return
		}
		log.Printf("[auth.register] CreateUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	log.Printf("[auth] User registered: %s (ID: %d)", user.Username, user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// Login 用户登录
// 用户不存在和密码错误返回同一错误信息，避免泄露用户名是否已注册。
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Fields(req, []string{"username", "password"}, nil); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	username := validate.String(req, "username")
	user, err := h.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		log.Printf("[auth.login] GetUserByUsername error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || !CheckPassword(validate.String(req, "password"), user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := GenerateToken(h.cfg, user.ID, user.Username, string(user.Role))
	if err != nil {
		log.Printf("[auth.login] GenerateToken error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("[auth] User logged in: %s", user.Username)
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Logout 注销：将当前令牌的 jti 写入吊销集合
// 该令牌之后的所有请求（包括重复注销）都会被中间件拒绝。
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	authUser := GetAuthUser(r.Context())
	if authUser == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.store.RevokeToken(r.Context(), authUser.JTI); err != nil {
		log.Printf("[auth.logout] RevokeToken error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to revoke token")
		return
	}

	log.Printf("[auth] User logged out: %s", authUser.Username)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ============================================================================
// Admin Bootstrap
// ============================================================================

// EnsureAdminUser 确保管理员（clerk）用户存在（启动时调用）
// 如果配置了 adminUsername 且数据库中不存在该用户，则自动创建
func EnsureAdminUser(store Store, adminUsername, adminPassword string) error {
	if adminUsername == "" || adminPassword == "" {
		return nil
	}

	ctx := context.Background()
	existing, err := store.GetUserByUsername(ctx, adminUsername)
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if existing != nil {
		log.Printf("[auth] Admin user already exists: %s (ID: %d)", adminUsername, existing.ID)
		return nil
	}

	hash, err := HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	user := &model.User{
		Username:     adminUsername,
		PasswordHash: hash,
		Role:         model.RoleClerk,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("[auth] Created admin user: %s (ID: %d)", adminUsername, user.ID)
	return nil
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
