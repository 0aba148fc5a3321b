// Package server 端到端路由测试
//
// 在 SQLite 内存数据库上启动完整路由（含认证与指标中间件），
// 通过 httptest 验证 HTTP 层行为。
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"library-admin/internal/apiserver/auth"
	"library-admin/internal/storage/repository"
	sqlitedriver "library-admin/internal/storage/driver/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sqlitedriver.Open(":memory:")
	require.NoError(t, err)
	dialect := sqlitedriver.NewDialect()
	require.NoError(t, dialect.AutoMigrate(db))
	store := repository.NewStore(db, dialect)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, auth.Config{
		JWTSecret:   "test-secret",
		TokenTTL:    time.Hour,
		DefaultRole: "customer",
	})
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

// doJSON 发送 JSON 请求并解码响应体
func doJSON(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// doJSONList 发送 JSON 请求并解码数组响应体
func doJSONList(t *testing.T, method, url, token string, body any) (int, []map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded []map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '[' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// login 注册并登录一个 clerk，返回令牌
func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	status, _ := doJSON(t, "POST", srv.URL+"/register", "", map[string]any{
		"username": "clerk1", "password": "shelves123", "role": "clerk",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, "POST", srv.URL+"/login", "", map[string]any{
		"username": "clerk1", "password": "shelves123",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// ============================================================================
// 运维端点
// ============================================================================

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, "GET", srv.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "library_loans_active")
}

// ============================================================================
// 认证流程
// ============================================================================

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	// 未认证访问受保护端点
	status, _ := doJSON(t, "POST", srv.URL+"/book", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, status)

	token := login(t, srv)

	// 重复注册同一用户名
	status, body := doJSON(t, "POST", srv.URL+"/register", "", map[string]any{
		"username": "clerk1", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["error"], "already registered")

	// 错误密码与未知用户返回同一错误
	status, body = doJSON(t, "POST", srv.URL+"/login", "", map[string]any{
		"username": "clerk1", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	wrongPassMsg := body["error"]
	status, body = doJSON(t, "POST", srv.URL+"/login", "", map[string]any{
		"username": "nobody", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, wrongPassMsg, body["error"])

	// 持令牌访问受保护端点
	status, _ = doJSON(t, "POST", srv.URL+"/book", token, map[string]any{
		"name": "1984", "author": "George Orwell",
		"year_published": 1949, "loan_time_type": "TEN_DAYS",
	})
	assert.Equal(t, http.StatusCreated, status)

	// 注销后同一令牌立即失效
	status, _ = doJSON(t, "POST", srv.URL+"/logout", token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, "POST", srv.URL+"/book", token, map[string]any{
		"name": "x", "author": "y", "year_published": 2000, "loan_time_type": "TWO_DAYS",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	// 伪造令牌
	status, _ = doJSON(t, "POST", srv.URL+"/book", "garbage.token.here", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, status)
}

// ============================================================================
// 图书端点
// ============================================================================

func TestBookEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	// 校验错误一次性报告所有缺失字段
	status, body := doJSON(t, "POST", srv.URL+"/book", token, map[string]any{"name": "1984"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "author")
	assert.Contains(t, body["error"], "year_published")

	// 非法枚举
	status, body = doJSON(t, "POST", srv.URL+"/book", token, map[string]any{
		"name": "1984", "author": "George Orwell",
		"year_published": 1949, "loan_time_type": "THREE_WEEKS",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "loan_time_type")

	status, body = doJSON(t, "POST", srv.URL+"/book", token, map[string]any{
		"name": "Moby Dick", "author": "Herman Melville",
		"year_published": 1851, "loan_time_type": "TEN_DAYS", "category": "FICTION",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["is_active"])

	// 重名
	status, _ = doJSON(t, "POST", srv.URL+"/book", token, map[string]any{
		"name": "Moby Dick", "author": "x", "year_published": 1900, "loan_time_type": "TWO_DAYS",
	})
	assert.Equal(t, http.StatusConflict, status)

	// 大小写不敏感搜索（公开端点）
	status, books := doJSONList(t, "POST", srv.URL+"/book/search", "", map[string]any{"name": "moby"})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, books, 1)
	assert.Equal(t, "Moby Dick", books[0]["name"])

	status, _ = doJSON(t, "POST", srv.URL+"/book/search", "", map[string]any{"name": "zzz"})
	assert.Equal(t, http.StatusNotFound, status)

	status, books = doJSONList(t, "POST", srv.URL+"/author/search", "", map[string]any{"author": "MELVILLE"})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, books, 1)

	// 列表与状态过滤
	status, books = doJSONList(t, "GET", srv.URL+"/books", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, books, 1)

	status, _ = doJSON(t, "GET", srv.URL+"/books?status=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// 翻转后默认列表（active）不再包含
	status, body = doJSON(t, "PUT", srv.URL+"/book/status", token, map[string]any{"name": "Moby Dick"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["is_active"])

	status, books = doJSONList(t, "GET", srv.URL+"/books", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, books)

	// 删除
	status, _ = doJSON(t, "DELETE", srv.URL+"/book/Moby Dick", token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, "DELETE", srv.URL+"/book/Moby Dick", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

// ============================================================================
// 客户端点
// ============================================================================

func TestCustomerEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	// 创建客户是公开端点
	status, body := doJSON(t, "POST", srv.URL+"/customer", "", map[string]any{
		"full_name": "Noa Levi", "email": "noa@example.com",
		"city": "TEL_AVIV", "age": 29,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "customer", body["role"])

	// 邮箱格式校验
	status, body = doJSON(t, "POST", srv.URL+"/customer", "", map[string]any{
		"full_name": "X", "email": "not-an-email", "city": "HAIFA", "age": 20,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "email")

	// 重复邮箱
	status, _ = doJSON(t, "POST", srv.URL+"/customer", "", map[string]any{
		"full_name": "Other", "email": "noa@example.com", "city": "EILAT", "age": 50,
	})
	assert.Equal(t, http.StatusConflict, status)

	// 搜索：email 或 full_name
	status, customers := doJSONList(t, "POST", srv.URL+"/customer/search", "", map[string]any{"email": "noa@"})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, customers, 1)

	status, customers = doJSONList(t, "POST", srv.URL+"/customer/search", "", map[string]any{"full_name": "levi"})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, customers, 1)

	status, _ = doJSON(t, "POST", srv.URL+"/customer/search", "", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)

	// 状态翻转受保护
	status, _ = doJSON(t, "PUT", srv.URL+"/customer/status", "", map[string]any{"email": "noa@example.com"})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, body = doJSON(t, "PUT", srv.URL+"/customer/status", token, map[string]any{"email": "noa@example.com"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["is_active"])

	// 删除（公开端点）
	status, _ = doJSON(t, "DELETE", srv.URL+"/customer/noa@example.com", "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, "DELETE", srv.URL+"/customer/noa@example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

// ============================================================================
// 借阅场景
// ============================================================================

func TestLoanScenario(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	status, book := doJSON(t, "POST", srv.URL+"/book", token, map[string]any{
		"name": "1984", "author": "George Orwell",
		"year_published": 1949, "loan_time_type": "TEN_DAYS",
	})
	require.Equal(t, http.StatusCreated, status)
	status, customer := doJSON(t, "POST", srv.URL+"/customer", "", map[string]any{
		"full_name": "Noa Levi", "email": "a@b.com", "city": "TEL_AVIV", "age": 29,
	})
	require.Equal(t, http.StatusCreated, status)

	// 创建借阅，应还时间 = 现在 + 10 天
	status, loan := doJSON(t, "POST", srv.URL+"/loan", token, map[string]any{
		"customer_id": customer["id"], "book_id": book["id"], "loan_time_type": "TEN_DAYS",
	})
	require.Equal(t, http.StatusCreated, status)
	due, err := time.Parse(time.RFC3339, loan["return_date"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*24*time.Hour), due, time.Minute)

	// 借出的书再借失败
	status, body := doJSON(t, "POST", srv.URL+"/loan", token, map[string]any{
		"customer_id": customer["id"], "book_id": book["id"], "loan_time_type": "TWO_DAYS",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "unavailable")

	// 不存在的客户
	status, _ = doJSON(t, "POST", srv.URL+"/loan", token, map[string]any{
		"customer_id": 9999, "book_id": book["id"], "loan_time_type": "TWO_DAYS",
	})
	assert.Equal(t, http.StatusNotFound, status)

	// 列表内嵌图书与客户
	status, loans := doJSONList(t, "GET", srv.URL+"/loans", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, loans, 1)
	require.NotNil(t, loans[0]["book"])
	require.NotNil(t, loans[0]["customer"])

	// 归还
	loanID := fmt.Sprintf("%.0f", loan["id"].(float64))
	status, returned := doJSON(t, "POST", srv.URL+"/return/"+loanID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, returned["is_active"])

	// 重复归还
	status, _ = doJSON(t, "POST", srv.URL+"/return/"+loanID, token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// 归还后可再次借出
	status, _ = doJSON(t, "POST", srv.URL+"/loan", token, map[string]any{
		"customer_id": customer["id"], "book_id": book["id"], "loan_time_type": "FIVE_DAYS",
	})
	assert.Equal(t, http.StatusCreated, status)

	// 审计日志端点受保护且有内容
	status, _ = doJSON(t, "GET", srv.URL+"/audit", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, entries := doJSONList(t, "GET", srv.URL+"/audit", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, entries)
}
