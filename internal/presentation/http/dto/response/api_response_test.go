package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/pkg/apperror"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func run(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, *gin.Context, APIResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-1")
	fn(c)

	var res APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return w, c, res
}

func TestError(t *testing.T) {
	w, c, res := run(t, func(c *gin.Context) {
		Error(c, apperror.NewConflictError("Bill number already exists for this shop"))
	})
	if w.Code != http.StatusConflict || res.Success || res.Message != "Bill number already exists for this shop" {
		t.Errorf("conflict = %d %+v", w.Code, res)
	}
	if len(c.Errors) != 0 {
		t.Errorf("app errors should not be attached, got %v", c.Errors)
	}
	if res.Meta == nil || res.Meta.RequestID != "req-1" {
		t.Errorf("meta = %+v", res.Meta)
	}

	w, c, res = run(t, func(c *gin.Context) {
		Error(c, errors.New("connection reset"))
	})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("internal = %d", w.Code)
	}
	if res.Message == "connection reset" {
		t.Error("internal error text leaked to the client")
	}
	if len(c.Errors) != 1 {
		t.Errorf("internal error should be attached for logging, got %d", len(c.Errors))
	}
}

func TestBindErrorMalformed(t *testing.T) {
	w, _, res := run(t, func(c *gin.Context) {
		BindError(c, errors.New("unexpected EOF"))
	})
	if w.Code != http.StatusBadRequest || res.Message != "Invalid request body" {
		t.Errorf("BindError = %d %+v", w.Code, res)
	}
}

func TestSuccessWithPagination(t *testing.T) {
	result := pagination.NewPaginatedResult([]string{"a", "b"}, pagination.NewPagination(1, 15, 2))
	w, _, res := run(t, func(c *gin.Context) {
		SuccessWithPagination(c, "ok", result)
	})
	if w.Code != http.StatusOK || !res.Success {
		t.Fatalf("status = %d", w.Code)
	}
	data, ok := res.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T", res.Data)
	}
	if items, _ := data["items"].([]interface{}); len(items) != 2 {
		t.Errorf("items = %v", data["items"])
	}
}
