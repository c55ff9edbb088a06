package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopdesk-api/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, response.APIResponse) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var res response.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func TestLocationHandler(t *testing.T) {
	h := NewLocationHandler()
	router := gin.New()
	router.GET("/locations/districts", h.Districts)
	router.GET("/locations/districts/:district/towns", h.Towns)

	w, res := serve(router, http.MethodGet, "/locations/districts", "")
	if w.Code != http.StatusOK || !res.Success {
		t.Fatalf("districts = %d %s", w.Code, w.Body.String())
	}
	if districts, ok := res.Data.([]interface{}); !ok || len(districts) != 25 {
		t.Errorf("districts = %v", res.Data)
	}

	w, res = serve(router, http.MethodGet, "/locations/districts/colombo/towns", "")
	if w.Code != http.StatusOK {
		t.Fatalf("towns = %d %s", w.Code, w.Body.String())
	}
	data := res.Data.(map[string]interface{})
	if data["district"] != "Colombo" {
		t.Errorf("district = %v, want Colombo", data["district"])
	}

	w, _ = serve(router, http.MethodGet, "/locations/districts/atlantis/towns", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown district = %d, want 404", w.Code)
	}
}

// The handlers below reject input before reaching their service, so they
// are exercised with a nil service.
func TestRequestRejection(t *testing.T) {
	router := gin.New()
	tickets := NewTicketHandler(nil)
	notes := NewNoteHandler(nil, time.UTC)
	auth := NewAuthHandler(nil, nil, logger.Discard())
	router.GET("/tickets", tickets.List)
	router.GET("/tickets/:id", tickets.Get)
	router.PUT("/tickets/:id/status", tickets.UpdateStatus)
	router.GET("/notes", notes.List)
	router.POST("/auth/login", auth.Login)
	router.GET("/profile", auth.GetProfile)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
		field  string
	}{
		{"malformed ticket id", http.MethodGet, "/tickets/abc", "", http.StatusBadRequest, ""},
		{"malformed shop filter", http.MethodGet, "/tickets?shop_id=nope", "", http.StatusBadRequest, ""},
		{"malformed bill filter", http.MethodGet, "/notes?bill_id=nope", "", http.StatusBadRequest, ""},
		{"missing status", http.MethodPut, "/tickets/" + "8d3e4c1a-2b7f-4f7e-9a51-0c6d2e9b1f11" + "/status", `{}`, http.StatusUnprocessableEntity, "status"},
		{"bad login email", http.MethodPost, "/auth/login", `{"email":"nope","password":"x"}`, http.StatusUnprocessableEntity, "email"},
		{"broken json", http.MethodPost, "/auth/login", `{"email":`, http.StatusBadRequest, ""},
		{"profile without user", http.MethodGet, "/profile", "", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := serve(router, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			if tt.field != "" && !strings.Contains(w.Body.String(), `"field":"`+tt.field+`"`) {
				t.Errorf("body %s does not name field %q", w.Body.String(), tt.field)
			}
		})
	}
}

func TestDocumentFilterDatesInBusinessZone(t *testing.T) {
	colombo := time.FixedZone("Asia/Colombo", 5*3600+1800)
	router := gin.New()
	router.GET("/bills", func(c *gin.Context) {
		filter, ok := documentFilter(c, colombo)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"from": filter.From.Format("2006-01-02"),
			"to":   filter.To.Format("2006-01-02"),
		})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bills?from=2024-03-14T18:30:00Z&to=2024-03-20", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["from"] != "2024-03-15" || got["to"] != "2024-03-20" {
		t.Errorf("filter dates = %v", got)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bills?from=15-03-2024", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad from = %d, want 400", w.Code)
	}
}
