package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newMockRouter(p profile) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewMock(p, zap.NewNop()).Register(r, gin.Accounts{"user": "pass"})
	return r
}

func post(r *gin.Engine, path, body string, auth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.SetBasicAuth("user", "pass")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMock_RequiresAuth(t *testing.T) {
	r := newMockRouter(profiles["ideal"])

	w := post(r, "/region", `{"region_id":536}`, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMock_Endpoints(t *testing.T) {
	r := newMockRouter(profiles["ideal"])

	tests := []struct {
		name string
		path string
		body string
		want string
	}{
		{
			name: "region",
			path: "/region",
			body: `{"region_id":536}`,
			want: `{"status":"ok","data":{"hotels":[{"id":"berlin_grand"},{"id":"berlin_budget"}]}}`,
		},
		{
			name: "unknown region",
			path: "/region",
			body: `{"region_id":1}`,
			want: `{"status":"ok","data":{"hotels":[]}}`,
		},
		{
			name: "hotels by id",
			path: "/hotels",
			body: `{"currency":"EUR","ids":["lisbon_alfama"]}`,
			want: `{"status":"ok","data":{"hotels":[{"id":"lisbon_alfama","name":"Alfama Guesthouse","region_id":6053839,"rates":[{"daily_prices":[75]}]}]}}`,
		},
		{
			name: "hotels without ids",
			path: "/hotels",
			body: `{"currency":"EUR"}`,
			want: `{"status":"ok","data":{}}`,
		},
		{
			name: "autocomplete",
			path: "/autocomplete",
			body: `{"query":"lisb"}`,
			want: `{"status":"ok","data":{"regions":[{"id":6053839,"name":"Lisbon"}],"hotels":[]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(r, tt.path, tt.body, true)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestMock_AlwaysFails(t *testing.T) {
	r := newMockRouter(profile{failureRate: 1})

	w := post(r, "/hotels", `{"ids":["paris_palace"]}`, true)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
