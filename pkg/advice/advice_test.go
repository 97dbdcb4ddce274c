package advice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/config"
)

const fallback = "Success with your studies today!"

func newTestClient(url string, timeout time.Duration) *Client {
	return NewClient(&config.AdviceConfig{URL: url, Timeout: timeout, Fallback: fallback}, zap.NewNop())
}

func TestClient_Advice_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"slip": {"id": 42, "advice": "Drink more water."}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)
	if got := c.Advice(context.Background()); got != "Drink more water." {
		t.Errorf("期望服务返回的文案，实际 %q", got)
	}
}

func TestClient_Advice_Fallbacks(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"5xx": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"非 JSON": func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("<html>oops</html>"))
		},
		"空内容": func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"slip": {"id": 1, "advice": "  "}}`))
		},
		"超时": func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(300 * time.Millisecond)
			w.Write([]byte(`{"slip": {"advice": "late"}}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			c := newTestClient(srv.URL, 100*time.Millisecond)
			if got := c.Advice(context.Background()); got != fallback {
				t.Errorf("期望回退文案，实际 %q", got)
			}
		})
	}
}

func TestClient_Advice_Unreachable(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1/advice", 200*time.Millisecond)
	if got := c.Advice(context.Background()); got != fallback {
		t.Errorf("期望回退文案，实际 %q", got)
	}
}

func TestStatic(t *testing.T) {
	var p Provider = Static("hi")
	if p.Advice(context.Background()) != "hi" {
		t.Error("Static 应返回固定文案")
	}
}
