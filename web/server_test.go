package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"laptop-price/models"
	"laptop-price/services"
	"laptop-price/storage"
	"laptop-price/utils"
)

const testRate = 17000

func newTestServer(t *testing.T, strict bool) *Server {
	t.Helper()
	return newTestServerWithOrigins(t, strict, nil)
}

func newTestServerWithOrigins(t *testing.T, strict bool, origins []string) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := utils.NewLoggerTo(io.Discard)

	ds, err := storage.NewCSVReader("../data/laptops.csv").ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	catalog := services.NewCatalogService(ds, logger)

	scaler, err := services.LoadScaler("../data/scaler.json")
	if err != nil {
		t.Fatalf("LoadScaler: %v", err)
	}
	model, err := services.LoadModel("../data/model.json")
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	predictor, err := services.NewPredictor(scaler, model, services.PredictorOptions{
		Rate:          testRate,
		StrictBrand:   strict,
		MarketAverage: catalog.Summary().AveragePrice,
	}, logger)
	if err != nil {
		t.Fatalf("NewPredictor: %v", err)
	}
	return NewServer(catalog, predictor, logger, origins)
}

func do(t *testing.T, s *Server, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func configJSON(t *testing.T, cfg models.UserConfiguration) io.Reader {
	t.Helper()
	b, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, true)
	w := do(t, s, http.MethodGet, "/api/v1/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}

	var body struct {
		Status  string `json:"status"`
		Laptops int    `json:"laptops"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "healthy" || body.Laptops != s.catalog.Len() {
		t.Errorf("got %+v", body)
	}
}

func TestGetSummary(t *testing.T) {
	s := newTestServer(t, true)
	w := do(t, s, http.MethodGet, "/api/v1/summary", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}

	var got models.CatalogSummary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := s.catalog.Summary()
	if got.TotalLaptops != want.TotalLaptops || got.MaxPrice != want.MaxPrice {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGetDescribeAndBrands(t *testing.T) {
	s := newTestServer(t, true)

	w := do(t, s, http.MethodGet, "/api/v1/describe", nil, "")
	var stats []models.ColumnStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode describe: %v", err)
	}
	if len(stats) != len(models.NumericColumns) {
		t.Errorf("describe columns: got %d, want %d", len(stats), len(models.NumericColumns))
	}

	w = do(t, s, http.MethodGet, "/api/v1/brands", nil, "")
	var brands struct {
		Brands []string `json:"brands"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &brands); err != nil {
		t.Fatalf("decode brands: %v", err)
	}
	if len(brands.Brands) != len(models.Brands) {
		t.Errorf("brands: got %d, want %d", len(brands.Brands), len(models.Brands))
	}
}

func TestListLaptops(t *testing.T) {
	s := newTestServer(t, true)

	tests := []struct {
		name   string
		query  string
		filter models.CatalogFilter
		status int
	}{
		{"no filter", "", models.CatalogFilter{}, http.StatusOK},
		{"ram list", "?ram=8,16", models.CatalogFilter{RAM: []float64{8, 16}}, http.StatusOK},
		{"repeated ips", "?ips=1&ips=0", models.CatalogFilter{IPS: []int{1, 0}}, http.StatusOK},
		{"price range", "?min_price=500&max_price=1500", models.CatalogFilter{MinPrice: ptr(500), MaxPrice: ptr(1500)}, http.StatusOK},
		{"nothing selected", "?ram=none", models.CatalogFilter{RAM: []float64{}}, http.StatusOK},
		{"none marker with values", "?ram=none&ram=8&ips=none", models.CatalogFilter{RAM: []float64{8}, IPS: []int{}}, http.StatusOK},
		{"bad price", "?min_price=cheap", models.CatalogFilter{}, http.StatusBadRequest},
		{"bad ips", "?ips=2", models.CatalogFilter{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodGet, "/api/v1/laptops"+tt.query, nil, "")
			if w.Code != tt.status {
				t.Fatalf("status: got %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}

			var body struct {
				Total   int                    `json:"total"`
				Count   int                    `json:"count"`
				Laptops []*models.LaptopRecord `json:"laptops"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			want := len(s.catalog.Filter(tt.filter))
			if body.Count != want || len(body.Laptops) != want {
				t.Errorf("count: got %d (%d laptops), want %d", body.Count, len(body.Laptops), want)
			}
			if body.Total != s.catalog.Len() {
				t.Errorf("total: got %d, want %d", body.Total, s.catalog.Len())
			}
		})
	}
}

func TestGetChart(t *testing.T) {
	s := newTestServer(t, true)

	for _, name := range services.ChartNames() {
		w := do(t, s, http.MethodGet, "/api/v1/charts/"+name, nil, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: status %d, want 200", name, w.Code)
			continue
		}
		var spec map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &spec); err != nil {
			t.Errorf("%s: decode: %v", name, err)
			continue
		}
		if _, ok := spec["$schema"]; !ok {
			t.Errorf("%s: spec has no $schema", name)
		}
	}

	w := do(t, s, http.MethodGet, "/api/v1/charts/pie", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown chart: status %d, want 404", w.Code)
	}
}

func TestPredictJSON(t *testing.T) {
	s := newTestServer(t, true)

	w := do(t, s, http.MethodPost, "/api/v1/predict", configJSON(t, models.DefaultConfiguration()), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", w.Code, w.Body.String())
	}

	var res models.PredictionResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.ID == "" {
		t.Error("missing prediction id")
	}
	if res.Rate != testRate {
		t.Errorf("rate: got %v, want %v", res.Rate, testRate)
	}
	if math.Abs(res.Converted-res.Price*testRate) > 1e-6 {
		t.Errorf("converted: got %v, want %v", res.Converted, res.Price*testRate)
	}
	if res.Configuration.Brand != "Dell" {
		t.Errorf("configuration echo: got %+v", res.Configuration)
	}
}

func TestPredictJSONRejects(t *testing.T) {
	s := newTestServer(t, true)

	unknown := models.DefaultConfiguration()
	unknown.Brand = "Nokia"
	badRAM := models.DefaultConfiguration()
	badRAM.RAM = 3
	heavy := models.DefaultConfiguration()
	heavy.Weight = 9

	tests := []struct {
		name string
		body io.Reader
	}{
		{"unknown brand", configJSON(t, unknown)},
		{"ram not offered", configJSON(t, badRAM)},
		{"weight out of range", configJSON(t, heavy)},
		{"malformed json", strings.NewReader("{")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/v1/predict", tt.body, "application/json")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] == "" || body["details"] == "" {
				t.Errorf("error body: got %v", body)
			}
		})
	}
}

func TestPredictLenientBrand(t *testing.T) {
	s := newTestServer(t, false)

	cfg := models.DefaultConfiguration()
	cfg.Brand = "Nokia"
	w := do(t, s, http.MethodPost, "/api/v1/predict", configJSON(t, cfg), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", w.Code, w.Body.String())
	}
}

func formBody(cfg models.UserConfiguration) io.Reader {
	v := url.Values{}
	v.Set("brand", cfg.Brand)
	v.Set("cpu_frequency", "2.5")
	v.Set("ram", "8")
	v.Set("inches", "15.6")
	v.Set("ssd", "256")
	v.Set("hdd", "500")
	v.Set("res_width", "1920")
	v.Set("res_height", "1080")
	v.Set("weight", "2.0")
	v.Set("ips_panel", "1")
	v.Set("touchscreen", "0")
	return strings.NewReader(v.Encode())
}

func TestPredictForm(t *testing.T) {
	s := newTestServer(t, true)

	w := do(t, s, http.MethodPost, "/predict", formBody(models.DefaultConfiguration()), "application/x-www-form-urlencoded")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	page := w.Body.String()
	for _, want := range []string{"Estimated Price", "€", "Rp ", "prediction-comparison"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}

	cfg := models.DefaultConfiguration()
	cfg.Brand = "Nokia"
	w = do(t, s, http.MethodPost, "/predict", formBody(cfg), "application/x-www-form-urlencoded")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown brand: status %d, want 400", w.Code)
	}
	if strings.Contains(w.Body.String(), "Estimated Price") {
		t.Error("rejected configuration should not render a result")
	}
}

func TestPages(t *testing.T) {
	s := newTestServer(t, true)

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/", http.StatusOK, "Data Preview"},
		{"/analysis", http.StatusOK, "Showing"},
		{"/analysis?ram=8&ips=1&min_price=0&max_price=5000", http.StatusOK, "Showing"},
		{"/analysis?min_price=1000000", http.StatusOK, "Showing <strong>0</strong>"},
		{"/analysis?ram=none&ips=0&ips=1", http.StatusOK, "Showing <strong>0</strong>"},
		{"/analysis?ram=lots", http.StatusBadRequest, "not a number"},
		{"/predict", http.StatusOK, "Predict Price"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(t, s, http.MethodGet, tt.path, nil, "")
			if w.Code != tt.status {
				t.Fatalf("status: got %d, want %d", w.Code, tt.status)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
		})
	}
}

func TestLivePredict(t *testing.T) {
	s := newTestServer(t, true)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/predict"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	unknown := models.DefaultConfiguration()
	unknown.Brand = "Nokia"

	steps := []struct {
		name    string
		payload any
		want    string
	}{
		{"valid", models.DefaultConfiguration(), "result"},
		{"unknown brand", unknown, "error"},
		{"not a configuration", map[string]any{"brand": 7}, "error"},
		{"still open", models.DefaultConfiguration(), "result"},
	}

	for _, st := range steps {
		if err := conn.WriteJSON(st.payload); err != nil {
			t.Fatalf("%s: write: %v", st.name, err)
		}
		var msg liveMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("%s: read: %v", st.name, err)
		}
		if msg.Type != st.want {
			t.Errorf("%s: type %q, want %q (%+v)", st.name, msg.Type, st.want, msg)
		}
		if st.want == "result" && (msg.Result == nil || msg.Result.Rate != testRate) {
			t.Errorf("%s: result %+v", st.name, msg.Result)
		}
	}
}

func TestLivePredictOrigin(t *testing.T) {
	s := newTestServerWithOrigins(t, true, []string{"http://allowed.example"})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/predict"

	tests := []struct {
		name   string
		origin string
		ok     bool
	}{
		{"allowlisted", "http://allowed.example", true},
		{"no origin header", "", true},
		{"same host", srv.URL, true},
		{"foreign", "http://evil.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
			if tt.ok {
				if err != nil {
					t.Fatalf("dial: %v", err)
				}
				conn.Close()
				return
			}
			if err == nil {
				conn.Close()
				t.Fatal("expected the upgrade to be refused")
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Errorf("expected 403, got %v", resp)
			}
		})
	}
}

func TestLivePredictReadLimit(t *testing.T) {
	s := newTestServer(t, true)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/predict"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	big := `{"brand":"` + strings.Repeat("x", 2*maxLiveMessageBytes) + `"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(big)); err != nil {
		t.Fatalf("write: %v", err)
	}
	var msg liveMessage
	if err := conn.ReadJSON(&msg); err == nil {
		t.Errorf("oversized frame should close the connection, got %+v", msg)
	}
}

func TestCORSConfig(t *testing.T) {
	if cfg := corsConfig(nil); !cfg.AllowAllOrigins {
		t.Error("empty origin list should allow all origins")
	}
	if cfg := corsConfig([]string{"*"}); !cfg.AllowAllOrigins {
		t.Error("wildcard should allow all origins")
	}
	cfg := corsConfig([]string{"http://localhost:3000"})
	if cfg.AllowAllOrigins || len(cfg.AllowOrigins) != 1 {
		t.Errorf("explicit origins: got %+v", cfg)
	}
}

func ptr(f float64) *float64 { return &f }
