package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laptop-price/models"
	"laptop-price/services"
)

type chartView struct {
	ID    string
	Title string
	Color string
	Note  string
	Spec  services.ChartSpec
}

type keyFeature struct {
	Title string
	Desc  string
}

var keyFeatures = []keyFeature{
	{"RAM Capacity", "Determines multitasking headroom"},
	{"CPU Speed", "Drives processing performance"},
	{"Storage", "SSD vs HDD"},
	{"Display Quality", "Resolution and IPS panel"},
	{"Weight", "Weight in kg"},
	{"Touchscreen", "Interactive input support"},
}

var chartNotes = map[string]string{
	services.ChartPriceVsRAM:    "Price generally rises with RAM, though CPU and storage also weigh in.",
	services.ChartPriceVsCPU:    "Higher CPU frequency raises the price ceiling, but not linearly; 2.0 and 3.0 GHz span a wide price range.",
	services.ChartIPSMeanPrice:  "Laptops with an IPS panel sell for noticeably more on average.",
	services.ChartPriceVsWeight: "Weight shows no strong linear relation to price; light premium ultrabooks sit alongside cheap ones.",
}

// Dashboard renders the landing page with headline metrics and a data preview.
func (s *Server) Dashboard(c *gin.Context) {
	records := s.catalog.Records()
	hist, err := services.PriceHistogramChart(records)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.tmpl", gin.H{
		"Page":     "dashboard",
		"Summary":  s.catalog.Summary(),
		"Features": keyFeatures,
		"Head":     s.catalog.Head(10),
		"Describe": services.Describe(records),
		"Chart":    chartView{ID: "price-histogram", Title: "Price distribution", Spec: hist},
	})
}

// Analysis renders the filterable charts view.
func (s *Server) Analysis(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	filtered := s.catalog.Filter(f)

	charts := []struct{ name, title, color string }{
		{services.ChartPriceVsRAM, "Price vs RAM", "#ed8936"},
		{services.ChartPriceVsCPU, "Price vs CPU Frequency", "#764ba2"},
		{services.ChartIPSMeanPrice, "IPS Panel effect", "#ed64a6"},
		{services.ChartPriceVsWeight, "Weight vs Price", "#4299e1"},
		{services.ChartCorrelation, "Feature correlation", "#483D8B"},
	}
	views := make([]chartView, 0, len(charts))
	for _, ch := range charts {
		spec, err := services.BuildChart(ch.name, filtered)
		if err != nil {
			s.renderError(c, http.StatusInternalServerError, err)
			return
		}
		views = append(views, chartView{ID: ch.name, Title: ch.title, Color: ch.color, Note: chartNotes[ch.name], Spec: spec})
	}

	summary := s.catalog.Summary()
	minPrice, maxPrice := summary.MinPrice, summary.MaxPrice
	if f.MinPrice != nil {
		minPrice = *f.MinPrice
	}
	if f.MaxPrice != nil {
		maxPrice = *f.MaxPrice
	}
	ramOptions := s.catalog.DistinctRAM()
	selectedRAM := f.RAM
	if selectedRAM == nil {
		selectedRAM = ramOptions
	}
	selectedIPS := f.IPS
	if selectedIPS == nil {
		selectedIPS = []int{0, 1}
	}

	c.HTML(http.StatusOK, "analysis.tmpl", gin.H{
		"Page":        "analysis",
		"Summary":     summary,
		"Shown":       len(filtered),
		"Total":       s.catalog.Len(),
		"MinPrice":    minPrice,
		"MaxPrice":    maxPrice,
		"RAMOptions":  ramOptions,
		"SelectedRAM": selectedRAM,
		"SelectedIPS": selectedIPS,
		"Charts":      views,
	})
}

// PredictForm renders the configuration form with its defaults.
func (s *Server) PredictForm(c *gin.Context) {
	s.renderPredict(c, http.StatusOK, models.DefaultConfiguration(), nil, "")
}

// PredictSubmit handles the configuration form.
func (s *Server) PredictSubmit(c *gin.Context) {
	var cfg models.UserConfiguration
	if err := c.ShouldBind(&cfg); err != nil {
		s.renderPredict(c, http.StatusBadRequest, cfg, nil, err.Error())
		return
	}

	res, err := s.predictor.Predict(cfg)
	if err != nil {
		status, _ := predictionErrorStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("Prediction failed: %v", err)
		}
		s.renderPredict(c, status, cfg, nil, err.Error())
		return
	}
	s.renderPredict(c, http.StatusOK, cfg, res, "")
}

func (s *Server) renderPredict(c *gin.Context, status int, cfg models.UserConfiguration,
	res *models.PredictionResult, errMsg string) {

	data := gin.H{
		"Page":      "predict",
		"Summary":   s.catalog.Summary(),
		"Config":    cfg,
		"Brands":    models.Brands,
		"RAM":       models.RAMOptions,
		"SSD":       models.SSDOptions,
		"HDD":       models.HDDOptions,
		"ResWidth":  models.ResWidthOptions,
		"ResHeight": models.ResHeightOptions,
		"Error":     errMsg,
	}
	if res != nil {
		data["Result"] = res
		data["Chart"] = chartView{
			ID:    "prediction-comparison",
			Title: "Price comparison",
			Spec:  services.PredictionComparisonChart(res, s.catalog.Summary()),
		}
	}
	c.HTML(status, "predict.tmpl", data)
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.HTML(status, "error.tmpl", gin.H{
		"Page":    "",
		"Summary": s.catalog.Summary(),
		"Status":  status,
		"Error":   err.Error(),
	})
}
