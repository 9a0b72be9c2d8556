package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"laptop-price/models"
	"laptop-price/services"
)

// Health reports that the service is up.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"laptops":   s.catalog.Len(),
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Summary())
}

func (s *Server) GetDescribe(c *gin.Context) {
	c.JSON(http.StatusOK, services.Describe(s.catalog.Records()))
}

func (s *Server) ListBrands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"brands": models.Brands})
}

// ListLaptops returns the catalog narrowed by the analysis filters.
func (s *Server) ListLaptops(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter", "details": err.Error()})
		return
	}
	laptops := s.catalog.Filter(f)
	c.JSON(http.StatusOK, gin.H{
		"total":   s.catalog.Len(),
		"count":   len(laptops),
		"laptops": laptops,
	})
}

// GetChart returns a Vega-Lite spec over the filtered catalog.
func (s *Server) GetChart(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter", "details": err.Error()})
		return
	}

	spec, err := services.BuildChart(c.Param("name"), s.catalog.Filter(f))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrUnknownChart) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "chart unavailable", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, spec)
}

// Predict estimates the price of a JSON configuration.
func (s *Server) Predict(c *gin.Context) {
	var cfg models.UserConfiguration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	res, err := s.predictor.Predict(cfg)
	if err != nil {
		status, msg := predictionErrorStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("Prediction failed: %v", err)
		}
		c.JSON(status, gin.H{"error": msg, "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func predictionErrorStatus(err error) (int, string) {
	if errors.Is(err, models.ErrUnknownBrand) {
		return http.StatusBadRequest, "invalid request"
	}
	return http.StatusInternalServerError, "prediction failed"
}
