package web

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"laptop-price/models"
)

// noneValue marks a ram or ips list as present even when nothing is
// selected, so an all-unchecked form matches no laptops.
const noneValue = "none"

// parseFilter reads min_price, max_price, ram and ips from the query
// string. ram and ips may repeat or hold comma-separated lists. An absent
// list places no constraint; a present one, even if only "none", is a set.
func parseFilter(c *gin.Context) (models.CatalogFilter, error) {
	var f models.CatalogFilter

	for _, p := range []struct {
		key string
		dst **float64
	}{{"min_price", &f.MinPrice}, {"max_price", &f.MaxPrice}} {
		raw := strings.TrimSpace(c.Query(p.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, fmt.Errorf("%s: %q is not a number", p.key, raw)
		}
		*p.dst = &v
	}

	if raw, ok := c.GetQueryArray("ram"); ok {
		f.RAM = []float64{}
		for _, v := range splitValues(raw) {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return f, fmt.Errorf("ram: %q is not a number", v)
			}
			f.RAM = append(f.RAM, n)
		}
	}

	if raw, ok := c.GetQueryArray("ips"); ok {
		f.IPS = []int{}
		for _, v := range splitValues(raw) {
			n, err := strconv.Atoi(v)
			if err != nil || (n != 0 && n != 1) {
				return f, fmt.Errorf("ips: %q must be 0 or 1", v)
			}
			f.IPS = append(f.IPS, n)
		}
	}

	return f, nil
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" && p != noneValue {
				out = append(out, p)
			}
		}
	}
	return out
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsFloat(list []float64, v float64) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func yesNo(v int) string {
	if v == 1 {
		return "Yes"
	}
	return "No"
}
