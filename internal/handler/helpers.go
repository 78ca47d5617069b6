package handler

import (
	"math"
	"strconv"
	"strings"

	"github.com/romaxnova/dvf-api/internal/dto"

	"github.com/gin-gonic/gin"
)

// Query parameters are lenient: anything that does not parse is treated as
// absent rather than rejected with a 400.

func queryFloat(c *gin.Context, key string) *float64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func queryInt(c *gin.Context, key string) *int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// queryBBox parses "minLng,minLat,maxLng,maxLat". Any other shape is ignored.
func queryBBox(c *gin.Context, key string) *dto.BBox {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		v[i] = f
	}
	return &dto.BBox{MinLng: v[0], MinLat: v[1], MaxLng: v[2], MaxLat: v[3]}
}

// parseFilter reads every supported filter from the query string.
func parseFilter(c *gin.Context) dto.DVFFilter {
	f := dto.DVFFilter{
		BBox:       queryBBox(c, "bbox"),
		YearMin:    queryInt(c, "year_min"),
		YearMax:    queryInt(c, "year_max"),
		PriceMin:   queryFloat(c, "price_min"),
		PriceMax:   queryFloat(c, "price_max"),
		PriceM2Min: queryFloat(c, "price_m2_min"),
		PriceM2Max: queryFloat(c, "price_m2_max"),
		Limit:      dto.DefaultLimit,
	}
	if n := queryInt(c, "limit"); n != nil && *n > 0 {
		f.Limit = *n
	}
	return f
}
