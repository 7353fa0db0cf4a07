package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard aggregation stores. These are the concrete repositories' count
// and month-bucket methods, split out so the handler stays testable.
type UserStats interface {
	Count(ctx context.Context) (int64, error)
	CountByMonth(ctx context.Context) (map[int]int64, error)
}

type OrderStats interface {
	Count(ctx context.Context) (int64, error)
	TotalSales(ctx context.Context) (float64, error)
	SalesByMonth(ctx context.Context) (map[int]float64, error)
	CountByMonth(ctx context.Context) (map[int]int64, error)
}

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type AdminHandler struct {
	users      UserStats
	orders     OrderStats
	products   Counter
	categories Counter
}

func NewAdminHandler(users UserStats, orders OrderStats, products, categories Counter) *AdminHandler {
	return &AdminHandler{
		users:      users,
		orders:     orders,
		products:   products,
		categories: categories,
	}
}

var monthNames = []string{
	"JAN", "FEB", "MAR", "APRIL", "MAY", "JUNE",
	"JULY", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// GetStats returns dashboard totals and monthly sales.
// GET /api/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	totalUsers, err := h.users.Count(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	totalOrders, err := h.orders.Count(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	totalProducts, err := h.products.Count(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	totalCategories, err := h.categories.Count(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	totalSales, err := h.orders.TotalSales(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	salesByMonth, err := h.orders.SalesByMonth(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	salesData := make([]gin.H, 0, len(salesByMonth))
	for month := 1; month <= 12; month++ {
		if sales, ok := salesByMonth[month]; ok {
			salesData = append(salesData, gin.H{"_id": month, "sales": sales})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":      totalUsers,
		"totalOrders":     totalOrders,
		"totalProducts":   totalProducts,
		"totalCategories": totalCategories,
		"totalSales":      totalSales,
		"salesData":       salesData,
	})
}

// GetChartData returns a 12-month series of users, sales and orders.
// GET /api/admin/chart
func (h *AdminHandler) GetChartData(c *gin.Context) {
	ctx := c.Request.Context()

	usersByMonth, err := h.users.CountByMonth(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	salesByMonth, err := h.orders.SalesByMonth(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	ordersByMonth, err := h.orders.CountByMonth(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]gin.H, 0, 12)
	for i, name := range monthNames {
		month := i + 1
		data = append(data, gin.H{
			"month":       name,
			"totalUsers":  usersByMonth[month],
			"totalSales":  salesByMonth[month],
			"totalOrders": ordersByMonth[month],
		})
	}

	c.JSON(http.StatusOK, data)
}
