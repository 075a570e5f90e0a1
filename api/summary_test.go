package api

import (
	"encoding/json"
	"testing"

	"expensetracker/aggregate"
	"expensetracker/models"
	"expensetracker/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSummaryRouter(s *store.ExpenseStore, userID string) *gin.Engine {
	h := NewSummaryHandler(s)
	router := gin.New()
	router.Use(setSessionMiddleware(userID))
	router.GET("/statistics/by-category", h.ByCategory)
	router.GET("/statistics/by-month", h.ByMonth)
	router.GET("/statistics/summary", h.GetSummary)
	return router
}

// seedStatsStore 预置一份固定的消费记录集合
func seedStatsStore(t *testing.T, s *store.ExpenseStore, identity string) {
	t.Helper()
	collection := models.Collection{
		{ID: "e1", Description: "groceries", Amount: 100, Category: models.CategoryFood, Date: "2025-04-10"},
		{ID: "e2", Description: "bus", Amount: 50, Category: models.CategoryTransport, Date: "2025-01-05"},
		{ID: "e3", Description: "dinner", Amount: 30, Category: models.CategoryFood, Date: "2025-01-20"},
		{ID: "e4", Description: "cinema", Amount: 20, Category: models.CategoryEntertainment, Date: "2024-12-31"},
	}
	require.NoError(t, s.Persist(identity, collection))
}

func TestSummaryHandler_ByCategory(t *testing.T) {
	s := newTestStore()
	seedStatsStore(t, s, "user-1")
	router := newSummaryRouter(s, "user-1")

	w := performRequest(router, "GET", "/statistics/by-category", "")
	assert.Equal(t, 200, w.Code)

	var resp struct {
		Data map[string]float64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]float64{
		models.CategoryFood:          130,
		models.CategoryTransport:     50,
		models.CategoryEntertainment: 20,
	}, resp.Data)
}

func TestSummaryHandler_ByMonth_Chronological(t *testing.T) {
	s := newTestStore()
	seedStatsStore(t, s, "user-1")
	router := newSummaryRouter(s, "user-1")

	w := performRequest(router, "GET", "/statistics/by-month", "")
	assert.Equal(t, 200, w.Code)

	var resp struct {
		Data []aggregate.MonthlyTotal `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	// 跨年也按时间升序
	assert.Equal(t, "Dec 2024", resp.Data[0].Date)
	assert.Equal(t, "Jan 2025", resp.Data[1].Date)
	assert.Equal(t, "Apr 2025", resp.Data[2].Date)
	assert.InDelta(t, 80, resp.Data[1].Amount, 1e-9)
}

func TestSummaryHandler_GetSummary(t *testing.T) {
	s := newTestStore()
	seedStatsStore(t, s, "user-1")
	router := newSummaryRouter(s, "user-1")

	w := performRequest(router, "GET", "/statistics/summary", "")
	assert.Equal(t, 200, w.Code)

	var resp struct {
		Data struct {
			TotalAmount   float64                  `json:"total_amount"`
			TotalCount    int                      `json:"total_count"`
			CategoryStats []aggregate.CategoryStat `json:"category_stats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 200, resp.Data.TotalAmount, 1e-9)
	assert.Equal(t, 4, resp.Data.TotalCount)
	require.NotEmpty(t, resp.Data.CategoryStats)
	// 金额降序，占比基于总额
	assert.Equal(t, models.CategoryFood, resp.Data.CategoryStats[0].Category)
	assert.InDelta(t, 65, resp.Data.CategoryStats[0].Percentage, 1e-9)
}
