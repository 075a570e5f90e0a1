package api

import (
	"expensetracker/aggregate"
	"expensetracker/middleware"
	"expensetracker/store"

	"github.com/gin-gonic/gin"
)

// SummaryHandler 统计处理器
// 统计都是对当前集合的纯函数计算，添加/删除记录后重新请求即可得到一致结果
type SummaryHandler struct {
	store *store.ExpenseStore
}

// NewSummaryHandler 创建统计处理器
func NewSummaryHandler(s *store.ExpenseStore) *SummaryHandler {
	return &SummaryHandler{store: s}
}

// ByCategory 按类别汇总
// @Summary 按类别汇总消费金额
// @Description 返回各类别的消费金额合计。没有记录的类别不出现在结果里。
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=map[string]float64} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/statistics/by-category [get]
func (h *SummaryHandler) ByCategory(c *gin.Context) {
	identity := middleware.GetCurrentUserID(c)
	collection := h.store.Load(identity)
	Success(c, aggregate.ByCategory(collection))
}

// ByMonth 按月份汇总
// @Summary 按月份汇总消费金额
// @Description 返回各自然月的消费金额合计，按时间升序排列，月份标签如 "Mar 2025"
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]aggregate.MonthlyTotal} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/statistics/by-month [get]
func (h *SummaryHandler) ByMonth(c *gin.Context) {
	identity := middleware.GetCurrentUserID(c)
	collection := h.store.Load(identity)
	Success(c, aggregate.ByMonth(collection))
}

// GetSummary 获取消费统计汇总
// @Summary 获取消费统计汇总
// @Description 返回总金额、总笔数和按类别的统计明细（金额、笔数、占比），按金额降序排列
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/statistics/summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	identity := middleware.GetCurrentUserID(c)
	collection := h.store.Load(identity)

	Success(c, gin.H{
		"total_amount":   aggregate.Total(collection),
		"total_count":    len(collection),
		"category_stats": aggregate.CategoryStats(collection),
	})
}
