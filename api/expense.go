package api

import (
	"errors"
	"log"

	"expensetracker/middleware"
	"expensetracker/models"
	"expensetracker/store"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	store *store.ExpenseStore
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler(s *store.ExpenseStore) *ExpenseHandler {
	return &ExpenseHandler{store: s}
}

// List 获取消费记录列表
// @Summary 获取消费记录列表
// @Description 获取当前用户的全部消费记录，最新添加的排在最前。首次使用返回内置示例数据。
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Expense} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	identity := middleware.GetCurrentUserID(c)
	Success(c, h.store.Load(identity))
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 创建一条新的消费记录。校验失败时集合不受影响。
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Draft true "消费记录信息"
// @Success 200 {object} Response{data=models.Expense} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	identity := middleware.GetCurrentUserID(c)

	var draft models.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	collection := h.store.Load(identity)
	next, expense, err := h.store.Add(collection, draft)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			BadRequest(c, verr.Message)
			return
		}
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if err := h.store.Persist(identity, next); err != nil {
		// 持久化失败不回滚响应，下次 Load 会回到旧数据
		log.Printf("警告: 持久化消费记录失败 (identity=%s): %v", identity, err)
	}

	SuccessWithMessage(c, "创建成功", expense)
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Description 按 ID 删除消费记录。ID 不存在时集合不变，同样返回成功。
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "消费记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	identity := middleware.GetCurrentUserID(c)
	id := c.Param("id")

	collection := h.store.Load(identity)
	next := h.store.Remove(collection, id)

	if err := h.store.Persist(identity, next); err != nil {
		log.Printf("警告: 持久化消费记录失败 (identity=%s): %v", identity, err)
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// GetCategories 获取消费类别列表
// @Summary 获取消费类别列表
// @Description 获取全部可用的消费类别，类别集合是固定的
// @Tags 消费记录
// @Accept json
// @Produce json
// @Success 200 {object} Response{data=[]string} "获取成功"
// @Router /api/v1/categories [get]
func (h *ExpenseHandler) GetCategories(c *gin.Context) {
	Success(c, models.GetCategories())
}
