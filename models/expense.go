package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout 消费日期格式（只有日期，没有时间部分）
const DateLayout = "2006-01-02"

// Expense 消费记录
// 创建后不可修改，只能删除后重新添加
type Expense struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"` // yyyy-MM-dd
}

// Collection 某个用户的全部消费记录，按最新添加在前排序
type Collection []Expense

// Draft 待添加的消费记录，ID 由 Store 在添加时分配
type Draft struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// 消费类别常量
const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transportation"
	CategoryEntertainment = "Entertainment"
	CategoryBills         = "Bills"
	CategoryShopping      = "Shopping"
	CategoryOther         = "Other"
)

// GetCategories 获取所有消费类别
func GetCategories() []string {
	return []string{
		CategoryFood,
		CategoryTransport,
		CategoryEntertainment,
		CategoryBills,
		CategoryShopping,
		CategoryOther,
	}
}

// IsValidCategory 判断类别是否在固定类别集合内
func IsValidCategory(category string) bool {
	for _, c := range GetCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// ValidationError 消费记录校验错误
// 校验失败不产生任何副作用，集合保持原样
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate 校验待添加的消费记录
// 规则: 各字段非空、金额大于 0、类别在固定集合内、日期为 yyyy-MM-dd
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: "description", Message: "描述不能为空"}
	}
	if d.Amount <= 0 {
		return &ValidationError{Field: "amount", Message: "金额必须大于 0"}
	}
	if strings.TrimSpace(d.Category) == "" {
		return &ValidationError{Field: "category", Message: "类别不能为空"}
	}
	if !IsValidCategory(d.Category) {
		return &ValidationError{Field: "category", Message: "无效的消费类别"}
	}
	if strings.TrimSpace(d.Date) == "" {
		return &ValidationError{Field: "date", Message: "日期不能为空"}
	}
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return &ValidationError{Field: "date", Message: "日期格式错误，应为: 2006-01-02"}
	}
	return nil
}
