package aggregate

import (
	"sort"
	"time"

	"expensetracker/models"
)

// MonthLabel 月份展示格式，如 "Mar 2025"
const MonthLabel = "Jan 2006"

// MonthlyTotal 单个月份的消费合计
type MonthlyTotal struct {
	Date   string  `json:"date"` // 展示用月份标签
	Amount float64 `json:"amount"`
}

// CategoryStat 单个类别的统计信息
type CategoryStat struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ByCategory 按类别汇总金额
// 集合中不存在的类别不出现在结果里（不补零）
func ByCategory(collection models.Collection) map[string]float64 {
	totals := make(map[string]float64)
	for _, expense := range collection {
		totals[expense.Category] += expense.Amount
	}
	return totals
}

// ByMonth 按自然月汇总金额，结果按时间升序排列
// 排序依据是月份本身而不是标签文本，避免 "Apr" 排在 "Jan" 前面
func ByMonth(collection models.Collection) []MonthlyTotal {
	type bucket struct {
		month  time.Time
		amount float64
	}
	buckets := make(map[string]*bucket)

	for _, expense := range collection {
		date, err := time.Parse(models.DateLayout, expense.Date)
		if err != nil {
			// 日期在创建时已校验，这里只是防御历史脏数据
			continue
		}
		month := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
		key := month.Format("2006-01")
		if b, ok := buckets[key]; ok {
			b.amount += expense.Amount
		} else {
			buckets[key] = &bucket{month: month, amount: expense.Amount}
		}
	}

	result := make([]MonthlyTotal, 0, len(buckets))
	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	// 显式按月份排序，不依赖累加顺序
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].month.Before(ordered[j].month)
	})
	for _, b := range ordered {
		result = append(result, MonthlyTotal{
			Date:   b.month.Format(MonthLabel),
			Amount: b.amount,
		})
	}
	return result
}

// Total 全部消费合计
func Total(collection models.Collection) float64 {
	var total float64
	for _, expense := range collection {
		total += expense.Amount
	}
	return total
}

// CategoryStats 按类别统计金额、笔数和占比，按金额降序排列
func CategoryStats(collection models.Collection) []CategoryStat {
	totals := ByCategory(collection)
	counts := make(map[string]int)
	for _, expense := range collection {
		counts[expense.Category]++
	}

	grand := Total(collection)
	stats := make([]CategoryStat, 0, len(totals))
	for category, total := range totals {
		stat := CategoryStat{
			Category: category,
			Total:    total,
			Count:    counts[category],
		}
		if grand > 0 {
			stat.Percentage = total / grand * 100
		}
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Total != stats[j].Total {
			return stats[i].Total > stats[j].Total
		}
		return stats[i].Category < stats[j].Category
	})
	return stats
}
