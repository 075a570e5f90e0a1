package store

import (
	"time"

	"expensetracker/models"
)

// Now 可替换的时钟，测试时注入固定时间
var Now = time.Now

// Seed 生成覆盖当月和前两个月的示例数据
// ID 和金额固定，保证同一时刻多次调用结果一致
func Seed(now time.Time) models.Collection {
	// 按月初推算前两个月，避免月末日期在 AddDate 时跨月漂移
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := first.AddDate(0, -1, 0)
	prev2 := first.AddDate(0, -2, 0)

	return models.Collection{
		{
			ID:          "seed-01",
			Description: "Grocery Shopping",
			Amount:      156.75,
			Category:    models.CategoryFood,
			Date:        now.Format(models.DateLayout),
		},
		{
			ID:          "seed-02",
			Description: "Monthly Bus Pass",
			Amount:      52.00,
			Category:    models.CategoryTransport,
			Date:        first.AddDate(0, 0, 2).Format(models.DateLayout),
		},
		{
			ID:          "seed-03",
			Description: "Electric Bill",
			Amount:      85.20,
			Category:    models.CategoryBills,
			Date:        prev.AddDate(0, 0, 14).Format(models.DateLayout),
		},
		{
			ID:          "seed-04",
			Description: "Movie Night",
			Amount:      32.50,
			Category:    models.CategoryEntertainment,
			Date:        prev.AddDate(0, 0, 7).Format(models.DateLayout),
		},
		{
			ID:          "seed-05",
			Description: "New Running Shoes",
			Amount:      89.99,
			Category:    models.CategoryShopping,
			Date:        prev2.AddDate(0, 0, 20).Format(models.DateLayout),
		},
		{
			ID:          "seed-06",
			Description: "Concert Tickets",
			Amount:      150.00,
			Category:    models.CategoryEntertainment,
			Date:        prev2.AddDate(0, 0, 10).Format(models.DateLayout),
		},
	}
}
