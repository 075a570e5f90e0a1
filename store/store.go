package store

import (
	"encoding/json"
	"log"

	"expensetracker/models"

	"github.com/google/uuid"
)

// Blobs 键值存储能力接口
// 生产环境由 database.Blobs 实现，测试使用内存实现
type Blobs interface {
	Get(key string) (value []byte, found bool, err error)
	Put(key string, value []byte) error
}

// Key 根据身份派生持久化 key
func Key(identity string) string {
	return "expenses-" + identity
}

// ExpenseStore 消费记录存储
// 每个用户的全部记录序列化为一个 JSON blob 整体读写
type ExpenseStore struct {
	blobs Blobs
}

// New 创建消费记录存储
func New(blobs Blobs) *ExpenseStore {
	return &ExpenseStore{blobs: blobs}
}

// Load 加载指定身份的消费记录集合
// 首次使用（无持久化数据）或数据损坏时返回内置示例数据，永远不会失败
func (s *ExpenseStore) Load(identity string) models.Collection {
	value, found, err := s.blobs.Get(Key(identity))
	if err != nil {
		log.Printf("警告: 读取消费记录失败 (identity=%s): %v，使用示例数据", identity, err)
		return Seed(Now())
	}
	if !found {
		return Seed(Now())
	}

	var collection models.Collection
	if err := json.Unmarshal(value, &collection); err != nil {
		log.Printf("警告: 消费记录数据损坏 (identity=%s): %v，使用示例数据", identity, err)
		return Seed(Now())
	}
	return collection
}

// Add 校验并添加一条消费记录，返回新集合和分配了 ID 的记录
// 校验失败返回 ValidationError，原集合不受影响
func (s *ExpenseStore) Add(collection models.Collection, draft models.Draft) (models.Collection, models.Expense, error) {
	if err := draft.Validate(); err != nil {
		return collection, models.Expense{}, err
	}

	expense := models.Expense{
		ID:          uuid.NewString(),
		Description: draft.Description,
		Amount:      draft.Amount,
		Category:    draft.Category,
		Date:        draft.Date,
	}

	// 最新添加的记录排在最前
	next := make(models.Collection, 0, len(collection)+1)
	next = append(next, expense)
	next = append(next, collection...)
	return next, expense, nil
}

// Remove 按 ID 删除记录，ID 不存在时原样返回（不视为错误）
func (s *ExpenseStore) Remove(collection models.Collection, id string) models.Collection {
	next := make(models.Collection, 0, len(collection))
	for _, expense := range collection {
		if expense.ID != id {
			next = append(next, expense)
		}
	}
	return next
}

// Persist 将整个集合写入键值存储（整体覆盖，last-writer-wins）
// 每次 Add/Remove 之后由调用方显式调用
func (s *ExpenseStore) Persist(identity string, collection models.Collection) error {
	value, err := json.Marshal(collection)
	if err != nil {
		return err
	}
	return s.blobs.Put(Key(identity), value)
}
