package database

import (
	"errors"

	"expensetracker/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blobs 基于 gorm 的键值存储，实现 store.Blobs 接口
type Blobs struct {
	db *gorm.DB
}

// NewBlobs 创建键值存储
// db 为 nil 时使用全局连接
func NewBlobs(db *gorm.DB) *Blobs {
	if db == nil {
		db = DB
	}
	return &Blobs{db: db}
}

// Get 按 key 读取，不存在时返回 found=false 而不是错误
func (b *Blobs) Get(key string) (value []byte, found bool, err error) {
	var blob models.Blob
	if err := b.db.Where("`key` = ?", key).First(&blob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(blob.Value), true, nil
}

// Put 整体覆盖写入（last-writer-wins）
func (b *Blobs) Put(key string, value []byte) error {
	blob := models.Blob{Key: key, Value: string(value)}
	return b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error
}
