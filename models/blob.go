package models

import (
	"time"
)

// Blob 键值存储表，按用户身份保存整个消费记录集合的 JSON
type Blob struct {
	Key       string    `json:"key" gorm:"primaryKey;size:191"`
	Value     string    `json:"value" gorm:"type:longtext"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Blob) TableName() string {
	return "blobs"
}
