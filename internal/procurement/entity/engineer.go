package entity

import "time"

// Engineer 采购工程师（参考数据，不可变）
type Engineer struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	Email      string    `json:"email" gorm:"size:200;uniqueIndex"`
	Department string    `json:"department" gorm:"size:100"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Engineer) TableName() string {
	return "proc_engineers"
}
