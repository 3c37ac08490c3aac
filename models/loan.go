// models/loan.go
package models

import "time"

const LoanTable = "lt_loans"
const LoanPhotoTable = "lt_loan_photos"

const (
	PhotoTypeInitial = "initial"
	PhotoTypeReturn  = "return"
)

// Loan 一条借出记录。状态不落库：active/overdue/returned
// 永远由 borrowed_at / return_by / returned_at 现算（见 loanstat 包）。
type Loan struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;index;not null" json:"userId"` // 所有查询都按 owner 过滤

	RecipientName string `gorm:"size:100;not null" json:"recipientName"`
	ItemName      string `gorm:"size:100;not null" json:"itemName"`
	Description   string `gorm:"size:500" json:"description,omitempty"`
	Quantity      int    `gorm:"not null;default:1" json:"quantity"`

	BorrowedAt time.Time  `gorm:"index;not null" json:"borrowedAt"`
	ReturnBy   time.Time  `gorm:"index;not null" json:"returnBy"` // 必须晚于 BorrowedAt（创建时校验）
	ReturnedAt *time.Time `gorm:"index" json:"returnedAt,omitempty"`

	StateStart string  `gorm:"size:200;not null" json:"stateStart"`
	StateEnd   *string `gorm:"size:200" json:"stateEnd,omitempty"` // 归还时必填

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Photos []LoanPhoto `gorm:"constraint:OnDelete:CASCADE" json:"photos,omitempty"`
}

// LoanPhoto 物品照片：initial = 借出时状态，return = 归还时状态。
// return 类型只能在 returned_at 已设置后写入（由写路径保证）。
type LoanPhoto struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	LoanID    string    `gorm:"type:uuid;index;not null" json:"loanId"`
	URL       string    `gorm:"size:255;not null" json:"url"`
	Type      string    `gorm:"size:10;not null;default:'initial'" json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Loan) TableName() string      { return LoanTable }
func (LoanPhoto) TableName() string { return LoanPhotoTable }
