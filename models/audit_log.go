package models

import "time"

const (
	AuditLoanCreate = "loan.create"
	AuditLoanReturn = "loan.return"
	AuditLoanDelete = "loan.delete"
)

// AuditLog 记录借出记录生命周期操作的审计信息
type AuditLog struct {
	ID         string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID    string    `gorm:"type:uuid;index" json:"actorId"`
	ActorEmail string    `json:"actorEmail"`
	Action     string    `gorm:"size:32;not null" json:"action"`
	LoanID     string    `gorm:"type:uuid;index" json:"loanId"`
	Detail     *string   `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (AuditLog) TableName() string { return "lt_audit_log" }
