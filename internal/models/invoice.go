package models

import "time"

// InvoiceType distinguishes order invoices from return credit memos.
type InvoiceType string

const (
	InvoiceTypeOrder  InvoiceType = "order"
	InvoiceTypeReturn InvoiceType = "return"
)

// Invoice tracks a generated PDF document. It references an order or a return,
// never both, and is written once by the background worker after the PDF file
// exists on disk.
type Invoice struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	InvoiceNumber string      `json:"invoice_number" gorm:"uniqueIndex;type:varchar(100);not null"`
	InvoiceType   InvoiceType `json:"invoice_type" gorm:"type:varchar(10);index;not null"`

	OrderID  *uint `json:"order_id" gorm:"index"`
	ReturnID *uint `json:"return_id" gorm:"index"`

	FilePath string `json:"file_path" gorm:"type:varchar(500);not null"`
	FileName string `json:"file_name" gorm:"type:varchar(255);not null"`
	FileSize int64  `json:"file_size"`

	Notes string `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
}
