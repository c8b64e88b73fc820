package paymentmethod

import "time"

type Form string

const (
	FormCash       Form = "cash"
	FormCreditCard Form = "credit_card"
	FormDebitCard  Form = "debit_card"
	FormPix        Form = "pix"
	FormGiftCard   Form = "gift_card"
	FormOther      Form = "other"
)

func ParseForm(value string) (Form, bool) {
	switch Form(value) {
	case FormCash, FormCreditCard, FormDebitCard, FormPix, FormGiftCard, FormOther:
		return Form(value), true
	}
	return "", false
}

type PaymentMethod struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	UserID    string     `gorm:"type:uuid;index;not null"`
	Name      string     `gorm:"not null"`
	Form      Form       `gorm:"type:varchar(16);not null"`
	DueDate   *time.Time `gorm:"type:date"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

type CreateInput struct {
	UserID  string
	Name    string
	Form    string
	DueDate *time.Time
}

type UpdateInput struct {
	UserID  string
	ID      string
	Name    string
	Form    string
	DueDate *time.Time
}
