package models

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

type Strategy string

const (
	StrategyDCA   Strategy = "DCA"
	StrategySwing Strategy = "SWING"
	StrategyFOMO  Strategy = "FOMO"
	StrategyYOLO  Strategy = "YOLO"
)

var ErrInvalidTransaction = errors.New("invalid transaction")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Validator returns the shared validator with decimal support registered.
func Validator() *validator.Validate {
	return validate
}

type Asset struct {
	ID           string        `json:"id"           gorm:"primaryKey;type:text"`
	Symbol       string        `json:"symbol"       gorm:"uniqueIndex;not null" validate:"required,max=20"`
	ExternalID   string        `json:"cgId"`
	Name         string        `json:"name"`
	Transactions []Transaction `json:"transactions" gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (a *Asset) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Symbol = NormalizeSymbol(a.Symbol)
	return nil
}

func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

type Transaction struct {
	ID        string          `json:"id"         gorm:"primaryKey;type:text"`
	AssetID   string          `json:"asset_id"   gorm:"index;not null"`
	Seq       int64           `json:"-"          gorm:"index"`
	Type      TransactionType `json:"type"       gorm:"type:text;not null" validate:"required,oneof=BUY SELL"`
	Price     decimal.Decimal `json:"price"      gorm:"type:text;not null" validate:"gt=0"`
	Amount    decimal.Decimal `json:"amount"     gorm:"type:text;not null" validate:"gt=0"`
	Date      string          `json:"date"       gorm:"index;not null"     validate:"required,datetime=2006-01-02"`
	Strategy  Strategy        `json:"strategy"   gorm:"type:text"          validate:"omitempty,oneof=DCA SWING FOMO YOLO"`
	CreatedAt time.Time       `json:"created_at"`
}

func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Strategy == "" {
		t.Strategy = StrategyDCA
	}
	return nil
}

// Validate checks the boundary invariants: known type, positive price
// and amount, calendar date.
func (t Transaction) Validate() error {
	if err := validate.Struct(t); err != nil {
		return errors.Wrap(ErrInvalidTransaction, err.Error())
	}
	return nil
}

// Favorite is a market-screener symbol pinned by the user.
type Favorite struct {
	Symbol    string    `json:"symbol"     gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

type ImportLog struct {
	ID           int64     `json:"id"            gorm:"primaryKey"`
	AssetID      string    `json:"asset_id"      gorm:"index"`
	Source       string    `json:"source"`
	Format       string    `json:"format"`
	TotalRows    int       `json:"total_rows"`
	ImportedRows int       `json:"imported_rows"`
	FailedRows   int       `json:"failed_rows"`
	Status       string    `json:"status"`
	FailedData   string    `json:"failed_data"   gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	ImportStatusCompleted = "completed"
	ImportStatusPartial   = "partial"
	ImportStatusFailed    = "failed"
)

func (Asset) TableName() string {
	return "assets"
}

func (Transaction) TableName() string {
	return "transactions"
}

func (Favorite) TableName() string {
	return "favorites"
}

func (ImportLog) TableName() string {
	return "import_logs"
}
