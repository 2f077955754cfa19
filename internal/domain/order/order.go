package order

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/chamalog/chamalog/internal/domain/ids"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID         int64           `json:"id" db:"id"`
	Code       string          `json:"codigo" db:"code"`
	Sender     string          `json:"remetente" db:"sender"`
	Recipient  string          `json:"destinatario" db:"recipient"`
	Address    string          `json:"endereco_completo" db:"address"`
	Weight     decimal.Decimal `json:"peso" db:"weight"`
	Dimensions string          `json:"dimensoes" db:"dimensions"`
	Value      decimal.Decimal `json:"valor" db:"declared_value"`
	OriginID   int64           `json:"origem" db:"origin_store_id"`
	Status     Status          `json:"status" db:"status"`
	OwnerID    int64           `json:"usuario_id" db:"owner_id"`
	CourierID  *int64          `json:"motoboy_id" db:"courier_id"`
	CreatedAt  time.Time       `json:"data_criacao" db:"created_at"`
}

// LabelView is an order joined with its origin store, as printed on labels.
type LabelView struct {
	Order
	StoreName    string `db:"store_name"`
	StoreAddress string `db:"store_address"`
}

var (
	ErrNotFound      = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid status")
	ErrDuplicateCode = errors.New("order code already exists")
	ErrUnknownStore  = errors.New("origin store does not exist")
	ErrUnknownUser   = errors.New("courier does not exist")
	ErrInvalidAmount = errors.New("weight and declared value must be positive")
	ErrInvalidCode   = errors.New("tracking code not recognised")
)

type CreateRequest struct {
	Code       string          `json:"codigo" binding:"omitempty,max=40,alphanum"`
	Recipient  string          `json:"destinatario" binding:"required,min=2,max=160"`
	Address    string          `json:"endereco_completo" binding:"required,min=5,max=500"`
	Weight     decimal.Decimal `json:"peso"`
	Dimensions string          `json:"dimensoes" binding:"max=60"`
	Value      decimal.Decimal `json:"valor"`
	Origin     ids.ID          `json:"origem" binding:"required"`
	CourierID  *ids.ID         `json:"motoboy_id"`
}

func (r CreateRequest) Validate() error {
	if !r.Weight.IsPositive() || !r.Value.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

type StatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

type ScanRequest struct {
	QRData string `json:"qrData" binding:"required_without=Image"`
	Image  string `json:"imagem" binding:"required_without=QRData"`
}

type LabelRequest struct {
	OrderID ids.ID `json:"pedido_id" binding:"required"`
}

// Stats mirrors the dashboard counters.
type Stats struct {
	Total     int64 `json:"total"`
	InTransit int64 `json:"emTransito"`
	Delivered int64 `json:"entregues"`
}

type ListFilter struct {
	Status    *Status
	OwnerID   *int64
	CourierID *int64

	// zero Limit returns every matching row
	Limit int

	AfterCreatedAt *time.Time
	AfterID        int64
}

// GenerateCode builds a tracking code from the creation instant plus four
// random digits, e.g. TR17290000000001234.
func GenerateCode(now time.Time) string {
	return fmt.Sprintf("TR%d%04d", now.UnixMilli(), rand.IntN(10000))
}

// NormalizeCode upper-cases a user supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
