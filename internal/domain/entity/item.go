package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un ítem del inventario.
// AvailableQuantity es el valor materializado del ledger: siempre igual a la
// cantidad inicial más la suma neta de los movimientos registrados. Solo el
// motor de stock (application/ledger) puede modificarla.
type Item struct {
	ID                string
	Name              string
	Description       string
	Price             decimal.Decimal // precio de venta, > 0
	AvailableQuantity int64           // >= 0 siempre
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
