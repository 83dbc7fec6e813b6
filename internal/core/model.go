package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a stock movement in the transaction log.
type TransactionType string

const (
	TxIn     TransactionType = "IN"     // goods receipt
	TxOut    TransactionType = "OUT"    // dispatch / sale
	TxDamage TransactionType = "DAMAGE" // loss write-off
)

// Valid reports whether t is one of the three known movement types.
func (t TransactionType) Valid() bool {
	return t == TxIn || t == TxOut || t == TxDamage
}

// Warehouse is a physical storage location. Deleting a warehouse does not
// cascade to its items; they remain addressable by id.
type Warehouse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// StockItem is one row of the stock ledger: the current quantity and unit
// cost of an item in a single warehouse. Field names on the wire match the
// persisted record shape and must not change.
type StockItem struct {
	ID           string          `json:"id"`
	WarehouseID  string          `json:"warehouseId"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"` // unit cost
	MinThreshold int64           `json:"minThreshold"`
	LastUpdated  time.Time       `json:"lastUpdated"`
	Description  string          `json:"description,omitempty"`
	Source       string          `json:"source,omitempty"`
}

// LowStock reports whether the item is below its reorder threshold.
// Equal-to-threshold is not low; the comparison is strict.
func (i StockItem) LowStock() bool {
	return i.Quantity < i.MinThreshold
}

// Value returns quantity × unit cost.
func (i StockItem) Value() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// StockTransaction is one entry of the append-only transaction log. Entries
// are never updated or deleted; ItemID is a weak reference that may outlive
// the item it points to.
//
// Price semantics depend on Type: selling price for OUT, unit cost for IN
// and DAMAGE. CostPrice captures the unit cost at the time of an OUT so
// profit survives later price changes; it is nil on records created before
// cost tracking existed.
type StockTransaction struct {
	ID         string           `json:"id"`
	ItemID     string           `json:"itemId"`
	Type       TransactionType  `json:"type"`
	Quantity   int64            `json:"quantity"`
	Price      decimal.Decimal  `json:"price"`
	CostPrice  *decimal.Decimal `json:"costPrice,omitempty"`
	TaxPercent *decimal.Decimal `json:"taxPercent,omitempty"`
	Date       time.Time        `json:"date"`
	PartyName  string           `json:"partyName"` // customer for OUT, supplier for IN, reason for DAMAGE
	UserEmail  string           `json:"userEmail"`
}

// Value returns quantity × price for this movement.
func (t StockTransaction) Value() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a team chat or assistant conversation message.
type ChatMessage struct {
	ID        string    `json:"id,omitempty"`
	Sender    string    `json:"sender,omitempty"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// User is an authenticated account. The email doubles as the actor recorded
// on every stock transaction.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UnknownItemName is the display label for transactions whose item has been
// deleted from the ledger.
const UnknownItemName = "Unknown Item"
