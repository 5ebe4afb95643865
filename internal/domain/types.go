package domain

import (
	"strings"
	"time"
)

type Booking struct {
	ID        int64         `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Person    Person        `json:"person"`
	StartDate Date          `json:"start_date"`
	EndDate   Date          `json:"end_date"`
	Comment   *string       `json:"comment"`
	Status    BookingStatus `json:"status"`
}

// Validate checks required fields, the enumerations and the date range.
func (b *Booking) Validate() error {
	if b.Person == "" || b.StartDate.IsZero() || b.EndDate.IsZero() {
		return ErrBookingFieldsRequired
	}
	if !b.Person.Valid() {
		return ErrInvalidPerson
	}
	if !b.Status.Valid() {
		return ErrInvalidStatus
	}
	if b.StartDate.After(b.EndDate) {
		return ErrInvertedRange
	}
	return nil
}

// BookingPatch carries the fields of a partial booking update. Nil fields are
// left unchanged.
type BookingPatch struct {
	Person    *Person
	StartDate *Date
	EndDate   *Date
	Comment   *string
	Status    *BookingStatus
}

func (p BookingPatch) IsEmpty() bool {
	return p.Person == nil && p.StartDate == nil && p.EndDate == nil && p.Comment == nil && p.Status == nil
}

// Apply returns a copy of b with the patch applied.
func (p BookingPatch) Apply(b Booking) Booking {
	if p.Person != nil {
		b.Person = *p.Person
	}
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		b.EndDate = *p.EndDate
	}
	if p.Comment != nil {
		b.Comment = p.Comment
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	return b
}

type InventoryItem struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Name       string    `json:"name"`
	Quantity   float64   `json:"quantity"`
	Unit       Unit      `json:"unit"`
	Category   *string   `json:"category"`
	ExpiryDate *Date     `json:"expiry_date"`
	Notes      *string   `json:"notes"`
	ToBuy      bool      `json:"to_buy"`
}

func (i *InventoryItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" || i.Unit == "" {
		return ErrItemFieldsRequired
	}
	if i.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if !i.Unit.Valid() {
		return ErrInvalidUnit
	}
	return nil
}

type InventoryPatch struct {
	Name       *string
	Quantity   *float64
	Unit       *Unit
	Category   *string
	ExpiryDate *Date
	Notes      *string
	ToBuy      *bool
}

func (p InventoryPatch) IsEmpty() bool {
	return p.Name == nil && p.Quantity == nil && p.Unit == nil && p.Category == nil &&
		p.ExpiryDate == nil && p.Notes == nil && p.ToBuy == nil
}

func (p InventoryPatch) Apply(i InventoryItem) InventoryItem {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		i.Unit = *p.Unit
	}
	if p.Category != nil {
		i.Category = p.Category
	}
	if p.ExpiryDate != nil {
		i.ExpiryDate = p.ExpiryDate
	}
	if p.Notes != nil {
		i.Notes = p.Notes
	}
	if p.ToBuy != nil {
		i.ToBuy = *p.ToBuy
	}
	return i
}

type LogEntry struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Date      Date      `json:"date"`
	Location  *string   `json:"location"`
	Weather   *string   `json:"weather"`
}

func (l *LogEntry) Validate() error {
	if strings.TrimSpace(l.Title) == "" || strings.TrimSpace(l.Content) == "" || l.Date.IsZero() {
		return ErrLogFieldsRequired
	}
	return nil
}

type LogPatch struct {
	Title    *string
	Content  *string
	Date     *Date
	Location *string
	Weather  *string
}

func (p LogPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Date == nil && p.Location == nil && p.Weather == nil
}

func (p LogPatch) Apply(l LogEntry) LogEntry {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Content != nil {
		l.Content = *p.Content
	}
	if p.Date != nil {
		l.Date = *p.Date
	}
	if p.Location != nil {
		l.Location = p.Location
	}
	if p.Weather != nil {
		l.Weather = p.Weather
	}
	return l
}
