package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"golden-palette/internal/models"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Cart aggregates add-to-cart events into one line per item name.
// A Cart is owned by a single session and is not safe for concurrent use.
type Cart struct {
	lines []models.CartLine
	index map[string]int
}

func New() *Cart {
	return &Cart{index: make(map[string]int)}
}

// AddItem merges quantity into the line for name, appending a new line on
// first add. Price, section and image of an existing line are kept.
func (c *Cart) AddItem(name string, price decimal.Decimal, section models.Category, quantity int, image string) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if i, ok := c.index[name]; ok {
		c.lines[i].Quantity += quantity
		return nil
	}

	c.index[name] = len(c.lines)
	c.lines = append(c.lines, models.CartLine{
		ItemName: name,
		Price:    price,
		Section:  section,
		Quantity: quantity,
		Image:    image,
	})
	return nil
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is recomputed from the current lines on every call
func (c *Cart) Total() decimal.Decimal {
	return Total(c.lines)
}

// ItemCount is the badge count: the sum of all line quantities
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Summary returns the cart as sent to clients
func (c *Cart) Summary() *models.CartResponse {
	return &models.CartResponse{
		Lines:     c.Lines(),
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
	}
}

// Total sums price times quantity over lines
func Total(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
