package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ItemField names a single editable field of a LineItem
type ItemField string

const (
	FieldItem         ItemField = "item"
	FieldLabel        ItemField = "label"
	FieldDescription  ItemField = "description"
	FieldSupplier     ItemField = "supplier"
	FieldUsage        ItemField = "usage"
	FieldNotes        ItemField = "notes"
	FieldUnitPrice    ItemField = "unitPrice"
	FieldQuantity     ItemField = "quantity"
	FieldFreight      ItemField = "freight"
	FieldTaxPercent   ItemField = "taxPercent"
	FieldCostPerPiece ItemField = "costPerPiece"
)

var itemFieldColumns = map[ItemField]string{
	FieldItem:         "item",
	FieldLabel:        "label",
	FieldDescription:  "description",
	FieldSupplier:     "supplier",
	FieldUsage:        "usage",
	FieldNotes:        "notes",
	FieldUnitPrice:    "unit_price",
	FieldQuantity:     "quantity",
	FieldFreight:      "freight",
	FieldTaxPercent:   "tax_percent",
	FieldCostPerPiece: "cost_per_piece",
}

// IsValid checks if the ItemField is a valid enum value
func (f ItemField) IsValid() bool {
	_, ok := itemFieldColumns[f]
	return ok
}

// IsNumeric reports whether the field holds a number
func (f ItemField) IsNumeric() bool {
	switch f {
	case FieldUnitPrice, FieldQuantity, FieldFreight, FieldTaxPercent, FieldCostPerPiece:
		return true
	}
	return false
}

// Column returns the database column of the field
func (f ItemField) Column() string {
	return itemFieldColumns[f]
}

// CoerceNumber converts user input into a number. Anything unparseable becomes 0.
func CoerceNumber(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// CoerceText converts user input into a text field value
func CoerceText(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}

// NormalizeValue coerces value to the Go type stored for field
func NormalizeValue(field ItemField, value interface{}) (interface{}, error) {
	if !field.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if field.IsNumeric() {
		return CoerceNumber(value), nil
	}
	return CoerceText(value), nil
}

// SetField coerces value for field and writes it into the item
func (i *LineItem) SetField(field ItemField, value interface{}) error {
	value, err := NormalizeValue(field, value)
	if err != nil {
		return err
	}
	switch field {
	case FieldItem:
		i.Item = value.(string)
	case FieldLabel:
		i.Label = value.(string)
	case FieldDescription:
		i.Description = value.(string)
	case FieldSupplier:
		i.Supplier = value.(string)
	case FieldUsage:
		i.Usage = value.(string)
	case FieldNotes:
		i.Notes = value.(string)
	case FieldUnitPrice:
		i.UnitPrice = value.(float64)
	case FieldQuantity:
		i.Quantity = value.(float64)
	case FieldFreight:
		i.Freight = value.(float64)
	case FieldTaxPercent:
		i.TaxPercent = value.(float64)
	case FieldCostPerPiece:
		i.CostPerPiece = value.(float64)
	}
	return nil
}

// NewLineItem returns a blank item carrying the given default tax rate
func NewLineItem(defaultTaxPercent float64) LineItem {
	return LineItem{TaxPercent: defaultTaxPercent}
}
