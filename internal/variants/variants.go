// Package variants builds the fixed, ordered set of createOrder payloads the
// probe sends. Every variant is derived from one complete base payload by a
// single structural change: a removed key, a coerced type, a renamed key or a
// replaced line item.
package variants

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var ErrUnknownVariant = errors.New("unknown variant")

const (
	NameFull                   = "full"
	NameNoDeliveryAddressID    = "no_deliveryAddressId"
	NameDeliveryAddressIDAsStr = "deliveryAddressId_string"
	NameMinimal                = "minimal"
	NameNoStatusFields         = "no_status_fields"
	NameItemIDOnly             = "itemId_only"
	NameWithPrices             = "with_prices"
)

// Payload field names.
const (
	FieldRestaurantID        = "restaurantId"
	FieldCustomerID          = "customerId"
	FieldDeliveryAddressID   = "deliveryAddressId"
	FieldOrderStatus         = "orderStatus"
	FieldDeliveryAddress     = "deliveryAddress"
	FieldContactNumber       = "contactNumber"
	FieldPaymentStatus       = "paymentStatus"
	FieldSubTotal            = "subTotal"
	FieldDeliveryFee         = "deliveryFee"
	FieldDiscountAmount      = "discountAmount"
	FieldFinalAmount         = "finalAmount"
	FieldPaymentMethod       = "paymentMethod"
	FieldOrderPlacedAt       = "orderPlacedAt"
	FieldEstimatedDelivery   = "estimatedDelivery"
	FieldOrderItems          = "orderItems"
	FieldSpecialInstructions = "specialInstructions"

	FieldMenuItemID = "menuItemId"
	FieldItemID     = "itemId"
	FieldQuantity   = "quantity"
	FieldUnitPrice  = "unitPrice"
	FieldTotalPrice = "totalPrice"
)

const (
	baseRestaurantID      = 2
	baseCustomerID        = 1
	baseDeliveryAddressID = 52
	baseMenuItemID        = 3
	baseQuantity          = 4
	baseOrderDate         = "2025-11-27" // ISO 8601 calendar date
)

var (
	subTotal       = decimal.RequireFromString("9.12")
	deliveryFee    = decimal.NewFromInt(2000)
	discountAmount = decimal.Zero
)

// Variant is one named payload.
type Variant struct {
	Name    string
	Payload map[string]any
}

// finalAmount is what the base order charges: items, plus delivery, minus discount.
func finalAmount() decimal.Decimal {
	return subTotal.Add(deliveryFee).Sub(discountAmount)
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func lineItem(idKey string, quantity int) map[string]any {
	return map[string]any{
		idKey:         baseMenuItemID,
		FieldQuantity: quantity,
	}
}

// Base returns a fresh copy of the complete order payload. Callers may mutate it freely.
func Base() map[string]any {
	return map[string]any{
		FieldRestaurantID:        baseRestaurantID,
		FieldCustomerID:          baseCustomerID,
		FieldDeliveryAddressID:   baseDeliveryAddressID,
		FieldOrderStatus:         "PLACED",
		FieldDeliveryAddress:     "Kimihurura, KK 1 Avenue, Kigali",
		FieldContactNumber:       "0784107365",
		FieldPaymentStatus:       "PENDING",
		FieldSubTotal:            money(subTotal),
		FieldDeliveryFee:         money(deliveryFee),
		FieldDiscountAmount:      money(discountAmount),
		FieldFinalAmount:         money(finalAmount()),
		FieldPaymentMethod:       "MOMO",
		FieldOrderPlacedAt:       baseOrderDate,
		FieldEstimatedDelivery:   baseOrderDate,
		FieldOrderItems:          []any{lineItem(FieldMenuItemID, baseQuantity)},
		FieldSpecialInstructions: "ok",
	}
}

// Build returns the seven probe variants in their fixed order.
func Build() []Variant {
	return []Variant{
		{Name: NameFull, Payload: Base()},
		{Name: NameNoDeliveryAddressID, Payload: lo.OmitByKeys(Base(), []string{FieldDeliveryAddressID})},
		{Name: NameDeliveryAddressIDAsStr, Payload: deliveryAddressIDAsString()},
		{Name: NameMinimal, Payload: minimal()},
		{Name: NameNoStatusFields, Payload: lo.OmitByKeys(Base(), []string{FieldOrderStatus, FieldPaymentStatus})},
		{Name: NameItemIDOnly, Payload: withItems(lineItem(FieldItemID, baseQuantity))},
		{Name: NameWithPrices, Payload: withItems(pricedLineItem())},
	}
}

// Names returns the variant names in run order.
func Names() []string {
	return lo.Map(Build(), func(v Variant, _ int) string { return v.Name })
}

// Select keeps the variants whose name is listed, preserving run order.
// An empty list selects everything.
func Select(all []Variant, names []string) ([]Variant, error) {
	if len(names) == 0 {
		return all, nil
	}

	known := lo.Map(all, func(v Variant, _ int) string { return v.Name })
	if unknown := lo.Without(lo.Uniq(names), known...); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %v (known: %v)", ErrUnknownVariant, unknown, known)
	}

	return lo.Filter(all, func(v Variant, _ int) bool {
		return lo.Contains(names, v.Name)
	}), nil
}

func deliveryAddressIDAsString() map[string]any {
	payload := Base()
	if id, ok := payload[FieldDeliveryAddressID]; ok {
		payload[FieldDeliveryAddressID] = fmt.Sprint(id)
	} else {
		payload[FieldDeliveryAddressID] = ""
	}
	return payload
}

func minimal() map[string]any {
	picked := lo.PickByKeys(Base(), []string{
		FieldRestaurantID,
		FieldCustomerID,
		FieldContactNumber,
		FieldFinalAmount,
	})
	return lo.Assign(picked, map[string]any{
		FieldOrderItems: []any{lineItem(FieldMenuItemID, 1)},
	})
}

func withItems(items ...map[string]any) map[string]any {
	return lo.Assign(Base(), map[string]any{
		FieldOrderItems: lo.ToAnySlice(items),
	})
}

func pricedLineItem() map[string]any {
	quantity := decimal.NewFromInt(baseQuantity)
	unitPrice := subTotal.Div(quantity)

	item := lineItem(FieldMenuItemID, baseQuantity)
	item[FieldUnitPrice] = money(unitPrice)
	item[FieldTotalPrice] = money(unitPrice.Mul(quantity))
	return item
}
