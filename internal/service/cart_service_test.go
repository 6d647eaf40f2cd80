package service

import (
	"context"
	"testing"

	"github.com/ofabiomaran/Loja/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddItem_MergesLines(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "Coxinha", "6.50", 12)

	f.add(t, id, 2)
	cart := f.add(t, id, 3)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assertDec(t, "32.5", cart.Subtotal)
	require.NotNil(t, cart.Items[0].Stock)
	assert.Equal(t, 12, *cart.Items[0].Stock)
	// 12 - 5 = 7 left after the sale
	assert.Equal(t, dto.StockLow, cart.Items[0].StockStatus)
}

func TestCartAddItem_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.product(t, "Coxinha", "6.50", 12)

	_, err := f.cart.AddItem(ctx, dto.AddCartItemRequest{ProductID: uuid.NewString(), Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.cart.AddItem(ctx, dto.AddCartItemRequest{ProductID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.cart.AddItem(ctx, dto.AddCartItemRequest{ProductID: id.String(), Quantity: 0})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartAddItem_DoesNotCheckStock(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "Esfiha", "5", 1)

	cart := f.add(t, id, 4)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, dto.StockNegative, cart.Items[0].StockStatus)
}

func TestCartLineOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "10", 50)
	b := f.product(t, "B", "20", 50)
	f.add(t, a, 1)
	f.add(t, b, 1)

	cart, err := f.cart.SetQuantity(ctx, a, 4)
	require.NoError(t, err)
	assertDec(t, "60", cart.Subtotal)

	_, err = f.cart.SetQuantity(ctx, a, 0)
	assert.ErrorIs(t, err, ErrValidation)

	cart, err = f.cart.SetLineDiscount(ctx, b, dec("150"))
	require.NoError(t, err)
	// stored as given, clamped when computed
	assertDec(t, "150", cart.Items[1].Discount)
	assertDec(t, "20", cart.TotalDiscount)
	assertDec(t, "40", cart.SubtotalAfterDiscount)

	cart, err = f.cart.RemoveItem(ctx, b)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assertDec(t, "0", cart.TotalDiscount)

	// missing lines are a no-op
	cart, err = f.cart.RemoveItem(ctx, uuid.New())
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	cart, err = f.cart.SetQuantity(ctx, uuid.New(), 3)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	cart, err = f.cart.Clear(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assertDec(t, "0", cart.Subtotal)
}

func TestCartDiscount_RedistributesOnLineChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "100", 50)
	b := f.product(t, "B", "100", 50)
	f.add(t, a, 1)

	cart, err := f.cart.ApplyDiscount(ctx, &dto.DiscountRequest{Kind: "amount", Value: dec("10")})
	require.NoError(t, err)
	require.NotNil(t, cart.Discount)
	assertDec(t, "10", cart.TotalDiscount)
	assertDec(t, "10", cart.Items[0].Discount)

	cart = f.add(t, b, 1)
	assertDec(t, "10", cart.TotalDiscount)
	assertDec(t, "5", cart.Items[0].Discount)
	assertDec(t, "5", cart.Items[1].Discount)

	cart, err = f.cart.SetLineDiscount(ctx, b, dec("50"))
	require.NoError(t, err)
	assert.Nil(t, cart.Discount)
	// 5% of A + 50% of B
	assertDec(t, "55", cart.TotalDiscount)

	cart, err = f.cart.ApplyDiscount(ctx, &dto.DiscountRequest{Kind: "percentage", Value: dec("20")})
	require.NoError(t, err)
	assertDec(t, "40", cart.TotalDiscount)

	cart, err = f.cart.ApplyDiscount(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, cart.Discount)
	assertDec(t, "0", cart.TotalDiscount)

	_, err = f.cart.ApplyDiscount(ctx, &dto.DiscountRequest{Kind: "bogus", Value: dec("1")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartDiscount_AmountCappedAtSubtotal(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", "30", 50)
	f.add(t, a, 1)

	cart, err := f.cart.ApplyDiscount(context.Background(), &dto.DiscountRequest{Kind: "amount", Value: dec("45")})
	require.NoError(t, err)
	assertDec(t, "30", cart.TotalDiscount)
	assertDec(t, "0", cart.SubtotalAfterDiscount)
}

func TestCart_PaymentPreviews(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", "100", 50)
	cart := f.add(t, a, 1)

	byMethod := map[string]dto.PaymentPreview{}
	for _, p := range cart.Payments {
		byMethod[p.Method] = p
	}
	require.Len(t, byMethod, 4)
	assertDec(t, "0", byMethod["cash"].Fee)
	assertDec(t, "3.5", byMethod["credit"].Fee)
	assertDec(t, "103.5", byMethod["credit"].Total)
	assertDec(t, "2", byMethod["debit"].Fee)
	assertDec(t, "100", byMethod["pix"].Total)
}
