package cart

import (
	"math"
	"testing"

	"restaurant-pos/internal/models"
	"restaurant-pos/internal/promo"
)

func menuItem(id string, price float64) models.MenuItem {
	return models.MenuItem{ID: id, Name: "Item " + id, Price: price, Category: "pizza", Available: true}
}

func line(id string, item models.MenuItem, quantity int, addons ...models.Addon) models.LineItem {
	return models.LineItem{
		ID:       id,
		MenuItem: item,
		Quantity: quantity,
		Size:     models.SizeMedium,
		Addons:   addons,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAddLine_AppendsInReceiptOrder(t *testing.T) {
	c := New(0.10, promo.Default())

	if err := c.AddLine(line("l1", menuItem("m1", 10), 1)); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	if err := c.AddLine(line("l2", menuItem("m2", 20), 1)); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	// Same menu item again: a separate row, never merged
	if err := c.AddLine(line("l3", menuItem("m1", 10), 2)); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}

	lines := c.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, want := range []string{"l1", "l2", "l3"} {
		if lines[i].ID != want {
			t.Fatalf("expected line %d to be %s, got %s", i, want, lines[i].ID)
		}
	}
}

func TestAddLine_RejectsInvalidLines(t *testing.T) {
	c := New(0.10, nil)

	if err := c.AddLine(line("l1", menuItem("m1", 10), 0)); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
	dup := line("l1", menuItem("m1", 10), 1,
		models.Addon{ID: "a1", Price: 2},
		models.Addon{ID: "a1", Price: 2})
	if err := c.AddLine(dup); err == nil {
		t.Fatalf("expected error for duplicate addons")
	}
	if c.Len() != 0 {
		t.Fatalf("expected cart to stay empty, got %d lines", c.Len())
	}
}

func TestSubtotal_MatchesLineTotals(t *testing.T) {
	c := New(0.10, promo.Default())

	cheese := models.Addon{ID: "a1", Name: "Extra Cheese", Price: 2}
	olives := models.Addon{ID: "a2", Name: "Olives", Price: 1.5}

	mustAdd(t, c, line("l1", menuItem("m1", 10), 2, cheese)) // (10+2)x2 = 24
	mustAdd(t, c, line("l2", menuItem("m2", 15), 1, olives)) // 16.5
	mustAdd(t, c, line("l3", menuItem("m3", 8), 3))          // 24

	totals := c.Totals()
	if !almostEqual(totals.Subtotal, 64.5) {
		t.Fatalf("expected subtotal 64.5, got %v", totals.Subtotal)
	}
	if !almostEqual(totals.Tax, 6.45) {
		t.Fatalf("expected tax 6.45, got %v", totals.Tax)
	}
	if !almostEqual(totals.Total, 70.95) {
		t.Fatalf("expected total 70.95, got %v", totals.Total)
	}

	// Recomputing without mutation yields an identical value
	again := c.Totals()
	if totals != again {
		t.Fatalf("expected idempotent totals, got %+v then %+v", totals, again)
	}
}

func TestUpdateLine_QuantityZeroRemovesLine(t *testing.T) {
	c := New(0.10, nil)
	mustAdd(t, c, line("l1", menuItem("m1", 10), 2))
	mustAdd(t, c, line("l2", menuItem("m2", 20), 1))

	zero := 0
	if err := c.UpdateLine("l1", LineUpdate{Quantity: &zero}); err != nil {
		t.Fatalf("UpdateLine returned error: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 line after collapse to removal, got %d", c.Len())
	}
	if c.Lines()[0].ID != "l2" {
		t.Fatalf("expected l2 to survive, got %s", c.Lines()[0].ID)
	}

	negative := -3
	if err := c.UpdateLine("l2", LineUpdate{Quantity: &negative}); err != nil {
		t.Fatalf("UpdateLine returned error: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cart, got %d lines", c.Len())
	}
}

func TestUpdateLine_PartialUpdate(t *testing.T) {
	c := New(0.10, nil)
	cheese := models.Addon{ID: "a1", Price: 2}
	mustAdd(t, c, line("l1", menuItem("m1", 10), 2, cheese))

	five := 5
	large := models.SizeLarge
	if err := c.UpdateLine("l1", LineUpdate{Quantity: &five, Size: &large}); err != nil {
		t.Fatalf("UpdateLine returned error: %v", err)
	}

	updated := c.Lines()[0]
	if updated.Quantity != 5 || updated.Size != models.SizeLarge {
		t.Fatalf("expected quantity 5 size Large, got %d %s", updated.Quantity, updated.Size)
	}
	if len(updated.Addons) != 1 {
		t.Fatalf("expected addons untouched, got %v", updated.Addons)
	}

	if err := c.UpdateLine("missing", LineUpdate{Quantity: &five}); err != ErrLineNotFound {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestRemoveAddonFromLine(t *testing.T) {
	c := New(0.10, nil)
	cheese := models.Addon{ID: "a1", Price: 2}
	olives := models.Addon{ID: "a2", Price: 1.5}
	mustAdd(t, c, line("l1", menuItem("m1", 10), 2, cheese, olives))

	if err := c.RemoveAddonFromLine("l1", "a1"); err != nil {
		t.Fatalf("RemoveAddonFromLine returned error: %v", err)
	}
	remaining := c.Lines()[0].Addons
	if len(remaining) != 1 || remaining[0].ID != "a2" {
		t.Fatalf("expected only a2 left, got %v", remaining)
	}

	// Removing an addon the line does not carry is a no-op
	if err := c.RemoveAddonFromLine("l1", "a9"); err != nil {
		t.Fatalf("RemoveAddonFromLine returned error: %v", err)
	}
	if got := c.Totals().Subtotal; !almostEqual(got, 23) {
		t.Fatalf("expected subtotal 23 after addon removal, got %v", got)
	}
}

func TestClear_DetachesTableAndBumpsGeneration(t *testing.T) {
	c := New(0.10, nil)
	mustAdd(t, c, line("l1", menuItem("m1", 10), 1))
	c.SetTable(models.Table{ID: "t1", Number: "Table 1", Capacity: 2, Status: models.TableAvailable})

	before := c.Generation()
	c.Clear()

	if c.Len() != 0 {
		t.Fatalf("expected empty cart after clear")
	}
	if c.Table() != nil {
		t.Fatalf("expected table detached after clear")
	}
	if c.Generation() != before+1 {
		t.Fatalf("expected generation bump, got %d -> %d", before, c.Generation())
	}

	totals := c.Totals()
	if totals.Subtotal != 0 || totals.Total != 0 {
		t.Fatalf("expected zero totals after clear, got %+v", totals)
	}
}

func TestClearIfGeneration(t *testing.T) {
	c := New(0.10, nil)
	mustAdd(t, c, line("l1", menuItem("m1", 10), 1))

	gen := c.Generation()
	if !c.ClearIfGeneration(gen) {
		t.Fatalf("expected clear to apply on current generation")
	}

	mustAdd(t, c, line("l2", menuItem("m2", 12), 1))
	if c.ClearIfGeneration(gen) {
		t.Fatalf("expected clear to be refused on a stale generation")
	}
	if c.Len() != 1 {
		t.Fatalf("expected stale clear to leave the cart untouched")
	}
}

func TestDineInWithoutTableIsValidState(t *testing.T) {
	c := New(0.10, nil)
	c.SetOrderType(models.DineIn)
	mustAdd(t, c, line("l1", menuItem("m1", 10), 1))

	// No error: the incomplete state only blocks ticket issuance
	snapshot := c.Snapshot()
	if snapshot.Table != nil {
		t.Fatalf("expected no table in snapshot")
	}
	if snapshot.OrderType != models.DineIn {
		t.Fatalf("expected dine_in order type, got %s", snapshot.OrderType)
	}
}

func TestSnapshot_IsDetachedFromCart(t *testing.T) {
	c := New(0.10, promo.Default())
	cheese := models.Addon{ID: "a1", Price: 2}
	mustAdd(t, c, line("l1", menuItem("m1", 10), 2, cheese))

	snapshot := c.Snapshot()
	snapshot.Lines[0].Quantity = 99
	snapshot.Lines[0].Addons[0].Price = 100

	if got := c.Lines()[0].Quantity; got != 2 {
		t.Fatalf("snapshot mutation leaked into cart: quantity %d", got)
	}
	if got := c.Totals().Subtotal; !almostEqual(got, 24) {
		t.Fatalf("snapshot mutation leaked into cart: subtotal %v", got)
	}
}

func TestScenario_TwoLinesWithBogoBadge(t *testing.T) {
	c := New(0.10, promo.Default())

	cheese := models.Addon{ID: "a1", Name: "Extra Cheese", Price: 2}
	mustAdd(t, c, line("l1", menuItem("m1", 10), 2, cheese)) // (10+2)x2 = 24

	if got := c.Promotions(); len(got) != 0 {
		t.Fatalf("expected no promotions with a single line, got %v", got)
	}

	mustAdd(t, c, line("l2", menuItem("m2", 15), 1)) // 15

	promotions := c.Promotions()
	if len(promotions) != 1 {
		t.Fatalf("expected one promotion annotation, got %d", len(promotions))
	}
	if promotions[0].Label != "BOGO offer applied" || promotions[0].DiscountAmount != 0 {
		t.Fatalf("unexpected annotation: %+v", promotions[0])
	}

	totals := c.Totals()
	if !almostEqual(totals.Subtotal, 39) {
		t.Fatalf("expected subtotal 39, got %v", totals.Subtotal)
	}
	if !almostEqual(totals.Tax, 3.9) {
		t.Fatalf("expected tax 3.9, got %v", totals.Tax)
	}
	if !almostEqual(totals.Total, 42.9) {
		t.Fatalf("expected total 42.9 (annotation carries no discount), got %v", totals.Total)
	}
}

func TestCustomStrategyDiscountLowersTotal(t *testing.T) {
	flat := promo.StrategyFunc(func(lines []models.LineItem) []models.PromotionAnnotation {
		if len(lines) == 0 {
			return nil
		}
		return []models.PromotionAnnotation{{Label: "5 off", DiscountAmount: 5}}
	})
	c := New(0.10, flat)
	mustAdd(t, c, line("l1", menuItem("m1", 20), 1))

	totals := c.Totals()
	if !almostEqual(totals.Discount, 5) {
		t.Fatalf("expected discount 5, got %v", totals.Discount)
	}
	if !almostEqual(totals.Total, 17) {
		t.Fatalf("expected total 20+2-5=17, got %v", totals.Total)
	}
}

func mustAdd(t *testing.T, c *Cart, li models.LineItem) {
	t.Helper()
	if err := c.AddLine(li); err != nil {
		t.Fatalf("AddLine(%s) returned error: %v", li.ID, err)
	}
}
