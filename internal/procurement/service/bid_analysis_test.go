package service

import (
	"errors"
	"testing"

	"github.com/bitfantasy/procure/internal/procurement/entity"
)

func quote(id, itemID, supplierID string, price float64, currency string, days int, compliant bool) entity.Quote {
	return entity.Quote{
		ID:                  id,
		ItemID:              itemID,
		SupplierID:          supplierID,
		Price:               price,
		Currency:            currency,
		DeliveryDays:        days,
		TechnicalCompliance: compliant,
	}
}

func TestBestCompliantQuote(t *testing.T) {
	quotes := []entity.Quote{
		quote("q1", "item-1", "sup-a", 80, "USD", 10, false),
		quote("q2", "item-1", "sup-b", 120, "USD", 15, true),
		quote("q3", "item-1", "sup-c", 100, "USD", 20, true),
	}

	best := BestCompliantQuote(quotes)
	if best == nil {
		t.Fatal("expected a best quote")
	}
	if best.ID != "q3" {
		t.Errorf("expected cheapest compliant quote q3, got %s", best.ID)
	}
}

func TestBestCompliantQuoteStableTies(t *testing.T) {
	quotes := []entity.Quote{
		quote("q1", "item-1", "sup-a", 100, "USD", 10, true),
		quote("q2", "item-1", "sup-b", 100, "USD", 5, true),
	}

	best := BestCompliantQuote(quotes)
	if best.ID != "q1" {
		t.Errorf("tie should keep the first entered quote, got %s", best.ID)
	}
}

func TestBestCompliantQuoteNoneCompliant(t *testing.T) {
	quotes := []entity.Quote{
		quote("q1", "item-1", "sup-a", 50, "USD", 10, false),
	}
	if best := BestCompliantQuote(quotes); best != nil {
		t.Errorf("expected nil when no compliant quotes, got %s", best.ID)
	}
	if best := BestCompliantQuote(nil); best != nil {
		t.Error("expected nil for empty input")
	}
}

func TestCompliantQuotesPreservesOrder(t *testing.T) {
	quotes := []entity.Quote{
		quote("q1", "item-1", "sup-a", 100, "USD", 10, true),
		quote("q2", "item-1", "sup-b", 90, "USD", 10, false),
		quote("q3", "item-1", "sup-c", 80, "USD", 10, true),
	}

	out := CompliantQuotes(quotes)
	if len(out) != 2 {
		t.Fatalf("expected 2 compliant quotes, got %d", len(out))
	}
	if out[0].ID != "q1" || out[1].ID != "q3" {
		t.Errorf("expected [q1 q3], got [%s %s]", out[0].ID, out[1].ID)
	}
}

func TestPackageComplianceRate(t *testing.T) {
	if rate := PackageComplianceRate(nil); rate != 0 {
		t.Errorf("empty set should be 0, got %f", rate)
	}

	quotes := []entity.Quote{
		quote("q1", "item-1", "sup-a", 100, "USD", 10, true),
		quote("q2", "item-1", "sup-b", 90, "USD", 10, false),
		quote("q3", "item-2", "sup-a", 80, "USD", 10, true),
		quote("q4", "item-2", "sup-b", 70, "USD", 10, true),
	}
	if rate := PackageComplianceRate(quotes); rate != 75 {
		t.Errorf("expected 75%%, got %f", rate)
	}
}

func TestSupplierRollup(t *testing.T) {
	items := []entity.Item{
		{ID: "item-1", Quantity: 10},
		{ID: "item-2", Quantity: 2},
		{ID: "item-3", Quantity: 5},
	}
	quotesByItem := map[string][]entity.Quote{
		"item-1": {
			quote("q1", "item-1", "sup-a", 100, "USD", 10, true),
			quote("q2", "item-1", "sup-b", 90, "USD", 12, true),
		},
		"item-2": {
			quote("q3", "item-2", "sup-a", 50, "USD", 20, true),
		},
		"item-3": {
			// 非合规：计入已报价行项，但不进金额与交期
			quote("q4", "item-3", "sup-a", 999, "USD", 3, false),
		},
	}

	result, err := SupplierRollup(items, quotesByItem, "sup-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.QuotedItemCount != 3 {
		t.Errorf("expected 3 quoted items, got %d", result.QuotedItemCount)
	}
	if result.CompliantItemCount != 2 {
		t.Errorf("expected 2 compliant items, got %d", result.CompliantItemCount)
	}
	// 100*10 + 50*2 = 1100
	if result.TotalValue != 1100 {
		t.Errorf("expected total 1100, got %f", result.TotalValue)
	}
	if result.Currency != "USD" {
		t.Errorf("expected USD, got %s", result.Currency)
	}
	// (10+20)/2 = 15
	if result.AvgDeliveryDays != 15 {
		t.Errorf("expected avg delivery 15, got %f", result.AvgDeliveryDays)
	}
	// 2/3 = 66.67
	if result.ComplianceRatePercent != 66.67 {
		t.Errorf("expected 66.67%%, got %f", result.ComplianceRatePercent)
	}
}

func TestSupplierRollupMixedCurrency(t *testing.T) {
	items := []entity.Item{
		{ID: "item-1", Quantity: 1},
		{ID: "item-2", Quantity: 1},
	}
	quotesByItem := map[string][]entity.Quote{
		"item-1": {quote("q1", "item-1", "sup-a", 100, "USD", 10, true)},
		"item-2": {quote("q2", "item-2", "sup-a", 90, "EUR", 10, true)},
	}

	_, err := SupplierRollup(items, quotesByItem, "sup-a")
	var mce *MixedCurrencyError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MixedCurrencyError, got %v", err)
	}
	if len(mce.Currencies) != 2 || mce.Currencies[0] != "EUR" || mce.Currencies[1] != "USD" {
		t.Errorf("expected sorted [EUR USD], got %v", mce.Currencies)
	}
}

func TestSupplierRollupNoQuotes(t *testing.T) {
	items := []entity.Item{{ID: "item-1", Quantity: 1}}
	result, err := SupplierRollup(items, map[string][]entity.Quote{}, "sup-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.QuotedItemCount != 0 || result.TotalValue != 0 || result.ComplianceRatePercent != 0 {
		t.Errorf("expected zero-valued rollup, got %+v", result)
	}
}

func TestGroupQuotesByItem(t *testing.T) {
	quotes := []entity.Quote{
		quote("q1", "item-1", "sup-a", 100, "USD", 10, true),
		quote("q2", "item-2", "sup-a", 50, "USD", 10, true),
		quote("q3", "item-1", "sup-b", 90, "USD", 10, true),
	}

	grouped := GroupQuotesByItem(quotes)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(grouped))
	}
	if len(grouped["item-1"]) != 2 || grouped["item-1"][0].ID != "q1" {
		t.Errorf("item-1 group should preserve entry order, got %+v", grouped["item-1"])
	}
}

func TestItemStatusDerivation(t *testing.T) {
	item := &entity.Item{ID: "item-1"}

	if st := entity.ItemStatus(item, nil); st != entity.ItemStatusOpen {
		t.Errorf("no quotes should be open, got %s", st)
	}

	quotes := []entity.Quote{quote("q1", "item-1", "sup-a", 100, "USD", 10, true)}
	if st := entity.ItemStatus(item, quotes); st != entity.ItemStatusQuoted {
		t.Errorf("quoted expected, got %s", st)
	}

	quotes[0].IsPreferred = true
	if st := entity.ItemStatus(item, quotes); st != entity.ItemStatusAwarded {
		t.Errorf("awarded expected, got %s", st)
	}

	item.Delivered = true
	if st := entity.ItemStatus(item, quotes); st != entity.ItemStatusDelivered {
		t.Errorf("delivered is terminal, got %s", st)
	}
}
