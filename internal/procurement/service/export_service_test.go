package service

import (
	"errors"
	"testing"
)

func cbeRow(id string, price float64, currency string, qty float64) CBERow {
	return CBERow{ItemID: id, Name: id, Quantity: qty, BestPrice: &price, Currency: currency}
}

func TestCBETotalSingleCurrency(t *testing.T) {
	rows := []CBERow{
		cbeRow("item-1", 100, "USD", 10),
		cbeRow("item-2", 50, "USD", 2),
	}
	total, currency, err := cbeTotal(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1100 || currency != "USD" {
		t.Errorf("got total=%v currency=%q, want 1100 USD", total, currency)
	}
}

func TestCBETotalMixedCurrency(t *testing.T) {
	rows := []CBERow{
		cbeRow("item-1", 100, "USD", 1),
		cbeRow("item-2", 100, "EUR", 1),
	}
	_, _, err := cbeTotal(rows)
	var mcErr *MixedCurrencyError
	if !errors.As(err, &mcErr) {
		t.Fatalf("expected MixedCurrencyError, got %v", err)
	}
	if len(mcErr.Currencies) != 2 || mcErr.Currencies[0] != "EUR" || mcErr.Currencies[1] != "USD" {
		t.Errorf("expected sorted [EUR USD], got %v", mcErr.Currencies)
	}
}

func TestCBETotalSkipsItemsWithoutCompliantQuote(t *testing.T) {
	rows := []CBERow{
		cbeRow("item-1", 100, "USD", 10),
		{ItemID: "item-2", Name: "item-2", Quantity: 5}, // no compliant quote, BestPrice nil
	}
	total, currency, err := cbeTotal(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1000 || currency != "USD" {
		t.Errorf("got total=%v currency=%q, want 1000 USD", total, currency)
	}
}

func TestCBETotalEmpty(t *testing.T) {
	total, currency, err := cbeTotal(nil)
	if err != nil || total != 0 || currency != "" {
		t.Errorf("empty rows must yield zero total, got total=%v currency=%q err=%v", total, currency, err)
	}
}
