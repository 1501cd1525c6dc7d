package wizard

import (
	"errors"
	"testing"
)

func testSteps() []Step {
	return []Step{
		{Name: "shipment", Fields: []string{"consignee", "destination"}, Required: []string{"consignee", "destination"}},
		{Name: "customs", Fields: []string{"total_value", "currency"}, Required: []string{"total_value"}},
		{Name: "review", Fields: []string{"notes"}},
	}
}

func TestAdvanceRequiresFields(t *testing.T) {
	s := New(testSteps())

	err := s.Advance()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Step != "shipment" || len(ve.Missing) != 2 {
		t.Errorf("expected both shipment fields missing, got %+v", ve)
	}
	if s.Index != 0 {
		t.Errorf("failed advance must not move, index=%d", s.Index)
	}

	s.SetField("consignee", "Acme GmbH")
	s.SetField("destination", "DE")
	if err := s.Advance(); err != nil {
		t.Fatalf("advance should succeed: %v", err)
	}
	if s.Index != 1 {
		t.Errorf("expected index 1, got %d", s.Index)
	}
}

func TestAdvanceFailsOnLastStep(t *testing.T) {
	s := New(testSteps())
	s.SetField("consignee", "Acme GmbH")
	s.SetField("destination", "DE")
	s.SetField("total_value", "1000")

	if err := s.Advance(); err != nil {
		t.Fatalf("advance 1: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("advance 2: %v", err)
	}

	// 已在最后一步：前进必须失败且索引不变
	if err := s.Advance(); err == nil {
		t.Error("advance past last step must fail")
	}
	if s.Index != 2 {
		t.Errorf("index must stay at last step, got %d", s.Index)
	}
}

func TestRetreatFloorsAtZero(t *testing.T) {
	s := New(testSteps())

	s.Retreat()
	if s.Index != 0 {
		t.Errorf("retreat at first step must stay at 0, got %d", s.Index)
	}

	s.SetField("consignee", "Acme GmbH")
	s.SetField("destination", "DE")
	if err := s.Advance(); err != nil {
		t.Fatal(err)
	}

	// 清空必填字段也能后退，后退永不校验
	s.SetField("consignee", "")
	s.Retreat()
	if s.Index != 0 {
		t.Errorf("expected index 0 after retreat, got %d", s.Index)
	}
}

func TestCompletionPercentMonotonic(t *testing.T) {
	s := New(testSteps())

	if p := s.CompletionPercent(); p != 0 {
		t.Errorf("empty wizard should be 0%%, got %d", p)
	}

	prev := 0
	fills := []struct{ field, value string }{
		{"consignee", "Acme GmbH"},
		{"destination", "DE"},
		{"total_value", "1000"},
		{"currency", "USD"},
		{"notes", "none"},
	}
	for _, f := range fills {
		s.SetField(f.field, f.value)
		p := s.CompletionPercent()
		if p < prev {
			t.Errorf("completion must not decrease when filling %s: %d -> %d", f.field, prev, p)
		}
		prev = p
	}
	if prev != 100 {
		t.Errorf("all fields filled should be 100%%, got %d", prev)
	}
}

func TestFinalizeOnlyOnLastStep(t *testing.T) {
	s := New(testSteps())
	s.SetField("consignee", "Acme GmbH")
	s.SetField("destination", "DE")
	s.SetField("total_value", "1000")

	if _, err := s.Finalize(); err == nil {
		t.Error("finalize before last step must fail")
	}

	s.Advance()
	s.Advance()

	values, err := s.Finalize()
	if err != nil {
		t.Fatalf("finalize on last step: %v", err)
	}
	if values["consignee"] != "Acme GmbH" || values["total_value"] != "1000" {
		t.Errorf("finalize should return collected values, got %v", values)
	}

	// 返回的是副本，修改不影响向导状态
	values["consignee"] = "mutated"
	if s.Values["consignee"] != "Acme GmbH" {
		t.Error("finalize must return a copy of values")
	}
}

func TestCustomValidate(t *testing.T) {
	s := New([]Step{{Name: "only", Fields: []string{"qty"}, Required: []string{"qty"}}})
	s.SetValidate(func(field, value string) bool {
		return value != "" && value != "0"
	})

	s.SetField("qty", "0")
	if _, err := s.Finalize(); err == nil {
		t.Error("custom validator should reject zero quantity")
	}

	s.SetField("qty", "5")
	if _, err := s.Finalize(); err != nil {
		t.Errorf("custom validator should accept: %v", err)
	}
}
