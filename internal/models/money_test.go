package models

import (
	"encoding/json"
	"testing"
)

func TestParseMoneyRoundsToCents(t *testing.T) {
	m, err := ParseMoney(" 2.505 ")
	if err != nil {
		t.Fatalf("parse money failed: %v", err)
	}
	if m.String() != "2.51" {
		t.Fatalf("unexpected money: %s", m.String())
	}
	if _, err := ParseMoney("abc"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestMoneyTimes(t *testing.T) {
	m, _ := ParseMoney("1.25")
	if got := m.Times(3).String(); got != "3.75" {
		t.Fatalf("unexpected subtotal: %s", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	var item struct {
		Price Money `json:"price"`
	}
	if err := json.Unmarshal([]byte(`{"price":3.5}`), &item); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if item.Price.String() != "3.50" {
		t.Fatalf("unexpected price: %s", item.Price.String())
	}
	if err := json.Unmarshal([]byte(`{"price":"4.10"}`), &item); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	out, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"price":"4.10"}` {
		t.Fatalf("unexpected json: %s", out)
	}
}
