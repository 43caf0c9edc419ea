package marketplace

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want *float64 // nil = absence
	}{
		{"plain decimal", "0.45", ptr(0.45)},
		{"integer", "12", ptr(12.0)},
		{"whitespace", " 0.5 ", ptr(0.5)},
		{"empty", "", nil},
		{"garbage", "floor", nil},
		{"zero", "0", nil},
		{"negative", "-1.5", nil},
		{"wei tagged", "500000000000000000$bigint", ptr(0.5)},
		{"wei one ether", "1000000000000000000$bigint", ptr(1.0)},
		{"wei zero", "0$bigint", nil},
		{"wei garbage", "abc$bigint", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseAmount(tc.in)
			if tc.want == nil {
				if got != nil {
					t.Errorf("ParseAmount(%q) = %v, want nil", tc.in, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseAmount(%q) = nil, want %v", tc.in, *tc.want)
			}
			if math.Abs(*got-*tc.want) > 1e-12 {
				t.Errorf("ParseAmount(%q) = %v, want %v", tc.in, *got, *tc.want)
			}
		})
	}
}

func TestFlexAmount_UnmarshalJSON(t *testing.T) {
	var dto struct {
		Price flexAmount `json:"price"`
	}

	if err := json.Unmarshal([]byte(`{"price": 0.45}`), &dto); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if dto.Price.val == nil || *dto.Price.val != 0.45 {
		t.Errorf("number price = %v, want 0.45", dto.Price.val)
	}

	dto.Price = flexAmount{}
	if err := json.Unmarshal([]byte(`{"price": "0.45"}`), &dto); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if dto.Price.val == nil || *dto.Price.val != 0.45 {
		t.Errorf("string price = %v, want 0.45", dto.Price.val)
	}

	dto.Price = flexAmount{}
	if err := json.Unmarshal([]byte(`{"price": null}`), &dto); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if dto.Price.val != nil {
		t.Errorf("null price = %v, want nil", *dto.Price.val)
	}
}

func ptr(v float64) *float64 { return &v }
