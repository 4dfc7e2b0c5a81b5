package numformat

import (
	"testing"
	"time"
)

func TestIsDateFormatBuiltin(t *testing.T) {
	if !IsDateFormat(14, "") {
		t.Fatalf("numFmtId 14 should be a builtin date format")
	}
	if IsDateFormat(1, "") {
		t.Fatalf("numFmtId 1 is a plain number format")
	}
}

func TestIsDateFormatCustom(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"yyyy-mm-dd", true},
		{"h:mm:ss", true},
		{`"Total: "0.00`, false},
		{`"ymd literal" 0`, false},
		{"[hh]:mm:ss", true},
		{"0.00%", false},
		{"General", false},
	}
	for _, c := range cases {
		if got := scanForDateTokens(c.code); got != c.want {
			t.Errorf("scanForDateTokens(%q) = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestIsPercentageFormat(t *testing.T) {
	if !IsPercentageFormat("0.00%") {
		t.Fatalf("expected percentage format detected")
	}
	if IsPercentageFormat(`"100% sure" 0`) {
		t.Fatalf("quoted %% should not count")
	}
}

func TestCurrencySymbol(t *testing.T) {
	if sym := CurrencySymbol(`$#,##0.00`); sym != "$" {
		t.Fatalf("CurrencySymbol = %q, want $", sym)
	}
	if sym := CurrencySymbol(`0.00`); sym != "" {
		t.Fatalf("CurrencySymbol = %q, want empty", sym)
	}
}

func TestSerialToTime1900Epoch(t *testing.T) {
	// Serial 1 is 1900-01-01 under the 1900 date system.
	got, err := SerialToTime(1, false)
	if err != nil {
		t.Fatalf("SerialToTime: %v", err)
	}
	want := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("SerialToTime(1) = %v, want %v", got, want)
	}
}

func TestSerialToTimeLeapBug(t *testing.T) {
	// Serial 60 is the fictitious 1900-02-29.
	got, err := SerialToTime(60, false)
	if err != nil {
		t.Fatalf("SerialToTime: %v", err)
	}
	want := time.Date(1900, 2, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("SerialToTime(60) = %v, want %v", got, want)
	}

	// Serial 61 should land on 1900-03-01, not 1900-03-02.
	got61, err := SerialToTime(61, false)
	if err != nil {
		t.Fatalf("SerialToTime: %v", err)
	}
	want61 := time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got61.Equal(want61) {
		t.Fatalf("SerialToTime(61) = %v, want %v", got61, want61)
	}
}

func TestSerialToTime1904Epoch(t *testing.T) {
	got, err := SerialToTime(0, true)
	if err != nil {
		t.Fatalf("SerialToTime: %v", err)
	}
	want := time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("SerialToTime(0, 1904) = %v, want %v", got, want)
	}
}

func TestSerialToTimeRejectsNegative(t *testing.T) {
	if _, err := SerialToTime(-1, false); err == nil {
		t.Fatalf("expected error for negative serial")
	}
}
