package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2020-01-01", New(2020, time.January, 1), false},
		{"2024-02-29", New(2024, time.February, 29), false},
		{"2023-02-29", Date{}, true},
		{"2020-1-1", Date{}, true},
		{"01/02/2020", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddDaysAndDaysSince(t *testing.T) {
	start := MustParse("2020-01-01")

	if got := start.AddDays(1825); got != MustParse("2024-12-30") {
		t.Errorf("AddDays(1825) = %v, want 2024-12-30", got)
	}
	if got := MustParse("2022-01-01").DaysSince(start); got != 731 {
		t.Errorf("DaysSince = %d, want 731", got)
	}
	if got := start.DaysSince(MustParse("2020-01-11")); got != -10 {
		t.Errorf("DaysSince before = %d, want -10", got)
	}
}

func TestOrdering(t *testing.T) {
	a, b := MustParse("2021-06-01"), MustParse("2021-06-02")
	if !a.Before(b) || a.After(b) {
		t.Errorf("expected %v before %v", a, b)
	}
	if a.Before(a) || a.After(a) {
		t.Errorf("a date is neither before nor after itself")
	}
}

func TestJSON(t *testing.T) {
	type payload struct {
		On  Date  `json:"on"`
		Opt *Date `json:"opt"`
	}

	in := payload{On: MustParse("2023-03-04")}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"on":"2023-03-04","opt":null}` {
		t.Errorf("unexpected json %s", data)
	}

	var out payload
	if err := json.Unmarshal([]byte(`{"on":"2023-03-04","opt":"2023-04-05"}`), &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out.On != in.On || out.Opt == nil || *out.Opt != MustParse("2023-04-05") {
		t.Errorf("unexpected decode %+v", out)
	}

	if err := json.Unmarshal([]byte(`{"on":"yesterday"}`), &out); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestNullScan(t *testing.T) {
	var n Null
	if err := n.Scan(nil); err != nil || n.Valid || n.Ptr() != nil {
		t.Fatalf("NULL scan = %+v, %v", n, err)
	}
	if err := n.Scan("2019-12-31"); err != nil || !n.Valid {
		t.Fatalf("text scan = %+v, %v", n, err)
	}
	if *n.Ptr() != MustParse("2019-12-31") {
		t.Errorf("Ptr() = %v", n.Ptr())
	}
	if err := n.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}
