package validation

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/choices"
	"github.com/shopspring/decimal"
)

type colour string

var colours = choices.New(
	choices.Of[colour]("R", "Red"),
	choices.Of[colour]("G", "Green"),
)

func (c colour) Valid() bool   { return colours.Valid(c) }
func (c colour) Label() string { return colours.Label(c) }

type sample struct {
	Name     string           `json:"name" validate:"required,max=4"`
	Colour   colour           `json:"colour" validate:"required,choice"`
	Altitude int              `json:"altitude" validate:"gte=0,lte=70000"`
	Temp     decimal.Decimal  `json:"temp" validate:"dgte=-100,dlte=100,digits=4.1"`
	Mach     *decimal.Decimal `json:"mach,omitempty" validate:"omitempty,dgte=0,dlte=3,digits=3.2"`
}

func valid() sample {
	return sample{
		Name:     "KJFK",
		Colour:   "R",
		Altitude: 70000,
		Temp:     decimal.RequireFromString("-100"),
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	ve, ok := apperrors.AsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return ve.Fields()
}

func TestStructAcceptsBoundaries(t *testing.T) {
	s := valid()
	m := decimal.RequireFromString("3")
	s.Mach = &m
	if err := Struct(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructRejectsOutOfRange(t *testing.T) {
	s := valid()
	s.Altitude = 75000
	fields := fieldsOf(t, Struct(s))
	if got := fields["altitude"]; got != "Ensure this value is less than or equal to 70000." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestStructRejectsDecimalBounds(t *testing.T) {
	s := valid()
	s.Temp = decimal.RequireFromString("-100.1")
	fields := fieldsOf(t, Struct(s))
	if got := fields["temp"]; got != "Ensure this value is greater than or equal to -100." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestStructRejectsDecimalPlaces(t *testing.T) {
	s := valid()
	m := decimal.RequireFromString("0.855")
	s.Mach = &m
	fields := fieldsOf(t, Struct(s))
	if got := fields["mach"]; got != "Ensure that there are no more than 2 decimal places." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestStructIgnoresTrailingZeros(t *testing.T) {
	s := valid()
	s.Temp = decimal.RequireFromString("12.500")
	if err := Struct(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructRejectsUnknownChoice(t *testing.T) {
	s := valid()
	s.Colour = "r"
	fields := fieldsOf(t, Struct(s))
	if got := fields["colour"]; got != `Value "r" is not a valid choice.` {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestStructReportsEveryField(t *testing.T) {
	s := sample{Name: "TOOLONG", Altitude: -1}
	fields := fieldsOf(t, Struct(s))
	for _, f := range []string{"name", "colour", "altitude"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("expected error on %s, got %v", f, fields)
		}
	}
	if fields["colour"] != "This field is required." {
		t.Errorf("unexpected colour message %q", fields["colour"])
	}
}

func TestVar(t *testing.T) {
	if err := Var("password", "short", "min=8"); err == nil {
		t.Fatal("expected error for short password")
	} else if fieldsOf(t, err)["password"] != "Ensure this value has at least 8 characters." {
		t.Fatalf("unexpected message %v", err)
	}
	if err := Var("email", "pilot@example.com", "required,email"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDigitsProblem(t *testing.T) {
	cases := []struct {
		in     string
		digits int
		places int
		ok     bool
	}{
		{"500000", 7, 1, true},
		{"500000.1", 7, 1, true},
		{"5000000", 7, 1, false},
		{"0.85", 3, 2, true},
		{"-38.5", 4, 1, true},
		{"1000000", 9, 2, true},
		{"10000000", 9, 2, false},
		{"12.500", 4, 1, true},
		{"0.001", 3, 2, false},
		{"5e5", 7, 1, true},
		{"1e1000000", 7, 1, false},
		{"1e-1000000", 7, 1, false},
		{"0e-1000000", 7, 1, true},
	}
	for _, c := range cases {
		got := digitsProblem(decimal.RequireFromString(c.in), c.digits, c.places) == ""
		if got != c.ok {
			t.Errorf("digitsProblem(%s, %d, %d) ok=%v, want %v", c.in, c.digits, c.places, got, c.ok)
		}
	}
}

func TestStructRejectsHugeExponents(t *testing.T) {
	cases := []struct {
		field string
		temp  string
		mach  string
		want  string
	}{
		{"temp", "1e1000000", "", "Ensure this value is less than or equal to 100."},
		{"temp", "-1e2000000000", "", "Ensure this value is greater than or equal to -100."},
		{"mach", "-100", "1e-2000000000", "Ensure that there are no more than 2 decimal places."},
		{"mach", "-100", "-1e-2000000000", "Ensure this value is greater than or equal to 0."},
	}
	for _, c := range cases {
		t.Run(c.temp+"/"+c.mach, func(t *testing.T) {
			s := valid()
			s.Temp = decimal.RequireFromString(c.temp)
			if c.mach != "" {
				m := decimal.RequireFromString(c.mach)
				s.Mach = &m
			}
			done := make(chan error, 1)
			go func() { done <- Struct(s) }()
			select {
			case err := <-done:
				if got := fieldsOf(t, err)[c.field]; got != c.want {
					t.Errorf("%s message = %q, want %q", c.field, got, c.want)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("validation did not finish")
			}
		})
	}
}

func TestCompareOutOfScale(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1e1000000", "500000", 1},
		{"-1e1000000", "-100", -1},
		{"1e-1000000", "0", 1},
		{"1e-1000000", "0.01", -1},
		{"-1e-1000000", "-0.01", 1},
		{"0e1000000", "0", 0},
		{"2.5", "2.50", 0},
	}
	for _, c := range cases {
		got, decided := compare(decimal.RequireFromString(c.a), decimal.RequireFromString(c.b))
		if !decided || got != c.want {
			t.Errorf("compare(%s, %s) = %d, %v; want %d", c.a, c.b, got, decided, c.want)
		}
	}
}
