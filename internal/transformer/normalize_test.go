package transformer

import "testing"

func TestDollar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "grouped_with_symbol", in: "$3,453.23", want: "3453.23"},
		{name: "empty_passthrough", in: "", want: ""},
		{name: "plain", in: "12.00", want: "12.00"},
		{name: "whitespace_and_symbol", in: " $ 1,000,000.5 ", want: "1000000.5"},
		{name: "no_digits_degrades", in: "$", want: ""},
		{name: "non_ascii_digits_kept", in: "£٣.5", want: "٣.5"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Dollar(tt.in); got != tt.want {
				t.Fatalf("Dollar(%q)=%q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMonth(t *testing.T) {
	t.Parallel()

	all := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	want := []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12"}
	for i, m := range all {
		if got := Month(m); got != want[i] {
			t.Fatalf("Month(%q)=%q, want %q", m, got, want[i])
		}
	}

	// Unknown tokens (including other casings) pass through untouched.
	for _, m := range []string{"dec", "DEC", "Foo", ""} {
		if got := Month(m); got != m {
			t.Fatalf("Month(%q)=%q, want passthrough", m, got)
		}
	}
}

func TestTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "basic", in: "Dec-15-01 12:30:00", want: "2001-12-15 12:30:00"},
		{name: "trimmed", in: "  Jan-02-99 00:00:01\n", want: "2099-01-02 00:00:01"},
		{name: "unknown_month_passthrough", in: "Foo-15-01 12:30:00", want: "2001-Foo-15 12:30:00"},
		{name: "trailing_token_ignored", in: "Mar-01-05 10:00:00 PST", want: "2005-03-01 10:00:00"},
		{name: "no_time_part", in: "Dec-15-01", want: "Dec-15-01"},
		{name: "short_date", in: "Dec-15 12:30:00", want: "Dec-15 12:30:00"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Timestamp(tt.in); got != tt.want {
				t.Fatalf("Timestamp(%q)=%q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeAndQuote(t *testing.T) {
	t.Parallel()

	if got, want := Escape(`He said "hi"`), `He said ""hi""`; got != want {
		t.Fatalf("Escape()=%q, want %q", got, want)
	}
	if got, want := Escape("no quotes"), "no quotes"; got != want {
		t.Fatalf("Escape()=%q, want %q", got, want)
	}
	if got, want := Quote(`12" ruler`), `"12"" ruler"`; got != want {
		t.Fatalf("Quote()=%q, want %q", got, want)
	}
	if got, want := Quote(""), `""`; got != want {
		t.Fatalf("Quote(empty)=%q, want %q", got, want)
	}
}
