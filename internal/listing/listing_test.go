package listing

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// decode parses a JSON object the same way the envelope parser does
// (UseNumber), so numeric identifiers arrive as json.Number.
func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return obj
}

const fullListing = `{
	"ItemID": "1043374545",
	"Name": "christopher radko | fritz n_ frosty sledding",
	"Category": ["Collectibles", "Decorative & Holiday", "Collectibles"],
	"Currently": "$30.00",
	"Buy_Price": "$1,000.00",
	"First_Bid": "$30.00",
	"Number_of_Bids": "0",
	"Started": "Dec-03-01 18:10:40",
	"Ends": "Dec-13-01 18:10:40",
	"Seller": {"UserID": "rulabula", "Rating": "1392"},
	"Description": "Ornament is 5\" tall"
}`

func TestFromRecord_Full(t *testing.T) {
	t.Parallel()

	l, err := FromRecord(decode(t, fullListing))
	if err != nil {
		t.Fatalf("FromRecord() err=%v", err)
	}
	if l.ItemID != "1043374545" || l.Bids != "0" || l.SellerID != "rulabula" {
		t.Fatalf("unexpected identifiers: %+v", l)
	}
	if l.BuyPrice == nil || *l.BuyPrice != "$1,000.00" {
		t.Fatalf("BuyPrice=%v, want $1,000.00", l.BuyPrice)
	}
	if l.Desc == nil || *l.Desc != `Ornament is 5" tall` {
		t.Fatalf("Desc=%v", l.Desc)
	}
	want := []string{"Collectibles", "Decorative & Holiday", "Collectibles"}
	if !reflect.DeepEqual(l.Categories, want) {
		t.Fatalf("Categories=%v, want %v", l.Categories, want)
	}
}

func TestFromRecord_NumericIdentifiers(t *testing.T) {
	t.Parallel()

	obj := decode(t, fullListing)
	obj[KeyItemID] = json.Number("1043374545")
	obj[KeyBids] = json.Number("12")
	obj[KeySeller] = map[string]any{KeyUserID: json.Number("77")}

	l, err := FromRecord(obj)
	if err != nil {
		t.Fatalf("FromRecord() err=%v", err)
	}
	if l.ItemID != "1043374545" || l.Bids != "12" || l.SellerID != "77" {
		t.Fatalf("coercion failed: %+v", l)
	}
}

func TestFromRecord_OptionalFields(t *testing.T) {
	t.Parallel()

	obj := decode(t, fullListing)
	delete(obj, KeyBuyPrice)
	obj[KeyDescription] = nil

	l, err := FromRecord(obj)
	if err != nil {
		t.Fatalf("FromRecord() err=%v", err)
	}
	if l.BuyPrice != nil {
		t.Fatalf("BuyPrice=%q, want nil", *l.BuyPrice)
	}
	if l.Desc != nil {
		t.Fatalf("Desc=%q, want nil", *l.Desc)
	}

	delete(obj, KeyDescription)
	obj[KeyBuyPrice] = nil
	l, err = FromRecord(obj)
	if err != nil {
		t.Fatalf("FromRecord() without description err=%v", err)
	}
	if l.BuyPrice != nil || l.Desc != nil {
		t.Fatalf("optional fields not nil: %+v", l)
	}
}

func TestFromRecord_EmptyCategoryList(t *testing.T) {
	t.Parallel()

	obj := decode(t, fullListing)
	obj[KeyCategory] = []any{}

	l, err := FromRecord(obj)
	if err != nil {
		t.Fatalf("FromRecord() err=%v", err)
	}
	if len(l.Categories) != 0 {
		t.Fatalf("Categories=%v, want empty", l.Categories)
	}
}

func TestFromRecord_MissingRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(map[string]any)
		wantField string
		wantID    string
	}{
		{"item_id", func(m map[string]any) { delete(m, KeyItemID) }, KeyItemID, ""},
		{"bids", func(m map[string]any) { delete(m, KeyBids) }, KeyBids, "1043374545"},
		{"first_bid", func(m map[string]any) { delete(m, KeyFirstBid) }, KeyFirstBid, "1043374545"},
		{"currently_null", func(m map[string]any) { m[KeyCurrently] = nil }, KeyCurrently, "1043374545"},
		{"name", func(m map[string]any) { delete(m, KeyName) }, KeyName, "1043374545"},
		{"started", func(m map[string]any) { delete(m, KeyStarted) }, KeyStarted, "1043374545"},
		{"ends", func(m map[string]any) { delete(m, KeyEnds) }, KeyEnds, "1043374545"},
		{"seller", func(m map[string]any) { delete(m, KeySeller) }, "Seller.UserID", "1043374545"},
		{"seller_user_id", func(m map[string]any) { m[KeySeller] = map[string]any{} }, "Seller.UserID", "1043374545"},
		{"category", func(m map[string]any) { delete(m, KeyCategory) }, KeyCategory, "1043374545"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			obj := decode(t, fullListing)
			tt.mutate(obj)

			_, err := FromRecord(obj)
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("err=%v, want ErrMissingField", err)
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("err=%T, want *FieldError", err)
			}
			if fe.Field != tt.wantField || fe.ItemID != tt.wantID {
				t.Fatalf("FieldError=%+v, want field=%q id=%q", fe, tt.wantField, tt.wantID)
			}
		})
	}
}

func TestFromRecord_BadShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"category_not_array", func(m map[string]any) { m[KeyCategory] = "Collectibles" }},
		{"category_element_object", func(m map[string]any) { m[KeyCategory] = []any{map[string]any{}} }},
		{"seller_not_object", func(m map[string]any) { m[KeySeller] = "rulabula" }},
		{"name_object", func(m map[string]any) { m[KeyName] = map[string]any{"x": "y"} }},
		{"buy_price_array", func(m map[string]any) { m[KeyBuyPrice] = []any{"$1"} }},
		{"item_id_bool", func(m map[string]any) { m[KeyItemID] = true }},
		{"bids_bool", func(m map[string]any) { m[KeyBids] = false }},
		{"category_element_bool", func(m map[string]any) { m[KeyCategory] = []any{"Toys", true} }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			obj := decode(t, fullListing)
			tt.mutate(obj)

			_, err := FromRecord(obj)
			if !errors.Is(err, ErrBadField) {
				t.Fatalf("err=%v, want ErrBadField", err)
			}
		})
	}
}

func TestFieldError_Message(t *testing.T) {
	t.Parallel()

	err := &FieldError{ItemID: "42", Field: KeyName, Err: ErrMissingField}
	if got, want := err.Error(), "listing 42: Name: missing required field"; got != want {
		t.Fatalf("Error()=%q, want %q", got, want)
	}
	err = &FieldError{Field: KeyItemID, Err: ErrMissingField}
	if got, want := err.Error(), "listing: ItemID: missing required field"; got != want {
		t.Fatalf("Error()=%q, want %q", got, want)
	}
}

func TestFromRecord_NullListing(t *testing.T) {
	t.Parallel()

	_, err := FromRecord(nil)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("err=%v, want ErrMissingField", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.ItemID != "" {
		t.Fatalf("err=%#v, want *FieldError without item id", err)
	}
}
