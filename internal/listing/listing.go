// Package listing decodes one auction listing object, as produced by the JSON
// envelope parser, into a typed value with every required field present.
package listing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Source keys of the auction data set.
const (
	KeyItemID      = "ItemID"
	KeyBids        = "Number_of_Bids"
	KeyFirstBid    = "First_Bid"
	KeyCurrently   = "Currently"
	KeyBuyPrice    = "Buy_Price"
	KeyName        = "Name"
	KeyDescription = "Description"
	KeyStarted     = "Started"
	KeyEnds        = "Ends"
	KeySeller      = "Seller"
	KeyUserID      = "UserID"
	KeyCategory    = "Category"
)

var (
	// ErrMissingField marks a listing without a required field.
	ErrMissingField = errors.New("missing required field")

	// ErrBadField marks a present field whose JSON shape cannot be used.
	ErrBadField = errors.New("unusable field value")
)

// FieldError reports which field of which listing could not be decoded.
type FieldError struct {
	ItemID string // empty when the identifier itself is the problem
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("listing: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("listing %s: %s: %v", e.ItemID, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Listing is one auction record with identifiers coerced to text.
//
// Monetary and timestamp fields are kept raw; normalization happens at row
// rendering time.
type Listing struct {
	ItemID     string
	Bids       string
	FirstBid   string
	Currently  string
	BuyPrice   *string // nil when absent or null
	Name       string
	Desc       *string // nil when absent or null
	Started    string
	Ends       string
	SellerID   string
	Categories []string
}

// FromRecord decodes obj into a Listing.
//
// Required: ItemID, Number_of_Bids, First_Bid, Currently, Name, Started, Ends,
// Seller.UserID and Category. A required key that is absent or null yields a
// *FieldError wrapping ErrMissingField, as does a nil obj (a JSON null
// listing). Buy_Price and Description are optional.
func FromRecord(obj map[string]any) (Listing, error) {
	if obj == nil {
		return Listing{}, &FieldError{Field: "null listing", Err: ErrMissingField}
	}

	var l Listing

	id, err := requiredText(obj, KeyItemID)
	if err != nil {
		return Listing{}, &FieldError{Field: KeyItemID, Err: err}
	}
	l.ItemID = id

	fail := func(field string, err error) (Listing, error) {
		return Listing{}, &FieldError{ItemID: id, Field: field, Err: err}
	}

	for _, f := range []struct {
		key string
		dst *string
	}{
		{KeyBids, &l.Bids},
		{KeyFirstBid, &l.FirstBid},
		{KeyCurrently, &l.Currently},
		{KeyName, &l.Name},
		{KeyStarted, &l.Started},
		{KeyEnds, &l.Ends},
	} {
		v, err := requiredText(obj, f.key)
		if err != nil {
			return fail(f.key, err)
		}
		*f.dst = v
	}

	if l.BuyPrice, err = optionalText(obj, KeyBuyPrice); err != nil {
		return fail(KeyBuyPrice, err)
	}
	if l.Desc, err = optionalText(obj, KeyDescription); err != nil {
		return fail(KeyDescription, err)
	}

	sellerField := KeySeller + "." + KeyUserID
	rawSeller, ok := obj[KeySeller]
	if !ok || rawSeller == nil {
		return fail(sellerField, ErrMissingField)
	}
	seller, ok := rawSeller.(map[string]any)
	if !ok {
		return fail(KeySeller, fmt.Errorf("%w: want object, got %T", ErrBadField, rawSeller))
	}
	if l.SellerID, err = requiredText(seller, KeyUserID); err != nil {
		return fail(sellerField, err)
	}

	rawCats, ok := obj[KeyCategory]
	if !ok || rawCats == nil {
		return fail(KeyCategory, ErrMissingField)
	}
	cats, ok := rawCats.([]any)
	if !ok {
		return fail(KeyCategory, fmt.Errorf("%w: want array, got %T", ErrBadField, rawCats))
	}
	l.Categories = make([]string, 0, len(cats))
	for i, c := range cats {
		s, ok := Text(c)
		if !ok {
			return fail(fmt.Sprintf("%s[%d]", KeyCategory, i), fmt.Errorf("%w: got %T", ErrBadField, c))
		}
		l.Categories = append(l.Categories, s)
	}

	return l, nil
}

// Text coerces a decoded JSON scalar to its textual form.
// Objects, arrays, booleans and null are rejected.
func Text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

func requiredText(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", ErrMissingField
	}
	s, ok := Text(v)
	if !ok {
		return "", fmt.Errorf("%w: got %T", ErrBadField, v)
	}
	return s, nil
}

func optionalText(obj map[string]any, key string) (*string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := Text(v)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrBadField, v)
	}
	return &s, nil
}
