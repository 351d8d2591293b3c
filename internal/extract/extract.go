// Package extract derives the item, category and association rows of one
// listing and appends them to the run's accumulators.
package extract

import (
	"strings"

	"auctionetl/internal/listing"
	"auctionetl/internal/relation"
	"auctionetl/internal/transformer"
)

// Null is written in place of an absent buy price.
const Null = "NULL"

// Listing runs Item, Categories and Belongs for l, in that order.
func Listing(l listing.Listing, set *relation.Set) {
	Item(l, set)
	Categories(l, set)
	Belongs(l, set)
}

// Item appends the item row of l:
//
//	id|bids|first_bid|currently|"name"|buy_price|started|ends|seller|"description"
//
// buy_price is NULL when the listing has none; a missing description renders
// as an empty quoted field.
func Item(l listing.Listing, set *relation.Set) {
	set.Items.Append(ItemRow(l))
}

// ItemRow renders the item row of l without accumulating it.
func ItemRow(l listing.Listing) string {
	buy := Null
	if l.BuyPrice != nil {
		buy = transformer.Dollar(*l.BuyPrice)
	}
	desc := ""
	if l.Desc != nil {
		desc = *l.Desc
	}

	return strings.Join([]string{
		l.ItemID,
		l.Bids,
		transformer.Dollar(l.FirstBid),
		transformer.Dollar(l.Currently),
		transformer.Quote(l.Name),
		buy,
		transformer.Timestamp(l.Started),
		transformer.Timestamp(l.Ends),
		l.SellerID,
		transformer.Quote(desc),
	}, relation.Sep)
}

// Categories adds one quoted row per category label of l. Labels whose
// escaped form was already seen anywhere in the run are dropped.
func Categories(l listing.Listing, set *relation.Set) {
	for _, c := range l.Categories {
		set.Categories.Add(transformer.Quote(c))
	}
}

// Belongs appends one id|"label" row per category membership of l,
// including repeated labels.
func Belongs(l listing.Listing, set *relation.Set) {
	for _, c := range l.Categories {
		set.Belongs.Append(l.ItemID + relation.Sep + transformer.Quote(c))
	}
}
