package activity

// PartyCost is the per-head portion of a cost breakdown.
type PartyCost struct {
	Count    int     `json:"count"`
	Rate     float64 `json:"rate"`
	Subtotal float64 `json:"subtotal"`
}

// Breakdown itemises the total price of a [Suggestion].
type Breakdown struct {
	Base     float64   `json:"base"`
	Adults   PartyCost `json:"adults"`
	Children PartyCost `json:"children"`
}

// Suggestion is a priced activity for one family.
type Suggestion struct {
	Activity   *string   `json:"activity"`
	TotalPrice float64   `json:"total_price"`
	Location   *string   `json:"location"`
	Breakdown  Breakdown `json:"breakdown"`
}

// Quote prices r for family f. The total is
//
//	base + child rate × number of children + adult rate × number of adults
//
// Quote does not check age eligibility; see [Eligible].
func Quote(r Record, f Family) Suggestion {
	kids := len(f.Children)
	total := r.BasePrice + (r.ChildPrice * float64(kids)) + (r.AdultPrice * float64(f.Adults))

	return Suggestion{
		Activity:   r.Name,
		TotalPrice: total,
		Location:   r.Location,
		Breakdown: Breakdown{
			Base: r.BasePrice,
			Adults: PartyCost{
				Count:    f.Adults,
				Rate:     r.AdultPrice,
				Subtotal: r.AdultPrice * float64(f.Adults),
			},
			Children: PartyCost{
				Count:    kids,
				Rate:     r.ChildPrice,
				Subtotal: r.ChildPrice * float64(kids),
			},
		},
	}
}

// Skip records why an input row was left out of a result.
type Skip struct {
	Index  int
	Reason string
}

// UnderBudget parses each raw row, keeps the rows every child in f may attend,
// and returns the quotes whose total is at most maxPrice, in input order.
// Rows that fail to parse or are ineligible are reported in skipped.
func UnderBudget(maxPrice float64, f Family, rows []map[string]any) (suggestions []Suggestion, skipped []Skip) {
	suggestions = []Suggestion{}
	for i, raw := range rows {
		rec, err := Parse(raw)
		if err != nil {
			skipped = append(skipped, Skip{Index: i, Reason: err.Error()})
			continue
		}
		if !Eligible(rec, f) {
			skipped = append(skipped, Skip{Index: i, Reason: "child outside age range"})
			continue
		}
		q := Quote(rec, f)
		if q.TotalPrice <= maxPrice {
			suggestions = append(suggestions, q)
		}
	}
	return suggestions, skipped
}
