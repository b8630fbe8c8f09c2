package serp

// ProfitRate is the markup applied to provider prices.
const ProfitRate = 1.2

const (
	reasonNoHotels        = "No hotels available."
	reasonTimeUnavailable = "Time unavailable."
)

// ApplyProfitRate returns price with the markup applied.
func ApplyProfitRate(price float64) float64 {
	return price * ProfitRate
}

// TransformAutoComplete unwraps the provider's data field. A missing field
// is passed on as null.
func TransformAutoComplete(doc any) AutoCompleteResponse {
	return AutoCompleteResponse{Data: Lookup(doc).Field("data").Raw()}
}

// TransformHotels prices the first hotel of a provider search. The currency
// always comes from the inbound request.
func TransformHotels(doc any, req SerpRequest) (StatusMessage, error) {
	hotelsNode := Lookup(doc).Field("data").Field("hotels")
	hotels, ok := hotelsNode.Array()
	if !ok {
		return Unavailable(reasonNoHotels), nil
	}
	if len(hotels) == 0 {
		return Unavailable(reasonTimeUnavailable), nil
	}

	// Provider order is kept; the first hotel wins.
	hotel := hotelsNode.Index(0)

	price, err := hotel.Field("rates").Index(0).Field("daily_prices").Index(0).RequireFloat()
	if err != nil {
		return StatusMessage{}, err
	}
	id, err := hotel.Field("id").RequireStr()
	if err != nil {
		return StatusMessage{}, err
	}

	return StatusMessage{
		Status: StatusOK,
		Message: HotelSummary{
			HotelID:  id,
			MinPrice: ApplyProfitRate(price),
			Currency: req.Currency,
		},
	}, nil
}

// TransformRegion lists the ids of every hotel in a region, in provider order.
func TransformRegion(doc any) (StatusMessage, error) {
	hotelsNode := Lookup(doc).Field("data").Field("hotels")
	hotels, err := hotelsNode.RequireArray()
	if err != nil {
		return StatusMessage{}, err
	}

	ids := make([]string, 0, len(hotels))
	for i := range hotels {
		id, err := hotelsNode.Index(i).Field("id").RequireStr()
		if err != nil {
			return StatusMessage{}, err
		}
		ids = append(ids, id)
	}

	return StatusMessage{Status: StatusOK, Message: ids}, nil
}
