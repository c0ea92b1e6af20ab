package roofingprice

import (
	"fmt"
	"math/big"
	"strings"

	"roofestimator/internal/backend"
	"roofestimator/internal/modules/onboarding"
	"roofestimator/internal/pkg/validator"
)

// Disabled is how the backend stores a material that is not offered.
const Disabled = "0.00"

type MaterialPrice struct {
	Enabled bool   `json:"enabled"`
	Low     string `json:"low"`
	High    string `json:"high"`
}

// Form is the editable price sheet.
type Form struct {
	ID          int64                                 `json:"id"`
	WasteFactor string                                `json:"waste_factor"`
	Prices      map[onboarding.Material]MaterialPrice `json:"prices"`
}

func priceSlots(rp *backend.RoofingPrice) map[onboarding.Material][2]*string {
	return map[onboarding.Material][2]*string{
		onboarding.MaterialShingle: {&rp.ShingleLowCostPerSquare, &rp.ShingleHighCostPerSquare},
		onboarding.MaterialMetal:   {&rp.MetalLowCostPerSquare, &rp.MetalHighCostPerSquare},
		onboarding.MaterialTile:    {&rp.TileLowCostPerSquare, &rp.TileHighCostPerSquare},
		onboarding.MaterialCedar:   {&rp.CedarLowCostPerSquare, &rp.CedarHighCostPerSquare},
	}
}

// FormFromPrice derives the form; a material is enabled unless its low price is "0.00".
func FormFromPrice(rp backend.RoofingPrice) Form {
	f := Form{ID: rp.ID, WasteFactor: rp.WasteFactor, Prices: map[onboarding.Material]MaterialPrice{}}
	slots := priceSlots(&rp)
	for _, m := range onboarding.Materials {
		low, high := *slots[m][0], *slots[m][1]
		f.Prices[m] = MaterialPrice{Enabled: low != Disabled, Low: low, High: high}
	}
	return f
}

// Validate checks the waste factor and every enabled material; disabled
// materials are not looked at.
func (f Form) Validate() map[string]string {
	errs := map[string]string{}

	wf := strings.TrimSpace(f.WasteFactor)
	switch {
	case wf == "":
		errs["waste_factor"] = "This field is required"
	case validator.Var(wf, "decimal2") != nil:
		errs["waste_factor"] = "Must be a number with up to 2 decimal places"
	}

	for m, p := range f.Prices {
		if _, ok := onboarding.ParseMaterial(string(m)); !ok {
			errs[fmt.Sprintf("prices.%s", m)] = "Unknown material"
			continue
		}
		if !p.Enabled {
			continue
		}
		lowKey, highKey := fmt.Sprintf("prices.%s.low", m), fmt.Sprintf("prices.%s.high", m)
		low, lowOK := checkPrice(p.Low, lowKey, errs)
		high, highOK := checkPrice(p.High, highKey, errs)
		if lowOK && highOK && high.Cmp(low) <= 0 {
			errs[highKey] = "High price must be greater than low price"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkPrice(v, key string, errs map[string]string) (*big.Rat, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		errs[key] = "This field is required"
		return nil, false
	}
	if !validator.IsDecimal2(v) {
		errs[key] = "Must be a number with up to 2 decimal places"
		return nil, false
	}
	r, ok := validator.ParseDecimal(v)
	return r, ok
}

// Price converts a valid form to the backend shape. Disabled materials are sent as "0.00".
func (f Form) Price(userID int64) backend.RoofingPrice {
	rp := backend.RoofingPrice{ID: f.ID, User: userID, WasteFactor: strings.TrimSpace(f.WasteFactor)}
	slots := priceSlots(&rp)
	for _, m := range onboarding.Materials {
		low, high := Disabled, Disabled
		if p, ok := f.Prices[m]; ok && p.Enabled {
			low, high = strings.TrimSpace(p.Low), strings.TrimSpace(p.High)
		}
		*slots[m][0] = low
		*slots[m][1] = high
	}
	return rp
}
