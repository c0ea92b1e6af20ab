package onboarding

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"roofestimator/internal/pkg/validator"
)

// OnboardPayload is the profile as collected, plus the site configuration.
type OnboardPayload struct {
	CustomerProfile
	SiteName string    `json:"site_name,omitempty"`
	Snippets []Snippet `json:"snippets,omitempty"`
}

// RoofingPricePayload is the flattened price sheet. waster_factor is the
// backend's field name.
type RoofingPricePayload struct {
	User                     int64       `json:"user"`
	WasterFactor             json.Number `json:"waster_factor"`
	ShingleLowCostPerSquare  json.Number `json:"shingle_low_cost_per_square"`
	ShingleHighCostPerSquare json.Number `json:"shingle_high_cost_per_square"`
	MetalLowCostPerSquare    json.Number `json:"metal_low_cost_per_square"`
	MetalHighCostPerSquare   json.Number `json:"metal_high_cost_per_square"`
	TileLowCostPerSquare     json.Number `json:"tile_low_cost_per_square"`
	TileHighCostPerSquare    json.Number `json:"tile_high_cost_per_square"`
	CedarLowCostPerSquare    json.Number `json:"cedar_low_cost_per_square"`
	CedarHighCostPerSquare   json.Number `json:"cedar_high_cost_per_square"`
}

type Payloads struct {
	Onboard      OnboardPayload
	RoofingPrice RoofingPricePayload
}

func BuildPayloads(userID int64, profile CustomerProfile, site *SiteConfig) (Payloads, error) {
	if userID <= 0 {
		return Payloads{}, fmt.Errorf("%w: missing user id", ErrInvalidPayload)
	}

	onboard := OnboardPayload{CustomerProfile: profile.clone()}
	if site != nil {
		onboard.SiteName = site.SiteName
		onboard.Snippets = append([]Snippet{}, site.Snippets...)
	}

	rp, err := BuildRoofingPricePayload(userID, profile)
	if err != nil {
		return Payloads{}, err
	}
	return Payloads{Onboard: onboard, RoofingPrice: rp}, nil
}

func BuildRoofingPricePayload(userID int64, profile CustomerProfile) (RoofingPricePayload, error) {
	waste, err := WasteMultiplier(profile.WasteFactor)
	if err != nil {
		return RoofingPricePayload{}, err
	}

	price := func(m Material, bound PriceBound) (json.Number, error) {
		if !profile.Offers(m) {
			return "0", nil
		}
		r := profile.Prices[m]
		v := r.Low
		if bound == BoundHigh {
			v = r.High
		}
		v = strings.TrimSpace(v)
		if v == "" {
			return "0", nil
		}
		if !validator.IsDecimal2(v) {
			return "", fmt.Errorf("%w: %s %s price %q", ErrInvalidPayload, m, bound, v)
		}
		return json.Number(v), nil
	}

	out := RoofingPricePayload{User: userID, WasterFactor: waste}
	fields := []struct {
		m     Material
		bound PriceBound
		dst   *json.Number
	}{
		{MaterialShingle, BoundLow, &out.ShingleLowCostPerSquare},
		{MaterialShingle, BoundHigh, &out.ShingleHighCostPerSquare},
		{MaterialMetal, BoundLow, &out.MetalLowCostPerSquare},
		{MaterialMetal, BoundHigh, &out.MetalHighCostPerSquare},
		{MaterialTile, BoundLow, &out.TileLowCostPerSquare},
		{MaterialTile, BoundHigh, &out.TileHighCostPerSquare},
		{MaterialCedar, BoundLow, &out.CedarLowCostPerSquare},
		{MaterialCedar, BoundHigh, &out.CedarHighCostPerSquare},
	}
	for _, f := range fields {
		v, err := price(f.m, f.bound)
		if err != nil {
			return RoofingPricePayload{}, err
		}
		*f.dst = v
	}
	return out, nil
}

var hundred = big.NewRat(100, 1)

// WasteMultiplier turns a percentage string into v + v/100, computed exactly:
// "7.00" -> 7.07, "10.00" -> 10.10, "7.5" -> 7.575. Empty input yields 0.
func WasteMultiplier(percent string) (json.Number, error) {
	percent = strings.TrimSpace(percent)
	if percent == "" {
		return "0", nil
	}
	v, ok := validator.ParseDecimal(percent)
	if !ok || !validator.IsDecimal2(percent) {
		return "", fmt.Errorf("%w: waste factor %q", ErrInvalidPayload, percent)
	}

	result := new(big.Rat).Add(v, new(big.Rat).Quo(v, hundred))
	return json.Number(formatDecimal(result)), nil
}

// formatDecimal prints r with at least two fraction digits and no trailing zeros beyond them.
func formatDecimal(r *big.Rat) string {
	s := r.FloatString(6)
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")
	for len(frac) < 2 {
		frac += "0"
	}
	return intPart + "." + frac
}
