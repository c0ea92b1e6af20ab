package onboarding

import (
	"sort"
	"strings"
)

type Material string

const (
	MaterialShingle Material = "shingle"
	MaterialMetal   Material = "metal"
	MaterialTile    Material = "tile"
	MaterialCedar   Material = "cedar"
)

// Materials in display order.
var Materials = []Material{MaterialShingle, MaterialMetal, MaterialTile, MaterialCedar}

func ParseMaterial(s string) (Material, bool) {
	m := Material(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Materials {
		if m == known {
			return m, true
		}
	}
	return "", false
}

func materialRank(m Material) int {
	for i, known := range Materials {
		if m == known {
			return i
		}
	}
	return len(Materials)
}

type SharingPreference string

const (
	SharingPrivate     SharingPreference = "private"
	SharingPublic      SharingPreference = "public"
	SharingPreExisting SharingPreference = "pre_existing"
	SharingTemplated   SharingPreference = "templated"
	SharingCustom      SharingPreference = "custom"
)

type PriceBound string

const (
	BoundLow  PriceBound = "low"
	BoundHigh PriceBound = "high"
)

// PriceRange holds per-square prices as entered, e.g. "100.00".
type PriceRange struct {
	Low  string `json:"low" validate:"required,positive_decimal"`
	High string `json:"high" validate:"required,positive_decimal"`
}

func (p PriceRange) Complete() bool {
	return strings.TrimSpace(p.Low) != "" && strings.TrimSpace(p.High) != ""
}

// CustomerProfile is collected in step 1. Email comes from the identity and is read-only.
type CustomerProfile struct {
	Name              string                  `json:"name" validate:"required,max=255"`
	Email             string                  `json:"email" validate:"required,email,max=255"`
	CompanyName       string                  `json:"company_name" validate:"required,min=3,max=255"`
	CompanyWebsite    string                  `json:"company_website" validate:"omitempty,url"`
	WebhookURL        string                  `json:"webhook_url" validate:"omitempty,url"`
	InboundPhone      string                  `json:"inbound_phone" validate:"max=255"`
	BookingLink       string                  `json:"booking_link" validate:"max=255"`
	SharingPreference SharingPreference       `json:"sharing_preference" validate:"omitempty,oneof=private public pre_existing templated custom"`
	RoofMaterials     []Material              `json:"roof_materials" validate:"min=1,unique,dive,oneof=shingle metal tile cedar"`
	WasteFactor       string                  `json:"waste_factor" validate:"omitempty,positive_decimal"`
	Prices            map[Material]PriceRange `json:"prices" validate:"dive,keys,oneof=shingle metal tile cedar,endkeys"`
}

func NewCustomerProfile(email string) CustomerProfile {
	return CustomerProfile{
		Email:         email,
		RoofMaterials: []Material{},
		Prices:        map[Material]PriceRange{},
	}
}

// Offers reports whether m is in the offered set.
func (p *CustomerProfile) Offers(m Material) bool {
	for _, offered := range p.RoofMaterials {
		if offered == m {
			return true
		}
	}
	return false
}

// SetField updates one scalar field by its json name.
func (p *CustomerProfile) SetField(field, value string) error {
	switch field {
	case "name":
		p.Name = value
	case "company_name":
		p.CompanyName = value
	case "company_website":
		p.CompanyWebsite = strings.TrimSpace(value)
	case "webhook_url":
		p.WebhookURL = strings.TrimSpace(value)
	case "inbound_phone":
		p.InboundPhone = value
	case "booking_link":
		p.BookingLink = value
	case "sharing_preference":
		p.SharingPreference = SharingPreference(strings.TrimSpace(value))
	case "waste_factor":
		p.WasteFactor = strings.TrimSpace(value)
	case "email":
		return ErrReadOnlyField
	default:
		return ErrUnknownField
	}
	return nil
}

// ToggleMaterial adds m with an empty price range, or removes it together with its prices.
func (p *CustomerProfile) ToggleMaterial(m Material) {
	if p.Prices == nil {
		p.Prices = map[Material]PriceRange{}
	}

	if p.Offers(m) {
		kept := p.RoofMaterials[:0]
		for _, offered := range p.RoofMaterials {
			if offered != m {
				kept = append(kept, offered)
			}
		}
		p.RoofMaterials = kept
		delete(p.Prices, m)
		return
	}

	p.RoofMaterials = append(p.RoofMaterials, m)
	sort.SliceStable(p.RoofMaterials, func(i, j int) bool {
		return materialRank(p.RoofMaterials[i]) < materialRank(p.RoofMaterials[j])
	})
	if _, ok := p.Prices[m]; !ok {
		p.Prices[m] = PriceRange{}
	}
}

func (p *CustomerProfile) SetPrice(m Material, bound PriceBound, value string) error {
	if !p.Offers(m) {
		return ErrMaterialNotOffered
	}

	price := p.Prices[m]
	switch bound {
	case BoundLow:
		price.Low = strings.TrimSpace(value)
	case BoundHigh:
		price.High = strings.TrimSpace(value)
	default:
		return ErrUnknownField
	}
	p.Prices[m] = price
	return nil
}

func (p CustomerProfile) clone() CustomerProfile {
	out := p
	out.RoofMaterials = append([]Material{}, p.RoofMaterials...)
	out.Prices = make(map[Material]PriceRange, len(p.Prices))
	for k, v := range p.Prices {
		out.Prices[k] = v
	}
	return out
}
