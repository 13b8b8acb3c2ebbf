package pobeda

import (
	"github.com/farewatch/fare-tracker/internal/domain"
)

// searchResponse is the subset of the search endpoint payload we keep.
type searchResponse struct {
	Flights []domain.FlightGroup `json:"flights"`
	Prices  []domain.PriceGroup  `json:"prices"`
}

func (r searchResponse) toDayResult(key domain.SearchKey, currency string) *domain.DayResult {
	for _, group := range r.Prices {
		for _, tariffs := range group {
			for i := range tariffs {
				if tariffs[i].Currency == "" {
					tariffs[i].Currency = currency
				}
			}
		}
	}

	return &domain.DayResult{
		Date:        key.Date,
		Origin:      key.Origin,
		Destination: key.Destination,
		PromoCode:   key.PromoCode,
		Flights:     r.Flights,
		Prices:      r.Prices,
	}
}

// destinationsResponse is the dependence-cities payload.
type destinationsResponse struct {
	Destination []cityDTO `json:"destination"`
}

type cityDTO struct {
	CodeEn    string `json:"codeEn"`
	NameRu    string `json:"nameRu"`
	NameEn    string `json:"nameEn"`
	CountryRu string `json:"countryRu"`
	CountryEn string `json:"countryEn"`
}

func (r destinationsResponse) toCities() []domain.City {
	cities := make([]domain.City, 0, len(r.Destination))
	for _, d := range r.Destination {
		cities = append(cities, domain.City{
			Code:      domain.NormalizeCityCode(d.CodeEn),
			NameRu:    d.NameRu,
			NameEn:    d.NameEn,
			CountryRu: d.CountryRu,
			CountryEn: d.CountryEn,
		})
	}
	return cities
}
