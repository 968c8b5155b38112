package marketdata

import (
	"encoding/json"
	"fmt"
	"time"
)

// Marketprice is one fixed-width day-ahead price slot.
type Marketprice struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Price     float64   `json:"price"`
	PriceUOM  string    `json:"price_uom"`
}

func (m Marketprice) String() string {
	return fmt.Sprintf("Marketprice(start: %s, end: %s, marketprice: %v %s)",
		m.StartTime.Format(time.RFC3339), m.EndTime.Format(time.RFC3339), m.Price, m.PriceUOM)
}

// payloadEntry mirrors one entry of the price provider payload. Providers
// publish the price under different field names depending on market and
// unit; exactly one of them is expected per entry.
type payloadEntry struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	PriceEurPerMWh   *float64 `json:"price_eur_per_mwh"`
	PriceGbpPerMWh   *float64 `json:"price_gbp_per_mwh"`
	PriceCtPerKWh    *float64 `json:"price_ct_per_kwh"`
	PricePencePerKWh *float64 `json:"price_pence_per_kwh"`
	PricePerKWh      *float64 `json:"price_per_kwh"`
}

type payload struct {
	Data []payloadEntry `json:"data"`
}

func (e payloadEntry) marketprice() (Marketprice, error) {
	m := Marketprice{StartTime: e.StartTime, EndTime: e.EndTime}
	switch {
	case e.PriceEurPerMWh != nil:
		m.Price = *e.PriceEurPerMWh
		m.PriceUOM = "EUR/MWh"
	case e.PriceGbpPerMWh != nil:
		m.Price = *e.PriceGbpPerMWh
		m.PriceUOM = "GBP/MWh"
	case e.PriceCtPerKWh != nil:
		m.Price = *e.PriceCtPerKWh
		m.PriceUOM = "ct/kWh"
	case e.PricePencePerKWh != nil:
		m.Price = *e.PricePencePerKWh
		m.PriceUOM = "pence/kWh"
	case e.PricePerKWh != nil:
		m.Price = *e.PricePerKWh
		m.PriceUOM = "€/£/kWh"
	default:
		return m, fmt.Errorf("no valid price field in entry starting %s", e.StartTime.Format(time.RFC3339))
	}
	return m, nil
}

// FromPayload decodes a provider payload into the ordered slot list.
func FromPayload(b []byte) ([]Marketprice, error) {
	p := payload{}
	err := json.Unmarshal(b, &p)
	if err != nil {
		return nil, fmt.Errorf("error decoding marketdata payload: %w", err)
	}
	if p.Data == nil {
		return nil, fmt.Errorf("'data' missing in marketdata payload")
	}

	slots := make([]Marketprice, 0, len(p.Data))
	for _, e := range p.Data {
		m, err := e.marketprice()
		if err != nil {
			return nil, err
		}
		slots = append(slots, m)
	}
	return slots, nil
}
