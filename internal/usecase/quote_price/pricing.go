package quote_price

import "github.com/m04kA/holidaze-booking/internal/domain"

// Quote расчет стоимости проживания для отображения в UI
type Quote struct {
	Range         domain.DateRange
	Nights        int
	PricePerNight float64
	Total         float64
}

// Price возвращает стоимость: ночи * цена за ночь.
// День выезда не оплачивается. Для незавершенного выбора дат возвращает 0.
// Округление - задача отображения, здесь не выполняется.
func Price(r domain.DateRange, pricePerNight float64) float64 {
	nights := r.Nights()
	if nights <= 0 {
		return 0
	}
	return float64(nights) * pricePerNight
}

// Calculate считает стоимость для площадки
func Calculate(r domain.DateRange, constraints domain.VenueConstraints) Quote {
	return Quote{
		Range:         r,
		Nights:        r.Nights(),
		PricePerNight: constraints.PricePerNight,
		Total:         Price(r, constraints.PricePerNight),
	}
}
