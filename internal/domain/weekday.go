package domain

// Weekday is a day of the week as stored by the backend, in Spanish, matching
// the values persisted in the day columns ("Lunes".."Sábado").
type Weekday string

const (
	Lunes     Weekday = "Lunes"
	Martes    Weekday = "Martes"
	Miercoles Weekday = "Miércoles"
	Jueves    Weekday = "Jueves"
	Viernes   Weekday = "Viernes"
	Sabado    Weekday = "Sábado"
)

// weekdayOrder defines the total ordering of days used by both grids.
var weekdayOrder = []Weekday{Lunes, Martes, Miercoles, Jueves, Viernes, Sabado}

// Valid reports whether d is one of the known weekday values.
func (d Weekday) Valid() bool {
	for _, w := range weekdayOrder {
		if d == w {
			return true
		}
	}
	return false
}

// dayAbbreviations maps the 3-letter schedule-descriptor tokens to full day
// names. "Mie" and "Sab" cover descriptors typed without accents.
var dayAbbreviations = map[string]Weekday{
	"Lun": Lunes,
	"Mar": Martes,
	"Mié": Miercoles,
	"Mie": Miercoles,
	"Jue": Jueves,
	"Vie": Viernes,
	"Sáb": Sabado,
	"Sab": Sabado,
}
