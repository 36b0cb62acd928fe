package domain

import "regexp"

// SlotKey identifies one cell of the weekly grid. Equality is exact; there is
// no fuzzy matching on either component.
type SlotKey struct {
	Day       Weekday `json:"day"`
	BlockPair string  `json:"block_pair"`
}

var (
	// descriptorDays captures up to three hyphen-joined day tokens at the start
	// of a schedule descriptor, e.g. "Lun-Mié-Vie".
	descriptorDays = regexp.MustCompile(`([A-Za-zéáí]+)(?:-([A-Za-zéáí]+))?(?:-([A-Za-zéáí]+))?`)

	// descriptorBlockLabeled matches the labeled block form "Bloque 3-4".
	descriptorBlockLabeled = regexp.MustCompile(`Bloque\s*(\d+)-(\d+)`)

	// descriptorBlockBare matches a bare "3-4". Only consulted when the labeled
	// form is absent, so a stray number pair elsewhere in the descriptor cannot
	// shadow an explicit "Bloque N-M".
	descriptorBlockBare = regexp.MustCompile(`(\d+)-(\d+)`)
)

// ParseScheduleDescriptor converts a free-text workshop schedule descriptor
// such as "Lun-Mié Bloque 3-4" into the grid cells it occupies: one SlotKey
// per recognized day, all sharing the single parsed block pair.
//
// Malformed descriptors degrade silently: if no known day abbreviation or no
// block pair can be extracted, the result is empty and the workshop simply
// does not appear on the grid. Descriptors carrying clock times instead of
// block pairs ("Lun-Mié-Vie 7:00 AM") therefore parse to nothing.
func ParseScheduleDescriptor(descriptor string) []SlotKey {
	if descriptor == "" {
		return nil
	}

	dayMatch := descriptorDays.FindStringSubmatch(descriptor)
	if dayMatch == nil {
		return nil
	}

	blockMatch := descriptorBlockLabeled.FindStringSubmatch(descriptor)
	if blockMatch == nil {
		blockMatch = descriptorBlockBare.FindStringSubmatch(descriptor)
	}
	if blockMatch == nil {
		return nil
	}
	pair := blockMatch[1] + "-" + blockMatch[2]

	var slots []SlotKey
	for _, token := range dayMatch[1:] {
		day, ok := dayAbbreviations[token]
		if !ok {
			// Unknown tokens (including the word "Bloque" itself when the
			// descriptor has no day part) are dropped, not passed through.
			continue
		}
		slots = append(slots, SlotKey{Day: day, BlockPair: pair})
	}
	return slots
}
