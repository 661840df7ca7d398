package builder

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultUnit is assigned to imported rows that carry no unit of their own.
const DefaultUnit = "Ea"

// ClampRate returns rate, or 1.0 when rate is not positive. The same floor is
// applied when items are normalized and again when they are persisted.
func ClampRate(rate float64) float64 {
	if rate <= 0 {
		return 1.0
	}
	return rate
}

// normalizeRate enforces the positive-rate guarantee on a produced item and
// reports the substitution when it applies.
func normalizeRate(it Item) (Item, []Warning) {
	if it.Rate > 0 {
		return it, nil
	}
	w := Warning{
		Kind:    WarnDataQuality,
		Message: fmt.Sprintf("%s: rate %v is not positive, set to 1", it.Name, it.Rate),
	}
	it.Rate = ClampRate(it.Rate)
	return it, []Warning{w}
}

// FromLibrary converts a library search result into a builder item. Name,
// unit and rate mirror the library record; the multiplier starts at 1.
func FromLibrary(rec LibraryRecord) (Item, []Warning) {
	return normalizeRate(Item{
		LibraryItemID:      rec.ID,
		Name:               rec.Name,
		Description:        rec.Description,
		Unit:               rec.Unit,
		Rate:               rec.Rate,
		QuantityMultiplier: 1,
	})
}

// FromLibraryRecords converts a batch of library records, collecting any
// rate substitutions along the way.
func FromLibraryRecords(recs []LibraryRecord) ([]Item, []Warning) {
	items := make([]Item, 0, len(recs))
	var warns []Warning
	for _, rec := range recs {
		it, w := FromLibrary(rec)
		items = append(items, it)
		warns = append(warns, w...)
	}
	return items, warns
}

// FromSectionRow converts a document line into a builder item. The row has no
// library link, so its own name/unit/rate become the embedded pricing data.
func FromSectionRow(row SectionRow) (Item, []Warning) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		name = strings.TrimSpace(row.Description)
	}
	if name == "" {
		name = "Untitled item"
	}
	unit := row.Unit
	if unit == "" {
		unit = DefaultUnit
	}
	return normalizeRate(Item{
		SourceItemID:       row.ID,
		Name:               name,
		Description:        row.Description,
		Unit:               unit,
		Rate:               row.Rate,
		QuantityMultiplier: 1,
		SourceSection:      row.SourceSection,
	})
}

// FromSectionRows converts a batch of document lines.
func FromSectionRows(rows []SectionRow) ([]Item, []Warning) {
	items := make([]Item, 0, len(rows))
	var warns []Warning
	for _, row := range rows {
		it, w := FromSectionRow(row)
		items = append(items, it)
		warns = append(warns, w...)
	}
	return items, warns
}

// FromTemplateEntry converts a stored template entry back into a builder
// item. Reference entries resolve current pricing through lib, falling back
// to the entry's denormalized snapshot when the live record is gone. A
// non-positive stored multiplier falls back to 1.
func FromTemplateEntry(entry TemplateEntry, lib map[string]LibraryRecord) (Item, []Warning, error) {
	qty := entry.QuantityMultiplier
	if qty <= 0 {
		qty = 1
	}
	switch {
	case entry.LibraryItemID != "":
		rec, ok := lib[entry.LibraryItemID]
		if !ok {
			if entry.LibraryItem == nil {
				return Item{}, nil, fmt.Errorf("library item %s not found and no snapshot stored: %w", entry.LibraryItemID, ErrMalformedEntry)
			}
			rec = *entry.LibraryItem
		}
		it, warns := normalizeRate(Item{
			LibraryItemID:      entry.LibraryItemID,
			Name:               rec.Name,
			Description:        rec.Description,
			Unit:               rec.Unit,
			Rate:               rec.Rate,
			QuantityMultiplier: qty,
		})
		return it, warns, nil
	case entry.Embedded != nil:
		it, warns := normalizeRate(Item{
			Name:               entry.Embedded.Code,
			Description:        entry.Embedded.Description,
			Unit:               entry.Embedded.Unit,
			Rate:               entry.Embedded.Rate,
			QuantityMultiplier: qty,
		})
		return it, warns, nil
	default:
		return Item{}, nil, ErrMalformedEntry
	}
}

// FromTemplateEntries converts a stored entry list in positionIndex order.
// Entries that cannot be normalized are skipped, each one reported as a
// warning so the caller can tell the user what was dropped.
func FromTemplateEntries(entries []TemplateEntry, lib map[string]LibraryRecord) ([]Item, []Warning) {
	ordered := make([]TemplateEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PositionIndex < ordered[j].PositionIndex
	})

	items := make([]Item, 0, len(ordered))
	var warns []Warning
	for i, entry := range ordered {
		it, w, err := FromTemplateEntry(entry, lib)
		if err != nil {
			warns = append(warns, Warning{
				Kind:    WarnMalformedEntry,
				Message: fmt.Sprintf("entry %d skipped: %v", i+1, err),
			})
			continue
		}
		items = append(items, it)
		warns = append(warns, w...)
	}
	return items, warns
}
