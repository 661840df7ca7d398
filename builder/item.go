package builder

// Item is one line of a template in progress. An item is either a library
// reference (LibraryItemID set, pricing mirrors the library record) or an
// embedded item whose name/unit/rate are stored with the template itself.
type Item struct {
	LibraryItemID      string  `json:"libraryItemId,omitempty"`
	SourceItemID       string  `json:"sourceItemId,omitempty"`
	Name               string  `json:"name"`
	Description        string  `json:"description,omitempty"`
	Unit               string  `json:"unit"`
	Rate               float64 `json:"rate"`
	QuantityMultiplier float64 `json:"quantityMultiplier"`
	PositionIndex      int     `json:"positionIndex"`
	Selected           bool    `json:"selected,omitempty"`
	SourceSection      string  `json:"sourceSection,omitempty"`
}

// IsLibraryRef reports whether the item points at a library record. Items
// that don't are persisted with their own embedded pricing data instead.
func (it Item) IsLibraryRef() bool {
	return it.LibraryItemID != ""
}

// LibraryRecord is a row from the priced item library, as returned by the
// library query surface.
type LibraryRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Unit        string  `json:"unit"`
	Rate        float64 `json:"rate"`
	Category    string  `json:"category,omitempty"`
}

// SectionRow is one line of an existing document section being pulled into
// the builder.
type SectionRow struct {
	ID            string  `json:"id"`
	Name          string  `json:"name,omitempty"`
	Description   string  `json:"description,omitempty"`
	Unit          string  `json:"unit,omitempty"`
	Rate          float64 `json:"rate"`
	SourceSection string  `json:"sourceSection,omitempty"`
}

// EmbeddedData holds the pricing fields stored directly on a template entry
// that has no library link. Code carries the item name on the wire.
type EmbeddedData struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Rate        float64 `json:"rate"`
}

// TemplateEntry is the stored shape of one template line. Exactly one of
// LibraryItemID and Embedded is set. LibraryItem is an optional denormalized
// snapshot used when the live library record is gone at load time.
type TemplateEntry struct {
	LibraryItemID      string         `json:"libraryItemId,omitempty"`
	QuantityMultiplier float64        `json:"quantityMultiplier"`
	PositionIndex      int            `json:"positionIndex"`
	LibraryItem        *LibraryRecord `json:"libraryItem,omitempty"`
	Embedded           *EmbeddedData  `json:"embedded,omitempty"`
}

// Template is a stored template as handed to the builder for editing.
type Template struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category,omitempty"`
	TemplateItems []TemplateEntry `json:"templateItems"`
}

// TemplatePayload is the create/update body sent to template storage. The
// entry list travels under lineItemIds even though it mixes reference and
// embedded entries; that field name is what the storage contract expects.
type TemplatePayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	CompanyID   string          `json:"companyId,omitempty"`
	LineItemIDs []TemplateEntry `json:"lineItemIds"`
}

// ItemPatch carries the editable fields of an item. Nil fields are left
// untouched. Rate and QuantityMultiplier arrive as the raw form strings and
// are coerced when applied.
type ItemPatch struct {
	Name               *string
	Description        *string
	Unit               *string
	Rate               *string
	QuantityMultiplier *string
}
