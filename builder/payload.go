package builder

import "strings"

// MapItems converts the builder's item list into storage entries, one per
// item in list order. Library references keep only the id and multiplier;
// everything else becomes an embedded entry carrying its own pricing data.
// The positive-rate floor is applied again here because items can be edited
// in place after normalization.
func MapItems(items []Item) []TemplateEntry {
	entries := make([]TemplateEntry, 0, len(items))
	for _, it := range items {
		entry := TemplateEntry{
			QuantityMultiplier: it.QuantityMultiplier,
			PositionIndex:      it.PositionIndex,
		}
		if it.IsLibraryRef() {
			entry.LibraryItemID = it.LibraryItemID
		} else {
			desc := it.Description
			if desc == "" {
				desc = it.Name
			}
			entry.Embedded = &EmbeddedData{
				Code:        it.Name,
				Description: desc,
				Unit:        it.Unit,
				Rate:        ClampRate(it.Rate),
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// SavePayload builds the create payload for the current state. A template
// cannot be created without items or without a name; on either failure no
// payload is produced and the builder state is left as it was, so the user
// can correct and retry.
func SavePayload(st State) (TemplatePayload, error) {
	if len(st.Items) == 0 {
		return TemplatePayload{}, ErrNoItems
	}
	if strings.TrimSpace(st.Name) == "" {
		return TemplatePayload{}, ErrNoName
	}
	return TemplatePayload{
		Name:        st.Name,
		Description: st.Description,
		Category:    st.Category,
		LineItemIDs: MapItems(st.Items),
	}, nil
}

// UpdatePayload builds the update payload for the template being edited and
// returns its id. Updates still require items, but not a name: the stored
// template already has one, and the current metadata is sent as-is even when
// the user blanked it.
func UpdatePayload(st State) (TemplatePayload, string, error) {
	if len(st.Items) == 0 {
		return TemplatePayload{}, "", ErrNoItems
	}
	if st.EditingTemplateID == "" {
		return TemplatePayload{}, "", ErrNoTemplate
	}
	return TemplatePayload{
		Name:        st.Name,
		Description: st.Description,
		Category:    st.Category,
		LineItemIDs: MapItems(st.Items),
	}, st.EditingTemplateID, nil
}
