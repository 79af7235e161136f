// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import "github.com/pdiddy/submittal-engine/pkg/types"

// Merge reconciles a freshly generated structure with a previously
// persisted, possibly human-edited one. For every fresh item whose
// (type, tag, filename) key exists in the prior structure, the prior
// title and include flag are carried over; positions, classifications,
// and pricing flags always come from the fresh run. Items only in the
// fresh structure (new files) keep generated defaults; items only in
// the prior structure (removed files) are dropped.
//
// Re-running extraction after a human has hidden or relabeled items
// therefore never silently reverts their edits.
func Merge(fresh, prior *types.PDFStructure) *types.PDFStructure {
	byKey := make(map[types.ItemKey]types.PDFStructureItem, len(prior.Items))
	for _, item := range prior.Items {
		byKey[item.Key()] = item
	}

	merged := &types.PDFStructure{
		Items:    make([]types.PDFStructureItem, len(fresh.Items)),
		Metadata: fresh.Metadata,
	}
	copy(merged.Items, fresh.Items)

	for i := range merged.Items {
		p, found := byKey[merged.Items[i].Key()]
		if !found {
			continue
		}
		merged.Items[i].Include = p.Include
		if p.Title != "" {
			merged.Items[i].Title = p.Title
		}
		if p.DisplayTitle != "" {
			merged.Items[i].DisplayTitle = p.DisplayTitle
		}
	}

	// A prior edit timestamp marks that human overrides exist; keep it
	// so later runs know to look.
	merged.Metadata.LastUpdated = prior.Metadata.LastUpdated
	merged.Recount()
	return merged
}
