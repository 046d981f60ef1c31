package geoserver

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// AttachLayer adds one layer to a layer group.
//
// The REST API has no append primitive: the group's entire member list must
// be resent on every change. AttachLayer therefore fetches the current
// group, appends the new member to the end of the list (later members draw
// on top), resolves a default style for every member that lacks an explicit
// one, and PUTs the complete replacement document.
//
// styleName may be empty, in which case the layer's default style is
// resolved like any other member's. Both the group and the layer must exist;
// either missing surfaces as ErrNotFound from the corresponding lookup.
//
// Attaching a layer that is already a member does not duplicate it: the old
// entry is dropped, so the layer moves to the end of the draw order and
// takes the given style.
//
// The fetch-then-replace window is not transactional: a concurrent change
// to the same group by another actor is lost (last write wins). Callers
// needing stronger guarantees must layer retries on top.
func (c *Client) AttachLayer(ctx context.Context, group, groupWorkspace, layer, layerWorkspace, styleName string) error {
	if _, err := c.GetLayer(ctx, layer, layerWorkspace); err != nil {
		return fmt.Errorf("attach %s to %s: %w", layer, group, err)
	}
	doc, err := c.GetLayerGroup(ctx, group, groupWorkspace)
	if err != nil {
		return fmt.Errorf("attach %s to %s: %w", layer, group, err)
	}

	// Work on a copy; the fetched document stays a faithful mirror of the
	// remote state until the replace succeeds. Any existing entry for the
	// same layer is dropped before the append so membership stays unique.
	qualified := qualifiedName(layerWorkspace, layer)
	members := make([]GroupMember, 0, len(doc.Members)+1)
	for _, m := range doc.Members {
		if m.Name != qualified {
			members = append(members, m)
		}
	}
	members = append(members, GroupMember{
		Name:  qualified,
		Kind:  KindLayer,
		Style: styleName,
	})

	if err := c.resolveMemberStyles(ctx, members); err != nil {
		return fmt.Errorf("attach %s to %s: %w", layer, group, err)
	}

	updated := *doc
	updated.Members = members
	c.log.Info("attaching layer to group",
		zap.String("group", qualifiedName(groupWorkspace, group)),
		zap.String("layer", qualified),
		zap.Int("members", len(members)))
	return c.replaceLayerGroup(ctx, &updated, "attach")
}

// DetachLayer removes one layer from a layer group, matching the qualified
// workspace:name exactly (case-sensitive). Like AttachLayer it resends the
// complete remaining member list, and shares the same documented race
// window.
//
// Detaching a layer that is not a member is a no-op: the group already has
// the desired shape, so no replace is issued.
func (c *Client) DetachLayer(ctx context.Context, group, groupWorkspace, layer, layerWorkspace string) error {
	doc, err := c.GetLayerGroup(ctx, group, groupWorkspace)
	if err != nil {
		return fmt.Errorf("detach %s from %s: %w", layer, group, err)
	}

	target := qualifiedName(layerWorkspace, layer)
	kept := make([]GroupMember, 0, len(doc.Members))
	for _, m := range doc.Members {
		if m.Name != target {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(doc.Members) {
		c.log.Debug("detach is a no-op, layer not in group",
			zap.String("group", qualifiedName(groupWorkspace, group)),
			zap.String("layer", target))
		return nil
	}

	updated := *doc
	updated.Members = kept
	c.log.Info("detaching layer from group",
		zap.String("group", qualifiedName(groupWorkspace, group)),
		zap.String("layer", target),
		zap.Int("members", len(kept)))
	return c.replaceLayerGroup(ctx, &updated, "detach")
}

// resolveMemberStyles fills in a default style for every member whose style
// reference is empty. Resolution is deferred to this point so members whose
// style was already known cost no extra fetch. Failures across members are
// aggregated so one bad member does not mask another.
func (c *Client) resolveMemberStyles(ctx context.Context, members []GroupMember) error {
	var errs error
	for i := range members {
		if members[i].Style != "" {
			continue
		}
		if members[i].Kind == KindLayerGroup {
			// Nested groups have no default style of their own; the empty
			// reference is correct as-is.
			continue
		}
		name, err := c.defaultStyleName(ctx, members[i].Name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		members[i].Style = name
		members[i].StyleHref = ""
	}
	return errs
}
