// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"stone-catalog-service/internal/domain"
)

// Make lower-cases name, collapses every run of characters outside
// [a-z0-9] into a single hyphen and trims hyphens from both ends.
// Non-ASCII letters are not transliterated; they count as separators.
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// CollectionSlugWriter is the subset of the store RepairCollections needs.
type CollectionSlugWriter interface {
	ListAllCollections(ctx context.Context) ([]domain.Collection, error)
	UpdateCollectionSlug(ctx context.Context, id, slug string) error
}

// Change records one slug rewritten by RepairCollections. A change with
// a Skipped reason was reported but not written.
type Change struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	From    string `json:"from"`
	To      string `json:"to"`
	Skipped string `json:"skipped,omitempty"`
}

// Applied counts the changes that were written.
func Applied(changes []Change) int {
	n := 0
	for _, c := range changes {
		if c.Skipped == "" {
			n++
		}
	}
	return n
}

// LogChanges writes one entry per change, warning for skipped ones.
func LogChanges(log *zap.Logger, changes []Change) {
	for _, c := range changes {
		fields := []zap.Field{
			zap.String("id", c.ID),
			zap.String("name", c.Name),
			zap.String("from", c.From),
			zap.String("to", c.To),
		}
		if c.Skipped != "" {
			log.Warn("Collection slug not repaired", append(fields, zap.String("reason", c.Skipped))...)
			continue
		}
		log.Info("Collection slug repaired", fields...)
	}
}

// RepairCollections re-derives the slug of every collection from its name
// and overwrites the stored slug where it differs. Names with no slug
// characters and slugs already held by another collection are skipped and
// reported. It takes no lock, so an admin edit racing with a repair run is
// last-write-wins. On a write error the changes made so far are returned
// with the error.
func RepairCollections(ctx context.Context, s CollectionSlugWriter) ([]Change, error) {
	collections, err := s.ListAllCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("slug: list collections: %w", err)
	}

	owners := make(map[string]string, len(collections))
	for _, c := range collections {
		if c.Slug != "" {
			owners[c.Slug] = c.ID
		}
	}

	changes := []Change{}
	for _, c := range collections {
		want := Make(c.Name)
		if want == c.Slug {
			continue
		}
		change := Change{ID: c.ID, Name: c.Name, From: c.Slug, To: want}
		if want == "" {
			change.Skipped = "name has no slug characters"
			changes = append(changes, change)
			continue
		}
		if owner, taken := owners[want]; taken && owner != c.ID {
			change.Skipped = "slug held by collection " + owner
			changes = append(changes, change)
			continue
		}
		if err := s.UpdateCollectionSlug(ctx, c.ID, want); err != nil {
			return changes, fmt.Errorf("slug: update collection %s: %w", c.ID, err)
		}
		if owners[c.Slug] == c.ID {
			delete(owners, c.Slug)
		}
		owners[want] = c.ID
		changes = append(changes, change)
	}
	return changes, nil
}
