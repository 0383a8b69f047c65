// Package content resolves outline content references into renderable
// content and loads course outlines.
package content

import (
	"context"
	"fmt"

	"glassbird/internal/domain"
)

type Resolver interface {
	Resolve(ctx context.Context, ref domain.ContentRef) (domain.Content, error)
}

// Composite dispatches a reference to the resolver registered for its kind.
type Composite struct {
	byKind map[domain.ContentKind]Resolver
}

func NewComposite(markup, structured Resolver) *Composite {
	return &Composite{byKind: map[domain.ContentKind]Resolver{
		domain.KindMarkup:     markup,
		domain.KindStructured: structured,
	}}
}

func (c *Composite) Resolve(ctx context.Context, ref domain.ContentRef) (domain.Content, error) {
	r, ok := c.byKind[ref.Kind]
	if !ok || r == nil {
		return domain.Content{}, fmt.Errorf("%w: no resolver for kind %q", domain.ErrContentResolution, ref.Kind)
	}
	return r.Resolve(ctx, ref)
}
