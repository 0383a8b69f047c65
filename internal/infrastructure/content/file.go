package content

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"glassbird/internal/domain"
)

// FileFetcher reads markup documents from a file system. Locations are
// slash-separated paths relative to its root; anything escaping the root is
// rejected.
type FileFetcher struct {
	fsys fs.FS
}

func NewFileFetcher(fsys fs.FS) *FileFetcher {
	return &FileFetcher{fsys: fsys}
}

func (f *FileFetcher) Resolve(ctx context.Context, ref domain.ContentRef) (domain.Content, error) {
	if err := ctx.Err(); err != nil {
		return domain.Content{}, err
	}
	location := strings.TrimPrefix(ref.Location, "/")
	if !fs.ValidPath(location) {
		return domain.Content{}, fmt.Errorf("%w: invalid location %q", domain.ErrContentResolution, ref.Location)
	}
	data, err := fs.ReadFile(f.fsys, location)
	if err != nil {
		return domain.Content{}, fmt.Errorf("%w: %v", domain.ErrContentResolution, err)
	}
	return domain.Content{Type: domain.ContentMarkup, Text: string(data)}, nil
}
