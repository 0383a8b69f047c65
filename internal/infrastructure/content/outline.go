package content

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"glassbird/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed courses
var bundled embed.FS

// BundledMarkup exposes the markup documents shipped with the bundled courses.
func BundledMarkup() fs.FS {
	sub, err := fs.Sub(bundled, "courses")
	if err != nil {
		panic(err)
	}
	return sub
}

// Catalog holds the immutable outlines by course id.
type Catalog struct {
	outlines map[string]*domain.Outline
	order    []string
}

func NewCatalog(outlines ...*domain.Outline) (*Catalog, error) {
	c := &Catalog{outlines: map[string]*domain.Outline{}}
	for _, o := range outlines {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.outlines[o.CourseID]; dup {
			return nil, fmt.Errorf("%w: duplicate course %q", domain.ErrInvalidOutline, o.CourseID)
		}
		c.outlines[o.CourseID] = o
		c.order = append(c.order, o.CourseID)
	}
	sort.Strings(c.order)
	return c, nil
}

func (c *Catalog) Get(courseID string) (*domain.Outline, error) {
	o, ok := c.outlines[courseID]
	if !ok {
		return nil, domain.ErrUnknownCourse
	}
	return o, nil
}

func (c *Catalog) List() []*domain.Outline {
	out := make([]*domain.Outline, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.outlines[id])
	}
	return out
}

// LoadOutlines reads every *.yaml file in dir. An empty dir loads the
// bundled courses.
func LoadOutlines(dir string) (*Catalog, error) {
	var fsys fs.FS
	if dir == "" {
		fsys = BundledMarkup()
	} else {
		fsys = os.DirFS(dir)
	}
	return loadOutlinesFS(fsys)
}

func loadOutlinesFS(fsys fs.FS) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var outlines []*domain.Outline
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		o, err := parseOutline(fsys, e.Name())
		if err != nil {
			return nil, err
		}
		outlines = append(outlines, o)
	}
	return NewCatalog(outlines...)
}

func parseOutline(fsys fs.FS, name string) (*domain.Outline, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	var o domain.Outline
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidOutline, name, err)
	}
	if o.CourseID == "" {
		o.CourseID = strings.TrimSuffix(path.Base(name), ".yaml")
	}
	return &o, nil
}
