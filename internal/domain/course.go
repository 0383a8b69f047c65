package domain

import "fmt"

type ContentKind string

const (
	KindMarkup     ContentKind = "markup"
	KindStructured ContentKind = "structured"
)

type ContentRef struct {
	Kind     ContentKind `json:"kind" yaml:"kind"`
	Location string      `json:"location" yaml:"location"`
}

type SubLesson struct {
	ID      string      `json:"id" yaml:"id"`
	Title   string      `json:"title" yaml:"title"`
	Content *ContentRef `json:"content,omitempty" yaml:"content,omitempty"`
}

type Lesson struct {
	ID         int         `json:"id" yaml:"id"`
	Title      string      `json:"title" yaml:"title"`
	SubLessons []SubLesson `json:"subLessons,omitempty" yaml:"sub_lessons,omitempty"`
	Content    *ContentRef `json:"content,omitempty" yaml:"content,omitempty"`
}

type Module struct {
	ID      int      `json:"id" yaml:"id"`
	Title   string   `json:"title" yaml:"title"`
	Lessons []Lesson `json:"lessons" yaml:"lessons"`
}

// Outline is the immutable tree of a course. Lesson ids are 1-based positions
// inside their module; sub-lesson ids are unique across the whole course.
type Outline struct {
	CourseID    string   `json:"courseId" yaml:"course_id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Modules     []Module `json:"modules" yaml:"modules"`
}

type Position struct {
	ModuleID    int    `json:"moduleId"`
	LessonID    int    `json:"lessonId"`
	SubLessonID string `json:"subLessonId,omitempty"`
}

func (o *Outline) Validate() error {
	if o.CourseID == "" {
		return fmt.Errorf("%w: empty course id", ErrInvalidOutline)
	}
	modules := make(map[int]struct{}, len(o.Modules))
	subs := make(map[string]struct{})
	for _, m := range o.Modules {
		if _, dup := modules[m.ID]; dup {
			return fmt.Errorf("%w: duplicate module %d", ErrInvalidOutline, m.ID)
		}
		modules[m.ID] = struct{}{}

		lessons := make(map[int]struct{}, len(m.Lessons))
		for _, l := range m.Lessons {
			if l.ID <= 0 {
				return fmt.Errorf("%w: module %d lesson id %d must be positive", ErrInvalidOutline, m.ID, l.ID)
			}
			if _, dup := lessons[l.ID]; dup {
				return fmt.Errorf("%w: module %d duplicate lesson %d", ErrInvalidOutline, m.ID, l.ID)
			}
			lessons[l.ID] = struct{}{}

			for _, s := range l.SubLessons {
				if s.ID == "" {
					return fmt.Errorf("%w: empty sub-lesson id in lesson %d-%d", ErrInvalidOutline, m.ID, l.ID)
				}
				if _, dup := subs[s.ID]; dup {
					return fmt.Errorf("%w: duplicate sub-lesson %q", ErrInvalidOutline, s.ID)
				}
				subs[s.ID] = struct{}{}
			}
		}
	}
	return nil
}

func (o *Outline) FindModule(moduleID int) (*Module, bool) {
	for i := range o.Modules {
		if o.Modules[i].ID == moduleID {
			return &o.Modules[i], true
		}
	}
	return nil, false
}

func (o *Outline) FindLesson(moduleID, lessonID int) (*Module, *Lesson, bool) {
	m, ok := o.FindModule(moduleID)
	if !ok {
		return nil, nil, false
	}
	for i := range m.Lessons {
		if m.Lessons[i].ID == lessonID {
			return m, &m.Lessons[i], true
		}
	}
	return nil, nil, false
}

// First returns the position of the first lesson of the first module.
func (o *Outline) First() (Position, bool) {
	for _, m := range o.Modules {
		if len(m.Lessons) > 0 {
			return Position{ModuleID: m.ID, LessonID: m.Lessons[0].ID}, true
		}
	}
	return Position{}, false
}

func (l *Lesson) SubLessonIndex(id string) int {
	for i, s := range l.SubLessons {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (o *Outline) LessonCount() int {
	n := 0
	for _, m := range o.Modules {
		n += len(m.Lessons)
	}
	return n
}
