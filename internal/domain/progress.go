package domain

import "fmt"

// CompletionMap records lesson and sub-lesson completion. Lessons is keyed by
// ModuleKey; index i of a module's slice is lesson id i+1.
type CompletionMap struct {
	Lessons    map[string][]bool `json:"lessons"`
	SubLessons map[string]bool   `json:"subLessons"`
}

func NewCompletionMap() CompletionMap {
	return CompletionMap{
		Lessons:    map[string][]bool{},
		SubLessons: map[string]bool{},
	}
}

func ModuleKey(moduleID int) string {
	return fmt.Sprintf("module-%d", moduleID)
}

func (c CompletionMap) Clone() CompletionMap {
	out := NewCompletionMap()
	for k, v := range c.Lessons {
		out.Lessons[k] = append([]bool(nil), v...)
	}
	for k, v := range c.SubLessons {
		out.SubLessons[k] = v
	}
	return out
}

func (c CompletionMap) IsLessonComplete(moduleID, lessonID int) bool {
	flags := c.Lessons[ModuleKey(moduleID)]
	if lessonID <= 0 || lessonID > len(flags) {
		return false
	}
	return flags[lessonID-1]
}
