package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOutline() Outline {
	return Outline{
		CourseID: "python",
		Title:    "Python",
		Modules: []Module{
			{ID: 1, Title: "Basics", Lessons: []Lesson{
				{ID: 1, Title: "Intro"},
				{ID: 2, Title: "Numbers", SubLessons: []SubLesson{{ID: "ints"}, {ID: "floats"}}},
			}},
			{ID: 2, Title: "Control flow", Lessons: []Lesson{{ID: 1, Title: "If"}}},
		},
	}
}

func TestOutlineValidate(t *testing.T) {
	o := sampleOutline()
	require.NoError(t, o.Validate())

	dupSub := sampleOutline()
	dupSub.Modules[1].Lessons[0].SubLessons = []SubLesson{{ID: "ints"}}
	assert.ErrorIs(t, dupSub.Validate(), ErrInvalidOutline)

	badLesson := sampleOutline()
	badLesson.Modules[0].Lessons[0].ID = 0
	assert.ErrorIs(t, badLesson.Validate(), ErrInvalidOutline)

	dupLesson := sampleOutline()
	dupLesson.Modules[0].Lessons[1].ID = 1
	assert.ErrorIs(t, dupLesson.Validate(), ErrInvalidOutline)
}

func TestOutlineLookup(t *testing.T) {
	o := sampleOutline()

	first, ok := o.First()
	require.True(t, ok)
	assert.Equal(t, Position{ModuleID: 1, LessonID: 1}, first)

	_, lesson, ok := o.FindLesson(1, 2)
	require.True(t, ok)
	assert.Equal(t, 1, lesson.SubLessonIndex("floats"))
	assert.Equal(t, -1, lesson.SubLessonIndex("missing"))

	_, _, ok = o.FindLesson(2, 5)
	assert.False(t, ok)
	assert.Equal(t, 3, o.LessonCount())

	_, ok = (&Outline{}).First()
	assert.False(t, ok)
}

func TestCompletionMapClone(t *testing.T) {
	c := NewCompletionMap()
	c.Lessons[ModuleKey(1)] = []bool{true, false}
	c.SubLessons["ints"] = true

	cp := c.Clone()
	cp.Lessons[ModuleKey(1)][1] = true

	assert.False(t, c.Lessons["module-1"][1])
	assert.True(t, c.IsLessonComplete(1, 1))
	assert.False(t, c.IsLessonComplete(1, 3))
	assert.False(t, c.IsLessonComplete(1, 0))
}
