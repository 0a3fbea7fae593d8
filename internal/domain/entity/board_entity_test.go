package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Board {
	return &Board{
		Students: map[string]Student{
			"s1": {ID: "s1", Name: "Ann"},
			"s2": {ID: "s2", Name: "Bob"},
			"s3": {ID: "s3", Name: "Cid"},
		},
		Columns: map[string]Column{
			"c1": {ID: "c1", Title: "Inquiry", StudentIDs: []string{"s2", "s1"}},
			"c2": {ID: "c2", Title: "Tour", StudentIDs: []string{"s3"}},
		},
		ColumnOrder: []string{"c1", "c2"},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, sample().Validate())

	t.Run("unknown student", func(t *testing.T) {
		b := sample()
		b.Columns["c2"] = Column{ID: "c2", StudentIDs: []string{"ghost"}}
		assert.ErrorIs(t, b.Validate(), ErrUnknownStudent)
	})
	t.Run("student in two columns", func(t *testing.T) {
		b := sample()
		b.Columns["c2"] = Column{ID: "c2", StudentIDs: []string{"s1"}}
		assert.ErrorIs(t, b.Validate(), ErrDuplicateStudent)
	})
	t.Run("student twice in one column", func(t *testing.T) {
		b := sample()
		b.Columns["c1"] = Column{ID: "c1", StudentIDs: []string{"s1", "s1"}}
		assert.ErrorIs(t, b.Validate(), ErrDuplicateStudent)
	})
	t.Run("order missing a column", func(t *testing.T) {
		b := sample()
		b.ColumnOrder = []string{"c1"}
		assert.ErrorIs(t, b.Validate(), ErrBadColumnOrder)
	})
	t.Run("order repeats a column", func(t *testing.T) {
		b := sample()
		b.ColumnOrder = []string{"c1", "c1"}
		assert.ErrorIs(t, b.Validate(), ErrBadColumnOrder)
	})
	t.Run("order names unknown column", func(t *testing.T) {
		b := sample()
		b.ColumnOrder = []string{"c1", "c9"}
		assert.ErrorIs(t, b.Validate(), ErrBadColumnOrder)
	})
}

func TestLanes(t *testing.T) {
	lanes := sample().Lanes()
	require.Len(t, lanes, 2)
	assert.Equal(t, "Inquiry", lanes[0].Title)
	assert.Equal(t, []Student{{ID: "s2", Name: "Bob"}, {ID: "s1", Name: "Ann"}}, lanes[0].Students)
	assert.Equal(t, "c2", lanes[1].ID)
}

func TestLocate(t *testing.T) {
	b := sample()
	col, idx, ok := b.Locate("s1")
	assert.True(t, ok)
	assert.Equal(t, "c1", col)
	assert.Equal(t, 1, idx)

	_, _, ok = b.Locate("nobody")
	assert.False(t, ok)
}

func TestFirstColumn(t *testing.T) {
	col, ok := sample().FirstColumn()
	require.True(t, ok)
	assert.Equal(t, "c1", col.ID)

	_, ok = (&Board{}).FirstColumn()
	assert.False(t, ok)
}
