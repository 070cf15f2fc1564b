package vecitem_test

import (
	"testing"

	"github.com/openpeace/peace/internal/vecitem"
	"github.com/stretchr/testify/assert"
)

func TestDiffBytesNoChange(t *testing.T) {
	d := vecitem.DiffBytes([]byte{1, 2, 3}, []byte{1, 2, 3})
	assert.Empty(t, d)
}

func TestDiffBytesAppendIsInserted(t *testing.T) {
	d := vecitem.DiffBytes([]byte{1, 2}, []byte{1, 2, 3, 4})
	assert.Equal(t, "[(+)2;3, 4, ]", d.String())
}

func TestDiffBytesTruncateIsRemoved(t *testing.T) {
	d := vecitem.DiffBytes([]byte{1, 2, 3, 4}, []byte{1, 2})
	assert.Equal(t, "[(-)2..4, ]", d.String())
}

func TestDiffBytesReplaceIsAltered(t *testing.T) {
	d := vecitem.DiffBytes([]byte{1, 2, 3}, []byte{1, 9, 3})
	assert.Equal(t, "[(~)1;9, ]", d.String())
}

func TestDiffBytesEmptyToEmpty(t *testing.T) {
	d := vecitem.DiffBytes(nil, nil)
	assert.Empty(t, d)
}

func TestDiffBytesEmptyToNonEmptyIsInserted(t *testing.T) {
	d := vecitem.DiffBytes(nil, []byte{1, 2, 3})
	assert.Equal(t, "[(+)0;1, 2, 3, ]", d.String())
}

func TestApplyDiffRoundTripsInsert(t *testing.T) {
	from := []byte{1, 2}
	to := []byte{1, 2, 3, 4}
	d := vecitem.DiffBytes(from, to)
	assert.Equal(t, to, vecitem.ApplyDiff(from, d))
}

func TestApplyDiffRoundTripsRemove(t *testing.T) {
	from := []byte{1, 2, 3, 4}
	to := []byte{1, 2}
	d := vecitem.DiffBytes(from, to)
	assert.Equal(t, to, vecitem.ApplyDiff(from, d))
}

func TestApplyDiffRoundTripsAlter(t *testing.T) {
	from := []byte{1, 2, 3}
	to := []byte{1, 9, 3}
	d := vecitem.DiffBytes(from, to)
	assert.Equal(t, to, vecitem.ApplyDiff(from, d))
}

func TestApplyDiffRoundTripsMixed(t *testing.T) {
	from := []byte{0, 1, 2, 3, 4, 5}
	to := []byte{0, 9, 3, 4, 7, 8}
	d := vecitem.DiffBytes(from, to)
	assert.Equal(t, to, vecitem.ApplyDiff(from, d))
}
