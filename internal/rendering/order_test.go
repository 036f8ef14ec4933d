package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrder(t *testing.T) {
	tests := []struct {
		name  string
		order []string
		want  []string
	}{
		{"empty yields canonical", nil, CanonicalOrder()},
		{
			"custom order kept, missing appended",
			[]string{"skills", "summary"},
			[]string{"skills", "summary", "experience", "education", "volunteer", "strengths", "references"},
		},
		{
			"unknown and duplicate keys dropped",
			[]string{"hobbies", "education", "education", "summary", ""},
			[]string{"education", "summary", "skills", "experience", "volunteer", "strengths", "references"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeOrder(tt.order))
		})
	}
}

func TestCanonicalOrder_IsACopy(t *testing.T) {
	order := CanonicalOrder()
	order[0] = "changed"
	assert.Equal(t, SectionSummary, CanonicalOrder()[0])
}

func TestLabels(t *testing.T) {
	want := []string{
		"Professional Summary", "Skills", "Work Experience", "Education",
		"Volunteer Experience", "Key Strengths", "References",
	}
	for i, key := range CanonicalOrder() {
		assert.Equal(t, want[i], Label(key))
	}
	assert.Empty(t, Label("hobbies"))
}

func TestMoveSection_IsPermutationMovingOneElement(t *testing.T) {
	order := CanonicalOrder()

	for from := range order {
		for to := range order {
			got, err := MoveSection(order, from, to)
			require.NoError(t, err)

			assert.ElementsMatch(t, order, got)
			assert.Equal(t, order[from], got[to])

			// removing the moved key from both leaves the same sequence
			assert.Equal(t, without(order, order[from]), without(got, order[from]))
		}
	}
	assert.Equal(t, CanonicalOrder(), order, "input must not be modified")
}

func TestMoveSection_Examples(t *testing.T) {
	order := []string{"a", "b", "c", "d"}

	got, err := MoveSection(order, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a", "d"}, got)

	got, err = MoveSection(order, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a", "b", "c"}, got)

	got, err = MoveSection(order, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, order, got)
}

func TestMoveSection_OutOfRange(t *testing.T) {
	order := []string{"a", "b"}
	for _, tc := range [][2]int{{-1, 0}, {0, 2}, {2, 0}, {0, -1}} {
		_, err := MoveSection(order, tc[0], tc[1])
		var moveErr *InvalidMoveError
		require.ErrorAs(t, err, &moveErr)
		assert.Equal(t, 2, moveErr.Len)
	}

	_, err := MoveSection(nil, 0, 0)
	assert.Error(t, err)
}

func without(order []string, key string) []string {
	out := []string{}
	for _, k := range order {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}
