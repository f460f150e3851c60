package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "plain", in: "Buy milk", want: "Buy milk"},
		{name: "trimmed", in: "  Buy milk\n", want: "Buy milk"},
		{name: "empty", in: "", wantErr: ErrEmptyTitle},
		{name: "whitespace", in: " \t ", wantErr: ErrEmptyTitle},
		{name: "max length", in: strings.Repeat("x", MaxTitleLen), want: strings.Repeat("x", MaxTitleLen)},
		{name: "too long", in: strings.Repeat("x", MaxTitleLen+1), wantErr: ErrTitleTooLong},
		{name: "decomposed counts composed", in: strings.Repeat("a\u0308", MaxTitleLen), want: strings.Repeat("\u00e4", MaxTitleLen)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTitle(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextID(t *testing.T) {
	tests := []struct {
		tasks  []Task
		want   int
		wantOK bool
	}{
		{nil, 1, true},
		{[]Task{{ID: 3}}, 4, true},
		{[]Task{{ID: 2}, {ID: 7}, {ID: 5}}, 8, true},
		{[]Task{{ID: MaxID - 1}}, MaxID, true},
		{[]Task{{ID: 1}, {ID: MaxID}}, 0, false},
	}
	for _, tt := range tests {
		got, ok := NextID(tt.tasks)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.wantOK, ok)
	}
}

func TestSortDesc(t *testing.T) {
	tasks := []Task{{ID: 1}, {ID: 3}, {ID: 2}}
	SortDesc(tasks)
	assert.Equal(t, []Task{{ID: 3}, {ID: 2}, {ID: 1}}, tasks)
}

func TestDefaults_ReturnsCopy(t *testing.T) {
	d := Defaults()
	require.NotEmpty(t, d)
	d[0].Title = "changed"
	d[0].Completed = true

	assert.Equal(t, "Walk the dog", Defaults()[0].Title)
	assert.False(t, Defaults()[0].Completed)
}

func TestEncode(t *testing.T) {
	data, err := Encode([]Task{{ID: 2, Title: "Buy milk"}, {ID: 1, Title: "Walk the dog", Completed: true}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2,"title":"Buy milk","completed":false},{"id":1,"title":"Walk the dog","completed":true}]`, string(data))

	data, err = Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecode_Valid(t *testing.T) {
	got, err := Decode([]byte(`[{"id":2,"title":"Buy milk","completed":true},{"id":1,"title":"Walk the dog","completed":false}]`))
	require.NoError(t, err)
	assert.Equal(t, []Task{{ID: 2, Title: "Buy milk", Completed: true}, {ID: 1, Title: "Walk the dog"}}, got.Tasks)
	assert.Zero(t, got.Dropped)
	assert.Zero(t, got.Repaired)
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{``, `null`, `{}`, `"text"`, `[{"id":1`, `42`} {
		_, err := Decode([]byte(in))
		assert.ErrorIs(t, err, ErrMalformed, "input %q", in)
	}
}

func TestDecode_EmptyArray(t *testing.T) {
	got, err := Decode([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, got.Tasks)
}

func TestDecode_DropsInvalidEntries(t *testing.T) {
	in := `[
		{"id":1,"title":"ok"},
		{"id":0,"title":"zero id"},
		{"id":-3,"title":"negative id"},
		{"id":2.5,"title":"fractional id"},
		{"id":"abc","title":"string id"},
		{"title":"missing id"},
		{"id":4},
		{"id":5,"title":"   "},
		{"id":6,"title":17},
		{"id":1,"title":"duplicate"},
		null,
		7,
		"text"
	]`
	got, err := Decode([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, []Task{{ID: 1, Title: "ok"}}, got.Tasks)
	assert.Equal(t, 12, got.Dropped)
}

func TestDecode_Repairs(t *testing.T) {
	in := `[
		{"id":3,"title":"legacy","complete":true},
		{"id":2.0,"title":"` + strings.Repeat("y", MaxTitleLen+5) + `","completed":false},
		{"id":1,"title":"odd flag","completed":"yes"}
	]`
	got, err := Decode([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, []Task{
		{ID: 3, Title: "legacy", Completed: true},
		{ID: 2, Title: strings.Repeat("y", MaxTitleLen)},
		{ID: 1, Title: "odd flag"},
	}, got.Tasks)
	assert.Equal(t, 3, got.Repaired)
	assert.Zero(t, got.Dropped)
}

func TestDecode_IDBounds(t *testing.T) {
	got, err := Decode([]byte(`[{"id":2147483647,"title":"max"},{"id":2147483648,"title":"over"}]`))
	require.NoError(t, err)
	assert.Equal(t, []Task{{ID: MaxID, Title: "max"}}, got.Tasks)
	assert.Equal(t, 1, got.Dropped)
}

func TestDecode_CompletedWinsOverLegacy(t *testing.T) {
	got, err := Decode([]byte(`[{"id":1,"title":"both","complete":true,"completed":false}]`))
	require.NoError(t, err)
	assert.False(t, got.Tasks[0].Completed)
	assert.Zero(t, got.Repaired)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	want := []Task{{ID: 9, Title: "Ünïcödé ✓"}, {ID: 4, Title: "four", Completed: true}}
	data, err := Encode(want)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, want, got.Tasks)
}
