package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComment_RejectsBlankText(t *testing.T) {
	_, err := NewComment("c1", "   \n", nil, NoAnchor(), time.Now())
	assert.ErrorIs(t, err, ErrEmptyComment)
}

func TestNewComment_EmptyParentIsRoot(t *testing.T) {
	empty := ""
	c, err := NewComment("c1", " hi ", &empty, NoAnchor(), time.UnixMilli(42))
	require.NoError(t, err)

	assert.Nil(t, c.ParentID)
	assert.Equal(t, "hi", c.Text)
	assert.Equal(t, int64(42), c.CreatedAt)
	assert.Equal(t, RootKey, c.ThreadKey())
}

func TestRangeAnchor_RejectsInvertedRange(t *testing.T) {
	_, err := RangeAnchor(5, 4, "")
	assert.ErrorIs(t, err, ErrInvalidAnchor)
}

func TestAnchor_ResolvePriority(t *testing.T) {
	lines := []Line{{Start: 1.5}, {Start: 7.25}}
	rng, err := RangeAnchor(3, 4, "quoted")
	require.NoError(t, err)

	cases := []struct {
		name   string
		anchor Anchor
		want   float64
	}{
		{"range", rng.WithLine(1), 3},
		{"point", PointAnchor(2).WithLine(1), 2},
		{"line", LineAnchor(1), 7.25},
		{"line out of range", LineAnchor(9), 0},
		{"none", NoAnchor(), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.anchor.Resolve(lines))
		})
	}
}

func TestComment_ReactAddIsIdempotent(t *testing.T) {
	c := Comment{ID: "c1"}

	assert.True(t, c.React("👍", "client-a", ReactionAdd))
	assert.False(t, c.React("👍", "client-a", ReactionAdd))
	assert.Equal(t, []string{"client-a"}, c.Reactions["👍"])
}

func TestComment_ReactRemoveAbsentIsNoop(t *testing.T) {
	c := Comment{ID: "c1", Reactions: Reactions{"🔥": {"client-b"}}}

	assert.False(t, c.React("🔥", "client-a", ReactionRemove))
	assert.Equal(t, []string{"client-b"}, c.Reactions["🔥"])
}

func TestComment_ReactToggleFlips(t *testing.T) {
	c := Comment{ID: "c1", Reactions: Reactions{}}

	assert.True(t, c.React("🎉", "client-a", ReactionToggle))
	assert.True(t, c.Reactions.Has("🎉", "client-a"))
	assert.True(t, c.React("🎉", "client-a", ReactionToggle))
	assert.False(t, c.Reactions.Has("🎉", "client-a"))
	assert.NotContains(t, c.Reactions, "🎉")
}

func TestComments_SortedIsStable(t *testing.T) {
	cs := Comments{
		{ID: "late", CreatedAt: 30},
		{ID: "tie-1", CreatedAt: 10},
		{ID: "early", CreatedAt: 5},
		{ID: "tie-2", CreatedAt: 10},
	}

	sorted := cs.Sorted()

	ids := make([]string, 0, len(sorted))
	for _, c := range sorted {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"early", "tie-1", "tie-2", "late"}, ids)
	assert.Equal(t, "late", cs[0].ID, "input must not be reordered")
}

func TestComments_ThreadGroupsByParent(t *testing.T) {
	root := "root"
	cs := Comments{
		{ID: "reply-2", ParentID: &root, CreatedAt: 20},
		{ID: "root", CreatedAt: 1},
		{ID: "reply-1", ParentID: &root, CreatedAt: 10},
	}

	threads := cs.Thread()

	require.Len(t, threads[RootKey], 1)
	assert.Equal(t, "root", threads[RootKey][0].ID)
	require.Len(t, threads["root"], 2)
	assert.Equal(t, "reply-1", threads["root"][0].ID)
	assert.Equal(t, "reply-2", threads["root"][1].ID)
}

func TestComment_JSONKeepsAnchorFields(t *testing.T) {
	rng, err := RangeAnchor(1, 2.5, "hello there")
	require.NoError(t, err)
	c, err := NewComment("c1", "nice", nil, rng, time.UnixMilli(100))
	require.NoError(t, err)

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id":"c1","parentId":null,"kind":"range","start":1,"end":2.5,
		"quoteText":"hello there","text":"nice","createdAt":100,"reactions":{}
	}`, string(b))
}

func TestComment_UnmarshalDerivesKind(t *testing.T) {
	var cs Comments
	err := json.Unmarshal([]byte(`[
		{"id":"a","parentId":null,"at":4,"lineIndex":2,"text":"Action: ship it","createdAt":1},
		{"id":"b","parentId":"a","start":9,"text":"range without end","createdAt":2},
		{"id":"c","parentId":null,"lineIndex":0,"text":"line","createdAt":3},
		{"id":"d","parentId":null,"text":"plain","createdAt":4,"reactions":{"👍":["x"]}}
	]`), &cs)
	require.NoError(t, err)
	require.Len(t, cs, 4)

	assert.Equal(t, AnchorKindPoint, cs[0].Anchor.Kind())
	idx, ok := cs[0].Anchor.LineIndex()
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	assert.Equal(t, AnchorKindRange, cs[1].Anchor.Kind())
	assert.Equal(t, 9.0, cs[1].Anchor.Resolve(nil))
	assert.Equal(t, "a", cs[1].ThreadKey())

	assert.Equal(t, AnchorKindLine, cs[2].Anchor.Kind())
	assert.Equal(t, AnchorKindNone, cs[3].Anchor.Kind())
	assert.True(t, cs[3].Reactions.Has("👍", "x"))
	assert.NotNil(t, cs[0].Reactions)
}
