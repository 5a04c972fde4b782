package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNote_HasTag_ExactMembership(t *testing.T) {
	n := Note{Tags: strPtr("math, history")}

	assert.True(t, n.HasTag("math"))
	assert.True(t, n.HasTag("history"))
	assert.True(t, n.HasTag(" History "))
	assert.False(t, n.HasTag("mat"))
	assert.False(t, n.HasTag("story"))
	assert.False(t, n.HasTag(""))
}

func TestNote_TagList_SkipsEmptyEntries(t *testing.T) {
	n := Note{Tags: strPtr(" a,,b , ")}
	assert.Equal(t, []string{"a", "b"}, n.TagList())

	var empty Note
	assert.Nil(t, empty.TagList())
}

func TestNote_MediaURLs(t *testing.T) {
	n := Note{ImageURL: strPtr("/uploads/notes/img-1.png"), AudioURL: strPtr("")}
	assert.Equal(t, []string{"/uploads/notes/img-1.png"}, n.MediaURLs())
}

func TestParseNoteSort(t *testing.T) {
	cases := map[string]NoteSort{
		"":           SortDateDesc,
		"date_desc":  SortDateDesc,
		"date_asc":   SortDateAsc,
		"TITLE_ASC":  SortTitleAsc,
		"title_desc": SortTitleDesc,
		"random":     SortDateDesc,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseNoteSort(in), "input %q", in)
	}
}

func TestNoteRequest_Decode_LenientMediaAndPinned(t *testing.T) {
	body := `{"userId":7,"title":"T","pinned":"1","image":{"nested":true},"video":123,"audio":"data:audio/wav;base64,AAAA"}`

	var req NoteRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	in := req.Input()
	require.NotNil(t, in.UserID)
	assert.Equal(t, int64(7), *in.UserID)
	require.NotNil(t, in.Pinned)
	assert.True(t, *in.Pinned)
	assert.Empty(t, in.Image)
	assert.Empty(t, in.Video)
	assert.Equal(t, "data:audio/wav;base64,AAAA", in.Audio)
}

func TestFlexBool_RejectsGarbage(t *testing.T) {
	var req NoteRequest
	err := json.Unmarshal([]byte(`{"title":"T","pinned":"maybe"}`), &req)
	assert.Error(t, err)
}

func TestUser_Public_HidesHash(t *testing.T) {
	u := User{
		ID:           3,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$secret",
		Birthdate:    time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(u.Public())
	require.NoError(t, err)

	assert.NotContains(t, string(b), "secret")
	assert.Contains(t, string(b), `"birthdate":"1990-05-01"`)
	assert.Contains(t, string(b), `"avatarUrl":null`)
}
