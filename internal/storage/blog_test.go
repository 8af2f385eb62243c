package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func blogFixture(t *testing.T) (*Store, *User, *BlogPost) {
	t.Helper()
	s := newTestStore(t)
	u, err := s.CreateUser("amina", "amina@example.ng", "secret123", "")
	require.NoError(t, err)
	p, err := s.CreatePost(u.ID, "Classroom management tips", "Keep routines predictable.", "")
	require.NoError(t, err)
	return s, u, p
}

func TestToggleLikeIsOnePerUser(t *testing.T) {
	s, u, p := blogFixture(t)

	liked, err := s.ToggleLike(p.ID, u.ID)
	require.NoError(t, err)
	require.True(t, liked)

	// toggling again removes it
	liked, err = s.ToggleLike(p.ID, u.ID)
	require.NoError(t, err)
	require.False(t, liked)

	liked, err = s.ToggleLike(p.ID, u.ID)
	require.NoError(t, err)
	require.True(t, liked)

	detail, err := s.GetPostDetail(p.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, detail.Likes)
}

func TestCommentsAppearInOrder(t *testing.T) {
	s, u, p := blogFixture(t)

	_, err := s.AddComment(p.ID, u.ID, "first")
	require.NoError(t, err)
	_, err = s.AddComment(p.ID, u.ID, "second")
	require.NoError(t, err)

	detail, err := s.GetPostDetail(p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	require.Equal(t, "first", detail.Comments[0].Content)

	_, err = s.AddComment(9999, u.ID, "orphan")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePostRemovesCommentsAndLikes(t *testing.T) {
	s, u, p := blogFixture(t)

	_, err := s.AddComment(p.ID, u.ID, "nice")
	require.NoError(t, err)
	_, err = s.ToggleLike(p.ID, u.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeletePost(p.ID))
	require.ErrorIs(t, s.DeletePost(p.ID), ErrNotFound)

	var comments, likes int64
	require.NoError(t, s.DB.Model(&PostComment{}).Count(&comments).Error)
	require.NoError(t, s.DB.Model(&PostLike{}).Count(&likes).Error)
	require.Zero(t, comments)
	require.Zero(t, likes)
}

func TestUpdatePost(t *testing.T) {
	s, _, p := blogFixture(t)

	updated, err := s.UpdatePost(p.ID, "Classroom management tips (2026)", "Revised.", "")
	require.NoError(t, err)
	require.Equal(t, "Classroom management tips (2026)", updated.Title)

	got, err := s.GetPost(p.ID)
	require.NoError(t, err)
	require.Equal(t, "Revised.", got.Content)
}
