package workflow

import (
	"testing"

	"newsdesk/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCommentTransition_Edges(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		from     models.CommentStatus
		to       models.CommentStatus
		wantCode string // empty means accepted
	}{
		{"pending to approved", models.CommentStatusPending, models.CommentStatusApproved, ""},
		{"pending to rejected", models.CommentStatusPending, models.CommentStatusRejected, ""},
		{"approved to rejected", models.CommentStatusApproved, models.CommentStatusRejected, ""},
		{"rejected to approved", models.CommentStatusRejected, models.CommentStatusApproved, ""},
		{"approved back to pending", models.CommentStatusApproved, models.CommentStatusPending, models.CodeInvalidTransition},
		{"rejected back to pending", models.CommentStatusRejected, models.CommentStatusPending, models.CodeInvalidTransition},
		{"pending to pending", models.CommentStatusPending, models.CommentStatusPending, models.CodeInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateCommentTransition(editor, &models.Comment{Status: tc.from}, tc.to)
			if tc.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assertCode(t, err, tc.wantCode)
			}
		})
	}
}

func TestCommentTransition_Roles(t *testing.T) {
	t.Parallel()
	c := &models.Comment{Status: models.CommentStatusPending}

	t.Run("writer may not moderate", func(t *testing.T) {
		t.Parallel()
		err := ValidateCommentTransition(writer, c, models.CommentStatusApproved)
		assertCode(t, err, models.CodeForbiddenTransition)
	})

	t.Run("admin may moderate", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateCommentTransition(admin, c, models.CommentStatusApproved))
	})

	t.Run("moderator may reverse a decision", func(t *testing.T) {
		t.Parallel()
		approved := &models.Comment{Status: models.CommentStatusApproved}
		assert.NoError(t, ValidateCommentTransition(editor, approved, models.CommentStatusRejected))
	})

	t.Run("unknown target status", func(t *testing.T) {
		t.Parallel()
		err := ValidateCommentTransition(editor, c, "spam")
		assertCode(t, err, models.CodeValidation)
	})
}
