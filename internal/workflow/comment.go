package workflow

import (
	"fmt"

	"newsdesk/internal/models"
)

type commentEdge struct {
	from models.CommentStatus
	to   models.CommentStatus
}

// Moderators may reverse a decision, but nothing goes back to pending.
var commentEdges = map[commentEdge]bool{
	{models.CommentStatusPending, models.CommentStatusApproved}:  true,
	{models.CommentStatusPending, models.CommentStatusRejected}:  true,
	{models.CommentStatusApproved, models.CommentStatusRejected}: true,
	{models.CommentStatusRejected, models.CommentStatusApproved}: true,
}

// ValidateCommentTransition checks a moderation request. Only editor and
// admin roles may moderate at all; any other role fails regardless of edge.
func ValidateCommentTransition(sess Session, c *models.Comment, target models.CommentStatus) error {
	if !sess.IsStaff() {
		return models.NewForbiddenTransitionError(
			fmt.Sprintf("role %s may not moderate comments", sess.Role))
	}
	if !target.Valid() {
		return models.NewValidationError(fmt.Sprintf("unknown status %q", target))
	}
	if !commentEdges[commentEdge{c.Status, target}] {
		return models.NewInvalidTransitionError(
			fmt.Sprintf("no transition from %s to %s", c.Status, target))
	}
	return nil
}
