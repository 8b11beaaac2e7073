package workflow

import (
	"fmt"
	"strings"
	"time"

	"newsdesk/internal/models"
)

// NewsTransition describes a requested status change on an article.
// Force marks a manual editor/admin override of the scheduled publish time.
type NewsTransition struct {
	Target    models.NewsStatus
	PublishAt *time.Time
	Force     bool
}

// NewsChange is the validated outcome of a transition: the field updates the
// store must apply atomically. EditorID is set when a staff member moves an
// article through review.
type NewsChange struct {
	Status    models.NewsStatus
	PublishAt *time.Time
	EditorID  *uint
}

type newsEdge struct {
	from models.NewsStatus
	to   models.NewsStatus
}

type newsRule struct {
	// allowed decides whether the session may take this edge for the row.
	allowed func(sess Session, n *models.News) bool
	// check validates the precondition and fills the change. A nil error
	// means the transition is accepted.
	check func(sess Session, n *models.News, req NewsTransition, now time.Time, out *NewsChange) error
}

var newsRules = map[newsEdge]newsRule{
	{models.NewsStatusDraft, models.NewsStatusReview}: {
		allowed: func(sess Session, n *models.News) bool {
			return sess.IsStaff() || (sess.Role == models.RoleWriter && sess.UserID == n.AuthorID)
		},
		check: func(_ Session, n *models.News, _ NewsTransition, _ time.Time, _ *NewsChange) error {
			if strings.TrimSpace(n.Title) == "" || strings.TrimSpace(n.Content) == "" {
				return models.NewInvalidTransitionError("cannot submit for review: title and content are required")
			}
			return nil
		},
	},
	{models.NewsStatusReview, models.NewsStatusDraft}: {
		allowed: staffOnly,
	},
	{models.NewsStatusReview, models.NewsStatusPublished}: {
		allowed: staffOnly,
		check: func(sess Session, _ *models.News, _ NewsTransition, now time.Time, out *NewsChange) error {
			// Manual publish stamps the publish time so the published
			// invariant (publish_at <= now) holds.
			at := now
			out.PublishAt = &at
			out.EditorID = &sess.UserID
			return nil
		},
	},
	{models.NewsStatusReview, models.NewsStatusScheduled}: {
		allowed: staffOnly,
		check: func(sess Session, _ *models.News, req NewsTransition, now time.Time, out *NewsChange) error {
			if req.PublishAt == nil {
				return models.NewInvalidTransitionError("cannot schedule: publish_at is required")
			}
			if !req.PublishAt.After(now) {
				return models.NewInvalidTransitionError("cannot schedule: publish_at must be in the future")
			}
			out.PublishAt = req.PublishAt
			out.EditorID = &sess.UserID
			return nil
		},
	},
	{models.NewsStatusScheduled, models.NewsStatusPublished}: {
		allowed: staffOnly,
		check: func(_ Session, n *models.News, req NewsTransition, now time.Time, _ *NewsChange) error {
			if req.Force {
				return nil
			}
			if n.PublishAt == nil || n.PublishAt.After(now) {
				return models.NewInvalidTransitionError("cannot publish: scheduled publish time has not elapsed (use force to override)")
			}
			return nil
		},
	},
	{models.NewsStatusScheduled, models.NewsStatusDraft}: {
		allowed: staffOnly,
		check: func(_ Session, _ *models.News, _ NewsTransition, _ time.Time, out *NewsChange) error {
			out.PublishAt = nil
			return nil
		},
	},
	{models.NewsStatusPublished, models.NewsStatusDraft}: {
		allowed: func(sess Session, _ *models.News) bool { return sess.Role == models.RoleAdmin },
		check: func(_ Session, _ *models.News, _ NewsTransition, _ time.Time, out *NewsChange) error {
			out.PublishAt = nil
			return nil
		},
	},
}

func staffOnly(sess Session, _ *models.News) bool { return sess.IsStaff() }

// ValidateNewsTransition checks the requested transition against the state
// machine and returns the change to persist. Validation is complete before
// any store write happens; on error the row must not be mutated.
func ValidateNewsTransition(sess Session, n *models.News, req NewsTransition, now time.Time) (NewsChange, error) {
	if !req.Target.Valid() {
		return NewsChange{}, models.NewValidationError(fmt.Sprintf("unknown status %q", req.Target))
	}
	rule, ok := newsRules[newsEdge{n.Status, req.Target}]
	if !ok {
		return NewsChange{}, models.NewInvalidTransitionError(
			fmt.Sprintf("no transition from %s to %s", n.Status, req.Target))
	}
	if rule.allowed != nil && !rule.allowed(sess, n) {
		return NewsChange{}, models.NewForbiddenTransitionError(
			fmt.Sprintf("role %s may not transition news from %s to %s", sess.Role, n.Status, req.Target))
	}
	change := NewsChange{Status: req.Target, PublishAt: n.PublishAt, EditorID: n.EditorID}
	if rule.check != nil {
		if err := rule.check(sess, n, req, now, &change); err != nil {
			return NewsChange{}, err
		}
	}
	return change, nil
}

// EffectiveStatus is the read-time projection for scheduled articles: a
// scheduled row whose publish time has elapsed reads as published even if
// the sweep has not persisted it yet. Pure; never writes.
func EffectiveStatus(n *models.News, now time.Time) models.NewsStatus {
	if n.Status == models.NewsStatusScheduled && n.PublishAt != nil && !n.PublishAt.After(now) {
		return models.NewsStatusPublished
	}
	return n.Status
}
