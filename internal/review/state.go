// Package review implements the clause review session: per-clause approval
// state, customizations and the merge into a final contract clause set.
package review

import (
	"maps"

	"github.com/sprite-ai/clauseguard/internal/apperr"
	"github.com/sprite-ai/clauseguard/internal/model"
)

var (
	// ErrCannotRejectMandatory is returned when rejecting a legally required clause.
	ErrCannotRejectMandatory = &apperr.Error{Kind: apperr.KindInvalidTransition, Message: "cannot reject mandatory clause"}

	// ErrIncompleteReview is returned by Finalize while a mandatory clause is
	// excluded or nothing has been approved.
	ErrIncompleteReview = &apperr.Error{Kind: apperr.KindInvalidTransition, Message: "incomplete review"}
)

// ActionKind identifies a user intent on one clause.
type ActionKind int

const (
	ActionToggle ActionKind = iota
	ActionReject
	ActionCustomize
	ActionReset
	ActionSelectVersion
	ActionSetNotes
)

func (k ActionKind) String() string {
	switch k {
	case ActionToggle:
		return "toggle"
	case ActionReject:
		return "reject"
	case ActionCustomize:
		return "customize"
	case ActionReset:
		return "reset"
	case ActionSelectVersion:
		return "select_version"
	case ActionSetNotes:
		return "set_notes"
	default:
		return "unknown"
	}
}

// Action is a user intent dispatched to a clause.
type Action struct {
	Kind    ActionKind
	Fields  map[string]string // customize
	Version model.Version     // select_version
	Notes   string            // set_notes
}

// ClauseState is the review state of one clause.
type ClauseState struct {
	ClauseID        string             `json:"clauseId"`
	Status          model.ReviewStatus `json:"status"`
	Customizations  map[string]string  `json:"customizations"`
	UserNotes       string             `json:"userNotes"`
	SelectedVersion model.Version      `json:"selectedVersion"`
	Mandatory       bool               `json:"mandatory"`
}

// InitialState is the state a clause starts a session in: approved when
// mandatory, pending otherwise.
func InitialState(clauseID string, mandatory bool) ClauseState {
	st := ClauseState{
		ClauseID:        clauseID,
		Status:          model.StatusPending,
		Customizations:  map[string]string{},
		SelectedVersion: model.VersionModerate,
		Mandatory:       mandatory,
	}
	if mandatory {
		st.Status = model.StatusApproved
	}
	return st
}

func (s ClauseState) clone() ClauseState {
	s.Customizations = maps.Clone(s.Customizations)
	if s.Customizations == nil {
		s.Customizations = map[string]string{}
	}
	return s
}

func invalid(op string, s ClauseState, msg string) error {
	return apperr.New(apperr.KindInvalidTransition, op, s.ClauseID+" is "+s.Status.String()+": "+msg)
}

// Transition applies action to s and returns the new state. It is pure: s is
// never modified, and on error the returned state equals s.
func Transition(s ClauseState, action Action) (ClauseState, error) {
	next := s.clone()
	switch action.Kind {
	case ActionToggle:
		switch s.Status {
		case model.StatusPending:
			next.Status = model.StatusApproved
		case model.StatusRejected:
			// A clause rejected after customizing comes back with its edits.
			next.Status = model.StatusApproved
			if len(s.Customizations) > 0 {
				next.Status = model.StatusModified
				next.SelectedVersion = model.VersionCustom
			}
		case model.StatusApproved:
			next.Status = model.StatusPending
		default:
			return s, invalid("review.Toggle", s, "customized clauses must be reset before toggling")
		}

	case ActionReject:
		if s.Mandatory {
			return s, apperr.New(apperr.KindInvalidTransition, "review.Reject", ErrCannotRejectMandatory.Message)
		}
		next.Status = model.StatusRejected

	case ActionCustomize:
		if s.Status == model.StatusRejected {
			return s, invalid("review.Customize", s, "approve the clause before customizing it")
		}
		for k, v := range action.Fields {
			next.Customizations[k] = v
		}
		next.Status = model.StatusModified
		next.SelectedVersion = model.VersionCustom

	case ActionReset:
		if s.Status != model.StatusModified {
			return s, invalid("review.Reset", s, "only customized clauses can be reset")
		}
		next.Customizations = map[string]string{}
		next.SelectedVersion = model.VersionModerate
		next.Status = model.StatusPending
		if s.Mandatory {
			next.Status = model.StatusApproved
		}

	case ActionSelectVersion:
		switch action.Version {
		case model.VersionModerate, model.VersionAggressive, model.VersionMinimal:
		case model.VersionCustom:
			return s, apperr.New(apperr.KindInvalidInput, "review.SelectVersion", "custom version is set by customizing")
		default:
			return s, apperr.New(apperr.KindInvalidInput, "review.SelectVersion", "unknown version")
		}
		if s.Status != model.StatusPending && s.Status != model.StatusApproved {
			return s, invalid("review.SelectVersion", s, "version can only change on pending or approved clauses")
		}
		next.SelectedVersion = action.Version

	case ActionSetNotes:
		next.UserNotes = action.Notes

	default:
		return s, apperr.New(apperr.KindInvalidInput, "review.Transition", "unknown action "+action.Kind.String())
	}
	return next, nil
}
