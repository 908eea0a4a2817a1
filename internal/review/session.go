package review

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/sprite-ai/clauseguard/internal/apperr"
	"github.com/sprite-ai/clauseguard/internal/customize"
	"github.com/sprite-ai/clauseguard/internal/model"
)

// Event describes one dispatched action and its outcome.
type Event struct {
	SessionID string
	ResultID  string
	ClauseID  string
	Action    string
	From      model.ReviewStatus
	To        model.ReviewStatus
	Err       error
}

// Recorder observes session activity. Implementations must not block.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// Recorders fans events out to several recorders.
type Recorders []Recorder

func (rs Recorders) Record(ctx context.Context, e Event) {
	for _, r := range rs {
		if r != nil {
			r.Record(ctx, e)
		}
	}
}

// Progress is the aggregate approval state of a session.
type Progress struct {
	Approved   int `json:"approved"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Session owns the review state of every clause recommended by one analysis
// result. A Session is not safe for concurrent use; actions are expected to
// arrive one at a time from a single user.
type Session struct {
	id       string
	result   *model.AnalysisResult
	order    []string
	clauses  map[string]model.DefenseClause
	states   map[string]ClauseState
	recorder Recorder
}

// Option configures a Session.
type Option func(*Session)

// WithRecorder reports every action to r.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// New initializes a session from an analysis result. Mandatory clauses start
// approved, everything else pending, all on the moderate version.
func New(result *model.AnalysisResult, opts ...Option) *Session {
	s := &Session{
		id:      uuid.Must(uuid.NewV7()).String(),
		result:  result,
		clauses: make(map[string]model.DefenseClause, len(result.RecommendedClauses)),
		states:  make(map[string]ClauseState, len(result.RecommendedClauses)),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, c := range result.RecommendedClauses {
		if _, dup := s.clauses[c.ID]; dup {
			continue
		}
		s.order = append(s.order, c.ID)
		s.clauses[c.ID] = c.Clone()
		s.states[c.ID] = InitialState(c.ID, c.Applicability.Mandatory)
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Result returns the analysis result under review.
func (s *Session) Result() *model.AnalysisResult { return s.result }

// Len returns the number of clauses under review.
func (s *Session) Len() int { return len(s.order) }

// ClauseIDs returns clause ids in review order.
func (s *Session) ClauseIDs() []string { return slices.Clone(s.order) }

// Toggle flips a clause between approved and pending. Rejected clauses become
// approved again, or modified when they still carry customizations.
func (s *Session) Toggle(ctx context.Context, clauseID string) error {
	return s.dispatch(ctx, clauseID, Action{Kind: ActionToggle})
}

// Reject excludes an optional clause. Mandatory clauses cannot be rejected.
func (s *Session) Reject(ctx context.Context, clauseID string) error {
	return s.dispatch(ctx, clauseID, Action{Kind: ActionReject})
}

// Customize merges field values into the clause's customizations. Fields must
// be declared variable fields of the clause.
func (s *Session) Customize(ctx context.Context, clauseID string, fields map[string]string) error {
	if c, ok := s.clauses[clauseID]; ok {
		var unknown []string
		for k := range fields {
			if !slices.Contains(c.CustomizationOptions.VariableFields, k) {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			slices.Sort(unknown)
			err := apperr.New(apperr.KindInvalidInput, "review.Customize",
				clauseID+" has no field "+strings.Join(unknown, ", "))
			s.record(ctx, clauseID, ActionCustomize, s.states[clauseID].Status, s.states[clauseID].Status, err)
			return err
		}
	}
	return s.dispatch(ctx, clauseID, Action{Kind: ActionCustomize, Fields: fields})
}

// Reset discards a clause's customizations.
func (s *Session) Reset(ctx context.Context, clauseID string) error {
	return s.dispatch(ctx, clauseID, Action{Kind: ActionReset})
}

// SelectVersion chooses the aggressive, moderate or minimal text of a clause.
func (s *Session) SelectVersion(ctx context.Context, clauseID string, v model.Version) error {
	return s.dispatch(ctx, clauseID, Action{Kind: ActionSelectVersion, Version: v})
}

// SetNotes records the user's notes on a clause.
func (s *Session) SetNotes(ctx context.Context, clauseID, notes string) error {
	return s.dispatch(ctx, clauseID, Action{Kind: ActionSetNotes, Notes: notes})
}

// Dispatch applies an action to a clause. State is unchanged on error.
func (s *Session) Dispatch(ctx context.Context, clauseID string, a Action) error {
	if a.Kind == ActionCustomize {
		return s.Customize(ctx, clauseID, a.Fields)
	}
	return s.dispatch(ctx, clauseID, a)
}

func (s *Session) dispatch(ctx context.Context, clauseID string, a Action) error {
	cur, ok := s.states[clauseID]
	if !ok {
		err := apperr.New(apperr.KindLookupMiss, "review."+a.Kind.String(), "clause "+clauseID+" is not in session "+s.id)
		s.record(ctx, clauseID, a.Kind, 0, 0, err)
		return err
	}
	next, err := Transition(cur, a)
	if err != nil {
		s.record(ctx, clauseID, a.Kind, cur.Status, cur.Status, err)
		return err
	}
	s.states[clauseID] = next
	s.record(ctx, clauseID, a.Kind, cur.Status, next.Status, nil)
	return nil
}

func (s *Session) record(ctx context.Context, clauseID string, kind ActionKind, from, to model.ReviewStatus, err error) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, Event{
		SessionID: s.id,
		ResultID:  s.result.ID,
		ClauseID:  clauseID,
		Action:    kind.String(),
		From:      from,
		To:        to,
		Err:       err,
	})
}

// State returns a copy of one clause's state.
func (s *Session) State(clauseID string) (ClauseState, error) {
	st, ok := s.states[clauseID]
	if !ok {
		return ClauseState{}, apperr.New(apperr.KindLookupMiss, "review.State", "clause "+clauseID+" is not in session "+s.id)
	}
	return st.clone(), nil
}

// States returns copies of every clause state in review order.
func (s *Session) States() []ClauseState {
	out := make([]ClauseState, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.states[id].clone())
	}
	return out
}

// Clause returns the clause with the session's customizations applied.
func (s *Session) Clause(clauseID string) (model.DefenseClause, error) {
	c, ok := s.clauses[clauseID]
	if !ok {
		return model.DefenseClause{}, apperr.New(apperr.KindLookupMiss, "review.Clause", "clause "+clauseID+" is not in session "+s.id)
	}
	st := s.states[clauseID]
	if st.Status == model.StatusModified {
		return customize.Apply(c, st.Customizations), nil
	}
	return c.Clone(), nil
}

// Progress counts approved and modified clauses.
func (s *Session) Progress() Progress {
	p := Progress{Total: len(s.order)}
	for _, id := range s.order {
		if s.states[id].Status.Included() {
			p.Approved++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Approved) / float64(p.Total) * 100))
	}
	return p
}

// Blocking returns the mandatory clauses that keep the session from being
// finalized.
func (s *Session) Blocking() []string {
	var out []string
	for _, id := range s.order {
		st := s.states[id]
		if st.Mandatory && !st.Status.Included() {
			out = append(out, id)
		}
	}
	return out
}

// Finalize merges approved and modified clauses into the final contract
// clause set, in review order. It fails while a mandatory clause is pending or
// rejected, or when no clause is included at all.
func (s *Session) Finalize(ctx context.Context) (*Contract, error) {
	const op = "review.Finalize"

	if blocking := s.Blocking(); len(blocking) > 0 {
		err := apperr.Wrap(apperr.KindInvalidTransition, op, ErrIncompleteReview.Message,
			apperr.New(apperr.KindInvalidTransition, "", "mandatory clauses not approved: "+strings.Join(blocking, ", ")))
		s.recordFinalize(ctx, err)
		return nil, err
	}

	contract := &Contract{
		SessionID:      s.id,
		ResultID:       s.result.ID,
		Jurisdiction:   s.result.Jurisdiction,
		Clauses:        []FinalClause{},
		Customizations: map[string]map[string]string{},
	}
	for _, id := range s.order {
		st := s.states[id]
		if !st.Status.Included() {
			continue
		}
		c, _ := s.Clause(id)
		fc := FinalClause{
			DefenseClause: c,
			Status:        st.Status,
			Version:       st.SelectedVersion,
			Text:          c.TextFor(st.SelectedVersion),
			Notes:         st.UserNotes,
		}
		if st.Status == model.StatusModified {
			contract.Customizations[id] = st.clone().Customizations
		}
		fc.Unresolved = customize.UnresolvedFor(c, st.SelectedVersion)
		contract.Clauses = append(contract.Clauses, fc)
	}
	if len(contract.Clauses) == 0 {
		err := apperr.Wrap(apperr.KindInvalidTransition, op, ErrIncompleteReview.Message,
			apperr.New(apperr.KindInvalidTransition, "", "no clauses approved"))
		s.recordFinalize(ctx, err)
		return nil, err
	}
	s.recordFinalize(ctx, nil)
	return contract, nil
}

func (s *Session) recordFinalize(ctx context.Context, err error) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, Event{SessionID: s.id, ResultID: s.result.ID, Action: "finalize", Err: err})
}
