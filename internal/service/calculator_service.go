package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/gradecalc/internal/domain"
	"github.com/phrazzld/gradecalc/internal/domain/grading"
	"github.com/phrazzld/gradecalc/internal/events"
	"github.com/phrazzld/gradecalc/internal/store"
)

// CalculatorService provides the operations of the GPA and CGPA calculators.
// Every method that takes a session ID returns ErrSessionNotFound when the
// session does not exist.
type CalculatorService interface {
	// CreateSession starts a session whose calculators each hold one blank row.
	CreateSession(ctx context.Context) (*domain.Session, error)

	// GetSession retrieves a session by its ID
	GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// DeleteSession removes a session and both of its row lists
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// AddSubject appends a blank subject row.
	AddSubject(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// UpdateSubject applies a patch to one subject row and returns the GPA
	// calculator to idle. Returns domain.ErrRowNotFound for an unknown row.
	UpdateSubject(ctx context.Context, id uuid.UUID, rowID string, patch domain.SubjectPatch) (*domain.Session, error)

	// RemoveSubject removes one subject row. Returns domain.ErrLastRow when
	// it is the only row left.
	RemoveSubject(ctx context.Context, id uuid.UUID, rowID string) (*domain.Session, error)

	// ReplaceSubjects replaces the whole subject list. Rows without an ID get
	// one, numeric fields are clamped and an empty list becomes the default row.
	ReplaceSubjects(ctx context.Context, id uuid.UUID, rows []domain.GradeRow) (*domain.Session, error)

	// AddTerm appends a blank term row named "Semester N".
	AddTerm(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// UpdateTerm is UpdateSubject for the CGPA calculator.
	UpdateTerm(ctx context.Context, id uuid.UUID, rowID string, patch domain.TermPatch) (*domain.Session, error)

	// RemoveTerm is RemoveSubject for the CGPA calculator.
	RemoveTerm(ctx context.Context, id uuid.UUID, rowID string) (*domain.Session, error)

	// ReplaceTerms is ReplaceSubjects for the CGPA calculator.
	ReplaceTerms(ctx context.Context, id uuid.UUID, rows []domain.TermRow) (*domain.Session, error)

	// CalculateGPA validates the subject rows and presents their GPA.
	// A rejected list returns its *domain.ValidationError and leaves the
	// previously presented result in place.
	CalculateGPA(ctx context.Context, id uuid.UUID) (*domain.Result, error)

	// CalculateCGPA is CalculateGPA for the term rows; the result carries a band.
	CalculateCGPA(ctx context.Context, id uuid.UUID) (*domain.Result, error)

	// ResetGPA restores the default subject row and clears the result.
	ResetGPA(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// ResetCGPA restores the default term row and clears the result.
	ResetCGPA(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// Export returns a snapshot of the session together with the grading scale.
	Export(ctx context.Context, id uuid.UUID) (*domain.ExportSnapshot, error)

	// EvaluateSubjects computes a GPA without a session.
	EvaluateSubjects(ctx context.Context, rows []domain.GradeRow) (*domain.Result, error)

	// EvaluateTerms computes a banded CGPA without a session.
	EvaluateTerms(ctx context.Context, rows []domain.TermRow) (*domain.Result, error)

	// PurgeStaleSessions removes sessions not updated within maxAge.
	PurgeStaleSessions(ctx context.Context, maxAge time.Duration) (int64, error)
}

// calculatorServiceImpl implements the CalculatorService interface
type calculatorServiceImpl struct {
	sessionRepo  SessionRepository
	grader       grading.Service
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

// NewCalculatorService creates a new CalculatorService.
// It returns an error if any of the required dependencies are nil.
func NewCalculatorService(
	sessionRepo SessionRepository,
	grader grading.Service,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (CalculatorService, error) {
	if sessionRepo == nil {
		return nil, &CalculatorServiceError{
			Operation: "create_service",
			Message:   "sessionRepo cannot be nil",
		}
	}
	if grader == nil {
		return nil, &CalculatorServiceError{
			Operation: "create_service",
			Message:   "grader cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &CalculatorServiceError{
			Operation: "create_service",
			Message:   "eventEmitter cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &calculatorServiceImpl{
		sessionRepo:  sessionRepo,
		grader:       grader,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "calculator_service"),
	}, nil
}

// CreateSession implements CalculatorService.CreateSession
func (s *calculatorServiceImpl) CreateSession(ctx context.Context) (*domain.Session, error) {
	session := domain.NewSession()

	err := store.RunInTransaction(ctx, s.sessionRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		return s.sessionRepo.WithTx(tx).Create(ctx, session)
	})
	if err != nil {
		s.logger.Error("failed to create session",
			"error", err,
			"session_id", session.ID)
		return nil, NewCalculatorServiceError("create_session", "failed to save session", err)
	}

	s.logger.Info("session created", "session_id", session.ID)
	return session, nil
}

// GetSession implements CalculatorService.GetSession
func (s *calculatorServiceImpl) GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	session, err := s.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, NewCalculatorServiceError("get_session", "failed to retrieve session", err)
	}
	return session, nil
}

// DeleteSession implements CalculatorService.DeleteSession
func (s *calculatorServiceImpl) DeleteSession(ctx context.Context, id uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.sessionRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		return s.sessionRepo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return NewCalculatorServiceError("delete_session", "failed to delete session", err)
	}

	s.logger.Info("session deleted", "session_id", id)
	return nil
}

// AddSubject implements CalculatorService.AddSubject
func (s *calculatorServiceImpl) AddSubject(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return s.mutate(ctx, "add_subject", id, func(session *domain.Session) error {
		list := &session.Subjects
		list.Rows = append(domain.CopyRows(list.Rows), domain.NewGradeRow())
		return edited(&list.State)
	})
}

// UpdateSubject implements CalculatorService.UpdateSubject
func (s *calculatorServiceImpl) UpdateSubject(
	ctx context.Context,
	id uuid.UUID,
	rowID string,
	patch domain.SubjectPatch,
) (*domain.Session, error) {
	return s.mutate(ctx, "update_subject", id, func(session *domain.Session) error {
		list := &session.Subjects
		rows, err := domain.UpdateRow(list.Rows, rowID, func(r domain.GradeRow) domain.GradeRow {
			return r.Apply(patch)
		})
		if err != nil {
			return err
		}
		list.Rows = rows
		return edited(&list.State)
	})
}

// RemoveSubject implements CalculatorService.RemoveSubject
func (s *calculatorServiceImpl) RemoveSubject(
	ctx context.Context,
	id uuid.UUID,
	rowID string,
) (*domain.Session, error) {
	return s.mutate(ctx, "remove_subject", id, func(session *domain.Session) error {
		list := &session.Subjects
		rows, err := domain.RemoveRow(list.Rows, rowID)
		if err != nil {
			return err
		}
		list.Rows = rows
		return edited(&list.State)
	})
}

// ReplaceSubjects implements CalculatorService.ReplaceSubjects
func (s *calculatorServiceImpl) ReplaceSubjects(
	ctx context.Context,
	id uuid.UUID,
	rows []domain.GradeRow,
) (*domain.Session, error) {
	normalized, err := domain.NormalizeGradeRows(rows)
	if err != nil {
		return nil, NewCalculatorServiceError("replace_subjects", "invalid subject rows", err)
	}
	return s.mutate(ctx, "replace_subjects", id, func(session *domain.Session) error {
		session.Subjects.Rows = normalized
		return edited(&session.Subjects.State)
	})
}

// AddTerm implements CalculatorService.AddTerm
func (s *calculatorServiceImpl) AddTerm(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return s.mutate(ctx, "add_term", id, func(session *domain.Session) error {
		list := &session.Terms
		list.Rows = append(domain.CopyRows(list.Rows), domain.NewTermRow(len(list.Rows)+1))
		return edited(&list.State)
	})
}

// UpdateTerm implements CalculatorService.UpdateTerm
func (s *calculatorServiceImpl) UpdateTerm(
	ctx context.Context,
	id uuid.UUID,
	rowID string,
	patch domain.TermPatch,
) (*domain.Session, error) {
	return s.mutate(ctx, "update_term", id, func(session *domain.Session) error {
		list := &session.Terms
		rows, err := domain.UpdateRow(list.Rows, rowID, func(r domain.TermRow) domain.TermRow {
			return r.Apply(patch)
		})
		if err != nil {
			return err
		}
		list.Rows = rows
		return edited(&list.State)
	})
}

// RemoveTerm implements CalculatorService.RemoveTerm
func (s *calculatorServiceImpl) RemoveTerm(ctx context.Context, id uuid.UUID, rowID string) (*domain.Session, error) {
	return s.mutate(ctx, "remove_term", id, func(session *domain.Session) error {
		list := &session.Terms
		rows, err := domain.RemoveRow(list.Rows, rowID)
		if err != nil {
			return err
		}
		list.Rows = rows
		return edited(&list.State)
	})
}

// ReplaceTerms implements CalculatorService.ReplaceTerms
func (s *calculatorServiceImpl) ReplaceTerms(
	ctx context.Context,
	id uuid.UUID,
	rows []domain.TermRow,
) (*domain.Session, error) {
	normalized, err := domain.NormalizeTermRows(rows)
	if err != nil {
		return nil, NewCalculatorServiceError("replace_terms", "invalid term rows", err)
	}
	return s.mutate(ctx, "replace_terms", id, func(session *domain.Session) error {
		session.Terms.Rows = normalized
		return edited(&session.Terms.State)
	})
}

// CalculateGPA implements CalculatorService.CalculateGPA
func (s *calculatorServiceImpl) CalculateGPA(ctx context.Context, id uuid.UUID) (*domain.Result, error) {
	var out calculation
	_, err := s.mutate(ctx, "calculate_gpa", id, func(session *domain.Session) error {
		list := &session.Subjects
		rows := domain.CopyRows(list.Rows)
		var err error
		out, err = run(&list.State, func() (*domain.Result, error) {
			return s.grader.EvaluateSubjects(rows)
		})
		if err != nil {
			return err
		}
		if out.result != nil {
			list.Result = out.result
		}
		out.rows = len(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, id, domain.SubjectListKey, out)
}

// CalculateCGPA implements CalculatorService.CalculateCGPA
func (s *calculatorServiceImpl) CalculateCGPA(ctx context.Context, id uuid.UUID) (*domain.Result, error) {
	var out calculation
	_, err := s.mutate(ctx, "calculate_cgpa", id, func(session *domain.Session) error {
		list := &session.Terms
		rows := domain.CopyRows(list.Rows)
		var err error
		out, err = run(&list.State, func() (*domain.Result, error) {
			return s.grader.EvaluateTerms(rows)
		})
		if err != nil {
			return err
		}
		if out.result != nil {
			list.Result = out.result
		}
		out.rows = len(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, id, domain.TermListKey, out)
}

// ResetGPA implements CalculatorService.ResetGPA
func (s *calculatorServiceImpl) ResetGPA(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	session, err := s.mutate(ctx, "reset_gpa", id, func(session *domain.Session) error {
		session.Subjects = domain.SubjectList{Rows: domain.DefaultGradeRows(), State: domain.StateIdle}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.TypeCalculatorReset, id, domain.SubjectListKey, "", nil)
	return session, nil
}

// ResetCGPA implements CalculatorService.ResetCGPA
func (s *calculatorServiceImpl) ResetCGPA(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	session, err := s.mutate(ctx, "reset_cgpa", id, func(session *domain.Session) error {
		session.Terms = domain.TermList{Rows: domain.DefaultTermRows(), State: domain.StateIdle}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.TypeCalculatorReset, id, domain.TermListKey, "", nil)
	return session, nil
}

// Export implements CalculatorService.Export
func (s *calculatorServiceImpl) Export(ctx context.Context, id uuid.UUID) (*domain.ExportSnapshot, error) {
	session, err := s.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, NewCalculatorServiceError("export", "failed to retrieve session", err)
	}

	return &domain.ExportSnapshot{
		SessionID:  session.ID,
		Subjects:   session.Subjects,
		Terms:      session.Terms,
		GradeScale: grading.Scale(),
		ExportedAt: time.Now().UTC(),
	}, nil
}

// EvaluateSubjects implements CalculatorService.EvaluateSubjects
func (s *calculatorServiceImpl) EvaluateSubjects(ctx context.Context, rows []domain.GradeRow) (*domain.Result, error) {
	result, err := s.grader.EvaluateSubjects(rows)
	if err != nil {
		s.logger.DebugContext(ctx, "subject rows rejected", "error", err)
		return nil, NewCalculatorServiceError("evaluate_subjects", "evaluation failed", err)
	}
	return result, nil
}

// EvaluateTerms implements CalculatorService.EvaluateTerms
func (s *calculatorServiceImpl) EvaluateTerms(ctx context.Context, rows []domain.TermRow) (*domain.Result, error) {
	result, err := s.grader.EvaluateTerms(rows)
	if err != nil {
		s.logger.DebugContext(ctx, "term rows rejected", "error", err)
		return nil, NewCalculatorServiceError("evaluate_terms", "evaluation failed", err)
	}
	return result, nil
}

// PurgeStaleSessions implements CalculatorService.PurgeStaleSessions
func (s *calculatorServiceImpl) PurgeStaleSessions(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, &CalculatorServiceError{
			Operation: "purge_stale_sessions",
			Message:   fmt.Sprintf("max age must be positive, got %s", maxAge),
		}
	}

	cutoff := time.Now().UTC().Add(-maxAge)
	var removed int64
	err := store.RunInTransaction(ctx, s.sessionRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		n, err := s.sessionRepo.WithTx(tx).DeleteStale(ctx, cutoff)
		removed = n
		return err
	})
	if err != nil {
		return 0, NewCalculatorServiceError("purge_stale_sessions", "failed to delete stale sessions", err)
	}

	if removed > 0 {
		s.logger.Info("stale sessions purged",
			"count", removed,
			"cutoff", cutoff)
	}
	return removed, nil
}

// mutate loads a session for update, applies fn, and saves it in one
// transaction. Nothing is written if fn fails.
func (s *calculatorServiceImpl) mutate(
	ctx context.Context,
	operation string,
	id uuid.UUID,
	fn func(session *domain.Session) error,
) (*domain.Session, error) {
	var session *domain.Session
	err := store.RunInTransaction(ctx, s.sessionRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.sessionRepo.WithTx(tx)

		current, err := txRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(current); err != nil {
			return err
		}

		current.Touch()
		if err := txRepo.Save(ctx, current); err != nil {
			s.logger.Error("failed to save session in transaction",
				"error", err,
				"operation", operation,
				"session_id", id)
			return err
		}
		session = current
		return nil
	})
	if err != nil {
		return nil, NewCalculatorServiceError(operation, "failed to update session", err)
	}
	return session, nil
}

// finish reports a completed run after its transaction has committed.
func (s *calculatorServiceImpl) finish(
	ctx context.Context,
	id uuid.UUID,
	list domain.ListKey,
	out calculation,
) (*domain.Result, error) {
	if out.rejection != nil {
		s.emit(ctx, events.TypeCalculationRejected, id, list, out.rejection.Category, rejectedPayload{
			RowIndex: out.rejection.RowIndex,
			RowID:    out.rejection.RowID,
			Field:    out.rejection.Field,
			Message:  out.rejection.Message,
		})
		return nil, out.rejection
	}

	s.emit(ctx, events.TypeCalculationCompleted, id, list, "", completedPayload{
		Value:   out.result.Value,
		Rounded: out.result.Rounded,
		Band:    out.result.Band,
		Rows:    out.rows,
	})
	return out.result, nil
}

// emit publishes an event. Failures are logged; the state change they
// describe has already been committed.
func (s *calculatorServiceImpl) emit(
	ctx context.Context,
	eventType string,
	id uuid.UUID,
	list domain.ListKey,
	category domain.Category,
	payload any,
) {
	event, err := events.NewCalculationEvent(eventType, id, list, payload)
	if err != nil {
		s.logger.Error("failed to create event",
			"error", err,
			"event_type", eventType,
			"session_id", id)
		return
	}
	event.Category = category

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit event",
			"error", err,
			"event_type", eventType,
			"event_id", event.ID,
			"session_id", id)
	}
}

type completedPayload struct {
	Value   float64     `json:"value"`
	Rounded float64     `json:"rounded"`
	Band    domain.Band `json:"band,omitempty"`
	Rows    int         `json:"rows"`
}

type rejectedPayload struct {
	RowIndex int    `json:"row_index"`
	RowID    string `json:"row_id,omitempty"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

// calculation is the outcome of one run: a result or a rejection.
type calculation struct {
	result    *domain.Result
	rejection *domain.ValidationError
	rows      int
}

// run drives one calculator through validating, then rejected and back to
// idle, or through computing to presented.
func run(state *domain.CalcState, evaluate func() (*domain.Result, error)) (calculation, error) {
	if err := advance(state, domain.StateValidating); err != nil {
		return calculation{}, err
	}

	result, err := evaluate()
	if err != nil {
		ve, ok := domain.AsValidationError(err)
		if !ok {
			return calculation{}, err
		}
		if err := advance(state, domain.StateRejected); err != nil {
			return calculation{}, err
		}
		if err := advance(state, domain.StateIdle); err != nil {
			return calculation{}, err
		}
		return calculation{rejection: ve}, nil
	}

	if err := advance(state, domain.StateComputing); err != nil {
		return calculation{}, err
	}
	if err := advance(state, domain.StatePresented); err != nil {
		return calculation{}, err
	}
	return calculation{result: result}, nil
}

// edited returns a calculator to idle after its rows change.
func edited(state *domain.CalcState) error {
	return advance(state, domain.StateIdle)
}

func advance(state *domain.CalcState, next domain.CalcState) error {
	if !state.CanTransition(next) {
		return fmt.Errorf("%w: %s to %s", domain.ErrInvalidState, *state, next)
	}
	*state = next
	return nil
}
