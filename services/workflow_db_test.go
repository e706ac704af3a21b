package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"recruitment-portal-api/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type stepKind int

const (
	kindQuery stepKind = iota
	kindExec
)

// queryStep scripts one expected statement. contains lists argument
// values that must appear, in order, among the statement's args.
type queryStep struct {
	kind     stepKind
	pattern  *regexp.Regexp
	contains []driver.Value
	columns  []string
	rows     [][]driver.Value
}

type scriptedDB struct {
	mu    sync.Mutex
	steps []*queryStep
}

func (db *scriptedDB) next(kind stepKind, query string, args []driver.NamedValue) (*queryStep, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) == 0 {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	step := db.steps[0]
	if step.kind != kind {
		return nil, fmt.Errorf("unexpected kind for query %s", query)
	}
	if !step.pattern.MatchString(query) {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	idx := 0
	for _, arg := range args {
		if idx < len(step.contains) && arg.Value == step.contains[idx] {
			idx++
		}
	}
	if idx != len(step.contains) {
		return nil, fmt.Errorf("missing arg %v in query %s (args %v)", step.contains[idx], query, args)
	}
	db.steps = db.steps[1:]
	return step, nil
}

func (db *scriptedDB) verifyComplete() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) != 0 {
		return fmt.Errorf("unmet expectations: %d", len(db.steps))
	}
	return nil
}

type scriptedDriver struct {
	db *scriptedDB
}

func (d *scriptedDriver) Open(string) (driver.Conn, error) {
	return &scriptedConn{db: d.db}, nil
}

type scriptedConn struct {
	db *scriptedDB
}

func (c *scriptedConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *scriptedConn) Close() error { return nil }

func (c *scriptedConn) Begin() (driver.Tx, error) {
	return scriptedTx{}, nil
}

type scriptedTx struct{}

func (scriptedTx) Commit() error   { return nil }
func (scriptedTx) Rollback() error { return nil }

func (c *scriptedConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	step, err := c.db.next(kindQuery, query, args)
	if err != nil {
		return nil, err
	}
	return &scriptedRows{columns: step.columns, rows: step.rows}, nil
}

func (c *scriptedConn) Query(query string, args []driver.Value) (driver.Rows, error) {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return c.QueryContext(context.Background(), query, named)
}

func (c *scriptedConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if _, err := c.db.next(kindExec, query, args); err != nil {
		return nil, err
	}
	return scriptedResult{lastInsertID: 1, rowsAffected: 1}, nil
}

func (c *scriptedConn) Exec(query string, args []driver.Value) (driver.Result, error) {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return c.ExecContext(context.Background(), query, named)
}

type scriptedResult struct {
	lastInsertID int64
	rowsAffected int64
}

func (r scriptedResult) LastInsertId() (int64, error) { return r.lastInsertID, nil }

func (r scriptedResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }

type scriptedRows struct {
	columns []string
	rows    [][]driver.Value
	idx     int
}

func (r *scriptedRows) Columns() []string { return r.columns }

func (r *scriptedRows) Close() error { return nil }

func (r *scriptedRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.idx]
	for i := range dest {
		dest[i] = nil
	}
	for i := range row {
		dest[i] = row[i]
	}
	r.idx++
	return nil
}

func newScriptedGormDB(t *testing.T, steps []*queryStep) (*gorm.DB, *scriptedDB, func()) {
	t.Helper()
	state := &scriptedDB{steps: steps}
	driverName := fmt.Sprintf("scripted_%d", time.Now().UnixNano())
	sql.Register(driverName, &scriptedDriver{db: state})

	sqlDB, err := sql.Open(driverName, "")
	if err != nil {
		t.Fatalf("failed to open sql db: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create gorm db: %v", err)
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}
	return gormDB, state, cleanup
}

func TestTransitionHoldAppendsPriorStatusToHistory(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .applications. WHERE application_id = .* FOR UPDATE`),
			columns: []string{"application_id", "applicant_id", "post_id", "district_id", "status", "is_locked", "is_deleted"},
			rows:    [][]driver.Value{{int64(1), int64(7), int64(3), int64(2), "ELIGIBLE", true, false}},
		},
		{
			kind:     kindExec,
			pattern:  regexp.MustCompile(`UPDATE .applications. SET .status.=\?,.update_at.=\? WHERE`),
			contains: []driver.Value{"ON_HOLD"},
		},
		{
			kind:     kindExec,
			pattern:  regexp.MustCompile(`INSERT INTO .application_status_history.`),
			contains: []driver.Value{"ELIGIBLE", "ON_HOLD"},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewSelectionService(gormDB, NewDocumentService(gormDB))
	application, err := svc.Transition(1, 9, ActionHold, "Pending committee review")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if application.Status != models.StatusOnHold {
		t.Fatalf("status = %s, want ON_HOLD", application.Status)
	}
	if application.SelectionStatus != nil {
		t.Fatalf("selection_status should stay unset on hold, got %q", *application.SelectionStatus)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestTransitionSelectRejectsFullPost(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .applications. WHERE application_id = .* FOR UPDATE`),
			columns: []string{"application_id", "applicant_id", "post_id", "status", "is_deleted"},
			rows:    [][]driver.Value{{int64(1), int64(7), int64(3), "PROVISIONAL_SELECTED", false}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .posts. WHERE post_id = .* FOR UPDATE`),
			columns: []string{"post_id", "post_code", "total_positions", "filled_positions", "is_active"},
			rows:    [][]driver.Value{{int64(3), "CLK-01", int64(1), int64(1), true}},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewSelectionService(gormDB, NewDocumentService(gormDB))
	_, err := svc.Transition(1, 9, ActionSelect, "")
	appErr, ok := AsAppError(err)
	if !ok || appErr.Kind != ErrKindConflict {
		t.Fatalf("expected conflict on exhausted capacity, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestWithdrawAppendsPriorStatusToHistory(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .applications. WHERE application_id = .* FOR UPDATE`),
			columns: []string{"application_id", "applicant_id", "post_id", "status", "is_deleted"},
			rows:    [][]driver.Value{{int64(1), int64(7), int64(3), "ELIGIBLE", false}},
		},
		{
			kind:     kindExec,
			pattern:  regexp.MustCompile(`UPDATE .applications. SET .status.=\?,.update_at.=\? WHERE`),
			contains: []driver.Value{"WITHDRAWN"},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`UPDATE .application_stage_history. SET .exited_at.=\? WHERE`),
		},
		{
			kind:     kindExec,
			pattern:  regexp.MustCompile(`INSERT INTO .application_status_history.`),
			contains: []driver.Value{"ELIGIBLE", "WITHDRAWN"},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewApplicationService(gormDB, nil, nil, nil, nil)
	if err := svc.Withdraw(7, 1, "No longer interested"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestFinalSubmitMissingDocumentsEndsNotEligible(t *testing.T) {
	dob := time.Date(1990, time.June, 20, 0, 0, 0, 0, time.UTC)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .applications. WHERE application_id = .* FOR UPDATE`),
			columns: []string{"application_id", "applicant_id", "post_id", "district_id", "status", "is_locked", "is_deleted", "applicant_first_name", "applicant_last_name"},
			rows:    [][]driver.Value{{int64(1), int64(7), int64(3), int64(2), "DRAFT", false, false, "Asha", "Verma"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .posts. WHERE post_id = `),
			columns: []string{"post_id", "post_name", "post_code", "component_id", "district_id", "min_experience_months", "total_positions", "filled_positions", "is_active", "is_closed"},
			rows:    [][]driver.Value{{int64(3), "Clerk", "CLK-01", int64(10), int64(2), int64(0), int64(5), int64(0), true, false}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .districts. WHERE`),
			columns: []string{"district_id", "district_name"},
			rows:    [][]driver.Value{{int64(2), "North"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .applicants. WHERE applicant_id`),
			columns: []string{"applicant_id", "user_id", "first_name", "last_name", "date_of_birth", "is_domicile"},
			rows:    [][]driver.Value{{int64(7), int64(4), "Asha", "Verma", dob, false}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .education_records. WHERE`),
			columns: []string{"education_id", "applicant_id", "education_level_id", "passing_year"},
			rows:    [][]driver.Value{{int64(11), int64(7), int64(4), int64(2012)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .education_levels. WHERE`),
			columns: []string{"education_level_id", "level_name", "display_order"},
			rows:    [][]driver.Value{{int64(4), "Graduate", int64(5)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .experience_records. WHERE`),
			columns: []string{"experience_id"},
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT .applicant_id.,.is_domicile. FROM .applicants.`),
			columns: []string{"applicant_id", "is_domicile"},
			rows:    [][]driver.Value{{int64(7), false}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .document_types. WHERE`),
			columns: []string{"document_type_id", "document_type_name", "code", "category", "is_mandatory", "domicile_only", "document_order"},
			rows:    [][]driver.Value{{int64(21), "Photo ID", "PHOTO_ID", "general", true, false, int64(1)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .post_document_requirements. WHERE`),
			columns: []string{"requirement_id"},
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .applicant_documents. WHERE`),
			columns: []string{"document_id"},
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`INSERT INTO application_sequences`),
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT LAST_INSERT_ID\(\)`),
			columns: []string{"LAST_INSERT_ID()"},
			rows:    [][]driver.Value{{int64(42)}},
		},
		{
			kind:     kindExec,
			pattern:  regexp.MustCompile(`UPDATE .applications. SET`),
			contains: []driver.Value{"NOT_ELIGIBLE"},
		},
		{
			kind:     kindExec,
			pattern:  regexp.MustCompile(`INSERT INTO .application_status_history.`),
			contains: []driver.Value{"DRAFT", "SUBMITTED"},
		},
		{
			kind:     kindExec,
			pattern:  regexp.MustCompile(`INSERT INTO .application_status_history.`),
			contains: []driver.Value{"SUBMITTED", "NOT_ELIGIBLE"},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`INSERT INTO .eligibility_results.`),
		},
		{
			kind:     kindExec,
			pattern:  regexp.MustCompile(`INSERT INTO .application_acknowledgements.`),
			contains: []driver.Value{"Asha Verma", "North"},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewApplicationService(gormDB, NewEligibilityService(gormDB), NewDocumentService(gormDB), nil, nil)
	outcome, err := svc.FinalSubmit(7, 1, true, SubmitMeta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != models.StatusNotEligible {
		t.Fatalf("status = %s, want NOT_ELIGIBLE", outcome.Status)
	}
	if !strings.HasSuffix(outcome.ApplicationNumber, "-00042") {
		t.Fatalf("application number = %q, want sequence 00042", outcome.ApplicationNumber)
	}
	if outcome.Application.EligibilityReason == nil ||
		!strings.Contains(*outcome.Application.EligibilityReason, "Missing documents") ||
		!strings.Contains(*outcome.Application.EligibilityReason, "Photo ID") {
		t.Fatalf("expected missing-document reason, got %v", outcome.Application.EligibilityReason)
	}
	if outcome.DocumentCheck.Complete {
		t.Fatal("expected incomplete document check")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestFinalSubmitRejectsLockedApplication(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .applications. WHERE application_id = .* FOR UPDATE`),
			columns: []string{"application_id", "applicant_id", "post_id", "status", "is_locked", "is_deleted"},
			rows:    [][]driver.Value{{int64(1), int64(7), int64(3), "ELIGIBLE", true, false}},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewApplicationService(gormDB, NewEligibilityService(gormDB), NewDocumentService(gormDB), nil, nil)
	_, err := svc.FinalSubmit(7, 1, true, SubmitMeta{})
	appErr, ok := AsAppError(err)
	if !ok || appErr.Kind != ErrKindConflict {
		t.Fatalf("expected conflict on resubmission, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestConfirmPaymentRejectsDuplicateCallback(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .payments. WHERE gateway_order_id = .* FOR UPDATE`),
			columns: []string{"payment_id", "applicant_id", "post_id", "payment_status"},
			rows:    [][]driver.Value{{int64(5), int64(7), int64(3), "SUCCESS"}},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewPaymentService(gormDB, defaultPaymentSettings(), nil)
	_, err := svc.ConfirmPayment(7, "order_1", "pay_1", "sig")
	appErr, ok := AsAppError(err)
	if !ok || appErr.Kind != ErrKindConflict {
		t.Fatalf("expected conflict on duplicate callback, got %v", err)
	}
	if !strings.Contains(appErr.Message, "already processed") {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSchedulerTickClosesExpiredAndFilledPosts(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`UPDATE .posts. SET .is_closed.=.*closing_date <`),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`UPDATE .posts. SET .is_closed.=.*filled_positions >= total_positions`),
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewPostSchedulerService(gormDB, nil, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()
	<-done

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
