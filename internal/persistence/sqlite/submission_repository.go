package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/SAR-DEVELOPER/IT/internal/persistence"
)

const (
	// timestampLayout is fixed width so created_at sorts lexically.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

	defaultListLimit = 20
	maxListLimit     = 100

	submissionColumns = `id, request_id, requester_id, session_fingerprint, account_id, title, description,
		time_start, time_end, all_day, duration_minutes, internal_attendants, email_attendants,
		status, meeting_id, error_message, created_at`
)

var _ persistence.SubmissionRepository = (*Storage)(nil)

// RecordSubmission inserts a journal entry. IDs must be unique.
func (s *Storage) RecordSubmission(ctx context.Context, sub persistence.Submission) error {
	if strings.TrimSpace(sub.ID) == "" {
		return fmt.Errorf("sqlite: submission id is required")
	}
	internal, err := encodeList(sub.InternalAttendants)
	if err != nil {
		return err
	}
	emails, err := encodeList(sub.EmailAttendants)
	if err != nil {
		return err
	}
	createdAt := sub.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO submissions (`+submissionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sub.ID, sub.RequestID, sub.RequesterID, sub.SessionFingerprint, sub.AccountID,
			sub.Title, sub.Description, sub.TimeStart, sub.TimeEnd, boolToInt(sub.AllDay),
			sub.DurationMinutes, internal, emails, string(sub.Status), sub.MeetingID,
			sub.ErrorMessage, createdAt.UTC().Format(timestampLayout),
		)
		return mapError(err)
	})
}

// GetSubmission loads one journal entry.
func (s *Storage) GetSubmission(ctx context.Context, id string) (persistence.Submission, error) {
	row := s.pool.DB().QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if err != nil {
		return persistence.Submission{}, mapError(err)
	}
	return sub, nil
}

// ListSubmissions returns entries newest first. Limit defaults to 20 and is
// capped at 100.
func (s *Storage) ListSubmissions(ctx context.Context, filter persistence.SubmissionFilter) ([]persistence.Submission, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.RequesterID != "" {
		clauses = append(clauses, "requester_id = ?")
		args = append(args, filter.RequesterID)
	}
	if filter.SessionFingerprint != "" {
		clauses = append(clauses, "session_fingerprint = ?")
		args = append(args, filter.SessionFingerprint)
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, clampLimit(filter.Limit))

	rows, err := s.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]persistence.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (persistence.Submission, error) {
	var (
		sub       persistence.Submission
		allDay    int
		internal  string
		emails    string
		status    string
		createdAt string
	)
	if err := row.Scan(
		&sub.ID, &sub.RequestID, &sub.RequesterID, &sub.SessionFingerprint, &sub.AccountID,
		&sub.Title, &sub.Description, &sub.TimeStart, &sub.TimeEnd, &allDay,
		&sub.DurationMinutes, &internal, &emails, &status, &sub.MeetingID,
		&sub.ErrorMessage, &createdAt,
	); err != nil {
		return persistence.Submission{}, err
	}

	sub.AllDay = allDay == 1
	sub.Status = persistence.SubmissionStatus(status)
	if err := json.Unmarshal([]byte(internal), &sub.InternalAttendants); err != nil {
		return persistence.Submission{}, fmt.Errorf("sqlite: decode internal attendants for %s: %w", sub.ID, err)
	}
	if err := json.Unmarshal([]byte(emails), &sub.EmailAttendants); err != nil {
		return persistence.Submission{}, fmt.Errorf("sqlite: decode email attendants for %s: %w", sub.ID, err)
	}
	ts, err := time.Parse(timestampLayout, createdAt)
	if err != nil {
		return persistence.Submission{}, fmt.Errorf("sqlite: parse created_at for %s: %w", sub.ID, err)
	}
	sub.CreatedAt = ts
	return sub, nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode list: %w", err)
	}
	return string(raw), nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
