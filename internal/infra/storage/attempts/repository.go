package attempts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/holidaze-booking/internal/domain"
	"github.com/m04kA/holidaze-booking/pkg/psqlbuilder"
)

const table = "submission_attempts"

var columns = []string{
	"id",
	"venue_id",
	"owner",
	"date_from",
	"date_to",
	"guests",
	"outcome",
	"error_message",
	"reservation_id",
	"started_at",
	"finished_at",
}

// Repository журнал попыток бронирования в PostgreSQL
type Repository struct {
	db       DBExecutor
	location *time.Location
}

// NewRepository создает новый экземпляр репозитория.
// location - часовой пояс, в котором даты из колонок DATE превращаются обратно в дни.
func NewRepository(db DBExecutor, location *time.Location) *Repository {
	if location == nil {
		location = time.UTC
	}
	return &Repository{db: db, location: location}
}

// Record сохраняет попытку. Повторная запись с тем же id обновляет результат.
func (r *Repository) Record(ctx context.Context, attempt *domain.SubmissionAttempt) error {
	query, args, err := buildUpsert(attempt)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Record - execute upsert: %v", ErrExecQuery, err)
	}
	return nil
}

// GetByID получает попытку по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.SubmissionAttempt, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	attempt, err := r.scanAttempt(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan attempt: %v", ErrScanRow, err)
	}
	return attempt, nil
}

// ListByVenue возвращает последние попытки по площадке, новые первыми.
// Owner и Outcomes фильтра сужают выборку, если заданы.
func (r *Repository) ListByVenue(ctx context.Context, filter domain.AttemptFilter) ([]domain.SubmissionAttempt, error) {
	query, args, err := buildListByVenue(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByVenue - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.SubmissionAttempt, 0)
	for rows.Next() {
		attempt, err := r.scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByVenue - scan attempt: %v", ErrScanRow, err)
		}
		result = append(result, *attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByVenue - rows error: %v", ErrScanRow, err)
	}
	return result, nil
}

func buildUpsert(attempt *domain.SubmissionAttempt) (string, []interface{}, error) {
	if attempt == nil || attempt.ID == "" || attempt.VenueID == "" {
		return "", nil, ErrInvalidAttempt
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns...).
		Values(
			attempt.ID,
			attempt.VenueID,
			attempt.Owner,
			nullDate(attempt.Range.Start()),
			nullDate(attempt.Range.End()),
			attempt.GuestCount,
			string(attempt.Outcome),
			attempt.ErrorMessage,
			attempt.ReservationID,
			attempt.StartedAt,
			attempt.FinishedAt,
		).
		Suffix("ON CONFLICT (id) DO UPDATE SET outcome = EXCLUDED.outcome, " +
			"error_message = EXCLUDED.error_message, " +
			"reservation_id = EXCLUDED.reservation_id, " +
			"finished_at = EXCLUDED.finished_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: Record - build insert query: %v", ErrBuildQuery, err)
	}
	return query, args, nil
}

func buildListByVenue(filter domain.AttemptFilter) (string, []interface{}, error) {
	if filter.VenueID == "" {
		return "", nil, ErrInvalidAttempt
	}

	q := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"venue_id": filter.VenueID}).
		OrderBy("started_at DESC")

	if filter.Owner != "" {
		q = q.Where(squirrel.Eq{"owner": filter.Owner})
	}
	if len(filter.Outcomes) > 0 {
		values := make([]string, 0, len(filter.Outcomes))
		for _, o := range filter.Outcomes {
			values = append(values, string(o))
		}
		q = q.Where("outcome = ANY(?)", pq.Array(values))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: ListByVenue - build select query: %v", ErrBuildQuery, err)
	}
	return query, args, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanAttempt(row rowScanner) (*domain.SubmissionAttempt, error) {
	var attempt domain.SubmissionAttempt
	var outcome string
	var dateFrom, dateTo sql.NullTime
	var errorMessage, reservation sql.NullString

	if err := row.Scan(
		&attempt.ID,
		&attempt.VenueID,
		&attempt.Owner,
		&dateFrom,
		&dateTo,
		&attempt.GuestCount,
		&outcome,
		&errorMessage,
		&reservation,
		&attempt.StartedAt,
		&attempt.FinishedAt,
	); err != nil {
		return nil, err
	}

	rng, err := domain.NewDateRange(r.day(dateFrom), r.day(dateTo))
	if err != nil {
		return nil, err
	}
	attempt.Range = rng
	attempt.Outcome = domain.SubmissionOutcome(outcome)
	if errorMessage.Valid {
		attempt.ErrorMessage = &errorMessage.String
	}
	if reservation.Valid {
		attempt.ReservationID = &reservation.String
	}
	return &attempt, nil
}

// day переносит дату из колонки DATE в часовой пояс репозитория
func (r *Repository) day(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	y, m, d := t.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.location)
}

func nullDate(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
