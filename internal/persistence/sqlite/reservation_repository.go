package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

// ReservationRepository implements persistence.ReservationRepository using SQLite.
type ReservationRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewReservationRepository creates a new SQLite reservation repository.
func NewReservationRepository(pool *ConnectionPool) *ReservationRepository {
	return &ReservationRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateReservation inserts a reservation together with its material links.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" || reservation.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO reservations (id, user_id, status, type, purpose, date_start, date_end, start_time, end_time, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`

		_, err := r.helper.ExecTx(tx, query,
			reservation.ID,
			reservation.UserID,
			reservation.Status,
			reservation.Type,
			reservation.Purpose,
			reservation.DateStart.UTC().Format(time.RFC3339),
			reservation.DateEnd.UTC().Format(time.RFC3339),
			nullableString(reservation.StartTime),
			nullableString(reservation.EndTime),
			reservation.CreatedAt.UTC().Format(time.RFC3339),
			reservation.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		for _, materialID := range reservation.MaterialIDs {
			_, err := r.helper.ExecTx(tx,
				"INSERT INTO reservation_materials (reservation_id, material_id) VALUES (?, ?)",
				reservation.ID, materialID,
			)
			if err != nil {
				return r.mapper.MapError(err)
			}
		}

		return nil
	})
}

// GetReservation retrieves a reservation with its material links.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	if id == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, user_id, status, type, purpose, date_start, date_end, start_time, end_time, created_at, updated_at
		FROM reservations
		WHERE id = ?
	`

	reservation, err := scanReservation(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Reservation{}, persistence.ErrNotFound
		}
		return persistence.Reservation{}, r.mapper.MapError(err)
	}

	reservation.MaterialIDs, err = r.materialIDsFor(ctx, reservation.ID)
	if err != nil {
		return persistence.Reservation{}, err
	}

	return reservation, nil
}

// UpdateReservationStatus sets a new status and returns the updated record.
func (r *ReservationRepository) UpdateReservationStatus(ctx context.Context, id string, status int) (persistence.Reservation, error) {
	if id == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return persistence.Reservation{}, r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	return r.GetReservation(ctx, id)
}

// DeleteReservation removes a reservation and its material links.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := r.helper.ExecTx(tx, "DELETE FROM reservation_materials WHERE reservation_id = ?", id); err != nil {
			return r.mapper.MapError(err)
		}

		result, err := r.helper.ExecTx(tx, "DELETE FROM reservations WHERE id = ?", id)
		if err != nil {
			return r.mapper.MapError(err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return persistence.ErrNotFound
		}

		return nil
	})
}

// ListReservations returns all reservations ordered by creation time.
func (r *ReservationRepository) ListReservations(ctx context.Context) ([]persistence.Reservation, error) {
	query := `
		SELECT id, user_id, status, type, purpose, date_start, date_end, start_time, end_time, created_at, updated_at
		FROM reservations
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	for i := range reservations {
		reservations[i].MaterialIDs, err = r.materialIDsFor(ctx, reservations[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return reservations, nil
}

// ActiveReservationExists reports whether the user holds a reservation in one
// of the given statuses.
func (r *ReservationRepository) ActiveReservationExists(ctx context.Context, userID string, statuses []int) (bool, error) {
	if userID == "" || len(statuses) == 0 {
		return false, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, 0, len(statuses)+1)
	args = append(args, userID)
	for i, status := range statuses {
		placeholders[i] = "?"
		args = append(args, status)
	}

	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM reservations WHERE user_id = ? AND status IN (%s))",
		strings.Join(placeholders, ", "),
	)

	var exists bool
	if err := r.helper.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, r.mapper.MapError(err)
	}
	return exists, nil
}

// LatestReservationForUser returns the most recently created reservation for
// the user.
func (r *ReservationRepository) LatestReservationForUser(ctx context.Context, userID string) (persistence.Reservation, error) {
	if userID == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, user_id, status, type, purpose, date_start, date_end, start_time, end_time, created_at, updated_at
		FROM reservations
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	reservation, err := scanReservation(r.helper.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Reservation{}, persistence.ErrNotFound
		}
		return persistence.Reservation{}, r.mapper.MapError(err)
	}

	reservation.MaterialIDs, err = r.materialIDsFor(ctx, reservation.ID)
	if err != nil {
		return persistence.Reservation{}, err
	}

	return reservation, nil
}

func (r *ReservationRepository) materialIDsFor(ctx context.Context, reservationID string) ([]string, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT material_id FROM reservation_materials WHERE reservation_id = ? ORDER BY material_id ASC",
		reservationID,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, r.mapper.MapError(err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return ids, nil
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var reservation persistence.Reservation
	var dateStartStr, dateEndStr, createdAtStr, updatedAtStr string
	var startTime, endTime sql.NullString

	err := row.Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.Status,
		&reservation.Type,
		&reservation.Purpose,
		&dateStartStr,
		&dateEndStr,
		&startTime,
		&endTime,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Reservation{}, err
	}

	if startTime.Valid {
		value := startTime.String
		reservation.StartTime = &value
	}
	if endTime.Valid {
		value := endTime.String
		reservation.EndTime = &value
	}

	if reservation.DateStart, err = time.Parse(time.RFC3339, dateStartStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse date_start: %w", err)
	}
	if reservation.DateEnd, err = time.Parse(time.RFC3339, dateEndStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse date_end: %w", err)
	}
	if reservation.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if reservation.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return reservation, nil
}
