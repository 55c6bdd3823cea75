package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/material-reserve/internal/persistence"
)

// CreateReservation inserts a reservation together with its material links.
func (s *Store) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" || reservation.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO reservations (id, user_id, status, type, purpose, date_start, date_end, start_time, end_time, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			reservation.ID,
			reservation.UserID,
			reservation.Status,
			reservation.Type,
			reservation.Purpose,
			reservation.DateStart.UTC(),
			reservation.DateEnd.UTC(),
			reservation.StartTime,
			reservation.EndTime,
			reservation.CreatedAt.UTC(),
			reservation.UpdatedAt.UTC(),
		)
		if err != nil {
			return mapError(err)
		}

		for _, materialID := range reservation.MaterialIDs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO reservation_materials (reservation_id, material_id) VALUES ($1, $2)",
				reservation.ID, materialID,
			); err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// GetReservation retrieves a reservation with its material links.
func (s *Store) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	if id == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	reservation, err := s.scanReservationRow(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, type, purpose, date_start, date_end, start_time, end_time, created_at, updated_at
		FROM reservations WHERE id = $1`, id))
	if err != nil {
		return persistence.Reservation{}, err
	}

	reservation.MaterialIDs, err = s.materialIDsFor(ctx, reservation.ID)
	if err != nil {
		return persistence.Reservation{}, err
	}
	return reservation, nil
}

// UpdateReservationStatus sets a new status and returns the updated record.
func (s *Store) UpdateReservationStatus(ctx context.Context, id string, status int) (persistence.Reservation, error) {
	if id == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
	if err != nil {
		return persistence.Reservation{}, mapError(err)
	}
	if err := requireRowsAffected(result); err != nil {
		return persistence.Reservation{}, err
	}
	return s.GetReservation(ctx, id)
}

// DeleteReservation removes a reservation and its material links.
func (s *Store) DeleteReservation(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM reservation_materials WHERE reservation_id = $1", id); err != nil {
			return mapError(err)
		}
		result, err := tx.ExecContext(ctx, "DELETE FROM reservations WHERE id = $1", id)
		if err != nil {
			return mapError(err)
		}
		return requireRowsAffected(result)
	})
}

// ListReservations returns all reservations ordered by creation time.
func (s *Store) ListReservations(ctx context.Context) ([]persistence.Reservation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, status, type, purpose, date_start, date_end, start_time, end_time, created_at, updated_at
		FROM reservations ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := s.scanReservationRow(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range reservations {
		reservations[i].MaterialIDs, err = s.materialIDsFor(ctx, reservations[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return reservations, nil
}

// ActiveReservationExists reports whether the user holds a reservation in one
// of the given statuses.
func (s *Store) ActiveReservationExists(ctx context.Context, userID string, statuses []int) (bool, error) {
	if userID == "" || len(statuses) == 0 {
		return false, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, 0, len(statuses)+1)
	args = append(args, userID)
	for i, status := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, status)
	}

	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM reservations WHERE user_id = $1 AND status IN (%s))",
		strings.Join(placeholders, ", "),
	)

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

// LatestReservationForUser returns the most recently created reservation for
// the user.
func (s *Store) LatestReservationForUser(ctx context.Context, userID string) (persistence.Reservation, error) {
	if userID == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	reservation, err := s.scanReservationRow(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, type, purpose, date_start, date_end, start_time, end_time, created_at, updated_at
		FROM reservations WHERE user_id = $1
		ORDER BY created_at DESC, id DESC LIMIT 1`, userID))
	if err != nil {
		return persistence.Reservation{}, err
	}

	reservation.MaterialIDs, err = s.materialIDsFor(ctx, reservation.ID)
	if err != nil {
		return persistence.Reservation{}, err
	}
	return reservation, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanReservationRow(row rowScanner) (persistence.Reservation, error) {
	var reservation persistence.Reservation
	var startTime, endTime sql.NullString

	err := row.Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.Status,
		&reservation.Type,
		&reservation.Purpose,
		&reservation.DateStart,
		&reservation.DateEnd,
		&startTime,
		&endTime,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return persistence.Reservation{}, mapError(err)
	}

	if startTime.Valid {
		value := startTime.String
		reservation.StartTime = &value
	}
	if endTime.Valid {
		value := endTime.String
		reservation.EndTime = &value
	}
	return reservation, nil
}

func (s *Store) materialIDsFor(ctx context.Context, reservationID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT material_id FROM reservation_materials WHERE reservation_id = $1 ORDER BY material_id ASC",
		reservationID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return ids, nil
}
