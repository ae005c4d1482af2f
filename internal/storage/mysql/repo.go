package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"hotel_finder/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveTrip(ctx context.Context, t domain.Trip) error {
	hotel, err := json.Marshal(t.Hotel)
	if err != nil {
		return fmt.Errorf("marshal hotel snapshot for trip %s: %w", t.ID, err)
	}
	_, err = r.db.ExecContext(ctx, upsertTripSQL,
		t.ID,
		string(hotel),
		domain.DateOnly(t.CheckInDate),
		domain.DateOnly(t.CheckOutDate),
		t.NumberOfGuests,
		t.TotalPrice,
		string(t.Status),
		t.CreatedAt.UTC(),
	)
	return err
}

func (r *Repo) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	rows, err := r.db.QueryContext(ctx, listTripsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Trip{}
	for rows.Next() {
		var (
			t      domain.Trip
			hotel  []byte
			status string
		)
		if err := rows.Scan(
			&t.ID,
			&hotel,
			&t.CheckInDate,
			&t.CheckOutDate,
			&t.NumberOfGuests,
			&t.TotalPrice,
			&status,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(hotel, &t.Hotel); err != nil {
			return nil, fmt.Errorf("decode hotel snapshot for trip %s: %w", t.ID, err)
		}
		t.Status = domain.TripStatus(status)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) UpdateTripStatus(ctx context.Context, id string, status domain.TripStatus) error {
	res, err := r.db.ExecContext(ctx, updateTripStatusSQL, string(status), id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *Repo) DeleteTrip(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteTripSQL, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTripNotFound
	}
	return nil
}
