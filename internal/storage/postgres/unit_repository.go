package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fugrusha/booking/internal/app"
	"github.com/fugrusha/booking/internal/domain"
)

const unitColumns = `id, number_of_rooms, accommodation_type, floor, base_cost, total_cost, description, created_at`

type UnitRepository struct {
	pool *pgxpool.Pool
}

func NewUnitRepository(pool *pgxpool.Pool) *UnitRepository {
	return &UnitRepository{pool: pool}
}

func (r *UnitRepository) CreateUnit(ctx context.Context, u domain.Unit) error {
	const stmt = `
INSERT INTO units (id, number_of_rooms, accommodation_type, floor, base_cost, total_cost, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		u.ID, u.NumberOfRooms, u.AccommodationType, u.Floor,
		u.BaseCost, u.TotalCost, u.Description, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

func (r *UnitRepository) GetUnit(ctx context.Context, id string) (domain.Unit, error) {
	const query = `SELECT ` + unitColumns + ` FROM units WHERE id = $1`

	var u domain.Unit
	err := r.queryRow(ctx, query, id).Scan(
		&u.ID, &u.NumberOfRooms, &u.AccommodationType, &u.Floor,
		&u.BaseCost, &u.TotalCost, &u.Description, &u.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Unit{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Unit{}, domain.ErrUnitNotFound
		}
		return domain.Unit{}, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

func (r *UnitRepository) UpdateUnit(ctx context.Context, u domain.Unit) error {
	const stmt = `
UPDATE units
SET number_of_rooms = $2, accommodation_type = $3, floor = $4, base_cost = $5, total_cost = $6, description = $7
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		u.ID, u.NumberOfRooms, u.AccommodationType, u.Floor,
		u.BaseCost, u.TotalCost, u.Description,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUnitNotFound
	}
	return nil
}

func (r *UnitRepository) DeleteUnit(ctx context.Context, id string) error {
	const stmt = `DELETE FROM units WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUnitNotFound
	}
	return nil
}

func (r *UnitRepository) FindUnitsByCriteria(ctx context.Context, filter app.UnitFilter, limit, offset int) ([]domain.Unit, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.NumberOfRooms != nil {
		where = append(where, "number_of_rooms = "+arg(*filter.NumberOfRooms))
	}
	if filter.AccommodationType != nil {
		where = append(where, "accommodation_type = "+arg(*filter.AccommodationType))
	}
	if filter.Floor != nil {
		where = append(where, "floor = "+arg(*filter.Floor))
	}
	if filter.MinTotalCost != nil {
		where = append(where, "total_cost >= "+arg(*filter.MinTotalCost))
	}
	if filter.MaxTotalCost != nil {
		where = append(where, "total_cost <= "+arg(*filter.MaxTotalCost))
	}

	query := `SELECT ` + unitColumns + ` FROM units`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT " + arg(limit) + " OFFSET " + arg(offset)

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find units: %w", err)
	}
	defer rows.Close()

	var out []domain.Unit
	for rows.Next() {
		var u domain.Unit
		if err := rows.Scan(
			&u.ID, &u.NumberOfRooms, &u.AccommodationType, &u.Floor,
			&u.BaseCost, &u.TotalCost, &u.Description, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CountAvailableUnits is the ground-truth aggregate behind the
// availability counter: units with no active booking overlapping
// [from, to).
func (r *UnitRepository) CountAvailableUnits(ctx context.Context, from, to time.Time) (int64, error) {
	query := `
SELECT COUNT(*)
FROM units u
WHERE NOT EXISTS (
	SELECT 1
	FROM bookings b
	WHERE b.unit_id = u.id
	  AND b.status IN (` + activeStatusList + `)
	  AND b.start_date < $2
	  AND b.end_date > $1
)`

	var count int64
	if err := r.queryRow(ctx, query, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count available units: %w", err)
	}
	return count, nil
}

func (r *UnitRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *UnitRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *UnitRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
