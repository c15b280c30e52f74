package loader

import (
	"context"
	"fmt"

	"nemostore-eda/internal/domain"
	"nemostore-eda/internal/infrastructure/database"
)

const storeQuery = "SELECT * FROM stores"

func (l *Loader) queryStore(ctx context.Context, dsn string) (*domain.RawDataset, error) {
	db, err := l.open(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open store: %w", ErrSourceReadFailure, err)
	}
	defer database.Close(db)

	rows, err := db.WithContext(ctx).Raw(storeQuery).Rows()
	if err != nil {
		return nil, fmt.Errorf("%w: query stores: %w", ErrSourceReadFailure, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: read columns: %w", ErrSourceReadFailure, err)
	}
	ds := &domain.RawDataset{Source: "store", Columns: cols, Rows: []domain.RawRecord{}}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scan row: %w", ErrSourceReadFailure, err)
		}
		rec := make(domain.RawRecord, len(cols))
		for i, c := range cols {
			rec[c] = normalizeScalar(vals[i])
		}
		ds.Rows = append(ds.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %w", ErrSourceReadFailure, err)
	}
	return ds, nil
}

// normalizeScalar turns driver byte slices into strings so raw rows stay
// comparable and survive a JSON round trip through the cache.
func normalizeScalar(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
