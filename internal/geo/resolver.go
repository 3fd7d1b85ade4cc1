// Package geo resolves coordinates to the census geography whose stored
// tables the analysis runs against.
package geo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/db"
)

// ErrNotFound reports that no geography contains the requested point.
var ErrNotFound = eris.New("geo: no geography contains point")

// Resolver maps a coordinate to a geography identifier (a block group or
// tract GEOID).
type Resolver interface {
	Resolve(ctx context.Context, lat, lng float64) (string, error)
}

// PostgresResolver answers point-in-polygon lookups against a PostGIS
// block_groups relation loaded from TIGER shapefiles.
type PostgresResolver struct {
	pool db.Pool
}

func NewPostgresResolver(pool db.Pool) *PostgresResolver {
	return &PostgresResolver{pool: pool}
}

func (r *PostgresResolver) Resolve(ctx context.Context, lat, lng float64) (string, error) {
	const query = `
		SELECT geoid
		FROM block_groups
		WHERE ST_Contains(geom, ST_SetSRID(ST_MakePoint($1, $2), 4326))
		LIMIT 1`

	var geoid string
	err := r.pool.QueryRow(ctx, query, lng, lat).Scan(&geoid)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", eris.Wrapf(ErrNotFound, "lat=%f lng=%f", lat, lng)
	}
	if err != nil {
		return "", eris.Wrap(err, "geo: resolve point")
	}

	zap.L().Debug("resolved geography",
		zap.Float64("lat", lat),
		zap.Float64("lng", lng),
		zap.String("geoid", geoid))
	return geoid, nil
}

// StaticResolver maps coordinates to geographies from a fixed table. It
// backs fixture-driven runs and tests; Contains is a simple bounding box.
type StaticResolver struct {
	regions []staticRegion
}

type staticRegion struct {
	minLat, maxLat float64
	minLng, maxLng float64
	geoid          string
}

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{}
}

// Add registers a bounding box for a geography. Later additions win on
// overlap only if earlier boxes do not contain the point.
func (r *StaticResolver) Add(geoid string, minLat, maxLat, minLng, maxLng float64) {
	r.regions = append(r.regions, staticRegion{
		minLat: minLat, maxLat: maxLat,
		minLng: minLng, maxLng: maxLng,
		geoid: geoid,
	})
}

func (r *StaticResolver) Resolve(_ context.Context, lat, lng float64) (string, error) {
	for _, reg := range r.regions {
		if lat >= reg.minLat && lat <= reg.maxLat && lng >= reg.minLng && lng <= reg.maxLng {
			return reg.geoid, nil
		}
	}
	return "", eris.Wrapf(ErrNotFound, "lat=%f lng=%f", lat, lng)
}
