package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepositories(t *testing.T) {
	pool := &pgxpool.Pool{}
	assert.NotNil(t, NewAirportRepository(pool))
	assert.NotNil(t, NewRouteRepository(pool))
	assert.NotNil(t, NewAirplaneTypeRepository(pool))
	assert.NotNil(t, NewAirplaneRepository(pool))
	assert.NotNil(t, NewCrewRepository(pool))
	assert.NotNil(t, NewFlightRepository(pool))
	assert.NotNil(t, NewOrderRepository(pool))
	assert.NotNil(t, NewTicketRepository(pool))
	assert.NotNil(t, NewOutboxRepository(pool))
	assert.NotNil(t, NewLookup(pool))
	assert.NotNil(t, NewTxManager(pool))
}

func TestBuildFlightListQuery(t *testing.T) {
	t.Run("no filter", func(t *testing.T) {
		query, args, err := buildFlightListQuery(domain.FlightFilter{})
		require.NoError(t, err)
		assert.NotContains(t, query, "WHERE")
		assert.Contains(t, query, "ORDER BY f.departure_time, f.id")
		assert.Empty(t, args)
	})

	t.Run("source and destination", func(t *testing.T) {
		query, args, err := buildFlightListQuery(domain.FlightFilter{SourceID: 1, DestinationID: 2})
		require.NoError(t, err)
		assert.Contains(t, query, "WHERE r.source_id = $1 AND r.destination_id = $2")
		assert.Equal(t, []any{int64(1), int64(2)}, args)
	})

	t.Run("date covers one utc day", func(t *testing.T) {
		date := time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC)
		query, args, err := buildFlightListQuery(domain.FlightFilter{Date: date, AirplaneID: 3})
		require.NoError(t, err)
		assert.Contains(t, query, "f.airplane_id = $1")
		assert.Contains(t, query, "f.departure_time >= $2")
		assert.Contains(t, query, "f.departure_time < $3")
		require.Len(t, args, 3)
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), args[1])
		assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), args[2])
	})
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate("op", nil))

	t.Run("no rows", func(t *testing.T) {
		err := translate("get airport", pgx.ErrNoRows)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "get airport")
	})

	t.Run("unique violation", func(t *testing.T) {
		err := translate("insert airport", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "unique_airport_name"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, domain.KindDuplicateEntity, verr.Kind)
		assert.Equal(t, validation.MsgAirportExists, verr.Message())
	})

	t.Run("mapped errors are copies", func(t *testing.T) {
		err := translate("insert ticket", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "unique_ticket"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		verr.Add("row", "changed")
		assert.Len(t, constraintErrors["unique_ticket"].Fields, 1)
	})

	t.Run("check violation", func(t *testing.T) {
		err := translate("insert route", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "route_distinct_airports"})
		kind, ok := domain.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, domain.KindInvalidRelationship, kind)
	})

	t.Run("foreign key violation", func(t *testing.T) {
		err := translate("insert flight", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "flights_route_id_fkey"})
		kind, ok := domain.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, domain.KindInvalidReference, kind)
	})

	t.Run("unknown constraint", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "something_else"}
		err := translate("insert", pgErr)
		_, ok := domain.KindOf(err)
		assert.False(t, ok)
		assert.ErrorIs(t, err, pgErr)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := translate("list flights", cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "list flights: connection reset", err.Error())
	})
}

func TestAffected(t *testing.T) {
	assert.NoError(t, affected("update", 1))
	assert.ErrorIs(t, affected("update", 0), domain.ErrNotFound)
}

func TestGetTx(t *testing.T) {
	assert.Nil(t, GetTx(context.Background()))
	assert.Nil(t, GetTx(context.WithValue(context.Background(), txKey{}, "not a tx")))
}

func TestSchemaDeclaresConstraints(t *testing.T) {
	for name := range constraintErrors {
		assert.Contains(t, schema, fmt.Sprintf("CONSTRAINT %s ", name), name)
	}
}

func TestLookupQueriesExcludeSelf(t *testing.T) {
	for name, query := range map[string]string{
		"airport":       airportNameTakenSQL,
		"route":         routeExistsSQL,
		"airplane type": airplaneTypeNameTakenSQL,
		"airplane":      airplaneExistsSQL,
		"crew":          crewExistsSQL,
		"seat":          seatTakenSQL,
	} {
		assert.Regexp(t, `id<>\$\d+$`, query, name)
	}
}

func TestFlightCollisionQuery(t *testing.T) {
	same, crew, ok := strings.Cut(flightCollisionSQL, "EXISTS (SELECT 1 FROM flights f")
	require.True(t, ok)

	assert.Contains(t, same, "route_id=$1 AND airplane_id=$2 AND departure_time=$3 AND id<>$4")
	assert.NotContains(t, same, "$5")

	assert.Contains(t, crew, "JOIN flight_crew fc ON fc.flight_id = f.id")
	assert.Contains(t, crew, "f.route_id=$1 AND f.airplane_id=$2 AND f.departure_time=$3 AND f.id<>$4")
	assert.Contains(t, crew, "fc.crew_id = ANY($5)")
}

func TestMaxBookedQueries(t *testing.T) {
	assert.Contains(t, maxBookedOnFlightSQL, "COALESCE(MAX(row_num), 0), COALESCE(MAX(seat_num), 0)")
	assert.Contains(t, maxBookedOnFlightSQL, "WHERE flight_id=$1")
	assert.Contains(t, maxBookedOnAirplaneSQL, "JOIN flights f ON f.id = t.flight_id WHERE f.airplane_id=$1")
}

func TestRequeueStaleQuery(t *testing.T) {
	assert.Contains(t, requeueStaleSQL, "SET status=$1")
	assert.Contains(t, requeueStaleSQL, "WHERE status=$2 AND updated_at < now() - make_interval(secs => $3)")
}
