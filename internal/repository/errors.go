package repository

import (
	"errors"
	"fmt"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// constraintErrors maps schema constraint names to the error the validation
// engine raises for the same condition.
var constraintErrors = map[string]*domain.ValidationError{
	"unique_airport_name":       {Kind: domain.KindDuplicateEntity, Fields: nonField(validation.MsgAirportExists)},
	"unique_route":              {Kind: domain.KindDuplicateEntity, Fields: nonField(validation.MsgRouteExists)},
	"unique_airplane_type_name": {Kind: domain.KindDuplicateEntity, Fields: nonField(validation.MsgAirplaneTypeExists)},
	"unique_airplane":           {Kind: domain.KindDuplicateEntity, Fields: nonField(validation.MsgAirplaneExists)},
	"unique_crew_member":        {Kind: domain.KindDuplicateEntity, Fields: nonField(validation.MsgCrewExists)},
	"unique_flight":             {Kind: domain.KindDuplicateEntity, Fields: nonField(validation.MsgFlightExists)},
	"unique_ticket":             {Kind: domain.KindDuplicateEntity, Fields: nonField(validation.MsgSeatTaken)},
	"route_distinct_airports":   {Kind: domain.KindInvalidRelationship, Fields: nonField(validation.MsgRouteSameAirports)},
	"flight_distinct_times":     {Kind: domain.KindInvalidRelationship, Fields: nonField(validation.MsgFlightSameTimes)},
}

func nonField(msg string) []domain.FieldError {
	return []domain.FieldError{{Field: domain.NonFieldErrors, Message: msg}}
}

// translate turns storage errors into domain errors and wraps everything
// else with op.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgCheckViolation:
			if verr, ok := constraintErrors[pgErr.ConstraintName]; ok {
				return &domain.ValidationError{Kind: verr.Kind, Fields: append([]domain.FieldError(nil), verr.Fields...)}
			}
		case pgForeignKeyViolation:
			return domain.NewValidationError(domain.KindInvalidReference, domain.NonFieldErrors, "Referenced object does not exist.")
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
