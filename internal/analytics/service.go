package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultProcedure is the SQL function installed by the embedded migrations.
const DefaultProcedure = "creator_dashboard_analytics"

var procedurePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

type rawQuerier interface {
	Raw(ctx context.Context, query string, args ...any) *gorm.DB
}

// Service exposes the creator dashboard aggregation. Aggregation lives in the
// database function; the result is handed back untouched.
type Service interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (json.RawMessage, error)
}

type service struct {
	db    rawQuerier
	query string
}

func NewService(db rawQuerier, procedure string) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	if procedure == "" {
		procedure = DefaultProcedure
	}
	if !procedurePattern.MatchString(procedure) {
		return nil, fmt.Errorf("invalid analytics procedure name %q", procedure)
	}
	return &service{
		db:    db,
		query: fmt.Sprintf("SELECT %s(?) AS result", procedure),
	}, nil
}

func (s *service) Dashboard(ctx context.Context, userID uuid.UUID) (json.RawMessage, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user id")
	}

	var result sql.NullString
	if err := s.db.Raw(ctx, s.query, userID.String()).Row().Scan(&result); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query analytics")
	}
	if !result.Valid {
		return json.RawMessage("null"), nil
	}
	if !json.Valid([]byte(result.String)) {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "analytics procedure returned invalid json")
	}
	return json.RawMessage(result.String), nil
}
