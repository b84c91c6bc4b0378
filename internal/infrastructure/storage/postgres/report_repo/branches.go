package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storebooks/internal/core/id"
	"storebooks/internal/domain/reports"
	"storebooks/internal/infrastructure/storage/postgres"
)

// BranchRepo resolves the branches visible to an actor.
type BranchRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ reports.BranchResolver = (*BranchRepo)(nil)

// NewBranchRepo creates a new branch repository.
func NewBranchRepo(txm *postgres.TxManager) *BranchRepo {
	return &BranchRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// branchesQuery selects every branch for admins and assigned branches otherwise.
func (r *BranchRepo) branchesQuery(actor reports.Actor) squirrel.SelectBuilder {
	q := r.builder.Select("b.id").From("branches b")
	if !actor.IsAdmin {
		q = q.Join("user_branches ub ON ub.branch_id = b.id").
			Where(squirrel.Eq{"ub.user_id": actor.UserID})
	}
	return q.OrderBy("b.id")
}

// ResolveBranchIDs returns the branch IDs the actor may report on.
// An anonymous non-admin actor sees no branches.
func (r *BranchRepo) ResolveBranchIDs(ctx context.Context, actor reports.Actor) ([]id.ID, error) {
	if actor.UserID == "" && !actor.IsAdmin {
		return nil, nil
	}

	sql, args, err := r.branchesQuery(actor).ToSql()
	if err != nil {
		return nil, fmt.Errorf("branches query: %w", err)
	}

	var ids []id.ID
	err = r.txm.ReadOnly(ctx, func(ctx context.Context) error {
		return pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &ids, sql, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("resolve branches for %s: %w", actor.UserID, err)
	}

	return ids, nil
}
