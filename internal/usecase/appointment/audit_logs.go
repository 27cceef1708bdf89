package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type ListAuditLogs struct {
	deps Deps
}

func NewListAuditLogs(deps Deps) *ListAuditLogs {
	return &ListAuditLogs{deps: deps.withDefaults()}
}

// Execute lists the audit trail. Only owners and managers may read it.
func (uc *ListAuditLogs) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	f domain.AuditFilter,
) ([]models.AuditLog, int64, error) {

	if actor.Role != models.RoleOwner && actor.Role != models.RoleManager {
		return nil, 0, httperr.Forbidden("audit_restricted")
	}

	var (
		logs  []models.AuditLog
		total int64
	)
	err := uc.deps.read(ctx, orgID, func(ctx context.Context, tx domain.Tx) error {
		var err error
		logs, total, err = tx.ListAuditLogs(ctx, f)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
