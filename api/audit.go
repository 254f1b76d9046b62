package api

import (
	"context"
	"strings"

	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/models"
	"github.com/karchag/karchag-backend/utils"
)

const (
	DEFAULT_ACTIVITY = 50
	MAX_ACTIVITY     = 200
)

var NEWEST_FIRST_MOD = qm.OrderBy(`"audit_logs"."timestamp" DESC, "audit_logs"."id" DESC`)

func AuditLogsHandler(c *gin.Context) {
	var r AuditRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleAuditLogs(c.Request.Context(), getDB(c), r)
	concludeRequest(c, resp, err)
}

func handleAuditLogs(ctx context.Context, exec boil.ContextExecutor, r AuditRequest) (*AuditResponse, *HttpError) {
	mods := make([]qm.QueryMod, 0)
	if r.UserID > 0 {
		mods = append(mods, qm.Where(`"audit_logs"."user_id" = ?`, r.UserID))
	}
	if a := strings.TrimSpace(r.Action); a != "" {
		mods = append(mods, qm.Where(`"audit_logs"."action" ILIKE ?`, "%"+a+"%"))
	}
	if t := strings.TrimSpace(r.TableName); t != "" {
		mods = append(mods, qm.Where(`"audit_logs"."table_name" ILIKE ?`, "%"+t+"%"))
	}

	page, limit, offset := r.paging()
	total, err := models.AuditLogs(mods...).Count(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}

	resp := &AuditResponse{
		AuditLogs: make([]*models.AuditLogWithUser, 0),
		Pagination: AuditPagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: totalPages(total, limit),
		},
	}
	if total == 0 {
		return resp, nil
	}

	mods = append(mods, NEWEST_FIRST_MOD, qm.Limit(limit), qm.Offset(offset))
	logs, err := models.AuditLogsWithUser(mods...).All(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}
	resp.AuditLogs = emptyIfNil(logs)

	return resp, nil
}

// recentActivity returns the newest audit records, limit is clamped to MAX_ACTIVITY.
func recentActivity(ctx context.Context, exec boil.ContextExecutor, limit int) ([]*models.AuditLogWithUser, error) {
	if limit <= 0 {
		limit = DEFAULT_ACTIVITY
	}
	limit = utils.Min(limit, MAX_ACTIVITY)

	logs, err := models.AuditLogsWithUser(NEWEST_FIRST_MOD, qm.Limit(limit)).All(ctx, exec)
	if err != nil {
		return nil, err
	}
	return emptyIfNil(logs), nil
}
