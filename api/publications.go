package api

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
	"github.com/karchag/karchag-backend/utils"
)

const (
	DEFAULT_LATEST = 5
	MAX_LATEST     = 20
)

var (
	PUBLISHED_MOD = qm.Where("publication_status = ?", consts.PUB_STATUS_PUBLISHED)
	RECENT_MOD    = qm.OrderBy("published_date DESC NULLS LAST, id DESC")
)

var errInvalidStatus = errors.New("Invalid publication status")

// publicationRecord is a news item or a video
type publicationRecord interface {
	models.Publication
	Update(ctx context.Context, exec boil.ContextExecutor) error
}

// bindPublishRequest tolerates an empty body.
func bindPublishRequest(c *gin.Context) (*PublishRequest, bool) {
	r := new(PublishRequest)
	if c.Request.ContentLength > 0 {
		if c.Bind(r) != nil {
			return nil, false
		}
	}
	return r, true
}

// changePublication publishes or unpublishes the record found by find.
// A PUBLISH audit record keeps the old and the new status.
func changePublication(ctx context.Context, db *sql.DB, al ActivityLogger, table string, id int64,
	find func(ctx context.Context, exec boil.ContextExecutor, id int64) (publicationRecord, error),
	notFoundMsg string, publish bool, date *time.Time) (publicationRecord, *HttpError) {

	var rec publicationRecord
	err := inTransaction(ctx, db, func(tx *sql.Tx) *HttpError {
		var err error
		rec, err = find(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, notFoundMsg)
		}
		oldStatus := rec.GetStatus()

		if publish {
			d := time.Now().UTC()
			if date != nil {
				d = *date
			}
			rec.SetStatus(consts.PUB_STATUS_PUBLISHED, null.TimeFrom(d), true)
		} else {
			rec.SetStatus(consts.PUB_STATUS_UNPUBLISHED, rec.GetPublishedDate(), false)
		}

		if err := rec.Update(ctx, tx); err != nil {
			return notFoundOr(err, notFoundMsg)
		}
		err = al.Log(ctx, tx, consts.AUDIT_PUBLISH, table, id,
			map[string]string{"publication_status": oldStatus},
			map[string]string{"publication_status": rec.GetStatus()})
		if err != nil {
			return NewInternalError(err)
		}
		return nil
	})

	return rec, err
}

// initialStatus is published when a publication date is given, draft otherwise.
func initialStatus(date *time.Time) (string, null.Time) {
	if date != nil {
		return consts.PUB_STATUS_PUBLISHED, null.TimeFrom(*date)
	}
	return consts.PUB_STATUS_DRAFT, null.Time{}
}

// applyStatusChange validates and applies a status given in an update request.
func applyStatusChange(rec publicationRecord, active bool, status *string, date *time.Time) *HttpError {
	newDate := rec.GetPublishedDate()
	if date != nil {
		newDate = null.TimeFrom(*date)
	}

	newStatus := rec.GetStatus()
	if status != nil {
		if !consts.PUB_STATUSES[*status] {
			return NewBadRequestError(errInvalidStatus)
		}
		newStatus = *status
	}
	if newStatus == consts.PUB_STATUS_PUBLISHED && !newDate.Valid {
		newDate = null.TimeFrom(time.Now().UTC())
	}

	rec.SetStatus(newStatus, newDate, active)
	return nil
}

// publicationListMods filters admin lists by status and a title search.
func publicationListMods(r PublicationListRequest) ([]qm.QueryMod, *HttpError) {
	mods := make([]qm.QueryMod, 0)
	if r.Status != "" {
		if !consts.PUB_STATUSES[r.Status] {
			return nil, NewBadRequestError(errInvalidStatus)
		}
		mods = append(mods, qm.Where("publication_status = ?", r.Status))
	}
	if r.Search != "" {
		p := "%" + r.Search + "%"
		mods = append(mods, qm.Where("(english_title ILIKE ? OR tibetan_title ILIKE ?)", p, p))
	}
	return mods, nil
}

func latestLimit(r LatestRequest) int {
	if r.Limit <= 0 {
		return DEFAULT_LATEST
	}
	return utils.Min(r.Limit, MAX_LATEST)
}

// loadPublicationStats counts the records of table by status.
func loadPublicationStats(ctx context.Context, exec boil.ContextExecutor, table string) (*PublicationStats, *HttpError) {
	rows, err := queries.Raw(fmt.Sprintf(`SELECT publication_status, is_active, COUNT(*) FROM %s GROUP BY 1, 2`, table)).
		QueryContext(ctx, exec)
	if err != nil {
		return nil, NewInternalError(errors.Wrapf(err, "%s stats", table))
	}
	defer rows.Close()

	stats := new(PublicationStats)
	for rows.Next() {
		var status string
		var active bool
		var count int64
		if err := rows.Scan(&status, &active, &count); err != nil {
			return nil, NewInternalError(errors.Wrap(err, "rows.Scan"))
		}

		stats.Total += count
		if active {
			stats.Active += count
		}
		switch status {
		case consts.PUB_STATUS_PUBLISHED:
			stats.Published += count
		case consts.PUB_STATUS_DRAFT:
			stats.Draft += count
		case consts.PUB_STATUS_UNPUBLISHED:
			stats.Unpublished += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, NewInternalError(errors.Wrap(err, "rows.Err"))
	}

	return stats, nil
}
