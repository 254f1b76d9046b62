package api

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/auth"
	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
)

const userNotFound = "User not found"

var errDeleteSelf = errors.New("Cannot delete your own account")

func UsersHandler(c *gin.Context) {
	var r UsersRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleUsers(c.Request.Context(), getDB(c), r)
	concludeRequest(c, resp, err)
}

func handleUsers(ctx context.Context, exec boil.ContextExecutor, r UsersRequest) (*UsersResponse, *HttpError) {
	mods := make([]qm.QueryMod, 0)
	if s := strings.TrimSpace(r.Search); s != "" {
		p := "%" + s + "%"
		mods = append(mods, qm.Where("(username ILIKE ? OR email ILIKE ? OR full_name ILIKE ?)", p, p, p))
	}

	page, limit, offset := r.paging()
	total, err := models.Users(mods...).Count(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}

	resp := &UsersResponse{Users: make([]*models.User, 0), Pagination: NewPagination(page, limit, total)}
	if total == 0 {
		return resp, nil
	}

	mods = append(mods, qm.OrderBy("created_at DESC, id DESC"), qm.Limit(limit), qm.Offset(offset))
	users, err := models.Users(mods...).All(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}
	resp.Users = emptyIfNil(users)

	return resp, nil
}

func UserHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	u, err := models.FindUser(c.Request.Context(), getDB(c), id)
	if err != nil {
		notFoundOr(err, userNotFound).Abort(c)
		return
	}
	c.JSON(http.StatusOK, u)
}

func CreateUserHandler(c *gin.Context) {
	var r UserCreateRequest
	if c.Bind(&r) != nil {
		return
	}

	u, err := createUser(c.Request.Context(), getDB(c), NewActivityLogger(c), r.SignupRequest, boolOr(r.IsActive, true), r.IsAdmin)
	if err == nil {
		publishEvent(c, consts.E_USER_CHANGE, consts.TBL_USERS, u.ID)
	}

	concludeRequestWithStatus(c, http.StatusCreated, u, err)
}

func UpdateUserHandler(c *gin.Context) {
	var r UserUpdateRequest
	if c.Bind(&r) != nil {
		return
	}
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	resp, err := handleUpdateUser(c.Request.Context(), getDB(c), NewActivityLogger(c), id, r)
	if err == nil {
		publishEvent(c, consts.E_USER_CHANGE, consts.TBL_USERS, id)
	}

	concludeRequest(c, resp, err)
}

func handleUpdateUser(ctx context.Context, db *sql.DB, al ActivityLogger, id int64, r UserUpdateRequest) (*models.User, *HttpError) {
	var hashed string
	if r.Password != nil {
		var err error
		if hashed, err = auth.HashPassword(*r.Password); err != nil {
			return nil, NewInternalError(err)
		}
	}

	var u *models.User
	herr := inTransaction(ctx, db, func(tx *sql.Tx) *HttpError {
		var err error
		u, err = models.FindUser(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, userNotFound)
		}
		old := *u

		if r.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*r.Email))
			r.Email = &email
		}
		setString(&u.Email, r.Email)
		setNullString(&u.FullName, r.FullName)
		setBool(&u.IsActive, r.IsActive)
		setBool(&u.IsAdmin, r.IsAdmin)
		if hashed != "" {
			u.HashedPassword = hashed
		}

		if err := u.Update(ctx, tx); err != nil {
			return wrapDBError(err, errDuplicateUser)
		}
		if err := al.Log(ctx, tx, consts.AUDIT_UPDATE, consts.TBL_USERS, u.ID, old, u); err != nil {
			return NewInternalError(err)
		}
		return nil
	})

	return u, herr
}

func DeleteUserHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	err := handleDeleteUser(c.Request.Context(), getDB(c), NewActivityLogger(c), currentUser(c), id)
	if err != nil {
		err.Abort(c)
		return
	}

	publishEvent(c, consts.E_USER_CHANGE, consts.TBL_USERS, id)
	c.Status(http.StatusNoContent)
}

func handleDeleteUser(ctx context.Context, db *sql.DB, al ActivityLogger, actor *models.User, id int64) *HttpError {
	if actor != nil && actor.ID == id {
		return NewBadRequestError(errDeleteSelf)
	}

	return inTransaction(ctx, db, func(tx *sql.Tx) *HttpError {
		u, err := models.FindUser(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, userNotFound)
		}
		if _, err := u.Delete(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_DELETE, consts.TBL_USERS, id, u, nil); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
}
