package api

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	log "github.com/Sirupsen/logrus"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/auth"
	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
)

var (
	errBadCredentials = errors.New("Incorrect username or password")
	errInactiveUser   = errors.New("Inactive user")
	errNotAdmin       = errors.New("Admin privileges required")
)

const errDuplicateUser = "Username or email already exists"

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// authenticate resolves the active user behind an access token
func authenticate(ctx context.Context, exec boil.ContextExecutor, tm *auth.TokenManager, token string) (*models.User, *HttpError) {
	if token == "" {
		return nil, NewUnauthorizedError(auth.ErrInvalidToken)
	}

	claims, err := tm.Verify(token, consts.TOKEN_ACCESS)
	if err != nil {
		log.Debugf("authenticate: %s", err.Error())
		return nil, NewUnauthorizedError(errors.Cause(err))
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, NewUnauthorizedError(auth.ErrInvalidToken)
	}

	u, err := models.FindUser(ctx, exec, id)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, NewUnauthorizedError(auth.ErrInvalidToken)
		}
		return nil, NewInternalError(err)
	}
	if !u.IsActive {
		return nil, NewUnauthorizedError(errInactiveUser)
	}

	return u, nil
}

// AuthenticationMiddleware requires a valid access token of an active user.
func AuthenticationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := authenticate(c.Request.Context(), getDB(c), getTokens(c), bearerToken(c.Request))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			err.Abort(c)
			return
		}
		c.Set(consts.CTX_USER, u)
		c.Next()
	}
}

// AdminMiddleware must run after AuthenticationMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := currentUser(c); u == nil || !u.IsAdmin {
			NewForbiddenError(errNotAdmin).Abort(c)
			return
		}
		c.Next()
	}
}

func LoginHandler(c *gin.Context) {
	var r LoginRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleLogin(c.Request.Context(), getDB(c), getTokens(c), NewActivityLogger(c), r)
	concludeRequest(c, resp, err)
}

func SignupHandler(c *gin.Context) {
	var r SignupRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleSignup(c.Request.Context(), getDB(c), getTokens(c), NewActivityLogger(c), r)
	concludeRequestWithStatus(c, http.StatusCreated, resp, err)
}

func RefreshHandler(c *gin.Context) {
	var r RefreshRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleRefresh(c.Request.Context(), getDB(c), getTokens(c), r)
	concludeRequest(c, resp, err)
}

func LogoutHandler(c *gin.Context) {
	u := currentUser(c)
	err := NewActivityLogger(c).Log(c.Request.Context(), getDB(c), consts.AUDIT_LOGOUT, consts.TBL_USERS, u.ID, nil, nil)
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Successfully logged out"})
}

// MeHandler returns the authenticated user.
func MeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func handleLogin(ctx context.Context, db *sql.DB, tm *auth.TokenManager, al ActivityLogger, r LoginRequest) (*LoginResponse, *HttpError) {
	u, err := models.FindUserByLogin(ctx, db, strings.TrimSpace(r.Username))
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, NewUnauthorizedError(errBadCredentials)
		}
		return nil, NewInternalError(err)
	}
	if !auth.CheckPassword(u.HashedPassword, r.Password) {
		return nil, NewUnauthorizedError(errBadCredentials)
	}
	if !u.IsActive {
		return nil, NewUnauthorizedError(errInactiveUser)
	}

	tokens, err := tm.IssuePair(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		return nil, NewInternalError(err)
	}

	herr := inTransaction(ctx, db, func(tx *sql.Tx) *HttpError {
		u.LastLogin = null.TimeFrom(time.Now().UTC())
		if err := u.Update(ctx, tx); err != nil {
			return NewInternalError(err)
		}
		al.UserID = null.Int64From(u.ID)
		if err := al.Log(ctx, tx, consts.AUDIT_LOGIN, consts.TBL_USERS, u.ID, nil, nil); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if herr != nil {
		return nil, herr
	}

	return &LoginResponse{Message: "Login successful", User: u, Tokens: tokens}, nil
}

func handleSignup(ctx context.Context, db *sql.DB, tm *auth.TokenManager, al ActivityLogger, r SignupRequest) (*LoginResponse, *HttpError) {
	u, herr := createUser(ctx, db, al, r, true, false)
	if herr != nil {
		return nil, herr
	}

	tokens, err := tm.IssuePair(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		return nil, NewInternalError(err)
	}

	return &LoginResponse{Message: "User created successfully", User: u, Tokens: tokens}, nil
}

func createUser(ctx context.Context, db *sql.DB, al ActivityLogger, r SignupRequest, active, admin bool) (*models.User, *HttpError) {
	hashed, err := auth.HashPassword(r.Password)
	if err != nil {
		return nil, NewInternalError(err)
	}

	u := &models.User{
		Username:       strings.TrimSpace(r.Username),
		Email:          strings.ToLower(strings.TrimSpace(r.Email)),
		HashedPassword: hashed,
		FullName:       r.FullName,
		IsActive:       active,
		IsAdmin:        admin,
	}

	herr := inTransaction(ctx, db, func(tx *sql.Tx) *HttpError {
		exists, err := models.Users(
			qm.Where("username=? OR email=?", u.Username, u.Email),
		).Exists(ctx, tx)
		if err != nil {
			return NewInternalError(err)
		}
		if exists {
			return NewBadRequestError(errors.New(errDuplicateUser))
		}

		if err := u.Insert(ctx, tx); err != nil {
			return wrapDBError(err, errDuplicateUser)
		}
		if !al.UserID.Valid {
			al.UserID = null.Int64From(u.ID)
		}
		if err := al.Log(ctx, tx, consts.AUDIT_CREATE, consts.TBL_USERS, u.ID, nil, u); err != nil {
			return NewInternalError(err)
		}
		return nil
	})

	return u, herr
}

func handleRefresh(ctx context.Context, exec boil.ContextExecutor, tm *auth.TokenManager, r RefreshRequest) (*RefreshResponse, *HttpError) {
	claims, err := tm.Verify(r.RefreshToken, consts.TOKEN_REFRESH)
	if err != nil {
		return nil, NewUnauthorizedError(errors.Cause(err))
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, NewUnauthorizedError(auth.ErrInvalidToken)
	}

	u, err := models.FindUser(ctx, exec, id)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, NewUnauthorizedError(auth.ErrInvalidToken)
		}
		return nil, NewInternalError(err)
	}
	if !u.IsActive {
		return nil, NewUnauthorizedError(errInactiveUser)
	}

	access, err := tm.IssueAccess(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		return nil, NewInternalError(err)
	}

	return &RefreshResponse{AccessToken: access, TokenType: "bearer", ExpiresIn: tm.AccessTTL()}, nil
}
