package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/auth"
	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
	"github.com/karchag/karchag-backend/utils"
)

type AuthSuite struct {
	suite.Suite
	db     *sql.DB
	mock   sqlmock.Sqlmock
	tm     *auth.TokenManager
	router *gin.Engine
}

func (suite *AuthSuite) SetupTest() {
	var err error
	suite.db, suite.mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	suite.Require().Nil(err)
	suite.tm, err = auth.NewTokenManager("test-secret", "karchag", "karchag-admin", time.Minute, time.Hour)
	suite.Require().Nil(err)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(
		utils.ErrorHandlingMiddleware(),
		utils.DataStoresMiddleware(suite.db, nil, nil, nil, nil, suite.tm))
	admin := suite.router.Group("/admin", AuthenticationMiddleware(), AdminMiddleware())
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": currentUser(c).Username})
	})
}

func (suite *AuthSuite) TearDownTest() {
	suite.db.Close()
}

func TestAuth(t *testing.T) {
	suite.Run(t, new(AuthSuite))
}

func (suite *AuthSuite) expectUser(id int64, active, admin bool) {
	suite.mock.ExpectQuery(`FROM "users" WHERE \(id=\$1\)`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "is_active", "is_admin"}).
			AddRow(id, "tenzin", "tenzin@example.com", active, admin))
}

func (suite *AuthSuite) get(token string) (int, map[string]interface{}, http.Header) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	suite.router.ServeHTTP(w, req)

	var body map[string]interface{}
	suite.Require().Nil(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w.Code, body, w.Header()
}

func (suite *AuthSuite) TestMissingToken() {
	code, body, header := suite.get("")
	suite.Equal(http.StatusUnauthorized, code)
	suite.Equal("error", body["status"])
	suite.Equal(auth.ErrInvalidToken.Error(), body["error"])
	suite.Equal("Bearer", header.Get("WWW-Authenticate"))
}

func (suite *AuthSuite) TestGarbageToken() {
	code, body, _ := suite.get("not.a.jwt")
	suite.Equal(http.StatusUnauthorized, code)
	suite.Equal(auth.ErrInvalidToken.Error(), body["error"])
}

func (suite *AuthSuite) TestRefreshTokenRejected() {
	pair, err := suite.tm.IssuePair(7, "tenzin", true)
	suite.Require().Nil(err)

	code, body, _ := suite.get(pair.RefreshToken)
	suite.Equal(http.StatusUnauthorized, code)
	suite.Equal(auth.ErrWrongTokenType.Error(), body["error"])
}

func (suite *AuthSuite) TestInactiveUser() {
	token, err := suite.tm.IssueAccess(7, "tenzin", true)
	suite.Require().Nil(err)
	suite.expectUser(7, false, true)

	code, body, _ := suite.get(token)
	suite.Equal(http.StatusUnauthorized, code)
	suite.Equal("Inactive user", body["error"])
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *AuthSuite) TestUnknownUser() {
	token, err := suite.tm.IssueAccess(7, "tenzin", true)
	suite.Require().Nil(err)
	suite.mock.ExpectQuery(`FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	code, _, _ := suite.get(token)
	suite.Equal(http.StatusUnauthorized, code)
}

func (suite *AuthSuite) TestNotAdmin() {
	// the admin flag is read from the database, not from the token
	token, err := suite.tm.IssueAccess(7, "tenzin", true)
	suite.Require().Nil(err)
	suite.expectUser(7, true, false)

	code, body, _ := suite.get(token)
	suite.Equal(http.StatusForbidden, code)
	suite.Equal("Admin privileges required", body["error"])
}

func (suite *AuthSuite) TestAdmin() {
	token, err := suite.tm.IssueAccess(7, "tenzin", true)
	suite.Require().Nil(err)
	suite.expectUser(7, true, true)

	code, body, _ := suite.get(token)
	suite.Equal(http.StatusOK, code)
	suite.Equal("tenzin", body["user"])
}

func (suite *AuthSuite) TestLoginBadPassword() {
	hashed, err := auth.HashPassword("correct horse")
	suite.Require().Nil(err)
	suite.mock.ExpectQuery(`FROM "users" WHERE \(username=\$1 OR email=\$2\)`).
		WithArgs("tenzin", "tenzin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "hashed_password", "is_active"}).
			AddRow(7, "tenzin", hashed, true))

	_, herr := handleLogin(context.Background(), suite.db, suite.tm, ActivityLogger{},
		LoginRequest{Username: "tenzin", Password: "battery staple"})
	suite.Require().NotNil(herr)
	suite.Equal(http.StatusUnauthorized, herr.Code)
	suite.Equal("Incorrect username or password", herr.Error())
}

func (suite *AuthSuite) TestLoginWithMixedCaseEmail() {
	hashed, err := auth.HashPassword("correct horse")
	suite.Require().Nil(err)
	suite.mock.ExpectQuery(`FROM "users" WHERE \(username=\$1 OR email=\$2\)`).
		WithArgs("Tenzin@Example.com", "tenzin@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "hashed_password", "is_active"}).
			AddRow(7, "tenzin", "tenzin@example.com", hashed, true))
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE "users" SET .* WHERE "id"=\$10 RETURNING \*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "is_active"}).
			AddRow(7, "tenzin", "tenzin@example.com", true))
	suite.mock.ExpectQuery(`INSERT INTO "audit_logs" .* RETURNING \*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	suite.mock.ExpectCommit()

	resp, herr := handleLogin(context.Background(), suite.db, suite.tm, ActivityLogger{},
		LoginRequest{Username: " Tenzin@Example.com ", Password: "correct horse"})
	suite.Require().Nil(herr)
	suite.Equal("Login successful", resp.Message)
	suite.Equal("tenzin", resp.User.Username)
	suite.NotNil(resp.Tokens)
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *AuthSuite) TestDeleteOwnAccount() {
	herr := handleDeleteUser(context.Background(), suite.db, ActivityLogger{}, &models.User{ID: 3}, 3)
	suite.Require().NotNil(herr)
	suite.Equal(http.StatusBadRequest, herr.Code)
	suite.Equal("Cannot delete your own account", herr.Error())
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *AuthSuite) TestRefresh() {
	pair, err := suite.tm.IssuePair(7, "tenzin", false)
	suite.Require().Nil(err)
	suite.expectUser(7, true, false)

	resp, herr := handleRefresh(context.Background(), suite.db, suite.tm, RefreshRequest{RefreshToken: pair.RefreshToken})
	suite.Require().Nil(herr)
	suite.Equal("bearer", resp.TokenType)
	suite.EqualValues(60, resp.ExpiresIn)

	claims, err := suite.tm.Verify(resp.AccessToken, consts.TOKEN_ACCESS)
	suite.Require().Nil(err)
	suite.Equal("7", claims.Subject)

	_, herr = handleRefresh(context.Background(), suite.db, suite.tm, RefreshRequest{RefreshToken: pair.AccessToken})
	suite.Require().NotNil(herr)
	suite.Equal(http.StatusUnauthorized, herr.Code)
	suite.True(errors.Cause(herr.Err) == auth.ErrWrongTokenType)
}

func TestBearerToken(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "bearer abc.def")
	assert.Equal(t, "abc.def", bearerToken(req))

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, bearerToken(req))
}
