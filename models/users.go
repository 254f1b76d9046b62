package models

import (
	"context"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
)

// User is an object representing the database table.
type User struct {
	ID             int64       `boil:"id" json:"id" toml:"id" yaml:"id"`
	Username       string      `boil:"username" json:"username" toml:"username" yaml:"username"`
	Email          string      `boil:"email" json:"email" toml:"email" yaml:"email"`
	HashedPassword string      `boil:"hashed_password" json:"-" toml:"-" yaml:"-"`
	FullName       null.String `boil:"full_name" json:"full_name" toml:"full_name" yaml:"full_name"`
	IsActive       bool        `boil:"is_active" json:"is_active" toml:"is_active" yaml:"is_active"`
	IsAdmin        bool        `boil:"is_admin" json:"is_admin" toml:"is_admin" yaml:"is_admin"`
	CreatedAt      time.Time   `boil:"created_at" json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time   `boil:"updated_at" json:"updated_at" toml:"updated_at" yaml:"updated_at"`
	LastLogin      null.Time   `boil:"last_login" json:"last_login" toml:"last_login" yaml:"last_login"`
}

var userColumnsWithoutDefault = []string{
	"username", "email", "hashed_password", "full_name",
	"is_active", "is_admin", "created_at", "updated_at", "last_login",
}

func (o *User) values() []interface{} {
	return []interface{}{
		o.Username, o.Email, o.HashedPassword, o.FullName,
		o.IsActive, o.IsAdmin, o.CreatedAt, o.UpdatedAt, o.LastLogin,
	}
}

type UserQuery = Query[User]

// Users retrieves all the records using an executor.
func Users(mods ...qm.QueryMod) UserQuery {
	return newTableQuery[User]("users", mods)
}

// FindUser retrieves a single record by ID.
func FindUser(ctx context.Context, exec boil.ContextExecutor, id int64) (*User, error) {
	return Users(qm.Where("id=?", id)).One(ctx, exec)
}

// FindUserByLogin matches either the username or the email.
// Emails are stored lowercased.
func FindUserByLogin(ctx context.Context, exec boil.ContextExecutor, login string) (*User, error) {
	return Users(qm.Where("username=? OR email=?", login, strings.ToLower(login))).One(ctx, exec)
}

func (o *User) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	t := now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = t
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = t
	}
	return insertRow(ctx, exec, "users", userColumnsWithoutDefault, o.values(), o)
}

func (o *User) Update(ctx context.Context, exec boil.ContextExecutor) error {
	o.UpdatedAt = now()
	return updateRow(ctx, exec, "users", o.ID, userColumnsWithoutDefault, o.values(), o)
}

func (o *User) Delete(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	return deleteRow(ctx, exec, "users", o.ID)
}

// AuditLog is an object representing the database table.
type AuditLog struct {
	ID        int64       `boil:"id" json:"id" toml:"id" yaml:"id"`
	UserID    null.Int64  `boil:"user_id" json:"user_id" toml:"user_id" yaml:"user_id"`
	TableName string      `boil:"table_name" json:"table_name" toml:"table_name" yaml:"table_name"`
	RecordID  null.Int64  `boil:"record_id" json:"record_id" toml:"record_id" yaml:"record_id"`
	Action    string      `boil:"action" json:"action" toml:"action" yaml:"action"`
	OldValues null.JSON   `boil:"old_values" json:"old_values" toml:"old_values" yaml:"old_values"`
	NewValues null.JSON   `boil:"new_values" json:"new_values" toml:"new_values" yaml:"new_values"`
	IPAddress null.String `boil:"ip_address" json:"ip_address" toml:"ip_address" yaml:"ip_address"`
	Timestamp time.Time   `boil:"timestamp" json:"timestamp" toml:"timestamp" yaml:"timestamp"`
}

// AuditLogWithUser carries the acting user's name alongside the record.
type AuditLogWithUser struct {
	AuditLog `boil:",bind"`
	Username null.String `boil:"username" json:"username" toml:"username" yaml:"username"`
}

var auditLogColumnsWithoutDefault = []string{
	"user_id", "table_name", "record_id", "action",
	"old_values", "new_values", "ip_address", "timestamp",
}

type AuditLogQuery = Query[AuditLog]

// AuditLogs retrieves all the records using an executor.
func AuditLogs(mods ...qm.QueryMod) AuditLogQuery {
	return newTableQuery[AuditLog]("audit_logs", mods)
}

// AuditLogsWithUser selects audit records with the username of their actor.
func AuditLogsWithUser(mods ...qm.QueryMod) Query[AuditLogWithUser] {
	mods = append([]qm.QueryMod{qm.Select(`"audit_logs".*`, `audit_logs_username("audit_logs"."user_id") AS "username"`)}, mods...)
	return newTableQuery[AuditLogWithUser]("audit_logs", mods)
}

func (o *AuditLog) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	if o.Timestamp.IsZero() {
		o.Timestamp = now()
	}
	return insertRow(ctx, exec, "audit_logs", auditLogColumnsWithoutDefault,
		[]interface{}{o.UserID, o.TableName, o.RecordID, o.Action, o.OldValues, o.NewValues, o.IPAddress, o.Timestamp}, o)
}
