package models

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
)

// Lookup is a row of one of the controlled vocabulary tables:
// sermons, yanas or translation_types. They share a single layout.
type Lookup struct {
	ID          int64       `boil:"id" json:"id" toml:"id" yaml:"id"`
	NameEnglish string      `boil:"name_english" json:"name_english" toml:"name_english" yaml:"name_english"`
	NameTibetan null.String `boil:"name_tibetan" json:"name_tibetan" toml:"name_tibetan" yaml:"name_tibetan"`
	OrderIndex  int         `boil:"order_index" json:"order_index" toml:"order_index" yaml:"order_index"`
	IsActive    bool        `boil:"is_active" json:"is_active" toml:"is_active" yaml:"is_active"`
	CreatedAt   time.Time   `boil:"created_at" json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time   `boil:"updated_at" json:"updated_at" toml:"updated_at" yaml:"updated_at"`
}

var lookupColumnsWithoutDefault = []string{"name_english", "name_tibetan", "order_index", "is_active", "created_at", "updated_at"}

func (o *Lookup) values() []interface{} {
	return []interface{}{o.NameEnglish, o.NameTibetan, o.OrderIndex, o.IsActive, o.CreatedAt, o.UpdatedAt}
}

// LookupTable binds the Lookup layout to one concrete table.
type LookupTable struct {
	Name string
	// column in kagyur_texts referencing this table
	TextColumn string
	// human readable, used in error messages
	Label string
}

var (
	SermonsTable          = LookupTable{Name: "sermons", TextColumn: "sermon_id", Label: "Sermon"}
	YanasTable            = LookupTable{Name: "yanas", TextColumn: "yana_id", Label: "Yana"}
	TranslationTypesTable = LookupTable{Name: "translation_types", TextColumn: "translation_type_id", Label: "Translation type"}
)

type LookupQuery = Query[Lookup]

func (t LookupTable) Query(mods ...qm.QueryMod) LookupQuery {
	return newTableQuery[Lookup](t.Name, mods)
}

func (t LookupTable) Find(ctx context.Context, exec boil.ContextExecutor, id int64) (*Lookup, error) {
	return t.Query(qm.Where("id=?", id)).One(ctx, exec)
}

func (t LookupTable) Exists(ctx context.Context, exec boil.ContextExecutor, id int64) (bool, error) {
	return t.Query(qm.Where("id=?", id)).Exists(ctx, exec)
}

func (t LookupTable) Insert(ctx context.Context, exec boil.ContextExecutor, o *Lookup) error {
	ts := now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = ts
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = ts
	}
	return insertRow(ctx, exec, t.Name, lookupColumnsWithoutDefault, o.values(), o)
}

func (t LookupTable) Update(ctx context.Context, exec boil.ContextExecutor, o *Lookup) error {
	o.UpdatedAt = now()
	return updateRow(ctx, exec, t.Name, o.ID, lookupColumnsWithoutDefault, o.values(), o)
}

func (t LookupTable) Delete(ctx context.Context, exec boil.ContextExecutor, id int64) (int64, error) {
	return deleteRow(ctx, exec, t.Name, id)
}

// Sermons retrieves all the records using an executor.
func Sermons(mods ...qm.QueryMod) LookupQuery {
	return SermonsTable.Query(mods...)
}

// Yanas retrieves all the records using an executor.
func Yanas(mods ...qm.QueryMod) LookupQuery {
	return YanasTable.Query(mods...)
}

// TranslationTypes retrieves all the records using an executor.
func TranslationTypes(mods ...qm.QueryMod) LookupQuery {
	return TranslationTypesTable.Query(mods...)
}
