package models

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
)

// KagyurAudio is an object representing the database table.
type KagyurAudio struct {
	ID                  int64       `boil:"id" json:"id" toml:"id" yaml:"id"`
	TextID              int64       `boil:"text_id" json:"text_id" toml:"text_id" yaml:"text_id"`
	AudioURL            string      `boil:"audio_url" json:"audio_url" toml:"audio_url" yaml:"audio_url"`
	FileName            string      `boil:"file_name" json:"file_name" toml:"file_name" yaml:"file_name"`
	FileSize            int64       `boil:"file_size" json:"file_size" toml:"file_size" yaml:"file_size"`
	Duration            null.Int    `boil:"duration" json:"duration" toml:"duration" yaml:"duration"`
	NarratorNameEnglish string      `boil:"narrator_name_english" json:"narrator_name_english" toml:"narrator_name_english" yaml:"narrator_name_english"`
	NarratorNameTibetan null.String `boil:"narrator_name_tibetan" json:"narrator_name_tibetan" toml:"narrator_name_tibetan" yaml:"narrator_name_tibetan"`
	AudioQuality        string      `boil:"audio_quality" json:"audio_quality" toml:"audio_quality" yaml:"audio_quality"`
	AudioLanguage       string      `boil:"audio_language" json:"audio_language" toml:"audio_language" yaml:"audio_language"`
	OrderIndex          int         `boil:"order_index" json:"order_index" toml:"order_index" yaml:"order_index"`
	IsActive            bool        `boil:"is_active" json:"is_active" toml:"is_active" yaml:"is_active"`
	CreatedAt           time.Time   `boil:"created_at" json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt           time.Time   `boil:"updated_at" json:"updated_at" toml:"updated_at" yaml:"updated_at"`
}

var kagyurAudioColumnsWithoutDefault = []string{
	"text_id", "audio_url", "file_name", "file_size", "duration",
	"narrator_name_english", "narrator_name_tibetan", "audio_quality", "audio_language",
	"order_index", "is_active", "created_at", "updated_at",
}

func (o *KagyurAudio) values() []interface{} {
	return []interface{}{
		o.TextID, o.AudioURL, o.FileName, o.FileSize, o.Duration,
		o.NarratorNameEnglish, o.NarratorNameTibetan, o.AudioQuality, o.AudioLanguage,
		o.OrderIndex, o.IsActive, o.CreatedAt, o.UpdatedAt,
	}
}

type KagyurAudioQuery = Query[KagyurAudio]

// KagyurAudios retrieves all the records using an executor.
func KagyurAudios(mods ...qm.QueryMod) KagyurAudioQuery {
	return newTableQuery[KagyurAudio]("kagyur_audio", mods)
}

// FindKagyurAudio retrieves a single record by ID.
func FindKagyurAudio(ctx context.Context, exec boil.ContextExecutor, id int64) (*KagyurAudio, error) {
	return KagyurAudios(qm.Where("id=?", id)).One(ctx, exec)
}

func (o *KagyurAudio) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	t := now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = t
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = t
	}
	return insertRow(ctx, exec, "kagyur_audio", kagyurAudioColumnsWithoutDefault, o.values(), o)
}

func (o *KagyurAudio) Update(ctx context.Context, exec boil.ContextExecutor) error {
	o.UpdatedAt = now()
	return updateRow(ctx, exec, "kagyur_audio", o.ID, kagyurAudioColumnsWithoutDefault, o.values(), o)
}

func (o *KagyurAudio) Delete(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	return deleteRow(ctx, exec, "kagyur_audio", o.ID)
}

// Publication is implemented by records gated by a publication status (news and videos).
type Publication interface {
	GetStatus() string
	GetPublishedDate() null.Time
	SetStatus(status string, publishedDate null.Time, active bool)
}

// KagyurNews is an object representing the database table.
type KagyurNews struct {
	ID                int64     `boil:"id" json:"id" toml:"id" yaml:"id"`
	TibetanTitle      string    `boil:"tibetan_title" json:"tibetan_title" toml:"tibetan_title" yaml:"tibetan_title"`
	EnglishTitle      string    `boil:"english_title" json:"english_title" toml:"english_title" yaml:"english_title"`
	TibetanContent    string    `boil:"tibetan_content" json:"tibetan_content" toml:"tibetan_content" yaml:"tibetan_content"`
	EnglishContent    string    `boil:"english_content" json:"english_content" toml:"english_content" yaml:"english_content"`
	PublicationStatus string    `boil:"publication_status" json:"publication_status" toml:"publication_status" yaml:"publication_status"`
	PublishedDate     null.Time `boil:"published_date" json:"published_date" toml:"published_date" yaml:"published_date"`
	IsActive          bool      `boil:"is_active" json:"is_active" toml:"is_active" yaml:"is_active"`
	CreatedAt         time.Time `boil:"created_at" json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt         time.Time `boil:"updated_at" json:"updated_at" toml:"updated_at" yaml:"updated_at"`
}

var kagyurNewsColumnsWithoutDefault = []string{
	"tibetan_title", "english_title", "tibetan_content", "english_content",
	"publication_status", "published_date", "is_active", "created_at", "updated_at",
}

func (o *KagyurNews) values() []interface{} {
	return []interface{}{
		o.TibetanTitle, o.EnglishTitle, o.TibetanContent, o.EnglishContent,
		o.PublicationStatus, o.PublishedDate, o.IsActive, o.CreatedAt, o.UpdatedAt,
	}
}

func (o *KagyurNews) GetStatus() string {
	return o.PublicationStatus
}

func (o *KagyurNews) GetPublishedDate() null.Time {
	return o.PublishedDate
}

func (o *KagyurNews) SetStatus(status string, publishedDate null.Time, active bool) {
	o.PublicationStatus = status
	o.PublishedDate = publishedDate
	o.IsActive = active
}

type KagyurNewsQuery = Query[KagyurNews]

// KagyurNewsItems retrieves all the records using an executor.
func KagyurNewsItems(mods ...qm.QueryMod) KagyurNewsQuery {
	return newTableQuery[KagyurNews]("kagyur_news", mods)
}

// FindKagyurNews retrieves a single record by ID.
func FindKagyurNews(ctx context.Context, exec boil.ContextExecutor, id int64) (*KagyurNews, error) {
	return KagyurNewsItems(qm.Where("id=?", id)).One(ctx, exec)
}

func (o *KagyurNews) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	t := now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = t
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = t
	}
	return insertRow(ctx, exec, "kagyur_news", kagyurNewsColumnsWithoutDefault, o.values(), o)
}

func (o *KagyurNews) Update(ctx context.Context, exec boil.ContextExecutor) error {
	o.UpdatedAt = now()
	return updateRow(ctx, exec, "kagyur_news", o.ID, kagyurNewsColumnsWithoutDefault, o.values(), o)
}

func (o *KagyurNews) Delete(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	return deleteRow(ctx, exec, "kagyur_news", o.ID)
}

// KangyurVideo is an object representing the database table.
type KangyurVideo struct {
	ID                 int64     `boil:"id" json:"id" toml:"id" yaml:"id"`
	TibetanTitle       string    `boil:"tibetan_title" json:"tibetan_title" toml:"tibetan_title" yaml:"tibetan_title"`
	EnglishTitle       string    `boil:"english_title" json:"english_title" toml:"english_title" yaml:"english_title"`
	TibetanDescription string    `boil:"tibetan_description" json:"tibetan_description" toml:"tibetan_description" yaml:"tibetan_description"`
	EnglishDescription string    `boil:"english_description" json:"english_description" toml:"english_description" yaml:"english_description"`
	VideoURL           string    `boil:"video_url" json:"video_url" toml:"video_url" yaml:"video_url"`
	PublicationStatus  string    `boil:"publication_status" json:"publication_status" toml:"publication_status" yaml:"publication_status"`
	PublishedDate      null.Time `boil:"published_date" json:"published_date" toml:"published_date" yaml:"published_date"`
	IsActive           bool      `boil:"is_active" json:"is_active" toml:"is_active" yaml:"is_active"`
	CreatedAt          time.Time `boil:"created_at" json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt          time.Time `boil:"updated_at" json:"updated_at" toml:"updated_at" yaml:"updated_at"`
}

var kangyurVideoColumnsWithoutDefault = []string{
	"tibetan_title", "english_title", "tibetan_description", "english_description", "video_url",
	"publication_status", "published_date", "is_active", "created_at", "updated_at",
}

func (o *KangyurVideo) values() []interface{} {
	return []interface{}{
		o.TibetanTitle, o.EnglishTitle, o.TibetanDescription, o.EnglishDescription, o.VideoURL,
		o.PublicationStatus, o.PublishedDate, o.IsActive, o.CreatedAt, o.UpdatedAt,
	}
}

func (o *KangyurVideo) GetStatus() string {
	return o.PublicationStatus
}

func (o *KangyurVideo) GetPublishedDate() null.Time {
	return o.PublishedDate
}

func (o *KangyurVideo) SetStatus(status string, publishedDate null.Time, active bool) {
	o.PublicationStatus = status
	o.PublishedDate = publishedDate
	o.IsActive = active
}

type KangyurVideoQuery = Query[KangyurVideo]

// KangyurVideos retrieves all the records using an executor.
func KangyurVideos(mods ...qm.QueryMod) KangyurVideoQuery {
	return newTableQuery[KangyurVideo]("kangyur_videos", mods)
}

// FindKangyurVideo retrieves a single record by ID.
func FindKangyurVideo(ctx context.Context, exec boil.ContextExecutor, id int64) (*KangyurVideo, error) {
	return KangyurVideos(qm.Where("id=?", id)).One(ctx, exec)
}

func (o *KangyurVideo) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	t := now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = t
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = t
	}
	return insertRow(ctx, exec, "kangyur_videos", kangyurVideoColumnsWithoutDefault, o.values(), o)
}

func (o *KangyurVideo) Update(ctx context.Context, exec boil.ContextExecutor) error {
	o.UpdatedAt = now()
	return updateRow(ctx, exec, "kangyur_videos", o.ID, kangyurVideoColumnsWithoutDefault, o.values(), o)
}

func (o *KangyurVideo) Delete(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	return deleteRow(ctx, exec, "kangyur_videos", o.ID)
}

// Edition is an object representing the database table.
type Edition struct {
	ID                 int64       `boil:"id" json:"id" toml:"id" yaml:"id"`
	NameEnglish        string      `boil:"name_english" json:"name_english" toml:"name_english" yaml:"name_english"`
	NameTibetan        null.String `boil:"name_tibetan" json:"name_tibetan" toml:"name_tibetan" yaml:"name_tibetan"`
	DescriptionEnglish null.String `boil:"description_english" json:"description_english" toml:"description_english" yaml:"description_english"`
	DescriptionTibetan null.String `boil:"description_tibetan" json:"description_tibetan" toml:"description_tibetan" yaml:"description_tibetan"`
	Abbreviation       null.String `boil:"abbreviation" json:"abbreviation" toml:"abbreviation" yaml:"abbreviation"`
	Publisher          null.String `boil:"publisher" json:"publisher" toml:"publisher" yaml:"publisher"`
	PublicationYear    null.Int    `boil:"publication_year" json:"publication_year" toml:"publication_year" yaml:"publication_year"`
	Location           null.String `boil:"location" json:"location" toml:"location" yaml:"location"`
	TotalVolumes       null.Int    `boil:"total_volumes" json:"total_volumes" toml:"total_volumes" yaml:"total_volumes"`
	OrderIndex         int         `boil:"order_index" json:"order_index" toml:"order_index" yaml:"order_index"`
	IsActive           bool        `boil:"is_active" json:"is_active" toml:"is_active" yaml:"is_active"`
	CreatedAt          time.Time   `boil:"created_at" json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt          time.Time   `boil:"updated_at" json:"updated_at" toml:"updated_at" yaml:"updated_at"`
}

var editionColumnsWithoutDefault = []string{
	"name_english", "name_tibetan", "description_english", "description_tibetan",
	"abbreviation", "publisher", "publication_year", "location", "total_volumes",
	"order_index", "is_active", "created_at", "updated_at",
}

func (o *Edition) values() []interface{} {
	return []interface{}{
		o.NameEnglish, o.NameTibetan, o.DescriptionEnglish, o.DescriptionTibetan,
		o.Abbreviation, o.Publisher, o.PublicationYear, o.Location, o.TotalVolumes,
		o.OrderIndex, o.IsActive, o.CreatedAt, o.UpdatedAt,
	}
}

type EditionQuery = Query[Edition]

// Editions retrieves all the records using an executor.
func Editions(mods ...qm.QueryMod) EditionQuery {
	return newTableQuery[Edition]("editions", mods)
}

// FindEdition retrieves a single record by ID.
func FindEdition(ctx context.Context, exec boil.ContextExecutor, id int64) (*Edition, error) {
	return Editions(qm.Where("id=?", id)).One(ctx, exec)
}

func (o *Edition) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	t := now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = t
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = t
	}
	return insertRow(ctx, exec, "editions", editionColumnsWithoutDefault, o.values(), o)
}

func (o *Edition) Update(ctx context.Context, exec boil.ContextExecutor) error {
	o.UpdatedAt = now()
	return updateRow(ctx, exec, "editions", o.ID, editionColumnsWithoutDefault, o.values(), o)
}

func (o *Edition) Delete(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	return deleteRow(ctx, exec, "editions", o.ID)
}
