package repository

import (
	"encoding/base64"
	"strings"
	"time"

	"jokehub/internal/apperrors"
	"jokehub/internal/http-api/models"

	"gorm.io/gorm"
)

// PageSize is fixed. The cursor contract (strictly after the last sort key of
// the previous page) only holds under a stable ordering, so listing is always
// date_added DESC with id DESC as tiebreak.
const PageSize = 10

// MaxSelectedCategories bounds the category filter set.
const MaxSelectedCategories = 30

type Scope string

const (
	ScopePublic Scope = "public"
	ScopeUser   Scope = "user"
)

type UsageStatus string

const (
	UsageAll    UsageStatus = "all"
	UsageUsed   UsageStatus = "used"
	UsageUnused UsageStatus = "unused"
)

type JokeFilters struct {
	Scope              Scope
	SelectedCategories []string
	FilterFunnyRate    int // -1 means any
	UsageStatus        UsageStatus
	Search             string
}

func (f *JokeFilters) Validate() error {
	switch f.Scope {
	case ScopePublic, ScopeUser:
	default:
		return apperrors.Newf(apperrors.KindValidation, "invalid scope %q", f.Scope)
	}
	if len(f.SelectedCategories) > MaxSelectedCategories {
		return apperrors.Newf(apperrors.KindValidation,
			"too many categories selected: %d (max %d)", len(f.SelectedCategories), MaxSelectedCategories)
	}
	if f.FilterFunnyRate < -1 || f.FilterFunnyRate > 5 {
		return apperrors.Newf(apperrors.KindValidation, "funny rate filter out of range: %d", f.FilterFunnyRate)
	}
	switch f.UsageStatus {
	case UsageAll, UsageUsed, UsageUnused:
	default:
		return apperrors.Newf(apperrors.KindValidation, "invalid usage status %q", f.UsageStatus)
	}
	return nil
}

// Cursor is the sort key of the last item of the previous page.
type Cursor struct {
	DateAdded time.Time
	ID        string
}

func EncodeCursor(c Cursor) string {
	raw := c.DateAdded.UTC().Format(time.RFC3339Nano) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "malformed cursor", err)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, apperrors.New(apperrors.KindValidation, "malformed cursor")
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "malformed cursor timestamp", err)
	}
	return &Cursor{DateAdded: ts, ID: parts[1]}, nil
}

// buildListQuery translates a filter set into a gorm query. The second
// return value is false when no query should be issued at all: user scope
// without an authenticated user means "no results", not an error.
func buildListQuery(db *gorm.DB, f JokeFilters, userID string, cursor *Cursor) (*gorm.DB, bool) {
	if f.Scope == ScopeUser && userID == "" {
		return nil, false
	}

	q := db.Model(&models.Joke{})
	if f.Scope == ScopeUser {
		q = q.Where("user_id = ?", userID)
	}

	if len(f.SelectedCategories) > 0 {
		q = q.Where("category IN ?", f.SelectedCategories)
	}

	if f.FilterFunnyRate != -1 {
		q = q.Where("funny_rate = ?", f.FilterFunnyRate)
	}

	switch f.UsageStatus {
	case UsageUsed:
		q = q.Where("used = ?", true)
	case UsageUnused:
		q = q.Where("used = ?", false)
	}

	// Token search: every token must appear in the text, the keyword column or
	// the category name.
	// Example: "chicken road" -> WHERE (text ILIKE '%chicken%' OR ...) AND (text ILIKE '%road%' OR ...)
	if tokens := strings.Fields(f.Search); len(tokens) > 0 {
		clauses := make([]string, 0, len(tokens))
		args := make([]interface{}, 0, len(tokens)*3)
		for _, t := range tokens {
			p := "%" + t + "%"
			clauses = append(clauses, "(text ILIKE ? OR COALESCE(keywords,'') ILIKE ? OR category ILIKE ?)")
			args = append(args, p, p, p)
		}
		q = q.Where(strings.Join(clauses, " AND "), args...)
	}

	if cursor != nil {
		q = q.Where("(date_added < ?) OR (date_added = ? AND id < ?)",
			cursor.DateAdded, cursor.DateAdded, cursor.ID)
	}

	return q.Order("date_added desc").Order("id desc").Limit(PageSize), true
}
