package store

import (
	"database/sql"
	"encoding/json"
	"sort"

	"github.com/hpungsan/sitescout/internal/errors"
	"github.com/hpungsan/sitescout/internal/site"
)

// GetSite returns the record for a site ID, or nil when none exists.
func GetSite(db *sql.DB, siteID string) (*site.Record, error) {
	raw, found, err := Get(db, siteID)
	if err != nil {
		return nil, errors.NewStorage("read site record", err)
	}
	if !found {
		return nil, nil
	}

	var rec site.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, errors.NewStorage("decode site record", err)
	}
	return &rec, nil
}

// PutSite writes a record under its site ID.
func PutSite(db *sql.DB, rec *site.Record) error {
	if err := Set(db, rec.SiteID, rec); err != nil {
		return errors.NewStorage("write site record", err)
	}
	return nil
}

// UpdateSiteStatus rewrites the status field of a stored record.
// Status is allowed to be overwritten: a stuck error never blocks a
// future attempt.
func UpdateSiteStatus(db *sql.DB, siteID string, status site.Status) error {
	rec, err := GetSite(db, siteID)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.NewNotFound(siteID)
	}
	rec.Status = status
	return PutSite(db, rec)
}

// AppendTurns appends turns to a site's transcript, preserving order.
// Read-modify-write with last-write-wins semantics, same as every other
// mutation in this store.
func AppendTurns(db *sql.DB, siteID string, turns ...site.Turn) error {
	rec, err := GetSite(db, siteID)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.NewNotFound(siteID)
	}
	rec.Transcript = append(rec.Transcript, turns...)
	return PutSite(db, rec)
}

// ReplaceTranscript rewrites a site's transcript in bulk. Only the
// deduplication repair uses this; everything else appends.
func ReplaceTranscript(db *sql.DB, siteID string, transcript []site.Turn) error {
	rec, err := GetSite(db, siteID)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.NewNotFound(siteID)
	}
	rec.Transcript = transcript
	return PutSite(db, rec)
}

// AllSites returns every site record, newest first. Non-site keys
// (apiKey, userRole) are filtered out by checking for a url field.
func AllSites(db *sql.DB) ([]*site.Record, error) {
	entries, err := GetAll(db)
	if err != nil {
		return nil, errors.NewStorage("list sites", err)
	}

	var sites []*site.Record
	for key, raw := range entries {
		if key == KeyAPIKey || key == KeyUserRole {
			continue
		}
		var rec site.Record
		if err := json.Unmarshal(raw, &rec); err != nil || rec.URL == "" {
			// Not a site record; skip rather than fail the listing.
			continue
		}
		sites = append(sites, &rec)
	}

	sort.Slice(sites, func(i, j int) bool {
		return sites[i].CreatedAt.After(sites[j].CreatedAt)
	})
	return sites, nil
}

// DeleteSite removes a site record.
func DeleteSite(db *sql.DB, siteID string) error {
	if err := Remove(db, siteID); err != nil {
		return errors.NewStorage("delete site record", err)
	}
	return nil
}

// ClearHistory empties a site's transcript without touching the session.
func ClearHistory(db *sql.DB, siteID string) error {
	return ReplaceTranscript(db, siteID, []site.Turn{})
}

// ResetInterrupted resets records stuck mid-analysis (connecting or
// analyzing) back to idle. Called at startup so an interrupted run never
// leaves a record permanently in-flight.
func ResetInterrupted(db *sql.DB) (int, error) {
	sites, err := AllSites(db)
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, rec := range sites {
		if rec.Status == site.StatusConnecting || rec.Status == site.StatusAnalyzing {
			rec.Status = site.StatusIdle
			if err := PutSite(db, rec); err != nil {
				return reset, err
			}
			reset++
		}
	}
	return reset, nil
}

// GetAPIKey returns the stored credential, or "" when unset.
func GetAPIKey(db *sql.DB) (string, error) {
	raw, found, err := Get(db, KeyAPIKey)
	if err != nil {
		return "", errors.NewStorage("read api key", err)
	}
	if !found {
		return "", nil
	}
	var key string
	if err := json.Unmarshal(raw, &key); err != nil {
		return "", errors.NewStorage("decode api key", err)
	}
	return key, nil
}

// SetAPIKey stores the credential.
func SetAPIKey(db *sql.DB, key string) error {
	if err := Set(db, KeyAPIKey, key); err != nil {
		return errors.NewStorage("write api key", err)
	}
	return nil
}

// GetUserRole returns the stored role preference, or "default" when unset.
func GetUserRole(db *sql.DB) (string, error) {
	raw, found, err := Get(db, KeyUserRole)
	if err != nil {
		return "", errors.NewStorage("read user role", err)
	}
	if !found {
		return "default", nil
	}
	var role string
	if err := json.Unmarshal(raw, &role); err != nil {
		return "", errors.NewStorage("decode user role", err)
	}
	if role == "" {
		return "default", nil
	}
	return role, nil
}

// SetUserRole stores the role preference.
func SetUserRole(db *sql.DB, role string) error {
	if err := Set(db, KeyUserRole, role); err != nil {
		return errors.NewStorage("write user role", err)
	}
	return nil
}
