package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"farmcare/models"
)

// MaxListLimit caps ListScans.
const MaxListLimit = 10

var ErrNotFound = errors.New("scan not found")

// Store reads and writes disease scans. Scans are never updated; they are
// inserted, pruned, or deleted by their owner.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SaveScan(ctx context.Context, scan *models.Scan) error {
	report, err := json.Marshal(scan.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO disease_scans
		(id, user_id, image, filename, mime_type, disease_class, confidence, is_confident, report, source,
		 language, threshold, processing_time_ms, status, error_message, model_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		scan.ID, scan.UserID, scan.Image, scan.Filename, scan.MimeType,
		scan.Report.DiseaseClass, scan.Report.Confidence, scan.Report.IsConfident, report, string(scan.Source),
		scan.Language, scan.Threshold, scan.ProcessingTimeMs, scan.Status, scan.ErrorMessage,
		scan.ModelVersion, scan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert scan %s: %w", scan.ID, err)
	}
	return nil
}

// PruneScans deletes all but the keep most recent scans of userID.
func (s *Store) PruneScans(ctx context.Context, userID string, keep int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM disease_scans WHERE user_id = ? AND id NOT IN (
			SELECT id FROM (
				SELECT id FROM disease_scans WHERE user_id = ? ORDER BY created_at DESC LIMIT ?
			) AS recent
		)`, userID, userID, keep)
	if err != nil {
		return fmt.Errorf("failed to prune scans for %s: %w", userID, err)
	}
	return nil
}

// ListScans returns the most recent scans of userID without image bytes.
func (s *Store) ListScans(ctx context.Context, userID string, limit int) ([]models.Scan, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, filename, mime_type, report, source, language, threshold,
		processing_time_ms, status, error_message, model_version, created_at
		FROM disease_scans WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	scans := []models.Scan{}
	for rows.Next() {
		var (
			scan   models.Scan
			report []byte
			source string
			errMsg sql.NullString
		)
		if err := rows.Scan(&scan.ID, &scan.UserID, &scan.Filename, &scan.MimeType, &report, &source,
			&scan.Language, &scan.Threshold, &scan.ProcessingTimeMs, &scan.Status, &errMsg,
			&scan.ModelVersion, &scan.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if err := json.Unmarshal(report, &scan.Report); err != nil {
			return nil, fmt.Errorf("failed to decode report of scan %s: %w", scan.ID, err)
		}
		scan.Source = models.Source(source)
		scan.ErrorMessage = errMsg.String
		scans = append(scans, scan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scans: %w", err)
	}
	return scans, nil
}

// GetScanImage returns the stored upload and its mime type.
func (s *Store) GetScanImage(ctx context.Context, id, userID string) ([]byte, string, error) {
	var (
		data []byte
		mime string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT image, mime_type FROM disease_scans WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&data, &mime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get scan image: %w", err)
	}
	if len(data) == 0 {
		return nil, "", ErrNotFound
	}
	return data, mime, nil
}

// DeleteScan removes a scan owned by userID.
func (s *Store) DeleteScan(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM disease_scans WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete scan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete scan: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DiseaseStats counts completed scans of userID per class, most frequent first.
func (s *Store) DiseaseStats(ctx context.Context, userID string) ([]models.ClassCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT disease_class, COUNT(*) AS cnt FROM disease_scans
		WHERE user_id = ? AND status = ? GROUP BY disease_class ORDER BY cnt DESC, disease_class`,
		userID, models.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	stats := []models.ClassCount{}
	for rows.Next() {
		var c models.ClassCount
		if err := rows.Scan(&c.DiseaseClass, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats = append(stats, c)
	}
	return stats, rows.Err()
}

// ScanSummary counts all scans of userID, those created at or after since,
// and the confident ones.
func (s *Store) ScanSummary(ctx context.Context, userID string, since time.Time) (models.ScanSummary, error) {
	var sum models.ScanSummary
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(created_at >= ?), 0), COALESCE(SUM(is_confident), 0)
		FROM disease_scans WHERE user_id = ?`,
		since, userID).Scan(&sum.TotalScans, &sum.TodayScans, &sum.HighConfidenceScans)
	if err != nil {
		return models.ScanSummary{}, fmt.Errorf("failed to query scan summary: %w", err)
	}
	return sum, nil
}
