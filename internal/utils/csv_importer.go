package utils

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/actinova/admin-backend/internal/models"
	"go.uber.org/zap"
)

// UserUpserter stores imported users keyed by email
type UserUpserter interface {
	UpsertByEmail(ctx context.Context, user *models.User) (bool, error)
}

// ImportResult summarizes one CSV import
type ImportResult struct {
	TotalRows int      `json:"totalRows"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

// CSVImporter imports learners from a name,email,phone,plan CSV export
type CSVImporter struct {
	users  UserUpserter
	logger *zap.Logger
}

// NewCSVImporter creates a new CSVImporter
func NewCSVImporter(users UserUpserter, logger *zap.Logger) *CSVImporter {
	return &CSVImporter{users: users, logger: logger}
}

// ImportUsers reads the header row, then upserts one user per data row.
// Rows without a usable email are skipped and logged; a failed write stops
// the import.
func (i *CSVImporter) ImportUsers(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	nameIdx := findColumnIndex(header, []string{"name", "full name", "fullname"})
	emailIdx := findColumnIndex(header, []string{"email", "email address", "e-mail"})
	phoneIdx := findColumnIndex(header, []string{"phone", "phone number", "mobile"})
	planIdx := findColumnIndex(header, []string{"plan", "subscription", "subscription plan"})
	if emailIdx == -1 {
		return nil, errors.New("email column not found in CSV")
	}

	result := &ImportResult{Errors: []string{}}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			i.skip(result, line, fmt.Sprintf("unreadable row: %v", err))
			continue
		}
		result.TotalRows++

		email := strings.ToLower(column(row, emailIdx))
		if !strings.Contains(email, "@") {
			i.skip(result, line, fmt.Sprintf("invalid email %q", email))
			continue
		}

		name := column(row, nameIdx)
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		plan := strings.ToLower(column(row, planIdx))
		if plan == "" {
			plan = models.PlanFree
		}

		user := &models.User{
			Name:  name,
			Email: email,
			Phone: column(row, phoneIdx),
			Subscription: models.Subscription{
				Plan:   plan,
				Status: "active",
			},
		}
		created, err := i.users.UpsertByEmail(ctx, user)
		if err != nil {
			return result, fmt.Errorf("row %d: upsert %s: %w", line, email, err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	i.logger.Info("CSV import finished",
		zap.Int("rows", result.TotalRows),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (i *CSVImporter) skip(result *ImportResult, line int, reason string) {
	result.Skipped++
	msg := fmt.Sprintf("Row %d: %s", line, reason)
	result.Errors = append(result.Errors, msg)
	i.logger.Warn("Skipping CSV row", zap.Int("line", line), zap.String("reason", reason))
}

// column returns the trimmed cell at idx, or "" when the column is absent
func column(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// findColumnIndex finds the index of a column by possible names
func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, name := range possibleNames {
			if name == h {
				return i
			}
		}
	}
	return -1
}
