// Package importer loads property listings from a CSV export into MongoDB.
// It is an offline utility, run via cmd/import against the same database the
// API serves from.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"hearth/internal/middleware"
	"hearth/internal/models"
	"hearth/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Default credentials of the bootstrap account that owns imported listings.
// TODO: replace the hardcoded admin password with a generated one surfaced at
// first boot.
const (
	AdminEmail    = "admin@property.com"
	adminPassword = "admin123"
	adminName     = "Import Admin"
)

// Importer reads a CSV listing export and bulk-inserts the rows.
type Importer struct {
	users repository.UserRepository
	props repository.PropertyRepository
}

// New returns an Importer writing through the given repositories.
func New(users repository.UserRepository, props repository.PropertyRepository) *Importer {
	return &Importer{users: users, props: props}
}

// EnsureAdmin returns the bootstrap admin account, creating it if absent.
// Every imported listing is owned by this account.
func (im *Importer) EnsureAdmin(ctx context.Context) (*models.User, error) {
	admin, err := im.users.GetByEmail(ctx, AdminEmail)
	if err != nil {
		return nil, err
	}
	if admin != nil {
		return admin, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	admin = &models.User{
		Name:     adminName,
		Email:    AdminEmail,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := im.users.Create(ctx, admin); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "created bootstrap admin account",
		slog.String("email", AdminEmail))
	return admin, nil
}

// ImportFile parses the CSV at path and inserts all rows in one bulk write.
// It returns the number of listings inserted.
func (im *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return im.Import(ctx, f)
}

// Import parses CSV rows from r and inserts them in one bulk write. The first
// record is a header; columns are matched by name, so column order does not
// matter. Rows are accumulated before writing so a malformed row aborts the
// import without a partial insert.
func (im *Importer) Import(ctx context.Context, r io.Reader) (int, error) {
	admin, err := im.EnsureAdmin(ctx)
	if err != nil {
		return 0, err
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var properties []models.Property
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return 0, fmt.Errorf("read csv line %d: %w", line, err)
		}

		property, err := parseRow(cols, record)
		if err != nil {
			return 0, fmt.Errorf("csv line %d: %w", line, err)
		}
		property.CreatedBy = admin.ID
		properties = append(properties, property)
	}

	if err := im.props.CreateMany(ctx, properties); err != nil {
		return 0, err
	}

	middleware.Logger.InfoContext(ctx, "csv import complete",
		slog.Int("count", len(properties)))
	return len(properties), nil
}

func parseRow(cols map[string]int, record []string) (models.Property, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	price, err := parseFloat(field("price"))
	if err != nil {
		return models.Property{}, fmt.Errorf("price: %w", err)
	}
	area, err := parseFloat(field("areaSqFt"))
	if err != nil {
		return models.Property{}, fmt.Errorf("areaSqFt: %w", err)
	}
	bedrooms, err := parseInt(field("bedrooms"))
	if err != nil {
		return models.Property{}, fmt.Errorf("bedrooms: %w", err)
	}
	bathrooms, err := parseInt(field("bathrooms"))
	if err != nil {
		return models.Property{}, fmt.Errorf("bathrooms: %w", err)
	}
	rating, err := parseFloat(field("rating"))
	if err != nil {
		return models.Property{}, fmt.Errorf("rating: %w", err)
	}
	availableFrom, err := parseDate(field("availableFrom"))
	if err != nil {
		return models.Property{}, fmt.Errorf("availableFrom: %w", err)
	}

	return models.Property{
		Title:         field("title"),
		Type:          field("type"),
		Price:         price,
		State:         field("state"),
		City:          field("city"),
		AreaSqFt:      area,
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		Amenities:     splitPipes(field("amenities")),
		Furnished:     field("furnished"),
		AvailableFrom: availableFrom,
		ListedBy:      field("listedBy"),
		Tags:          splitPipes(field("tags")),
		ColorTheme:    field("colorTheme"),
		Rating:        rating,
		IsVerified:    field("isVerified") == "TRUE",
		ListingType:   field("listingType"),
	}, nil
}

// splitPipes splits a pipe-delimited list cell ("lift|gym|pool").
func splitPipes(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var values []string
	for _, v := range strings.Split(raw, "|") {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

func parseFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
