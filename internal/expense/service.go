package expense

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SjoenH/money-flow/internal/extract"
	"github.com/SjoenH/money-flow/internal/scanning"
)

// IDGenerator generates unique IDs for expenses
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.New().String()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles expense business logic
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	extractor   *extract.Extractor
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new expense service
func NewService(db DB, scanner scanning.Scanner, storage Storage) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		extractor:   extract.NewExtractor(),
		idGenerator: &uuidGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new expense service with custom dependencies (for testing)
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		extractor:   extract.NewExtractor(),
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename removes or replaces characters that could cause filesystem issues
func sanitizeFilename(filename string) string {
	// Get the extension first
	ext := filepath.Ext(filename)
	nameWithoutExt := strings.TrimSuffix(filename, ext)

	// Replace problematic characters with safe alternatives
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	sanitized := reg.ReplaceAllString(nameWithoutExt, "")

	// Replace multiple spaces with single space and trim
	reg = regexp.MustCompile(`\s+`)
	sanitized = reg.ReplaceAllString(sanitized, " ")
	sanitized = strings.TrimSpace(sanitized)

	// Limit length to avoid filesystem issues
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
		sanitized = strings.TrimSpace(sanitized)
	}

	// If nothing is left, use a default name
	if sanitized == "" {
		sanitized = "receipt"
	}

	return sanitized + ext
}

// IngestReceipt stores a receipt file, scans it to text and extracts expense fields
func (s *Service) IngestReceipt(filename string, data []byte, contentType string) (*Expense, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	// Sanitize the original filename and prefix with ID for uniqueness
	cleanFilename := sanitizeFilename(filename)
	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	// Scan the receipt to recover its text
	text, err := s.scanner.ScanReceipt(data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"expense_id", id,
			"filename", filename,
			"content_type", contentType,
			"error", err)
		// Clean up the saved file since we couldn't process it
		if delErr := s.storage.Delete(savedPath); delErr != nil {
			slog.Warn("Failed to clean up file after scan error", "path", savedPath, "error", delErr)
		}
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	fields := s.extractor.ExtractFields(text)

	expense := &Expense{
		ID:          id,
		Merchant:    fields.Merchant,
		Currency:    fields.Currency,
		Total:       fields.Total,
		VATAmount:   fields.VATAmount,
		Filename:    savedPath,
		ContentType: contentType,
		RawText:     text,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.SaveExpense(expense); err != nil {
		// Clean up the saved file since we couldn't save the record
		if delErr := s.storage.Delete(savedPath); delErr != nil {
			slog.Warn("Failed to clean up file after save error", "path", savedPath, "error", delErr)
		}
		return nil, fmt.Errorf("saving expense: %w", err)
	}

	return expense, nil
}

// ParseText extracts expense fields from already scanned receipt text
func (s *Service) ParseText(text string) extract.ExtractedFields {
	return s.extractor.ExtractFields(text)
}

// GetExpense retrieves an expense by ID
func (s *Service) GetExpense(id string) (*Expense, error) {
	return s.db.GetExpense(id)
}

// ListExpenses retrieves all expenses
func (s *Service) ListExpenses() ([]*Expense, error) {
	return s.db.ListExpenses()
}

// DeleteExpense removes an expense and its file
func (s *Service) DeleteExpense(id string) error {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return fmt.Errorf("getting expense: %w", err)
	}

	if err := s.storage.Delete(expense.Filename); err != nil {
		// Log but continue, the record is more important than the file
		slog.Warn("Failed to delete expense file", "path", expense.Filename, "error", err)
	}

	if err := s.db.DeleteExpense(id); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	return nil
}

// GetExpenseFile retrieves the stored receipt file for an expense
func (s *Service) GetExpenseFile(id string) ([]byte, string, error) {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting expense: %w", err)
	}

	data, err := s.storage.Get(expense.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting file: %w", err)
	}

	return data, expense.ContentType, nil
}
