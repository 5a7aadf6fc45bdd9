package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/qaunion/portal/database"
	"github.com/qaunion/portal/model"
	"github.com/xuri/excelize/v2"
)

// Workbook layout shared by export, import and the template
const (
	SheetUniversities = "الجامعات"
	SheetTemplate     = "نموذج الجامعات"
	TemplateFileName  = "نموذج_الجامعات.xlsx"

	HeaderNumber = "الرقم"
	HeaderName   = "اسم الجامعة"
	HeaderLogo   = "اللوجو"
)

var (
	ErrNothingToExport = errors.New("universities.errors.nothingToExport")
	ErrInvalidWorkbook = errors.New("universities.errors.import")
	ErrNameRequired    = errors.New("universities.errors.nameRequired")
)

var columnWidths = []float64{10, 40, 50}

// ImportResult counts the rows of one import
type ImportResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// UniversityService is the universities collection plus its spreadsheet and print forms
type UniversityService struct {
	store *database.UniversityStore
	now   func() time.Time

	mu   sync.Mutex // guards rand
	rand *rand.Rand
}

// NewUniversityService creates a new university service
func NewUniversityService(store *database.UniversityStore) *UniversityService {
	return &UniversityService{
		store: store,
		now:   time.Now,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// List returns the universities whose name contains query, ignoring case
func (s *UniversityService) List(ctx context.Context, query string) ([]model.University, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list, nil
	}
	out := make([]model.University, 0, len(list))
	for _, u := range list {
		if strings.Contains(strings.ToLower(u.UniversityName), query) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UniversityService) Get(ctx context.Context, id int) (model.University, error) {
	return s.store.Get(ctx, id)
}

func (s *UniversityService) Create(ctx context.Context, in model.UniversityInput) (model.University, error) {
	in.Normalize()
	if in.Name == "" {
		return model.University{}, ErrNameRequired
	}
	u, err := s.store.Create(ctx, in)
	if err != nil {
		return model.University{}, fmt.Errorf("failed to create university: %w", err)
	}
	log.Printf("Created university %d: %s", u.UniversityID, u.UniversityName)
	return u, nil
}

// Update returns database.ErrNotFound when no record has id
func (s *UniversityService) Update(ctx context.Context, id int, in model.UniversityInput) (model.University, error) {
	in.Normalize()
	if in.Name == "" {
		return model.University{}, ErrNameRequired
	}
	found, err := s.store.Update(ctx, id, in)
	if err != nil {
		return model.University{}, fmt.Errorf("failed to update university: %w", err)
	}
	if !found {
		return model.University{}, database.ErrNotFound
	}
	u := model.University{UniversityID: id}
	in.Apply(&u)
	return u, nil
}

func (s *UniversityService) Delete(ctx context.Context, id int) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete university: %w", err)
	}
	return nil
}

// Snapshot copies the stored collection next to itself with a .bak suffix
func (s *UniversityService) Snapshot(ctx context.Context) (bool, error) {
	return s.store.Snapshot(ctx, ".bak")
}

// Export writes every stored university to a workbook
func (s *UniversityService) Export(ctx context.Context) (*excelize.File, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}
	return ExportWorkbook(list)
}

// ExportFileName is the download name of an export taken at now
func ExportFileName(now time.Time) string {
	return SheetUniversities + "_" + now.Format("2006-01-02") + ".xlsx"
}

func (s *UniversityService) ExportFileName() string {
	return ExportFileName(s.now())
}

// ExportWorkbook lays list out as numbered rows under the Arabic headers
func ExportWorkbook(list []model.University) (*excelize.File, error) {
	if len(list) == 0 {
		return nil, ErrNothingToExport
	}
	rows := make([][]interface{}, 0, len(list))
	for i, u := range list {
		rows = append(rows, []interface{}{i + 1, u.UniversityName, u.UniversityLogo})
	}
	return buildWorkbook(SheetUniversities, rows)
}

// TemplateWorkbook is an example import file with three sample rows
func TemplateWorkbook() (*excelize.File, error) {
	return buildWorkbook(SheetTemplate, [][]interface{}{
		{1, "جامعة القاهرة", "https://example.com/logo1.png"},
		{2, "جامعة الإسكندرية", "https://example.com/logo2.png"},
		{3, "الجامعة الأمريكية", "https://example.com/logo3.png"},
	})
}

func buildWorkbook(sheet string, rows [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	rtl := true
	if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set sheet view: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{HeaderNumber, HeaderName, HeaderLogo}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		f.SetCellStyle(sheet, "A1", "C1", style)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}
	return f, nil
}

// Import creates one university per row of the first sheet that has a name.
// Columns are found by their header text; rows without a name and rows whose
// create fails are counted as failures. Blank rows are ignored.
func (s *UniversityService) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var result ImportResult

	rows, err := ReadWorkbookRows(r)
	if err != nil {
		return result, err
	}

	for _, row := range rows {
		if row.Name == "" {
			result.Failed++
			continue
		}
		if _, err := s.store.Create(ctx, model.UniversityInput{Name: row.Name, Logo: row.Logo}); err != nil {
			log.Printf("Import row %d failed: %v", row.Line, err)
			result.Failed++
			continue
		}
		result.Succeeded++
	}

	log.Printf("Imported universities: %d added, %d failed", result.Succeeded, result.Failed)
	return result, nil
}

// WorkbookRow is one non-blank data row of an import file
type WorkbookRow struct {
	Line int
	Name string
	Logo string
}

// ReadWorkbookRows reads the data rows of the first sheet of r
func ReadWorkbookRows(r io.Reader) ([]WorkbookRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrInvalidWorkbook
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if len(rows) == 0 {
		return []WorkbookRow{}, nil
	}

	nameCol, logoCol := -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case HeaderName:
			nameCol = i
		case HeaderLogo:
			logoCol = i
		}
	}

	out := make([]WorkbookRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		out = append(out, WorkbookRow{
			Line: i + 2,
			Name: cell(row, nameCol),
			Logo: cell(row, logoCol),
		})
	}
	return out, nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// PrintDocument is the data of the printable universities list
type PrintDocument struct {
	Number       string
	Version      string
	Date         time.Time
	Universities []PrintRow
	Total        int
}

type PrintRow struct {
	Serial int
	Name   string
	Logo   string
}

// Print builds the print document for everything currently stored
func (s *UniversityService) Print(ctx context.Context) (*PrintDocument, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}

	now := s.now()
	s.mu.Lock()
	serial := s.rand.Intn(10000)
	s.mu.Unlock()
	doc := &PrintDocument{
		Number:       "QUA-" + strconv.Itoa(now.Year()) + "-" + fmt.Sprintf("%04d", serial),
		Version:      "1.0",
		Date:         now,
		Universities: make([]PrintRow, 0, len(list)),
		Total:        len(list),
	}
	for i, u := range list {
		doc.Universities = append(doc.Universities, PrintRow{Serial: i + 1, Name: u.UniversityName, Logo: u.UniversityLogo})
	}
	return doc, nil
}
