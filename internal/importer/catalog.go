// Package importer は書籍カタログとフィード用コンテンツを .xlsx / .yaml から読み込みます。
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

const (
	SheetBooks   = "Books"
	SheetContent = "Content"
)

type BookRecord struct {
	Title           string `yaml:"title"`
	Author          string `yaml:"author"`
	Category        string `yaml:"category"`
	ReadTimeMinutes int    `yaml:"read_time_minutes"`
	Summary         string `yaml:"summary"`
}

type ContentRecord struct {
	Text               string `yaml:"text"`
	DimensionTag       string `yaml:"dimension_tag"`
	InterventionWeight int    `yaml:"intervention_weight"`
	Author             string `yaml:"author"`
}

// Catalog はインポート対象の全レコード
type Catalog struct {
	Books   []BookRecord    `yaml:"books"`
	Content []ContentRecord `yaml:"content"`
}

// ParseFile は拡張子で形式を判定して読み込む
func ParseFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return ParseXLSX(f)
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .xlsx or .yaml)", ext)
	}
}

func ParseYAML(r io.Reader) (*Catalog, error) {
	var cat Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		if err == io.EOF {
			return &cat, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &cat, nil
}

// ParseXLSX は Books / Content シートを読み込む。1行目はヘッダーで、列は名前で対応付ける。
// どちらのシートも省略できる。
func ParseXLSX(r io.Reader) (*Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}

	var cat Catalog
	if sheets[SheetBooks] {
		rows, err := f.GetRows(SheetBooks)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", SheetBooks, err)
		}
		for i, row := range dataRows(rows) {
			minutes, err := atoiCell(row.get("read_time_minutes"))
			if err != nil {
				return nil, fmt.Errorf("sheet %s row %d: read_time_minutes: %w", SheetBooks, i+2, err)
			}
			cat.Books = append(cat.Books, BookRecord{
				Title:           row.get("title"),
				Author:          row.get("author"),
				Category:        row.get("category"),
				ReadTimeMinutes: minutes,
				Summary:         row.get("summary"),
			})
		}
	}
	if sheets[SheetContent] {
		rows, err := f.GetRows(SheetContent)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", SheetContent, err)
		}
		for i, row := range dataRows(rows) {
			weight, err := atoiCell(row.get("intervention_weight"))
			if err != nil {
				return nil, fmt.Errorf("sheet %s row %d: intervention_weight: %w", SheetContent, i+2, err)
			}
			cat.Content = append(cat.Content, ContentRecord{
				Text:               row.get("text"),
				DimensionTag:       row.get("dimension_tag"),
				InterventionWeight: weight,
				Author:             row.get("author"),
			})
		}
	}
	return &cat, nil
}

type sheetRow struct {
	header map[string]int
	cells  []string
}

func (r sheetRow) get(col string) string {
	i, ok := r.header[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// dataRows はヘッダー以降の空でない行を返す
func dataRows(rows [][]string) []sheetRow {
	if len(rows) == 0 {
		return nil
	}
	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	out := make([]sheetRow, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		out = append(out, sheetRow{header: header, cells: cells})
	}
	return out
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func atoiCell(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
