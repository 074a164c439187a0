package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ctoapp/cto-backend/config"
	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/internal/app/repository"
	"github.com/ctoapp/cto-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Bulk catalog importer. The workbook carries one sheet per resource:
// "manufacturers" (name, description), "tools" (name, description) and
// "techniques" (name, acronym, description). The first row of each sheet is
// a header. Rows whose name already exists are skipped.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.Auth.AdminSeedFile); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX file:", err)
	}
	defer f.Close()

	manufacturerRepo := repository.NewManufacturerRepository(db.GetDB())
	toolRepo := repository.NewToolRepository(db.GetDB())
	techniqueRepo := repository.NewTechniqueRepository(db.GetDB())

	imported := 0

	rows, err := sheetRows(f, "manufacturers")
	if err != nil {
		log.Fatal(err)
	}
	for _, row := range rows {
		name, description := cell(row, 0), cell(row, 1)
		if name == "" {
			continue
		}
		exists, err := manufacturerRepo.ExistsByName(name, 0)
		if err != nil {
			log.Fatal("Failed to check manufacturer:", err)
		}
		if exists {
			continue
		}
		m := &model.Manufacturer{Name: name, Description: description}
		if err := manufacturerRepo.Create(m); err != nil {
			log.Fatal("Failed to create manufacturer:", err)
		}
		imported++
	}

	rows, err = sheetRows(f, "tools")
	if err != nil {
		log.Fatal(err)
	}
	for _, row := range rows {
		name, description := cell(row, 0), cell(row, 1)
		if name == "" {
			continue
		}
		exists, err := toolRepo.ExistsByName(name, 0)
		if err != nil {
			log.Fatal("Failed to check tool:", err)
		}
		if exists {
			continue
		}
		t := &model.Tool{Name: name, Description: description}
		if err := toolRepo.Create(t); err != nil {
			log.Fatal("Failed to create tool:", err)
		}
		imported++
	}

	rows, err = sheetRows(f, "techniques")
	if err != nil {
		log.Fatal(err)
	}
	for _, row := range rows {
		name, acronym, description := cell(row, 0), cell(row, 1), cell(row, 2)
		if name == "" {
			continue
		}
		exists, err := techniqueRepo.ExistsByName(name, 0)
		if err != nil {
			log.Fatal("Failed to check technique:", err)
		}
		if exists {
			continue
		}
		t := &model.Technique{Name: name, Acronym: acronym, Description: description}
		if err := techniqueRepo.Create(t); err != nil {
			log.Fatal("Failed to create technique:", err)
		}
		imported++
	}

	fmt.Printf("Import completed successfully! Rows imported: %d\n", imported)
}

// sheetRows returns the data rows of a sheet, skipping the header. A
// missing sheet is not an error so partial workbooks import fine.
func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		fmt.Printf("Sheet %q not found, skipping\n", sheet)
		return nil, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
