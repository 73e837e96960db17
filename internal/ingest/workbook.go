package ingest

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"inspection-ingest/internal/dto"
)

// ErrHeaderNotFound - ни на одном листе нет строки с известными колонками.
var ErrHeaderNotFound = errors.New("header row not found: expected columns like 'Tag' or 'assigned_date'")

// Шапка ищется только в первых строках листа.
const headerScanRows = 20

var knownColumns = func() map[string]bool {
	m := map[string]bool{}
	for _, list := range [][]string{TagAliases, AreaAliases, TypeAliases, NumberAliases} {
		for _, name := range list {
			m[strings.ToLower(name)] = true
		}
	}
	for _, alias := range FieldAliases {
		for _, name := range alias.Aliases {
			m[strings.ToLower(name)] = true
		}
	}
	return m
}()

// ReadWorkbook превращает xlsx-выгрузку формы в пакет строк. Если sheet пуст,
// берется первый лист, на котором нашлась шапка. RowNumber - номер строки в Excel.
func ReadWorkbook(r io.Reader, sheet string) (*dto.BatchRequestDTO, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheet != "" {
		sheets = []string{sheet}
	}

	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения листа %q: %w", name, err)
		}
		headerIdx := findHeader(rows)
		if headerIdx < 0 {
			continue
		}
		return &dto.BatchRequestDTO{
			Sheet: name,
			Rows:  collectRows(rows, headerIdx),
		}, nil
	}

	return nil, ErrHeaderNotFound
}

func findHeader(rows [][]string) int {
	for i, row := range rows {
		if i >= headerScanRows {
			break
		}
		for _, cell := range row {
			if knownColumns[strings.ToLower(strings.TrimSpace(cell))] {
				return i
			}
		}
	}
	return -1
}

func collectRows(rows [][]string, headerIdx int) []dto.BatchRowDTO {
	header := rows[headerIdx]
	result := make([]dto.BatchRowDTO, 0, len(rows)-headerIdx-1)

	for i := headerIdx + 1; i < len(rows); i++ {
		data := map[string]interface{}{}
		for col, cell := range rows[i] {
			if col >= len(header) {
				break
			}
			key := strings.TrimSpace(header[col])
			value := strings.TrimSpace(cell)
			if key == "" || value == "" {
				continue
			}
			data[key] = value
		}
		if len(data) == 0 {
			continue
		}
		result = append(result, dto.BatchRowDTO{RowNumber: i + 1, Data: data})
	}
	return result
}
