package controllers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inspection-ingest/internal/dto"
)

func inspectionWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func doUpload(t *testing.T, h echo.HandlerFunc, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/equipment/import", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	_ = h(newEcho().NewContext(req, rec))
	return rec
}

func TestIngestController_ImportWorkbook(t *testing.T) {
	svc := &stubIngestService{resp: &dto.BatchResponseDTO{Success: true, Processed: 1, Message: "Processed 1 rows"}}
	c := NewIngestController(svc, zap.NewNop())

	content := inspectionWorkbook(t, [][]interface{}{
		{"Tag", "Fecha", "Servicio"},
		{"T-1", "2024-03-05", "Preventivo"},
	})
	rec := doUpload(t, c.ImportWorkbook, "inspecciones.xlsx", content)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "Sheet1", svc.lastReq.Sheet)
	require.Len(t, svc.lastReq.Rows, 1)
	assert.Equal(t, 2, svc.lastReq.Rows[0].RowNumber)
	assert.Equal(t, "T-1", svc.lastReq.Rows[0].Data["Tag"])

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
}

func TestIngestController_ImportWorkbook_Rejected(t *testing.T) {
	valid := inspectionWorkbook(t, [][]interface{}{{"Tag"}, {"T-1"}})
	headerOnly := inspectionWorkbook(t, [][]interface{}{{"Tag", "Servicio"}})
	noHeader := inspectionWorkbook(t, [][]interface{}{{"foo"}, {"bar"}})

	cases := []struct {
		name     string
		filename string
		content  []byte
	}{
		{"no file", "", nil},
		{"wrong extension", "inspecciones.csv", valid},
		{"not a workbook", "inspecciones.xlsx", []byte("Tag,Servicio\nT-1,Preventivo\n")},
		{"no header", "inspecciones.xlsx", noHeader},
		{"no data rows", "inspecciones.xlsx", headerOnly},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubIngestService{}
			c := NewIngestController(svc, zap.NewNop())

			rec := doUpload(t, c.ImportWorkbook, tc.filename, tc.content)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, svc.calls)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestIngestController_ImportWorkbook_StoreFailure(t *testing.T) {
	svc := &stubIngestService{err: errors.New("connection refused")}
	c := NewIngestController(svc, zap.NewNop())

	rec := doUpload(t, c.ImportWorkbook, "inspecciones.xlsx", inspectionWorkbook(t, [][]interface{}{{"Tag"}, {"T-1"}}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, msgInternalError, body["error"])
	assert.Equal(t, "connection refused", body["details"])
}
