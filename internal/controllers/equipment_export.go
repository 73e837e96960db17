package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"inspection-ingest/internal/entities"
)

const exportSheet = "Inspecciones"

var exportHeaders = []string{
	"ID", "Tag", "Fecha asignada", "Hora asignada", "Ubicación", "Código ubicación",
	"Zona - Cliente", "Ejecutado por", "Tipo de Equipo", "Marca - Modelo", "Servicio",
	"Otro - Cliente", "Formulario", "Usuario", "Minutos", "Latitud", "Longitud",
	"Creado", "Enviado", "Actualizado",
}

func formatTime(t null.Time, layout string) string {
	if !t.Valid {
		return ""
	}
	return t.Time.UTC().Format(layout)
}

func formatFloat(f null.Float64) interface{} {
	if !f.Valid {
		return ""
	}
	return f.Float64
}

func equipmentToRow(e entities.Equipment) []interface{} {
	dateFmt, dateTimeFmt := "2006-01-02", "2006-01-02 15:04"

	var minutes interface{} = ""
	if e.MinutesToPerform.Valid {
		minutes = e.MinutesToPerform.Int
	}
	var updatedAt string
	if e.UpdatedAt != nil {
		updatedAt = e.UpdatedAt.UTC().Format(dateTimeFmt)
	}

	return []interface{}{
		e.ID, e.Tag, formatTime(e.AssignedDate, dateFmt), e.AssignedTime.String,
		e.AssignedLocation.String, e.AssignedLocationCode.String, e.ZonaCliente.String,
		e.EjecutadoPor.String, e.TipoEquipo.String, e.MarcaModelo.String, e.Servicio.String,
		e.OtroCliente.String, e.FormName.String, e.UserName.String, minutes,
		formatFloat(e.Latitude), formatFloat(e.Longitude),
		formatTime(e.Created, dateTimeFmt), formatTime(e.Sent, dateTimeFmt), updatedAt,
	}
}

func buildEquipmentWorkbook(list []entities.Equipment) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	_ = f.SetCellStyle(exportSheet, "A1", lastHeader, style)

	for i, item := range list {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := equipmentToRow(item)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(exportSheet, "B", "B", 25)
	_ = f.SetColWidth(exportSheet, "E", "K", 20)

	return f, nil
}

func respondWithXLSX(ctx echo.Context, list []entities.Equipment) error {
	f, err := buildEquipmentWorkbook(list)
	if err != nil {
		return err
	}
	defer f.Close()

	fileName := fmt.Sprintf("inspecciones_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
