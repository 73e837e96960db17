package postgres

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upEquipmentRecords, downEquipmentRecords)
}

func upEquipmentRecords(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE equipment_records (
			id BIGSERIAL PRIMARY KEY,
			created TIMESTAMP WITH TIME ZONE,
			sent TIMESTAMP WITH TIME ZONE,
			form_id VARCHAR(100),
			form_name VARCHAR(255),
			user_name VARCHAR(255),
			assigned_date TIMESTAMP WITH TIME ZONE,
			assigned_time VARCHAR(50),
			assigned_location VARCHAR(255),
			assigned_location_code VARCHAR(100),
			first_answer TIMESTAMP WITH TIME ZONE,
			last_answer TIMESTAMP WITH TIME ZONE,
			minutes_to_perform INTEGER,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			zona_cliente VARCHAR(255),
			ejecutado_por VARCHAR(255),
			tipo_equipo VARCHAR(255),
			numero_equipo_tag VARCHAR(255) NOT NULL,
			marca_modelo VARCHAR(255),
			otro_cliente VARCHAR(255),
			servicio VARCHAR(255),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE UNIQUE INDEX uq_equipment_records_tag_date
			ON equipment_records (numero_equipo_tag, assigned_date) NULLS NOT DISTINCT;
		CREATE INDEX idx_equipment_records_created_at ON equipment_records (created_at DESC);
		CREATE INDEX idx_equipment_records_assigned_date ON equipment_records (assigned_date);
	`)
	return err
}

func downEquipmentRecords(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE equipment_records;`)
	return err
}
