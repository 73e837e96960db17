package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inspection-ingest/internal/entities"
	apperrors "inspection-ingest/pkg/errors"
	"inspection-ingest/pkg/types"
)

const equipmentTable = "equipment_records"

var equipmentColumns = []string{
	"id", "created", "sent", "form_id", "form_name", "user_name",
	"assigned_date", "assigned_time", "assigned_location", "assigned_location_code",
	"first_answer", "last_answer", "minutes_to_perform", "latitude", "longitude",
	"zona_cliente", "ejecutado_por", "tipo_equipo", "numero_equipo_tag",
	"marca_modelo", "otro_cliente", "servicio", "created_at", "updated_at",
}

// Колонки, по которым разрешены filter[...] и sort[...].
var (
	equipmentFilterColumns = map[string]bool{
		"numero_equipo_tag": true, "ejecutado_por": true, "tipo_equipo": true,
		"servicio": true, "zona_cliente": true, "form_id": true,
	}
	equipmentSortColumns = map[string]bool{
		"created_at": true, "updated_at": true, "assigned_date": true,
		"numero_equipo_tag": true, "id": true,
	}
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type EquipmentRepositoryInterface interface {
	// Session берет из пула одно соединение на весь пакет.
	Session(ctx context.Context) (EquipmentSessionInterface, error)
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
}

// EquipmentSessionInterface - соединение, закрепленное за одним пакетом.
// Close обязателен на любом пути выхода.
type EquipmentSessionInterface interface {
	InTx(ctx context.Context, fn func(tx EquipmentTxInterface) error) error
	Close()
}

// EquipmentTxInterface - операции внутри транзакции одной строки.
type EquipmentTxInterface interface {
	LockKey(ctx context.Context, tag string, assignedDate null.Time) error
	FindByKey(ctx context.Context, tag string, assignedDate null.Time) (*entities.Equipment, error)
	Create(ctx context.Context, record entities.Equipment) (*entities.Equipment, error)
	Update(ctx context.Context, id uint64, record entities.Equipment) (*entities.Equipment, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{
		storage: storage,
		logger:  logger.Named("equipment_repository"),
	}
}

func (r *EquipmentRepository) Session(ctx context.Context) (EquipmentSessionInterface, error) {
	conn, err := r.storage.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return &equipmentSession{conn: conn}, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	base := psql.Select().From(equipmentTable)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"numero_equipo_tag": like},
			sq.ILike{"zona_cliente": like},
			sq.ILike{"assigned_location": like},
		})
	}

	for field, value := range filter.Filter {
		str := fmt.Sprint(value)
		switch {
		case field == "assigned_date":
			base = base.Where(sq.Expr("assigned_date::date = ?::date", str))
		case equipmentFilterColumns[field]:
			values := strings.Split(str, ",")
			if len(values) == 1 {
				base = base.Where(sq.Eq{field: values[0]})
			} else {
				base = base.Where(sq.Eq{field: values})
			}
		default:
			r.logger.Debug("игнорируем неизвестный фильтр", zap.String("field", field))
		}
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка построения запроса: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}

	query := base.Columns(equipmentColumns...)
	sorted := false
	for field, direction := range filter.Sort {
		if equipmentSortColumns[field] {
			query = query.OrderBy(field + " " + strings.ToUpper(direction))
			sorted = true
		}
	}
	if !sorted {
		query = query.OrderBy("created_at DESC")
	}
	if filter.WithPagination && filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка построения запроса: %w", err)
	}

	rows, err := r.storage.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.Equipment, 0)
	for rows.Next() {
		rec, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *rec)
	}
	return list, total, rows.Err()
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	sqlStr, args, err := psql.Select(equipmentColumns...).From(equipmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	rec, err := scanEquipment(r.storage.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return rec, err
}

type equipmentSession struct {
	conn *pgxpool.Conn
}

func (s *equipmentSession) InTx(ctx context.Context, fn func(tx EquipmentTxInterface) error) error {
	return WithTx(ctx, s.conn, func(tx pgx.Tx) error {
		return fn(&equipmentTx{q: tx})
	})
}

func (s *equipmentSession) Close() {
	s.conn.Release()
}

type equipmentTx struct {
	q querier
}

// LockKey - advisory-блокировка ключа до конца транзакции, чтобы параллельные
// пакеты с одним (tag, date) не создали дубль.
func (t *equipmentTx) LockKey(ctx context.Context, tag string, assignedDate null.Time) error {
	_, err := t.q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", lockKey(tag, assignedDate))
	return err
}

func (t *equipmentTx) FindByKey(ctx context.Context, tag string, assignedDate null.Time) (*entities.Equipment, error) {
	sqlStr, args, err := psql.Select(equipmentColumns...).
		From(equipmentTable).
		Where(sq.Eq{"numero_equipo_tag": tag}).
		Where(sq.Expr("assigned_date IS NOT DISTINCT FROM ?::timestamptz", assignedDate)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	rec, err := scanEquipment(t.q.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return rec, err
}

func (t *equipmentTx) Create(ctx context.Context, record entities.Equipment) (*entities.Equipment, error) {
	sqlStr, args, err := psql.Insert(equipmentTable).
		SetMap(equipmentValues(record)).
		Suffix("RETURNING " + strings.Join(equipmentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipment(t.q.QueryRow(ctx, sqlStr, args...))
}

// Update полностью перезаписывает запись значениями из record.
func (t *equipmentTx) Update(ctx context.Context, id uint64, record entities.Equipment) (*entities.Equipment, error) {
	sqlStr, args, err := psql.Update(equipmentTable).
		SetMap(equipmentValues(record)).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(equipmentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	rec, err := scanEquipment(t.q.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return rec, err
}

func lockKey(tag string, assignedDate null.Time) string {
	date := "null"
	if assignedDate.Valid {
		date = assignedDate.Time.UTC().Format("2006-01-02T15:04:05.000Z")
	}
	return equipmentTable + "|" + tag + "|" + date
}

func equipmentValues(e entities.Equipment) map[string]interface{} {
	return map[string]interface{}{
		"created":                e.Created,
		"sent":                   e.Sent,
		"form_id":                e.FormID,
		"form_name":              e.FormName,
		"user_name":              e.UserName,
		"assigned_date":          e.AssignedDate,
		"assigned_time":          e.AssignedTime,
		"assigned_location":      e.AssignedLocation,
		"assigned_location_code": e.AssignedLocationCode,
		"first_answer":           e.FirstAnswer,
		"last_answer":            e.LastAnswer,
		"minutes_to_perform":     e.MinutesToPerform,
		"latitude":               e.Latitude,
		"longitude":              e.Longitude,
		"zona_cliente":           e.ZonaCliente,
		"ejecutado_por":          e.EjecutadoPor,
		"tipo_equipo":            e.TipoEquipo,
		"numero_equipo_tag":      e.Tag,
		"marca_modelo":           e.MarcaModelo,
		"otro_cliente":           e.OtroCliente,
		"servicio":               e.Servicio,
	}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID, &e.Created, &e.Sent, &e.FormID, &e.FormName, &e.UserName,
		&e.AssignedDate, &e.AssignedTime, &e.AssignedLocation, &e.AssignedLocationCode,
		&e.FirstAnswer, &e.LastAnswer, &e.MinutesToPerform, &e.Latitude, &e.Longitude,
		&e.ZonaCliente, &e.EjecutadoPor, &e.TipoEquipo, &e.Tag,
		&e.MarcaModelo, &e.OtroCliente, &e.Servicio, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
