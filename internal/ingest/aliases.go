package ingest

// Колонки таблицы, из которых собирается тег и которые проверяются на "Otro".
const (
	FieldArea        = "Area"
	FieldTipoEquipo  = "Tipo de Equipo"
	FieldEjecutado   = "Ejecutado por"
	FieldNumero      = "Numero del Equipo"
	FieldTipoTag     = "Tipo de Equipo Tag"
	FieldNumeroTag   = "Numero del Equipo Tag"
	FieldTagExplicit = "Numero de Equipo (Tag)"
	FieldTag         = "Tag"
)

// Тип значения колонки.
type FieldKind int

const (
	KindString FieldKind = iota
	KindText
	KindDate
	KindInteger
	KindNumber
)

// FieldAlias - логическое поле записи и список имен колонок, под которыми оно
// может прийти. Берется первая колонка, значение которой проходит проверку.
type FieldAlias struct {
	Column  string
	Kind    FieldKind
	Aliases []string
}

// Имена "Numero del Equipo" встречаются и в TagAliases, и в NumberAliases:
// это и тег целиком, и номер при сборке тега.
var (
	TagAliases    = []string{FieldTagExplicit, FieldTag, FieldNumero}
	AreaAliases   = []string{FieldArea}
	TypeAliases   = []string{FieldTipoTag, FieldTipoEquipo}
	NumberAliases = []string{FieldNumeroTag, FieldNumero}
)

var FieldAliases = []FieldAlias{
	{Column: "created", Kind: KindDate, Aliases: []string{"created"}},
	{Column: "sent", Kind: KindDate, Aliases: []string{"sent"}},
	{Column: "form_id", Kind: KindText, Aliases: []string{"form_id"}},
	{Column: "form_name", Kind: KindString, Aliases: []string{"form_name"}},
	{Column: "user_name", Kind: KindString, Aliases: []string{"user", "user_name"}},
	{Column: "assigned_date", Kind: KindDate, Aliases: []string{"assigned_date"}},
	{Column: "assigned_time", Kind: KindText, Aliases: []string{"assigned_time"}},
	{Column: "assigned_location", Kind: KindString, Aliases: []string{"assigned_location"}},
	{Column: "assigned_location_code", Kind: KindText, Aliases: []string{"assigned_location_code"}},
	{Column: "first_answer", Kind: KindDate, Aliases: []string{"first_answer"}},
	{Column: "last_answer", Kind: KindDate, Aliases: []string{"last_answer"}},
	{Column: "minutes_to_perform", Kind: KindInteger, Aliases: []string{"minutes_to_perform"}},
	{Column: "latitude", Kind: KindNumber, Aliases: []string{"latitude"}},
	{Column: "longitude", Kind: KindNumber, Aliases: []string{"longitude"}},
	{Column: "zona_cliente", Kind: KindString, Aliases: []string{"Zona - Cliente"}},
	{Column: "ejecutado_por", Kind: KindString, Aliases: []string{FieldEjecutado}},
	{Column: "tipo_equipo", Kind: KindString, Aliases: []string{FieldTipoEquipo}},
	{Column: "marca_modelo", Kind: KindString, Aliases: []string{"Marca - Modelo", "Marca"}},
	{Column: "otro_cliente", Kind: KindString, Aliases: []string{"Otro - Cliente"}},
	{Column: "servicio", Kind: KindString, Aliases: []string{"Servicio"}},
}
