package config

// UploadConfig - ограничения на загружаемые файлы.
type UploadConfig struct {
	AllowedMimeTypes  []string
	AllowedExtensions []string
	MaxSizeMB         int64
}

// xlsx - это zip-архив, http.DetectContentType видит его как application/zip.
var UploadContexts = map[string]UploadConfig{
	"inspection_workbook": {
		AllowedMimeTypes:  []string{"application/zip", "application/octet-stream"},
		AllowedExtensions: []string{".xlsx"},
		MaxSizeMB:         20,
	},
}
