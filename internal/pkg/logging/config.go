package logging

// Поддерживаемые форматы вывода логов.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Поддерживаемые уровни логирования.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Поддерживаемые типы вывода логов.
const (
	OutputStderr = "stderr"
	OutputFile   = "file"
)

// Значения по умолчанию для Config.
const (
	DefaultLevel      = LevelInfo
	DefaultFormat     = FormatText
	DefaultOutput     = OutputStderr
	DefaultFilePath   = "testshard.log"
	DefaultMaxSize    = 100 // MB
	DefaultMaxBackups = 3
	DefaultMaxAge     = 7 // days
	DefaultCompress   = true
)

// Config содержит настройки логирования.
type Config struct {
	Format string
	Level  string

	// Output — "stderr" или "file".
	Output string

	// Параметры ротации при Output = "file".
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// DefaultConfig возвращает Config со значениями по умолчанию.
func DefaultConfig() Config {
	return Config{
		Level:      DefaultLevel,
		Format:     DefaultFormat,
		Output:     DefaultOutput,
		FilePath:   DefaultFilePath,
		MaxSize:    DefaultMaxSize,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAge,
		Compress:   DefaultCompress,
	}
}
