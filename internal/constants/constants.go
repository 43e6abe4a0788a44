// Package constants содержит константы, общие для всех пакетов testshard.
// Константы сгруппированы по назначению: имена команд, переменные окружения, коды выхода.
package constants

// Информация о сборке. Значения подставляются через -ldflags при сборке:
//
//	go build -ldflags "-X github.com/Kargones/testshard/internal/constants.Version=1.2.0"
var (
	// Version - версия приложения
	Version = "dev"
	// PreCommitHash - хеш коммита, из которого собран бинарник
	PreCommitHash = "unknown"
)

// AppName - имя приложения для логов, метрик и трейсов.
const AppName = "testshard"

// APIVersion - версия формата машиночитаемого вывода.
const APIVersion = "v1"

// Имена команд
const (
	// ActShardRun - сбор, разбиение и запуск тестов текущего шарда
	ActShardRun = "shard-run"
	// ActShardPlan - вывод плана шарда без запуска тестов
	ActShardPlan = "shard-plan"
	// ActVersion - вывод версии
	ActVersion = "version"
	// ActHelp - список команд и переменных окружения
	ActHelp = "help"
)

// Переменные окружения, которые читаются вне cleanenv-структур.
const (
	// EnvConfigFile - путь к необязательному YAML-файлу конфигурации
	EnvConfigFile = "SHARD_CONFIG_FILE"
)

// Коды выхода процесса.
const (
	// ExitOK - успех, в том числе пустой шард
	ExitOK = 0
	// ExitFailure - ошибка без собственного кода выхода
	ExitFailure = 1
	// ExitConfig - отсутствующая или некорректная конфигурация шарда
	ExitConfig = 2
	// ExitStartFailed - исполняемый файл раннера не удалось запустить
	ExitStartFailed = 127
)

// ExitNoTestsCollected - код выхода pytest, когда под фильтр не попал ни один тест.
const ExitNoTestsCollected = 5

// Сообщения для логов
const (
	// MsgAppExit - сообщение о завершении работы программы
	MsgAppExit = "Завершение работы программы"
	// MsgErrProcessing - ключ атрибута с описанием обработки ошибки
	MsgErrProcessing = "Обработка ошибки"
)
