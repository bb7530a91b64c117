package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

type Logger struct {
	level   LogLevel
	mu      sync.Mutex
	file    *os.File
	useFile bool
}

type Config struct {
	Level      string            `json:"level"`
	Output     string            `json:"output"`
	FilePath   string            `json:"file_path"`
	Components map[string]string `json:"components"`
}

var (
	instance        *Logger
	once            sync.Once
	componentLevels map[string]LogLevel
)

func init() {
	componentLevels = make(map[string]LogLevel)
	for _, comp := range []string{
		ComponentEdit, ComponentFormula, ComponentPoint, ComponentClipboard,
		ComponentFill, ComponentGrid, ComponentFilter, ComponentUndo,
	} {
		componentLevels[comp] = INFO
	}
}

func GetLogger() *Logger {
	once.Do(func() {
		instance = &Logger{
			level:   INFO,
			useFile: false,
		}
	})
	return instance
}

func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func SetComponentLevel(component string, level LogLevel) {
	componentLevels[component] = level
}

func getComponentLevel(component string) LogLevel {
	if level, exists := componentLevels[component]; exists {
		return level
	}
	return INFO
}

func (l *Logger) SetFileOutput(filepath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		l.file.Close()
	}

	file, err := os.OpenFile(filepath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	l.file = file
	l.useFile = true
	return nil
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) log(level LogLevel, component, message string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	componentLevel := getComponentLevel(component)
	if level < componentLevel {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	levelStr := l.levelToString(level)

	var fieldsStr string
	if len(fields) > 0 {
		fieldsStr = " |"
		for k, v := range fields {
			fieldsStr += fmt.Sprintf(" %s=%v", k, v)
		}
	}

	logLine := fmt.Sprintf("[%s] %s [%s] %s%s\n", timestamp, levelStr, component, message, fieldsStr)
	fmt.Print(logLine)

	if l.useFile && l.file != nil {
		l.file.WriteString(logLine)
	}

	if level == FATAL {
		if l.useFile && l.file != nil {
			l.file.Close()
		}
		os.Exit(1)
	}
}

func (l *Logger) levelToString(level LogLevel) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO "
	case WARN:
		return "WARN "
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKN "
	}
}

func (l *Logger) Debug(component, message string) {
	l.log(DEBUG, component, message, nil)
}

func (l *Logger) Debugf(component, format string, args ...interface{}) {
	l.log(DEBUG, component, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Info(component, message string) {
	l.log(INFO, component, message, nil)
}

func (l *Logger) Infof(component, format string, args ...interface{}) {
	l.log(INFO, component, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Warn(component, message string) {
	l.log(WARN, component, message, nil)
}

func (l *Logger) Warnf(component, format string, args ...interface{}) {
	l.log(WARN, component, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Error(component, message string) {
	l.log(ERROR, component, message, nil)
}

func (l *Logger) Errorf(component, format string, args ...interface{}) {
	l.log(ERROR, component, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Fatal(component, message string) {
	l.log(FATAL, component, message, nil)
}

func (l *Logger) WithFields(level LogLevel, component, message string, fields map[string]interface{}) {
	l.log(level, component, message, fields)
}

const (
	ComponentEdit      = "EDIT"
	ComponentFormula   = "FORMULA"
	ComponentPoint     = "POINT"
	ComponentClipboard = "CLIPBOARD"
	ComponentFill      = "FILL"
	ComponentGrid      = "GRID"
	ComponentFilter    = "FILTER"
	ComponentUndo      = "UNDO"
)

func EditDebug(message string) { GetLogger().Debug(ComponentEdit, message) }
func EditInfo(message string)  { GetLogger().Info(ComponentEdit, message) }
func EditWarn(message string)  { GetLogger().Warn(ComponentEdit, message) }
func EditError(message string) { GetLogger().Error(ComponentEdit, message) }

func FormulaDebug(message string) { GetLogger().Debug(ComponentFormula, message) }
func FormulaInfo(message string)  { GetLogger().Info(ComponentFormula, message) }
func FormulaWarn(message string)  { GetLogger().Warn(ComponentFormula, message) }
func FormulaError(message string) { GetLogger().Error(ComponentFormula, message) }

func PointDebug(message string) { GetLogger().Debug(ComponentPoint, message) }
func PointInfo(message string)  { GetLogger().Info(ComponentPoint, message) }
func PointWarn(message string)  { GetLogger().Warn(ComponentPoint, message) }

func ClipboardDebug(message string) { GetLogger().Debug(ComponentClipboard, message) }
func ClipboardInfo(message string)  { GetLogger().Info(ComponentClipboard, message) }
func ClipboardWarn(message string)  { GetLogger().Warn(ComponentClipboard, message) }
func ClipboardError(message string) { GetLogger().Error(ComponentClipboard, message) }

func FillDebug(message string) { GetLogger().Debug(ComponentFill, message) }
func FillInfo(message string)  { GetLogger().Info(ComponentFill, message) }
func FillWarn(message string)  { GetLogger().Warn(ComponentFill, message) }

func GridDebug(message string) { GetLogger().Debug(ComponentGrid, message) }
func GridInfo(message string)  { GetLogger().Info(ComponentGrid, message) }
func GridWarn(message string)  { GetLogger().Warn(ComponentGrid, message) }

func FilterDebug(message string) { GetLogger().Debug(ComponentFilter, message) }
func FilterInfo(message string)  { GetLogger().Info(ComponentFilter, message) }

func UndoDebug(message string) { GetLogger().Debug(ComponentUndo, message) }
func UndoInfo(message string)  { GetLogger().Info(ComponentUndo, message) }
func UndoWarn(message string)  { GetLogger().Warn(ComponentUndo, message) }

func LoadConfig(configPath string) error {
	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err == nil {
			configPath = absPath
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("erro ao ler arquivo de configuração %s: %w", configPath, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("erro ao parsear arquivo de configuração: %w", err)
	}

	logger := GetLogger()
	logger.mu.Lock()

	if globalLevel, ok := parseLogLevel(config.Level); ok {
		logger.level = globalLevel
	}

	if config.Output == "file" && config.FilePath != "" {
		logger.mu.Unlock()
		if err := logger.SetFileOutput(config.FilePath); err != nil {
			fmt.Printf("[LOGGER] Aviso: não foi possível configurar arquivo de log: %v\n", err)
		}
		logger.mu.Lock()
	}

	for component, levelStr := range config.Components {
		if level, ok := parseLogLevel(levelStr); ok {
			componentLevels[component] = level
		}
	}

	logger.mu.Unlock()

	logger.Info("LOGGER", fmt.Sprintf("Configuração carregada de %s (nível: %s)", configPath, config.Level))
	return nil
}

func parseLogLevel(levelStr string) (LogLevel, bool) {
	switch levelStr {
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN":
		return WARN, true
	case "ERROR":
		return ERROR, true
	case "FATAL":
		return FATAL, true
	default:
		return INFO, false
	}
}

func InitializeWithDefaults(level LogLevel) {
	logger := GetLogger()
	logger.SetLevel(level)
	logger.Info("LOGGER", fmt.Sprintf("Logger inicializado com nível padrão: %s", LevelToString(level)))
}

func LevelToString(level LogLevel) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKN"
	}
}
