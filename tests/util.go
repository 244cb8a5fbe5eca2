package testutil

import (
	"fmt"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/roster"
)

// NewConfig returns the application Config with test settings.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.TestMode = true
	conf.Debug = true
	if conf.SecretKey == "" {
		conf.SecretKey = "test-secret-key"
	}
	conf.Grouping.AttemptBudget = 200
	conf.Grouping.DefaultPrefix = "Group"
	return conf
}

func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

type LogEntry struct {
	Level   string
	Message string
	Args    []interface{}
}

// Logger records log entries in memory.
type Logger struct {
	mu      sync.Mutex
	entries []LogEntry
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args) }

// Entries returns the entries logged at level, or all of them when level is empty.
func (l *Logger) Entries(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := make([]LogEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			entries = append(entries, e)
		}
	}
	return entries
}

// Students returns n students s01..sNN alternating genders.
func Students(n int) []roster.Student {
	students := make([]roster.Student, 0, n)
	for i := 1; i <= n; i++ {
		gender := "F"
		if i%2 == 0 {
			gender = "M"
		}
		students = append(students, roster.Student{
			ID:     fmt.Sprintf("s%02d", i),
			Name:   fmt.Sprintf("Student %02d", i),
			Gender: gender,
		})
	}
	return students
}
