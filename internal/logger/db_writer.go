package logger

import (
	"context"
	"fmt"
	"time"

	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from zap to the background worker
type LogEntry struct {
	Level   zapcore.Level
	Message string
	Channel string // sync channel the entry belongs to, if any
	Store   string // canonical store, if any
	Caller  string
}

// DBLogWriter drains log entries into Mongo without blocking callers
type DBLogWriter struct {
	db      *mongo.Database
	logChan chan LogEntry
}

func NewDBLogWriter(mongodb *database.MongodbDB) *DBLogWriter {
	writer := &DBLogWriter{
		db:      mongodb.DB,
		logChan: make(chan LogEntry, 1000),
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by the zap core hook
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop rather than block the caller
		fmt.Println("log channel full, dropping:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		record := common_models.Log{
			Message:      entry.Message,
			Level:        entry.Level.String(),
			Caller:       entry.Caller,
			Channel:      entry.Channel,
			Store:        entry.Store,
			CreatedOnUtc: time.Now().UTC(),
		}

		// Errors are ignored on purpose: logging must never take the app down
		w.db.Collection("logs").InsertOne(context.Background(), record)
	}
}
