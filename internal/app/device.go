package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"moviewatch/internal/config"
	"moviewatch/internal/device"
	"moviewatch/internal/repository/db"
	"moviewatch/internal/session"
)

const deviceDirName = ".moviewatch"

// DefaultDevicePath is ~/.moviewatch/device.db.
func DefaultDevicePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, deviceDirName, "device.db"), nil
}

// OpenSessionStore opens the device key/value file and returns the session store on top of it.
func OpenSessionStore(cfg *config.Config) (session.Store, Closer, error) {
	path := cfg.Device.Path
	if path == "" {
		p, err := DefaultDevicePath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}

	conn, err := db.InitDB(path, db.SchemaKV)
	if err != nil {
		return nil, nil, fmt.Errorf("open device store: %w", err)
	}
	return session.NewKVStore(device.NewSQLiteKV(conn)), conn.Close, nil
}

// joinClosers closes in reverse order and reports every failure.
func joinClosers(closers ...Closer) Closer {
	return func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if closers[i] == nil {
				continue
			}
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
