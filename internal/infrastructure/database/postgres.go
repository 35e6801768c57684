package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresDatabase wraps a gorm connection to Postgres.
type PostgresDatabase struct {
	conn *gorm.DB
}

func (p *PostgresDatabase) Connect(dsn string) (*gorm.DB, error) {
	db, err := ConnectDatabase(dsn)
	if err != nil {
		return nil, err
	}
	p.conn = db
	return db, nil
}

func (p *PostgresDatabase) GetConnection() (*gorm.DB, error) {
	if p.conn == nil {
		return nil, fmt.Errorf("database is not connected")
	}
	return p.conn, nil
}

func (p *PostgresDatabase) Close() error {
	if p.conn == nil {
		return nil
	}
	return CloseDatabase(p.conn)
}

func ConnectDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm open error: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlDB initialization error: %w", err)
	}

	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func CloseDatabase(db *gorm.DB) error {
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("error closing database connection: %w", err)
		}
	}

	return nil
}
