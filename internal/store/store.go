package store

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type Config interface {
	DataDirectory() string
}

type Store struct {
	db *sqlx.DB
}

func Open(config Config) (*Store, error) {
	dbName := path.Join(config.DataDirectory(), "gatehouse.db")

	isCreating := false
	_, err := os.Stat(dbName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			isCreating = true
		}
	}

	db, err := sqlx.Connect("sqlite3", "file:"+dbName+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &Store{db}
	if isCreating {
		err = store.createTables()
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("creating tables: %w", err)
		}
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	_, err := s.db.Exec(`create table post(
		ID          text not null primary key,
		CreatedAt   DATETIME not null,
		AuthorID    text not null,
		CommunityID text not null,
		Content     text not null,
		MediaRef    text not null default '',
		Status      tinyint not null default 0,
		DecidedAt   DATETIME null,
		DecidedBy   text null
	)`)
	if err != nil {
		return fmt.Errorf("creating post table: %w", err)
	}

	_, err = s.db.Exec(`create table notification(
		ID          text not null primary key,
		CreatedAt   DATETIME not null,
		RecipientID text not null,
		PostID      text not null,
		CommunityID text not null,
		IsRead      boolean not null default 0
	)`)
	if err != nil {
		return fmt.Errorf("creating notification table: %w", err)
	}

	_, err = s.db.Exec(`create unique index notification_post_recipient
		on notification(PostID, RecipientID)`)
	if err != nil {
		return fmt.Errorf("creating notification index: %w", err)
	}

	_, err = s.db.Exec(`create table community(
		ID        text not null primary key,
		CreatedAt DATETIME not null,
		Name      text not null
	)`)
	if err != nil {
		return fmt.Errorf("creating community table: %w", err)
	}

	_, err = s.db.Exec(`create table membership(
		CommunityID text not null,
		UserID      text not null,
		Role        tinyint not null default 0,
		primary key(CommunityID, UserID)
	)`)
	if err != nil {
		return fmt.Errorf("creating membership table: %w", err)
	}

	return nil
}
