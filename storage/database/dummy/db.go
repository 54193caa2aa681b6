// Package dummydb provides in-memory repositories for tests.
package dummydb

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/fundi/core"
	"github.com/trezcool/fundi/core/directory"
	"github.com/trezcool/fundi/core/draw"
	"github.com/trezcool/fundi/core/project"
	"github.com/trezcool/fundi/core/schedule"
	"github.com/trezcool/fundi/core/task"
	"github.com/trezcool/fundi/core/user"
)

type (
	DB struct {
		sqlStub

		user     *userTable
		project  *projectTable
		schedule *scheduleTable
		task     *taskTable
		dir      *directoryTable
		draw     *drawTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
	projectTable struct {
		sync.RWMutex
		table map[string]*project.Project
	}
	scheduleTable struct {
		sync.RWMutex
		items map[string]*schedule.Item
		deps  map[string]*schedule.Dependency
	}
	taskTable struct {
		sync.RWMutex
		table map[string]*task.Task
	}
	directoryTable struct {
		sync.RWMutex
		companies map[string]*directory.Company
		contacts  map[string]*directory.Contact
	}
	drawTable struct {
		sync.RWMutex
		table map[string]*draw.Draw
	}
)

var _ core.DB = (*DB)(nil)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		project:  &projectTable{table: make(map[string]*project.Project)},
		schedule: &scheduleTable{items: make(map[string]*schedule.Item), deps: make(map[string]*schedule.Dependency)},
		task:     &taskTable{table: make(map[string]*task.Task)},
		dir:      &directoryTable{companies: make(map[string]*directory.Company), contacts: make(map[string]*directory.Contact)},
		draw:     &drawTable{table: make(map[string]*draw.Draw)},
	}
	return db, nil
}

func (db *DB) BeginTx(context.Context, *sql.TxOptions) (core.DBTransactor, error) {
	return noopTx{}, nil
}

// Reset empties all tables.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.project.Lock()
	db.project.table = make(map[string]*project.Project)
	db.project.Unlock()

	db.schedule.Lock()
	db.schedule.items = make(map[string]*schedule.Item)
	db.schedule.deps = make(map[string]*schedule.Dependency)
	db.schedule.Unlock()

	db.task.Lock()
	db.task.table = make(map[string]*task.Task)
	db.task.Unlock()

	db.dir.Lock()
	db.dir.companies = make(map[string]*directory.Company)
	db.dir.contacts = make(map[string]*directory.Contact)
	db.dir.Unlock()

	db.draw.Lock()
	db.draw.table = make(map[string]*draw.Draw)
	db.draw.Unlock()
}

// noopTx satisfies core.DBTransactor; repositories here never touch SQL.
type noopTx struct {
	sqlStub
}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

var errNoSQL = errors.New("dummydb: raw SQL not supported")

type sqlStub struct{}

func (sqlStub) Exec(string, ...interface{}) (sql.Result, error) { return nil, errNoSQL }
func (sqlStub) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errNoSQL
}
func (sqlStub) Query(string, ...interface{}) (*sql.Rows, error) { return nil, errNoSQL }
func (sqlStub) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errNoSQL
}
func (sqlStub) QueryRow(string, ...interface{}) *sql.Row                         { return nil }
func (sqlStub) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }
