// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/xenv"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a memory db lives as long as its single connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// NewestBlock returns the highest block number having events.
func (db *LogDB) NewestBlock(ctx context.Context) (uint32, bool, error) {
	var n sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(blockNumber) FROM event").Scan(&n); err != nil {
		return 0, false, err
	}
	if !n.Valid {
		return 0, false, nil
	}
	return uint32(n.Int64), true, nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT blockNumber, eventIndex, blockTime, caller, address, topic0, topic1, topic2, topic3, data FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY blockNumber ASC, eventIndex ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := query + " WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND blockNumber >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND blockNumber <= ?"
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ?"
		}
		if criteria.Caller != nil {
			args = append(args, criteria.Caller.Bytes())
			stmt += " AND caller = ?"
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%d = ?", j)
			}
		}
		stmt += " )"
		if i == len(filter.CriteriaSet)-1 {
			stmt += " )"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY blockNumber DESC, eventIndex DESC"
	} else {
		stmt += " ORDER BY blockNumber ASC, eventIndex ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			event   Event
			caller  []byte
			address []byte
			topics  [4][]byte
		)
		if err := rows.Scan(
			&event.BlockNumber,
			&event.Index,
			&event.BlockTime,
			&caller,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&event.Data,
		); err != nil {
			return nil, err
		}
		event.Caller = thor.BytesToAddress(caller)
		event.Address = thor.BytesToAddress(address)
		for i, topic := range topics {
			if len(topic) > 0 {
				h := thor.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func topicValue(topic *thor.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

// Prepare starts collecting the events of a block.
func (db *LogDB) Prepare(block xenv.BlockContext) *BlockBatch {
	return &BlockBatch{db: db.db, block: block}
}

type BlockBatch struct {
	db     *sql.DB
	block  xenv.BlockContext
	events []*Event
}

// Insert appends the logs emitted by one call of caller.
func (bb *BlockBatch) Insert(caller thor.Address, logs ...*Log) *BlockBatch {
	for _, l := range logs {
		ev := &Event{
			BlockNumber: bb.block.Number,
			Index:       uint32(len(bb.events)),
			BlockTime:   bb.block.Time,
			Caller:      caller,
			Address:     l.Address,
			Data:        l.Data,
		}
		for i := 0; i < len(l.Topics) && i < len(ev.Topics); i++ {
			topic := l.Topics[i]
			ev.Topics[i] = &topic
		}
		bb.events = append(bb.events, ev)
	}
	return bb
}

func (bb *BlockBatch) Len() int { return len(bb.events) }

func (bb *BlockBatch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := bb.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Commit writes the batch in one transaction.
func (bb *BlockBatch) Commit() error {
	defer func(start time.Time) {
		metricWriteDuration().Observe(time.Since(start).Milliseconds())
	}(time.Now())

	return bb.execInTx(func(tx *sql.Tx) error {
		for _, event := range bb.events {
			if _, err := tx.Exec("INSERT OR REPLACE INTO event(blockNumber, eventIndex, blockTime, caller, address, topic0, topic1, topic2, topic3, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				event.BlockNumber,
				event.Index,
				event.BlockTime,
				event.Caller.Bytes(),
				event.Address.Bytes(),
				topicValue(event.Topics[0]),
				topicValue(event.Topics[1]),
				topicValue(event.Topics[2]),
				topicValue(event.Topics[3]),
				event.Data,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
