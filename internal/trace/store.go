package trace

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/resolver"
)

//go:embed schema.sql
var schemaSQL string

// Store persists recorded runs in SQLite. It sits entirely off the hot
// path: the engine never touches it, only recorder snapshots and the
// CLI's replay/trace commands.
type Store struct {
	db *sql.DB
}

// Open creates or opens a trace database at path.
//
// The database is configured with WAL mode for concurrent reads, NORMAL
// synchronous mode, a 5-second busy timeout, and foreign key enforcement.
// Idempotent: safe to call on an existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open trace db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect trace db: %w", err)
	}

	// SQLite allows one writer; keep the pool at a single connection to
	// avoid SQLITE_BUSY on interleaved writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply trace schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun writes one run in a single transaction. Re-saving the same run
// id is rejected by the primary key; runs are immutable once written.
func (s *Store) SaveRun(ctx context.Context, run Run, note string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, note) VALUES (?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(time.RFC3339Nano), note,
	); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}

	for _, t := range run.Ticks {
		if err := saveTick(ctx, tx, run.ID, t); err != nil {
			return fmt.Errorf("save run %s: %w", run.ID, err)
		}
	}
	for seq, res := range run.Resolutions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO resolutions (run_id, seq, frame, input, resolved, source)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, seq, int64(res.Frame), int64(res.Input), int64(res.Resolved), int64(res.Source),
		); err != nil {
			return fmt.Errorf("save run %s: %w", run.ID, err)
		}
	}

	return tx.Commit()
}

func saveTick(ctx context.Context, tx *sql.Tx, runID string, t Tick) error {
	snap := t.Snapshot
	hasHard, hardValid := 0, 0
	if t.HasHard {
		hasHard = 1
	}
	if t.HardValid {
		hardValid = 1
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ticks
		 (run_id, frame, job, level, target, zone, flags, gauge0, gauge1,
		  next_action, resource, resource_max, has_hard, hard_target, hard_valid)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, int64(t.Frame), int64(snap.Job), int64(snap.Level), int64(snap.Target),
		int64(snap.Zone), int64(snap.Flags), int64(snap.Gauge[0]), int64(snap.Gauge[1]),
		snap.TimeToNextAction, int64(snap.Resource), int64(snap.ResourceMax),
		hasHard, int64(t.HardTarget), hardValid,
	); err != nil {
		return err
	}

	for kind := combat.EffectKind(0); kind < combat.EffectKindCount; kind++ {
		for id, remaining := range t.Effects[kind] {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO effects (run_id, frame, kind, effect_id, remaining)
				 VALUES (?, ?, ?, ?, ?)`,
				runID, int64(t.Frame), int64(kind), int64(id), remaining,
			); err != nil {
				return err
			}
		}
	}
	for slot, c := range t.Candidates {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO candidates (run_id, frame, slot, entity_id, hp, flags)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, int64(t.Frame), slot, int64(c.ID), c.HP, int64(c.Flags),
		); err != nil {
			return err
		}
	}
	return nil
}

// RunInfo is a run listing entry.
type RunInfo struct {
	ID          string
	CreatedAt   time.Time
	Note        string
	Ticks       int
	Resolutions int
}

// ListRuns returns stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.note,
		       (SELECT COUNT(*) FROM ticks t WHERE t.run_id = r.id),
		       (SELECT COUNT(*) FROM resolutions x WHERE x.run_id = r.id)
		FROM runs r ORDER BY r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var info RunInfo
		var created string
		if err := rows.Scan(&info.ID, &created, &info.Note, &info.Ticks, &info.Resolutions); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("list runs: parse created_at: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// LoadRun reads one run back, ticks and resolutions in order.
func (s *Store) LoadRun(ctx context.Context, runID string) (Run, error) {
	run := Run{ID: runID}

	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM runs WHERE id = ?`, runID).Scan(&created)
	if err == sql.ErrNoRows {
		return run, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return run, fmt.Errorf("load run %s: %w", runID, err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return run, fmt.Errorf("load run %s: parse created_at: %w", runID, err)
	}

	if run.Ticks, err = s.loadTicks(ctx, runID); err != nil {
		return run, fmt.Errorf("load run %s: %w", runID, err)
	}
	if run.Resolutions, err = s.loadResolutions(ctx, runID); err != nil {
		return run, fmt.Errorf("load run %s: %w", runID, err)
	}
	return run, nil
}

func (s *Store) loadTicks(ctx context.Context, runID string) ([]Tick, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT frame, job, level, target, zone, flags, gauge0, gauge1,
		       next_action, resource, resource_max, has_hard, hard_target, hard_valid
		FROM ticks WHERE run_id = ? ORDER BY frame`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ticks []Tick
	for rows.Next() {
		var t Tick
		var frame, job, level, target, zone, flags, g0, g1, res, resMax, hasHard, hard, hardValid int64
		if err := rows.Scan(&frame, &job, &level, &target, &zone, &flags, &g0, &g1,
			&t.Snapshot.TimeToNextAction, &res, &resMax, &hasHard, &hard, &hardValid); err != nil {
			return nil, err
		}
		t.Frame = combat.FrameStamp(frame)
		t.Snapshot.Frame = combat.FrameStamp(frame)
		t.Snapshot.Job = combat.JobID(job)
		t.Snapshot.Level = uint8(level)
		t.Snapshot.Target = combat.EntityID(target)
		t.Snapshot.Zone = combat.ZoneID(zone)
		t.Snapshot.Flags = combat.StateFlags(flags)
		t.Snapshot.Gauge[0] = uint64(g0)
		t.Snapshot.Gauge[1] = uint64(g1)
		t.Snapshot.Resource = uint32(res)
		t.Snapshot.ResourceMax = uint32(resMax)
		t.HasHard = hasHard != 0
		t.HardTarget = combat.EntityID(hard)
		t.HardValid = hardValid != 0
		ticks = append(ticks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range ticks {
		if err := s.loadTickDetail(ctx, runID, &ticks[i]); err != nil {
			return nil, err
		}
	}
	return ticks, nil
}

func (s *Store) loadTickDetail(ctx context.Context, runID string, t *Tick) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, effect_id, remaining FROM effects
		 WHERE run_id = ? AND frame = ? ORDER BY kind, effect_id`,
		runID, int64(t.Frame))
	if err != nil {
		return err
	}
	for rows.Next() {
		var kind, id int64
		var remaining float64
		if err := rows.Scan(&kind, &id, &remaining); err != nil {
			rows.Close()
			return err
		}
		k := combat.EffectKind(kind)
		if k < combat.EffectKindCount {
			if t.Effects[k] == nil {
				t.Effects[k] = make(map[combat.EffectID]float64)
			}
			t.Effects[k][combat.EffectID(id)] = remaining
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}

	crows, err := s.db.QueryContext(ctx,
		`SELECT entity_id, hp, flags FROM candidates
		 WHERE run_id = ? AND frame = ? ORDER BY slot`,
		runID, int64(t.Frame))
	if err != nil {
		return err
	}
	defer crows.Close()
	for crows.Next() {
		var id, flags int64
		var hp float64
		if err := crows.Scan(&id, &hp, &flags); err != nil {
			return err
		}
		t.Candidates = append(t.Candidates, Candidate{
			ID:    combat.EntityID(id),
			HP:    hp,
			Flags: combat.EntityFlags(flags),
		})
	}
	return crows.Err()
}

func (s *Store) loadResolutions(ctx context.Context, runID string) ([]Resolution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT frame, input, resolved, source FROM resolutions
		 WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resolutions []Resolution
	for rows.Next() {
		var frame, input, resolved, source int64
		if err := rows.Scan(&frame, &input, &resolved, &source); err != nil {
			return nil, err
		}
		resolutions = append(resolutions, Resolution{
			Frame:    combat.FrameStamp(frame),
			Input:    combat.ActionID(input),
			Resolved: combat.ActionID(resolved),
			Source:   resolver.Source(source),
		})
	}
	return resolutions, rows.Err()
}
