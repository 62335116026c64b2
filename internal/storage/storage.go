package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
)

// Storage keys
const (
	keyStats     = "stats"
	keyGameSeq   = "seq/game"
	prefixGame   = "game/"
	prefixEval   = "eval/"
	gameSeqLease = 16
)

// ErrGameNotFound is returned by LoadGame for an unknown id.
var ErrGameNotFound = errors.New("game not found")

// GameRecord is an archived game.
type GameRecord struct {
	ID       uint64        `json:"id"`
	Game     string        `json:"game"`
	Start    string        `json:"start"`
	First    string        `json:"first"`
	Second   string        `json:"second"`
	Moves    []string      `json:"moves"`
	Result   string        `json:"result"`
	Reason   string        `json:"reason"`
	Played   time.Time     `json:"played"`
	Duration time.Duration `json:"duration"`
}

// Stats aggregates archived game results. Games stopped before a result are counted in
// Unfinished only.
type Stats struct {
	GamesPlayed   int            `json:"games_played"`
	FirstWins     int            `json:"first_wins"`
	SecondWins    int            `json:"second_wins"`
	Draws         int            `json:"draws"`
	Unfinished    int            `json:"unfinished"`
	WinsByAgent   map[string]int `json:"wins_by_agent"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{WinsByAgent: make(map[string]int)}
}

// DrawRate returns the share of drawn games as a percentage (0-100).
func (s *Stats) DrawRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.GamesPlayed) * 100
}

// Storage wraps BadgerDB for persistent storage. It is safe for concurrent use.
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
	enc *zstd.Encoder
	dec *zstd.Decoder
	log zerolog.Logger

	// statsMu serialises SaveGame: every save rewrites the stats key.
	statsMu sync.Mutex
}

type settings struct {
	log      zerolog.Logger
	inMemory bool
}

// Option configures Open.
type Option func(*settings)

// WithLogger forwards database warnings and errors to log.
func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) {
		s.log = log
	}
}

// InMemory keeps the database in memory; dir is ignored.
func InMemory() Option {
	return func(s *settings) {
		s.inMemory = true
	}
}

// Open opens (creating if needed) the database in dir. An empty dir selects GetDatabaseDir.
func Open(dir string, opts ...Option) (*Storage, error) {
	cfg := settings{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var bopts badger.Options
	if cfg.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if dir == "" {
			var err error
			if dir, err = GetDatabaseDir(); err != nil {
				return nil, err
			}
		}
		bopts = badger.DefaultOptions(dir)
	}
	bopts.Logger = badgerLogger{cfg.log}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	seq, err := db.GetSequence([]byte(keyGameSeq), gameSeqLease)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("game sequence: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	cfg.log.Debug().Str("dir", dir).Bool("in_memory", cfg.inMemory).Msg("storage opened")
	return &Storage{db: db, seq: seq, enc: enc, dec: dec, log: cfg.log}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	s.dec.Close()
	err := errors.Join(s.seq.Release(), s.enc.Close(), s.db.Close())
	s.db = nil
	return err
}

func evalKey(namespace string, hash uint64) []byte {
	key := make([]byte, 0, len(prefixEval)+len(namespace)+1+8)
	key = append(key, prefixEval...)
	key = append(key, namespace...)
	key = append(key, '/')
	return binary.BigEndian.AppendUint64(key, hash)
}

// PutEval stores the score of the position with the given hash under namespace.
func (s *Storage) PutEval(namespace string, hash uint64, score float64) error {
	val := binary.BigEndian.AppendUint64(nil, math.Float64bits(score))
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(evalKey(namespace, hash), val)
	})
}

// GetEval returns the stored score of the position with the given hash.
func (s *Storage) GetEval(namespace string, hash uint64) (float64, bool, error) {
	var score float64
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(evalKey(namespace, hash))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("eval entry: %d bytes", len(val))
			}
			score = math.Float64frombits(binary.BigEndian.Uint64(val))
			found = true
			return nil
		})
	})

	return score, found, err
}

func gameKey(id uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte(prefixGame), id)
}

// SaveGame assigns rec an id, archives it compressed and folds it into the statistics.
func (s *Storage) SaveGame(rec *GameRecord) error {
	id, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("next game id: %w", err)
	}
	rec.ID = id + 1

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	packed := s.enc.EncodeAll(data, nil)

	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(gameKey(rec.ID), packed); err != nil {
			return err
		}

		stats, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats.record(rec)

		raw, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), raw)
	})
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}

	s.log.Debug().Uint64("id", rec.ID).Int("bytes", len(packed)).Int("raw", len(data)).Msg("game archived")
	return nil
}

// LoadGame returns the archived game with the given id.
func (s *Storage) LoadGame(id uint64) (*GameRecord, error) {
	var rec GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %d", ErrGameNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return s.decodeGame(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// ListGames returns every archived game in id order.
func (s *Storage) ListGames() ([]GameRecord, error) {
	var games []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixGame)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec GameRecord
			if err := it.Item().Value(func(val []byte) error {
				return s.decodeGame(val, &rec)
			}); err != nil {
				return err
			}
			games = append(games, rec)
		}
		return nil
	})

	return games, err
}

func (s *Storage) decodeGame(val []byte, rec *GameRecord) error {
	data, err := s.dec.DecodeAll(val, nil)
	if err != nil {
		return fmt.Errorf("decompress game: %w", err)
	}
	return json.Unmarshal(data, rec)
}

// LoadStats loads result statistics, returns empty stats if none were recorded
func (s *Storage) LoadStats() (*Stats, error) {
	var stats *Stats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}

func loadStats(txn *badger.Txn) (*Stats, error) {
	stats := NewStats()

	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	if stats.WinsByAgent == nil {
		stats.WinsByAgent = make(map[string]int)
	}
	return stats, err
}

func (s *Stats) record(rec *GameRecord) {
	s.TotalPlayTime += rec.Duration
	if rec.Result == "*" {
		s.Unfinished++
		return
	}
	s.GamesPlayed++

	switch rec.Result {
	case "1-0":
		s.FirstWins++
		s.WinsByAgent[rec.First]++
	case "0-1":
		s.SecondWins++
		s.WinsByAgent[rec.Second]++
	default:
		s.Draws++
	}
}

// badgerLogger forwards badger's logging to zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(format, args...)
}
