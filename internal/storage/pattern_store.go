package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/annel0/blockedit/internal/logging"
	"github.com/annel0/blockedit/internal/protocol"
	"github.com/annel0/blockedit/internal/world/block"
	"github.com/dgraph-io/badger/v3"
)

// ErrStoreClosed возвращается при обращении к закрытому хранилищу
var ErrStoreClosed = errors.New("pattern store is closed")

const patternKeyPrefix = "pattern:"

// PatternStore хранит именованные наборы блоков и шаблонов (маски замены, фильтры).
// Значения - сжатый бинарный формат protocol, упакованные данные сохраняются бит в бит.
type PatternStore struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
	logger  *logging.Logger
}

// NewPatternStore открывает хранилище в каталоге dataPath
func NewPatternStore(dataPath string) (*PatternStore, error) {
	dbPath := filepath.Join(dataPath, "patterns")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &PatternStore{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		logger:  logging.GetStorageLogger(),
	}, nil
}

// Close закрывает хранилище
func (ps *PatternStore) Close() error {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	if !ps.isReady {
		return nil
	}

	ps.isReady = false
	return ps.db.Close()
}

func patternKey(name string) []byte {
	return []byte(patternKeyPrefix + name)
}

// Save сохраняет набор под именем name, заменяя предыдущий
func (ps *PatternStore) Save(ctx context.Context, name string, ids []block.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("имя набора не может быть пустым")
	}

	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	if !ps.isReady {
		return ErrStoreClosed
	}

	data, err := protocol.CompressIdentities(ids)
	if err != nil {
		return fmt.Errorf("ошибка сериализации набора %s: %w", name, err)
	}

	err = ps.db.Update(func(txn *badger.Txn) error {
		return txn.Set(patternKey(name), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	ps.logger.Debug("Набор %s сохранён: %d блоков, %d байт", name, len(ids), len(data))
	return nil
}

// Load загружает набор по имени; found == false, если набора нет
func (ps *PatternStore) Load(ctx context.Context, name string) ([]block.Identity, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	if !ps.isReady {
		return nil, false, ErrStoreClosed
	}

	var data []byte
	err := ps.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(patternKey(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	ids, err := protocol.DecompressIdentities(data)
	if err != nil {
		return nil, false, fmt.Errorf("набор %s: %w", name, err)
	}
	return ids, true, nil
}

// Delete удаляет набор; отсутствие набора не считается ошибкой
func (ps *PatternStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	if !ps.isReady {
		return ErrStoreClosed
	}

	err := ps.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(patternKey(name))
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления из BadgerDB: %w", err)
	}
	return nil
}

// List возвращает имена сохранённых наборов в порядке ключей
func (ps *PatternStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	if !ps.isReady {
		return nil, ErrStoreClosed
	}

	var names []string
	err := ps.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(patternKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), patternKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}
	return names, nil
}

// MatchAny проверяет, совпадает ли candidate хотя бы с одним блоком набора name
func (ps *PatternStore) MatchAny(ctx context.Context, name string, candidate block.Identity) (bool, error) {
	ids, found, err := ps.Load(ctx, name)
	if err != nil {
		return false, err
	}
	if !found {
		return false, fmt.Errorf("набор %s не найден", name)
	}

	for _, id := range ids {
		if id.EqualsFuzzy(candidate) {
			return true, nil
		}
	}
	return false, nil
}
