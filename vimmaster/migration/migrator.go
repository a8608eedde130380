package migration

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/vimmasterbot/vimmaster/vimmaster/database/models"
)

// Migrator imports player accounts and quest progress from the legacy
// MongoDB deployment into Postgres. It reads either mongodump .bson files
// from a data directory or a live Mongo database.
type Migrator struct {
	pgDB      *bun.DB
	dataDir   string
	batchSize int
	stats     MigrationStats

	mongoDB *mongo.Database
}

type TableStats struct {
	Read     int
	Inserted int
	Skipped  int
}

type MigrationStats struct {
	Tables    map[string]*TableStats
	StartTime time.Time
}

// legacyUser mirrors the old deployment's users collection.
type legacyUser struct {
	TelegramID   int64  `bson:"telegram_id"`
	Username     string `bson:"username"`
	FirstName    string `bson:"first_name"`
	LastName     string `bson:"last_name"`
	LanguageCode string `bson:"language_code"`
	TotalScore   int    `bson:"total_score"`
	CurrentLevel int    `bson:"current_level"`
}

// legacyProgress mirrors the old deployment's progress collection. Quest ids
// are carried over unchanged, keyed by the player's Telegram id.
type legacyProgress struct {
	TelegramID  int64      `bson:"telegram_id"`
	QuestID     int64      `bson:"quest_id"`
	IsCompleted bool       `bson:"is_completed"`
	Score       int        `bson:"score"`
	Attempts    int        `bson:"attempts"`
	HintsUsed   int        `bson:"hints_used"`
	TimeSpent   int        `bson:"time_spent"`
	CompletedAt *time.Time `bson:"completed_at"`
}

func NewMigrator(pgDB *bun.DB, dataDir string) *Migrator {
	return &Migrator{
		pgDB:      pgDB,
		dataDir:   dataDir,
		batchSize: 1000,
		stats: MigrationStats{
			Tables:    make(map[string]*TableStats),
			StartTime: time.Now(),
		},
	}
}

// SetBatchSize overrides the default batch size for inserts
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

// ConnectMongo switches the migrator from dump files to a live database.
func (m *Migrator) ConnectMongo(ctx context.Context, uri, database string) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo unreachable: %w", err)
	}
	m.mongoDB = client.Database(database)
	return nil
}

// Run migrates users first, then their progress records. Progress rows whose
// player is unknown after the user pass are skipped.
func (m *Migrator) Run(ctx context.Context) error {
	slog.Info("Starting legacy import",
		slog.String("type", "db"),
		slog.String("data_dir", m.dataDir),
		slog.Bool("live_mongo", m.mongoDB != nil))

	userIDByTelegram, err := m.migrateUsers(ctx)
	if err != nil {
		return fmt.Errorf("user migration failed: %w", err)
	}

	if err := m.migrateProgress(ctx, userIDByTelegram); err != nil {
		return fmt.Errorf("progress migration failed: %w", err)
	}

	m.logSummary()
	return nil
}

func (m *Migrator) migrateUsers(ctx context.Context) (map[int64]int64, error) {
	stats := &TableStats{}
	m.stats.Tables["users"] = stats

	var legacy []legacyUser
	if err := m.readCollection(ctx, "users", func(raw bson.Raw) error {
		var u legacyUser
		if err := bson.Unmarshal(raw, &u); err != nil {
			return err
		}
		legacy = append(legacy, u)
		return nil
	}); err != nil {
		return nil, err
	}
	stats.Read = len(legacy)

	now := time.Now()
	userIDByTelegram := make(map[int64]int64, len(legacy))

	for start := 0; start < len(legacy); start += m.batchSize {
		end := start + m.batchSize
		if end > len(legacy) {
			end = len(legacy)
		}

		batch := make([]*models.User, 0, end-start)
		for _, u := range legacy[start:end] {
			if u.TelegramID == 0 {
				stats.Skipped++
				continue
			}
			lang := u.LanguageCode
			if lang == "" {
				lang = "en"
			}
			level := u.CurrentLevel
			if level < 1 {
				level = 1
			}
			batch = append(batch, &models.User{
				TelegramID:   u.TelegramID,
				Username:     u.Username,
				FirstName:    u.FirstName,
				LastName:     u.LastName,
				LanguageCode: lang,
				Status:       models.UserStatusActive,
				TotalScore:   u.TotalScore,
				CurrentLevel: level,
				CreatedAt:    now,
				UpdatedAt:    now,
				LastActivity: now,
			})
		}
		if len(batch) == 0 {
			continue
		}

		_, err := m.pgDB.NewInsert().
			Model(&batch).
			On("CONFLICT (telegram_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return nil, err
		}
		stats.Inserted += len(batch)
	}

	// Re-read ids so progress rows can be keyed, including users that
	// already existed before this run.
	var users []*models.User
	if err := m.pgDB.NewSelect().
		Model(&users).
		Column("id", "telegram_id").
		Scan(ctx); err != nil {
		return nil, err
	}
	for _, u := range users {
		userIDByTelegram[u.TelegramID] = u.ID
	}

	return userIDByTelegram, nil
}

func (m *Migrator) migrateProgress(ctx context.Context, userIDByTelegram map[int64]int64) error {
	stats := &TableStats{}
	m.stats.Tables["progress"] = stats

	var legacy []legacyProgress
	if err := m.readCollection(ctx, "progress", func(raw bson.Raw) error {
		var p legacyProgress
		if err := bson.Unmarshal(raw, &p); err != nil {
			return err
		}
		legacy = append(legacy, p)
		return nil
	}); err != nil {
		return err
	}
	stats.Read = len(legacy)

	now := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	var inserted int64

	for start := 0; start < len(legacy); start += m.batchSize {
		end := start + m.batchSize
		if end > len(legacy) {
			end = len(legacy)
		}

		batch := make([]*models.UserProgress, 0, end-start)
		for _, p := range legacy[start:end] {
			userID, ok := userIDByTelegram[p.TelegramID]
			if !ok || p.QuestID == 0 {
				stats.Skipped++
				continue
			}
			attempts := p.Attempts
			if attempts < 1 {
				attempts = 1
			}
			batch = append(batch, &models.UserProgress{
				UserID:      userID,
				QuestID:     p.QuestID,
				IsCompleted: p.IsCompleted,
				Score:       p.Score,
				Attempts:    attempts,
				HintsUsed:   p.HintsUsed,
				TimeSpent:   p.TimeSpent,
				CompletedAt: p.CompletedAt,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
		if len(batch) == 0 {
			continue
		}

		g.Go(func() error {
			_, err := m.pgDB.NewInsert().
				Model(&batch).
				On("CONFLICT (user_id, quest_id) DO NOTHING").
				Exec(gctx)
			if err != nil {
				return err
			}
			atomic.AddInt64(&inserted, int64(len(batch)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	stats.Inserted = int(inserted)
	return nil
}

// readCollection streams documents from a live Mongo collection when
// connected, otherwise from <dataDir>/<name>.bson mongodump output.
func (m *Migrator) readCollection(ctx context.Context, name string, fn func(bson.Raw) error) error {
	if m.mongoDB != nil {
		cursor, err := m.mongoDB.Collection(name).Find(ctx, bson.M{})
		if err != nil {
			return fmt.Errorf("failed to read collection %s: %w", name, err)
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			if err := fn(bson.Raw(cursor.Current)); err != nil {
				return err
			}
		}
		return cursor.Err()
	}

	path := filepath.Join(m.dataDir, name+".bson")
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dump %s: %w", path, err)
	}
	defer file.Close()

	// mongodump writes documents back to back, each prefixed with its
	// little-endian int32 total length.
	for {
		var sizeBuf [4]byte
		if _, err := io.ReadFull(file, sizeBuf[:]); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		size := int(binary.LittleEndian.Uint32(sizeBuf[:]))
		if size < 5 {
			return fmt.Errorf("corrupt document in %s: size %d", path, size)
		}

		doc := make([]byte, size)
		copy(doc, sizeBuf[:])
		if _, err := io.ReadFull(file, doc[4:]); err != nil {
			return err
		}

		if err := fn(bson.Raw(doc)); err != nil {
			return err
		}
	}
}

func (m *Migrator) logSummary() {
	elapsed := time.Since(m.stats.StartTime)
	for table, stats := range m.stats.Tables {
		slog.Info("Migration table finished",
			slog.String("type", "db"),
			slog.String("table", table),
			slog.Int("read", stats.Read),
			slog.Int("inserted", stats.Inserted),
			slog.Int("skipped", stats.Skipped))
	}
	slog.Info("Legacy import finished",
		slog.String("type", "db"),
		slog.Duration("elapsed", elapsed))
}
