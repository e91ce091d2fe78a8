package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yockii/md2docx/internal/constant"
	"github.com/yockii/md2docx/internal/model"
	"github.com/yockii/md2docx/pkg/config"
	"github.com/yockii/md2docx/pkg/database"
)

// memoryCache 记录读写次数的内存缓存
type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	failGet bool
	failSet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failGet {
		return nil, false, errors.New("connection refused")
	}
	blob, ok := m.data[key]
	return blob, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.failSet {
		return errors.New("connection refused")
	}
	m.data[key] = blob
	return nil
}

func (m *memoryCache) Close() error { return nil }

// testDB 内存SQLite，驱动不可用时跳过
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:", gormlogger.Silent)
	if err != nil {
		t.Skipf("skipping storage test: sqlite unavailable: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestConvertValidation(t *testing.T) {
	svc := NewConversionService(nil, nil)
	ctx := context.Background()

	_, err := svc.Convert(ctx, &ConvertRequest{Markdown: "  \n "})
	assert.True(t, errors.Is(err, constant.ErrEmptyMarkdown))

	_, err = svc.Convert(ctx, &ConvertRequest{Markdown: "# ok", AccentColor: "blue"})
	assert.True(t, errors.Is(err, constant.ErrInvalidColor))

	_, err = svc.Convert(ctx, nil)
	assert.True(t, errors.Is(err, constant.ErrInvalidParams))
}

func TestConvertTooLarge(t *testing.T) {
	config.Set("docgen.max_markdown_bytes", 16)
	t.Cleanup(func() { config.Set("docgen.max_markdown_bytes", 2*1024*1024) })

	svc := NewConversionService(nil, nil)
	_, err := svc.Convert(context.Background(), &ConvertRequest{Markdown: strings.Repeat("a", 17)})
	assert.True(t, errors.Is(err, constant.ErrMarkdownTooLarge))
}

func TestConvertAppliesDefaults(t *testing.T) {
	svc := NewConversionService(nil, nil)
	res, err := svc.Convert(context.Background(), &ConvertRequest{Markdown: "# Title\n\nbody"})
	require.NoError(t, err)

	assert.Equal(t, "AI Safety Net", res.Options.Organisation)
	assert.Equal(t, "AI Safety Net", res.Options.Title)
	assert.Equal(t, "1B2A4A", res.Options.AccentColor)
	assert.Equal(t, 2, res.BlockCount)
	assert.Equal(t, "AI_Safety_Net.docx", res.FileName)
	assert.Zero(t, res.ID)
	assert.True(t, strings.HasPrefix(string(res.Document), "PK"))
}

func TestConvertUsesCache(t *testing.T) {
	c := newMemoryCache()
	svc := NewConversionService(nil, c)
	req := &ConvertRequest{Markdown: "- a\n- b", AccentColor: "#abcdef"}

	first, err := svc.Convert(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 1, c.sets)

	second, err := svc.Convert(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.CacheKey, second.CacheKey)
	assert.Equal(t, first.Document, second.Document)
	assert.Equal(t, 1, c.sets)

	other, err := svc.Convert(context.Background(), &ConvertRequest{Markdown: "- a\n- b", AccentColor: "#000000"})
	require.NoError(t, err)
	assert.NotEqual(t, first.CacheKey, other.CacheKey)
}

func TestConvertCacheFailureIsNotFatal(t *testing.T) {
	c := newMemoryCache()
	c.failGet, c.failSet = true, true
	svc := NewConversionService(nil, c)

	res, err := svc.Convert(context.Background(), &ConvertRequest{Markdown: "text"})
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.NotEmpty(t, res.Document)
}

func TestConvertRecordsConversion(t *testing.T) {
	db := testDB(t)
	svc := NewConversionService(db, nil)
	ctx := context.Background()

	res, err := svc.Convert(ctx, &ConvertRequest{Markdown: "# One", Organisation: "Acme"})
	require.NoError(t, err)
	require.NotZero(t, res.ID)

	rec, err := svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec.Organisation)
	assert.Equal(t, 1, rec.BlockCount)
	assert.Equal(t, len(res.Document), rec.ByteSize)
	assert.Len(t, rec.SourceHash, 64)
	assert.Equal(t, res.CacheKey, rec.CacheKey)

	_, err = svc.Convert(ctx, &ConvertRequest{Markdown: "# Two", Organisation: "Other"})
	require.NoError(t, err)

	items, total, err := svc.List(ctx, &model.Conversion{Organisation: "Acme"}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, res.ID, items[0].ID)

	_, total, err = svc.List(ctx, nil, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, err = svc.Get(ctx, 12345)
	assert.True(t, errors.Is(err, constant.ErrRecordNotFound))
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"report.docx":         "report.docx",
		"../../etc/passwd":    "passwd.docx",
		"Quarterly Review.md": "Quarterly_Review.docx",
		`C:\tmp\a"b.docx`:     "ab.docx",
		"***":                 "document.docx",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFileName(in, "ignored"), in)
	}
	assert.Equal(t, "Board_Pack.docx", SanitizeFileName("", "Board Pack"))
}

func TestNormalizePage(t *testing.T) {
	offset, limit := NormalizePage(-5, 0)
	assert.Equal(t, 0, offset)
	assert.Equal(t, DefaultPageSize, limit)

	_, limit = NormalizePage(0, 1000)
	assert.Equal(t, MaxPageSize, limit)
}
